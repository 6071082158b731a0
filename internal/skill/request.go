package skill

// Request is one of SessionStarted, Launch, IntentRequest or SessionEnded.
type Request interface {
	// Type returns the wire name of the request kind.
	Type() string
	// ID returns the host-assigned request identifier.
	ID() string
	isRequest()
}

// Wire names of the request kinds.
const (
	TypeSessionStarted = "SessionStartedRequest"
	TypeLaunch         = "LaunchRequest"
	TypeIntent         = "IntentRequest"
	TypeSessionEnded   = "SessionEndedRequest"
)

type SessionStarted struct {
	RequestID string
}

type Launch struct {
	RequestID string
}

// IntentRequest carries the intent the understanding layer resolved.
type IntentRequest struct {
	RequestID string
	Intent    Intent
}

// SessionEnded is sent by the host when the conversation ends outside the
// skill's control (user silence, error, exit).
type SessionEnded struct {
	RequestID string
	Reason    string
}

func (r SessionStarted) Type() string { return TypeSessionStarted }
func (r Launch) Type() string         { return TypeLaunch }
func (r IntentRequest) Type() string  { return TypeIntent }
func (r SessionEnded) Type() string   { return TypeSessionEnded }

func (r SessionStarted) ID() string { return r.RequestID }
func (r Launch) ID() string         { return r.RequestID }
func (r IntentRequest) ID() string  { return r.RequestID }
func (r SessionEnded) ID() string   { return r.RequestID }

func (SessionStarted) isRequest() {}
func (Launch) isRequest()         {}
func (IntentRequest) isRequest()  {}
func (SessionEnded) isRequest()   {}

// Intent is a recognised user request: a name plus named slot values.
type Intent struct {
	Name  string
	Slots Slots
}

// Slots maps slot name to the recognised value. A missing key and an empty
// value both mean the slot was not filled.
type Slots map[string]string

// Value returns the slot value and whether it was filled.
func (s Slots) Value(name string) (string, bool) {
	v, ok := s[name]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
