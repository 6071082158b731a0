package types

// SkillRequest is the inbound envelope the voice platform posts for every
// turn.
type SkillRequest struct {
	Version string         `json:"version"`
	Session *SessionInfo   `json:"session,omitempty"`
	Request RequestPayload `json:"request"`
}

type SessionInfo struct {
	New         bool           `json:"new"`
	SessionID   string         `json:"sessionId"`
	Application Application    `json:"application"`
	User        User           `json:"user"`
	Attributes  map[string]any `json:"attributes,omitempty"`
}

type Application struct {
	ApplicationID string `json:"applicationId"`
}

type User struct {
	UserID string `json:"userId"`
}

type RequestPayload struct {
	Type      string         `json:"type"`
	RequestID string         `json:"requestId"`
	Timestamp string         `json:"timestamp,omitempty"`
	Locale    string         `json:"locale,omitempty"`
	Intent    *IntentPayload `json:"intent,omitempty"`
	// Reason is set on SessionEndedRequest.
	Reason string `json:"reason,omitempty"`
}

type IntentPayload struct {
	Name  string          `json:"name"`
	Slots map[string]Slot `json:"slots,omitempty"`
}

type Slot struct {
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
}

// SkillResponse is the outbound envelope for a turn that speaks.
// SessionAttributes is always sent, as {} when the bag is empty.
type SkillResponse struct {
	Version           string             `json:"version"`
	SessionAttributes map[string]any     `json:"sessionAttributes"`
	Response          *SpeechletResponse `json:"response,omitempty"`
}

// AckResponse answers lifecycle requests that produce nothing to say.
type AckResponse struct {
	Version string `json:"version"`
}

type SpeechletResponse struct {
	OutputSpeech     OutputSpeech `json:"outputSpeech"`
	Card             *Card        `json:"card,omitempty"`
	Reprompt         *Reprompt    `json:"reprompt,omitempty"`
	ShouldEndSession bool         `json:"shouldEndSession"`
}

type OutputSpeech struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type Card struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type Reprompt struct {
	OutputSpeech OutputSpeech `json:"outputSpeech"`
}

const (
	EnvelopeVersion = "1.0"
	SpeechPlainText = "PlainText"
	CardSimple      = "Simple"
)

// ChatRequest drives the skill from typed text instead of a platform
// envelope.
type ChatRequest struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
}

type ChatResponse struct {
	SessionID  string          `json:"sessionId"`
	Reply      string          `json:"reply"`
	Reprompt   string          `json:"reprompt,omitempty"`
	Transcript string          `json:"transcript,omitempty"`
	EndSession bool            `json:"endSession"`
	Intent     *IntentResponse `json:"intent,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// IntentResponse tells the console which intent the text was routed to.
type IntentResponse struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload,omitempty"`
}
