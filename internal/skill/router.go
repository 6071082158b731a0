package skill

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"hurricane-skill-backend/internal/log"
)

// Intent names understood by the router.
const (
	IntentListStormNames       = "ListStormNames"
	IntentSetOceanPreference   = "SetOceanPreference"
	IntentStormsFromPriorYears = "StormsFromPriorYears"
	IntentThisYearsStorms      = "ThisYearsStorms"
	IntentCompleteListOfStorms = "CompleteListOfStorms"

	IntentHelp      = "AMAZON.HelpIntent"
	IntentStartOver = "AMAZON.StartOverIntent"
	IntentStop      = "AMAZON.StopIntent"
	IntentCancel    = "AMAZON.CancelIntent"
)

// DefaultRegistry returns the intent name -> handler table of the Hurricane
// Center skill.
func DefaultRegistry() map[string]Handler {
	return map[string]Handler{
		IntentListStormNames:       ListStormNames,
		IntentSetOceanPreference:   SetOceanPreference,
		IntentStormsFromPriorYears: StormsFromPriorYears,
		IntentThisYearsStorms:      ThisYearsStorms,
		IntentCompleteListOfStorms: CompleteListOfStorms,
		IntentHelp:                 Welcome,
		IntentStartOver:            Welcome,
		IntentStop:                 SessionEnd,
		IntentCancel:               SessionEnd,
	}
}

// SessionEndedHook runs when the host reports the session is over.
type SessionEndedHook func(ctx context.Context, sess Session, reason string)

// Router dispatches requests by kind and, for intents, by name. The registry
// is fixed once NewRouter returns, so a Router is safe for concurrent use.
type Router struct {
	registry       map[string]Handler
	onSessionEnded SessionEndedHook
	logger         zerolog.Logger
}

type Option func(*Router)

// WithIntent adds or replaces the handler for name.
func WithIntent(name string, h Handler) Option {
	return func(r *Router) { r.registry[name] = h }
}

// WithSessionEndedHook sets the cleanup hook for SessionEnded requests.
func WithSessionEndedHook(h SessionEndedHook) Option {
	return func(r *Router) { r.onSessionEnded = h }
}

func WithLogger(l zerolog.Logger) Option {
	return func(r *Router) { r.logger = l }
}

func NewRouter(opts ...Option) *Router {
	r := &Router{
		registry:       DefaultRegistry(),
		onSessionEnded: func(context.Context, Session, string) {},
		logger:         log.WithComponent("router"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Intents lists the registered intent names in sorted order.
func (r *Router) Intents() []string {
	out := make([]string, 0, len(r.registry))
	for name := range r.registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Handles reports whether name is in the registry.
func (r *Router) Handles(name string) bool {
	_, ok := r.registry[name]
	return ok
}

// Route runs one turn. It returns the session to carry forward and the
// response to speak; the response is nil for SessionStarted and SessionEnded.
// On error the input session is returned unchanged and no response is built.
func (r *Router) Route(ctx context.Context, req Request, sess Session) (Session, *Response, error) {
	l := log.WithContext(ctx, r.logger)

	switch v := req.(type) {
	case SessionStarted:
		l.Info().Str("request_id", v.RequestID).Str("session", sess.ID).Msg("session started")
		return sess, nil, nil

	case Launch:
		l.Info().Str("request_id", v.RequestID).Str("session", sess.ID).Msg("launch")
		return r.run(l, TypeLaunch, Welcome, Input{Attributes: sess.Attributes}, sess)

	case IntentRequest:
		h, ok := r.registry[v.Intent.Name]
		if !ok {
			l.Warn().Str("intent", v.Intent.Name).Msg("unrecognized intent")
			return sess, nil, &UnrecognizedIntentError{Name: v.Intent.Name}
		}
		l.Info().Str("request_id", v.RequestID).Str("session", sess.ID).Str("intent", v.Intent.Name).Msg("intent")
		return r.run(l, v.Intent.Name, h, Input{Slots: v.Intent.Slots, Attributes: sess.Attributes}, sess)

	case SessionEnded:
		l.Info().Str("request_id", v.RequestID).Str("session", sess.ID).Str("reason", v.Reason).Msg("session ended")
		r.onSessionEnded(ctx, sess, v.Reason)
		sess.Attributes = Attributes{}
		return sess, nil, nil
	}

	typ := "<nil>"
	if req != nil {
		typ = req.Type()
	}
	return sess, nil, &UnrecognizedRequestTypeError{Type: typ}
}

func (r *Router) run(l zerolog.Logger, name string, h Handler, in Input, sess Session) (Session, *Response, error) {
	out := h(in)
	if out.SlotErr != nil {
		l.Debug().Err(out.SlotErr).Str("intent", name).Msg("reprompting after slot error")
	}
	resp, err := Build(out.CardTitle, out.Speech, out.Reprompt, out.EndSession)
	if err != nil {
		return sess, nil, fmt.Errorf("intent %s: %w", name, err)
	}
	sess.Attributes = out.Attributes
	return sess, &resp, nil
}
