package skill

import (
	"errors"
	"fmt"
)

var (
	// ErrUnrecognizedIntent matches any *UnrecognizedIntentError.
	ErrUnrecognizedIntent = errors.New("unrecognized intent")
	// ErrUnrecognizedRequestType matches any *UnrecognizedRequestTypeError.
	ErrUnrecognizedRequestType = errors.New("unrecognized request type")
	// ErrInvalidSlotValue matches any *InvalidSlotValueError.
	ErrInvalidSlotValue = errors.New("invalid slot value")
	// ErrRepromptOnEndSession is returned by Build when a response both ends
	// the session and carries a reprompt.
	ErrRepromptOnEndSession = errors.New("reprompt set on a response that ends the session")
)

// UnrecognizedIntentError reports an intent name missing from the registry.
type UnrecognizedIntentError struct {
	Name string
}

func (e *UnrecognizedIntentError) Error() string {
	return fmt.Sprintf("unrecognized intent %q", e.Name)
}

func (e *UnrecognizedIntentError) Is(target error) bool {
	return target == ErrUnrecognizedIntent
}

// UnrecognizedRequestTypeError reports a request kind the router cannot
// dispatch.
type UnrecognizedRequestTypeError struct {
	Type string
}

func (e *UnrecognizedRequestTypeError) Error() string {
	return fmt.Sprintf("unrecognized request type %q", e.Type)
}

func (e *UnrecognizedRequestTypeError) Is(target error) bool {
	return target == ErrUnrecognizedRequestType
}

// InvalidSlotValueError is raised while resolving a slot. Handlers recover
// from it with a clarification prompt; it never leaves the router.
type InvalidSlotValueError struct {
	Slot  string
	Value string
}

func (e *InvalidSlotValueError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("slot %s: missing value", e.Slot)
	}
	return fmt.Sprintf("slot %s: invalid value %q", e.Slot, e.Value)
}

func (e *InvalidSlotValueError) Is(target error) bool {
	return target == ErrInvalidSlotValue
}
