// Package nlu turns console text into the typed requests the skill router
// understands. The voice platform does this itself; the console needs its own.
package nlu

import (
	"context"
	"strings"
	"unicode"

	"hurricane-skill-backend/internal/skill"
)

type Kind string

const (
	KindLaunch  Kind = "launch"
	KindIntent  Kind = "intent"
	KindUnknown Kind = "unknown"
)

// Result is one classified utterance. Intent is set only for KindIntent.
type Result struct {
	Kind       Kind
	Intent     skill.Intent
	Confidence float32
	// Message is an optional reply the classifier suggests for KindUnknown.
	Message string
}

// Turn is one line of the console transcript.
type Turn struct {
	Role    string
	Content string
}

// Detector classifies the latest utterance, optionally using earlier turns.
type Detector interface {
	Detect(ctx context.Context, text string, history []Turn) (Result, error)
}

// Keywords is a rule-based Detector. It never fails.
type Keywords struct{}

func (Keywords) Detect(_ context.Context, text string, _ []Turn) (Result, error) {
	return DetectIntent(text), nil
}

// DetectIntent performs simple keyword heuristics over one utterance.
func DetectIntent(text string) Result {
	m := strings.ToLower(strings.TrimSpace(text))
	if m == "" {
		return Result{Kind: KindUnknown}
	}
	words := strings.FieldsFunc(m, func(r rune) bool { return !unicode.IsLetter(r) && r != '\'' })

	switch {
	case hasAnyWord(words, "cancel", "nevermind"):
		return intent(skill.IntentCancel, nil)
	case hasAnyWord(words, "stop", "bye", "goodbye", "quit", "exit"):
		return intent(skill.IntentStop, nil)
	case containsAny(m, "start over", "restart", "reset"):
		return intent(skill.IntentStartOver, nil)
	case hasAnyWord(words, "help"), containsAny(m, "what can you do"):
		return intent(skill.IntentHelp, nil)
	case containsAny(m, "complete list", "full list", "all the storms", "all storms"):
		return intent(skill.IntentCompleteListOfStorms, nil)
	case containsAny(m, "prior year", "previous year", "past year", "last year", "years ago"):
		return intent(skill.IntentStormsFromPriorYears, nil)
	case containsAny(m, "this year", "this years", "this year's", "this season"):
		return intent(skill.IntentThisYearsStorms, nil)
	}

	if ocean, ok := oceanIn(words); ok {
		return intent(skill.IntentSetOceanPreference, skill.Slots{skill.SlotOcean: string(ocean)})
	}
	if containsAny(m, "storm name", "storm names", "my ocean", "my preference", "which ocean") {
		return intent(skill.IntentListStormNames, nil)
	}
	if hasAnyWord(words, "open", "launch", "start", "hello", "hi", "hey") {
		return Result{Kind: KindLaunch, Confidence: 1}
	}
	return Result{Kind: KindUnknown}
}

// oceanIn maps a spoken basin to the canonical slot value, the way the
// platform's slot resolution does.
func oceanIn(words []string) (skill.Ocean, bool) {
	switch {
	case hasAnyWord(words, "atlantic"):
		return skill.OceanAtlantic, true
	case hasAnyWord(words, "pacific"):
		return skill.OceanPacific, true
	}
	return skill.OceanUnset, false
}

func intent(name string, slots skill.Slots) Result {
	return Result{Kind: KindIntent, Intent: skill.Intent{Name: name, Slots: slots}, Confidence: 1}
}

func containsAny(s string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func hasAnyWord(words []string, needles ...string) bool {
	for _, w := range words {
		for _, n := range needles {
			if w == n {
				return true
			}
		}
	}
	return false
}
