package skill

import "fmt"

// Input is what a handler may read: the intent's slots and the session
// attributes as they stood before this turn.
type Input struct {
	Slots      Slots
	Attributes Attributes
}

// Outcome is a handler's decision for the turn. Attributes is the full bag to
// carry into the next turn.
type Outcome struct {
	Attributes Attributes
	CardTitle  string
	Speech     string
	Reprompt   string
	EndSession bool

	// SlotErr records a slot problem the handler recovered from by asking
	// again. It is informational only.
	SlotErr error
}

// Handler decides one turn. Handlers are pure: the same Input always yields
// the same Outcome.
type Handler func(in Input) Outcome

const SlotOcean = "Ocean"

const (
	welcomeSpeech = "Welcome to the Hurricane Center, the best source for information " +
		"related to tropical storms, past or present. " +
		"Please ask me what you would like to hear information about"
	welcomeReprompt = "Please tell me how I can help you by saying phrases like, " +
		"list next storm names for the Atlantic"
	goodbyeSpeech = "Thank you for using the Hurricane Center. Have a nice day!"

	unknownOceanSpeech   = "I'm not sure which ocean you are looking for. Please try again"
	unknownOceanReprompt = "I'm not sure which ocean you want information on. " +
		"Please say either Atlantic or Pacific."
	askOceanSpeech    = "Which ocean would you like details for, please say, Atlantic Ocean or Pacific Ocean"
	noActiveStorms    = "There aren't any active storms yet for this year. "
	askOceanForNames  = "If you would like to hear this years storm names " +
		"please let me know which set by saying Atlantic Ocean or Pacific Ocean"
	offerCompleteList = "If you would like the complete list, say complete list of this years storms"
)

// Welcome greets the user. Attributes pass through untouched.
func Welcome(in Input) Outcome {
	return Outcome{
		Attributes: in.Attributes,
		CardTitle:  "Welcome",
		Speech:     welcomeSpeech,
		Reprompt:   welcomeReprompt,
	}
}

// SessionEnd says goodbye, ends the session and drops every attribute.
func SessionEnd(Input) Outcome {
	return Outcome{
		Attributes: Attributes{},
		CardTitle:  "Session Ended",
		Speech:     goodbyeSpeech,
		EndSession: true,
	}
}

// SetOceanPreference stores the Ocean slot when it names a known basin and
// asks again otherwise.
func SetOceanPreference(in Input) Outcome {
	out := Outcome{Attributes: in.Attributes, CardTitle: IntentSetOceanPreference}
	ocean, err := resolveOcean(in.Slots)
	if err != nil {
		out.Speech = unknownOceanSpeech
		out.Reprompt = unknownOceanReprompt
		out.SlotErr = err
		return out
	}
	out.Attributes.Ocean = ocean
	out.Speech = fmt.Sprintf("Okay. My understanding is that you want information on the %s ocean. "+
		"Would you like to hear about this years storms, or storms from prior years?", ocean)
	out.Reprompt = fmt.Sprintf("Here is the storm information for the %s ocean.", ocean)
	return out
}

// ListStormNames reads the stored preference back to the user. No reprompt.
func ListStormNames(in Input) Outcome {
	out := Outcome{Attributes: in.Attributes, CardTitle: IntentListStormNames}
	if in.Attributes.HasOcean() {
		out.Speech = "Your ocean preference is " + string(in.Attributes.Ocean)
	} else {
		out.Speech = askOceanSpeech
	}
	return out
}

// ThisYearsStorms lists the first storm names of the season for the stored
// basin. No reprompt.
func ThisYearsStorms(in Input) Outcome {
	out := Outcome{Attributes: in.Attributes, CardTitle: IntentThisYearsStorms}
	if !in.Attributes.HasOcean() {
		out.Speech = noActiveStorms + askOceanForNames
		return out
	}
	out.Speech = fmt.Sprintf("%sThe first five storm names for the %s Ocean will be %s. %s",
		noActiveStorms, in.Attributes.Ocean, spokenList(FirstStormNames(in.Attributes.Ocean)), offerCompleteList)
	return out
}

// CompleteListOfStorms is not implemented yet and says nothing.
// TODO: read the full rotating name list once it is sourced per basin.
func CompleteListOfStorms(in Input) Outcome {
	return Outcome{Attributes: in.Attributes, CardTitle: IntentCompleteListOfStorms}
}

// StormsFromPriorYears is registered but has no behaviour yet; it says
// nothing and keeps the session open.
func StormsFromPriorYears(in Input) Outcome {
	return Outcome{Attributes: in.Attributes, CardTitle: IntentStormsFromPriorYears}
}

func resolveOcean(slots Slots) (Ocean, error) {
	v, _ := slots.Value(SlotOcean)
	o, ok := ParseOcean(v)
	if !ok {
		return OceanUnset, &InvalidSlotValueError{Slot: SlotOcean, Value: v}
	}
	return o, nil
}
