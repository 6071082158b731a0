package skill

// Card is the visual companion to the spoken output.
type Card struct {
	Title   string
	Content string
}

// Response is what the skill says back for one turn. An empty Reprompt means
// no reprompt: the turn ends silently if the user does not answer.
type Response struct {
	Speech           string
	Card             *Card
	Reprompt         string
	ShouldEndSession bool
}

func (r Response) HasReprompt() bool { return r.Reprompt != "" }

// Build assembles a response from plain text. It refuses to combine a
// reprompt with ending the session.
func Build(title, speech, reprompt string, shouldEndSession bool) (Response, error) {
	if shouldEndSession && reprompt != "" {
		return Response{}, ErrRepromptOnEndSession
	}
	return Response{
		Speech:           speech,
		Card:             &Card{Title: title, Content: speech},
		Reprompt:         reprompt,
		ShouldEndSession: shouldEndSession,
	}, nil
}
