package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"hurricane-skill-backend/internal/log"
	"hurricane-skill-backend/internal/metrics"
	"hurricane-skill-backend/internal/skill"
	"hurricane-skill-backend/internal/types"
)

var errMissingIntentName = errors.New("intent request without intent name")

// handleSkill is the platform entry point: one envelope in, one envelope out.
func (s *Server) handleSkill(w http.ResponseWriter, r *http.Request) {
	var env types.SkillRequest
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		metrics.RecordError(metrics.ErrorBadRequest)
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	sess := sessionFromEnvelope(env.Session)
	ctx := log.ContextWithSessionID(r.Context(), sess.ID)
	l := log.WithContext(ctx, s.logger)

	if want := s.cfg.SkillApplicationID; want != "" && sess.ApplicationID != want {
		l.Warn().Str("application_id", sess.ApplicationID).Msg("rejecting request for another application")
		metrics.RecordError(metrics.ErrorApplicationMismatch)
		writeError(w, http.StatusForbidden, "application ID mismatch")
		return
	}

	req, err := requestFromEnvelope(env.Request)
	if err != nil {
		if errors.Is(err, skill.ErrUnrecognizedRequestType) {
			metrics.RecordRequest(env.Request.Type, metrics.OutcomeError)
			metrics.RecordError(metrics.ErrorUnrecognizedRequestType)
		} else {
			metrics.RecordError(metrics.ErrorBadRequest)
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if sess.New && req.Type() != skill.TypeSessionStarted {
		if sess, _, err = s.route(ctx, skill.SessionStarted{RequestID: req.ID()}, sess); err != nil {
			writeError(w, routeErrorStatus(err), err.Error())
			return
		}
	}

	sess, resp, err := s.route(ctx, req, sess)
	if err != nil {
		l.Warn().Err(err).Str("type", req.Type()).Msg("routing failed")
		writeError(w, routeErrorStatus(err), err.Error())
		return
	}
	if resp == nil {
		writeJSON(w, http.StatusOK, types.AckResponse{Version: types.EnvelopeVersion})
		return
	}
	writeJSON(w, http.StatusOK, envelopeFrom(sess, *resp))
}

func sessionFromEnvelope(info *types.SessionInfo) skill.Session {
	if info == nil {
		return skill.Session{}
	}
	return skill.Session{
		ID:            info.SessionID,
		New:           info.New,
		ApplicationID: info.Application.ApplicationID,
		UserID:        info.User.UserID,
		Attributes:    skill.AttributesFromMap(info.Attributes),
	}
}

func requestFromEnvelope(p types.RequestPayload) (skill.Request, error) {
	switch p.Type {
	case skill.TypeSessionStarted:
		return skill.SessionStarted{RequestID: p.RequestID}, nil
	case skill.TypeLaunch:
		return skill.Launch{RequestID: p.RequestID}, nil
	case skill.TypeIntent:
		if p.Intent == nil || strings.TrimSpace(p.Intent.Name) == "" {
			return nil, errMissingIntentName
		}
		slots := make(skill.Slots, len(p.Intent.Slots))
		for key, slot := range p.Intent.Slots {
			name := slot.Name
			if name == "" {
				name = key
			}
			slots[name] = slot.Value
		}
		return skill.IntentRequest{
			RequestID: p.RequestID,
			Intent:    skill.Intent{Name: p.Intent.Name, Slots: slots},
		}, nil
	case skill.TypeSessionEnded:
		return skill.SessionEnded{RequestID: p.RequestID, Reason: p.Reason}, nil
	}
	return nil, &skill.UnrecognizedRequestTypeError{Type: p.Type}
}

// envelopeFrom renders a spoken turn. The attribute bag is always present,
// as {} when empty.
func envelopeFrom(sess skill.Session, resp skill.Response) types.SkillResponse {
	sr := &types.SpeechletResponse{
		OutputSpeech:     types.OutputSpeech{Type: types.SpeechPlainText, Text: resp.Speech},
		ShouldEndSession: resp.ShouldEndSession,
	}
	if resp.Card != nil {
		sr.Card = &types.Card{Type: types.CardSimple, Title: resp.Card.Title, Content: resp.Card.Content}
	}
	if resp.HasReprompt() {
		sr.Reprompt = &types.Reprompt{OutputSpeech: types.OutputSpeech{Type: types.SpeechPlainText, Text: resp.Reprompt}}
	}
	return types.SkillResponse{
		Version:           types.EnvelopeVersion,
		SessionAttributes: sess.Attributes.Map(),
		Response:          sr,
	}
}
