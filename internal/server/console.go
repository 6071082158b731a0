package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"hurricane-skill-backend/internal/log"
	"hurricane-skill-backend/internal/metrics"
	"hurricane-skill-backend/internal/nlu"
	"hurricane-skill-backend/internal/skill"
	"hurricane-skill-backend/internal/store"
	"hurricane-skill-backend/internal/types"
)

const (
	fallbackReply = "Sorry, I didn't catch that. You can tell me your favorite ocean, " +
		"or ask about this year's storms."
	consoleEndReason = "USER_INITIATED"
)

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req types.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		metrics.RecordError(metrics.ErrorBadRequest)
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		metrics.RecordError(metrics.ErrorBadRequest)
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}
	sid := s.consoleSessionID(w, r, req.SessionID)

	ctx, cancel := context.WithTimeout(r.Context(), 20*time.Second)
	defer cancel()
	out, err := s.converse(ctx, sid, req.Message, "text")
	s.writeTurn(w, r, out, err)
}

func (s *Server) handleVoice(w http.ResponseWriter, r *http.Request) {
	if s.transcriber == nil {
		writeError(w, http.StatusServiceUnavailable, "voice input requires OPENAI_API_KEY")
		return
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		metrics.RecordError(metrics.ErrorBadRequest)
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		metrics.RecordError(metrics.ErrorBadRequest)
		writeError(w, http.StatusBadRequest, "audio file is required (field 'file')")
		return
	}
	defer file.Close()
	sid := s.consoleSessionID(w, r, r.FormValue("sessionId"))

	ctx, cancel := context.WithTimeout(r.Context(), 180*time.Second)
	defer cancel()
	ctx = log.ContextWithSessionID(ctx, sid)

	text, err := s.transcriber.Transcribe(ctx, file, header.Filename)
	if err != nil {
		logger := log.WithContext(ctx, s.logger)
		logger.Error().Err(err).Msg("transcription failed")
		metrics.RecordError(metrics.ErrorUpstream)
		writeError(w, http.StatusBadGateway, "transcription failed")
		return
	}

	out, err := s.converse(ctx, sid, text, "voice")
	out.Transcript = text
	s.writeTurn(w, r, out, err)
}

// converse runs one console turn: detect the intent, route it with the stored
// attributes, store what comes back. Nothing is stored for a failed turn.
// Ending the session routes SessionEnded so the stored conversation is dropped.
func (s *Server) converse(ctx context.Context, sid, text, source string) (types.ChatResponse, error) {
	ctx = log.ContextWithSessionID(ctx, sid)
	out := types.ChatResponse{SessionID: sid}

	sess := skill.Session{
		ID:         sid,
		New:        !s.store.Exists(sid),
		Attributes: s.store.Attributes(sid),
	}
	res, err := s.detector.Detect(ctx, text, turns(s.store.Get(sid)))
	if err != nil {
		metrics.RecordError(metrics.ErrorUpstream)
		return out, err
	}
	metrics.RecordConsoleTurn(source, string(res.Kind))
	if sess.New {
		sess, _, _ = s.route(ctx, skill.SessionStarted{RequestID: newRequestID()}, sess)
	}

	var req skill.Request
	switch res.Kind {
	case nlu.KindLaunch:
		req = skill.Launch{RequestID: newRequestID()}
		out.Intent = &types.IntentResponse{Type: string(nlu.KindLaunch)}
	case nlu.KindIntent:
		req = skill.IntentRequest{RequestID: newRequestID(), Intent: res.Intent}
		out.Intent = &types.IntentResponse{
			Type:    string(nlu.KindIntent),
			Payload: map[string]any{"name": res.Intent.Name, "slots": res.Intent.Slots},
		}
	default:
		out.Reply = res.Message
		if out.Reply == "" {
			out.Reply = fallbackReply
		}
		out.Intent = &types.IntentResponse{Type: string(nlu.KindUnknown)}
		s.store.Append(sid, store.Message{Role: "user", Content: text})
		s.store.Append(sid, store.Message{Role: "assistant", Content: out.Reply})
		return out, nil
	}

	sess, resp, err := s.route(ctx, req, sess)
	if err != nil {
		return out, err
	}
	s.store.SetAttributes(sid, sess.Attributes)
	s.store.Append(sid, store.Message{Role: "user", Content: text})
	s.store.Append(sid, store.Message{Role: "assistant", Content: resp.Speech})

	out.Reply = resp.Speech
	out.Reprompt = resp.Reprompt
	out.EndSession = resp.ShouldEndSession
	if resp.ShouldEndSession {
		_, _, _ = s.route(ctx, skill.SessionEnded{RequestID: newRequestID(), Reason: consoleEndReason}, sess)
		metrics.SetConsoleSessions(s.store.Len())
	}
	return out, nil
}

func (s *Server) writeTurn(w http.ResponseWriter, r *http.Request, out types.ChatResponse, err error) {
	if err != nil {
		status := http.StatusBadGateway
		var ui *skill.UnrecognizedIntentError
		if errors.As(err, &ui) {
			status = http.StatusUnprocessableEntity
		} else if errors.Is(err, skill.ErrRepromptOnEndSession) {
			status = http.StatusInternalServerError
		}
		logger := log.WithContext(r.Context(), s.logger)
		logger.Warn().Err(err).Str("session", out.SessionID).Msg("console turn failed")
		writeError(w, status, err.Error())
		return
	}
	if out.EndSession {
		clearSessionCookie(w, r)
	}
	writeJSON(w, http.StatusOK, out)
}

// consoleSessionID picks the session from the cookie, then the explicit ID,
// then the header, and mints a new one when none is given.
func (s *Server) consoleSessionID(w http.ResponseWriter, r *http.Request, explicit string) string {
	sid := sessionCookie(r)
	if sid == "" {
		sid = strings.TrimSpace(explicit)
	}
	if sid == "" {
		sid = r.Header.Get("X-Session-Id")
	}
	if sid == "" {
		sid = uuid.NewString()
		logger := log.WithContext(r.Context(), s.logger)
		logger.Debug().Str("session", sid).Str("path", r.URL.Path).Msg("new console session")
	}
	setSessionCookie(w, r, sid, s.cfg.SessionTTL)
	w.Header().Set("X-Session-Id", sid)
	return sid
}

func turns(msgs []store.Message) []nlu.Turn {
	out := make([]nlu.Turn, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, nlu.Turn{Role: m.Role, Content: m.Content})
	}
	return out
}

func newRequestID() string {
	return "console." + uuid.NewString()
}
