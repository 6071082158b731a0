package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"hurricane-skill-backend/internal/config"
	"hurricane-skill-backend/internal/log"
	"hurricane-skill-backend/internal/metrics"
	"hurricane-skill-backend/internal/nlu"
	"hurricane-skill-backend/internal/skill"
	"hurricane-skill-backend/internal/store"
	"hurricane-skill-backend/internal/types"
)

// Transcriber converts an uploaded audio clip to text.
type Transcriber interface {
	Transcribe(ctx context.Context, r io.Reader, filename string) (string, error)
}

type Server struct {
	router      *chi.Mux
	skill       *skill.Router
	store       *store.MemoryStore
	detector    nlu.Detector
	transcriber Transcriber
	cfg         config.Config
	logger      zerolog.Logger
}

type Option func(*Server)

// WithDetector replaces the console intent detector.
func WithDetector(d nlu.Detector) Option {
	return func(s *Server) { s.detector = d }
}

func WithTranscriber(t Transcriber) Option {
	return func(s *Server) { s.transcriber = t }
}

// NewServer wires the skill router, console store and NLU adapters behind a
// chi mux. Without an OpenAI key the console uses keyword detection and voice
// input is disabled.
func NewServer(cfg config.Config, opts ...Option) (*Server, error) {
	s := &Server{
		router:   chi.NewRouter(),
		store:    store.NewMemoryStore(cfg.MaxTranscriptMessages, cfg.SessionTTL),
		detector: nlu.Keywords{},
		cfg:      cfg,
		logger:   log.WithComponent("server"),
	}
	s.skill = skill.NewRouter(
		skill.WithLogger(log.WithComponent("router")),
		skill.WithSessionEndedHook(func(_ context.Context, sess skill.Session, _ string) {
			s.store.Delete(sess.ID)
		}),
	)

	if cfg.OpenAIEnabled() {
		oc := openai.DefaultConfig(cfg.OpenAIAPIKey)
		if cfg.OpenAIBaseURL != "" {
			oc.BaseURL = cfg.OpenAIBaseURL
		}
		client := openai.NewClientWithConfig(oc)
		classifier, err := nlu.LoadClassifier(cfg.IntentPromptPath, client, cfg.Model)
		if err != nil {
			return nil, fmt.Errorf("failed to load intent classifier: %w", err)
		}
		s.detector = classifier
		s.transcriber = nlu.NewTranscriber(client, cfg.STTModel)
	}

	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	r := s.router
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{s.cfg.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With", "X-Session-Id"},
		ExposedHeaders:   []string{"X-Session-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		if s.cfg.RateLimitPerMin > 0 {
			r.Use(rateLimit(s.cfg.RateLimitPerMin, time.Minute))
		}
		r.Get("/health", s.handleHealth)
		r.Get("/intents", s.handleIntents)
		r.Post("/skill", s.handleSkill)
		if s.cfg.ConsoleEnabled {
			r.Post("/chat", s.handleChat)
			r.Post("/voice", s.handleVoice)
		}
	})
}

func (s *Server) Router() http.Handler { return s.router }

// Sweep drops expired console conversations and refreshes the session gauge.
func (s *Server) Sweep() int {
	n := s.store.Sweep()
	metrics.SetConsoleSessions(s.store.Len())
	return n
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleIntents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"intents": s.skill.Intents()})
}

// route runs one request through the skill router and records its outcome.
func (s *Server) route(ctx context.Context, req skill.Request, sess skill.Session) (skill.Session, *skill.Response, error) {
	out, resp, err := s.skill.Route(ctx, req, sess)

	typ := "<nil>"
	if req != nil {
		typ = req.Type()
	}
	if ir, ok := req.(skill.IntentRequest); ok {
		metrics.RecordIntent(ir.Intent.Name)
	}
	if err != nil {
		metrics.RecordRequest(typ, metrics.OutcomeError)
		metrics.RecordError(errorKind(err))
		return out, nil, err
	}
	metrics.RecordRequest(typ, metrics.OutcomeOK)
	return out, resp, nil
}

// errorKind maps a routing error to its metrics label.
func errorKind(err error) string {
	switch {
	case errors.Is(err, skill.ErrUnrecognizedIntent):
		return metrics.ErrorUnrecognizedIntent
	case errors.Is(err, skill.ErrUnrecognizedRequestType):
		return metrics.ErrorUnrecognizedRequestType
	case errors.Is(err, skill.ErrRepromptOnEndSession):
		return metrics.ErrorInvalidResponse
	default:
		return "unknown"
	}
}

// routeErrorStatus maps a routing error to an HTTP status. Requests the skill
// does not know are the caller's fault; a response that breaks the builder's
// rules is ours.
func routeErrorStatus(err error) int {
	if errors.Is(err, skill.ErrRepromptOnEndSession) {
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}

// accessLog writes one structured line per request and feeds the latency
// histogram. It also puts the chi request ID into the log context.
func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := log.ContextWithRequestID(r.Context(), middleware.GetReqID(r.Context()))
		r = r.WithContext(ctx)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		path := ""
		if rc := chi.RouteContext(r.Context()); rc != nil {
			path = rc.RoutePattern()
		}
		elapsed := time.Since(start)
		metrics.ObserveHTTP(r.Method, path, status, elapsed)

		logger := log.WithContext(ctx, s.logger)
		logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", elapsed).
			Msg("http request")
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, types.ErrorResponse{Error: msg})
}
