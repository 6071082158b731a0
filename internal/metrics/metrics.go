// Package metrics exposes the skill's Prometheus counters. Every label value
// is normalized to a closed set so request input cannot grow cardinality.
package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"hurricane-skill-backend/internal/skill"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hurricane_skill_requests_total",
		Help: "Skill requests handled, by request type and outcome",
	}, []string{"type", "outcome"})

	intentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hurricane_skill_intents_total",
		Help: "Intent requests dispatched, by intent name",
	}, []string{"intent"})

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hurricane_skill_errors_total",
		Help: "Requests that failed, by error kind",
	}, []string{"kind"})

	consoleTurnsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hurricane_console_turns_total",
		Help: "Console turns, by input source and classification",
	}, []string{"source", "classification"})

	consoleSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hurricane_console_sessions",
		Help: "Console conversations currently held in memory",
	})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hurricane_http_request_duration_seconds",
		Help:    "HTTP request latency, by method, route pattern and status",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
)

const (
	OutcomeOK    = "ok"
	OutcomeError = "error"

	ErrorUnrecognizedIntent      = "unrecognized_intent"
	ErrorUnrecognizedRequestType = "unrecognized_request_type"
	ErrorInvalidResponse         = "invalid_response"
	ErrorApplicationMismatch     = "application_mismatch"
	ErrorBadRequest              = "bad_request"
	ErrorUpstream                = "upstream"
)

// RecordRequest counts one routed request.
func RecordRequest(requestType, outcome string) {
	requestsTotal.WithLabelValues(normalizeRequestType(requestType), normalizeOutcome(outcome)).Inc()
}

// RecordIntent counts one dispatched intent. Names outside the built-in
// catalogue are folded into "other".
func RecordIntent(name string) {
	intentsTotal.WithLabelValues(normalizeIntent(name)).Inc()
}

func RecordError(kind string) {
	errorsTotal.WithLabelValues(normalizeErrorKind(kind)).Inc()
}

// RecordConsoleTurn counts one console utterance. source is "text" or "voice".
func RecordConsoleTurn(source, classification string) {
	consoleTurnsTotal.WithLabelValues(normalizeSource(source), normalizeClassification(classification)).Inc()
}

func SetConsoleSessions(n int) {
	consoleSessions.Set(float64(n))
}

// ObserveHTTP records one served request. path must be the route pattern, not
// the raw URL.
func ObserveHTTP(method, path string, status int, d time.Duration) {
	if path == "" {
		path = "unmatched"
	}
	httpRequestDuration.WithLabelValues(method, path, strconv.Itoa(status)).Observe(d.Seconds())
}

var knownIntents = func() map[string]struct{} {
	m := make(map[string]struct{})
	for name := range skill.DefaultRegistry() {
		m[name] = struct{}{}
	}
	return m
}()

func normalizeIntent(name string) string {
	if _, ok := knownIntents[name]; ok {
		return name
	}
	return "other"
}

func normalizeRequestType(t string) string {
	switch t {
	case skill.TypeSessionStarted, skill.TypeLaunch, skill.TypeIntent, skill.TypeSessionEnded:
		return t
	default:
		return "unknown"
	}
}

func normalizeOutcome(o string) string {
	if o == OutcomeOK {
		return OutcomeOK
	}
	return OutcomeError
}

func normalizeErrorKind(kind string) string {
	switch k := strings.ToLower(strings.TrimSpace(kind)); k {
	case ErrorUnrecognizedIntent, ErrorUnrecognizedRequestType, ErrorInvalidResponse,
		ErrorApplicationMismatch, ErrorBadRequest, ErrorUpstream:
		return k
	default:
		return "unknown"
	}
}

func normalizeSource(s string) string {
	switch k := strings.ToLower(strings.TrimSpace(s)); k {
	case "text", "voice":
		return k
	default:
		return "unknown"
	}
}

func normalizeClassification(c string) string {
	switch k := strings.ToLower(strings.TrimSpace(c)); k {
	case "launch", "intent", "unknown":
		return k
	default:
		return "unknown"
	}
}
