package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/httprate"
)

// rateLimit limits requests per client IP over a sliding window and answers
// with a JSON 429.
func rateLimit(limit int, window time.Duration) func(http.Handler) http.Handler {
	return httprate.Limit(
		limit,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
		}),
	)
}
