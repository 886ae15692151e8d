package ratelimit

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// Middleware rejects requests over the limit with 429. Keys are
// "<route>:<client ip>". Backend errors are logged and the request is let
// through.
func Middleware(b Backend, route string, onLimited func(r *http.Request), log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, err := b.Allow(r.Context(), route+":"+ClientIP(r))
			if err != nil {
				log.Warn("rate limit check failed", zap.String("route", route), zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			if !ok {
				if onLimited != nil {
					onLimited(r)
				}
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.Header().Set("Retry-After", retryAfter(b.Window()))
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error": "too many attempts, please wait and try again",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// retryAfter formats a window as whole seconds, rounded up and at least 1.
func retryAfter(window time.Duration) string {
	secs := int64(math.Ceil(window.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return strconv.FormatInt(secs, 10)
}
