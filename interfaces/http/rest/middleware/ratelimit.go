package middleware

import (
	"net"
	"net/http"

	pkgerrors "kbgraph/pkg/errors"
	"kbgraph/pkg/ratelimit"
)

// RateLimit rejects clients over their request budget with 429. Clients are
// keyed by remote IP, so it belongs after chi's RealIP middleware.
func RateLimit(limiter ratelimit.Limiter, errHandler *pkgerrors.ErrorHandler) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(clientIP(r)) {
				w.Header().Set("Retry-After", "60")
				errHandler.Handle(w, r, pkgerrors.NewRateLimitError())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
