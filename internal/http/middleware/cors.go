package middleware

import (
	"net/http"
	"strings"
)

const (
	corsAllowHeaders = "Content-Type, X-Request-ID"
	corsAllowMethods = "GET, POST, OPTIONS"
	corsMaxAge       = "600"
)

type corsPolicy map[string]struct{}

func newCORSPolicy(origins []string) corsPolicy {
	p := corsPolicy{}
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		// Only exact origins are honoured; "*" is never treated as a wildcard.
		if origin == "" || origin == "*" {
			continue
		}
		p[origin] = struct{}{}
	}
	return p
}

func (p corsPolicy) allows(origin string) bool {
	_, ok := p[origin]
	return ok
}

func setCORSHeaders(h http.Header, origin string) {
	h.Set("Access-Control-Allow-Origin", origin)
	h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
	h.Set("Access-Control-Allow-Methods", corsAllowMethods)
	h.Set("Access-Control-Max-Age", corsMaxAge)
}

func isPreflight(r *http.Request) bool {
	return r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != ""
}

// CORS lets browser front-ends on the listed origins call the chat API.
// Preflights from any other origin are refused with 403.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	policy := newCORSPolicy(allowedOrigins)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Add("Vary", "Origin")
			allowed := policy.allows(origin)
			if allowed {
				setCORSHeaders(w.Header(), origin)
			}
			if isPreflight(r) {
				if allowed {
					w.WriteHeader(http.StatusNoContent)
				} else {
					w.WriteHeader(http.StatusForbidden)
				}
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
