package server

import (
	"net/http"
	"strings"
)

// SecurityConfig controls the hardening applied to every endpoint the
// orchestrator exposes.
type SecurityConfig struct {
	// EnableCORS toggles cross-origin response headers.
	EnableCORS bool
	// AllowedOrigins lists origins granted access; "*" matches any.
	AllowedOrigins []string
	// AllowedMethods lists HTTP methods advertised to browsers.
	AllowedMethods []string
}

// DefaultSecurityConfig returns the configuration used when nothing
// overrides it: permissive CORS for read-only scrape endpoints.
//
// Returns:
//   - SecurityConfig: The default configuration.
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		EnableCORS:     true,
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
	}
}

// SecurityMiddleware wraps next with security response headers, CORS
// handling, and OPTIONS preflight short-circuiting.
//
// Parameters:
//   - config: The security configuration to enforce.
//   - next: The handler invoked for non-preflight requests.
//
// Returns:
//   - http.HandlerFunc: The wrapped handler.
func SecurityMiddleware(config SecurityConfig, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-XSS-Protection", "1; mode=block")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")

		if config.EnableCORS {
			if origin := allowedOrigin(config.AllowedOrigins, r.Header.Get("Origin")); origin != "" {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Methods", strings.Join(config.AllowedMethods, ", "))
				h.Set("Access-Control-Allow-Headers", "Content-Type")
				h.Set("Access-Control-Max-Age", "86400")
			}
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next(w, r)
	}
}

// allowedOrigin resolves which origin value to advertise. A wildcard entry
// matches regardless of the request origin; otherwise the request origin
// must appear verbatim in the allow list.
func allowedOrigin(allowed []string, origin string) string {
	for _, a := range allowed {
		if a == "*" {
			return "*"
		}
		if origin != "" && a == origin {
			return origin
		}
	}
	return ""
}
