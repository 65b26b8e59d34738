package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"ticket-reservation/pkg/utils"

	"go.uber.org/zap"
)

// Collaborator restricts a route to callers holding the shared service key
// (the payment collaborator and ops tooling). Confirm must never be
// reachable from the public seat map UI.
func Collaborator(apiKey string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.ResponseUnauthorized(w, "Missing authorization token")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
				return
			}

			if apiKey == "" || subtle.ConstantTimeCompare([]byte(parts[1]), []byte(apiKey)) != 1 {
				logger.Warn("Collaborator key rejected",
					zap.String("path", r.URL.Path),
					zap.String("ip", r.RemoteAddr),
				)
				utils.ResponseForbidden(w, "Collaborator access required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
