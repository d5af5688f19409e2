package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/jwt"
)

// SessionChecker reports whether a token's login is still live.
type SessionChecker interface {
	IsSessionActive(ctx context.Context, tokenID string) (bool, error)
}

// SessionActive rejects tokens whose login session was closed by logout.
// A lookup failure is treated as a closed session.
func SessionActive(sessions SessionChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := jwt.FromContext(r.Context())
			if err != nil || claims.TokenID == "" {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			active, err := sessions.IsSessionActive(r.Context(), claims.TokenID)
			if err != nil {
				slog.Error("Failed to check login session", "token_id", claims.TokenID, "error", err)
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}
			if !active {
				response.HandleError(w, auth.ErrSessionRevoked)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
