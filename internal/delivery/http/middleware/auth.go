package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	h "marathonhub/internal/delivery/http/helpers"
	"marathonhub/internal/domain"
)

type contextKey string

const userIDKey contextKey = "userID"

// SetUserID returns a context with the user ID set. Used by auth middleware.
func SetUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the authenticated user ID from the context, if present.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// RequireAuth returns a wrapper that validates the Bearer token, resolves the token subject to the
// local user and sets that user's ID in the request context.
// A missing or invalid token yields 401; a valid token without a local user yields 404.
func RequireAuth(verifier domain.TokenVerifier, users domain.IdentityResolver, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing authorization header")
				return
			}
			const prefix = "Bearer "
			if !strings.HasPrefix(auth, prefix) {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid authorization format")
				return
			}
			token := strings.TrimSpace(auth[len(prefix):])
			if token == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing token")
				return
			}
			subject, err := verifier.Verify(r.Context(), token)
			if err != nil {
				logger.DebugContext(r.Context(), "token rejected", "err", err)
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid or expired token")
				return
			}
			resolve(w, r, next, users, logger, subject)
		}
	}
}

// DemoAuth returns a wrapper that attributes every request to the user registered for subject,
// without looking at any credentials. It is only installed when demo mode is configured explicitly.
func DemoAuth(subject string, users domain.IdentityResolver, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			resolve(w, r, next, users, logger, subject)
		}
	}
}

func resolve(w http.ResponseWriter, r *http.Request, next http.HandlerFunc, users domain.IdentityResolver, logger *slog.Logger, subject string) {
	user, err := users.GetByExternalID(r.Context(), subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "user not found")
			return
		}
		logger.ErrorContext(r.Context(), "identity lookup failed", "path", r.URL.Path, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "internal server error")
		return
	}
	next(w, r.WithContext(SetUserID(r.Context(), user.ID)))
}
