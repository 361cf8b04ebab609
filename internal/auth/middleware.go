package auth

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"volunteer-backend/internal/models"
)

type contextKey string

const currentUserKey contextKey = "volunteer_current_user"

// RequireSession resolves the session token from the session cookie, falling
// back to the Authorization bearer header, and stores the current user in the
// request context.
func (h *Handler) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.sessionToken(r)
		if token == "" {
			respondUnauthorized(w, MsgNotAuthenticated)
			return
		}

		user, err := h.service.Authenticate(r.Context(), token)
		if err != nil {
			if KindOf(err) == KindUnauthorized {
				h.respondServiceError(w, "authenticate", err)
				return
			}
			h.logger.Error("authenticate failed", zap.Error(err))
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		ctx := context.WithValue(r.Context(), currentUserKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) sessionToken(r *http.Request) string {
	if c, err := r.Cookie(h.cookie.Name); err == nil && c.Value != "" {
		return c.Value
	}

	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
}

func CurrentUserFromContext(ctx context.Context) (*models.CurrentUser, bool) {
	user, ok := ctx.Value(currentUserKey).(*models.CurrentUser)
	return user, ok && user != nil
}

// WithCurrentUser returns a copy of ctx carrying user.
func WithCurrentUser(ctx context.Context, user *models.CurrentUser) context.Context {
	return context.WithValue(ctx, currentUserKey, user)
}
