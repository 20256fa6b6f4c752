package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/AnshRaj112/lingua-backend/internal/models"
	"github.com/AnshRaj112/lingua-backend/internal/services"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "jwt"

type contextKey string

const userContextKey contextKey = "auth_user"

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext returns the user injected by ProtectRoute.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userContextKey).(*models.User)
	return user, ok && user != nil
}

// ProtectRoute verifies the session cookie, loads the user and injects it
// (without its password hash) into the request context.
func ProtectRoute(tokens *services.TokenIssuer, users services.UserStore, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				writeJSONError(w, http.StatusUnauthorized, "Unauthorized - No token provided")
				return
			}

			userID, err := tokens.Parse(cookie.Value)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "Unauthorized - Invalid token")
				return
			}
			oid, err := primitive.ObjectIDFromHex(userID)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "Unauthorized - Invalid token")
				return
			}

			user, err := users.FindByID(r.Context(), oid)
			if errors.Is(err, services.ErrUserNotFound) {
				writeJSONError(w, http.StatusUnauthorized, "Unauthorized - User not found")
				return
			}
			if err != nil {
				logger.Error("protect route: user lookup failed", zap.String("userId", userID), zap.Error(err))
				writeJSONError(w, http.StatusInternalServerError, "Internal Server Error")
				return
			}

			redacted := user.Redacted()
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), &redacted)))
		})
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": message,
	})
}
