package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/TanasubRat/travel-match-backend/internal/models"
	"github.com/TanasubRat/travel-match-backend/internal/services"
)

type contextKey string

const userIDKey contextKey = "user_id"

// AuthMiddleware authenticates requests with a bearer JWT and puts the user
// ID into the request context.
func AuthMiddleware(userService *services.UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := authenticate(r, userService)
			if err != nil {
				respondAuthError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// authenticate extracts and validates the bearer token. Every failure wraps
// models.ErrUnauthorized so callers map it with errors.Is.
func authenticate(r *http.Request, userService *services.UserService) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", fmt.Errorf("authorization header required: %w", models.ErrUnauthorized)
	}

	scheme, token, ok := strings.Cut(header, " ")
	if !ok || scheme != "Bearer" || token == "" {
		return "", fmt.Errorf("authorization header must be a bearer token: %w", models.ErrUnauthorized)
	}

	userID, err := userService.ValidateJWT(token)
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", models.ErrUnauthorized)
	}
	return userID, nil
}

// GetUserID extracts user ID from context
func GetUserID(ctx context.Context) string {
	userID, ok := ctx.Value(userIDKey).(string)
	if !ok {
		return ""
	}
	return userID
}

// respondAuthError renders an authentication failure with the same sentinel
// mapping and body shape the handlers use.
func respondAuthError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, models.ErrUnauthorized) {
		status = http.StatusUnauthorized
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

// ValidateWebSocketToken validates a JWT passed as a query parameter during
// the websocket handshake, where no Authorization header is available.
func ValidateWebSocketToken(token string, userService *services.UserService) (string, error) {
	if token == "" {
		return "", fmt.Errorf("token required: %w", models.ErrUnauthorized)
	}
	userID, err := userService.ValidateJWT(token)
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", models.ErrUnauthorized)
	}
	return userID, nil
}
