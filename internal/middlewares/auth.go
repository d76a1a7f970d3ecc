package middlewares

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"github.com/Odorikoma/booknest/internal/jwt"
	"github.com/Odorikoma/booknest/internal/logger"
)

// Tokener defines the minimal interface needed by the middleware
type Tokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

type userIDKey struct{}

// setUserIDToContext stores the authenticated user id in the context
func setUserIDToContext(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// GetUserIDFromContext retrieves the authenticated user id from the
// context. ok is false outside of the auth middleware.
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey{}).(int64)
	return userID, ok
}

type authError struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(authError{Success: false, Message: message})
}

// AuthMiddleware returns a middleware that validates bearer tokens and
// places the caller's user id in the request context. Missing,
// malformed, expired and otherwise invalid tokens each get a
// distinguishing message.
func AuthMiddleware(tokener Tokener) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			tokenString, err := tokener.GetTokenFromRequest(ctx, r)
			if err != nil {
				logger.Log.Errorw("authorization failed", "err", err)
				writeUnauthorized(w, "Authorization token required")
				return
			}

			claims, err := tokener.GetClaims(ctx, tokenString)
			if err != nil {
				logger.Log.Errorw("authorization failed", "err", err)
				if errors.Is(err, jwtlib.ErrTokenExpired) {
					writeUnauthorized(w, "Token has expired")
					return
				}
				writeUnauthorized(w, "Invalid token")
				return
			}

			ctx = setUserIDToContext(ctx, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
