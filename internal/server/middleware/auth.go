// Package middleware provides HTTP middleware for authentication.
package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

const (
	userIDKey ContextKey = "userID"
	emailKey  ContextKey = "email"
)

// UnauthorizedMessage is the error returned for missing or invalid credentials.
const UnauthorizedMessage = "Invalid authentication credentials"

// TokenValidator validates bearer tokens.
type TokenValidator interface {
	ValidateToken(tokenString string) (Identity, error)
}

// Identity is the authenticated principal carried by a token.
type Identity interface {
	GetUserID() uuid.UUID
	GetEmail() string
}

// IdentityHook runs after a token is validated, before the handler.
// Returning an error fails the request with 500.
type IdentityHook func(ctx context.Context, id Identity) error

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": UnauthorizedMessage})
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(r *http.Request) (string, bool) {
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// AuthMiddleware validates bearer tokens and adds the identity to the request context.
func AuthMiddleware(validator TokenValidator, hooks ...IdentityHook) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := bearerToken(r)
			if !ok {
				unauthorized(w)
				return
			}

			id, err := validator.ValidateToken(tokenString)
			if err != nil || id.GetUserID() == uuid.Nil {
				unauthorized(w)
				return
			}

			for _, hook := range hooks {
				if err := hook(r.Context(), id); err != nil {
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{"error": "Internal server error"})
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id.GetUserID(), id.GetEmail())))
		})
	}
}

// WithIdentity returns a context carrying the user ID and email.
func WithIdentity(ctx context.Context, userID uuid.UUID, email string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, emailKey, email)
}

// GetUserID extracts the authenticated user ID from the request context.
func GetUserID(r *http.Request) (uuid.UUID, error) {
	userID, ok := r.Context().Value(userIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, fmt.Errorf("user ID not found in request context")
	}
	return userID, nil
}

// GetEmail returns the authenticated user's email, or "" if the token had none.
func GetEmail(r *http.Request) string {
	email, _ := r.Context().Value(emailKey).(string)
	return email
}
