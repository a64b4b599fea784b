// Package middleware provides HTTP middleware for authentication and rate limiting.
package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"taxdesk-backend/internal/ctxkeys"
)

// Tokens are issued by handlers.AuthHandler and carry a "userId" claim.
var (
	errNoToken       = errors.New("Authorization header required")
	errBadFormat     = errors.New("Invalid authorization format. Use: Bearer <token>")
	errInvalidToken  = errors.New("Invalid or expired token")
	errMissingUserID = errors.New("Invalid token: missing user ID")
)

// Auth rejects requests without a valid bearer token and injects the
// token's user ID into the request context.
func Auth(jwtSecret string) func(http.Handler) http.Handler {
	secret := []byte(jwtSecret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := userFromRequest(r, secret)
			if err != nil {
				writeError(w, http.StatusUnauthorized, err.Error())
				return
			}
			next.ServeHTTP(w, r.WithContext(ctxkeys.WithUserID(r.Context(), userID)))
		})
	}
}

// OptionalAuth attaches the user ID when a valid bearer token is present
// and lets every request through. A malformed or expired token is treated
// as anonymous.
func OptionalAuth(jwtSecret string) func(http.Handler) http.Handler {
	secret := []byte(jwtSecret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID, err := userFromRequest(r, secret); err == nil {
				r = r.WithContext(ctxkeys.WithUserID(r.Context(), userID))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func userFromRequest(r *http.Request, secret []byte) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", errNoToken
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", errBadFormat
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return "", errInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errInvalidToken
	}

	userID, _ := claims["userId"].(string)
	if userID == "" {
		return "", errMissingUserID
	}
	return userID, nil
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
