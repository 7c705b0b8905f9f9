package auth

import (
	"errors"
	"net/http"
	"strings"
)

// ExtractBearer extracts the bearer token from the Authorization header.
// Returns the token or an error if missing/invalid format.
func ExtractBearer(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", errors.New("missing Authorization header")
	}

	// Expect "Bearer <token>" format
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", errors.New("invalid Authorization header format, expected 'Bearer <token>'")
	}

	return parts[1], nil
}
