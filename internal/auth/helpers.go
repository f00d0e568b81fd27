package auth

import (
	"net/http"
	"strings"
)

// ExtractBearer returns the token of an "Authorization: Bearer <token>" header.
func ExtractBearer(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrMissingToken
	}
	scheme, token, ok := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", ErrMalformedHeader
	}
	return token, nil
}
