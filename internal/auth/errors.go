package auth

import "errors"

var (
	ErrMissingToken    = errors.New("missing Authorization header")
	ErrMalformedHeader = errors.New("invalid Authorization header format, expected 'Bearer <token>'")
	ErrInvalidToken    = errors.New("invalid token")
)
