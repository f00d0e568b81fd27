package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/http"
)

const (
	ModeNone  = "none"
	ModeToken = "token"
)

// ActorInfo identifies the caller of a mutation.
type ActorInfo struct {
	Subject string `json:"subject"`
}

// Authorizer resolves a bearer token to the actor it belongs to.
type Authorizer interface {
	Authorize(ctx context.Context, token, operation string) (*ActorInfo, error)
}

// Disabled accepts every request as an anonymous actor.
type Disabled struct{}

func (Disabled) Authorize(context.Context, string, string) (*ActorInfo, error) {
	return &ActorInfo{}, nil
}

// TokenAuthorizer maps static bearer tokens to subjects.
type TokenAuthorizer struct {
	tokens map[string]string
}

func NewTokenAuthorizer(tokens map[string]string) (*TokenAuthorizer, error) {
	if len(tokens) == 0 {
		return nil, fmt.Errorf("token auth requires at least one token")
	}
	cp := make(map[string]string, len(tokens))
	for tok, sub := range tokens {
		if tok == "" || sub == "" {
			return nil, fmt.Errorf("token auth entries need a token and a subject")
		}
		cp[tok] = sub
	}
	return &TokenAuthorizer{tokens: cp}, nil
}

func (a *TokenAuthorizer) Authorize(_ context.Context, token, _ string) (*ActorInfo, error) {
	var subject string
	for candidate, sub := range a.tokens {
		if subtle.ConstantTimeCompare([]byte(token), []byte(candidate)) == 1 {
			subject = sub
		}
	}
	if subject == "" {
		return nil, ErrInvalidToken
	}
	return &ActorInfo{Subject: subject}, nil
}

// New builds the Authorizer for mode.
func New(mode string, tokens map[string]string) (Authorizer, error) {
	switch mode {
	case ModeNone, "":
		return Disabled{}, nil
	case ModeToken:
		return NewTokenAuthorizer(tokens)
	default:
		return nil, fmt.Errorf("unknown auth mode: %s", mode)
	}
}

// AuthorizeRequest extracts the bearer token from r and authorizes it.
// With auth disabled no header is required.
func AuthorizeRequest(r *http.Request, a Authorizer, operation string) (*ActorInfo, error) {
	if _, off := a.(Disabled); off {
		return &ActorInfo{}, nil
	}
	token, err := ExtractBearer(r)
	if err != nil {
		return nil, err
	}
	return a.Authorize(r.Context(), token, operation)
}
