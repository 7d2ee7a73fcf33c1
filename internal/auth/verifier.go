// Package auth validates bearer tokens against Google's identity provider
// and exposes gin middleware for optional and required authentication.
package auth

import (
	"context"
	"fmt"

	"google.golang.org/api/idtoken"
)

// Verifier validates a bearer token and returns the user it identifies.
type Verifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// GoogleVerifier validates Google ID tokens. The subject claim is the
// user identifier.
type GoogleVerifier struct {
	validator *idtoken.Validator
	audience  string
}

// NewGoogleVerifier creates a verifier. An empty audience disables the
// audience check.
func NewGoogleVerifier(ctx context.Context, audience string) (*GoogleVerifier, error) {
	validator, err := idtoken.NewValidator(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create idtoken validator: %w", err)
	}
	return &GoogleVerifier{validator: validator, audience: audience}, nil
}

// Verify checks the token signature, expiry and audience, returning the
// subject claim as the user ID.
func (v *GoogleVerifier) Verify(ctx context.Context, token string) (string, error) {
	payload, err := v.validator.Validate(ctx, token, v.audience)
	if err != nil {
		return "", fmt.Errorf("invalid identity token: %w", err)
	}
	return payload.Subject, nil
}
