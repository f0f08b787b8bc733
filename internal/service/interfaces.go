package service

import (
	"context"

	"github.com/sandeepkv93/shophub-client/internal/domain"
)

// Authenticator posts credentials to a backend auth endpoint.
type Authenticator interface {
	Authenticate(ctx context.Context, endpoint string, payload any) (*domain.AuthResult, error)
}

// Redirector moves the current location without a guard evaluation.
type Redirector interface {
	Redirect(path string)
}
