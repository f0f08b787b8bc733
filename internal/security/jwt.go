package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sandeepkv93/shophub-client/internal/domain"
)

var (
	ErrMalformedToken = errors.New("malformed token")
	ErrMissingExpiry  = errors.New("token has no expiry")
)

type Claims struct {
	UserID string `json:"id,omitempty"`
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

func (c *Claims) Identity() string {
	if c.UserID != "" {
		return c.UserID
	}
	return c.Subject
}

func (c *Claims) User() domain.User {
	return domain.User{
		ID:    c.Identity(),
		Name:  c.Name,
		Email: c.Email,
		Role:  domain.Role(c.Role),
	}
}

// Expired reports whether exp is at or before now.
func (c *Claims) Expired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return true
	}
	return !c.ExpiresAt.Time.After(now)
}

// ClaimsDecoder reads token claims without verifying the signature.
type ClaimsDecoder struct {
	parser *jwt.Parser
}

func NewClaimsDecoder() *ClaimsDecoder {
	return &ClaimsDecoder{parser: jwt.NewParser(jwt.WithoutClaimsValidation())}
}

func (d *ClaimsDecoder) Decode(raw string) (*Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrMalformedToken
	}
	claims := &Claims{}
	if _, _, err := d.parser.ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if claims.ExpiresAt == nil {
		return nil, ErrMissingExpiry
	}
	return claims, nil
}
