package testkit

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sandeepkv93/shophub-client/internal/domain"
	"github.com/sandeepkv93/shophub-client/internal/security"
)

const SigningKey = "abcdefghijklmnopqrstuvwxyz123456"

// SignToken issues an HS256 token for user that expires after ttl. A negative
// ttl yields an already expired token.
func SignToken(tb testing.TB, user domain.User, ttl time.Duration) string {
	tb.Helper()
	tok, err := sign(user, ttl)
	if err != nil {
		tb.Fatalf("sign token: %v", err)
	}
	return tok
}

func sign(user domain.User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := security.Claims{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Role:   string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(SigningKey))
}

func verifyToken(raw string) (*security.Claims, error) {
	claims := &security.Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return []byte(SigningKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	return claims, nil
}
