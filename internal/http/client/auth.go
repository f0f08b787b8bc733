package client

import (
	"context"
	"strings"

	"github.com/sandeepkv93/shophub-client/internal/domain"
)

const (
	LoginEndpoint    = "/auth/login"
	RegisterEndpoint = "/auth/register"
)

var tokenCookieNames = []string{"token", "access_token", "jwt"}

// Authenticate posts payload to an auth endpoint. When the backend only sets
// the token as a cookie, the token is read back from the jar.
func (c *Client) Authenticate(ctx context.Context, endpoint string, payload any) (*domain.AuthResult, error) {
	var res domain.AuthResult
	if err := c.postJSON(ctx, operationName(endpoint), c.resolvePath(endpoint), payload, &res); err != nil {
		return nil, err
	}
	if res.Token == "" {
		res.Token = c.cookieToken()
	}
	return &res, nil
}

func (c *Client) ForgotPassword(ctx context.Context, email string) (string, error) {
	var res struct {
		Message string `json:"message"`
	}
	err := c.postJSON(ctx, "auth.forgot_password", c.resolve("auth", "forgot-password"), map[string]string{"email": email}, &res)
	return res.Message, err
}

func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	var res struct {
		Message string `json:"message"`
	}
	payload := map[string]string{"token": token, "newPassword": newPassword}
	err := c.postJSON(ctx, "auth.reset_password", c.resolve("auth", "reset-password"), payload, &res)
	return res.Message, err
}

// GoogleLoginURL is the backend's OAuth entry point; the backend redirects
// to redirectURI with a token query parameter once sign-in completes.
func (c *Client) GoogleLoginURL(redirectURI string) string {
	u := c.resolve("auth", "google")
	q := u.Query()
	q.Set("redirect_uri", redirectURI)
	u.RawQuery = q.Encode()
	return u.String()
}

func (c *Client) cookieToken() string {
	for _, ck := range c.jar.Cookies(c.baseURL) {
		for _, name := range tokenCookieNames {
			if ck.Name == name && ck.Value != "" {
				return ck.Value
			}
		}
	}
	return ""
}

func operationName(endpoint string) string {
	return strings.ReplaceAll(strings.ReplaceAll(strings.Trim(endpoint, "/"), "/", "."), "-", "_")
}
