package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"

	"github.com/sandeepkv93/shophub-client/internal/http/middleware"
	"github.com/sandeepkv93/shophub-client/internal/http/response"
	"github.com/sandeepkv93/shophub-client/internal/observability"
)

const maxBodyBytes = 8 << 20

var ErrDecode = errors.New("decode response")

type Config struct {
	BaseURL     string
	Timeout     time.Duration
	Logger      *slog.Logger
	Jar         http.CookieJar
	TokenSource oauth2.TokenSource
	Transport   http.RoundTripper
}

// Client talks to the storefront REST backend.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	jar     http.CookieJar
	logger  *slog.Logger
}

func New(cfg Config) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse base url: %q has no host", cfg.BaseURL)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	jar := cfg.Jar
	if jar == nil {
		jar, err = cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("create cookie jar: %w", err)
		}
	}
	base := cfg.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	rt := middleware.Chain(otelhttp.NewTransport(base),
		middleware.RequestID(),
		middleware.BearerToken(cfg.TokenSource),
		middleware.StructuredRequestLogger(logger),
	)
	return &Client{
		baseURL: u,
		http:    &http.Client{Transport: rt, Jar: jar, Timeout: timeout},
		jar:     jar,
		logger:  logger,
	}, nil
}

func (c *Client) BaseURL() string { return c.baseURL.String() }

func (c *Client) resolve(segments ...string) *url.URL {
	escaped := make([]string, 0, len(segments))
	for _, s := range segments {
		escaped = append(escaped, url.PathEscape(s))
	}
	return c.baseURL.JoinPath(escaped...)
}

func (c *Client) resolvePath(path string) *url.URL {
	return c.baseURL.JoinPath(strings.Split(strings.Trim(path, "/"), "/")...)
}

func (c *Client) getJSON(ctx context.Context, op string, u *url.URL, out any) error {
	return c.do(ctx, op, http.MethodGet, u.String(), nil, "", out)
}

func (c *Client) postJSON(ctx context.Context, op string, u *url.URL, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%s: encode request: %w", op, err)
	}
	return c.do(ctx, op, http.MethodPost, u.String(), bytes.NewReader(body), "application/json", out)
}

func (c *Client) do(ctx context.Context, op, method, target string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		observability.RecordAPIRequest(ctx, op, 0)
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = resp.Body.Close() }()
	observability.RecordAPIRequest(ctx, op, resp.StatusCode)

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%s: read body: %w", op, err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return newError(op, resp.StatusCode, raw)
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := decodeInto(raw, out); err != nil {
		return fmt.Errorf("%s: %w: %v", op, ErrDecode, err)
	}
	return nil
}

// decodeInto unwraps the success envelope when present.
func decodeInto(raw []byte, out any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var body response.Body
		if err := json.Unmarshal(trimmed, &body); err == nil && body.IsEnvelope() && len(body.Data) > 0 {
			return json.Unmarshal(body.Data, out)
		}
	}
	return json.Unmarshal(trimmed, out)
}
