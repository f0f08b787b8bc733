package middleware

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/oauth2"
)

type staticSource struct {
	tok *oauth2.Token
	err error
}

func (s staticSource) Token() (*oauth2.Token, error) { return s.tok, s.err }

func captureTransport(seen *http.Request) http.RoundTripper {
	return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		*seen = *r
		rec := httptest.NewRecorder()
		rec.WriteHeader(http.StatusNoContent)
		return rec.Result(), nil
	})
}

func TestBearerTokenAttachesHeader(t *testing.T) {
	var seen http.Request
	rt := Chain(captureTransport(&seen), BearerToken(staticSource{tok: &oauth2.Token{AccessToken: "abc", TokenType: "Bearer"}}))

	req := httptest.NewRequest(http.MethodGet, "http://backend/chat", nil)
	if _, err := rt.RoundTrip(req); err != nil {
		t.Fatalf("round trip: %v", err)
	}
	if got := seen.Header.Get("Authorization"); got != "Bearer abc" {
		t.Fatalf("expected bearer header, got %q", got)
	}
	if req.Header.Get("Authorization") != "" {
		t.Fatal("original request must not be mutated")
	}
}

func TestBearerTokenSkipsWithoutSession(t *testing.T) {
	var seen http.Request
	rt := Chain(captureTransport(&seen), BearerToken(staticSource{err: errors.New("no session")}))

	req := httptest.NewRequest(http.MethodGet, "http://backend/products", nil)
	if _, err := rt.RoundTrip(req); err != nil {
		t.Fatalf("round trip: %v", err)
	}
	if got := seen.Header.Get("Authorization"); got != "" {
		t.Fatalf("expected no auth header, got %q", got)
	}
}

func TestRequestIDGeneratedOnce(t *testing.T) {
	var seen http.Request
	rt := Chain(captureTransport(&seen), RequestID())

	req := httptest.NewRequest(http.MethodGet, "http://backend/products", nil)
	if _, err := rt.RoundTrip(req); err != nil {
		t.Fatalf("round trip: %v", err)
	}
	if len(seen.Header.Get(RequestIDHeader)) != 36 {
		t.Fatalf("expected uuid request id, got %q", seen.Header.Get(RequestIDHeader))
	}

	req.Header.Set(RequestIDHeader, "req-fixed")
	if _, err := rt.RoundTrip(req); err != nil {
		t.Fatalf("round trip: %v", err)
	}
	if seen.Header.Get(RequestIDHeader) != "req-fixed" {
		t.Fatalf("existing request id must be preserved, got %q", seen.Header.Get(RequestIDHeader))
	}
}

func TestStructuredRequestLoggerOrdersAfterRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	var seen http.Request
	rt := Chain(captureTransport(&seen), RequestID(), StructuredRequestLogger(logger))

	req := httptest.NewRequest(http.MethodGet, "http://backend/products/p1", nil)
	if _, err := rt.RoundTrip(req); err != nil {
		t.Fatalf("round trip: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "path=/products/p1") || !strings.Contains(out, "status=204") {
		t.Fatalf("unexpected log output: %s", out)
	}
	if !strings.Contains(out, "request_id="+seen.Header.Get(RequestIDHeader)) {
		t.Fatalf("log must carry the generated request id: %s", out)
	}
}
