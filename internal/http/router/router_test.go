package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sandeepkv93/shophub-client/internal/testkit"
)

type recordingAcceptor struct {
	mu     sync.Mutex
	tokens []string
	err    error
}

func (a *recordingAcceptor) AcceptToken(_ context.Context, token string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.tokens = append(a.tokens, token)
	return a.err
}

func (a *recordingAcceptor) accepted() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.tokens...)
}

func perform(r http.Handler, method, target string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	req.RemoteAddr = "127.0.0.1:1234"
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func newTestRouter(acceptor TokenAcceptor) (http.Handler, *[]error) {
	var results []error
	return NewRouter(Dependencies{
		Sessions: acceptor,
		State:    "s-1",
		OnResult: func(err error) { results = append(results, err) },
	}), &results
}

func TestRouterHealthLive(t *testing.T) {
	r, _ := newTestRouter(&recordingAcceptor{})
	rr := perform(r, http.MethodGet, "/health/live", map[string]string{"X-Request-Id": "req-1"})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, `"status":"ok"`) || !strings.Contains(body, `"request_id":"req-1"`) {
		t.Fatalf("unexpected envelope: %s", body)
	}
}

func TestCallbackBranches(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		acceptErr  error
		wantStatus int
		wantCode   string
		wantErr    error
		wantToken  bool
	}{
		{name: "missing state", target: "/callback?token=t", wantStatus: http.StatusForbidden, wantCode: "STATE_MISSING"},
		{name: "denied", target: "/callback?state=s-1&error=access_denied", wantStatus: http.StatusBadRequest, wantCode: "OAUTH_DENIED", wantErr: ErrSignInDenied},
		{name: "no token", target: "/callback?state=s-1", wantStatus: http.StatusBadRequest, wantCode: "TOKEN_MISSING", wantErr: ErrTokenMissing},
		{name: "rejected", target: "/callback?state=s-1&token=bad", acceptErr: errors.New("expired"), wantStatus: http.StatusUnauthorized, wantCode: "TOKEN_REJECTED", wantToken: true},
		{name: "accepted", target: "/callback?state=s-1&token=good", wantStatus: http.StatusOK, wantToken: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acceptor := &recordingAcceptor{err: tt.acceptErr}
			r, results := newTestRouter(acceptor)
			rr := perform(r, http.MethodGet, tt.target, nil)
			if rr.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, rr.Code, rr.Body.String())
			}
			if tt.wantCode != "" && !strings.Contains(rr.Body.String(), tt.wantCode) {
				t.Fatalf("expected code %s, got %s", tt.wantCode, rr.Body.String())
			}
			if got := len(acceptor.accepted()) == 1; got != tt.wantToken {
				t.Fatalf("token accepted=%v, want %v", got, tt.wantToken)
			}
			if tt.wantStatus == http.StatusForbidden {
				if len(*results) != 0 {
					t.Fatalf("forged callback must not report a result: %v", *results)
				}
				return
			}
			if len(*results) != 1 {
				t.Fatalf("expected one result, got %v", *results)
			}
			if tt.acceptErr != nil {
				if !errors.Is((*results)[0], tt.acceptErr) {
					t.Fatalf("expected %v, got %v", tt.acceptErr, (*results)[0])
				}
			} else if !errors.Is((*results)[0], tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, (*results)[0])
			}
		})
	}
}

func TestCallbackServerReceivesBackendRedirect(t *testing.T) {
	backend := testkit.NewBackend(t)
	acceptor := &recordingAcceptor{}
	srv, err := StartCallbackServer("127.0.0.1:0", acceptor, nil)
	if err != nil {
		t.Fatalf("start callback server: %v", err)
	}
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	callback, err := url.Parse(srv.CallbackURL())
	if err != nil {
		t.Fatalf("parse callback url: %v", err)
	}
	if callback.Query().Get("state") == "" {
		t.Fatalf("expected state in %s", callback)
	}

	signIn := backend.URL() + "/auth/google?redirect_uri=" + url.QueryEscape(srv.CallbackURL())
	resp, err := http.Get(signIn)
	if err != nil {
		t.Fatalf("follow sign-in: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected callback 200, got %d", resp.StatusCode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Wait(ctx); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if tokens := acceptor.accepted(); len(tokens) != 1 || tokens[0] == "" {
		t.Fatalf("expected one token, got %v", tokens)
	}
}

func TestCallbackServerWaitHonorsContext(t *testing.T) {
	srv, err := StartCallbackServer("127.0.0.1:0", &recordingAcceptor{}, nil)
	if err != nil {
		t.Fatalf("start callback server: %v", err)
	}
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := srv.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
