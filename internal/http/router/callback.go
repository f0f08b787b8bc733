package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sandeepkv93/shophub-client/internal/http/middleware"
)

// CallbackServer is a loopback HTTP server that waits for one OAuth
// callback.
type CallbackServer struct {
	srv     *http.Server
	ln      net.Listener
	state   string
	results chan error
	once    sync.Once
}

func StartCallbackServer(addr string, sessions TokenAcceptor, logger *slog.Logger) (*CallbackServer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	s := &CallbackServer{ln: ln, state: uuid.NewString(), results: make(chan error, 1)}
	s.srv = &http.Server{
		Handler: NewRouter(Dependencies{
			Sessions:       sessions,
			State:          s.state,
			Logger:         logger,
			OnResult:       s.deliver,
			EnableOTelHTTP: true,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("oauth callback server stopped", "error", err)
		}
	}()
	return s, nil
}

func (s *CallbackServer) deliver(err error) {
	s.once.Do(func() { s.results <- err })
}

// CallbackURL is the redirect_uri handed to the backend, state included.
func (s *CallbackServer) CallbackURL() string {
	u := url.URL{Scheme: "http", Host: s.ln.Addr().String(), Path: "/callback"}
	q := u.Query()
	q.Set(middleware.StateParam, s.state)
	u.RawQuery = q.Encode()
	return u.String()
}

// Wait blocks until the first callback outcome or ctx is done.
func (s *CallbackServer) Wait(ctx context.Context) error {
	select {
	case err := <-s.results:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *CallbackServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
