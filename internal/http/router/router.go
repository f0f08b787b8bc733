package router

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/sandeepkv93/shophub-client/internal/http/middleware"
	"github.com/sandeepkv93/shophub-client/internal/http/response"
)

var (
	ErrSignInDenied = errors.New("sign-in denied")
	ErrTokenMissing = errors.New("callback carried no token")
)

type TokenAcceptor interface {
	AcceptToken(ctx context.Context, token string) error
}

type Dependencies struct {
	Sessions       TokenAcceptor
	State          string
	Logger         *slog.Logger
	OnResult       func(error)
	EnableOTelHTTP bool
}

// NewRouter serves the loopback OAuth callback.
func NewRouter(dep Dependencies) http.Handler {
	logger := dep.Logger
	if logger == nil {
		logger = slog.Default()
	}
	report := dep.OnResult
	if report == nil {
		report = func(error) {}
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)

	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.With(middleware.CallbackState(dep.State)).Get("/callback", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if reason := q.Get("error"); reason != "" {
			logger.InfoContext(r.Context(), "oauth sign-in denied", "reason", reason)
			response.Error(w, r, http.StatusBadRequest, "OAUTH_DENIED", reason, nil)
			report(ErrSignInDenied)
			return
		}
		token := q.Get("token")
		if token == "" {
			response.Error(w, r, http.StatusBadRequest, "TOKEN_MISSING", "token is required", nil)
			report(ErrTokenMissing)
			return
		}
		if err := dep.Sessions.AcceptToken(r.Context(), token); err != nil {
			logger.WarnContext(r.Context(), "oauth token rejected", "error", err)
			response.Error(w, r, http.StatusUnauthorized, "TOKEN_REJECTED", "token rejected", nil)
			report(err)
			return
		}
		response.JSON(w, r, http.StatusOK, map[string]string{"status": "signed_in"})
		report(nil)
	})

	var h http.Handler = r
	if dep.EnableOTelHTTP {
		h = otelhttp.NewHandler(r, "oauth.callback")
	}
	return h
}
