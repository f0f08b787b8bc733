package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/google/wire"
	"golang.org/x/oauth2"

	"github.com/sandeepkv93/shophub-client/internal/config"
	"github.com/sandeepkv93/shophub-client/internal/http/client"
	"github.com/sandeepkv93/shophub-client/internal/navigation"
	"github.com/sandeepkv93/shophub-client/internal/observability"
	"github.com/sandeepkv93/shophub-client/internal/repository"
	"github.com/sandeepkv93/shophub-client/internal/security"
	"github.com/sandeepkv93/shophub-client/internal/service"
	"github.com/sandeepkv93/shophub-client/internal/views"
)

var ProviderSet = wire.NewSet(
	ProvideRuntime,
	ProvideLogger,
	ProvideStateRepository,
	ProvideSealer,
	ProvideCookieJar,
	ProvideAuthenticator,
	ProvideAPIClient,
	ProvideNavigator,
	service.NewTokenStore,
	service.NewPreferenceStore,
	service.NewSessionService,
	security.NewClaimsDecoder,
	navigation.NewHistory,
	navigation.NewGuard,
	views.NewCatalog,
	views.NewAccount,
	views.NewCommunity,
	views.NewUploader,
	wire.Bind(new(service.Redirector), new(*navigation.History)),
	wire.Bind(new(navigation.ReturnStore), new(*service.PreferenceStore)),
	wire.Bind(new(navigation.SessionSource), new(*service.SessionService)),
	wire.Bind(new(oauth2.TokenSource), new(*service.SessionService)),
	wire.Bind(new(views.Session), new(*service.SessionService)),
	wire.Bind(new(views.CatalogAPI), new(*client.Client)),
	wire.Bind(new(views.CommunityAPI), new(*client.Client)),
	wire.Bind(new(views.AccountAPI), new(*client.Client)),
	wire.Bind(new(views.UploadAPI), new(*client.Client)),
	New,
)

const shutdownTimeout = 5 * time.Second

func ProvideRuntime(ctx context.Context, cfg *config.Config, out io.Writer) (*observability.Runtime, func(), error) {
	base := observability.NewLogger(cfg, out)
	rt, err := observability.InitRuntime(ctx, cfg, base)
	if err != nil {
		return nil, nil, fmt.Errorf("init observability: %w", err)
	}
	cleanup := func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := rt.Shutdown(sctx); err != nil {
			base.Warn("observability shutdown failed", "error", err)
		}
	}
	return rt, cleanup, nil
}

func ProvideLogger(rt *observability.Runtime) *slog.Logger {
	return rt.Logger
}

func ProvideStateRepository(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repository.StateRepository, func(), error) {
	repo, closeFn, err := repository.Open(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := closeFn(); err != nil {
			logger.Warn("close state repository failed", "driver", cfg.StateDriver, "error", err)
		}
	}
	return repo, cleanup, nil
}

func ProvideSealer(cfg *config.Config) (*service.Sealer, error) {
	return service.NewSealer(cfg.StateSealKey)
}

func ProvideCookieJar() (http.CookieJar, error) {
	return cookiejar.New(nil)
}

// ProvideAuthenticator builds the client used for login calls. It carries
// no token source, so the session can depend on it.
func ProvideAuthenticator(cfg *config.Config, logger *slog.Logger, jar http.CookieJar) (service.Authenticator, error) {
	return client.New(client.Config{BaseURL: cfg.APIBaseURL, Timeout: cfg.HTTPTimeout, Logger: logger, Jar: jar})
}

func ProvideAPIClient(cfg *config.Config, logger *slog.Logger, jar http.CookieJar, tokens oauth2.TokenSource) (*client.Client, error) {
	return client.New(client.Config{
		BaseURL:     cfg.APIBaseURL,
		Timeout:     cfg.HTTPTimeout,
		Logger:      logger,
		Jar:         jar,
		TokenSource: tokens,
	})
}

func ProvideNavigator(history *navigation.History, guard *navigation.Guard, returns navigation.ReturnStore, logger *slog.Logger) *navigation.Navigator {
	return navigation.NewNavigator(history, guard, navigation.DefaultRoutes(), returns, logger)
}
