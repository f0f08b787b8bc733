package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sandeepkv93/shophub-client/internal/chat"
	"github.com/sandeepkv93/shophub-client/internal/config"
	"github.com/sandeepkv93/shophub-client/internal/domain"
	"github.com/sandeepkv93/shophub-client/internal/http/client"
	"github.com/sandeepkv93/shophub-client/internal/http/router"
	"github.com/sandeepkv93/shophub-client/internal/navigation"
	"github.com/sandeepkv93/shophub-client/internal/observability"
	"github.com/sandeepkv93/shophub-client/internal/repository"
	"github.com/sandeepkv93/shophub-client/internal/service"
	"github.com/sandeepkv93/shophub-client/internal/views"
)

var ErrNotSignedIn = errors.New("not signed in")

type App struct {
	Config        *config.Config
	Logger        *slog.Logger
	Observability *observability.Runtime
	State         repository.StateRepository
	Session       *service.SessionService
	API           *client.Client
	Navigator     *navigation.Navigator
	Catalog       *views.Catalog
	Account       *views.Account
	Community     *views.Community
	Uploader      *views.Uploader
}

func New(
	cfg *config.Config,
	logger *slog.Logger,
	runtime *observability.Runtime,
	state repository.StateRepository,
	session *service.SessionService,
	api *client.Client,
	navigator *navigation.Navigator,
	catalog *views.Catalog,
	account *views.Account,
	community *views.Community,
	uploader *views.Uploader,
) *App {
	return &App{
		Config:        cfg,
		Logger:        logger,
		Observability: runtime,
		State:         state,
		Session:       session,
		API:           api,
		Navigator:     navigator,
		Catalog:       catalog,
		Account:       account,
		Community:     community,
		Uploader:      uploader,
	}
}

// OpenChat dials the chat channel for a conversation with peerID and joins it.
func (a *App) OpenChat(ctx context.Context, peerID string) (*chat.Channel, *chat.Conversation, error) {
	snap := a.Session.Snapshot()
	if !snap.IsLoggedIn || snap.User == nil {
		return nil, nil, ErrNotSignedIn
	}
	conv := chat.NewConversation(snap.User.ID, peerID)
	ch, err := chat.Open(ctx, chat.Config{URL: a.Config.ChatURL, TokenSource: a.Session, Logger: a.Logger})
	if err != nil {
		return nil, nil, err
	}
	ch.Attach(conv)
	if err := ch.Join(conv.SelfID(), conv.PeerID()); err != nil {
		_ = ch.Close()
		return nil, nil, fmt.Errorf("join chat: %w", err)
	}
	return ch, conv, nil
}

// SignInWithGoogle runs the loopback OAuth flow. open receives the sign-in
// URL the user has to visit.
func (a *App) SignInWithGoogle(ctx context.Context, open func(url string) error) (domain.Session, error) {
	srv, err := router.StartCallbackServer(a.Config.OAuthCallbackAddr, a.Session, a.Logger)
	if err != nil {
		return domain.Session{}, err
	}
	defer func() { _ = srv.Shutdown(context.Background()) }()

	if err := open(a.API.GoogleLoginURL(srv.CallbackURL())); err != nil {
		return domain.Session{}, fmt.Errorf("open sign-in url: %w", err)
	}
	if err := srv.Wait(ctx); err != nil {
		return domain.Session{}, err
	}
	return a.Session.Snapshot(), nil
}
