package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"

	"github.com/sandeepkv93/shophub-client/internal/domain"
	"github.com/sandeepkv93/shophub-client/internal/observability"
	"github.com/sandeepkv93/shophub-client/internal/security"
)

const (
	LandingPath = "/"
	EntryPath   = "/auth"
)

var (
	ErrNoSession     = errors.New("no active session")
	ErrTokenRejected = errors.New("token rejected")
)

type subscriber struct {
	id uint64
	fn func(domain.Session)
}

// SessionService is the only writer of the session record. Readers take
// snapshots or subscribe to changes.
type SessionService struct {
	tokens   *TokenStore
	prefs    *PreferenceStore
	decoder  *security.ClaimsDecoder
	auth     Authenticator
	redirect Redirector
	logger   *slog.Logger
	now      func() time.Time

	boot   singleflight.Group
	prefMu sync.Mutex
	// tokenMu pairs every persisted token write with the session fields
	// derived from it.
	tokenMu sync.Mutex

	mu           sync.Mutex
	state        domain.Session
	booting      bool
	bootstrapped bool
	inflight     int
	subs         []subscriber
	nextSubID    uint64
}

func NewSessionService(
	tokens *TokenStore,
	prefs *PreferenceStore,
	decoder *security.ClaimsDecoder,
	auth Authenticator,
	redirect Redirector,
	logger *slog.Logger,
) *SessionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionService{
		tokens:   tokens,
		prefs:    prefs,
		decoder:  decoder,
		auth:     auth,
		redirect: redirect,
		logger:   logger,
		now:      time.Now,
		booting:  true,
		state:    domain.Session{IsLoading: true},
	}
}

// Bootstrap restores the session from persisted state. Concurrent callers
// share one execution and later calls return the current snapshot.
func (s *SessionService) Bootstrap(ctx context.Context) domain.Session {
	v, _, _ := s.boot.Do("bootstrap", func() (any, error) {
		s.mu.Lock()
		done := s.bootstrapped
		s.mu.Unlock()
		if done {
			return s.Snapshot(), nil
		}
		return s.bootstrap(ctx), nil
	})
	return v.(domain.Session)
}

func (s *SessionService) bootstrap(ctx context.Context) domain.Session {
	dark, err := s.prefs.DarkMode(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "restore theme failed", "error", err)
	}
	cart, err := s.prefs.CartCount(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "restore cart count failed", "error", err)
	}

	outcome := "anonymous"
	var user *domain.User
	token, ok, err := s.tokens.Token(ctx)
	switch {
	case errors.Is(err, ErrTokenCorrupt):
		s.logger.WarnContext(ctx, "discarding unreadable token", "error", err)
		s.removeToken(ctx)
		outcome = "invalid"
	case err != nil:
		s.logger.WarnContext(ctx, "read token failed", "error", err)
		outcome = "error"
	case ok:
		claims, derr := s.decoder.Decode(token)
		switch {
		case derr != nil:
			s.logger.WarnContext(ctx, "discarding undecodable token", "error", derr)
			s.removeToken(ctx)
			outcome = "invalid"
		case claims.Expired(s.now()):
			s.logger.InfoContext(ctx, "stored session expired", "expired_at", claims.ExpiresAt.Time)
			removed, err := s.discardStoredToken(ctx)
			if err != nil {
				s.logger.WarnContext(ctx, "clear expired token failed", "error", err)
			}
			if removed {
				status := "success"
				if err != nil {
					status = "error"
				}
				observability.RecordAuthLogout(ctx, status)
			}
			outcome = "expired"
		default:
			u := claims.User()
			user = &u
			outcome = "authenticated"
		}
	}
	if user == nil {
		token = ""
	}

	snap := s.mutate(func(st *domain.Session) {
		st.DarkMode = dark
		st.CartCount = cart
		if !st.IsLoggedIn {
			st.Token = token
			st.User = user
			st.IsLoggedIn = user != nil
		}
		s.booting = false
		s.bootstrapped = true
	})
	observability.RecordSessionBootstrap(ctx, outcome)
	s.logger.DebugContext(ctx, "session bootstrapped", "outcome", outcome)
	return snap
}

// Login posts credentials to endpoint. Backend errors are returned unchanged.
func (s *SessionService) Login(ctx context.Context, endpoint string, credentials any) error {
	s.mutate(func(*domain.Session) { s.inflight++ })
	defer s.mutate(func(*domain.Session) { s.inflight-- })

	res, err := s.auth.Authenticate(ctx, endpoint, credentials)
	if err != nil {
		observability.RecordAuthLogin(ctx, endpoint, "failure")
		s.logger.InfoContext(ctx, "login rejected", "endpoint", endpoint, "error", err)
		return err
	}

	var user *domain.User
	token := ""
	if res != nil {
		if res.User != nil {
			u := *res.User
			user = &u
		}
		token = strings.TrimSpace(res.Token)
	}
	if token != "" {
		if claims, derr := s.decoder.Decode(token); derr == nil {
			u := claims.User()
			user = &u
		} else {
			s.logger.DebugContext(ctx, "login token not decodable", "error", derr)
		}
	}

	s.tokenMu.Lock()
	// A cookie-only login must not leave the previous user's token behind.
	var perr error
	if token != "" {
		perr = s.tokens.SetToken(ctx, token)
	} else {
		perr = s.tokens.RemoveToken(ctx)
	}
	if perr != nil {
		s.tokenMu.Unlock()
		observability.RecordAuthLogin(ctx, endpoint, "error")
		return fmt.Errorf("persist token: %w", perr)
	}
	s.mutate(func(st *domain.Session) {
		st.Token = token
		st.User = user
		st.IsLoggedIn = true
	})
	s.tokenMu.Unlock()
	observability.RecordAuthLogin(ctx, endpoint, "success")
	observability.Audit(ctx, "auth.login", "endpoint", endpoint)
	s.navigate(LandingPath)
	return nil
}

// AcceptToken installs a token delivered out of band, such as the OAuth
// callback, after the same checks bootstrap applies.
func (s *SessionService) AcceptToken(ctx context.Context, token string) error {
	claims, err := s.decoder.Decode(token)
	if err != nil {
		observability.RecordAuthLogin(ctx, "oauth", "failure")
		return fmt.Errorf("%w: %v", ErrTokenRejected, err)
	}
	if claims.Expired(s.now()) {
		observability.RecordAuthLogin(ctx, "oauth", "failure")
		return fmt.Errorf("%w: token expired", ErrTokenRejected)
	}
	u := claims.User()
	s.tokenMu.Lock()
	if err := s.tokens.SetToken(ctx, token); err != nil {
		s.tokenMu.Unlock()
		observability.RecordAuthLogin(ctx, "oauth", "error")
		return fmt.Errorf("persist token: %w", err)
	}
	s.mutate(func(st *domain.Session) {
		st.Token = token
		st.User = &u
		st.IsLoggedIn = true
	})
	s.tokenMu.Unlock()
	observability.RecordAuthLogin(ctx, "oauth", "success")
	observability.Audit(ctx, "auth.login", "endpoint", "oauth")
	s.navigate(LandingPath)
	return nil
}

// Logout always leaves the session logged out, even when the token store
// fails; the storage error is returned.
func (s *SessionService) Logout(ctx context.Context) error {
	err := s.logout(ctx)
	observability.Audit(ctx, "auth.logout")
	s.navigate(EntryPath)
	return err
}

func (s *SessionService) logout(ctx context.Context) error {
	s.tokenMu.Lock()
	err := s.tokens.RemoveToken(ctx)
	s.mutate(func(st *domain.Session) {
		st.Token = ""
		st.User = nil
		st.IsLoggedIn = false
	})
	s.tokenMu.Unlock()
	status := "success"
	if err != nil {
		status = "error"
	}
	observability.RecordAuthLogout(ctx, status)
	return err
}

func (s *SessionService) removeToken(ctx context.Context) {
	if _, err := s.discardStoredToken(ctx); err != nil {
		s.logger.WarnContext(ctx, "remove token failed", "error", err)
	}
}

// discardStoredToken deletes the token bootstrap read unless a login has
// landed since. It reports whether the token was removed.
func (s *SessionService) discardStoredToken(ctx context.Context) (bool, error) {
	s.tokenMu.Lock()
	defer s.tokenMu.Unlock()
	if s.Snapshot().IsLoggedIn {
		return false, nil
	}
	return true, s.tokens.RemoveToken(ctx)
}

// AddToCart is client-only: it bumps the counter and persists it.
func (s *SessionService) AddToCart(ctx context.Context, productID string) (int, error) {
	s.prefMu.Lock()
	defer s.prefMu.Unlock()
	snap := s.mutate(func(st *domain.Session) { st.CartCount++ })
	s.logger.DebugContext(ctx, "added to cart", "product_id", productID, "cart_count", snap.CartCount)
	if err := s.prefs.SetCartCount(ctx, snap.CartCount); err != nil {
		return snap.CartCount, err
	}
	return snap.CartCount, nil
}

func (s *SessionService) ToggleTheme(ctx context.Context) (bool, error) {
	s.prefMu.Lock()
	defer s.prefMu.Unlock()
	snap := s.mutate(func(st *domain.Session) { st.DarkMode = !st.DarkMode })
	if err := s.prefs.SetDarkMode(ctx, snap.DarkMode); err != nil {
		return snap.DarkMode, err
	}
	return snap.DarkMode, nil
}

func (s *SessionService) Snapshot() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Subscribe registers fn for every state change. The returned function
// removes the subscription.
func (s *SessionService) Subscribe(fn func(domain.Session)) func() {
	s.mu.Lock()
	s.nextSubID++
	id := s.nextSubID
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Token implements oauth2.TokenSource over the current session.
func (s *SessionService) Token() (*oauth2.Token, error) {
	snap := s.Snapshot()
	if snap.Token == "" {
		return nil, ErrNoSession
	}
	tok := &oauth2.Token{AccessToken: snap.Token, TokenType: "Bearer"}
	if claims, err := s.decoder.Decode(snap.Token); err == nil {
		tok.Expiry = claims.ExpiresAt.Time
	}
	return tok, nil
}

func (s *SessionService) mutate(fn func(st *domain.Session)) domain.Session {
	s.mu.Lock()
	fn(&s.state)
	s.state.IsLoading = s.booting || s.inflight > 0
	snap := s.state.Clone()
	subs := make([]func(domain.Session), 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub.fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap.Clone())
	}
	return snap
}

func (s *SessionService) navigate(path string) {
	if s.redirect != nil {
		s.redirect.Redirect(path)
	}
}
