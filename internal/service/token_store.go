package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/sandeepkv93/shophub-client/internal/repository"
)

const (
	TokenKey     = "token"
	ThemeKey     = "theme"
	CartCountKey = "cartCount"
	ReturnToKey  = "returnTo"

	themeDark  = "dark"
	themeLight = "light"
)

var ErrTokenCorrupt = errors.New("persisted token is corrupt")

// TokenStore owns the persisted bearer token.
type TokenStore struct {
	repo   repository.StateRepository
	sealer *Sealer
}

func NewTokenStore(repo repository.StateRepository, sealer *Sealer) *TokenStore {
	return &TokenStore{repo: repo, sealer: sealer}
}

func (s *TokenStore) Token(ctx context.Context) (string, bool, error) {
	v, err := s.repo.Get(ctx, TokenKey)
	if errors.Is(err, repository.ErrStateNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read token: %w", err)
	}
	if v == "" {
		return "", false, nil
	}
	if s.sealer == nil {
		return v, true, nil
	}
	plain, err := s.sealer.Open(v)
	if err != nil {
		return "", false, fmt.Errorf("%w: %v", ErrTokenCorrupt, err)
	}
	return plain, true, nil
}

func (s *TokenStore) SetToken(ctx context.Context, token string) error {
	v := token
	if s.sealer != nil {
		sealed, err := s.sealer.Seal(token)
		if err != nil {
			return err
		}
		v = sealed
	}
	if err := s.repo.Set(ctx, TokenKey, v); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	return nil
}

func (s *TokenStore) RemoveToken(ctx context.Context) error {
	if err := s.repo.Delete(ctx, TokenKey); err != nil {
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}

// PreferenceStore persists theme, cart counter and the pending return
// location independently of the token.
type PreferenceStore struct {
	repo repository.StateRepository
}

func NewPreferenceStore(repo repository.StateRepository) *PreferenceStore {
	return &PreferenceStore{repo: repo}
}

func (p *PreferenceStore) DarkMode(ctx context.Context) (bool, error) {
	v, err := p.repo.Get(ctx, ThemeKey)
	if errors.Is(err, repository.ErrStateNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read theme: %w", err)
	}
	return v == themeDark, nil
}

func (p *PreferenceStore) SetDarkMode(ctx context.Context, dark bool) error {
	v := themeLight
	if dark {
		v = themeDark
	}
	if err := p.repo.Set(ctx, ThemeKey, v); err != nil {
		return fmt.Errorf("write theme: %w", err)
	}
	return nil
}

// CartCount treats unparsable or negative values as zero.
func (p *PreferenceStore) CartCount(ctx context.Context) (int, error) {
	v, err := p.repo.Get(ctx, CartCountKey)
	if errors.Is(err, repository.ErrStateNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read cart count: %w", err)
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, nil
	}
	return n, nil
}

func (p *PreferenceStore) SetCartCount(ctx context.Context, n int) error {
	if err := p.repo.Set(ctx, CartCountKey, strconv.Itoa(n)); err != nil {
		return fmt.Errorf("write cart count: %w", err)
	}
	return nil
}

func (p *PreferenceStore) SetReturnTo(ctx context.Context, path string) error {
	if err := p.repo.Set(ctx, ReturnToKey, path); err != nil {
		return fmt.Errorf("write return location: %w", err)
	}
	return nil
}

// TakeReturnTo reads and forgets the pending return location.
func (p *PreferenceStore) TakeReturnTo(ctx context.Context) (string, error) {
	v, err := p.repo.Get(ctx, ReturnToKey)
	if errors.Is(err, repository.ErrStateNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read return location: %w", err)
	}
	if err := p.repo.Delete(ctx, ReturnToKey); err != nil {
		return "", fmt.Errorf("remove return location: %w", err)
	}
	return v, nil
}
