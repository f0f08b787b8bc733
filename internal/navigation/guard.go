package navigation

import (
	"context"

	"github.com/sandeepkv93/shophub-client/internal/domain"
)

type State int

const (
	Pending State = iota
	Authorized
	Denied
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Authorized:
		return "authorized"
	case Denied:
		return "denied"
	default:
		return "unknown"
	}
}

type Decision struct {
	State      State
	Location   string
	RedirectTo string
	From       string
	// Roles are recorded for the route but not enforced.
	Roles []domain.Role
}

type SessionSource interface {
	Snapshot() domain.Session
	Subscribe(fn func(domain.Session)) func()
}

// Evaluate is the guard's transition function.
func Evaluate(s domain.Session, location string, roles []domain.Role) Decision {
	d := Decision{Location: location, Roles: roles}
	switch {
	case s.IsLoading:
		d.State = Pending
	case s.IsLoggedIn:
		d.State = Authorized
	default:
		d.State = Denied
		d.RedirectTo = EntryPath
		d.From = location
	}
	return d
}

type Guard struct {
	session SessionSource
}

func NewGuard(session SessionSource) *Guard {
	return &Guard{session: session}
}

// Resolve waits while the decision is pending. Once terminal, the decision
// does not change for this evaluation.
func (g *Guard) Resolve(ctx context.Context, location string, roles []domain.Role) (Decision, error) {
	changed := make(chan struct{}, 1)
	cancel := g.session.Subscribe(func(domain.Session) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer cancel()

	d := Evaluate(g.session.Snapshot(), location, roles)
	for d.State == Pending {
		select {
		case <-ctx.Done():
			return d, ctx.Err()
		case <-changed:
			d = Evaluate(g.session.Snapshot(), location, roles)
		}
	}
	return d, nil
}
