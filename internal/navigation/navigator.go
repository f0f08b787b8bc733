package navigation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

var ErrRouteNotFound = errors.New("route not found")

type Result struct {
	Route    Route
	Params   map[string]string
	Decision Decision
}

// ReturnStore keeps the location a denied navigation asked for, so a later
// process can resume it after sign-in.
type ReturnStore interface {
	SetReturnTo(ctx context.Context, path string) error
	TakeReturnTo(ctx context.Context) (string, error)
}

type Navigator struct {
	history *History
	guard   *Guard
	routes  []Route
	returns ReturnStore
	logger  *slog.Logger

	mu       sync.Mutex
	returnTo string
}

// NewNavigator builds a navigator. returns may be nil, in which case the
// return location only lives as long as the navigator.
func NewNavigator(history *History, guard *Guard, routes []Route, returns ReturnStore, logger *slog.Logger) *Navigator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Navigator{history: history, guard: guard, routes: routes, returns: returns, logger: logger}
}

// Navigate evaluates the route's guard fresh and moves the history. A denied
// navigation lands on the redirect target and remembers the requested path.
func (n *Navigator) Navigate(ctx context.Context, path string) (Result, error) {
	route, params, ok := n.match(path)
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrRouteNotFound, path)
	}
	res := Result{Route: route, Params: params}
	if !route.Protected {
		res.Decision = Decision{State: Authorized, Location: path}
		n.history.Push(path)
		return res, nil
	}

	d, err := n.guard.Resolve(ctx, path, route.Roles)
	res.Decision = d
	if err != nil {
		return res, err
	}
	if len(route.Roles) > 0 {
		n.logger.DebugContext(ctx, "route roles recorded, not enforced", "route", route.Name, "roles", route.Roles)
	}
	if d.State == Denied {
		n.mu.Lock()
		n.returnTo = d.From
		n.mu.Unlock()
		if n.returns != nil {
			if err := n.returns.SetReturnTo(ctx, d.From); err != nil {
				n.logger.WarnContext(ctx, "persist return location failed", "from", d.From, "error", err)
			}
		}
		n.history.Push(d.RedirectTo)
		return res, nil
	}
	n.history.Push(path)
	return res, nil
}

// ReturnTo consumes the location remembered by the last denied navigation,
// falling back to the persisted one and then to the landing view.
func (n *Navigator) ReturnTo(ctx context.Context) string {
	n.mu.Lock()
	to := n.returnTo
	n.returnTo = ""
	n.mu.Unlock()
	if n.returns != nil {
		stored, err := n.returns.TakeReturnTo(ctx)
		if err != nil {
			n.logger.WarnContext(ctx, "read return location failed", "error", err)
		} else if to == "" {
			to = stored
		}
	}
	if _, _, ok := n.match(to); !ok {
		return LandingPath
	}
	return to
}

func (n *Navigator) Current() string { return n.history.Current() }

func (n *Navigator) match(path string) (Route, map[string]string, bool) {
	for _, r := range n.routes {
		if params, ok := r.Match(path); ok {
			return r, params, true
		}
	}
	return Route{}, nil, false
}
