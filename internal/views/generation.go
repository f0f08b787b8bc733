package views

import "sync"

// Generation hands out request tickets per view key. Only the newest ticket
// for a key may apply its result.
type Generation struct {
	mu      sync.Mutex
	current map[string]uint64
}

func NewGeneration() *Generation {
	return &Generation{current: map[string]uint64{}}
}

type Ticket struct {
	g   *Generation
	key string
	n   uint64
}

func (g *Generation) Begin(key string) Ticket {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.current[key]++
	return Ticket{g: g, key: key, n: g.current[key]}
}

func (t Ticket) Current() bool {
	t.g.mu.Lock()
	defer t.g.mu.Unlock()
	return t.g.current[t.key] == t.n
}

// Apply runs fn only if the ticket is still current and reports whether it ran.
func (t Ticket) Apply(fn func()) bool {
	t.g.mu.Lock()
	defer t.g.mu.Unlock()
	if t.g.current[t.key] != t.n {
		return false
	}
	fn()
	return true
}
