package navigation

import "sync"

// History is the location stack. Redirect replaces the current entry.
type History struct {
	mu      sync.Mutex
	entries []string
}

func NewHistory() *History {
	return &History{entries: []string{LandingPath}}
}

func (h *History) Push(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, path)
}

func (h *History) Redirect(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries[len(h.entries)-1] = path
}

func (h *History) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[len(h.entries)-1]
}

// Back pops the current entry and returns the new current location.
func (h *History) Back() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) > 1 {
		h.entries = h.entries[:len(h.entries)-1]
	}
	return h.entries[len(h.entries)-1]
}

func (h *History) Entries() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.entries...)
}
