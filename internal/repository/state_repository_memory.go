package repository

import (
	"context"
	"sync"

	"github.com/sandeepkv93/shophub-client/internal/observability"
)

type InMemoryStateRepository struct {
	mu      sync.RWMutex
	entries map[string]string
}

func NewInMemoryStateRepository() *InMemoryStateRepository {
	return &InMemoryStateRepository{entries: make(map[string]string)}
}

func (r *InMemoryStateRepository) Get(ctx context.Context, key string) (string, error) {
	r.mu.RLock()
	v, ok := r.entries[key]
	r.mu.RUnlock()
	if !ok {
		observability.RecordRepositoryOperation(ctx, "memory", "get", "not_found")
		return "", ErrStateNotFound
	}
	observability.RecordRepositoryOperation(ctx, "memory", "get", "success")
	return v, nil
}

func (r *InMemoryStateRepository) Set(ctx context.Context, key, value string) error {
	r.mu.Lock()
	r.entries[key] = value
	r.mu.Unlock()
	observability.RecordRepositoryOperation(ctx, "memory", "set", "success")
	return nil
}

func (r *InMemoryStateRepository) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	delete(r.entries, key)
	r.mu.Unlock()
	observability.RecordRepositoryOperation(ctx, "memory", "delete", "success")
	return nil
}
