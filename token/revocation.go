package token

import (
	"context"
	"sync"
)

// Registry records encoded tokens that must no longer be accepted.
// Entries are never removed for the lifetime of the process.
type Registry interface {
	Revoke(ctx context.Context, raw string) error
	IsRevoked(ctx context.Context, raw string) (bool, error)
	Len() int
}

// InMemoryRegistry is a process local Registry. It starts empty on every
// boot and does not evict expired tokens.
type InMemoryRegistry struct {
	revoked map[string]struct{}
	mu      sync.RWMutex
}

func NewInMemoryRegistry() *InMemoryRegistry {
	return &InMemoryRegistry{
		revoked: make(map[string]struct{}),
	}
}

func (r *InMemoryRegistry) Revoke(ctx context.Context, raw string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revoked[raw] = struct{}{}
	return nil
}

func (r *InMemoryRegistry) IsRevoked(ctx context.Context, raw string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.revoked[raw]
	return exists, nil
}

func (r *InMemoryRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.revoked)
}
