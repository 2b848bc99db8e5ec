package leaderboard

import (
	"context"
	"sync"

	"github.com/smallbiznis/orderlens/internal/leaderboard/domain"
)

// Registry holds the dashboard's providers in registration order and
// composes their boards into one slice.
type Registry struct {
	mu        sync.RWMutex
	providers []domain.Provider
}

func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) Register(provider domain.Provider) {
	if provider == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers = append(r.providers, provider)
}

func (r *Registry) Apply(ctx context.Context, req domain.Request) []domain.Leaderboard {
	r.mu.RLock()
	providers := make([]domain.Provider, len(r.providers))
	copy(providers, r.providers)
	r.mu.RUnlock()

	boards := []domain.Leaderboard{}
	for _, provider := range providers {
		boards = provider.Apply(ctx, boards, req)
	}
	return boards
}
