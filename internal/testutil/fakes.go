package testutil

import (
	"context"
	"sync"

	"github.com/Additional-Code/funerarias/internal/entity"
	providerrepo "github.com/Additional-Code/funerarias/internal/repository/provider"
)

// Providers is an in-memory provider lookup keyed by id.
type Providers struct {
	mu   sync.Mutex
	byID map[int64]entity.Provider
}

// NewProviders returns a lookup seeded with ps.
func NewProviders(ps ...entity.Provider) *Providers {
	p := &Providers{byID: make(map[int64]entity.Provider)}
	for _, v := range ps {
		p.byID[v.ID] = v
	}
	return p
}

// GetByID returns the provider or providerrepo.ErrNotFound.
func (p *Providers) GetByID(_ context.Context, id int64) (*entity.Provider, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.byID[id]
	if !ok {
		return nil, providerrepo.ErrNotFound
	}
	return &v, nil
}
