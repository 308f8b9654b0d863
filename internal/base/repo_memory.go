package base

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryRepo clones on the way in and out so callers never alias stored
// slices.
type MemoryRepo struct {
	mu    sync.RWMutex
	bases map[string]Base
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{bases: make(map[string]Base)}
}

func (r *MemoryRepo) List(ctx context.Context) ([]Base, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Base, 0, len(r.bases))
	for _, b := range r.bases {
		out = append(out, b.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryRepo) Get(ctx context.Context, id string) (Base, bool, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bases[id]
	if !ok {
		return Base{}, false, nil
	}
	return b.Clone(), true, nil
}

func (r *MemoryRepo) Add(ctx context.Context, b Base) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.bases[b.ID]; exists {
		return fmt.Errorf("base already exists: %s", b.ID)
	}
	r.bases[b.ID] = b.Clone()
	return nil
}

func (r *MemoryRepo) Update(ctx context.Context, b Base) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.bases[b.ID]; !ok {
		return fmt.Errorf("base not found: %s", b.ID)
	}
	r.bases[b.ID] = b.Clone()
	return nil
}
