package personnel

import (
	"context"
	"fmt"
	"sync"
)

// MemoryRepo lists people in the order they were hired.
type MemoryRepo struct {
	mu    sync.RWMutex
	byID  map[string]Personnel
	hired []string
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: map[string]Personnel{}}
}

func (r *MemoryRepo) List(ctx context.Context) ([]Personnel, error) {
	return r.filter(ctx, func(Personnel) bool { return true })
}

func (r *MemoryRepo) ListByBase(ctx context.Context, baseID string) ([]Personnel, error) {
	return r.filter(ctx, func(p Personnel) bool { return p.BaseID == baseID })
}

func (r *MemoryRepo) filter(ctx context.Context, keep func(Personnel) bool) ([]Personnel, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Personnel, 0, len(r.hired))
	for _, id := range r.hired {
		if p := r.byID[id]; keep(p) {
			out = append(out, p.Clone())
		}
	}
	return out, nil
}

func (r *MemoryRepo) Get(ctx context.Context, id string) (Personnel, bool, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return Personnel{}, false, nil
	}
	return p.Clone(), true, nil
}

func (r *MemoryRepo) Add(ctx context.Context, p Personnel) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[p.ID]; exists {
		return fmt.Errorf("personnel already on the roster: %s", p.ID)
	}
	r.byID[p.ID] = p.Clone()
	r.hired = append(r.hired, p.ID)
	return nil
}

func (r *MemoryRepo) Update(ctx context.Context, p Personnel) (Personnel, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[p.ID]; !ok {
		return Personnel{}, fmt.Errorf("personnel not on the roster: %s", p.ID)
	}
	r.byID[p.ID] = p.Clone()
	return p.Clone(), nil
}

// UpdateMany writes all of ps or none of them.
func (r *MemoryRepo) UpdateMany(ctx context.Context, ps []Personnel) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range ps {
		if _, ok := r.byID[p.ID]; !ok {
			return fmt.Errorf("personnel not on the roster: %s", p.ID)
		}
	}
	for _, p := range ps {
		r.byID[p.ID] = p.Clone()
	}
	return nil
}
