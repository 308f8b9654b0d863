package vehicle

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

type MemoryRepo struct {
	mu sync.RWMutex
	m  map[string]Vehicle
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{m: map[string]Vehicle{}}
}

func clone(v Vehicle) Vehicle {
	v.Crew = append([]string{}, v.Crew...)
	v.Weapons = append([]Weapon{}, v.Weapons...)
	v.Components = append([]Component{}, v.Components...)
	return v
}

func (r *MemoryRepo) List(ctx context.Context) ([]Vehicle, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Vehicle, 0, len(r.m))
	for _, v := range r.m {
		out = append(out, clone(v))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryRepo) ListByBase(ctx context.Context, baseID string) ([]Vehicle, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Vehicle, 0, len(all))
	for _, v := range all {
		if v.BaseID == baseID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *MemoryRepo) Get(ctx context.Context, id string) (Vehicle, bool, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.m[id]
	if !ok {
		return Vehicle{}, false, nil
	}
	return clone(v), true, nil
}

func (r *MemoryRepo) Add(ctx context.Context, v Vehicle) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.m[v.ID]; exists {
		return fmt.Errorf("vehicle already exists: %s", v.ID)
	}
	r.m[v.ID] = clone(v)
	return nil
}

func (r *MemoryRepo) Update(ctx context.Context, v Vehicle) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.m[v.ID]; !ok {
		return fmt.Errorf("vehicle not found: %s", v.ID)
	}
	r.m[v.ID] = clone(v)
	return nil
}
