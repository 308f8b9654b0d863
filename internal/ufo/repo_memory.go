package ufo

import (
	"context"
	"fmt"
	"sync"
)

// MemoryRepo keeps spawn order.
type MemoryRepo struct {
	mu sync.RWMutex
	us []UFO
}

func NewMemoryRepo() *MemoryRepo { return &MemoryRepo{us: []UFO{}} }

func clone(u UFO) UFO {
	if u.Trajectory != nil {
		tr := *u.Trajectory
		u.Trajectory = &tr
	}
	u.DetectedBy = append([]string(nil), u.DetectedBy...)
	return u
}

func (r *MemoryRepo) List(ctx context.Context) ([]UFO, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]UFO, len(r.us))
	for i, u := range r.us {
		out[i] = clone(u)
	}
	return out, nil
}

func (r *MemoryRepo) Get(ctx context.Context, id string) (UFO, bool, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.us {
		if u.ID == id {
			return clone(u), true, nil
		}
	}
	return UFO{}, false, nil
}

func (r *MemoryRepo) Add(ctx context.Context, u UFO) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.us {
		if existing.ID == u.ID {
			return fmt.Errorf("ufo already exists: %s", u.ID)
		}
	}
	r.us = append(r.us, clone(u))
	return nil
}

func (r *MemoryRepo) Update(ctx context.Context, u UFO) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.us {
		if r.us[i].ID == u.ID {
			r.us[i] = clone(u)
			return nil
		}
	}
	return fmt.Errorf("ufo not found: %s", u.ID)
}

func (r *MemoryRepo) Count(ctx context.Context) (int, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.us), nil
}

func (r *MemoryRepo) Remove(ctx context.Context, id string) (bool, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.us {
		if r.us[i].ID == id {
			r.us = append(r.us[:i], r.us[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}
