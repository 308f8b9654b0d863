package ufo

import "context"

type Repository interface {
	List(ctx context.Context) ([]UFO, error)
	Get(ctx context.Context, id string) (UFO, bool, error)
	Add(ctx context.Context, u UFO) error
	Update(ctx context.Context, u UFO) error
	Count(ctx context.Context) (int, error)
	Remove(ctx context.Context, id string) (bool, error)
}
