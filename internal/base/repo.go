package base

import "context"

type Repository interface {
	List(ctx context.Context) ([]Base, error)
	Get(ctx context.Context, id string) (Base, bool, error)
	Add(ctx context.Context, b Base) error
	Update(ctx context.Context, b Base) error
}
