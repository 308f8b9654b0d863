package vehicle

import "context"

type Repository interface {
	List(ctx context.Context) ([]Vehicle, error)
	ListByBase(ctx context.Context, baseID string) ([]Vehicle, error)
	Get(ctx context.Context, id string) (Vehicle, bool, error)
	Add(ctx context.Context, v Vehicle) error
	Update(ctx context.Context, v Vehicle) error
}
