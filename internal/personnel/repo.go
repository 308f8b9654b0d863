package personnel

import "context"

// Repository is the roster. Records go in and come out as copies.
type Repository interface {
	List(ctx context.Context) ([]Personnel, error)
	ListByBase(ctx context.Context, baseID string) ([]Personnel, error)
	Get(ctx context.Context, id string) (Personnel, bool, error)
	Add(ctx context.Context, p Personnel) error
	Update(ctx context.Context, p Personnel) (Personnel, error)
	UpdateMany(ctx context.Context, ps []Personnel) error
}
