package livestock

import "context"

type Repository interface {
	Create(ctx context.Context, a Animal) error
	GetByID(ctx context.Context, id string) (Animal, error)
	ListByFarmer(ctx context.Context, farmerID string) ([]Animal, error)
}
