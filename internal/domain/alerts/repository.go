package alerts

import "context"

type ListFilter struct {
	Limit  int
	Offset int
}

// Repository persiste alertas. No hay Update: las alertas son inmutables.
type Repository interface {
	Create(ctx context.Context, a Alert) error
	List(ctx context.Context, f ListFilter) ([]Alert, error)
	Count(ctx context.Context) (int, error)
}
