package appointments

import "context"

// Repository persiste citas. Los listados vienen ordenados por date desc y
// time asc como desempate.
type Repository interface {
	Create(ctx context.Context, a Appointment) error
	Update(ctx context.Context, a Appointment) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Appointment, error)
	ListByFarmer(ctx context.Context, farmerID string) ([]Appointment, error)
	ListByVet(ctx context.Context, vetID string) ([]Appointment, error)
}
