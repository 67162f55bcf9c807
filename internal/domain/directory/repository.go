package directory

import "context"

// FarmerQuery filtra el listado de farmers. Los campos son opcionales y se
// combinan con AND; siempre se restringe a role=farmer activos.
type FarmerQuery struct {
	IDs      []string
	District string
	Sector   string
}

type Repository interface {
	Create(ctx context.Context, u User) error
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	ListFarmers(ctx context.Context, q FarmerQuery) ([]User, error)
	CountByRole(ctx context.Context, role Role) (int, error)
}
