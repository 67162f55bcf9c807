package postgres

import (
	"context"
	"database/sql"
	"strings"

	"vet-connect/internal/domain/livestock"
)

type LivestockRepo struct {
	db *sql.DB
}

func NewLivestockRepo(db *sql.DB) *LivestockRepo {
	return &LivestockRepo{db: db}
}

func (r *LivestockRepo) Create(ctx context.Context, a livestock.Animal) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO livestock (
			id, farmer_id,
			name, type, breed, age, weight,
			health_status, tag_number, notes,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		a.ID,
		a.FarmerID,
		a.Name,
		string(a.Type),
		a.Breed,
		a.Age,
		a.Weight,
		string(a.HealthStatus),
		a.TagNumber,
		a.Notes,
		a.CreatedAt,
		a.UpdatedAt,
	)
	return err
}

func (r *LivestockRepo) GetByID(ctx context.Context, id string) (livestock.Animal, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return livestock.Animal{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, farmer_id,
			name, type, breed, age, weight,
			health_status, tag_number, notes,
			created_at, updated_at
		FROM livestock
		WHERE id = $1
	`, id)

	a, err := scanAnimal(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return livestock.Animal{}, ErrNotFound
		}
		return livestock.Animal{}, err
	}
	return a, nil
}

func (r *LivestockRepo) ListByFarmer(ctx context.Context, farmerID string) ([]livestock.Animal, error) {
	farmerID = strings.TrimSpace(farmerID)
	if farmerID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, farmer_id,
			name, type, breed, age, weight,
			health_status, tag_number, notes,
			created_at, updated_at
		FROM livestock
		WHERE farmer_id = $1
		ORDER BY created_at DESC, id DESC
	`, farmerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]livestock.Animal, 0)
	for rows.Next() {
		a, err := scanAnimal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}

	return out, rows.Err()
}

func scanAnimal(row rowScanner) (livestock.Animal, error) {
	var a livestock.Animal
	var typ, health string

	if err := row.Scan(
		&a.ID,
		&a.FarmerID,
		&a.Name,
		&typ,
		&a.Breed,
		&a.Age,
		&a.Weight,
		&health,
		&a.TagNumber,
		&a.Notes,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return livestock.Animal{}, err
	}

	a.Type = livestock.Type(typ)
	a.HealthStatus = livestock.HealthStatus(health)

	return a, nil
}
