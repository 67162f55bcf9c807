package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"vet-connect/internal/domain/directory"
)

type UsersRepo struct {
	db *sql.DB
}

func NewUsersRepo(db *sql.DB) *UsersRepo {
	return &UsersRepo{db: db}
}

func (r *UsersRepo) Create(ctx context.Context, u directory.User) error {
	var district, sector sql.NullString
	if u.Farmer != nil {
		district = toNullString(u.Farmer.District)
		sector = toNullString(u.Farmer.Sector)
	}

	var specialty, license, location sql.NullString
	var rating sql.NullFloat64
	if u.Vet != nil {
		specialty = toNullString(u.Vet.Specialty)
		license = toNullString(u.Vet.LicenseNumber)
		location = toNullString(u.Vet.Location)
		rating = sql.NullFloat64{Float64: u.Vet.Rating, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (
			id, name, email, phone, role,
			active, password_hash,
			district, sector,
			specialty, license_number, location, rating,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
	`,
		u.ID,
		u.Name,
		u.Email,
		u.Phone,
		string(u.Role),
		u.Active,
		u.PasswordHash,
		district,
		sector,
		specialty,
		license,
		location,
		rating,
		u.CreatedAt,
		u.UpdatedAt,
	)
	return err
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (directory.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return directory.User{}, ErrNotFound
	}
	return r.getByField(ctx, "id", id)
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (directory.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return directory.User{}, ErrNotFound
	}
	return r.getByField(ctx, "email", email)
}

func (r *UsersRepo) getByField(ctx context.Context, field, value string) (directory.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, name, email, phone, role,
			active, password_hash,
			district, sector,
			specialty, license_number, location, rating,
			created_at, updated_at
		FROM users
		WHERE `+field+` = $1
	`, value)

	u, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return directory.User{}, ErrNotFound
		}
		return directory.User{}, err
	}
	return u, nil
}

func (r *UsersRepo) ListFarmers(ctx context.Context, q directory.FarmerQuery) ([]directory.User, error) {
	sb := strings.Builder{}
	sb.WriteString(`
		SELECT
			id, name, email, phone, role,
			active, password_hash,
			district, sector,
			specialty, license_number, location, rating,
			created_at, updated_at
		FROM users
		WHERE role = 'farmer' AND active
	`)

	args := []any{}
	argN := 1

	if len(q.IDs) > 0 {
		placeholders := make([]string, 0, len(q.IDs))
		for _, id := range q.IDs {
			placeholders = append(placeholders, fmt.Sprintf("$%d", argN))
			args = append(args, id)
			argN++
		}
		sb.WriteString(" AND id IN (" + strings.Join(placeholders, ",") + ")")
	}
	if strings.TrimSpace(q.District) != "" {
		sb.WriteString(fmt.Sprintf(" AND district = $%d", argN))
		args = append(args, strings.TrimSpace(q.District))
		argN++
	}
	if strings.TrimSpace(q.Sector) != "" {
		sb.WriteString(fmt.Sprintf(" AND sector = $%d", argN))
		args = append(args, strings.TrimSpace(q.Sector))
		argN++
	}

	// mismo orden determinista que el repo en memoria
	sb.WriteString(" ORDER BY created_at ASC, id ASC")

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]directory.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}

	return out, rows.Err()
}

func (r *UsersRepo) CountByRole(ctx context.Context, role directory.Role) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM users WHERE role = $1 AND active
	`, string(role)).Scan(&n)
	return n, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (directory.User, error) {
	var u directory.User
	var role string
	var district, sector sql.NullString
	var specialty, license, location sql.NullString
	var rating sql.NullFloat64

	if err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.Phone,
		&role,
		&u.Active,
		&u.PasswordHash,
		&district,
		&sector,
		&specialty,
		&license,
		&location,
		&rating,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		return directory.User{}, err
	}

	u.Role = directory.Role(role)
	switch u.Role {
	case directory.RoleFarmer:
		u.Farmer = &directory.FarmerProfile{
			District: district.String,
			Sector:   sector.String,
		}
	case directory.RoleVeterinarian:
		u.Vet = &directory.VetProfile{
			Specialty:     specialty.String,
			LicenseNumber: license.String,
			Location:      location.String,
			Rating:        rating.Float64,
		}
	}

	return u, nil
}
