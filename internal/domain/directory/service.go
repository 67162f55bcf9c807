package directory

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrNotFound       = errors.New("not found")
	ErrEmailTaken     = errors.New("email already registered")
	ErrBadCredentials = errors.New("invalid credentials")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
	Role     Role

	// Solo uno según Role; Register rechaza combinaciones cruzadas.
	Farmer *FarmerProfile
	Vet    *VetProfile
}

// Register valida la unión etiquetada en construcción:
// - farmer exige district + sector
// - veterinarian exige specialty + licenseNumber + location
// - admin no lleva perfil
func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	password := strings.TrimSpace(in.Password)

	if name == "" || email == "" || password == "" {
		return User{}, ErrInvalidInput
	}
	if !in.Role.Valid() {
		return User{}, ErrInvalidInput
	}

	u := User{
		ID:     uuid.NewString(),
		Name:   name,
		Email:  email,
		Phone:  strings.TrimSpace(in.Phone),
		Role:   in.Role,
		Active: true,
	}

	switch in.Role {
	case RoleFarmer:
		if in.Vet != nil || in.Farmer == nil {
			return User{}, ErrInvalidInput
		}
		f := FarmerProfile{
			District: strings.TrimSpace(in.Farmer.District),
			Sector:   strings.TrimSpace(in.Farmer.Sector),
		}
		if f.District == "" || f.Sector == "" {
			return User{}, ErrInvalidInput
		}
		u.Farmer = &f

	case RoleVeterinarian:
		if in.Farmer != nil || in.Vet == nil {
			return User{}, ErrInvalidInput
		}
		v := VetProfile{
			Specialty:     strings.TrimSpace(in.Vet.Specialty),
			LicenseNumber: strings.TrimSpace(in.Vet.LicenseNumber),
			Location:      strings.TrimSpace(in.Vet.Location),
			Rating:        in.Vet.Rating,
		}
		if v.Specialty == "" || v.LicenseNumber == "" || v.Location == "" {
			return User{}, ErrInvalidInput
		}
		u.Vet = &v

	case RoleAdmin:
		if in.Farmer != nil || in.Vet != nil {
			return User{}, ErrInvalidInput
		}
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return User{}, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}
	u.PasswordHash = hash

	now := s.now()
	u.CreatedAt = now
	u.UpdatedAt = now

	if err := s.repo.Create(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

// Authenticate valida email+password y devuelve el user.
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return User{}, ErrInvalidInput
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return User{}, ErrBadCredentials
	}
	if !u.Active {
		return User{}, ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		return User{}, ErrBadCredentials
	}
	return u, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return User{}, ErrInvalidInput
	}
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (s *Service) ListFarmers(ctx context.Context, q FarmerQuery) ([]User, error) {
	return s.repo.ListFarmers(ctx, q)
}

func (s *Service) CountByRole(ctx context.Context, role Role) (int, error) {
	return s.repo.CountByRole(ctx, role)
}
