package livestock

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
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

type CreateInput struct {
	Name         string
	Type         Type
	Breed        string
	Age          string
	Weight       string
	HealthStatus HealthStatus
	TagNumber    string
	Notes        string
}

func (s *Service) Create(ctx context.Context, farmerID string, in CreateInput) (Animal, error) {
	farmerID = strings.TrimSpace(farmerID)
	if farmerID == "" {
		return Animal{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" || !in.Type.Valid() {
		return Animal{}, ErrInvalidInput
	}

	health := in.HealthStatus
	if health == "" {
		health = HealthHealthy
	}
	if !health.Valid() {
		return Animal{}, ErrInvalidInput
	}

	now := s.now()
	a := Animal{
		ID:           uuid.NewString(),
		FarmerID:     farmerID,
		Name:         strings.TrimSpace(in.Name),
		Type:         in.Type,
		Breed:        strings.TrimSpace(in.Breed),
		Age:          strings.TrimSpace(in.Age),
		Weight:       strings.TrimSpace(in.Weight),
		HealthStatus: health,
		TagNumber:    strings.TrimSpace(in.TagNumber),
		Notes:        strings.TrimSpace(in.Notes),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return Animal{}, err
	}
	return a, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Animal, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Animal{}, ErrInvalidInput
	}
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Animal{}, ErrNotFound
	}
	return a, nil
}

func (s *Service) ListByFarmer(ctx context.Context, farmerID string) ([]Animal, error) {
	return s.repo.ListByFarmer(ctx, farmerID)
}
