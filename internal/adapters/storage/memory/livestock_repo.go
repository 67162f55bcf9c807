package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"vet-connect/internal/domain/livestock"
)

type livestockRepo struct {
	mu   sync.RWMutex
	byID map[string]livestock.Animal
}

func NewLivestockRepo() livestock.Repository {
	return &livestockRepo{
		byID: make(map[string]livestock.Animal),
	}
}

func (r *livestockRepo) Create(ctx context.Context, a livestock.Animal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(a.ID) == "" {
		return errors.New("animal id required")
	}
	if _, exists := r.byID[a.ID]; exists {
		return errors.New("animal already exists")
	}
	r.byID[a.ID] = a
	return nil
}

func (r *livestockRepo) GetByID(ctx context.Context, id string) (livestock.Animal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return livestock.Animal{}, ErrNotFound
	}
	return a, nil
}

func (r *livestockRepo) ListByFarmer(ctx context.Context, farmerID string) ([]livestock.Animal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]livestock.Animal, 0)
	for _, a := range r.byID {
		if a.FarmerID == farmerID {
			out = append(out, a)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}
