package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"vet-connect/internal/domain/directory"
)

var ErrNotFound = errors.New("not found")

type userRepo struct {
	mu   sync.RWMutex
	byID map[string]directory.User
}

func NewUserRepo() directory.Repository {
	return &userRepo{
		byID: make(map[string]directory.User),
	}
}

func (r *userRepo) Create(ctx context.Context, u directory.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(u.ID) == "" {
		return errors.New("user id required")
	}
	if _, exists := r.byID[u.ID]; exists {
		return errors.New("user already exists")
	}
	r.byID[u.ID] = u
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (directory.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return directory.User{}, ErrNotFound
	}
	return u, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (directory.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.byID {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return directory.User{}, ErrNotFound
}

func (r *userRepo) ListFarmers(ctx context.Context, q directory.FarmerQuery) ([]directory.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var wanted map[string]struct{}
	if len(q.IDs) > 0 {
		wanted = make(map[string]struct{}, len(q.IDs))
		for _, id := range q.IDs {
			wanted[id] = struct{}{}
		}
	}

	out := make([]directory.User, 0)
	for _, u := range r.byID {
		if !u.IsFarmer() || !u.Active {
			continue
		}
		if wanted != nil {
			if _, ok := wanted[u.ID]; !ok {
				continue
			}
		}
		if q.District != "" && u.Farmer.District != q.District {
			continue
		}
		if q.Sector != "" && u.Farmer.Sector != q.Sector {
			continue
		}
		out = append(out, u)
	}

	// Orden estable por created_at asc: el motor de alertas depende de un
	// orden de resolución determinista.
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}

func (r *userRepo) CountByRole(ctx context.Context, role directory.Role) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, u := range r.byID {
		if u.Role == role && u.Active {
			n++
		}
	}
	return n, nil
}
