package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"vet-connect/internal/domain/alerts"
)

type alertRepo struct {
	mu   sync.RWMutex
	byID map[string]alerts.Alert
}

func NewAlertRepo() alerts.Repository {
	return &alertRepo{
		byID: make(map[string]alerts.Alert),
	}
}

func (r *alertRepo) Create(ctx context.Context, a alerts.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(a.ID) == "" {
		return errors.New("alert id required")
	}
	if _, exists := r.byID[a.ID]; exists {
		return errors.New("alert already exists")
	}
	r.byID[a.ID] = a
	return nil
}

func (r *alertRepo) List(ctx context.Context, f alerts.ListFilter) ([]alerts.Alert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]alerts.Alert, 0, len(r.byID))
	for _, a := range r.byID {
		out = append(out, a)
	}

	// más nuevo primero
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return []alerts.Alert{}, nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}

	return out, nil
}

func (r *alertRepo) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID), nil
}
