package appointments

import (
	"context"
	"errors"
	"strings"
	"time"

	"vet-connect/internal/domain/directory"
	"vet-connect/internal/domain/livestock"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrBadState     = errors.New("invalid state")

	// ErrFarmerRestricted cubre la regla de merge del farmer: solo notes y
	// status, y status únicamente a cancelled.
	ErrFarmerRestricted = errors.New("farmers can only update notes or cancel appointments")
)

// UserDirectory es lo que appointments necesita del directorio de identidad.
type UserDirectory interface {
	GetByID(ctx context.Context, id string) (directory.User, error)
}

// LivestockRegistry es lo que appointments necesita del padrón ganadero.
type LivestockRegistry interface {
	GetByID(ctx context.Context, id string) (livestock.Animal, error)
}

type Service struct {
	repo    Repository
	users   UserDirectory
	animals LivestockRegistry
	now     func() time.Time
}

func NewService(repo Repository, users UserDirectory, animals LivestockRegistry) *Service {
	return &Service{
		repo:    repo,
		users:   users,
		animals: animals,
		now:     time.Now,
	}
}

type CreateInput struct {
	LivestockID string
	VetID       string
	Date        time.Time
	Time        string
	Reason      Reason
	Notes       string
	Location    string
}

// Create registra una cita nueva. Solo farmers, solo sobre animales propios y
// contra un veterinarian existente. Los datos de display del farmer/vet/animal
// se copian como snapshot; si falla cualquier validación no se escribe nada.
func (s *Service) Create(ctx context.Context, actor directory.User, in CreateInput) (Appointment, error) {
	if !actor.IsFarmer() {
		return Appointment{}, ErrForbidden
	}

	if strings.TrimSpace(in.LivestockID) == "" || strings.TrimSpace(in.VetID) == "" {
		return Appointment{}, ErrInvalidInput
	}
	if in.Date.IsZero() || strings.TrimSpace(in.Time) == "" {
		return Appointment{}, ErrInvalidInput
	}
	if !in.Reason.Valid() {
		return Appointment{}, ErrInvalidInput
	}

	animal, err := s.animals.GetByID(ctx, in.LivestockID)
	if err != nil {
		return Appointment{}, ErrNotFound
	}
	if animal.FarmerID != actor.ID {
		return Appointment{}, ErrForbidden
	}

	vet, err := s.users.GetByID(ctx, in.VetID)
	if err != nil || !vet.IsVet() {
		return Appointment{}, ErrNotFound
	}

	location := strings.TrimSpace(in.Location)
	if location == "" {
		location = vet.Vet.Location
	}

	now := s.now()
	a := Appointment{
		ID: uuid.NewString(),

		FarmerID:    actor.ID,
		FarmerName:  actor.Name,
		FarmerPhone: actor.Phone,

		VetID:        vet.ID,
		VetName:      vet.Name,
		VetSpecialty: vet.Vet.Specialty,
		VetPhone:     vet.Phone,
		VetEmail:     vet.Email,

		LivestockID:   animal.ID,
		LivestockName: animal.Name,
		LivestockType: string(animal.Type),

		Date:     in.Date,
		Time:     strings.TrimSpace(in.Time),
		Reason:   in.Reason,
		Notes:    strings.TrimSpace(in.Notes),
		Status:   StatusPending,
		Location: location,

		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return Appointment{}, err
	}
	return a, nil
}

// GetByID devuelve la cita solo a sus dos partes (farmer o vet).
func (s *Service) GetByID(ctx context.Context, actor directory.User, id string) (Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Appointment{}, ErrNotFound
	}
	if a.FarmerID != actor.ID && a.VetID != actor.ID {
		return Appointment{}, ErrForbidden
	}
	return a, nil
}

// List devuelve las citas del actor según su rol. Cualquier otro rol se
// rechaza entero; no hay listado global.
func (s *Service) List(ctx context.Context, actor directory.User) ([]Appointment, error) {
	switch {
	case actor.IsFarmer():
		return s.repo.ListByFarmer(ctx, actor.ID)
	case actor.IsVet():
		return s.repo.ListByVet(ctx, actor.ID)
	}
	return nil, ErrForbidden
}

// Confirm pasa la cita a confirmed. Solo el vet de la cita, y nunca desde un
// estado terminal.
func (s *Service) Confirm(ctx context.Context, actor directory.User, id string) (Appointment, error) {
	if !actor.IsVet() {
		return Appointment{}, ErrForbidden
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Appointment{}, ErrNotFound
	}
	if a.VetID != actor.ID {
		return Appointment{}, ErrForbidden
	}
	if !canTransition(a.Status, StatusConfirmed) {
		return Appointment{}, ErrBadState
	}

	a.Status = StatusConfirmed
	a.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, a); err != nil {
		return Appointment{}, err
	}
	return a, nil
}

type CompleteInput struct {
	Diagnosis    string
	Treatment    string
	Medications  []string
	FollowUpDate *time.Time
}

// Complete cierra la cita con los campos clínicos. Los valores no se validan
// (texto libre del vet); solo se valida quién y desde qué estado.
func (s *Service) Complete(ctx context.Context, actor directory.User, id string, in CompleteInput) (Appointment, error) {
	if !actor.IsVet() {
		return Appointment{}, ErrForbidden
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Appointment{}, ErrNotFound
	}
	if a.VetID != actor.ID {
		return Appointment{}, ErrForbidden
	}
	if !canTransition(a.Status, StatusCompleted) {
		return Appointment{}, ErrBadState
	}

	a.Status = StatusCompleted
	a.Diagnosis = strings.TrimSpace(in.Diagnosis)
	a.Treatment = strings.TrimSpace(in.Treatment)
	a.Medications = in.Medications
	a.FollowUpDate = in.FollowUpDate
	a.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, a); err != nil {
		return Appointment{}, err
	}
	return a, nil
}

// UpdateInput es un merge parcial: nil = no tocar.
type UpdateInput struct {
	Date     *time.Time
	Time     *string
	Reason   *Reason
	Notes    *string
	Location *string
	Status   *Status
}

// hasFieldOutsideFarmerScope reporta si el update toca algo más que notes/status.
func (in UpdateInput) hasFieldOutsideFarmerScope() bool {
	return in.Date != nil || in.Time != nil || in.Reason != nil || in.Location != nil
}

// Update aplica un merge parcial. Las dos partes pueden llamar; el farmer solo
// puede tocar notes y status, y status únicamente a cancelled. Todo cambio de
// status respeta la tabla de transiciones.
func (s *Service) Update(ctx context.Context, actor directory.User, id string, in UpdateInput) (Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Appointment{}, ErrNotFound
	}

	isFarmer := a.FarmerID == actor.ID
	isVet := a.VetID == actor.ID
	if !isFarmer && !isVet {
		return Appointment{}, ErrForbidden
	}

	if isFarmer && actor.Role == directory.RoleFarmer {
		if in.hasFieldOutsideFarmerScope() {
			return Appointment{}, ErrFarmerRestricted
		}
		if in.Status != nil && *in.Status != StatusCancelled {
			return Appointment{}, ErrFarmerRestricted
		}
	}

	if in.Status != nil {
		if !in.Status.Valid() {
			return Appointment{}, ErrInvalidInput
		}
		if !canTransition(a.Status, *in.Status) {
			return Appointment{}, ErrBadState
		}
	}
	if in.Reason != nil && !in.Reason.Valid() {
		return Appointment{}, ErrInvalidInput
	}

	if in.Date != nil {
		a.Date = *in.Date
	}
	if in.Time != nil {
		a.Time = strings.TrimSpace(*in.Time)
	}
	if in.Reason != nil {
		a.Reason = *in.Reason
	}
	if in.Notes != nil {
		a.Notes = strings.TrimSpace(*in.Notes)
	}
	if in.Location != nil {
		a.Location = strings.TrimSpace(*in.Location)
	}
	if in.Status != nil {
		a.Status = *in.Status
	}
	a.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, a); err != nil {
		return Appointment{}, err
	}
	return a, nil
}

// Delete borra la cita en forma definitiva. Solo las partes.
func (s *Service) Delete(ctx context.Context, actor directory.User, id string) error {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return ErrNotFound
	}
	if a.FarmerID != actor.ID && a.VetID != actor.ID {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, a.ID)
}
