package alerts

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"vet-connect/internal/domain/directory"
	"vet-connect/internal/platform/logger"
	"vet-connect/internal/ports/sms"

	"github.com/google/uuid"
)

// MaxMessageLen es el tope duro de un segmento SMS.
const MaxMessageLen = 160

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")

	// ErrNoRecipients: la audiencia no resolvió a ningún farmer con teléfono.
	// Se rechaza el request y no se escribe ningún Alert.
	ErrNoRecipients = errors.New("no farmers found for the selected audience")

	ErrMessageTooLong = errors.New("message cannot exceed 160 characters (SMS limit)")
)

// AudienceMode selecciona cómo se resuelven los destinatarios.
type AudienceMode string

const (
	AudienceAll      AudienceMode = "all"
	AudienceFarmer   AudienceMode = "farmer"  // un id
	AudienceFarmers  AudienceMode = "farmers" // lista de ids
	AudienceDistrict AudienceMode = "district"
	AudienceSector   AudienceMode = "sector"
)

// Audience es el selector de destinatarios. Los modos son excluyentes; solo
// el campo del modo elegido se mira.
type Audience struct {
	Mode      AudienceMode
	FarmerID  string
	FarmerIDs []string
	District  string
	Sector    string
}

// FarmerDirectory es lo que el motor necesita del directorio de identidad.
type FarmerDirectory interface {
	ListFarmers(ctx context.Context, q directory.FarmerQuery) ([]directory.User, error)
}

type Service struct {
	repo Repository
	dir  FarmerDirectory
	gw   sms.Gateway
	log  logger.Logger
	now  func() time.Time
}

// NewService recibe el gateway ya construido: nada de singletons de proceso,
// el caller decide proveedor y credenciales.
func NewService(repo Repository, dir FarmerDirectory, gw sms.Gateway, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop{}
	}
	return &Service{
		repo: repo,
		dir:  dir,
		gw:   gw,
		log:  log,
		now:  time.Now,
	}
}

type DispatchInput struct {
	Message  string
	Audience Audience
}

// DispatchResult es el resumen que recibe el caller.
type DispatchResult struct {
	AlertID         string
	TotalRecipients int
	SuccessCount    int
	FailureCount    int
}

// Dispatch resuelve la audiencia, envía un SMS por destinatario (en orden de
// resolución, secuencial según el gateway) y persiste exactamente un Alert
// inmutable con el detalle por destinatario. La falla de un destinatario no
// aborta al resto.
func (s *Service) Dispatch(ctx context.Context, actor directory.User, in DispatchInput) (DispatchResult, error) {
	if !actor.IsAdmin() {
		return DispatchResult{}, ErrForbidden
	}

	message := strings.TrimSpace(in.Message)
	if message == "" {
		return DispatchResult{}, ErrInvalidInput
	}
	if utf8.RuneCountInString(message) > MaxMessageLen {
		return DispatchResult{}, ErrMessageTooLong
	}

	farmers, err := s.resolveAudience(ctx, in.Audience)
	if err != nil {
		return DispatchResult{}, err
	}

	// Solo se intenta contra farmers con teléfono; los demás no cuentan.
	recipients := farmers[:0:0]
	for _, f := range farmers {
		if strings.TrimSpace(f.Phone) != "" {
			recipients = append(recipients, f)
		}
	}
	if len(recipients) == 0 {
		return DispatchResult{}, ErrNoRecipients
	}

	phones := make([]string, 0, len(recipients))
	ids := make([]string, 0, len(recipients))
	for _, f := range recipients {
		phones = append(phones, f.Phone)
		ids = append(ids, f.ID)
	}

	results := s.gw.SendBulk(ctx, phones, message)

	// Atribución por índice: SendBulk garantiza un Result por entrada en el
	// mismo orden, así no dependemos de matchear strings de teléfono.
	success := 0
	failed := make([]FailedRecipient, 0)
	for i, r := range results {
		if i >= len(recipients) {
			break
		}
		if r.Success {
			success++
			continue
		}
		failed = append(failed, FailedRecipient{
			UserID: recipients[i].ID,
			Phone:  r.Phone,
			Error:  r.Error,
		})
	}

	alertType := TypeBroadcast
	switch in.Audience.Mode {
	case AudienceFarmer, AudienceFarmers:
		alertType = TypeIndividual
	}

	a := Alert{
		ID:           uuid.NewString(),
		Message:      message,
		Recipients:   ids,
		SentBy:       actor.ID,
		Type:         alertType,
		Status:       StatusSent,
		SuccessCount: success,
		FailureCount: len(failed),
		Failed:       failed,
		CreatedAt:    s.now(),
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return DispatchResult{}, err
	}

	s.log.Info("alert dispatched", map[string]any{
		"alert_id": a.ID,
		"type":     string(a.Type),
		"total":    len(ids),
		"success":  a.SuccessCount,
		"failure":  a.FailureCount,
	})

	return DispatchResult{
		AlertID:         a.ID,
		TotalRecipients: len(ids),
		SuccessCount:    a.SuccessCount,
		FailureCount:    a.FailureCount,
	}, nil
}

func (s *Service) resolveAudience(ctx context.Context, a Audience) ([]directory.User, error) {
	switch a.Mode {
	case AudienceAll:
		return s.dir.ListFarmers(ctx, directory.FarmerQuery{})

	case AudienceFarmer:
		id := strings.TrimSpace(a.FarmerID)
		if id == "" {
			return nil, ErrInvalidInput
		}
		return s.dir.ListFarmers(ctx, directory.FarmerQuery{IDs: []string{id}})

	case AudienceFarmers:
		ids := make([]string, 0, len(a.FarmerIDs))
		for _, id := range a.FarmerIDs {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
		if len(ids) == 0 {
			return nil, ErrInvalidInput
		}
		return s.dir.ListFarmers(ctx, directory.FarmerQuery{IDs: ids})

	case AudienceDistrict:
		if strings.TrimSpace(a.District) == "" {
			return nil, ErrInvalidInput
		}
		return s.dir.ListFarmers(ctx, directory.FarmerQuery{District: strings.TrimSpace(a.District)})

	case AudienceSector:
		if strings.TrimSpace(a.Sector) == "" {
			return nil, ErrInvalidInput
		}
		return s.dir.ListFarmers(ctx, directory.FarmerQuery{Sector: strings.TrimSpace(a.Sector)})
	}

	return nil, ErrInvalidInput
}

// List devuelve el historial, más nuevo primero. Solo admin.
func (s *Service) List(ctx context.Context, actor directory.User, f ListFilter) ([]Alert, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if f.Limit <= 0 {
		f.Limit = 10
	}
	return s.repo.List(ctx, f)
}

// Count devuelve el total de alertas registradas.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
