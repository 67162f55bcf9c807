package alerts

import "time"

// AlertType distingue difusión masiva de envío dirigido.
type AlertType string

const (
	TypeBroadcast  AlertType = "broadcast"
	TypeIndividual AlertType = "individual"
)

// AlertStatus es el estado del registro. El motor nunca marca failed a nivel
// alerta: las fallas viven por destinatario.
type AlertStatus string

const (
	StatusPending AlertStatus = "pending"
	StatusSent    AlertStatus = "sent"
	StatusFailed  AlertStatus = "failed"
)

// FailedRecipient es el detalle de una falla de entrega.
type FailedRecipient struct {
	UserID string
	Phone  string
	Error  string
}

// Alert es el registro inmutable de un envío. Recipients es la lista ordenada
// de farmers efectivamente intentados (con teléfono); se cumple que
// SuccessCount + FailureCount == len(Recipients). Nunca se actualiza, solo se
// crea.
type Alert struct {
	ID      string
	Message string

	Recipients []string
	SentBy     string
	Type       AlertType
	Status     AlertStatus

	SuccessCount int
	FailureCount int
	Failed       []FailedRecipient

	CreatedAt time.Time
}
