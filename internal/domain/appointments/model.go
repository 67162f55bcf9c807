package appointments

import "time"

// Appointment guarda snapshots desnormalizados del farmer, el vet y el animal,
// congelados al momento de crear. No se re-sincronizan si después cambian los
// registros fuente; es un tradeoff documentado de frescura por simplicidad.
type Appointment struct {
	ID string

	FarmerID    string
	FarmerName  string
	FarmerPhone string

	VetID        string
	VetName      string
	VetSpecialty string
	VetPhone     string
	VetEmail     string

	LivestockID   string
	LivestockName string
	LivestockType string

	Date     time.Time // día de la cita
	Time     string    // etiqueta de franja, texto libre ("09:00", "mañana")
	Reason   Reason
	Notes    string
	Status   Status
	Location string

	// Campos de cierre, solo con status=completed.
	Diagnosis    string
	Treatment    string
	Medications  []string
	FollowUpDate *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
