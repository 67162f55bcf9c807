package appointments

// Status es el estado de la cita.
// Máquina: pending -> confirmed -> completed, con cancelled como rama lateral
// desde pending o confirmed. completed y cancelled son terminales.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal reporta si el estado no admite más transiciones.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// canTransition valida una arista de la máquina de estados. Escribir el mismo
// estado se permite (no es transición).
func canTransition(from, to Status) bool {
	if from == to {
		return true
	}
	switch from {
	case StatusPending:
		return to == StatusConfirmed || to == StatusCompleted || to == StatusCancelled
	case StatusConfirmed:
		return to == StatusCompleted || to == StatusCancelled
	}
	return false
}

// Reason es el motivo de la visita.
// @Enum routine-checkup, vaccination, illness, injury, pregnancy, other
type Reason string

const (
	ReasonRoutineCheckup Reason = "routine-checkup"
	ReasonVaccination    Reason = "vaccination"
	ReasonIllness        Reason = "illness"
	ReasonInjury         Reason = "injury"
	ReasonPregnancy      Reason = "pregnancy"
	ReasonOther          Reason = "other"
)

func (r Reason) Valid() bool {
	switch r {
	case ReasonRoutineCheckup, ReasonVaccination, ReasonIllness, ReasonInjury, ReasonPregnancy, ReasonOther:
		return true
	}
	return false
}
