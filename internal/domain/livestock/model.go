package livestock

import "time"

// Type define los tipos de animal soportados.
// @Enum Cattle, Goat, Sheep, Pig, Chicken, Other
type Type string

const (
	TypeCattle  Type = "Cattle"
	TypeGoat    Type = "Goat"
	TypeSheep   Type = "Sheep"
	TypePig     Type = "Pig"
	TypeChicken Type = "Chicken"
	TypeOther   Type = "Other"
)

func (t Type) Valid() bool {
	switch t {
	case TypeCattle, TypeGoat, TypeSheep, TypePig, TypeChicken, TypeOther:
		return true
	}
	return false
}

// HealthStatus define el estado sanitario del animal.
type HealthStatus string

const (
	HealthHealthy        HealthStatus = "healthy"
	HealthSick           HealthStatus = "sick"
	HealthUnderTreatment HealthStatus = "under-treatment"
	HealthRecovering     HealthStatus = "recovering"
)

func (h HealthStatus) Valid() bool {
	switch h {
	case HealthHealthy, HealthSick, HealthUnderTreatment, HealthRecovering:
		return true
	}
	return false
}

// Animal es un registro del padrón ganadero. Cada animal tiene exactamente
// un farmer dueño.
type Animal struct {
	ID       string
	FarmerID string

	Name string
	Type Type

	Breed  string
	Age    string
	Weight string

	HealthStatus HealthStatus
	TagNumber    string
	Notes        string

	CreatedAt time.Time
	UpdatedAt time.Time
}
