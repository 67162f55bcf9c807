package directory

import "time"

// Role define los roles soportados.
// @Enum farmer, veterinarian, admin
type Role string

const (
	RoleFarmer       Role = "farmer"
	RoleVeterinarian Role = "veterinarian"
	RoleAdmin        Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleFarmer, RoleVeterinarian, RoleAdmin:
		return true
	}
	return false
}

// FarmerProfile son los campos que solo existen para role=farmer.
type FarmerProfile struct {
	District string
	Sector   string
}

// VetProfile son los campos que solo existen para role=veterinarian.
type VetProfile struct {
	Specialty     string
	LicenseNumber string
	Location      string
	Rating        float64
}

// User es una unión etiquetada por Role: exactamente uno de los perfiles
// (o ninguno, para admin) está presente según el rol. Se construye solo vía
// Register, que valida la combinación; nada de chequeos de campos sueltos
// repartidos por los handlers.
type User struct {
	ID    string
	Name  string
	Email string
	Phone string
	Role  Role

	Active       bool
	PasswordHash []byte

	Farmer *FarmerProfile
	Vet    *VetProfile

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u User) IsFarmer() bool { return u.Role == RoleFarmer && u.Farmer != nil }

func (u User) IsVet() bool { return u.Role == RoleVeterinarian && u.Vet != nil }

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }
