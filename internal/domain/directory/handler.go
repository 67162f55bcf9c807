package directory

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"vet-connect/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// TokenIssuer emite el bearer token que devuelve el login.
// Lo implementa el session store (adapters/auth/sessions).
type TokenIssuer interface {
	Issue(userID string) string
}

func RegisterRoutes(r chi.Router, svc *Service, tokens TokenIssuer) {
	r.Route("/auth", func(ar chi.Router) {
		ar.Post("/register", registerHandler(svc))
		ar.Post("/login", loginHandler(svc, tokens))
		ar.Get("/me", meHandler(svc))
	})
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"`

	// farmer
	District string `json:"district"`
	Sector   string `json:"sector"`

	// veterinarian
	Specialty     string `json:"specialty"`
	LicenseNumber string `json:"licenseNumber"`
	Location      string `json:"location"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Role   string `json:"role"`
	Active bool   `json:"active"`

	District string `json:"district,omitempty"`
	Sector   string `json:"sector,omitempty"`

	Specialty     string  `json:"specialty,omitempty"`
	LicenseNumber string  `json:"licenseNumber,omitempty"`
	Location      string  `json:"location,omitempty"`
	Rating        float64 `json:"rating,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// registerHandler godoc
// @Summary Registrar usuario
// @Description Crea un usuario con perfil según rol: farmer exige district+sector, veterinarian exige specialty+licenseNumber+location.
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body registerRequest true "Datos del usuario"
// @Success 201 {object} userResponse
// @Failure 400 {string} string "invalid json / perfil incompleto"
// @Failure 409 {string} string "email already registered"
// @Router /auth/register [post]
func registerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		in := RegisterInput{
			Name:     req.Name,
			Email:    req.Email,
			Phone:    req.Phone,
			Password: req.Password,
			Role:     Role(strings.TrimSpace(req.Role)),
		}
		switch in.Role {
		case RoleFarmer:
			in.Farmer = &FarmerProfile{District: req.District, Sector: req.Sector}
		case RoleVeterinarian:
			in.Vet = &VetProfile{
				Specialty:     req.Specialty,
				LicenseNumber: req.LicenseNumber,
				Location:      req.Location,
			}
		}

		u, err := svc.Register(r.Context(), in)
		if err != nil {
			switch {
			case errors.Is(err, ErrEmailTaken):
				writeError(w, http.StatusConflict, err.Error())
			case errors.Is(err, ErrInvalidInput):
				writeError(w, http.StatusBadRequest, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		writeJSON(w, http.StatusCreated, map[string]any{
			"success": true,
			"message": "User registered successfully",
			"data":    toUserResponse(u),
		})
	}
}

func loginHandler(svc *Service, tokens TokenIssuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		u, err := svc.Authenticate(r.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "Login successful",
			"token":   tokens.Issue(u.ID),
			"data":    toUserResponse(u),
		})
	}
}

func meHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		u, err := svc.GetByID(r.Context(), claims.UserID)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    toUserResponse(u),
		})
	}
}

func toUserResponse(u User) userResponse {
	out := userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      string(u.Role),
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
	}
	if u.Farmer != nil {
		out.District = u.Farmer.District
		out.Sector = u.Farmer.Sector
	}
	if u.Vet != nil {
		out.Specialty = u.Vet.Specialty
		out.LicenseNumber = u.Vet.LicenseNumber
		out.Location = u.Vet.Location
		out.Rating = u.Vet.Rating
	}
	return out
}

// writeJSON/writeError se duplican a propósito por módulo (ver handlers de
// appointments/alerts); todavía no amerita un paquete helper compartido.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"message": msg,
	})
}
