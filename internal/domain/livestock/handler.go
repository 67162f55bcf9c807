package livestock

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"vet-connect/internal/domain/directory"
	"vet-connect/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, dirSvc *directory.Service) {
	r.Route("/livestock", func(lr chi.Router) {
		lr.Post("/", createAnimalHandler(svc, dirSvc))
		lr.Get("/", listAnimalsHandler(svc, dirSvc))
		lr.Get("/{animalID}", getAnimalHandler(svc, dirSvc))
	})
}

type createAnimalRequest struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	Breed        string `json:"breed"`
	Age          string `json:"age"`
	Weight       string `json:"weight"`
	HealthStatus string `json:"healthStatus"`
	TagNumber    string `json:"tagNumber"`
	Notes        string `json:"notes"`
}

type animalResponse struct {
	ID           string    `json:"id"`
	FarmerID     string    `json:"farmerId"`
	Name         string    `json:"name"`
	Type         string    `json:"type"`
	Breed        string    `json:"breed,omitempty"`
	Age          string    `json:"age,omitempty"`
	Weight       string    `json:"weight,omitempty"`
	HealthStatus string    `json:"healthStatus"`
	TagNumber    string    `json:"tagNumber,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func createAnimalHandler(svc *Service, dirSvc *directory.Service) http.HandlerFunc {
	// Solo farmers registran animales propios.
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := resolveActor(w, r, dirSvc)
		if !ok {
			return
		}
		if !actor.IsFarmer() {
			writeError(w, http.StatusForbidden, "Only farmers can register livestock")
			return
		}

		var req createAnimalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		a, err := svc.Create(r.Context(), actor.ID, CreateInput{
			Name:         req.Name,
			Type:         Type(strings.TrimSpace(req.Type)),
			Breed:        req.Breed,
			Age:          req.Age,
			Weight:       req.Weight,
			HealthStatus: HealthStatus(strings.TrimSpace(req.HealthStatus)),
			TagNumber:    req.TagNumber,
			Notes:        req.Notes,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusCreated, map[string]any{
			"success": true,
			"message": "Livestock registered successfully",
			"data":    toAnimalResponse(a),
		})
	}
}

func listAnimalsHandler(svc *Service, dirSvc *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := resolveActor(w, r, dirSvc)
		if !ok {
			return
		}
		if !actor.IsFarmer() {
			writeError(w, http.StatusForbidden, "Not authorized")
			return
		}

		items, err := svc.ListByFarmer(r.Context(), actor.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		out := make([]animalResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toAnimalResponse(a))
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"count":   len(out),
			"data":    out,
		})
	}
}

func getAnimalHandler(svc *Service, dirSvc *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := resolveActor(w, r, dirSvc)
		if !ok {
			return
		}

		a, err := svc.GetByID(r.Context(), chi.URLParam(r, "animalID"))
		if err != nil {
			writeError(w, http.StatusNotFound, "Livestock not found")
			return
		}
		if a.FarmerID != actor.ID {
			writeError(w, http.StatusForbidden, "Not authorized to access this livestock")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    toAnimalResponse(a),
		})
	}
}

// resolveActor saca claims del contexto y resuelve el user en el directorio.
// Sin claims o con user desconocido corta con 401.
func resolveActor(w http.ResponseWriter, r *http.Request, dirSvc *directory.Service) (directory.User, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		writeError(w, http.StatusUnauthorized, "Not authorized to access this route")
		return directory.User{}, false
	}
	u, err := dirSvc.GetByID(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Not authorized to access this route")
		return directory.User{}, false
	}
	return u, true
}

func toAnimalResponse(a Animal) animalResponse {
	return animalResponse{
		ID:           a.ID,
		FarmerID:     a.FarmerID,
		Name:         a.Name,
		Type:         string(a.Type),
		Breed:        a.Breed,
		Age:          a.Age,
		Weight:       a.Weight,
		HealthStatus: string(a.HealthStatus),
		TagNumber:    a.TagNumber,
		Notes:        a.Notes,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

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
