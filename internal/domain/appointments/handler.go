package appointments

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
	r.Route("/appointments", func(ar chi.Router) {
		ar.Post("/", createAppointmentHandler(svc, dirSvc))
		ar.Get("/", listAppointmentsHandler(svc, dirSvc))

		ar.Get("/{appointmentID}", getAppointmentHandler(svc, dirSvc))
		ar.Put("/{appointmentID}", updateAppointmentHandler(svc, dirSvc))
		ar.Delete("/{appointmentID}", deleteAppointmentHandler(svc, dirSvc))

		// Transiciones del vet
		ar.Put("/{appointmentID}/confirm", confirmAppointmentHandler(svc, dirSvc))
		ar.Put("/{appointmentID}/complete", completeAppointmentHandler(svc, dirSvc))
	})
}

type createAppointmentRequest struct {
	LivestockID string `json:"livestockId"`
	VetID       string `json:"vetId"`
	Date        string `json:"date"` // YYYY-MM-DD
	Time        string `json:"time"`
	Reason      string `json:"reason"`
	Notes       string `json:"notes"`
	Location    string `json:"location"`
}

type updateAppointmentRequest struct {
	// Punteros para merge parcial real: nil = no tocar.
	Date     *string `json:"date"`
	Time     *string `json:"time"`
	Reason   *string `json:"reason"`
	Notes    *string `json:"notes"`
	Location *string `json:"location"`
	Status   *string `json:"status"`
}

type completeAppointmentRequest struct {
	Diagnosis    string   `json:"diagnosis"`
	Treatment    string   `json:"treatment"`
	Medications  []string `json:"medications"`
	FollowUpDate string   `json:"followUpDate"` // YYYY-MM-DD opcional
}

type appointmentResponse struct {
	ID string `json:"id"`

	FarmerID    string `json:"farmerId"`
	FarmerName  string `json:"farmerName"`
	FarmerPhone string `json:"farmerPhone"`

	VetID        string `json:"vetId"`
	VetName      string `json:"vetName"`
	VetSpecialty string `json:"vetSpecialty,omitempty"`
	VetPhone     string `json:"vetPhone,omitempty"`
	VetEmail     string `json:"vetEmail,omitempty"`

	LivestockID   string `json:"livestockId"`
	LivestockName string `json:"livestockName"`
	LivestockType string `json:"livestockType"`

	Date     string `json:"date"`
	Time     string `json:"time"`
	Reason   string `json:"reason"`
	Notes    string `json:"notes,omitempty"`
	Status   string `json:"status"`
	Location string `json:"location"`

	Diagnosis    string   `json:"diagnosis,omitempty"`
	Treatment    string   `json:"treatment,omitempty"`
	Medications  []string `json:"medications,omitempty"`
	FollowUpDate string   `json:"followUpDate,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// createAppointmentHandler godoc
// @Summary Agendar cita veterinaria
// @Description Crea una cita. Solo farmers, sobre un animal propio y contra un veterinario existente. Los datos de display quedan congelados como snapshot.
// @Tags appointments
// @Accept json
// @Produce json
// @Param payload body createAppointmentRequest true "Datos de la cita; date en formato YYYY-MM-DD"
// @Success 201 {object} appointmentResponse
// @Failure 400 {string} string "invalid json / reason inválido"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "animal ajeno o rol incorrecto"
// @Failure 404 {string} string "livestock o veterinario inexistente"
// @Router /appointments [post]
func createAppointmentHandler(svc *Service, dirSvc *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := resolveActor(w, r, dirSvc)
		if !ok {
			return
		}

		var req createAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		date, err := time.Parse("2006-01-02", strings.TrimSpace(req.Date))
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}

		a, err := svc.Create(r.Context(), actor, CreateInput{
			LivestockID: req.LivestockID,
			VetID:       req.VetID,
			Date:        date,
			Time:        req.Time,
			Reason:      Reason(strings.TrimSpace(req.Reason)),
			Notes:       req.Notes,
			Location:    req.Location,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, map[string]any{
			"success": true,
			"message": "Appointment booked successfully",
			"data":    toAppointmentResponse(a),
		})
	}
}

func listAppointmentsHandler(svc *Service, dirSvc *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := resolveActor(w, r, dirSvc)
		if !ok {
			return
		}

		items, err := svc.List(r.Context(), actor)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		out := make([]appointmentResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toAppointmentResponse(a))
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"count":   len(out),
			"data":    out,
		})
	}
}

func getAppointmentHandler(svc *Service, dirSvc *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := resolveActor(w, r, dirSvc)
		if !ok {
			return
		}

		a, err := svc.GetByID(r.Context(), actor, chi.URLParam(r, "appointmentID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    toAppointmentResponse(a),
		})
	}
}

func updateAppointmentHandler(svc *Service, dirSvc *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := resolveActor(w, r, dirSvc)
		if !ok {
			return
		}

		var req updateAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		in := UpdateInput{
			Time:     req.Time,
			Notes:    req.Notes,
			Location: req.Location,
		}
		if req.Date != nil {
			d, err := time.Parse("2006-01-02", strings.TrimSpace(*req.Date))
			if err != nil {
				writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
				return
			}
			in.Date = &d
		}
		if req.Reason != nil {
			reason := Reason(strings.TrimSpace(*req.Reason))
			in.Reason = &reason
		}
		if req.Status != nil {
			status := Status(strings.TrimSpace(*req.Status))
			in.Status = &status
		}

		a, err := svc.Update(r.Context(), actor, chi.URLParam(r, "appointmentID"), in)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "Appointment updated successfully",
			"data":    toAppointmentResponse(a),
		})
	}
}

func confirmAppointmentHandler(svc *Service, dirSvc *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := resolveActor(w, r, dirSvc)
		if !ok {
			return
		}

		a, err := svc.Confirm(r.Context(), actor, chi.URLParam(r, "appointmentID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "Appointment confirmed successfully",
			"data":    toAppointmentResponse(a),
		})
	}
}

func completeAppointmentHandler(svc *Service, dirSvc *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := resolveActor(w, r, dirSvc)
		if !ok {
			return
		}

		var req completeAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		in := CompleteInput{
			Diagnosis:   req.Diagnosis,
			Treatment:   req.Treatment,
			Medications: req.Medications,
		}
		if strings.TrimSpace(req.FollowUpDate) != "" {
			d, err := time.Parse("2006-01-02", strings.TrimSpace(req.FollowUpDate))
			if err != nil {
				writeError(w, http.StatusBadRequest, "followUpDate must be YYYY-MM-DD")
				return
			}
			in.FollowUpDate = &d
		}

		a, err := svc.Complete(r.Context(), actor, chi.URLParam(r, "appointmentID"), in)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "Appointment completed successfully",
			"data":    toAppointmentResponse(a),
		})
	}
}

func deleteAppointmentHandler(svc *Service, dirSvc *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := resolveActor(w, r, dirSvc)
		if !ok {
			return
		}

		if err := svc.Delete(r.Context(), actor, chi.URLParam(r, "appointmentID")); err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "Appointment deleted successfully",
		})
	}
}

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

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrFarmerRestricted):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrForbidden):
		writeError(w, http.StatusForbidden, "Not authorized for this appointment")
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "Appointment not found")
	case errors.Is(err, ErrBadState):
		writeError(w, http.StatusConflict, "Appointment is already completed or cancelled")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func toAppointmentResponse(a Appointment) appointmentResponse {
	out := appointmentResponse{
		ID:            a.ID,
		FarmerID:      a.FarmerID,
		FarmerName:    a.FarmerName,
		FarmerPhone:   a.FarmerPhone,
		VetID:         a.VetID,
		VetName:       a.VetName,
		VetSpecialty:  a.VetSpecialty,
		VetPhone:      a.VetPhone,
		VetEmail:      a.VetEmail,
		LivestockID:   a.LivestockID,
		LivestockName: a.LivestockName,
		LivestockType: a.LivestockType,
		Date:          a.Date.Format("2006-01-02"),
		Time:          a.Time,
		Reason:        string(a.Reason),
		Notes:         a.Notes,
		Status:        string(a.Status),
		Location:      a.Location,
		Diagnosis:     a.Diagnosis,
		Treatment:     a.Treatment,
		Medications:   a.Medications,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
	if a.FollowUpDate != nil {
		out.FollowUpDate = a.FollowUpDate.Format("2006-01-02")
	}
	return out
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
