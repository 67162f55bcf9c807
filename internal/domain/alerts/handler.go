package alerts

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"vet-connect/internal/domain/directory"
	"vet-connect/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, dirSvc *directory.Service) {
	r.Route("/admin", func(ar chi.Router) {
		ar.Post("/broadcast", broadcastAlertHandler(svc, dirSvc))
		ar.Post("/send-individual-alert", individualAlertHandler(svc, dirSvc))

		ar.Get("/alerts", listAlertsHandler(svc, dirSvc))
		ar.Get("/stats", adminStatsHandler(svc, dirSvc))
		ar.Get("/farmers", listFarmersHandler(dirSvc))
	})
}

type broadcastRequest struct {
	Message string `json:"message"`

	// all | district | sector | farmer. Vacío equivale a all (compat con el
	// cliente viejo que solo mandaba message).
	TargetType string `json:"targetType"`

	SelectedDistrict string `json:"selectedDistrict"`
	SelectedSector   string `json:"selectedSector"`
	SelectedFarmerID string `json:"selectedFarmerId"`
}

type individualAlertRequest struct {
	Message   string   `json:"message"`
	FarmerIDs []string `json:"farmerIds"`
}

type alertResponse struct {
	ID           string                `json:"id"`
	Message      string                `json:"message"`
	Recipients   []string              `json:"recipients"`
	SentBy       string                `json:"sentBy"`
	Type         string                `json:"alertType"`
	Status       string                `json:"status"`
	SuccessCount int                   `json:"successCount"`
	FailureCount int                   `json:"failureCount"`
	Failed       []failedRecipientJSON `json:"failedRecipients,omitempty"`
	CreatedAt    time.Time             `json:"createdAt"`
}

type failedRecipientJSON struct {
	UserID string `json:"userId"`
	Phone  string `json:"phone"`
	Error  string `json:"error"`
}

type dispatchResultJSON struct {
	AlertID         string `json:"alertId"`
	TotalRecipients int    `json:"totalRecipients"`
	SuccessCount    int    `json:"successCount"`
	FailureCount    int    `json:"failureCount"`
}

// broadcastAlertHandler godoc
// @Summary Enviar alerta SMS a farmers
// @Description Difunde un SMS (máx 160 caracteres) a la audiencia elegida: todos los farmers, un distrito, un sector o un farmer puntual. Solo admin.
// @Tags admin
// @Accept json
// @Produce json
// @Param payload body broadcastRequest true "Mensaje y selector de audiencia"
// @Success 201 {object} dispatchResultJSON
// @Failure 400 {string} string "mensaje vacío o >160 caracteres"
// @Failure 403 {string} string "solo admin"
// @Failure 404 {string} string "audiencia sin destinatarios"
// @Router /admin/broadcast [post]
func broadcastAlertHandler(svc *Service, dirSvc *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := resolveActor(w, r, dirSvc)
		if !ok {
			return
		}

		var req broadcastRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		audience := Audience{Mode: AudienceAll}
		switch strings.TrimSpace(req.TargetType) {
		case "", "all":
			// default
		case "district":
			audience = Audience{Mode: AudienceDistrict, District: req.SelectedDistrict}
		case "sector":
			audience = Audience{Mode: AudienceSector, Sector: req.SelectedSector}
		case "farmer":
			audience = Audience{Mode: AudienceFarmer, FarmerID: req.SelectedFarmerID}
		default:
			writeError(w, http.StatusBadRequest, "invalid targetType")
			return
		}

		res, err := svc.Dispatch(r.Context(), actor, DispatchInput{
			Message:  req.Message,
			Audience: audience,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, map[string]any{
			"success": true,
			"message": "Broadcast alert sent",
			"data":    toDispatchResultJSON(res),
		})
	}
}

func individualAlertHandler(svc *Service, dirSvc *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := resolveActor(w, r, dirSvc)
		if !ok {
			return
		}

		var req individualAlertRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		if len(req.FarmerIDs) == 0 {
			writeError(w, http.StatusBadRequest, "At least one farmer ID is required")
			return
		}

		res, err := svc.Dispatch(r.Context(), actor, DispatchInput{
			Message:  req.Message,
			Audience: Audience{Mode: AudienceFarmers, FarmerIDs: req.FarmerIDs},
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, map[string]any{
			"success": true,
			"message": "Individual alerts sent",
			"data":    toDispatchResultJSON(res),
		})
	}
}

func listAlertsHandler(svc *Service, dirSvc *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := resolveActor(w, r, dirSvc)
		if !ok {
			return
		}

		limit := queryInt(r, "limit", 10)
		page := queryInt(r, "page", 1)
		if page < 1 {
			page = 1
		}

		items, err := svc.List(r.Context(), actor, ListFilter{
			Limit:  limit,
			Offset: (page - 1) * limit,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		total, err := svc.Count(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		out := make([]alertResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toAlertResponse(a))
		}

		pages := 0
		if limit > 0 {
			pages = (total + limit - 1) / limit
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    out,
			"pagination": map[string]any{
				"total": total,
				"page":  page,
				"pages": pages,
			},
		})
	}
}

func adminStatsHandler(svc *Service, dirSvc *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := resolveActor(w, r, dirSvc)
		if !ok {
			return
		}
		if !actor.IsAdmin() {
			writeError(w, http.StatusForbidden, "Not authorized")
			return
		}

		totalFarmers, err := dirSvc.CountByRole(r.Context(), directory.RoleFarmer)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		totalVets, err := dirSvc.CountByRole(r.Context(), directory.RoleVeterinarian)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		totalAlerts, err := svc.Count(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		recent, err := svc.List(r.Context(), actor, ListFilter{Limit: 5})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		recentOut := make([]alertResponse, 0, len(recent))
		for _, a := range recent {
			recentOut = append(recentOut, toAlertResponse(a))
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data": map[string]any{
				"totalFarmers": totalFarmers,
				"totalVets":    totalVets,
				"totalAlerts":  totalAlerts,
				"recentAlerts": recentOut,
			},
		})
	}
}

func listFarmersHandler(dirSvc *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := resolveActor(w, r, dirSvc)
		if !ok {
			return
		}
		if !actor.IsAdmin() {
			writeError(w, http.StatusForbidden, "Not authorized")
			return
		}

		farmers, err := dirSvc.ListFarmers(r.Context(), directory.FarmerQuery{})
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		type farmerJSON struct {
			ID       string `json:"id"`
			Name     string `json:"name"`
			Email    string `json:"email"`
			Phone    string `json:"phone"`
			District string `json:"district"`
			Sector   string `json:"sector"`
		}
		out := make([]farmerJSON, 0, len(farmers))
		for _, f := range farmers {
			fj := farmerJSON{ID: f.ID, Name: f.Name, Email: f.Email, Phone: f.Phone}
			if f.Farmer != nil {
				fj.District = f.Farmer.District
				fj.Sector = f.Farmer.Sector
			}
			out = append(out, fj)
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"count":   len(out),
			"data":    out,
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
	case errors.Is(err, ErrMessageTooLong):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "Alert message is required")
	case errors.Is(err, ErrForbidden):
		writeError(w, http.StatusForbidden, "Not authorized")
	case errors.Is(err, ErrNoRecipients):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func queryInt(r *http.Request, key string, def int) int {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func toDispatchResultJSON(res DispatchResult) dispatchResultJSON {
	return dispatchResultJSON{
		AlertID:         res.AlertID,
		TotalRecipients: res.TotalRecipients,
		SuccessCount:    res.SuccessCount,
		FailureCount:    res.FailureCount,
	}
}

func toAlertResponse(a Alert) alertResponse {
	out := alertResponse{
		ID:           a.ID,
		Message:      a.Message,
		Recipients:   a.Recipients,
		SentBy:       a.SentBy,
		Type:         string(a.Type),
		Status:       string(a.Status),
		SuccessCount: a.SuccessCount,
		FailureCount: a.FailureCount,
		CreatedAt:    a.CreatedAt,
	}
	for _, f := range a.Failed {
		out.Failed = append(out.Failed, failedRecipientJSON{
			UserID: f.UserID,
			Phone:  f.Phone,
			Error:  f.Error,
		})
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
