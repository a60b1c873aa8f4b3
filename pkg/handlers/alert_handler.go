package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-mes/pkg/alerts"
	"github.com/ekaya-inc/ekaya-mes/pkg/models"
	"github.com/ekaya-inc/ekaya-mes/pkg/services"
)

// AlertHandler handles alert feed HTTP requests.
type AlertHandler struct {
	alertService services.AlertService
	alertMonitor services.AlertMonitor
	logger       *zap.Logger
}

// NewAlertHandler creates a new alert handler.
func NewAlertHandler(alertService services.AlertService, alertMonitor services.AlertMonitor, logger *zap.Logger) *AlertHandler {
	return &AlertHandler{
		alertService: alertService,
		alertMonitor: alertMonitor,
		logger:       logger,
	}
}

// RegisterRoutes registers the alert handler's routes on the given mux.
func (h *AlertHandler) RegisterRoutes(mux *http.ServeMux) {
	base := "/api/alerts"

	mux.HandleFunc("GET "+base, h.ListAlerts)
	mux.HandleFunc("POST "+base, h.AddAlert)
	mux.HandleFunc("POST "+base+"/refresh", h.RefreshAlerts)
	mux.HandleFunc("DELETE "+base+"/{id}", h.RemoveAlert)
	mux.HandleFunc("DELETE "+base, h.ClearAlerts)
}

// ListAlerts handles GET /api/alerts?search=&type=&sort=
func (h *AlertHandler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	sort, err := alerts.ParseSort(query.Get("sort"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_sort", err.Error(), h.logger)
		return
	}
	alertType := query.Get("type")
	if alertType != "" && alertType != alerts.TypeAll && !models.ValidAlertType(alertType) {
		writeError(w, http.StatusBadRequest, "invalid_type", "type must be all, error, warning, info or success", h.logger)
		return
	}

	feed := h.alertService.Feed(r.Context(), alerts.Query{
		Search: query.Get("search"),
		Type:   alertType,
		Sort:   sort,
	})
	writeData(w, http.StatusOK, feed, h.logger)
}

// AddAlert handles POST /api/alerts
func (h *AlertHandler) AddAlert(w http.ResponseWriter, r *http.Request) {
	var input services.AlertInput
	if !decodeJSON(w, r, &input, h.logger) {
		return
	}
	alert, err := h.alertService.Add(r.Context(), input)
	if err != nil {
		writeServiceError(w, err, "add_alert_failed", h.logger)
		return
	}
	writeData(w, http.StatusCreated, alert, h.logger)
}

// RemoveAlert handles DELETE /api/alerts/{id}
func (h *AlertHandler) RemoveAlert(w http.ResponseWriter, r *http.Request) {
	if err := h.alertService.Remove(r.Context(), pathID(r)); err != nil {
		writeServiceError(w, err, "remove_alert_failed", h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearAlerts handles DELETE /api/alerts
func (h *AlertHandler) ClearAlerts(w http.ResponseWriter, r *http.Request) {
	h.alertService.ClearAll(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

type refreshResponse struct {
	Changed bool `json:"changed"`
}

// RefreshAlerts handles POST /api/alerts/refresh, running one synthesis
// pass outside the schedule.
func (h *AlertHandler) RefreshAlerts(w http.ResponseWriter, r *http.Request) {
	changed := h.alertMonitor.Refresh(r.Context())
	writeData(w, http.StatusOK, refreshResponse{Changed: changed}, h.logger)
}
