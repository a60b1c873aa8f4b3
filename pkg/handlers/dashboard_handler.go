package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-mes/pkg/export"
	"github.com/ekaya-inc/ekaya-mes/pkg/services"
)

// DashboardHandler serves KPI views, the analytics export and collection reloads.
type DashboardHandler struct {
	dashboardService services.DashboardService
	logger           *zap.Logger
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(dashboardService services.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// RegisterRoutes registers the dashboard handler's routes on the given mux.
func (h *DashboardHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/dashboard", h.Dashboard)
	mux.HandleFunc("GET /api/analytics", h.Analytics)
	mux.HandleFunc("GET /api/analytics/export", h.Export)
	mux.HandleFunc("GET /api/collections", h.Collections)
	mux.HandleFunc("POST /api/collections/refetch", h.Refetch)
}

// Dashboard handles GET /api/dashboard
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, h.dashboardService.Dashboard(r.Context()), h.logger)
}

// Analytics handles GET /api/analytics?range=30d&start=&end=
func (h *DashboardHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	q, ok := h.analyticsQuery(w, r)
	if !ok {
		return
	}
	a, err := h.dashboardService.Analytics(r.Context(), q)
	if err != nil {
		writeServiceError(w, err, "analytics_failed", h.logger)
		return
	}
	writeData(w, http.StatusOK, a, h.logger)
}

// Export handles GET /api/analytics/export?format=json|xlsx and takes the
// same window parameters as Analytics.
func (h *DashboardHandler) Export(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_format", err.Error(), h.logger)
		return
	}
	q, ok := h.analyticsQuery(w, r)
	if !ok {
		return
	}
	report, err := h.dashboardService.Report(r.Context(), q)
	if err != nil {
		writeServiceError(w, err, "export_failed", h.logger)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+report.Filename(format)+`"`)
	if err := export.Write(w, report, format); err != nil {
		// Headers are already out; all we can do is log.
		h.logger.Error("Failed to write analytics export",
			zap.String("format", string(format)),
			zap.Error(err))
	}
}

// Collections handles GET /api/collections
func (h *DashboardHandler) Collections(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, h.dashboardService.CollectionStates(), h.logger)
}

// Refetch handles POST /api/collections/refetch
func (h *DashboardHandler) Refetch(w http.ResponseWriter, r *http.Request) {
	if err := h.dashboardService.Refetch(r.Context()); err != nil {
		h.logger.Error("Collection refetch failed", zap.Error(err))
		if err := WriteJSON(w, http.StatusBadGateway, ApiResponse{
			Success: false,
			Data:    h.dashboardService.CollectionStates(),
			Error:   "refetch_failed",
			Message: err.Error(),
		}); err != nil {
			h.logger.Error("Failed to write response", zap.Error(err))
		}
		return
	}
	writeData(w, http.StatusOK, h.dashboardService.CollectionStates(), h.logger)
}

func (h *DashboardHandler) analyticsQuery(w http.ResponseWriter, r *http.Request) (services.AnalyticsQuery, bool) {
	start, err := parseTimeParam(r, "start", h.dashboardService.Location())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_start", err.Error(), h.logger)
		return services.AnalyticsQuery{}, false
	}
	end, err := parseTimeParam(r, "end", h.dashboardService.Location())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_end", err.Error(), h.logger)
		return services.AnalyticsQuery{}, false
	}
	return services.AnalyticsQuery{
		Range: r.URL.Query().Get("range"),
		Start: start,
		End:   end,
	}, true
}
