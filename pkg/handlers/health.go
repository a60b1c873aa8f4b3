package handlers

import (
	"net/http"
	"os"
	"runtime"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-mes/pkg/collections"
	"github.com/ekaya-inc/ekaya-mes/pkg/config"
	"github.com/ekaya-inc/ekaya-mes/pkg/services"
)

// PingResponse contains service status and version information.
type PingResponse struct {
	Status      string                       `json:"status"`
	Version     string                       `json:"version"`
	Service     string                       `json:"service"`
	GoVersion   string                       `json:"go_version"`
	Hostname    string                       `json:"hostname"`
	Environment string                       `json:"environment"`
	Collections map[string]collections.State `json:"collections"`
}

// HealthHandler handles health check and ping endpoints.
type HealthHandler struct {
	cfg              *config.Config
	dashboardService services.DashboardService
	logger           *zap.Logger
}

// NewHealthHandler creates a new HealthHandler with the given configuration.
func NewHealthHandler(cfg *config.Config, dashboardService services.DashboardService, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{cfg: cfg, dashboardService: dashboardService, logger: logger}
}

// RegisterRoutes registers the health handler's routes on the given mux.
func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /ping", h.Ping)
}

// Health handles GET /health requests.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Ping handles GET /ping requests.
// Returns service information plus the load state of every collection.
func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	hostname, err := os.Hostname()
	if err != nil {
		http.Error(w, "failed to get hostname", http.StatusInternalServerError)
		return
	}

	response := PingResponse{
		Status:      "ok",
		Version:     h.cfg.Version,
		Service:     "ekaya-mes",
		GoVersion:   runtime.Version(),
		Hostname:    hostname,
		Environment: h.cfg.Env,
		Collections: h.dashboardService.CollectionStates(),
	}
	for _, st := range response.Collections {
		if st.Error != "" {
			response.Status = "degraded"
			break
		}
	}

	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to encode ping response", zap.Error(err))
	}
}
