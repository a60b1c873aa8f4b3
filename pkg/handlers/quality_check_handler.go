package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-mes/pkg/models"
	"github.com/ekaya-inc/ekaya-mes/pkg/services"
)

// QualityCheckHandler handles quality check HTTP requests.
type QualityCheckHandler struct {
	qualityCheckService services.QualityCheckService
	logger              *zap.Logger
}

func NewQualityCheckHandler(qualityCheckService services.QualityCheckService, logger *zap.Logger) *QualityCheckHandler {
	return &QualityCheckHandler{
		qualityCheckService: qualityCheckService,
		logger:              logger,
	}
}

// RegisterRoutes registers the quality check handler's routes on the given mux.
func (h *QualityCheckHandler) RegisterRoutes(mux *http.ServeMux) {
	base := "/api/quality-checks"

	mux.HandleFunc("GET "+base, h.List)
	mux.HandleFunc("POST "+base, h.Create)
	mux.HandleFunc("GET "+base+"/{id}", h.Get)
	mux.HandleFunc("PATCH "+base+"/{id}", h.Update)
	mux.HandleFunc("DELETE "+base+"/{id}", h.Delete)
}

// List handles GET /api/quality-checks?work_order_id=
func (h *QualityCheckHandler) List(w http.ResponseWriter, r *http.Request) {
	checks, err := h.qualityCheckService.List(r.Context(), r.URL.Query().Get("work_order_id"))
	if err != nil {
		writeServiceError(w, err, "list_quality_checks_failed", h.logger)
		return
	}
	writeData(w, http.StatusOK, checks, h.logger)
}

func (h *QualityCheckHandler) Get(w http.ResponseWriter, r *http.Request) {
	qc, err := h.qualityCheckService.Get(r.Context(), pathID(r))
	if err != nil {
		writeServiceError(w, err, "get_quality_check_failed", h.logger)
		return
	}
	writeData(w, http.StatusOK, qc, h.logger)
}

func (h *QualityCheckHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input models.QualityCheckInput
	if !decodeJSON(w, r, &input, h.logger) {
		return
	}
	qc, err := h.qualityCheckService.Create(r.Context(), input)
	if err != nil {
		writeServiceError(w, err, "create_quality_check_failed", h.logger)
		return
	}
	writeData(w, http.StatusCreated, qc, h.logger)
}

func (h *QualityCheckHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch models.QualityCheckPatch
	if !decodeJSON(w, r, &patch, h.logger) {
		return
	}
	qc, err := h.qualityCheckService.Update(r.Context(), pathID(r), patch)
	if err != nil {
		writeServiceError(w, err, "update_quality_check_failed", h.logger)
		return
	}
	writeData(w, http.StatusOK, qc, h.logger)
}

func (h *QualityCheckHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.qualityCheckService.Delete(r.Context(), pathID(r)); err != nil {
		writeServiceError(w, err, "delete_quality_check_failed", h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
