package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-mes/pkg/models"
	"github.com/ekaya-inc/ekaya-mes/pkg/services"
)

// OperatorHandler handles operator HTTP requests.
type OperatorHandler struct {
	operatorService services.OperatorService
	logger          *zap.Logger
}

func NewOperatorHandler(operatorService services.OperatorService, logger *zap.Logger) *OperatorHandler {
	return &OperatorHandler{
		operatorService: operatorService,
		logger:          logger,
	}
}

// RegisterRoutes registers the operator handler's routes on the given mux.
func (h *OperatorHandler) RegisterRoutes(mux *http.ServeMux) {
	base := "/api/operators"

	mux.HandleFunc("GET "+base, h.List)
	mux.HandleFunc("POST "+base, h.Create)
	mux.HandleFunc("GET "+base+"/{id}", h.Get)
	mux.HandleFunc("PATCH "+base+"/{id}", h.Update)
	mux.HandleFunc("DELETE "+base+"/{id}", h.Delete)
}

func (h *OperatorHandler) List(w http.ResponseWriter, r *http.Request) {
	operators, err := h.operatorService.List(r.Context())
	if err != nil {
		writeServiceError(w, err, "list_operators_failed", h.logger)
		return
	}
	writeData(w, http.StatusOK, operators, h.logger)
}

func (h *OperatorHandler) Get(w http.ResponseWriter, r *http.Request) {
	op, err := h.operatorService.Get(r.Context(), pathID(r))
	if err != nil {
		writeServiceError(w, err, "get_operator_failed", h.logger)
		return
	}
	writeData(w, http.StatusOK, op, h.logger)
}

func (h *OperatorHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input models.OperatorInput
	if !decodeJSON(w, r, &input, h.logger) {
		return
	}
	op, err := h.operatorService.Create(r.Context(), input)
	if err != nil {
		writeServiceError(w, err, "create_operator_failed", h.logger)
		return
	}
	writeData(w, http.StatusCreated, op, h.logger)
}

func (h *OperatorHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch models.OperatorPatch
	if !decodeJSON(w, r, &patch, h.logger) {
		return
	}
	op, err := h.operatorService.Update(r.Context(), pathID(r), patch)
	if err != nil {
		writeServiceError(w, err, "update_operator_failed", h.logger)
		return
	}
	writeData(w, http.StatusOK, op, h.logger)
}

func (h *OperatorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.operatorService.Delete(r.Context(), pathID(r)); err != nil {
		writeServiceError(w, err, "delete_operator_failed", h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
