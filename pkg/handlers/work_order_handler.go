package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-mes/pkg/models"
	"github.com/ekaya-inc/ekaya-mes/pkg/services"
)

// WorkOrderHandler handles work order HTTP requests.
type WorkOrderHandler struct {
	workOrderService services.WorkOrderService
	logger           *zap.Logger
}

// NewWorkOrderHandler creates a new work order handler.
func NewWorkOrderHandler(workOrderService services.WorkOrderService, logger *zap.Logger) *WorkOrderHandler {
	return &WorkOrderHandler{
		workOrderService: workOrderService,
		logger:           logger,
	}
}

// RegisterRoutes registers the work order handler's routes on the given mux.
func (h *WorkOrderHandler) RegisterRoutes(mux *http.ServeMux) {
	base := "/api/work-orders"

	mux.HandleFunc("GET "+base, h.List)
	mux.HandleFunc("POST "+base, h.Create)
	mux.HandleFunc("GET "+base+"/{id}", h.Get)
	mux.HandleFunc("PATCH "+base+"/{id}", h.Update)
	mux.HandleFunc("PATCH "+base+"/{id}/production", h.UpdateProduction)
	mux.HandleFunc("DELETE "+base+"/{id}", h.Delete)
}

// List handles GET /api/work-orders?status=
func (h *WorkOrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.workOrderService.List(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeServiceError(w, err, "list_work_orders_failed", h.logger)
		return
	}
	writeData(w, http.StatusOK, orders, h.logger)
}

// Get handles GET /api/work-orders/{id}
func (h *WorkOrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	wo, err := h.workOrderService.Get(r.Context(), pathID(r))
	if err != nil {
		writeServiceError(w, err, "get_work_order_failed", h.logger)
		return
	}
	writeData(w, http.StatusOK, wo, h.logger)
}

// Create handles POST /api/work-orders
func (h *WorkOrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input models.WorkOrderInput
	if !decodeJSON(w, r, &input, h.logger) {
		return
	}
	wo, err := h.workOrderService.Create(r.Context(), input)
	if err != nil {
		writeServiceError(w, err, "create_work_order_failed", h.logger)
		return
	}
	writeData(w, http.StatusCreated, wo, h.logger)
}

// Update handles PATCH /api/work-orders/{id}
func (h *WorkOrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch models.WorkOrderPatch
	if !decodeJSON(w, r, &patch, h.logger) {
		return
	}
	wo, err := h.workOrderService.Update(r.Context(), pathID(r), patch)
	if err != nil {
		writeServiceError(w, err, "update_work_order_failed", h.logger)
		return
	}
	writeData(w, http.StatusOK, wo, h.logger)
}

type updateProductionRequest struct {
	QuantityCompleted *int `json:"quantity_completed"`
}

// UpdateProduction handles PATCH /api/work-orders/{id}/production
func (h *WorkOrderHandler) UpdateProduction(w http.ResponseWriter, r *http.Request) {
	var req updateProductionRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}
	if req.QuantityCompleted == nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "quantity_completed is required", h.logger)
		return
	}
	wo, err := h.workOrderService.UpdateProduction(r.Context(), pathID(r), *req.QuantityCompleted)
	if err != nil {
		writeServiceError(w, err, "update_production_failed", h.logger)
		return
	}
	writeData(w, http.StatusOK, wo, h.logger)
}

// Delete handles DELETE /api/work-orders/{id}
func (h *WorkOrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.workOrderService.Delete(r.Context(), pathID(r)); err != nil {
		writeServiceError(w, err, "delete_work_order_failed", h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
