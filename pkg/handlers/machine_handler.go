package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-mes/pkg/models"
	"github.com/ekaya-inc/ekaya-mes/pkg/services"
)

// MachineHandler handles machine HTTP requests.
type MachineHandler struct {
	machineService services.MachineService
	logger         *zap.Logger
}

// NewMachineHandler creates a new machine handler.
func NewMachineHandler(machineService services.MachineService, logger *zap.Logger) *MachineHandler {
	return &MachineHandler{
		machineService: machineService,
		logger:         logger,
	}
}

// RegisterRoutes registers the machine handler's routes on the given mux.
func (h *MachineHandler) RegisterRoutes(mux *http.ServeMux) {
	base := "/api/machines"

	mux.HandleFunc("GET "+base, h.List)
	mux.HandleFunc("POST "+base, h.Create)
	mux.HandleFunc("GET "+base+"/{id}", h.Get)
	mux.HandleFunc("PATCH "+base+"/{id}", h.Update)
	mux.HandleFunc("PATCH "+base+"/{id}/status", h.UpdateStatus)
	mux.HandleFunc("PATCH "+base+"/{id}/assignment", h.Assign)
	mux.HandleFunc("DELETE "+base+"/{id}", h.Delete)
}

// List handles GET /api/machines?status=
func (h *MachineHandler) List(w http.ResponseWriter, r *http.Request) {
	machines, err := h.machineService.List(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeServiceError(w, err, "list_machines_failed", h.logger)
		return
	}
	writeData(w, http.StatusOK, machines, h.logger)
}

// Get handles GET /api/machines/{id}
func (h *MachineHandler) Get(w http.ResponseWriter, r *http.Request) {
	m, err := h.machineService.Get(r.Context(), pathID(r))
	if err != nil {
		writeServiceError(w, err, "get_machine_failed", h.logger)
		return
	}
	writeData(w, http.StatusOK, m, h.logger)
}

// Create handles POST /api/machines
func (h *MachineHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input models.MachineInput
	if !decodeJSON(w, r, &input, h.logger) {
		return
	}
	m, err := h.machineService.Create(r.Context(), input)
	if err != nil {
		writeServiceError(w, err, "create_machine_failed", h.logger)
		return
	}
	writeData(w, http.StatusCreated, m, h.logger)
}

// Update handles PATCH /api/machines/{id}
func (h *MachineHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch models.MachinePatch
	if !decodeJSON(w, r, &patch, h.logger) {
		return
	}
	m, err := h.machineService.Update(r.Context(), pathID(r), patch)
	if err != nil {
		writeServiceError(w, err, "update_machine_failed", h.logger)
		return
	}
	writeData(w, http.StatusOK, m, h.logger)
}

type updateStatusRequest struct {
	Status models.MachineStatus `json:"status"`
}

// UpdateStatus handles PATCH /api/machines/{id}/status
func (h *MachineHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}
	m, err := h.machineService.UpdateStatus(r.Context(), pathID(r), req.Status)
	if err != nil {
		writeServiceError(w, err, "update_machine_status_failed", h.logger)
		return
	}
	writeData(w, http.StatusOK, m, h.logger)
}

type assignmentRequest struct {
	WorkOrderID *string `json:"work_order_id"`
}

// Assign handles PATCH /api/machines/{id}/assignment. A null or empty
// work_order_id detaches the machine.
func (h *MachineHandler) Assign(w http.ResponseWriter, r *http.Request) {
	var req assignmentRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}
	m, err := h.machineService.AssignWorkOrder(r.Context(), pathID(r), req.WorkOrderID)
	if err != nil {
		writeServiceError(w, err, "assign_work_order_failed", h.logger)
		return
	}
	writeData(w, http.StatusOK, m, h.logger)
}

// Delete handles DELETE /api/machines/{id}
func (h *MachineHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.machineService.Delete(r.Context(), pathID(r)); err != nil {
		writeServiceError(w, err, "delete_machine_failed", h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
