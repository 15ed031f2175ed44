package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zmi-time/zmi-backend-go/internal/domain/tenant"
	"github.com/zmi-time/zmi-backend-go/internal/handler/http/response"
)

type TenantHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type tenantHandlerImpl struct {
	tenantService tenant.TenantService
}

func NewTenantHandler(tenantService tenant.TenantService) TenantHandler {
	return &tenantHandlerImpl{tenantService: tenantService}
}

// Create implements TenantHandler
func (h *tenantHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req tenant.CreateTenantRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create tenant decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.tenantService.CreateTenant(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Tenant created successfully", result)
}

// Get implements TenantHandler
func (h *tenantHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Tenant ID is required", nil)
		return
	}

	result, err := h.tenantService.GetTenant(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// List implements TenantHandler
func (h *tenantHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.tenantService.ListTenants(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Update implements TenantHandler
func (h *tenantHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Tenant ID is required", nil)
		return
	}

	var req tenant.UpdateTenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update tenant decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = id

	result, err := h.tenantService.UpdateTenant(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Tenant updated successfully", result)
}

// Delete implements TenantHandler
func (h *tenantHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Tenant ID is required", nil)
		return
	}

	if err := h.tenantService.DeleteTenant(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Tenant deleted successfully", nil)
}
