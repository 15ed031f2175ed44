package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zmi-time/zmi-backend-go/internal/domain/access"
	"github.com/zmi-time/zmi-backend-go/internal/handler/http/response"
)

type AccessHandler interface {
	CreateZone(w http.ResponseWriter, r *http.Request)
	ListZones(w http.ResponseWriter, r *http.Request)
	UpdateZone(w http.ResponseWriter, r *http.Request)
	DeleteZone(w http.ResponseWriter, r *http.Request)

	CreateProfile(w http.ResponseWriter, r *http.Request)
	GetProfile(w http.ResponseWriter, r *http.Request)
	ListProfiles(w http.ResponseWriter, r *http.Request)
	UpdateProfile(w http.ResponseWriter, r *http.Request)
	DeleteProfile(w http.ResponseWriter, r *http.Request)
}

type accessHandlerImpl struct {
	accessService access.AccessService
}

func NewAccessHandler(accessService access.AccessService) AccessHandler {
	return &accessHandlerImpl{accessService: accessService}
}

// CreateZone implements AccessHandler
func (h *accessHandlerImpl) CreateZone(w http.ResponseWriter, r *http.Request) {
	var req access.CreateZoneRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create access zone decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.accessService.CreateZone(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Access zone created successfully", result)
}

// ListZones implements AccessHandler
func (h *accessHandlerImpl) ListZones(w http.ResponseWriter, r *http.Request) {
	result, err := h.accessService.ListZones(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UpdateZone implements AccessHandler
func (h *accessHandlerImpl) UpdateZone(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Access zone ID is required", nil)
		return
	}

	var req access.UpdateZoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update access zone decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = id

	result, err := h.accessService.UpdateZone(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Access zone updated successfully", result)
}

// DeleteZone implements AccessHandler
func (h *accessHandlerImpl) DeleteZone(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Access zone ID is required", nil)
		return
	}

	if err := h.accessService.DeleteZone(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Access zone deleted successfully", nil)
}

// CreateProfile implements AccessHandler
func (h *accessHandlerImpl) CreateProfile(w http.ResponseWriter, r *http.Request) {
	var req access.CreateProfileRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create access profile decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.accessService.CreateProfile(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Access profile created successfully", result)
}

// GetProfile implements AccessHandler
func (h *accessHandlerImpl) GetProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Access profile ID is required", nil)
		return
	}

	result, err := h.accessService.GetProfile(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListProfiles implements AccessHandler
func (h *accessHandlerImpl) ListProfiles(w http.ResponseWriter, r *http.Request) {
	result, err := h.accessService.ListProfiles(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UpdateProfile implements AccessHandler
func (h *accessHandlerImpl) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Access profile ID is required", nil)
		return
	}

	var req access.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update access profile decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = id

	result, err := h.accessService.UpdateProfile(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Access profile updated successfully", result)
}

// DeleteProfile implements AccessHandler
func (h *accessHandlerImpl) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Access profile ID is required", nil)
		return
	}

	if err := h.accessService.DeleteProfile(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Access profile deleted successfully", nil)
}
