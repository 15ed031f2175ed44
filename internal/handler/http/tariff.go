package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zmi-time/zmi-backend-go/internal/domain/tariff"
	"github.com/zmi-time/zmi-backend-go/internal/handler/http/response"
)

type TariffHandler interface {
	CreateDayPlan(w http.ResponseWriter, r *http.Request)
	GetDayPlan(w http.ResponseWriter, r *http.Request)
	ListDayPlans(w http.ResponseWriter, r *http.Request)
	UpdateDayPlan(w http.ResponseWriter, r *http.Request)
	DeleteDayPlan(w http.ResponseWriter, r *http.Request)

	CreateTariff(w http.ResponseWriter, r *http.Request)
	GetTariff(w http.ResponseWriter, r *http.Request)
	ListTariffs(w http.ResponseWriter, r *http.Request)
	UpdateTariff(w http.ResponseWriter, r *http.Request)
	DeleteTariff(w http.ResponseWriter, r *http.Request)
}

type tariffHandlerImpl struct {
	tariffService tariff.TariffService
}

func NewTariffHandler(tariffService tariff.TariffService) TariffHandler {
	return &tariffHandlerImpl{tariffService: tariffService}
}

// CreateDayPlan implements TariffHandler
func (h *tariffHandlerImpl) CreateDayPlan(w http.ResponseWriter, r *http.Request) {
	var req tariff.CreateDayPlanRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create day plan decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.tariffService.CreateDayPlan(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Day plan created successfully", result)
}

// GetDayPlan implements TariffHandler
func (h *tariffHandlerImpl) GetDayPlan(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Day plan ID is required", nil)
		return
	}

	result, err := h.tariffService.GetDayPlan(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListDayPlans implements TariffHandler
func (h *tariffHandlerImpl) ListDayPlans(w http.ResponseWriter, r *http.Request) {
	result, err := h.tariffService.ListDayPlans(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UpdateDayPlan implements TariffHandler
func (h *tariffHandlerImpl) UpdateDayPlan(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Day plan ID is required", nil)
		return
	}

	var req tariff.UpdateDayPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update day plan decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = id

	result, err := h.tariffService.UpdateDayPlan(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Day plan updated successfully", result)
}

// DeleteDayPlan implements TariffHandler
func (h *tariffHandlerImpl) DeleteDayPlan(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Day plan ID is required", nil)
		return
	}

	if err := h.tariffService.DeleteDayPlan(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Day plan deleted successfully", nil)
}

// CreateTariff implements TariffHandler
func (h *tariffHandlerImpl) CreateTariff(w http.ResponseWriter, r *http.Request) {
	var req tariff.CreateTariffRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create tariff decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.tariffService.CreateTariff(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Tariff created successfully", result)
}

// GetTariff implements TariffHandler
func (h *tariffHandlerImpl) GetTariff(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Tariff ID is required", nil)
		return
	}

	result, err := h.tariffService.GetTariff(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListTariffs implements TariffHandler
func (h *tariffHandlerImpl) ListTariffs(w http.ResponseWriter, r *http.Request) {
	result, err := h.tariffService.ListTariffs(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UpdateTariff implements TariffHandler
func (h *tariffHandlerImpl) UpdateTariff(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Tariff ID is required", nil)
		return
	}

	var req tariff.UpdateTariffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update tariff decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = id

	result, err := h.tariffService.UpdateTariff(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Tariff updated successfully", result)
}

// DeleteTariff implements TariffHandler
func (h *tariffHandlerImpl) DeleteTariff(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Tariff ID is required", nil)
		return
	}

	if err := h.tariffService.DeleteTariff(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Tariff deleted successfully", nil)
}
