package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zmi-time/zmi-backend-go/internal/domain/macro"
	"github.com/zmi-time/zmi-backend-go/internal/handler/http/response"
)

type MacroHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Run(w http.ResponseWriter, r *http.Request)
}

type macroHandlerImpl struct {
	macroService macro.MacroService
}

func NewMacroHandler(macroService macro.MacroService) MacroHandler {
	return &macroHandlerImpl{macroService: macroService}
}

// Create implements MacroHandler
func (h *macroHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req macro.CreateMacroRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create macro decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.macroService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Macro created successfully", result)
}

// List implements MacroHandler
func (h *macroHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.macroService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Update implements MacroHandler
func (h *macroHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Macro ID is required", nil)
		return
	}

	var req macro.UpdateMacroRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update macro decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = id

	result, err := h.macroService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Macro updated successfully", result)
}

// Delete implements MacroHandler
func (h *macroHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Macro ID is required", nil)
		return
	}

	if err := h.macroService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Macro deleted successfully", nil)
}

// Run implements MacroHandler - manual trigger
func (h *macroHandlerImpl) Run(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Macro ID is required", nil)
		return
	}

	result, err := h.macroService.Run(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Macro executed successfully", result)
}
