package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zmi-time/zmi-backend-go/internal/domain/export"
	"github.com/zmi-time/zmi-backend-go/internal/handler/http/response"
)

type ExportHandler interface {
	CreateAccount(w http.ResponseWriter, r *http.Request)
	ListAccounts(w http.ResponseWriter, r *http.Request)
	UpdateAccount(w http.ResponseWriter, r *http.Request)
	DeleteAccount(w http.ResponseWriter, r *http.Request)

	CreateInterface(w http.ResponseWriter, r *http.Request)
	GetInterface(w http.ResponseWriter, r *http.Request)
	ListInterfaces(w http.ResponseWriter, r *http.Request)
	UpdateInterface(w http.ResponseWriter, r *http.Request)
	DeleteInterface(w http.ResponseWriter, r *http.Request)

	AddAssignment(w http.ResponseWriter, r *http.Request)
	ReplaceAssignments(w http.ResponseWriter, r *http.Request)
	RemoveAssignment(w http.ResponseWriter, r *http.Request)
	MoveAssignment(w http.ResponseWriter, r *http.Request)

	Run(w http.ResponseWriter, r *http.Request)
	ListRuns(w http.ResponseWriter, r *http.Request)
	DownloadRun(w http.ResponseWriter, r *http.Request)
}

type exportHandlerImpl struct {
	exportService export.ExportService
}

func NewExportHandler(exportService export.ExportService) ExportHandler {
	return &exportHandlerImpl{exportService: exportService}
}

// CreateAccount implements ExportHandler
func (h *exportHandlerImpl) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req export.CreateAccountRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create account decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.exportService.CreateAccount(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Account created successfully", result)
}

// ListAccounts implements ExportHandler
func (h *exportHandlerImpl) ListAccounts(w http.ResponseWriter, r *http.Request) {
	result, err := h.exportService.ListAccounts(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UpdateAccount implements ExportHandler
func (h *exportHandlerImpl) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Account ID is required", nil)
		return
	}

	var req export.UpdateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update account decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = id

	result, err := h.exportService.UpdateAccount(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Account updated successfully", result)
}

// DeleteAccount implements ExportHandler
func (h *exportHandlerImpl) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Account ID is required", nil)
		return
	}

	if err := h.exportService.DeleteAccount(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Account deleted successfully", nil)
}

// CreateInterface implements ExportHandler
func (h *exportHandlerImpl) CreateInterface(w http.ResponseWriter, r *http.Request) {
	var req export.CreateInterfaceRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create export interface decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.exportService.CreateInterface(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Export interface created successfully", result)
}

// GetInterface implements ExportHandler
func (h *exportHandlerImpl) GetInterface(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Export interface ID is required", nil)
		return
	}

	result, err := h.exportService.GetInterface(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListInterfaces implements ExportHandler
func (h *exportHandlerImpl) ListInterfaces(w http.ResponseWriter, r *http.Request) {
	result, err := h.exportService.ListInterfaces(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UpdateInterface implements ExportHandler
func (h *exportHandlerImpl) UpdateInterface(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Export interface ID is required", nil)
		return
	}

	var req export.UpdateInterfaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update export interface decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = id

	result, err := h.exportService.UpdateInterface(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Export interface updated successfully", result)
}

// DeleteInterface implements ExportHandler
func (h *exportHandlerImpl) DeleteInterface(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Export interface ID is required", nil)
		return
	}

	if err := h.exportService.DeleteInterface(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Export interface deleted successfully", nil)
}

// AddAssignment implements ExportHandler
func (h *exportHandlerImpl) AddAssignment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Export interface ID is required", nil)
		return
	}

	var req export.AddAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Add assignment decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.exportService.AddAssignment(r.Context(), id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Account assigned successfully", result)
}

// ReplaceAssignments implements ExportHandler
func (h *exportHandlerImpl) ReplaceAssignments(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Export interface ID is required", nil)
		return
	}

	var req export.ReplaceAssignmentsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Replace assignments decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.exportService.ReplaceAssignments(r.Context(), id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Account assignment saved successfully", result)
}

// RemoveAssignment implements ExportHandler
func (h *exportHandlerImpl) RemoveAssignment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	assignmentID := chi.URLParam(r, "assignmentID")
	if id == "" || assignmentID == "" {
		response.BadRequest(w, "Export interface ID and assignment ID are required", nil)
		return
	}

	result, err := h.exportService.RemoveAssignment(r.Context(), id, assignmentID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Account unassigned successfully", result)
}

// MoveAssignment implements ExportHandler
func (h *exportHandlerImpl) MoveAssignment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	assignmentID := chi.URLParam(r, "assignmentID")
	if id == "" || assignmentID == "" {
		response.BadRequest(w, "Export interface ID and assignment ID are required", nil)
		return
	}

	var req export.MoveAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Move assignment decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.exportService.MoveAssignment(r.Context(), id, assignmentID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Assignment moved successfully", result)
}

// Run implements ExportHandler
func (h *exportHandlerImpl) Run(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Export interface ID is required", nil)
		return
	}

	var req export.RunExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Run export decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.InterfaceID = id

	result, err := h.exportService.Run(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Export run finished", result)
}

// ListRuns implements ExportHandler
func (h *exportHandlerImpl) ListRuns(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Interface ID is required", nil)
		return
	}

	result, err := h.exportService.ListRuns(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// DownloadRun implements ExportHandler
func (h *exportHandlerImpl) DownloadRun(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	if runID == "" {
		response.BadRequest(w, "Run ID is required", nil)
		return
	}

	content, fileName, err := h.exportService.DownloadRun(r.Context(), runID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(content); err != nil {
		slog.Error("Failed to write export CSV", "error", err)
	}
}
