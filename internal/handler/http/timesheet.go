package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/zmi-time/zmi-backend-go/internal/domain/timesheet"
	"github.com/zmi-time/zmi-backend-go/internal/handler/http/response"
)

type TimesheetHandler interface {
	Recalculate(w http.ResponseWriter, r *http.Request)
	ListMonthlyValues(w http.ResponseWriter, r *http.Request)
	CloseMonth(w http.ResponseWriter, r *http.Request)
	ReopenMonth(w http.ResponseWriter, r *http.Request)
}

type timesheetHandlerImpl struct {
	timesheetService timesheet.TimesheetService
}

func NewTimesheetHandler(timesheetService timesheet.TimesheetService) TimesheetHandler {
	return &timesheetHandlerImpl{timesheetService: timesheetService}
}

// Recalculate implements TimesheetHandler
func (h *timesheetHandlerImpl) Recalculate(w http.ResponseWriter, r *http.Request) {
	var req timesheet.RecalculateRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Recalculate decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.timesheetService.Recalculate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Recalculation finished", result)
}

// ListMonthlyValues implements TimesheetHandler - defaults to the current month
func (h *timesheetHandlerImpl) ListMonthlyValues(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	if month == "" {
		month = time.Now().Format("2006-01")
	}

	result, err := h.timesheetService.ListMonthlyValues(r.Context(), month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// CloseMonth implements TimesheetHandler
func (h *timesheetHandlerImpl) CloseMonth(w http.ResponseWriter, r *http.Request) {
	var req timesheet.CloseMonthRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Close month decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.timesheetService.CloseMonth(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Month closed", result)
}

// ReopenMonth implements TimesheetHandler
func (h *timesheetHandlerImpl) ReopenMonth(w http.ResponseWriter, r *http.Request) {
	var req timesheet.ReopenMonthRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Reopen month decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.timesheetService.ReopenMonth(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Month reopened", result)
}
