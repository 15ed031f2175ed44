package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zmi-time/zmi-backend-go/internal/domain/auth"
	"github.com/zmi-time/zmi-backend-go/internal/domain/booking"
	"github.com/zmi-time/zmi-backend-go/internal/domain/tenant"
	"github.com/zmi-time/zmi-backend-go/internal/handler/http/response"
)

type BookingHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)

	// Time clock widget
	Punch(w http.ResponseWriter, r *http.Request)
	Status(w http.ResponseWriter, r *http.Request)
}

type bookingHandlerImpl struct {
	bookingService booking.BookingService
	tenantService  tenant.TenantService
}

func NewBookingHandler(bookingService booking.BookingService, tenantService tenant.TenantService) BookingHandler {
	return &bookingHandlerImpl{
		bookingService: bookingService,
		tenantService:  tenantService,
	}
}

// Create implements BookingHandler
func (h *bookingHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req booking.CreateBookingRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create booking decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.bookingService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Booking created successfully", result)
}

// List implements BookingHandler
func (h *bookingHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := booking.BookingFilter{}

	if employeeID := r.URL.Query().Get("employee_id"); employeeID != "" {
		filter.EmployeeID = &employeeID
	}
	if from := r.URL.Query().Get("from"); from != "" {
		filter.From = &from
	}
	if to := r.URL.Query().Get("to"); to != "" {
		filter.To = &to
	}

	result, err := h.bookingService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Update implements BookingHandler
func (h *bookingHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Booking ID is required", nil)
		return
	}

	var req booking.UpdateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update booking decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = id

	result, err := h.bookingService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Booking updated successfully", result)
}

// Delete implements BookingHandler
func (h *bookingHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Booking ID is required", nil)
		return
	}

	if err := h.bookingService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Booking deleted successfully", nil)
}

// Punch implements BookingHandler - authenticated time clock punch. The
// tenant code is resolved server-side from the request tenant, the body
// only carries the badge and optional direction.
func (h *bookingHandlerImpl) Punch(w http.ResponseWriter, r *http.Request) {
	var req booking.PunchRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Punch decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	tenantID, err := auth.TenantIDFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	t, err := h.tenantService.GetTenant(r.Context(), tenantID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	req.TenantCode = t.Code

	result, err := h.bookingService.Punch(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Punch recorded successfully", result)
}

// Status implements BookingHandler - today's presence board
func (h *bookingHandlerImpl) Status(w http.ResponseWriter, r *http.Request) {
	result, err := h.bookingService.Status(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
