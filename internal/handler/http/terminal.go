package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/zmi-time/zmi-backend-go/internal/domain/access"
	"github.com/zmi-time/zmi-backend-go/internal/domain/booking"
	"github.com/zmi-time/zmi-backend-go/internal/handler/http/response"
)

// TerminalHandler serves the hardware terminal endpoints. Terminals
// authenticate with a shared API key and identify their tenant by code
// in each request body.
type TerminalHandler interface {
	Punch(w http.ResponseWriter, r *http.Request)
	AccessCheck(w http.ResponseWriter, r *http.Request)
}

type terminalHandlerImpl struct {
	bookingService booking.BookingService
	accessService  access.AccessService
}

func NewTerminalHandler(bookingService booking.BookingService, accessService access.AccessService) TerminalHandler {
	return &terminalHandlerImpl{
		bookingService: bookingService,
		accessService:  accessService,
	}
}

// Punch implements TerminalHandler
func (h *terminalHandlerImpl) Punch(w http.ResponseWriter, r *http.Request) {
	var req booking.PunchRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Terminal punch decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.bookingService.Punch(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Punch recorded successfully", result)
}

// AccessCheck implements TerminalHandler - door unlock decision
func (h *terminalHandlerImpl) AccessCheck(w http.ResponseWriter, r *http.Request) {
	var req access.CheckRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Access check decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.accessService.Check(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
