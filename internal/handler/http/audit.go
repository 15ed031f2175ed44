package http

import (
	"net/http"
	"strconv"

	"github.com/zmi-time/zmi-backend-go/internal/domain/audit"
	"github.com/zmi-time/zmi-backend-go/internal/handler/http/response"
)

type AuditHandler interface {
	ListEvents(w http.ResponseWriter, r *http.Request)
	ListEvaluations(w http.ResponseWriter, r *http.Request)
}

type auditHandlerImpl struct {
	auditService audit.AuditService
}

func NewAuditHandler(auditService audit.AuditService) AuditHandler {
	return &auditHandlerImpl{auditService: auditService}
}

func parsePage(r *http.Request) (page, limit int) {
	page = 1
	if p := r.URL.Query().Get("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed > 0 {
			page = parsed
		}
	}
	limit = 20
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	return page, limit
}

// ListEvents implements AuditHandler
func (h *auditHandlerImpl) ListEvents(w http.ResponseWriter, r *http.Request) {
	filter := audit.EventFilter{}

	if action := r.URL.Query().Get("action"); action != "" {
		filter.Action = &action
	}
	if entityType := r.URL.Query().Get("entity_type"); entityType != "" {
		filter.EntityType = &entityType
	}
	if userID := r.URL.Query().Get("user_id"); userID != "" {
		filter.UserID = &userID
	}
	if from := r.URL.Query().Get("from"); from != "" {
		filter.From = &from
	}
	if to := r.URL.Query().Get("to"); to != "" {
		filter.To = &to
	}
	filter.Page, filter.Limit = parsePage(r)

	result, err := h.auditService.ListEvents(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListEvaluations implements AuditHandler
func (h *auditHandlerImpl) ListEvaluations(w http.ResponseWriter, r *http.Request) {
	filter := audit.EvaluationFilter{}

	if trigger := r.URL.Query().Get("trigger"); trigger != "" {
		filter.Trigger = &trigger
	}
	filter.Page, filter.Limit = parsePage(r)

	result, err := h.auditService.ListEvaluations(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
