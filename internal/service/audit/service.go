package audit

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/zmi-time/zmi-backend-go/internal/domain/audit"
	"github.com/zmi-time/zmi-backend-go/internal/domain/auth"
)

type AuditServiceImpl struct {
	eventRepo      audit.Repository
	evaluationRepo audit.EvaluationRepository
}

// NewAuditService returns the concrete service so that callers can use it
// both as audit.AuditService and as audit.Recorder.
func NewAuditService(eventRepo audit.Repository, evaluationRepo audit.EvaluationRepository) *AuditServiceImpl {
	return &AuditServiceImpl{
		eventRepo:      eventRepo,
		evaluationRepo: evaluationRepo,
	}
}

var (
	_ audit.AuditService = (*AuditServiceImpl)(nil)
	_ audit.Recorder     = (*AuditServiceImpl)(nil)
)

// Record implements audit.Recorder. Missing tenant and actor fields are
// filled from the request context. A failed write is logged and swallowed
// so that auditing never fails the mutation it records.
func (s *AuditServiceImpl) Record(ctx context.Context, event audit.Event) {
	if event.TenantID == "" {
		if tenantID, err := auth.TenantIDFromContext(ctx); err == nil {
			event.TenantID = tenantID
		}
	}
	if event.UserEmail == "" {
		if actor, err := auth.ActorFromContext(ctx); err == nil {
			event.UserEmail = actor.Email
			if actor.UserID != "" {
				userID := actor.UserID
				event.UserID = &userID
			}
		} else {
			event.UserEmail = audit.SystemActor
		}
	}

	if event.TenantID == "" {
		slog.Error("audit event dropped without tenant", "action", event.Action)
		return
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		slog.Error("failed to write audit event",
			"action", event.Action, "entity_type", event.EntityType, "error", err)
	}
}

func mapEventToResponse(e audit.Event) audit.EventResponse {
	return audit.EventResponse{
		ID:         e.ID,
		UserID:     e.UserID,
		UserEmail:  e.UserEmail,
		Action:     e.Action,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Detail:     e.Detail,
		CreatedAt:  e.CreatedAt.Format(time.RFC3339),
	}
}

// ListEvents implements audit.AuditService.
func (s *AuditServiceImpl) ListEvents(ctx context.Context, filter audit.EventFilter) (audit.ListEventResponse, error) {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return audit.ListEventResponse{}, err
	}

	if err := filter.Validate(); err != nil {
		return audit.ListEventResponse{}, err
	}

	events, totalCount, err := s.eventRepo.List(ctx, tenantID, filter)
	if err != nil {
		return audit.ListEventResponse{}, err
	}

	response := audit.ListEventResponse{
		Events:     make([]audit.EventResponse, 0, len(events)),
		TotalCount: int(totalCount),
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(totalCount) / float64(filter.Limit))),
	}
	for _, e := range events {
		response.Events = append(response.Events, mapEventToResponse(e))
	}

	return response, nil
}

// ListEvaluations implements audit.AuditService.
func (s *AuditServiceImpl) ListEvaluations(ctx context.Context, filter audit.EvaluationFilter) (audit.ListEvaluationResponse, error) {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return audit.ListEvaluationResponse{}, err
	}

	if err := filter.Validate(); err != nil {
		return audit.ListEvaluationResponse{}, err
	}

	evaluations, totalCount, err := s.evaluationRepo.List(ctx, tenantID, filter)
	if err != nil {
		return audit.ListEvaluationResponse{}, err
	}

	response := audit.ListEvaluationResponse{
		Evaluations: make([]audit.EvaluationResponse, 0, len(evaluations)),
		TotalCount:  int(totalCount),
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  int(math.Ceil(float64(totalCount) / float64(filter.Limit))),
	}
	for _, e := range evaluations {
		response.Evaluations = append(response.Evaluations, audit.EvaluationResponse{
			ID:                 e.ID,
			Trigger:            e.Trigger,
			RanBy:              e.RanBy,
			FromDate:           e.FromDate.Format("2006-01-02"),
			ToDate:             e.ToDate.Format("2006-01-02"),
			EmployeesProcessed: e.EmployeesProcessed,
			DaysCalculated:     e.DaysCalculated,
			ErrorDays:          e.ErrorDays,
			DurationMS:         e.DurationMS,
			CreatedAt:          e.CreatedAt.Format(time.RFC3339),
		})
	}

	return response, nil
}

// Prune implements audit.AuditService.
func (s *AuditServiceImpl) Prune(ctx context.Context, eventCutoff, evaluationCutoff time.Time) (int64, int64, error) {
	events, err := s.eventRepo.DeleteOlderThan(ctx, eventCutoff)
	if err != nil {
		return 0, 0, err
	}

	evaluations, err := s.evaluationRepo.DeleteOlderThan(ctx, evaluationCutoff)
	if err != nil {
		return events, 0, err
	}

	return events, evaluations, nil
}
