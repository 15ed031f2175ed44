package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/zmi-time/zmi-backend-go/internal/domain/audit"
	"github.com/zmi-time/zmi-backend-go/internal/pkg/database"
)

type auditRepositoryImpl struct {
	db *database.DB
}

func NewAuditRepository(db *database.DB) audit.Repository {
	return &auditRepositoryImpl{db: db}
}

// Create implements audit.Repository.
func (r *auditRepositoryImpl) Create(ctx context.Context, event audit.Event) error {
	q := GetQuerier(ctx, r.db)

	var detailJSON []byte
	if event.Detail != nil {
		var err error
		detailJSON, err = json.Marshal(event.Detail)
		if err != nil {
			return fmt.Errorf("failed to marshal event detail: %w", err)
		}
	}

	query := `
		INSERT INTO audit_events (tenant_id, user_id, user_email, action, entity_type, entity_id, detail)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := q.Exec(ctx, query,
		event.TenantID, event.UserID, event.UserEmail, event.Action,
		event.EntityType, event.EntityID, detailJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to create audit event: %w", err)
	}

	return nil
}

// List implements audit.Repository.
func (r *auditRepositoryImpl) List(ctx context.Context, tenantID string, filter audit.EventFilter) ([]audit.Event, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"tenant_id = $1"}
	args := []interface{}{tenantID}
	argIdx := 2

	if filter.Action != nil && *filter.Action != "" {
		conditions = append(conditions, fmt.Sprintf("action = $%d", argIdx))
		args = append(args, *filter.Action)
		argIdx++
	}
	if filter.EntityType != nil && *filter.EntityType != "" {
		conditions = append(conditions, fmt.Sprintf("entity_type = $%d", argIdx))
		args = append(args, *filter.EntityType)
		argIdx++
	}
	if filter.UserID != nil && *filter.UserID != "" {
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", argIdx))
		args = append(args, *filter.UserID)
		argIdx++
	}
	if filter.From != nil && *filter.From != "" {
		conditions = append(conditions, fmt.Sprintf("created_at::date >= $%d", argIdx))
		args = append(args, *filter.From)
		argIdx++
	}
	if filter.To != nil && *filter.To != "" {
		conditions = append(conditions, fmt.Sprintf("created_at::date <= $%d", argIdx))
		args = append(args, *filter.To)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	var totalCount int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM audit_events WHERE %s", whereClause)
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count audit events: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, tenant_id, user_id, user_email, action, entity_type, entity_id, detail, created_at
		FROM audit_events
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list audit events: %w", err)
	}
	defer rows.Close()

	var events []audit.Event
	for rows.Next() {
		var event audit.Event
		var detailJSON []byte
		err := rows.Scan(
			&event.ID,
			&event.TenantID,
			&event.UserID,
			&event.UserEmail,
			&event.Action,
			&event.EntityType,
			&event.EntityID,
			&detailJSON,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		if len(detailJSON) > 0 {
			if err := json.Unmarshal(detailJSON, &event.Detail); err != nil {
				return nil, 0, fmt.Errorf("failed to unmarshal event detail: %w", err)
			}
		}
		events = append(events, event)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, err
	}

	return events, totalCount, nil
}

// DeleteOlderThan implements audit.Repository. It spans all tenants because
// retention runs once for the whole instance.
func (r *auditRepositoryImpl) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `DELETE FROM audit_events WHERE created_at < $1`

	tag, err := q.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune audit events: %w", err)
	}

	return tag.RowsAffected(), nil
}

type evaluationRepositoryImpl struct {
	db *database.DB
}

func NewEvaluationRepository(db *database.DB) audit.EvaluationRepository {
	return &evaluationRepositoryImpl{db: db}
}

// Create implements audit.EvaluationRepository.
func (r *evaluationRepositoryImpl) Create(ctx context.Context, evaluation audit.Evaluation) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO evaluations (tenant_id, trigger, ran_by, from_date, to_date, employees_processed, days_calculated, error_days, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := q.Exec(ctx, query,
		evaluation.TenantID, evaluation.Trigger, evaluation.RanBy,
		evaluation.FromDate, evaluation.ToDate,
		evaluation.EmployeesProcessed, evaluation.DaysCalculated, evaluation.ErrorDays,
		evaluation.DurationMS,
	)
	if err != nil {
		return fmt.Errorf("failed to create evaluation record: %w", err)
	}

	return nil
}

// List implements audit.EvaluationRepository.
func (r *evaluationRepositoryImpl) List(ctx context.Context, tenantID string, filter audit.EvaluationFilter) ([]audit.Evaluation, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"tenant_id = $1"}
	args := []interface{}{tenantID}
	argIdx := 2

	if filter.Trigger != nil && *filter.Trigger != "" {
		conditions = append(conditions, fmt.Sprintf("trigger = $%d", argIdx))
		args = append(args, *filter.Trigger)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	var totalCount int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM evaluations WHERE %s", whereClause)
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count evaluations: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, tenant_id, trigger, ran_by, from_date, to_date, employees_processed, days_calculated, error_days, duration_ms, created_at
		FROM evaluations
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list evaluations: %w", err)
	}
	defer rows.Close()

	var evaluations []audit.Evaluation
	for rows.Next() {
		var e audit.Evaluation
		err := rows.Scan(
			&e.ID,
			&e.TenantID,
			&e.Trigger,
			&e.RanBy,
			&e.FromDate,
			&e.ToDate,
			&e.EmployeesProcessed,
			&e.DaysCalculated,
			&e.ErrorDays,
			&e.DurationMS,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		evaluations = append(evaluations, e)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, err
	}

	return evaluations, totalCount, nil
}

// DeleteOlderThan implements audit.EvaluationRepository.
func (r *evaluationRepositoryImpl) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `DELETE FROM evaluations WHERE created_at < $1`

	tag, err := q.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune evaluations: %w", err)
	}

	return tag.RowsAffected(), nil
}
