package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/zmi-time/zmi-backend-go/internal/config"
	"github.com/zmi-time/zmi-backend-go/internal/domain/audit"
	"github.com/zmi-time/zmi-backend-go/internal/domain/macro"
	"github.com/zmi-time/zmi-backend-go/internal/domain/tenant"
	"github.com/zmi-time/zmi-backend-go/internal/domain/timesheet"
)

type Jobs struct {
	tenantRepo tenant.TenantRepository
	recalc     timesheet.Recalculator
	macroSvc   macro.MacroService
	auditSvc   audit.AuditService
	retention  config.RetentionConfig
}

func NewJobs(
	tenantRepo tenant.TenantRepository,
	recalc timesheet.Recalculator,
	macroSvc macro.MacroService,
	auditSvc audit.AuditService,
	retention config.RetentionConfig,
) *Jobs {
	return &Jobs{
		tenantRepo: tenantRepo,
		recalc:     recalc,
		macroSvc:   macroSvc,
		auditSvc:   auditSvc,
		retention:  retention,
	}
}

func (j *Jobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("nightly_recalculation", 24*time.Hour, j.RecalculateCurrentMonth)
	scheduler.AddJob("scheduled_macros", 15*time.Minute, j.RunDueMacros)
	scheduler.AddJob("log_retention", 24*time.Hour, j.PruneLogs)
}

// RecalculateCurrentMonth recalculates the running month for every tenant.
// A failure in one tenant does not stop the others.
func (j *Jobs) RecalculateCurrentMonth(ctx context.Context) error {
	tenants, err := j.tenantRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tenants: %w", err)
	}

	var failed int
	for _, t := range tenants {
		loc, err := time.LoadLocation(t.Timezone)
		if err != nil {
			slog.Error("Invalid tenant timezone, falling back to UTC", "tenant_id", t.ID, "timezone", t.Timezone)
			loc = time.UTC
		}

		// The current month is determined in the tenant's local time
		localNow := time.Now().In(loc)
		from := time.Date(localNow.Year(), localNow.Month(), 1, 0, 0, 0, 0, time.UTC)
		to := from.AddDate(0, 1, -1)

		if err := j.recalc.TriggerRecalculation(ctx, t.ID, audit.TriggerNightly, nil, from, to); err != nil {
			slog.Error("Nightly recalculation failed", "tenant_id", t.ID, "error", err)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("nightly recalculation failed for %d of %d tenants", failed, len(tenants))
	}
	return nil
}

// RunDueMacros executes every active scheduled macro whose schedule fires now.
func (j *Jobs) RunDueMacros(ctx context.Context) error {
	return j.macroSvc.RunDue(ctx, time.Now())
}

// PruneLogs deletes audit events and evaluation entries past their
// configured retention windows.
func (j *Jobs) PruneLogs(ctx context.Context) error {
	now := time.Now()
	eventCutoff := now.AddDate(0, 0, -j.retention.AuditLogDays)
	evaluationCutoff := now.AddDate(0, 0, -j.retention.EvaluationLogDays)

	events, evaluations, err := j.auditSvc.Prune(ctx, eventCutoff, evaluationCutoff)
	if err != nil {
		return err
	}

	if events > 0 || evaluations > 0 {
		slog.Info("Old log entries pruned", "audit_events", events, "evaluations", evaluations)
	}
	return nil
}
