package macro

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/zmi-time/zmi-backend-go/internal/domain/audit"
	"github.com/zmi-time/zmi-backend-go/internal/domain/auth"
	"github.com/zmi-time/zmi-backend-go/internal/domain/employee"
	"github.com/zmi-time/zmi-backend-go/internal/domain/macro"
	"github.com/zmi-time/zmi-backend-go/internal/domain/tariff"
	"github.com/zmi-time/zmi-backend-go/internal/domain/tenant"
	"github.com/zmi-time/zmi-backend-go/internal/domain/timesheet"
	"github.com/zmi-time/zmi-backend-go/internal/pkg/database"
	"github.com/zmi-time/zmi-backend-go/internal/repository/postgresql"
)

type MacroServiceImpl struct {
	db           *database.DB
	macroRepo    macro.Repository
	employeeRepo employee.EmployeeRepository
	tariffRepo   tariff.TariffRepository
	tenantRepo   tenant.TenantRepository
	monthlyRepo  timesheet.MonthlyValueRepository
	recalc       timesheet.Recalculator
	auditor      audit.Recorder
}

func NewMacroService(
	db *database.DB,
	macroRepo macro.Repository,
	employeeRepo employee.EmployeeRepository,
	tariffRepo tariff.TariffRepository,
	tenantRepo tenant.TenantRepository,
	monthlyRepo timesheet.MonthlyValueRepository,
	recalc timesheet.Recalculator,
	auditor audit.Recorder,
) macro.MacroService {
	return &MacroServiceImpl{
		db:           db,
		macroRepo:    macroRepo,
		employeeRepo: employeeRepo,
		tariffRepo:   tariffRepo,
		tenantRepo:   tenantRepo,
		monthlyRepo:  monthlyRepo,
		recalc:       recalc,
		auditor:      auditor,
	}
}

func mapMacroToResponse(m macro.Macro) macro.MacroResponse {
	response := macro.MacroResponse{
		ID:         m.ID,
		Name:       m.Name,
		Action:     string(m.Action),
		Schedule:   string(m.Schedule),
		RunDay:     m.RunDay,
		RunMonth:   m.RunMonth,
		TariffID:   m.TariffID,
		EmployeeID: m.EmployeeID,
		Active:     m.Active,
		CreatedAt:  m.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  m.UpdatedAt.Format(time.RFC3339),
	}
	if m.LastRunAt != nil {
		lastRunAt := m.LastRunAt.Format(time.RFC3339)
		response.LastRunAt = &lastRunAt
	}
	return response
}

// Create implements macro.MacroService.
func (s *MacroServiceImpl) Create(ctx context.Context, req macro.CreateMacroRequest) (macro.MacroResponse, error) {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return macro.MacroResponse{}, err
	}

	if err := req.Validate(); err != nil {
		return macro.MacroResponse{}, err
	}

	if req.TariffID != nil && *req.TariffID != "" {
		if _, err := s.tariffRepo.GetByID(ctx, tenantID, *req.TariffID); err != nil {
			return macro.MacroResponse{}, err
		}
	}
	if req.EmployeeID != nil && *req.EmployeeID != "" {
		if _, err := s.employeeRepo.GetByID(ctx, tenantID, *req.EmployeeID); err != nil {
			return macro.MacroResponse{}, err
		}
	}

	created, err := s.macroRepo.Create(ctx, macro.Macro{
		TenantID:   tenantID,
		Name:       req.Name,
		Action:     macro.Action(req.Action),
		Schedule:   macro.Schedule(req.Schedule),
		RunDay:     req.RunDay,
		RunMonth:   req.RunMonth,
		TariffID:   req.TariffID,
		EmployeeID: req.EmployeeID,
		Active:     req.Active,
	})
	if err != nil {
		return macro.MacroResponse{}, err
	}

	s.auditor.Record(ctx, audit.Event{
		TenantID:   tenantID,
		Action:     "macro.create",
		EntityType: "macro",
		EntityID:   &created.ID,
		Detail:     map[string]interface{}{"name": created.Name, "action": string(created.Action)},
	})

	return mapMacroToResponse(created), nil
}

// List implements macro.MacroService.
func (s *MacroServiceImpl) List(ctx context.Context) ([]macro.MacroResponse, error) {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	macros, err := s.macroRepo.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	responses := make([]macro.MacroResponse, 0, len(macros))
	for _, m := range macros {
		responses = append(responses, mapMacroToResponse(m))
	}
	return responses, nil
}

// Update implements macro.MacroService.
func (s *MacroServiceImpl) Update(ctx context.Context, req macro.UpdateMacroRequest) (macro.MacroResponse, error) {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return macro.MacroResponse{}, err
	}

	if err := req.Validate(); err != nil {
		return macro.MacroResponse{}, err
	}

	if _, err := s.macroRepo.GetByID(ctx, tenantID, req.ID); err != nil {
		return macro.MacroResponse{}, err
	}

	if req.TariffID != nil && *req.TariffID != "" {
		if _, err := s.tariffRepo.GetByID(ctx, tenantID, *req.TariffID); err != nil {
			return macro.MacroResponse{}, err
		}
	}
	if req.EmployeeID != nil && *req.EmployeeID != "" {
		if _, err := s.employeeRepo.GetByID(ctx, tenantID, *req.EmployeeID); err != nil {
			return macro.MacroResponse{}, err
		}
	}

	if err := s.macroRepo.Update(ctx, tenantID, req); err != nil {
		return macro.MacroResponse{}, err
	}

	updated, err := s.macroRepo.GetByID(ctx, tenantID, req.ID)
	if err != nil {
		return macro.MacroResponse{}, err
	}

	s.auditor.Record(ctx, audit.Event{
		TenantID:   tenantID,
		Action:     "macro.update",
		EntityType: "macro",
		EntityID:   &updated.ID,
		Detail:     map[string]interface{}{"name": updated.Name, "action": string(updated.Action)},
	})

	return mapMacroToResponse(updated), nil
}

// Delete implements macro.MacroService.
func (s *MacroServiceImpl) Delete(ctx context.Context, id string) error {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return err
	}

	existing, err := s.macroRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return err
	}

	if err := s.macroRepo.Delete(ctx, tenantID, id); err != nil {
		return err
	}

	s.auditor.Record(ctx, audit.Event{
		TenantID:   tenantID,
		Action:     "macro.delete",
		EntityType: "macro",
		EntityID:   &id,
		Detail:     map[string]interface{}{"name": existing.Name},
	})

	return nil
}

// Run implements macro.MacroService.
func (s *MacroServiceImpl) Run(ctx context.Context, id string) (macro.RunResult, error) {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return macro.RunResult{}, err
	}

	m, err := s.macroRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return macro.RunResult{}, err
	}
	if !m.Active {
		return macro.RunResult{}, macro.ErrMacroInactive
	}

	t, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return macro.RunResult{}, err
	}
	loc, err := time.LoadLocation(t.Timezone)
	if err != nil {
		return macro.RunResult{}, fmt.Errorf("failed to load tenant timezone %q: %w", t.Timezone, err)
	}

	result, err := s.execute(ctx, tenantID, m, time.Now().In(loc))
	if err != nil {
		return macro.RunResult{}, err
	}

	if err := s.macroRepo.SetLastRunAt(ctx, tenantID, m.ID, time.Now()); err != nil {
		slog.Error("failed to stamp macro run", "macro_id", m.ID, "error", err)
	}

	s.auditor.Record(ctx, audit.Event{
		TenantID:   tenantID,
		Action:     "macro.run",
		EntityType: "macro",
		EntityID:   &m.ID,
		Detail: map[string]interface{}{
			"name":                m.Name,
			"action":              string(m.Action),
			"employees_processed": result.EmployeesProcessed,
			"adjustment_minutes":  result.AdjustmentMinutes,
		},
	})

	return result, nil
}

// RunDue implements macro.MacroService. Failures of a single macro are
// logged and do not stop the remaining ones.
func (s *MacroServiceImpl) RunDue(ctx context.Context, now time.Time) error {
	macros, err := s.macroRepo.ListActiveScheduled(ctx)
	if err != nil {
		return err
	}

	locations := make(map[string]*time.Location)
	for _, m := range macros {
		loc, ok := locations[m.TenantID]
		if !ok {
			t, err := s.tenantRepo.GetByID(ctx, m.TenantID)
			if err != nil {
				slog.Error("failed to load tenant for scheduled macro", "macro_id", m.ID, "error", err)
				continue
			}
			loc, err = time.LoadLocation(t.Timezone)
			if err != nil {
				slog.Error("invalid tenant timezone", "tenant_id", m.TenantID, "timezone", t.Timezone, "error", err)
				continue
			}
			locations[m.TenantID] = loc
		}

		local := now.In(loc)
		if !m.IsDue(local) {
			continue
		}

		result, err := s.execute(ctx, m.TenantID, m, local)
		if err != nil {
			slog.Error("scheduled macro failed", "macro_id", m.ID, "name", m.Name, "error", err)
			continue
		}
		if err := s.macroRepo.SetLastRunAt(ctx, m.TenantID, m.ID, now); err != nil {
			slog.Error("failed to stamp macro run", "macro_id", m.ID, "error", err)
		}

		s.auditor.Record(ctx, audit.Event{
			TenantID:   m.TenantID,
			Action:     "macro.run",
			EntityType: "macro",
			EntityID:   &m.ID,
			Detail: map[string]interface{}{
				"name":                m.Name,
				"action":              string(m.Action),
				"employees_processed": result.EmployeesProcessed,
				"adjustment_minutes":  result.AdjustmentMinutes,
			},
		})

		slog.Info("scheduled macro ran",
			"macro_id", m.ID, "name", m.Name, "action", string(m.Action),
			"employees_processed", result.EmployeesProcessed)
	}

	return nil
}

func (s *MacroServiceImpl) execute(ctx context.Context, tenantID string, m macro.Macro, localNow time.Time) (macro.RunResult, error) {
	employees, err := s.targetEmployees(ctx, tenantID, m)
	if err != nil {
		return macro.RunResult{}, err
	}

	result := macro.RunResult{
		MacroID: m.ID,
		Name:    m.Name,
		Action:  string(m.Action),
	}

	currentStart := time.Date(localNow.Year(), localNow.Month(), 1, 0, 0, 0, 0, time.UTC)
	currentEnd := currentStart.AddDate(0, 1, -1)
	prevMonth := timesheet.MonthKey(currentStart.AddDate(0, -1, 0))

	ids := make([]string, 0, len(employees))
	for _, emp := range employees {
		ids = append(ids, emp.ID)
	}

	switch m.Action {
	case macro.ActionRecalculateTargetHours:
		if err := s.recalc.TriggerRecalculation(ctx, tenantID, audit.TriggerMacro, ids, currentStart, currentEnd); err != nil {
			return macro.RunResult{}, err
		}
		result.EmployeesProcessed = len(ids)
		return result, nil

	case macro.ActionResetFlextime:
		err = s.adjustPreviousMonth(ctx, tenantID, employees, prevMonth, func(emp employee.Employee, value timesheet.MonthlyValue) (int, bool) {
			if value.FlextimeEndMinutes == 0 {
				return 0, false
			}
			return -value.FlextimeEndMinutes, true
		}, &result)

	case macro.ActionCarryForwardBalance:
		caps, capErr := s.flextimeCaps(ctx, tenantID, employees)
		if capErr != nil {
			return macro.RunResult{}, capErr
		}
		err = s.adjustPreviousMonth(ctx, tenantID, employees, prevMonth, func(emp employee.Employee, value timesheet.MonthlyValue) (int, bool) {
			limit, ok := caps[emp.TariffID]
			if !ok || limit < 0 || value.FlextimeEndMinutes <= limit {
				return 0, false
			}
			return limit - value.FlextimeEndMinutes, true
		}, &result)

	default:
		return macro.RunResult{}, fmt.Errorf("unknown macro action %q", m.Action)
	}
	if err != nil {
		return macro.RunResult{}, err
	}

	// Re-chain the months after the adjusted one.
	if result.EmployeesProcessed > 0 {
		if err := s.recalc.TriggerRecalculation(ctx, tenantID, audit.TriggerMacro, ids, currentStart, currentEnd); err != nil {
			return macro.RunResult{}, err
		}
	}

	return result, nil
}

func (s *MacroServiceImpl) targetEmployees(ctx context.Context, tenantID string, m macro.Macro) ([]employee.Employee, error) {
	if m.EmployeeID != nil {
		emp, err := s.employeeRepo.GetByID(ctx, tenantID, *m.EmployeeID)
		if err != nil {
			return nil, err
		}
		if !emp.Active {
			return nil, nil
		}
		return []employee.Employee{emp}, nil
	}

	employees, err := s.employeeRepo.ListActive(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if m.TariffID == nil {
		return employees, nil
	}

	filtered := employees[:0]
	for _, emp := range employees {
		if emp.TariffID == *m.TariffID {
			filtered = append(filtered, emp)
		}
	}
	return filtered, nil
}

func (s *MacroServiceImpl) flextimeCaps(ctx context.Context, tenantID string, employees []employee.Employee) (map[string]int, error) {
	caps := make(map[string]int)
	for _, emp := range employees {
		if _, ok := caps[emp.TariffID]; ok {
			continue
		}
		t, err := s.tariffRepo.GetByID(ctx, tenantID, emp.TariffID)
		if err != nil {
			return nil, err
		}
		caps[emp.TariffID] = t.FlextimeCapMinutes
	}
	return caps, nil
}

// adjustPreviousMonth writes a flextime adjustment per employee on the
// previous month. decide returns the adjustment delta and whether the
// employee needs one. Employees without a calculated previous month or
// with a closed one are skipped.
func (s *MacroServiceImpl) adjustPreviousMonth(
	ctx context.Context,
	tenantID string,
	employees []employee.Employee,
	month string,
	decide func(emp employee.Employee, value timesheet.MonthlyValue) (int, bool),
	result *macro.RunResult,
) error {
	type pending struct {
		employeeID string
		adjustment int
		delta      int
	}
	var updates []pending

	for _, emp := range employees {
		value, err := s.monthlyRepo.Get(ctx, tenantID, emp.ID, month)
		if err == timesheet.ErrMonthlyValueNotFound {
			continue
		}
		if err != nil {
			return err
		}
		if value.Closed {
			continue
		}

		delta, ok := decide(emp, value)
		if !ok {
			continue
		}

		updates = append(updates, pending{
			employeeID: emp.ID,
			adjustment: value.FlextimeAdjustmentMinutes + delta,
			delta:      delta,
		})
	}

	if len(updates) == 0 {
		return nil
	}

	err := postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		for _, u := range updates {
			if err := s.monthlyRepo.SetAdjustment(txCtx, tenantID, u.employeeID, month, u.adjustment); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, u := range updates {
		result.AdjustmentMinutes += u.delta
	}
	result.EmployeesProcessed = len(updates)

	return nil
}
