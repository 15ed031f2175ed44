package timesheet

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"

	"github.com/zmi-time/zmi-backend-go/internal/calc"
	"github.com/zmi-time/zmi-backend-go/internal/domain/absence"
	"github.com/zmi-time/zmi-backend-go/internal/domain/audit"
	"github.com/zmi-time/zmi-backend-go/internal/domain/auth"
	"github.com/zmi-time/zmi-backend-go/internal/domain/booking"
	"github.com/zmi-time/zmi-backend-go/internal/domain/employee"
	"github.com/zmi-time/zmi-backend-go/internal/domain/holiday"
	"github.com/zmi-time/zmi-backend-go/internal/domain/tariff"
	"github.com/zmi-time/zmi-backend-go/internal/domain/tenant"
	"github.com/zmi-time/zmi-backend-go/internal/domain/timesheet"
	"github.com/zmi-time/zmi-backend-go/internal/pkg/database"
	"github.com/zmi-time/zmi-backend-go/internal/pkg/mailer"
	"github.com/zmi-time/zmi-backend-go/internal/pkg/sse"
	"github.com/zmi-time/zmi-backend-go/internal/pkg/validator"
	"github.com/zmi-time/zmi-backend-go/internal/repository/postgresql"
)

// recalcWorkers bounds how many employees are calculated concurrently.
const recalcWorkers = 4

// recalcGuard serializes recalculations per tenant. Concurrent runs over
// the same employees would race on the flextime chain.
type recalcGuard struct {
	mu      sync.Mutex
	running map[string]struct{}
}

func (g *recalcGuard) tryAcquire(tenantID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.running[tenantID]; ok {
		return false
	}
	g.running[tenantID] = struct{}{}
	return true
}

func (g *recalcGuard) release(tenantID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.running, tenantID)
}

type TimesheetServiceImpl struct {
	db             *database.DB
	employeeRepo   employee.EmployeeRepository
	tariffRepo     tariff.TariffRepository
	dayPlanRepo    tariff.DayPlanRepository
	holidayRepo    holiday.HolidayRepository
	bookingRepo    booking.Repository
	absenceRepo    absence.Repository
	dailyRepo      timesheet.DailyValueRepository
	monthlyRepo    timesheet.MonthlyValueRepository
	tenantRepo     tenant.TenantRepository
	evaluationRepo audit.EvaluationRepository
	auditor        audit.Recorder
	mailer         mailer.Mailer
	hub            *sse.Hub
	guard          recalcGuard
}

// NewTimesheetService returns the concrete service so that callers can use
// it both as timesheet.TimesheetService and as timesheet.Recalculator.
func NewTimesheetService(
	db *database.DB,
	employeeRepo employee.EmployeeRepository,
	tariffRepo tariff.TariffRepository,
	dayPlanRepo tariff.DayPlanRepository,
	holidayRepo holiday.HolidayRepository,
	bookingRepo booking.Repository,
	absenceRepo absence.Repository,
	dailyRepo timesheet.DailyValueRepository,
	monthlyRepo timesheet.MonthlyValueRepository,
	tenantRepo tenant.TenantRepository,
	evaluationRepo audit.EvaluationRepository,
	auditor audit.Recorder,
	m mailer.Mailer,
	hub *sse.Hub,
) *TimesheetServiceImpl {
	return &TimesheetServiceImpl{
		db:             db,
		employeeRepo:   employeeRepo,
		tariffRepo:     tariffRepo,
		dayPlanRepo:    dayPlanRepo,
		holidayRepo:    holidayRepo,
		bookingRepo:    bookingRepo,
		absenceRepo:    absenceRepo,
		dailyRepo:      dailyRepo,
		monthlyRepo:    monthlyRepo,
		tenantRepo:     tenantRepo,
		evaluationRepo: evaluationRepo,
		auditor:        auditor,
		mailer:         m,
		hub:            hub,
		guard:          recalcGuard{running: make(map[string]struct{})},
	}
}

var (
	_ timesheet.TimesheetService = (*TimesheetServiceImpl)(nil)
	_ timesheet.Recalculator     = (*TimesheetServiceImpl)(nil)
)

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// Recalculate implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) Recalculate(ctx context.Context, req timesheet.RecalculateRequest) (timesheet.RecalculateResponse, error) {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return timesheet.RecalculateResponse{}, err
	}

	if err := req.Validate(); err != nil {
		return timesheet.RecalculateResponse{}, err
	}

	from, _ := time.Parse("2006-01-02", req.FromDate)
	to, _ := time.Parse("2006-01-02", req.ToDate)

	ranBy := audit.SystemActor
	if actor, err := auth.ActorFromContext(ctx); err == nil {
		ranBy = actor.Email
	}

	return s.recalculate(ctx, tenantID, audit.TriggerManual, ranBy, req.EmployeeIDs, from, to)
}

// TriggerRecalculation implements timesheet.Recalculator.
func (s *TimesheetServiceImpl) TriggerRecalculation(ctx context.Context, tenantID, trigger string, employeeIDs []string, from, to time.Time) error {
	ranBy := audit.SystemActor
	if actor, err := auth.ActorFromContext(ctx); err == nil {
		ranBy = actor.Email
	}

	_, err := s.recalculate(ctx, tenantID, trigger, ranBy, employeeIDs, from, to)
	return err
}

func (s *TimesheetServiceImpl) recalculate(ctx context.Context, tenantID, trigger, ranBy string, employeeIDs []string, from, to time.Time) (timesheet.RecalculateResponse, error) {
	if !s.guard.tryAcquire(tenantID) {
		return timesheet.RecalculateResponse{}, timesheet.ErrRecalculationRunning
	}
	defer s.guard.release(tenantID)

	started := time.Now()

	employees, err := s.resolveEmployees(ctx, tenantID, employeeIDs)
	if err != nil {
		return timesheet.RecalculateResponse{}, err
	}

	plans, err := s.loadPlans(ctx, tenantID)
	if err != nil {
		return timesheet.RecalculateResponse{}, err
	}
	tariffs, err := s.loadTariffs(ctx, tenantID)
	if err != nil {
		return timesheet.RecalculateResponse{}, err
	}
	holidays, err := s.loadHolidays(ctx, tenantID, from, to)
	if err != nil {
		return timesheet.RecalculateResponse{}, err
	}

	var processed, days, errorDays atomic.Int64
	total := len(employees)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(recalcWorkers)
	for _, emp := range employees {
		emp := emp
		g.Go(func() error {
			empDays, empErrorDays, err := s.recalcEmployee(gctx, tenantID, emp, from, to, plans, tariffs, holidays)
			if err != nil {
				return fmt.Errorf("failed to recalculate employee %s: %w", emp.Code, err)
			}

			days.Add(int64(empDays))
			errorDays.Add(int64(empErrorDays))
			done := processed.Add(1)

			s.hub.Publish(tenantID, sse.Event{
				Event: "recalculation.progress",
				Data: map[string]interface{}{
					"processed": done,
					"total":     total,
					"trigger":   trigger,
				},
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return timesheet.RecalculateResponse{}, err
	}

	duration := time.Since(started)

	evaluation := audit.Evaluation{
		TenantID:           tenantID,
		Trigger:            trigger,
		RanBy:              ranBy,
		FromDate:           from,
		ToDate:             to,
		EmployeesProcessed: int(processed.Load()),
		DaysCalculated:     int(days.Load()),
		ErrorDays:          int(errorDays.Load()),
		DurationMS:         duration.Milliseconds(),
	}
	if err := s.evaluationRepo.Create(ctx, evaluation); err != nil {
		slog.Error("failed to record evaluation", "tenant_id", tenantID, "trigger", trigger, "error", err)
	}

	s.hub.Publish(tenantID, sse.Event{
		Event: "recalculation.done",
		Data: map[string]interface{}{
			"trigger":             trigger,
			"employees_processed": evaluation.EmployeesProcessed,
			"days_calculated":     evaluation.DaysCalculated,
			"error_days":          evaluation.ErrorDays,
		},
	})

	return timesheet.RecalculateResponse{
		EmployeesProcessed: evaluation.EmployeesProcessed,
		DaysCalculated:     evaluation.DaysCalculated,
		ErrorDays:          evaluation.ErrorDays,
		Duration:           duration.Round(time.Millisecond).String(),
	}, nil
}

func (s *TimesheetServiceImpl) resolveEmployees(ctx context.Context, tenantID string, employeeIDs []string) ([]employee.Employee, error) {
	if len(employeeIDs) == 0 {
		employees, err := s.employeeRepo.ListActive(ctx, tenantID)
		if err != nil {
			return nil, fmt.Errorf("failed to list active employees: %w", err)
		}
		return employees, nil
	}

	employees := make([]employee.Employee, 0, len(employeeIDs))
	for _, id := range employeeIDs {
		emp, err := s.employeeRepo.GetByID(ctx, tenantID, id)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, nil
}

func (s *TimesheetServiceImpl) loadPlans(ctx context.Context, tenantID string) (map[string]calc.DayPlan, error) {
	plans, err := s.dayPlanRepo.List(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load day plans: %w", err)
	}

	result := make(map[string]calc.DayPlan, len(plans))
	for _, p := range plans {
		result[p.ID] = planToCalc(p)
	}
	return result, nil
}

func planToCalc(p tariff.DayPlan) calc.DayPlan {
	rules := make([]calc.BreakRule, 0, len(p.BreakRules))
	for _, r := range p.BreakRules {
		rules = append(rules, calc.BreakRule{AfterMinutes: r.AfterMinutes, BreakMinutes: r.BreakMinutes})
	}
	return calc.DayPlan{
		TargetMinutes:      p.TargetMinutes,
		FrameStartMinutes:  p.FrameStartMinutes,
		FrameEndMinutes:    p.FrameEndMinutes,
		RoundComeUpMinutes: p.RoundComeUpMinutes,
		RoundGoDownMinutes: p.RoundGoDownMinutes,
		GraceComeMinutes:   p.GraceComeMinutes,
		BreakStartMinutes:  p.BreakStartMinutes,
		BreakEndMinutes:    p.BreakEndMinutes,
		BreakRules:         rules,
	}
}

func (s *TimesheetServiceImpl) loadTariffs(ctx context.Context, tenantID string) (map[string]tariff.Tariff, error) {
	tariffs, err := s.tariffRepo.List(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tariffs: %w", err)
	}

	result := make(map[string]tariff.Tariff, len(tariffs))
	for _, t := range tariffs {
		result[t.ID] = t
	}
	return result, nil
}

func (s *TimesheetServiceImpl) loadHolidays(ctx context.Context, tenantID string, from, to time.Time) (map[string]holiday.Holiday, error) {
	holidays, err := s.holidayRepo.ListRange(ctx, tenantID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load holidays: %w", err)
	}

	result := make(map[string]holiday.Holiday, len(holidays))
	for _, h := range holidays {
		result[dateKey(h.Date)] = h
	}
	return result, nil
}

// recalcEmployee recomputes one employee's daily values in the clamped
// range, then rebuilds the monthly flextime chain forward to the latest
// calculated month. Daily and monthly writes share one transaction.
func (s *TimesheetServiceImpl) recalcEmployee(
	ctx context.Context,
	tenantID string,
	emp employee.Employee,
	from, to time.Time,
	plans map[string]calc.DayPlan,
	tariffs map[string]tariff.Tariff,
	holidays map[string]holiday.Holiday,
) (int, int, error) {
	effFrom, effTo := from, to
	if emp.EntryDate.After(effFrom) {
		effFrom = emp.EntryDate
	}
	if emp.ExitDate != nil && emp.ExitDate.Before(effTo) {
		effTo = *emp.ExitDate
	}

	// Days inside closed months stay frozen.
	lastClosed, err := s.monthlyRepo.GetLastClosedMonth(ctx, tenantID, emp.ID)
	if err != nil {
		return 0, 0, err
	}
	if lastClosed != "" {
		if firstOpen := timesheet.FirstDayAfterMonth(lastClosed); firstOpen.After(effFrom) {
			effFrom = firstOpen
		}
	}

	if effTo.Before(effFrom) {
		return 0, 0, nil
	}

	empTariff, ok := tariffs[emp.TariffID]
	if !ok {
		return 0, 0, fmt.Errorf("employee %s references unknown tariff %s", emp.Code, emp.TariffID)
	}

	bookingsByDay, err := s.loadBookingsByDay(ctx, tenantID, emp.ID, effFrom, effTo)
	if err != nil {
		return 0, 0, err
	}
	absencesByDay, err := s.loadAbsencesByDay(ctx, tenantID, emp.ID, effFrom, effTo)
	if err != nil {
		return 0, 0, err
	}

	now := time.Now()
	var dailyValues []timesheet.DailyValue
	errorDays := 0

	for d := effFrom; !d.After(effTo); d = d.AddDate(0, 0, 1) {
		key := dateKey(d)

		input := calc.DayInput{Date: d}
		if planID := empTariff.PlanIDFor(d.Weekday()); planID != nil {
			if plan, ok := plans[*planID]; ok {
				input.Plan = &plan
			}
		}
		if h, ok := holidays[key]; ok {
			input.Holiday = &calc.Holiday{Name: h.Name, HalfDay: h.HalfDay}
		}
		if a, ok := absencesByDay[key]; ok {
			input.Absence = &calc.Absence{
				TypeCode: a.TypeCode,
				Credit:   calc.CreditClass(a.TypeCredit),
				HalfDay:  a.HalfDay,
			}
		}
		for _, b := range bookingsByDay[key] {
			input.Bookings = append(input.Bookings, calc.Booking{
				Minute:    b.Minute,
				Direction: calc.Direction(b.Direction),
			})
		}

		result := calc.ComputeDay(input)
		if result.HasErrors() {
			errorDays++
		}

		dailyValues = append(dailyValues, dayResultToValue(tenantID, emp.ID, result, now))
	}

	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		// Serializes concurrent recalculations of the same employee across
		// instances; released with the transaction.
		if _, err := tx.Exec(txCtx, "SELECT pg_advisory_xact_lock(hashtext($1), hashtext($2))", tenantID, emp.ID); err != nil {
			return fmt.Errorf("failed to take recalculation lock: %w", err)
		}

		if err := s.dailyRepo.UpsertBatch(txCtx, dailyValues); err != nil {
			return err
		}
		return s.rebuildMonthlyChain(txCtx, tenantID, emp, effFrom, effTo, now)
	})
	if err != nil {
		return 0, 0, err
	}

	return len(dailyValues), errorDays, nil
}

func (s *TimesheetServiceImpl) loadBookingsByDay(ctx context.Context, tenantID, employeeID string, from, to time.Time) (map[string][]booking.Booking, error) {
	bookings, err := s.bookingRepo.ListRange(ctx, tenantID, []string{employeeID}, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings: %w", err)
	}

	result := make(map[string][]booking.Booking)
	for _, b := range bookings {
		key := dateKey(b.Date)
		result[key] = append(result[key], b)
	}
	return result, nil
}

func (s *TimesheetServiceImpl) loadAbsencesByDay(ctx context.Context, tenantID, employeeID string, from, to time.Time) (map[string]absence.Absence, error) {
	absences, err := s.absenceRepo.ListRange(ctx, tenantID, []string{employeeID}, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load absences: %w", err)
	}

	result := make(map[string]absence.Absence)
	for _, a := range absences {
		for d := a.FromDate; !d.After(a.ToDate); d = d.AddDate(0, 0, 1) {
			if d.Before(from) || d.After(to) {
				continue
			}
			result[dateKey(d)] = a
		}
	}
	return result, nil
}

func dayResultToValue(tenantID, employeeID string, r calc.DayResult, calculatedAt time.Time) timesheet.DailyValue {
	value := timesheet.DailyValue{
		TenantID:              tenantID,
		EmployeeID:            employeeID,
		Date:                  r.Date,
		TargetMinutes:         r.TargetMinutes,
		GrossMinutes:          r.GrossMinutes,
		BreakMinutes:          r.BreakMinutes,
		PresenceMinutes:       r.PresenceMinutes,
		CreditMinutes:         r.CreditMinutes,
		NetMinutes:            r.NetMinutes,
		OvertimeMinutes:       r.OvertimeMinutes,
		UndertimeMinutes:      r.UndertimeMinutes,
		FlextimeChangeMinutes: r.FlextimeChangeMinutes,
		Codes:                 r.Codes,
		CalculatedAt:          calculatedAt,
	}
	if r.AbsenceCode != "" {
		value.AbsenceCode = &r.AbsenceCode
	}
	if r.HolidayName != "" {
		value.HolidayName = &r.HolidayName
	}
	return value
}

// rebuildMonthlyChain re-aggregates every month from the first recomputed
// one forward to the employee's latest calculated month, carrying the
// flextime balance from month end to month start. Stored adjustments are
// preserved.
func (s *TimesheetServiceImpl) rebuildMonthlyChain(ctx context.Context, tenantID string, emp employee.Employee, from, to time.Time, now time.Time) error {
	startMonth := timesheet.MonthKey(from)
	endMonth := timesheet.MonthKey(to)

	lastMonth, err := s.monthlyRepo.GetLastMonth(ctx, tenantID, emp.ID)
	if err != nil {
		return err
	}
	if lastMonth > endMonth {
		endMonth = lastMonth
	}

	opening := emp.InitialFlextime
	prev, err := s.monthlyRepo.Get(ctx, tenantID, emp.ID, timesheet.PrevMonthKey(startMonth))
	if err == nil {
		opening = prev.FlextimeEndMinutes
	} else if err != timesheet.ErrMonthlyValueNotFound {
		return err
	}

	for month := startMonth; month <= endMonth; month = timesheet.NextMonthKey(month) {
		monthStart, monthEnd := timesheet.MonthBounds(month)

		stored, err := s.dailyRepo.ListRange(ctx, tenantID, emp.ID, monthStart, monthEnd)
		if err != nil {
			return err
		}
		days := make([]calc.DayResult, 0, len(stored))
		for _, v := range stored {
			days = append(days, calc.DayResult{
				TargetMinutes:         v.TargetMinutes,
				GrossMinutes:          v.GrossMinutes,
				BreakMinutes:          v.BreakMinutes,
				PresenceMinutes:       v.PresenceMinutes,
				CreditMinutes:         v.CreditMinutes,
				NetMinutes:            v.NetMinutes,
				OvertimeMinutes:       v.OvertimeMinutes,
				UndertimeMinutes:      v.UndertimeMinutes,
				FlextimeChangeMinutes: v.FlextimeChangeMinutes,
				Codes:                 v.Codes,
			})
		}

		adjustment := 0
		existing, err := s.monthlyRepo.Get(ctx, tenantID, emp.ID, month)
		if err == nil {
			adjustment = existing.FlextimeAdjustmentMinutes
		} else if err != timesheet.ErrMonthlyValueNotFound {
			return err
		}

		result := calc.ComputeMonth(opening, adjustment, days)

		err = s.monthlyRepo.Upsert(ctx, timesheet.MonthlyValue{
			TenantID:                  tenantID,
			EmployeeID:                emp.ID,
			Month:                     month,
			TargetMinutes:             result.TargetMinutes,
			GrossMinutes:              result.GrossMinutes,
			BreakMinutes:              result.BreakMinutes,
			PresenceMinutes:           result.PresenceMinutes,
			CreditMinutes:             result.CreditMinutes,
			NetMinutes:                result.NetMinutes,
			OvertimeMinutes:           result.OvertimeMinutes,
			UndertimeMinutes:          result.UndertimeMinutes,
			FlextimeStartMinutes:      result.FlextimeStartMinutes,
			FlextimeChangeMinutes:     result.FlextimeChangeMinutes,
			FlextimeAdjustmentMinutes: result.FlextimeAdjustmentMinutes,
			FlextimeEndMinutes:        result.FlextimeEndMinutes,
			ErrorDays:                 result.ErrorDays,
			CalculatedAt:              now,
		})
		if err != nil {
			return err
		}

		opening = result.FlextimeEndMinutes
	}

	return nil
}

// GetTimesheet implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) GetTimesheet(ctx context.Context, employeeID, month string) (timesheet.TimesheetResponse, error) {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return timesheet.TimesheetResponse{}, err
	}

	if _, valid := validator.IsValidMonth(month); !valid {
		return timesheet.TimesheetResponse{}, validator.ValidationErrors{{Field: "month", Message: "month must be in YYYY-MM format"}}
	}

	emp, err := s.employeeRepo.GetByID(ctx, tenantID, employeeID)
	if err != nil {
		return timesheet.TimesheetResponse{}, err
	}

	monthStart, monthEnd := timesheet.MonthBounds(month)

	stored, err := s.dailyRepo.ListRange(ctx, tenantID, emp.ID, monthStart, monthEnd)
	if err != nil {
		return timesheet.TimesheetResponse{}, err
	}
	byDay := make(map[string]timesheet.DailyValue, len(stored))
	for _, v := range stored {
		byDay[dateKey(v.Date)] = v
	}

	bookingsByDay, err := s.loadBookingsByDay(ctx, tenantID, emp.ID, monthStart, monthEnd)
	if err != nil {
		return timesheet.TimesheetResponse{}, err
	}

	var days []timesheet.DayResponse
	for d := monthStart; !d.After(monthEnd); d = d.AddDate(0, 0, 1) {
		key := dateKey(d)

		row := timesheet.DayResponse{
			Date:     key,
			Weekday:  d.Weekday().String(),
			Codes:    []string{},
			Bookings: []timesheet.DayBooking{},
		}
		if v, ok := byDay[key]; ok {
			row.TargetMinutes = v.TargetMinutes
			row.GrossMinutes = v.GrossMinutes
			row.BreakMinutes = v.BreakMinutes
			row.PresenceMinutes = v.PresenceMinutes
			row.CreditMinutes = v.CreditMinutes
			row.NetMinutes = v.NetMinutes
			row.OvertimeMinutes = v.OvertimeMinutes
			row.UndertimeMinutes = v.UndertimeMinutes
			row.FlextimeChangeMinutes = v.FlextimeChangeMinutes
			if len(v.Codes) > 0 {
				row.Codes = v.Codes
			}
			row.AbsenceCode = v.AbsenceCode
			row.HolidayName = v.HolidayName
		}
		for _, b := range bookingsByDay[key] {
			row.Bookings = append(row.Bookings, timesheet.DayBooking{
				ID:        b.ID,
				Time:      b.TimeOfDay(),
				Direction: string(b.Direction),
				Origin:    string(b.Origin),
			})
		}

		days = append(days, row)
	}

	var summary *timesheet.MonthSummary
	value, err := s.monthlyRepo.Get(ctx, tenantID, emp.ID, month)
	if err == nil {
		mapped := mapMonthSummary(value)
		summary = &mapped
	} else if err != timesheet.ErrMonthlyValueNotFound {
		return timesheet.TimesheetResponse{}, err
	}

	return timesheet.TimesheetResponse{
		EmployeeID:   emp.ID,
		EmployeeName: emp.FullName(),
		Month:        month,
		Days:         days,
		Summary:      summary,
	}, nil
}

func mapMonthSummary(v timesheet.MonthlyValue) timesheet.MonthSummary {
	summary := timesheet.MonthSummary{
		TargetMinutes:             v.TargetMinutes,
		GrossMinutes:              v.GrossMinutes,
		BreakMinutes:              v.BreakMinutes,
		PresenceMinutes:           v.PresenceMinutes,
		CreditMinutes:             v.CreditMinutes,
		NetMinutes:                v.NetMinutes,
		OvertimeMinutes:           v.OvertimeMinutes,
		UndertimeMinutes:          v.UndertimeMinutes,
		FlextimeStartMinutes:      v.FlextimeStartMinutes,
		FlextimeChangeMinutes:     v.FlextimeChangeMinutes,
		FlextimeAdjustmentMinutes: v.FlextimeAdjustmentMinutes,
		FlextimeEndMinutes:        v.FlextimeEndMinutes,
		ErrorDays:                 v.ErrorDays,
		Closed:                    v.Closed,
		ClosedBy:                  v.ClosedBy,
		ClosedReason:              v.ClosedReason,
	}
	if v.ClosedAt != nil {
		closedAt := v.ClosedAt.Format(time.RFC3339)
		summary.ClosedAt = &closedAt
	}
	return summary
}

// ListMonthlyValues implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) ListMonthlyValues(ctx context.Context, month string) ([]timesheet.MonthlyValueResponse, error) {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if _, valid := validator.IsValidMonth(month); !valid {
		return nil, validator.ValidationErrors{{Field: "month", Message: "month must be in YYYY-MM format"}}
	}

	values, err := s.monthlyRepo.ListByMonth(ctx, tenantID, month)
	if err != nil {
		return nil, err
	}

	responses := make([]timesheet.MonthlyValueResponse, 0, len(values))
	for _, v := range values {
		responses = append(responses, timesheet.MonthlyValueResponse{
			EmployeeID:   v.EmployeeID,
			EmployeeCode: v.EmployeeCode,
			EmployeeName: v.EmployeeName,
			Month:        v.Month,
			MonthSummary: mapMonthSummary(v),
		})
	}

	return responses, nil
}

// CloseMonth implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) CloseMonth(ctx context.Context, req timesheet.CloseMonthRequest) (timesheet.CloseMonthResponse, error) {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return timesheet.CloseMonthResponse{}, err
	}
	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return timesheet.CloseMonthResponse{}, err
	}

	if err := req.Validate(); err != nil {
		return timesheet.CloseMonthResponse{}, err
	}

	employees, err := s.resolveEmployees(ctx, tenantID, req.EmployeeIDs)
	if err != nil {
		return timesheet.CloseMonthResponse{}, err
	}

	var closable []employee.Employee
	var skipped []timesheet.SkippedEmployee
	skip := func(emp employee.Employee, reason string) {
		skipped = append(skipped, timesheet.SkippedEmployee{
			EmployeeID:   emp.ID,
			EmployeeName: emp.FullName(),
			Reason:       reason,
		})
	}

	for _, emp := range employees {
		value, err := s.monthlyRepo.Get(ctx, tenantID, emp.ID, req.Month)
		if err == timesheet.ErrMonthlyValueNotFound {
			skip(emp, "month has not been calculated")
			continue
		}
		if err != nil {
			return timesheet.CloseMonthResponse{}, err
		}
		if value.Closed {
			skip(emp, timesheet.ErrMonthAlreadyClosed.Error())
			continue
		}

		// The previous month must be closed first so that closures stay
		// contiguous. A missing previous value means nothing was ever
		// calculated before this month.
		prev, err := s.monthlyRepo.Get(ctx, tenantID, emp.ID, timesheet.PrevMonthKey(req.Month))
		if err == nil && !prev.Closed {
			skip(emp, timesheet.ErrPreviousMonthOpen.Error())
			continue
		}
		if err != nil && err != timesheet.ErrMonthlyValueNotFound {
			return timesheet.CloseMonthResponse{}, err
		}

		if value.ErrorDays > 0 && !req.Force {
			skip(emp, fmt.Sprintf("%s (%d)", timesheet.ErrMonthHasErrorDays.Error(), value.ErrorDays))
			continue
		}

		closable = append(closable, emp)
	}

	if len(closable) > 0 {
		err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
			txCtx := context.WithValue(ctx, "tx", tx)
			for _, emp := range closable {
				if err := s.monthlyRepo.SetClosed(txCtx, tenantID, emp.ID, req.Month, actor.Email, req.Reason); err != nil {
					return fmt.Errorf("failed to close month for employee %s: %w", emp.Code, err)
				}
			}
			return nil
		})
		if err != nil {
			return timesheet.CloseMonthResponse{}, err
		}
	}

	s.auditor.Record(ctx, audit.Event{
		TenantID:   tenantID,
		Action:     "month.close",
		EntityType: "monthly_value",
		Detail: map[string]interface{}{
			"month":     req.Month,
			"processed": len(closable),
			"skipped":   len(skipped),
			"force":     req.Force,
			"reason":    req.Reason,
		},
	})

	if len(closable) > 0 {
		s.notifyMonthClosed(ctx, tenantID, req.Month, len(closable), actor.Email, req.Reason)
		s.hub.Publish(tenantID, sse.Event{
			Event: "month.closed",
			Data: map[string]interface{}{
				"month":     req.Month,
				"processed": len(closable),
			},
		})
	}

	if skipped == nil {
		skipped = []timesheet.SkippedEmployee{}
	}
	return timesheet.CloseMonthResponse{
		Month:     req.Month,
		Processed: len(closable),
		Skipped:   skipped,
	}, nil
}

func (s *TimesheetServiceImpl) notifyMonthClosed(ctx context.Context, tenantID, month string, employeeCount int, closedBy, reason string) {
	t, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		slog.Error("failed to load tenant for close notification", "tenant_id", tenantID, "error", err)
		return
	}
	if t.NotifyEmail == nil {
		return
	}
	if err := s.mailer.SendMonthClosed(ctx, *t.NotifyEmail, t.Name, month, employeeCount, closedBy, reason); err != nil {
		slog.Error("failed to send month closed mail", "tenant_id", tenantID, "month", month, "error", err)
	}
}

// ReopenMonth implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) ReopenMonth(ctx context.Context, req timesheet.ReopenMonthRequest) (timesheet.CloseMonthResponse, error) {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return timesheet.CloseMonthResponse{}, err
	}
	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return timesheet.CloseMonthResponse{}, err
	}

	if err := req.Validate(); err != nil {
		return timesheet.CloseMonthResponse{}, err
	}

	explicit := len(req.EmployeeIDs) > 0
	employees, err := s.resolveEmployees(ctx, tenantID, req.EmployeeIDs)
	if err != nil {
		return timesheet.CloseMonthResponse{}, err
	}

	var reopenable []employee.Employee
	var skipped []timesheet.SkippedEmployee
	skip := func(emp employee.Employee, reason string) {
		if !explicit {
			return
		}
		skipped = append(skipped, timesheet.SkippedEmployee{
			EmployeeID:   emp.ID,
			EmployeeName: emp.FullName(),
			Reason:       reason,
		})
	}

	for _, emp := range employees {
		value, err := s.monthlyRepo.Get(ctx, tenantID, emp.ID, req.Month)
		if err == timesheet.ErrMonthlyValueNotFound {
			skip(emp, "month has not been calculated")
			continue
		}
		if err != nil {
			return timesheet.CloseMonthResponse{}, err
		}
		if !value.Closed {
			skip(emp, timesheet.ErrMonthNotClosed.Error())
			continue
		}

		// Only the latest closed month can be reopened, otherwise the
		// flextime chain would change underneath later closed months.
		laterClosed, err := s.monthlyRepo.ExistsClosedAfter(ctx, tenantID, emp.ID, req.Month)
		if err != nil {
			return timesheet.CloseMonthResponse{}, err
		}
		if laterClosed {
			skip(emp, timesheet.ErrLaterMonthClosed.Error())
			continue
		}

		reopenable = append(reopenable, emp)
	}

	if len(reopenable) > 0 {
		err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
			txCtx := context.WithValue(ctx, "tx", tx)
			for _, emp := range reopenable {
				if err := s.monthlyRepo.SetReopened(txCtx, tenantID, emp.ID, req.Month); err != nil {
					return fmt.Errorf("failed to reopen month for employee %s: %w", emp.Code, err)
				}
			}
			return nil
		})
		if err != nil {
			return timesheet.CloseMonthResponse{}, err
		}
	}

	s.auditor.Record(ctx, audit.Event{
		TenantID:   tenantID,
		Action:     "month.reopen",
		EntityType: "monthly_value",
		Detail: map[string]interface{}{
			"month":     req.Month,
			"processed": len(reopenable),
			"reason":    req.Reason,
		},
	})

	if len(reopenable) > 0 {
		s.notifyMonthReopened(ctx, tenantID, req.Month, req.Reason, actor.Email)
		s.hub.Publish(tenantID, sse.Event{
			Event: "month.reopened",
			Data: map[string]interface{}{
				"month":     req.Month,
				"processed": len(reopenable),
			},
		})
	}

	if skipped == nil {
		skipped = []timesheet.SkippedEmployee{}
	}
	return timesheet.CloseMonthResponse{
		Month:     req.Month,
		Processed: len(reopenable),
		Skipped:   skipped,
	}, nil
}

func (s *TimesheetServiceImpl) notifyMonthReopened(ctx context.Context, tenantID, month, reason, reopenedBy string) {
	t, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		slog.Error("failed to load tenant for reopen notification", "tenant_id", tenantID, "error", err)
		return
	}
	if t.NotifyEmail == nil {
		return
	}
	if err := s.mailer.SendMonthReopened(ctx, *t.NotifyEmail, t.Name, month, reason, reopenedBy); err != nil {
		slog.Error("failed to send month reopened mail", "tenant_id", tenantID, "month", month, "error", err)
	}
}
