package absence

import (
	"context"
	"log/slog"
	"time"

	"github.com/zmi-time/zmi-backend-go/internal/domain/absence"
	"github.com/zmi-time/zmi-backend-go/internal/domain/audit"
	"github.com/zmi-time/zmi-backend-go/internal/domain/auth"
	"github.com/zmi-time/zmi-backend-go/internal/domain/employee"
	"github.com/zmi-time/zmi-backend-go/internal/domain/timesheet"
	"github.com/zmi-time/zmi-backend-go/internal/pkg/validator"
)

type AbsenceServiceImpl struct {
	typeRepo     absence.TypeRepository
	absenceRepo  absence.Repository
	employeeRepo employee.EmployeeRepository
	monthlyRepo  timesheet.MonthlyValueRepository
	recalc       timesheet.Recalculator
	auditor      audit.Recorder
}

func NewAbsenceService(
	typeRepo absence.TypeRepository,
	absenceRepo absence.Repository,
	employeeRepo employee.EmployeeRepository,
	monthlyRepo timesheet.MonthlyValueRepository,
	recalc timesheet.Recalculator,
	auditor audit.Recorder,
) absence.AbsenceService {
	return &AbsenceServiceImpl{
		typeRepo:     typeRepo,
		absenceRepo:  absenceRepo,
		employeeRepo: employeeRepo,
		monthlyRepo:  monthlyRepo,
		recalc:       recalc,
		auditor:      auditor,
	}
}

func mapTypeToResponse(t absence.AbsenceType) absence.TypeResponse {
	return absence.TypeResponse{
		ID:        t.ID,
		Code:      t.Code,
		Name:      t.Name,
		Category:  string(t.Category),
		Credit:    string(t.Credit),
		Paid:      t.Paid,
		CreatedAt: t.CreatedAt.Format(time.RFC3339),
		UpdatedAt: t.UpdatedAt.Format(time.RFC3339),
	}
}

func mapAbsenceToResponse(a absence.Absence) absence.AbsenceResponse {
	return absence.AbsenceResponse{
		ID:         a.ID,
		EmployeeID: a.EmployeeID,
		TypeID:     a.TypeID,
		TypeCode:   a.TypeCode,
		FromDate:   a.FromDate.Format("2006-01-02"),
		ToDate:     a.ToDate.Format("2006-01-02"),
		HalfDay:    a.HalfDay,
		Note:       a.Note,
		CreatedAt:  a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  a.UpdatedAt.Format(time.RFC3339),
	}
}

// CreateType implements absence.AbsenceService.
func (s *AbsenceServiceImpl) CreateType(ctx context.Context, req absence.CreateTypeRequest) (absence.TypeResponse, error) {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return absence.TypeResponse{}, err
	}

	if err := req.Validate(); err != nil {
		return absence.TypeResponse{}, err
	}

	exists, err := s.typeRepo.ExistsByCode(ctx, tenantID, req.Code)
	if err != nil {
		return absence.TypeResponse{}, err
	}
	if exists {
		return absence.TypeResponse{}, absence.ErrTypeCodeExists
	}

	created, err := s.typeRepo.Create(ctx, absence.AbsenceType{
		TenantID: tenantID,
		Code:     req.Code,
		Name:     req.Name,
		Category: absence.Category(req.Category),
		Credit:   absence.Credit(req.Credit),
		Paid:     req.Paid,
	})
	if err != nil {
		return absence.TypeResponse{}, err
	}

	s.auditor.Record(ctx, audit.Event{
		TenantID:   tenantID,
		Action:     "absence_type.create",
		EntityType: "absence_type",
		EntityID:   &created.ID,
		Detail:     map[string]interface{}{"code": created.Code, "name": created.Name},
	})

	return mapTypeToResponse(created), nil
}

// ListTypes implements absence.AbsenceService.
func (s *AbsenceServiceImpl) ListTypes(ctx context.Context) ([]absence.TypeResponse, error) {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	types, err := s.typeRepo.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	responses := make([]absence.TypeResponse, 0, len(types))
	for _, t := range types {
		responses = append(responses, mapTypeToResponse(t))
	}
	return responses, nil
}

// UpdateType implements absence.AbsenceService.
func (s *AbsenceServiceImpl) UpdateType(ctx context.Context, req absence.UpdateTypeRequest) (absence.TypeResponse, error) {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return absence.TypeResponse{}, err
	}

	if err := req.Validate(); err != nil {
		return absence.TypeResponse{}, err
	}

	existing, err := s.typeRepo.GetByID(ctx, tenantID, req.ID)
	if err != nil {
		return absence.TypeResponse{}, err
	}

	if req.Code != nil && *req.Code != existing.Code {
		return absence.TypeResponse{}, validator.ValidationErrors{
			{Field: "code", Message: "code is immutable and cannot be changed"},
		}
	}

	if err := s.typeRepo.Update(ctx, tenantID, req); err != nil {
		return absence.TypeResponse{}, err
	}

	updated, err := s.typeRepo.GetByID(ctx, tenantID, req.ID)
	if err != nil {
		return absence.TypeResponse{}, err
	}

	s.auditor.Record(ctx, audit.Event{
		TenantID:   tenantID,
		Action:     "absence_type.update",
		EntityType: "absence_type",
		EntityID:   &updated.ID,
		Detail:     map[string]interface{}{"code": updated.Code, "name": updated.Name},
	})

	return mapTypeToResponse(updated), nil
}

// DeleteType implements absence.AbsenceService.
func (s *AbsenceServiceImpl) DeleteType(ctx context.Context, id string) error {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return err
	}

	existing, err := s.typeRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return err
	}

	count, err := s.typeRepo.CountAbsences(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return absence.ErrTypeInUse
	}

	if err := s.typeRepo.Delete(ctx, tenantID, id); err != nil {
		return err
	}

	s.auditor.Record(ctx, audit.Event{
		TenantID:   tenantID,
		Action:     "absence_type.delete",
		EntityType: "absence_type",
		EntityID:   &id,
		Detail:     map[string]interface{}{"code": existing.Code},
	})

	return nil
}

// triggerRecalc asks for a recalculation of the affected days. Failures do
// not fail the absence write, the nightly run catches up.
func (s *AbsenceServiceImpl) triggerRecalc(ctx context.Context, tenantID, employeeID string, from, to time.Time) {
	if err := s.recalc.TriggerRecalculation(ctx, tenantID, audit.TriggerAbsence, []string{employeeID}, from, to); err != nil {
		slog.Warn("absence recalculation deferred",
			"tenant_id", tenantID, "employee_id", employeeID, "error", err)
	}
}

// checkMonthOpen rejects writes into a closed month. Closed months form a
// contiguous prefix per employee, so checking the first touched month
// covers the whole range.
func (s *AbsenceServiceImpl) checkMonthOpen(ctx context.Context, tenantID, employeeID string, date time.Time) error {
	closed, err := s.monthlyRepo.IsClosed(ctx, tenantID, employeeID, timesheet.MonthKey(date))
	if err != nil {
		return err
	}
	if closed {
		return timesheet.ErrMonthClosed
	}
	return nil
}

// Create implements absence.AbsenceService.
func (s *AbsenceServiceImpl) Create(ctx context.Context, req absence.CreateAbsenceRequest) (absence.AbsenceResponse, error) {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return absence.AbsenceResponse{}, err
	}

	if err := req.Validate(); err != nil {
		return absence.AbsenceResponse{}, err
	}
	from, _ := time.Parse("2006-01-02", req.FromDate)
	to, _ := time.Parse("2006-01-02", req.ToDate)

	emp, err := s.employeeRepo.GetByID(ctx, tenantID, req.EmployeeID)
	if err != nil {
		return absence.AbsenceResponse{}, err
	}
	if _, err := s.typeRepo.GetByID(ctx, tenantID, req.TypeID); err != nil {
		return absence.AbsenceResponse{}, err
	}

	if err := s.checkMonthOpen(ctx, tenantID, emp.ID, from); err != nil {
		return absence.AbsenceResponse{}, err
	}

	overlap, err := s.absenceRepo.ExistsOverlap(ctx, tenantID, emp.ID, from, to, nil)
	if err != nil {
		return absence.AbsenceResponse{}, err
	}
	if overlap {
		return absence.AbsenceResponse{}, absence.ErrAbsenceOverlap
	}

	created, err := s.absenceRepo.Create(ctx, absence.Absence{
		TenantID:   tenantID,
		EmployeeID: emp.ID,
		TypeID:     req.TypeID,
		FromDate:   from,
		ToDate:     to,
		HalfDay:    req.HalfDay,
		Note:       req.Note,
	})
	if err != nil {
		return absence.AbsenceResponse{}, err
	}

	s.auditor.Record(ctx, audit.Event{
		TenantID:   tenantID,
		Action:     "absence.create",
		EntityType: "absence",
		EntityID:   &created.ID,
		Detail: map[string]interface{}{
			"employee_id": emp.ID,
			"type_code":   created.TypeCode,
			"from_date":   req.FromDate,
			"to_date":     req.ToDate,
		},
	})

	s.triggerRecalc(ctx, tenantID, emp.ID, from, to)

	return mapAbsenceToResponse(created), nil
}

// List implements absence.AbsenceService.
func (s *AbsenceServiceImpl) List(ctx context.Context, filter absence.AbsenceFilter) ([]absence.AbsenceResponse, error) {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if err := filter.Validate(); err != nil {
		return nil, err
	}

	absences, err := s.absenceRepo.List(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]absence.AbsenceResponse, 0, len(absences))
	for _, a := range absences {
		responses = append(responses, mapAbsenceToResponse(a))
	}
	return responses, nil
}

// Update implements absence.AbsenceService.
func (s *AbsenceServiceImpl) Update(ctx context.Context, req absence.UpdateAbsenceRequest) (absence.AbsenceResponse, error) {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return absence.AbsenceResponse{}, err
	}

	if err := req.Validate(); err != nil {
		return absence.AbsenceResponse{}, err
	}

	existing, err := s.absenceRepo.GetByID(ctx, tenantID, req.ID)
	if err != nil {
		return absence.AbsenceResponse{}, err
	}

	newFrom := existing.FromDate
	if req.FromDate != nil {
		newFrom, _ = time.Parse("2006-01-02", *req.FromDate)
	}
	newTo := existing.ToDate
	if req.ToDate != nil {
		newTo, _ = time.Parse("2006-01-02", *req.ToDate)
	}
	newHalfDay := existing.HalfDay
	if req.HalfDay != nil {
		newHalfDay = *req.HalfDay
	}

	var errs validator.ValidationErrors
	if newTo.Before(newFrom) {
		errs = append(errs, validator.ValidationError{
			Field:   "to_date",
			Message: "to_date must not be before from_date",
		})
	} else if newHalfDay && !newFrom.Equal(newTo) {
		errs = append(errs, validator.ValidationError{
			Field:   "half_day",
			Message: "half_day is only valid for a single day absence",
		})
	}
	if len(errs) > 0 {
		return absence.AbsenceResponse{}, errs
	}

	if req.TypeID != nil {
		if _, err := s.typeRepo.GetByID(ctx, tenantID, *req.TypeID); err != nil {
			return absence.AbsenceResponse{}, err
		}
	}

	// Both the stored range and the new range must start in an open month.
	if err := s.checkMonthOpen(ctx, tenantID, existing.EmployeeID, existing.FromDate); err != nil {
		return absence.AbsenceResponse{}, err
	}
	if err := s.checkMonthOpen(ctx, tenantID, existing.EmployeeID, newFrom); err != nil {
		return absence.AbsenceResponse{}, err
	}

	overlap, err := s.absenceRepo.ExistsOverlap(ctx, tenantID, existing.EmployeeID, newFrom, newTo, &existing.ID)
	if err != nil {
		return absence.AbsenceResponse{}, err
	}
	if overlap {
		return absence.AbsenceResponse{}, absence.ErrAbsenceOverlap
	}

	if err := s.absenceRepo.Update(ctx, tenantID, req); err != nil {
		return absence.AbsenceResponse{}, err
	}

	updated, err := s.absenceRepo.GetByID(ctx, tenantID, req.ID)
	if err != nil {
		return absence.AbsenceResponse{}, err
	}

	s.auditor.Record(ctx, audit.Event{
		TenantID:   tenantID,
		Action:     "absence.update",
		EntityType: "absence",
		EntityID:   &updated.ID,
		Detail: map[string]interface{}{
			"employee_id": updated.EmployeeID,
			"type_code":   updated.TypeCode,
			"from_date":   updated.FromDate.Format("2006-01-02"),
			"to_date":     updated.ToDate.Format("2006-01-02"),
		},
	})

	from, to := existing.FromDate, existing.ToDate
	if newFrom.Before(from) {
		from = newFrom
	}
	if newTo.After(to) {
		to = newTo
	}
	s.triggerRecalc(ctx, tenantID, existing.EmployeeID, from, to)

	return mapAbsenceToResponse(updated), nil
}

// Delete implements absence.AbsenceService.
func (s *AbsenceServiceImpl) Delete(ctx context.Context, id string) error {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return err
	}

	existing, err := s.absenceRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return err
	}

	if err := s.checkMonthOpen(ctx, tenantID, existing.EmployeeID, existing.FromDate); err != nil {
		return err
	}

	if err := s.absenceRepo.Delete(ctx, tenantID, id); err != nil {
		return err
	}

	s.auditor.Record(ctx, audit.Event{
		TenantID:   tenantID,
		Action:     "absence.delete",
		EntityType: "absence",
		EntityID:   &id,
		Detail: map[string]interface{}{
			"employee_id": existing.EmployeeID,
			"type_code":   existing.TypeCode,
			"from_date":   existing.FromDate.Format("2006-01-02"),
			"to_date":     existing.ToDate.Format("2006-01-02"),
		},
	})

	s.triggerRecalc(ctx, tenantID, existing.EmployeeID, existing.FromDate, existing.ToDate)

	return nil
}
