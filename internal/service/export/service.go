package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/zmi-time/zmi-backend-go/internal/domain/absence"
	"github.com/zmi-time/zmi-backend-go/internal/domain/audit"
	"github.com/zmi-time/zmi-backend-go/internal/domain/auth"
	"github.com/zmi-time/zmi-backend-go/internal/domain/employee"
	"github.com/zmi-time/zmi-backend-go/internal/domain/export"
	"github.com/zmi-time/zmi-backend-go/internal/domain/tenant"
	"github.com/zmi-time/zmi-backend-go/internal/domain/timesheet"
	"github.com/zmi-time/zmi-backend-go/internal/pkg/mailer"
	"github.com/zmi-time/zmi-backend-go/internal/pkg/storage"
)

type ExportServiceImpl struct {
	accountRepo   export.AccountRepository
	interfaceRepo export.InterfaceRepository
	runRepo       export.RunRepository
	monthlyRepo   timesheet.MonthlyValueRepository
	absenceRepo   absence.Repository
	typeRepo      absence.TypeRepository
	employeeRepo  employee.EmployeeRepository
	tenantRepo    tenant.TenantRepository
	timesheetSvc  timesheet.TimesheetService
	files         storage.FileStorage
	mailer        mailer.Mailer
	auditor       audit.Recorder
}

func NewExportService(
	accountRepo export.AccountRepository,
	interfaceRepo export.InterfaceRepository,
	runRepo export.RunRepository,
	monthlyRepo timesheet.MonthlyValueRepository,
	absenceRepo absence.Repository,
	typeRepo absence.TypeRepository,
	employeeRepo employee.EmployeeRepository,
	tenantRepo tenant.TenantRepository,
	timesheetSvc timesheet.TimesheetService,
	files storage.FileStorage,
	m mailer.Mailer,
	auditor audit.Recorder,
) export.ExportService {
	return &ExportServiceImpl{
		accountRepo:   accountRepo,
		interfaceRepo: interfaceRepo,
		runRepo:       runRepo,
		monthlyRepo:   monthlyRepo,
		absenceRepo:   absenceRepo,
		typeRepo:      typeRepo,
		employeeRepo:  employeeRepo,
		tenantRepo:    tenantRepo,
		timesheetSvc:  timesheetSvc,
		files:         files,
		mailer:        m,
		auditor:       auditor,
	}
}

func mapAccountToResponse(a export.Account) export.AccountResponse {
	return export.AccountResponse{
		ID:        a.ID,
		Number:    a.Number,
		Name:      a.Name,
		Source:    a.Source,
		Unit:      a.Unit,
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
		UpdatedAt: a.UpdatedAt.Format(time.RFC3339),
	}
}

func mapInterfaceToResponse(i export.Interface) export.InterfaceResponse {
	assignments := make([]export.AssignmentResponse, 0, len(i.Assignments))
	for _, a := range i.Assignments {
		assignments = append(assignments, export.AssignmentResponse{
			ID:            a.ID,
			AccountID:     a.AccountID,
			AccountNumber: a.AccountNumber,
			AccountName:   a.AccountName,
			Source:        a.Source,
			Unit:          a.Unit,
			Position:      a.Position,
		})
	}
	return export.InterfaceResponse{
		ID:          i.ID,
		Name:        i.Name,
		Assignments: assignments,
		CreatedAt:   i.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   i.UpdatedAt.Format(time.RFC3339),
	}
}

func mapRunToResponse(r export.Run) export.RunResponse {
	return export.RunResponse{
		ID:            r.ID,
		InterfaceID:   r.InterfaceID,
		InterfaceName: r.InterfaceName,
		Month:         r.Month,
		FileName:      r.FileName,
		LineCount:     r.LineCount,
		RanBy:         r.RanBy,
		RanAt:         r.RanAt.Format(time.RFC3339),
	}
}

// minutesToHours renders a minute count as decimal hours, e.g. 90 -> 1.50.
func minutesToHours(minutes int) string {
	return decimal.NewFromInt(int64(minutes)).Div(decimal.NewFromInt(60)).StringFixed(2)
}

// halfDayUnitsToDays renders a day count held in half day units, so a half
// day absence shows as 0.50.
func halfDayUnitsToDays(units int) string {
	return decimal.NewFromInt(int64(units)).Div(decimal.NewFromInt(2)).StringFixed(2)
}

// CreateAccount implements export.ExportService.
func (s *ExportServiceImpl) CreateAccount(ctx context.Context, req export.CreateAccountRequest) (export.AccountResponse, error) {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return export.AccountResponse{}, err
	}

	if err := req.Validate(); err != nil {
		return export.AccountResponse{}, err
	}

	exists, err := s.accountRepo.ExistsByNumber(ctx, tenantID, req.Number, nil)
	if err != nil {
		return export.AccountResponse{}, err
	}
	if exists {
		return export.AccountResponse{}, export.ErrAccountNumberExists
	}

	created, err := s.accountRepo.Create(ctx, export.Account{
		TenantID: tenantID,
		Number:   req.Number,
		Name:     req.Name,
		Source:   req.Source,
		Unit:     req.Unit,
	})
	if err != nil {
		return export.AccountResponse{}, err
	}

	s.auditor.Record(ctx, audit.Event{
		TenantID:   tenantID,
		Action:     "account.create",
		EntityType: "account",
		EntityID:   &created.ID,
		Detail:     map[string]interface{}{"number": created.Number, "name": created.Name},
	})

	return mapAccountToResponse(created), nil
}

// ListAccounts implements export.ExportService.
func (s *ExportServiceImpl) ListAccounts(ctx context.Context) ([]export.AccountResponse, error) {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	accounts, err := s.accountRepo.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	responses := make([]export.AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		responses = append(responses, mapAccountToResponse(a))
	}
	return responses, nil
}

// UpdateAccount implements export.ExportService.
func (s *ExportServiceImpl) UpdateAccount(ctx context.Context, req export.UpdateAccountRequest) (export.AccountResponse, error) {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return export.AccountResponse{}, err
	}

	if err := req.Validate(); err != nil {
		return export.AccountResponse{}, err
	}

	if _, err := s.accountRepo.GetByID(ctx, tenantID, req.ID); err != nil {
		return export.AccountResponse{}, err
	}

	if req.Number != nil {
		exists, err := s.accountRepo.ExistsByNumber(ctx, tenantID, *req.Number, &req.ID)
		if err != nil {
			return export.AccountResponse{}, err
		}
		if exists {
			return export.AccountResponse{}, export.ErrAccountNumberExists
		}
	}

	if err := s.accountRepo.Update(ctx, tenantID, req); err != nil {
		return export.AccountResponse{}, err
	}

	updated, err := s.accountRepo.GetByID(ctx, tenantID, req.ID)
	if err != nil {
		return export.AccountResponse{}, err
	}

	s.auditor.Record(ctx, audit.Event{
		TenantID:   tenantID,
		Action:     "account.update",
		EntityType: "account",
		EntityID:   &updated.ID,
		Detail:     map[string]interface{}{"number": updated.Number, "name": updated.Name},
	})

	return mapAccountToResponse(updated), nil
}

// DeleteAccount implements export.ExportService.
func (s *ExportServiceImpl) DeleteAccount(ctx context.Context, id string) error {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return err
	}

	existing, err := s.accountRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return err
	}

	count, err := s.accountRepo.CountAssignments(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return export.ErrAccountInUse
	}

	if err := s.accountRepo.Delete(ctx, tenantID, id); err != nil {
		return err
	}

	s.auditor.Record(ctx, audit.Event{
		TenantID:   tenantID,
		Action:     "account.delete",
		EntityType: "account",
		EntityID:   &id,
		Detail:     map[string]interface{}{"number": existing.Number},
	})

	return nil
}

// CreateInterface implements export.ExportService.
func (s *ExportServiceImpl) CreateInterface(ctx context.Context, req export.CreateInterfaceRequest) (export.InterfaceResponse, error) {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return export.InterfaceResponse{}, err
	}

	if err := req.Validate(); err != nil {
		return export.InterfaceResponse{}, err
	}

	created, err := s.interfaceRepo.Create(ctx, export.Interface{
		TenantID: tenantID,
		Name:     req.Name,
	})
	if err != nil {
		return export.InterfaceResponse{}, err
	}

	s.auditor.Record(ctx, audit.Event{
		TenantID:   tenantID,
		Action:     "export_interface.create",
		EntityType: "export_interface",
		EntityID:   &created.ID,
		Detail:     map[string]interface{}{"name": created.Name},
	})

	return mapInterfaceToResponse(created), nil
}

// GetInterface implements export.ExportService.
func (s *ExportServiceImpl) GetInterface(ctx context.Context, id string) (export.InterfaceResponse, error) {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return export.InterfaceResponse{}, err
	}

	found, err := s.interfaceRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return export.InterfaceResponse{}, err
	}
	return mapInterfaceToResponse(found), nil
}

// ListInterfaces implements export.ExportService.
func (s *ExportServiceImpl) ListInterfaces(ctx context.Context) ([]export.InterfaceResponse, error) {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	interfaces, err := s.interfaceRepo.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	responses := make([]export.InterfaceResponse, 0, len(interfaces))
	for _, i := range interfaces {
		responses = append(responses, mapInterfaceToResponse(i))
	}
	return responses, nil
}

// UpdateInterface implements export.ExportService.
func (s *ExportServiceImpl) UpdateInterface(ctx context.Context, req export.UpdateInterfaceRequest) (export.InterfaceResponse, error) {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return export.InterfaceResponse{}, err
	}

	if err := req.Validate(); err != nil {
		return export.InterfaceResponse{}, err
	}

	if err := s.interfaceRepo.Update(ctx, tenantID, req); err != nil {
		return export.InterfaceResponse{}, err
	}

	updated, err := s.interfaceRepo.GetByID(ctx, tenantID, req.ID)
	if err != nil {
		return export.InterfaceResponse{}, err
	}

	s.auditor.Record(ctx, audit.Event{
		TenantID:   tenantID,
		Action:     "export_interface.update",
		EntityType: "export_interface",
		EntityID:   &updated.ID,
		Detail:     map[string]interface{}{"name": updated.Name},
	})

	return mapInterfaceToResponse(updated), nil
}

// DeleteInterface implements export.ExportService.
func (s *ExportServiceImpl) DeleteInterface(ctx context.Context, id string) error {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return err
	}

	existing, err := s.interfaceRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return err
	}

	if err := s.interfaceRepo.Delete(ctx, tenantID, id); err != nil {
		return err
	}

	s.auditor.Record(ctx, audit.Event{
		TenantID:   tenantID,
		Action:     "export_interface.delete",
		EntityType: "export_interface",
		EntityID:   &id,
		Detail:     map[string]interface{}{"name": existing.Name},
	})

	return nil
}

// AddAssignment implements export.ExportService.
func (s *ExportServiceImpl) AddAssignment(ctx context.Context, interfaceID string, req export.AddAssignmentRequest) (export.InterfaceResponse, error) {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return export.InterfaceResponse{}, err
	}

	if err := req.Validate(); err != nil {
		return export.InterfaceResponse{}, err
	}

	if _, err := s.interfaceRepo.GetByID(ctx, tenantID, interfaceID); err != nil {
		return export.InterfaceResponse{}, err
	}
	account, err := s.accountRepo.GetByID(ctx, tenantID, req.AccountID)
	if err != nil {
		return export.InterfaceResponse{}, err
	}

	exists, err := s.interfaceRepo.ExistsAssignment(ctx, tenantID, interfaceID, account.ID)
	if err != nil {
		return export.InterfaceResponse{}, err
	}
	if exists {
		return export.InterfaceResponse{}, export.ErrAssignmentExists
	}

	if _, err := s.interfaceRepo.AddAssignment(ctx, tenantID, interfaceID, account.ID); err != nil {
		return export.InterfaceResponse{}, err
	}

	s.auditor.Record(ctx, audit.Event{
		TenantID:   tenantID,
		Action:     "export_interface.assign",
		EntityType: "export_interface",
		EntityID:   &interfaceID,
		Detail:     map[string]interface{}{"account_number": account.Number},
	})

	updated, err := s.interfaceRepo.GetByID(ctx, tenantID, interfaceID)
	if err != nil {
		return export.InterfaceResponse{}, err
	}
	return mapInterfaceToResponse(updated), nil
}

// ReplaceAssignments implements export.ExportService. The dual-list
// editor saves its complete ordered selection through this.
func (s *ExportServiceImpl) ReplaceAssignments(ctx context.Context, interfaceID string, req export.ReplaceAssignmentsRequest) (export.InterfaceResponse, error) {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return export.InterfaceResponse{}, err
	}

	if err := req.Validate(); err != nil {
		return export.InterfaceResponse{}, err
	}

	if _, err := s.interfaceRepo.GetByID(ctx, tenantID, interfaceID); err != nil {
		return export.InterfaceResponse{}, err
	}
	for _, accountID := range req.AccountIDs {
		if _, err := s.accountRepo.GetByID(ctx, tenantID, accountID); err != nil {
			return export.InterfaceResponse{}, err
		}
	}

	if err := s.interfaceRepo.ReplaceAssignments(ctx, tenantID, interfaceID, req.AccountIDs); err != nil {
		return export.InterfaceResponse{}, err
	}

	s.auditor.Record(ctx, audit.Event{
		TenantID:   tenantID,
		Action:     "export_interface.assign",
		EntityType: "export_interface",
		EntityID:   &interfaceID,
		Detail:     map[string]interface{}{"account_count": len(req.AccountIDs)},
	})

	updated, err := s.interfaceRepo.GetByID(ctx, tenantID, interfaceID)
	if err != nil {
		return export.InterfaceResponse{}, err
	}
	return mapInterfaceToResponse(updated), nil
}

// RemoveAssignment implements export.ExportService.
func (s *ExportServiceImpl) RemoveAssignment(ctx context.Context, interfaceID, assignmentID string) (export.InterfaceResponse, error) {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return export.InterfaceResponse{}, err
	}

	assignment, err := s.interfaceRepo.GetAssignment(ctx, tenantID, interfaceID, assignmentID)
	if err != nil {
		return export.InterfaceResponse{}, err
	}

	if err := s.interfaceRepo.RemoveAssignment(ctx, tenantID, interfaceID, assignmentID); err != nil {
		return export.InterfaceResponse{}, err
	}

	s.auditor.Record(ctx, audit.Event{
		TenantID:   tenantID,
		Action:     "export_interface.unassign",
		EntityType: "export_interface",
		EntityID:   &interfaceID,
		Detail:     map[string]interface{}{"account_number": assignment.AccountNumber},
	})

	updated, err := s.interfaceRepo.GetByID(ctx, tenantID, interfaceID)
	if err != nil {
		return export.InterfaceResponse{}, err
	}
	return mapInterfaceToResponse(updated), nil
}

// MoveAssignment implements export.ExportService.
func (s *ExportServiceImpl) MoveAssignment(ctx context.Context, interfaceID, assignmentID string, req export.MoveAssignmentRequest) (export.InterfaceResponse, error) {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return export.InterfaceResponse{}, err
	}

	if err := req.Validate(); err != nil {
		return export.InterfaceResponse{}, err
	}

	assignment, err := s.interfaceRepo.GetAssignment(ctx, tenantID, interfaceID, assignmentID)
	if err != nil {
		return export.InterfaceResponse{}, err
	}

	neighbor, err := s.interfaceRepo.GetNeighbor(ctx, tenantID, interfaceID, assignment.Position, req.Direction)
	if err == export.ErrAssignmentNotFound {
		// Already at the edge of the list.
		current, err := s.interfaceRepo.GetByID(ctx, tenantID, interfaceID)
		if err != nil {
			return export.InterfaceResponse{}, err
		}
		return mapInterfaceToResponse(current), nil
	}
	if err != nil {
		return export.InterfaceResponse{}, err
	}

	if err := s.interfaceRepo.SwapPositions(ctx, tenantID, interfaceID, assignment.ID, neighbor.ID); err != nil {
		return export.InterfaceResponse{}, err
	}

	updated, err := s.interfaceRepo.GetByID(ctx, tenantID, interfaceID)
	if err != nil {
		return export.InterfaceResponse{}, err
	}
	return mapInterfaceToResponse(updated), nil
}

// Run implements export.ExportService.
func (s *ExportServiceImpl) Run(ctx context.Context, req export.RunExportRequest) (export.RunResponse, error) {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return export.RunResponse{}, err
	}
	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return export.RunResponse{}, err
	}

	if err := req.Validate(); err != nil {
		return export.RunResponse{}, err
	}

	iface, err := s.interfaceRepo.GetByID(ctx, tenantID, req.InterfaceID)
	if err != nil {
		return export.RunResponse{}, err
	}
	if len(iface.Assignments) == 0 {
		return export.RunResponse{}, export.ErrNoAssignments
	}

	values, err := s.monthlyRepo.ListByMonth(ctx, tenantID, req.Month)
	if err != nil {
		return export.RunResponse{}, err
	}
	// Only closed months leave the house.
	closed := values[:0]
	for _, v := range values {
		if v.Closed {
			closed = append(closed, v)
		}
	}
	if len(closed) == 0 {
		return export.RunResponse{}, export.ErrNoClosedValues
	}

	absenceUnits, err := s.countAbsenceUnits(ctx, tenantID, closed, req.Month)
	if err != nil {
		return export.RunResponse{}, err
	}

	content, lineCount := renderPayrollCSV(iface, closed, absenceUnits)

	// Unique file name so repeated runs of the same month never overwrite
	// each other on disk.
	ranAt := time.Now()
	fileName := fmt.Sprintf("payroll_%s_%s.csv", req.Month, uuid.New().String())
	path := fmt.Sprintf("%s/exports/%s", tenantID, fileName)

	if _, err := s.files.Upload(ctx, bytes.NewReader(content), path, "text/csv"); err != nil {
		return export.RunResponse{}, fmt.Errorf("failed to store export file: %w", err)
	}

	run, err := s.runRepo.Create(ctx, export.Run{
		TenantID:    tenantID,
		InterfaceID: iface.ID,
		Month:       req.Month,
		FileName:    fileName,
		LineCount:   lineCount,
		RanBy:       actor.Email,
		RanAt:       ranAt,
	})
	if err != nil {
		if delErr := s.files.Delete(ctx, path); delErr != nil {
			slog.Error("failed to remove orphaned export file", "path", path, "error", delErr)
		}
		return export.RunResponse{}, err
	}

	s.auditor.Record(ctx, audit.Event{
		TenantID:   tenantID,
		Action:     "export.run",
		EntityType: "export_run",
		EntityID:   &run.ID,
		Detail: map[string]interface{}{
			"interface":  iface.Name,
			"month":      req.Month,
			"line_count": lineCount,
		},
	})

	s.notifyExportReady(ctx, tenantID, iface.Name, req.Month, lineCount)

	return mapRunToResponse(run), nil
}

// countAbsenceUnits tallies absence days per employee and category in half
// day units, clamped to the exported month.
func (s *ExportServiceImpl) countAbsenceUnits(ctx context.Context, tenantID string, values []timesheet.MonthlyValue, month string) (map[string]map[string]int, error) {
	monthStart, monthEnd := timesheet.MonthBounds(month)

	ids := make([]string, 0, len(values))
	for _, v := range values {
		ids = append(ids, v.EmployeeID)
	}

	absences, err := s.absenceRepo.ListRange(ctx, tenantID, ids, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}

	types, err := s.typeRepo.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	categoryByType := make(map[string]string, len(types))
	for _, t := range types {
		categoryByType[t.ID] = string(t.Category)
	}

	units := make(map[string]map[string]int)
	for _, a := range absences {
		category, ok := categoryByType[a.TypeID]
		if !ok {
			continue
		}

		from, to := a.FromDate, a.ToDate
		if from.Before(monthStart) {
			from = monthStart
		}
		if to.After(monthEnd) {
			to = monthEnd
		}

		days := int(to.Sub(from).Hours()/24) + 1
		u := days * 2
		if a.HalfDay {
			u = 1
		}

		if units[a.EmployeeID] == nil {
			units[a.EmployeeID] = make(map[string]int)
		}
		units[a.EmployeeID][category] += u
	}

	return units, nil
}

// renderPayrollCSV writes one line per employee and assigned account, in
// assignment order, semicolon separated the way payroll imports expect.
func renderPayrollCSV(iface export.Interface, values []timesheet.MonthlyValue, absenceUnits map[string]map[string]int) ([]byte, int) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = ';'

	_ = w.Write([]string{"month", "employee_code", "employee_name", "account_number", "account_name", "value", "unit"})

	lines := 0
	for _, v := range values {
		for _, a := range iface.Assignments {
			_ = w.Write([]string{
				v.Month,
				v.EmployeeCode,
				v.EmployeeName,
				a.AccountNumber,
				a.AccountName,
				accountValue(a, v, absenceUnits),
				a.Unit,
			})
			lines++
		}
	}
	w.Flush()

	return buf.Bytes(), lines
}

func accountValue(a export.Assignment, v timesheet.MonthlyValue, absenceUnits map[string]map[string]int) string {
	switch a.Source {
	case export.SourceNet:
		return minutesToHours(v.NetMinutes)
	case export.SourceTarget:
		return minutesToHours(v.TargetMinutes)
	case export.SourceOvertime:
		return minutesToHours(v.OvertimeMinutes)
	case export.SourceUndertime:
		return minutesToHours(v.UndertimeMinutes)
	case export.SourceFlextimeEnd:
		return minutesToHours(v.FlextimeEndMinutes)
	}

	if category, ok := strings.CutPrefix(a.Source, "absence:"); ok {
		return halfDayUnitsToDays(absenceUnits[v.EmployeeID][category])
	}
	return "0.00"
}

func (s *ExportServiceImpl) notifyExportReady(ctx context.Context, tenantID, interfaceName, month string, lineCount int) {
	t, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		slog.Error("failed to load tenant for export notification", "tenant_id", tenantID, "error", err)
		return
	}
	if t.NotifyEmail == nil {
		return
	}
	if err := s.mailer.SendExportReady(ctx, *t.NotifyEmail, t.Name, interfaceName, month, lineCount); err != nil {
		slog.Error("failed to send export ready mail", "tenant_id", tenantID, "month", month, "error", err)
	}
}

// ListRuns implements export.ExportService.
func (s *ExportServiceImpl) ListRuns(ctx context.Context, interfaceID string) ([]export.RunResponse, error) {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := s.interfaceRepo.GetByID(ctx, tenantID, interfaceID); err != nil {
		return nil, err
	}

	runs, err := s.runRepo.ListByInterface(ctx, tenantID, interfaceID)
	if err != nil {
		return nil, err
	}

	responses := make([]export.RunResponse, 0, len(runs))
	for _, r := range runs {
		responses = append(responses, mapRunToResponse(r))
	}
	return responses, nil
}

// DownloadRun implements export.ExportService.
func (s *ExportServiceImpl) DownloadRun(ctx context.Context, runID string) ([]byte, string, error) {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return nil, "", err
	}

	run, err := s.runRepo.GetByID(ctx, tenantID, runID)
	if err != nil {
		return nil, "", err
	}

	path := fmt.Sprintf("%s/exports/%s", tenantID, run.FileName)
	rc, err := s.files.Download(ctx, path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open export file: %w", err)
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read export file: %w", err)
	}

	return content, run.FileName, nil
}

// TimesheetCSV implements export.ExportService.
func (s *ExportServiceImpl) TimesheetCSV(ctx context.Context, employeeID, month string) ([]byte, string, error) {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return nil, "", err
	}

	emp, err := s.employeeRepo.GetByID(ctx, tenantID, employeeID)
	if err != nil {
		return nil, "", err
	}

	sheet, err := s.timesheetSvc.GetTimesheet(ctx, employeeID, month)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = ';'

	_ = w.Write([]string{
		"date", "weekday", "target_hours", "gross_hours", "break_hours", "net_hours",
		"flextime_change_hours", "codes", "absence", "holiday", "bookings",
	})

	for _, day := range sheet.Days {
		var absenceCode, holidayName string
		if day.AbsenceCode != nil {
			absenceCode = *day.AbsenceCode
		}
		if day.HolidayName != nil {
			holidayName = *day.HolidayName
		}

		bookings := make([]string, 0, len(day.Bookings))
		for _, b := range day.Bookings {
			bookings = append(bookings, b.Time+" "+b.Direction)
		}

		_ = w.Write([]string{
			day.Date,
			day.Weekday,
			minutesToHours(day.TargetMinutes),
			minutesToHours(day.GrossMinutes),
			minutesToHours(day.BreakMinutes),
			minutesToHours(day.NetMinutes),
			minutesToHours(day.FlextimeChangeMinutes),
			strings.Join(day.Codes, "|"),
			absenceCode,
			holidayName,
			strings.Join(bookings, "|"),
		})
	}

	// The totals block only exists once the month has been calculated.
	if sheet.Summary != nil {
		_ = w.Write([]string{
			"TOTAL", "",
			minutesToHours(sheet.Summary.TargetMinutes),
			minutesToHours(sheet.Summary.GrossMinutes),
			minutesToHours(sheet.Summary.BreakMinutes),
			minutesToHours(sheet.Summary.NetMinutes),
			minutesToHours(sheet.Summary.FlextimeChangeMinutes),
			"", "", "", "",
		})
		_ = w.Write([]string{
			"FLEXTIME", "",
			minutesToHours(sheet.Summary.FlextimeStartMinutes),
			minutesToHours(sheet.Summary.FlextimeChangeMinutes),
			minutesToHours(sheet.Summary.FlextimeAdjustmentMinutes),
			minutesToHours(sheet.Summary.FlextimeEndMinutes),
			"", "", "", "", "",
		})
	}
	w.Flush()

	fileName := fmt.Sprintf("timesheet_%s_%s.csv", emp.Code, month)
	return buf.Bytes(), fileName, nil
}
