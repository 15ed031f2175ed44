package booking

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/zmi-time/zmi-backend-go/internal/domain/audit"
	"github.com/zmi-time/zmi-backend-go/internal/domain/auth"
	"github.com/zmi-time/zmi-backend-go/internal/domain/booking"
	"github.com/zmi-time/zmi-backend-go/internal/domain/employee"
	"github.com/zmi-time/zmi-backend-go/internal/domain/tenant"
	"github.com/zmi-time/zmi-backend-go/internal/domain/timesheet"
)

type BookingServiceImpl struct {
	bookingRepo  booking.Repository
	employeeRepo employee.EmployeeRepository
	tenantRepo   tenant.TenantRepository
	monthlyRepo  timesheet.MonthlyValueRepository
	recalc       timesheet.Recalculator
	auditor      audit.Recorder
}

func NewBookingService(
	bookingRepo booking.Repository,
	employeeRepo employee.EmployeeRepository,
	tenantRepo tenant.TenantRepository,
	monthlyRepo timesheet.MonthlyValueRepository,
	recalc timesheet.Recalculator,
	auditor audit.Recorder,
) booking.BookingService {
	return &BookingServiceImpl{
		bookingRepo:  bookingRepo,
		employeeRepo: employeeRepo,
		tenantRepo:   tenantRepo,
		monthlyRepo:  monthlyRepo,
		recalc:       recalc,
		auditor:      auditor,
	}
}

func mapBookingToResponse(b booking.Booking) booking.BookingResponse {
	return booking.BookingResponse{
		ID:         b.ID,
		EmployeeID: b.EmployeeID,
		Date:       b.Date.Format("2006-01-02"),
		Time:       b.TimeOfDay(),
		Direction:  string(b.Direction),
		Origin:     string(b.Origin),
		Note:       b.Note,
		CreatedAt:  b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  b.UpdatedAt.Format(time.RFC3339),
	}
}

// localToday returns the current date and minute of day in the tenant
// timezone. The date is normalized to midnight UTC the way date columns
// are scanned.
func localToday(timezone string) (time.Time, int, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("failed to load tenant timezone %q: %w", timezone, err)
	}
	now := time.Now().In(loc)
	date := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return date, now.Hour()*60 + now.Minute(), nil
}

// triggerRecalc asks for a recalculation of the touched days. Failures do
// not fail the booking write, the nightly run catches up.
func (s *BookingServiceImpl) triggerRecalc(ctx context.Context, tenantID, employeeID string, from, to time.Time) {
	if err := s.recalc.TriggerRecalculation(ctx, tenantID, audit.TriggerBooking, []string{employeeID}, from, to); err != nil {
		slog.Warn("booking recalculation deferred",
			"tenant_id", tenantID, "employee_id", employeeID, "error", err)
	}
}

// Punch implements booking.BookingService.
func (s *BookingServiceImpl) Punch(ctx context.Context, req booking.PunchRequest) (booking.PunchResponse, error) {
	if err := req.Validate(); err != nil {
		return booking.PunchResponse{}, err
	}

	t, err := s.tenantRepo.GetByCode(ctx, req.TenantCode)
	if err != nil {
		return booking.PunchResponse{}, err
	}

	emp, err := s.employeeRepo.GetByBadgeNumber(ctx, t.ID, req.BadgeNumber)
	if err == employee.ErrEmployeeNotFound {
		return booking.PunchResponse{}, employee.ErrUnknownBadge
	}
	if err != nil {
		return booking.PunchResponse{}, err
	}
	if !emp.Active {
		return booking.PunchResponse{}, employee.ErrUnknownBadge
	}

	date, minute, err := localToday(t.Timezone)
	if err != nil {
		return booking.PunchResponse{}, err
	}

	closed, err := s.monthlyRepo.IsClosed(ctx, t.ID, emp.ID, timesheet.MonthKey(date))
	if err != nil {
		return booking.PunchResponse{}, err
	}
	if closed {
		return booking.PunchResponse{}, timesheet.ErrMonthClosed
	}

	direction := booking.DirectionCome
	if req.Direction != nil {
		direction = booking.Direction(*req.Direction)
	} else {
		last, err := s.bookingRepo.GetLastForEmployee(ctx, t.ID, emp.ID, date)
		if err == nil && last.Direction == booking.DirectionCome {
			direction = booking.DirectionGo
		} else if err != nil && err != booking.ErrBookingNotFound {
			return booking.PunchResponse{}, err
		}
	}

	created, err := s.bookingRepo.Create(ctx, booking.Booking{
		TenantID:   t.ID,
		EmployeeID: emp.ID,
		Date:       date,
		Minute:     minute,
		Direction:  direction,
		Origin:     booking.OriginTerminal,
	})
	if err != nil {
		return booking.PunchResponse{}, err
	}

	s.triggerRecalc(ctx, t.ID, emp.ID, date, date)

	return booking.PunchResponse{
		EmployeeID:   emp.ID,
		EmployeeName: emp.FullName(),
		Direction:    string(created.Direction),
		Date:         created.Date.Format("2006-01-02"),
		Time:         created.TimeOfDay(),
	}, nil
}

// Create implements booking.BookingService.
func (s *BookingServiceImpl) Create(ctx context.Context, req booking.CreateBookingRequest) (booking.BookingResponse, error) {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return booking.BookingResponse{}, err
	}

	if err := req.Validate(); err != nil {
		return booking.BookingResponse{}, err
	}
	date, _ := time.Parse("2006-01-02", req.Date)

	emp, err := s.employeeRepo.GetByID(ctx, tenantID, req.EmployeeID)
	if err != nil {
		return booking.BookingResponse{}, err
	}

	closed, err := s.monthlyRepo.IsClosed(ctx, tenantID, emp.ID, timesheet.MonthKey(date))
	if err != nil {
		return booking.BookingResponse{}, err
	}
	if closed {
		return booking.BookingResponse{}, timesheet.ErrMonthClosed
	}

	exists, err := s.bookingRepo.Exists(ctx, tenantID, emp.ID, date, req.Minute, booking.Direction(req.Direction))
	if err != nil {
		return booking.BookingResponse{}, err
	}
	if exists {
		return booking.BookingResponse{}, booking.ErrBookingExists
	}

	created, err := s.bookingRepo.Create(ctx, booking.Booking{
		TenantID:   tenantID,
		EmployeeID: emp.ID,
		Date:       date,
		Minute:     req.Minute,
		Direction:  booking.Direction(req.Direction),
		Origin:     booking.OriginWeb,
		Note:       req.Note,
	})
	if err != nil {
		return booking.BookingResponse{}, err
	}

	s.auditor.Record(ctx, audit.Event{
		TenantID:   tenantID,
		Action:     "booking.create",
		EntityType: "booking",
		EntityID:   &created.ID,
		Detail: map[string]interface{}{
			"employee_id": emp.ID,
			"date":        req.Date,
			"time":        req.Time,
			"direction":   req.Direction,
		},
	})

	s.triggerRecalc(ctx, tenantID, emp.ID, date, date)

	return mapBookingToResponse(created), nil
}

// List implements booking.BookingService.
func (s *BookingServiceImpl) List(ctx context.Context, filter booking.BookingFilter) ([]booking.BookingResponse, error) {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if err := filter.Validate(); err != nil {
		return nil, err
	}

	bookings, err := s.bookingRepo.List(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]booking.BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		responses = append(responses, mapBookingToResponse(b))
	}
	return responses, nil
}

// Update implements booking.BookingService.
func (s *BookingServiceImpl) Update(ctx context.Context, req booking.UpdateBookingRequest) (booking.BookingResponse, error) {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return booking.BookingResponse{}, err
	}

	if err := req.Validate(); err != nil {
		return booking.BookingResponse{}, err
	}

	existing, err := s.bookingRepo.GetByID(ctx, tenantID, req.ID)
	if err != nil {
		return booking.BookingResponse{}, err
	}

	newDate := existing.Date
	if req.Date != nil {
		newDate, _ = time.Parse("2006-01-02", *req.Date)
	}
	newMinute := existing.Minute
	if req.Minute != nil {
		newMinute = *req.Minute
	}
	newDirection := existing.Direction
	if req.Direction != nil {
		newDirection = booking.Direction(*req.Direction)
	}

	// Source and target month must both be open.
	for _, month := range []string{timesheet.MonthKey(existing.Date), timesheet.MonthKey(newDate)} {
		closed, err := s.monthlyRepo.IsClosed(ctx, tenantID, existing.EmployeeID, month)
		if err != nil {
			return booking.BookingResponse{}, err
		}
		if closed {
			return booking.BookingResponse{}, timesheet.ErrMonthClosed
		}
	}

	tupleChanged := !newDate.Equal(existing.Date) || newMinute != existing.Minute || newDirection != existing.Direction
	if tupleChanged {
		exists, err := s.bookingRepo.Exists(ctx, tenantID, existing.EmployeeID, newDate, newMinute, newDirection)
		if err != nil {
			return booking.BookingResponse{}, err
		}
		if exists {
			return booking.BookingResponse{}, booking.ErrBookingExists
		}
	}

	if err := s.bookingRepo.Update(ctx, tenantID, req); err != nil {
		return booking.BookingResponse{}, err
	}

	updated, err := s.bookingRepo.GetByID(ctx, tenantID, req.ID)
	if err != nil {
		return booking.BookingResponse{}, err
	}

	s.auditor.Record(ctx, audit.Event{
		TenantID:   tenantID,
		Action:     "booking.update",
		EntityType: "booking",
		EntityID:   &updated.ID,
		Detail: map[string]interface{}{
			"employee_id": updated.EmployeeID,
			"date":        updated.Date.Format("2006-01-02"),
			"time":        updated.TimeOfDay(),
			"direction":   string(updated.Direction),
		},
	})

	from, to := existing.Date, newDate
	if to.Before(from) {
		from, to = to, from
	}
	s.triggerRecalc(ctx, tenantID, existing.EmployeeID, from, to)

	return mapBookingToResponse(updated), nil
}

// Delete implements booking.BookingService.
func (s *BookingServiceImpl) Delete(ctx context.Context, id string) error {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return err
	}

	existing, err := s.bookingRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return err
	}

	closed, err := s.monthlyRepo.IsClosed(ctx, tenantID, existing.EmployeeID, timesheet.MonthKey(existing.Date))
	if err != nil {
		return err
	}
	if closed {
		return timesheet.ErrMonthClosed
	}

	if err := s.bookingRepo.Delete(ctx, tenantID, id); err != nil {
		return err
	}

	s.auditor.Record(ctx, audit.Event{
		TenantID:   tenantID,
		Action:     "booking.delete",
		EntityType: "booking",
		EntityID:   &id,
		Detail: map[string]interface{}{
			"employee_id": existing.EmployeeID,
			"date":        existing.Date.Format("2006-01-02"),
			"time":        existing.TimeOfDay(),
			"direction":   string(existing.Direction),
		},
	})

	s.triggerRecalc(ctx, tenantID, existing.EmployeeID, existing.Date, existing.Date)

	return nil
}

// Status implements booking.BookingService.
func (s *BookingServiceImpl) Status(ctx context.Context) (booking.StatusResponse, error) {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return booking.StatusResponse{}, err
	}

	t, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return booking.StatusResponse{}, err
	}

	date, _, err := localToday(t.Timezone)
	if err != nil {
		return booking.StatusResponse{}, err
	}

	employees, err := s.employeeRepo.ListActive(ctx, tenantID)
	if err != nil {
		return booking.StatusResponse{}, err
	}

	ids := make([]string, 0, len(employees))
	for _, emp := range employees {
		ids = append(ids, emp.ID)
	}

	lastByEmployee := make(map[string]booking.Booking)
	if len(ids) > 0 {
		bookings, err := s.bookingRepo.ListRange(ctx, tenantID, ids, date, date)
		if err != nil {
			return booking.StatusResponse{}, err
		}
		// Ordered by minute, the last one wins.
		for _, b := range bookings {
			lastByEmployee[b.EmployeeID] = b
		}
	}

	response := booking.StatusResponse{
		Date:    date.Format("2006-01-02"),
		Entries: make([]booking.StatusEntry, 0, len(employees)),
	}
	for _, emp := range employees {
		entry := booking.StatusEntry{
			EmployeeID:   emp.ID,
			EmployeeCode: emp.Code,
			EmployeeName: emp.FullName(),
		}
		if last, ok := lastByEmployee[emp.ID]; ok {
			lastTime := last.TimeOfDay()
			entry.LastTime = &lastTime
			entry.Present = last.Direction == booking.DirectionCome
		}
		if entry.Present {
			response.PresentCount++
		} else {
			response.AbsentCount++
		}
		response.Entries = append(response.Entries, entry)
	}

	return response, nil
}
