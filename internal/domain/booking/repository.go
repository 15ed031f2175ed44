package booking

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, newBooking Booking) (Booking, error)
	GetByID(ctx context.Context, tenantID, id string) (Booking, error)
	List(ctx context.Context, tenantID string, filter BookingFilter) ([]Booking, error)

	// ListByEmployeeDate returns the employee's bookings of one day
	// ordered by minute.
	ListByEmployeeDate(ctx context.Context, tenantID, employeeID string, date time.Time) ([]Booking, error)

	// ListRange returns all bookings of the given employees in the
	// inclusive date range ordered by employee, date and minute.
	ListRange(ctx context.Context, tenantID string, employeeIDs []string, from, to time.Time) ([]Booking, error)

	// GetLastForEmployee returns the employee's latest booking of the
	// given day, or ErrBookingNotFound when the day has none.
	GetLastForEmployee(ctx context.Context, tenantID, employeeID string, date time.Time) (Booking, error)

	Exists(ctx context.Context, tenantID, employeeID string, date time.Time, minute int, direction Direction) (bool, error)
	Update(ctx context.Context, tenantID string, req UpdateBookingRequest) error
	Delete(ctx context.Context, tenantID, id string) error
}
