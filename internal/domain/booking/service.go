package booking

import "context"

// BookingService manages time bookings.
type BookingService interface {
	// Punch records a terminal punch identified by tenant code and badge
	// number. The server clock in the tenant timezone supplies date and
	// minute. Without an explicit direction the punch toggles against
	// the employee's last booking of the day.
	Punch(ctx context.Context, req PunchRequest) (PunchResponse, error)

	// Create records a manual booking. Bookings in closed months are rejected.
	Create(ctx context.Context, req CreateBookingRequest) (BookingResponse, error)

	// List returns bookings matching the filter.
	List(ctx context.Context, filter BookingFilter) ([]BookingResponse, error)

	// Update modifies a booking. The target and the source month must be open.
	Update(ctx context.Context, req UpdateBookingRequest) (BookingResponse, error)

	// Delete removes a booking from an open month.
	Delete(ctx context.Context, id string) error

	// Status returns the live presence board of the tenant for today.
	Status(ctx context.Context) (StatusResponse, error)
}
