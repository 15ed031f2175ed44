package employee

import "errors"

var (
	ErrEmployeeNotFound    = errors.New("employee not found")
	ErrEmployeeCodeExists  = errors.New("employee code already exists")
	ErrBadgeNumberExists   = errors.New("badge number already assigned")
	ErrEmployeeHasBookings = errors.New("employee still has bookings and cannot be deleted")
	ErrUnknownBadge        = errors.New("no active employee with this badge number")
)
