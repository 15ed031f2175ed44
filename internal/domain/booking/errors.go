package booking

import "errors"

var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrBookingExists   = errors.New("an identical booking already exists for this employee")
)
