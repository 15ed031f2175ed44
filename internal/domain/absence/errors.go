package absence

import "errors"

var (
	ErrTypeNotFound    = errors.New("absence type not found")
	ErrTypeCodeExists  = errors.New("absence type code already exists")
	ErrTypeInUse       = errors.New("absence type is in use and cannot be deleted")
	ErrAbsenceNotFound = errors.New("absence not found")
	ErrAbsenceOverlap  = errors.New("employee already has an absence in this range")
)
