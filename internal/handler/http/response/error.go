package response

import (
	"errors"
	"net/http"

	"github.com/zmi-time/zmi-backend-go/internal/domain/absence"
	"github.com/zmi-time/zmi-backend-go/internal/domain/access"
	"github.com/zmi-time/zmi-backend-go/internal/domain/auth"
	"github.com/zmi-time/zmi-backend-go/internal/domain/booking"
	"github.com/zmi-time/zmi-backend-go/internal/domain/employee"
	"github.com/zmi-time/zmi-backend-go/internal/domain/export"
	"github.com/zmi-time/zmi-backend-go/internal/domain/holiday"
	"github.com/zmi-time/zmi-backend-go/internal/domain/macro"
	"github.com/zmi-time/zmi-backend-go/internal/domain/tariff"
	"github.com/zmi-time/zmi-backend-go/internal/domain/tenant"
	"github.com/zmi-time/zmi-backend-go/internal/domain/timesheet"
	"github.com/zmi-time/zmi-backend-go/internal/domain/user"
	"github.com/zmi-time/zmi-backend-go/internal/pkg/validator"
)

// notFoundErrors map to 404.
var notFoundErrors = []error{
	auth.ErrUserNotFound,
	user.ErrUserNotFound,
	tenant.ErrTenantNotFound,
	employee.ErrEmployeeNotFound,
	employee.ErrUnknownBadge,
	tariff.ErrDayPlanNotFound,
	tariff.ErrTariffNotFound,
	holiday.ErrHolidayNotFound,
	absence.ErrTypeNotFound,
	absence.ErrAbsenceNotFound,
	booking.ErrBookingNotFound,
	timesheet.ErrMonthlyValueNotFound,
	export.ErrAccountNotFound,
	export.ErrInterfaceNotFound,
	export.ErrAssignmentNotFound,
	export.ErrRunNotFound,
	macro.ErrMacroNotFound,
	access.ErrZoneNotFound,
	access.ErrProfileNotFound,
}

// conflictErrors map to 409. Closed months and in-use resources land
// here so that clients can surface their failed-delete style messages.
var conflictErrors = []error{
	user.ErrUserEmailExists,
	user.ErrOwnAccount,
	tenant.ErrTenantCodeExists,
	tenant.ErrTenantInUse,
	employee.ErrEmployeeCodeExists,
	employee.ErrBadgeNumberExists,
	employee.ErrEmployeeHasBookings,
	tariff.ErrDayPlanCodeExists,
	tariff.ErrDayPlanInUse,
	tariff.ErrTariffCodeExists,
	tariff.ErrTariffInUse,
	holiday.ErrHolidayExists,
	absence.ErrTypeCodeExists,
	absence.ErrTypeInUse,
	absence.ErrAbsenceOverlap,
	booking.ErrBookingExists,
	timesheet.ErrMonthClosed,
	timesheet.ErrMonthAlreadyClosed,
	timesheet.ErrMonthNotClosed,
	timesheet.ErrPreviousMonthOpen,
	timesheet.ErrLaterMonthClosed,
	timesheet.ErrMonthHasErrorDays,
	timesheet.ErrRecalculationRunning,
	export.ErrAccountNumberExists,
	export.ErrAccountInUse,
	export.ErrAssignmentExists,
	export.ErrNoAssignments,
	export.ErrNoClosedValues,
	macro.ErrMacroInactive,
	access.ErrZoneInUse,
	access.ErrProfileInUse,
}

// HandleError maps domain errors to HTTP responses.
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, err.Error())

	case errors.Is(err, auth.ErrAccountDeactivated),
		errors.Is(err, user.ErrUserInactive),
		errors.Is(err, auth.ErrAdminRequired),
		errors.Is(err, auth.ErrManagerRequired),
		errors.Is(err, user.ErrAdminPrivilegeRequired),
		errors.Is(err, user.ErrManagerAccessRequired),
		errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, err.Error())

	case errors.Is(err, auth.ErrTenantRequired),
		errors.Is(err, tenant.ErrInvalidTimezone):
		BadRequest(w, err.Error(), nil)

	default:
		for _, target := range notFoundErrors {
			if errors.Is(err, target) {
				NotFound(w, target.Error())
				return
			}
		}
		for _, target := range conflictErrors {
			if errors.Is(err, target) {
				Conflict(w, target.Error())
				return
			}
		}
		InternalServerError(w, "An unexpected error occurred")
	}
}
