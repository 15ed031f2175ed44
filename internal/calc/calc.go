// Package calc implements the daily and monthly working time calculation.
// It is pure: inputs are plain values, no clock or database access. The
// service layer resolves timezones, loads the inputs and persists results.
package calc

import "time"

// Direction of a time clock booking.
type Direction string

const (
	DirectionCome Direction = "come"
	DirectionGo   Direction = "go"
)

// CreditClass describes how much of the daily target an absence credits.
type CreditClass string

const (
	CreditFull CreditClass = "full"
	CreditHalf CreditClass = "half"
	CreditNone CreditClass = "none"
)

// Day evaluation codes. E_ codes mark days that need correction,
// W_ codes are informational.
const (
	CodeGoWithoutCome   = "E_GO_WITHOUT_COME"
	CodeMissingGo       = "E_MISSING_GO"
	CodeMissingBooking  = "E_MISSING_BOOKING"
	CodeDoubleCome      = "W_DOUBLE_COME"
	CodeOutsideFrame    = "W_OUTSIDE_FRAME"
	CodeBreakShortfall  = "W_BREAK_SHORTFALL"
	CodeAbsencePresence = "W_ABSENCE_AND_PRESENCE"
)

// IsErrorCode reports whether a code marks the day as faulty rather than
// merely noteworthy.
func IsErrorCode(code string) bool {
	return len(code) > 2 && code[0] == 'E' && code[1] == '_'
}

// BreakRule is one statutory break threshold: after AfterMinutes of gross
// presence, BreakMinutes of total break are required.
type BreakRule struct {
	AfterMinutes int
	BreakMinutes int
}

// DayPlan carries the calculation rules of a single weekday. All times are
// minutes since local midnight.
type DayPlan struct {
	TargetMinutes int

	// Frame window. Bookings are clipped to [FrameStart, FrameEnd);
	// both zero disables the frame.
	FrameStartMinutes int
	FrameEndMinutes   int

	// Rounding grids in minutes, 0 disables. Come is rounded up,
	// go is rounded down.
	RoundComeUpMinutes int
	RoundGoDownMinutes int

	// A come within GraceComeMinutes after the frame start counts as
	// the frame start.
	GraceComeMinutes int

	// Fixed unpaid break window. Presence overlapping it is deducted.
	// Both zero disables the window.
	BreakStartMinutes int
	BreakEndMinutes   int

	// Statutory break thresholds, ascending by AfterMinutes.
	BreakRules []BreakRule
}

// HasFrame reports whether the plan restricts bookings to a frame window.
func (p *DayPlan) HasFrame() bool {
	return p.FrameEndMinutes > p.FrameStartMinutes
}

// HasFixedBreak reports whether the plan carries a fixed break window.
func (p *DayPlan) HasFixedBreak() bool {
	return p.BreakEndMinutes > p.BreakStartMinutes
}

// Booking is a single time clock event of the local day.
type Booking struct {
	Minute    int // minutes since local midnight
	Direction Direction
}

// Holiday marks the day as a public holiday.
type Holiday struct {
	Name    string
	HalfDay bool
}

// Absence covers the day with an absence type.
type Absence struct {
	TypeCode string
	Credit   CreditClass
	HalfDay  bool
}

// DayInput is everything the engine needs to evaluate one local day.
// Bookings must be ordered by minute ascending.
type DayInput struct {
	Date     time.Time
	Plan     *DayPlan // nil = free day
	Holiday  *Holiday
	Absence  *Absence
	Bookings []Booking
}

// DayResult is the evaluated day.
type DayResult struct {
	Date time.Time

	TargetMinutes   int
	GrossMinutes    int
	BreakMinutes    int
	PresenceMinutes int // net minutes worked, before absence credit
	CreditMinutes   int // minutes credited by an absence
	NetMinutes      int // presence + credit

	OvertimeMinutes       int
	UndertimeMinutes      int
	FlextimeChangeMinutes int // net - target, signed

	Codes       []string
	AbsenceCode string
	HolidayName string
}

// HasErrors reports whether the day carries at least one E_ code.
func (r *DayResult) HasErrors() bool {
	for _, code := range r.Codes {
		if IsErrorCode(code) {
			return true
		}
	}
	return false
}

// MonthResult aggregates the evaluated days of one calendar month and the
// flextime chain values.
type MonthResult struct {
	TargetMinutes    int
	GrossMinutes     int
	BreakMinutes     int
	PresenceMinutes  int
	CreditMinutes    int
	NetMinutes       int
	OvertimeMinutes  int
	UndertimeMinutes int

	FlextimeStartMinutes      int
	FlextimeChangeMinutes     int
	FlextimeAdjustmentMinutes int
	FlextimeEndMinutes        int

	ErrorDays int
}
