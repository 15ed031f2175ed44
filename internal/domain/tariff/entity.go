package tariff

import "time"

// DayPlan is the calculation rule set applied to one weekday. All clock
// fields are minutes since local midnight.
type DayPlan struct {
	ID       string
	TenantID string
	Code     string
	Name     string

	TargetMinutes      int
	FrameStartMinutes  int
	FrameEndMinutes    int
	RoundComeUpMinutes int
	RoundGoDownMinutes int
	GraceComeMinutes   int
	BreakStartMinutes  int
	BreakEndMinutes    int
	BreakRules         []BreakRule

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BreakRule is a statutory break threshold, stored as JSONB on the plan.
type BreakRule struct {
	AfterMinutes int `json:"after_minutes"`
	BreakMinutes int `json:"break_minutes"`
}

// Tariff assigns a day plan to each weekday and carries the flextime
// carryover cap applied by the carry forward macro.
type Tariff struct {
	ID       string
	TenantID string
	Code     string
	Name     string

	// WeekdayPlanIDs is indexed 0=Monday .. 6=Sunday, nil = free day.
	WeekdayPlanIDs [7]*string

	// FlextimeCapMinutes caps the balance carried into the next month.
	// Negative disables the cap.
	FlextimeCapMinutes int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PlanIDFor maps a time.Weekday (Sunday=0) onto the Monday-first plan slots.
func (t *Tariff) PlanIDFor(wd time.Weekday) *string {
	idx := (int(wd) + 6) % 7
	return t.WeekdayPlanIDs[idx]
}
