package macro

import "time"

// Action identifies what a macro does when it runs.
type Action string

const (
	// ActionRecalculateTargetHours recomputes the current month so that
	// tariff and plan changes are reflected in the target hours.
	ActionRecalculateTargetHours Action = "recalculate_target_hours"

	// ActionResetFlextime zeroes the flextime balance by writing a
	// counter adjustment on the previous month.
	ActionResetFlextime Action = "reset_flextime"

	// ActionCarryForwardBalance carries the flextime balance into the new
	// period, cutting it down to the tariff cap where one is set.
	ActionCarryForwardBalance Action = "carry_forward_balance"
)

var ValidActions = []string{
	string(ActionRecalculateTargetHours),
	string(ActionResetFlextime),
	string(ActionCarryForwardBalance),
}

type Schedule string

const (
	ScheduleManual  Schedule = "manual"
	ScheduleMonthly Schedule = "monthly"
	ScheduleYearly  Schedule = "yearly"
)

var ValidSchedules = []string{
	string(ScheduleManual),
	string(ScheduleMonthly),
	string(ScheduleYearly),
}

// Macro is a stored balance operation that runs on demand or on a
// monthly or yearly schedule. It is scoped to one tariff or one
// employee; with neither set it covers the whole tenant.
type Macro struct {
	ID         string     `json:"id"`
	TenantID   string     `json:"tenant_id"`
	Name       string     `json:"name"`
	Action     Action     `json:"action"`
	Schedule   Schedule   `json:"schedule"`
	RunDay     int        `json:"run_day"`
	RunMonth   int        `json:"run_month"`
	TariffID   *string    `json:"tariff_id,omitempty"`
	EmployeeID *string    `json:"employee_id,omitempty"`
	Active     bool       `json:"active"`
	LastRunAt  *time.Time `json:"last_run_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// IsDue reports whether the schedule fires on the given local time.
// A macro fires at most once per calendar day.
func (m *Macro) IsDue(now time.Time) bool {
	if !m.Active || m.Schedule == ScheduleManual {
		return false
	}
	if m.LastRunAt != nil {
		last := m.LastRunAt.In(now.Location())
		if last.Year() == now.Year() && last.YearDay() == now.YearDay() {
			return false
		}
	}

	switch m.Schedule {
	case ScheduleMonthly:
		return now.Day() == m.RunDay
	case ScheduleYearly:
		return int(now.Month()) == m.RunMonth && now.Day() == m.RunDay
	}

	return false
}
