package timesheet

import "time"

// DailyValue holds the calculated result for one employee and day.
// All durations are minutes.
type DailyValue struct {
	ID                    string    `json:"id"`
	TenantID              string    `json:"tenant_id"`
	EmployeeID            string    `json:"employee_id"`
	Date                  time.Time `json:"date"`
	TargetMinutes         int       `json:"target_minutes"`
	GrossMinutes          int       `json:"gross_minutes"`
	BreakMinutes          int       `json:"break_minutes"`
	PresenceMinutes       int       `json:"presence_minutes"`
	CreditMinutes         int       `json:"credit_minutes"`
	NetMinutes            int       `json:"net_minutes"`
	OvertimeMinutes       int       `json:"overtime_minutes"`
	UndertimeMinutes      int       `json:"undertime_minutes"`
	FlextimeChangeMinutes int       `json:"flextime_change_minutes"`
	Codes                 []string  `json:"codes"`
	AbsenceCode           *string   `json:"absence_code,omitempty"`
	HolidayName           *string   `json:"holiday_name,omitempty"`
	CalculatedAt          time.Time `json:"calculated_at"`
}

// MonthlyValue aggregates the daily values of one employee and month
// and anchors the flextime chain. Month is formatted YYYY-MM.
type MonthlyValue struct {
	ID                        string     `json:"id"`
	TenantID                  string     `json:"tenant_id"`
	EmployeeID                string     `json:"employee_id"`
	Month                     string     `json:"month"`
	TargetMinutes             int        `json:"target_minutes"`
	GrossMinutes              int        `json:"gross_minutes"`
	BreakMinutes              int        `json:"break_minutes"`
	PresenceMinutes           int        `json:"presence_minutes"`
	CreditMinutes             int        `json:"credit_minutes"`
	NetMinutes                int        `json:"net_minutes"`
	OvertimeMinutes           int        `json:"overtime_minutes"`
	UndertimeMinutes          int        `json:"undertime_minutes"`
	FlextimeStartMinutes      int        `json:"flextime_start_minutes"`
	FlextimeChangeMinutes     int        `json:"flextime_change_minutes"`
	FlextimeAdjustmentMinutes int        `json:"flextime_adjustment_minutes"`
	FlextimeEndMinutes        int        `json:"flextime_end_minutes"`
	ErrorDays                 int        `json:"error_days"`
	Closed                    bool       `json:"closed"`
	ClosedAt                  *time.Time `json:"closed_at,omitempty"`
	ClosedBy                  *string    `json:"closed_by,omitempty"`
	ClosedReason              *string    `json:"closed_reason,omitempty"`
	CalculatedAt              time.Time  `json:"calculated_at"`

	// Joined for responses
	EmployeeCode string `json:"-"`
	EmployeeName string `json:"-"`
}
