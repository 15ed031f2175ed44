package export

import "time"

// Account source constants. Absence sources are prefixed so one account
// can collect the days of exactly one absence category.
const (
	SourceNet         = "net"
	SourceTarget      = "target"
	SourceOvertime    = "overtime"
	SourceUndertime   = "undertime"
	SourceFlextimeEnd = "flextime_end"

	SourceAbsenceVacation = "absence:vacation"
	SourceAbsenceSickness = "absence:sickness"
	SourceAbsenceSpecial  = "absence:special"
	SourceAbsenceUnpaid   = "absence:unpaid"
)

var ValidSources = []string{
	SourceNet,
	SourceTarget,
	SourceOvertime,
	SourceUndertime,
	SourceFlextimeEnd,
	SourceAbsenceVacation,
	SourceAbsenceSickness,
	SourceAbsenceSpecial,
	SourceAbsenceUnpaid,
}

const (
	UnitHours = "hours"
	UnitDays  = "days"
)

var ValidUnits = []string{UnitHours, UnitDays}

// Account is a wage type the payroll system understands, mapped to one
// value source of the monthly calculation.
type Account struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Number    string    `json:"number"`
	Name      string    `json:"name"`
	Source    string    `json:"source"`
	Unit      string    `json:"unit"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Assignment places an account at a position in an export interface.
type Assignment struct {
	ID          string `json:"id"`
	InterfaceID string `json:"interface_id"`
	AccountID   string `json:"account_id"`
	Position    int    `json:"position"`

	// Joined from the account for rendering and export runs.
	AccountNumber string `json:"account_number"`
	AccountName   string `json:"account_name"`
	Source        string `json:"source"`
	Unit          string `json:"unit"`
}

// Interface is a named payroll export configuration holding an ordered
// list of account assignments.
type Interface struct {
	ID          string       `json:"id"`
	TenantID    string       `json:"tenant_id"`
	Name        string       `json:"name"`
	Assignments []Assignment `json:"assignments"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Run records one executed payroll export.
type Run struct {
	ID            string    `json:"id"`
	TenantID      string    `json:"tenant_id"`
	InterfaceID   string    `json:"interface_id"`
	InterfaceName string    `json:"interface_name"`
	Month         string    `json:"month"`
	FileName      string    `json:"file_name"`
	LineCount     int       `json:"line_count"`
	RanBy         string    `json:"ran_by"`
	RanAt         time.Time `json:"ran_at"`
}
