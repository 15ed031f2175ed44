package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID              string
	TenantID        string
	Code            string // personnel number, unique per tenant, immutable
	FirstName       string
	LastName        string
	BadgeNumber     *string // terminal badge, unique per tenant
	TariffID        string
	AccessProfileID *string
	EntryDate       time.Time
	ExitDate        *time.Time
	InitialFlextime int // minutes, opening balance before the first computed month
	HourlyWage      *decimal.Decimal
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// FullName returns "Last, First" the way timesheets list employees.
func (e *Employee) FullName() string {
	return e.LastName + ", " + e.FirstName
}
