package holiday

import "time"

// Holiday is one entry of the tenant's holiday calendar. A half-day holiday
// halves the daily target instead of clearing it.
type Holiday struct {
	ID        string
	TenantID  string
	Date      time.Time // date only, local to the tenant
	Name      string
	HalfDay   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
