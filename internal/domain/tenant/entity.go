package tenant

import "time"

// Tenant is the top-level organizational unit. All time data, plans and
// exports hang off exactly one tenant.
type Tenant struct {
	ID          string
	Code        string // unique, immutable after creation
	Name        string
	Timezone    string // IANA name, e.g. "Europe/Berlin"
	NotifyEmail *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
