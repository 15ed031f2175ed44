package booking

import (
	"fmt"
	"time"
)

type Direction string

const (
	DirectionCome Direction = "come"
	DirectionGo   Direction = "go"
)

var ValidDirections = []string{
	string(DirectionCome),
	string(DirectionGo),
}

// Origin records which channel produced a booking.
type Origin string

const (
	OriginTerminal Origin = "terminal"
	OriginWeb      Origin = "web"
	OriginImport   Origin = "import"
	OriginSystem   Origin = "system"
)

// Booking is a single come or go punch of an employee. The time of day is
// stored as minutes since midnight in the tenant timezone.
type Booking struct {
	ID         string    `json:"id"`
	TenantID   string    `json:"tenant_id"`
	EmployeeID string    `json:"employee_id"`
	Date       time.Time `json:"date"`
	Minute     int       `json:"minute"`
	Direction  Direction `json:"direction"`
	Origin     Origin    `json:"origin"`
	Note       *string   `json:"note,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TimeOfDay renders the booking minute as HH:MM.
func (b *Booking) TimeOfDay() string {
	return fmt.Sprintf("%02d:%02d", b.Minute/60, b.Minute%60)
}
