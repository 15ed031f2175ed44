package audit

import "time"

// Event records one change made through the API or by the system.
// Action follows the entity.verb convention, e.g. booking.create.
type Event struct {
	ID         string                 `json:"id"`
	TenantID   string                 `json:"tenant_id"`
	UserID     *string                `json:"user_id,omitempty"`
	UserEmail  string                 `json:"user_email"`
	Action     string                 `json:"action"`
	EntityType string                 `json:"entity_type"`
	EntityID   *string                `json:"entity_id,omitempty"`
	Detail     map[string]interface{} `json:"detail,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}

// SystemActor is recorded when the scheduler, not a user, made a change.
const SystemActor = "system"

// Evaluation records one calculation run for diagnosis.
type Evaluation struct {
	ID                 string    `json:"id"`
	TenantID           string    `json:"tenant_id"`
	Trigger            string    `json:"trigger"`
	RanBy              string    `json:"ran_by"`
	FromDate           time.Time `json:"from_date"`
	ToDate             time.Time `json:"to_date"`
	EmployeesProcessed int       `json:"employees_processed"`
	DaysCalculated     int       `json:"days_calculated"`
	ErrorDays          int       `json:"error_days"`
	DurationMS         int64     `json:"duration_ms"`
	CreatedAt          time.Time `json:"created_at"`
}

// Evaluation triggers.
const (
	TriggerManual  = "manual"
	TriggerBooking = "booking"
	TriggerAbsence = "absence"
	TriggerMacro   = "macro"
	TriggerNightly = "nightly"
)
