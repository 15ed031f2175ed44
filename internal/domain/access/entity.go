package access

import "time"

// Zone is a physical area controlled by access terminals.
type Zone struct {
	ID          string    `json:"id"`
	TenantID    string    `json:"tenant_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProfileEntry grants access to one zone during a weekday time window.
// Weekdays are Monday first. The window covers FromMinute inclusive to
// ToMinute exclusive, both minutes since midnight.
type ProfileEntry struct {
	ID         string  `json:"id"`
	ProfileID  string  `json:"profile_id"`
	ZoneID     string  `json:"zone_id"`
	ZoneName   string  `json:"zone_name"`
	Weekdays   [7]bool `json:"weekdays"`
	FromMinute int     `json:"from_minute"`
	ToMinute   int     `json:"to_minute"`
}

// WeekdayMask packs the weekday flags into a bitmask with bit 0 Monday.
func (e *ProfileEntry) WeekdayMask() int {
	mask := 0
	for i, set := range e.Weekdays {
		if set {
			mask |= 1 << i
		}
	}
	return mask
}

// WeekdaysFromMask unpacks a bitmask with bit 0 Monday.
func WeekdaysFromMask(mask int) [7]bool {
	var days [7]bool
	for i := range days {
		days[i] = mask&(1<<i) != 0
	}
	return days
}

// GrantsAt reports whether the entry covers the given local time.
func (e *ProfileEntry) GrantsAt(t time.Time) bool {
	idx := (int(t.Weekday()) + 6) % 7
	if !e.Weekdays[idx] {
		return false
	}
	minute := t.Hour()*60 + t.Minute()
	return minute >= e.FromMinute && minute < e.ToMinute
}

// Profile bundles zone grants and is assigned to employees.
type Profile struct {
	ID        string         `json:"id"`
	TenantID  string         `json:"tenant_id"`
	Name      string         `json:"name"`
	Entries   []ProfileEntry `json:"entries"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// GrantsZoneAt reports whether any entry of the profile covers the zone
// at the given local time.
func (p *Profile) GrantsZoneAt(zoneID string, t time.Time) bool {
	for i := range p.Entries {
		if p.Entries[i].ZoneID == zoneID && p.Entries[i].GrantsAt(t) {
			return true
		}
	}
	return false
}
