package access

import (
	"testing"
	"time"
)

// 2025-03-10 is a Monday, 2025-03-16 a Sunday.
func localTime(day, hour, minute int) time.Time {
	return time.Date(2025, 3, day, hour, minute, 0, 0, time.UTC)
}

func weekdaysMonFri() [7]bool {
	return [7]bool{true, true, true, true, true, false, false}
}

func TestProfileEntryGrantsAt(t *testing.T) {
	cases := []struct {
		name  string
		entry ProfileEntry
		at    time.Time
		want  bool
	}{
		{
			name:  "weekday inside window",
			entry: ProfileEntry{Weekdays: weekdaysMonFri(), FromMinute: 420, ToMinute: 1080},
			at:    localTime(10, 8, 30),
			want:  true,
		},
		{
			name:  "window start is inclusive",
			entry: ProfileEntry{Weekdays: weekdaysMonFri(), FromMinute: 420, ToMinute: 1080},
			at:    localTime(10, 7, 0),
			want:  true,
		},
		{
			name:  "window end is exclusive",
			entry: ProfileEntry{Weekdays: weekdaysMonFri(), FromMinute: 420, ToMinute: 1080},
			at:    localTime(10, 18, 0),
			want:  false,
		},
		{
			name:  "before window",
			entry: ProfileEntry{Weekdays: weekdaysMonFri(), FromMinute: 420, ToMinute: 1080},
			at:    localTime(10, 6, 59),
			want:  false,
		},
		{
			name:  "sunday not granted on weekday profile",
			entry: ProfileEntry{Weekdays: weekdaysMonFri(), FromMinute: 0, ToMinute: 1440},
			at:    localTime(16, 12, 0),
			want:  false,
		},
		{
			name:  "sunday maps onto the last slot",
			entry: ProfileEntry{Weekdays: [7]bool{false, false, false, false, false, false, true}, FromMinute: 0, ToMinute: 1440},
			at:    localTime(16, 12, 0),
			want:  true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.entry.GrantsAt(tc.at); got != tc.want {
				t.Errorf("GrantsAt(%v) = %v, want %v", tc.at, got, tc.want)
			}
		})
	}
}

func TestWeekdayMaskRoundTrip(t *testing.T) {
	cases := [][7]bool{
		{},
		{true, true, true, true, true, true, true},
		weekdaysMonFri(),
		{false, false, false, false, false, true, true},
		{true, false, true, false, true, false, true},
	}

	for _, days := range cases {
		entry := ProfileEntry{Weekdays: days}
		if got := WeekdaysFromMask(entry.WeekdayMask()); got != days {
			t.Errorf("round trip of %v gave %v", days, got)
		}
	}
}

func TestProfileGrantsZoneAt(t *testing.T) {
	profile := Profile{
		Entries: []ProfileEntry{
			{ZoneID: "office", Weekdays: weekdaysMonFri(), FromMinute: 420, ToMinute: 1080},
			{ZoneID: "server-room", Weekdays: weekdaysMonFri(), FromMinute: 540, ToMinute: 720},
		},
	}

	monday9 := localTime(10, 9, 0)
	monday13 := localTime(10, 13, 0)

	if !profile.GrantsZoneAt("office", monday9) {
		t.Error("office should be granted at 09:00")
	}
	if !profile.GrantsZoneAt("server-room", monday9) {
		t.Error("server room should be granted at 09:00")
	}
	if profile.GrantsZoneAt("server-room", monday13) {
		t.Error("server room window ends at 12:00")
	}
	if profile.GrantsZoneAt("warehouse", monday9) {
		t.Error("unknown zone must not be granted")
	}
}

func TestProfileGrantsZoneAt_OverlappingEntries(t *testing.T) {
	// Two entries for the same zone, a permanent one on Saturday and a
	// business-hours one on weekdays.
	profile := Profile{
		Entries: []ProfileEntry{
			{ZoneID: "office", Weekdays: weekdaysMonFri(), FromMinute: 420, ToMinute: 1080},
			{ZoneID: "office", Weekdays: [7]bool{false, false, false, false, false, true, false}, FromMinute: 0, ToMinute: 1440},
		},
	}

	saturday := localTime(15, 3, 0)
	if !profile.GrantsZoneAt("office", saturday) {
		t.Error("saturday entry should grant outside business hours")
	}

	monday3 := localTime(10, 3, 0)
	if profile.GrantsZoneAt("office", monday3) {
		t.Error("monday 03:00 is outside every window")
	}
}
