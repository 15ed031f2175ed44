package macro

import (
	"testing"
	"time"
)

func TestMacroIsDue(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Fatal(err)
	}

	firstOfApril := time.Date(2025, 4, 1, 2, 0, 0, 0, berlin)
	ranYesterday := firstOfApril.AddDate(0, 0, -1)
	ranEarlierToday := firstOfApril.Add(-time.Hour)

	cases := []struct {
		name  string
		macro Macro
		now   time.Time
		want  bool
	}{
		{
			name:  "manual macros never fire",
			macro: Macro{Active: true, Schedule: ScheduleManual, RunDay: 1},
			now:   firstOfApril,
			want:  false,
		},
		{
			name:  "inactive macros never fire",
			macro: Macro{Active: false, Schedule: ScheduleMonthly, RunDay: 1},
			now:   firstOfApril,
			want:  false,
		},
		{
			name:  "monthly fires on its run day",
			macro: Macro{Active: true, Schedule: ScheduleMonthly, RunDay: 1},
			now:   firstOfApril,
			want:  true,
		},
		{
			name:  "monthly does not fire on other days",
			macro: Macro{Active: true, Schedule: ScheduleMonthly, RunDay: 15},
			now:   firstOfApril,
			want:  false,
		},
		{
			name:  "last run on a previous day does not block",
			macro: Macro{Active: true, Schedule: ScheduleMonthly, RunDay: 1, LastRunAt: &ranYesterday},
			now:   firstOfApril,
			want:  true,
		},
		{
			name:  "fires at most once per day",
			macro: Macro{Active: true, Schedule: ScheduleMonthly, RunDay: 1, LastRunAt: &ranEarlierToday},
			now:   firstOfApril,
			want:  false,
		},
		{
			name:  "yearly fires on month and day",
			macro: Macro{Active: true, Schedule: ScheduleYearly, RunMonth: 4, RunDay: 1},
			now:   firstOfApril,
			want:  true,
		},
		{
			name:  "yearly does not fire in another month",
			macro: Macro{Active: true, Schedule: ScheduleYearly, RunMonth: 1, RunDay: 1},
			now:   firstOfApril,
			want:  false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.macro.IsDue(tc.now); got != tc.want {
				t.Errorf("IsDue(%v) = %v, want %v", tc.now, got, tc.want)
			}
		})
	}
}
