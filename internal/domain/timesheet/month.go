package timesheet

import "time"

// MonthKey formats the month of a date as YYYY-MM, the canonical month
// key used throughout the monthly value tables.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// NextMonthKey returns the month key following the given YYYY-MM month.
func NextMonthKey(month string) string {
	t, _ := time.Parse("2006-01", month)
	return t.AddDate(0, 1, 0).Format("2006-01")
}

// PrevMonthKey returns the month key preceding the given YYYY-MM month.
func PrevMonthKey(month string) string {
	t, _ := time.Parse("2006-01", month)
	return t.AddDate(0, -1, 0).Format("2006-01")
}

// MonthBounds returns the first and last day of a YYYY-MM month.
func MonthBounds(month string) (time.Time, time.Time) {
	start, _ := time.Parse("2006-01", month)
	return start, start.AddDate(0, 1, -1)
}

// FirstDayAfterMonth returns the first day of the month following the
// given YYYY-MM month.
func FirstDayAfterMonth(month string) time.Time {
	t, _ := time.Parse("2006-01", month)
	return t.AddDate(0, 1, 0)
}
