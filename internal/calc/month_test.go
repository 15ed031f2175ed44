package calc

import (
	"testing"
	"time"
)

func TestComputeMonth(t *testing.T) {
	date := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	days := []DayResult{
		{Date: date, TargetMinutes: 480, GrossMinutes: 510, NetMinutes: 510, BreakMinutes: 30, OvertimeMinutes: 30, FlextimeChangeMinutes: 30},
		{Date: date.AddDate(0, 0, 1), TargetMinutes: 480, GrossMinutes: 450, NetMinutes: 450, UndertimeMinutes: 30, FlextimeChangeMinutes: -30},
		{Date: date.AddDate(0, 0, 2), TargetMinutes: 480, NetMinutes: 480, CreditMinutes: 480},
		{Date: date.AddDate(0, 0, 3), TargetMinutes: 480, UndertimeMinutes: 480, FlextimeChangeMinutes: -480, Codes: []string{CodeMissingBooking}},
	}

	got := ComputeMonth(120, 0, days)

	if got.TargetMinutes != 1920 {
		t.Errorf("TargetMinutes = %d, want 1920", got.TargetMinutes)
	}
	if got.GrossMinutes != 960 {
		t.Errorf("GrossMinutes = %d, want 960", got.GrossMinutes)
	}
	if got.NetMinutes != 1440 {
		t.Errorf("NetMinutes = %d, want 1440", got.NetMinutes)
	}
	if got.BreakMinutes != 30 {
		t.Errorf("BreakMinutes = %d, want 30", got.BreakMinutes)
	}
	if got.OvertimeMinutes != 30 {
		t.Errorf("OvertimeMinutes = %d, want 30", got.OvertimeMinutes)
	}
	if got.UndertimeMinutes != 510 {
		t.Errorf("UndertimeMinutes = %d, want 510", got.UndertimeMinutes)
	}
	if got.FlextimeStartMinutes != 120 {
		t.Errorf("FlextimeStartMinutes = %d, want 120", got.FlextimeStartMinutes)
	}
	if got.FlextimeChangeMinutes != -480 {
		t.Errorf("FlextimeChangeMinutes = %d, want -480", got.FlextimeChangeMinutes)
	}
	if got.FlextimeEndMinutes != -360 {
		t.Errorf("FlextimeEndMinutes = %d, want -360", got.FlextimeEndMinutes)
	}
	if got.ErrorDays != 1 {
		t.Errorf("ErrorDays = %d, want 1", got.ErrorDays)
	}
}

func TestComputeMonthAdjustment(t *testing.T) {
	days := []DayResult{
		{TargetMinutes: 480, NetMinutes: 480},
	}

	// A reset macro writes an adjustment that cancels the computed end.
	got := ComputeMonth(90, -90, days)

	if got.FlextimeChangeMinutes != 0 {
		t.Errorf("FlextimeChangeMinutes = %d, want 0", got.FlextimeChangeMinutes)
	}
	if got.FlextimeEndMinutes != 0 {
		t.Errorf("FlextimeEndMinutes = %d, want 0", got.FlextimeEndMinutes)
	}
}

func TestComputeMonthEmpty(t *testing.T) {
	got := ComputeMonth(45, 0, nil)

	if got.FlextimeEndMinutes != 45 {
		t.Errorf("FlextimeEndMinutes = %d, want 45", got.FlextimeEndMinutes)
	}
	if got.TargetMinutes != 0 || got.NetMinutes != 0 {
		t.Errorf("totals = %d/%d, want 0/0", got.TargetMinutes, got.NetMinutes)
	}
}
