package calc

// ComputeMonth aggregates the evaluated days of one calendar month.
// openingFlextime is the previous month's flextime end, or the employee's
// initial balance for the first computed month. adjustment is the manual or
// macro-written correction applied on top of the computed change.
func ComputeMonth(openingFlextime, adjustment int, days []DayResult) MonthResult {
	result := MonthResult{
		FlextimeStartMinutes:      openingFlextime,
		FlextimeAdjustmentMinutes: adjustment,
	}

	for _, day := range days {
		result.TargetMinutes += day.TargetMinutes
		result.GrossMinutes += day.GrossMinutes
		result.BreakMinutes += day.BreakMinutes
		result.PresenceMinutes += day.PresenceMinutes
		result.CreditMinutes += day.CreditMinutes
		result.NetMinutes += day.NetMinutes
		result.OvertimeMinutes += day.OvertimeMinutes
		result.UndertimeMinutes += day.UndertimeMinutes
		result.FlextimeChangeMinutes += day.FlextimeChangeMinutes
		if day.HasErrors() {
			result.ErrorDays++
		}
	}

	result.FlextimeEndMinutes = result.FlextimeStartMinutes +
		result.FlextimeChangeMinutes + result.FlextimeAdjustmentMinutes

	return result
}
