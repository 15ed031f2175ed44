package calc

// pair is a closed presence interval in minutes of the local day.
type pair struct {
	come int
	goAt int
}

// ComputeDay evaluates a single local day.
func ComputeDay(in DayInput) DayResult {
	result := DayResult{Date: in.Date}

	if in.Holiday != nil {
		result.HolidayName = in.Holiday.Name
	}
	if in.Absence != nil {
		result.AbsenceCode = in.Absence.TypeCode
	}

	result.TargetMinutes = dayTarget(in.Plan, in.Holiday)

	pairs, codes := pairBookings(in.Bookings)
	pairs, frameCodes := applyPlan(in.Plan, pairs)
	codes = append(codes, frameCodes...)

	gross, fixedOverlap, gaps := measurePresence(in.Plan, pairs)
	result.GrossMinutes = gross

	// Statutory break requirement is judged on gross presence. The actual
	// break is the sum of gaps between presence blocks plus the fixed
	// window overlap already taken out of the presence.
	required := requiredBreak(in.Plan, gross)
	actualBreak := gaps + fixedOverlap
	deficit := required - actualBreak
	if deficit < 0 {
		deficit = 0
	}
	if deficit > 0 {
		codes = append(codes, CodeBreakShortfall)
	}

	result.PresenceMinutes = gross - fixedOverlap - deficit
	if result.PresenceMinutes < 0 {
		result.PresenceMinutes = 0
	}
	result.BreakMinutes = actualBreak + deficit

	// Absence credit. A day holding both an absence and presence keeps the
	// better of the two instead of stacking them.
	if in.Absence != nil {
		credit := absenceCredit(result.TargetMinutes, in.Absence.Credit, in.Absence.HalfDay)
		if len(in.Bookings) > 0 {
			codes = append(codes, CodeAbsencePresence)
			credit -= result.PresenceMinutes
			if credit < 0 {
				credit = 0
			}
		}
		result.CreditMinutes = credit
	}
	result.NetMinutes = result.PresenceMinutes + result.CreditMinutes

	// A workday without any booking and no excuse needs correction.
	if result.TargetMinutes > 0 && len(in.Bookings) == 0 && in.Absence == nil && in.Holiday == nil {
		codes = append(codes, CodeMissingBooking)
	}

	result.FlextimeChangeMinutes = result.NetMinutes - result.TargetMinutes
	if result.FlextimeChangeMinutes > 0 {
		result.OvertimeMinutes = result.FlextimeChangeMinutes
	} else {
		result.UndertimeMinutes = -result.FlextimeChangeMinutes
	}

	result.Codes = dedupeCodes(codes)
	return result
}

// dayTarget derives the daily target from the plan and the holiday state.
func dayTarget(plan *DayPlan, holiday *Holiday) int {
	if plan == nil {
		return 0
	}
	target := plan.TargetMinutes
	if holiday != nil {
		if holiday.HalfDay {
			return target / 2
		}
		return 0
	}
	return target
}

// pairBookings walks the ordered bookings and forms come/go pairs.
// Anomalies are flagged and skipped, never guessed.
func pairBookings(bookings []Booking) ([]pair, []string) {
	var pairs []pair
	var codes []string

	open := -1
	for _, b := range bookings {
		switch b.Direction {
		case DirectionCome:
			if open >= 0 {
				// First come wins, the duplicate is dropped.
				codes = append(codes, CodeDoubleCome)
				continue
			}
			open = b.Minute
		case DirectionGo:
			if open < 0 {
				codes = append(codes, CodeGoWithoutCome)
				continue
			}
			pairs = append(pairs, pair{come: open, goAt: b.Minute})
			open = -1
		}
	}
	if open >= 0 {
		codes = append(codes, CodeMissingGo)
	}

	return pairs, codes
}

// applyPlan clips pairs to the frame window and applies grace and rounding.
func applyPlan(plan *DayPlan, pairs []pair) ([]pair, []string) {
	if plan == nil {
		return pairs, nil
	}

	var out []pair
	var codes []string

	for _, p := range pairs {
		come, goAt := p.come, p.goAt

		if plan.HasFrame() {
			if come >= plan.FrameEndMinutes || goAt <= plan.FrameStartMinutes {
				codes = append(codes, CodeOutsideFrame)
				continue
			}
			if come < plan.FrameStartMinutes {
				come = plan.FrameStartMinutes
			}
			if goAt > plan.FrameEndMinutes {
				goAt = plan.FrameEndMinutes
			}
			if plan.GraceComeMinutes > 0 && come > plan.FrameStartMinutes &&
				come-plan.FrameStartMinutes <= plan.GraceComeMinutes {
				come = plan.FrameStartMinutes
			}
		}

		if plan.RoundComeUpMinutes > 0 {
			come = roundUp(come, plan.RoundComeUpMinutes)
		}
		if plan.RoundGoDownMinutes > 0 {
			goAt = roundDown(goAt, plan.RoundGoDownMinutes)
		}

		if goAt <= come {
			continue
		}
		out = append(out, pair{come: come, goAt: goAt})
	}

	return out, codes
}

// measurePresence sums the pair minutes, the overlap with the fixed break
// window and the gaps between consecutive pairs.
func measurePresence(plan *DayPlan, pairs []pair) (gross, fixedOverlap, gaps int) {
	prevEnd := -1
	for _, p := range pairs {
		gross += p.goAt - p.come
		if plan != nil && plan.HasFixedBreak() {
			fixedOverlap += overlap(p.come, p.goAt, plan.BreakStartMinutes, plan.BreakEndMinutes)
		}
		if prevEnd >= 0 && p.come > prevEnd {
			gaps += p.come - prevEnd
		}
		prevEnd = p.goAt
	}
	return gross, fixedOverlap, gaps
}

// requiredBreak returns the highest break requirement whose threshold the
// gross presence exceeds.
func requiredBreak(plan *DayPlan, gross int) int {
	if plan == nil {
		return 0
	}
	required := 0
	for _, rule := range plan.BreakRules {
		if gross > rule.AfterMinutes && rule.BreakMinutes > required {
			required = rule.BreakMinutes
		}
	}
	return required
}

// absenceCredit computes the minutes an absence credits against the target.
func absenceCredit(target int, credit CreditClass, halfDay bool) int {
	switch credit {
	case CreditFull:
		if halfDay {
			return target / 2
		}
		return target
	case CreditHalf:
		return target / 2
	default:
		return 0
	}
}

func overlap(aStart, aEnd, bStart, bEnd int) int {
	start := aStart
	if bStart > start {
		start = bStart
	}
	end := aEnd
	if bEnd < end {
		end = bEnd
	}
	if end <= start {
		return 0
	}
	return end - start
}

func roundUp(minute, grid int) int {
	rem := minute % grid
	if rem == 0 {
		return minute
	}
	return minute + grid - rem
}

func roundDown(minute, grid int) int {
	return minute - minute%grid
}

func dedupeCodes(codes []string) []string {
	if len(codes) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(codes))
	var out []string
	for _, code := range codes {
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	return out
}
