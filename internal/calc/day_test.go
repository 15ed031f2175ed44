package calc

import (
	"reflect"
	"testing"
	"time"
)

// standardPlan returns an 8h day with a 06:00-20:00 frame and the statutory
// break thresholds. Rounding, grace and the fixed break window are off so
// individual cases can enable them.
func standardPlan() *DayPlan {
	return &DayPlan{
		TargetMinutes:     480,
		FrameStartMinutes: 360,
		FrameEndMinutes:   1200,
		BreakRules: []BreakRule{
			{AfterMinutes: 360, BreakMinutes: 30},
			{AfterMinutes: 540, BreakMinutes: 45},
		},
	}
}

func come(minute int) Booking { return Booking{Minute: minute, Direction: DirectionCome} }
func goAt(minute int) Booking { return Booking{Minute: minute, Direction: DirectionGo} }

func TestComputeDay(t *testing.T) {
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		input    DayInput
		target   int
		gross    int
		net      int
		breakMin int
		credit   int
		over     int
		under    int
		change   int
		codes    []string
	}{
		{
			name: "single block without break gets statutory deduction",
			input: DayInput{
				Date:     date,
				Plan:     standardPlan(),
				Bookings: []Booking{come(480), goAt(990)},
			},
			target: 480, gross: 510, net: 480, breakMin: 30,
			change: 0,
			codes:  []string{CodeBreakShortfall},
		},
		{
			name: "lunch gap satisfies statutory break",
			input: DayInput{
				Date:     date,
				Plan:     standardPlan(),
				Bookings: []Booking{come(480), goAt(720), come(750), goAt(1020)},
			},
			target: 480, gross: 510, net: 510, breakMin: 30,
			over: 30, change: 30,
		},
		{
			name: "work on a free day is all overtime",
			input: DayInput{
				Date:     date,
				Bookings: []Booking{come(600), goAt(660)},
			},
			gross: 60, net: 60, over: 60, change: 60,
		},
		{
			name: "open come yields missing go",
			input: DayInput{
				Date:     date,
				Plan:     standardPlan(),
				Bookings: []Booking{come(480)},
			},
			target: 480, under: 480, change: -480,
			codes: []string{CodeMissingGo},
		},
		{
			name: "leading go yields go without come",
			input: DayInput{
				Date:     date,
				Plan:     standardPlan(),
				Bookings: []Booking{goAt(990)},
			},
			target: 480, under: 480, change: -480,
			codes: []string{CodeGoWithoutCome},
		},
		{
			name: "double come keeps the first come",
			input: DayInput{
				Date:     date,
				Plan:     standardPlan(),
				Bookings: []Booking{come(480), come(500), goAt(990)},
			},
			target: 480, gross: 510, net: 480, breakMin: 30,
			change: 0,
			codes:  []string{CodeDoubleCome, CodeBreakShortfall},
		},
		{
			name:   "workday without bookings is flagged",
			input:  DayInput{Date: date, Plan: standardPlan()},
			target: 480, under: 480, change: -480,
			codes: []string{CodeMissingBooking},
		},
		{
			name: "full holiday drops the target",
			input: DayInput{
				Date:    date,
				Plan:    standardPlan(),
				Holiday: &Holiday{Name: "Tag der Arbeit"},
			},
		},
		{
			name: "half holiday halves the target",
			input: DayInput{
				Date:     date,
				Plan:     standardPlan(),
				Holiday:  &Holiday{Name: "Heiligabend", HalfDay: true},
				Bookings: []Booking{come(480), goAt(840)},
			},
			target: 240, gross: 360, net: 360, over: 120, change: 120,
		},
		{
			name: "full credit absence covers the target",
			input: DayInput{
				Date:    date,
				Plan:    standardPlan(),
				Absence: &Absence{TypeCode: "U", Credit: CreditFull},
			},
			target: 480, net: 480, credit: 480,
		},
		{
			name: "half day absence credits half the target",
			input: DayInput{
				Date:    date,
				Plan:    standardPlan(),
				Absence: &Absence{TypeCode: "U", Credit: CreditFull, HalfDay: true},
			},
			target: 480, net: 240, credit: 240, under: 240, change: -240,
		},
		{
			name: "half credit type credits half the target",
			input: DayInput{
				Date:    date,
				Plan:    standardPlan(),
				Absence: &Absence{TypeCode: "KR", Credit: CreditHalf},
			},
			target: 480, net: 240, credit: 240, under: 240, change: -240,
		},
		{
			name: "unpaid absence credits nothing",
			input: DayInput{
				Date:    date,
				Plan:    standardPlan(),
				Absence: &Absence{TypeCode: "UU", Credit: CreditNone},
			},
			target: 480, under: 480, change: -480,
		},
		{
			name: "absence plus presence keeps the better value",
			input: DayInput{
				Date:     date,
				Plan:     standardPlan(),
				Absence:  &Absence{TypeCode: "U", Credit: CreditFull},
				Bookings: []Booking{come(480), goAt(720)},
			},
			target: 480, gross: 240, net: 480, credit: 240,
			codes: []string{CodeAbsencePresence},
		},
		{
			name: "bookings outside the frame are clipped",
			input: DayInput{
				Date:     date,
				Plan:     standardPlan(),
				Bookings: []Booking{come(300), goAt(1260)},
			},
			target: 480, gross: 840, net: 795, breakMin: 45,
			over: 315, change: 315,
			codes: []string{CodeBreakShortfall},
		},
		{
			name: "pair wholly outside the frame is dropped",
			input: DayInput{
				Date:     date,
				Plan:     standardPlan(),
				Bookings: []Booking{come(1220), goAt(1300)},
			},
			target: 480, under: 480, change: -480,
			codes: []string{CodeOutsideFrame},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeDay(tc.input)

			if got.TargetMinutes != tc.target {
				t.Errorf("TargetMinutes = %d, want %d", got.TargetMinutes, tc.target)
			}
			if got.GrossMinutes != tc.gross {
				t.Errorf("GrossMinutes = %d, want %d", got.GrossMinutes, tc.gross)
			}
			if got.NetMinutes != tc.net {
				t.Errorf("NetMinutes = %d, want %d", got.NetMinutes, tc.net)
			}
			if got.BreakMinutes != tc.breakMin {
				t.Errorf("BreakMinutes = %d, want %d", got.BreakMinutes, tc.breakMin)
			}
			if got.CreditMinutes != tc.credit {
				t.Errorf("CreditMinutes = %d, want %d", got.CreditMinutes, tc.credit)
			}
			if got.OvertimeMinutes != tc.over {
				t.Errorf("OvertimeMinutes = %d, want %d", got.OvertimeMinutes, tc.over)
			}
			if got.UndertimeMinutes != tc.under {
				t.Errorf("UndertimeMinutes = %d, want %d", got.UndertimeMinutes, tc.under)
			}
			if got.FlextimeChangeMinutes != tc.change {
				t.Errorf("FlextimeChangeMinutes = %d, want %d", got.FlextimeChangeMinutes, tc.change)
			}
			if !reflect.DeepEqual(got.Codes, tc.codes) {
				t.Errorf("Codes = %v, want %v", got.Codes, tc.codes)
			}
		})
	}
}

func TestComputeDayGrace(t *testing.T) {
	plan := standardPlan()
	plan.GraceComeMinutes = 10

	got := ComputeDay(DayInput{
		Date:     time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Plan:     plan,
		Bookings: []Booking{come(365), goAt(840)},
	})

	// 06:05 is within the grace window, so presence starts at 06:00.
	if got.GrossMinutes != 480 {
		t.Errorf("GrossMinutes = %d, want 480", got.GrossMinutes)
	}
	if got.NetMinutes != 450 {
		t.Errorf("NetMinutes = %d, want 450", got.NetMinutes)
	}
}

func TestComputeDayRounding(t *testing.T) {
	plan := standardPlan()
	plan.RoundComeUpMinutes = 15
	plan.RoundGoDownMinutes = 15

	got := ComputeDay(DayInput{
		Date:     time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Plan:     plan,
		Bookings: []Booking{come(483), goAt(1003)},
	})

	// 08:03 rounds up to 08:15, 16:43 rounds down to 16:30.
	if got.GrossMinutes != 495 {
		t.Errorf("GrossMinutes = %d, want 495", got.GrossMinutes)
	}
}

func TestComputeDayRoundingCollapsesPair(t *testing.T) {
	plan := standardPlan()
	plan.RoundComeUpMinutes = 15
	plan.RoundGoDownMinutes = 15

	got := ComputeDay(DayInput{
		Date:     time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Plan:     plan,
		Bookings: []Booking{come(488), goAt(492)},
	})

	if got.GrossMinutes != 0 {
		t.Errorf("GrossMinutes = %d, want 0", got.GrossMinutes)
	}
}

func TestComputeDayFixedBreakWindow(t *testing.T) {
	plan := standardPlan()
	plan.BreakStartMinutes = 720
	plan.BreakEndMinutes = 750

	got := ComputeDay(DayInput{
		Date:     time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Plan:     plan,
		Bookings: []Booking{come(480), goAt(1020)},
	})

	// 09h presence, 30min removed by the fixed window which also satisfies
	// the 30min statutory requirement for 540 gross.
	if got.GrossMinutes != 540 {
		t.Errorf("GrossMinutes = %d, want 540", got.GrossMinutes)
	}
	if got.NetMinutes != 510 {
		t.Errorf("NetMinutes = %d, want 510", got.NetMinutes)
	}
	if got.BreakMinutes != 30 {
		t.Errorf("BreakMinutes = %d, want 30", got.BreakMinutes)
	}
	if len(got.Codes) != 0 {
		t.Errorf("Codes = %v, want none", got.Codes)
	}
}

func TestRequiredBreak(t *testing.T) {
	plan := standardPlan()

	cases := []struct {
		gross int
		want  int
	}{
		{0, 0},
		{360, 0},
		{361, 30},
		{540, 30},
		{541, 45},
		{700, 45},
	}
	for _, c := range cases {
		if got := requiredBreak(plan, c.gross); got != c.want {
			t.Errorf("requiredBreak(%d) = %d, want %d", c.gross, got, c.want)
		}
	}
}

func TestIsErrorCode(t *testing.T) {
	if !IsErrorCode(CodeMissingGo) {
		t.Errorf("IsErrorCode(%q) = false, want true", CodeMissingGo)
	}
	if IsErrorCode(CodeDoubleCome) {
		t.Errorf("IsErrorCode(%q) = true, want false", CodeDoubleCome)
	}
}
