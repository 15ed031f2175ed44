package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zmi-time/zmi-backend-go/internal/domain/export"
	"github.com/zmi-time/zmi-backend-go/internal/domain/timesheet"
)

func TestMinutesToHours(t *testing.T) {
	assert.Equal(t, "0.00", minutesToHours(0))
	assert.Equal(t, "1.50", minutesToHours(90))
	assert.Equal(t, "8.00", minutesToHours(480))
	assert.Equal(t, "-2.25", minutesToHours(-135))
	assert.Equal(t, "0.17", minutesToHours(10))
}

func TestHalfDayUnitsToDays(t *testing.T) {
	assert.Equal(t, "0.00", halfDayUnitsToDays(0))
	assert.Equal(t, "0.50", halfDayUnitsToDays(1))
	assert.Equal(t, "1.00", halfDayUnitsToDays(2))
	assert.Equal(t, "2.50", halfDayUnitsToDays(5))
}

func TestAccountValue(t *testing.T) {
	value := timesheet.MonthlyValue{
		EmployeeID:         "emp-1",
		NetMinutes:         9600,
		TargetMinutes:      9900,
		OvertimeMinutes:    120,
		UndertimeMinutes:   420,
		FlextimeEndMinutes: -300,
	}
	units := map[string]map[string]int{
		"emp-1": {"vacation": 4, "sickness": 1},
	}

	cases := []struct {
		source string
		want   string
	}{
		{export.SourceNet, "160.00"},
		{export.SourceTarget, "165.00"},
		{export.SourceOvertime, "2.00"},
		{export.SourceUndertime, "7.00"},
		{export.SourceFlextimeEnd, "-5.00"},
		{export.SourceAbsenceVacation, "2.00"},
		{export.SourceAbsenceSickness, "0.50"},
		{export.SourceAbsenceSpecial, "0.00"},
	}

	for _, tc := range cases {
		t.Run(tc.source, func(t *testing.T) {
			got := accountValue(export.Assignment{Source: tc.source}, value, units)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRenderPayrollCSV(t *testing.T) {
	iface := export.Interface{
		ID:   "if-1",
		Name: "DATEV",
		Assignments: []export.Assignment{
			{AccountNumber: "8000", AccountName: "Worked hours", Source: export.SourceNet, Unit: "hours"},
			{AccountNumber: "8010", AccountName: "Overtime", Source: export.SourceOvertime, Unit: "hours"},
			{AccountNumber: "8200", AccountName: "Vacation days", Source: export.SourceAbsenceVacation, Unit: "days"},
		},
	}

	values := []timesheet.MonthlyValue{
		{
			Month:           "2025-03",
			EmployeeID:      "emp-1",
			EmployeeCode:    "1001",
			EmployeeName:    "Muster, Max",
			NetMinutes:      9600,
			OvertimeMinutes: 90,
		},
		{
			Month:        "2025-03",
			EmployeeID:   "emp-2",
			EmployeeCode: "1002",
			EmployeeName: "Beispiel, Erika",
			NetMinutes:   4800,
		},
	}
	units := map[string]map[string]int{
		"emp-1": {"vacation": 2},
	}

	data, lines := renderPayrollCSV(iface, values, units)

	assert.Equal(t, 6, lines)

	rows := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	assert.Len(t, rows, 7)
	assert.Equal(t, "month;employee_code;employee_name;account_number;account_name;value;unit", rows[0])
	assert.Equal(t, "2025-03;1001;Muster, Max;8000;Worked hours;160.00;hours", rows[1])
	assert.Equal(t, "2025-03;1001;Muster, Max;8010;Overtime;1.50;hours", rows[2])
	assert.Equal(t, "2025-03;1001;Muster, Max;8200;Vacation days;1.00;days", rows[3])
	assert.Equal(t, "2025-03;1002;Beispiel, Erika;8000;Worked hours;80.00;hours", rows[4])
	assert.Equal(t, "2025-03;1002;Beispiel, Erika;8200;Vacation days;0.00;days", rows[6])
}

func TestRenderPayrollCSV_Empty(t *testing.T) {
	iface := export.Interface{Assignments: []export.Assignment{
		{AccountNumber: "8000", Source: export.SourceNet, Unit: "hours"},
	}}

	data, lines := renderPayrollCSV(iface, nil, nil)

	assert.Equal(t, 0, lines)
	rows := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	assert.Len(t, rows, 1)
}
