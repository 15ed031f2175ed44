package macro

import (
	"testing"
)

func strPtr(s string) *string { return &s }

func TestCreateMacroRequestValidate(t *testing.T) {
	valid := CreateMacroRequest{
		Name:     "Monatsabschluss",
		Action:   string(ActionCarryForwardBalance),
		Schedule: string(ScheduleMonthly),
		RunDay:   1,
		Active:   true,
	}

	cases := []struct {
		name    string
		mutate  func(r *CreateMacroRequest)
		wantErr bool
	}{
		{
			name:    "valid monthly macro",
			mutate:  func(r *CreateMacroRequest) {},
			wantErr: false,
		},
		{
			name: "manual schedule skips run_day check",
			mutate: func(r *CreateMacroRequest) {
				r.Schedule = string(ScheduleManual)
				r.RunDay = 0
			},
			wantErr: false,
		},
		{
			name:    "unknown action",
			mutate:  func(r *CreateMacroRequest) { r.Action = "delete_everything" },
			wantErr: true,
		},
		{
			name:    "run_day above 28 would skip February",
			mutate:  func(r *CreateMacroRequest) { r.RunDay = 31 },
			wantErr: true,
		},
		{
			name: "yearly needs a run_month",
			mutate: func(r *CreateMacroRequest) {
				r.Schedule = string(ScheduleYearly)
				r.RunMonth = 0
			},
			wantErr: true,
		},
		{
			name:    "tariff scope alone is fine",
			mutate:  func(r *CreateMacroRequest) { r.TariffID = strPtr("tariff-1") },
			wantErr: false,
		},
		{
			name:    "employee scope alone is fine",
			mutate:  func(r *CreateMacroRequest) { r.EmployeeID = strPtr("emp-1") },
			wantErr: false,
		},
		{
			name: "tariff and employee scope together is rejected",
			mutate: func(r *CreateMacroRequest) {
				r.TariffID = strPtr("tariff-1")
				r.EmployeeID = strPtr("emp-1")
			},
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := valid
			tc.mutate(&req)
			err := req.Validate()
			if tc.wantErr && err == nil {
				t.Errorf("Validate() = nil, want error")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
}
