package fixtures

import (
	"github.com/zmi-time/zmi-backend-go/internal/domain/absence"
	"github.com/zmi-time/zmi-backend-go/internal/domain/export"
	"github.com/zmi-time/zmi-backend-go/internal/domain/tariff"
)

// ==========================================
// DEFAULT DAY PLANS
// ==========================================

// GetDefaultDayPlans returns the day plans seeded for a new tenant. The
// break rules follow the German ArbZG thresholds: 30 minutes after 6 hours,
// 45 minutes after 9 hours.
func GetDefaultDayPlans(tenantID string) []tariff.DayPlan {
	statutoryBreaks := []tariff.BreakRule{
		{AfterMinutes: 360, BreakMinutes: 30},
		{AfterMinutes: 540, BreakMinutes: 45},
	}

	return []tariff.DayPlan{
		{
			TenantID:           tenantID,
			Code:               "STD8",
			Name:               "Standard 8h",
			TargetMinutes:      480,
			FrameStartMinutes:  6 * 60,
			FrameEndMinutes:    20 * 60,
			RoundComeUpMinutes: 0,
			RoundGoDownMinutes: 0,
			GraceComeMinutes:   0,
			BreakRules:         statutoryBreaks,
		},
		{
			TenantID:      tenantID,
			Code:          "HALF4",
			Name:          "Halbtags 4h",
			TargetMinutes: 240,
			BreakRules:    statutoryBreaks,
		},
	}
}

// ==========================================
// DEFAULT TARIFF
// ==========================================

// GetDefaultTariff returns the full-time tariff seeded for a new tenant.
// standardPlanID is assigned Monday through Friday, the weekend stays free.
func GetDefaultTariff(tenantID, standardPlanID string) tariff.Tariff {
	t := tariff.Tariff{
		TenantID:           tenantID,
		Code:               "FULL",
		Name:               "Vollzeit",
		FlextimeCapMinutes: 40 * 60,
	}
	for i := 0; i < 5; i++ {
		planID := standardPlanID
		t.WeekdayPlanIDs[i] = &planID
	}
	return t
}

// ==========================================
// DEFAULT ABSENCE TYPES
// ==========================================

// GetDefaultAbsenceTypes returns the standard absence catalogue for a new
// tenant. Codes follow the common German payroll shorthand.
func GetDefaultAbsenceTypes(tenantID string) []absence.AbsenceType {
	return []absence.AbsenceType{
		{TenantID: tenantID, Code: "U", Name: "Urlaub", Category: absence.CategoryVacation, Credit: absence.CreditFull, Paid: true},
		{TenantID: tenantID, Code: "K", Name: "Krank", Category: absence.CategorySickness, Credit: absence.CreditFull, Paid: true},
		{TenantID: tenantID, Code: "KK", Name: "Kind krank", Category: absence.CategorySickness, Credit: absence.CreditFull, Paid: true},
		{TenantID: tenantID, Code: "S", Name: "Sonderurlaub", Category: absence.CategorySpecial, Credit: absence.CreditFull, Paid: true},
		{TenantID: tenantID, Code: "UU", Name: "Unbezahlter Urlaub", Category: absence.CategoryUnpaid, Credit: absence.CreditNone, Paid: false},
	}
}

// ==========================================
// DEFAULT WAGE ACCOUNTS
// ==========================================

// GetDefaultAccounts returns the wage accounts seeded for a new tenant so
// that a payroll interface can be assembled without manual setup.
func GetDefaultAccounts(tenantID string) []export.Account {
	return []export.Account{
		{TenantID: tenantID, Number: "1000", Name: "Normalstunden", Source: export.SourceNet, Unit: export.UnitHours},
		{TenantID: tenantID, Number: "1100", Name: "Sollstunden", Source: export.SourceTarget, Unit: export.UnitHours},
		{TenantID: tenantID, Number: "1200", Name: "Mehrarbeit", Source: export.SourceOvertime, Unit: export.UnitHours},
		{TenantID: tenantID, Number: "1300", Name: "Gleitzeitsaldo", Source: export.SourceFlextimeEnd, Unit: export.UnitHours},
		{TenantID: tenantID, Number: "2000", Name: "Urlaubstage", Source: export.SourceAbsenceVacation, Unit: export.UnitDays},
		{TenantID: tenantID, Number: "2100", Name: "Krankheitstage", Source: export.SourceAbsenceSickness, Unit: export.UnitDays},
	}
}
