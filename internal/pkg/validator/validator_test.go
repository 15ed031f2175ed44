package validator

import (
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"test@example.com", "user.name+1@domain.co", "a@b.cd"}
	invalid := []string{"test@", "@example.com", "test@.com", "test@com", "test@domain", " ", ""}
	for _, email := range valid {
		if !IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = false, want true", email)
		}
	}
	for _, email := range invalid {
		if IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = true, want false", email)
		}
	}
}

func TestIsValidUUID(t *testing.T) {
	valid := []string{
		"123e4567-e89b-42d3-a456-426614174000", // v4, the gen_random_uuid() format
		"123E4567-E89B-42D3-A456-426614174000", // uppercase
		"0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b", // v7
	}
	invalid := []string{
		"0188d0f27b8c7b4a8a2b6b8b8b8b8b8b",     // missing dashes
		"g188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b", // invalid hex
		"123e4567-e89b-42d3-a456-42661417400",  // too short
		"",                                     // empty
	}
	for _, uuid := range valid {
		if !IsValidUUID(uuid) {
			t.Errorf("IsValidUUID(%q) = false, want true", uuid)
		}
	}
	for _, uuid := range invalid {
		if IsValidUUID(uuid) {
			t.Errorf("IsValidUUID(%q) = true, want false", uuid)
		}
	}
}

func TestIsNumeric(t *testing.T) {
	valid := []string{"123", "0", "9876543210"}
	invalid := []string{"abc", "123a", "", "-123"}
	for _, s := range valid {
		if !IsNumeric(s) {
			t.Errorf("IsNumeric(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsNumeric(s) {
			t.Errorf("IsNumeric(%q) = true, want false", s)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2023-01-01", "2000-12-31"}
	invalid := []string{"2023-13-01", "2023-01-32", "2023/01/01", "01-01-2023", ""}
	for _, s := range valid {
		_, ok := IsValidDate(s)
		if !ok {
			t.Errorf("IsValidDate(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		_, ok := IsValidDate(s)
		if ok {
			t.Errorf("IsValidDate(%q) = true, want false", s)
		}
	}
}

func TestIsValidMonth(t *testing.T) {
	valid := []string{"2025-01", "2000-12"}
	invalid := []string{"2025-13", "2025-00", "2025/01", "2025-1", "2025-01-01", ""}
	for _, s := range valid {
		month, ok := IsValidMonth(s)
		if !ok {
			t.Errorf("IsValidMonth(%q) = false, want true", s)
		}
		if ok && month.Day() != 1 {
			t.Errorf("IsValidMonth(%q) day = %d, want 1", s, month.Day())
		}
	}
	for _, s := range invalid {
		_, ok := IsValidMonth(s)
		if ok {
			t.Errorf("IsValidMonth(%q) = true, want false", s)
		}
	}
}

func TestIsValidTimeOfDay(t *testing.T) {
	cases := []struct {
		input   string
		minutes int
		ok      bool
	}{
		{"00:00", 0, true},
		{"08:30", 510, true},
		{"23:59", 1439, true},
		{"24:00", 0, false},
		{"12:60", 0, false},
		{"8:30", 0, false},
		{"0830", 0, false},
		{"ab:cd", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		minutes, ok := IsValidTimeOfDay(c.input)
		if ok != c.ok {
			t.Errorf("IsValidTimeOfDay(%q) ok = %v, want %v", c.input, ok, c.ok)
		}
		if ok && minutes != c.minutes {
			t.Errorf("IsValidTimeOfDay(%q) = %d, want %d", c.input, minutes, c.minutes)
		}
	}
}

func TestIsValidTenantCode(t *testing.T) {
	valid := []string{"acme", "acme-01", "ZMI_Demo", "ab"}
	invalid := []string{"a", "with space", "über", "", "way-too-long-tenant-code-here"}
	for _, code := range valid {
		if !IsValidTenantCode(code) {
			t.Errorf("IsValidTenantCode(%q) = false, want true", code)
		}
	}
	for _, code := range invalid {
		if IsValidTenantCode(code) {
			t.Errorf("IsValidTenantCode(%q) = true, want false", code)
		}
	}
}

func TestIsValidEmployeeCode(t *testing.T) {
	valid := []string{"1001", "0001-0042", "7"}
	invalid := []string{"", "abc", "1001-", "-1001", "1001-0042-7", "123456789"}
	for _, code := range valid {
		if !IsValidEmployeeCode(code) {
			t.Errorf("IsValidEmployeeCode(%q) = false, want true", code)
		}
	}
	for _, code := range invalid {
		if IsValidEmployeeCode(code) {
			t.Errorf("IsValidEmployeeCode(%q) = true, want false", code)
		}
	}
}

func TestIsValidBadgeNumber(t *testing.T) {
	valid := []string{"1", "00012345", "99999999999999999999"}
	invalid := []string{"", "12a", "123456789012345678901", "-5"}
	for _, badge := range valid {
		if !IsValidBadgeNumber(badge) {
			t.Errorf("IsValidBadgeNumber(%q) = false, want true", badge)
		}
	}
	for _, badge := range invalid {
		if IsValidBadgeNumber(badge) {
			t.Errorf("IsValidBadgeNumber(%q) = true, want false", badge)
		}
	}
}

func TestIsValidAbsenceCode(t *testing.T) {
	valid := []string{"U", "KR", "F"}
	invalid := []string{"", "u", "KRA", "K1", "1"}
	for _, code := range valid {
		if !IsValidAbsenceCode(code) {
			t.Errorf("IsValidAbsenceCode(%q) = false, want true", code)
		}
	}
	for _, code := range invalid {
		if IsValidAbsenceCode(code) {
			t.Errorf("IsValidAbsenceCode(%q) = true, want false", code)
		}
	}
}

func TestIsValidAccountNumber(t *testing.T) {
	valid := []string{"100", "9", "1234567890"}
	invalid := []string{"", "12345678901", "1a0", "-10"}
	for _, number := range valid {
		if !IsValidAccountNumber(number) {
			t.Errorf("IsValidAccountNumber(%q) = false, want true", number)
		}
	}
	for _, number := range invalid {
		if IsValidAccountNumber(number) {
			t.Errorf("IsValidAccountNumber(%q) = true, want false", number)
		}
	}
}

func TestIsInSlice(t *testing.T) {
	slice := []string{"a", "b", "c"}
	if !IsInSlice("a", slice) {
		t.Errorf("IsInSlice('a') = false, want true")
	}
	if IsInSlice("d", slice) {
		t.Errorf("IsInSlice('d') = true, want false")
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "email", Message: "invalid"},
		{Field: "code", Message: "required"},
	}
	got := errs.Error()
	want := "email: invalid; code: required"
	if got != want {
		t.Errorf("ValidationErrors.Error() = %q, want %q", got, want)
	}
}

func TestValidationErrors_ToMap(t *testing.T) {
	errs := ValidationErrors{
		{Field: "email", Message: "invalid"},
		{Field: "code", Message: "required"},
	}
	got := errs.ToMap()
	want := map[string]string{"email": "invalid", "code": "required"}
	if len(got) != len(want) {
		t.Errorf("ValidationErrors.ToMap() length = %d, want %d", len(got), len(want))
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("ValidationErrors.ToMap()[%q] = %q, want %q", k, got[k], v)
		}
	}
}
