package absence

import "time"

type Category string

const (
	CategoryVacation Category = "vacation"
	CategorySickness Category = "sickness"
	CategorySpecial  Category = "special"
	CategoryUnpaid   Category = "unpaid"
)

// ValidCategories lists the accepted category values for validation messages.
var ValidCategories = []string{
	string(CategoryVacation), string(CategorySickness),
	string(CategorySpecial), string(CategoryUnpaid),
}

type Credit string

const (
	CreditFull Credit = "full" // credits the whole daily target
	CreditHalf Credit = "half" // credits half the daily target
	CreditNone Credit = "none" // counts the day but credits nothing
)

var ValidCredits = []string{string(CreditFull), string(CreditHalf), string(CreditNone)}

// AbsenceType is a tenant-defined absence kind, e.g. "U" vacation.
type AbsenceType struct {
	ID        string
	TenantID  string
	Code      string // one or two uppercase letters, immutable
	Name      string
	Category  Category
	Credit    Credit
	Paid      bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Absence covers an employee for a date range with one absence type.
type Absence struct {
	ID         string
	TenantID   string
	EmployeeID string
	TypeID     string
	FromDate   time.Time
	ToDate     time.Time
	HalfDay    bool // only valid when FromDate equals ToDate
	Note       *string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Joined for responses and the calculation pass
	TypeCode   string
	TypeCredit Credit
}
