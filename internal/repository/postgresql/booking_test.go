package postgresql

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"

	"github.com/zmi-time/zmi-backend-go/internal/domain/booking"
	"github.com/zmi-time/zmi-backend-go/internal/pkg/database"
)

type stubBookingRow struct {
	scanFn func(dest ...interface{}) error
}

func (s stubBookingRow) Scan(dest ...interface{}) error {
	return s.scanFn(dest...)
}

// mockTxContext begins a transaction on the mock pool and injects it into the
// context the same way WithTransaction does, so the repository routes its
// queries through the mock.
func mockTxContext(t *testing.T, mock pgxmock.PgxPoolIface) context.Context {
	t.Helper()

	mock.ExpectBegin()
	tx, err := mock.Begin(context.Background())
	if err != nil {
		t.Fatalf("failed to begin mock transaction: %v", err)
	}

	return context.WithValue(context.Background(), "tx", tx)
}

func TestScanBooking(t *testing.T) {
	t.Parallel()

	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	createdAt := time.Now().UTC()
	note := "forgot badge, entered manually"

	row := stubBookingRow{scanFn: func(dest ...interface{}) error {
		if len(dest) != 10 {
			return errors.New("unexpected dest length")
		}
		*(dest[0].(*string)) = "b-1"
		*(dest[1].(*string)) = "t-1"
		*(dest[2].(*string)) = "e-1"
		*(dest[3].(*time.Time)) = date
		*(dest[4].(*int)) = 480
		*(dest[5].(*booking.Direction)) = booking.DirectionCome
		*(dest[6].(*booking.Origin)) = booking.OriginWeb
		*(dest[7].(**string)) = &note
		*(dest[8].(*time.Time)) = createdAt
		*(dest[9].(*time.Time)) = createdAt
		return nil
	}}

	b, err := scanBooking(row)
	if err != nil {
		t.Fatalf("scanBooking returned error: %v", err)
	}

	if b.ID != "b-1" || b.EmployeeID != "e-1" {
		t.Fatalf("unexpected booking identity: %+v", b)
	}
	if b.Minute != 480 || b.Direction != booking.DirectionCome {
		t.Fatalf("unexpected punch data: %+v", b)
	}
	if b.Note == nil || *b.Note != note {
		t.Fatalf("expected note %q, got %+v", note, b.Note)
	}
	if got := b.TimeOfDay(); got != "08:00" {
		t.Fatalf("expected time of day 08:00, got %s", got)
	}
}

func TestBookingRepository_GetByID_NotFound(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	ctx := mockTxContext(t, mock)
	repo := NewBookingRepository(&database.DB{})

	query := regexp.QuoteMeta(`
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE id = $1 AND tenant_id = $2
	`)

	mock.ExpectQuery(query).
		WithArgs("missing", "t-1").
		WillReturnError(pgx.ErrNoRows)

	_, err = repo.GetByID(ctx, "t-1", "missing")
	if !errors.Is(err, booking.ErrBookingNotFound) {
		t.Fatalf("expected ErrBookingNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookingRepository_List_WithFilters(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	ctx := mockTxContext(t, mock)
	repo := NewBookingRepository(&database.DB{})

	query := regexp.QuoteMeta(`
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE tenant_id = $1 AND employee_id = $2 AND date >= $3 AND date <= $4
		ORDER BY date DESC, minute DESC
		LIMIT 500
	`)

	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	now := time.Now().UTC()
	rows := pgxmock.NewRows([]string{"id", "tenant_id", "employee_id", "date", "minute", "direction", "origin", "note", "created_at", "updated_at"}).
		AddRow("b-2", "t-1", "e-1", date, 1020, booking.DirectionGo, booking.OriginTerminal, nil, now, now).
		AddRow("b-1", "t-1", "e-1", date, 480, booking.DirectionCome, booking.OriginTerminal, nil, now, now)

	mock.ExpectQuery(query).
		WithArgs("t-1", "e-1", "2025-03-01", "2025-03-31").
		WillReturnRows(rows)

	employeeID := "e-1"
	from := "2025-03-01"
	to := "2025-03-31"
	bookings, err := repo.List(ctx, "t-1", booking.BookingFilter{
		EmployeeID: &employeeID,
		From:       &from,
		To:         &to,
	})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}

	if len(bookings) != 2 {
		t.Fatalf("expected 2 bookings, got %d", len(bookings))
	}
	if bookings[0].Minute != 1020 || bookings[1].Minute != 480 {
		t.Fatalf("expected newest booking first, got %+v", bookings)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookingRepository_Exists(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	ctx := mockTxContext(t, mock)
	repo := NewBookingRepository(&database.DB{})

	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("t-1", "e-1", date, 480, booking.DirectionCome).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.Exists(ctx, "t-1", "e-1", date, 480, booking.DirectionCome)
	if err != nil {
		t.Fatalf("Exists returned error: %v", err)
	}
	if !exists {
		t.Fatalf("expected duplicate punch to be reported")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookingRepository_Delete_NotFound(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	ctx := mockTxContext(t, mock)
	repo := NewBookingRepository(&database.DB{})

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM bookings WHERE id = $1 AND tenant_id = $2`)).
		WithArgs("missing", "t-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err = repo.Delete(ctx, "t-1", "missing")
	if !errors.Is(err, booking.ErrBookingNotFound) {
		t.Fatalf("expected ErrBookingNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
