package holiday

import (
	"context"
	"time"
)

type HolidayRepository interface {
	Create(ctx context.Context, h Holiday) (Holiday, error)
	GetByID(ctx context.Context, tenantID, id string) (Holiday, error)
	ListByYear(ctx context.Context, tenantID string, year int) ([]Holiday, error)
	ListRange(ctx context.Context, tenantID string, from, to time.Time) ([]Holiday, error)
	ExistsOnDate(ctx context.Context, tenantID string, date time.Time, excludeID *string) (bool, error)
	Update(ctx context.Context, tenantID string, req UpdateHolidayRequest) error
	Delete(ctx context.Context, tenantID, id string) error
}
