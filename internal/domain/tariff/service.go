package tariff

import "context"

// TariffService manages day plans and the weekly tariffs built from them
type TariffService interface {
	CreateDayPlan(ctx context.Context, req CreateDayPlanRequest) (DayPlanResponse, error)
	GetDayPlan(ctx context.Context, id string) (DayPlanResponse, error)
	ListDayPlans(ctx context.Context) ([]DayPlanResponse, error)
	UpdateDayPlan(ctx context.Context, req UpdateDayPlanRequest) (DayPlanResponse, error)
	DeleteDayPlan(ctx context.Context, id string) error

	CreateTariff(ctx context.Context, req CreateTariffRequest) (TariffResponse, error)
	GetTariff(ctx context.Context, id string) (TariffResponse, error)
	ListTariffs(ctx context.Context) ([]TariffResponse, error)
	UpdateTariff(ctx context.Context, req UpdateTariffRequest) (TariffResponse, error)
	DeleteTariff(ctx context.Context, id string) error
}
