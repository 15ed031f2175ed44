package tariff

import "context"

type DayPlanRepository interface {
	Create(ctx context.Context, plan DayPlan) (DayPlan, error)
	GetByID(ctx context.Context, tenantID, id string) (DayPlan, error)
	List(ctx context.Context, tenantID string) ([]DayPlan, error)
	ExistsByCode(ctx context.Context, tenantID, code string) (bool, error)
	Update(ctx context.Context, tenantID string, req UpdateDayPlanRequest) error
	Delete(ctx context.Context, tenantID, id string) error
	CountTariffReferences(ctx context.Context, tenantID, id string) (int64, error)
}

type TariffRepository interface {
	Create(ctx context.Context, t Tariff) (Tariff, error)
	GetByID(ctx context.Context, tenantID, id string) (Tariff, error)
	List(ctx context.Context, tenantID string) ([]Tariff, error)
	ExistsByCode(ctx context.Context, tenantID, code string) (bool, error)
	Update(ctx context.Context, tenantID string, req UpdateTariffRequest) error
	Delete(ctx context.Context, tenantID, id string) error
	CountEmployeeReferences(ctx context.Context, tenantID, id string) (int64, error)
}
