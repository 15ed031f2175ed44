package tenant

import "context"

type TenantRepository interface {
	Create(ctx context.Context, newTenant Tenant) (Tenant, error)
	GetByID(ctx context.Context, id string) (Tenant, error)
	GetByCode(ctx context.Context, code string) (Tenant, error)
	List(ctx context.Context) ([]Tenant, error)
	Update(ctx context.Context, id string, req UpdateTenantRequest) error
	Delete(ctx context.Context, id string) error
	CountEmployees(ctx context.Context, id string) (int64, error)
}
