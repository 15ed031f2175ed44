package tenant

import "context"

type TenantService interface {
	CreateTenant(ctx context.Context, req CreateTenantRequest) (TenantResponse, error)
	GetTenant(ctx context.Context, id string) (TenantResponse, error)
	ListTenants(ctx context.Context) (ListTenantResponse, error)
	UpdateTenant(ctx context.Context, req UpdateTenantRequest) (TenantResponse, error)
	DeleteTenant(ctx context.Context, id string) error
}
