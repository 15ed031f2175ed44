package tenant

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/zmi-time/zmi-backend-go/internal/domain/absence"
	"github.com/zmi-time/zmi-backend-go/internal/domain/audit"
	"github.com/zmi-time/zmi-backend-go/internal/domain/export"
	"github.com/zmi-time/zmi-backend-go/internal/domain/tariff"
	"github.com/zmi-time/zmi-backend-go/internal/domain/tenant"
	"github.com/zmi-time/zmi-backend-go/internal/fixtures"
	"github.com/zmi-time/zmi-backend-go/internal/pkg/database"
	"github.com/zmi-time/zmi-backend-go/internal/pkg/validator"
	"github.com/zmi-time/zmi-backend-go/internal/repository/postgresql"
)

type TenantServiceImpl struct {
	db              *database.DB
	tenantRepo      tenant.TenantRepository
	dayPlanRepo     tariff.DayPlanRepository
	tariffRepo      tariff.TariffRepository
	absenceTypeRepo absence.TypeRepository
	accountRepo     export.AccountRepository
	auditor         audit.Recorder
}

func NewTenantService(
	db *database.DB,
	tenantRepo tenant.TenantRepository,
	dayPlanRepo tariff.DayPlanRepository,
	tariffRepo tariff.TariffRepository,
	absenceTypeRepo absence.TypeRepository,
	accountRepo export.AccountRepository,
	auditor audit.Recorder,
) tenant.TenantService {
	return &TenantServiceImpl{
		db:              db,
		tenantRepo:      tenantRepo,
		dayPlanRepo:     dayPlanRepo,
		tariffRepo:      tariffRepo,
		absenceTypeRepo: absenceTypeRepo,
		accountRepo:     accountRepo,
		auditor:         auditor,
	}
}

func mapTenantToResponse(t tenant.Tenant) tenant.TenantResponse {
	return tenant.TenantResponse{
		ID:          t.ID,
		Code:        t.Code,
		Name:        t.Name,
		Timezone:    t.Timezone,
		NotifyEmail: t.NotifyEmail,
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   t.UpdatedAt.Format(time.RFC3339),
	}
}

// CreateTenant implements tenant.TenantService. The new tenant is seeded
// with default day plans, a full-time tariff, the standard absence
// catalogue and the standard wage accounts, all in one transaction.
func (s *TenantServiceImpl) CreateTenant(ctx context.Context, req tenant.CreateTenantRequest) (tenant.TenantResponse, error) {
	if err := req.Validate(); err != nil {
		return tenant.TenantResponse{}, err
	}

	_, err := s.tenantRepo.GetByCode(ctx, req.Code)
	if err == nil {
		return tenant.TenantResponse{}, tenant.ErrTenantCodeExists
	}
	if err != tenant.ErrTenantNotFound {
		return tenant.TenantResponse{}, fmt.Errorf("failed to check tenant code: %w", err)
	}

	var created tenant.Tenant
	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		created, err = s.tenantRepo.Create(txCtx, tenant.Tenant{
			Code:        req.Code,
			Name:        req.Name,
			Timezone:    req.Timezone,
			NotifyEmail: req.NotifyEmail,
		})
		if err != nil {
			return fmt.Errorf("failed to create tenant: %w", err)
		}

		return s.seedDefaults(txCtx, created.ID)
	})
	if err != nil {
		return tenant.TenantResponse{}, err
	}

	s.auditor.Record(ctx, audit.Event{
		TenantID:   created.ID,
		Action:     "tenant.create",
		EntityType: "tenant",
		EntityID:   &created.ID,
		Detail:     map[string]interface{}{"code": created.Code, "name": created.Name},
	})

	return mapTenantToResponse(created), nil
}

func (s *TenantServiceImpl) seedDefaults(ctx context.Context, tenantID string) error {
	var standardPlanID string
	for _, plan := range fixtures.GetDefaultDayPlans(tenantID) {
		created, err := s.dayPlanRepo.Create(ctx, plan)
		if err != nil {
			return fmt.Errorf("failed to seed day plan %s: %w", plan.Code, err)
		}
		if standardPlanID == "" {
			standardPlanID = created.ID
		}
	}

	if _, err := s.tariffRepo.Create(ctx, fixtures.GetDefaultTariff(tenantID, standardPlanID)); err != nil {
		return fmt.Errorf("failed to seed tariff: %w", err)
	}

	for _, absenceType := range fixtures.GetDefaultAbsenceTypes(tenantID) {
		if _, err := s.absenceTypeRepo.Create(ctx, absenceType); err != nil {
			return fmt.Errorf("failed to seed absence type %s: %w", absenceType.Code, err)
		}
	}

	for _, account := range fixtures.GetDefaultAccounts(tenantID) {
		if _, err := s.accountRepo.Create(ctx, account); err != nil {
			return fmt.Errorf("failed to seed account %s: %w", account.Number, err)
		}
	}

	return nil
}

// GetTenant implements tenant.TenantService.
func (s *TenantServiceImpl) GetTenant(ctx context.Context, id string) (tenant.TenantResponse, error) {
	found, err := s.tenantRepo.GetByID(ctx, id)
	if err != nil {
		return tenant.TenantResponse{}, err
	}
	return mapTenantToResponse(found), nil
}

// ListTenants implements tenant.TenantService.
func (s *TenantServiceImpl) ListTenants(ctx context.Context) (tenant.ListTenantResponse, error) {
	tenants, err := s.tenantRepo.List(ctx)
	if err != nil {
		return tenant.ListTenantResponse{}, err
	}

	response := tenant.ListTenantResponse{
		TotalCount: int64(len(tenants)),
		Tenants:    make([]tenant.TenantResponse, 0, len(tenants)),
	}
	for _, t := range tenants {
		response.Tenants = append(response.Tenants, mapTenantToResponse(t))
	}

	return response, nil
}

// UpdateTenant implements tenant.TenantService. The code is immutable and a
// differing code in the request is rejected.
func (s *TenantServiceImpl) UpdateTenant(ctx context.Context, req tenant.UpdateTenantRequest) (tenant.TenantResponse, error) {
	if err := req.Validate(); err != nil {
		return tenant.TenantResponse{}, err
	}

	existing, err := s.tenantRepo.GetByID(ctx, req.ID)
	if err != nil {
		return tenant.TenantResponse{}, err
	}
	if req.Code != nil && *req.Code != existing.Code {
		return tenant.TenantResponse{}, validator.ValidationErrors{{
			Field:   "code",
			Message: "code is immutable and cannot be changed",
		}}
	}

	if err := s.tenantRepo.Update(ctx, req.ID, req); err != nil {
		return tenant.TenantResponse{}, err
	}

	updated, err := s.tenantRepo.GetByID(ctx, req.ID)
	if err != nil {
		return tenant.TenantResponse{}, err
	}

	s.auditor.Record(ctx, audit.Event{
		TenantID:   updated.ID,
		Action:     "tenant.update",
		EntityType: "tenant",
		EntityID:   &updated.ID,
		Detail:     map[string]interface{}{"code": updated.Code, "name": updated.Name},
	})

	return mapTenantToResponse(updated), nil
}

// DeleteTenant implements tenant.TenantService. A tenant that still has
// employees cannot be deleted.
func (s *TenantServiceImpl) DeleteTenant(ctx context.Context, id string) error {
	existing, err := s.tenantRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	count, err := s.tenantRepo.CountEmployees(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return tenant.ErrTenantInUse
	}

	if err := s.tenantRepo.Delete(ctx, id); err != nil {
		return err
	}

	// The tenant's audit trail cascades away with the tenant row, so the
	// deletion is only traced in the server log.
	slog.Info("tenant deleted", "tenant_id", id, "code", existing.Code, "name", existing.Name)

	return nil
}
