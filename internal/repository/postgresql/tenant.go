package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/zmi-time/zmi-backend-go/internal/domain/tenant"
	"github.com/zmi-time/zmi-backend-go/internal/pkg/database"
)

type tenantRepositoryImpl struct {
	db *database.DB
}

func NewTenantRepository(db *database.DB) tenant.TenantRepository {
	return &tenantRepositoryImpl{db: db}
}

// Create implements tenant.TenantRepository.
func (r *tenantRepositoryImpl) Create(ctx context.Context, newTenant tenant.Tenant) (tenant.Tenant, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO tenants (code, name, timezone, notify_email)
		VALUES ($1, $2, $3, $4)
		RETURNING id, code, name, timezone, notify_email, created_at, updated_at
	`

	var created tenant.Tenant
	err := q.QueryRow(ctx, query,
		newTenant.Code,
		newTenant.Name,
		newTenant.Timezone,
		newTenant.NotifyEmail,
	).Scan(
		&created.ID,
		&created.Code,
		&created.Name,
		&created.Timezone,
		&created.NotifyEmail,
		&created.CreatedAt,
		&created.UpdatedAt,
	)
	if err != nil {
		return tenant.Tenant{}, fmt.Errorf("failed to create tenant: %w", err)
	}

	return created, nil
}

// GetByID implements tenant.TenantRepository.
func (r *tenantRepositoryImpl) GetByID(ctx context.Context, id string) (tenant.Tenant, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, code, name, timezone, notify_email, created_at, updated_at
		FROM tenants
		WHERE id = $1
	`

	var found tenant.Tenant
	err := q.QueryRow(ctx, query, id).Scan(
		&found.ID,
		&found.Code,
		&found.Name,
		&found.Timezone,
		&found.NotifyEmail,
		&found.CreatedAt,
		&found.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return tenant.Tenant{}, tenant.ErrTenantNotFound
		}
		return tenant.Tenant{}, fmt.Errorf("failed to get tenant: %w", err)
	}

	return found, nil
}

// GetByCode implements tenant.TenantRepository.
func (r *tenantRepositoryImpl) GetByCode(ctx context.Context, code string) (tenant.Tenant, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, code, name, timezone, notify_email, created_at, updated_at
		FROM tenants
		WHERE code = $1
	`

	var found tenant.Tenant
	err := q.QueryRow(ctx, query, code).Scan(
		&found.ID,
		&found.Code,
		&found.Name,
		&found.Timezone,
		&found.NotifyEmail,
		&found.CreatedAt,
		&found.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return tenant.Tenant{}, tenant.ErrTenantNotFound
		}
		return tenant.Tenant{}, fmt.Errorf("failed to get tenant by code: %w", err)
	}

	return found, nil
}

// List implements tenant.TenantRepository.
func (r *tenantRepositoryImpl) List(ctx context.Context) ([]tenant.Tenant, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, code, name, timezone, notify_email, created_at, updated_at
		FROM tenants
		ORDER BY code ASC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	defer rows.Close()

	var tenants []tenant.Tenant
	for rows.Next() {
		var t tenant.Tenant
		err := rows.Scan(
			&t.ID,
			&t.Code,
			&t.Name,
			&t.Timezone,
			&t.NotifyEmail,
			&t.CreatedAt,
			&t.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		tenants = append(tenants, t)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return tenants, nil
}

// Update implements tenant.TenantRepository.
func (r *tenantRepositoryImpl) Update(ctx context.Context, id string, req tenant.UpdateTenantRequest) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE tenants
		SET name = COALESCE($1, name),
			timezone = COALESCE($2, timezone),
			notify_email = COALESCE($3, notify_email),
			updated_at = NOW()
		WHERE id = $4
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query, req.Name, req.Timezone, req.NotifyEmail, id).Scan(&updatedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return tenant.ErrTenantNotFound
		}
		return fmt.Errorf("failed to update tenant: %w", err)
	}

	return nil
}

// Delete implements tenant.TenantRepository.
func (r *tenantRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	query := `DELETE FROM tenants WHERE id = $1`

	tag, err := q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete tenant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return tenant.ErrTenantNotFound
	}

	return nil
}

// CountEmployees implements tenant.TenantRepository.
func (r *tenantRepositoryImpl) CountEmployees(ctx context.Context, id string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT COUNT(*) FROM employees WHERE tenant_id = $1`

	var count int64
	err := q.QueryRow(ctx, query, id).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count employees: %w", err)
	}

	return count, nil
}
