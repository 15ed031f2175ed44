package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/zmi-time/zmi-backend-go/internal/domain/macro"
	"github.com/zmi-time/zmi-backend-go/internal/pkg/database"
)

const macroColumns = `id, tenant_id, name, action, schedule, run_day, run_month, tariff_id, employee_id, active, last_run_at, created_at, updated_at`

type macroRepositoryImpl struct {
	db *database.DB
}

func NewMacroRepository(db *database.DB) macro.Repository {
	return &macroRepositoryImpl{db: db}
}

func scanMacro(row pgx.Row) (macro.Macro, error) {
	var m macro.Macro
	err := row.Scan(
		&m.ID,
		&m.TenantID,
		&m.Name,
		&m.Action,
		&m.Schedule,
		&m.RunDay,
		&m.RunMonth,
		&m.TariffID,
		&m.EmployeeID,
		&m.Active,
		&m.LastRunAt,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	return m, err
}

// Create implements macro.Repository.
func (r *macroRepositoryImpl) Create(ctx context.Context, newMacro macro.Macro) (macro.Macro, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		INSERT INTO macros (tenant_id, name, action, schedule, run_day, run_month, tariff_id, employee_id, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING %s
	`, macroColumns)

	created, err := scanMacro(q.QueryRow(ctx, query,
		newMacro.TenantID, newMacro.Name, newMacro.Action, newMacro.Schedule,
		newMacro.RunDay, newMacro.RunMonth, newMacro.TariffID, newMacro.EmployeeID, newMacro.Active,
	))
	if err != nil {
		return macro.Macro{}, fmt.Errorf("failed to create macro: %w", err)
	}

	return created, nil
}

// GetByID implements macro.Repository.
func (r *macroRepositoryImpl) GetByID(ctx context.Context, tenantID, id string) (macro.Macro, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`SELECT %s FROM macros WHERE id = $1 AND tenant_id = $2`, macroColumns)

	found, err := scanMacro(q.QueryRow(ctx, query, id, tenantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return macro.Macro{}, macro.ErrMacroNotFound
		}
		return macro.Macro{}, fmt.Errorf("failed to get macro: %w", err)
	}

	return found, nil
}

// List implements macro.Repository.
func (r *macroRepositoryImpl) List(ctx context.Context, tenantID string) ([]macro.Macro, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`SELECT %s FROM macros WHERE tenant_id = $1 ORDER BY name ASC`, macroColumns)

	rows, err := q.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list macros: %w", err)
	}
	defer rows.Close()

	return collectMacros(rows)
}

// ListActiveScheduled implements macro.Repository. It spans all tenants
// because the nightly scheduler runs once for the whole instance.
func (r *macroRepositoryImpl) ListActiveScheduled(ctx context.Context) ([]macro.Macro, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s FROM macros
		WHERE active = TRUE AND schedule != $1
		ORDER BY tenant_id, name ASC
	`, macroColumns)

	rows, err := q.Query(ctx, query, macro.ScheduleManual)
	if err != nil {
		return nil, fmt.Errorf("failed to list scheduled macros: %w", err)
	}
	defer rows.Close()

	return collectMacros(rows)
}

func collectMacros(rows pgx.Rows) ([]macro.Macro, error) {
	var macros []macro.Macro
	for rows.Next() {
		m, err := scanMacro(rows)
		if err != nil {
			return nil, err
		}
		macros = append(macros, m)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return macros, nil
}

// Update implements macro.Repository.
func (r *macroRepositoryImpl) Update(ctx context.Context, tenantID string, req macro.UpdateMacroRequest) error {
	q := GetQuerier(ctx, r.db)

	updates := make(map[string]interface{})

	if req.Name != nil && *req.Name != "" {
		updates["name"] = *req.Name
	}
	if req.Action != nil && *req.Action != "" {
		updates["action"] = *req.Action
	}
	if req.Schedule != nil && *req.Schedule != "" {
		updates["schedule"] = *req.Schedule
	}
	if req.RunDay != nil {
		updates["run_day"] = *req.RunDay
	}
	if req.RunMonth != nil {
		updates["run_month"] = *req.RunMonth
	}
	if req.TariffID != nil {
		if *req.TariffID == "" {
			updates["tariff_id"] = nil
		} else {
			updates["tariff_id"] = *req.TariffID
		}
	}
	if req.EmployeeID != nil {
		if *req.EmployeeID == "" {
			updates["employee_id"] = nil
		} else {
			updates["employee_id"] = *req.EmployeeID
		}
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}

	if len(updates) == 0 {
		return nil // No updates provided
	}
	updates["updated_at"] = time.Now()

	setClauses := make([]string, 0, len(updates))
	args := make([]interface{}, 0, len(updates)+2)
	i := 1
	for col, val := range updates {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, i))
		args = append(args, val)
		i++
	}

	sql := fmt.Sprintf("UPDATE macros SET %s WHERE id = $%d AND tenant_id = $%d RETURNING id", strings.Join(setClauses, ", "), i, i+1)
	args = append(args, req.ID, tenantID)

	var updatedID string
	if err := q.QueryRow(ctx, sql, args...).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return macro.ErrMacroNotFound
		}
		return fmt.Errorf("failed to update macro: %w", err)
	}

	return nil
}

// Delete implements macro.Repository.
func (r *macroRepositoryImpl) Delete(ctx context.Context, tenantID, id string) error {
	q := GetQuerier(ctx, r.db)

	query := `DELETE FROM macros WHERE id = $1 AND tenant_id = $2`

	tag, err := q.Exec(ctx, query, id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete macro: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return macro.ErrMacroNotFound
	}

	return nil
}

// SetLastRunAt implements macro.Repository.
func (r *macroRepositoryImpl) SetLastRunAt(ctx context.Context, tenantID, id string, runAt time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE macros
		SET last_run_at = $1, updated_at = NOW()
		WHERE id = $2 AND tenant_id = $3
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query, runAt, id, tenantID).Scan(&updatedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return macro.ErrMacroNotFound
		}
		return fmt.Errorf("failed to set macro last run: %w", err)
	}

	return nil
}
