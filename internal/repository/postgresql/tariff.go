package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/zmi-time/zmi-backend-go/internal/domain/tariff"
	"github.com/zmi-time/zmi-backend-go/internal/pkg/database"
)

type dayPlanRepositoryImpl struct {
	db *database.DB
}

func NewDayPlanRepository(db *database.DB) tariff.DayPlanRepository {
	return &dayPlanRepositoryImpl{db: db}
}

const dayPlanColumns = `id, tenant_id, code, name, target_minutes, frame_start_minutes,
		frame_end_minutes, round_come_up_minutes, round_go_down_minutes, grace_come_minutes,
		break_start_minutes, break_end_minutes, break_rules, created_at, updated_at`

func scanDayPlan(row pgx.Row) (tariff.DayPlan, error) {
	var plan tariff.DayPlan
	var rulesJSON []byte
	err := row.Scan(
		&plan.ID, &plan.TenantID, &plan.Code, &plan.Name, &plan.TargetMinutes,
		&plan.FrameStartMinutes, &plan.FrameEndMinutes, &plan.RoundComeUpMinutes,
		&plan.RoundGoDownMinutes, &plan.GraceComeMinutes, &plan.BreakStartMinutes,
		&plan.BreakEndMinutes, &rulesJSON, &plan.CreatedAt, &plan.UpdatedAt,
	)
	if err != nil {
		return tariff.DayPlan{}, err
	}
	if len(rulesJSON) > 0 {
		if err := json.Unmarshal(rulesJSON, &plan.BreakRules); err != nil {
			return tariff.DayPlan{}, fmt.Errorf("failed to decode break rules: %w", err)
		}
	}
	return plan, nil
}

// Create implements tariff.DayPlanRepository.
func (r *dayPlanRepositoryImpl) Create(ctx context.Context, plan tariff.DayPlan) (tariff.DayPlan, error) {
	q := GetQuerier(ctx, r.db)

	rulesJSON, err := json.Marshal(plan.BreakRules)
	if err != nil {
		return tariff.DayPlan{}, fmt.Errorf("failed to encode break rules: %w", err)
	}

	query := `
		INSERT INTO day_plans (
			tenant_id, code, name, target_minutes, frame_start_minutes, frame_end_minutes,
			round_come_up_minutes, round_go_down_minutes, grace_come_minutes,
			break_start_minutes, break_end_minutes, break_rules
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + dayPlanColumns

	created, err := scanDayPlan(q.QueryRow(ctx, query,
		plan.TenantID, plan.Code, plan.Name, plan.TargetMinutes,
		plan.FrameStartMinutes, plan.FrameEndMinutes, plan.RoundComeUpMinutes,
		plan.RoundGoDownMinutes, plan.GraceComeMinutes, plan.BreakStartMinutes,
		plan.BreakEndMinutes, rulesJSON,
	))
	if err != nil {
		return tariff.DayPlan{}, fmt.Errorf("failed to create day plan: %w", err)
	}

	return created, nil
}

// GetByID implements tariff.DayPlanRepository.
func (r *dayPlanRepositoryImpl) GetByID(ctx context.Context, tenantID, id string) (tariff.DayPlan, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + dayPlanColumns + `
		FROM day_plans
		WHERE id = $1 AND tenant_id = $2
	`

	found, err := scanDayPlan(q.QueryRow(ctx, query, id, tenantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return tariff.DayPlan{}, tariff.ErrDayPlanNotFound
		}
		return tariff.DayPlan{}, fmt.Errorf("failed to get day plan: %w", err)
	}

	return found, nil
}

// List implements tariff.DayPlanRepository.
func (r *dayPlanRepositoryImpl) List(ctx context.Context, tenantID string) ([]tariff.DayPlan, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + dayPlanColumns + `
		FROM day_plans
		WHERE tenant_id = $1
		ORDER BY code ASC
	`

	rows, err := q.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list day plans: %w", err)
	}
	defer rows.Close()

	var plans []tariff.DayPlan
	for rows.Next() {
		plan, err := scanDayPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return plans, nil
}

// ExistsByCode implements tariff.DayPlanRepository.
func (r *dayPlanRepositoryImpl) ExistsByCode(ctx context.Context, tenantID, code string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT EXISTS(SELECT 1 FROM day_plans WHERE code = $1 AND tenant_id = $2)`

	var exists bool
	err := q.QueryRow(ctx, query, code, tenantID).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}

// Update implements tariff.DayPlanRepository.
func (r *dayPlanRepositoryImpl) Update(ctx context.Context, tenantID string, req tariff.UpdateDayPlanRequest) error {
	q := GetQuerier(ctx, r.db)

	updates := make(map[string]interface{})

	if req.Name != nil && *req.Name != "" {
		updates["name"] = *req.Name
	}
	if req.TargetMinutes != nil {
		updates["target_minutes"] = *req.TargetMinutes
	}
	if req.FrameStartMinutes != nil {
		updates["frame_start_minutes"] = *req.FrameStartMinutes
		updates["frame_end_minutes"] = *req.FrameEndMinutes
	}
	if req.RoundComeUpMinutes != nil {
		updates["round_come_up_minutes"] = *req.RoundComeUpMinutes
	}
	if req.RoundGoDownMinutes != nil {
		updates["round_go_down_minutes"] = *req.RoundGoDownMinutes
	}
	if req.GraceComeMinutes != nil {
		updates["grace_come_minutes"] = *req.GraceComeMinutes
	}
	if req.BreakStartMinutes != nil {
		updates["break_start_minutes"] = *req.BreakStartMinutes
		updates["break_end_minutes"] = *req.BreakEndMinutes
	}
	if req.BreakRules != nil {
		rulesJSON, err := json.Marshal(resolveBreakRules(*req.BreakRules))
		if err != nil {
			return fmt.Errorf("failed to encode break rules: %w", err)
		}
		updates["break_rules"] = rulesJSON
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

	sql := fmt.Sprintf("UPDATE day_plans SET %s WHERE id = $%d AND tenant_id = $%d RETURNING id", strings.Join(setClauses, ", "), i, i+1)
	args = append(args, req.ID, tenantID)

	var updatedID string
	if err := q.QueryRow(ctx, sql, args...).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return tariff.ErrDayPlanNotFound
		}
		return fmt.Errorf("failed to update day plan: %w", err)
	}

	return nil
}

func resolveBreakRules(reqs []tariff.BreakRuleRequest) []tariff.BreakRule {
	rules := make([]tariff.BreakRule, 0, len(reqs))
	for _, br := range reqs {
		rules = append(rules, tariff.BreakRule{
			AfterMinutes: br.AfterMinutes,
			BreakMinutes: br.BreakMinutes,
		})
	}
	return rules
}

// Delete implements tariff.DayPlanRepository.
func (r *dayPlanRepositoryImpl) Delete(ctx context.Context, tenantID, id string) error {
	q := GetQuerier(ctx, r.db)

	query := `DELETE FROM day_plans WHERE id = $1 AND tenant_id = $2`

	tag, err := q.Exec(ctx, query, id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete day plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return tariff.ErrDayPlanNotFound
	}

	return nil
}

// CountTariffReferences implements tariff.DayPlanRepository.
func (r *dayPlanRepositoryImpl) CountTariffReferences(ctx context.Context, tenantID, id string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COUNT(*) FROM tariffs
		WHERE tenant_id = $2 AND (
			mon_plan_id = $1 OR tue_plan_id = $1 OR wed_plan_id = $1 OR thu_plan_id = $1
			OR fri_plan_id = $1 OR sat_plan_id = $1 OR sun_plan_id = $1
		)
	`

	var count int64
	err := q.QueryRow(ctx, query, id, tenantID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count tariff references: %w", err)
	}

	return count, nil
}

type tariffRepositoryImpl struct {
	db *database.DB
}

func NewTariffRepository(db *database.DB) tariff.TariffRepository {
	return &tariffRepositoryImpl{db: db}
}

const tariffColumns = `id, tenant_id, code, name, mon_plan_id, tue_plan_id, wed_plan_id,
		thu_plan_id, fri_plan_id, sat_plan_id, sun_plan_id, flextime_cap_minutes,
		created_at, updated_at`

func scanTariff(row pgx.Row) (tariff.Tariff, error) {
	var t tariff.Tariff
	err := row.Scan(
		&t.ID, &t.TenantID, &t.Code, &t.Name,
		&t.WeekdayPlanIDs[0], &t.WeekdayPlanIDs[1], &t.WeekdayPlanIDs[2],
		&t.WeekdayPlanIDs[3], &t.WeekdayPlanIDs[4], &t.WeekdayPlanIDs[5],
		&t.WeekdayPlanIDs[6], &t.FlextimeCapMinutes, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

// Create implements tariff.TariffRepository.
func (r *tariffRepositoryImpl) Create(ctx context.Context, t tariff.Tariff) (tariff.Tariff, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO tariffs (
			tenant_id, code, name, mon_plan_id, tue_plan_id, wed_plan_id, thu_plan_id,
			fri_plan_id, sat_plan_id, sun_plan_id, flextime_cap_minutes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + tariffColumns

	created, err := scanTariff(q.QueryRow(ctx, query,
		t.TenantID, t.Code, t.Name,
		t.WeekdayPlanIDs[0], t.WeekdayPlanIDs[1], t.WeekdayPlanIDs[2], t.WeekdayPlanIDs[3],
		t.WeekdayPlanIDs[4], t.WeekdayPlanIDs[5], t.WeekdayPlanIDs[6], t.FlextimeCapMinutes,
	))
	if err != nil {
		return tariff.Tariff{}, fmt.Errorf("failed to create tariff: %w", err)
	}

	return created, nil
}

// GetByID implements tariff.TariffRepository.
func (r *tariffRepositoryImpl) GetByID(ctx context.Context, tenantID, id string) (tariff.Tariff, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + tariffColumns + `
		FROM tariffs
		WHERE id = $1 AND tenant_id = $2
	`

	found, err := scanTariff(q.QueryRow(ctx, query, id, tenantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return tariff.Tariff{}, tariff.ErrTariffNotFound
		}
		return tariff.Tariff{}, fmt.Errorf("failed to get tariff: %w", err)
	}

	return found, nil
}

// List implements tariff.TariffRepository.
func (r *tariffRepositoryImpl) List(ctx context.Context, tenantID string) ([]tariff.Tariff, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + tariffColumns + `
		FROM tariffs
		WHERE tenant_id = $1
		ORDER BY code ASC
	`

	rows, err := q.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tariffs: %w", err)
	}
	defer rows.Close()

	var tariffs []tariff.Tariff
	for rows.Next() {
		t, err := scanTariff(rows)
		if err != nil {
			return nil, err
		}
		tariffs = append(tariffs, t)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return tariffs, nil
}

// ExistsByCode implements tariff.TariffRepository.
func (r *tariffRepositoryImpl) ExistsByCode(ctx context.Context, tenantID, code string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT EXISTS(SELECT 1 FROM tariffs WHERE code = $1 AND tenant_id = $2)`

	var exists bool
	err := q.QueryRow(ctx, query, code, tenantID).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}

// Update implements tariff.TariffRepository.
func (r *tariffRepositoryImpl) Update(ctx context.Context, tenantID string, req tariff.UpdateTariffRequest) error {
	q := GetQuerier(ctx, r.db)

	updates := make(map[string]interface{})

	if req.Name != nil && *req.Name != "" {
		updates["name"] = *req.Name
	}
	if req.WeekdayPlanIDs != nil {
		cols := []string{"mon_plan_id", "tue_plan_id", "wed_plan_id", "thu_plan_id", "fri_plan_id", "sat_plan_id", "sun_plan_id"}
		for i, col := range cols {
			updates[col] = req.WeekdayPlanIDs[i]
		}
	}
	if req.FlextimeCapMinutes != nil {
		updates["flextime_cap_minutes"] = *req.FlextimeCapMinutes
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

	sql := fmt.Sprintf("UPDATE tariffs SET %s WHERE id = $%d AND tenant_id = $%d RETURNING id", strings.Join(setClauses, ", "), i, i+1)
	args = append(args, req.ID, tenantID)

	var updatedID string
	if err := q.QueryRow(ctx, sql, args...).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return tariff.ErrTariffNotFound
		}
		return fmt.Errorf("failed to update tariff: %w", err)
	}

	return nil
}

// Delete implements tariff.TariffRepository.
func (r *tariffRepositoryImpl) Delete(ctx context.Context, tenantID, id string) error {
	q := GetQuerier(ctx, r.db)

	query := `DELETE FROM tariffs WHERE id = $1 AND tenant_id = $2`

	tag, err := q.Exec(ctx, query, id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete tariff: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return tariff.ErrTariffNotFound
	}

	return nil
}

// CountEmployeeReferences implements tariff.TariffRepository.
func (r *tariffRepositoryImpl) CountEmployeeReferences(ctx context.Context, tenantID, id string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT COUNT(*) FROM employees WHERE tariff_id = $1 AND tenant_id = $2`

	var count int64
	err := q.QueryRow(ctx, query, id, tenantID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count employee references: %w", err)
	}

	return count, nil
}
