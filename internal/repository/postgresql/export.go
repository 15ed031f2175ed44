package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/zmi-time/zmi-backend-go/internal/domain/export"
	"github.com/zmi-time/zmi-backend-go/internal/pkg/database"
)

type accountRepositoryImpl struct {
	db *database.DB
}

func NewAccountRepository(db *database.DB) export.AccountRepository {
	return &accountRepositoryImpl{db: db}
}

// Create implements export.AccountRepository.
func (r *accountRepositoryImpl) Create(ctx context.Context, newAccount export.Account) (export.Account, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO accounts (tenant_id, number, name, source, unit)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, tenant_id, number, name, source, unit, created_at, updated_at
	`

	var created export.Account
	err := q.QueryRow(ctx, query,
		newAccount.TenantID, newAccount.Number, newAccount.Name, newAccount.Source, newAccount.Unit,
	).Scan(
		&created.ID,
		&created.TenantID,
		&created.Number,
		&created.Name,
		&created.Source,
		&created.Unit,
		&created.CreatedAt,
		&created.UpdatedAt,
	)
	if err != nil {
		return export.Account{}, fmt.Errorf("failed to create account: %w", err)
	}

	return created, nil
}

// GetByID implements export.AccountRepository.
func (r *accountRepositoryImpl) GetByID(ctx context.Context, tenantID, id string) (export.Account, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, tenant_id, number, name, source, unit, created_at, updated_at
		FROM accounts
		WHERE id = $1 AND tenant_id = $2
	`

	var found export.Account
	err := q.QueryRow(ctx, query, id, tenantID).Scan(
		&found.ID,
		&found.TenantID,
		&found.Number,
		&found.Name,
		&found.Source,
		&found.Unit,
		&found.CreatedAt,
		&found.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return export.Account{}, export.ErrAccountNotFound
		}
		return export.Account{}, fmt.Errorf("failed to get account: %w", err)
	}

	return found, nil
}

// List implements export.AccountRepository.
func (r *accountRepositoryImpl) List(ctx context.Context, tenantID string) ([]export.Account, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, tenant_id, number, name, source, unit, created_at, updated_at
		FROM accounts
		WHERE tenant_id = $1
		ORDER BY number ASC
	`

	rows, err := q.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []export.Account
	for rows.Next() {
		var a export.Account
		err := rows.Scan(
			&a.ID,
			&a.TenantID,
			&a.Number,
			&a.Name,
			&a.Source,
			&a.Unit,
			&a.CreatedAt,
			&a.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return accounts, nil
}

// ExistsByNumber implements export.AccountRepository.
func (r *accountRepositoryImpl) ExistsByNumber(ctx context.Context, tenantID, number string, excludeID *string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT EXISTS(SELECT 1 FROM accounts WHERE number = $1 AND tenant_id = $2 AND ($3::uuid IS NULL OR id != $3))`

	var exists bool
	err := q.QueryRow(ctx, query, number, tenantID, excludeID).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}

// Update implements export.AccountRepository.
func (r *accountRepositoryImpl) Update(ctx context.Context, tenantID string, req export.UpdateAccountRequest) error {
	q := GetQuerier(ctx, r.db)

	updates := make(map[string]interface{})

	if req.Number != nil && *req.Number != "" {
		updates["number"] = *req.Number
	}
	if req.Name != nil && *req.Name != "" {
		updates["name"] = *req.Name
	}
	if req.Source != nil && *req.Source != "" {
		updates["source"] = *req.Source
	}
	if req.Unit != nil && *req.Unit != "" {
		updates["unit"] = *req.Unit
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

	sql := fmt.Sprintf("UPDATE accounts SET %s WHERE id = $%d AND tenant_id = $%d RETURNING id", strings.Join(setClauses, ", "), i, i+1)
	args = append(args, req.ID, tenantID)

	var updatedID string
	if err := q.QueryRow(ctx, sql, args...).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return export.ErrAccountNotFound
		}
		return fmt.Errorf("failed to update account: %w", err)
	}

	return nil
}

// Delete implements export.AccountRepository.
func (r *accountRepositoryImpl) Delete(ctx context.Context, tenantID, id string) error {
	q := GetQuerier(ctx, r.db)

	query := `DELETE FROM accounts WHERE id = $1 AND tenant_id = $2`

	tag, err := q.Exec(ctx, query, id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return export.ErrAccountNotFound
	}

	return nil
}

// CountAssignments implements export.AccountRepository.
func (r *accountRepositoryImpl) CountAssignments(ctx context.Context, tenantID, accountID string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COUNT(*)
		FROM interface_assignments ia
		JOIN export_interfaces ei ON ia.interface_id = ei.id
		WHERE ia.account_id = $1 AND ei.tenant_id = $2
	`

	var count int64
	err := q.QueryRow(ctx, query, accountID, tenantID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count assignments: %w", err)
	}

	return count, nil
}

type interfaceRepositoryImpl struct {
	db *database.DB
}

func NewInterfaceRepository(db *database.DB) export.InterfaceRepository {
	return &interfaceRepositoryImpl{db: db}
}

// Create implements export.InterfaceRepository.
func (r *interfaceRepositoryImpl) Create(ctx context.Context, newInterface export.Interface) (export.Interface, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO export_interfaces (tenant_id, name)
		VALUES ($1, $2)
		RETURNING id, tenant_id, name, created_at, updated_at
	`

	var created export.Interface
	err := q.QueryRow(ctx, query, newInterface.TenantID, newInterface.Name).Scan(
		&created.ID,
		&created.TenantID,
		&created.Name,
		&created.CreatedAt,
		&created.UpdatedAt,
	)
	if err != nil {
		return export.Interface{}, fmt.Errorf("failed to create export interface: %w", err)
	}

	return created, nil
}

// GetByID implements export.InterfaceRepository.
func (r *interfaceRepositoryImpl) GetByID(ctx context.Context, tenantID, id string) (export.Interface, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, tenant_id, name, created_at, updated_at
		FROM export_interfaces
		WHERE id = $1 AND tenant_id = $2
	`

	var found export.Interface
	err := q.QueryRow(ctx, query, id, tenantID).Scan(
		&found.ID,
		&found.TenantID,
		&found.Name,
		&found.CreatedAt,
		&found.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return export.Interface{}, export.ErrInterfaceNotFound
		}
		return export.Interface{}, fmt.Errorf("failed to get export interface: %w", err)
	}

	assignments, err := r.listAssignments(ctx, id)
	if err != nil {
		return export.Interface{}, err
	}
	found.Assignments = assignments

	return found, nil
}

func (r *interfaceRepositoryImpl) listAssignments(ctx context.Context, interfaceID string) ([]export.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ia.id, ia.interface_id, ia.account_id, ia.position, a.number, a.name, a.source, a.unit
		FROM interface_assignments ia
		JOIN accounts a ON ia.account_id = a.id
		WHERE ia.interface_id = $1
		ORDER BY ia.position ASC
	`

	rows, err := q.Query(ctx, query, interfaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	defer rows.Close()

	var assignments []export.Assignment
	for rows.Next() {
		var a export.Assignment
		err := rows.Scan(
			&a.ID, &a.InterfaceID, &a.AccountID, &a.Position,
			&a.AccountNumber, &a.AccountName, &a.Source, &a.Unit,
		)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return assignments, nil
}

// List implements export.InterfaceRepository.
func (r *interfaceRepositoryImpl) List(ctx context.Context, tenantID string) ([]export.Interface, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, tenant_id, name, created_at, updated_at
		FROM export_interfaces
		WHERE tenant_id = $1
		ORDER BY name ASC
	`

	rows, err := q.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list export interfaces: %w", err)
	}
	defer rows.Close()

	var interfaces []export.Interface
	for rows.Next() {
		var iface export.Interface
		err := rows.Scan(
			&iface.ID,
			&iface.TenantID,
			&iface.Name,
			&iface.CreatedAt,
			&iface.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		interfaces = append(interfaces, iface)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	for i := range interfaces {
		assignments, err := r.listAssignments(ctx, interfaces[i].ID)
		if err != nil {
			return nil, err
		}
		interfaces[i].Assignments = assignments
	}

	return interfaces, nil
}

// Update implements export.InterfaceRepository.
func (r *interfaceRepositoryImpl) Update(ctx context.Context, tenantID string, req export.UpdateInterfaceRequest) error {
	q := GetQuerier(ctx, r.db)

	if req.Name == nil || *req.Name == "" {
		return nil // No updates provided
	}

	query := `
		UPDATE export_interfaces
		SET name = $1, updated_at = NOW()
		WHERE id = $2 AND tenant_id = $3
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query, *req.Name, req.ID, tenantID).Scan(&updatedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return export.ErrInterfaceNotFound
		}
		return fmt.Errorf("failed to update export interface: %w", err)
	}

	return nil
}

// Delete implements export.InterfaceRepository.
func (r *interfaceRepositoryImpl) Delete(ctx context.Context, tenantID, id string) error {
	q := GetQuerier(ctx, r.db)

	query := `DELETE FROM export_interfaces WHERE id = $1 AND tenant_id = $2`

	tag, err := q.Exec(ctx, query, id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete export interface: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return export.ErrInterfaceNotFound
	}

	return nil
}

// AddAssignment implements export.InterfaceRepository.
func (r *interfaceRepositoryImpl) AddAssignment(ctx context.Context, tenantID, interfaceID, accountID string) (export.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH inserted AS (
			INSERT INTO interface_assignments (interface_id, account_id, position)
			SELECT $1, $2, COALESCE(MAX(position), 0) + 1
			FROM interface_assignments
			WHERE interface_id = $1
			RETURNING id, interface_id, account_id, position
		)
		SELECT i.id, i.interface_id, i.account_id, i.position, a.number, a.name, a.source, a.unit
		FROM inserted i
		JOIN accounts a ON i.account_id = a.id
	`

	var created export.Assignment
	err := q.QueryRow(ctx, query, interfaceID, accountID).Scan(
		&created.ID, &created.InterfaceID, &created.AccountID, &created.Position,
		&created.AccountNumber, &created.AccountName, &created.Source, &created.Unit,
	)
	if err != nil {
		return export.Assignment{}, fmt.Errorf("failed to add assignment: %w", err)
	}

	return created, nil
}

// GetAssignment implements export.InterfaceRepository.
func (r *interfaceRepositoryImpl) GetAssignment(ctx context.Context, tenantID, interfaceID, assignmentID string) (export.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ia.id, ia.interface_id, ia.account_id, ia.position, a.number, a.name, a.source, a.unit
		FROM interface_assignments ia
		JOIN accounts a ON ia.account_id = a.id
		JOIN export_interfaces ei ON ia.interface_id = ei.id
		WHERE ia.id = $1 AND ia.interface_id = $2 AND ei.tenant_id = $3
	`

	var found export.Assignment
	err := q.QueryRow(ctx, query, assignmentID, interfaceID, tenantID).Scan(
		&found.ID, &found.InterfaceID, &found.AccountID, &found.Position,
		&found.AccountNumber, &found.AccountName, &found.Source, &found.Unit,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return export.Assignment{}, export.ErrAssignmentNotFound
		}
		return export.Assignment{}, fmt.Errorf("failed to get assignment: %w", err)
	}

	return found, nil
}

// ExistsAssignment implements export.InterfaceRepository.
func (r *interfaceRepositoryImpl) ExistsAssignment(ctx context.Context, tenantID, interfaceID, accountID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS(
			SELECT 1 FROM interface_assignments
			WHERE interface_id = $1 AND account_id = $2
		)
	`

	var exists bool
	err := q.QueryRow(ctx, query, interfaceID, accountID).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}

// RemoveAssignment implements export.InterfaceRepository.
func (r *interfaceRepositoryImpl) RemoveAssignment(ctx context.Context, tenantID, interfaceID, assignmentID string) error {
	q := GetQuerier(ctx, r.db)

	deleteQuery := `
		DELETE FROM interface_assignments
		WHERE id = $1 AND interface_id = $2
	`

	tag, err := q.Exec(ctx, deleteQuery, assignmentID, interfaceID)
	if err != nil {
		return fmt.Errorf("failed to remove assignment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return export.ErrAssignmentNotFound
	}

	// Compact positions so the order stays gapless.
	compactQuery := `
		UPDATE interface_assignments ia
		SET position = ranked.new_position
		FROM (
			SELECT id, ROW_NUMBER() OVER (ORDER BY position ASC) AS new_position
			FROM interface_assignments
			WHERE interface_id = $1
		) ranked
		WHERE ia.id = ranked.id AND ia.position != ranked.new_position
	`

	if _, err := q.Exec(ctx, compactQuery, interfaceID); err != nil {
		return fmt.Errorf("failed to compact assignment positions: %w", err)
	}

	return nil
}

// ReplaceAssignments implements export.InterfaceRepository. Delete and
// re-insert run in one transaction so a failure leaves the previous
// order intact.
func (r *interfaceRepositoryImpl) ReplaceAssignments(ctx context.Context, tenantID, interfaceID string, accountIDs []string) error {
	return WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM interface_assignments WHERE interface_id = $1`, interfaceID); err != nil {
			return fmt.Errorf("failed to clear assignments: %w", err)
		}

		insertQuery := `
			INSERT INTO interface_assignments (interface_id, account_id, position)
			VALUES ($1, $2, $3)
		`
		for i, accountID := range accountIDs {
			if _, err := tx.Exec(ctx, insertQuery, interfaceID, accountID, i+1); err != nil {
				return fmt.Errorf("failed to insert assignment: %w", err)
			}
		}

		return nil
	})
}

// SwapPositions implements export.InterfaceRepository.
func (r *interfaceRepositoryImpl) SwapPositions(ctx context.Context, tenantID, interfaceID, firstID, secondID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE interface_assignments ia
		SET position = other.position
		FROM interface_assignments other
		WHERE ia.interface_id = $1 AND other.interface_id = $1
			AND ((ia.id = $2 AND other.id = $3) OR (ia.id = $3 AND other.id = $2))
	`

	tag, err := q.Exec(ctx, query, interfaceID, firstID, secondID)
	if err != nil {
		return fmt.Errorf("failed to swap assignment positions: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return export.ErrAssignmentNotFound
	}

	return nil
}

// GetNeighbor implements export.InterfaceRepository.
func (r *interfaceRepositoryImpl) GetNeighbor(ctx context.Context, tenantID, interfaceID string, position int, direction string) (export.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	comparison := "<"
	order := "DESC"
	if direction == export.MoveDown {
		comparison = ">"
		order = "ASC"
	}

	query := fmt.Sprintf(`
		SELECT ia.id, ia.interface_id, ia.account_id, ia.position, a.number, a.name, a.source, a.unit
		FROM interface_assignments ia
		JOIN accounts a ON ia.account_id = a.id
		WHERE ia.interface_id = $1 AND ia.position %s $2
		ORDER BY ia.position %s
		LIMIT 1
	`, comparison, order)

	var found export.Assignment
	err := q.QueryRow(ctx, query, interfaceID, position).Scan(
		&found.ID, &found.InterfaceID, &found.AccountID, &found.Position,
		&found.AccountNumber, &found.AccountName, &found.Source, &found.Unit,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return export.Assignment{}, export.ErrAssignmentNotFound
		}
		return export.Assignment{}, fmt.Errorf("failed to get neighbor assignment: %w", err)
	}

	return found, nil
}

type runRepositoryImpl struct {
	db *database.DB
}

func NewRunRepository(db *database.DB) export.RunRepository {
	return &runRepositoryImpl{db: db}
}

// Create implements export.RunRepository.
func (r *runRepositoryImpl) Create(ctx context.Context, newRun export.Run) (export.Run, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH inserted AS (
			INSERT INTO export_runs (tenant_id, interface_id, month, file_name, line_count, ran_by)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, tenant_id, interface_id, month, file_name, line_count, ran_by, ran_at
		)
		SELECT i.id, i.tenant_id, i.interface_id, ei.name, i.month, i.file_name, i.line_count, i.ran_by, i.ran_at
		FROM inserted i
		JOIN export_interfaces ei ON i.interface_id = ei.id
	`

	var created export.Run
	err := q.QueryRow(ctx, query,
		newRun.TenantID, newRun.InterfaceID, newRun.Month, newRun.FileName, newRun.LineCount, newRun.RanBy,
	).Scan(
		&created.ID, &created.TenantID, &created.InterfaceID, &created.InterfaceName,
		&created.Month, &created.FileName, &created.LineCount, &created.RanBy, &created.RanAt,
	)
	if err != nil {
		return export.Run{}, fmt.Errorf("failed to create export run: %w", err)
	}

	return created, nil
}

// GetByID implements export.RunRepository.
func (r *runRepositoryImpl) GetByID(ctx context.Context, tenantID, id string) (export.Run, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT er.id, er.tenant_id, er.interface_id, ei.name, er.month, er.file_name, er.line_count, er.ran_by, er.ran_at
		FROM export_runs er
		JOIN export_interfaces ei ON er.interface_id = ei.id
		WHERE er.id = $1 AND er.tenant_id = $2
	`

	var found export.Run
	err := q.QueryRow(ctx, query, id, tenantID).Scan(
		&found.ID, &found.TenantID, &found.InterfaceID, &found.InterfaceName,
		&found.Month, &found.FileName, &found.LineCount, &found.RanBy, &found.RanAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return export.Run{}, export.ErrRunNotFound
		}
		return export.Run{}, fmt.Errorf("failed to get export run: %w", err)
	}

	return found, nil
}

// List implements export.RunRepository.
func (r *runRepositoryImpl) ListByInterface(ctx context.Context, tenantID, interfaceID string) ([]export.Run, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT er.id, er.tenant_id, er.interface_id, ei.name, er.month, er.file_name, er.line_count, er.ran_by, er.ran_at
		FROM export_runs er
		JOIN export_interfaces ei ON er.interface_id = ei.id
		WHERE er.tenant_id = $1 AND er.interface_id = $2
		ORDER BY er.ran_at DESC
		LIMIT 200
	`

	rows, err := q.Query(ctx, query, tenantID, interfaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list export runs: %w", err)
	}
	defer rows.Close()

	var runs []export.Run
	for rows.Next() {
		var run export.Run
		err := rows.Scan(
			&run.ID, &run.TenantID, &run.InterfaceID, &run.InterfaceName,
			&run.Month, &run.FileName, &run.LineCount, &run.RanBy, &run.RanAt,
		)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return runs, nil
}
