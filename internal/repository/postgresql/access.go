package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/zmi-time/zmi-backend-go/internal/domain/access"
	"github.com/zmi-time/zmi-backend-go/internal/pkg/database"
)

type zoneRepositoryImpl struct {
	db *database.DB
}

func NewZoneRepository(db *database.DB) access.ZoneRepository {
	return &zoneRepositoryImpl{db: db}
}

// Create implements access.ZoneRepository.
func (r *zoneRepositoryImpl) Create(ctx context.Context, newZone access.Zone) (access.Zone, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO access_zones (tenant_id, name, description)
		VALUES ($1, $2, $3)
		RETURNING id, tenant_id, name, description, created_at, updated_at
	`

	var created access.Zone
	err := q.QueryRow(ctx, query, newZone.TenantID, newZone.Name, newZone.Description).Scan(
		&created.ID,
		&created.TenantID,
		&created.Name,
		&created.Description,
		&created.CreatedAt,
		&created.UpdatedAt,
	)
	if err != nil {
		return access.Zone{}, fmt.Errorf("failed to create access zone: %w", err)
	}

	return created, nil
}

// GetByID implements access.ZoneRepository.
func (r *zoneRepositoryImpl) GetByID(ctx context.Context, tenantID, id string) (access.Zone, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, tenant_id, name, description, created_at, updated_at
		FROM access_zones
		WHERE id = $1 AND tenant_id = $2
	`

	var found access.Zone
	err := q.QueryRow(ctx, query, id, tenantID).Scan(
		&found.ID,
		&found.TenantID,
		&found.Name,
		&found.Description,
		&found.CreatedAt,
		&found.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return access.Zone{}, access.ErrZoneNotFound
		}
		return access.Zone{}, fmt.Errorf("failed to get access zone: %w", err)
	}

	return found, nil
}

// List implements access.ZoneRepository.
func (r *zoneRepositoryImpl) List(ctx context.Context, tenantID string) ([]access.Zone, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, tenant_id, name, description, created_at, updated_at
		FROM access_zones
		WHERE tenant_id = $1
		ORDER BY name ASC
	`

	rows, err := q.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list access zones: %w", err)
	}
	defer rows.Close()

	var zones []access.Zone
	for rows.Next() {
		var z access.Zone
		err := rows.Scan(
			&z.ID,
			&z.TenantID,
			&z.Name,
			&z.Description,
			&z.CreatedAt,
			&z.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		zones = append(zones, z)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return zones, nil
}

// Update implements access.ZoneRepository.
func (r *zoneRepositoryImpl) Update(ctx context.Context, tenantID string, req access.UpdateZoneRequest) error {
	q := GetQuerier(ctx, r.db)

	updates := make(map[string]interface{})

	if req.Name != nil && *req.Name != "" {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		if *req.Description == "" {
			updates["description"] = nil
		} else {
			updates["description"] = *req.Description
		}
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

	sql := fmt.Sprintf("UPDATE access_zones SET %s WHERE id = $%d AND tenant_id = $%d RETURNING id", strings.Join(setClauses, ", "), i, i+1)
	args = append(args, req.ID, tenantID)

	var updatedID string
	if err := q.QueryRow(ctx, sql, args...).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return access.ErrZoneNotFound
		}
		return fmt.Errorf("failed to update access zone: %w", err)
	}

	return nil
}

// Delete implements access.ZoneRepository.
func (r *zoneRepositoryImpl) Delete(ctx context.Context, tenantID, id string) error {
	q := GetQuerier(ctx, r.db)

	query := `DELETE FROM access_zones WHERE id = $1 AND tenant_id = $2`

	tag, err := q.Exec(ctx, query, id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete access zone: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return access.ErrZoneNotFound
	}

	return nil
}

// CountProfileReferences implements access.ZoneRepository.
func (r *zoneRepositoryImpl) CountProfileReferences(ctx context.Context, tenantID, zoneID string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COUNT(*)
		FROM access_profile_entries e
		JOIN access_profiles p ON e.profile_id = p.id
		WHERE e.zone_id = $1 AND p.tenant_id = $2
	`

	var count int64
	err := q.QueryRow(ctx, query, zoneID, tenantID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count profile references: %w", err)
	}

	return count, nil
}

type profileRepositoryImpl struct {
	db *database.DB
}

func NewProfileRepository(db *database.DB) access.ProfileRepository {
	return &profileRepositoryImpl{db: db}
}

// Create implements access.ProfileRepository. Entries are written in the
// same transaction context as the profile row.
func (r *profileRepositoryImpl) Create(ctx context.Context, newProfile access.Profile) (access.Profile, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO access_profiles (tenant_id, name)
		VALUES ($1, $2)
		RETURNING id, tenant_id, name, created_at, updated_at
	`

	var created access.Profile
	err := q.QueryRow(ctx, query, newProfile.TenantID, newProfile.Name).Scan(
		&created.ID,
		&created.TenantID,
		&created.Name,
		&created.CreatedAt,
		&created.UpdatedAt,
	)
	if err != nil {
		return access.Profile{}, fmt.Errorf("failed to create access profile: %w", err)
	}

	if err := r.insertEntries(ctx, created.ID, newProfile.Entries); err != nil {
		return access.Profile{}, err
	}

	entries, err := r.listEntries(ctx, created.ID)
	if err != nil {
		return access.Profile{}, err
	}
	created.Entries = entries

	return created, nil
}

func (r *profileRepositoryImpl) insertEntries(ctx context.Context, profileID string, entries []access.ProfileEntry) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO access_profile_entries (profile_id, zone_id, weekday_mask, from_minute, to_minute)
		VALUES ($1, $2, $3, $4, $5)
	`

	for _, entry := range entries {
		_, err := q.Exec(ctx, query, profileID, entry.ZoneID, entry.WeekdayMask(), entry.FromMinute, entry.ToMinute)
		if err != nil {
			return fmt.Errorf("failed to create profile entry: %w", err)
		}
	}

	return nil
}

func (r *profileRepositoryImpl) listEntries(ctx context.Context, profileID string) ([]access.ProfileEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT e.id, e.profile_id, e.zone_id, z.name, e.weekday_mask, e.from_minute, e.to_minute
		FROM access_profile_entries e
		JOIN access_zones z ON e.zone_id = z.id
		WHERE e.profile_id = $1
		ORDER BY z.name ASC, e.from_minute ASC
	`

	rows, err := q.Query(ctx, query, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to list profile entries: %w", err)
	}
	defer rows.Close()

	var entries []access.ProfileEntry
	for rows.Next() {
		var entry access.ProfileEntry
		var mask int
		err := rows.Scan(
			&entry.ID,
			&entry.ProfileID,
			&entry.ZoneID,
			&entry.ZoneName,
			&mask,
			&entry.FromMinute,
			&entry.ToMinute,
		)
		if err != nil {
			return nil, err
		}
		entry.Weekdays = access.WeekdaysFromMask(mask)
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// GetByID implements access.ProfileRepository.
func (r *profileRepositoryImpl) GetByID(ctx context.Context, tenantID, id string) (access.Profile, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, tenant_id, name, created_at, updated_at
		FROM access_profiles
		WHERE id = $1 AND tenant_id = $2
	`

	var found access.Profile
	err := q.QueryRow(ctx, query, id, tenantID).Scan(
		&found.ID,
		&found.TenantID,
		&found.Name,
		&found.CreatedAt,
		&found.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return access.Profile{}, access.ErrProfileNotFound
		}
		return access.Profile{}, fmt.Errorf("failed to get access profile: %w", err)
	}

	entries, err := r.listEntries(ctx, id)
	if err != nil {
		return access.Profile{}, err
	}
	found.Entries = entries

	return found, nil
}

// List implements access.ProfileRepository.
func (r *profileRepositoryImpl) List(ctx context.Context, tenantID string) ([]access.Profile, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, tenant_id, name, created_at, updated_at
		FROM access_profiles
		WHERE tenant_id = $1
		ORDER BY name ASC
	`

	rows, err := q.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list access profiles: %w", err)
	}
	defer rows.Close()

	var profiles []access.Profile
	for rows.Next() {
		var p access.Profile
		err := rows.Scan(
			&p.ID,
			&p.TenantID,
			&p.Name,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	for i := range profiles {
		entries, err := r.listEntries(ctx, profiles[i].ID)
		if err != nil {
			return nil, err
		}
		profiles[i].Entries = entries
	}

	return profiles, nil
}

// UpdateName implements access.ProfileRepository.
func (r *profileRepositoryImpl) UpdateName(ctx context.Context, tenantID, id, name string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE access_profiles
		SET name = $1, updated_at = NOW()
		WHERE id = $2 AND tenant_id = $3
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query, name, id, tenantID).Scan(&updatedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return access.ErrProfileNotFound
		}
		return fmt.Errorf("failed to update access profile: %w", err)
	}

	return nil
}

// ReplaceEntries implements access.ProfileRepository. The old entry set is
// dropped and the new one written in its place.
func (r *profileRepositoryImpl) ReplaceEntries(ctx context.Context, tenantID, profileID string, entries []access.ProfileEntry) error {
	q := GetQuerier(ctx, r.db)

	deleteQuery := `
		DELETE FROM access_profile_entries
		WHERE profile_id = $1
			AND profile_id IN (SELECT id FROM access_profiles WHERE tenant_id = $2)
	`

	if _, err := q.Exec(ctx, deleteQuery, profileID, tenantID); err != nil {
		return fmt.Errorf("failed to clear profile entries: %w", err)
	}

	return r.insertEntries(ctx, profileID, entries)
}

// Delete implements access.ProfileRepository.
func (r *profileRepositoryImpl) Delete(ctx context.Context, tenantID, id string) error {
	q := GetQuerier(ctx, r.db)

	query := `DELETE FROM access_profiles WHERE id = $1 AND tenant_id = $2`

	tag, err := q.Exec(ctx, query, id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete access profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return access.ErrProfileNotFound
	}

	return nil
}

// CountEmployeeReferences implements access.ProfileRepository.
func (r *profileRepositoryImpl) CountEmployeeReferences(ctx context.Context, tenantID, profileID string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT COUNT(*) FROM employees WHERE access_profile_id = $1 AND tenant_id = $2`

	var count int64
	err := q.QueryRow(ctx, query, profileID, tenantID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count employee references: %w", err)
	}

	return count, nil
}
