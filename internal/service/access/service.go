package access

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/zmi-time/zmi-backend-go/internal/domain/access"
	"github.com/zmi-time/zmi-backend-go/internal/domain/audit"
	"github.com/zmi-time/zmi-backend-go/internal/domain/auth"
	"github.com/zmi-time/zmi-backend-go/internal/domain/employee"
	"github.com/zmi-time/zmi-backend-go/internal/domain/tenant"
	"github.com/zmi-time/zmi-backend-go/internal/pkg/database"
	"github.com/zmi-time/zmi-backend-go/internal/repository/postgresql"
)

type AccessServiceImpl struct {
	db           *database.DB
	zoneRepo     access.ZoneRepository
	profileRepo  access.ProfileRepository
	employeeRepo employee.EmployeeRepository
	tenantRepo   tenant.TenantRepository
	auditor      audit.Recorder
}

func NewAccessService(
	db *database.DB,
	zoneRepo access.ZoneRepository,
	profileRepo access.ProfileRepository,
	employeeRepo employee.EmployeeRepository,
	tenantRepo tenant.TenantRepository,
	auditor audit.Recorder,
) access.AccessService {
	return &AccessServiceImpl{
		db:           db,
		zoneRepo:     zoneRepo,
		profileRepo:  profileRepo,
		employeeRepo: employeeRepo,
		tenantRepo:   tenantRepo,
		auditor:      auditor,
	}
}

func formatMinute(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}

func mapZoneToResponse(z access.Zone) access.ZoneResponse {
	return access.ZoneResponse{
		ID:          z.ID,
		Name:        z.Name,
		Description: z.Description,
		CreatedAt:   z.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   z.UpdatedAt.Format(time.RFC3339),
	}
}

func mapProfileToResponse(p access.Profile) access.ProfileResponse {
	entries := make([]access.EntryResponse, 0, len(p.Entries))
	for _, e := range p.Entries {
		entries = append(entries, access.EntryResponse{
			ID:       e.ID,
			ZoneID:   e.ZoneID,
			ZoneName: e.ZoneName,
			Weekdays: e.Weekdays,
			From:     formatMinute(e.FromMinute),
			To:       formatMinute(e.ToMinute),
		})
	}
	return access.ProfileResponse{
		ID:        p.ID,
		Name:      p.Name,
		Entries:   entries,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.Format(time.RFC3339),
	}
}

// CreateZone implements access.AccessService.
func (s *AccessServiceImpl) CreateZone(ctx context.Context, req access.CreateZoneRequest) (access.ZoneResponse, error) {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return access.ZoneResponse{}, err
	}

	if err := req.Validate(); err != nil {
		return access.ZoneResponse{}, err
	}

	created, err := s.zoneRepo.Create(ctx, access.Zone{
		TenantID:    tenantID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return access.ZoneResponse{}, err
	}

	s.auditor.Record(ctx, audit.Event{
		TenantID:   tenantID,
		Action:     "access_zone.create",
		EntityType: "access_zone",
		EntityID:   &created.ID,
		Detail:     map[string]interface{}{"name": created.Name},
	})

	return mapZoneToResponse(created), nil
}

// ListZones implements access.AccessService.
func (s *AccessServiceImpl) ListZones(ctx context.Context) ([]access.ZoneResponse, error) {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	zones, err := s.zoneRepo.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	responses := make([]access.ZoneResponse, 0, len(zones))
	for _, z := range zones {
		responses = append(responses, mapZoneToResponse(z))
	}
	return responses, nil
}

// UpdateZone implements access.AccessService.
func (s *AccessServiceImpl) UpdateZone(ctx context.Context, req access.UpdateZoneRequest) (access.ZoneResponse, error) {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return access.ZoneResponse{}, err
	}

	if err := req.Validate(); err != nil {
		return access.ZoneResponse{}, err
	}

	if _, err := s.zoneRepo.GetByID(ctx, tenantID, req.ID); err != nil {
		return access.ZoneResponse{}, err
	}

	if err := s.zoneRepo.Update(ctx, tenantID, req); err != nil {
		return access.ZoneResponse{}, err
	}

	updated, err := s.zoneRepo.GetByID(ctx, tenantID, req.ID)
	if err != nil {
		return access.ZoneResponse{}, err
	}

	s.auditor.Record(ctx, audit.Event{
		TenantID:   tenantID,
		Action:     "access_zone.update",
		EntityType: "access_zone",
		EntityID:   &updated.ID,
		Detail:     map[string]interface{}{"name": updated.Name},
	})

	return mapZoneToResponse(updated), nil
}

// DeleteZone implements access.AccessService.
func (s *AccessServiceImpl) DeleteZone(ctx context.Context, id string) error {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return err
	}

	existing, err := s.zoneRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return err
	}

	references, err := s.zoneRepo.CountProfileReferences(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if references > 0 {
		return access.ErrZoneInUse
	}

	if err := s.zoneRepo.Delete(ctx, tenantID, id); err != nil {
		return err
	}

	s.auditor.Record(ctx, audit.Event{
		TenantID:   tenantID,
		Action:     "access_zone.delete",
		EntityType: "access_zone",
		EntityID:   &id,
		Detail:     map[string]interface{}{"name": existing.Name},
	})

	return nil
}

// resolveEntries checks that every referenced zone exists and converts
// the request entries into profile entries.
func (s *AccessServiceImpl) resolveEntries(ctx context.Context, tenantID string, reqs []access.EntryRequest) ([]access.ProfileEntry, error) {
	seen := make(map[string]struct{})
	entries := make([]access.ProfileEntry, 0, len(reqs))
	for _, req := range reqs {
		if _, ok := seen[req.ZoneID]; !ok {
			if _, err := s.zoneRepo.GetByID(ctx, tenantID, req.ZoneID); err != nil {
				return nil, err
			}
			seen[req.ZoneID] = struct{}{}
		}
		entries = append(entries, access.ProfileEntry{
			ZoneID:     req.ZoneID,
			Weekdays:   req.Weekdays,
			FromMinute: req.FromMinute,
			ToMinute:   req.ToMinute,
		})
	}
	return entries, nil
}

// CreateProfile implements access.AccessService.
func (s *AccessServiceImpl) CreateProfile(ctx context.Context, req access.CreateProfileRequest) (access.ProfileResponse, error) {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return access.ProfileResponse{}, err
	}

	if err := req.Validate(); err != nil {
		return access.ProfileResponse{}, err
	}

	entries, err := s.resolveEntries(ctx, tenantID, req.Entries)
	if err != nil {
		return access.ProfileResponse{}, err
	}

	created, err := s.profileRepo.Create(ctx, access.Profile{
		TenantID: tenantID,
		Name:     req.Name,
		Entries:  entries,
	})
	if err != nil {
		return access.ProfileResponse{}, err
	}

	s.auditor.Record(ctx, audit.Event{
		TenantID:   tenantID,
		Action:     "access_profile.create",
		EntityType: "access_profile",
		EntityID:   &created.ID,
		Detail:     map[string]interface{}{"name": created.Name, "entries": len(created.Entries)},
	})

	return mapProfileToResponse(created), nil
}

// GetProfile implements access.AccessService.
func (s *AccessServiceImpl) GetProfile(ctx context.Context, id string) (access.ProfileResponse, error) {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return access.ProfileResponse{}, err
	}

	profile, err := s.profileRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return access.ProfileResponse{}, err
	}

	return mapProfileToResponse(profile), nil
}

// ListProfiles implements access.AccessService.
func (s *AccessServiceImpl) ListProfiles(ctx context.Context) ([]access.ProfileResponse, error) {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	profiles, err := s.profileRepo.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	responses := make([]access.ProfileResponse, 0, len(profiles))
	for _, p := range profiles {
		responses = append(responses, mapProfileToResponse(p))
	}
	return responses, nil
}

// UpdateProfile implements access.AccessService.
func (s *AccessServiceImpl) UpdateProfile(ctx context.Context, req access.UpdateProfileRequest) (access.ProfileResponse, error) {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return access.ProfileResponse{}, err
	}

	if err := req.Validate(); err != nil {
		return access.ProfileResponse{}, err
	}

	if _, err := s.profileRepo.GetByID(ctx, tenantID, req.ID); err != nil {
		return access.ProfileResponse{}, err
	}

	var entries []access.ProfileEntry
	if req.Entries != nil {
		entries, err = s.resolveEntries(ctx, tenantID, *req.Entries)
		if err != nil {
			return access.ProfileResponse{}, err
		}
	}

	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		if req.Name != nil {
			if err := s.profileRepo.UpdateName(txCtx, tenantID, req.ID, *req.Name); err != nil {
				return err
			}
		}
		if req.Entries != nil {
			if err := s.profileRepo.ReplaceEntries(txCtx, tenantID, req.ID, entries); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return access.ProfileResponse{}, err
	}

	updated, err := s.profileRepo.GetByID(ctx, tenantID, req.ID)
	if err != nil {
		return access.ProfileResponse{}, err
	}

	s.auditor.Record(ctx, audit.Event{
		TenantID:   tenantID,
		Action:     "access_profile.update",
		EntityType: "access_profile",
		EntityID:   &updated.ID,
		Detail:     map[string]interface{}{"name": updated.Name, "entries": len(updated.Entries)},
	})

	return mapProfileToResponse(updated), nil
}

// DeleteProfile implements access.AccessService.
func (s *AccessServiceImpl) DeleteProfile(ctx context.Context, id string) error {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return err
	}

	existing, err := s.profileRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return err
	}

	references, err := s.profileRepo.CountEmployeeReferences(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if references > 0 {
		return access.ErrProfileInUse
	}

	if err := s.profileRepo.Delete(ctx, tenantID, id); err != nil {
		return err
	}

	s.auditor.Record(ctx, audit.Event{
		TenantID:   tenantID,
		Action:     "access_profile.delete",
		EntityType: "access_profile",
		EntityID:   &id,
		Detail:     map[string]interface{}{"name": existing.Name},
	})

	return nil
}

// Check implements access.AccessService. Denials come back as a regular
// response so that door controllers always get a decision to act on.
func (s *AccessServiceImpl) Check(ctx context.Context, req access.CheckRequest) (access.CheckResponse, error) {
	if err := req.Validate(); err != nil {
		return access.CheckResponse{}, err
	}

	t, err := s.tenantRepo.GetByCode(ctx, req.TenantCode)
	if err == tenant.ErrTenantNotFound {
		return access.CheckResponse{Allowed: false, Reason: "unknown tenant"}, nil
	}
	if err != nil {
		return access.CheckResponse{}, err
	}

	if _, err := s.zoneRepo.GetByID(ctx, t.ID, req.ZoneID); err != nil {
		if err == access.ErrZoneNotFound {
			return access.CheckResponse{Allowed: false, Reason: "unknown zone"}, nil
		}
		return access.CheckResponse{}, err
	}

	emp, err := s.employeeRepo.GetByBadgeNumber(ctx, t.ID, req.BadgeNumber)
	if err == employee.ErrEmployeeNotFound {
		return access.CheckResponse{Allowed: false, Reason: "unknown badge"}, nil
	}
	if err != nil {
		return access.CheckResponse{}, err
	}
	if !emp.Active {
		return access.CheckResponse{Allowed: false, Reason: "employee inactive"}, nil
	}
	if emp.AccessProfileID == nil {
		return access.CheckResponse{Allowed: false, Reason: "no access profile assigned"}, nil
	}

	profile, err := s.profileRepo.GetByID(ctx, t.ID, *emp.AccessProfileID)
	if err == access.ErrProfileNotFound {
		return access.CheckResponse{Allowed: false, Reason: "no access profile assigned"}, nil
	}
	if err != nil {
		return access.CheckResponse{}, err
	}

	loc, err := time.LoadLocation(t.Timezone)
	if err != nil {
		return access.CheckResponse{}, fmt.Errorf("failed to load tenant timezone %q: %w", t.Timezone, err)
	}

	if !profile.GrantsZoneAt(req.ZoneID, time.Now().In(loc)) {
		return access.CheckResponse{Allowed: false, Reason: "outside permitted hours"}, nil
	}

	return access.CheckResponse{Allowed: true}, nil
}
