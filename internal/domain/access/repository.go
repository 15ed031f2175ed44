package access

import "context"

type ZoneRepository interface {
	Create(ctx context.Context, newZone Zone) (Zone, error)
	GetByID(ctx context.Context, tenantID, id string) (Zone, error)
	List(ctx context.Context, tenantID string) ([]Zone, error)
	Update(ctx context.Context, tenantID string, req UpdateZoneRequest) error
	Delete(ctx context.Context, tenantID, id string) error
	CountProfileReferences(ctx context.Context, tenantID, zoneID string) (int64, error)
}

type ProfileRepository interface {
	// Create stores the profile with its entries.
	Create(ctx context.Context, newProfile Profile) (Profile, error)

	// GetByID loads the profile with its entries and zone names joined in.
	GetByID(ctx context.Context, tenantID, id string) (Profile, error)

	List(ctx context.Context, tenantID string) ([]Profile, error)
	UpdateName(ctx context.Context, tenantID, id, name string) error

	// ReplaceEntries swaps the profile's entry list for the given one.
	ReplaceEntries(ctx context.Context, tenantID, profileID string, entries []ProfileEntry) error

	Delete(ctx context.Context, tenantID, id string) error
	CountEmployeeReferences(ctx context.Context, tenantID, profileID string) (int64, error)
}
