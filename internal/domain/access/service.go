package access

import "context"

// AccessService manages access zones and profiles and answers terminal
// access checks.
type AccessService interface {
	CreateZone(ctx context.Context, req CreateZoneRequest) (ZoneResponse, error)
	ListZones(ctx context.Context) ([]ZoneResponse, error)
	UpdateZone(ctx context.Context, req UpdateZoneRequest) (ZoneResponse, error)
	DeleteZone(ctx context.Context, id string) error

	CreateProfile(ctx context.Context, req CreateProfileRequest) (ProfileResponse, error)
	GetProfile(ctx context.Context, id string) (ProfileResponse, error)
	ListProfiles(ctx context.Context) ([]ProfileResponse, error)
	UpdateProfile(ctx context.Context, req UpdateProfileRequest) (ProfileResponse, error)
	DeleteProfile(ctx context.Context, id string) error

	// Check decides whether the badge may enter the zone right now,
	// evaluated in the tenant's local time.
	Check(ctx context.Context, req CheckRequest) (CheckResponse, error)
}
