package auth

import "context"

// Actor is the authenticated user acting on a request, extracted from the
// verified access token by the middleware.
type Actor struct {
	UserID   string
	Email    string
	Role     string
	TenantID *string // nil for cross-tenant admins
}

type contextKey string

const (
	actorKey  contextKey = "actor"
	tenantKey contextKey = "tenant_id"
)

// WithActor stores the request actor in the context.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromContext returns the request actor set by the auth middleware.
func ActorFromContext(ctx context.Context) (Actor, error) {
	actor, ok := ctx.Value(actorKey).(Actor)
	if !ok {
		return Actor{}, ErrInvalidToken
	}
	return actor, nil
}

// WithTenantID stores the effective tenant of the request. For tenant-bound
// users this is their own tenant, for admins it may be any tenant selected
// through the X-Tenant-ID header.
func WithTenantID(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, tenantKey, tenantID)
}

// TenantIDFromContext returns the effective tenant of the request.
func TenantIDFromContext(ctx context.Context) (string, error) {
	tenantID, ok := ctx.Value(tenantKey).(string)
	if !ok || tenantID == "" {
		return "", ErrTenantRequired
	}
	return tenantID, nil
}
