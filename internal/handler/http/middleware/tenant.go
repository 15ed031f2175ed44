package middleware

import (
	"net/http"

	"github.com/zmi-time/zmi-backend-go/internal/domain/auth"
	"github.com/zmi-time/zmi-backend-go/internal/domain/user"
	"github.com/zmi-time/zmi-backend-go/internal/handler/http/response"
)

// TenantHeader selects the effective tenant for cross-tenant admins.
const TenantHeader = "X-Tenant-ID"

// ResolveTenant sets the effective tenant of the request. Tenant-bound
// users always act within their own tenant, the header is ignored for
// them. Admins pick a tenant through the X-Tenant-ID header.
func ResolveTenant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, err := auth.ActorFromContext(r.Context())
		if err != nil {
			response.HandleError(w, err)
			return
		}

		ctx := r.Context()
		switch {
		case actor.TenantID != nil:
			ctx = auth.WithTenantID(ctx, *actor.TenantID)
		case actor.Role == string(user.RoleAdmin):
			if tenantID := r.Header.Get(TenantHeader); tenantID != "" {
				ctx = auth.WithTenantID(ctx, tenantID)
			}
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
