package middleware

import (
	"net/http"

	"github.com/zmi-time/zmi-backend-go/internal/domain/auth"
	"github.com/zmi-time/zmi-backend-go/internal/domain/user"
	"github.com/zmi-time/zmi-backend-go/internal/handler/http/response"
)

// AdminOnly admits cross-tenant administrators.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, err := auth.ActorFromContext(r.Context())
		if err != nil {
			response.HandleError(w, err)
			return
		}

		if actor.Role != string(user.RoleAdmin) {
			response.HandleError(w, user.ErrAdminPrivilegeRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ManagerOnly admits managers and administrators. Viewers stay read-only.
func ManagerOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, err := auth.ActorFromContext(r.Context())
		if err != nil {
			response.HandleError(w, err)
			return
		}

		role := user.Role(actor.Role)
		if role != user.RoleManager && role != user.RoleAdmin {
			response.HandleError(w, user.ErrManagerAccessRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
