package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/zmi-time/zmi-backend-go/internal/domain/auth"
	"github.com/zmi-time/zmi-backend-go/internal/handler/http/response"
)

// AuthRequired verifies the access token and stores the acting user in
// the request context for the layers below.
func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, _, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			claims, err := token.AsMap(r.Context())
			if err != nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}
			tokenType, ok := claims["type"].(string)
			if tokenType != "access" || !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			userID, _ := claims["user_id"].(string)
			email, _ := claims["email"].(string)
			role, _ := claims["role"].(string)
			if userID == "" || role == "" {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			actor := auth.Actor{
				UserID: userID,
				Email:  email,
				Role:   role,
			}
			if tenantID, ok := claims["tenant_id"].(string); ok && tenantID != "" {
				actor.TenantID = &tenantID
			}

			next.ServeHTTP(w, r.WithContext(auth.WithActor(r.Context(), actor)))
		}
		return http.HandlerFunc(hfn)
	}
}
