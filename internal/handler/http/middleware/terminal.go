package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/zmi-time/zmi-backend-go/internal/handler/http/response"
)

// TerminalKey guards the hardware terminal endpoints with a shared API
// key sent in the X-API-Key header. An empty configured key disables the
// terminal API entirely.
func TerminalKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key == "" {
				response.Unauthorized(w, "Terminal API is not configured")
				return
			}

			provided := r.Header.Get("X-API-Key")
			if subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
				response.Unauthorized(w, "Invalid terminal API key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
