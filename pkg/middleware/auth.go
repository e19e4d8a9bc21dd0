package middleware

import (
	"net/http"
	"strings"

	"github.com/shashiranjanraj/vastra/pkg/auth"
	"github.com/shashiranjanraj/vastra/pkg/logger"
	"github.com/shashiranjanraj/vastra/pkg/response"
)

// AdminSessionCookie is the opaque admin-session marker issued by the
// external auth gate. This service only checks for its presence.
const AdminSessionCookie = "admin_session"

// AdminGate protects catalog write endpoints. It requires BOTH credentials
// issued by the external auth layer:
//
//   - the admin-session cookie, and
//   - a valid bearer access token.
//
// Absence or invalidity of either rejects the request with 403 before any
// validation or side effect.
func AdminGate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(AdminSessionCookie)
		if err != nil || cookie.Value == "" {
			response.Forbidden(w)
			return
		}

		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token == "" || token == r.Header.Get("Authorization") {
			response.Forbidden(w)
			return
		}

		if _, err := auth.ValidateToken(token); err != nil {
			logger.WithCtx(r.Context()).Debug("admin gate rejected token", "error", err)
			response.Forbidden(w)
			return
		}

		next.ServeHTTP(w, r)
	})
}
