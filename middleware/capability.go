package middleware

import (
	"net/http"

	"github.com/MrEthical07/goNexus/internal/respond"
	"github.com/MrEthical07/goNexus/permission"
)

// RequireCapability rejects requests whose identity lacks capability with 403. It must
// run behind a guard; a request with no identity in context gets 401.
func RequireCapability(roles *permission.RoleManager, capability string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			who, ok := IdentityFromContext(r.Context())
			if !ok {
				respond.Error(w, r, http.StatusUnauthorized, "unauthenticated", "sign in required")
				return
			}
			if roles == nil || !roles.Allows(who.Role, capability) {
				respond.Error(w, r, http.StatusForbidden, "forbidden", "missing capability "+capability)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
