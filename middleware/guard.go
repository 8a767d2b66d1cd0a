package middleware

import (
	"context"
	"net/http"
	"net/url"

	"github.com/MrEthical07/goNexus/guard"
	"github.com/MrEthical07/goNexus/identity"
	"github.com/MrEthical07/goNexus/internal/respond"
	"github.com/MrEthical07/goNexus/policy"
)

type identityContextKey struct{}

// IdentityFromContext returns the identity a guard admitted.
func IdentityFromContext(ctx context.Context) (identity.Identity, bool) {
	who, ok := ctx.Value(identityContextKey{}).(identity.Identity)
	return who, ok
}

// WithIdentity returns a copy of ctx carrying who.
func WithIdentity(ctx context.Context, who identity.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, who)
}

// Guard enforces route on every request.
//
// Loading answers 503 with Retry-After. An unauthenticated request is sent to the
// login path with the original location in "from"; an unauthorized one to the
// unauthorized path. Both use 303.
func Guard(g *guard.Guard, route policy.Descriptor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			serveGuarded(g, route, next, w, r)
		})
	}
}

// GuardTable guards requests whose path matches a route in table. Unmatched paths pass
// through unchanged.
func GuardTable(g *guard.Guard, table *policy.Table) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route, ok := table.Lookup(r.URL.Path)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			serveGuarded(g, route, next, w, r)
		})
	}
}

// RequireAuthenticated admits any signed-in identity.
func RequireAuthenticated(g *guard.Guard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			serveGuarded(g, policy.Descriptor{Path: r.URL.Path}, next, w, r)
		})
	}
}

func serveGuarded(g *guard.Guard, route policy.Descriptor, next http.Handler, w http.ResponseWriter, r *http.Request) {
	if g == nil {
		respond.Error(w, r, http.StatusServiceUnavailable, "guard_unavailable", "access guard is not configured")
		return
	}

	out := g.Evaluate(route, r.URL.RequestURI())
	switch out.State {
	case guard.Permit:
		ctx := r.Context()
		if out.Identity != nil {
			ctx = WithIdentity(ctx, *out.Identity)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	case guard.Loading:
		w.Header().Set("Retry-After", "1")
		respond.Error(w, r, http.StatusServiceUnavailable, "loading", "session is being restored")
	case guard.DeniedUnauthenticated:
		target := out.Redirect + "?from=" + url.QueryEscape(out.Location)
		respond.Redirect(w, r, target, map[string]string{"reason": "unauthenticated", "from": out.Location})
	default:
		respond.Redirect(w, r, out.Redirect, map[string]string{"reason": "unauthorized", "route": out.Route})
	}
}
