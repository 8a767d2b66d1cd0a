package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MrEthical07/goNexus/guard"
	"github.com/MrEthical07/goNexus/identity"
	"github.com/MrEthical07/goNexus/kv"
	"github.com/MrEthical07/goNexus/permission"
	"github.com/MrEthical07/goNexus/policy"
	"github.com/MrEthical07/goNexus/session"
)

func setup(t *testing.T, who *identity.Identity) *guard.Guard {
	t.Helper()
	store := session.NewStore(kv.NewMemoryStore(), session.Options{})
	if who != nil {
		if _, err := store.Commit(context.Background(), *who); err != nil {
			t.Fatalf("commit: %v", err)
		}
	}
	g := guard.New(store, guard.Options{})
	g.MarkReady()
	return g
}

func echoIdentity() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		who, ok := IdentityFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		_, _ = w.Write([]byte(who.ID))
	})
}

func TestGuardPermitInjectsIdentity(t *testing.T) {
	admin := identity.MockAdmin()
	h := Guard(setup(t, &admin), policy.MustDescriptor("/users", identity.RoleAdmin))(echoIdentity())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "1" {
		t.Fatalf("expected identity 1, got %d %q", rec.Code, rec.Body.String())
	}
}

func TestGuardRedirectsAnonymousToLogin(t *testing.T) {
	h := Guard(setup(t, nil), policy.MustDescriptor("/products"))(echoIdentity())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products?page=2", nil))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login?from=%2Fproducts%3Fpage%3D2" {
		t.Fatalf("unexpected location %q", loc)
	}
}

func TestGuardRedirectsUserToUnauthorized(t *testing.T) {
	user := identity.MockUser()
	h := Guard(setup(t, &user), policy.MustDescriptor("/analytics", identity.RoleAdmin))(echoIdentity())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/analytics", nil))
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/unauthorized" {
		t.Fatalf("expected redirect to /unauthorized, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestGuardLoadingReturns503(t *testing.T) {
	g := guard.New(session.NewStore(kv.NewMemoryStore(), session.Options{}), guard.Options{})
	h := Guard(g, policy.MustDescriptor("/"))(echoIdentity())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusServiceUnavailable || rec.Header().Get("Retry-After") != "1" {
		t.Fatalf("expected 503 with Retry-After, got %d %q", rec.Code, rec.Header().Get("Retry-After"))
	}
}

func TestGuardTablePassesUnmatched(t *testing.T) {
	h := GuardTable(setup(t, nil), policy.DefaultTable())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("unmatched path should pass, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/7", nil))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("prefix-matched path should be guarded, got %d", rec.Code)
	}
}

func TestRequireCapability(t *testing.T) {
	roles, err := permission.Default()
	if err != nil {
		t.Fatalf("roles: %v", err)
	}
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	h := RequireCapability(roles, permission.InventoryWrite)(ok)

	cases := []struct {
		name string
		ctx  context.Context
		want int
	}{
		{"anonymous", context.Background(), http.StatusUnauthorized},
		{"user", WithIdentity(context.Background(), identity.MockUser()), http.StatusForbidden},
		{"admin", WithIdentity(context.Background(), identity.MockAdmin()), http.StatusNoContent},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/products", nil).WithContext(tc.ctx)
		h.ServeHTTP(rec, req)
		if rec.Code != tc.want {
			t.Fatalf("%s: got %d want %d", tc.name, rec.Code, tc.want)
		}
	}
}
