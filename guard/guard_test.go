package guard

import (
	"context"
	"testing"
	"time"

	"github.com/MrEthical07/goNexus/identity"
	"github.com/MrEthical07/goNexus/kv"
	"github.com/MrEthical07/goNexus/policy"
	"github.com/MrEthical07/goNexus/session"
)

func readyGuard(t *testing.T, opts Options) (*Guard, *session.Store) {
	t.Helper()
	store := session.NewStore(kv.NewMemoryStore(), session.Options{})
	g := New(store, opts)
	g.MarkReady()
	return g, store
}

func TestAdminPermitThenClearRedirectsToLogin(t *testing.T) {
	ctx := context.Background()
	g, store := readyGuard(t, Options{})
	adminOnly := policy.MustDescriptor("/users", identity.RoleAdmin)

	if _, err := store.Commit(ctx, identity.MockAdmin()); err != nil {
		t.Fatalf("commit: %v", err)
	}
	out := g.Evaluate(adminOnly, "/users")
	if out.State != Permit || out.Identity == nil || out.Identity.ID != "1" {
		t.Fatalf("expected permit for admin, got %+v", out)
	}

	if _, _, err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	out = g.Evaluate(adminOnly, "/users?tab=active")
	if out.State != DeniedUnauthenticated || out.Decision != policy.RedirectLogin {
		t.Fatalf("expected login redirect after clear, got %+v", out)
	}
	if out.Redirect != LoginPath || out.Location != "/users?tab=active" {
		t.Fatalf("expected remembered location, got %+v", out)
	}
}

func TestUserDeniedAdminRoutePermittedOpenRoute(t *testing.T) {
	g, store := readyGuard(t, Options{UnauthorizedPath: "/denied"})
	if _, err := store.Commit(context.Background(), identity.MockUser()); err != nil {
		t.Fatalf("commit: %v", err)
	}

	out := g.Evaluate(policy.MustDescriptor("/users", identity.RoleAdmin), "/users")
	if out.State != DeniedUnauthorized || out.Redirect != "/denied" {
		t.Fatalf("expected unauthorized, got %+v", out)
	}
	out = g.Evaluate(policy.MustDescriptor("/products"), "")
	if out.State != Permit {
		t.Fatalf("expected permit on open route, got %+v", out)
	}
	if out.Location != "/products" {
		t.Fatalf("empty location should default to route path, got %q", out.Location)
	}
}

func TestLoadingUntilReadyAndNeverAgain(t *testing.T) {
	store := session.NewStore(kv.NewMemoryStore(), session.Options{})
	var seen []State
	g := New(store, Options{Observer: func(o Outcome) { seen = append(seen, o.State) }})
	route := policy.MustDescriptor("/")

	if out := g.Evaluate(route, "/"); out.State != Loading || out.Decision != policy.Undecided {
		t.Fatalf("expected undecided loading before restore, got %v/%v", out.State, out.Decision)
	}
	if out := g.Evaluate(policy.MustDescriptor("/users", identity.RoleAdmin), "/users"); out.Decision == policy.Permit {
		t.Fatal("loading must not report a permit decision")
	}

	done := make(chan struct{})
	g.ReadyAfter(done)
	close(done)
	select {
	case <-g.Ready():
	case <-time.After(time.Second):
		t.Fatal("guard did not become ready")
	}
	g.MarkReady()

	if out := g.Evaluate(route, "/"); out.State != DeniedUnauthenticated {
		t.Fatalf("expected unauthenticated after ready, got %v", out.State)
	}
	if _, _, err := store.Clear(context.Background()); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if out := g.Evaluate(route, "/"); out.State == Loading {
		t.Fatal("guard re-entered loading after clear")
	}

	want := []State{Loading, DeniedUnauthenticated, DeniedUnauthenticated}
	if len(seen) != len(want) {
		t.Fatalf("observer saw %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("observer saw %v, want %v", seen, want)
		}
	}
}

func TestEvaluateReadsSessionEveryTime(t *testing.T) {
	ctx := context.Background()
	g, store := readyGuard(t, Options{})
	route := policy.MustDescriptor("/analytics", identity.RoleAdmin)

	if _, err := store.Commit(ctx, identity.MockUser()); err != nil {
		t.Fatalf("commit user: %v", err)
	}
	if g.Evaluate(route, "").State != DeniedUnauthorized {
		t.Fatal("user should be denied")
	}
	if _, err := store.Commit(ctx, identity.MockAdmin()); err != nil {
		t.Fatalf("commit admin: %v", err)
	}
	if g.Evaluate(route, "").State != Permit {
		t.Fatal("admin login should be seen on the next evaluation")
	}
}
