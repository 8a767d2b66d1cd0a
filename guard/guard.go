package guard

import (
	"sync"

	"github.com/MrEthical07/goNexus/identity"
	"github.com/MrEthical07/goNexus/policy"
	"github.com/MrEthical07/goNexus/session"
)

// Default redirect targets.
const (
	LoginPath        = "/login"
	UnauthorizedPath = "/unauthorized"
)

// State is the guard's view of one navigation.
type State uint8

const (
	// Loading means the initial session restore has not finished.
	Loading State = iota
	// Evaluating is the transient state while a decision is computed. It is never
	// returned in an Outcome.
	Evaluating
	// Permit means the route may render.
	Permit
	// DeniedUnauthenticated redirects to the login path.
	DeniedUnauthenticated
	// DeniedUnauthorized redirects to the unauthorized path.
	DeniedUnauthorized
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Evaluating:
		return "evaluating"
	case Permit:
		return "permit"
	case DeniedUnauthenticated:
		return "denied_unauthenticated"
	case DeniedUnauthorized:
		return "denied_unauthorized"
	default:
		return "unknown"
	}
}

// SessionReader is the read side of the session store.
type SessionReader interface {
	Current() (session.Session, bool)
}

// Outcome is the result of [Guard.Evaluate].
type Outcome struct {
	State    State
	Decision policy.Decision
	Route    string
	// Location is the navigation target that was checked. On DeniedUnauthenticated
	// the login view sends the user back here.
	Location string
	// Redirect is empty unless State is a denial.
	Redirect string
	Identity *identity.Identity
}

// Observer receives every Outcome, including Loading.
type Observer func(Outcome)

// Options configures a [Guard].
type Options struct {
	LoginPath        string
	UnauthorizedPath string
	Observer         Observer
}

// Guard combines a session reader and the access policy.
type Guard struct {
	sessions         SessionReader
	loginPath        string
	unauthorizedPath string
	observer         Observer

	ready     chan struct{}
	readyOnce sync.Once
}

// New returns a Guard in the Loading state.
func New(sessions SessionReader, opts Options) *Guard {
	g := &Guard{
		sessions:         sessions,
		loginPath:        opts.LoginPath,
		unauthorizedPath: opts.UnauthorizedPath,
		observer:         opts.Observer,
		ready:            make(chan struct{}),
	}
	if g.loginPath == "" {
		g.loginPath = LoginPath
	}
	if g.unauthorizedPath == "" {
		g.unauthorizedPath = UnauthorizedPath
	}
	return g
}

// MarkReady ends the Loading state. Later calls are no-ops.
func (g *Guard) MarkReady() {
	g.readyOnce.Do(func() { close(g.ready) })
}

// ReadyAfter marks the guard ready once done is closed.
func (g *Guard) ReadyAfter(done <-chan struct{}) {
	go func() {
		<-done
		g.MarkReady()
	}()
}

// Ready is closed when the guard leaves Loading.
func (g *Guard) Ready() <-chan struct{} {
	return g.ready
}

// IsReady reports whether the guard has left Loading.
func (g *Guard) IsReady() bool {
	select {
	case <-g.ready:
		return true
	default:
		return false
	}
}

// Evaluate checks location against route using the current session.
func (g *Guard) Evaluate(route policy.Descriptor, location string) Outcome {
	out := Outcome{Route: route.Path, Location: location}
	if location == "" {
		out.Location = route.Path
	}

	if !g.IsReady() {
		out.State = Loading
		g.observe(out)
		return out
	}

	var who *identity.Identity
	if sess, ok := g.sessions.Current(); ok {
		id := sess.Identity
		who = &id
	}

	out.Identity = who
	out.Decision = route.Decide(who)
	switch out.Decision {
	case policy.Permit:
		out.State = Permit
	case policy.RedirectLogin:
		out.State = DeniedUnauthenticated
		out.Redirect = g.loginPath
	default:
		out.State = DeniedUnauthorized
		out.Redirect = g.unauthorizedPath
	}

	g.observe(out)
	return out
}

func (g *Guard) observe(out Outcome) {
	if g.observer != nil {
		g.observer(out)
	}
}
