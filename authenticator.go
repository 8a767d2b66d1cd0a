package goNexus

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MrEthical07/goNexus/identity"
	"github.com/MrEthical07/goNexus/session"
)

// Committer persists a freshly authenticated identity. *session.Store satisfies it.
type Committer interface {
	Commit(ctx context.Context, who identity.Identity) (session.Session, error)
}

// Authenticator maps a role selection onto one of the fixed mock identities and
// commits it to the session store.
type Authenticator struct {
	sessions  Committer
	directory map[identity.Role]identity.Identity
	latency   time.Duration
	pending   atomic.Int32
}

// NewAuthenticator returns an Authenticator that waits latency before each check.
// The directory is [identity.Directory].
func NewAuthenticator(sessions Committer, latency time.Duration) *Authenticator {
	return &Authenticator{
		sessions:  sessions,
		directory: identity.Directory(),
		latency:   latency,
	}
}

// Authenticate describes the authenticate operation and its observable behavior.
//
// Authenticate waits the simulated latency, resolves role to its fixed identity and
// commits it. An unknown role returns an error wrapping [ErrAuthenticationFailed] and
// [identity.ErrUnknownRole]; a cancelled ctx returns ctx.Err(). Neither commits.
func (a *Authenticator) Authenticate(ctx context.Context, role identity.Role) (identity.Identity, error) {
	s, err := a.Login(ctx, role)
	if err != nil {
		return identity.Identity{}, err
	}
	return s.Identity, nil
}

// Login is Authenticate returning the committed session.
func (a *Authenticator) Login(ctx context.Context, role identity.Role) (session.Session, error) {
	a.pending.Add(1)
	defer a.pending.Add(-1)

	if err := a.wait(ctx); err != nil {
		return session.Session{}, err
	}

	who, ok := a.directory[role]
	if !ok {
		return session.Session{}, fmt.Errorf("%w: %w", ErrAuthenticationFailed, identity.ErrUnknownRole)
	}

	// Cancellation can race the timer; never commit for a caller that gave up.
	if err := ctx.Err(); err != nil {
		return session.Session{}, err
	}

	s, err := a.sessions.Commit(ctx, who)
	if err != nil {
		return session.Session{}, fmt.Errorf("%w: %w", ErrSessionCommitFailed, err)
	}
	return s, nil
}

// LoginName parses name as a role and logs in. Unparseable names fail like unknown roles.
func (a *Authenticator) LoginName(ctx context.Context, name string) (session.Session, error) {
	role, err := identity.ParseRole(name)
	if err != nil {
		// keep the latency so a bad role is indistinguishable from a good one
		if werr := a.wait(ctx); werr != nil {
			return session.Session{}, werr
		}
		return session.Session{}, fmt.Errorf("%w: %w", ErrAuthenticationFailed, err)
	}
	return a.Login(ctx, role)
}

// Pending reports whether any login is waiting on the simulated latency.
func (a *Authenticator) Pending() bool {
	return a.pending.Load() > 0
}

// Begin starts a login in the background and returns its task.
func (a *Authenticator) Begin(ctx context.Context, role identity.Role) *LoginTask {
	return startLoginTask(func() (session.Session, error) {
		return a.Login(ctx, role)
	})
}

func (a *Authenticator) wait(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	if a.latency <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(a.latency)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LoginTask is an in-flight login started by [Authenticator.Begin].
type LoginTask struct {
	done chan struct{}
	once sync.Once

	session session.Session
	err     error
}

func startLoginTask(run func() (session.Session, error)) *LoginTask {
	t := &LoginTask{done: make(chan struct{})}
	go func() {
		s, err := run()
		t.finish(s, err)
	}()
	return t
}

func (t *LoginTask) finish(s session.Session, err error) {
	t.once.Do(func() {
		t.session = s
		t.err = err
		close(t.done)
	})
}

// Done is closed when the login has finished.
func (t *LoginTask) Done() <-chan struct{} {
	return t.done
}

// Pending reports whether the login is still running.
func (t *LoginTask) Pending() bool {
	select {
	case <-t.done:
		return false
	default:
		return true
	}
}

// Wait blocks until the login finishes or ctx is done. Giving up on Wait does not
// cancel the login; cancel the context passed to Begin for that.
func (t *LoginTask) Wait(ctx context.Context) (identity.Identity, error) {
	s, err := t.Result(ctx)
	if err != nil {
		return identity.Identity{}, err
	}
	return s.Identity, nil
}

// Result is Wait returning the whole session.
func (t *LoginTask) Result(ctx context.Context) (session.Session, error) {
	select {
	case <-t.done:
		return t.session, t.err
	case <-ctx.Done():
		return session.Session{}, ctx.Err()
	}
}
