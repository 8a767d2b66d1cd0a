package goNexus

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/MrEthical07/goNexus/guard"
	"github.com/MrEthical07/goNexus/identity"
	"github.com/MrEthical07/goNexus/internal/audit"
	"github.com/MrEthical07/goNexus/kv"
	"github.com/MrEthical07/goNexus/permission"
	"github.com/MrEthical07/goNexus/policy"
	"github.com/MrEthical07/goNexus/session"
)

// Engine owns the single session of a process and everything that reads it: the
// authenticator, the route guard, the capability model, the audit trail and metrics.
//
// Build one with [New]; call [Engine.Start] once to restore the persisted session.
type Engine struct {
	config  Config
	logger  *slog.Logger
	backend kv.Store
	// ownsBackend is set when Build opened the backend itself.
	ownsBackend bool
	closers     []io.Closer

	sessions *session.Store
	auth     *Authenticator
	guard    *guard.Guard
	table    *policy.Table
	nav      *policy.Navigation
	roles    *permission.RoleManager

	audit   *audit.Dispatcher
	ring    *audit.RingSink
	metrics *Metrics
	now     func() time.Time

	startOnce     sync.Once
	restoreStatus session.RestoreStatus
	closeOnce     sync.Once
}

/*
====================================
LIFECYCLE
====================================
*/

// Start describes the start operation and its observable behavior.
//
// Start restores the persisted session once and then ends the guard's Loading state.
// Later calls return the first status without touching storage. A backend failure is
// reported as [session.RestoreUnavailable] and the engine starts signed out.
func (e *Engine) Start(ctx context.Context) session.RestoreStatus {
	e.startOnce.Do(func() {
		defer e.guard.MarkReady()

		s, status := e.sessions.Load(ctx)
		e.restoreStatus = status

		switch status {
		case session.RestoreHit:
			e.metricInc(MetricRestoreHit)
			e.emitAudit(ctx, AuditRecord{EventType: AuditEventSessionRestored, Success: true})
			e.logger.Info("session restored", "user_id", s.Identity.ID, "role", s.Identity.Role.String())
		case session.RestoreCorrupt:
			e.metricInc(MetricRestoreCorrupt)
			e.emitAudit(ctx, AuditRecord{EventType: AuditEventSessionCorrupt, Success: false, Code: auditErrInternal})
		case session.RestoreUnavailable:
			e.metricInc(MetricRestoreUnavailable)
			e.logger.Warn("session backend unavailable at start")
		default:
			e.metricInc(MetricRestoreMiss)
		}
	})
	return e.restoreStatus
}

// Ready is closed once Start has finished.
func (e *Engine) Ready() <-chan struct{} {
	return e.guard.Ready()
}

// Close drains the audit dispatcher and releases the backend the engine opened.
// It is safe to call more than once.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	e.closeOnce.Do(func() {
		if e.audit != nil {
			e.audit.Close()
		}
		if e.ownsBackend {
			if err := e.backend.Close(); err != nil {
				e.logger.Warn("close session backend", "error", err)
			}
		}
		for _, c := range e.closers {
			if err := c.Close(); err != nil {
				e.logger.Warn("close backend resource", "error", err)
			}
		}
	})
}

/*
====================================
AUTHENTICATION
====================================
*/

// Login authenticates role and commits the new session. See [Authenticator.Authenticate].
func (e *Engine) Login(ctx context.Context, role identity.Role) (session.Session, error) {
	return e.login(ctx, func() (session.Session, error) {
		return e.auth.Login(ctx, role)
	}, role.String())
}

// LoginRole is Login for a role name such as "ADMIN".
func (e *Engine) LoginRole(ctx context.Context, name string) (session.Session, error) {
	return e.login(ctx, func() (session.Session, error) {
		return e.auth.LoginName(ctx, name)
	}, name)
}

// BeginLogin starts Login in the background.
func (e *Engine) BeginLogin(ctx context.Context, role identity.Role) *LoginTask {
	return startLoginTask(func() (session.Session, error) {
		return e.Login(ctx, role)
	})
}

// LoginPending reports whether a login is waiting on the simulated latency.
func (e *Engine) LoginPending() bool {
	return e.auth.Pending()
}

func (e *Engine) login(ctx context.Context, run func() (session.Session, error), requested string) (session.Session, error) {
	started := e.now()
	s, err := run()
	e.metricObserve(MetricLoginLatency, e.now().Sub(started))

	meta := map[string]string{"requested_role": requested}
	switch {
	case err == nil:
		e.metricInc(MetricLoginSuccess)
		e.emitAudit(ctx, AuditRecord{EventType: AuditEventLoginSuccess, Success: true, Metadata: meta})
		e.logger.Info("login", "user_id", s.Identity.ID, "role", s.Identity.Role.String())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		e.metricInc(MetricLoginCancelled)
		e.emitAudit(context.WithoutCancel(ctx), AuditRecord{EventType: AuditEventLoginCancelled, Err: err, Metadata: meta})
	default:
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, AuditRecord{EventType: AuditEventLoginFailure, Err: err, Metadata: meta})
		e.logger.Warn("login failed", "requested_role", requested, "error", err)
	}
	return s, err
}

// Logout clears the session in storage and memory. Logging out with no session succeeds.
func (e *Engine) Logout(ctx context.Context) error {
	prev, had, err := e.sessions.Clear(ctx)
	if err != nil {
		e.logger.Error("logout failed", "error", err)
		return fmt.Errorf("%w: %w", ErrSessionClearFailed, err)
	}
	if !had {
		return nil
	}

	e.metricInc(MetricLogout)
	if e.audit != nil || e.ring != nil {
		event := AuditEvent{
			Timestamp: e.now().UTC(),
			EventType: AuditEventLogout,
			UserID:    prev.Identity.ID,
			Role:      prev.Identity.Role.String(),
			SessionID: prev.ID,
			Success:   true,
		}
		e.deliver(ctx, event)
	}
	e.logger.Info("logout", "user_id", prev.Identity.ID)
	return nil
}

// Current returns the in-memory session.
func (e *Engine) Current() (session.Session, bool) {
	return e.sessions.Current()
}

// CurrentIdentity returns the signed-in identity or nil.
func (e *Engine) CurrentIdentity() *identity.Identity {
	s, ok := e.sessions.Current()
	if !ok {
		return nil
	}
	who := s.Identity
	return &who
}

// SessionActive reports whether a session is held in memory.
func (e *Engine) SessionActive() bool {
	if e == nil || e.sessions == nil {
		return false
	}
	_, ok := e.sessions.Current()
	return ok
}

/*
====================================
ACCESS CONTROL
====================================
*/

// Guard returns the route guard.
func (e *Engine) Guard() *guard.Guard { return e.guard }

// Routes returns the route table.
func (e *Engine) Routes() *policy.Table { return e.table }

// Roles returns the capability model.
func (e *Engine) Roles() *permission.RoleManager { return e.roles }

// Navigation returns the sidebar items visible to who.
func (e *Engine) Navigation(who *identity.Identity) []policy.NavItem {
	return e.nav.VisibleFor(who)
}

// Evaluate runs the guard for location against the route table. ok is false when no
// route matches; the caller then falls back to its own not-found handling.
func (e *Engine) Evaluate(location string) (out guard.Outcome, ok bool) {
	route, ok := e.table.Lookup(location)
	if !ok {
		return guard.Outcome{}, false
	}
	return e.guard.Evaluate(route, location), true
}

// Allows reports whether who holds capability. Nil means nobody signed in.
func (e *Engine) Allows(who *identity.Identity, capability string) bool {
	if who == nil {
		return false
	}
	return e.roles.Allows(who.Role, capability)
}

// Authorize returns the current identity if it holds capability. Without a session
// it returns [ErrNoSession]; with a session lacking the capability, [ErrForbidden].
func (e *Engine) Authorize(ctx context.Context, capability string) (identity.Identity, error) {
	who := e.CurrentIdentity()
	if who == nil {
		return identity.Identity{}, ErrNoSession
	}
	if !e.roles.Allows(who.Role, capability) {
		e.emitAudit(ctx, AuditRecord{
			EventType: AuditEventCapabilityRefused,
			Err:       ErrForbidden,
			Metadata:  map[string]string{"capability": capability},
		})
		return identity.Identity{}, fmt.Errorf("%w: %s", ErrForbidden, capability)
	}
	return *who, nil
}

func (e *Engine) observeGuard(out guard.Outcome) {
	switch out.State {
	case guard.Loading:
		e.metricInc(MetricGuardLoading)
	case guard.Permit:
		e.metricInc(MetricGuardPermit)
	case guard.DeniedUnauthenticated:
		e.metricInc(MetricGuardRedirectLogin)
		e.emitAudit(context.Background(), AuditRecord{
			EventType: AuditEventAccessDenied,
			Route:     out.Location,
			Code:      auditErrUnauthenticate,
		})
	case guard.DeniedUnauthorized:
		e.metricInc(MetricGuardRedirectUnauthorized)
		e.emitAudit(context.Background(), AuditRecord{
			EventType: AuditEventAccessDenied,
			Route:     out.Location,
			Code:      auditErrUnauthorized,
		})
		e.logger.Debug("access denied", "route", out.Route, "location", out.Location)
	}
}

/*
====================================
ACTIVITY
====================================
*/

// RecordActivity adds a view-layer event to the audit trail, stamped with the
// current session. Inventory writes also bump [MetricInventoryWrite].
func (e *Engine) RecordActivity(ctx context.Context, rec AuditRecord) {
	switch rec.EventType {
	case AuditEventProductCreated, AuditEventProductUpdated, AuditEventProductDeleted:
		if rec.Success {
			e.metricInc(MetricInventoryWrite)
		}
	}
	e.emitAudit(ctx, rec)
}

// RecentActivity returns up to n recent audit events, newest first. It is empty when
// Audit.RingSize is zero.
func (e *Engine) RecentActivity(n int) []AuditEvent {
	if e == nil || e.ring == nil {
		return nil
	}
	return e.ring.Recent(n)
}

// Logger returns the engine logger.
func (e *Engine) Logger() *slog.Logger { return e.logger }

// Config returns a copy of the configuration the engine was built with.
func (e *Engine) Config() Config { return cloneConfig(e.config) }

/*
====================================
METRICS
====================================
*/

// AuditDropped returns how many audit events were dropped because the buffer was full.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot returns a copy of every counter and histogram.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) metricObserve(id MetricID, d time.Duration) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Observe(id, d)
}
