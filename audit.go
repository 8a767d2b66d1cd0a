package goNexus

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/MrEthical07/goNexus/internal/audit"
	"github.com/MrEthical07/goNexus/kv"
)

// AuditEvent is one entry of the audit trail.
type AuditEvent = audit.Event

// AuditSink receives audit events from the engine's dispatcher goroutine.
type AuditSink = audit.Sink

// NoOpSink drops every event.
type NoOpSink = audit.NoOpSink

// ChannelSink forwards events into a buffered channel.
type ChannelSink = audit.ChannelSink

// JSONWriterSink writes one JSON object per line.
type JSONWriterSink = audit.JSONWriterSink

// NewChannelSink returns a [ChannelSink] with the given buffer.
func NewChannelSink(buffer int) *ChannelSink { return audit.NewChannelSink(buffer) }

// NewJSONWriterSink returns a [JSONWriterSink] writing to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink { return audit.NewJSONWriterSink(w) }

// NewSlogSink returns a sink that logs each event through logger.
func NewSlogSink(logger *slog.Logger) AuditSink { return audit.NewSlogSink(logger) }

const (
	AuditEventLoginSuccess      = "login_success"
	AuditEventLoginFailure      = "login_failure"
	AuditEventLoginCancelled    = "login_cancelled"
	AuditEventLogout            = "logout"
	AuditEventSessionRestored   = "session_restored"
	AuditEventSessionCorrupt    = "session_corrupt"
	AuditEventAccessDenied      = "access_denied"
	AuditEventProductCreated    = "product_created"
	AuditEventProductUpdated    = "product_updated"
	AuditEventProductDeleted    = "product_deleted"
	AuditEventCapabilityRefused = "capability_refused"
)

const (
	auditErrUnknownRole    = "unknown_role"
	auditErrCancelled      = "cancelled"
	auditErrUnavailable    = "backend_unavailable"
	auditErrUnauthorized   = "unauthorized"
	auditErrUnauthenticate = "unauthenticated"
	auditErrForbidden      = "forbidden"
	auditErrInternal       = "internal_error"
)

// AuditRecord is the caller-supplied part of an event passed to [Engine.RecordActivity].
type AuditRecord struct {
	EventType string
	Route     string
	Success   bool
	Err       error
	// Code overrides the error code derived from Err.
	Code     string
	Metadata map[string]string
}

func (e *Engine) emitAudit(ctx context.Context, rec AuditRecord) {
	if e == nil || (e.audit == nil && e.ring == nil) {
		return
	}

	event := AuditEvent{
		Timestamp: e.now().UTC(),
		EventType: rec.EventType,
		Route:     rec.Route,
		Success:   rec.Success,
		Metadata:  rec.Metadata,
	}
	if s, ok := e.sessions.Current(); ok {
		event.UserID = s.Identity.ID
		event.Role = s.Identity.Role.String()
		event.SessionID = s.ID
	}
	if ip := clientIPFromContext(ctx); ip != "" {
		event.Metadata = withMeta(event.Metadata, "ip", ip)
	}
	if ua := userAgentFromContext(ctx); ua != "" {
		event.Metadata = withMeta(event.Metadata, "user_agent", ua)
	}
	event.Error = rec.Code
	if event.Error == "" {
		event.Error = auditErrorCode(rec.Err)
	}

	e.deliver(ctx, event)
}

// deliver records event in the activity ring synchronously and hands it to the
// dispatcher for the configured sinks.
func (e *Engine) deliver(ctx context.Context, event AuditEvent) {
	if e.ring != nil {
		e.ring.Emit(ctx, event)
	}
	if e.audit != nil {
		e.audit.Emit(ctx, event)
	}
}

func withMeta(m map[string]string, k, v string) map[string]string {
	out := make(map[string]string, len(m)+1)
	for key, val := range m {
		out[key] = val
	}
	out[k] = v
	return out
}

func auditErrorCode(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrAuthenticationFailed):
		return auditErrUnknownRole
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return auditErrCancelled
	case errors.Is(err, kv.ErrUnavailable):
		return auditErrUnavailable
	case errors.Is(err, ErrForbidden):
		return auditErrForbidden
	case errors.Is(err, ErrNoSession):
		return auditErrUnauthenticate
	default:
		return auditErrInternal
	}
}
