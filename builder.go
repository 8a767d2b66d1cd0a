package goNexus

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/MrEthical07/goNexus/guard"
	"github.com/MrEthical07/goNexus/internal/audit"
	"github.com/MrEthical07/goNexus/internal/logging"
	"github.com/MrEthical07/goNexus/jwt"
	"github.com/MrEthical07/goNexus/kv"
	"github.com/MrEthical07/goNexus/permission"
	"github.com/MrEthical07/goNexus/policy"
	"github.com/MrEthical07/goNexus/session"
)

// Builder assembles an [Engine]. A Builder is single use.
type Builder struct {
	config    Config
	store     kv.Store
	logger    *slog.Logger
	auditSink AuditSink
	table     *policy.Table
	now       func() time.Time

	built bool
}

// New returns a Builder holding [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithStore supplies the session backend, overriding Session.Backend. The engine
// does not close a store it was given.
func (b *Builder) WithStore(store kv.Store) *Builder {
	b.store = store
	return b
}

// WithLogger sets the engine logger. Without one the engine logs nothing.
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// WithAuditSink sets where audit events are delivered.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithRoutes replaces the route table, overriding Routes.File.
func (b *Builder) WithRoutes(table *policy.Table) *Builder {
	b.table = table
	return b
}

// WithClock overrides time.Now for sessions and audit timestamps.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build validates the configuration, opens the session backend, and wires the session
// store, authenticator, guard, audit dispatcher and metrics. The returned Engine is in
// the Loading state until [Engine.Start] runs. A second call returns [ErrBuilderUsed].
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, ErrBuilderUsed
	}
	b.built = true

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := b.logger
	if logger == nil {
		logger = logging.Discard()
	}
	now := b.now
	if now == nil {
		now = time.Now
	}

	table := b.table
	if table == nil {
		var err error
		table, err = loadRoutes(cfg.Routes)
		if err != nil {
			return nil, err
		}
	}
	nav, err := buildNavigation(table)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	roles, err := permission.Default()
	if err != nil {
		return nil, fmt.Errorf("%w: capabilities: %v", ErrEngineNotReady, err)
	}

	codec, err := buildCodec(cfg.Session)
	if err != nil {
		return nil, err
	}

	var closers []io.Closer
	backend := b.store
	if backend == nil {
		backend, closers, err = openBackend(context.Background(), cfg.Session)
		if err != nil {
			return nil, err
		}
	}

	e := &Engine{
		config:      cfg,
		logger:      logging.Component(logger, "engine"),
		backend:     backend,
		ownsBackend: b.store == nil,
		closers:     closers,
		table:       table,
		nav:         nav,
		roles:       roles,
		metrics:     NewMetrics(cfg.Metrics),
		now:         now,
	}

	e.sessions = session.NewStore(backend, session.Options{
		Key:    cfg.Session.Key,
		Codec:  codec,
		Logger: logging.Component(logger, "session"),
		Now:    now,
	})
	e.auth = NewAuthenticator(e.sessions, cfg.Auth.LoginLatency)
	e.guard = guard.New(e.sessions, guard.Options{
		LoginPath:        cfg.Routes.LoginPath,
		UnauthorizedPath: cfg.Routes.UnauthorizedPath,
		Observer:         e.observeGuard,
	})

	if cfg.Audit.RingSize > 0 {
		e.ring = audit.NewRingSink(cfg.Audit.RingSize)
	}
	var sinks audit.MultiSink
	if b.auditSink != nil {
		sinks = append(sinks, b.auditSink)
	}
	if cfg.Audit.LogEvents {
		sinks = append(sinks, audit.NewSlogSink(logging.Component(logger, "audit")))
	}
	if len(sinks) > 0 {
		onDrop := func(ev audit.Event) {
			e.logger.Debug("audit event dropped", "event", ev.EventType)
		}
		e.audit = audit.NewDispatcher(audit.Config{
			Enabled:    cfg.Audit.Enabled,
			BufferSize: cfg.Audit.BufferSize,
			DropIfFull: cfg.Audit.DropIfFull,
			OnDrop:     onDrop,
		}, sinks)
	}

	e.logger.Debug("engine built",
		"backend", backendName(cfg.Session, b.store != nil),
		"encoding", cfg.Session.Encoding,
		"routes", len(table.Routes()),
	)
	return e, nil
}

func loadRoutes(cfg RoutesConfig) (*policy.Table, error) {
	if cfg.File == "" {
		return policy.DefaultTable(), nil
	}
	table, err := policy.LoadTableFile(cfg.File)
	if err != nil {
		return nil, fmt.Errorf("%w: routes: %v", ErrInvalidConfig, err)
	}
	return table, nil
}

// buildNavigation keeps the default sidebar items that the table can resolve.
func buildNavigation(table *policy.Table) (*policy.Navigation, error) {
	items := make([]policy.NavItem, 0, len(policy.DefaultNavItems()))
	for _, it := range policy.DefaultNavItems() {
		if _, ok := table.Lookup(it.Href); ok {
			items = append(items, it)
		}
	}
	return policy.NewNavigation(table, items)
}

func buildCodec(cfg SessionConfig) (session.Codec, error) {
	if cfg.Encoding != "signed" {
		return session.BinaryCodec{}, nil
	}

	jcfg := jwt.Config{
		Issuer: cfg.Issuer,
		KeyID:  cfg.KeyID,
	}
	switch cfg.SigningMethod {
	case "ed25519":
		priv, err := os.ReadFile(cfg.PrivateKeyFile)
		if err != nil {
			return nil, fmt.Errorf("%w: read private key: %v", ErrInvalidConfig, err)
		}
		pub, err := os.ReadFile(cfg.PublicKeyFile)
		if err != nil {
			return nil, fmt.Errorf("%w: read public key: %v", ErrInvalidConfig, err)
		}
		jcfg.SigningMethod = jwt.MethodEd25519
		jcfg.PrivateKey = priv
		jcfg.PublicKey = pub
	default:
		jcfg.SigningMethod = jwt.MethodHS256
		jcfg.PrivateKey = []byte(cfg.Secret)
	}

	m, err := jwt.NewManager(jcfg)
	if err != nil {
		return nil, fmt.Errorf("%w: session signing: %v", ErrInvalidConfig, err)
	}
	return session.NewSignedCodec(m), nil
}

// openBackend opens the configured byte store. The closers release resources the
// store does not own, such as an embedded miniredis server.
func openBackend(ctx context.Context, cfg SessionConfig) (kv.Store, []io.Closer, error) {
	switch strings.ToLower(cfg.Backend) {
	case "sqlite":
		s, err := kv.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrEngineNotReady, err)
		}
		return s, nil, nil
	case "redis":
		s, err := kv.DialRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisPrefix)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrEngineNotReady, err)
		}
		return s, nil, nil
	case "miniredis":
		mr, err := miniredis.Run()
		if err != nil {
			return nil, nil, fmt.Errorf("%w: miniredis: %v", ErrEngineNotReady, err)
		}
		s, err := kv.DialRedis(ctx, mr.Addr(), "", 0, cfg.RedisPrefix)
		if err != nil {
			mr.Close()
			return nil, nil, fmt.Errorf("%w: %v", ErrEngineNotReady, err)
		}
		return s, []io.Closer{miniredisCloser{mr}}, nil
	default:
		return kv.NewMemoryStore(), nil, nil
	}
}

type miniredisCloser struct{ mr *miniredis.Miniredis }

func (c miniredisCloser) Close() error {
	c.mr.Close()
	return nil
}

func backendName(cfg SessionConfig, injected bool) string {
	if injected {
		return "injected"
	}
	return cfg.Backend
}

func cloneConfig(cfg Config) Config {
	// every field is a value; the copy is already deep
	return cfg
}
