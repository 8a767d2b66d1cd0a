package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrEthical07/goNexus/identity"
	"github.com/MrEthical07/goNexus/kv"
)

// DefaultKey is the storage key the record is written under.
const DefaultKey = "nexus_user"

// ErrInvalidIdentity is returned by [Store.Commit] for a zero or invalid identity.
var ErrInvalidIdentity = errors.New("session: invalid identity")

// RestoreStatus classifies the outcome of [Store.Load].
type RestoreStatus uint8

const (
	// RestoreMiss means no record was stored.
	RestoreMiss RestoreStatus = iota
	// RestoreHit means a record was decoded and is now the current session.
	RestoreHit
	// RestoreCorrupt means a record existed but did not decode.
	RestoreCorrupt
	// RestoreUnavailable means the backend failed.
	RestoreUnavailable
)

func (r RestoreStatus) String() string {
	switch r {
	case RestoreHit:
		return "hit"
	case RestoreCorrupt:
		return "corrupt"
	case RestoreUnavailable:
		return "unavailable"
	default:
		return "miss"
	}
}

// Options configures a [Store]. Zero fields take defaults.
type Options struct {
	Key    string
	Codec  Codec
	Logger *slog.Logger
	Now    func() time.Time
	NewID  func() string
}

// Store holds at most one active Session and mirrors it into a [kv.Store].
//
// Commit and Clear write storage first and memory second under one lock, so a
// reader never sees memory that storage does not hold.
type Store struct {
	backend kv.Store
	key     string
	codec   Codec
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string

	mu      sync.RWMutex
	current *Session
}

// NewStore creates a session [Store] persisting through backend.
func NewStore(backend kv.Store, opts Options) *Store {
	s := &Store{
		backend: backend,
		key:     opts.Key,
		codec:   opts.Codec,
		logger:  opts.Logger,
		now:     opts.Now,
		newID:   opts.NewID,
	}
	if s.key == "" {
		s.key = DefaultKey
	}
	if s.codec == nil {
		s.codec = BinaryCodec{}
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	return s
}

// Key returns the storage key of the record.
func (s *Store) Key() string {
	return s.key
}

// Restore reads the persisted record and makes it current. Any failure means
// (zero, false); Restore never returns an error.
func (s *Store) Restore(ctx context.Context) (Session, bool) {
	sess, status := s.Load(ctx)
	return sess, status == RestoreHit
}

// Load is [Store.Restore] with the outcome classified for metrics and audit.
// A corrupt record is deleted best-effort.
func (s *Store) Load(ctx context.Context) (Session, RestoreStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.backend.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return Session{}, RestoreMiss
		}
		s.logger.Warn("session restore failed", "key", s.key, "error", err)
		return Session{}, RestoreUnavailable
	}

	sess, err := s.codec.Decode(data)
	if err != nil {
		s.logger.Warn("discarding malformed session record", "key", s.key, "error", err)
		if derr := s.backend.Delete(ctx, s.key); derr != nil {
			s.logger.Warn("malformed session record not removed", "key", s.key, "error", derr)
		}
		return Session{}, RestoreCorrupt
	}

	s.current = &sess
	return sess, RestoreHit
}

// Commit starts a new Session for who, replacing any current one.
//
// who must be exactly what [identity.New] would build from its fields, so the
// record restores unchanged; anything else is [ErrInvalidIdentity].
// If the write fails the in-memory session is left unchanged and the error wraps
// [kv.ErrUnavailable] or the codec error.
func (s *Store) Commit(ctx context.Context, who identity.Identity) (Session, error) {
	// The record must decode back to exactly who on the next start.
	valid, err := identity.New(who.ID, who.Name, who.Email, who.Role, who.Avatar)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %w", ErrInvalidIdentity, err)
	}
	if valid != who {
		return Session{}, fmt.Errorf("%w: fields are not normalized", ErrInvalidIdentity)
	}

	sess := Session{
		ID:        s.newID(),
		Identity:  who,
		CreatedAt: s.now().UTC().Truncate(time.Second),
	}
	data, err := s.codec.Encode(sess)
	if err != nil {
		return Session{}, fmt.Errorf("encode session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Set(ctx, s.key, data); err != nil {
		return Session{}, fmt.Errorf("persist session: %w", err)
	}
	s.current = &sess
	return sess, nil
}

// Clear ends the current session and returns the one it removed, if any.
// Clearing an empty store succeeds.
func (s *Store) Clear(ctx context.Context) (Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Delete(ctx, s.key); err != nil {
		return Session{}, false, fmt.Errorf("remove session: %w", err)
	}
	prev := s.current
	s.current = nil
	if prev == nil {
		return Session{}, false, nil
	}
	return *prev, true, nil
}

// Current returns the in-memory session without touching storage.
func (s *Store) Current() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return Session{}, false
	}
	return *s.current, true
}
