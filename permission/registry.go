package permission

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

const maxBits = 64

var (
	ErrFrozen          = errors.New("permission: frozen")
	ErrDuplicate       = errors.New("permission: already registered")
	ErrCapabilityLimit = errors.New("permission: capability limit exceeded")
)

// Registry assigns capability names to bit positions within a [Mask64], in
// registration order.
type Registry struct {
	rootReserved bool

	mu     sync.RWMutex
	bits   map[string]int
	order  []string
	frozen bool
}

// NewRegistry creates an empty [Registry]. rootReserved keeps the highest bit as a
// grant-everything root capability.
func NewRegistry(rootReserved bool) *Registry {
	return &Registry{
		rootReserved: rootReserved,
		bits:         make(map[string]int),
	}
}

func (r *Registry) capacity() int {
	if r.rootReserved {
		return maxBits - 1
	}
	return maxBits
}

// Register assigns the next free bit to name and returns it.
func (r *Registry) Register(name string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch {
	case r.frozen:
		return -1, ErrFrozen
	case name == "":
		return -1, errors.New("permission: empty capability name")
	}
	if _, exists := r.bits[name]; exists {
		return -1, fmt.Errorf("%w: capability %q", ErrDuplicate, name)
	}
	bit := len(r.order)
	if bit >= r.capacity() {
		return -1, ErrCapabilityLimit
	}

	r.bits[name] = bit
	r.order = append(r.order, name)
	return bit, nil
}

// Bit returns the bit index for the named capability.
func (r *Registry) Bit(name string) (int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	bit, ok := r.bits[name]
	return bit, ok
}

// Names returns registered capability names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

// Freeze prevents further registrations.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// RootBit returns the reserved root bit, or false if root reservation is disabled.
func (r *Registry) RootBit() (int, bool) {
	if !r.rootReserved {
		return -1, false
	}
	return maxBits - 1, true
}
