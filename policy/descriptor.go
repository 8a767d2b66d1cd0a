package policy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MrEthical07/goNexus/identity"
)

// ErrInvalidRoute is returned for a descriptor whose path is empty or not absolute.
var ErrInvalidRoute = errors.New("policy: invalid route path")

// Descriptor pairs a route path with the roles allowed to enter it. A nil Allowed set
// admits any authenticated identity.
type Descriptor struct {
	Path    string
	Allowed *RoleSet
}

// NewDescriptor validates path and roles.
//
// roles == nil means any authenticated identity. A non-nil empty slice is rejected
// with [ErrEmptyRoleSet]. A list naming every role is normalized to nil, so
// "unrestricted" has exactly one representation.
func NewDescriptor(path string, roles []identity.Role) (Descriptor, error) {
	path = strings.TrimSpace(path)
	if path == "" || !strings.HasPrefix(path, "/") {
		return Descriptor{}, fmt.Errorf("%w: %q", ErrInvalidRoute, path)
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	if roles == nil {
		return Descriptor{Path: path}, nil
	}

	set, err := NewRoleSet(roles...)
	if err != nil {
		return Descriptor{}, fmt.Errorf("route %s: %w", path, err)
	}
	if set.Complete() {
		set = nil
	}
	return Descriptor{Path: path, Allowed: set}, nil
}

// MustDescriptor is NewDescriptor for static tables; it panics on error.
func MustDescriptor(path string, roles ...identity.Role) Descriptor {
	d, err := NewDescriptor(path, roles)
	if err != nil {
		panic(err)
	}
	return d
}

// AnyAuthenticated reports whether the route has no role restriction.
func (d Descriptor) AnyAuthenticated() bool {
	return d.Allowed == nil
}

// Decide applies the descriptor's role set to who.
func (d Descriptor) Decide(who *identity.Identity) Decision {
	return Decide(who, d.Allowed)
}
