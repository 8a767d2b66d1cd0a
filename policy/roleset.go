package policy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MrEthical07/goNexus/identity"
)

// ErrEmptyRoleSet is returned when a role set is present but lists no roles.
var ErrEmptyRoleSet = errors.New("policy: allowed role set is empty")

// RoleSet is an immutable set of roles.
type RoleSet struct {
	bits uint8
}

// NewRoleSet builds a set from roles. An empty list or an invalid role is an error.
func NewRoleSet(roles ...identity.Role) (*RoleSet, error) {
	if len(roles) == 0 {
		return nil, ErrEmptyRoleSet
	}
	s := &RoleSet{}
	for _, r := range roles {
		if !r.Valid() {
			return nil, fmt.Errorf("policy: role %d: %w", r, identity.ErrUnknownRole)
		}
		s.bits |= 1 << r
	}
	return s, nil
}

// ParseRoleSet builds a set from role names such as "ADMIN".
func ParseRoleSet(names []string) (*RoleSet, error) {
	roles := make([]identity.Role, 0, len(names))
	for _, n := range names {
		r, err := identity.ParseRole(n)
		if err != nil {
			return nil, fmt.Errorf("policy: role %q: %w", n, err)
		}
		roles = append(roles, r)
	}
	return NewRoleSet(roles...)
}

// Contains reports whether r is in the set. A nil set contains nothing.
func (s *RoleSet) Contains(r identity.Role) bool {
	if s == nil || !r.Valid() {
		return false
	}
	return s.bits&(1<<r) != 0
}

// Roles returns the members in enumeration order.
func (s *RoleSet) Roles() []identity.Role {
	var out []identity.Role
	for _, r := range identity.Roles() {
		if s.Contains(r) {
			out = append(out, r)
		}
	}
	return out
}

// Complete reports whether the set lists every known role.
func (s *RoleSet) Complete() bool {
	for _, r := range identity.Roles() {
		if !s.Contains(r) {
			return false
		}
	}
	return true
}

func (s *RoleSet) String() string {
	if s == nil {
		return "any"
	}
	names := make([]string, 0, 2)
	for _, r := range s.Roles() {
		names = append(names, r.String())
	}
	return strings.Join(names, ",")
}
