package identity

import (
	"errors"
	"strings"
)

// ErrUnknownRole is returned when a role string is not one of the closed set.
var ErrUnknownRole = errors.New("unknown role")

// Role is the closed enumeration of principals the dashboard knows about.
// The zero value is not a valid role.
type Role uint8

const (
	// RoleAdmin has full access to every module and CRUD operation.
	RoleAdmin Role = iota + 1
	// RoleUser has read-only access to dashboard modules.
	RoleUser
)

// Roles returns every valid role in declaration order.
func Roles() []Role {
	return []Role{RoleAdmin, RoleUser}
}

// ParseRole converts the persisted/wire form ("ADMIN", "USER") into a [Role].
// Matching is case-insensitive; surrounding whitespace is ignored.
func ParseRole(s string) (Role, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ADMIN":
		return RoleAdmin, nil
	case "USER":
		return RoleUser, nil
	default:
		return 0, ErrUnknownRole
	}
}

// Valid reports whether r is a member of the closed set.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "ADMIN"
	case RoleUser:
		return "USER"
	default:
		return "UNKNOWN"
	}
}

// MarshalText implements encoding.TextMarshaler so roles travel as their names
// in JSON and YAML.
func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, ErrUnknownRole
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
