package identity

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
)

// ErrInvalidIdentity is returned by [New] when a field fails validation.
var ErrInvalidIdentity = errors.New("invalid identity")

// Identity is an authenticated principal: who is signed in and which role they hold.
//
// Identity values are immutable once built; a role change requires a new login and
// therefore a new Identity.
type Identity struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	Avatar string `json:"avatar"`
}

// New validates its inputs and returns an Identity.
//
// id, name and email are required; email must parse as an address; role must be a
// member of the closed set. avatar is an opaque reference and may be empty.
func New(id, name, email string, role Role, avatar string) (Identity, error) {
	id = strings.TrimSpace(id)
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if id == "" {
		return Identity{}, fmt.Errorf("%w: id is required", ErrInvalidIdentity)
	}
	if name == "" {
		return Identity{}, fmt.Errorf("%w: name is required", ErrInvalidIdentity)
	}
	if email == "" {
		return Identity{}, fmt.Errorf("%w: email is required", ErrInvalidIdentity)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return Identity{}, fmt.Errorf("%w: email %q: %v", ErrInvalidIdentity, email, err)
	}
	if !role.Valid() {
		return Identity{}, fmt.Errorf("%w: %w", ErrInvalidIdentity, ErrUnknownRole)
	}

	return Identity{
		ID:     id,
		Name:   name,
		Email:  email,
		Role:   role,
		Avatar: avatar,
	}, nil
}

// IsAdmin reports whether the identity holds [RoleAdmin].
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// IsZero reports whether i is the zero Identity.
func (i Identity) IsZero() bool {
	return i == Identity{}
}
