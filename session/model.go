package session

import (
	"time"

	"github.com/MrEthical07/goNexus/identity"
)

// Session is the authenticated state of the process: exactly one Identity plus the
// record metadata stamped at login.
type Session struct {
	ID        string            `json:"id"`
	Identity  identity.Identity `json:"identity"`
	CreatedAt time.Time         `json:"created_at"`
}

// IsZero reports whether s is the zero Session.
func (s Session) IsZero() bool {
	return s.ID == "" && s.Identity.IsZero()
}
