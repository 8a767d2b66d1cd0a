package policy

import (
	"github.com/MrEthical07/goNexus/identity"
)

// Decision is the outcome of an access check.
type Decision uint8

const (
	// Undecided is the zero value: no access check has run.
	Undecided Decision = iota
	// Permit lets the identity render the route.
	Permit
	// RedirectLogin means nobody is signed in.
	RedirectLogin
	// RedirectUnauthorized means the signed-in role is not allowed.
	RedirectUnauthorized
)

func (d Decision) String() string {
	switch d {
	case Undecided:
		return "undecided"
	case Permit:
		return "permit"
	case RedirectLogin:
		return "redirect_login"
	case RedirectUnauthorized:
		return "redirect_unauthorized"
	default:
		return "unknown"
	}
}

// Decide maps (who, allowed) to a Decision.
//
// who == nil yields RedirectLogin regardless of allowed. allowed == nil admits any
// authenticated identity.
func Decide(who *identity.Identity, allowed *RoleSet) Decision {
	if who == nil {
		return RedirectLogin
	}
	if allowed != nil && !allowed.Contains(who.Role) {
		return RedirectUnauthorized
	}
	return Permit
}
