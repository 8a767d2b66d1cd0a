package members

import (
	"errors"
	"fmt"
	"net/mail"
	"slices"
	"strings"
	"time"

	"github.com/MrEthical07/goNexus/identity"
)

var (
	// ErrInvalidMember is returned when a member fails validation.
	ErrInvalidMember = errors.New("members: invalid member")
	// ErrNotFound is returned when no member has the requested id.
	ErrNotFound = errors.New("members: member not found")
)

// Status is Active or Inactive.
type Status uint8

const (
	Active Status = iota + 1
	Inactive
)

func (s Status) String() string {
	switch s {
	case Active:
		return "Active"
	case Inactive:
		return "Inactive"
	default:
		return "Unknown"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Member is one entry of the directory.
type Member struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Email    string        `json:"email"`
	Role     identity.Role `json:"role"`
	JoinDate string        `json:"joinDate"`
	Status   Status        `json:"status"`
}

// NewMember validates the fields. joined is kept at day precision.
func NewMember(id, name, email string, role identity.Role, joined time.Time, status Status) (Member, error) {
	m := Member{
		ID:       strings.TrimSpace(id),
		Name:     strings.TrimSpace(name),
		Email:    strings.TrimSpace(email),
		Role:     role,
		JoinDate: joined.Format("2006-01-02"),
		Status:   status,
	}
	switch {
	case m.ID == "" || m.Name == "":
		return Member{}, fmt.Errorf("%w: id and name are required", ErrInvalidMember)
	case !role.Valid():
		return Member{}, fmt.Errorf("%w: %w", ErrInvalidMember, identity.ErrUnknownRole)
	case status != Active && status != Inactive:
		return Member{}, fmt.Errorf("%w: unknown status", ErrInvalidMember)
	}
	if _, err := mail.ParseAddress(m.Email); err != nil {
		return Member{}, fmt.Errorf("%w: email: %v", ErrInvalidMember, err)
	}
	return m, nil
}

// Directory is an immutable list of members.
type Directory struct {
	members []Member
}

// NewDirectory copies members. Duplicate ids are rejected.
func NewDirectory(members []Member) (*Directory, error) {
	seen := make(map[string]struct{}, len(members))
	for _, m := range members {
		if _, dup := seen[m.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %s", ErrInvalidMember, m.ID)
		}
		seen[m.ID] = struct{}{}
	}
	return &Directory{members: slices.Clone(members)}, nil
}

// DefaultDirectory returns the seeded directory.
func DefaultDirectory() *Directory {
	d, err := NewDirectory(Seed())
	if err != nil {
		panic(err)
	}
	return d
}

// List returns every member in directory order.
func (d *Directory) List() []Member {
	return slices.Clone(d.members)
}

// Get returns the member with id.
func (d *Directory) Get(id string) (Member, error) {
	for _, m := range d.members {
		if m.ID == id {
			return m, nil
		}
	}
	return Member{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// CountByStatus counts members per status.
func (d *Directory) CountByStatus() map[Status]int {
	out := map[Status]int{Active: 0, Inactive: 0}
	for _, m := range d.members {
		out[m.Status]++
	}
	return out
}

// Seed returns the initial directory.
func Seed() []Member {
	return []Member{
		seed("1", "Sarah Jenkins", "sarah@nexus.com", identity.RoleAdmin, "2023-01-12", Active),
		seed("2", "Michael Scott", "michael@nexus.com", identity.RoleUser, "2023-03-05", Active),
		seed("3", "Dwight Schrute", "dwight@nexus.com", identity.RoleUser, "2023-04-18", Inactive),
		seed("4", "Pam Beesly", "pam@nexus.com", identity.RoleUser, "2023-06-22", Active),
		seed("5", "Jim Halpert", "jim@nexus.com", identity.RoleAdmin, "2023-08-11", Active),
	}
}

func seed(id, name, email string, role identity.Role, day string, status Status) Member {
	joined, err := time.Parse("2006-01-02", day)
	if err != nil {
		panic(err)
	}
	m, err := NewMember(id, name, email, role, joined, status)
	if err != nil {
		panic(err)
	}
	return m
}
