package identity

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseRoleAcceptsKnownNames(t *testing.T) {
	cases := map[string]Role{
		"ADMIN":  RoleAdmin,
		"admin":  RoleAdmin,
		" USER ": RoleUser,
		"user":   RoleUser,
	}
	for in, want := range cases {
		got, err := ParseRole(in)
		if err != nil {
			t.Fatalf("ParseRole(%q) failed: %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseRole(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestParseRoleRejectsUnknown(t *testing.T) {
	for _, in := range []string{"", "ROOT", "guest", "ADMINS"} {
		if _, err := ParseRole(in); !errors.Is(err, ErrUnknownRole) {
			t.Fatalf("ParseRole(%q): expected ErrUnknownRole, got %v", in, err)
		}
	}
}

func TestZeroRoleIsInvalid(t *testing.T) {
	var r Role
	if r.Valid() {
		t.Fatal("zero role must not be valid")
	}
	if _, err := r.MarshalText(); !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
}

func TestNewValidatesFields(t *testing.T) {
	tests := []struct {
		name  string
		id    string
		dname string
		email string
		role  Role
	}{
		{name: "missing id", dname: "A", email: "a@nexus.com", role: RoleUser},
		{name: "missing name", id: "1", email: "a@nexus.com", role: RoleUser},
		{name: "missing email", id: "1", dname: "A", role: RoleUser},
		{name: "bad email", id: "1", dname: "A", email: "not-an-email", role: RoleUser},
		{name: "bad role", id: "1", dname: "A", email: "a@nexus.com", role: Role(9)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.id, tc.dname, tc.email, tc.role, ""); !errors.Is(err, ErrInvalidIdentity) {
				t.Fatalf("expected ErrInvalidIdentity, got %v", err)
			}
		})
	}
}

func TestIdentityJSONUsesRoleNames(t *testing.T) {
	data, err := json.Marshal(MockAdmin())
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded Identity
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded != MockAdmin() {
		t.Fatalf("round trip mismatch: %+v", decoded)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal raw failed: %v", err)
	}
	if raw["role"] != "ADMIN" {
		t.Fatalf("expected role ADMIN on the wire, got %v", raw["role"])
	}
}

func TestDirectoryCoversEveryRole(t *testing.T) {
	dir := Directory()
	for _, r := range Roles() {
		ident, ok := dir[r]
		if !ok {
			t.Fatalf("directory missing role %v", r)
		}
		if ident.Role != r {
			t.Fatalf("directory entry for %v has role %v", r, ident.Role)
		}
	}

	dir[RoleAdmin] = Identity{}
	if Directory()[RoleAdmin] != MockAdmin() {
		t.Fatal("Directory must return a copy")
	}
}
