package permission

import (
	"errors"
	"reflect"
	"testing"

	"github.com/MrEthical07/goNexus/identity"
)

func TestDefaultCapabilities(t *testing.T) {
	rm, err := Default()
	if err != nil {
		t.Fatalf("default: %v", err)
	}

	if !rm.Allows(identity.RoleAdmin, InventoryWrite) {
		t.Fatal("admin should be allowed to write inventory")
	}
	if rm.Allows(identity.RoleUser, InventoryWrite) {
		t.Fatal("user must not write inventory")
	}
	if !rm.Allows(identity.RoleUser, InventoryRead) {
		t.Fatal("user should read inventory")
	}
	if rm.Allows(identity.Role(0), InventoryRead) {
		t.Fatal("unknown role must be denied")
	}
	if rm.Allows(identity.RoleAdmin, "billing.write") {
		t.Fatal("unregistered capability must be denied")
	}

	want := []string{DashboardRead, InventoryRead, SettingsRead}
	if got := rm.Capabilities(identity.RoleUser); !reflect.DeepEqual(got, want) {
		t.Fatalf("user capabilities = %v, want %v", got, want)
	}
	if got := rm.Capabilities(identity.RoleAdmin); len(got) != 6 {
		t.Fatalf("admin should hold all 6 capabilities, got %v", got)
	}
}

func TestRegistryLimits(t *testing.T) {
	reg := NewRegistry(true)
	for i := 0; i < 63; i++ {
		if _, err := reg.Register(string(rune('A'+i%26)) + string(rune('a'+i/26))); err != nil {
			t.Fatalf("register %d: %v", i, err)
		}
	}
	if _, err := reg.Register("overflow"); !errors.Is(err, ErrCapabilityLimit) {
		t.Fatal("expected root bit to be protected")
	}
	if _, err := reg.Register(""); err == nil {
		t.Fatal("expected empty name to be rejected")
	}

	frozen := NewRegistry(false)
	frozen.Freeze()
	if _, err := frozen.Register("x"); !errors.Is(err, ErrFrozen) {
		t.Fatal("expected frozen registry to reject registration")
	}
}

func TestRoleManagerValidation(t *testing.T) {
	reg := NewRegistry(false)
	if _, err := reg.Register(InventoryRead); err != nil {
		t.Fatalf("register: %v", err)
	}
	rm := NewRoleManager(reg)

	if err := rm.RegisterRole(identity.RoleAdmin, nil, true); err == nil {
		t.Fatal("root grant without reserved bit should fail")
	}
	if err := rm.RegisterRole(identity.RoleUser, []string{"missing"}, false); err == nil {
		t.Fatal("unregistered capability should fail")
	}
	if err := rm.RegisterRole(identity.RoleUser, []string{InventoryRead}, false); err != nil {
		t.Fatalf("register role: %v", err)
	}
	if err := rm.RegisterRole(identity.RoleUser, nil, false); !errors.Is(err, ErrDuplicate) {
		t.Fatal("duplicate role should fail")
	}
	rm.Freeze()
	if err := rm.RegisterRole(identity.RoleAdmin, nil, false); err == nil {
		t.Fatal("frozen manager should reject registration")
	}
	if rm.Count() != 1 {
		t.Fatalf("expected 1 role, got %d", rm.Count())
	}
}

func TestMask64(t *testing.T) {
	m := Mask64(0).With(3)
	if !m.Has(3) || m.Has(4) || m.Len() != 1 {
		t.Fatalf("unexpected mask %b", m)
	}
	if m.Without(3).Has(3) {
		t.Fatal("bit should be cleared")
	}
	if m.With(64) != m || m.With(-1) != m {
		t.Fatal("out of range bits must not change the mask")
	}

	root := Mask64(0).With(63)
	if !root.Grants(10, true) {
		t.Fatal("root bit should grant every bit")
	}
	if root.Grants(10, false) {
		t.Fatal("root bit only grants when reserved")
	}
	if root.Grants(64, true) || root.Grants(-1, true) {
		t.Fatal("out of range bits must be false")
	}
}
