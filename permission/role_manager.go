package permission

import (
	"errors"
	"fmt"
	"sync"

	"github.com/MrEthical07/goNexus/identity"
)

// Capability names used by the dashboard views.
const (
	DashboardRead  = "dashboard.read"
	InventoryRead  = "inventory.read"
	InventoryWrite = "inventory.write"
	MembersRead    = "members.read"
	AnalyticsRead  = "analytics.read"
	SettingsRead   = "settings.read"
)

// RoleManager holds the capability mask of each role.
type RoleManager struct {
	registry *Registry

	mu     sync.RWMutex
	roles  map[identity.Role]Mask64
	frozen bool
}

// NewRoleManager returns an empty RoleManager over registry.
func NewRoleManager(registry *Registry) *RoleManager {
	return &RoleManager{
		registry: registry,
		roles:    make(map[identity.Role]Mask64),
	}
}

// RegisterRole sets role's mask from capability names. root grants every capability
// and requires a registry with a reserved root bit.
func (rm *RoleManager) RegisterRole(role identity.Role, capabilities []string, root bool) error {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if rm.frozen {
		return ErrFrozen
	}
	if !role.Valid() {
		return identity.ErrUnknownRole
	}
	if _, exists := rm.roles[role]; exists {
		return fmt.Errorf("%w: role %s", ErrDuplicate, role)
	}

	var mask Mask64
	if root {
		bit, ok := rm.registry.RootBit()
		if !ok {
			return errors.New("permission: root grant needs a reserved root bit")
		}
		mask = mask.With(bit)
	}
	for _, name := range capabilities {
		bit, ok := rm.registry.Bit(name)
		if !ok {
			return fmt.Errorf("permission: capability %q not registered", name)
		}
		mask = mask.With(bit)
	}

	rm.roles[role] = mask
	return nil
}

// GetMask returns the mask registered for role.
func (rm *RoleManager) GetMask(role identity.Role) (Mask64, bool) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	mask, ok := rm.roles[role]
	return mask, ok
}

// Allows reports whether role holds the named capability. Unknown roles and unknown
// capabilities are denied.
func (rm *RoleManager) Allows(role identity.Role, capability string) bool {
	mask, ok := rm.GetMask(role)
	if !ok {
		return false
	}
	bit, ok := rm.registry.Bit(capability)
	if !ok {
		return false
	}
	_, rootReserved := rm.registry.RootBit()
	return mask.Grants(bit, rootReserved)
}

// Capabilities lists the capability names role holds, in registration order.
func (rm *RoleManager) Capabilities(role identity.Role) []string {
	var out []string
	for _, name := range rm.registry.Names() {
		if rm.Allows(role, name) {
			out = append(out, name)
		}
	}
	return out
}

// Freeze prevents further role registration.
func (rm *RoleManager) Freeze() {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	rm.frozen = true
}

// Count returns the number of registered roles.
func (rm *RoleManager) Count() int {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return len(rm.roles)
}

// Default builds the dashboard's capability model: ADMIN holds the root capability,
// USER holds the read capabilities of the views open to it.
func Default() (*RoleManager, error) {
	reg := NewRegistry(true)
	for _, name := range []string{DashboardRead, InventoryRead, InventoryWrite, MembersRead, AnalyticsRead, SettingsRead} {
		if _, err := reg.Register(name); err != nil {
			return nil, err
		}
	}
	reg.Freeze()

	rm := NewRoleManager(reg)
	if err := rm.RegisterRole(identity.RoleAdmin, nil, true); err != nil {
		return nil, err
	}
	if err := rm.RegisterRole(identity.RoleUser, []string{DashboardRead, InventoryRead, SettingsRead}, false); err != nil {
		return nil, err
	}
	rm.Freeze()
	return rm, nil
}
