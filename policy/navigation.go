package policy

import (
	"fmt"

	"github.com/MrEthical07/goNexus/identity"
)

// NavItem is one sidebar entry.
type NavItem struct {
	Name string `json:"name"`
	Href string `json:"href"`
	Icon string `json:"icon,omitempty"`
}

// Navigation filters sidebar entries through the route table, so an entry is shown
// exactly when its route would permit the viewer.
type Navigation struct {
	items []NavItem
	table *Table
}

// DefaultNavItems returns the dashboard sidebar.
func DefaultNavItems() []NavItem {
	return []NavItem{
		{Name: "Dashboard", Href: "/", Icon: "layout-dashboard"},
		{Name: "Inventory", Href: "/products", Icon: "shopping-bag"},
		{Name: "User Management", Href: "/users", Icon: "users"},
		{Name: "Analytics", Href: "/analytics", Icon: "trending-up"},
		{Name: "Settings", Href: "/settings", Icon: "settings"},
	}
}

// NewNavigation binds items to table. Every item must resolve to a route.
func NewNavigation(table *Table, items []NavItem) (*Navigation, error) {
	for _, it := range items {
		if _, ok := table.Lookup(it.Href); !ok {
			return nil, fmt.Errorf("navigation item %q: no route for %s", it.Name, it.Href)
		}
	}
	cp := make([]NavItem, len(items))
	copy(cp, items)
	return &Navigation{items: cp, table: table}, nil
}

// VisibleFor returns the items whose route permits who. Nobody signed in sees nothing.
func (n *Navigation) VisibleFor(who *identity.Identity) []NavItem {
	out := make([]NavItem, 0, len(n.items))
	for _, it := range n.items {
		d, ok := n.table.Lookup(it.Href)
		if !ok {
			continue
		}
		if d.Decide(who) == Permit {
			out = append(out, it)
		}
	}
	return out
}
