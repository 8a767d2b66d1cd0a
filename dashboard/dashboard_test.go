package dashboard

import (
	"testing"
	"time"

	goNexus "github.com/MrEthical07/goNexus"
	"github.com/MrEthical07/goNexus/inventory"
)

type staticActivity []goNexus.AuditEvent

func (s staticActivity) RecentActivity(n int) []goNexus.AuditEvent {
	if n > len(s) {
		n = len(s)
	}
	return s[:n]
}

func TestBuildUsesLiveCatalog(t *testing.T) {
	catalog := inventory.DefaultCatalog()
	if _, err := catalog.Create(inventory.Draft{Name: "Yoga Mat", SKU: "YM-1", Category: inventory.Sports, Stock: 30}); err != nil {
		t.Fatalf("create: %v", err)
	}

	ov := NewBuilder(catalog, nil).Build()
	if len(ov.Stats) != 4 || ov.Stats[2].Value != "7" {
		t.Fatalf("unexpected stats: %+v", ov.Stats)
	}
	if ov.Inventory["In Stock"] != 4 || ov.Inventory["Low Stock"] != 2 || ov.Inventory["Out of Stock"] != 1 {
		t.Fatalf("unexpected inventory summary: %v", ov.Inventory)
	}
	if len(ov.Revenue) != 7 || ov.Revenue[0].Revenue != 4000 {
		t.Fatalf("unexpected revenue: %v", ov.Revenue)
	}
	if ov.Activity == nil || len(ov.Activity) != 0 {
		t.Fatalf("expected empty non-nil activity, got %v", ov.Activity)
	}
}

func TestBuildActivityFeed(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	src := staticActivity{
		{Timestamp: now.Add(-2 * time.Hour), EventType: goNexus.AuditEventProductCreated, UserID: "1"},
		{Timestamp: now.Add(-30 * time.Hour), EventType: goNexus.AuditEventAccessDenied, UserID: "2", Route: "/users"},
		{Timestamp: now.Add(-10 * 24 * time.Hour), EventType: goNexus.AuditEventLogout, UserID: "7"},
		{Timestamp: now, EventType: "custom_event"},
		{Timestamp: now, EventType: goNexus.AuditEventLoginSuccess, UserID: "1"},
	}

	b := NewBuilder(inventory.DefaultCatalog(), src)
	b.now = func() time.Time { return now }
	ov := b.Build()

	if len(ov.Activity) != ActivityLimit {
		t.Fatalf("expected %d entries, got %d", ActivityLimit, len(ov.Activity))
	}
	want := []Activity{
		{User: "Admin User", Action: "added new product", Ago: "2h ago"},
		{User: "Standard User", Action: "was denied access to /users", Ago: "Yesterday"},
		{User: "User 7", Action: "signed out", Ago: "Apr 21, 2026"},
		{User: "Someone", Action: "custom_event", Ago: "just now"},
	}
	for i, w := range want {
		got := ov.Activity[i]
		if got.User != w.User || got.Action != w.Action || got.Ago != w.Ago {
			t.Fatalf("entry %d: expected %+v, got %+v", i, w, got)
		}
	}
}
