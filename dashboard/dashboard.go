// Package dashboard assembles the overview page: headline figures, the weekly revenue
// series, the live inventory status and recent activity.
package dashboard

import (
	"fmt"
	"time"

	goNexus "github.com/MrEthical07/goNexus"
	"github.com/MrEthical07/goNexus/identity"
	"github.com/MrEthical07/goNexus/inventory"
)

// StatCard is one headline figure.
type StatCard struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Trend string `json:"trend"`
	Up    bool   `json:"up"`
}

// RevenuePoint is one day of the revenue chart.
type RevenuePoint struct {
	Day     string `json:"day"`
	Revenue int    `json:"revenue"`
}

// Activity is one line of the recent activity feed.
type Activity struct {
	User   string    `json:"user"`
	Action string    `json:"action"`
	At     time.Time `json:"at"`
	Ago    string    `json:"ago"`
}

// Overview is the dashboard payload.
type Overview struct {
	Stats     []StatCard     `json:"stats"`
	Revenue   []RevenuePoint `json:"revenue"`
	Inventory map[string]int `json:"inventory"`
	Activity  []Activity     `json:"activity"`
}

// ActivitySource supplies recent audit events, newest first. *goNexus.Engine satisfies it.
type ActivitySource interface {
	RecentActivity(n int) []goNexus.AuditEvent
}

// ActivityLimit is how many feed entries an overview shows.
const ActivityLimit = 4

// Builder produces overviews from live data.
type Builder struct {
	catalog  *inventory.Catalog
	activity ActivitySource
	now      func() time.Time
}

// NewBuilder returns a Builder. activity may be nil.
func NewBuilder(catalog *inventory.Catalog, activity ActivitySource) *Builder {
	return &Builder{catalog: catalog, activity: activity, now: time.Now}
}

// Build returns the current overview.
func (b *Builder) Build() Overview {
	total := b.catalog.Count()
	summary := b.catalog.StatusSummary()

	ov := Overview{
		Stats: []StatCard{
			{Title: "Total Revenue", Value: "$128,430.00", Trend: "+12.5%", Up: true},
			{Title: "Active Users", Value: "2,543", Trend: "+3.2%", Up: true},
			{Title: "Total Products", Value: fmt.Sprintf("%d", total), Trend: "+1.4%", Up: true},
			{Title: "Conversion Rate", Value: "2.4%", Trend: "-0.8%", Up: false},
		},
		Revenue:   WeeklyRevenue(),
		Inventory: make(map[string]int, len(summary)),
		Activity:  []Activity{},
	}
	for status, n := range summary {
		ov.Inventory[status.String()] = n
	}

	if b.activity != nil {
		now := b.now()
		for _, ev := range b.activity.RecentActivity(ActivityLimit) {
			ov.Activity = append(ov.Activity, Activity{
				User:   displayName(ev.UserID),
				Action: describe(ev),
				At:     ev.Timestamp,
				Ago:    ago(now.Sub(ev.Timestamp), ev.Timestamp),
			})
		}
	}
	return ov
}

// WeeklyRevenue returns the fixed seven-day revenue series.
func WeeklyRevenue() []RevenuePoint {
	return []RevenuePoint{
		{"Mon", 4000}, {"Tue", 3000}, {"Wed", 2000}, {"Thu", 2780},
		{"Fri", 1890}, {"Sat", 2390}, {"Sun", 3490},
	}
}

func displayName(userID string) string {
	for _, who := range identity.Directory() {
		if who.ID == userID {
			return who.Name
		}
	}
	if userID == "" {
		return "Someone"
	}
	return "User " + userID
}

func describe(ev goNexus.AuditEvent) string {
	switch ev.EventType {
	case goNexus.AuditEventLoginSuccess:
		return "signed in"
	case goNexus.AuditEventLoginFailure:
		return "failed to sign in"
	case goNexus.AuditEventLogout:
		return "signed out"
	case goNexus.AuditEventSessionRestored:
		return "resumed a session"
	case goNexus.AuditEventProductCreated:
		return "added new product"
	case goNexus.AuditEventProductUpdated:
		return "updated a product"
	case goNexus.AuditEventProductDeleted:
		return "deleted a product"
	case goNexus.AuditEventAccessDenied:
		if ev.Route != "" {
			return "was denied access to " + ev.Route
		}
		return "was denied access"
	default:
		return ev.EventType
	}
}

func ago(d time.Duration, at time.Time) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d/time.Minute))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d/time.Hour))
	case d < 48*time.Hour:
		return "Yesterday"
	default:
		return at.Format("Jan 2, 2006")
	}
}
