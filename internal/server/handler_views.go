package server

import (
	"net/http"
	"runtime"
	"time"

	"github.com/MrEthical07/goNexus/internal/respond"
	"github.com/MrEthical07/goNexus/members"
	"github.com/MrEthical07/goNexus/middleware"
)

type healthResponse struct {
	Status    string `json:"status"`
	Ready     bool   `json:"ready"`
	Session   bool   `json:"session"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respond.OK(w, r, healthResponse{
		Status:    "healthy",
		Ready:     s.engine.Guard().IsReady(),
		Session:   s.engine.SessionActive(),
		GoVersion: runtime.Version(),
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
	})
}

func (s *Server) handleNavigation(w http.ResponseWriter, r *http.Request) {
	who, _ := middleware.IdentityFromContext(r.Context())
	respond.OK(w, r, s.engine.Navigation(&who))
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	respond.OK(w, r, s.overview.Build())
}

type membersView struct {
	Members []members.Member `json:"members"`
	Active  int              `json:"active"`
	Total   int              `json:"total"`
	CanEdit bool             `json:"can_edit"`
}

func (s *Server) handleMembers(w http.ResponseWriter, r *http.Request) {
	who, _ := middleware.IdentityFromContext(r.Context())
	list := s.directory.List()
	respond.OK(w, r, membersView{
		Members: list,
		Active:  s.directory.CountByStatus()[members.Active],
		Total:   len(list),
		CanEdit: who.IsAdmin(),
	})
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	respond.OK(w, r, map[string]string{
		"title":   "Advanced Analytics Module",
		"message": "Premium visualization tools coming soon.",
	})
}

type settingsView struct {
	Title        string   `json:"title"`
	Profile      any      `json:"profile"`
	Capabilities []string `json:"capabilities"`
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	who, _ := middleware.IdentityFromContext(r.Context())
	respond.OK(w, r, settingsView{
		Title:        "Account Settings",
		Profile:      who,
		Capabilities: s.engine.Roles().Capabilities(who.Role),
	})
}
