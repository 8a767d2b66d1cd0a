package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	goNexus "github.com/MrEthical07/goNexus"
	"github.com/MrEthical07/goNexus/identity"
	"github.com/MrEthical07/goNexus/internal/respond"
	"github.com/MrEthical07/goNexus/kv"
	"github.com/MrEthical07/goNexus/session"
)

const msgAuthFailed = "Authentication failed. Please try again."

type roleOption struct {
	Role        identity.Role `json:"role"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
}

type loginView struct {
	Roles   []roleOption     `json:"roles"`
	Session *session.Session `json:"session,omitempty"`
	From    string           `json:"from"`
	Pending bool             `json:"pending"`
}

type loginRequest struct {
	Role string `json:"role"`
	From string `json:"from"`
}

type loginResult struct {
	Identity  identity.Identity `json:"identity"`
	SessionID string            `json:"session_id"`
	Redirect  string            `json:"redirect"`
}

func (s *Server) handleLoginView(w http.ResponseWriter, r *http.Request) {
	view := loginView{
		Roles: []roleOption{
			{Role: identity.RoleAdmin, Title: "Administrator", Description: "Full access to all modules and CRUD"},
			{Role: identity.RoleUser, Title: "Standard User", Description: "Read-only access to dashboard modules"},
		},
		From:    sanitizeFrom(r.URL.Query().Get("from"), s.loginPath()),
		Pending: s.engine.LoginPending(),
	}
	if cur, ok := s.engine.Current(); ok {
		view.Session = &cur
	}
	respond.OK(w, r, view)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	req, err := decodeLogin(w, r)
	if err != nil {
		respond.Error(w, r, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	sess, err := s.engine.LoginRole(r.Context(), req.Role)
	switch {
	case err == nil:
	case errors.Is(err, goNexus.ErrAuthenticationFailed):
		respond.Error(w, r, http.StatusUnauthorized, "authentication_failed", msgAuthFailed)
		return
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respond.Error(w, r, http.StatusRequestTimeout, "cancelled", "login was cancelled")
		return
	case errors.Is(err, kv.ErrUnavailable):
		respond.Error(w, r, http.StatusServiceUnavailable, "session_unavailable", "session storage is unavailable")
		return
	default:
		s.logger.Error("login", "error", err)
		respond.Error(w, r, http.StatusInternalServerError, "internal_error", msgAuthFailed)
		return
	}

	target := sanitizeFrom(req.From, s.loginPath())
	respond.Redirect(w, r, target, loginResult{
		Identity:  sess.Identity,
		SessionID: sess.ID,
		Redirect:  target,
	})
}

// decodeLogin accepts a JSON body or a form post.
func decodeLogin(w http.ResponseWriter, r *http.Request) (loginRequest, error) {
	var req loginRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4<<10)).Decode(&req); err != nil {
			return loginRequest{}, errors.New("malformed JSON body")
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return loginRequest{}, errors.New("malformed form body")
		}
		req.Role = r.PostForm.Get("role")
		req.From = r.PostForm.Get("from")
	}
	if strings.TrimSpace(req.Role) == "" {
		return loginRequest{}, errors.New("role is required")
	}
	return req, nil
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.Logout(r.Context()); err != nil {
		respond.Error(w, r, http.StatusServiceUnavailable, "session_unavailable", "could not clear the session")
		return
	}
	respond.Redirect(w, r, s.loginPath(), map[string]string{"status": "signed_out"})
}

func (s *Server) handleUnauthorized(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, r, http.StatusForbidden, map[string]string{
		"title":   "Access Denied",
		"message": "It looks like you don't have the necessary permissions to view this page. This section is restricted to administrators only.",
		"back":    "/",
	}, nil, &respond.APIError{Code: "access_denied", Message: "insufficient role"})
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	cur, ok := s.engine.Current()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	respond.OK(w, r, cur)
}

// sanitizeFrom keeps only local absolute paths so the login redirect cannot leave the
// site. The login page itself is not a useful destination.
func sanitizeFrom(from, loginPath string) string {
	from = strings.TrimSpace(from)
	switch {
	case from == "",
		!strings.HasPrefix(from, "/"),
		strings.HasPrefix(from, "//"),
		strings.HasPrefix(from, "/\\"),
		strings.ContainsAny(from, "\r\n"):
		return "/"
	}
	if from == loginPath || strings.HasPrefix(from, loginPath+"?") {
		return "/"
	}
	return from
}
