package server

import (
	"encoding/json"
	"net/http"

	"github.com/rcliao/workspace-assistant/internal/auth"
	"github.com/rcliao/workspace-assistant/internal/metrics"
	"github.com/rcliao/workspace-assistant/internal/session"
	"github.com/rcliao/workspace-assistant/internal/store"
	"github.com/rcliao/workspace-assistant/internal/summary"
)

const (
	welcomeTitle = "Welcome to Our AI-Powered Personal Assistant!"
	welcomeText  = "Our app is a personal assistant powered by AI. " +
		"It will help you set reminders, keep track of important dates, and more. " +
		"You can use it to manage your calendar, create tasks, and get notifications. " +
		"Stay organized and on top of your schedule!"
	signUpText = "Account created successfully! Please verify your email and sign in."
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	SessionID     string     `json:"session_id"`
	Authenticated bool       `json:"authenticated"`
	User          *auth.User `json:"user"`
}

func (s *Server) sessionHandler(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	u := sess.User()
	writeJSON(w, http.StatusOK, sessionResponse{SessionID: sess.ID, Authenticated: u != nil, User: u})
}

func (s *Server) authFailure(w http.ResponseWriter, status int, err error) {
	kind := auth.KindOf(err)
	metrics.AuthFailures.WithLabelValues(string(kind)).Inc()
	if kind == auth.KindOther {
		s.logger.Warn().Err(err).Msg("identity provider error")
	}
	writeError(w, status, string(kind), auth.Message(kind))
}

func (s *Server) signInHandler(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var req credentials
	if !decodeBody(w, r, &req) {
		return
	}
	u, err := s.provider.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		s.authFailure(w, http.StatusUnauthorized, err)
		return
	}
	sess.SignIn(u)
	s.logger.Info().Str("session", sess.ID).Str("user", u.ID).Msg("signed in")
	writeJSON(w, http.StatusOK, sessionResponse{SessionID: sess.ID, Authenticated: true, User: u})
}

type signUpResponse struct {
	User    *auth.User `json:"user"`
	Message string     `json:"message"`
}

// signUpHandler registers an account without signing the session in.
func (s *Server) signUpHandler(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var req credentials
	if !decodeBody(w, r, &req) {
		return
	}
	u, err := s.provider.SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		s.authFailure(w, http.StatusBadRequest, err)
		return
	}
	s.logger.Info().Str("session", sess.ID).Str("user", u.ID).Msg("signed up")
	writeJSON(w, http.StatusCreated, signUpResponse{User: u, Message: signUpText})
}

func (s *Server) signOutHandler(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	sess.SignOut()
	writeJSON(w, http.StatusOK, sessionResponse{SessionID: sess.ID})
}

type dashboardResponse struct {
	Authenticated bool            `json:"authenticated"`
	User          *auth.User      `json:"user,omitempty"`
	Glance        *summary.Glance `json:"glance,omitempty"`
	Stats         *store.Stats    `json:"stats,omitempty"`
	Progress      string          `json:"progress,omitempty"`
	Title         string          `json:"title,omitempty"`
	Welcome       string          `json:"welcome,omitempty"`
	Animation     json.RawMessage `json:"animation,omitempty"`
}

func (s *Server) dashboardHandler(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	u := sess.User()
	if u == nil {
		writeJSON(w, http.StatusOK, dashboardResponse{
			Title:     welcomeTitle,
			Welcome:   welcomeText,
			Animation: s.landingAnimation(r.Context()),
		})
		return
	}

	resp := dashboardResponse{Authenticated: true, User: u}
	err := sess.Do(func(st store.Store) error {
		ws, err := store.Snapshot(r.Context(), st)
		if err != nil {
			return err
		}
		stats, err := st.Stats(r.Context())
		if err != nil {
			return err
		}
		g := summary.NewGlance(ws)
		resp.Glance = &g
		resp.Stats = stats
		resp.Progress = stats.Progress()
		return nil
	})
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
