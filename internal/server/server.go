// Package server exposes the assistant over HTTP and a chat websocket.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/rcliao/workspace-assistant/internal/animation"
	"github.com/rcliao/workspace-assistant/internal/auth"
	"github.com/rcliao/workspace-assistant/internal/chat"
	"github.com/rcliao/workspace-assistant/internal/session"
)

// Options configures a Server.
type Options struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CookieName   string

	// AnimationURL is the landing page Lottie document. Empty disables it.
	AnimationURL string

	// Location decides the calendar day of submitted event dates. Nil means time.Local.
	Location *time.Location
}

// Server represents the HTTP server.
type Server struct {
	opts      Options
	sessions  *session.Manager
	provider  auth.Provider
	responder *chat.Responder
	logger    zerolog.Logger

	handler    http.Handler
	httpServer *http.Server
	upgrader   websocket.Upgrader
	client     *http.Client
	startTime  time.Time

	animMu sync.Mutex
	anim   json.RawMessage
}

// New creates a new HTTP server.
func New(opts Options, sessions *session.Manager, provider auth.Provider, responder *chat.Responder, logger zerolog.Logger) *Server {
	if opts.CookieName == "" {
		opts.CookieName = "assistant_session"
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}

	s := &Server{
		opts:      opts,
		sessions:  sessions,
		provider:  provider,
		responder: responder,
		logger:    logger.With().Str("component", "server").Logger(),
		upgrader:  websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 1024},
		client:    &http.Client{Timeout: 5 * time.Second},
		startTime: time.Now(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.healthHandler)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/session", s.withSession(s.sessionHandler))
	mux.HandleFunc("POST /api/auth/signin", s.withSession(s.signInHandler))
	mux.HandleFunc("POST /api/auth/signup", s.withSession(s.signUpHandler))
	mux.HandleFunc("POST /api/auth/signout", s.withSession(s.signOutHandler))
	mux.HandleFunc("GET /api/dashboard", s.withSession(s.dashboardHandler))

	mux.HandleFunc("GET /api/memos", s.signedIn(s.listMemosHandler))
	mux.HandleFunc("POST /api/memos", s.signedIn(s.addMemoHandler))
	mux.HandleFunc("DELETE /api/memos/{id}", s.signedIn(s.removeMemoHandler))

	mux.HandleFunc("GET /api/tasks", s.signedIn(s.listTasksHandler))
	mux.HandleFunc("POST /api/tasks", s.signedIn(s.addTaskHandler))
	mux.HandleFunc("PATCH /api/tasks/{id}", s.signedIn(s.toggleTaskHandler))
	mux.HandleFunc("DELETE /api/tasks/{id}", s.signedIn(s.removeTaskHandler))

	mux.HandleFunc("GET /api/events", s.signedIn(s.listEventsHandler))
	mux.HandleFunc("POST /api/events", s.signedIn(s.addEventHandler))
	mux.HandleFunc("DELETE /api/events/{id}", s.signedIn(s.removeEventHandler))

	mux.HandleFunc("GET /api/chat", s.signedIn(s.chatHistoryHandler))
	mux.HandleFunc("POST /api/chat", s.signedIn(s.chatHandler))
	mux.HandleFunc("GET /api/chat/ws", s.signedIn(s.chatWSHandler))

	s.handler = s.instrument(mux)
	s.httpServer = &http.Server{
		Addr:         opts.Addr,
		Handler:      s.handler,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the root handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start listens until Shutdown is called. Returns http.ErrServerClosed after a clean shutdown.
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.opts.Addr).Msg("HTTP server starting")
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

type healthResponse struct {
	Status   string `json:"status"`
	Uptime   string `json:"uptime"`
	Sessions int    `json:"sessions"`
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:   "healthy",
		Uptime:   time.Since(s.startTime).Round(time.Second).String(),
		Sessions: s.sessions.Len(),
	})
}

// landingAnimation returns the cached animation, fetching it until one fetch succeeds.
func (s *Server) landingAnimation(ctx context.Context) json.RawMessage {
	if s.opts.AnimationURL == "" {
		return nil
	}
	s.animMu.Lock()
	defer s.animMu.Unlock()
	if s.anim != nil {
		return s.anim
	}

	blob, err := animation.Fetch(ctx, s.client, s.opts.AnimationURL)
	if err != nil {
		s.logger.Warn().Err(err).Str("url", s.opts.AnimationURL).Msg("landing animation unavailable")
		return nil
	}
	s.anim = blob
	return blob
}
