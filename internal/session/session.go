// Package session holds per-user state: sign-in status, the workspace store and the
// chat history. Every action on a session runs to completion before the next starts.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rcliao/workspace-assistant/internal/auth"
	"github.com/rcliao/workspace-assistant/internal/chat"
	"github.com/rcliao/workspace-assistant/internal/model"
	"github.com/rcliao/workspace-assistant/internal/store"
)

// ErrEmptyMessage is returned by Ask for blank input.
var ErrEmptyMessage = errors.New("message is empty")

// Session is one user's in-memory context.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	user     *auth.User
	store    store.Store
	history  []model.ChatMessage
	now      func() time.Time
	lastSeen time.Time
}

func newSession(id string, s store.Store, now func() time.Time) *Session {
	created := now()
	return &Session{
		ID:        id,
		CreatedAt: created,
		store:     s,
		history:   []model.ChatMessage{},
		now:       now,
		lastSeen:  created,
	}
}

// Do runs fn with exclusive access to the session's store. It counts as activity
// for idle expiry.
func (s *Session) Do(fn func(st store.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = s.now()
	return fn(s.store)
}

// SignIn marks the session authenticated as u.
func (s *Session) SignIn(u *auth.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
}

// SignOut clears the authenticated user. Workspace data and history are kept
// until the session itself ends.
func (s *Session) SignOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
}

// User returns the signed-in user, or nil.
func (s *Session) User() *auth.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Authenticated reports whether a user is signed in.
func (s *Session) Authenticated() bool {
	return s.User() != nil
}

// History returns a copy of the conversation so far.
func (s *Session) History() []model.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.ChatMessage, len(s.history))
	copy(out, s.history)
	return out
}

// Ask records text as a user message, answers it from a snapshot of the workspace
// and records the reply. Returns the assistant message. Like Do, it refreshes the
// idle timer, so a long websocket conversation keeps the session alive.
func (s *Session) Ask(ctx context.Context, r *chat.Responder, text string) (model.ChatMessage, chat.Classification, error) {
	if strings.TrimSpace(text) == "" {
		return model.ChatMessage{}, chat.Classification{}, ErrEmptyMessage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ws, err := store.Snapshot(ctx, s.store)
	if err != nil {
		return model.ChatMessage{}, chat.Classification{}, fmt.Errorf("snapshot: %w", err)
	}

	now := s.now()
	s.lastSeen = now
	s.history = append(s.history, model.ChatMessage{Role: model.RoleUser, Content: text, At: now})

	reply, c := r.Respond(text, ws)
	msg := model.ChatMessage{Role: model.RoleAssistant, Content: reply, At: s.now()}
	s.history = append(s.history, msg)
	return msg, c, nil
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = now
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

func (s *Session) close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Close()
}
