package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rcliao/workspace-assistant/internal/store"
)

// DefaultTTL is how long an idle session lives when no TTL is configured.
const DefaultTTL = 12 * time.Hour

// Options configures a Manager.
type Options struct {
	// TTL is the idle time after which a session ends. Zero means DefaultTTL.
	TTL time.Duration

	// OpenStore creates the workspace store of a new session. Nil means store.NewMemStore.
	OpenStore func() (store.Store, error)

	// Now replaces time.Now.
	Now func() time.Time

	// OnChange is called with the number of live sessions after every create or end.
	OnChange func(active int)
}

// Manager owns the live sessions. Expiry is checked lazily on access, so there is
// no background sweeper.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	opts     Options
	logger   zerolog.Logger
}

// NewManager creates an empty Manager.
func NewManager(logger zerolog.Logger, opts Options) *Manager {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.OpenStore == nil {
		opts.OpenStore = func() (store.Store, error) { return store.NewMemStore(), nil }
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Manager{
		sessions: make(map[string]*Session),
		opts:     opts,
		logger:   logger.With().Str("component", "session").Logger(),
	}
}

// Create starts a new session with an empty workspace.
func (m *Manager) Create() (*Session, error) {
	st, err := m.opts.OpenStore()
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	m.mu.Lock()
	now := m.opts.Now()
	m.expireLocked(now)
	s := newSession(uuid.NewString(), st, m.opts.Now)
	m.sessions[s.ID] = s
	n := len(m.sessions)
	m.mu.Unlock()

	m.logger.Debug().Str("session", s.ID).Int("active", n).Msg("session started")
	m.changed(n)
	return s, nil
}

// Get returns a live session and refreshes its idle timer. A session idle for
// longer than the TTL is ended and reported as missing.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if !ok {
		m.mu.Unlock()
		return nil, false
	}
	now := m.opts.Now()
	if s.idleSince(now) > m.opts.TTL {
		m.endLocked(id, s)
		n := len(m.sessions)
		m.mu.Unlock()
		m.changed(n)
		return nil, false
	}
	m.mu.Unlock()

	s.touch(now)
	return s, true
}

// End discards a session and its workspace.
func (m *Manager) End(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("session %s: %w", id, store.ErrNotFound)
	}
	err := m.endLocked(id, s)
	n := len(m.sessions)
	m.mu.Unlock()

	m.changed(n)
	return err
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Close ends every session.
func (m *Manager) Close() error {
	m.mu.Lock()
	var errs []error
	for id, s := range m.sessions {
		if err := m.endLocked(id, s); err != nil {
			errs = append(errs, err)
		}
	}
	m.mu.Unlock()

	m.changed(0)
	return errors.Join(errs...)
}

func (m *Manager) expireLocked(now time.Time) {
	for id, s := range m.sessions {
		if s.idleSince(now) > m.opts.TTL {
			m.endLocked(id, s)
		}
	}
}

func (m *Manager) endLocked(id string, s *Session) error {
	delete(m.sessions, id)
	if err := s.close(); err != nil {
		m.logger.Warn().Err(err).Str("session", id).Msg("close store")
		return err
	}
	m.logger.Debug().Str("session", id).Msg("session ended")
	return nil
}

func (m *Manager) changed(n int) {
	if m.opts.OnChange != nil {
		m.opts.OnChange(n)
	}
}
