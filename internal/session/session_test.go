package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/goleak"

	"github.com/rcliao/workspace-assistant/internal/auth"
	"github.com/rcliao/workspace-assistant/internal/chat"
	"github.com/rcliao/workspace-assistant/internal/model"
	"github.com/rcliao/workspace-assistant/internal/store"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestManager(t *testing.T, ttl time.Duration) (*Manager, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)}
	m := NewManager(zerolog.Nop(), Options{TTL: ttl, Now: clock.Now})
	t.Cleanup(func() { m.Close() })
	return m, clock
}

func TestCreateAndGet(t *testing.T) {
	m, _ := newTestManager(t, time.Hour)

	s, err := m.Create()
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if s.ID == "" {
		t.Fatal("expected session id")
	}
	if s.Authenticated() {
		t.Error("new session should not be signed in")
	}

	got, ok := m.Get(s.ID)
	if !ok || got != s {
		t.Fatalf("expected to get session %s back", s.ID)
	}
	if _, ok := m.Get("nope"); ok {
		t.Error("expected unknown id to be missing")
	}
	if m.Len() != 1 {
		t.Errorf("expected 1 session, got %d", m.Len())
	}
}

func TestIdleExpiry(t *testing.T) {
	m, clock := newTestManager(t, 30*time.Minute)

	s, _ := m.Create()
	clock.Advance(20 * time.Minute)
	if _, ok := m.Get(s.ID); !ok {
		t.Fatal("session expired too early")
	}

	// Get refreshed the idle timer.
	clock.Advance(20 * time.Minute)
	if _, ok := m.Get(s.ID); !ok {
		t.Fatal("touch did not refresh idle timer")
	}

	clock.Advance(31 * time.Minute)
	if _, ok := m.Get(s.ID); ok {
		t.Fatal("expected session to expire")
	}
	if m.Len() != 0 {
		t.Errorf("expected 0 sessions, got %d", m.Len())
	}
}

func TestCreateSweepsIdleSessions(t *testing.T) {
	m, clock := newTestManager(t, time.Minute)

	m.Create()
	m.Create()
	clock.Advance(2 * time.Minute)
	m.Create()

	if m.Len() != 1 {
		t.Errorf("expected 1 live session, got %d", m.Len())
	}
}

func TestActivityKeepsSessionAlive(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)}
	m := NewManager(zerolog.Nop(), Options{
		TTL:       30 * time.Minute,
		Now:       clock.Now,
		OpenStore: func() (store.Store, error) { return store.Open(store.BackendSQLite, time.UTC) },
	})
	defer m.Close()

	s, err := m.Create()
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	r := chat.NewResponder(zerolog.Nop())
	ctx := context.Background()

	// Chat without going through Get, as the websocket loop does.
	for i := range 4 {
		clock.Advance(10 * time.Minute)
		msg, _, err := s.Ask(ctx, r, "status")
		if err != nil {
			t.Fatalf("Ask %d: %v", i, err)
		}
		if !msg.At.Equal(clock.Now()) {
			t.Errorf("Ask %d: expected reply stamped %v, got %v", i, clock.Now(), msg.At)
		}
	}

	clock.Advance(10 * time.Minute)
	if err := s.Do(func(st store.Store) error {
		_, err := st.AddMemo(ctx, store.AddMemoParams{Title: "still here"})
		return err
	}); err != nil {
		t.Fatalf("Do: %v", err)
	}

	clock.Advance(20 * time.Minute)
	if _, err := m.Create(); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, ok := m.Get(s.ID); !ok {
		t.Fatal("session in active use was expired")
	}
	if _, _, err := s.Ask(ctx, r, "latest memo"); err != nil {
		t.Errorf("Ask after sweep: %v", err)
	}

	clock.Advance(31 * time.Minute)
	if _, ok := m.Get(s.ID); ok {
		t.Error("expected session to expire once activity stops")
	}
}

func TestEnd(t *testing.T) {
	var counts []int
	m := NewManager(zerolog.Nop(), Options{OnChange: func(n int) { counts = append(counts, n) }})

	s, _ := m.Create()
	if err := m.End(s.ID); err != nil {
		t.Fatalf("End: %v", err)
	}
	if err := m.End(s.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if len(counts) != 2 || counts[0] != 1 || counts[1] != 0 {
		t.Errorf("expected gauge updates [1 0], got %v", counts)
	}
}

func TestSQLiteBackedSession(t *testing.T) {
	m := NewManager(zerolog.Nop(), Options{
		OpenStore: func() (store.Store, error) { return store.Open(store.BackendSQLite, time.UTC) },
	})
	defer m.Close()

	s, err := m.Create()
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	err = s.Do(func(st store.Store) error {
		_, err := st.AddMemo(context.Background(), store.AddMemoParams{Title: "hello"})
		return err
	})
	if err != nil {
		t.Fatalf("AddMemo: %v", err)
	}
}

func TestSignOutKeepsWorkspace(t *testing.T) {
	m, _ := newTestManager(t, time.Hour)
	s, _ := m.Create()
	ctx := context.Background()

	s.SignIn(&auth.User{ID: "u1", Email: "ada@example.com"})
	if !s.Authenticated() {
		t.Fatal("expected signed in")
	}
	s.Do(func(st store.Store) error {
		_, err := st.AddTask(ctx, store.AddTaskParams{Title: "Water plants"})
		return err
	})

	s.SignOut()
	if s.Authenticated() {
		t.Fatal("expected signed out")
	}

	var tasks []model.Task
	s.Do(func(st store.Store) error {
		var err error
		tasks, err = st.ListTasks(ctx)
		return err
	})
	if len(tasks) != 1 {
		t.Errorf("expected task to survive sign-out, got %d", len(tasks))
	}
}

func TestAsk(t *testing.T) {
	m, _ := newTestManager(t, time.Hour)
	s, _ := m.Create()
	r := chat.NewResponder(zerolog.Nop())
	ctx := context.Background()

	if _, _, err := s.Ask(ctx, r, "   "); !errors.Is(err, ErrEmptyMessage) {
		t.Errorf("expected ErrEmptyMessage, got %v", err)
	}
	if n := len(s.History()); n != 0 {
		t.Errorf("blank message should not be recorded, got %d messages", n)
	}

	msg, c, err := s.Ask(ctx, r, "latest memo")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if c.Intent != chat.IntentMemo {
		t.Errorf("expected intent memo, got %s", c.Intent)
	}
	if msg.Content != chat.NoMemosText {
		t.Errorf("expected %q, got %q", chat.NoMemosText, msg.Content)
	}

	s.Do(func(st store.Store) error {
		_, err := st.AddMemo(ctx, store.AddMemoParams{Title: "Groceries", Body: "eggs"})
		return err
	})
	msg, _, _ = s.Ask(ctx, r, "latest memo")
	if want := "Your latest memo 'Groceries' says: eggs"; msg.Content != want {
		t.Errorf("expected %q, got %q", want, msg.Content)
	}

	history := s.History()
	if len(history) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(history))
	}
	for i, want := range []model.Role{model.RoleUser, model.RoleAssistant, model.RoleUser, model.RoleAssistant} {
		if history[i].Role != want {
			t.Errorf("message %d: expected role %s, got %s", i, want, history[i].Role)
		}
	}

	history[0].Content = "changed"
	if s.History()[0].Content != "latest memo" {
		t.Error("History should return a copy")
	}
}

func TestConcurrentAsk(t *testing.T) {
	m, _ := newTestManager(t, time.Hour)
	s, _ := m.Create()
	r := chat.NewResponder(zerolog.Nop())

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Ask(context.Background(), r, "status")
		}()
	}
	wg.Wait()

	if n := len(s.History()); n != 40 {
		t.Errorf("expected 40 messages, got %d", n)
	}
}
