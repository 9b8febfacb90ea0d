package chat

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/rcliao/workspace-assistant/internal/model"
)

// Responder answers chat messages with a clock, a logger and an optional intent observer.
type Responder struct {
	now     func() time.Time
	logger  zerolog.Logger
	observe func(Intent)
}

// Option configures a Responder.
type Option func(*Responder)

// WithClock replaces time.Now. The clock's location decides what "today" means.
func WithClock(now func() time.Time) Option {
	return func(r *Responder) { r.now = now }
}

// WithObserver is called with every classified intent.
func WithObserver(fn func(Intent)) Option {
	return func(r *Responder) { r.observe = fn }
}

// NewResponder creates a Responder.
func NewResponder(logger zerolog.Logger, opts ...Option) *Responder {
	r := &Responder{
		now:    time.Now,
		logger: logger.With().Str("component", "chat").Logger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Respond classifies text and composes the reply against ws.
func (r *Responder) Respond(text string, ws *model.Workspace) (string, Classification) {
	c := Classify(text, ws)
	if r.observe != nil {
		r.observe(c.Intent)
	}
	r.logger.Debug().
		Str("intent", string(c.Intent)).
		Str("window", string(c.Window)).
		Int("len", len(text)).
		Msg("classified message")
	return Compose(c, ws, r.now()), c
}
