package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/prepquest/prepquest-backend/internal/model"
)

// ErrNotFound is returned when a session ID has no live session, either
// because it never existed or because it was discarded.
var ErrNotFound = errors.New("session not found")

const reapInterval = time.Minute

// Manager owns all live sessions. Sessions exist only here, in memory; a
// client that leaves without deleting its session is collected by the reaper
// once it has been idle past the TTL.
type Manager struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	src      Source
	ttl      time.Duration
	onResult func(*Session, *model.ResultSet)
	log      zerolog.Logger
}

// NewManager creates a session manager backed by the given question source.
func NewManager(src Source, ttl time.Duration, log zerolog.Logger) *Manager {
	return &Manager{
		sessions: make(map[uuid.UUID]*Session),
		src:      src,
		ttl:      ttl,
		log:      log.With().Str("component", "session_manager").Logger(),
	}
}

// OnResult registers a hook invoked once per session when it is submitted,
// manually or by timer expiry. Used to feed the results history.
func (m *Manager) OnResult(fn func(*Session, *model.ResultSet)) {
	m.onResult = fn
}

// Create starts a new session: page 1 of the first subject is loaded and, in
// exam mode with the timer enabled, the countdown begins.
func (m *Manager) Create(ctx context.Context, req model.CreateSessionRequest, owner string) *Session {
	cfg := Config{
		Exam:    req.Exam,
		Mode:    model.Mode(req.Mode),
		Options: req.Subjects,
		Owner:   owner,
	}
	if cfg.Mode == model.ModeExam && req.TimerEnabled {
		cfg.TimerSeconds = ParseDuration(req.Duration)
	}

	s := New(cfg, m.src, m.log)
	s.onResult = m.onResult
	s.Begin(ctx)

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.log.Info().
		Str("session_id", s.ID.String()).
		Str("mode", string(s.Mode)).
		Int("subjects", len(s.Options)).
		Int("timer_seconds", cfg.TimerSeconds).
		Msg("Session created")

	return s
}

// Get returns the live session with the given ID.
func (m *Manager) Get(id uuid.UUID) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Remove discards a session and stops its countdown.
func (m *Manager) Remove(id uuid.UUID) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ok {
		s.End()
	}
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Start runs the reaper loop until the context is cancelled, collecting
// sessions idle past the TTL.
func (m *Manager) Start(ctx context.Context) {
	m.log.Info().Dur("ttl", m.ttl).Msg("Session reaper started")

	ticker := time.NewTicker(reapInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.log.Info().Msg("Session reaper stopped")
			return
		case <-ticker.C:
			m.reap()
		}
	}
}

func (m *Manager) reap() {
	cutoff := time.Now().Add(-m.ttl)

	m.mu.Lock()
	var expired []*Session
	for id, s := range m.sessions {
		if s.LastActive().Before(cutoff) {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		s.End()
		m.log.Info().
			Str("session_id", s.ID.String()).
			Time("last_active", s.LastActive()).
			Msg("Reaped idle session")
	}
}
