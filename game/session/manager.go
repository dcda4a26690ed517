package session

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/wricardo/letterboxed/game/engine"
)

// Manager handles session lifecycle, keyed by puzzle date.
type Manager struct {
	sessions map[string]*Session
	store    SnapshotStore
	mu       sync.RWMutex
	log      zerolog.Logger
	now      func() time.Time
}

// NewManager creates a session manager. A nil store disables persistence.
func NewManager(store SnapshotStore, log zerolog.Logger) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		store:    store,
		log:      log,
		now:      time.Now,
	}
}

// GetOrCreate returns the session for a puzzle date, restoring it from a
// persisted snapshot when one exists. A snapshot that cannot be restored
// against the given puzzle is discarded and replaced with a fresh state.
func (m *Manager) GetOrCreate(date string, puzzle *engine.Puzzle, dict engine.Dictionary) (*Session, error) {
	m.mu.RLock()
	s, exists := m.sessions[date]
	m.mu.RUnlock()
	if exists {
		return s, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, exists := m.sessions[date]; exists {
		return s, nil
	}

	s = &Session{
		Date:      date,
		Engine:    engine.NewEngine(puzzle, dict),
		StartedAt: m.now(),
	}

	if m.store != nil {
		if snap, err := m.store.Load(date); err == nil {
			if err := m.restore(s, snap, puzzle); err != nil {
				m.log.Warn().Err(err).Str("date", date).
					Msg("discarding unusable session snapshot")
			}
		} else if !errors.Is(err, ErrSnapshotNotFound) {
			m.log.Warn().Err(err).Str("date", date).
				Msg("failed to load session snapshot")
		}
	}

	m.sessions[date] = s
	return s, nil
}

// Persist writes the session's snapshot. Failures are logged, never
// surfaced: persistence must not block gameplay.
func (m *Manager) Persist(s *Session) {
	if m.store == nil {
		return
	}
	if err := m.store.Save(NewSnapshot(s)); err != nil {
		m.log.Warn().Err(err).Str("date", s.Date).
			Msg("failed to persist session snapshot")
	}
}

// Restart resets the session to a fresh state and restarts the solve
// clock. The caller must hold the session lock.
func (m *Manager) Restart(s *Session) {
	s.Engine.Restart()
	s.StartedAt = m.now()
	m.Persist(s)
}

// Count returns the number of in-memory sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Evict drops a session from memory. Its snapshot is untouched, so the
// next GetOrCreate restores it.
func (m *Manager) Evict(date string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, date)
}

func (m *Manager) restore(s *Session, snap *Snapshot, puzzle *engine.Puzzle) error {
	if snap.PuzzleDate != s.Date {
		return errors.New("snapshot is for a different puzzle date")
	}
	st, err := snap.RestoreState(puzzle)
	if err != nil {
		return err
	}
	if err := s.Engine.SetState(st); err != nil {
		return err
	}
	if !snap.StartedAt.IsZero() {
		s.StartedAt = snap.StartedAt
	}
	return nil
}
