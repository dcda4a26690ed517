package session

import (
	"sync"
	"time"

	"github.com/wricardo/letterboxed/game/engine"
)

// Session binds one day's puzzle to a running engine. StartedAt marks
// when the player first touched the puzzle and feeds solve timing.
type Session struct {
	Date      string
	Engine    *engine.GameEngine
	StartedAt time.Time

	mu sync.Mutex
}

// Lock serializes mutations against the session's engine. All callers
// that read or mutate engine state must hold it.
func (s *Session) Lock() {
	s.mu.Lock()
}

// Unlock releases the session lock.
func (s *Session) Unlock() {
	s.mu.Unlock()
}
