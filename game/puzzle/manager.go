package puzzle

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/wricardo/letterboxed/game/engine"
)

// Small bundled bank so the server can run before any bank has been
// generated.
//
//go:embed default_bank.json
var embeddedBank []byte

// Manager owns the loaded puzzle bank and a cache of parsed puzzles.
// It is initialized once at startup and injected into the service layer.
type Manager struct {
	bank  *Bank
	cache map[int]*engine.Puzzle
	mu    sync.RWMutex
	log   zerolog.Logger
}

// NewManager loads the bank from bankFile, or the embedded default bank
// when bankFile is empty.
func NewManager(bankFile string, log zerolog.Logger) (*Manager, error) {
	var bank *Bank
	var err error
	if bankFile == "" {
		bank, err = ParseBank(embeddedBank)
		if err != nil {
			return nil, fmt.Errorf("failed to load embedded puzzle bank: %w", err)
		}
		log.Warn().Int("size", bank.Size()).Msg("no puzzle bank configured, using embedded default")
	} else {
		bank, err = LoadBank(bankFile)
		if err != nil {
			return nil, err
		}
		log.Info().Str("file", bankFile).Int("size", bank.Size()).Msg("loaded puzzle bank")
	}

	return &Manager{
		bank:  bank,
		cache: make(map[int]*engine.Puzzle),
		log:   log,
	}, nil
}

// Bank returns the loaded bank artifact.
func (m *Manager) Bank() *Bank {
	return m.bank
}

// Size returns the number of layouts in the bank.
func (m *Manager) Size() int {
	return m.bank.Size()
}

// PuzzleAt returns the parsed puzzle at a bank index, caching the result.
func (m *Manager) PuzzleAt(i int) (*engine.Puzzle, error) {
	m.mu.RLock()
	if p, ok := m.cache[i]; ok {
		m.mu.RUnlock()
		return p, nil
	}
	m.mu.RUnlock()

	p, err := m.bank.PuzzleAt(i)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.cache[i] = p
	m.mu.Unlock()
	return p, nil
}

// PuzzleForDate returns the daily puzzle and its bank index for a date key.
func (m *Manager) PuzzleForDate(dateKey string) (*engine.Puzzle, int, error) {
	i := IndexForDate(dateKey, m.bank.Size())
	p, err := m.PuzzleAt(i)
	return p, i, err
}
