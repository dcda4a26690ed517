package session

import (
	"errors"
	"time"

	"github.com/wricardo/letterboxed/game/engine"
)

// ErrSnapshotNotFound is returned when no snapshot exists for a date.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// SnapshotStore defines the interface for persisting session snapshots.
type SnapshotStore interface {
	// Save persists a snapshot, replacing any previous one for its date.
	Save(snap *Snapshot) error

	// Load retrieves the snapshot for a puzzle date.
	Load(date string) (*Snapshot, error)

	// Delete removes the snapshot for a puzzle date.
	Delete(date string) error
}

// LetterRef references a puzzle letter by character and position. All
// three fields must match the active puzzle for the reference to resolve.
type LetterRef struct {
	Char  string `json:"char"`
	Side  int    `json:"side"`
	Index int    `json:"index"`
}

// Snapshot is the JSON structure persisted per puzzle date.
type Snapshot struct {
	PuzzleDate         string            `json:"puzzleDate"`
	CompletedWords     []string          `json:"completedWords"`
	CompletedWordPaths [][]LetterRef     `json:"completedWordPaths"`
	CurrentWord        []LetterRef       `json:"currentWord"`
	UsedLetters        []engine.LetterID `json:"usedLetters"`
	SelectedSide       int               `json:"selectedSide"`
	LastWordEndSide    int               `json:"lastWordEndSide"`
	Won                bool              `json:"won"`
	StartedAt          time.Time         `json:"startedAt"`
}

// NewSnapshot captures the state of a session for persistence.
func NewSnapshot(s *Session) *Snapshot {
	st := s.Engine.State()
	snap := &Snapshot{
		PuzzleDate:         s.Date,
		CompletedWords:     append([]string{}, st.CompletedWords...),
		CompletedWordPaths: make([][]LetterRef, 0, len(st.CompletedWordPaths)),
		CurrentWord:        lettersToRefs(st.CurrentWord),
		UsedLetters:        st.UsedLetterIDs(),
		SelectedSide:       st.SelectedSide,
		LastWordEndSide:    st.LastWordEndSide,
		Won:                st.Won,
		StartedAt:          s.StartedAt,
	}
	for _, path := range st.CompletedWordPaths {
		snap.CompletedWordPaths = append(snap.CompletedWordPaths, lettersToRefs(path))
	}
	return snap
}

// RestoreState rebuilds a GameState from the snapshot, resolving every
// letter reference against the active puzzle. Any unresolvable reference
// fails the whole restore; snapshots are never partially applied.
func (snap *Snapshot) RestoreState(puzzle *engine.Puzzle) (*engine.GameState, error) {
	st := engine.NewGameState()

	var err error
	if st.CurrentWord, err = refsToLetters(snap.CurrentWord, puzzle); err != nil {
		return nil, err
	}
	for _, refs := range snap.CompletedWordPaths {
		path, err := refsToLetters(refs, puzzle)
		if err != nil {
			return nil, err
		}
		st.CompletedWordPaths = append(st.CompletedWordPaths, path)
	}
	st.CompletedWords = append([]string{}, snap.CompletedWords...)
	st.SelectedSide = snap.SelectedSide
	st.LastWordEndSide = snap.LastWordEndSide
	st.Won = snap.Won

	// The used set is derived state; rebuilding it from the restored words
	// keeps the snapshot from smuggling in inconsistent identities.
	st.RecomputeUsedLetters()
	return st, nil
}

func lettersToRefs(letters []engine.Letter) []LetterRef {
	refs := make([]LetterRef, 0, len(letters))
	for _, l := range letters {
		refs = append(refs, LetterRef{Char: l.Char, Side: l.Side, Index: l.Index})
	}
	return refs
}

func refsToLetters(refs []LetterRef, puzzle *engine.Puzzle) ([]engine.Letter, error) {
	letters := make([]engine.Letter, 0, len(refs))
	for _, ref := range refs {
		l := engine.Letter{Char: ref.Char, Side: ref.Side, Index: ref.Index}
		if !puzzle.Contains(l) {
			return nil, errors.New("snapshot references a letter not in the active puzzle")
		}
		letters = append(letters, l)
	}
	return letters, nil
}
