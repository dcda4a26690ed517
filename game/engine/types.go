package engine

import (
	"fmt"
	"sort"
	"strings"
)

// Side identifiers for the four edges of the letter square.
const (
	SideTop    = 0
	SideRight  = 1
	SideBottom = 2
	SideLeft   = 3

	// NumSides is the number of edges on the square.
	NumSides = 4
	// LettersPerSide is the number of letters placed on each edge.
	LettersPerSide = 3
	// PuzzleSize is the total number of letters in a puzzle.
	PuzzleSize = NumSides * LettersPerSide

	// NoSide marks the absence of a side constraint, e.g. before the first
	// letter of the first word has been selected.
	NoSide = -1
)

// Letter is an immutable placement of one character on the square.
type Letter struct {
	Char  string `json:"char"`
	Side  int    `json:"side"`
	Index int    `json:"index"`
}

// ID returns the positional identity of the letter. Identity is the
// (side, index) pair, not the character: a character may repeat across
// layouts but never within one.
func (l Letter) ID() LetterID {
	return LetterID{Side: l.Side, Index: l.Index}
}

// LetterID identifies a letter placement by its position on the square.
type LetterID struct {
	Side  int `json:"side"`
	Index int `json:"index"`
}

// Less orders IDs by side, then index.
func (id LetterID) Less(other LetterID) bool {
	if id.Side != other.Side {
		return id.Side < other.Side
	}
	return id.Index < other.Index
}

// Puzzle is a fixed layout of twelve letters, three per side, with all
// twelve characters distinct. A Puzzle is created once (by the generator or
// by loading the bank artifact) and is read-only afterwards.
type Puzzle struct {
	Letters []Letter `json:"letters"`
}

// NewPuzzle builds a puzzle from four 3-character side strings, ordered
// top, right, bottom, left.
func NewPuzzle(sides [NumSides]string) (*Puzzle, error) {
	p := &Puzzle{Letters: make([]Letter, 0, PuzzleSize)}
	for side, chars := range sides {
		if len(chars) != LettersPerSide {
			return nil, fmt.Errorf("side %d must have exactly %d letters, got %q", side, LettersPerSide, chars)
		}
		for index, r := range strings.ToUpper(chars) {
			p.Letters = append(p.Letters, Letter{
				Char:  string(r),
				Side:  side,
				Index: index,
			})
		}
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the structural invariants: twelve letters, one per
// (side, index) slot, all characters distinct and alphabetic.
func (p *Puzzle) Validate() error {
	if len(p.Letters) != PuzzleSize {
		return fmt.Errorf("puzzle must have %d letters, got %d", PuzzleSize, len(p.Letters))
	}
	slots := make(map[LetterID]bool, PuzzleSize)
	chars := make(map[string]bool, PuzzleSize)
	for _, l := range p.Letters {
		if l.Side < 0 || l.Side >= NumSides {
			return fmt.Errorf("letter %q has invalid side %d", l.Char, l.Side)
		}
		if l.Index < 0 || l.Index >= LettersPerSide {
			return fmt.Errorf("letter %q has invalid index %d", l.Char, l.Index)
		}
		if len(l.Char) != 1 || l.Char[0] < 'A' || l.Char[0] > 'Z' {
			return fmt.Errorf("letter at side %d index %d has invalid character %q", l.Side, l.Index, l.Char)
		}
		if slots[l.ID()] {
			return fmt.Errorf("duplicate placement at side %d index %d", l.Side, l.Index)
		}
		slots[l.ID()] = true
		if chars[l.Char] {
			return fmt.Errorf("duplicate character %q in puzzle", l.Char)
		}
		chars[l.Char] = true
	}
	return nil
}

// At returns the letter at the given position.
func (p *Puzzle) At(id LetterID) (Letter, bool) {
	for _, l := range p.Letters {
		if l.ID() == id {
			return l, true
		}
	}
	return Letter{}, false
}

// FindChar returns the letter holding the given character, if any. The
// lookup is case-insensitive.
func (p *Puzzle) FindChar(char string) (Letter, bool) {
	char = strings.ToUpper(char)
	for _, l := range p.Letters {
		if l.Char == char {
			return l, true
		}
	}
	return Letter{}, false
}

// Contains reports whether the exact placement (character at side/index)
// exists in this puzzle. Used to validate persisted snapshots against the
// active layout.
func (p *Puzzle) Contains(l Letter) bool {
	found, ok := p.At(l.ID())
	return ok && found.Char == strings.ToUpper(l.Char)
}

// Sides returns the four side strings in side order, letters in index
// order. This is the serialization form used by the puzzle bank artifact.
func (p *Puzzle) Sides() [NumSides]string {
	var out [NumSides]string
	for side := 0; side < NumSides; side++ {
		var b strings.Builder
		for index := 0; index < LettersPerSide; index++ {
			if l, ok := p.At(LetterID{Side: side, Index: index}); ok {
				b.WriteString(l.Char)
			}
		}
		out[side] = b.String()
	}
	return out
}

// GameState represents the complete mutable state of one game session.
// It is mutated exclusively by the GameEngine in response to player events.
type GameState struct {
	CurrentWord        []Letter   `json:"current_word"`
	CompletedWords     []string   `json:"completed_words"`
	CompletedWordPaths [][]Letter `json:"completed_word_paths"`

	// SelectedSide is the side of the most recently added letter of the
	// current word, or NoSide when the current word is empty.
	SelectedSide int `json:"selected_side"`

	// LastWordEndSide is the side of the final letter of the most recently
	// completed word, or NoSide. It governs the legal starting side of the
	// next word.
	LastWordEndSide int `json:"last_word_end_side"`

	// Won is set when a submit fills the final unused letter. It stays set
	// for the remainder of the session so delivery layers can keep showing
	// the solved banner even if the player keeps editing.
	Won bool `json:"won"`

	// UsedLetters tracks every placement touched by the current word or any
	// completed word. Win detection is len(UsedLetters) == PuzzleSize.
	UsedLetters map[LetterID]struct{} `json:"-"`
}

// NewGameState returns a fresh idle state.
func NewGameState() *GameState {
	return &GameState{
		CurrentWord:        []Letter{},
		CompletedWords:     []string{},
		CompletedWordPaths: [][]Letter{},
		SelectedSide:       NoSide,
		LastWordEndSide:    NoSide,
		UsedLetters:        make(map[LetterID]struct{}),
	}
}

// Word returns the characters of the current word as a single string.
func (s *GameState) Word() string {
	var b strings.Builder
	for _, l := range s.CurrentWord {
		b.WriteString(l.Char)
	}
	return b.String()
}

// WordCount returns the number of completed words.
func (s *GameState) WordCount() int {
	return len(s.CompletedWords)
}

// UsedLetterIDs returns the used placements in deterministic order.
func (s *GameState) UsedLetterIDs() []LetterID {
	ids := make([]LetterID, 0, len(s.UsedLetters))
	for id := range s.UsedLetters {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })
	return ids
}

// RecomputeUsedLetters rebuilds UsedLetters from the completed word paths
// and the current word. Removing a word can un-use letters that appear
// nowhere else, so callers that shrink the completed set must recompute
// from scratch rather than remove incrementally.
func (s *GameState) RecomputeUsedLetters() {
	s.UsedLetters = make(map[LetterID]struct{})
	for _, path := range s.CompletedWordPaths {
		for _, l := range path {
			s.UsedLetters[l.ID()] = struct{}{}
		}
	}
	for _, l := range s.CurrentWord {
		s.UsedLetters[l.ID()] = struct{}{}
	}
}
