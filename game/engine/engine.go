package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Player action errors. All of them are recoverable: the state is left
// unchanged and the next action proceeds normally.
var (
	ErrIllegalSelection      = errors.New("illegal selection")
	ErrWordTooShort          = errors.New("word must be at least 2 letters")
	ErrWordNotInDictionary   = errors.New("not a valid word")
	ErrDictionaryUnavailable = errors.New("dictionary unavailable")
	ErrLetterNotInPuzzle     = errors.New("letter not in puzzle")
	ErrStateNotInPuzzle      = errors.New("state references letters not in puzzle")
)

// Dictionary is the membership lookup the engine performs at submit time.
// Implementations backed by I/O may block; the returned error signals a
// lookup failure (the word could not be validated), not a rejection.
type Dictionary interface {
	Contains(ctx context.Context, word string) (bool, error)
}

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	Puzzle() *Puzzle
	State() *GameState
	SetState(state *GameState) error
	Restart() *GameState
	Won() bool

	// Player events
	Select(id LetterID) error
	SelectChar(char string) error
	Delete()
	Submit(ctx context.Context) (*SubmitResult, error)
}

// SubmitResult reports an accepted word.
type SubmitResult struct {
	Word      string `json:"word"`
	WordCount int    `json:"word_count"`
	Won       bool   `json:"won"`
}

// GameEngine implements the Engine interface for one puzzle. It is not safe
// for concurrent use; callers serialize player events (single-writer queue).
type GameEngine struct {
	puzzle *Puzzle
	dict   Dictionary
	state  *GameState
}

// NewEngine creates a new game engine for the given puzzle and dictionary.
func NewEngine(puzzle *Puzzle, dict Dictionary) *GameEngine {
	return &GameEngine{
		puzzle: puzzle,
		dict:   dict,
		state:  NewGameState(),
	}
}

// Puzzle returns the immutable layout this engine plays against.
func (e *GameEngine) Puzzle() *Puzzle {
	return e.puzzle
}

// State returns the current game state.
func (e *GameEngine) State() *GameState {
	return e.state
}

// SetState replaces the game state, used when restoring a persisted
// snapshot. Every letter referenced by the state must exist in the active
// puzzle; otherwise the snapshot is rejected wholesale and the previous
// state is kept.
func (e *GameEngine) SetState(state *GameState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}
	for _, l := range state.CurrentWord {
		if !e.puzzle.Contains(l) {
			return fmt.Errorf("%w: %s at side %d index %d", ErrStateNotInPuzzle, l.Char, l.Side, l.Index)
		}
	}
	for _, path := range state.CompletedWordPaths {
		for _, l := range path {
			if !e.puzzle.Contains(l) {
				return fmt.Errorf("%w: %s at side %d index %d", ErrStateNotInPuzzle, l.Char, l.Side, l.Index)
			}
		}
	}
	if state.UsedLetters == nil {
		state.RecomputeUsedLetters()
	}
	e.state = state
	return nil
}

// Restart discards the game state and reinitializes to idle against the
// same puzzle.
func (e *GameEngine) Restart() *GameState {
	e.state = NewGameState()
	return e.state
}

// Won reports whether the win condition has fired this session.
func (e *GameEngine) Won() bool {
	return e.state.Won
}

// Select applies a letter selection event by placement identity.
//
// When the current word is empty the letter starts a new word and must not
// come from the side the previous word ended on. Otherwise it extends the
// current word and must not come from the same side as the letter before
// it. Rejections leave the state unchanged.
func (e *GameEngine) Select(id LetterID) error {
	letter, ok := e.puzzle.At(id)
	if !ok {
		return fmt.Errorf("%w: side %d index %d", ErrLetterNotInPuzzle, id.Side, id.Index)
	}

	if len(e.state.CurrentWord) == 0 {
		if e.state.LastWordEndSide != NoSide && letter.Side == e.state.LastWordEndSide {
			return fmt.Errorf("%w: cannot start from the same side the previous word ended on", ErrIllegalSelection)
		}
	} else if letter.Side == e.state.SelectedSide {
		return fmt.Errorf("%w: cannot select from the same side consecutively", ErrIllegalSelection)
	}

	e.state.CurrentWord = append(e.state.CurrentWord, letter)
	e.state.SelectedSide = letter.Side
	e.state.UsedLetters[letter.ID()] = struct{}{}
	return nil
}

// SelectChar resolves a typed character to its placement and selects it.
// This is how keyboard input reaches the engine; characters outside the
// puzzle are rejected.
func (e *GameEngine) SelectChar(char string) error {
	letter, ok := e.puzzle.FindChar(char)
	if !ok {
		return fmt.Errorf("%w: %q", ErrLetterNotInPuzzle, strings.ToUpper(char))
	}
	return e.Select(letter.ID())
}

// Delete undoes the last letter of the current word. When the current word
// is empty and at least one word has been completed, the most recent
// completed word is reopened so the player can backspace through it. With
// nothing to undo, Delete is a no-op.
func (e *GameEngine) Delete() {
	s := e.state

	if len(s.CurrentWord) > 0 {
		last := s.CurrentWord[len(s.CurrentWord)-1]
		s.CurrentWord = s.CurrentWord[:len(s.CurrentWord)-1]

		// The letter stays marked used if any completed word still touches
		// the same placement.
		if !e.placementInCompletedWords(last.ID()) {
			delete(s.UsedLetters, last.ID())
		}

		if len(s.CurrentWord) > 0 {
			s.SelectedSide = s.CurrentWord[len(s.CurrentWord)-1].Side
		} else {
			s.SelectedSide = NoSide
		}
		return
	}

	if len(s.CompletedWords) == 0 || len(s.CompletedWordPaths) == 0 {
		return
	}

	// Reopen the most recently completed word.
	lastPath := s.CompletedWordPaths[len(s.CompletedWordPaths)-1]
	s.CompletedWords = s.CompletedWords[:len(s.CompletedWords)-1]
	s.CompletedWordPaths = s.CompletedWordPaths[:len(s.CompletedWordPaths)-1]
	s.CurrentWord = append([]Letter{}, lastPath...)
	s.SelectedSide = lastPath[len(lastPath)-1].Side

	if n := len(s.CompletedWordPaths); n > 0 {
		prev := s.CompletedWordPaths[n-1]
		s.LastWordEndSide = prev[len(prev)-1].Side
	} else {
		s.LastWordEndSide = NoSide
	}

	// Removing a word may un-use letters that appear nowhere else, so the
	// used set is rebuilt from the remaining words plus the reopened one.
	s.RecomputeUsedLetters()
}

// Submit attempts to complete the current word.
//
// Words shorter than two letters are rejected with ErrWordTooShort and
// words absent from the dictionary with ErrWordNotInDictionary. A failed
// dictionary lookup surfaces ErrDictionaryUnavailable and leaves the
// current word intact for resubmission. On acceptance the next current
// word starts as the accepted word's final letter (the chain rule), and
// the win condition is evaluated.
func (e *GameEngine) Submit(ctx context.Context) (*SubmitResult, error) {
	s := e.state
	word := s.Word()

	if len(s.CurrentWord) < 2 {
		return nil, ErrWordTooShort
	}

	ok, err := e.dict.Contains(ctx, word)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDictionaryUnavailable, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrWordNotInDictionary, word)
	}

	path := append([]Letter{}, s.CurrentWord...)
	last := path[len(path)-1]

	s.CompletedWords = append(s.CompletedWords, word)
	s.CompletedWordPaths = append(s.CompletedWordPaths, path)
	s.CurrentWord = []Letter{last}
	s.SelectedSide = last.Side
	s.LastWordEndSide = last.Side
	s.UsedLetters[last.ID()] = struct{}{}

	won := len(s.UsedLetters) == PuzzleSize
	if won {
		s.Won = true
	}

	return &SubmitResult{
		Word:      word,
		WordCount: len(s.CompletedWords),
		Won:       won,
	}, nil
}

// placementInCompletedWords reports whether any completed word path still
// uses the given placement.
func (e *GameEngine) placementInCompletedWords(id LetterID) bool {
	for _, path := range e.state.CompletedWordPaths {
		for _, l := range path {
			if l.ID() == id {
				return true
			}
		}
	}
	return false
}
