package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// testSides is the layout used across the engine tests:
// top O,T,K / right P,I,A / bottom W,E,C / left R,V,N.
var testSides = [NumSides]string{"OTK", "PIA", "WEC", "RVN"}

// mapDict is an in-memory dictionary for tests.
type mapDict map[string]bool

func (d mapDict) Contains(_ context.Context, word string) (bool, error) {
	return d[strings.ToUpper(word)], nil
}

// failingDict simulates a dictionary provider whose lookup fails.
type failingDict struct{}

func (failingDict) Contains(_ context.Context, _ string) (bool, error) {
	return false, errors.New("connection refused")
}

func createTestEngine(t *testing.T, dict Dictionary) *GameEngine {
	t.Helper()
	puzzle, err := NewPuzzle(testSides)
	if err != nil {
		t.Fatalf("Failed to create test puzzle: %v", err)
	}
	return NewEngine(puzzle, dict)
}

func mustSelect(t *testing.T, e *GameEngine, chars string) {
	t.Helper()
	for _, r := range chars {
		if err := e.SelectChar(string(r)); err != nil {
			t.Fatalf("SelectChar(%q) failed: %v", string(r), err)
		}
	}
}

func TestNewPuzzle(t *testing.T) {
	puzzle, err := NewPuzzle(testSides)
	if err != nil {
		t.Fatalf("Failed to create puzzle: %v", err)
	}
	if len(puzzle.Letters) != PuzzleSize {
		t.Errorf("Expected %d letters, got %d", PuzzleSize, len(puzzle.Letters))
	}
	if got := puzzle.Sides(); got != testSides {
		t.Errorf("Expected sides %v, got %v", testSides, got)
	}
}

func TestNewPuzzle_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		sides [NumSides]string
	}{
		{"short side", [NumSides]string{"OT", "PIA", "WEC", "RVN"}},
		{"duplicate character", [NumSides]string{"OTK", "PIA", "WEC", "RVO"}},
		{"non-alphabetic", [NumSides]string{"OT1", "PIA", "WEC", "RVN"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewPuzzle(tt.sides); err == nil {
				t.Errorf("Expected error for %s", tt.name)
			}
		})
	}
}

func TestPuzzle_Lookups(t *testing.T) {
	puzzle, _ := NewPuzzle(testSides)

	l, ok := puzzle.FindChar("e")
	if !ok {
		t.Fatal("Expected to find letter E")
	}
	if l.Side != SideBottom || l.Index != 1 {
		t.Errorf("Expected E at side %d index 1, got side %d index %d", SideBottom, l.Side, l.Index)
	}

	if _, ok := puzzle.FindChar("Z"); ok {
		t.Error("Did not expect to find letter Z")
	}

	if !puzzle.Contains(Letter{Char: "O", Side: SideTop, Index: 0}) {
		t.Error("Expected puzzle to contain O at top/0")
	}
	if puzzle.Contains(Letter{Char: "O", Side: SideRight, Index: 0}) {
		t.Error("Did not expect O at right/0")
	}
}

func TestEngine_SelectFirstLetter(t *testing.T) {
	e := createTestEngine(t, mapDict{})

	if err := e.SelectChar("O"); err != nil {
		t.Fatalf("First selection failed: %v", err)
	}

	s := e.State()
	if got := s.Word(); got != "O" {
		t.Errorf("Expected current word O, got %q", got)
	}
	if s.SelectedSide != SideTop {
		t.Errorf("Expected selected side %d, got %d", SideTop, s.SelectedSide)
	}
	if len(s.UsedLetters) != 1 {
		t.Errorf("Expected 1 used letter, got %d", len(s.UsedLetters))
	}
}

func TestEngine_RejectSameSideConsecutive(t *testing.T) {
	e := createTestEngine(t, mapDict{})

	// O and T are both on the top side.
	mustSelect(t, e, "O")
	err := e.SelectChar("T")
	if !errors.Is(err, ErrIllegalSelection) {
		t.Fatalf("Expected ErrIllegalSelection, got %v", err)
	}

	// Rejection leaves the state unchanged.
	s := e.State()
	if got := s.Word(); got != "O" {
		t.Errorf("Expected current word O after rejection, got %q", got)
	}
	if len(s.UsedLetters) != 1 {
		t.Errorf("Expected 1 used letter after rejection, got %d", len(s.UsedLetters))
	}
}

func TestEngine_RejectSameSideAsPreviousWordEnd(t *testing.T) {
	e := createTestEngine(t, mapDict{"OP": true})

	mustSelect(t, e, "OP")
	if _, err := e.Submit(context.Background()); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	// The next word already starts with P (right side). Clear it so the
	// next selection starts a fresh word.
	e.Delete()
	if got := len(e.State().CurrentWord); got != 0 {
		t.Fatalf("Expected empty current word, got %d letters", got)
	}

	// OP ended on the right side; I is also on the right side.
	err := e.SelectChar("I")
	if !errors.Is(err, ErrIllegalSelection) {
		t.Fatalf("Expected ErrIllegalSelection, got %v", err)
	}
}

func TestEngine_SelectUnknownLetter(t *testing.T) {
	e := createTestEngine(t, mapDict{})

	if err := e.SelectChar("Z"); !errors.Is(err, ErrLetterNotInPuzzle) {
		t.Errorf("Expected ErrLetterNotInPuzzle, got %v", err)
	}
	if err := e.Select(LetterID{Side: 5, Index: 0}); !errors.Is(err, ErrLetterNotInPuzzle) {
		t.Errorf("Expected ErrLetterNotInPuzzle for bad id, got %v", err)
	}
}

func TestEngine_SubmitTooShort(t *testing.T) {
	e := createTestEngine(t, mapDict{})

	mustSelect(t, e, "O")
	if _, err := e.Submit(context.Background()); !errors.Is(err, ErrWordTooShort) {
		t.Errorf("Expected ErrWordTooShort, got %v", err)
	}
	if got := e.State().Word(); got != "O" {
		t.Errorf("Expected current word unchanged, got %q", got)
	}
}

func TestEngine_SubmitNotInDictionary(t *testing.T) {
	e := createTestEngine(t, mapDict{})

	mustSelect(t, e, "OP")
	if _, err := e.Submit(context.Background()); !errors.Is(err, ErrWordNotInDictionary) {
		t.Errorf("Expected ErrWordNotInDictionary, got %v", err)
	}
	if got := e.State().WordCount(); got != 0 {
		t.Errorf("Expected no completed words, got %d", got)
	}
}

func TestEngine_SubmitDictionaryUnavailable(t *testing.T) {
	e := createTestEngine(t, failingDict{})

	mustSelect(t, e, "OP")
	_, err := e.Submit(context.Background())
	if !errors.Is(err, ErrDictionaryUnavailable) {
		t.Fatalf("Expected ErrDictionaryUnavailable, got %v", err)
	}

	// The word stays intact for resubmission once the dictionary recovers.
	if got := e.State().Word(); got != "OP" {
		t.Errorf("Expected current word OP after lookup failure, got %q", got)
	}
}

func TestEngine_SubmitChainsWords(t *testing.T) {
	e := createTestEngine(t, mapDict{"OP": true})

	mustSelect(t, e, "OP")
	result, err := e.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if result.Word != "OP" {
		t.Errorf("Expected accepted word OP, got %q", result.Word)
	}
	if result.Won {
		t.Error("Did not expect a win after one short word")
	}

	s := e.State()
	if len(s.CompletedWords) != 1 || s.CompletedWords[0] != "OP" {
		t.Errorf("Expected completed words [OP], got %v", s.CompletedWords)
	}
	// The chain rule: the next word starts with the accepted word's last letter.
	if got := s.Word(); got != "P" {
		t.Errorf("Expected next current word P, got %q", got)
	}
	if s.LastWordEndSide != SideRight {
		t.Errorf("Expected last word end side %d, got %d", SideRight, s.LastWordEndSide)
	}
	if s.SelectedSide != SideRight {
		t.Errorf("Expected selected side %d, got %d", SideRight, s.SelectedSide)
	}
}

func TestEngine_WinOnAllLettersUsed(t *testing.T) {
	dict := mapDict{"OPTIKA": true, "AWREVCN": true}
	e := createTestEngine(t, dict)

	mustSelect(t, e, "OPTIKA")
	result, err := e.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit OPTIKA failed: %v", err)
	}
	if result.Won {
		t.Error("Win fired before all letters were used")
	}

	// Current word is already [A]; continue the chain.
	mustSelect(t, e, "WREVCN")
	result, err = e.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit AWREVCN failed: %v", err)
	}
	if !result.Won {
		t.Fatal("Expected win once all 12 letters were used")
	}
	if !e.Won() {
		t.Error("Expected engine to report won")
	}
	if got := len(e.State().UsedLetters); got != PuzzleSize {
		t.Errorf("Expected %d used letters, got %d", PuzzleSize, got)
	}
	if result.WordCount != 2 {
		t.Errorf("Expected 2-word solve, got %d", result.WordCount)
	}
}

func TestEngine_DeleteLastLetter(t *testing.T) {
	e := createTestEngine(t, mapDict{})

	mustSelect(t, e, "OP")
	e.Delete()

	s := e.State()
	if got := s.Word(); got != "O" {
		t.Errorf("Expected current word O, got %q", got)
	}
	if s.SelectedSide != SideTop {
		t.Errorf("Expected selected side %d, got %d", SideTop, s.SelectedSide)
	}
	if _, used := s.UsedLetters[LetterID{Side: SideRight, Index: 0}]; used {
		t.Error("Expected P to be un-used after delete")
	}
}

func TestEngine_DeleteKeepsLettersSharedWithCompletedWords(t *testing.T) {
	e := createTestEngine(t, mapDict{"OP": true})

	mustSelect(t, e, "OP")
	if _, err := e.Submit(context.Background()); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	// Current word is [P]; P also ends the completed word OP, so deleting
	// it must not un-use the placement.
	e.Delete()

	s := e.State()
	if len(s.CurrentWord) != 0 {
		t.Fatalf("Expected empty current word, got %q", s.Word())
	}
	if _, used := s.UsedLetters[LetterID{Side: SideRight, Index: 0}]; !used {
		t.Error("Expected P to stay used: it belongs to a completed word")
	}
	if s.SelectedSide != NoSide {
		t.Errorf("Expected no selected side, got %d", s.SelectedSide)
	}
}

func TestEngine_DeleteReopensLastCompletedWord(t *testing.T) {
	e := createTestEngine(t, mapDict{"OP": true, "PEN": true})

	mustSelect(t, e, "OP")
	if _, err := e.Submit(context.Background()); err != nil {
		t.Fatalf("Submit OP failed: %v", err)
	}
	mustSelect(t, e, "EN")
	if _, err := e.Submit(context.Background()); err != nil {
		t.Fatalf("Submit PEN failed: %v", err)
	}

	// Backspace through the chained N, then reopen PEN.
	e.Delete()
	e.Delete()

	s := e.State()
	if got := s.Word(); got != "PEN" {
		t.Fatalf("Expected reopened word PEN, got %q", got)
	}
	if len(s.CompletedWords) != 1 || s.CompletedWords[0] != "OP" {
		t.Errorf("Expected completed words [OP], got %v", s.CompletedWords)
	}
	if s.LastWordEndSide != SideRight {
		t.Errorf("Expected last word end side %d (end of OP), got %d", SideRight, s.LastWordEndSide)
	}
	if s.SelectedSide != SideLeft {
		t.Errorf("Expected selected side %d (N), got %d", SideLeft, s.SelectedSide)
	}

	// Used letters were rebuilt: O, P from the completed word plus P, E, N
	// from the reopened word.
	want := map[LetterID]struct{}{
		{Side: SideTop, Index: 0}:    {}, // O
		{Side: SideRight, Index: 0}:  {}, // P
		{Side: SideBottom, Index: 1}: {}, // E
		{Side: SideLeft, Index: 2}:   {}, // N
	}
	if len(s.UsedLetters) != len(want) {
		t.Errorf("Expected %d used letters, got %d", len(want), len(s.UsedLetters))
	}
	for id := range want {
		if _, ok := s.UsedLetters[id]; !ok {
			t.Errorf("Expected %v to be used", id)
		}
	}
}

func TestEngine_DeleteOnEmptyGameIsNoop(t *testing.T) {
	e := createTestEngine(t, mapDict{})
	e.Delete()

	s := e.State()
	if len(s.CurrentWord) != 0 || len(s.CompletedWords) != 0 {
		t.Error("Expected delete on a fresh game to change nothing")
	}
}

func TestEngine_SubmitThenDeleteRestoresUsedSet(t *testing.T) {
	e := createTestEngine(t, mapDict{"OP": true, "PEN": true})

	mustSelect(t, e, "OP")
	if _, err := e.Submit(context.Background()); err != nil {
		t.Fatalf("Submit OP failed: %v", err)
	}

	before := make(map[LetterID]struct{})
	for id := range e.State().UsedLetters {
		before[id] = struct{}{}
	}

	// Build and submit PEN, then unwind it completely: reopen and delete
	// every letter of the reopened word.
	mustSelect(t, e, "EN")
	if _, err := e.Submit(context.Background()); err != nil {
		t.Fatalf("Submit PEN failed: %v", err)
	}
	e.Delete() // chained N
	e.Delete() // reopen PEN
	e.Delete() // N
	e.Delete() // E
	e.Delete() // P

	after := e.State().UsedLetters
	if len(after) != len(before) {
		t.Fatalf("Expected %d used letters after unwinding, got %d", len(before), len(after))
	}
	for id := range before {
		if _, ok := after[id]; !ok {
			t.Errorf("Expected %v to remain used", id)
		}
	}
}

func TestEngine_Restart(t *testing.T) {
	e := createTestEngine(t, mapDict{"OP": true})

	mustSelect(t, e, "OP")
	if _, err := e.Submit(context.Background()); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	s := e.Restart()
	if len(s.CurrentWord) != 0 || len(s.CompletedWords) != 0 || len(s.UsedLetters) != 0 {
		t.Error("Expected restart to clear all progress")
	}
	if s.SelectedSide != NoSide || s.LastWordEndSide != NoSide {
		t.Error("Expected restart to clear side markers")
	}
	if s.Won {
		t.Error("Expected restart to clear the won flag")
	}
}

func TestEngine_SetState(t *testing.T) {
	e := createTestEngine(t, mapDict{})

	state := NewGameState()
	o, _ := e.Puzzle().FindChar("O")
	p, _ := e.Puzzle().FindChar("P")
	state.CurrentWord = []Letter{o, p}
	state.SelectedSide = p.Side
	state.UsedLetters = nil // forces recompute

	if err := e.SetState(state); err != nil {
		t.Fatalf("SetState failed: %v", err)
	}
	if got := len(e.State().UsedLetters); got != 2 {
		t.Errorf("Expected 2 used letters after recompute, got %d", got)
	}
}

func TestEngine_SetStateRejectsForeignLetters(t *testing.T) {
	e := createTestEngine(t, mapDict{})

	state := NewGameState()
	state.CurrentWord = []Letter{{Char: "Z", Side: 0, Index: 0}}

	err := e.SetState(state)
	if !errors.Is(err, ErrStateNotInPuzzle) {
		t.Fatalf("Expected ErrStateNotInPuzzle, got %v", err)
	}
	// The previous state is kept.
	if len(e.State().CurrentWord) != 0 {
		t.Error("Expected engine state unchanged after rejected snapshot")
	}
}

func TestGameState_NoSameSideInvariant(t *testing.T) {
	dict := mapDict{"OPTIKA": true, "AWREVCN": true}
	e := createTestEngine(t, dict)

	mustSelect(t, e, "OPTIKA")
	if _, err := e.Submit(context.Background()); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	mustSelect(t, e, "WREVCN")
	if _, err := e.Submit(context.Background()); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	s := e.State()
	for w, path := range s.CompletedWordPaths {
		for i := 1; i < len(path); i++ {
			if path[i].Side == path[i-1].Side {
				t.Errorf("Word %d has consecutive letters on side %d", w, path[i].Side)
			}
		}
		if w > 0 {
			prev := s.CompletedWordPaths[w-1]
			if path[0].Side == prev[len(prev)-1].Side {
				// The boundary letters are the same placement by the chain
				// rule, so equal sides here are expected only for that
				// shared letter.
				if path[0].ID() != prev[len(prev)-1].ID() {
					t.Errorf("Words %d and %d share a side at the boundary", w-1, w)
				}
			}
		}
	}
}
