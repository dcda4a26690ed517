package service

import (
	"github.com/wricardo/letterboxed/game/engine"
)

// Rejection codes carried by unsuccessful PlayResults.
const (
	CodeIllegalSelection      = "illegal_selection"
	CodeLetterNotInPuzzle     = "letter_not_in_puzzle"
	CodeWordTooShort          = "word_too_short"
	CodeWordNotInDictionary   = "word_not_in_dictionary"
	CodeDictionaryUnavailable = "dictionary_unavailable"
)

// Selection identifies a letter either by position or by character.
// Side and Index take precedence when both are present.
type Selection struct {
	Char  string `json:"char,omitempty"`
	Side  *int   `json:"side,omitempty"`
	Index *int   `json:"index,omitempty"`
}

// LetterView is the wire representation of a placed letter.
type LetterView struct {
	Char  string `json:"char"`
	Side  int    `json:"side"`
	Index int    `json:"index"`
}

// PuzzleInfo describes one day's puzzle.
type PuzzleInfo struct {
	Date   string                  `json:"date"`
	Sides  [engine.NumSides]string `json:"sides"`
	Index  int                     `json:"index"`
	Solved bool                    `json:"solved"`
}

// StateInfo is the wire representation of a session's game state.
type StateInfo struct {
	Date            string                  `json:"date"`
	Sides           [engine.NumSides]string `json:"sides"`
	CurrentWord     string                  `json:"currentWord"`
	CurrentPath     []LetterView            `json:"currentPath"`
	CompletedWords  []string                `json:"completedWords"`
	SelectedSide    int                     `json:"selectedSide"`
	LastWordEndSide int                     `json:"lastWordEndSide"`
	UsedLetters     []LetterView            `json:"usedLetters"`
	LettersUsed     int                     `json:"lettersUsed"`
	Won             bool                    `json:"won"`
}

// PlayResult is the outcome of a select, delete or submit operation.
// Success false with a Code means the move was rejected by the rules;
// the session state is unchanged except where documented (submit keeps
// the current word intact on rejection).
type PlayResult struct {
	Success bool       `json:"success"`
	Code    string     `json:"code,omitempty"`
	Message string     `json:"message,omitempty"`
	Word    string     `json:"word,omitempty"`
	Won     bool       `json:"won,omitempty"`
	Solve   *SolveInfo `json:"solve,omitempty"`
	State   *StateInfo `json:"state"`
}

// SolveInfo accompanies a winning submit.
type SolveInfo struct {
	WordCount    int    `json:"wordCount"`
	SolveSeconds int    `json:"solveTimeSeconds"`
	Streak       int    `json:"streak"`
	ShareText    string `json:"shareText"`
}
