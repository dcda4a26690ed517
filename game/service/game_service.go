package service

import (
	"context"
	"errors"

	"github.com/wricardo/letterboxed/game/stats"
)

// ErrInvalidDate reports a malformed puzzle date parameter.
var ErrInvalidDate = errors.New("invalid puzzle date")

// GameService defines all game-related operations.
type GameService interface {
	// Puzzle access
	DailyPuzzle(ctx context.Context) (*PuzzleInfo, error)
	PuzzleForDate(ctx context.Context, date string) (*PuzzleInfo, error)

	// Game operations, keyed by puzzle date
	GetState(ctx context.Context, date string) (*StateInfo, error)
	SelectLetter(ctx context.Context, date string, sel Selection) (*PlayResult, error)
	DeleteLetter(ctx context.Context, date string) (*PlayResult, error)
	SubmitWord(ctx context.Context, date string) (*PlayResult, error)
	Restart(ctx context.Context, date string) (*StateInfo, error)

	// Player statistics
	Stats(ctx context.Context) (*stats.UserStats, error)

	// Dictionary word list, uppercased
	DictionaryWords(ctx context.Context) ([]string, error)

	// Today returns the current puzzle date key.
	Today() string
}
