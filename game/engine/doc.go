// Package engine provides the core rules engine for the letter-boxed game.
//
// The engine package implements the game mechanics including:
//   - The letter square data model (four sides, three letters each)
//   - Letter selection legality (no two consecutive letters from one side)
//   - Word chaining (each word starts with the previous word's last letter)
//   - Win detection (all twelve letters used at least once)
//   - Game state management and restoration from snapshots
//
// Core Types:
//
// The Engine interface defines the main contract for game operations,
// implemented by GameEngine. GameState represents the evolving per-session
// state, Puzzle is the immutable daily layout, and Letter/LetterID form the
// positional data model.
//
// Usage:
//
//	puzzle, err := engine.NewPuzzle([4]string{"OTK", "PIA", "WEC", "RVN"})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	game := engine.NewEngine(puzzle, dict)
//	if err := game.SelectChar("O"); err != nil {
//		// illegal selection, state unchanged
//	}
//	result, err := game.Submit(ctx)
//
// Game Rules:
//
// Players chain words across the square. Consecutive letters may never come
// from the same side, a new word must start with the last letter of the
// previous word, and the game is won when every letter of the puzzle has
// been used by at least one word.
package engine
