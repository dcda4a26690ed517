package puzzle

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/wricardo/letterboxed/game/engine"
)

// Bank is the durable puzzle bank artifact: an ordered list of layouts,
// each serialized as four 3-character side strings (top, right, bottom,
// left), plus generation metadata.
type Bank struct {
	GeneratedAt time.Time                 `json:"generatedAt"`
	Count       int                       `json:"count"`
	Puzzles     [][engine.NumSides]string `json:"puzzles"`
}

// Size returns the number of layouts in the bank.
func (b *Bank) Size() int {
	return len(b.Puzzles)
}

// PuzzleAt parses the bank entry at index i into an engine puzzle.
func (b *Bank) PuzzleAt(i int) (*engine.Puzzle, error) {
	if i < 0 || i >= len(b.Puzzles) {
		return nil, fmt.Errorf("puzzle index %d out of range (bank size %d)", i, len(b.Puzzles))
	}
	p, err := engine.NewPuzzle(b.Puzzles[i])
	if err != nil {
		return nil, fmt.Errorf("invalid bank entry %d: %w", i, err)
	}
	return p, nil
}

// Validate parses every entry, rejecting banks with malformed layouts.
func (b *Bank) Validate() error {
	if len(b.Puzzles) == 0 {
		return fmt.Errorf("puzzle bank is empty")
	}
	for i := range b.Puzzles {
		if _, err := b.PuzzleAt(i); err != nil {
			return err
		}
	}
	return nil
}

// LoadBank reads and validates a bank artifact from disk.
func LoadBank(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read puzzle bank: %w", err)
	}
	return ParseBank(data)
}

// ParseBank decodes and validates a bank artifact.
func ParseBank(data []byte) (*Bank, error) {
	var b Bank
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to parse puzzle bank: %w", err)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

// Save writes the bank artifact to disk.
func (b *Bank) Save(path string) error {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal puzzle bank: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write puzzle bank: %w", err)
	}
	return nil
}
