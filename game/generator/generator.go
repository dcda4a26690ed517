// Package generator produces the puzzle bank: layouts that are each
// guaranteed solvable in exactly two dictionary words.
//
// Generation is a one-shot, single-threaded batch computation. Candidate
// word pairs are enumerated in dictionary order, so the same dictionary
// always produces the same bank.
package generator

import (
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/wricardo/letterboxed/game/engine"
	"github.com/wricardo/letterboxed/game/puzzle"
)

// DefaultTarget is the bank size aimed for when none is specified: enough
// layouts for over a year of daily rotation.
const DefaultTarget = 400

// Generator enumerates two-word chains over a dictionary and arranges
// each viable chain onto the four sides of the square.
type Generator struct {
	words   []string
	byFirst map[byte][]string
	log     zerolog.Logger
}

// New builds a generator over a normalized word list (uppercase, letters
// only, length >= 2), keeping dictionary order for deterministic output.
func New(words []string, log zerolog.Logger) *Generator {
	g := &Generator{
		words:   make([]string, 0, len(words)),
		byFirst: make(map[byte][]string),
		log:     log,
	}
	for _, w := range words {
		w = strings.ToUpper(strings.TrimSpace(w))
		if len(w) < 2 || !isAlpha(w) {
			continue
		}
		g.words = append(g.words, w)
		g.byFirst[w[0]] = append(g.byFirst[w[0]], w)
	}
	return g
}

// Generate produces a bank of up to target layouts. If the dictionary is
// exhausted first, the bank holds whatever was found; under-generation is
// not an error for an offline batch tool.
func (g *Generator) Generate(target int) *puzzle.Bank {
	if target <= 0 {
		target = DefaultTarget
	}

	bank := &puzzle.Bank{GeneratedAt: time.Now().UTC()}
	seen := make(map[string]bool)
	candidates := 0

	for _, w1 := range g.words {
		if bank.Size() >= target {
			break
		}
		for _, w2 := range g.byFirst[w1[len(w1)-1]] {
			// The first letter of w2 is shared with the last letter of w1,
			// so the combined chain drops it.
			combined := w1 + w2[1:]
			if distinctChars(combined) != engine.PuzzleSize {
				continue
			}
			candidates++

			sides, ok := arrangeSides(combined)
			if !ok {
				continue
			}

			key := canonicalKey(sides)
			if seen[key] {
				continue
			}
			seen[key] = true

			bank.Puzzles = append(bank.Puzzles, sides)
			if bank.Size() >= target {
				break
			}
		}
	}

	bank.Count = bank.Size()
	g.log.Info().
		Int("puzzles", bank.Count).
		Int("target", target).
		Int("candidates", candidates).
		Int("words", len(g.words)).
		Msg("puzzle generation finished")
	return bank
}

// arrangeSides walks the letter chain left to right and assigns each new
// character to the lowest-numbered side that differs from the previous
// character's side and still has capacity. Characters seen before keep
// their side, which must then differ from the predecessor's. The walk is
// greedy with no backtracking: each character is constrained only by its
// immediate predecessor, so a single pass either places all twelve
// characters or rejects the chain.
//
// Greedy assignment can reject chains that a different placement order
// would admit; those candidates are skipped rather than searched.
func arrangeSides(sequence string) ([engine.NumSides]string, bool) {
	var sides [engine.NumSides]string
	charSide := make(map[byte]int, engine.PuzzleSize)
	counts := [engine.NumSides]int{}

	prevSide := engine.NoSide
	for i := 0; i < len(sequence); i++ {
		c := sequence[i]

		if s, placed := charSide[c]; placed {
			if s == prevSide {
				return sides, false
			}
			prevSide = s
			continue
		}

		assigned := false
		for s := 0; s < engine.NumSides; s++ {
			if s != prevSide && counts[s] < engine.LettersPerSide {
				charSide[c] = s
				counts[s]++
				sides[s] += string(c)
				prevSide = s
				assigned = true
				break
			}
		}
		if !assigned {
			return sides, false
		}
	}

	for s := 0; s < engine.NumSides; s++ {
		if counts[s] != engine.LettersPerSide {
			return sides, false
		}
	}

	// Canonicalize presentation: letters within a side sort alphabetically.
	for s := range sides {
		sides[s] = sortChars(sides[s])
	}
	return sides, true
}

// canonicalKey builds a layout key that is stable across side ordering, so
// rotated or re-ordered versions of the same layout deduplicate.
func canonicalKey(sides [engine.NumSides]string) string {
	groups := append([]string{}, sides[:]...)
	sort.Strings(groups)
	return strings.Join(groups, "|")
}

func distinctChars(s string) int {
	var seen [26]bool
	n := 0
	for i := 0; i < len(s); i++ {
		if c := s[i] - 'A'; !seen[c] {
			seen[c] = true
			n++
		}
	}
	return n
}

func sortChars(s string) string {
	b := []byte(s)
	sort.Slice(b, func(i, j int) bool { return b[i] < b[j] })
	return string(b)
}

func isAlpha(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}
