// Package dictionary supplies the valid word set for the game.
//
// The provider owns the loaded word list as explicit process-lifetime
// state: it is loaded once and injected into the generator, the rules
// engine, and the API server rather than accessed through globals.
package dictionary

import (
	"bufio"
	"context"
	_ "embed"
	"errors"
	"os"
	"strings"
)

// Embedded fallback list so the server runs even when no dictionary file
// is configured.
//
//go:embed default_words.txt
var embeddedWords string

// Provider is the dictionary contract: a fast membership predicate for
// runtime validation and the enumerable word list for generation.
type Provider interface {
	// Contains reports whether the word is in the dictionary. The lookup is
	// case-insensitive. A non-nil error means the word could not be
	// validated, not that it was rejected.
	Contains(ctx context.Context, word string) (bool, error)

	// Words returns the full normalized word list.
	Words() []string
}

// FileProvider is an in-memory dictionary loaded from a file or from the
// embedded fallback list.
type FileProvider struct {
	words []string
	set   map[string]struct{}
}

// Load reads the dictionary from path. An empty path loads the embedded
// fallback list. Lines are trimmed and uppercased; only all-letter words
// of two or more characters are kept, which also drops the header lines
// dictionary files commonly start with.
func Load(path string) (*FileProvider, error) {
	var words []string
	if path == "" {
		words = normalizeLines(embeddedWords)
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		sc := bufio.NewScanner(f)
		for sc.Scan() {
			if w, ok := normalizeWord(sc.Text()); ok {
				words = append(words, w)
			}
		}
		if err := sc.Err(); err != nil {
			return nil, err
		}
	}

	if len(words) == 0 {
		return nil, errors.New("dictionary: word list is empty")
	}

	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return &FileProvider{words: words, set: set}, nil
}

// Contains implements Provider. It never fails for the in-memory provider.
func (p *FileProvider) Contains(_ context.Context, word string) (bool, error) {
	_, ok := p.set[strings.ToUpper(word)]
	return ok, nil
}

// Words returns the normalized word list in file order.
func (p *FileProvider) Words() []string {
	return p.words
}

// Len returns the number of loaded words.
func (p *FileProvider) Len() int {
	return len(p.words)
}

// normalizeLines processes a multiline string into normalized words.
func normalizeLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if w, ok := normalizeWord(line); ok {
			out = append(out, w)
		}
	}
	return out
}

// normalizeWord uppercases a raw line and reports whether it is a usable
// word: ASCII letters only, length at least two.
func normalizeWord(raw string) (string, bool) {
	w := strings.ToUpper(strings.TrimSpace(raw))
	if len(w) < 2 || !isAlpha(w) {
		return "", false
	}
	return w, true
}

// isAlpha reports whether s is all uppercase ASCII letters.
func isAlpha(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}
