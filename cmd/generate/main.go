// Command generate builds the daily puzzle bank offline.
//
// It enumerates two-word chains from a dictionary, keeps the ones whose
// combined letters form a valid twelve-letter square, and writes the
// resulting bank as JSON. The output is deterministic for a given
// dictionary, so regenerating with the same inputs yields the same bank.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/letterboxed/game/dictionary"
	"github.com/wricardo/letterboxed/game/generator"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cmd := &cli.Command{
		Name:  "generate",
		Usage: "Generate the daily puzzle bank from a dictionary",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dictionary",
				Aliases: []string{"d"},
				Usage:   "word list file (uses the embedded list when empty)",
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Value:   "puzzles.json",
				Usage:   "output bank file",
			},
			&cli.IntFlag{
				Name:    "target",
				Aliases: []string{"n"},
				Value:   generator.DefaultTarget,
				Usage:   "number of puzzles to generate",
			},
			&cli.IntFlag{
				Name:  "min-len",
				Value: 2,
				Usage: "minimum word length considered",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dict, err := dictionary.Load(cmd.String("dictionary"))
			if err != nil {
				return fmt.Errorf("failed to load dictionary: %w", err)
			}

			words := dict.Words()
			if min := int(cmd.Int("min-len")); min > 2 {
				filtered := make([]string, 0, len(words))
				for _, w := range words {
					if len(w) >= min {
						filtered = append(filtered, w)
					}
				}
				words = filtered
			}
			log.Info().Int("words", len(words)).Msg("dictionary loaded")

			target := int(cmd.Int("target"))
			bank := generator.New(words, log).Generate(target)

			// Running short of the target is not a failure; the selector
			// wraps around whatever the bank holds.
			if bank.Size() == 0 {
				log.Warn().Msg("no puzzles could be generated from this dictionary")
			} else if bank.Size() < target {
				log.Warn().Int("generated", bank.Size()).Int("target", target).
					Msg("dictionary exhausted before reaching target")
			}

			out := cmd.String("out")
			if err := bank.Save(out); err != nil {
				return fmt.Errorf("failed to write bank: %w", err)
			}
			log.Info().Str("out", out).Int("puzzles", bank.Size()).Msg("bank written")
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("generate failed")
	}
}
