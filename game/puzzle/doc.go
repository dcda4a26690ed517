// Package puzzle manages the puzzle bank artifact and daily selection.
//
// The bank is a precomputed collection of validated layouts produced
// offline by the generator and loaded once at startup. The Manager owns
// the loaded bank and a parsed-puzzle cache; the daily selector maps a
// calendar date deterministically onto one bank entry so that every
// player sees the same puzzle on the same day.
package puzzle
