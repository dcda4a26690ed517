package puzzle

import (
	"sync"
	"time"

	// Bundle tzdata so the Pacific rotation boundary works on hosts
	// without a system zone database.
	_ "time/tzdata"

	"github.com/wricardo/letterboxed/game/engine"
)

// ReferenceZone is the fixed wall-clock zone for puzzle rotation. All
// players switch to the next puzzle at the same moment: midnight Pacific.
const ReferenceZone = "America/Los_Angeles"

var (
	zoneOnce sync.Once
	zone     *time.Location
)

// referenceLocation resolves the reference zone once. Systems without
// tzdata fall back to UTC rather than failing startup.
func referenceLocation() *time.Location {
	zoneOnce.Do(func() {
		loc, err := time.LoadLocation(ReferenceZone)
		if err != nil {
			loc = time.UTC
		}
		zone = loc
	})
	return zone
}

// DateKey returns YYYY-MM-DD for t evaluated in the reference zone.
func DateKey(t time.Time) string {
	return t.In(referenceLocation()).Format("2006-01-02")
}

// hashDate computes a deterministic 32-bit hash of a date key using the
// classic h = h*31 + c string hash with signed 32-bit wraparound.
func hashDate(dateKey string) int32 {
	var h int32
	for i := 0; i < len(dateKey); i++ {
		h = h*31 + int32(dateKey[i])
	}
	return h
}

// IndexForDate maps a date key onto a bank index. Pure function: the same
// (dateKey, size) always yields the same index.
func IndexForDate(dateKey string, size int) int {
	if size <= 0 {
		return 0
	}
	// Widen before negating: -math.MinInt32 overflows int32.
	v := int64(hashDate(dateKey))
	if v < 0 {
		v = -v
	}
	return int(v % int64(size))
}

// Select returns the puzzle for the given date key along with its bank
// index. No state, no side effects.
func Select(dateKey string, bank *Bank) (*engine.Puzzle, int, error) {
	i := IndexForDate(dateKey, bank.Size())
	p, err := bank.PuzzleAt(i)
	return p, i, err
}
