package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/wricardo/letterboxed/game/dictionary"
	"github.com/wricardo/letterboxed/game/engine"
	"github.com/wricardo/letterboxed/game/puzzle"
	"github.com/wricardo/letterboxed/game/session"
	"github.com/wricardo/letterboxed/game/stats"
)

const shareBaseURL = "https://letterboxed.vercel.app"

// gameServiceImpl implements the GameService interface.
type gameServiceImpl struct {
	dict     dictionary.Provider
	puzzles  *puzzle.Manager
	sessions *session.Manager
	stats    *stats.Store
	log      zerolog.Logger
	now      func() time.Time
}

// NewGameService creates a new game service instance.
func NewGameService(dict dictionary.Provider, puzzles *puzzle.Manager, sessions *session.Manager, statsStore *stats.Store, log zerolog.Logger) GameService {
	return &gameServiceImpl{
		dict:     dict,
		puzzles:  puzzles,
		sessions: sessions,
		stats:    statsStore,
		log:      log,
		now:      time.Now,
	}
}

// Today returns the current puzzle date key.
func (s *gameServiceImpl) Today() string {
	return puzzle.DateKey(s.now())
}

// DailyPuzzle returns today's puzzle.
func (s *gameServiceImpl) DailyPuzzle(ctx context.Context) (*PuzzleInfo, error) {
	return s.PuzzleForDate(ctx, s.Today())
}

// PuzzleForDate returns the puzzle assigned to a date.
func (s *gameServiceImpl) PuzzleForDate(ctx context.Context, date string) (*PuzzleInfo, error) {
	date, err := s.resolveDate(date)
	if err != nil {
		return nil, err
	}

	p, idx, err := s.puzzles.PuzzleForDate(date)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve puzzle for %s: %w", date, err)
	}

	solved := false
	if rec, err := s.stats.Solve(ctx, date); err == nil && rec != nil {
		solved = true
	}

	return &PuzzleInfo{
		Date:   date,
		Sides:  p.Sides(),
		Index:  idx,
		Solved: solved,
	}, nil
}

// GetState returns the session state for a date, creating the session
// if needed.
func (s *gameServiceImpl) GetState(ctx context.Context, date string) (*StateInfo, error) {
	date, sess, p, err := s.session(date)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()
	return s.stateInfo(date, p, sess), nil
}

// SelectLetter appends a letter to the current word.
func (s *gameServiceImpl) SelectLetter(ctx context.Context, date string, sel Selection) (*PlayResult, error) {
	date, sess, p, err := s.session(date)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()

	switch {
	case sel.Side != nil && sel.Index != nil:
		err = sess.Engine.Select(engine.LetterID{Side: *sel.Side, Index: *sel.Index})
	case sel.Char != "":
		err = sess.Engine.SelectChar(sel.Char)
	default:
		return nil, fmt.Errorf("selection requires a char or a side and index")
	}
	if err != nil {
		return s.rejectOrFail(date, p, sess, err)
	}

	s.sessions.Persist(sess)
	return &PlayResult{Success: true, State: s.stateInfo(date, p, sess)}, nil
}

// DeleteLetter removes the most recent letter, reopening the previous
// word when the current one is empty.
func (s *gameServiceImpl) DeleteLetter(ctx context.Context, date string) (*PlayResult, error) {
	date, sess, p, err := s.session(date)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()

	sess.Engine.Delete()
	s.sessions.Persist(sess)
	return &PlayResult{Success: true, State: s.stateInfo(date, p, sess)}, nil
}

// SubmitWord validates and completes the current word. A winning submit
// records the solve and reports timing, streak and share text.
func (s *gameServiceImpl) SubmitWord(ctx context.Context, date string) (*PlayResult, error) {
	date, sess, p, err := s.session(date)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()

	res, err := sess.Engine.Submit(ctx)
	if err != nil {
		return s.rejectOrFail(date, p, sess, err)
	}
	s.sessions.Persist(sess)

	result := &PlayResult{
		Success: true,
		Word:    res.Word,
		Won:     res.Won,
		State:   s.stateInfo(date, p, sess),
	}
	if res.Won {
		result.Solve = s.recordWin(ctx, date, sess, res)
	}
	return result, nil
}

// Restart resets the session to a fresh state.
func (s *gameServiceImpl) Restart(ctx context.Context, date string) (*StateInfo, error) {
	date, sess, p, err := s.session(date)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()

	s.sessions.Restart(sess)
	return s.stateInfo(date, p, sess), nil
}

// Stats returns the aggregate player statistics.
func (s *gameServiceImpl) Stats(ctx context.Context) (*stats.UserStats, error) {
	return s.stats.Stats(ctx, s.Today())
}

// DictionaryWords returns the full word list.
func (s *gameServiceImpl) DictionaryWords(ctx context.Context) ([]string, error) {
	words := s.dict.Words()
	out := make([]string, len(words))
	copy(out, words)
	return out, nil
}

// recordWin writes the solve to the ledger. The ledger is first-solve-
// wins, so a replayed win reports the original record's numbers.
func (s *gameServiceImpl) recordWin(ctx context.Context, date string, sess *session.Session, res *engine.SubmitResult) *SolveInfo {
	rec := stats.SolveRecord{
		Date:         date,
		WordCount:    res.WordCount,
		Words:        append([]string{}, sess.Engine.State().CompletedWords...),
		SolveSeconds: int(s.now().Sub(sess.StartedAt).Seconds()),
	}

	inserted, err := s.stats.RecordSolve(ctx, rec)
	if err != nil {
		s.log.Error().Err(err).Str("date", date).Msg("failed to record solve")
	} else if !inserted {
		if existing, err := s.stats.Solve(ctx, date); err == nil && existing != nil {
			rec = *existing
		}
	}

	streak, err := s.stats.Streak(ctx, date)
	if err != nil {
		s.log.Error().Err(err).Str("date", date).Msg("failed to compute streak")
	}

	return &SolveInfo{
		WordCount:    rec.WordCount,
		SolveSeconds: rec.SolveSeconds,
		Streak:       streak,
		ShareText:    buildShareText(rec.WordCount, rec.SolveSeconds),
	}
}

// session resolves a date to its puzzle and session.
func (s *gameServiceImpl) session(date string) (string, *session.Session, *engine.Puzzle, error) {
	date, err := s.resolveDate(date)
	if err != nil {
		return "", nil, nil, err
	}

	p, _, err := s.puzzles.PuzzleForDate(date)
	if err != nil {
		return "", nil, nil, fmt.Errorf("failed to resolve puzzle for %s: %w", date, err)
	}

	sess, err := s.sessions.GetOrCreate(date, p, s.dict)
	if err != nil {
		return "", nil, nil, fmt.Errorf("failed to open session for %s: %w", date, err)
	}
	return date, sess, p, nil
}

// resolveDate normalizes the date parameter. Empty or "today" means the
// current puzzle date.
func (s *gameServiceImpl) resolveDate(date string) (string, error) {
	if date == "" || date == "today" {
		return s.Today(), nil
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return "", fmt.Errorf("%w %q", ErrInvalidDate, date)
	}
	return date, nil
}

// rejectOrFail turns rule violations into unsuccessful results and
// passes everything else through as an error.
func (s *gameServiceImpl) rejectOrFail(date string, p *engine.Puzzle, sess *session.Session, err error) (*PlayResult, error) {
	code := rejectionCode(err)
	if code == "" {
		return nil, err
	}
	return &PlayResult{
		Success: false,
		Code:    code,
		Message: err.Error(),
		State:   s.stateInfo(date, p, sess),
	}, nil
}

func rejectionCode(err error) string {
	switch {
	case errors.Is(err, engine.ErrWordTooShort):
		return CodeWordTooShort
	case errors.Is(err, engine.ErrWordNotInDictionary):
		return CodeWordNotInDictionary
	case errors.Is(err, engine.ErrDictionaryUnavailable):
		return CodeDictionaryUnavailable
	case errors.Is(err, engine.ErrLetterNotInPuzzle):
		return CodeLetterNotInPuzzle
	case errors.Is(err, engine.ErrIllegalSelection):
		return CodeIllegalSelection
	}
	return ""
}

// stateInfo builds the wire view of a session. The caller must hold the
// session lock.
func (s *gameServiceImpl) stateInfo(date string, p *engine.Puzzle, sess *session.Session) *StateInfo {
	st := sess.Engine.State()

	used := make([]LetterView, 0, len(st.UsedLetters))
	for _, id := range st.UsedLetterIDs() {
		if l, ok := p.At(id); ok {
			used = append(used, letterView(l))
		}
	}

	path := make([]LetterView, 0, len(st.CurrentWord))
	for _, l := range st.CurrentWord {
		path = append(path, letterView(l))
	}

	return &StateInfo{
		Date:            date,
		Sides:           p.Sides(),
		CurrentWord:     st.Word(),
		CurrentPath:     path,
		CompletedWords:  append([]string{}, st.CompletedWords...),
		SelectedSide:    st.SelectedSide,
		LastWordEndSide: st.LastWordEndSide,
		UsedLetters:     used,
		LettersUsed:     len(st.UsedLetters),
		Won:             st.Won,
	}
}

func letterView(l engine.Letter) LetterView {
	return LetterView{Char: l.Char, Side: l.Side, Index: l.Index}
}

// buildShareText renders the post-win share message.
func buildShareText(wordCount, solveSeconds int) string {
	plural := "s"
	if wordCount == 1 {
		plural = ""
	}
	timeStr := ""
	if solveSeconds > 0 {
		timeStr = " in " + formatSolveTime(solveSeconds)
	}
	return fmt.Sprintf("I solved today's Letter Boxed in %d word%s%s. Play here! %s",
		wordCount, plural, timeStr, shareBaseURL)
}

// formatSolveTime renders seconds as "45s", "2m" or "2m 5s".
func formatSolveTime(seconds int) string {
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	m, s := seconds/60, seconds%60
	if s > 0 {
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%dm", m)
}
