// Package quizsession runs a single MCQ attempt over one chapter.
package quizsession

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/saulo-duarte/prepmate-api/internal/curriculum"
)

var (
	ErrNoQuestions         = errors.New("no questions available")
	ErrFinished            = errors.New("session already finished")
	ErrAnswerLocked        = errors.New("answer already revealed")
	ErrInvalidOption       = errors.New("option out of range")
	ErrNoSelection         = errors.New("no option selected")
	ErrFeedbackUnavailable = errors.New("feedback is only available in practice mode")
	ErrInvalidLimit        = errors.New("limit must be a positive number or \"all\"")
)

const (
	TimePerQuestion     = time.Minute
	DefaultTickInterval = time.Second
)

type State string

const (
	StateInProgress State = "in_progress"
	StateFinished   State = "finished"
)

// Limit caps the number of questions; zero means all of them.
type Limit int

const LimitAll Limit = 0

func ParseLimit(s string) (Limit, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "all" {
		return LimitAll, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLimit, s)
	}
	return Limit(n), nil
}

func (l Limit) String() string {
	if l == LimitAll {
		return "all"
	}
	return strconv.Itoa(int(l))
}

// Recorder persists a finished attempt. ID and Date are left empty for the
// recorder to assign.
type Recorder interface {
	SaveResult(ctx context.Context, result curriculum.QuizResult) error
}

type RecorderFunc func(ctx context.Context, result curriculum.QuizResult) error

func (f RecorderFunc) SaveResult(ctx context.Context, result curriculum.QuizResult) error {
	return f(ctx, result)
}

type Options struct {
	Mode  curriculum.QuizMode
	Limit Limit
	// Rand drives the shuffle. Nil uses an unseeded source.
	Rand *rand.Rand
	// TimePerQuestion sizes the exam countdown; zero means one minute.
	TimePerQuestion time.Duration
	TickInterval    time.Duration
}

type Feedback struct {
	Correct      bool
	Selected     int
	CorrectIndex int
	Explanation  string
}

type Session struct {
	mu sync.Mutex

	subjectID string
	chapterID string
	pool      []*curriculum.MCQ
	opts      Options
	rng       *rand.Rand
	recorder  Recorder

	questions []*curriculum.MCQ
	current   int
	selected  int
	revealed  bool
	score     int
	remaining time.Duration
	finished  bool
	result    curriculum.QuizResult
	saveErr   error

	stopTimer context.CancelFunc
	timerDone chan struct{}
}

// New builds a session over the chapter's MCQs. It returns ErrNoQuestions
// when the chapter has none.
func New(subjectID string, chapter curriculum.Chapter, opts Options, recorder Recorder) (*Session, error) {
	pool := chapter.MCQs()
	if len(pool) == 0 {
		return nil, ErrNoQuestions
	}
	if !opts.Mode.Valid() {
		opts.Mode = curriculum.ModePractice
	}
	if opts.TimePerQuestion <= 0 {
		opts.TimePerQuestion = TimePerQuestion
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	s := &Session{
		subjectID: subjectID,
		chapterID: chapter.ID,
		pool:      pool,
		opts:      opts,
		rng:       rng,
		recorder:  recorder,
	}
	s.reset()
	return s, nil
}

// reset shuffles a fresh question order. Callers hold mu or own s exclusively.
func (s *Session) reset() {
	qs := append([]*curriculum.MCQ(nil), s.pool...)
	s.rng.Shuffle(len(qs), func(i, j int) { qs[i], qs[j] = qs[j], qs[i] })
	if s.opts.Limit > 0 && int(s.opts.Limit) < len(qs) {
		qs = qs[:s.opts.Limit]
	}

	s.questions = qs
	s.current = 0
	s.selected = -1
	s.revealed = false
	s.score = 0
	s.remaining = time.Duration(len(qs)) * s.opts.TimePerQuestion
	s.finished = false
	s.result = curriculum.QuizResult{}
	s.saveErr = nil
}

func Percentage(score, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(score) / float64(total) * 100))
}

func (s *Session) Mode() curriculum.QuizMode { return s.opts.Mode }

func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.questions)
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return StateFinished
	}
	return StateInProgress
}

// Current returns the question on screen and its zero-based position.
func (s *Session) Current() (*curriculum.MCQ, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.questions[s.current], s.current
}

func (s *Session) Score() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score
}

func (s *Session) Selected() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

func (s *Session) Select(option int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finished {
		return ErrFinished
	}
	if s.revealed {
		return ErrAnswerLocked
	}
	if option < 0 || option >= len(s.questions[s.current].Options) {
		return ErrInvalidOption
	}
	s.selected = option
	return nil
}

// Reveal locks the selected answer and scores it. Practice mode only.
func (s *Session) Reveal() (Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.opts.Mode != curriculum.ModePractice {
		return Feedback{}, ErrFeedbackUnavailable
	}
	if s.finished {
		return Feedback{}, ErrFinished
	}
	if s.revealed {
		return Feedback{}, ErrAnswerLocked
	}
	if s.selected < 0 {
		return Feedback{}, ErrNoSelection
	}

	q := s.questions[s.current]
	s.revealed = true
	correct := s.selected == q.CorrectIndex
	if correct {
		s.score++
	}
	return Feedback{
		Correct:      correct,
		Selected:     s.selected,
		CorrectIndex: q.CorrectIndex,
		Explanation:  q.Explanation,
	}, nil
}

// Next scores an unrevealed selection and advances. On the last question it
// finishes the session and reports true.
func (s *Session) Next(ctx context.Context) (bool, error) {
	s.mu.Lock()
	if s.finished {
		s.mu.Unlock()
		return true, ErrFinished
	}

	if !s.revealed && s.selected == s.questions[s.current].CorrectIndex {
		s.score++
	}

	if s.current < len(s.questions)-1 {
		s.current++
		s.selected = -1
		s.revealed = false
		s.mu.Unlock()
		return false, nil
	}
	s.mu.Unlock()

	return true, s.Finish(ctx)
}

// Finish completes the session once. Later calls are no-ops returning the
// first save error.
func (s *Session) Finish(ctx context.Context) error {
	s.mu.Lock()
	if s.finished {
		err := s.saveErr
		s.mu.Unlock()
		return err
	}
	s.finished = true
	total := len(s.questions)
	s.result = curriculum.QuizResult{
		SubjectID:      s.subjectID,
		ChapterID:      s.chapterID,
		Score:          s.score,
		TotalQuestions: total,
		Percentage:     Percentage(s.score, total),
		Mode:           s.opts.Mode,
	}
	result := s.result
	stop := s.stopTimer
	s.mu.Unlock()

	if stop != nil {
		stop()
	}

	var err error
	if s.recorder != nil {
		err = s.recorder.SaveResult(ctx, result)
	}

	s.mu.Lock()
	s.saveErr = err
	s.mu.Unlock()
	return err
}

func (s *Session) Result() (curriculum.QuizResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result, s.finished
}

// Retry resets all progress with a new shuffle and stops any running timer.
func (s *Session) Retry() {
	s.Stop()
	s.mu.Lock()
	s.reset()
	s.mu.Unlock()
}
