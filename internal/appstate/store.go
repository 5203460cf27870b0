// Package appstate is the client-side source of truth for the curriculum
// tree and quiz results. Every write goes through the API and is followed
// by a full refetch.
package appstate

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/saulo-duarte/prepmate-api/internal/client"
	"github.com/saulo-duarte/prepmate-api/internal/curriculum"
	util "github.com/saulo-duarte/prepmate-api/internal/utils"
	"github.com/sirupsen/logrus"
)

var ErrNotFound = errors.New("not found")

const defaultResultTimeout = 10 * time.Second

// API is the server surface the store depends on. *client.Client implements it.
type API interface {
	ListSubjects(ctx context.Context) ([]curriculum.Subject, error)
	CreateSubject(ctx context.Context, s curriculum.Subject) (curriculum.Subject, error)
	SyncSubject(ctx context.Context, s curriculum.Subject) (curriculum.Subject, error)
	DeleteSubject(ctx context.Context, id string) error

	Register(ctx context.Context, name, email, password string) (*client.Student, error)
	Login(ctx context.Context, email, password string) (*client.Student, error)
	SaveResult(ctx context.Context, email string, result curriculum.QuizResult) ([]curriculum.QuizResult, error)

	AdminLogin(ctx context.Context, passcode string) (string, error)
	UpdatePasscode(ctx context.Context, newPasscode string) error
}

type Store struct {
	api   API
	guest GuestResults
	log   logrus.FieldLogger
	newID func(prefix string) string
	now   func() time.Time

	resultTimeout time.Duration

	mu      sync.RWMutex
	data    curriculum.AppData
	session session

	pending sync.WaitGroup
}

type Option func(*Store)

func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Store) { s.log = log }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithIDGenerator(gen func(prefix string) string) Option {
	return func(s *Store) { s.newID = gen }
}

// WithResultTimeout bounds the background POST of a student result.
func WithResultTimeout(d time.Duration) Option {
	return func(s *Store) { s.resultTimeout = d }
}

func New(api API, guest GuestResults, opts ...Option) *Store {
	s := &Store{
		api:           api,
		guest:         guest,
		log:           logrus.StandardLogger(),
		newID:         util.NewID,
		now:           time.Now,
		resultTimeout: defaultResultTimeout,
		data: curriculum.AppData{
			Subjects: []curriculum.Subject{},
			Results:  []curriculum.QuizResult{},
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.guest == nil {
		s.guest = NewMemoryResults()
	}
	return s
}

// Data returns a deep copy of the current state.
func (s *Store) Data() curriculum.AppData {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := curriculum.AppData{
		Subjects: make([]curriculum.Subject, len(s.data.Subjects)),
		Results:  append([]curriculum.QuizResult{}, s.data.Results...),
	}
	for i, sub := range s.data.Subjects {
		out.Subjects[i] = sub.Clone()
	}
	return out
}

func (s *Store) Subjects() []curriculum.Subject {
	return s.Data().Subjects
}

func (s *Store) Results() []curriculum.QuizResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]curriculum.QuizResult{}, s.data.Results...)
}

// Subject returns a copy of the first subject with id.
func (s *Store) Subject(id string) (curriculum.Subject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sub := range s.data.Subjects {
		if sub.ID == id {
			return sub.Clone(), nil
		}
	}
	return curriculum.Subject{}, ErrNotFound
}

func (s *Store) Chapter(subjectID, chapterID string) (curriculum.Chapter, error) {
	sub, err := s.Subject(subjectID)
	if err != nil {
		return curriculum.Chapter{}, err
	}
	ch, _ := sub.Chapter(chapterID)
	if ch == nil {
		return curriculum.Chapter{}, ErrNotFound
	}
	return *ch, nil
}

// Refresh replaces the subject tree with the server's copy. Results come
// from the logged-in student, or from guest storage otherwise.
func (s *Store) Refresh(ctx context.Context) error {
	subjects, err := s.api.ListSubjects(ctx)
	if err != nil {
		s.log.WithError(err).Error("failed to fetch subjects")
		return err
	}

	s.mu.RLock()
	loggedIn := s.session.student != nil
	var results []curriculum.QuizResult
	if loggedIn {
		results = append([]curriculum.QuizResult{}, s.session.student.Results...)
	}
	s.mu.RUnlock()

	if !loggedIn {
		results, err = s.guest.Load()
		if err != nil {
			s.log.WithError(err).Warn("failed to load guest results")
			results = nil
		}
	}
	if results == nil {
		results = []curriculum.QuizResult{}
	}

	s.mu.Lock()
	s.data = curriculum.AppData{Subjects: subjects, Results: results}
	s.mu.Unlock()
	return nil
}
