package appstate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/saulo-duarte/prepmate-api/internal/curriculum"
	util "github.com/saulo-duarte/prepmate-api/internal/utils"
)

// GuestResultsFile is the file guest results are kept in, inside the data dir.
const GuestResultsFile = "class9_prepmate_data_results.json"

// GuestResults persists results for users who are not logged in.
type GuestResults interface {
	Load() ([]curriculum.QuizResult, error)
	Save(results []curriculum.QuizResult) error
}

type FileResults struct {
	path string
	mu   sync.Mutex
}

func NewFileResults(dir string) *FileResults {
	return &FileResults{path: filepath.Join(dir, GuestResultsFile)}
}

func (f *FileResults) Path() string { return f.path }

// Load returns no results when the file does not exist yet.
func (f *FileResults) Load() ([]curriculum.QuizResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	raw, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return []curriculum.QuizResult{}, nil
	}
	if err != nil {
		return nil, err
	}

	var results []curriculum.QuizResult
	if err := json.Unmarshal(raw, &results); err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.path, err)
	}
	return results, nil
}

func (f *FileResults) Save(results []curriculum.QuizResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if results == nil {
		results = []curriculum.QuizResult{}
	}
	raw, err := json.Marshal(results)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

type memoryResults struct {
	mu      sync.Mutex
	results []curriculum.QuizResult
}

func NewMemoryResults() GuestResults {
	return &memoryResults{}
}

func (m *memoryResults) Load() ([]curriculum.QuizResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append(emptyResults(), m.results...), nil
}

func (m *memoryResults) Save(results []curriculum.QuizResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(emptyResults(), results...)
	return nil
}

// SaveResult stamps the result with an id and date and appends it locally
// right away. A logged-in student's copy is posted in the background; guest
// results go to local storage.
func (s *Store) SaveResult(ctx context.Context, result curriculum.QuizResult) error {
	result.ID = s.newID(util.PrefixResult)
	result.Date = curriculum.FormatDate(s.now())

	s.mu.Lock()
	s.data.Results = append(s.data.Results, result)
	var email string
	if st := s.session.student; st != nil {
		email = st.Email
		st.Results = append(st.Results, result)
	}
	s.mu.Unlock()

	log := s.log.WithField("result_id", result.ID)

	if email == "" {
		// An unreadable file is left alone rather than replaced by this
		// single result.
		results, err := s.guest.Load()
		if err != nil {
			log.WithError(err).Error("failed to load guest results")
			return fmt.Errorf("load guest results: %w", err)
		}
		if err := s.guest.Save(append(results, result)); err != nil {
			log.WithError(err).Error("failed to save guest result")
			return err
		}
		return nil
	}

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		postCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.resultTimeout)
		defer cancel()
		if _, err := s.api.SaveResult(postCtx, email, result); err != nil {
			log.WithError(err).Error("failed to save result to server")
		}
	}()
	return nil
}

// Wait blocks until background result uploads have finished.
func (s *Store) Wait() {
	s.pending.Wait()
}

func emptyResults() []curriculum.QuizResult {
	return []curriculum.QuizResult{}
}
