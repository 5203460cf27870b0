package appstate

import (
	"context"
	"fmt"

	"github.com/saulo-duarte/prepmate-api/internal/curriculum"
	util "github.com/saulo-duarte/prepmate-api/internal/utils"
)

// AddSubject creates a new empty subject and refetches.
func (s *Store) AddSubject(ctx context.Context, name string) (curriculum.Subject, error) {
	sub := curriculum.Subject{
		ID:       s.newID(util.PrefixSubject),
		Name:     name,
		Chapters: []curriculum.Chapter{},
	}
	if _, err := s.api.CreateSubject(ctx, sub); err != nil {
		s.log.WithError(err).WithField("subject_id", sub.ID).Error("failed to add subject")
		return curriculum.Subject{}, err
	}
	return sub, s.Refresh(ctx)
}

func (s *Store) UpdateSubject(ctx context.Context, id, name string) error {
	return s.mutate(ctx, id, "update subject", func(sub *curriculum.Subject) error {
		sub.Name = name
		return nil
	})
}

func (s *Store) DeleteSubject(ctx context.Context, id string) error {
	if err := s.api.DeleteSubject(ctx, id); err != nil {
		s.log.WithError(err).WithField("subject_id", id).Error("failed to delete subject")
		return err
	}
	return s.Refresh(ctx)
}

func (s *Store) AddChapter(ctx context.Context, subjectID, title string) (curriculum.Chapter, error) {
	ch := curriculum.Chapter{
		ID:        s.newID(util.PrefixChapter),
		Title:     title,
		Questions: curriculum.Questions{},
	}
	err := s.mutate(ctx, subjectID, "add chapter", func(sub *curriculum.Subject) error {
		sub.Chapters = append(sub.Chapters, ch)
		return nil
	})
	if err != nil {
		return curriculum.Chapter{}, err
	}
	return ch, nil
}

func (s *Store) UpdateChapter(ctx context.Context, subjectID, chapterID, title string) error {
	return s.mutate(ctx, subjectID, "update chapter", func(sub *curriculum.Subject) error {
		ch, _ := sub.Chapter(chapterID)
		if ch == nil {
			return fmt.Errorf("chapter %s: %w", chapterID, ErrNotFound)
		}
		ch.Title = title
		return nil
	})
}

func (s *Store) DeleteChapter(ctx context.Context, subjectID, chapterID string) error {
	return s.mutate(ctx, subjectID, "delete chapter", func(sub *curriculum.Subject) error {
		_, idx := sub.Chapter(chapterID)
		if idx < 0 {
			return fmt.Errorf("chapter %s: %w", chapterID, ErrNotFound)
		}
		sub.Chapters = append(sub.Chapters[:idx], sub.Chapters[idx+1:]...)
		return nil
	})
}

// AddQuestion appends q under a fresh id; any id already on q is ignored.
func (s *Store) AddQuestion(ctx context.Context, subjectID, chapterID string, q curriculum.Question) (curriculum.Question, error) {
	added := curriculum.WithID(q, s.newID(util.PrefixQuestion))
	if err := added.Validate(); err != nil {
		return nil, err
	}

	err := s.mutate(ctx, subjectID, "add question", func(sub *curriculum.Subject) error {
		ch, _ := sub.Chapter(chapterID)
		if ch == nil {
			return fmt.Errorf("chapter %s: %w", chapterID, ErrNotFound)
		}
		ch.Questions = append(ch.Questions, added)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

// UpdateQuestion replaces the question in place, keeping its id. The
// replacement may change the question type.
func (s *Store) UpdateQuestion(ctx context.Context, subjectID, chapterID, questionID string, q curriculum.Question) error {
	replacement := curriculum.WithID(q, questionID)
	if err := replacement.Validate(); err != nil {
		return err
	}

	return s.mutate(ctx, subjectID, "update question", func(sub *curriculum.Subject) error {
		ch, _ := sub.Chapter(chapterID)
		if ch == nil {
			return fmt.Errorf("chapter %s: %w", chapterID, ErrNotFound)
		}
		_, idx := ch.Question(questionID)
		if idx < 0 {
			return fmt.Errorf("question %s: %w", questionID, ErrNotFound)
		}
		ch.Questions[idx] = replacement
		return nil
	})
}

func (s *Store) DeleteQuestion(ctx context.Context, subjectID, chapterID, questionID string) error {
	return s.mutate(ctx, subjectID, "delete question", func(sub *curriculum.Subject) error {
		ch, _ := sub.Chapter(chapterID)
		if ch == nil {
			return fmt.Errorf("chapter %s: %w", chapterID, ErrNotFound)
		}
		_, idx := ch.Question(questionID)
		if idx < 0 {
			return fmt.Errorf("question %s: %w", questionID, ErrNotFound)
		}
		ch.Questions = append(ch.Questions[:idx], ch.Questions[idx+1:]...)
		return nil
	})
}

// mutate applies change to a copy of the subject, sends the whole document
// and refetches everything. Local lookups failing never reach the network.
func (s *Store) mutate(ctx context.Context, subjectID, op string, change func(*curriculum.Subject) error) error {
	log := s.log.WithField("subject_id", subjectID)

	sub, err := s.Subject(subjectID)
	if err != nil {
		return fmt.Errorf("%s: subject %s: %w", op, subjectID, err)
	}
	if err := change(&sub); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := s.api.SyncSubject(ctx, sub); err != nil {
		log.WithError(err).Errorf("failed to %s", op)
		return err
	}
	return s.Refresh(ctx)
}
