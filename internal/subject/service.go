package subject

import (
	"context"
	"errors"
	"fmt"

	"github.com/saulo-duarte/prepmate-api/internal/config"
	"github.com/saulo-duarte/prepmate-api/internal/curriculum"
	"github.com/sirupsen/logrus"
)

var (
	ErrSubjectNotFound = errors.New("subject not found")
	ErrInvalidSubject  = errors.New("invalid subject")
)

type SubjectService interface {
	List(ctx context.Context) ([]curriculum.Subject, error)
	Create(ctx context.Context, s curriculum.Subject) (curriculum.Subject, error)
	Sync(ctx context.Context, id string, req SyncSubjectRequest) (curriculum.Subject, error)
	Delete(ctx context.Context, id string) error
}

type subjectService struct {
	repo  SubjectRepository
	cache Cache
}

func NewService(repo SubjectRepository, cache Cache) SubjectService {
	if cache == nil {
		cache = NewNoopCache()
	}
	return &subjectService{repo: repo, cache: cache}
}

func (s *subjectService) List(ctx context.Context) ([]curriculum.Subject, error) {
	cached, version, ok := s.cache.Get(ctx)
	if ok {
		return cached, nil
	}

	log := config.WithContext(ctx)
	rows, err := s.repo.List(ctx)
	if err != nil {
		log.WithError(err).Error("failed to list subjects")
		return nil, err
	}

	subjects := make([]curriculum.Subject, 0, len(rows))
	for _, row := range rows {
		sub, err := row.ToDomain()
		if err != nil {
			log.WithError(err).Error("failed to decode subject")
			return nil, err
		}
		subjects = append(subjects, sub)
	}

	s.cache.Set(ctx, version, subjects)
	return subjects, nil
}

// Create inserts without checking for an existing logical id.
func (s *subjectService) Create(ctx context.Context, sub curriculum.Subject) (curriculum.Subject, error) {
	log := config.WithContext(ctx).WithField("subject_id", sub.ID)

	if err := sub.Validate(); err != nil {
		return curriculum.Subject{}, fmt.Errorf("%w: %v", ErrInvalidSubject, err)
	}

	row, err := FromDomain(sub)
	if err != nil {
		return curriculum.Subject{}, err
	}
	if err := s.repo.Create(ctx, row); err != nil {
		log.WithError(err).Error("failed to create subject")
		return curriculum.Subject{}, err
	}
	s.cache.Invalidate(ctx)

	log.Info("subject created")
	return row.ToDomain()
}

// Sync overwrites name and chapters of an existing subject. It never creates.
func (s *subjectService) Sync(ctx context.Context, id string, req SyncSubjectRequest) (curriculum.Subject, error) {
	log := config.WithContext(ctx).WithField("subject_id", id)

	row, err := s.repo.FindByLogicalID(ctx, id)
	if err != nil {
		log.WithError(err).Error("failed to load subject")
		return curriculum.Subject{}, err
	}
	if row == nil {
		return curriculum.Subject{}, ErrSubjectNotFound
	}

	if req.Name != "" {
		row.Name = req.Name
	}
	if req.Chapters != nil {
		candidate := curriculum.Subject{ID: id, Chapters: req.Chapters}
		if err := candidate.Validate(); err != nil {
			return curriculum.Subject{}, fmt.Errorf("%w: %v", ErrInvalidSubject, err)
		}
		chapters, err := encodeChapters(req.Chapters)
		if err != nil {
			return curriculum.Subject{}, err
		}
		row.Chapters = chapters
	}

	if err := s.repo.Update(ctx, row); err != nil {
		log.WithError(err).Error("failed to update subject")
		return curriculum.Subject{}, err
	}
	s.cache.Invalidate(ctx)

	log.WithFields(logrus.Fields{"name_changed": req.Name != "", "chapters_changed": req.Chapters != nil}).Info("subject synced")
	return row.ToDomain()
}

func (s *subjectService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteByLogicalID(ctx, id); err != nil {
		config.WithContext(ctx).WithError(err).WithField("subject_id", id).Error("failed to delete subject")
		return err
	}
	s.cache.Invalidate(ctx)
	return nil
}
