package subject

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type SubjectRepository interface {
	List(ctx context.Context) ([]*Subject, error)
	Create(ctx context.Context, s *Subject) error
	FindByLogicalID(ctx context.Context, id string) (*Subject, error)
	Update(ctx context.Context, s *Subject) error
	DeleteByLogicalID(ctx context.Context, id string) error
}

type subjectRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) SubjectRepository {
	return &subjectRepository{db: db}
}

func (r *subjectRepository) List(ctx context.Context) ([]*Subject, error) {
	var subjects []*Subject
	if err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&subjects).Error; err != nil {
		return nil, err
	}
	return subjects, nil
}

func (r *subjectRepository) Create(ctx context.Context, s *Subject) error {
	return r.db.WithContext(ctx).Create(s).Error
}

// FindByLogicalID returns the oldest document carrying id, or nil.
func (r *subjectRepository) FindByLogicalID(ctx context.Context, id string) (*Subject, error) {
	var s Subject
	if err := r.db.WithContext(ctx).
		Where("logical_id = ?", id).
		Order("created_at ASC").
		First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *subjectRepository) Update(ctx context.Context, s *Subject) error {
	return r.db.WithContext(ctx).
		Model(s).
		Select("name", "chapters", "updated_at").
		Updates(s).Error
}

// DeleteByLogicalID removes a single matching document; a missing id is not an error.
func (r *subjectRepository) DeleteByLogicalID(ctx context.Context, id string) error {
	s, err := r.FindByLogicalID(ctx, id)
	if err != nil || s == nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&Subject{}, "id = ?", s.ID).Error
}
