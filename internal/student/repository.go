package student

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StudentRepository interface {
	Create(ctx context.Context, s *Student) error
	FindByEmail(ctx context.Context, email string) (*Student, error)
	AddResult(ctx context.Context, r *Result) error
	ListResults(ctx context.Context, studentID uuid.UUID) ([]Result, error)
}

type studentRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) Create(ctx context.Context, s *Student) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *studentRepository) FindByEmail(ctx context.Context, email string) (*Student, error) {
	var s Student
	if err := r.db.WithContext(ctx).
		Preload("Results", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&s, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *studentRepository) AddResult(ctx context.Context, res *Result) error {
	return r.db.WithContext(ctx).Create(res).Error
}

func (r *studentRepository) ListResults(ctx context.Context, studentID uuid.UUID) ([]Result, error) {
	var results []Result
	if err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
