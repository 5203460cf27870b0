package admin

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AdminRepository interface {
	Get(ctx context.Context, key string) (*AdminConfig, error)
	// CreateIfAbsent inserts c unless the key already exists.
	CreateIfAbsent(ctx context.Context, c *AdminConfig) error
	Save(ctx context.Context, c *AdminConfig) error
}

type adminRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) Get(ctx context.Context, key string) (*AdminConfig, error) {
	var c AdminConfig
	if err := r.db.WithContext(ctx).First(&c, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *adminRepository) CreateIfAbsent(ctx context.Context, c *AdminConfig) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(c).Error
}

func (r *adminRepository) Save(ctx context.Context, c *AdminConfig) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).
		Create(c).Error
}
