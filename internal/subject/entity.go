package subject

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/prepmate-api/internal/curriculum"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Subject stores one whole curriculum document. LogicalID is the
// client-generated id and is deliberately not unique.
type Subject struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"-"`
	LogicalID string         `gorm:"column:logical_id;type:text;not null;index" json:"id"`
	Name      string         `gorm:"type:text;not null" json:"name"`
	Chapters  datatypes.JSON `gorm:"not null" json:"chapters"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"-"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"-"`
}

func (s *Subject) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (s *Subject) ToDomain() (curriculum.Subject, error) {
	out := curriculum.Subject{ID: s.LogicalID, Name: s.Name, Chapters: []curriculum.Chapter{}}
	if len(s.Chapters) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(s.Chapters, &out.Chapters); err != nil {
		return curriculum.Subject{}, fmt.Errorf("decode chapters of %s: %w", s.LogicalID, err)
	}
	if out.Chapters == nil {
		out.Chapters = []curriculum.Chapter{}
	}
	return out, nil
}

func encodeChapters(chapters []curriculum.Chapter) (datatypes.JSON, error) {
	if chapters == nil {
		chapters = []curriculum.Chapter{}
	}
	raw, err := json.Marshal(chapters)
	if err != nil {
		return nil, fmt.Errorf("encode chapters: %w", err)
	}
	return datatypes.JSON(raw), nil
}

func FromDomain(s curriculum.Subject) (*Subject, error) {
	chapters, err := encodeChapters(s.Chapters)
	if err != nil {
		return nil, err
	}
	return &Subject{
		LogicalID: s.ID,
		Name:      s.Name,
		Chapters:  chapters,
	}, nil
}
