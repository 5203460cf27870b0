package student

import (
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/prepmate-api/internal/curriculum"
	"gorm.io/gorm"
)

type Student struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"type:text;not null"`
	Email        string    `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string    `gorm:"type:text;not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`

	Results []Result `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE"`
}

func (s *Student) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Result is one quiz attempt. ResultID is the client-generated id.
type Result struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	StudentID      uuid.UUID `gorm:"type:uuid;not null;index"`
	ResultID       string    `gorm:"column:result_id;type:text"`
	SubjectID      string    `gorm:"type:text"`
	ChapterID      string    `gorm:"type:text"`
	Score          int       `gorm:"not null;default:0"`
	TotalQuestions int       `gorm:"not null;default:0"`
	Percentage     int       `gorm:"not null;default:0"`
	Mode           string    `gorm:"type:text"`
	Date           time.Time
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

func (Result) TableName() string { return "student_results" }

func (r *Result) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func (r Result) ToDomain() curriculum.QuizResult {
	return curriculum.QuizResult{
		ID:             r.ResultID,
		SubjectID:      r.SubjectID,
		ChapterID:      r.ChapterID,
		Score:          r.Score,
		TotalQuestions: r.TotalQuestions,
		Percentage:     r.Percentage,
		Date:           curriculum.FormatDate(r.Date),
		Mode:           curriculum.QuizMode(r.Mode),
	}
}

func resultsToDomain(rows []Result) []curriculum.QuizResult {
	out := make([]curriculum.QuizResult, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ToDomain())
	}
	return out
}
