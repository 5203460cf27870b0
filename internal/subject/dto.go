package subject

import (
	"github.com/go-playground/validator/v10"
	"github.com/saulo-duarte/prepmate-api/internal/curriculum"
)

var validate = validator.New()

type CreateSubjectRequest struct {
	ID       string               `json:"id" validate:"required"`
	Name     string               `json:"name" validate:"required"`
	Chapters []curriculum.Chapter `json:"chapters"`
}

// SyncSubjectRequest leaves the stored value untouched for an empty name
// or an absent/null chapters list.
type SyncSubjectRequest struct {
	Name     string               `json:"name"`
	Chapters []curriculum.Chapter `json:"chapters"`
}

type ListSubjectsResponse struct {
	Subjects []curriculum.Subject    `json:"subjects"`
	Results  []curriculum.QuizResult `json:"results"`
}
