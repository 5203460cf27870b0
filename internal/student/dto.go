package student

import (
	"github.com/go-playground/validator/v10"
	"github.com/saulo-duarte/prepmate-api/internal/curriculum"
)

var validate = validator.New()

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type SaveResultRequest struct {
	Email  string                `json:"email" validate:"required"`
	Result curriculum.QuizResult `json:"result"`
}

type StudentResponse struct {
	ID      string                  `json:"id"`
	Name    string                  `json:"name"`
	Email   string                  `json:"email"`
	Results []curriculum.QuizResult `json:"results"`
}

func toResponse(s *Student) *StudentResponse {
	return &StudentResponse{
		ID:      s.ID.String(),
		Name:    s.Name,
		Email:   s.Email,
		Results: resultsToDomain(s.Results),
	}
}
