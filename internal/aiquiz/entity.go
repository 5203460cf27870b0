package aiquiz

import "github.com/saulo-duarte/prepmate-api/internal/curriculum"

// Draft is one question as returned by the model.
type Draft struct {
	Topic         string   `json:"topic"`
	Difficulty    string   `json:"difficulty"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}

type QuestionRequest struct {
	Topic      string `json:"topic" validate:"required"`
	Difficulty string `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	Count      int    `json:"count" validate:"gte=0"`
	Context    string `json:"context"`
}

type QuestionResponse struct {
	Questions []*curriculum.MCQ `json:"questions"`
}
