package aiquiz

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/saulo-duarte/prepmate-api/internal/config"
)

var validate = validator.New()

type Handler struct {
	service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) GenerateQuestions(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())
	var req QuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.Message(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		config.Message(w, http.StatusBadRequest, "Topic is required; difficulty must be easy, medium or hard")
		return
	}

	questions, err := h.service.GenerateQuestions(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrProviderUnavailable) {
			config.Message(w, http.StatusServiceUnavailable, "Question generator is not configured")
			return
		}
		log.WithError(err).Error("failed to generate questions")
		config.ServerError(w)
		return
	}

	config.JSON(w, http.StatusCreated, QuestionResponse{Questions: questions})
}
