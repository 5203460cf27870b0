package aiquiz

import (
	"context"

	"github.com/saulo-duarte/prepmate-api/internal/config"
)

type AIQuizContainer struct {
	Handler *Handler
}

// NewAIQuizContainer degrades to a 503-answering handler when no Gemini
// client can be created.
func NewAIQuizContainer(ctx context.Context, model string) *AIQuizContainer {
	provider, err := NewGeminiProvider(ctx, model)
	if err != nil {
		config.WithContext(ctx).WithError(err).Warn("AI question drafts disabled")
		provider = nil
	}
	service := NewService(provider)
	handler := NewHandler(service)

	return &AIQuizContainer{
		Handler: handler,
	}
}
