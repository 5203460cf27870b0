package aiquiz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/saulo-duarte/prepmate-api/internal/config"
	"google.golang.org/genai"
)

type Provider interface {
	SendPrompt(ctx context.Context, system, user string) ([]Draft, error)
}

const defaultModel = "gemini-2.0-flash"

type geminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider reads the API key from GEMINI_API_KEY or GOOGLE_API_KEY.
func NewGeminiProvider(ctx context.Context, model string) (Provider, error) {
	if model == "" {
		model = defaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &geminiProvider{client: client, model: model}, nil
}

func (p *geminiProvider) SendPrompt(ctx context.Context, system, user string) ([]Draft, error) {
	log := config.WithContext(ctx)
	prompt := system + "\n\n" + user

	result, err := p.client.Models.GenerateContent(
		ctx,
		p.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
	)
	if err != nil {
		log.WithError(err).Error("gemini generation failed")
		return nil, fmt.Errorf("generate content: %w", err)
	}

	drafts, err := DecodeDrafts(result.Text())
	if err != nil {
		log.WithError(err).Warn("unusable model reply")
		return nil, err
	}
	log.WithField("count", len(drafts)).Info("drafts generated")
	return drafts, nil
}

// DecodeDrafts parses a model reply. Models sometimes wrap the array in a
// markdown fence or in a {"questions": [...]} object; both are accepted.
func DecodeDrafts(raw string) ([]Draft, error) {
	clean := strings.TrimSpace(raw)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	clean = strings.TrimSpace(clean)
	if clean == "" {
		return nil, errors.New("empty model reply")
	}

	var drafts []Draft
	if strings.HasPrefix(clean, "{") {
		var wrapped struct {
			Questions []Draft `json:"questions"`
		}
		if err := json.Unmarshal([]byte(clean), &wrapped); err != nil {
			return nil, fmt.Errorf("decode reply: %w", err)
		}
		drafts = wrapped.Questions
	} else if err := json.Unmarshal([]byte(clean), &drafts); err != nil {
		return nil, fmt.Errorf("decode reply: %w", err)
	}
	return drafts, nil
}
