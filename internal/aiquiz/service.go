package aiquiz

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/saulo-duarte/prepmate-api/internal/config"
	"github.com/saulo-duarte/prepmate-api/internal/curriculum"
	util "github.com/saulo-duarte/prepmate-api/internal/utils"
)

var ErrProviderUnavailable = errors.New("question generator unavailable")

var optionLabel = regexp.MustCompile(`^\s*[A-Za-z][\)\.:]\s+`)

type Service interface {
	GenerateQuestions(ctx context.Context, req QuestionRequest) ([]*curriculum.MCQ, error)
}

type service struct {
	provider Provider
	newID    func(prefix string) string
}

func NewService(provider Provider) Service {
	return &service{provider: provider, newID: util.NewID}
}

func (s *service) GenerateQuestions(ctx context.Context, req QuestionRequest) ([]*curriculum.MCQ, error) {
	if s.provider == nil {
		return nil, ErrProviderUnavailable
	}

	drafts, err := s.provider.SendPrompt(ctx, systemPrompt, BuildUserPrompt(req))
	if err != nil {
		return nil, err
	}

	limit := clampCount(req.Count)
	out := make([]*curriculum.MCQ, 0, len(drafts))
	for _, d := range drafts {
		q, ok := s.toMCQ(d)
		if !ok {
			config.WithContext(ctx).WithField("question", d.Question).Warn("dropping malformed draft")
			continue
		}
		out = append(out, q)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// toMCQ strips "A) " style labels and maps the answer letter to an index.
func (s *service) toMCQ(d Draft) (*curriculum.MCQ, bool) {
	text := strings.TrimSpace(d.Question)
	if text == "" || len(d.Options) == 0 {
		return nil, false
	}

	options := make([]string, len(d.Options))
	for i, opt := range d.Options {
		options[i] = strings.TrimSpace(optionLabel.ReplaceAllString(opt, ""))
	}

	answer := strings.ToUpper(strings.TrimSpace(d.CorrectAnswer))
	if answer == "" {
		return nil, false
	}
	idx := int(answer[0] - 'A')

	q := &curriculum.MCQ{
		ID:           s.newID(util.PrefixQuestion),
		Text:         text,
		Options:      options,
		CorrectIndex: idx,
		Explanation:  strings.TrimSpace(d.Explanation),
	}
	if q.Validate() != nil {
		return nil, false
	}
	return q, true
}
