package aiquiz_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/saulo-duarte/prepmate-api/internal/aiquiz"
)

type stubProvider struct {
	drafts     []aiquiz.Draft
	err        error
	lastPrompt string
}

func (p *stubProvider) SendPrompt(_ context.Context, _, user string) ([]aiquiz.Draft, error) {
	p.lastPrompt = user
	return p.drafts, p.err
}

func TestGenerateQuestionsConvertsDrafts(t *testing.T) {
	provider := &stubProvider{drafts: []aiquiz.Draft{
		{
			Question:      "What is the SI unit of force?",
			Options:       []string{"A) Joule", "B) Newton", "C) Watt", "D) Pascal"},
			CorrectAnswer: "b",
			Explanation:   "Force is measured in newtons.",
		},
		{Question: "Broken answer", Options: []string{"A) x", "B) y"}, CorrectAnswer: "E"},
		{Question: "", Options: []string{"A) x"}, CorrectAnswer: "A"},
	}}
	svc := aiquiz.NewService(provider)

	qs, err := svc.GenerateQuestions(context.Background(), aiquiz.QuestionRequest{Topic: "Forces", Count: 3})
	if err != nil {
		t.Fatalf("GenerateQuestions: %v", err)
	}
	if len(qs) != 1 {
		t.Fatalf("got %d questions, want 1 valid one", len(qs))
	}

	q := qs[0]
	if q.CorrectIndex != 1 {
		t.Errorf("CorrectIndex = %d, want 1", q.CorrectIndex)
	}
	if q.Options[1] != "Newton" {
		t.Errorf("option label not stripped: %q", q.Options[1])
	}
	if !strings.HasPrefix(q.ID, "q_") {
		t.Errorf("id %q should carry the question prefix", q.ID)
	}
	if !strings.Contains(provider.lastPrompt, "Forces") {
		t.Errorf("prompt does not mention the topic: %s", provider.lastPrompt)
	}
}

func TestGenerateQuestionsCapsCount(t *testing.T) {
	var drafts []aiquiz.Draft
	for i := 0; i < 15; i++ {
		drafts = append(drafts, aiquiz.Draft{Question: "Q", Options: []string{"A) a", "B) b"}, CorrectAnswer: "A"})
	}
	svc := aiquiz.NewService(&stubProvider{drafts: drafts})

	qs, err := svc.GenerateQuestions(context.Background(), aiquiz.QuestionRequest{Topic: "x", Count: 50})
	if err != nil {
		t.Fatalf("GenerateQuestions: %v", err)
	}
	if len(qs) != 10 {
		t.Errorf("got %d questions, want cap of 10", len(qs))
	}
}

func TestGenerateQuestionsErrors(t *testing.T) {
	t.Run("NoProvider", func(t *testing.T) {
		svc := aiquiz.NewService(nil)
		_, err := svc.GenerateQuestions(context.Background(), aiquiz.QuestionRequest{Topic: "x"})
		if !errors.Is(err, aiquiz.ErrProviderUnavailable) {
			t.Fatalf("err = %v, want ErrProviderUnavailable", err)
		}
	})

	t.Run("ProviderFailure", func(t *testing.T) {
		boom := errors.New("boom")
		svc := aiquiz.NewService(&stubProvider{err: boom})
		_, err := svc.GenerateQuestions(context.Background(), aiquiz.QuestionRequest{Topic: "x"})
		if !errors.Is(err, boom) {
			t.Fatalf("err = %v, want boom", err)
		}
	})
}

func TestHandlerStatusCodes(t *testing.T) {
	tests := []struct {
		name string
		svc  aiquiz.Service
		body string
		want int
	}{
		{"MissingTopic", aiquiz.NewService(&stubProvider{}), `{"count":2}`, http.StatusBadRequest},
		{"BadDifficulty", aiquiz.NewService(&stubProvider{}), `{"topic":"x","difficulty":"extreme"}`, http.StatusBadRequest},
		{"Unavailable", aiquiz.NewService(nil), `{"topic":"x"}`, http.StatusServiceUnavailable},
		{"Created", aiquiz.NewService(&stubProvider{}), `{"topic":"x","difficulty":"easy"}`, http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := aiquiz.Routes(aiquiz.NewHandler(tt.svc), nil)
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestDecodeDrafts(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    int
		wantErr bool
	}{
		{"BareArray", `[{"question":"q","options":["A) a"],"correct_answer":"A"}]`, 1, false},
		{"Fenced", "```json\n[{\"question\":\"q\"},{\"question\":\"r\"}]\n```", 2, false},
		{"Wrapped", `{"questions":[{"question":"q"}]}`, 1, false},
		{"Empty", "  ", 0, true},
		{"Prose", "Sure! Here are your questions.", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			drafts, err := aiquiz.DecodeDrafts(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if len(drafts) != tt.want {
				t.Errorf("got %d drafts, want %d", len(drafts), tt.want)
			}
		})
	}
}
