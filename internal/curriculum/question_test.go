package curriculum_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/saulo-duarte/prepmate-api/internal/curriculum"
)

const chapterJSON = `{
	"id": "chap_1",
	"title": "Motion",
	"questions": [
		{"id": "q_1", "type": "MCQ", "text": "2+2?", "options": ["3","4"], "correctIndex": 1, "explanation": "sum"},
		{"id": "q_2", "type": "SHORT", "text": "Define speed", "answerKey": "distance/time", "marks": 2},
		{"id": "q_3", "type": "LONG", "text": "Explain inertia", "answerKey": "..."}
	]
}`

func TestDecodeChapterQuestions(t *testing.T) {
	var ch curriculum.Chapter
	if err := json.Unmarshal([]byte(chapterJSON), &ch); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(ch.Questions) != 3 {
		t.Fatalf("questions = %d, want 3", len(ch.Questions))
	}

	mcq, ok := ch.Questions[0].(*curriculum.MCQ)
	if !ok {
		t.Fatalf("first question is %T, want *MCQ", ch.Questions[0])
	}
	if mcq.CorrectIndex != 1 || mcq.Explanation != "sum" {
		t.Errorf("unexpected MCQ: %+v", mcq)
	}

	short, ok := ch.Questions[1].(*curriculum.Subjective)
	if !ok {
		t.Fatalf("second question is %T, want *Subjective", ch.Questions[1])
	}
	if short.Kind() != curriculum.TypeShort || short.Marks == nil || *short.Marks != 2 {
		t.Errorf("unexpected SHORT question: %+v", short)
	}
	if ch.Questions[2].Kind() != curriculum.TypeLong {
		t.Errorf("third question kind = %s, want LONG", ch.Questions[2].Kind())
	}

	if got := len(ch.MCQs()); got != 1 {
		t.Errorf("MCQs() = %d, want 1", got)
	}
}

func TestDecodeUnknownQuestionType(t *testing.T) {
	_, err := curriculum.DecodeQuestion([]byte(`{"id":"q_x","type":"ESSAY","text":"?"}`))
	if !errors.Is(err, curriculum.ErrUnknownQuestionType) {
		t.Fatalf("err = %v, want ErrUnknownQuestionType", err)
	}
}

func TestMarshalKeepsDiscriminant(t *testing.T) {
	ch := curriculum.Chapter{
		ID:    "chap_1",
		Title: "Motion",
		Questions: curriculum.Questions{
			&curriculum.MCQ{ID: "q_1", Text: "?", Options: []string{"a"}, CorrectIndex: 0},
			&curriculum.Subjective{ID: "q_2", Type: curriculum.TypeLong, Text: "?", AnswerKey: "k"},
		},
	}

	data, err := json.Marshal(ch)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(data)
	if !strings.Contains(s, `"type":"MCQ"`) || !strings.Contains(s, `"type":"LONG"`) {
		t.Errorf("discriminants missing: %s", s)
	}
	if !strings.Contains(s, `"correctIndex":0`) {
		t.Errorf("correctIndex missing: %s", s)
	}

	var back curriculum.Chapter
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Questions[1].(*curriculum.Subjective).AnswerKey != "k" {
		t.Errorf("answerKey lost: %+v", back.Questions[1])
	}
}

func TestEmptyQuestionsMarshalAsArray(t *testing.T) {
	data, err := json.Marshal(curriculum.Chapter{ID: "chap_1", Title: "Empty"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"questions":[]`) {
		t.Errorf("got %s, want empty questions array", data)
	}
}

func TestMCQValidate(t *testing.T) {
	tests := []struct {
		name    string
		q       curriculum.MCQ
		wantErr bool
	}{
		{"Valid", curriculum.MCQ{ID: "q", Options: []string{"a", "b"}, CorrectIndex: 1}, false},
		{"NoOptions", curriculum.MCQ{ID: "q"}, true},
		{"IndexTooHigh", curriculum.MCQ{ID: "q", Options: []string{"a"}, CorrectIndex: 1}, true},
		{"NegativeIndex", curriculum.MCQ{ID: "q", Options: []string{"a"}, CorrectIndex: -1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.q.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, curriculum.ErrInvalidQuestion) {
				t.Errorf("err = %v, want ErrInvalidQuestion", err)
			}
		})
	}
}

func TestSubjectCloneIsDeep(t *testing.T) {
	orig := curriculum.Subject{
		ID:   "sub_1",
		Name: "Physics",
		Chapters: []curriculum.Chapter{{
			ID:        "chap_1",
			Title:     "Motion",
			Questions: curriculum.Questions{&curriculum.MCQ{ID: "q_1", Options: []string{"a", "b"}}},
		}},
	}

	cp := orig.Clone()
	cp.Chapters[0].Title = "Changed"
	cp.Chapters[0].Questions[0].(*curriculum.MCQ).Options[0] = "z"
	cp.Chapters = append(cp.Chapters, curriculum.Chapter{ID: "chap_2"})

	if orig.Chapters[0].Title != "Motion" {
		t.Errorf("chapter title leaked into original")
	}
	if orig.Chapters[0].Questions[0].(*curriculum.MCQ).Options[0] != "a" {
		t.Errorf("option edit leaked into original")
	}
	if len(orig.Chapters) != 1 {
		t.Errorf("append leaked into original")
	}
}
