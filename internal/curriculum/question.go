package curriculum

import (
	"encoding/json"
	"fmt"
	"strings"
)

type QuestionType string

const (
	TypeMCQ   QuestionType = "MCQ"
	TypeShort QuestionType = "SHORT"
	TypeLong  QuestionType = "LONG"
)

// Question is either an *MCQ or a *Subjective.
type Question interface {
	QuestionID() string
	Kind() QuestionType
	Prompt() string
	Validate() error
	Clone() Question
}

type MCQ struct {
	ID           string   `json:"id"`
	Text         string   `json:"text"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
	Explanation  string   `json:"explanation,omitempty"`
	Marks        *int     `json:"marks,omitempty"`
}

type Subjective struct {
	ID        string       `json:"id"`
	Type      QuestionType `json:"-"`
	Text      string       `json:"text"`
	AnswerKey string       `json:"answerKey"`
	Marks     *int         `json:"marks,omitempty"`
}

func (q *MCQ) QuestionID() string { return q.ID }
func (q *MCQ) Kind() QuestionType { return TypeMCQ }
func (q *MCQ) Prompt() string     { return q.Text }

func (q *MCQ) Validate() error {
	if len(q.Options) == 0 {
		return fmt.Errorf("%w: MCQ %q has no options", ErrInvalidQuestion, q.ID)
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return fmt.Errorf("%w: MCQ %q correctIndex %d out of range", ErrInvalidQuestion, q.ID, q.CorrectIndex)
	}
	return nil
}

func (q *MCQ) Clone() Question {
	out := *q
	out.Options = append([]string(nil), q.Options...)
	if q.Marks != nil {
		m := *q.Marks
		out.Marks = &m
	}
	return &out
}

func (q *MCQ) MarshalJSON() ([]byte, error) {
	type alias MCQ
	return json.Marshal(struct {
		Type QuestionType `json:"type"`
		*alias
	}{TypeMCQ, (*alias)(q)})
}

func (q *Subjective) QuestionID() string { return q.ID }
func (q *Subjective) Kind() QuestionType { return q.Type }
func (q *Subjective) Prompt() string     { return q.Text }

func (q *Subjective) Validate() error {
	if q.Type != TypeShort && q.Type != TypeLong {
		return fmt.Errorf("%w: %q", ErrUnknownQuestionType, q.Type)
	}
	return nil
}

func (q *Subjective) Clone() Question {
	out := *q
	if q.Marks != nil {
		m := *q.Marks
		out.Marks = &m
	}
	return &out
}

func (q *Subjective) MarshalJSON() ([]byte, error) {
	type alias Subjective
	return json.Marshal(struct {
		Type QuestionType `json:"type"`
		*alias
	}{q.Type, (*alias)(q)})
}

// DecodeQuestion dispatches on the "type" field.
func DecodeQuestion(data []byte) (Question, error) {
	var head struct {
		Type QuestionType `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, err
	}

	switch QuestionType(strings.ToUpper(string(head.Type))) {
	case TypeMCQ:
		var q MCQ
		if err := json.Unmarshal(data, &q); err != nil {
			return nil, err
		}
		return &q, nil
	case TypeShort, TypeLong:
		var q Subjective
		if err := json.Unmarshal(data, &q); err != nil {
			return nil, err
		}
		q.Type = QuestionType(strings.ToUpper(string(head.Type)))
		return &q, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownQuestionType, head.Type)
	}
}

type Questions []Question

func (qs *Questions) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*qs = nil
		return nil
	}

	out := make(Questions, 0, len(raw))
	for i, item := range raw {
		q, err := DecodeQuestion(item)
		if err != nil {
			return fmt.Errorf("question %d: %w", i, err)
		}
		out = append(out, q)
	}
	*qs = out
	return nil
}

func (qs Questions) MarshalJSON() ([]byte, error) {
	if qs == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Question(qs))
}

// WithID returns a copy of q carrying id.
func WithID(q Question, id string) Question {
	switch v := q.Clone().(type) {
	case *MCQ:
		v.ID = id
		return v
	case *Subjective:
		v.ID = id
		return v
	default:
		return q
	}
}
