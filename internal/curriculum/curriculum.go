// Package curriculum holds the subject/chapter/question tree shared by the
// server and the client, plus quiz results and the export document.
package curriculum

import (
	"errors"
	"time"
)

var (
	ErrUnknownQuestionType = errors.New("unknown question type")
	ErrInvalidQuestion     = errors.New("invalid question")
)

type Subject struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Chapters []Chapter `json:"chapters"`
}

type Chapter struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Questions   Questions `json:"questions"`
}

type QuizMode string

const (
	ModePractice QuizMode = "practice"
	ModeExam     QuizMode = "exam"
)

func (m QuizMode) Valid() bool {
	return m == ModePractice || m == ModeExam
}

type QuizResult struct {
	ID             string   `json:"id"`
	SubjectID      string   `json:"subjectId"`
	ChapterID      string   `json:"chapterId"`
	Score          int      `json:"score"`
	TotalQuestions int      `json:"totalQuestions"`
	Percentage     int      `json:"percentage"`
	Date           string   `json:"date"`
	Mode           QuizMode `json:"mode"`
}

// AppData is the export/import document.
type AppData struct {
	Subjects []Subject    `json:"subjects"`
	Results  []QuizResult `json:"results"`
}

func (s Subject) Chapter(id string) (*Chapter, int) {
	for i := range s.Chapters {
		if s.Chapters[i].ID == id {
			return &s.Chapters[i], i
		}
	}
	return nil, -1
}

// Clone deep-copies the subject so callers can mutate the copy freely.
func (s Subject) Clone() Subject {
	out := Subject{ID: s.ID, Name: s.Name}
	if s.Chapters != nil {
		out.Chapters = make([]Chapter, len(s.Chapters))
		for i, ch := range s.Chapters {
			out.Chapters[i] = ch.Clone()
		}
	}
	return out
}

func (c Chapter) Clone() Chapter {
	out := c
	if c.Questions != nil {
		out.Questions = make(Questions, len(c.Questions))
		for i, q := range c.Questions {
			out.Questions[i] = q.Clone()
		}
	}
	return out
}

func (c Chapter) Question(id string) (Question, int) {
	for i, q := range c.Questions {
		if q.QuestionID() == id {
			return q, i
		}
	}
	return nil, -1
}

// MCQs returns only the multiple-choice questions, preserving order.
func (c Chapter) MCQs() []*MCQ {
	var out []*MCQ
	for _, q := range c.Questions {
		if m, ok := q.(*MCQ); ok {
			out = append(out, m)
		}
	}
	return out
}

func (s Subject) Validate() error {
	for _, ch := range s.Chapters {
		for _, q := range ch.Questions {
			if err := q.Validate(); err != nil {
				return err
			}
		}
	}
	return nil
}

// DateLayout matches the ISO-8601 form browsers produce for result dates.
const DateLayout = "2006-01-02T15:04:05.000Z07:00"

func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

func ParseDate(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
