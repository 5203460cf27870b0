package appstate

import (
	"math"

	"github.com/saulo-duarte/prepmate-api/internal/curriculum"
)

const progressWindow = 10

type ProgressPoint struct {
	Date       string
	Percentage int
	Result     curriculum.QuizResult
}

type SubjectPerformance struct {
	SubjectID string
	Name      string
	Average   int
	Attempts  int
}

type Analytics struct {
	TotalQuizzes   int
	AverageScore   int
	LastResultDate string
	Progress       []ProgressPoint
	Subjects       []SubjectPerformance
}

// Analytics summarizes the current results. Subjects with no attempts are
// left out.
func (s *Store) Analytics() Analytics {
	data := s.Data()
	return summarize(data.Subjects, data.Results)
}

func summarize(subjects []curriculum.Subject, results []curriculum.QuizResult) Analytics {
	out := Analytics{
		TotalQuizzes: len(results),
		Progress:     []ProgressPoint{},
		Subjects:     []SubjectPerformance{},
	}
	if len(results) == 0 {
		return out
	}

	out.AverageScore = average(results)
	out.LastResultDate = results[len(results)-1].Date

	start := max(0, len(results)-progressWindow)
	for _, r := range results[start:] {
		out.Progress = append(out.Progress, ProgressPoint{Date: r.Date, Percentage: r.Percentage, Result: r})
	}

	for _, sub := range subjects {
		var attempts []curriculum.QuizResult
		for _, r := range results {
			if r.SubjectID == sub.ID {
				attempts = append(attempts, r)
			}
		}
		if len(attempts) == 0 {
			continue
		}
		out.Subjects = append(out.Subjects, SubjectPerformance{
			SubjectID: sub.ID,
			Name:      sub.Name,
			Average:   average(attempts),
			Attempts:  len(attempts),
		})
	}
	return out
}

func average(results []curriculum.QuizResult) int {
	sum := 0
	for _, r := range results {
		sum += r.Percentage
	}
	return int(math.Round(float64(sum) / float64(len(results))))
}
