package aiquiz

import "fmt"

const (
	defaultCount = 3
	maxCount     = 10
)

const systemPrompt = `
You generate multiple-choice study questions for a school exam preparation app.

Rules:
1. Only produce questions about study subjects (mathematics, physics, chemistry, biology, history, geography, literature, languages, etc.).
2. Each question has exactly one correct answer.
3. Difficulty is one of easy, medium or hard.
4. Each question has:
   - "question": the question text
   - "options": 4 plausible options, including the correct one, prefixed "A) ", "B) ", "C) ", "D) "
   - "correct_answer": the letter of the correct option
   - "explanation": a short, clear explanation of why the answer is correct

Expected JSON:

[
  {
    "topic": "<topic>",
    "difficulty": "<easy | medium | hard>",
    "question": "<question text>",
    "options": ["A) ...", "B) ...", "C) ...", "D) ..."],
    "correct_answer": "C",
    "explanation": "<short explanation>"
  }
]

Quality:
- Options must have similar length and structure; the correct one must not stand out.
- Use plausible distractors.
- Never reveal the answer in the question text.
- Reply with pure, valid JSON and nothing else.
`

func clampCount(n int) int {
	if n <= 0 {
		return defaultCount
	}
	if n > maxCount {
		return maxCount
	}
	return n
}

func BuildUserPrompt(req QuestionRequest) string {
	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = "medium"
	}

	extra := ""
	if req.Context != "" {
		extra = fmt.Sprintf("Use this exam context to frame the questions: %s. ", req.Context)
	}

	return fmt.Sprintf(
		"Generate %d multiple-choice questions about %q with %q difficulty. %s"+
			"Follow the format from the system prompt, with 4 options and the explanation in the 'explanation' field.",
		clampCount(req.Count), req.Topic, difficulty, extra,
	)
}
