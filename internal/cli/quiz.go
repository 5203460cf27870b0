package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/saulo-duarte/prepmate-api/internal/curriculum"
	"github.com/saulo-duarte/prepmate-api/internal/quizsession"
)

func cmdSubjects(_ context.Context, sh *shell, _ []string) error {
	subjects := sh.store.Subjects()
	if len(subjects) == 0 {
		fmt.Fprintln(sh.out, "No subjects yet.")
		return nil
	}
	for _, sub := range subjects {
		fmt.Fprintf(sh.out, "  %-16s %s (%d chapters)\n", sub.ID, sub.Name, len(sub.Chapters))
	}
	return nil
}

func cmdChapters(_ context.Context, sh *shell, args []string) error {
	if err := requireArgs(args, 1, "chapters <subject>"); err != nil {
		return err
	}
	sub, err := sh.store.Subject(args[0])
	if err != nil {
		return fmt.Errorf("subject %s: %w", args[0], err)
	}
	fmt.Fprintf(sh.out, "%s\n", sub.Name)
	for _, ch := range sub.Chapters {
		mcqs := len(ch.MCQs())
		fmt.Fprintf(sh.out, "  %-16s %s (%d MCQ, %d written)\n", ch.ID, ch.Title, mcqs, len(ch.Questions)-mcqs)
		if ch.Description != "" {
			fmt.Fprintf(sh.out, "  %-16s %s\n", "", ch.Description)
		}
	}
	return nil
}

func cmdPractice(ctx context.Context, sh *shell, args []string) error {
	return sh.runQuiz(ctx, curriculum.ModePractice, args)
}

func cmdExam(ctx context.Context, sh *shell, args []string) error {
	return sh.runQuiz(ctx, curriculum.ModeExam, args)
}

func (sh *shell) runQuiz(ctx context.Context, mode curriculum.QuizMode, args []string) error {
	if err := requireArgs(args, 2, string(mode)+" <subject> <chapter> [10|20|all]"); err != nil {
		return err
	}
	chapter, err := sh.store.Chapter(args[0], args[1])
	if err != nil {
		return fmt.Errorf("chapter %s/%s: %w", args[0], args[1], err)
	}
	limit := quizsession.LimitAll
	if len(args) > 2 {
		if limit, err = quizsession.ParseLimit(args[2]); err != nil {
			return err
		}
	}

	sess, err := quizsession.New(args[0], chapter, quizsession.Options{
		Mode:            mode,
		Limit:           limit,
		TimePerQuestion: sh.opts.TimePerQuestion,
		TickInterval:    sh.opts.TickInterval,
	}, sh.store)
	if errors.Is(err, quizsession.ErrNoQuestions) {
		fmt.Fprintln(sh.out, "This chapter has no multiple-choice questions.")
		return nil
	}
	if err != nil {
		return err
	}

	for {
		if err := sh.playSession(ctx, sess); err != nil {
			sess.Stop()
			return err
		}
		sh.printResult(sess)

		again, err := sh.confirm("Try again?")
		if err != nil || !again {
			return err
		}
		sess.Retry()
	}
}

func (sh *shell) playSession(ctx context.Context, sess *quizsession.Session) error {
	exam := sess.Mode() == curriculum.ModeExam
	if exam {
		fmt.Fprintf(sh.out, "Exam: %d questions, %s on the clock.\n", sess.Len(), sess.FormatRemaining())
		sess.Start(ctx)
	}

	for sess.State() != quizsession.StateFinished {
		q, idx := sess.Current()
		fmt.Fprintf(sh.out, "\nQ%d/%d: %s\n", idx+1, sess.Len(), q.Text)
		for i, opt := range q.Options {
			fmt.Fprintf(sh.out, "  %s. %s\n", optionLetter(i), opt)
		}

		label := "Answer (letter, blank to skip): "
		if exam {
			label = fmt.Sprintf("[%s] %s", sess.FormatRemaining(), label)
		}
		line, err := sh.prompt(label)
		if err != nil {
			return err
		}

		// Select reports an expired clock on its own, so only blank and
		// unparsable lines check the state.
		if line != "" {
			choice, ok := parseLetter(line, len(q.Options))
			if !ok && sess.State() != quizsession.StateFinished {
				fmt.Fprintf(sh.out, "Please enter a letter A-%s.\n", optionLetter(len(q.Options)-1))
				continue
			}
			if ok {
				err = sess.Select(choice)
			} else {
				err = quizsession.ErrFinished
			}
		} else if sess.State() == quizsession.StateFinished {
			err = quizsession.ErrFinished
		}
		if errors.Is(err, quizsession.ErrFinished) {
			fmt.Fprintln(sh.out, "Time's up!")
			break
		}
		if err != nil {
			return err
		}

		if !exam && line != "" {
			fb, err := sess.Reveal()
			if err != nil {
				return err
			}
			if fb.Correct {
				fmt.Fprintln(sh.out, "Correct!")
			} else {
				fmt.Fprintf(sh.out, "Wrong. Correct answer was %s. %s\n", optionLetter(fb.CorrectIndex), q.Options[fb.CorrectIndex])
			}
			if fb.Explanation != "" {
				fmt.Fprintf(sh.out, "Explanation: %s\n", fb.Explanation)
			}
		}

		if _, err := sess.Next(ctx); err != nil && !errors.Is(err, quizsession.ErrFinished) {
			return err
		}
	}
	sess.Stop()
	return nil
}

func (sh *shell) printResult(sess *quizsession.Session) {
	res, _ := sess.Result()
	fmt.Fprintf(sh.out, "\nScore: %d/%d (%d%%)\n", res.Score, res.TotalQuestions, res.Percentage)
}

func cmdStudy(_ context.Context, sh *shell, args []string) error {
	if err := requireArgs(args, 2, "study <subject> <chapter>"); err != nil {
		return err
	}
	chapter, err := sh.store.Chapter(args[0], args[1])
	if err != nil {
		return fmt.Errorf("chapter %s/%s: %w", args[0], args[1], err)
	}

	n := 0
	for _, q := range chapter.Questions {
		sq, ok := q.(*curriculum.Subjective)
		if !ok {
			continue
		}
		n++
		fmt.Fprintf(sh.out, "\n%d. [%s] %s\n", n, strings.ToUpper(string(sq.Type)), sq.Text)
		if sq.Marks != nil {
			fmt.Fprintf(sh.out, "   (%d marks)\n", *sq.Marks)
		}
		if _, err := sh.prompt("   Press enter to show the answer..."); err != nil {
			return err
		}
		fmt.Fprintf(sh.out, "   Answer: %s\n", sq.AnswerKey)
	}
	if n == 0 {
		fmt.Fprintln(sh.out, "This chapter has no written questions.")
	}
	return nil
}

func cmdResults(_ context.Context, sh *shell, _ []string) error {
	results := sh.store.Results()
	if len(results) == 0 {
		fmt.Fprintln(sh.out, "No results yet.")
		return nil
	}
	for _, r := range results {
		fmt.Fprintf(sh.out, "  %s  %-8s %s/%s  %d/%d (%d%%)\n",
			r.Date, r.Mode, sh.subjectName(r.SubjectID), r.ChapterID, r.Score, r.TotalQuestions, r.Percentage)
	}
	return nil
}

func cmdAnalytics(_ context.Context, sh *shell, _ []string) error {
	a := sh.store.Analytics()
	fmt.Fprintf(sh.out, "Quizzes taken: %d\n", a.TotalQuizzes)
	fmt.Fprintf(sh.out, "Average score: %d%%\n", a.AverageScore)
	if a.LastResultDate != "" {
		fmt.Fprintf(sh.out, "Last activity: %s\n", a.LastResultDate)
	}
	if len(a.Progress) > 0 {
		fmt.Fprintln(sh.out, "Recent scores:")
		for _, p := range a.Progress {
			fmt.Fprintf(sh.out, "  %s %3d%% %s\n", p.Date, p.Percentage, strings.Repeat("#", p.Percentage/5))
		}
	}
	if len(a.Subjects) > 0 {
		fmt.Fprintln(sh.out, "By subject:")
		for _, s := range a.Subjects {
			fmt.Fprintf(sh.out, "  %-20s %3d%% over %d attempts\n", s.Name, s.Average, s.Attempts)
		}
	}
	return nil
}

func (sh *shell) subjectName(id string) string {
	if sub, err := sh.store.Subject(id); err == nil {
		return sub.Name
	}
	return id
}
