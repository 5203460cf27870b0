package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/saulo-duarte/prepmate-api/internal/appstate"
	"github.com/saulo-duarte/prepmate-api/internal/curriculum"
)

const (
	draftDifficulty = "medium"
	draftCount      = 3
)

func cmdAdmin(ctx context.Context, sh *shell, _ []string) error {
	if sh.store.IsAdmin() {
		fmt.Fprintln(sh.out, "Already in admin mode.")
		return nil
	}
	passcode, err := sh.prompt("Passcode: ")
	if err != nil {
		return err
	}
	if err := sh.store.AdminLogin(ctx, passcode); err != nil {
		if errors.Is(err, appstate.ErrWrongPasscode) {
			fmt.Fprintln(sh.out, "Invalid passcode. Please try again.")
			return nil
		}
		return err
	}
	fmt.Fprintln(sh.out, "Admin mode enabled.")
	return nil
}

func cmdAdminLogout(_ context.Context, sh *shell, _ []string) error {
	sh.store.AdminLogout()
	fmt.Fprintln(sh.out, "Admin mode disabled.")
	return nil
}

func cmdPasscode(ctx context.Context, sh *shell, _ []string) error {
	current, err := sh.prompt("Current passcode: ")
	if err != nil {
		return err
	}
	next, err := sh.prompt("New passcode: ")
	if err != nil {
		return err
	}
	confirm, err := sh.prompt("Confirm new passcode: ")
	if err != nil {
		return err
	}
	if err := sh.store.UpdatePasscode(ctx, current, next, confirm); err != nil {
		return err
	}
	fmt.Fprintln(sh.out, "Passcode updated successfully.")
	return nil
}

func cmdAddSubject(ctx context.Context, sh *shell, args []string) error {
	if err := requireArgs(args, 1, "add-subject <name>"); err != nil {
		return err
	}
	sub, err := sh.store.AddSubject(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	fmt.Fprintf(sh.out, "Created %s (%s).\n", sub.Name, sub.ID)
	return nil
}

func cmdRenameSubject(ctx context.Context, sh *shell, args []string) error {
	if err := requireArgs(args, 2, "rename-subject <subject> <name>"); err != nil {
		return err
	}
	return sh.store.UpdateSubject(ctx, args[0], strings.Join(args[1:], " "))
}

func cmdDeleteSubject(ctx context.Context, sh *shell, args []string) error {
	if err := requireArgs(args, 1, "delete-subject <subject>"); err != nil {
		return err
	}
	ok, err := sh.confirm(fmt.Sprintf("Delete %s and all its chapters?", sh.subjectName(args[0])))
	if err != nil || !ok {
		return err
	}
	return sh.store.DeleteSubject(ctx, args[0])
}

func cmdAddChapter(ctx context.Context, sh *shell, args []string) error {
	if err := requireArgs(args, 2, "add-chapter <subject> <title>"); err != nil {
		return err
	}
	ch, err := sh.store.AddChapter(ctx, args[0], strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	fmt.Fprintf(sh.out, "Created %s (%s).\n", ch.Title, ch.ID)
	return nil
}

func cmdRenameChapter(ctx context.Context, sh *shell, args []string) error {
	if err := requireArgs(args, 3, "rename-chapter <subject> <chapter> <title>"); err != nil {
		return err
	}
	return sh.store.UpdateChapter(ctx, args[0], args[1], strings.Join(args[2:], " "))
}

func cmdDeleteChapter(ctx context.Context, sh *shell, args []string) error {
	if err := requireArgs(args, 2, "delete-chapter <subject> <chapter>"); err != nil {
		return err
	}
	ok, err := sh.confirm("Delete this chapter and its questions?")
	if err != nil || !ok {
		return err
	}
	return sh.store.DeleteChapter(ctx, args[0], args[1])
}

func cmdQuestions(_ context.Context, sh *shell, args []string) error {
	if err := requireArgs(args, 2, "questions <subject> <chapter>"); err != nil {
		return err
	}
	ch, err := sh.store.Chapter(args[0], args[1])
	if err != nil {
		return fmt.Errorf("chapter %s/%s: %w", args[0], args[1], err)
	}
	if len(ch.Questions) == 0 {
		fmt.Fprintln(sh.out, "No questions yet.")
	}
	for _, q := range ch.Questions {
		fmt.Fprintf(sh.out, "  %-16s %-5s %s\n", q.QuestionID(), q.Kind(), q.Prompt())
	}
	return nil
}

func cmdAddQuestion(ctx context.Context, sh *shell, args []string) error {
	if err := requireArgs(args, 3, "add-question <subject> <chapter> <mcq|short|long>"); err != nil {
		return err
	}
	q, err := sh.readQuestion(curriculum.QuestionType(strings.ToUpper(args[2])))
	if err != nil {
		return err
	}
	added, err := sh.store.AddQuestion(ctx, args[0], args[1], q)
	if err != nil {
		return err
	}
	fmt.Fprintf(sh.out, "Added %s.\n", added.QuestionID())
	return nil
}

func cmdEditQuestion(ctx context.Context, sh *shell, args []string) error {
	if err := requireArgs(args, 4, "edit-question <subject> <chapter> <question> <mcq|short|long>"); err != nil {
		return err
	}
	q, err := sh.readQuestion(curriculum.QuestionType(strings.ToUpper(args[3])))
	if err != nil {
		return err
	}
	return sh.store.UpdateQuestion(ctx, args[0], args[1], args[2], q)
}

func cmdDeleteQuestion(ctx context.Context, sh *shell, args []string) error {
	if err := requireArgs(args, 3, "delete-question <subject> <chapter> <question>"); err != nil {
		return err
	}
	return sh.store.DeleteQuestion(ctx, args[0], args[1], args[2])
}

func (sh *shell) readQuestion(kind curriculum.QuestionType) (curriculum.Question, error) {
	text, err := sh.prompt("Question: ")
	if err != nil {
		return nil, err
	}

	switch kind {
	case curriculum.TypeMCQ:
		options, err := sh.promptLines("Options, one per line, blank line to finish:")
		if err != nil {
			return nil, err
		}
		if len(options) == 0 {
			return nil, fmt.Errorf("%w: at least one option is required", curriculum.ErrInvalidQuestion)
		}
		answer, err := sh.prompt(fmt.Sprintf("Correct option (A-%s): ", optionLetter(len(options)-1)))
		if err != nil {
			return nil, err
		}
		correct, ok := parseLetter(answer, len(options))
		if !ok {
			return nil, fmt.Errorf("%w: correct option %q", curriculum.ErrInvalidQuestion, answer)
		}
		explanation, err := sh.prompt("Explanation (optional): ")
		if err != nil {
			return nil, err
		}
		return &curriculum.MCQ{Text: text, Options: options, CorrectIndex: correct, Explanation: explanation}, nil

	case curriculum.TypeShort, curriculum.TypeLong:
		answerKey, err := sh.prompt("Answer key: ")
		if err != nil {
			return nil, err
		}
		marksText, err := sh.prompt("Marks (optional): ")
		if err != nil {
			return nil, err
		}
		q := &curriculum.Subjective{Type: kind, Text: text, AnswerKey: answerKey}
		if marksText != "" {
			marks, err := strconv.Atoi(marksText)
			if err != nil {
				return nil, fmt.Errorf("marks: %w", err)
			}
			q.Marks = &marks
		}
		return q, nil
	}
	return nil, fmt.Errorf("%w: %q", curriculum.ErrUnknownQuestionType, kind)
}

func cmdDraft(ctx context.Context, sh *shell, args []string) error {
	if err := requireArgs(args, 3, "draft <subject> <chapter> <topic>"); err != nil {
		return err
	}
	if sh.opts.Drafter == nil {
		return fmt.Errorf("question drafting is not available")
	}
	if _, err := sh.store.Chapter(args[0], args[1]); err != nil {
		return fmt.Errorf("chapter %s/%s: %w", args[0], args[1], err)
	}

	topic := strings.Join(args[2:], " ")
	drafts, err := sh.opts.Drafter.GenerateQuestions(ctx, topic, draftDifficulty, draftCount)
	if err != nil {
		return err
	}
	if len(drafts) == 0 {
		fmt.Fprintln(sh.out, "No drafts came back.")
		return nil
	}

	kept := 0
	for i, d := range drafts {
		fmt.Fprintf(sh.out, "\nDraft %d: %s\n", i+1, d.Text)
		for j, opt := range d.Options {
			marker := " "
			if j == d.CorrectIndex {
				marker = "*"
			}
			fmt.Fprintf(sh.out, " %s%s. %s\n", marker, optionLetter(j), opt)
		}
		if d.Explanation != "" {
			fmt.Fprintf(sh.out, "  Explanation: %s\n", d.Explanation)
		}

		ok, err := sh.confirm("Add to chapter?")
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if _, err := sh.store.AddQuestion(ctx, args[0], args[1], d); err != nil {
			return err
		}
		kept++
	}
	fmt.Fprintf(sh.out, "Added %d of %d drafts.\n", kept, len(drafts))
	return nil
}
