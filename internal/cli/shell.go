// Package cli is the interactive PrepMate terminal client.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/saulo-duarte/prepmate-api/internal/appstate"
	"github.com/saulo-duarte/prepmate-api/internal/curriculum"
)

// Drafter produces MCQ drafts. *client.Client implements it.
type Drafter interface {
	GenerateQuestions(ctx context.Context, topic, difficulty string, count int) ([]*curriculum.MCQ, error)
}

type Options struct {
	Store   *appstate.Store
	Drafter Drafter
	DataDir string
	// TimePerQuestion sizes the exam clock; zero means one minute.
	TimePerQuestion time.Duration
	// TickInterval overrides the exam countdown tick; zero means one second.
	TickInterval time.Duration
	Now          func() time.Time
}

type command struct {
	usage string
	help  string
	admin bool
	run   func(ctx context.Context, sh *shell, args []string) error
}

type shell struct {
	opts   Options
	store  *appstate.Store
	reader *bufio.Reader
	out    io.Writer
}

var errQuit = errors.New("quit")

// Run loads the curriculum and reads commands from in until EOF or quit.
func Run(ctx context.Context, opts Options, in io.Reader, out io.Writer) error {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	sh := &shell{opts: opts, store: opts.Store, reader: bufio.NewReader(in), out: out}

	if err := sh.store.Refresh(ctx); err != nil {
		fmt.Fprintf(out, "Could not load subjects: %v\n", err)
	}
	fmt.Fprintln(out, "PrepMate. Type 'help' for commands.")

	for {
		if ctx.Err() != nil {
			return nil
		}
		line, err := sh.prompt("prepmate> ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(out)
				return nil
			}
			return err
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if err := sh.dispatch(ctx, fields[0], fields[1:]); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			fmt.Fprintf(out, "Error: %v\n", err)
		}
	}
}

func (sh *shell) dispatch(ctx context.Context, name string, args []string) error {
	cmd, ok := commands[strings.ToLower(name)]
	if !ok {
		fmt.Fprintf(sh.out, "Unknown command %q. Type 'help' for commands.\n", name)
		return nil
	}
	if cmd.admin && !sh.store.IsAdmin() {
		fmt.Fprintln(sh.out, "Admin login required. Use 'admin'.")
		return nil
	}
	return cmd.run(ctx, sh, args)
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"help":     {usage: "help", help: "show this list", run: cmdHelp},
		"quit":     {usage: "quit", help: "leave PrepMate", run: cmdQuit},
		"exit":     {usage: "exit", help: "leave PrepMate", run: cmdQuit},
		"refresh":  {usage: "refresh", help: "reload subjects from the server", run: cmdRefresh},
		"subjects": {usage: "subjects", help: "list subjects", run: cmdSubjects},
		"chapters": {usage: "chapters <subject>", help: "list chapters of a subject", run: cmdChapters},
		"practice": {usage: "practice <subject> <chapter> [10|20|all]", help: "MCQ practice with instant feedback", run: cmdPractice},
		"exam":     {usage: "exam <subject> <chapter> [10|20|all]", help: "timed MCQ exam", run: cmdExam},
		"study":    {usage: "study <subject> <chapter>", help: "read short and long answer questions", run: cmdStudy},

		"results":   {usage: "results", help: "list quiz results", run: cmdResults},
		"analytics": {usage: "analytics", help: "score summary", run: cmdAnalytics},

		"signup": {usage: "signup", help: "create a student account", run: cmdSignup},
		"login":  {usage: "login", help: "student login", run: cmdLogin},
		"logout": {usage: "logout", help: "student logout", run: cmdLogout},
		"whoami": {usage: "whoami", help: "show the current session", run: cmdWhoami},

		"export": {usage: "export [file]", help: "write a JSON backup", run: cmdExport},

		"admin":           {usage: "admin", help: "admin login", run: cmdAdmin},
		"admin-logout":    {usage: "admin-logout", help: "leave admin mode", run: cmdAdminLogout},
		"passcode":        {usage: "passcode", help: "change the admin passcode", admin: true, run: cmdPasscode},
		"import":          {usage: "import <file> [merge|replace]", help: "load a JSON backup", admin: true, run: cmdImport},
		"add-subject":     {usage: "add-subject <name>", help: "create a subject", admin: true, run: cmdAddSubject},
		"rename-subject":  {usage: "rename-subject <subject> <name>", help: "rename a subject", admin: true, run: cmdRenameSubject},
		"delete-subject":  {usage: "delete-subject <subject>", help: "delete a subject", admin: true, run: cmdDeleteSubject},
		"add-chapter":     {usage: "add-chapter <subject> <title>", help: "add a chapter", admin: true, run: cmdAddChapter},
		"rename-chapter":  {usage: "rename-chapter <subject> <chapter> <title>", help: "rename a chapter", admin: true, run: cmdRenameChapter},
		"delete-chapter":  {usage: "delete-chapter <subject> <chapter>", help: "delete a chapter", admin: true, run: cmdDeleteChapter},
		"questions":       {usage: "questions <subject> <chapter>", help: "list questions with ids", admin: true, run: cmdQuestions},
		"add-question":    {usage: "add-question <subject> <chapter> <mcq|short|long>", help: "write a new question", admin: true, run: cmdAddQuestion},
		"edit-question":   {usage: "edit-question <subject> <chapter> <question> <mcq|short|long>", help: "rewrite a question", admin: true, run: cmdEditQuestion},
		"delete-question": {usage: "delete-question <subject> <chapter> <question>", help: "delete a question", admin: true, run: cmdDeleteQuestion},
		"draft":           {usage: "draft <subject> <chapter> <topic>", help: "generate MCQ drafts and pick which to keep", admin: true, run: cmdDraft},
	}
}

func cmdHelp(_ context.Context, sh *shell, _ []string) error {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		cmd := commands[name]
		marker := ""
		if cmd.admin {
			marker = " (admin)"
		}
		fmt.Fprintf(sh.out, "  %-60s %s%s\n", cmd.usage, cmd.help, marker)
	}
	return nil
}

func cmdQuit(context.Context, *shell, []string) error {
	return errQuit
}

func cmdRefresh(ctx context.Context, sh *shell, _ []string) error {
	if err := sh.store.Refresh(ctx); err != nil {
		return err
	}
	fmt.Fprintf(sh.out, "Loaded %d subjects.\n", len(sh.store.Subjects()))
	return nil
}

func (sh *shell) prompt(label string) (string, error) {
	fmt.Fprint(sh.out, label)
	line, err := sh.reader.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptLines reads lines until a blank one.
func (sh *shell) promptLines(label string) ([]string, error) {
	fmt.Fprintln(sh.out, label)
	var lines []string
	for {
		line, err := sh.prompt("  > ")
		if err != nil {
			return nil, err
		}
		if line == "" {
			return lines, nil
		}
		lines = append(lines, line)
	}
}

func (sh *shell) confirm(label string) (bool, error) {
	answer, err := sh.prompt(label + " [y/N] ")
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes", nil
}

func requireArgs(args []string, n int, usage string) error {
	if len(args) < n {
		return fmt.Errorf("usage: %s", usage)
	}
	return nil
}

func optionLetter(i int) string {
	return string(rune('A' + i))
}

// parseLetter maps "a".."z" to an option index.
func parseLetter(s string, optionCount int) (int, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != 1 {
		return -1, false
	}
	idx := int(s[0] - 'A')
	if idx < 0 || idx >= optionCount {
		return -1, false
	}
	return idx, true
}
