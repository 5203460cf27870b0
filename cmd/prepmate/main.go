package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/saulo-duarte/prepmate-api/internal/appstate"
	shell "github.com/saulo-duarte/prepmate-api/internal/cli"
	"github.com/saulo-duarte/prepmate-api/internal/client"
	"github.com/saulo-duarte/prepmate-api/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.App{
		Name:  "prepmate",
		Usage: "practice and manage PrepMate quizzes from the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Usage:   "PrepMate API base URL",
				Value:   client.DefaultBaseURL,
				EnvVars: []string{"PREPMATE_SERVER"},
			},
			&cli.StringFlag{
				Name:    "data-dir",
				Usage:   "directory for guest results and backups",
				Value:   defaultDataDir(),
				EnvVars: []string{"PREPMATE_DATA_DIR"},
			},
			&cli.DurationFlag{
				Name:    "timeout",
				Usage:   "per-request timeout",
				Value:   15 * time.Second,
				EnvVars: []string{"PREPMATE_TIMEOUT"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Before: func(c *cli.Context) error {
			level, err := logrus.ParseLevel(c.String("log-level"))
			if err != nil {
				return err
			}
			config.Logger.SetLevel(level)
			return os.MkdirAll(c.String("data-dir"), 0o755)
		},
		Action: func(c *cli.Context) error {
			api, store := newStore(c)
			defer store.Wait()
			return shell.Run(c.Context, shell.Options{
				Store:   store,
				Drafter: api,
				DataDir: c.String("data-dir"),
			}, os.Stdin, os.Stdout)
		},
		Commands: []*cli.Command{
			{
				Name:  "subjects",
				Usage: "list subjects and chapters",
				Action: func(c *cli.Context) error {
					_, store := newStore(c)
					if err := store.Refresh(c.Context); err != nil {
						return err
					}
					for _, sub := range store.Subjects() {
						fmt.Printf("%s\t%s\n", sub.ID, sub.Name)
						for _, ch := range sub.Chapters {
							fmt.Printf("  %s\t%s\t%d questions\n", ch.ID, ch.Title, len(ch.Questions))
						}
					}
					return nil
				},
			},
			{
				Name:  "export",
				Usage: "write a JSON backup of all subjects",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file, - for stdout"},
				},
				Action: func(c *cli.Context) error {
					_, store := newStore(c)
					if err := store.Refresh(c.Context); err != nil {
						return err
					}

					path := c.String("out")
					if path == "-" {
						return store.Export(os.Stdout)
					}
					if path == "" {
						path = filepath.Join(c.String("data-dir"), appstate.ExportFileName(time.Now()))
					}
					f, err := os.Create(path)
					if err != nil {
						return err
					}
					defer f.Close()
					if err := store.Export(f); err != nil {
						return err
					}
					fmt.Println(path)
					return nil
				},
			},
			{
				Name:      "import",
				Usage:     "load a JSON backup into the server",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "mode", Value: string(appstate.ImportReplace), Usage: "merge or replace"},
					&cli.StringFlag{Name: "passcode", EnvVars: []string{"PREPMATE_ADMIN_PASSCODE"}, Usage: "admin passcode"},
				},
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return cli.Exit("usage: prepmate import <file>", 2)
					}
					mode, err := appstate.ParseImportMode(c.String("mode"))
					if err != nil {
						return err
					}

					_, store := newStore(c)
					if err := store.AdminLogin(c.Context, c.String("passcode")); err != nil {
						return err
					}

					f, err := os.Open(c.Args().First())
					if err != nil {
						return err
					}
					defer f.Close()

					n, err := store.Import(c.Context, f, mode)
					if err != nil {
						return err
					}
					fmt.Printf("imported %d subjects\n", n)
					return nil
				},
			},
		},
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newStore(c *cli.Context) (*client.Client, *appstate.Store) {
	api := client.New(c.String("server"), &http.Client{Timeout: c.Duration("timeout")})
	guest := appstate.NewFileResults(c.String("data-dir"))
	return api, appstate.New(api, guest, appstate.WithLogger(config.Logger))
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "prepmate")
	}
	return ".prepmate"
}
