package main

import (
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	lisp "github.com/ian-bird/charme/lisp"
)

// state shared by the commands, filled in by the app's Before hook
type appState struct {
	cfg lisp.Config
	log *logrus.Entry
}

func newLogger(verbose bool) *logrus.Entry {
	logger := logrus.New()
	logger.Out = os.Stderr
	logger.SetLevel(logrus.WarnLevel)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logrus.NewEntry(logger).WithField("app", "charme")
}

func newApp() *cli.App {
	rt := &appState{}
	return &cli.App{
		Name:  "charme",
		Usage: "a small Scheme interpreter",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "YAML config file (default ~/" + lisp.DefaultConfigFile + ")",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log evaluation steps to stderr",
			},
		},
		Before: func(c *cli.Context) error {
			cfg, err := lisp.LoadConfig(c.String("config"))
			if err != nil {
				return err
			}
			rt.cfg = cfg
			rt.log = newLogger(c.Bool("verbose"))
			if !cfg.Color {
				color.NoColor = true
			}
			return nil
		},
		Commands: []*cli.Command{
			runCommand(rt),
			evalCommand(rt),
			replCommand(rt),
		},
	}
}

func runCommand(rt *appState) *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "evaluate one or more files in a single session",
		ArgsUsage: "FILE...",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "keep-going",
				Usage: "continue with the remaining expressions after an error",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return cli.Exit("run: no files given", 2)
			}
			cfg := rt.cfg
			if c.Bool("keep-going") {
				cfg.KeepGoing = true
			}
			session := lisp.NewSession(cfg, rt.log)
			for _, file := range c.Args().Slice() {
				values, err := session.LoadFile(file)
				lisp.WriteValues(c.App.Writer, values)
				if err != nil {
					return cli.Exit(err.Error(), 1)
				}
			}
			return nil
		},
	}
}

func evalCommand(rt *appState) *cli.Command {
	return &cli.Command{
		Name:      "eval",
		Usage:     "evaluate the given source text and print each result",
		ArgsUsage: "EXPR...",
		Action: func(c *cli.Context) error {
			src := strings.Join(c.Args().Slice(), " ")
			values, err := lisp.NewSession(rt.cfg, rt.log).Eval(src)
			lisp.WriteValues(c.App.Writer, values)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			return nil
		},
	}
}

func replCommand(rt *appState) *cli.Command {
	return &cli.Command{
		Name:  "repl",
		Usage: "start an interactive session, or evaluate stdin if it is not a terminal",
		Action: func(c *cli.Context) error {
			session := lisp.NewSession(rt.cfg, rt.log)
			if !term.IsTerminal(int(os.Stdin.Fd())) {
				if err := lisp.RunBatch(session, os.Stdin, c.App.Writer); err != nil {
					return cli.Exit(err.Error(), 1)
				}
				return nil
			}
			return lisp.Repl(session, rt.cfg, c.App.Writer)
		},
	}
}

func main() {
	newApp().RunAndExitOnError()
}
