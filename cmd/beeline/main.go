package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/nicolagi/beeminder"
	"github.com/nicolagi/beeminder/edit"
	log "github.com/sirupsen/logrus"
)

// client is what the commands need from *beeminder.Client.
type client interface {
	edit.Store
	Goals() ([]*beeminder.Goal, error)
	ArchivedGoals() ([]*beeminder.Goal, error)
	Datapoints(goal string, count int) ([]*beeminder.Datapoint, error)
}

// app holds the dependencies of the commands. Everything coming from the process environment is injected, so that
// tests can substitute it.
type app struct {
	getenv    func(string) string
	connect   func(*config) (client, error)
	newEditor func(*config) editor
	now       func() time.Time
	loc       *time.Location

	stdout io.Writer
	stderr io.Writer

	// Whether stderr is a terminal, to show progress with a spinner.
	interactive bool

	// Set up by the root command before any subcommand runs.
	cfg    *config
	client client
	editor editor
}

func connect(cfg *config) (client, error) {
	c, err := beeminder.NewClient(cfg.APIKey, cfg.clientOptions()...)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func main() {
	log.SetOutput(os.Stderr)
	log.SetLevel(log.WarnLevel)
	a := &app{
		getenv:      os.Getenv,
		connect:     connect,
		newEditor:   newEditor,
		now:         time.Now,
		loc:         time.Local,
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		interactive: isatty.IsTerminal(os.Stderr.Fd()),
	}
	os.Exit(a.run(os.Args[1:]))
}

// run executes one command and returns the process exit code.
func (a *app) run(args []string) int {
	root := newRootCommand(a)
	root.SetArgs(args)
	cmd, err := root.ExecuteC()
	if err == nil {
		return 0
	}
	_, _ = errorColor.Fprintf(a.stderr, "Error: %v\n", err)
	var usage *UsageError
	if errors.As(err, &usage) {
		_, _ = fmt.Fprint(a.stderr, cmd.UsageString())
		return 2
	}
	return 1
}
