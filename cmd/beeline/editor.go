package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// editor lets the user change a file, blocking until they're done.
type editor interface {
	Edit(pathname string) error
}

// EditorError means the editor could not be started or exited unsuccessfully.
type EditorError struct {
	Editor string
	Err    error
}

func (e *EditorError) Error() string {
	return fmt.Sprintf("editor %q: %v", e.Editor, e.Err)
}

func (e *EditorError) Unwrap() error {
	return e.Err
}

// execEditor runs an external program, attached to the terminal, with the file name as last argument.
type execEditor struct {
	argv   []string
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func (e *execEditor) Edit(pathname string) error {
	name := strings.Join(e.argv, " ")
	if len(e.argv) == 0 {
		return &EditorError{Editor: name, Err: fmt.Errorf("empty command")}
	}
	args := append(append([]string(nil), e.argv[1:]...), pathname)
	cmd := exec.Command(e.argv[0], args...)
	cmd.Stdin = e.stdin
	cmd.Stdout = e.stdout
	cmd.Stderr = e.stderr
	if err := cmd.Run(); err != nil {
		return &EditorError{Editor: name, Err: err}
	}
	return nil
}

// newEditor picks the editor named in the configuration. The name "acme" selects an acme window instead of an
// external program; anything else is a command line, split on spaces, e.g. "code --wait".
func newEditor(cfg *config) editor {
	if cfg.Editor == "acme" {
		return acmeEditor{}
	}
	return &execEditor{
		argv:   strings.Fields(cfg.Editor),
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}
