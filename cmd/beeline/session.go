package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nicolagi/beeminder/edit"
	log "github.com/sirupsen/logrus"
)

// recoveredError wraps a failure of the edit command after the user edited the buffer. The edited text has been
// saved to Path.
type recoveredError struct {
	Goal string
	Path string
	Err  error
}

func (e *recoveredError) Error() string {
	return fmt.Sprintf("%v\nYour edits were saved to %s, retry with: beeline edit --from %s %s", e.Err, e.Path, e.Path, e.Goal)
}

func (e *recoveredError) Unwrap() error {
	return e.Err
}

// preserve saves the edited text to the recovery directory, so that the user doesn't lose work because of cause.
func (a *app) preserve(goal string, text []byte, cause error) error {
	logEntry := log.WithField("dir", a.cfg.RecoveryDir)
	if err := os.MkdirAll(a.cfg.RecoveryDir, 0700); err != nil {
		logEntry.WithField("cause", err).Warning("Could not create recovery directory")
		return cause
	}
	pathname := filepath.Join(a.cfg.RecoveryDir, fmt.Sprintf("%s-%d.txt", goal, a.now().Unix()))
	if err := os.WriteFile(pathname, text, 0600); err != nil {
		logEntry.WithField("cause", err).Warning("Could not save edit buffer")
		return cause
	}
	return &recoveredError{Goal: goal, Path: pathname, Err: cause}
}

// edit runs one edit session: fetch, write buffer, run editor, read buffer, reconcile, apply. The buffer file is
// removed on all paths.
func (a *app) edit(goal, from string) error {
	var initial []byte
	if from != "" {
		b, err := os.ReadFile(from)
		if err != nil {
			return fmt.Errorf("edit: %w", err)
		}
		initial = b
	}
	original, err := a.client.Datapoints(goal, a.cfg.Recent)
	if err != nil {
		return err
	}
	if initial == nil {
		var buf bytes.Buffer
		if err := edit.WriteBuffer(&buf, goal, original, a.loc); err != nil {
			return fmt.Errorf("edit: %w", err)
		}
		initial = buf.Bytes()
	}

	f, err := os.CreateTemp("", "beeline-*.txt")
	if err != nil {
		return fmt.Errorf("edit: %w", err)
	}
	pathname := f.Name()
	defer func() {
		if err := os.Remove(pathname); err != nil {
			log.WithFields(log.Fields{
				"path":  pathname,
				"cause": err,
			}).Warning("Could not remove edit buffer")
		}
	}()
	_, err = f.Write(initial)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("edit: %w", err)
	}

	if err := a.editor.Edit(pathname); err != nil {
		return err
	}
	text, err := os.ReadFile(pathname)
	if err != nil {
		return fmt.Errorf("edit: %w", err)
	}
	edited, err := edit.ReadBuffer(bytes.NewReader(text), a.loc)
	if err != nil {
		return a.preserve(goal, text, err)
	}
	plan, err := edit.Reconcile(original, edited)
	if err != nil {
		return a.preserve(goal, text, err)
	}
	if plan.Empty() {
		_, _ = statusColor.Fprintf(a.stdout, "%s: no changes\n", goal)
		return nil
	}
	summary, err := plan.Apply(a.client, goal, func(op edit.Operation) {
		printOperation(a.stdout, op)
	})
	if err != nil {
		_, _ = statusColor.Fprintf(a.stdout, "%s: %v\n", goal, summary)
		return a.preserve(goal, text, err)
	}
	_, _ = successColor.Fprintf(a.stdout, "%s: %v\n", goal, summary)
	return nil
}
