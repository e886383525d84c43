package main

import (
	"os"
	"path/filepath"

	"9fans.net/go/acme"
	log "github.com/sirupsen/logrus"
)

// acmeEditor edits the buffer in a new acme window. Put saves the body back to the file and closes the window,
// Del closes it without saving. Either way, Edit returns once the window is gone.
type acmeEditor struct{}

type acmeWindow struct {
	*acme.Win
	pathname string
}

func (acmeEditor) Edit(pathname string) error {
	b, err := os.ReadFile(pathname)
	if err != nil {
		return &EditorError{Editor: "acme", Err: err}
	}
	aw, err := acme.New()
	if err != nil {
		return &EditorError{Editor: "acme", Err: err}
	}
	title := "/beeline/" + filepath.Base(pathname)
	aw.SetErrorPrefix(title)
	_ = aw.Name(title)
	_ = aw.Ctl("cleartag")
	_ = aw.Fprintf("tag", " Put Del ")
	if _, err := aw.Write("body", b); err != nil {
		_ = aw.Del(true)
		return &EditorError{Editor: "acme", Err: err}
	}
	_ = aw.Ctl("clean")
	_ = aw.Addr("0")
	_ = aw.Ctl("dot=addr")
	_ = aw.Ctl("show")

	w := &acmeWindow{Win: aw, pathname: pathname}
	w.EventLoop(w)
	return nil
}

// Execute is triggered by button-2 click in acme.
func (w *acmeWindow) Execute(cmd string) bool {
	switch cmd {
	case "Put":
		body, err := w.ReadAll("body")
		if err == nil {
			err = os.WriteFile(w.pathname, body, 0600)
		}
		if err != nil {
			log.WithFields(log.Fields{
				"path":  w.pathname,
				"cause": err,
			}).Warning("Could not save acme window")
			w.Errf("Could not save: %v", err)
			return true
		}
		_ = w.Ctl("clean")
		_ = w.Del(true)
		return true
	case "Del":
		_ = w.Del(false)
		return true
	default:
		return false
	}
}

// Look is invoked via button-3 click in acme. Nothing to open from an edit buffer.
func (w *acmeWindow) Look(string) bool {
	return false
}
