package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/nicolagi/beeminder"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

type backupData struct {
	Metadata backupMetadata `json:"metadata"`
	Goals    backupGoals    `json:"goals"`
}

type backupMetadata struct {
	BackupTimestamp time.Time `json:"backup_timestamp"`
	BeelineVersion  string    `json:"beeline_version"`
}

type backupGoals struct {
	Active   []goalWithDatapoints `json:"active"`
	Archived []goalWithDatapoints `json:"archived"`
}

type goalWithDatapoints struct {
	Goal       *beeminder.Goal        `json:"goal"`
	Datapoints []*beeminder.Datapoint `json:"datapoints"`
}

func version() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}

// progress reports backup progress on a spinner when attached to a terminal, and as plain lines otherwise.
type progress struct {
	s *spinner.Spinner
	w io.Writer
}

func (a *app) newProgress() *progress {
	p := &progress{w: a.stdout}
	if a.interactive {
		p.s = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(a.stderr))
		p.s.Start()
	}
	return p
}

func (p *progress) printf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if p.s == nil {
		_, _ = statusColor.Fprintln(p.w, msg)
		return
	}
	p.s.Lock()
	p.s.Suffix = " " + msg
	p.s.Unlock()
}

func (p *progress) stop() {
	if p.s != nil {
		p.s.Stop()
	}
}

func (a *app) fetchAll(p *progress, goals []*beeminder.Goal, done, total *int) ([]goalWithDatapoints, error) {
	all := make([]goalWithDatapoints, 0, len(goals))
	for _, g := range goals {
		*done++
		p.printf("Fetching datapoints for %s (%d/%d)", g.Slug, *done, *total)
		dps, err := a.client.Datapoints(g.Slug, 0)
		if err != nil {
			return nil, fmt.Errorf("backup %s: %w", g.Slug, err)
		}
		all = append(all, goalWithDatapoints{Goal: g, Datapoints: dps})
	}
	return all, nil
}

func (a *app) backup(filename string) error {
	p := a.newProgress()
	defer p.stop()

	p.printf("Fetching active goals")
	active, err := a.client.Goals()
	if err != nil {
		return fmt.Errorf("backup: %w", err)
	}
	p.printf("Fetching archived goals")
	archived, err := a.client.ArchivedGoals()
	if err != nil {
		return fmt.Errorf("backup: %w", err)
	}
	done, total := 0, len(active)+len(archived)
	data := &backupData{
		Metadata: backupMetadata{
			BackupTimestamp: a.now().UTC(),
			BeelineVersion:  version(),
		},
	}
	if data.Goals.Active, err = a.fetchAll(p, active, &done, &total); err != nil {
		return err
	}
	if data.Goals.Archived, err = a.fetchAll(p, archived, &done, &total); err != nil {
		return err
	}

	p.printf("Writing %s", filename)
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("backup: %w", err)
	}
	err = writeBackup(f, data, backupFormat(filename))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		if rerr := os.Remove(filename); rerr != nil {
			log.WithFields(log.Fields{
				"path":  filename,
				"cause": rerr,
			}).Warning("Could not remove incomplete backup")
		}
		return fmt.Errorf("backup: %w", err)
	}
	p.stop()
	_, _ = successColor.Fprintf(a.stdout, "Saved %d goals to %s\n", total, filename)
	return nil
}

func backupFormat(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}

// writeBackup encodes the data as indented JSON or, for YAML, converts that JSON to YAML so that both formats have
// the same keys.
func writeBackup(w io.Writer, data *backupData, format string) error {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	if format == "json" {
		_, err = w.Write(append(b, '\n'))
		return err
	}
	// Numbers stay json.Number, which the YAML encoder writes as integers where possible.
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var generic interface{}
	if err := dec.Decode(&generic); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return err
	}
	return enc.Close()
}
