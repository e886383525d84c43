package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nicolagi/beeminder"
	"github.com/nicolagi/beeminder/edit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	t1 = time.Date(2023, 11, 13, 7, 0, 0, 0, time.UTC)
	t2 = time.Date(2023, 11, 14, 7, 0, 0, 0, time.UTC)
	t3 = time.Date(2023, 11, 15, 7, 0, 0, 0, time.UTC)
)

func fitness() []*beeminder.Datapoint {
	return []*beeminder.Datapoint{
		{ID: "3", Value: 3, Timestamp: t3.Unix(), Comment: "c"},
		{ID: "2", Value: 2, Timestamp: t2.Unix()},
		{ID: "1", Value: 1, Timestamp: t1.Unix(), Comment: "a"},
	}
}

func replaceWith(text string) func(string) string {
	return func(string) string { return text }
}

// recovered returns the files saved to the recovery directory.
func (h *harness) recovered(t *testing.T) []string {
	matches, err := filepath.Glob(filepath.Join(h.env["XDG_CACHE_HOME"], "beeline", "*.txt"))
	require.Nil(t, err)
	return matches
}

func TestEdit(t *testing.T) {
	h := newHarness(t)
	h.client.datapoints["fitness"] = fitness()
	h.editor.change = replaceWith(`# Header kept by the user.

id: 3
value: 30
timestamp: 2023-11-15 07:00:00
comment: c

id: 1
value: 1
timestamp: 2023-11-13 07:00:00
comment: a

value: 5
timestamp: 2023-11-15 08:00
comment: new
`)
	require.Nil(t, h.execute("edit", "fitness"))
	assert.Equal(t, []string{
		"datapoints fitness 20",
		"delete fitness 2",
		fmt.Sprintf("update fitness 3 comment=c&timestamp=%d&value=30", t3.Unix()),
		fmt.Sprintf("create fitness comment=new&timestamp=%d&value=5", t3.Add(time.Hour).Unix()),
	}, h.client.calls)
	assert.Equal(t, "Deleting datapoint 2.\n"+
		"Updating datapoint 3.\n"+
		"Creating datapoint with value 5.\n"+
		"fitness: deleted 1, updated 1, created 1\n", h.stdout.String())
	assert.NoFileExists(t, h.editor.path)
	assert.Empty(t, h.recovered(t))
}

func TestEditShowsDatapoints(t *testing.T) {
	h := newHarness(t)
	h.client.datapoints["fitness"] = fitness()
	require.Nil(t, h.execute("edit", "fitness"))
	assert.Contains(t, h.editor.seen, "id: 2\nvalue: 2\ntimestamp: 2023-11-14 07:00:00 +0000\ncomment: \n")
	assert.True(t, strings.HasPrefix(h.editor.seen, "# Datapoints of fitness"))
}

func TestEditNoChanges(t *testing.T) {
	h := newHarness(t)
	h.client.datapoints["fitness"] = fitness()
	require.Nil(t, h.execute("edit", "fitness"))
	assert.Equal(t, []string{"datapoints fitness 20"}, h.client.calls)
	assert.Equal(t, "fitness: no changes\n", h.stdout.String())
	assert.NoFileExists(t, h.editor.path)
}

func TestEditNoChangesWithUnusualComments(t *testing.T) {
	h := newHarness(t)
	h.client.datapoints["fitness"] = []*beeminder.Datapoint{
		{ID: "2", Value: 2, Timestamp: t2.Unix(), Comment: "line one\nline two"},
		{ID: "1", Value: 1, Timestamp: t1.Unix(), Comment: "ran "},
	}
	require.Nil(t, h.execute("edit", "fitness"))
	assert.Equal(t, []string{"datapoints fitness 20"}, h.client.calls)
	assert.Equal(t, "fitness: no changes\n", h.stdout.String())
}

func TestEditRecentFromConfig(t *testing.T) {
	h := newHarness(t)
	dir := filepath.Join(h.env["XDG_CONFIG_HOME"], "beeline")
	require.Nil(t, os.MkdirAll(dir, 0700))
	require.Nil(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("recent: 5\n"), 0600))
	require.Nil(t, h.execute("edit", "fitness"))
	assert.Equal(t, []string{"datapoints fitness 5"}, h.client.calls)
}

func TestEditFormatError(t *testing.T) {
	h := newHarness(t)
	h.client.datapoints["fitness"] = fitness()
	bad := "id: 3\nvalue: lots\ntimestamp: 2023-11-15 07:00:00\n"
	h.editor.change = replaceWith(bad)
	err := h.execute("edit", "fitness")

	var fe *edit.FormatError
	require.True(t, errors.As(err, &fe), "got %v", err)
	assert.Equal(t, 2, fe.Line)
	assert.Equal(t, []string{"datapoints fitness 20"}, h.client.calls)
	assert.NoFileExists(t, h.editor.path)

	var re *recoveredError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, filepath.Join(h.env["XDG_CACHE_HOME"], "beeline", fmt.Sprintf("fitness-%d.txt", testNow.Unix())), re.Path)
	saved, err := os.ReadFile(re.Path)
	require.Nil(t, err)
	assert.Equal(t, bad, string(saved))
}

func TestEditUnknownID(t *testing.T) {
	h := newHarness(t)
	h.client.datapoints["fitness"] = fitness()
	h.editor.change = func(s string) string {
		return strings.Replace(s, "id: 2\n", "id: 999\n", 1)
	}
	err := h.execute("edit", "fitness")
	var rerr *edit.ReconciliationError
	require.True(t, errors.As(err, &rerr), "got %v", err)
	assert.Equal(t, "999", rerr.ID)
	assert.Equal(t, []string{"datapoints fitness 20"}, h.client.calls)
	assert.Len(t, h.recovered(t), 1)
}

func TestEditEditorFails(t *testing.T) {
	h := newHarness(t)
	h.client.datapoints["fitness"] = fitness()
	h.editor.err = &EditorError{Editor: "ed", Err: errors.New("exit status 1")}
	err := h.execute("edit", "fitness")
	var ee *EditorError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, []string{"datapoints fitness 20"}, h.client.calls)
	assert.NoFileExists(t, h.editor.path)
	assert.Empty(t, h.recovered(t))
}

func TestEditApplyFails(t *testing.T) {
	h := newHarness(t)
	h.client.datapoints["fitness"] = fitness()
	h.client.failOn = "update fitness 3"
	h.editor.change = func(s string) string {
		s = strings.Replace(s, "value: 3\n", "value: 30\n", 1)
		s = strings.Replace(s, "value: 2\n", "value: 20\n", 1)
		return s + "\nvalue: 5\ntimestamp: 2023-11-15 08:00\n"
	}
	err := h.execute("edit", "fitness")

	var ae *edit.ApplyError
	require.True(t, errors.As(err, &ae), "got %v", err)
	assert.Equal(t, edit.Summary{}, ae.Done)
	assert.Equal(t, 2, ae.Pending)
	assert.True(t, errors.Is(err, beeminder.ErrStatusCode))
	assert.Equal(t, []string{
		"datapoints fitness 20",
		fmt.Sprintf("update fitness 3 comment=c&timestamp=%d&value=30", t3.Unix()),
	}, h.client.calls)
	assert.Contains(t, h.stdout.String(), "fitness: deleted 0, updated 0, created 0\n")
	assert.Len(t, h.recovered(t), 1)
}

func TestEditFrom(t *testing.T) {
	h := newHarness(t)
	h.client.datapoints["fitness"] = fitness()
	from := filepath.Join(t.TempDir(), "saved.txt")
	saved := "id: 3\nvalue: 3\ntimestamp: 2023-11-15 07:00:00\ncomment: c\n"
	require.Nil(t, os.WriteFile(from, []byte(saved), 0600))

	require.Nil(t, h.execute("edit", "--from", from, "fitness"))
	assert.Equal(t, saved, h.editor.seen)
	assert.Equal(t, []string{
		"datapoints fitness 20",
		"delete fitness 2",
		"delete fitness 1",
	}, h.client.calls)
}

func TestEditFromMissingFile(t *testing.T) {
	h := newHarness(t)
	err := h.execute("edit", "--from", filepath.Join(t.TempDir(), "nope.txt"), "fitness")
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Empty(t, h.client.calls)
	assert.Empty(t, h.editor.path)
}

func TestEditFetchFails(t *testing.T) {
	h := newHarness(t)
	h.client.err = &beeminder.RemoteError{Op: "get datapoints of fitness", Status: 404, Kind: beeminder.KindNotFound}
	assert.Equal(t, 1, h.app.run([]string{"edit", "fitness"}))
	assert.Empty(t, h.editor.path)
	assert.Contains(t, h.stderr.String(), "not found error (404)")
}
