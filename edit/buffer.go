package edit

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/nicolagi/beeminder"
)

// TimeLayout is how timestamps appear in the edit buffer. The offset keeps times in the repeated hour of a DST
// change apart.
const TimeLayout = "2006-01-02 15:04:05 -0700"

// Accepted when reading, in addition to TimeLayout, as times in the buffer's location.
var shortLayouts = []string{"2006-01-02 15:04:05", "2006-01-02 15:04", "2006-01-02"}

// Lines longer than this are rejected.
const maxLineLength = 1 << 20

// Field names, in the order they are written.
const (
	fieldID        = "id"
	fieldValue     = "value"
	fieldTimestamp = "timestamp"
	fieldComment   = "comment"
)

// FormatError is returned by ReadBuffer when the buffer can not be parsed.
type FormatError struct {
	Line  int    // 1-based
	Field string // Empty if the line has no recognizable field
	Msg   string
}

func (e *FormatError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("line %d: %s: %s", e.Line, e.Field, e.Msg)
}

// WriteBuffer renders datapoints as text for the user to edit: a commented header, then one block per datapoint,
// blocks separated by blank lines. Timestamps are shown in loc.
func WriteBuffer(w io.Writer, goal string, dps []*beeminder.Datapoint, loc *time.Location) error {
	bw := bufio.NewWriter(w)
	_, _ = fmt.Fprintf(bw, "# Datapoints of %s, most recent first. Timestamps are in %s, as %q.\n", goal, loc, TimeLayout)
	_, _ = fmt.Fprint(bw, "# Remove a block to delete a datapoint, change a block to update it.\n")
	_, _ = fmt.Fprint(bw, "# Add a block without id to create a datapoint. Never change an id.\n")
	_, _ = fmt.Fprint(bw, "# A comment starting with a double quote is read as a Go string literal, e.g. \"two\\nlines\".\n")
	for _, dp := range dps {
		_, _ = fmt.Fprint(bw, "\n")
		if dp.ID != "" {
			_, _ = fmt.Fprintf(bw, "%s: %s\n", fieldID, dp.ID)
		}
		_, _ = fmt.Fprintf(bw, "%s: %s\n", fieldValue, strconv.FormatFloat(dp.Value, 'f', -1, 64))
		_, _ = fmt.Fprintf(bw, "%s: %s\n", fieldTimestamp, dp.Time().In(loc).Format(TimeLayout))
		_, _ = fmt.Fprintf(bw, "%s: %s\n", fieldComment, quoteComment(dp.Comment))
	}
	return bw.Flush()
}

// quoteComment writes comments that would not survive a line-based, whitespace-trimming reader as Go string
// literals. Everything else is written as is.
func quoteComment(s string) string {
	if s != strings.TrimSpace(s) || strings.HasPrefix(s, `"`) || strings.IndexFunc(s, notPrintable) >= 0 {
		return strconv.Quote(s)
	}
	return s
}

func notPrintable(r rune) bool {
	return !unicode.IsPrint(r)
}

func unquoteComment(s string) (string, error) {
	if !strings.HasPrefix(s, `"`) {
		return s, nil
	}
	return strconv.Unquote(s)
}

// block accumulates the fields of one datapoint while reading.
type block struct {
	start  int // Line of the first field
	seen   map[string]int
	values map[string]string
}

func newBlock(line int) *block {
	return &block{
		start:  line,
		seen:   make(map[string]int),
		values: make(map[string]string),
	}
}

func (b *block) datapoint(loc *time.Location) (*beeminder.Datapoint, error) {
	raw, ok := b.values[fieldValue]
	if !ok {
		return nil, &FormatError{Line: b.start, Field: fieldValue, Msg: "missing"}
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, &FormatError{Line: b.seen[fieldValue], Field: fieldValue, Msg: fmt.Sprintf("not a number: %q", raw)}
	}
	raw, ok = b.values[fieldTimestamp]
	if !ok {
		return nil, &FormatError{Line: b.start, Field: fieldTimestamp, Msg: "missing"}
	}
	t, err := ParseTime(raw, loc)
	if err != nil {
		return nil, &FormatError{Line: b.seen[fieldTimestamp], Field: fieldTimestamp, Msg: fmt.Sprintf("want %q, got %q", TimeLayout, raw)}
	}
	comment, err := unquoteComment(b.values[fieldComment])
	if err != nil {
		return nil, &FormatError{Line: b.seen[fieldComment], Field: fieldComment, Msg: "unterminated or invalid quoted text"}
	}
	return &beeminder.Datapoint{
		ID:        b.values[fieldID],
		Value:     value,
		Timestamp: t.Unix(),
		Comment:   comment,
	}, nil
}

// ParseTime parses a timestamp as written in edit buffers. The offset may be left out, and then the time is in loc;
// so may seconds, minutes and seconds, or the whole time of day.
func ParseTime(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(TimeLayout, s, loc)
	if err == nil {
		return t, nil
	}
	for _, layout := range shortLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

// ReadBuffer parses text in the format produced by WriteBuffer. Blocks may have been reordered, removed or added.
// Lines starting with # are ignored. Keys are case-insensitive.
func ReadBuffer(r io.Reader, loc *time.Location) ([]*beeminder.Datapoint, error) {
	var (
		dps []*beeminder.Datapoint
		cur *block
	)
	flush := func() error {
		if cur == nil {
			return nil
		}
		dp, err := cur.datapoint(loc)
		if err != nil {
			return err
		}
		dps = append(dps, dp)
		cur = nil
		return nil
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(nil, maxLineLength)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "#") {
			continue
		}
		if line == "" {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		i := strings.Index(line, ":")
		if i < 0 {
			return nil, &FormatError{Line: lineno, Msg: fmt.Sprintf("want \"field: value\", got %q", line)}
		}
		key := strings.ToLower(strings.TrimSpace(line[:i]))
		val := strings.TrimSpace(line[i+1:])
		switch key {
		case fieldID, fieldValue, fieldTimestamp, fieldComment:
		default:
			return nil, &FormatError{Line: lineno, Field: key, Msg: "unknown field"}
		}
		if cur == nil {
			cur = newBlock(lineno)
		}
		if prev, ok := cur.seen[key]; ok {
			return nil, &FormatError{Line: lineno, Field: key, Msg: fmt.Sprintf("already set on line %d", prev)}
		}
		cur.seen[key] = lineno
		cur.values[key] = val
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, &FormatError{Line: lineno + 1, Msg: fmt.Sprintf("longer than %d bytes", maxLineLength)}
		}
		return nil, err
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return dps, nil
}
