package beeminder

import (
	"encoding/json"
	"net/http"
	"time"
)

// Goal partially describes a Beeminder goal. Only the fields needed for listing are decoded into struct fields; the
// whole goal object is kept in Fields so that backups don't lose anything.
type Goal struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`

	// Days of safety buffer before derailing. Zero means the goal is due today.
	SafeBuf int `json:"safebuf"`

	// Summary of what must be done, e.g., "+2 due in 1 day".
	LimSum string `json:"limsum"`

	// Unix time of the last datapoint entered.
	LastDay int64 `json:"lastday"`

	Fields map[string]interface{} `json:"-"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (g *Goal) UnmarshalJSON(b []byte) error {
	type plain Goal
	if err := json.Unmarshal(b, (*plain)(g)); err != nil {
		return err
	}
	return json.Unmarshal(b, &g.Fields)
}

// MarshalJSON implements json.Marshaler. Decoded struct fields take precedence over Fields.
func (g Goal) MarshalJSON() ([]byte, error) {
	m := make(map[string]interface{}, len(g.Fields)+5)
	for k, v := range g.Fields {
		m[k] = v
	}
	m["slug"] = g.Slug
	m["title"] = g.Title
	m["safebuf"] = g.SafeBuf
	m["limsum"] = g.LimSum
	m["lastday"] = g.LastDay
	return json.Marshal(m)
}

// LastEntry returns the time of the most recent datapoint.
func (g *Goal) LastEntry() time.Time {
	return time.Unix(g.LastDay, 0)
}

// HasEntryOn reports whether the most recent datapoint falls on the same calendar day as t, in t's location.
func (g *Goal) HasEntryOn(t time.Time) bool {
	y1, m1, d1 := g.LastEntry().In(t.Location()).Date()
	y2, m2, d2 := t.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// Goals fetches the user's active goals.
func (c *Client) Goals() ([]*Goal, error) {
	var goals []*Goal
	if err := c.do("list goals", http.MethodGet, c.goalPath(""), nil, &goals); err != nil {
		return nil, err
	}
	return goals, nil
}

// ArchivedGoals fetches the user's archived goals.
func (c *Client) ArchivedGoals() ([]*Goal, error) {
	var goals []*Goal
	if err := c.do("list archived goals", http.MethodGet, c.goalPath("archived"), nil, &goals); err != nil {
		return nil, err
	}
	return goals, nil
}
