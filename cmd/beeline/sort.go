package main

import (
	"time"

	"github.com/nicolagi/beeminder"
)

// goalsByUrgency puts goals without a datapoint today first, then goals with less safety buffer.
type goalsByUrgency struct {
	goals []*beeminder.Goal
	now   time.Time
}

func (g goalsByUrgency) Len() int {
	return len(g.goals)
}

func (g goalsByUrgency) Swap(i, j int) {
	g.goals[i], g.goals[j] = g.goals[j], g.goals[i]
}

func (g goalsByUrgency) Less(i, j int) bool {
	a, b := g.goals[i].HasEntryOn(g.now), g.goals[j].HasEntryOn(g.now)
	if a != b {
		return !a
	}
	return g.goals[i].SafeBuf < g.goals[j].SafeBuf
}
