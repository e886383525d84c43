package main

import (
	"io"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/nicolagi/beeminder"
	"github.com/nicolagi/beeminder/edit"
)

var (
	errorColor   = color.New(color.FgRed)
	successColor = color.New(color.FgGreen)
	statusColor  = color.New(color.FgCyan)
	dimColor     = color.New(color.Faint)

	safeBufColors = []*color.Color{
		color.New(color.FgRed),
		color.New(color.FgYellow),
		color.New(color.FgBlue),
	}
	safeColor    = color.New(color.FgGreen)
	defaultColor = color.New(color.FgWhite)
)

func safeBufColor(days int) *color.Color {
	switch {
	case days >= 0 && days < len(safeBufColors):
		return safeBufColors[days]
	case days >= 3 && days <= 6:
		return safeColor
	default:
		return defaultColor
	}
}

// printGoals lists goals, most urgent first, one per line.
func printGoals(w io.Writer, goals []*beeminder.Goal, now time.Time) {
	sort.Stable(goalsByUrgency{goals: goals, now: now})
	for _, g := range goals {
		mark := " "
		if g.HasEntryOn(now) {
			mark = "✓"
		}
		_, _ = safeBufColor(g.SafeBuf).Fprintf(w, "%s %-20s [%s] %s\n", mark, g.Slug, g.LimSum, g.Title)
	}
}

func printOperation(w io.Writer, op edit.Operation) {
	switch op.Kind {
	case edit.OpDelete:
		_, _ = dimColor.Fprintf(w, "Deleting datapoint %s.\n", op.Datapoint.ID)
	case edit.OpUpdate:
		_, _ = dimColor.Fprintf(w, "Updating datapoint %s.\n", op.Datapoint.ID)
	case edit.OpCreate:
		_, _ = dimColor.Fprintf(w, "Creating datapoint with value %v.\n", op.Datapoint.Value)
	}
}
