package edit

import (
	"fmt"

	"github.com/nicolagi/beeminder"
)

// ReconciliationError means the edited datapoints can not be matched with the original ones. No operation should
// be applied when it is returned.
type ReconciliationError struct {
	ID     string
	Reason string
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("datapoint %q: %s", e.ID, e.Reason)
}

// Plan lists the remote operations that make the remote datapoints look like the edited ones.
type Plan struct {
	// Original datapoints that are no longer present.
	Deletions []*beeminder.Datapoint

	// Edited datapoints whose value, timestamp or comment changed. They carry the new values.
	Updates []*beeminder.Datapoint

	// Edited datapoints without id.
	Creations []*beeminder.Datapoint
}

// Len is the number of operations in the plan.
func (p *Plan) Len() int {
	return len(p.Deletions) + len(p.Updates) + len(p.Creations)
}

func (p *Plan) Empty() bool {
	return p.Len() == 0
}

func changed(a, b *beeminder.Datapoint) bool {
	return a.Value != b.Value || a.Timestamp != b.Timestamp || a.Comment != b.Comment
}

// Reconcile compares the original datapoints (all with an id) with the edited ones and computes the plan. Any
// edited id that is unknown, or appears more than once, is an error. Reconcile makes no remote calls.
func Reconcile(original, edited []*beeminder.Datapoint) (*Plan, error) {
	byID := make(map[string]*beeminder.Datapoint, len(original))
	for _, dp := range original {
		byID[dp.ID] = dp
	}
	kept := make(map[string]bool, len(edited))
	var plan Plan
	for _, dp := range edited {
		if dp.ID == "" {
			plan.Creations = append(plan.Creations, dp)
			continue
		}
		orig, ok := byID[dp.ID]
		if !ok {
			return nil, &ReconciliationError{ID: dp.ID, Reason: "no such datapoint among the ones being edited"}
		}
		if kept[dp.ID] {
			return nil, &ReconciliationError{ID: dp.ID, Reason: "appears more than once"}
		}
		kept[dp.ID] = true
		if changed(orig, dp) {
			plan.Updates = append(plan.Updates, dp)
		}
	}
	for _, dp := range original {
		if !kept[dp.ID] {
			plan.Deletions = append(plan.Deletions, dp)
		}
	}
	return &plan, nil
}
