package edit

import (
	"fmt"

	"github.com/nicolagi/beeminder"
	log "github.com/sirupsen/logrus"
)

// Store is the part of *beeminder.Client needed to apply a plan.
type Store interface {
	CreateDatapoint(goal string, patch *beeminder.DatapointPatch) (*beeminder.Datapoint, error)
	UpdateDatapoint(goal, id string, patch *beeminder.DatapointPatch) (*beeminder.Datapoint, error)
	DeleteDatapoint(goal, id string) error
}

// OpKind is the kind of a remote operation.
type OpKind int

const (
	OpDelete OpKind = iota
	OpUpdate
	OpCreate
)

func (k OpKind) String() string {
	switch k {
	case OpDelete:
		return "delete"
	case OpUpdate:
		return "update"
	case OpCreate:
		return "create"
	default:
		return fmt.Sprintf("OpKind(%d)", int(k))
	}
}

// Operation is one step of a plan.
type Operation struct {
	Kind      OpKind
	Datapoint *beeminder.Datapoint
}

func (op Operation) String() string {
	return fmt.Sprintf("%v %v", op.Kind, op.Datapoint)
}

// Operations returns the plan's operations in the order Apply performs them: deletions, updates, creations.
func (p *Plan) Operations() []Operation {
	ops := make([]Operation, 0, p.Len())
	for _, dp := range p.Deletions {
		ops = append(ops, Operation{Kind: OpDelete, Datapoint: dp})
	}
	for _, dp := range p.Updates {
		ops = append(ops, Operation{Kind: OpUpdate, Datapoint: dp})
	}
	for _, dp := range p.Creations {
		ops = append(ops, Operation{Kind: OpCreate, Datapoint: dp})
	}
	return ops
}

// Summary counts the operations that succeeded.
type Summary struct {
	Deleted int
	Updated int
	Created int
}

func (s Summary) String() string {
	return fmt.Sprintf("deleted %d, updated %d, created %d", s.Deleted, s.Updated, s.Created)
}

func (s *Summary) add(k OpKind) {
	switch k {
	case OpDelete:
		s.Deleted++
	case OpUpdate:
		s.Updated++
	case OpCreate:
		s.Created++
	}
}

// ApplyError is returned by Apply when a remote operation fails. Operations before it were applied, the ones
// after it were not attempted.
type ApplyError struct {
	Op      Operation
	Done    Summary
	Pending int // Operations not attempted, excluding the failed one
	Err     error
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf("%v: %v (already applied: %v; not attempted: %d)", e.Op, e.Err, e.Done, e.Pending)
}

func (e *ApplyError) Unwrap() error {
	return e.Err
}

// Apply performs the plan's operations against the goal, in the order given by Operations, stopping at the first
// failure. If observe is not nil, it is called before each operation.
func (p *Plan) Apply(s Store, goal string, observe func(Operation)) (Summary, error) {
	var done Summary
	ops := p.Operations()
	for i, op := range ops {
		if observe != nil {
			observe(op)
		}
		var err error
		switch op.Kind {
		case OpDelete:
			err = s.DeleteDatapoint(goal, op.Datapoint.ID)
		case OpUpdate:
			_, err = s.UpdateDatapoint(goal, op.Datapoint.ID, beeminder.PatchFrom(op.Datapoint))
		case OpCreate:
			_, err = s.CreateDatapoint(goal, beeminder.PatchFrom(op.Datapoint))
		}
		if err != nil {
			log.WithFields(log.Fields{
				"goal":  goal,
				"op":    op.Kind,
				"id":    op.Datapoint.ID,
				"cause": err,
			}).Debug("Stopping after failed operation")
			return done, &ApplyError{Op: op, Done: done, Pending: len(ops) - i - 1, Err: err}
		}
		done.add(op.Kind)
	}
	return done, nil
}
