package edit_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/nicolagi/beeminder"
	"github.com/nicolagi/beeminder/edit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore records calls and fails the call whose description equals failOn.
type fakeStore struct {
	calls  []string
	failOn string
}

func (s *fakeStore) record(call string) error {
	s.calls = append(s.calls, call)
	if call == s.failOn {
		return &beeminder.RemoteError{Op: call, Status: 500, Kind: beeminder.KindServer}
	}
	return nil
}

func (s *fakeStore) CreateDatapoint(goal string, patch *beeminder.DatapointPatch) (*beeminder.Datapoint, error) {
	if err := s.record(fmt.Sprintf("create %s", goal)); err != nil {
		return nil, err
	}
	return &beeminder.Datapoint{ID: "new"}, nil
}

func (s *fakeStore) UpdateDatapoint(goal, id string, patch *beeminder.DatapointPatch) (*beeminder.Datapoint, error) {
	if err := s.record(fmt.Sprintf("update %s %s", goal, id)); err != nil {
		return nil, err
	}
	return &beeminder.Datapoint{ID: id}, nil
}

func (s *fakeStore) DeleteDatapoint(goal, id string) error {
	return s.record(fmt.Sprintf("delete %s %s", goal, id))
}

func samplePlan() *edit.Plan {
	return &edit.Plan{
		Creations: []*beeminder.Datapoint{{Value: 9, Timestamp: t3}},
		Updates:   []*beeminder.Datapoint{{ID: "1", Value: 6, Timestamp: t1}},
		Deletions: []*beeminder.Datapoint{{ID: "2", Value: 3, Timestamp: t2}, {ID: "3", Value: 3, Timestamp: t2}},
	}
}

func TestApplyOrder(t *testing.T) {
	var s fakeStore
	var observed []edit.OpKind
	summary, err := samplePlan().Apply(&s, "fitness", func(op edit.Operation) {
		observed = append(observed, op.Kind)
	})
	require.Nil(t, err)
	assert.Equal(t, []string{
		"delete fitness 2",
		"delete fitness 3",
		"update fitness 1",
		"create fitness",
	}, s.calls)
	assert.Equal(t, []edit.OpKind{edit.OpDelete, edit.OpDelete, edit.OpUpdate, edit.OpCreate}, observed)
	assert.Equal(t, edit.Summary{Deleted: 2, Updated: 1, Created: 1}, summary)
	assert.Equal(t, "deleted 2, updated 1, created 1", summary.String())
}

func TestApplyStopsAtFirstFailure(t *testing.T) {
	s := fakeStore{failOn: "delete fitness 3"}
	summary, err := samplePlan().Apply(&s, "fitness", nil)
	var ae *edit.ApplyError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, edit.OpDelete, ae.Op.Kind)
	assert.Equal(t, "3", ae.Op.Datapoint.ID)
	assert.Equal(t, edit.Summary{Deleted: 1}, ae.Done)
	assert.Equal(t, edit.Summary{Deleted: 1}, summary)
	assert.Equal(t, 2, ae.Pending)
	assert.True(t, errors.Is(err, beeminder.ErrStatusCode))
	assert.Len(t, s.calls, 2)
	assert.Contains(t, err.Error(), "delete datapoint 3")
}

func TestApplyEmptyPlan(t *testing.T) {
	var s fakeStore
	summary, err := (&edit.Plan{}).Apply(&s, "fitness", nil)
	require.Nil(t, err)
	assert.Equal(t, edit.Summary{}, summary)
	assert.Empty(t, s.calls)
}
