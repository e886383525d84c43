package beeminder

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	uuid "github.com/nu7hatch/gouuid"
)

// Datapoint is one recorded value of a goal. A datapoint without ID has not been created yet.
type Datapoint struct {
	ID        string  `json:"id,omitempty" yaml:"id,omitempty"`
	Timestamp int64   `json:"timestamp" yaml:"timestamp"`
	Daystamp  string  `json:"daystamp,omitempty" yaml:"daystamp,omitempty"`
	Value     float64 `json:"value" yaml:"value"`
	Comment   string  `json:"comment,omitempty" yaml:"comment,omitempty"`
	UpdatedAt int64   `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
	RequestID string  `json:"requestid,omitempty" yaml:"requestid,omitempty"`
}

// Time returns the timestamp as a time.Time.
func (dp *Datapoint) Time() time.Time {
	return time.Unix(dp.Timestamp, 0)
}

func (dp *Datapoint) String() string {
	if dp.ID == "" {
		return fmt.Sprintf("new datapoint %v @ %s", dp.Value, dp.Time().Format(time.RFC3339))
	}
	return fmt.Sprintf("datapoint %s", dp.ID)
}

// DatapointPatch describes the fields to set when creating or updating a datapoint. Fields not set with one of
// the With* methods are not sent, so for updates they keep their current value.
type DatapointPatch struct {
	attrs url.Values
}

func NewDatapointPatch() *DatapointPatch {
	return &DatapointPatch{attrs: make(url.Values)}
}

// PatchFrom returns a patch setting value, timestamp and comment to those of dp. An empty comment is sent as
// such, so that it clears the remote one.
func PatchFrom(dp *Datapoint) *DatapointPatch {
	return NewDatapointPatch().WithValue(dp.Value).WithTimestamp(dp.Timestamp).WithComment(dp.Comment)
}

func (patch *DatapointPatch) WithValue(value float64) *DatapointPatch {
	patch.attrs.Set("value", strconv.FormatFloat(value, 'f', -1, 64))
	return patch
}

func (patch *DatapointPatch) WithTimestamp(unix int64) *DatapointPatch {
	patch.attrs.Set("timestamp", strconv.FormatInt(unix, 10))
	return patch
}

func (patch *DatapointPatch) WithTime(t time.Time) *DatapointPatch {
	return patch.WithTimestamp(t.Unix())
}

func (patch *DatapointPatch) WithComment(value string) *DatapointPatch {
	patch.attrs.Set("comment", value)
	return patch
}

// WithRequestID sets the idempotency key. Beeminder will not create a second datapoint with the same request id
// for the same goal, it will return the existing one instead.
func (patch *DatapointPatch) WithRequestID(value string) *DatapointPatch {
	patch.attrs.Set("requestid", value)
	return patch
}

// Empty reports whether no field has been set.
func (patch *DatapointPatch) Empty() bool {
	return len(patch.attrs) == 0
}

// String returns the fields set, form-encoded, sorted by name.
func (patch *DatapointPatch) String() string {
	return patch.attrs.Encode()
}

func (patch *DatapointPatch) values() url.Values {
	v := make(url.Values, len(patch.attrs)+1)
	for k, vs := range patch.attrs {
		v[k] = append([]string(nil), vs...)
	}
	return v
}

// Datapoints fetches the datapoints of a goal, most recent first. If count is positive, at most count datapoints
// are returned.
func (c *Client) Datapoints(goal string, count int) ([]*Datapoint, error) {
	params := make(url.Values)
	params.Set("sort", "timestamp")
	if count > 0 {
		params.Set("count", strconv.Itoa(count))
	}
	var dps []*Datapoint
	op := fmt.Sprintf("get datapoints of %s", goal)
	if err := c.do(op, http.MethodGet, c.goalPath(goal, "datapoints"), params, &dps); err != nil {
		return nil, err
	}
	return dps, nil
}

// CreateDatapoint adds a datapoint to the goal. The patch must set a value; if the timestamp is not set, the
// server uses the current time. A random request id is added when the patch doesn't have one.
func (c *Client) CreateDatapoint(goal string, patch *DatapointPatch) (*Datapoint, error) {
	op := fmt.Sprintf("create datapoint in %s", goal)
	params := patch.values()
	if params.Get("value") == "" {
		return nil, &RemoteError{Op: op, Kind: KindValidation, Message: "value is required"}
	}
	if params.Get("requestid") == "" {
		u, err := uuid.NewV4()
		if err != nil {
			return nil, &RemoteError{Op: op, Kind: KindUnknown, Err: fmt.Errorf("request id: %w", err)}
		}
		params.Set("requestid", u.String())
	}
	var dp Datapoint
	if err := c.do(op, http.MethodPost, c.goalPath(goal, "datapoints"), params, &dp); err != nil {
		return nil, err
	}
	return &dp, nil
}

// UpdateDatapoint changes the fields set in the patch. The identifier never changes.
func (c *Client) UpdateDatapoint(goal, id string, patch *DatapointPatch) (*Datapoint, error) {
	op := fmt.Sprintf("update datapoint %s in %s", id, goal)
	var dp Datapoint
	if err := c.do(op, http.MethodPut, c.goalPath(goal, "datapoints", id), patch.values(), &dp); err != nil {
		return nil, err
	}
	return &dp, nil
}

func (c *Client) DeleteDatapoint(goal, id string) error {
	op := fmt.Sprintf("delete datapoint %s in %s", id, goal)
	return c.do(op, http.MethodDelete, c.goalPath(goal, "datapoints", id), nil, nil)
}
