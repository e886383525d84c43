package beeminder

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	log "github.com/sirupsen/logrus"
)

// wireEntry is one line of the wire log.
type wireEntry struct {
	Type     string          `json:"type"`
	Method   string          `json:"method,omitempty"`
	URL      string          `json:"url,omitempty"`
	Params   url.Values      `json:"params,omitempty"`
	Status   int             `json:"status,omitempty"`
	Response json.RawMessage `json:"response,omitempty"`
}

func (c *Client) logWire(e wireEntry) {
	if e.Params != nil {
		redacted := make(url.Values, len(e.Params))
		for k, v := range e.Params {
			redacted[k] = v
		}
		redacted.Set("auth_token", "REDACTED")
		e.Params = redacted
	}
	if e.Response != nil && !json.Valid(e.Response) {
		b, _ := json.Marshal(string(e.Response))
		e.Response = b
	}
	b, err := json.Marshal(e)
	if err != nil {
		return
	}
	_, _ = c.wlog.Write(append(b, '\n'))
}

func (c *Client) goalPath(goal string, elem ...string) string {
	p := "/users/" + url.PathEscape(c.user) + "/goals"
	if goal != "" {
		p += "/" + url.PathEscape(goal)
	}
	for _, e := range elem {
		p += "/" + url.PathEscape(e)
	}
	return p + ".json"
}

// do performs one API call. Parameters are sent in the query string for GET and DELETE, and form-encoded in the
// body otherwise. On success, the JSON response is decoded into v unless v is nil.
func (c *Client) do(op, method, path string, params url.Values, v interface{}) error {
	if params == nil {
		params = make(url.Values)
	}
	params.Set("auth_token", c.token)
	u := c.endpoint + path
	var body io.Reader
	if method == http.MethodGet || method == http.MethodDelete {
		u += "?" + params.Encode()
	} else {
		body = strings.NewReader(params.Encode())
	}
	req, err := http.NewRequest(method, u, body)
	if err != nil {
		return &RemoteError{Op: op, Kind: KindUnknown, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	c.logWire(wireEntry{Type: "request", Method: method, URL: c.endpoint + path, Params: params})
	logEntry := log.WithFields(log.Fields{
		"op":     op,
		"method": method,
		"path":   path,
	})
	logEntry.Debug("Sending request")

	r, err := c.http.Do(req)
	if err != nil {
		return &RemoteError{Op: op, Kind: KindNetwork, Err: err}
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			logEntry.WithField("cause", err).Warning("Could not close response body")
		}
	}()
	b, err := io.ReadAll(r.Body)
	if err != nil {
		return &RemoteError{Op: op, Status: r.StatusCode, Kind: KindNetwork, Err: fmt.Errorf("read body: %w", err)}
	}
	c.logWire(wireEntry{Type: "response", Status: r.StatusCode, Response: b})

	if r.StatusCode < 200 || r.StatusCode > 299 {
		msg := serviceMessage(b)
		logEntry.WithFields(log.Fields{
			"code": r.StatusCode,
			"text": msg,
		}).Debug("Unsuccessful response")
		return &RemoteError{Op: op, Status: r.StatusCode, Kind: kindOf(r.StatusCode), Message: msg}
	}
	logEntry.WithField("code", r.StatusCode).Debug("Received response")
	if v == nil {
		return nil
	}
	if err := json.Unmarshal(b, v); err != nil {
		return &RemoteError{Op: op, Status: r.StatusCode, Kind: KindProtocol, Err: fmt.Errorf("unmarshal: %w", err)}
	}
	return nil
}
