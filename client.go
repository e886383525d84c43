package beeminder

import (
	"io"
	"net/http"
	"os"
	"strings"
)

// DefaultEndpoint is the base URL of the Beeminder API, version 1.
const DefaultEndpoint = "https://www.beeminder.com/api/v1"

// ClientOption configures a Client built with NewClient.
type ClientOption func(*Client) error

// WithEndpoint is a client option to set the API base URL when building a client with NewClient. Mostly meant to
// be used in tests.
func WithEndpoint(endpoint string) ClientOption {
	return func(c *Client) error {
		c.endpoint = strings.TrimSuffix(endpoint, "/")
		return nil
	}
}

// WithUser selects the user whose goals are accessed. The default, "me", is the owner of the token.
func WithUser(user string) ClientOption {
	return func(c *Client) error {
		c.user = user
		return nil
	}
}

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) error {
		c.http = hc
		return nil
	}
}

// WithWireLog is a client option to be passed to NewClient in order to log all requests and responses to the
// specified log file. Useful for debugging the client itself, shouldn't be needed in normal operation.
func WithWireLog(pathname string) ClientOption {
	return func(c *Client) error {
		f, err := os.OpenFile(pathname, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
		if err == nil {
			c.wlog = f
		}
		return err
	}
}

// Client is a Beeminder API client. Each method makes exactly one remote call; nothing is cached. For the API
// documentation see https://api.beeminder.com/.
type Client struct {
	endpoint string
	user     string

	// The secret token to authenticate and authorize API calls.
	token string

	http *http.Client

	// If non-nil, log all requests and responses to this file, one per line, in JSON format.
	wlog io.Writer
}

// NewClient creates a new client authenticated and authorized by the given personal auth token.
func NewClient(token string, opts ...ClientOption) (*Client, error) {
	c := &Client{
		endpoint: DefaultEndpoint,
		user:     "me",
		token:    token,
		http:     http.DefaultClient,
		wlog:     io.Discard,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}
