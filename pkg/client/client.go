// Package client performs requests against the network backend's resource
// endpoints (/address, /link, /route).
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"

	"github.com/newtron-network/netconsole/pkg/util"
)

// DefaultBaseURL is where the backend listens unless configured otherwise.
const DefaultBaseURL = "http://localhost:3005"

// RequestIDHeader carries the per-request correlation ID.
const RequestIDHeader = "X-Request-ID"

// Client issues requests against a backend base URL. It holds no resource
// state: every call is one HTTP exchange.
type Client struct {
	baseURL string
	http    *http.Client
	log     *logrus.Entry
	metrics *Metrics
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the log entry requests are logged to.
func WithLogger(log *logrus.Entry) Option {
	return func(c *Client) { c.log = log }
}

// WithMetrics records request counts on m.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// New creates a client for the backend at baseURL. An empty baseURL selects
// DefaultBaseURL.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		// No client-side timeout: callers bound requests with their context.
		http: &http.Client{},
		log:  util.WithField("component", "client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend address requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Response is a decoded backend response.
type Response struct {
	StatusCode  int
	ContentType string
	RequestID   string
	Body        []byte

	// Value is the decoded body: a JSON value when the response declares a
	// JSON content type, otherwise the body as a string.
	Value interface{}
}

// IsJSON reports whether the response declared a JSON content type.
func (r *Response) IsJSON() bool {
	return strings.HasPrefix(r.ContentType, "application/json")
}

// Decode unmarshals a JSON response body into v.
func (r *Response) Decode(v interface{}) error {
	if !r.IsJSON() {
		return fmt.Errorf("expected JSON response, got content type %q", r.ContentType)
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// StatusError is returned when the backend answers with a non-2xx status.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: backend returned %d %s", e.Method, e.Path,
		e.StatusCode, http.StatusText(e.StatusCode))
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}

// Request performs one call of method against path. A non-nil body is sent
// JSON encoded. Transport failures and undecodable 2xx bodies are returned
// as errors; a non-2xx status always returns the response together with a
// *StatusError, with Value left as text when the body is not JSON.
// There is no retry.
func (c *Client) Request(ctx context.Context, method, path string, body interface{}) (*Response, error) {
	var reader io.Reader
	if body != nil {
		byt, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		reader = bytes.NewReader(byt)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	reqID := xid.New().String()
	req.Header.Set(RequestIDHeader, reqID)

	log := c.log.WithFields(logrus.Fields{
		"method":     method,
		"path":       path,
		"request_id": reqID,
	})

	rsp, err := c.http.Do(req)
	if err != nil {
		c.metrics.observe(method, path, 0)
		log.WithError(err).Debug("request failed")
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = rsp.Body.Close() }()
	c.metrics.observe(method, path, rsp.StatusCode)

	byt, err := io.ReadAll(rsp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	out := &Response{
		StatusCode:  rsp.StatusCode,
		ContentType: rsp.Header.Get("Content-Type"),
		RequestID:   reqID,
		Body:        byt,
	}
	log.WithField("status", rsp.StatusCode).Debug("request done")

	ok := rsp.StatusCode >= 200 && rsp.StatusCode <= 299
	if out.IsJSON() && len(bytes.TrimSpace(byt)) > 0 {
		if err := json.Unmarshal(byt, &out.Value); err != nil {
			if ok {
				return nil, fmt.Errorf("%s %s: decode response: %w", method, path, err)
			}
			// Rejections often carry plain text whatever the header says.
			out.Value = string(byt)
		}
	} else if !out.IsJSON() {
		out.Value = string(byt)
	}

	if !ok {
		return out, &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: rsp.StatusCode,
			Message:    strings.TrimSpace(string(byt)),
		}
	}
	return out, nil
}
