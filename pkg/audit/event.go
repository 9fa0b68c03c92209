// Package audit records every create and delete sent to the network backend.
package audit

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/xid"

	"github.com/newtron-network/netconsole/pkg/client"
)

// Operation is the kind of mutation an event records.
type Operation string

const (
	OpCreate Operation = "create"
	OpDelete Operation = "delete"
)

// Event is one mutation attempt against the backend.
type Event struct {
	ID          string          `json:"id"`
	Timestamp   time.Time       `json:"timestamp"`
	User        string          `json:"user"`
	Backend     string          `json:"backend"`
	Resource    string          `json:"resource"`
	Operation   Operation       `json:"operation"`
	Payload     json.RawMessage `json:"payload,omitempty"`
	Success     bool            `json:"success"`
	Error       string          `json:"error,omitempty"`
	StatusCode  int             `json:"status_code,omitempty"`
	ExecuteMode bool            `json:"execute_mode"` // false for -x previews
	Duration    time.Duration   `json:"duration"`
}

// Filter selects events from a log.
type Filter struct {
	User        string
	Resource    string
	Operation   Operation
	StartTime   time.Time
	EndTime     time.Time
	SuccessOnly bool
	FailureOnly bool
	Offset      int
	Limit       int // keep only the newest Limit matches
}

// NewEvent starts an event for a mutation of resource.
func NewEvent(user, resource string, op Operation) *Event {
	return &Event{
		ID:          xid.New().String(),
		Timestamp:   time.Now(),
		User:        user,
		Resource:    resource,
		Operation:   op,
		ExecuteMode: true,
	}
}

// WithBackend records the backend base URL.
func (e *Event) WithBackend(url string) *Event {
	e.Backend = url
	return e
}

// WithPayload records the request body. Values that cannot be encoded are
// left out.
func (e *Event) WithPayload(v interface{}) *Event {
	if byt, err := json.Marshal(v); err == nil {
		e.Payload = byt
	}
	return e
}

// WithSuccess marks the event as successful.
func (e *Event) WithSuccess() *Event {
	e.Success = true
	e.Error = ""
	return e
}

// WithError marks the event as failed. A backend rejection also records
// its status code.
func (e *Event) WithError(err error) *Event {
	e.Success = false
	if err == nil {
		return e
	}
	e.Error = err.Error()
	var se *client.StatusError
	if errors.As(err, &se) {
		e.StatusCode = se.StatusCode
	}
	return e
}

// WithResult marks the event successful when err is nil, failed otherwise.
func (e *Event) WithResult(err error) *Event {
	if err != nil {
		return e.WithError(err)
	}
	return e.WithSuccess()
}

// WithDuration sets how long the request took.
func (e *Event) WithDuration(d time.Duration) *Event {
	e.Duration = d
	return e
}

// WithExecuteMode marks whether the mutation was actually sent.
func (e *Event) WithExecuteMode(execute bool) *Event {
	e.ExecuteMode = execute
	return e
}

func (f Filter) matches(e *Event) bool {
	switch {
	case f.User != "" && e.User != f.User:
		return false
	case f.Resource != "" && e.Resource != f.Resource:
		return false
	case f.Operation != "" && e.Operation != f.Operation:
		return false
	case !f.StartTime.IsZero() && e.Timestamp.Before(f.StartTime):
		return false
	case !f.EndTime.IsZero() && e.Timestamp.After(f.EndTime):
		return false
	case f.SuccessOnly && !e.Success:
		return false
	case f.FailureOnly && e.Success:
		return false
	}
	return true
}

// apply narrows matching events by offset, then keeps the newest Limit.
func (f Filter) apply(events []*Event) []*Event {
	if f.Offset > 0 {
		if f.Offset >= len(events) {
			return []*Event{}
		}
		events = events[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(events) {
		events = events[len(events)-f.Limit:]
	}
	return events
}
