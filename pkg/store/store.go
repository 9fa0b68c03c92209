// Package store keeps one in-memory snapshot per backend resource and
// refreshes it on demand. Each refresh is tagged with a generation number;
// only the response of the latest generation is ever applied.
package store

import (
	"context"
	"fmt"

	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc"

	"github.com/newtron-network/netconsole/pkg/util"
)

// State is the lifecycle state of a Store.
type State int

const (
	StateEmpty State = iota
	StateLoading
	StateReady
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateErrored:
		return "errored"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Status is a point-in-time view of a store.
type Status struct {
	State      State
	Generation uint64
	Err        error
}

// Fetcher retrieves a fresh snapshot from the backend.
type Fetcher[T any] func(ctx context.Context) (T, error)

// Option configures a Store or Set.
type Option func(*options)

type options struct {
	log     *logrus.Entry
	metrics *Metrics
}

// WithLogger sets the log entry store events are written to.
func WithLogger(log *logrus.Entry) Option {
	return func(o *options) { o.log = log }
}

// WithMetrics counts discarded stale responses on m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// Store holds the latest snapshot of one resource.
type Store[T any] struct {
	name    string
	fetch   Fetcher[T]
	log     *logrus.Entry
	metrics *Metrics

	mu    deadlock.RWMutex
	gen   uint64
	state State
	snap  T
	err   error

	inflight conc.WaitGroup
}

// New creates a store for the named resource and starts its first fetch.
func New[T any](ctx context.Context, name string, fetch Fetcher[T], opts ...Option) *Store[T] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	s := &Store[T]{
		name:    name,
		fetch:   fetch,
		log:     util.WithResource(name),
		metrics: o.metrics,
	}
	if o.log != nil {
		s.log = o.log.WithField("resource", name)
	}
	s.Trigger(ctx)
	return s
}

// Name returns the resource name.
func (s *Store[T]) Name() string {
	return s.name
}

// Trigger discards the current snapshot and starts a new fetch. It returns
// the generation assigned to that fetch. Earlier fetches still in flight
// are not cancelled; their results are dropped when they arrive.
func (s *Store[T]) Trigger(ctx context.Context) uint64 {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	var zero T
	s.snap = zero
	s.err = nil
	s.state = StateLoading
	s.mu.Unlock()

	s.log.WithField("generation", gen).Debug("fetch started")
	s.inflight.Go(func() {
		val, err := s.fetch(ctx)
		s.apply(gen, val, err)
	})
	return gen
}

func (s *Store[T]) apply(gen uint64, val T, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.log.WithField("generation", gen)
	if gen != s.gen {
		s.metrics.stale(s.name)
		log.WithField("current", s.gen).Debug("stale response dropped")
		return
	}
	if err != nil {
		s.state = StateErrored
		s.err = err
		log.WithError(err).Warn("fetch failed")
		return
	}
	s.snap = val
	s.state = StateReady
	log.Debug("snapshot applied")
}

// Snapshot returns the current snapshot. ok is false unless the store is
// ready; reads never trigger a fetch.
func (s *Store[T]) Snapshot() (snap T, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != StateReady {
		var zero T
		return zero, false
	}
	return s.snap, true
}

// Status returns the store's state, generation and last error.
func (s *Store[T]) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Status{State: s.state, Generation: s.gen, Err: s.err}
}

// Wait blocks until every fetch started so far has been applied or dropped.
func (s *Store[T]) Wait() {
	s.inflight.Wait()
}
