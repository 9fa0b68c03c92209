package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/sourcegraph/conc/pool"

	"github.com/newtron-network/netconsole/pkg/client"
	"github.com/newtron-network/netconsole/pkg/model"
)

// Set groups the address, link and route stores of one backend.
type Set struct {
	Addresses *Store[[]model.Address]
	Links     *Store[[]model.Link]
	Routes    *Store[[]model.Route]
}

// NewSet creates the three resource stores backed by c. Each starts its
// first fetch immediately.
func NewSet(ctx context.Context, c *client.Client, opts ...Option) *Set {
	return &Set{
		Addresses: New(ctx, "address", c.ListAddresses, opts...),
		Links:     New(ctx, "link", c.ListLinks, opts...),
		Routes:    New(ctx, "route", c.ListRoutes, opts...),
	}
}

// RefreshAll triggers every store exactly once. A mutation to one resource
// may change the others (deleting a link removes its addresses and routes).
func (s *Set) RefreshAll(ctx context.Context) {
	s.Addresses.Trigger(ctx)
	s.Links.Trigger(ctx)
	s.Routes.Trigger(ctx)
}

// Wait blocks until all in-flight fetches of all stores have settled.
func (s *Set) Wait() {
	p := pool.New()
	p.Go(s.Addresses.Wait)
	p.Go(s.Links.Wait)
	p.Go(s.Routes.Wait)
	p.Wait()
}

// Ready reports whether every store holds a snapshot.
func (s *Set) Ready() bool {
	return s.Addresses.Status().State == StateReady &&
		s.Links.Status().State == StateReady &&
		s.Routes.Status().State == StateReady
}

// Err returns the fetch errors of errored stores, or nil.
func (s *Set) Err() error {
	var errs []error
	for _, st := range []struct {
		name string
		Status
	}{
		{s.Addresses.Name(), s.Addresses.Status()},
		{s.Links.Name(), s.Links.Status()},
		{s.Routes.Name(), s.Routes.Status()},
	} {
		if st.State == StateErrored {
			errs = append(errs, fmt.Errorf("%s: %w", st.name, st.Err))
		}
	}
	return errors.Join(errs...)
}

// LinkName resolves a link index to its interface name using the current
// link snapshot. ok is false when the snapshot is not ready, the index is
// unknown or the link has no name.
func (s *Set) LinkName(index uint32) (name string, ok bool) {
	links, ready := s.Links.Snapshot()
	if !ready {
		return "", false
	}
	l, found := model.FindLink(links, index)
	if !found || l.IfName == nil {
		return "", false
	}
	return *l.IfName, true
}
