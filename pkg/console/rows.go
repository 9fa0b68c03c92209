package console

import (
	"fmt"

	"github.com/newtron-network/netconsole/pkg/model"
	"github.com/newtron-network/netconsole/pkg/store"
	"github.com/newtron-network/netconsole/pkg/util"
)

// row returns the 1-based row n of a store's snapshot, as numbered in the
// rendered tables.
func row[T any](s *store.Store[[]T], n int) (T, error) {
	var zero T
	snap, ok := s.Snapshot()
	if !ok {
		st := s.Status()
		if st.Err != nil {
			return zero, fmt.Errorf("%w: %s: %v", util.ErrNotReady, s.Name(), st.Err)
		}
		return zero, fmt.Errorf("%w: %s is %s", util.ErrNotReady, s.Name(), st.State)
	}
	if n < 1 || n > len(snap) {
		return zero, fmt.Errorf("%w: %s row %d (have %d)", util.ErrNotFound, s.Name(), n, len(snap))
	}
	return snap[n-1], nil
}

// AddressAt returns the address shown in row n.
func (c *Console) AddressAt(n int) (model.Address, error) {
	return row(c.stores.Addresses, n)
}

// LinkAt returns the link shown in row n.
func (c *Console) LinkAt(n int) (model.Link, error) {
	return row(c.stores.Links, n)
}

// RouteAt returns the route shown in row n.
func (c *Console) RouteAt(n int) (model.Route, error) {
	return row(c.stores.Routes, n)
}
