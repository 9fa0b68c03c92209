package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/newtron-network/netconsole/pkg/model"
)

// Resource paths exposed by the backend.
const (
	PathAddress = "/address"
	PathLink    = "/link"
	PathRoute   = "/route"
)

func list[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	rsp, err := c.Request(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var out []T
	if err := rsp.Decode(&out); err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	return out, nil
}

func (c *Client) send(ctx context.Context, method, path string, body interface{}) error {
	_, err := c.Request(ctx, method, path, body)
	return err
}

// ListAddresses fetches GET /address.
func (c *Client) ListAddresses(ctx context.Context) ([]model.Address, error) {
	return list[model.Address](ctx, c, PathAddress)
}

// CreateAddress posts a new address.
func (c *Client) CreateAddress(ctx context.Context, req model.AddressRequest) error {
	return c.send(ctx, http.MethodPost, PathAddress, req)
}

// DeleteAddress deletes addr, sending the record exactly as it was listed.
func (c *Client) DeleteAddress(ctx context.Context, addr model.Address) error {
	return c.send(ctx, http.MethodDelete, PathAddress, addr)
}

// ListLinks fetches GET /link.
func (c *Client) ListLinks(ctx context.Context) ([]model.Link, error) {
	return list[model.Link](ctx, c, PathLink)
}

// DeleteLink deletes link, sending the record exactly as it was listed.
func (c *Client) DeleteLink(ctx context.Context, link model.Link) error {
	return c.send(ctx, http.MethodDelete, PathLink, link)
}

// ListRoutes fetches GET /route.
func (c *Client) ListRoutes(ctx context.Context) ([]model.Route, error) {
	return list[model.Route](ctx, c, PathRoute)
}

// CreateRoute posts a new route.
func (c *Client) CreateRoute(ctx context.Context, req model.RouteRequest) error {
	return c.send(ctx, http.MethodPost, PathRoute, req)
}

// DeleteRoute deletes route, sending the record exactly as it was listed.
func (c *Client) DeleteRoute(ctx context.Context, route model.Route) error {
	return c.send(ctx, http.MethodDelete, PathRoute, route)
}
