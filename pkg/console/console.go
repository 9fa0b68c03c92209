// Package console ties the backend client, the resource stores and the form
// translators together. Every mutation goes through here: it is validated,
// sent, audited, and on success followed by a refresh of all stores.
package console

import (
	"context"
	"fmt"
	"os/user"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/newtron-network/netconsole/pkg/audit"
	"github.com/newtron-network/netconsole/pkg/client"
	"github.com/newtron-network/netconsole/pkg/form"
	"github.com/newtron-network/netconsole/pkg/model"
	"github.com/newtron-network/netconsole/pkg/store"
	"github.com/newtron-network/netconsole/pkg/util"
)

// Console is one operator session against a backend.
type Console struct {
	client *client.Client
	stores *store.Set
	user   string
	dryRun bool
	log    *logrus.Entry
}

// Option configures a Console.
type Option func(*config)

type config struct {
	user      string
	dryRun    bool
	storeOpts []store.Option
}

// WithUser sets the operator name recorded in audit events.
func WithUser(name string) Option {
	return func(c *config) { c.user = name }
}

// WithDryRun makes mutations validate and audit their payload without
// sending it.
func WithDryRun(dryRun bool) Option {
	return func(c *config) { c.dryRun = dryRun }
}

// WithStoreOptions passes options to the resource stores.
func WithStoreOptions(opts ...store.Option) Option {
	return func(c *config) { c.storeOpts = append(c.storeOpts, opts...) }
}

// New creates a console for c. The resource stores start fetching
// immediately.
func New(ctx context.Context, c *client.Client, opts ...Option) *Console {
	cfg := config{user: currentUser()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Console{
		client: c,
		stores: store.NewSet(ctx, c, cfg.storeOpts...),
		user:   cfg.user,
		dryRun: cfg.dryRun,
		log:    util.WithField("component", "console"),
	}
}

func currentUser() string {
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return "unknown"
}

// Stores returns the resource stores.
func (c *Console) Stores() *store.Set {
	return c.stores
}

// Client returns the backend client.
func (c *Console) Client() *client.Client {
	return c.client
}

// DryRun reports whether mutations are only previewed.
func (c *Console) DryRun() bool {
	return c.dryRun
}

// Refresh re-fetches every resource.
func (c *Console) Refresh(ctx context.Context) {
	c.stores.RefreshAll(ctx)
}

// AddAddress translates f and creates the address. The payload is returned
// even in dry-run mode, where nothing is sent.
func (c *Console) AddAddress(ctx context.Context, f form.AddressForm) (model.AddressRequest, error) {
	event := audit.NewEvent(c.user, "address", audit.OpCreate)
	req, err := form.Address(f)
	if err != nil {
		c.record(event.WithError(err))
		return req, err
	}
	event.WithPayload(req)
	return req, c.mutate(ctx, event, func() error {
		return c.client.CreateAddress(ctx, req)
	})
}

// AddRoute translates f and creates the route.
func (c *Console) AddRoute(ctx context.Context, f form.RouteForm) (model.RouteRequest, error) {
	event := audit.NewEvent(c.user, "route", audit.OpCreate)
	req, err := form.Route(f)
	if err != nil {
		c.record(event.WithError(err))
		return req, err
	}
	event.WithPayload(req)
	return req, c.mutate(ctx, event, func() error {
		return c.client.CreateRoute(ctx, req)
	})
}

// DeleteAddress deletes addr as it was listed.
func (c *Console) DeleteAddress(ctx context.Context, addr model.Address) error {
	event := audit.NewEvent(c.user, "address", audit.OpDelete).WithPayload(addr)
	return c.mutate(ctx, event, func() error {
		return c.client.DeleteAddress(ctx, addr)
	})
}

// DeleteLink deletes link as it was listed. The backend also drops the
// link's addresses and routes.
func (c *Console) DeleteLink(ctx context.Context, link model.Link) error {
	event := audit.NewEvent(c.user, "link", audit.OpDelete).WithPayload(link)
	return c.mutate(ctx, event, func() error {
		return c.client.DeleteLink(ctx, link)
	})
}

// DeleteRoute deletes route as it was listed.
func (c *Console) DeleteRoute(ctx context.Context, route model.Route) error {
	event := audit.NewEvent(c.user, "route", audit.OpDelete).WithPayload(route)
	return c.mutate(ctx, event, func() error {
		return c.client.DeleteRoute(ctx, route)
	})
}

// mutate sends one mutation and refreshes all stores on success. Failures
// leave the stores untouched.
func (c *Console) mutate(ctx context.Context, event *audit.Event, send func() error) error {
	event.WithBackend(c.client.BaseURL()).WithExecuteMode(!c.dryRun)
	log := util.WithOperation(string(event.Operation), event.Resource).WithField("user", c.user)
	if c.dryRun {
		log.Debug("dry run, not sent")
		c.record(event.WithSuccess())
		return nil
	}

	start := time.Now()
	err := send()
	c.record(event.WithDuration(time.Since(start)).WithResult(err))
	if err != nil {
		log.WithError(err).Warn("mutation failed")
		return fmt.Errorf("%s %s: %w", event.Operation, event.Resource, err)
	}
	log.Info("mutation applied")
	c.stores.RefreshAll(ctx)
	return nil
}

func (c *Console) record(event *audit.Event) {
	if err := audit.Log(event); err != nil {
		c.log.WithError(err).Warn("writing audit event")
	}
}
