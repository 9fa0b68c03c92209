package console

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/newtron-network/netconsole/internal/testutil"
	"github.com/newtron-network/netconsole/pkg/audit"
	"github.com/newtron-network/netconsole/pkg/client"
	"github.com/newtron-network/netconsole/pkg/form"
	"github.com/newtron-network/netconsole/pkg/store"
	"github.com/newtron-network/netconsole/pkg/util"
)

func newTestConsole(t *testing.T, opts ...Option) (*Console, *testutil.Backend) {
	t.Helper()
	backend := testutil.NewBackend(t)
	c := New(context.Background(), client.New(backend.URL()), append([]Option{WithUser("tester")}, opts...)...)
	c.Stores().Wait()
	if !c.Stores().Ready() {
		t.Fatalf("stores not ready: %v", c.Stores().Err())
	}
	return c, backend
}

func newTestAudit(t *testing.T) *audit.FileLogger {
	t.Helper()
	logger, err := audit.NewFileLogger(filepath.Join(t.TempDir(), "audit.log"), audit.RotationConfig{})
	if err != nil {
		t.Fatal(err)
	}
	audit.SetDefaultLogger(logger)
	t.Cleanup(func() {
		audit.SetDefaultLogger(nil)
		logger.Close()
	})
	return logger
}

func lastRequest(t *testing.T, b *testutil.Backend, method string) testutil.Request {
	t.Helper()
	reqs := b.Requests()
	for i := len(reqs) - 1; i >= 0; i-- {
		if reqs[i].Method == method {
			return reqs[i]
		}
	}
	t.Fatalf("no %s request received", method)
	return testutil.Request{}
}

func assertGenerations(t *testing.T, set *store.Set, want uint64) {
	t.Helper()
	for name, st := range map[string]store.Status{
		"address": set.Addresses.Status(),
		"link":    set.Links.Status(),
		"route":   set.Routes.Status(),
	} {
		if st.Generation != want {
			t.Errorf("%s generation = %d, want %d", name, st.Generation, want)
		}
	}
}

func decode(t *testing.T, s string) interface{} {
	t.Helper()
	var v interface{}
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatal(err)
	}
	return v
}

func TestAddAddress(t *testing.T) {
	c, backend := newTestConsole(t)
	ctx := context.Background()

	_, err := c.AddAddress(ctx, form.AddressForm{Address: "192.168.1.5/24", Device: "3", Scope: "Global"})
	if err != nil {
		t.Fatalf("AddAddress() error = %v", err)
	}

	post := lastRequest(t, backend, http.MethodPost)
	if post.Path != client.PathAddress || post.ContentType != "application/json" {
		t.Errorf("POST %s with content type %q", post.Path, post.ContentType)
	}
	want := decode(t, `{"family":2,"plen":24,"scope":0,"index":3,"flags":128,"address":"192.168.1.5","label":null}`)
	if !reflect.DeepEqual(post.JSON(), want) {
		t.Errorf("POST body = %s", post.Body)
	}

	c.Stores().Wait()
	assertGenerations(t, c.Stores(), 2)
	for _, path := range []string{client.PathAddress, client.PathLink, client.PathRoute} {
		if got := backend.Count(http.MethodGet, path); got != 2 {
			t.Errorf("GET %s count = %d, want 2", path, got)
		}
	}
	addrs, ok := c.Stores().Addresses.Snapshot()
	if !ok || len(addrs) != 3 || *addrs[2].Address != "192.168.1.5" {
		t.Errorf("addresses after add = %+v", addrs)
	}
}

func TestAddRoute(t *testing.T) {
	c, backend := newTestConsole(t)
	ctx := context.Background()

	_, err := c.AddRoute(ctx, form.RouteForm{Dst: "0.0.0.0/0", Gateway: "192.168.1.1", Device: "3", Scope: "Link"})
	if err != nil {
		t.Fatalf("AddRoute() error = %v", err)
	}
	want := decode(t, `{"family":2,"table":254,"scope":253,"proto":2,"dst":["0.0.0.0",0],"src":null,"gateway":"192.168.1.1","dev":3,"metric":null}`)
	if got := lastRequest(t, backend, http.MethodPost).JSON(); !reflect.DeepEqual(got, want) {
		t.Errorf("POST body = %v", got)
	}
	c.Stores().Wait()
	assertGenerations(t, c.Stores(), 2)
}

func TestDeleteAddressSendsListedRecord(t *testing.T) {
	c, backend := newTestConsole(t)
	ctx := context.Background()

	addr, err := c.AddressAt(2)
	if err != nil {
		t.Fatalf("AddressAt(2) error = %v", err)
	}
	if err := c.DeleteAddress(ctx, addr); err != nil {
		t.Fatalf("DeleteAddress() error = %v", err)
	}

	del := lastRequest(t, backend, http.MethodDelete)
	if !reflect.DeepEqual(del.JSON(), decode(t, string(addr.Raw()))) {
		t.Errorf("DELETE body = %s, want %s", del.Body, addr.Raw())
	}

	c.Stores().Wait()
	assertGenerations(t, c.Stores(), 2)
	if addrs, _ := c.Stores().Addresses.Snapshot(); len(addrs) != 1 {
		t.Errorf("addresses after delete = %d, want 1", len(addrs))
	}
}

func TestDeleteLinkAndRoute(t *testing.T) {
	c, backend := newTestConsole(t)
	ctx := context.Background()

	route, err := c.RouteAt(1)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.DeleteRoute(ctx, route); err != nil {
		t.Fatalf("DeleteRoute() error = %v", err)
	}
	c.Stores().Wait()

	link, err := c.LinkAt(2)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.DeleteLink(ctx, link); err != nil {
		t.Fatalf("DeleteLink() error = %v", err)
	}
	c.Stores().Wait()

	if backend.Count(http.MethodDelete, client.PathRoute) != 1 || backend.Count(http.MethodDelete, client.PathLink) != 1 {
		t.Error("expected one DELETE per resource")
	}
	assertGenerations(t, c.Stores(), 3)
	if links, _ := c.Stores().Links.Snapshot(); len(links) != 1 {
		t.Errorf("links after delete = %d, want 1", len(links))
	}
}

func TestBackendRejectionKeepsDialogOpen(t *testing.T) {
	c, backend := newTestConsole(t)
	logger := newTestAudit(t)
	backend.Fail(http.MethodPost, client.PathAddress, http.StatusInternalServerError, "File exists (os error 17)")

	d := c.AddressDialog()
	d.Show()
	d.Form = form.AddressForm{Address: "192.168.1.10/24", Device: "3"}
	err := d.Submit(context.Background())

	if !client.IsStatus(err, http.StatusInternalServerError) {
		t.Fatalf("Submit() error = %v, want 500 status error", err)
	}
	if !d.Open || d.Err == nil || d.Form.Address != "192.168.1.10/24" {
		t.Errorf("dialog should stay open with its form and error: %+v", d)
	}

	c.Stores().Wait()
	assertGenerations(t, c.Stores(), 1)

	events, err := logger.Query(audit.Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].Success || events[0].StatusCode != http.StatusInternalServerError {
		t.Errorf("audit events = %+v", events)
	}
	if events[0].User != "tester" || events[0].Backend != c.Client().BaseURL() {
		t.Errorf("audit event = %+v", events[0])
	}
}

func TestValidationFailureSendsNothing(t *testing.T) {
	c, backend := newTestConsole(t)

	d := c.RouteDialog()
	d.Show()
	d.Form = form.RouteForm{Src: "10.0.0.0/8", Dst: "fe80::/64"}
	err := d.Submit(context.Background())

	var ve *util.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Submit() error = %v, want validation error", err)
	}
	if _, ok := ve.Field(form.FieldDst); !ok {
		t.Errorf("fields = %v", ve.Fields)
	}
	if !d.Open {
		t.Error("dialog should stay open")
	}
	if n := backend.Count(http.MethodPost, client.PathRoute); n != 0 {
		t.Errorf("POST /route count = %d, want 0", n)
	}
	assertGenerations(t, c.Stores(), 1)
}

func TestDialogSuccessCloses(t *testing.T) {
	c, _ := newTestConsole(t)
	logger := newTestAudit(t)

	d := c.AddressDialog()
	d.Show()
	d.Form = form.AddressForm{Address: "fe80::5/64", Label: "eth0", Device: "3", Scope: "link"}
	if err := d.Submit(context.Background()); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if d.Open || d.Err != nil || d.Form != (form.AddressForm{}) {
		t.Errorf("dialog should be closed and reset: %+v", d)
	}

	events, _ := logger.Query(audit.Filter{SuccessOnly: true, Resource: "address"})
	if len(events) != 1 || !events[0].ExecuteMode {
		t.Errorf("audit events = %+v", events)
	}
}

func TestDryRun(t *testing.T) {
	c, backend := newTestConsole(t, WithDryRun(true))
	logger := newTestAudit(t)

	req, err := c.AddAddress(context.Background(), form.AddressForm{Address: "10.9.0.1/16", Device: "3"})
	if err != nil {
		t.Fatalf("AddAddress() error = %v", err)
	}
	if req.Address != "10.9.0.1" || req.Plen != 16 {
		t.Errorf("payload = %+v", req)
	}
	if n := backend.Count(http.MethodPost, client.PathAddress); n != 0 {
		t.Errorf("dry run sent %d POSTs", n)
	}
	assertGenerations(t, c.Stores(), 1)

	events, _ := logger.Query(audit.Filter{})
	if len(events) != 1 || events[0].ExecuteMode {
		t.Errorf("audit events = %+v", events)
	}
}

// syncBuffer is an io.Writer safe for the store goroutines that also log.
type syncBuffer struct {
	mu  sync.Mutex
	buf strings.Builder
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestMutationLogFields(t *testing.T) {
	c, backend := newTestConsole(t)

	out, level, formatter := util.Logger.Out, util.Logger.Level, util.Logger.Formatter
	t.Cleanup(func() {
		util.Logger.SetOutput(out)
		util.Logger.SetLevel(level)
		util.Logger.SetFormatter(formatter)
	})
	var buf syncBuffer
	util.Logger.SetOutput(&buf)
	util.SetLogLevel("info")
	util.SetJSONFormat()

	route, err := c.RouteAt(1)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.DeleteRoute(context.Background(), route); err != nil {
		t.Fatal(err)
	}
	backend.Fail(http.MethodPost, client.PathAddress, http.StatusConflict, "exists")
	_, _ = c.AddAddress(context.Background(), form.AddressForm{Address: "10.0.0.1/8", Device: "3"})
	c.Stores().Wait()

	want := map[string]map[string]interface{}{
		"mutation applied": {"operation": "delete", "resource": "route", "user": "tester"},
		"mutation failed":  {"operation": "create", "resource": "address", "user": "tester"},
	}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var rec map[string]interface{}
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			t.Fatalf("log line is not JSON: %q", line)
		}
		msg, _ := rec["msg"].(string)
		fields, ok := want[msg]
		if !ok {
			continue
		}
		for k, v := range fields {
			if rec[k] != v {
				t.Errorf("%q: %s = %v, want %v", msg, k, rec[k], v)
			}
		}
		delete(want, msg)
	}
	for msg := range want {
		t.Errorf("no %q log line", msg)
	}
}

func TestRowLookup(t *testing.T) {
	c, _ := newTestConsole(t)
	for _, n := range []int{0, 3, -1} {
		if _, err := c.AddressAt(n); !errors.Is(err, util.ErrNotFound) {
			t.Errorf("AddressAt(%d) error = %v, want ErrNotFound", n, err)
		}
	}

	backend := testutil.NewBackend(t)
	backend.Fail(http.MethodGet, client.PathRoute, http.StatusBadGateway, "down")
	c2 := New(context.Background(), client.New(backend.URL()))
	c2.Stores().Wait()
	if _, err := c2.RouteAt(1); !errors.Is(err, util.ErrNotReady) {
		t.Errorf("RouteAt(1) error = %v, want ErrNotReady", err)
	}
	if _, err := c2.LinkAt(1); err != nil {
		t.Errorf("LinkAt(1) error = %v", err)
	}
}
