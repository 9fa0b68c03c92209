package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/newtron-network/netconsole/pkg/cli"
	"github.com/newtron-network/netconsole/pkg/console"
	"github.com/newtron-network/netconsole/pkg/store"
	"github.com/newtron-network/netconsole/pkg/util"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Enter interactive mode",
	Long: `Enter interactive menu mode.

Browse addresses, links and routes, add addresses and routes through
dialogs, and delete entries by row number. Every change asks for
confirmation instead of -x.

Examples:
  netconsole interactive
  netconsole -b http://10.0.0.2:3005 interactive`,
	Aliases: []string{"i"},
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app.executeMode = true
		fmt.Printf("Connecting to %s...\n", app.backendURL)
		con := requireConsole(cmd.Context())
		runInteractiveMode(cmd.Context(), bufio.NewReader(os.Stdin), os.Stdout, con)
		return nil
	},
}

// session is one interactive run.
type session struct {
	ctx context.Context
	in  *bufio.Reader
	out io.Writer
	con *console.Console
}

func runInteractiveMode(ctx context.Context, in *bufio.Reader, out io.Writer, con *console.Console) {
	s := &session{ctx: ctx, in: in, out: out, con: con}
	stores := con.Stores()

	for {
		stores.Wait()
		fmt.Fprintln(out)
		fmt.Fprintln(out, bold("=== Netconsole Interactive Mode ==="))
		fmt.Fprintf(out, "Backend: %s\n\n", con.Client().BaseURL())
		fmt.Fprintln(out, "Main Menu:")
		fmt.Fprintf(out, "  1. Addresses %s\n", storeSummary(stores.Addresses))
		fmt.Fprintf(out, "  2. Links     %s\n", storeSummary(stores.Links))
		fmt.Fprintf(out, "  3. Routes    %s\n", storeSummary(stores.Routes))
		fmt.Fprintln(out, "  r. Refresh")
		fmt.Fprintln(out, "  q. Quit")
		fmt.Fprintln(out)

		input, ok := s.prompt("Select option")
		if !ok {
			return
		}
		switch input {
		case "1":
			s.addressMenu()
		case "2":
			s.linkMenu()
		case "3":
			s.routeMenu()
		case "r", "R":
			con.Refresh(ctx)
		case "q", "Q", "quit", "exit":
			fmt.Fprintln(out, "Goodbye!")
			return
		default:
			fmt.Fprintln(out, red("Invalid option"))
		}
	}
}

// storeSummary describes a store for the main menu.
func storeSummary[T any](s *store.Store[[]T]) string {
	st := s.Status()
	switch st.State {
	case store.StateReady:
		snap, _ := s.Snapshot()
		return fmt.Sprintf("(%d)", len(snap))
	case store.StateErrored:
		return red("(error: " + st.Err.Error() + ")")
	}
	return dim("(" + st.State.String() + ")")
}

// tabMenu shows one resource tab until the operator goes back.
func (s *session) tabMenu(title string, st func() store.Status, render func() bool, canAdd bool, add, del func()) {
	for {
		s.con.Stores().Wait()
		fmt.Fprintln(s.out)
		fmt.Fprintln(s.out, bold(title))
		if !render() {
			status := st()
			if status.Err != nil {
				fmt.Fprintln(s.out, red("Could not load: "+status.Err.Error()))
			} else {
				fmt.Fprintln(s.out, dim("Not loaded ("+status.State.String()+")"))
			}
		}
		fmt.Fprintln(s.out)
		if canAdd {
			fmt.Fprintln(s.out, "  a. Add")
		}
		fmt.Fprintln(s.out, "  d. Delete")
		fmt.Fprintln(s.out, "  r. Refresh")
		fmt.Fprintln(s.out, "  b. Back")

		input, ok := s.prompt("Select")
		if !ok {
			return
		}
		switch input {
		case "a", "A":
			if !canAdd {
				fmt.Fprintln(s.out, red("Invalid option"))
				continue
			}
			add()
		case "d", "D":
			del()
		case "r", "R":
			s.con.Refresh(s.ctx)
		case "b", "B", "":
			return
		default:
			fmt.Fprintln(s.out, red("Invalid option"))
		}
	}
}

func (s *session) addressMenu() {
	stores := s.con.Stores()
	s.tabMenu("Addresses", stores.Addresses.Status, func() bool {
		addrs, ok := stores.Addresses.Snapshot()
		if ok {
			if len(addrs) == 0 {
				fmt.Fprintln(s.out, "No addresses")
			}
			cli.AddressTable(s.out, addrs, stores.LinkName)
		}
		return ok
	}, true, s.addAddress, func() {
		n, ok := s.promptRow()
		if !ok {
			return
		}
		addr, err := s.con.AddressAt(n)
		if err != nil {
			fmt.Fprintln(s.out, red(err.Error()))
			return
		}
		s.confirmDelete("DELETE /address", addr, func() error {
			return s.con.DeleteAddress(s.ctx, addr)
		})
	})
}

func (s *session) linkMenu() {
	stores := s.con.Stores()
	s.tabMenu("Links", stores.Links.Status, func() bool {
		links, ok := stores.Links.Snapshot()
		if ok {
			if len(links) == 0 {
				fmt.Fprintln(s.out, "No links")
			}
			cli.LinkTable(s.out, links)
		}
		return ok
	}, false, nil, func() {
		n, ok := s.promptRow()
		if !ok {
			return
		}
		link, err := s.con.LinkAt(n)
		if err != nil {
			fmt.Fprintln(s.out, red(err.Error()))
			return
		}
		s.confirmDelete("DELETE /link", link, func() error {
			return s.con.DeleteLink(s.ctx, link)
		})
	})
}

func (s *session) routeMenu() {
	stores := s.con.Stores()
	s.tabMenu("Routes", stores.Routes.Status, func() bool {
		routes, ok := stores.Routes.Snapshot()
		if ok {
			if len(routes) == 0 {
				fmt.Fprintln(s.out, "No routes")
			}
			cli.RouteTable(s.out, routes, stores.LinkName)
		}
		return ok
	}, true, s.addRoute, func() {
		n, ok := s.promptRow()
		if !ok {
			return
		}
		route, err := s.con.RouteAt(n)
		if err != nil {
			fmt.Fprintln(s.out, red(err.Error()))
			return
		}
		s.confirmDelete("DELETE /route", route, func() error {
			return s.con.DeleteRoute(s.ctx, route)
		})
	})
}

func (s *session) addAddress() {
	d := s.con.AddressDialog()
	d.Show()
	fmt.Fprintln(s.out, bold("\nAdd address")+dim("  (enter keeps the value in brackets, '-' clears it)"))
	for d.Open {
		var ok bool
		f := &d.Form
		if f.Address, ok = s.promptField("Address (<addr>/<len>)", f.Address); !ok {
			return
		}
		if f.Label, ok = s.promptField("Label", f.Label); !ok {
			return
		}
		if f.Device, ok = s.promptField("Device (index or name)", f.Device); !ok {
			return
		}
		f.Device = resolveDevice(s.con, f.Device)
		if f.Scope, ok = s.promptField("Scope (global/link/host)", f.Scope); !ok {
			return
		}

		if !s.confirm("Add address?") {
			d.Cancel()
			fmt.Fprintln(s.out, "Cancelled.")
			continue
		}

		if err := d.Submit(s.ctx); err != nil {
			s.showError(err)
			if !s.confirm("Edit and retry?") {
				d.Cancel()
			}
			continue
		}
		fmt.Fprintln(s.out, green("Address added."))
	}
}

func (s *session) addRoute() {
	d := s.con.RouteDialog()
	d.Show()
	fmt.Fprintln(s.out, bold("\nAdd route")+dim("  (enter keeps the value in brackets, '-' clears it)"))
	for d.Open {
		var ok bool
		f := &d.Form
		for _, field := range []struct {
			label string
			value *string
		}{
			{"From (<addr>/<len>, empty for *)", &f.Src},
			{"To (<addr>/<len>, empty for *)", &f.Dst},
			{"Gateway", &f.Gateway},
			{"Device (index or name)", &f.Device},
			{"Table (default 254)", &f.Table},
			{"Metric", &f.Metric},
			{"Scope (global/link/host)", &f.Scope},
		} {
			if *field.value, ok = s.promptField(field.label, *field.value); !ok {
				return
			}
		}
		f.Device = resolveDevice(s.con, f.Device)

		if !s.confirm("Add route?") {
			d.Cancel()
			fmt.Fprintln(s.out, "Cancelled.")
			continue
		}

		if err := d.Submit(s.ctx); err != nil {
			s.showError(err)
			if !s.confirm("Edit and retry?") {
				d.Cancel()
			}
			continue
		}
		fmt.Fprintln(s.out, green("Route added."))
	}
}

func (s *session) confirmDelete(title string, record interface{}, del func() error) {
	byt, _ := json.MarshalIndent(record, "  ", "  ")
	fmt.Fprintf(s.out, "\n%s:\n  %s\n", title, byt)
	if !s.confirm("Execute?") {
		fmt.Fprintln(s.out, "Cancelled.")
		return
	}
	if err := del(); err != nil {
		s.showError(err)
		return
	}
	fmt.Fprintln(s.out, green("Deleted."))
}

// showError prints an operation failure. Validation failures are listed
// per field.
func (s *session) showError(err error) {
	var ve *util.ValidationError
	if !errors.As(err, &ve) {
		fmt.Fprintln(s.out, red("Failed: "+err.Error()))
		return
	}
	fmt.Fprintln(s.out, red("Invalid input:"))
	for _, msg := range ve.Errors {
		fmt.Fprintf(s.out, "  %s\n", msg)
	}
	fields := make([]string, 0, len(ve.Fields))
	for name := range ve.Fields {
		fields = append(fields, name)
	}
	sort.Strings(fields)
	for _, name := range fields {
		fmt.Fprintf(s.out, "  %s: %s\n", name, ve.Fields[name])
	}
}

// prompt reads one trimmed line. ok is false at end of input.
func (s *session) prompt(label string) (string, bool) {
	fmt.Fprint(s.out, label+": ")
	line, err := s.in.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	return strings.TrimSpace(line), true
}

// promptField asks for a form value, keeping current on empty input and
// clearing it on "-".
func (s *session) promptField(label, current string) (string, bool) {
	if current != "" {
		label += " [" + current + "]"
	}
	v, ok := s.prompt(label)
	switch {
	case !ok:
		return current, false
	case v == "":
		return current, true
	case v == "-":
		return "", true
	}
	return v, true
}

func (s *session) promptRow() (int, bool) {
	v, ok := s.prompt("Row number")
	if !ok || v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		fmt.Fprintln(s.out, red("Not a number: "+v))
		return 0, false
	}
	return n, true
}

func (s *session) confirm(question string) bool {
	v, ok := s.prompt(question + " [y/N]")
	if !ok {
		return false
	}
	v = strings.ToLower(v)
	return v == "y" || v == "yes"
}
