package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/newtron-network/netconsole/pkg/cli"
	"github.com/newtron-network/netconsole/pkg/form"
)

var routeCmd = &cobra.Command{
	Use:     "route",
	Aliases: []string{"r"},
	Short:   "List, add and delete routes",
	Long: `List, add and delete routing table entries.

Examples:
  netconsole route list
  netconsole route add --dst 0.0.0.0/0 --via 192.168.1.1 --dev 3
  netconsole route add --dst 2001:db8::/32 --dev eth0 --table 100 --metric 1024 -x
  netconsole route delete 1 -x`,
}

var routeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List routes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		con := requireConsole(cmd.Context())
		routes, ok := con.Stores().Routes.Snapshot()
		if !ok {
			return storeError(con.Stores().Routes.Status(), "route")
		}
		if app.jsonOutput {
			return printJSON(routes)
		}
		if len(routes) == 0 {
			fmt.Println("No routes")
			return nil
		}
		cli.RouteTable(os.Stdout, routes, con.Stores().LinkName)
		return nil
	},
}

var routeForm form.RouteForm

var routeAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a route",
	Long: `Add a route. Every field is optional; empty endpoints are wildcards.

The family follows --src and --dst (which must agree), else --via,
else IPv4. --table defaults to the main table (254).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		con := requireConsole(cmd.Context())
		routeForm.Device = resolveDevice(con, routeForm.Device)

		req, err := con.AddRoute(cmd.Context(), routeForm)
		if err != nil {
			return mutationError(err)
		}
		if err := printPayload("POST /route", req); err != nil {
			return err
		}
		return confirmMutation(nil)
	},
}

var routeDeleteCmd = &cobra.Command{
	Use:   "delete <row>",
	Short: "Delete a route by its list row number",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("row must be a number, got %q", args[0])
		}
		con := requireConsole(cmd.Context())
		route, err := con.RouteAt(n)
		if err != nil {
			return err
		}
		if err := printPayload("DELETE /route", route); err != nil {
			return err
		}
		return confirmMutation(con.DeleteRoute(cmd.Context(), route))
	},
}

func init() {
	flags := routeAddCmd.Flags()
	flags.StringVar(&routeForm.Src, "src", "", "Source prefix <address>/<length>")
	flags.StringVar(&routeForm.Dst, "dst", "", "Destination prefix <address>/<length>")
	flags.StringVar(&routeForm.Gateway, "via", "", "Gateway address")
	flags.StringVar(&routeForm.Device, "dev", "", "Link index or interface name")
	flags.StringVar(&routeForm.Table, "table", "", "Routing table (default 254)")
	flags.StringVar(&routeForm.Metric, "metric", "", "Route metric")
	flags.StringVar(&routeForm.Scope, "scope", "", "Scope: global, link or host (default global)")

	routeCmd.AddCommand(routeListCmd, routeAddCmd, routeDeleteCmd)
}
