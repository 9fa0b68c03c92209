package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/newtron-network/netconsole/pkg/cli"
	"github.com/newtron-network/netconsole/pkg/console"
	"github.com/newtron-network/netconsole/pkg/form"
)

var addressCmd = &cobra.Command{
	Use:     "address",
	Aliases: []string{"addr", "a"},
	Short:   "List, add and delete IP addresses",
	Long: `List, add and delete IP addresses.

Rows are numbered in list output; delete takes that row number.

Examples:
  netconsole address list
  netconsole address add 192.168.1.5/24 --dev 3
  netconsole address add fe80::5/64 --dev eth0 --scope link -x
  netconsole address delete 2 -x`,
}

var addressListCmd = &cobra.Command{
	Use:   "list",
	Short: "List addresses",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		con := requireConsole(cmd.Context())
		addrs, ok := con.Stores().Addresses.Snapshot()
		if !ok {
			return storeError(con.Stores().Addresses.Status(), "address")
		}
		if app.jsonOutput {
			return printJSON(addrs)
		}
		if len(addrs) == 0 {
			fmt.Println("No addresses")
			return nil
		}
		cli.AddressTable(os.Stdout, addrs, con.Stores().LinkName)
		return nil
	},
}

var addressForm form.AddressForm

var addressAddCmd = &cobra.Command{
	Use:   "add <address>/<prefix-length>",
	Short: "Add an address to a link",
	Long: `Add a permanent address to a link.

The family is taken from the address: a dotted quad is IPv4, anything
else IPv6. --dev accepts a link index or an interface name.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		con := requireConsole(cmd.Context())
		addressForm.Address = args[0]
		addressForm.Device = resolveDevice(con, addressForm.Device)

		req, err := con.AddAddress(cmd.Context(), addressForm)
		if err != nil {
			return mutationError(err)
		}
		if err := printPayload("POST /address", req); err != nil {
			return err
		}
		return confirmMutation(nil)
	},
}

var addressDeleteCmd = &cobra.Command{
	Use:   "delete <row>",
	Short: "Delete an address by its list row number",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("row must be a number, got %q", args[0])
		}
		con := requireConsole(cmd.Context())
		addr, err := con.AddressAt(n)
		if err != nil {
			return err
		}
		if err := printPayload("DELETE /address", addr); err != nil {
			return err
		}
		return confirmMutation(con.DeleteAddress(cmd.Context(), addr))
	},
}

func init() {
	addressAddCmd.Flags().StringVar(&addressForm.Device, "dev", "", "Link index or interface name (required)")
	addressAddCmd.Flags().StringVar(&addressForm.Label, "label", "", "Address label")
	addressAddCmd.Flags().StringVar(&addressForm.Scope, "scope", "", "Scope: global, link or host (default global)")

	addressCmd.AddCommand(addressListCmd, addressAddCmd, addressDeleteCmd)
}

// resolveDevice maps an interface name to its link index. Numbers and
// unknown names pass through unchanged for the form to validate.
func resolveDevice(con *console.Console, dev string) string {
	if dev == "" {
		return dev
	}
	if _, err := strconv.ParseUint(dev, 10, 32); err == nil {
		return dev
	}
	links, ok := con.Stores().Links.Snapshot()
	if !ok {
		return dev
	}
	for _, l := range links {
		if l.IfName != nil && *l.IfName == dev {
			return strconv.FormatUint(uint64(l.Index), 10)
		}
	}
	return dev
}
