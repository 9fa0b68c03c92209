package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/newtron-network/netconsole/pkg/cli"
)

var linkCmd = &cobra.Command{
	Use:     "link",
	Aliases: []string{"l"},
	Short:   "List and delete links",
	Long: `List and delete network interfaces.

Deleting a link also removes its addresses and routes on the backend.

Examples:
  netconsole link list
  netconsole link delete 4 -x`,
}

var linkListCmd = &cobra.Command{
	Use:   "list",
	Short: "List links",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		con := requireConsole(cmd.Context())
		links, ok := con.Stores().Links.Snapshot()
		if !ok {
			return storeError(con.Stores().Links.Status(), "link")
		}
		if app.jsonOutput {
			return printJSON(links)
		}
		if len(links) == 0 {
			fmt.Println("No links")
			return nil
		}
		cli.LinkTable(os.Stdout, links)
		return nil
	},
}

var linkDeleteCmd = &cobra.Command{
	Use:   "delete <row>",
	Short: "Delete a link by its list row number",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("row must be a number, got %q", args[0])
		}
		con := requireConsole(cmd.Context())
		link, err := con.LinkAt(n)
		if err != nil {
			return err
		}
		if err := printPayload("DELETE /link", link); err != nil {
			return err
		}
		return confirmMutation(con.DeleteLink(cmd.Context(), link))
	},
}

func init() {
	linkCmd.AddCommand(linkListCmd, linkDeleteCmd)
}
