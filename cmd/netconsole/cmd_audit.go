package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/newtron-network/netconsole/pkg/audit"
	"github.com/newtron-network/netconsole/pkg/cli"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "View audit logs",
	Long: `View the audit log of changes sent to the backend.

Every create and delete is logged with:
  - Timestamp
  - User who made the change
  - Resource and operation
  - Request payload
  - Success/failure status (and the backend's status code on rejection)

Examples:
  netconsole audit list --resource route
  netconsole audit list --last 24h
  netconsole audit list --failures --json`,
}

var (
	auditResource string
	auditUser     string
	auditLast     string
	auditLimit    int
	auditFailures bool
)

var auditListCmd = &cobra.Command{
	Use:   "list",
	Short: "List audit events",
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := audit.Filter{
			Resource:    auditResource,
			User:        auditUser,
			Limit:       auditLimit,
			FailureOnly: auditFailures,
		}

		if auditLast != "" {
			duration, err := time.ParseDuration(auditLast)
			if err != nil {
				return fmt.Errorf("invalid duration: %s", auditLast)
			}
			filter.StartTime = time.Now().Add(-duration)
		}

		events, err := audit.Query(filter)
		if err != nil {
			return fmt.Errorf("querying audit log: %w", err)
		}

		if app.jsonOutput {
			return printJSON(events)
		}
		if len(events) == 0 {
			fmt.Println("No audit events found")
			return nil
		}

		t := cli.NewTable(os.Stdout, "TIMESTAMP", "USER", "RESOURCE", "OPERATION", "STATUS", "ERROR")
		for _, event := range events {
			status := "ok"
			switch {
			case !event.ExecuteMode:
				status = "dry-run"
			case !event.Success:
				status = "failed"
			}
			t.Row(
				event.Timestamp.Format("2006-01-02 15:04:05"),
				event.User,
				event.Resource,
				string(event.Operation),
				status,
				event.Error,
			)
		}
		t.Flush()
		return nil
	},
}

func init() {
	auditListCmd.Flags().StringVar(&auditResource, "resource", "", "Filter by resource (address, link, route)")
	auditListCmd.Flags().StringVar(&auditUser, "user", "", "Filter by user")
	auditListCmd.Flags().StringVar(&auditLast, "last", "", "Show events from last duration (e.g., 24h)")
	auditListCmd.Flags().IntVar(&auditLimit, "limit", 100, "Maximum events to show (newest)")
	auditListCmd.Flags().BoolVar(&auditFailures, "failures", false, "Show only failed operations")

	auditCmd.AddCommand(auditListCmd)
}
