// Netconsole - host network configuration console
//
// A CLI for inspecting and changing a host's IP addresses, links and routes
// through the network backend service:
//   - One-shot list/add/delete commands per resource
//   - Dry-run by default (preview payloads, require -x to execute)
//   - Interactive menu mode with add dialogs and refresh
//   - Audit logging of all changes
//
// Examples:
//
//	netconsole address list
//	netconsole address add 192.168.1.5/24 --dev 3 -x
//	netconsole route add --dst 0.0.0.0/0 --via 192.168.1.1 --dev 3 -x
//	netconsole link delete 4 -x
//	netconsole -b http://10.0.0.2:3005 interactive
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/newtron-network/netconsole/pkg/audit"
	"github.com/newtron-network/netconsole/pkg/cli"
	"github.com/newtron-network/netconsole/pkg/client"
	"github.com/newtron-network/netconsole/pkg/console"
	"github.com/newtron-network/netconsole/pkg/settings"
	"github.com/newtron-network/netconsole/pkg/store"
	"github.com/newtron-network/netconsole/pkg/util"
	"github.com/newtron-network/netconsole/pkg/version"
)

// App holds the flags and state shared by all commands.
type App struct {
	backendURL  string // -b, --backend
	verbose     bool
	logFormat   string
	executeMode bool
	jsonOutput  bool
	showMetrics bool

	settings *settings.Settings
	registry *prometheus.Registry
	console  *console.Console
}

var app = &App{}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, red("Error: ")+err.Error())
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:               "netconsole",
	Short:             "Host Network Configuration Console",
	SilenceUsage:      true,
	SilenceErrors:     true,
	CompletionOptions: cobra.CompletionOptions{HiddenDefaultCmd: true},
	Long: `Netconsole manages the IP addresses, links and routes of a host
through its network backend service.

Write commands preview the request by default; use -x to execute.

  netconsole [-b <backend>] <resource> <verb> [args] [-x]`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if app.verbose {
			util.SetLogLevel("debug")
		} else {
			util.SetLogLevel("warn")
		}
		if err := util.SetLogFormat(app.logFormat); err != nil {
			return err
		}
		if isSettingsOrHelp(cmd) {
			return nil
		}

		var err error
		app.settings, err = settings.Load()
		if err != nil {
			util.Warnf("Could not load settings: %v", err)
			app.settings = &settings.Settings{}
		}
		if app.backendURL == "" {
			app.backendURL = app.settings.GetBackendURL()
		}
		util.Debugf("Using backend %s", app.backendURL)

		rotation := audit.RotationConfig{MaxSize: 10 * 1024 * 1024, MaxBackups: 10}
		if app.settings.AuditMaxSize > 0 {
			rotation.MaxSize = app.settings.AuditMaxSize
		}
		if app.settings.AuditMaxBackups > 0 {
			rotation.MaxBackups = app.settings.AuditMaxBackups
		}
		auditLogger, err := audit.NewFileLogger(app.settings.GetAuditLog(), rotation)
		if err != nil {
			util.Warnf("Could not initialize audit logging: %v", err)
		} else {
			audit.SetDefaultLogger(auditLogger)
		}

		app.registry = prometheus.NewRegistry()
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if app.console != nil {
			app.console.Stores().Wait()
		}
		if l := audit.DefaultLogger(); l != nil {
			l.Close()
		}
		if app.showMetrics && app.registry != nil {
			return writeMetrics()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&app.backendURL, "backend", "b", "", "Backend base URL (default from settings, else "+client.DefaultBaseURL+")")
	rootCmd.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringVar(&app.logFormat, "log-format", "text", "Log format: text or json")
	rootCmd.PersistentFlags().BoolVar(&app.showMetrics, "metrics", false, "Print request metrics to stderr on exit")

	for _, cmd := range []*cobra.Command{addressCmd, linkCmd, routeCmd} {
		addWriteFlags(cmd)
		addOutputFlags(cmd)
	}
	addOutputFlags(auditCmd)

	rootCmd.AddGroup(
		&cobra.Group{ID: "resource", Title: "Resources:"},
		&cobra.Group{ID: "meta", Title: "Configuration & Meta:"},
	)

	for _, cmd := range []*cobra.Command{addressCmd, linkCmd, routeCmd, interactiveCmd} {
		cmd.GroupID = "resource"
		rootCmd.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{settingsCmd, auditCmd, versionCmd} {
		cmd.GroupID = "meta"
		rootCmd.AddCommand(cmd)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		if version.Version == "dev" {
			fmt.Println("netconsole dev build (set version info with -ldflags, see pkg/version)")
		} else {
			fmt.Println(version.Info())
		}
	},
}

// requireConsole connects to the backend and waits for the first snapshot
// of every resource. Fetch failures are reported but do not abort: the
// caller decides whether the resource it needs is available.
func requireConsole(ctx context.Context) *console.Console {
	if app.console != nil {
		return app.console
	}
	c := client.New(app.backendURL,
		client.WithMetrics(client.NewMetrics(app.registry)),
		client.WithLogger(util.WithField("backend", app.backendURL)),
	)
	app.console = console.New(ctx, c,
		console.WithDryRun(!app.executeMode),
		console.WithStoreOptions(store.WithMetrics(store.NewMetrics(app.registry))),
	)
	app.console.Stores().Wait()
	if err := app.console.Stores().Err(); err != nil {
		util.Warnf("Backend %s: %v", app.backendURL, err)
	}
	return app.console
}

// ============================================================================
// Output Helpers
// ============================================================================

func printDryRunNotice() {
	if !app.executeMode {
		fmt.Println("\n" + yellow("DRY-RUN: No changes applied. Use -x to execute."))
	}
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printPayload shows the request body a write command sends.
func printPayload(title string, v interface{}) error {
	fmt.Println(title + ":")
	byt, err := json.MarshalIndent(v, "  ", "  ")
	if err != nil {
		return err
	}
	fmt.Println("  " + string(byt))
	return nil
}

// confirmMutation prints the outcome of a write command.
func confirmMutation(err error) error {
	if err != nil {
		return mutationError(err)
	}
	if app.executeMode {
		fmt.Println("\n" + green("Changes applied successfully."))
		return nil
	}
	printDryRunNotice()
	return nil
}

// storeError explains why a resource snapshot is unavailable.
func storeError(st store.Status, resource string) error {
	if st.Err != nil {
		return fmt.Errorf("fetching %s: %w", resource, st.Err)
	}
	return fmt.Errorf("%w: %s is %s", util.ErrNotReady, resource, st.State)
}

// mutationError returns validation failures as they are and wraps the rest.
func mutationError(err error) error {
	if errors.Is(err, util.ErrValidationFailed) {
		return err
	}
	return fmt.Errorf("execution failed: %w", err)
}

func writeMetrics() error {
	families, err := app.registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(os.Stderr, mf); err != nil {
			return err
		}
	}
	return nil
}

// isSettingsOrHelp checks whether cmd (or any ancestor) is a settings, help, or version command.
func isSettingsOrHelp(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "version", "settings":
			return true
		}
	}
	return false
}

// addWriteFlags registers -x/--execute.
// For noun-group parent commands, this is a PersistentFlag so subcommands inherit.
func addWriteFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if cmd.HasSubCommands() {
		flags = cmd.PersistentFlags()
	}
	flags.BoolVarP(&app.executeMode, "execute", "x", false, "Execute changes (default is dry-run)")
}

// addOutputFlags registers --json.
// For noun-group parent commands, this is a PersistentFlag so subcommands inherit.
func addOutputFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if cmd.HasSubCommands() {
		flags = cmd.PersistentFlags()
	}
	flags.BoolVar(&app.jsonOutput, "json", false, "JSON output")
}

// Color helpers delegate to pkg/cli
func green(s string) string  { return cli.Green(s) }
func yellow(s string) string { return cli.Yellow(s) }
func red(s string) string    { return cli.Red(s) }
func bold(s string) string   { return cli.Bold(s) }
func dim(s string) string    { return cli.Dim(s) }
