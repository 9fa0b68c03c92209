package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/newtron-network/netconsole/pkg/cli"
	"github.com/newtron-network/netconsole/pkg/settings"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage persistent settings",
	Long: `Manage persistent settings stored in ~/.netconsole/settings.yaml.

Settings:
  - backend_url:       Backend used when -b is not specified
  - audit_log:         Audit log file (default ~/.netconsole/audit.log)
  - audit_max_size:    Rotate the audit log after this many bytes
  - audit_max_backups: Rotated audit logs to keep

Examples:
  netconsole settings show
  netconsole settings set backend_url http://10.0.0.2:3005
  netconsole settings get backend_url
  netconsole settings clear`,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := settings.Load()
		if err != nil {
			return fmt.Errorf("loading settings: %w", err)
		}

		fmt.Printf("Settings file: %s\n\n", settings.DefaultSettingsPath())
		for _, key := range settings.Keys {
			value, _ := s.Get(key)
			if value == "" {
				value = dim("(not set)")
			}
			fmt.Println(cli.DotPad(key, 24) + " " + value)
		}
		fmt.Println()
		fmt.Printf("Effective backend: %s\n", s.GetBackendURL())
		fmt.Printf("Effective audit log: %s\n", s.GetAuditLog())
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <setting> <value>",
	Short: "Set a setting value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := settings.Load()
		if err != nil {
			s = &settings.Settings{}
		}
		if err := s.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := s.Save(); err != nil {
			return fmt.Errorf("saving settings: %w", err)
		}
		fmt.Printf("%s set to: %s\n", args[0], args[1])
		return nil
	},
}

var settingsGetCmd = &cobra.Command{
	Use:   "get <setting>",
	Short: "Get a setting value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := settings.Load()
		if err != nil {
			return fmt.Errorf("loading settings: %w", err)
		}
		value, err := s.Get(args[0])
		if err != nil {
			return err
		}
		if value == "" {
			fmt.Println("(not set)")
		} else {
			fmt.Println(value)
		}
		return nil
	},
}

var settingsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear all settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		s := &settings.Settings{}
		if err := s.Save(); err != nil {
			return fmt.Errorf("saving settings: %w", err)
		}
		fmt.Println("All settings cleared.")
		return nil
	},
}

var settingsPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show settings file path",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(settings.DefaultSettingsPath())
	},
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsClearCmd)
	settingsCmd.AddCommand(settingsPathCmd)
}
