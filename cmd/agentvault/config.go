package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/benaskins/agentvault/internal/audit"
	"github.com/benaskins/agentvault/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage vault configuration",
	Long:  "Read and write the enumerated settings in ~/.agent-vault/config.json.",
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := openConfig()
		if err != nil {
			return err
		}
		value, ok, err := cfg.Get(args[0])
		if err != nil {
			return err
		}
		if !ok {
			fmt.Printf("%s is not set\n", args[0])
			return nil
		}
		fmt.Println(value)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := openConfig()
		if err != nil {
			return err
		}
		if err := cfg.Set(args[0], args[1]); err != nil {
			return err
		}
		logConfigChange(fmt.Sprintf("set %s", args[0]))
		fmt.Printf("%s set\n", args[0])
		return nil
	},
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Remove a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := openConfig()
		if err != nil {
			return err
		}
		removed, err := cfg.Unset(args[0])
		if err != nil {
			return err
		}
		if !removed {
			fmt.Printf("%s was not set\n", args[0])
			return nil
		}
		logConfigChange(fmt.Sprintf("unset %s", args[0]))
		fmt.Printf("%s unset\n", args[0])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:     "list",
	Short:   "Show all configuration values",
	Aliases: []string{"ls"},
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := openConfig()
		if err != nil {
			return err
		}
		values, err := cfg.Load()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "KEY\tVALUE")
		keys := make([]string, 0, len(values))
		for k := range values {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "%s\t%s\n", k, values[k])
		}
		w.Flush()
		return nil
	},
}

func openConfig() (*config.File, error) {
	home, err := vaultHome()
	if err != nil {
		return nil, err
	}
	return config.NewFile(configPath(home)), nil
}

// logConfigChange records the change without the value, which may be
// sensitive in spirit even though config holds no secrets.
func logConfigChange(details string) {
	home, err := vaultHome()
	if err != nil {
		return
	}
	audit.NewLogger(auditPath(home)).Log(audit.Entry{
		Event:   audit.EventConfigChanged,
		Details: details,
		Success: true,
	})
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configUnsetCmd)
	configCmd.AddCommand(configListCmd)
	rootCmd.AddCommand(configCmd)
}
