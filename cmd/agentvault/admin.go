package main

import (
	"fmt"

	"github.com/benaskins/agentvault/internal/audit"
	"github.com/benaskins/agentvault/internal/ratelimit"
	"github.com/spf13/cobra"
)

var auditPathCmd = &cobra.Command{
	Use:   "audit-path",
	Short: "Print the audit log path",
	Long: "The audit log is append-only NDJSON at ~/.agent-vault/audit.log; " +
		"inspect it with standard tools.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := vaultHome()
		if err != nil {
			return err
		}
		fmt.Println(audit.NewLogger(auditPath(home)).Path())
		return nil
	},
}

var ratelimitResetCmd = &cobra.Command{
	Use:   "ratelimit-reset",
	Short: "Clear the persisted rate limit state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := vaultHome()
		if err != nil {
			return err
		}
		auditLog := audit.NewLogger(auditPath(home))
		if err := ratelimit.New(ratelimitPath(home), auditLog).Reset(); err != nil {
			return err
		}
		auditLog.Log(audit.Entry{
			Event:   audit.EventConfigChanged,
			Details: "rate limit state reset",
			Success: true,
		})
		fmt.Println("Rate limit state cleared")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(auditPathCmd)
	rootCmd.AddCommand(ratelimitResetCmd)
}
