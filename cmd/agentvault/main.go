package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/benaskins/agentvault/internal/flows"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "agentvault",
	Short:         "Credential vault for browser agents",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		var exitErr *flows.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
