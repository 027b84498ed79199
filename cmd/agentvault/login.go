package main

import (
	"github.com/benaskins/agentvault/internal/flows"
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Fill stored credentials into the current page",
	Long: "Look up credentials for the origin of the page the browser is " +
		"showing and fill them into the login form.",
	Args: cobra.NoArgs,
	RunE: runLogin,
}

var loginSubmit bool

// cdpEndpoint is shared by every command that attaches to the browser.
var cdpEndpoint string

func addEndpointFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&cdpEndpoint, "cdp", "ws://127.0.0.1:9222", "CDP WebSocket endpoint of the running browser")
}

func init() {
	loginCmd.Flags().BoolVar(&loginSubmit, "submit", false, "Click the stored submit selector after filling")
	addEndpointFlag(loginCmd)
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	deps, err := buildDeps()
	if err != nil {
		return err
	}
	return flows.Login(cmd.Context(), deps, flows.LoginOptions{
		Endpoint: cdpEndpoint,
		Submit:   loginSubmit,
	})
}
