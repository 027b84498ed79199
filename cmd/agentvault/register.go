package main

import (
	"github.com/benaskins/agentvault/internal/flows"
	"github.com/benaskins/agentvault/internal/vault"
	"github.com/spf13/cobra"
)

var registerCmd = &cobra.Command{
	Use:   "register <url>",
	Short: "Create and store credentials for a site",
	Long: "Validate the site's origin, fill the registration form in the " +
		"connected browser, and store the credentials. The page must " +
		"already be at the registration form.",
	Args: cobra.ExactArgs(1),
	RunE: runRegister,
}

var (
	registerUsername string
	registerPassword string
	registerGenerate bool
	registerForce    bool
	registerHTTP     bool

	usernameSelector string
	passwordSelector string
	submitSelector   string
)

func init() {
	registerCmd.Flags().StringVarP(&registerUsername, "username", "u", "", "Username (default: defaultUsername config, then prompt)")
	registerCmd.Flags().StringVarP(&registerPassword, "password", "p", "", "Password (default: prompt, or --generate)")
	registerCmd.Flags().BoolVarP(&registerGenerate, "generate", "g", false, "Generate a strong password")
	registerCmd.Flags().BoolVarP(&registerForce, "force", "f", false, "Overwrite existing credentials without asking")
	registerCmd.Flags().BoolVar(&registerHTTP, "allow-http", false, "Permit a plain-http origin for this invocation")
	registerCmd.Flags().StringVar(&usernameSelector, "username-selector", `input[name="username"]`, "CSS selector for the username field")
	registerCmd.Flags().StringVar(&passwordSelector, "password-selector", `input[type="password"]`, "CSS selector for the password field")
	registerCmd.Flags().StringVar(&submitSelector, "submit-selector", `button[type="submit"]`, "CSS selector for the submit button")
	addEndpointFlag(registerCmd)
	rootCmd.AddCommand(registerCmd)
}

func runRegister(cmd *cobra.Command, args []string) error {
	deps, err := buildDeps()
	if err != nil {
		return err
	}
	return flows.Register(cmd.Context(), deps, flows.RegisterOptions{
		URL:      args[0],
		Endpoint: cdpEndpoint,
		Selectors: vault.Selectors{
			Username: usernameSelector,
			Password: passwordSelector,
			Submit:   submitSelector,
		},
		Username:  registerUsername,
		Password:  registerPassword,
		Generate:  registerGenerate,
		Force:     registerForce,
		AllowHTTP: registerHTTP,
	})
}
