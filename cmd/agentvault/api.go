package main

import (
	"github.com/benaskins/agentvault/internal/flows"
	"github.com/spf13/cobra"
)

var registerAPICmd = &cobra.Command{
	Use:   "register-api <url>",
	Short: "Store a named API token for an origin",
	Long: "Store an API token under a name. An origin can hold several " +
		"named tokens; one of them may be marked as the default used by " +
		"the curl command.",
	Args: cobra.ExactArgs(1),
	RunE: runRegisterAPI,
}

var (
	apiName        string
	apiDescription string
	apiToken       string
	apiSetDefault  bool
	apiForce       bool
	apiHTTP        bool
)

var listCredentialsCmd = &cobra.Command{
	Use:   "list-credentials [url]",
	Short: "List stored API credentials",
	Long: "Without a URL, list every origin holding API credentials. With " +
		"one, list that origin's credential names and metadata. Token " +
		"values are never printed.",
	Args: cobra.MaximumNArgs(1),
	RunE: runListCredentials,
}

var deleteCredentialCmd = &cobra.Command{
	Use:   "delete-credential <url> <name>",
	Short: "Remove one named API credential",
	Args:  cobra.ExactArgs(2),
	RunE:  runDeleteCredential,
}

var deleteCredentialForce bool

func init() {
	registerAPICmd.Flags().StringVarP(&apiName, "name", "n", "", "Credential name, unique within the origin (required)")
	registerAPICmd.Flags().StringVar(&apiDescription, "description", "", "Human-readable description")
	registerAPICmd.Flags().StringVarP(&apiToken, "token", "t", "", "Token value (default: prompt)")
	registerAPICmd.Flags().BoolVar(&apiSetDefault, "set-default", false, "Make this the origin's default credential")
	registerAPICmd.Flags().BoolVarP(&apiForce, "force", "f", false, "Overwrite an existing credential without asking")
	registerAPICmd.Flags().BoolVar(&apiHTTP, "allow-http", false, "Permit a plain-http origin for this invocation")
	registerAPICmd.MarkFlagRequired("name")

	deleteCredentialCmd.Flags().BoolVarP(&deleteCredentialForce, "force", "f", false, "Delete without asking")

	rootCmd.AddCommand(registerAPICmd)
	rootCmd.AddCommand(listCredentialsCmd)
	rootCmd.AddCommand(deleteCredentialCmd)
}

func runRegisterAPI(cmd *cobra.Command, args []string) error {
	deps, err := buildDeps()
	if err != nil {
		return err
	}
	return flows.RegisterAPI(cmd.Context(), deps, flows.RegisterAPIOptions{
		URL:         args[0],
		Name:        apiName,
		Description: apiDescription,
		Token:       apiToken,
		SetDefault:  apiSetDefault,
		Force:       apiForce,
		AllowHTTP:   apiHTTP,
	})
}

func runListCredentials(cmd *cobra.Command, args []string) error {
	deps, err := buildDeps()
	if err != nil {
		return err
	}
	var url string
	if len(args) == 1 {
		url = args[0]
	}
	return flows.ListCredentials(cmd.Context(), deps, flows.ListCredentialsOptions{URL: url})
}

func runDeleteCredential(cmd *cobra.Command, args []string) error {
	deps, err := buildDeps()
	if err != nil {
		return err
	}
	return flows.DeleteCredential(cmd.Context(), deps, flows.DeleteCredentialOptions{
		URL:   args[0],
		Name:  args[1],
		Force: deleteCredentialForce,
	})
}
