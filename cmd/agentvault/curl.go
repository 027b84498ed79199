package main

import (
	"github.com/benaskins/agentvault/internal/flows"
	"github.com/spf13/cobra"
)

var curlCmd = &cobra.Command{
	Use:   "curl [flags] -- <curl arguments>",
	Short: "Run curl with a stored API token injected",
	Long: "Run curl with every {token} placeholder in the arguments " +
		"replaced by the API token stored for the request URL's origin. " +
		"The token never touches a shell or the vault's own output.",
	Args: cobra.MinimumNArgs(1),
	RunE: runCurl,
}

var curlCredential string

func init() {
	// Everything after the first positional argument belongs to curl.
	curlCmd.Flags().SetInterspersed(false)
	curlCmd.Flags().StringVarP(&curlCredential, "credential", "c", "", "Credential name (default: the origin's default credential)")
	rootCmd.AddCommand(curlCmd)
}

func runCurl(cmd *cobra.Command, args []string) error {
	deps, err := buildDeps()
	if err != nil {
		return err
	}
	return flows.Curl(cmd.Context(), deps, flows.CurlOptions{
		Args:       args,
		Credential: curlCredential,
	})
}
