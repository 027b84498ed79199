package main

import (
	"fmt"

	"github.com/benaskins/agentvault/internal/flows"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <url>",
	Short:   "Remove stored credentials for a site",
	Aliases: []string{"rm"},
	Args:    cobra.ExactArgs(1),
	RunE:    runDelete,
}

var deleteForce bool

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List origins with stored site credentials",
	Aliases: []string{"ls"},
	Args:    cobra.NoArgs,
	RunE:    runList,
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Delete without asking")
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(listCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	deps, err := buildDeps()
	if err != nil {
		return err
	}
	return flows.Delete(cmd.Context(), deps, flows.DeleteOptions{
		URL:   args[0],
		Force: deleteForce,
	})
}

func runList(cmd *cobra.Command, args []string) error {
	deps, err := buildDeps()
	if err != nil {
		return err
	}
	origins, err := deps.Store.ListSites()
	if err != nil {
		return err
	}
	if len(origins) == 0 {
		fmt.Println("No credentials stored")
		return nil
	}
	for _, o := range origins {
		fmt.Println(o)
	}
	return nil
}
