package main

import (
	"github.com/benaskins/agentvault/internal/flows"
	"github.com/spf13/cobra"
)

var rotateCmd = &cobra.Command{
	Use:   "rotate <url>",
	Short: "Replace the stored password for a site",
	Long: "Generate (or accept) a new password and store it in place of " +
		"the old one. The site itself is not updated; change the password " +
		"there first, then rotate the stored copy.",
	Args: cobra.ExactArgs(1),
	RunE: runRotate,
}

var (
	rotatePassword string
	rotateGenerate bool
	rotateForce    bool
)

func init() {
	rotateCmd.Flags().StringVarP(&rotatePassword, "password", "p", "", "New password (default: prompt, or --generate)")
	rotateCmd.Flags().BoolVarP(&rotateGenerate, "generate", "g", false, "Generate a strong password")
	rotateCmd.Flags().BoolVarP(&rotateForce, "force", "f", false, "Rotate without asking")
	rootCmd.AddCommand(rotateCmd)
}

func runRotate(cmd *cobra.Command, args []string) error {
	deps, err := buildDeps()
	if err != nil {
		return err
	}
	return flows.Rotate(cmd.Context(), deps, flows.RotateOptions{
		URL:      args[0],
		Password: rotatePassword,
		Generate: rotateGenerate,
		Force:    rotateForce,
	})
}
