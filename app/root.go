// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mushya-portal",
	Short: "Mushya Portal is the internal management portal backend",
	Long: `Mushya Portal is the backend of the internal management portal.
It serves the JSON API for sign-in, users, roles, departments, the
password vault and portal settings, with permission-based access control
throughout.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
