package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is the release version reported by the CLI.
const version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "bautribo v%s\n", version)
	},
}
