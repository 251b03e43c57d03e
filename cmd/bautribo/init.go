package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/k4doshh/bau-tribo/internal/paths"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the configuration directory and a default config.yaml",
	RunE: func(cmd *cobra.Command, args []string) error {
		// PersistentPreRunE already wrote the default file; report where.
		configDir, err := paths.ResolveConfigDir(flagConfigDir)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration at %s\n", filepath.Join(configDir, configFileExt))
		fmt.Fprintf(cmd.OutOrStdout(), "Data directory %s\n", cfg.DataDir)
		return nil
	},
}
