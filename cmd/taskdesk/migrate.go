package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the database schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.db.Close()

		if err := a.db.Migrate(cmd.Context()); err != nil {
			return withExitCode(ExitDatabaseError, err)
		}
		printSuccess(cmd.OutOrStdout(), fmt.Sprintf("Schema applied to %s", a.db.Path()), jsonOutput)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
