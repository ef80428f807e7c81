package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taskdesk/taskdesk/internal/domain"
	"github.com/taskdesk/taskdesk/internal/store/sqlite"
)

var sqlCmd = &cobra.Command{
	Use:   "sql",
	Short: "Print the board query for a filter",
	Long: `Print the SQL and bound parameters the board listing runs for the given
filter, without running it.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, err := boardFilterFromFlags(cmd)
		if err != nil {
			return err
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.db.Close()

		query, params, err := a.repos.Tasks.BoardSQL(cmd.Context(), filter)
		if err != nil {
			return withExitCode(ExitInvalidInput, err)
		}
		printStatement(cmd.OutOrStdout(), query, params, jsonOutput)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sqlCmd)

	sqlCmd.Flags().Int64("user", 0, "Only tasks assigned to this user ID")
	sqlCmd.Flags().String("status", "", "Only tasks with this status")
	sqlCmd.Flags().String("tag", "", "Only tasks carrying this tag")
	sqlCmd.Flags().String("sort", "", "Column to sort by")
	sqlCmd.Flags().String("order", "", "Sort direction (asc or desc)")
}

func boardFilterFromFlags(cmd *cobra.Command) (sqlite.TaskFilter, error) {
	var f sqlite.TaskFilter
	if cmd.Flags().Changed("user") {
		id, _ := cmd.Flags().GetInt64("user")
		f.UserID = &id
	}
	status, _ := cmd.Flags().GetString("status")
	if status != "" {
		f.Status = domain.TaskStatus(status)
		if !f.Status.IsValid() {
			return f, withExitCode(ExitInvalidInput, fmt.Errorf("invalid status %q", status))
		}
	}
	f.Tag, _ = cmd.Flags().GetString("tag")
	f.Sort, _ = cmd.Flags().GetString("sort")
	f.Order, _ = cmd.Flags().GetString("order")
	return f, nil
}
