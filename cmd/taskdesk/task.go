package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/taskdesk/taskdesk/internal/api/request"
	"github.com/taskdesk/taskdesk/internal/client"
	"github.com/taskdesk/taskdesk/internal/domain"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Work with tasks on a running server",
	Long:  `Commands for listing, showing and creating tasks through the HTTP API.`,
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newAPIClient(cmd)
		if err != nil {
			return err
		}

		status, _ := cmd.Flags().GetString("status")
		page, _ := cmd.Flags().GetInt("page")
		perPage, _ := cmd.Flags().GetInt("per-page")
		opts := client.ListOptions{Status: domain.TaskStatus(status), Page: page, PerPage: perPage}

		list, err := c.ListTasks(cmd.Context(), opts)
		if err != nil {
			return err
		}
		printTaskList(cmd.OutOrStdout(), list, jsonOutput)
		return nil
	},
}

var taskShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a task with its tags and replies",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return withExitCode(ExitInvalidInput, fmt.Errorf("invalid task ID %q", args[0]))
		}
		c, err := newAPIClient(cmd)
		if err != nil {
			return err
		}

		task, err := c.GetTask(cmd.Context(), id)
		if err != nil {
			return err
		}
		printTask(cmd.OutOrStdout(), task, jsonOutput)
		return nil
	},
}

var taskCreateCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := request.CreateTaskRequest{Title: args[0]}
		if d, _ := cmd.Flags().GetString("description"); d != "" {
			req.Description = &d
		}
		if cmd.Flags().Changed("user") {
			id, _ := cmd.Flags().GetInt64("user")
			req.UserID = &id
		}
		if errs := req.Validate(); len(errs) > 0 {
			return withExitCode(ExitInvalidInput, domain.NewValidationError(errs))
		}

		c, err := newAPIClient(cmd)
		if err != nil {
			return err
		}
		task, err := c.CreateTask(cmd.Context(), req)
		if err != nil {
			return err
		}
		tags, _ := cmd.Flags().GetStringSlice("tag")
		for _, tag := range tags {
			if _, err := c.AttachTag(cmd.Context(), task.ID, tag); err != nil {
				return err
			}
		}

		if jsonOutput {
			printTask(cmd.OutOrStdout(), task, true)
			return nil
		}
		printSuccess(cmd.OutOrStdout(), fmt.Sprintf("Created task %d", task.ID), false)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(taskCmd)
	taskCmd.AddCommand(taskListCmd, taskShowCmd, taskCreateCmd)

	taskCmd.PersistentFlags().String("server", "", "Server address (default: from config)")

	taskListCmd.Flags().String("status", "", "Only tasks with this status")
	taskListCmd.Flags().Int("page", 1, "Page number")
	taskListCmd.Flags().Int("per-page", 20, "Tasks per page")

	taskCreateCmd.Flags().String("description", "", "Task description")
	taskCreateCmd.Flags().Int64("user", 0, "Assignee user ID")
	taskCreateCmd.Flags().StringSlice("tag", nil, "Tag to attach (repeatable)")
}

// newAPIClient returns a client for --server, or for the configured address.
func newAPIClient(cmd *cobra.Command) (*client.Client, error) {
	addr, _ := cmd.Flags().GetString("server")
	if addr == "" {
		cfg, err := loadConfig()
		if err != nil {
			return nil, err
		}
		addr = cfg.Addr()
	}
	return client.NewClient(addr), nil
}
