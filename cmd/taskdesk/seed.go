package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taskdesk/taskdesk/internal/domain"
	"github.com/taskdesk/taskdesk/internal/service"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load demo users, tasks, tags and replies",
	Long:  `Populate an empty database with demo data. A database that already has users is left alone.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		password, _ := cmd.Flags().GetString("password")

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.db.Close()

		n, err := runSeed(cmd.Context(), a, password)
		if err != nil {
			return err
		}
		if n == 0 {
			printSuccess(cmd.OutOrStdout(), "Database already has users, nothing seeded", jsonOutput)
			return nil
		}
		printSuccess(cmd.OutOrStdout(), fmt.Sprintf("Seeded %d tasks", n), jsonOutput)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().String("password", "taskdesk", "Password for every demo account")
}

type seedTask struct {
	title    string
	status   domain.TaskStatus
	assignee int
	tags     []string
	replies  []string
}

var seedUsers = []service.RegisterInput{
	{Name: "Alice Admin", Email: "alice@taskdesk.local", Role: domain.RoleAdmin},
	{Name: "Mo Moderator", Email: "mo@taskdesk.local", Role: domain.RoleModerator},
	{Name: "Uma User", Email: "uma@taskdesk.local", Role: domain.RoleUser},
}

var seedTasks = []seedTask{
	{title: "Set up CI pipeline", status: domain.StatusDone, assignee: 0, tags: []string{"ops"}},
	{title: "Fix login redirect", status: domain.StatusInProgress, assignee: 2, tags: []string{"bug", "frontend"},
		replies: []string{"Reproduced on staging.", "Patch is up for review."}},
	{title: "Write API docs", status: domain.StatusTodo, assignee: 1, tags: []string{"docs"}},
	{title: "Rotate database credentials", status: domain.StatusReady, assignee: 0, tags: []string{"ops", "security"}},
	{title: "Review tag filter", status: domain.StatusForReview, assignee: 1, tags: []string{"backend"},
		replies: []string{"Looks good, one nit on ordering."}},
	{title: "Triage inbox", status: domain.StatusTodo, assignee: -1},
}

// runSeed creates the demo data and returns the number of tasks created.
// Nothing is created when any user exists.
func runSeed(ctx context.Context, a *app, password string) (int, error) {
	existing, err := a.repos.Users.Count(ctx, nil)
	if err != nil {
		return 0, withExitCode(ExitDatabaseError, err)
	}
	if existing > 0 {
		return 0, nil
	}

	users := service.NewUserService(a.repos.Users, 0)
	tasks := service.NewTaskService(a.repos.Tasks, a.repos.Tags)
	replies := service.NewReplyService(a.repos.Replies, a.repos.Tasks)

	ids := make([]int64, len(seedUsers))
	for i, in := range seedUsers {
		in.Password = password
		u, err := users.Register(ctx, in)
		if err != nil {
			return 0, fmt.Errorf("seed user %s: %w", in.Email, err)
		}
		ids[i] = u.ID
	}

	for _, st := range seedTasks {
		in := service.CreateTaskInput{Title: st.title, Status: &st.status}
		if st.assignee >= 0 {
			in.UserID = &ids[st.assignee]
		}
		task, err := tasks.Create(ctx, in)
		if err != nil {
			return 0, fmt.Errorf("seed task %q: %w", st.title, err)
		}
		for _, tag := range st.tags {
			if _, err := tasks.AttachTag(ctx, task.ID, tag); err != nil {
				return 0, fmt.Errorf("seed tag %q: %w", tag, err)
			}
		}
		for i, text := range st.replies {
			author := ids[i%len(ids)]
			if _, err := replies.Create(ctx, task.ID, service.CreateReplyInput{Text: text, UserID: &author}); err != nil {
				return 0, fmt.Errorf("seed reply: %w", err)
			}
		}
	}

	a.log.InfoContext(ctx, "database seeded", "users", len(ids), "tasks", len(seedTasks))
	return len(seedTasks), nil
}
