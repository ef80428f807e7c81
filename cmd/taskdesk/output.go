package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/taskdesk/taskdesk/internal/client"
	"github.com/taskdesk/taskdesk/internal/domain"
)

// printSuccess prints a success message
func printSuccess(w io.Writer, message string, jsonOutput bool) {
	if jsonOutput {
		json.NewEncoder(w).Encode(map[string]string{"message": message})
		return
	}
	fmt.Fprintln(w, message)
}

// printError prints an error message
func printError(w io.Writer, err error, jsonOutput bool) {
	if jsonOutput {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": err.Error()},
		})
		return
	}
	fmt.Fprintf(w, "Error: %s\n", err)
}

// printStatement prints a SQL statement and its bound parameters
func printStatement(w io.Writer, query string, params []any, jsonOutput bool) {
	if params == nil {
		params = []any{}
	}
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.Encode(map[string]interface{}{"sql": query, "params": params})
		return
	}

	if query == "" {
		fmt.Fprintln(w, "No task can match this filter")
		return
	}
	fmt.Fprintln(w, query)
	if len(params) == 0 {
		return
	}

	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "#\tVALUE\n")
	fmt.Fprintf(tw, "-\t-----\n")
	for i, p := range params {
		fmt.Fprintf(tw, "%d\t%v\n", i+1, p)
	}
	tw.Flush()
}

// printTask prints a single task to the writer
func printTask(w io.Writer, task *domain.Task, jsonOutput bool) {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.Encode(task)
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%d\n", task.ID)
	fmt.Fprintf(tw, "Title:\t%s\n", task.Title)
	fmt.Fprintf(tw, "Status:\t%s\n", task.Status)
	if task.Description != nil && *task.Description != "" {
		fmt.Fprintf(tw, "Description:\t%s\n", *task.Description)
	}
	if task.User != nil {
		fmt.Fprintf(tw, "Assignee:\t%s <%s>\n", task.User.Name, task.User.Email)
	}
	if len(task.Tags) > 0 {
		names := make([]string, len(task.Tags))
		for i, tag := range task.Tags {
			names[i] = tag.Name
		}
		fmt.Fprintf(tw, "Tags:\t%s\n", strings.Join(names, ", "))
	}
	fmt.Fprintf(tw, "Created:\t%s\n", task.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(tw, "Updated:\t%s\n", task.UpdatedAt.Format("2006-01-02 15:04:05"))
	tw.Flush()

	if len(task.Replies) == 0 {
		return
	}
	fmt.Fprintln(w, "\nReplies:")
	for _, r := range task.Replies {
		author := "anonymous"
		if r.Author != nil {
			author = r.Author.Name
		}
		fmt.Fprintf(w, "  [%s] %s: %s\n", r.CreatedAt.Format("2006-01-02 15:04"), author, r.Text)
	}
}

// printTaskList prints a page of tasks with pagination info
func printTaskList(w io.Writer, list *client.TaskList, jsonOutput bool) {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.Encode(list)
		return
	}

	if len(list.Data) == 0 {
		fmt.Fprintln(w, "No tasks found")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\tTITLE\tSTATUS\tASSIGNEE\n")
	fmt.Fprintf(tw, "--\t-----\t------\t--------\n")
	for _, task := range list.Data {
		assignee := "-"
		if task.User != nil {
			assignee = task.User.Name
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", task.ID, truncate(task.Title, 40), task.Status, assignee)
	}
	tw.Flush()

	p := list.Pagination
	if p.TotalPages > 1 {
		fmt.Fprintf(w, "\nPage %d of %d (%d total tasks)\n", p.Page, p.TotalPages, p.Total)
	}
}

// truncate shortens s to max runes, marking the cut with "..."
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
