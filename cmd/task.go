package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xvierd/pomo-cli/internal/adapters/tui"
	"github.com/xvierd/pomo-cli/internal/domain"
)

var listPending bool

// taskCmd groups the task list commands.
var taskCmd = &cobra.Command{
	Use:     "task",
	Aliases: []string{"tasks"},
	Short:   "Manage the task list",
	Long: `Manage the ordered task list shown next to the timer. Tasks are
addressed by their 1-based position or by a fuzzy match on their text.`,
}

var taskAddCmd = &cobra.Command{
	Use:   "add [text]",
	Short: "Add a task",
	Long:  `Append a task to the end of the list. Without text an input prompt is shown.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		text := strings.Join(args, " ")
		if len(args) == 0 {
			prefs, _ := app.prefs.Get(ctx)
			result := tui.RunTextPrompt("New task:", "What are you working on?", &app.config.Theme, prefs.Theme)
			if result.Aborted {
				return nil
			}
			text = result.Value
		}

		task, err := app.tasks.Add(ctx, text)
		if err != nil {
			return fmt.Errorf("failed to add task: %w", err)
		}
		tasks, err := app.tasks.List(ctx)
		if err != nil {
			return err
		}
		pos := tasks.IndexOf(task.ID)

		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), taskJSON(pos, task))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Added task %d: %s\n", pos+1, task.Text)
		return nil
	},
}

var taskListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tasks, err := app.tasks.List(context.Background())
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			taskList := []map[string]interface{}{}
			for i, task := range tasks {
				if listPending && task.Done {
					continue
				}
				taskList = append(taskList, taskJSON(i, task))
			}
			return writeJSON(out, map[string]interface{}{
				"tasks":   taskList,
				"count":   len(taskList),
				"pending": tasks.Pending(),
			})
		}

		if len(tasks) == 0 {
			fmt.Fprintln(out, "No tasks yet. Add one with \"pomo task add\".")
			return nil
		}

		fmt.Fprintf(out, "%s Tasks (%d/%d open):\n\n", app.config.Theme.IconTask, tasks.Pending(), len(tasks))
		for i, task := range tasks {
			if listPending && task.Done {
				continue
			}
			box := "[ ]"
			if task.Done {
				box = "[x]"
			}
			fmt.Fprintf(out, "%3d. %s %s\n", i+1, box, task.Text)
		}
		return nil
	},
}

var taskDoneCmd = &cobra.Command{
	Use:   "done <position|text>",
	Short: "Toggle a task between open and done",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		pos, err := resolveTask(ctx, args)
		if err != nil {
			return err
		}
		task, err := app.tasks.Toggle(ctx, pos)
		if err != nil {
			return fmt.Errorf("failed to toggle task: %w", err)
		}

		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), taskJSON(pos, task))
		}
		if task.Done {
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Done: %s\n", task.Text)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "↺ Reopened: %s\n", task.Text)
		}
		return nil
	},
}

var taskRemoveCmd = &cobra.Command{
	Use:     "rm <position|text>",
	Aliases: []string{"delete"},
	Short:   "Delete a task",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		pos, err := resolveTask(ctx, args)
		if err != nil {
			return err
		}
		task, err := app.tasks.Delete(ctx, pos)
		if err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "🗑 Deleted: %s\n", task.Text)
		return nil
	},
}

var taskMoveCmd = &cobra.Command{
	Use:   "mv <from> <to>",
	Short: "Move a task to another position",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		from, err := resolveTask(ctx, args[:1])
		if err != nil {
			return err
		}
		to, err := parsePosition(args[1])
		if err != nil {
			return err
		}
		tasks, err := app.tasks.Move(ctx, from, to)
		if err != nil {
			return fmt.Errorf("failed to move task: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Moved %q to position %d.\n", tasks[to].Text, to+1)
		return nil
	},
}

var taskClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all completed tasks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := app.tasks.ClearDone(context.Background())
		if err != nil {
			return fmt.Errorf("failed to clear tasks: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d completed %s.\n", n, pluralize(n, "task", "tasks"))
		return nil
	},
}

func init() {
	taskListCmd.Flags().BoolVarP(&listPending, "pending", "p", false, "Only show open tasks")

	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskDoneCmd)
	taskCmd.AddCommand(taskRemoveCmd)
	taskCmd.AddCommand(taskMoveCmd)
	taskCmd.AddCommand(taskClearCmd)
}

// resolveTask returns the zero-based position addressed by args: a 1-based
// number, or text matched fuzzily against the list.
func resolveTask(ctx context.Context, args []string) (int, error) {
	if len(args) == 1 {
		if pos, err := parsePosition(args[0]); err == nil {
			return pos, nil
		}
	}
	query := strings.Join(args, " ")
	pos, _, err := app.tasks.Find(ctx, query)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return -1, fmt.Errorf("no task matches %q", query)
		}
		return -1, err
	}
	return pos, nil
}

// parsePosition converts a 1-based position to a zero-based index.
func parsePosition(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return -1, fmt.Errorf("%w: %q is not a position", domain.ErrInvalidPosition, s)
	}
	return n - 1, nil
}

func taskJSON(pos int, task *domain.Task) map[string]interface{} {
	return map[string]interface{}{
		"position": pos + 1,
		"id":       task.ID,
		"text":     task.Text,
		"done":     task.Done,
	}
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
