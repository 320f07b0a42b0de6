package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wlboard/wlboard/internal/adf"
	"github.com/wlboard/wlboard/internal/jira"
)

var (
	logDuration string
	logStarted  string
	logComment  string
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Add, edit, or delete worklog entries directly",
}

var logAddCmd = &cobra.Command{
	Use:   "add <issue-key>",
	Short: "Add a worklog entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runLogAdd,
}

var logEditCmd = &cobra.Command{
	Use:   "edit <issue-key> <worklog-id>",
	Short: "Replace a worklog entry's duration, start, or comment",
	Args:  cobra.ExactArgs(2),
	RunE:  runLogEdit,
}

var logDeleteCmd = &cobra.Command{
	Use:   "delete <issue-key> <worklog-id>",
	Short: "Delete a worklog entry",
	Args:  cobra.ExactArgs(2),
	RunE:  runLogDelete,
}

func init() {
	for _, c := range []*cobra.Command{logAddCmd, logEditCmd} {
		c.Flags().StringVar(&logDuration, "duration", "", `Time spent, Go duration syntax (e.g. "1h30m")`)
		c.Flags().StringVar(&logStarted, "started", "", "Start time, RFC 3339 (default: duration ago from now)")
		c.Flags().StringVar(&logComment, "comment", "", "Worklog comment")
		c.MarkFlagRequired("duration")
	}
	logCmd.AddCommand(logAddCmd)
	logCmd.AddCommand(logEditCmd)
	logCmd.AddCommand(logDeleteCmd)
}

// buildWorklogInput turns the shared flags into a request body.
func buildWorklogInput(now time.Time) (jira.WorklogInput, error) {
	dur, err := time.ParseDuration(logDuration)
	if err != nil || dur <= 0 {
		return jira.WorklogInput{}, fmt.Errorf("invalid --duration %q", logDuration)
	}

	started := now.Add(-dur)
	if logStarted != "" {
		started, err = time.Parse(time.RFC3339, logStarted)
		if err != nil {
			return jira.WorklogInput{}, fmt.Errorf("invalid --started %q: %w", logStarted, err)
		}
	}

	return jira.WorklogInput{
		TimeSpentSeconds: int(dur.Seconds()),
		Started:          jira.FormatStarted(started),
		Comment:          adf.FromPlainText(logComment),
	}, nil
}

func runLogAdd(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	client, _, err := a.client(ctx)
	if err != nil {
		return err
	}

	input, err := buildWorklogInput(a.clock.Now())
	if err != nil {
		return err
	}

	created, err := client.AddWorklog(ctx, args[0], input)
	if err != nil {
		return err
	}
	fmt.Printf("Added worklog %s on %s.\n", created.ID, args[0])
	return nil
}

func runLogEdit(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	client, _, err := a.client(ctx)
	if err != nil {
		return err
	}

	input, err := buildWorklogInput(a.clock.Now())
	if err != nil {
		return err
	}

	if _, err := client.UpdateWorklog(ctx, args[0], args[1], input); err != nil {
		return err
	}
	fmt.Printf("Updated worklog %s on %s.\n", args[1], args[0])
	return nil
}

func runLogDelete(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	client, _, err := a.client(ctx)
	if err != nil {
		return err
	}

	if err := client.DeleteWorklog(ctx, args[0], args[1]); err != nil {
		return err
	}
	fmt.Printf("Deleted worklog %s from %s.\n", args[1], args[0])
	return nil
}
