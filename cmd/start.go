package cmd

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/wlboard/wlboard/internal/jira"
	"github.com/wlboard/wlboard/internal/model"
	"github.com/wlboard/wlboard/internal/state"
)

var startDescription string

var startCmd = &cobra.Command{
	Use:   "start <issue-key>",
	Short: "Start a timer on an issue",
	Args:  cobra.ExactArgs(1),
	RunE:  runStart,
}

func init() {
	startCmd.Flags().StringVar(&startDescription, "description", "", "What you are working on")
}

func runStart(cmd *cobra.Command, args []string) error {
	issueKey := args[0]

	a, err := setup()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	client, _, err := a.client(ctx)
	if err != nil {
		return err
	}

	issue, err := client.GetIssue(ctx, issueKey)
	if errors.Is(err, jira.ErrNotFound) {
		return fmt.Errorf("issue %s does not exist", issueKey)
	}
	if err != nil {
		return err
	}

	id := uuid.NewString()
	ticket := model.TrackedTicket{
		IssueKey:        issue.Key,
		StartedAt:       a.clock.Now(),
		IssueSummary:    issue.Fields.Summary,
		IssueSelfLink:   issue.Self,
		WorkDescription: startDescription,
	}

	st, err := a.updater(client).Update(ctx, state.StartTracking(id, ticket))
	if err != nil {
		return err
	}

	fmt.Printf("Started timer %s on %s - %s\n", shortID(id), issue.Key, issue.Fields.Summary)
	if len(st.TrackedTickets) > 1 {
		fmt.Printf("%d timers are now running.\n", len(st.TrackedTickets))
	}
	return nil
}

// shortID abbreviates a tracking UUID for display; full IDs are always
// accepted as input.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
