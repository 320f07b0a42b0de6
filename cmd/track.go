package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wlboard/wlboard/internal/state"
)

var (
	trackEditDescription string
	trackEditStarted     string
)

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Manage running timers",
}

var trackEditCmd = &cobra.Command{
	Use:   "edit [tracking-id|issue-key]",
	Short: "Change a running timer's start time or description",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTrackEdit,
}

func init() {
	trackEditCmd.Flags().StringVar(&trackEditDescription, "description", "", "New work description")
	trackEditCmd.Flags().StringVar(&trackEditStarted, "started", "", "New start time (RFC3339)")
	trackCmd.AddCommand(trackEditCmd)
}

func runTrackEdit(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	var startedAt *time.Time
	if trackEditStarted != "" {
		ts, err := time.Parse(time.RFC3339, trackEditStarted)
		if err != nil {
			return fmt.Errorf("invalid --started %q: %w", trackEditStarted, err)
		}
		startedAt = &ts
	}
	var description *string
	if cmd.Flags().Changed("description") {
		description = &trackEditDescription
	}
	if startedAt == nil && description == nil {
		return fmt.Errorf("nothing to change; pass --started and/or --description")
	}

	client, _, err := a.client(ctx)
	if err != nil {
		return err
	}
	updater := a.updater(client)

	st, err := updater.Load(ctx)
	if err != nil {
		return err
	}
	ref := ""
	if len(args) == 1 {
		ref = args[0]
	}
	id, ticket, err := findTimer(st, ref)
	if err != nil {
		return err
	}

	if _, err := updater.Update(ctx, state.UpdateTracking(id, startedAt, description)); err != nil {
		return err
	}
	fmt.Printf("Updated timer %s on %s.\n", shortID(id), ticket.IssueKey)
	return nil
}
