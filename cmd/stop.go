package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wlboard/wlboard/internal/adf"
	"github.com/wlboard/wlboard/internal/jira"
	"github.com/wlboard/wlboard/internal/model"
	"github.com/wlboard/wlboard/internal/state"
)

var (
	stopComment string
	stopDiscard bool
)

var stopCmd = &cobra.Command{
	Use:   "stop [tracking-id|issue-key]",
	Short: "Stop a running timer and submit it as a worklog",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStop,
}

func init() {
	stopCmd.Flags().StringVar(&stopComment, "comment", "", "Worklog comment (overrides the timer description)")
	stopCmd.Flags().BoolVar(&stopDiscard, "discard", false, "Drop the timer without submitting a worklog")
}

func runStop(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

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

	elapsed := int64(a.clock.Now().Sub(ticket.StartedAt).Seconds())
	if elapsed < 60 && !stopDiscard {
		// The tracker rejects zero-minute worklogs.
		elapsed = 60
	}

	if !stopDiscard {
		comment := ticket.WorkDescription
		if stopComment != "" {
			comment = stopComment
		}
		input := jira.WorklogInput{
			TimeSpentSeconds: int(elapsed),
			Started:          jira.FormatStarted(ticket.StartedAt),
			Comment:          adf.FromPlainText(comment),
		}
		// Submit first: if this fails the timer stays tracked and can
		// be retried.
		if _, err := client.AddWorklog(ctx, ticket.IssueKey, input); err != nil {
			return fmt.Errorf("submitting worklog for %s: %w", ticket.IssueKey, err)
		}
	}

	if _, err := updater.Update(ctx, state.StopTracking(id)); err != nil {
		if !stopDiscard {
			return fmt.Errorf("worklog submitted but the timer could not be removed: %w", err)
		}
		return err
	}

	if stopDiscard {
		fmt.Printf("Discarded timer %s on %s.\n", shortID(id), ticket.IssueKey)
		return nil
	}
	fmt.Printf("Logged %s on %s.\n", formatElapsed(elapsed), ticket.IssueKey)
	return nil
}

// findTimer resolves which timer a stop refers to: a tracking ID (or
// unique prefix), an issue key, or the single running timer when ref is
// empty.
func findTimer(st model.UserState, ref string) (string, model.TrackedTicket, error) {
	if len(st.TrackedTickets) == 0 {
		return "", model.TrackedTicket{}, fmt.Errorf("no timer is running")
	}

	if ref == "" {
		if len(st.TrackedTickets) > 1 {
			return "", model.TrackedTicket{}, fmt.Errorf("%d timers are running; pass a tracking ID or issue key (see 'wlboard status')", len(st.TrackedTickets))
		}
		for id, t := range st.TrackedTickets {
			return id, t, nil
		}
	}

	var matches []string
	for id, t := range st.TrackedTickets {
		if id == ref || strings.HasPrefix(id, ref) || strings.EqualFold(t.IssueKey, ref) {
			matches = append(matches, id)
		}
	}
	sort.Strings(matches)

	switch len(matches) {
	case 0:
		return "", model.TrackedTicket{}, fmt.Errorf("no running timer matches %q", ref)
	case 1:
		return matches[0], st.TrackedTickets[matches[0]], nil
	default:
		return "", model.TrackedTicket{}, fmt.Errorf("%q matches %d timers; use a longer tracking ID", ref, len(matches))
	}
}

func formatElapsed(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
