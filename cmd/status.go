package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/wlboard/wlboard/internal/timecalc"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show running timers and starred issues",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	client, _, err := a.client(ctx)
	if err != nil {
		return err
	}

	st, err := a.updater(client).Load(ctx)
	if err != nil {
		return err
	}

	if len(st.TrackedTickets) == 0 {
		fmt.Println("No timer is running.")
	} else {
		fmt.Println("Running:")
		ids := make([]string, 0, len(st.TrackedTickets))
		for id := range st.TrackedTickets {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool {
			return st.TrackedTickets[ids[i]].StartedAt.Before(st.TrackedTickets[ids[j]].StartedAt)
		})
		now := a.clock.Now()
		for _, id := range ids {
			t := st.TrackedTickets[id]
			elapsed := int64(now.Sub(t.StartedAt).Seconds())
			fmt.Printf("  %s  %s  %s  %s\n", shortID(id), t.IssueKey, timecalc.FormatDurationHHMMSS(elapsed), t.IssueSummary)
			if t.WorkDescription != "" {
				fmt.Printf("            %s\n", t.WorkDescription)
			}
		}
	}

	if len(st.StarredIssueKeys) > 0 {
		fmt.Printf("Starred: %v\n", st.StarredIssueKeys)
	}
	return nil
}
