package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wlboard/wlboard/internal/state"
)

var starCmd = &cobra.Command{
	Use:   "star <issue-key>",
	Short: "Toggle an issue on the starred shortlist",
	Args:  cobra.ExactArgs(1),
	RunE:  runStar,
}

var starredCmd = &cobra.Command{
	Use:   "starred",
	Short: "List starred issues",
	Args:  cobra.NoArgs,
	RunE:  runStarred,
}

func runStar(cmd *cobra.Command, args []string) error {
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

	st, err := a.updater(client).Update(ctx, state.ToggleStar(issueKey))
	if err != nil {
		return err
	}

	if st.Starred(issueKey) {
		fmt.Printf("Starred %s.\n", issueKey)
	} else {
		fmt.Printf("Unstarred %s.\n", issueKey)
	}
	return nil
}

func runStarred(cmd *cobra.Command, args []string) error {
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

	if len(st.StarredIssueKeys) == 0 {
		fmt.Println("No starred issues.")
		return nil
	}
	for _, key := range st.StarredIssueKeys {
		fmt.Println(key)
	}
	return nil
}
