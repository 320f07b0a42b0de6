package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wlboard/wlboard/internal/adf"
	"github.com/wlboard/wlboard/internal/timecalc"
	"github.com/wlboard/wlboard/internal/worklog"
)

var dayCmd = &cobra.Command{
	Use:   "day [YYYY-MM-DD]",
	Short: "Show your worklogs for a day",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDay,
}

func runDay(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	day := a.clock.Now()
	if len(args) == 1 {
		day, err = time.ParseInLocation("2006-01-02", args[0], time.Local)
		if err != nil {
			return fmt.Errorf("invalid date %q: %w", args[0], err)
		}
	}

	client, acct, err := a.client(ctx)
	if err != nil {
		return err
	}
	email, err := a.userEmail(ctx, client, acct)
	if err != nil {
		return err
	}

	entries, err := worklog.NewResolver(client, a.log).FetchDayWorklogs(ctx, day, email)
	if err != nil {
		return err
	}

	printDay(day, entries)
	return nil
}

func printDay(day time.Time, entries []worklog.Entry) {
	fmt.Println(day.Format("2006-01-02"))
	if len(entries) == 0 {
		fmt.Println("No worklogs.")
		return
	}

	var total int64
	for _, e := range entries {
		total += int64(e.Worklog.TimeSpentSeconds)
		end := e.Started.Add(time.Duration(e.Worklog.TimeSpentSeconds) * time.Second)
		fmt.Printf("%s-%s  %-10s %-8s %s\n",
			e.Started.Local().Format("15:04"),
			end.Local().Format("15:04"),
			e.Issue.Key,
			timecalc.FormatDuration(int64(e.Worklog.TimeSpentSeconds)),
			e.Issue.Fields.Summary,
		)
		if comment := adf.ExtractPlainText(e.Worklog.Comment); comment != "" {
			fmt.Printf("             %s\n", comment)
		}
	}
	fmt.Printf("Total: %s\n", timecalc.FormatDuration(total))
}
