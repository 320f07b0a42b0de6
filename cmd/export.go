package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wlboard/wlboard/internal/adf"
	"github.com/wlboard/wlboard/internal/timecalc"
	"github.com/wlboard/wlboard/internal/worklog"
)

var (
	exportFrom   string
	exportTo     string
	exportFormat string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export your worklogs to stdout",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFrom, "from", "", "Start date (YYYY-MM-DD); defaults to Monday of this week")
	exportCmd.Flags().StringVar(&exportTo, "to", "", "End date (YYYY-MM-DD); defaults to Sunday of this week")
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv, json")
}

func runExport(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	from, to := timecalc.WeekRange(a.clock.Now())
	if exportFrom != "" {
		from, err = time.ParseInLocation("2006-01-02", exportFrom, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --from value %q: %w", exportFrom, err)
		}
	}
	if exportTo != "" {
		to, err = time.ParseInLocation("2006-01-02", exportTo, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --to value %q: %w", exportTo, err)
		}
	}
	if to.Before(from) {
		return fmt.Errorf("--to is before --from")
	}

	client, acct, err := a.client(ctx)
	if err != nil {
		return err
	}
	email, err := a.userEmail(ctx, client, acct)
	if err != nil {
		return err
	}

	resolver := worklog.NewResolver(client, a.log)
	firstDay := timecalc.StartOfDay(from)
	var entries []worklog.Entry
	for d := firstDay; !d.After(to); d = d.AddDate(0, 0, 1) {
		dayEntries, err := resolver.FetchDayWorklogs(ctx, d, email)
		if err != nil {
			return err
		}
		// A worklog crossing midnight qualifies for both adjacent days;
		// keep only its first appearance.
		for _, e := range dayEntries {
			if d.Equal(firstDay) || timecalc.SameDay(e.Started.In(d.Location()), d) {
				entries = append(entries, e)
			}
		}
	}

	switch exportFormat {
	case "json":
		return printJSON(entries)
	default: // csv
		printCSV(entries)
	}
	return nil
}

type exportRecord struct {
	Date            string `json:"date"`
	IssueKey        string `json:"issueKey"`
	Summary         string `json:"summary"`
	Started         string `json:"started"`
	DurationSeconds int    `json:"durationSeconds"`
	Comment         string `json:"comment,omitempty"`
}

func toRecord(e worklog.Entry) exportRecord {
	return exportRecord{
		Date:            e.Started.Local().Format("2006-01-02"),
		IssueKey:        e.Issue.Key,
		Summary:         e.Issue.Fields.Summary,
		Started:         e.Started.Format(time.RFC3339),
		DurationSeconds: e.Worklog.TimeSpentSeconds,
		Comment:         adf.ExtractPlainText(e.Worklog.Comment),
	}
}

func printJSON(entries []worklog.Entry) error {
	records := make([]exportRecord, 0, len(entries))
	for _, e := range entries {
		records = append(records, toRecord(e))
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func printCSV(entries []worklog.Entry) {
	fmt.Println("date,issue,summary,started,duration_minutes,comment")
	for _, e := range entries {
		r := toRecord(e)
		fmt.Printf("%s,%s,%s,%s,%d,%s\n",
			csvEscape(r.Date),
			csvEscape(r.IssueKey),
			csvEscape(r.Summary),
			csvEscape(r.Started),
			r.DurationSeconds/60,
			csvEscape(r.Comment),
		)
	}
}

// csvEscape wraps a field in quotes if it contains a comma, quote, or newline.
func csvEscape(s string) string {
	needsQuote := false
	for _, c := range s {
		if c == ',' || c == '"' || c == '\n' || c == '\r' {
			needsQuote = true
			break
		}
	}
	if !needsQuote {
		return s
	}
	// Escape internal double quotes by doubling them.
	escaped := ""
	for _, c := range s {
		if c == '"' {
			escaped += "\""
		}
		escaped += string(c)
	}
	return `"` + escaped + `"`
}
