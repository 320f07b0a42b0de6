// Package worklog resolves which of the user's worklog entries touch a
// given calendar day, handling the tracker's coarse date-predicate
// search and per-issue pagination.
package worklog

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/wlboard/wlboard/internal/jira"
	"github.com/wlboard/wlboard/internal/timecalc"
)

const (
	searchPageSize  = 5000
	worklogPageSize = 5000

	// The JQL worklogDate predicate has whole-day granularity in the
	// server's timezone while the final filter is precise-timestamp, so
	// the fetch window is widened on both sides. The margin is an
	// empirical bound tied to typical UTC offsets; it is not proven
	// sufficient for every offset combination.
	windowBackDays    = 2
	windowForwardDays = 1
)

// Entry pairs a worklog with the issue it belongs to.
type Entry struct {
	Issue   jira.Issue
	Worklog jira.Worklog
	Started time.Time
}

// API is the slice of the tracker client the resolver uses.
type API interface {
	ServerInfo(ctx context.Context) (jira.ServerInfo, error)
	SearchIssues(ctx context.Context, jql string, fields []string, maxResults int) (jira.SearchResult, error)
	IssueWorklogs(ctx context.Context, issueKey string, startAt, maxResults int, startedAfter, startedBefore int64) (jira.WorklogPage, error)
}

// Resolver fetches a day's worklogs for one user.
type Resolver struct {
	client API
	log    zerolog.Logger
}

// NewResolver builds a resolver on top of a tracker client.
func NewResolver(client API, log zerolog.Logger) *Resolver {
	return &Resolver{client: client, log: log}
}

// FetchDayWorklogs returns every worklog entry authored by userEmail
// whose [start, start+duration) interval overlaps the calendar day of
// `day` (in day's own location), sorted ascending by start time. Any
// remote failure aborts the whole operation; no partial results are
// returned.
//
// A worklog that fully contains the day but started before the widened
// window is missed by the date-predicate search and will not appear.
func (r *Resolver) FetchDayWorklogs(ctx context.Context, day time.Time, userEmail string) ([]Entry, error) {
	dayStart := timecalc.StartOfDay(day)
	dayEnd := dayStart.AddDate(0, 0, 1)
	winStart := dayStart.AddDate(0, 0, -windowBackDays)
	winEnd := dayEnd.AddDate(0, 0, windowForwardDays)

	// The tracker evaluates worklogDate in its own timezone, not ours.
	info, err := r.client.ServerInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving server timezone: %w", err)
	}
	offsetMin, err := info.Offset()
	if err != nil {
		return nil, fmt.Errorf("parsing server time %q: %w", info.ServerTime, err)
	}
	serverZone := time.FixedZone("server", offsetMin*60)

	jql := fmt.Sprintf(
		`worklogAuthor = currentUser() AND worklogDate >= "%s" AND worklogDate <= "%s"`,
		winStart.In(serverZone).Format("2006-01-02"),
		winEnd.In(serverZone).Format("2006-01-02"),
	)

	result, err := r.client.SearchIssues(ctx, jql, []string{"summary", "worklog"}, searchPageSize)
	if err != nil {
		return nil, fmt.Errorf("searching worklog issues: %w", err)
	}

	var entries []Entry
	for _, issue := range result.Issues {
		logs := issue.Fields.Worklog.Worklogs
		if issue.Fields.Worklog.Total > len(logs) {
			logs, err = r.allWorklogs(ctx, issue.Key, winStart.UnixMilli(), winEnd.UnixMilli())
			if err != nil {
				return nil, err
			}
		}
		for _, w := range logs {
			// The JQL author scope is not a hard guarantee; re-check.
			if w.Author.EmailAddress != userEmail {
				continue
			}
			start, err := w.StartedAt()
			if err != nil {
				r.log.Warn().Err(err).Str("issue", issue.Key).Str("worklog", w.ID).Msg("skipping worklog with unparseable start")
				continue
			}
			end := start.Add(time.Duration(w.TimeSpentSeconds) * time.Second)
			if !within(start, dayStart, dayEnd) && !within(end, dayStart, dayEnd) {
				continue
			}
			entries = append(entries, Entry{Issue: issue, Worklog: w, Started: start})
		}
	}

	// Chronological order is a contract for callers rendering timelines.
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Started.Before(entries[j].Started)
	})
	return entries, nil
}

// within is the half-open interval test [from, to).
func within(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}

// allWorklogs pages through an issue's worklog sub-resource when the
// embedded first page is incomplete, bounded to the fetch window.
func (r *Resolver) allWorklogs(ctx context.Context, issueKey string, startedAfter, startedBefore int64) ([]jira.Worklog, error) {
	var all []jira.Worklog
	startAt := 0
	for {
		page, err := r.client.IssueWorklogs(ctx, issueKey, startAt, worklogPageSize, startedAfter, startedBefore)
		if err != nil {
			return nil, fmt.Errorf("fetching worklog page for %s: %w", issueKey, err)
		}
		all = append(all, page.Worklogs...)
		if page.StartAt+worklogPageSize >= page.Total {
			return all, nil
		}
		startAt = page.StartAt + worklogPageSize
	}
}
