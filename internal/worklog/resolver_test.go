package worklog

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wlboard/wlboard/internal/jira"
)

const me = "me@example.com"

// fakeTracker scripts the three endpoints the resolver touches.
type fakeTracker struct {
	serverTime string
	serverErr  error

	searchJQL    string
	searchResult jira.SearchResult
	searchErr    error

	pages        map[string][]jira.WorklogPage
	pageRequests int
	pageErr      error

	startedAfter  int64
	startedBefore int64
}

func (f *fakeTracker) ServerInfo(ctx context.Context) (jira.ServerInfo, error) {
	if f.serverErr != nil {
		return jira.ServerInfo{}, f.serverErr
	}
	return jira.ServerInfo{ServerTime: f.serverTime}, nil
}

func (f *fakeTracker) SearchIssues(ctx context.Context, jql string, fields []string, maxResults int) (jira.SearchResult, error) {
	f.searchJQL = jql
	if f.searchErr != nil {
		return jira.SearchResult{}, f.searchErr
	}
	return f.searchResult, nil
}

func (f *fakeTracker) IssueWorklogs(ctx context.Context, issueKey string, startAt, maxResults int, startedAfter, startedBefore int64) (jira.WorklogPage, error) {
	f.pageRequests++
	f.startedAfter = startedAfter
	f.startedBefore = startedBefore
	if f.pageErr != nil {
		return jira.WorklogPage{}, f.pageErr
	}
	pages := f.pages[issueKey]
	for _, p := range pages {
		if p.StartAt == startAt {
			return p, nil
		}
	}
	return jira.WorklogPage{}, fmt.Errorf("no scripted page at startAt=%d", startAt)
}

func worklogAt(id string, start time.Time, seconds int, email string) jira.Worklog {
	return jira.Worklog{
		ID:               id,
		Author:           jira.Author{EmailAddress: email},
		Started:          jira.FormatStarted(start),
		TimeSpentSeconds: seconds,
	}
}

// issueWith embeds worklogs as a complete first page.
func issueWith(key string, logs ...jira.Worklog) jira.Issue {
	return jira.Issue{
		ID:  "1000",
		Key: key,
		Fields: jira.IssueFields{
			Summary: "some issue",
			Worklog: jira.WorklogPage{Total: len(logs), MaxResults: len(logs), Worklogs: logs},
		},
	}
}

func newResolver(f *fakeTracker) *Resolver {
	return NewResolver(f, zerolog.Nop())
}

var day = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func TestHalfOpenDayWindow(t *testing.T) {
	dayStart := day
	dayEnd := day.AddDate(0, 0, 1)

	f := &fakeTracker{
		serverTime: "2026-03-02T12:00:00.000+0000",
		searchResult: jira.SearchResult{Issues: []jira.Issue{issueWith("AB-1",
			// Starts exactly at dayStart: included.
			worklogAt("w1", dayStart, 600, me),
			// Starts exactly at dayEnd: excluded.
			worklogAt("w2", dayEnd, 600, me),
			// Starts one second before dayStart, crosses midnight in: included.
			worklogAt("w3", dayStart.Add(-time.Second), 2, me),
			// Entirely the previous day: excluded.
			worklogAt("w4", dayStart.Add(-time.Hour), 60, me),
			// Starts within the day, crosses past midnight: included.
			worklogAt("w5", dayEnd.Add(-time.Minute), 600, me),
		)}},
	}

	entries, err := newResolver(f).FetchDayWorklogs(context.Background(), day, me)
	require.NoError(t, err)

	var ids []string
	for _, e := range entries {
		ids = append(ids, e.Worklog.ID)
	}
	assert.Equal(t, []string{"w3", "w1", "w5"}, ids)
}

func TestAuthorEmailRecheck(t *testing.T) {
	f := &fakeTracker{
		serverTime: "2026-03-02T12:00:00.000+0000",
		searchResult: jira.SearchResult{Issues: []jira.Issue{issueWith("AB-1",
			worklogAt("mine", day.Add(9*time.Hour), 600, me),
			worklogAt("theirs", day.Add(10*time.Hour), 600, "other@example.com"),
		)}},
	}

	entries, err := newResolver(f).FetchDayWorklogs(context.Background(), day, me)
	require.NoError(t, err)

	require.Len(t, entries, 1)
	assert.Equal(t, "mine", entries[0].Worklog.ID)
}

func TestJQLWindowUsesServerZone(t *testing.T) {
	f := &fakeTracker{serverTime: "2026-03-02T12:00:00.000+0330"}

	_, err := newResolver(f).FetchDayWorklogs(context.Background(), day, me)
	require.NoError(t, err)

	// [dayStart-2d, dayEnd+1d] rendered as dates at +03:30.
	assert.Equal(t,
		`worklogAuthor = currentUser() AND worklogDate >= "2026-02-28" AND worklogDate <= "2026-03-04"`,
		f.searchJQL)
}

func TestPaginationTermination(t *testing.T) {
	const total = 12000

	// The issue reports 12000 worklogs but embeds none, forcing
	// explicit paging: 3 pages of 5000/5000/2000.
	issue := issueWith("AB-1")
	issue.Fields.Worklog = jira.WorklogPage{Total: total}

	var pages []jira.WorklogPage
	for startAt := 0; startAt < total; startAt += worklogPageSize {
		n := worklogPageSize
		if startAt+n > total {
			n = total - startAt
		}
		page := jira.WorklogPage{StartAt: startAt, MaxResults: worklogPageSize, Total: total}
		for i := 0; i < n; i++ {
			// Served in reverse chronological order so the final sort
			// is actually exercised.
			idx := startAt + i
			start := day.Add(time.Duration(total-idx) * time.Second)
			page.Worklogs = append(page.Worklogs, worklogAt(fmt.Sprintf("w%d", idx), start, 60, me))
		}
		pages = append(pages, page)
	}

	f := &fakeTracker{
		serverTime:   "2026-03-02T12:00:00.000+0000",
		searchResult: jira.SearchResult{Issues: []jira.Issue{issue}},
		pages:        map[string][]jira.WorklogPage{"AB-1": pages},
	}

	entries, err := newResolver(f).FetchDayWorklogs(context.Background(), day, me)
	require.NoError(t, err)

	assert.Equal(t, 3, f.pageRequests)
	assert.Len(t, entries, total)
	for i := 1; i < len(entries); i++ {
		require.False(t, entries[i].Started.Before(entries[i-1].Started), "entries out of order at %d", i)
	}

	// The sub-resource paging is bounded to the widened window.
	assert.Equal(t, day.AddDate(0, 0, -2).UnixMilli(), f.startedAfter)
	assert.Equal(t, day.AddDate(0, 0, 2).UnixMilli(), f.startedBefore)
}

func TestServerInfoFailureAborts(t *testing.T) {
	f := &fakeTracker{serverErr: errors.New("unreachable")}

	_, err := newResolver(f).FetchDayWorklogs(context.Background(), day, me)
	assert.Error(t, err)
}

func TestSearchFailureAborts(t *testing.T) {
	f := &fakeTracker{
		serverTime: "2026-03-02T12:00:00.000+0000",
		searchErr:  &jira.SearchError{Status: 500, Body: "boom"},
	}

	_, err := newResolver(f).FetchDayWorklogs(context.Background(), day, me)
	var searchErr *jira.SearchError
	assert.ErrorAs(t, err, &searchErr)
}

func TestWorklogPageFailureReturnsNoPartialResults(t *testing.T) {
	issue := issueWith("AB-1")
	issue.Fields.Worklog = jira.WorklogPage{Total: 7000}

	f := &fakeTracker{
		serverTime:   "2026-03-02T12:00:00.000+0000",
		searchResult: jira.SearchResult{Issues: []jira.Issue{issue}},
		pageErr:      errors.New("timeout"),
	}

	entries, err := newResolver(f).FetchDayWorklogs(context.Background(), day, me)
	assert.Error(t, err)
	assert.Nil(t, entries)
}
