package jira

import (
	"encoding/json"
	"time"

	"github.com/wlboard/wlboard/internal/adf"
)

// startedLayout is the timestamp layout the tracker uses for worklog
// "started" fields: RFC3339 with milliseconds and a numeric offset
// without a colon.
const startedLayout = "2006-01-02T15:04:05.000-0700"

// User is the authenticated user as reported by the tracker.
type User struct {
	AccountID    string `json:"accountId"`
	EmailAddress string `json:"emailAddress"`
	DisplayName  string `json:"displayName"`
}

// ServerInfo carries the tracker's own clock, including its configured
// UTC offset. Day boundaries in JQL date predicates are evaluated in
// this zone, never the caller's.
type ServerInfo struct {
	ServerTime string `json:"serverTime"`
	Version    string `json:"version,omitempty"`
}

// Offset parses the server time and returns its zone offset in minutes.
func (s ServerInfo) Offset() (int, error) {
	t, err := time.Parse(startedLayout, s.ServerTime)
	if err != nil {
		// Some deployments report plain RFC3339.
		t, err = time.Parse(time.RFC3339, s.ServerTime)
		if err != nil {
			return 0, err
		}
	}
	_, secs := t.Zone()
	return secs / 60, nil
}

// Author identifies who recorded a worklog entry.
type Author struct {
	AccountID    string `json:"accountId,omitempty"`
	EmailAddress string `json:"emailAddress"`
	DisplayName  string `json:"displayName"`
}

// Worklog is one duration-of-work record on an issue. The tracker
// attaches more fields than this client models; unknown ones are kept
// in Extra so round-tripping tooling can still see them.
type Worklog struct {
	ID               string    `json:"id"`
	Self             string    `json:"self,omitempty"`
	IssueID          string    `json:"issueId,omitempty"`
	Author           Author    `json:"author"`
	Started          string    `json:"started"`
	TimeSpentSeconds int       `json:"timeSpentSeconds"`
	Comment          *adf.Node `json:"comment,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

var worklogKnownFields = map[string]bool{
	"id": true, "self": true, "issueId": true, "author": true,
	"started": true, "timeSpentSeconds": true, "comment": true,
}

// UnmarshalJSON decodes the known fields and stashes everything else in
// Extra.
func (w *Worklog) UnmarshalJSON(data []byte) error {
	type plain Worklog
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for k := range all {
		if worklogKnownFields[k] {
			delete(all, k)
		}
	}
	if len(all) > 0 {
		p.Extra = all
	}
	*w = Worklog(p)
	return nil
}

// StartedAt parses the entry's start timestamp.
func (w Worklog) StartedAt() (time.Time, error) {
	return time.Parse(startedLayout, w.Started)
}

// EndedAt is the computed end of the entry: start plus duration.
func (w Worklog) EndedAt() (time.Time, error) {
	start, err := w.StartedAt()
	if err != nil {
		return time.Time{}, err
	}
	return start.Add(time.Duration(w.TimeSpentSeconds) * time.Second), nil
}

// FormatStarted renders t the way the tracker expects "started" values.
func FormatStarted(t time.Time) string {
	return t.Format(startedLayout)
}

// WorklogPage is one page of an issue's worklog sub-resource.
type WorklogPage struct {
	StartAt    int       `json:"startAt"`
	MaxResults int       `json:"maxResults"`
	Total      int       `json:"total"`
	Worklogs   []Worklog `json:"worklogs"`
}

// WorklogInput is the body for worklog create and update requests.
type WorklogInput struct {
	TimeSpentSeconds int       `json:"timeSpentSeconds"`
	Started          string    `json:"started"`
	Comment          *adf.Node `json:"comment,omitempty"`
}

// IssueFields is the fixed field projection this client requests.
type IssueFields struct {
	Summary string      `json:"summary"`
	Worklog WorklogPage `json:"worklog"`
}

// Issue is a trackable work item.
type Issue struct {
	ID     string      `json:"id"`
	Key    string      `json:"key"`
	Self   string      `json:"self,omitempty"`
	Fields IssueFields `json:"fields"`
}

// SearchResult is the issue search response envelope.
type SearchResult struct {
	StartAt    int     `json:"startAt"`
	MaxResults int     `json:"maxResults"`
	Total      int     `json:"total"`
	Issues     []Issue `json:"issues"`
}

// searchRequest is the POST body for the issue search endpoint.
type searchRequest struct {
	JQL        string   `json:"jql"`
	Fields     []string `json:"fields"`
	MaxResults int      `json:"maxResults"`
}

// propertyEnvelope wraps a user property value on the wire.
type propertyEnvelope struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}
