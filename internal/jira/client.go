// Package jira is the authenticated HTTP client for the issue tracker.
// Every call is a single attempt: failures surface to the caller, no
// retry or backoff is applied.
package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

// Options configure a client for one tracker account. Email+APIToken
// selects basic auth; a bare APIToken without an email is sent as a
// bearer personal access token.
type Options struct {
	// BaseURL is the tracker root, e.g. https://acme.atlassian.net.
	BaseURL  string
	Email    string
	APIToken string
	Timeout  time.Duration
}

// Client talks to one tracker tenant. Construct it once per account and
// pass it by reference; there is deliberately no package-level instance.
type Client struct {
	baseURL    string
	email      string
	apiToken   string
	httpClient *http.Client
	log        zerolog.Logger

	accountID string
}

// NewClient builds a client from account options.
func NewClient(ctx context.Context, opts Options, log zerolog.Logger) *Client {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	c := &Client{
		baseURL:  opts.BaseURL,
		email:    opts.Email,
		apiToken: opts.APIToken,
		log:      log,
	}
	if opts.Email == "" && opts.APIToken != "" {
		// Personal access token: let oauth2 inject the bearer header.
		tok := &oauth2.Token{AccessToken: opts.APIToken}
		c.httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(tok))
		c.httpClient.Timeout = timeout
	} else {
		c.httpClient = &http.Client{Timeout: timeout}
	}
	return c
}

func (c *Client) apiURL(path string, q url.Values) string {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

// do issues one request and returns the status code and raw body.
// Transport failures are returned as-is; status interpretation belongs
// to the endpoint wrappers.
func (c *Client) do(ctx context.Context, method, path string, q url.Values, body any) (int, []byte, error) {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("encoding request body: %w", err)
		}
		r = bytes.NewReader(data)
	}

	u := c.apiURL(path, q)
	req, err := http.NewRequestWithContext(ctx, method, u, r)
	if err != nil {
		return 0, nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.email != "" && c.apiToken != "" {
		req.SetBasicAuth(c.email, c.apiToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("tracker request failed: %w", err)
	}
	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("reading response body: %w", err)
	}

	c.log.Debug().Str("method", method).Str("path", path).Int("status", resp.StatusCode).Msg("tracker call")
	return resp.StatusCode, data, nil
}

// Myself fetches the authenticated user. The account ID is cached for
// the property endpoints.
func (c *Client) Myself(ctx context.Context) (User, error) {
	status, data, err := c.do(ctx, http.MethodGet, "/rest/api/3/myself", nil, nil)
	if err != nil {
		return User{}, err
	}
	if status != http.StatusOK {
		return User{}, &RemoteReadError{Status: status, Body: string(data)}
	}
	var u User
	if err := json.Unmarshal(data, &u); err != nil {
		return User{}, fmt.Errorf("decoding user: %w", err)
	}
	c.accountID = u.AccountID
	return u, nil
}

func (c *Client) ensureAccountID(ctx context.Context) (string, error) {
	if c.accountID != "" {
		return c.accountID, nil
	}
	u, err := c.Myself(ctx)
	if err != nil {
		return "", err
	}
	return u.AccountID, nil
}

// GetUserProperty reads the raw value of a user property. A 404 becomes
// ErrNotFound so callers can substitute defaults.
func (c *Client) GetUserProperty(ctx context.Context, key string) (json.RawMessage, error) {
	accountID, err := c.ensureAccountID(ctx)
	if err != nil {
		return nil, err
	}
	q := url.Values{"accountId": {accountID}}
	status, data, err := c.do(ctx, http.MethodGet, "/rest/api/3/user/properties/"+url.PathEscape(key), q, nil)
	if err != nil {
		return nil, err
	}
	switch status {
	case http.StatusOK:
		var env propertyEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, fmt.Errorf("decoding property envelope: %w", err)
		}
		return env.Value, nil
	case http.StatusNotFound:
		return nil, ErrNotFound
	default:
		return nil, &RemoteReadError{Status: status, Body: string(data)}
	}
}

// PutUserProperty writes a user property value. The tracker answers 200
// for an update and 201 for a first write; anything else is a write
// failure.
func (c *Client) PutUserProperty(ctx context.Context, key string, value any) error {
	accountID, err := c.ensureAccountID(ctx)
	if err != nil {
		return err
	}
	q := url.Values{"accountId": {accountID}}
	status, data, err := c.do(ctx, http.MethodPut, "/rest/api/3/user/properties/"+url.PathEscape(key), q, value)
	if err != nil {
		return err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return &RemoteWriteError{Status: status, Body: string(data)}
	}
	return nil
}

// ServerInfo fetches the tracker's server clock and version.
func (c *Client) ServerInfo(ctx context.Context) (ServerInfo, error) {
	status, data, err := c.do(ctx, http.MethodGet, "/rest/api/3/serverInfo", nil, nil)
	if err != nil {
		return ServerInfo{}, err
	}
	if status != http.StatusOK {
		return ServerInfo{}, &RemoteReadError{Status: status, Body: string(data)}
	}
	var info ServerInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return ServerInfo{}, fmt.Errorf("decoding server info: %w", err)
	}
	return info, nil
}

// SearchIssues runs a JQL search with an explicit field projection.
func (c *Client) SearchIssues(ctx context.Context, jql string, fields []string, maxResults int) (SearchResult, error) {
	body := searchRequest{JQL: jql, Fields: fields, MaxResults: maxResults}
	status, data, err := c.do(ctx, http.MethodPost, "/rest/api/3/search", nil, body)
	if err != nil {
		return SearchResult{}, err
	}
	if status != http.StatusOK {
		return SearchResult{}, &SearchError{Status: status, Body: string(data)}
	}
	var res SearchResult
	if err := json.Unmarshal(data, &res); err != nil {
		return SearchResult{}, fmt.Errorf("decoding search result: %w", err)
	}
	return res, nil
}

// GetIssue fetches one issue with just its summary.
func (c *Client) GetIssue(ctx context.Context, key string) (Issue, error) {
	q := url.Values{"fields": {"summary"}}
	status, data, err := c.do(ctx, http.MethodGet, "/rest/api/3/issue/"+url.PathEscape(key), q, nil)
	if err != nil {
		return Issue{}, err
	}
	switch status {
	case http.StatusOK:
		var issue Issue
		if err := json.Unmarshal(data, &issue); err != nil {
			return Issue{}, fmt.Errorf("decoding issue: %w", err)
		}
		return issue, nil
	case http.StatusNotFound:
		return Issue{}, ErrNotFound
	default:
		return Issue{}, &RemoteReadError{Status: status, Body: string(data)}
	}
}

// IssueWorklogs fetches one page of an issue's worklog sub-resource,
// bounded to entries started within [startedAfter, startedBefore]
// (epoch milliseconds).
func (c *Client) IssueWorklogs(ctx context.Context, issueKey string, startAt, maxResults int, startedAfter, startedBefore int64) (WorklogPage, error) {
	q := url.Values{
		"startAt":       {strconv.Itoa(startAt)},
		"maxResults":    {strconv.Itoa(maxResults)},
		"startedAfter":  {strconv.FormatInt(startedAfter, 10)},
		"startedBefore": {strconv.FormatInt(startedBefore, 10)},
	}
	status, data, err := c.do(ctx, http.MethodGet, "/rest/api/3/issue/"+url.PathEscape(issueKey)+"/worklog", q, nil)
	if err != nil {
		return WorklogPage{}, err
	}
	if status != http.StatusOK {
		return WorklogPage{}, &RemoteReadError{Status: status, Body: string(data)}
	}
	var page WorklogPage
	if err := json.Unmarshal(data, &page); err != nil {
		return WorklogPage{}, fmt.Errorf("decoding worklog page: %w", err)
	}
	return page, nil
}

// AddWorklog creates a worklog entry on an issue.
func (c *Client) AddWorklog(ctx context.Context, issueKey string, input WorklogInput) (Worklog, error) {
	status, data, err := c.do(ctx, http.MethodPost, "/rest/api/3/issue/"+url.PathEscape(issueKey)+"/worklog", nil, input)
	if err != nil {
		return Worklog{}, err
	}
	if status != http.StatusCreated {
		return Worklog{}, &RemoteWriteError{Status: status, Body: string(data)}
	}
	var w Worklog
	if err := json.Unmarshal(data, &w); err != nil {
		return Worklog{}, fmt.Errorf("decoding created worklog: %w", err)
	}
	return w, nil
}

// UpdateWorklog replaces an existing worklog entry.
func (c *Client) UpdateWorklog(ctx context.Context, issueKey, worklogID string, input WorklogInput) (Worklog, error) {
	path := "/rest/api/3/issue/" + url.PathEscape(issueKey) + "/worklog/" + url.PathEscape(worklogID)
	status, data, err := c.do(ctx, http.MethodPut, path, nil, input)
	if err != nil {
		return Worklog{}, err
	}
	if status != http.StatusOK {
		return Worklog{}, &RemoteWriteError{Status: status, Body: string(data)}
	}
	var w Worklog
	if err := json.Unmarshal(data, &w); err != nil {
		return Worklog{}, fmt.Errorf("decoding updated worklog: %w", err)
	}
	return w, nil
}

// DeleteWorklog removes a worklog entry.
func (c *Client) DeleteWorklog(ctx context.Context, issueKey, worklogID string) error {
	path := "/rest/api/3/issue/" + url.PathEscape(issueKey) + "/worklog/" + url.PathEscape(worklogID)
	status, data, err := c.do(ctx, http.MethodDelete, path, nil, nil)
	if err != nil {
		return err
	}
	if status != http.StatusNoContent {
		return &RemoteWriteError{Status: status, Body: string(data)}
	}
	return nil
}
