package jira

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the tracker answers 404 for a resource
// the caller treats as optional (user properties, worklogs that were
// deleted meanwhile).
var ErrNotFound = errors.New("jira: not found")

// RemoteReadError is a non-2xx, non-404 response while reading state or
// worklog data.
type RemoteReadError struct {
	Status int
	Body   string
}

func (e *RemoteReadError) Error() string {
	return fmt.Sprintf("jira: read failed with status %d: %s", e.Status, e.Body)
}

// RemoteWriteError is an unexpected response status while writing state
// or worklog data. A caller seeing this must not assume its write
// applied; the true remote state has to be re-read.
type RemoteWriteError struct {
	Status int
	Body   string
}

func (e *RemoteWriteError) Error() string {
	return fmt.Sprintf("jira: write failed with status %d: %s", e.Status, e.Body)
}

// SearchError is a non-2xx response from the issue search endpoint.
type SearchError struct {
	Status int
	Body   string
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("jira: search failed with status %d: %s", e.Status, e.Body)
}
