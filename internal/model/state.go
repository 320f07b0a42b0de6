package model

import "time"

// StateSchemaVersion is the current schema of the remote user-state blob.
// Bump it together with a new entry in the state package's migration chain.
const StateSchemaVersion = 2

// TrackedTicket is a currently running, not-yet-submitted timer.
// It lives only in the remote user-state blob; stopping the timer turns
// it into a real worklog entry on the tracker and removes it here.
type TrackedTicket struct {
	IssueKey        string    `json:"issueKey"`
	StartedAt       time.Time `json:"startedAt"`
	IssueSummary    string    `json:"issueSummary"`
	IssueSelfLink   string    `json:"issueSelfLink,omitempty"`
	WorkDescription string    `json:"workDescription,omitempty"`
}

// UserState is the client-maintained tracking state persisted on the
// tracker as a single opaque user property. The tracker offers plain
// get/put on it with no conditional write, so all mutations must flow
// through the state updater.
type UserState struct {
	// TrackedTickets maps a generated tracking ID to its timer.
	TrackedTickets map[string]TrackedTicket `json:"trackedTickets"`
	// StarredIssueKeys is the user's shortlist of issue keys. Order is
	// irrelevant for logic but round-trips as stored.
	StarredIssueKeys []string `json:"starredIssueKeys"`
	SchemaVersion    int      `json:"schemaVersion"`

	// IsDefault marks a state that was substituted for a missing or
	// unreadable remote blob. Never serialized.
	IsDefault bool `json:"-"`
}

// DefaultUserState returns the documented empty state.
func DefaultUserState() UserState {
	return UserState{
		TrackedTickets:   map[string]TrackedTicket{},
		StarredIssueKeys: []string{},
		SchemaVersion:    StateSchemaVersion,
		IsDefault:        true,
	}
}

// Starred reports whether key is in the starred shortlist.
func (s UserState) Starred(key string) bool {
	for _, k := range s.StarredIssueKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so transitions can stay pure.
func (s UserState) Clone() UserState {
	out := s
	out.TrackedTickets = make(map[string]TrackedTicket, len(s.TrackedTickets))
	for id, t := range s.TrackedTickets {
		out.TrackedTickets[id] = t
	}
	out.StarredIssueKeys = append([]string(nil), s.StarredIssueKeys...)
	return out
}
