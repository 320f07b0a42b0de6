package state

import (
	"time"

	"github.com/wlboard/wlboard/internal/model"
)

// Transition constructors. Each returns a pure function over a cloned
// state; the input is never mutated.

// StartTracking adds a timer under the given tracking ID.
func StartTracking(id string, ticket model.TrackedTicket) Transition {
	return func(st model.UserState) model.UserState {
		next := st.Clone()
		next.TrackedTickets[id] = ticket
		return next
	}
}

// StopTracking removes a timer. A tracking ID that no longer exists
// (stopped from another device meanwhile) is a no-op.
func StopTracking(id string) Transition {
	return func(st model.UserState) model.UserState {
		if _, ok := st.TrackedTickets[id]; !ok {
			return st
		}
		next := st.Clone()
		delete(next.TrackedTickets, id)
		return next
	}
}

// UpdateTracking edits a timer's start time and/or description. Nil
// leaves a field untouched; an unknown ID is a no-op.
func UpdateTracking(id string, startedAt *time.Time, description *string) Transition {
	return func(st model.UserState) model.UserState {
		ticket, ok := st.TrackedTickets[id]
		if !ok {
			return st
		}
		next := st.Clone()
		if startedAt != nil {
			ticket.StartedAt = *startedAt
		}
		if description != nil {
			ticket.WorkDescription = *description
		}
		next.TrackedTickets[id] = ticket
		return next
	}
}

// ToggleStar adds the issue key to the starred shortlist, or removes it
// if already present.
func ToggleStar(issueKey string) Transition {
	return func(st model.UserState) model.UserState {
		next := st.Clone()
		for i, k := range next.StarredIssueKeys {
			if k == issueKey {
				next.StarredIssueKeys = append(next.StarredIssueKeys[:i], next.StarredIssueKeys[i+1:]...)
				return next
			}
		}
		next.StarredIssueKeys = append(next.StarredIssueKeys, issueKey)
		return next
	}
}
