// Package state persists the client-maintained tracking state (running
// timers, starred issues) as a single user property on the tracker, and
// provides the read-modify-write updater that all mutations go through.
package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/wlboard/wlboard/internal/jira"
	"github.com/wlboard/wlboard/internal/migrate"
	"github.com/wlboard/wlboard/internal/model"
)

// DefaultPropertyKey is the user property under which the state blob is
// stored.
const DefaultPropertyKey = "wlboard-state"

// PropertyAPI is the slice of the tracker client the store needs.
type PropertyAPI interface {
	GetUserProperty(ctx context.Context, key string) (json.RawMessage, error)
	PutUserProperty(ctx context.Context, key string, value any) error
}

// Store adapts the tracker's property get/put to typed state. It is the
// only component allowed to touch the blob; the updater builds on it.
type Store struct {
	api PropertyAPI
	key string
	log zerolog.Logger
}

// NewStore builds a store for the given property key.
func NewStore(api PropertyAPI, key string, log zerolog.Logger) *Store {
	if key == "" {
		key = DefaultPropertyKey
	}
	return &Store{api: api, key: key, log: log}
}

// persistedState is the exact wire shape of the blob. Writing through
// this type guarantees transient in-memory fields never leak into the
// stored form.
type persistedState struct {
	TrackedTickets   map[string]model.TrackedTicket `json:"trackedTickets"`
	StarredIssueKeys []string                       `json:"starredIssueKeys"`
	SchemaVersion    int                            `json:"schemaVersion"`
}

// Read fetches and migrates the current remote state. A missing
// property yields the documented default. A blob that cannot be parsed
// is logged and replaced by the default: the state is recoverable and
// availability wins over strictness here. The second return value
// reports whether a migration ran, in which case the caller should
// write the result back.
func (s *Store) Read(ctx context.Context) (model.UserState, bool, error) {
	raw, err := s.api.GetUserProperty(ctx, s.key)
	if errors.Is(err, jira.ErrNotFound) {
		return model.DefaultUserState(), false, nil
	}
	if err != nil {
		return model.UserState{}, false, fmt.Errorf("reading state property: %w", err)
	}

	var blob map[string]any
	if err := json.Unmarshal(raw, &blob); err != nil {
		s.log.Warn().Err(err).Str("key", s.key).Msg("state blob is not valid JSON, substituting default")
		return model.DefaultUserState(), false, nil
	}

	blob, migrated := migrate.Apply(fillDefaults(blob), migrations)

	data, err := json.Marshal(blob)
	if err != nil {
		return model.UserState{}, false, fmt.Errorf("re-encoding migrated state: %w", err)
	}
	var st model.UserState
	if err := json.Unmarshal(data, &st); err != nil {
		s.log.Warn().Err(err).Str("key", s.key).Msg("state blob has unusable shape, substituting default")
		return model.DefaultUserState(), false, nil
	}
	if st.TrackedTickets == nil {
		st.TrackedTickets = map[string]model.TrackedTicket{}
	}
	if st.StarredIssueKeys == nil {
		st.StarredIssueKeys = []string{}
	}
	return st, migrated, nil
}

// Write persists the documented fields of st and nothing else.
func (s *Store) Write(ctx context.Context, st model.UserState) error {
	p := persistedState{
		TrackedTickets:   st.TrackedTickets,
		StarredIssueKeys: st.StarredIssueKeys,
		SchemaVersion:    st.SchemaVersion,
	}
	if p.TrackedTickets == nil {
		p.TrackedTickets = map[string]model.TrackedTicket{}
	}
	if p.StarredIssueKeys == nil {
		p.StarredIssueKeys = []string{}
	}
	if p.SchemaVersion == 0 {
		p.SchemaVersion = model.StateSchemaVersion
	}
	if err := s.api.PutUserProperty(ctx, s.key, p); err != nil {
		return fmt.Errorf("writing state property: %w", err)
	}
	return nil
}
