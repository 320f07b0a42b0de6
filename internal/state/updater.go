package state

import (
	"context"

	"github.com/wlboard/wlboard/internal/model"
)

// stateStore is the store surface the updater depends on; tests swap in
// fakes.
type stateStore interface {
	Read(ctx context.Context) (model.UserState, bool, error)
	Write(ctx context.Context, st model.UserState) error
}

// Updater owns all writes to the remote state blob. Every mutation is a
// read-modify-write against the freshest remote copy: the read happens
// immediately before the write and never reuses a cached basis.
//
// The tracker offers only unconditional get/put, so this is
// last-writer-wins, not compare-and-swap. Two contexts (tabs, devices)
// that interleave read-write cycles can still lose one update; the
// fresh read only narrows that window to a single round trip.
type Updater struct {
	store stateStore
}

// NewUpdater wraps a store.
func NewUpdater(store stateStore) *Updater {
	return &Updater{store: store}
}

// Transition is a pure function from state to state. It must not
// perform I/O and may return its input unchanged to signal a no-op.
type Transition func(model.UserState) model.UserState

// Load reads the current state, persisting the migrated form first when
// a schema migration ran.
func (u *Updater) Load(ctx context.Context) (model.UserState, error) {
	st, migrated, err := u.store.Read(ctx)
	if err != nil {
		return model.UserState{}, err
	}
	if migrated {
		if err := u.store.Write(ctx, st); err != nil {
			return u.recover(ctx, err)
		}
	}
	return st, nil
}

// Update applies transition to the freshest remote state and writes the
// result back, returning the written state.
//
// A failed read propagates with no write attempted. A failed write
// triggers one best-effort re-read whose result is returned alongside
// the error, so the caller can display true remote state instead of the
// effect it intended; the transition's effect is lost in that case.
func (u *Updater) Update(ctx context.Context, transition Transition) (model.UserState, error) {
	basis, err := u.Load(ctx)
	if err != nil {
		return basis, err
	}

	next := transition(basis)
	next.IsDefault = false

	if err := u.store.Write(ctx, next); err != nil {
		return u.recover(ctx, err)
	}
	return next, nil
}

// recover re-reads once after a failed write so callers see the actual
// remote state. The original write error is preserved either way.
func (u *Updater) recover(ctx context.Context, writeErr error) (model.UserState, error) {
	st, _, err := u.store.Read(ctx)
	if err != nil {
		return model.UserState{}, writeErr
	}
	return st, writeErr
}
