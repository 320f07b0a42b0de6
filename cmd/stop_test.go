package cmd

import (
	"testing"
	"time"

	"github.com/wlboard/wlboard/internal/model"
)

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{0, "0s"},
		{30, "30s"},
		{59, "59s"},
		{60, "1m 0s"},
		{90, "1m 30s"},
		{3600, "1h 0m 0s"},
		{3661, "1h 1m 1s"},
		{7322, "2h 2m 2s"},
	}
	for _, tt := range tests {
		got := formatElapsed(tt.seconds)
		if got != tt.want {
			t.Errorf("formatElapsed(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func stateWithTimers(timers map[string]string) model.UserState {
	st := model.DefaultUserState()
	for id, key := range timers {
		st.TrackedTickets[id] = model.TrackedTicket{
			IssueKey:  key,
			StartedAt: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		}
	}
	return st
}

func TestFindTimer(t *testing.T) {
	st := stateWithTimers(map[string]string{
		"aaa111": "AB-1",
		"bbb222": "AB-2",
		"bbb333": "AB-3",
	})

	t.Run("by full id", func(t *testing.T) {
		id, ticket, err := findTimer(st, "aaa111")
		if err != nil {
			t.Fatalf("findTimer: %v", err)
		}
		if id != "aaa111" || ticket.IssueKey != "AB-1" {
			t.Errorf("got %q/%q", id, ticket.IssueKey)
		}
	})

	t.Run("by issue key case-insensitive", func(t *testing.T) {
		id, _, err := findTimer(st, "ab-2")
		if err != nil {
			t.Fatalf("findTimer: %v", err)
		}
		if id != "bbb222" {
			t.Errorf("id = %q, want bbb222", id)
		}
	})

	t.Run("ambiguous prefix", func(t *testing.T) {
		if _, _, err := findTimer(st, "bbb"); err == nil {
			t.Error("expected error for ambiguous prefix")
		}
	})

	t.Run("no match", func(t *testing.T) {
		if _, _, err := findTimer(st, "zzz"); err == nil {
			t.Error("expected error for unknown ref")
		}
	})

	t.Run("empty ref with multiple timers", func(t *testing.T) {
		if _, _, err := findTimer(st, ""); err == nil {
			t.Error("expected error when several timers run")
		}
	})

	t.Run("empty ref with single timer", func(t *testing.T) {
		single := stateWithTimers(map[string]string{"only1": "AB-9"})
		id, _, err := findTimer(single, "")
		if err != nil {
			t.Fatalf("findTimer: %v", err)
		}
		if id != "only1" {
			t.Errorf("id = %q, want only1", id)
		}
	})

	t.Run("nothing running", func(t *testing.T) {
		if _, _, err := findTimer(model.DefaultUserState(), ""); err == nil {
			t.Error("expected error with no timers")
		}
	})
}
