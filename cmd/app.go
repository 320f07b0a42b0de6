package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/wlboard/wlboard/internal/config"
	"github.com/wlboard/wlboard/internal/jira"
	"github.com/wlboard/wlboard/internal/state"
	"github.com/wlboard/wlboard/internal/timecalc"
)

// app bundles the per-invocation context: settings, logger, clock. The
// tracker client is built explicitly from the active account and passed
// down; nothing in this program holds a global client.
type app struct {
	base     string
	settings config.Settings
	log      zerolog.Logger
	clock    timecalc.Clock
}

func newApp(log zerolog.Logger) (*app, error) {
	base, err := config.BaseDir()
	if err != nil {
		return nil, err
	}
	settings, err := config.Load(base)
	if err != nil {
		return nil, err
	}
	return &app{
		base:     base,
		settings: settings,
		log:      log,
		clock:    timecalc.SystemClock{},
	}, nil
}

func (a *app) saveSettings() error {
	return config.Save(a.base, a.settings)
}

// client builds a tracker client for the active account.
func (a *app) client(ctx context.Context) (*jira.Client, config.Account, error) {
	acct, ok := a.settings.ActiveAccount()
	if !ok {
		return nil, config.Account{}, fmt.Errorf("no account configured; run 'wlboard account add' first")
	}
	c := jira.NewClient(ctx, jira.Options{
		BaseURL:  acct.BaseURL(),
		Email:    acct.Email,
		APIToken: acct.APIToken,
	}, a.log)
	return c, acct, nil
}

// updater wraps a client in the state store and atomic updater.
func (a *app) updater(c *jira.Client) *state.Updater {
	store := state.NewStore(c, state.DefaultPropertyKey, a.log)
	return state.NewUpdater(store)
}

// userEmail resolves the current user's email for worklog filtering:
// the account email when present, otherwise whatever the tracker
// reports for the authenticated token.
func (a *app) userEmail(ctx context.Context, c *jira.Client, acct config.Account) (string, error) {
	if acct.Email != "" {
		return acct.Email, nil
	}
	me, err := c.Myself(ctx)
	if err != nil {
		return "", fmt.Errorf("resolving current user: %w", err)
	}
	return me.EmailAddress, nil
}
