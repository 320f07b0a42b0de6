// Package config manages the local device settings: tracker accounts,
// the active account selection, and display preferences. Everything
// lives in a single JSON file under ~/.wlboard, versioned with the same
// migration engine as the remote state blob.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/wlboard/wlboard/internal/migrate"
)

// SettingsSchemaVersion is the current schema of the settings file.
const SettingsSchemaVersion = 2

// Theme names accepted in settings.
const (
	ThemeSystem = "system"
	ThemeLight  = "light"
	ThemeDark   = "dark"
)

// Account holds the credentials for one tracker tenant. An account with
// an email uses basic auth; without one the API token is sent as a
// bearer personal access token.
type Account struct {
	ID              string `json:"id"`
	TenantSubdomain string `json:"tenantSubdomain"`
	Email           string `json:"email"`
	APIToken        string `json:"apiToken"`
}

// BaseURL is the tracker root for this account's tenant.
func (a Account) BaseURL() string {
	return "https://" + a.TenantSubdomain + ".atlassian.net"
}

// DisplayPrefs are cosmetic preferences the day view respects.
type DisplayPrefs struct {
	// DayStartHour is the first hour rendered on the timeline.
	DayStartHour int `json:"dayStartHour"`
	// CompactTimeline collapses gaps between entries.
	CompactTimeline bool `json:"compactTimeline"`
}

// Settings is the root of the local settings file.
//
// Invariant: whenever Accounts is non-empty, ActiveAccountID references
// one of them. Load repairs a dangling reference instead of failing.
type Settings struct {
	Accounts        []Account    `json:"accounts"`
	ActiveAccountID string       `json:"activeAccountId"`
	Theme           string       `json:"theme"`
	Display         DisplayPrefs `json:"display"`
	SchemaVersion   int          `json:"schemaVersion"`
}

func defaultSettings() Settings {
	return Settings{
		Accounts:      []Account{},
		Theme:         ThemeSystem,
		Display:       DisplayPrefs{DayStartHour: 8},
		SchemaVersion: SettingsSchemaVersion,
	}
}

// migrations upgrades settings files written by older builds.
var migrations = []migrate.Migration{
	{
		// Single-account builds kept credentials flat at the top level.
		TargetVersion: 1,
		Transform: func(blob map[string]any) map[string]any {
			tenant, _ := blob["tenantSubdomain"].(string)
			email, _ := blob["email"].(string)
			token, _ := blob["apiToken"].(string)
			if tenant == "" && email == "" && token == "" {
				return blob
			}
			accounts, _ := blob["accounts"].([]any)
			id := uuid.NewString()
			accounts = append(accounts, map[string]any{
				"id":              id,
				"tenantSubdomain": tenant,
				"email":           email,
				"apiToken":        token,
			})
			blob["accounts"] = accounts
			blob["activeAccountId"] = id
			delete(blob, "tenantSubdomain")
			delete(blob, "email")
			delete(blob, "apiToken")
			return blob
		},
	},
	{
		// Theme selection arrived in v2.
		TargetVersion: 2,
		Transform: func(blob map[string]any) map[string]any {
			if _, ok := blob["theme"].(string); !ok {
				blob["theme"] = ThemeSystem
			}
			return blob
		},
	},
}

// BaseDir returns the root data directory (~/.wlboard).
func BaseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".wlboard"), nil
}

func settingsPath(base string) string {
	return filepath.Join(base, "config.json")
}

// Load reads the settings file under base, migrating and repairing it
// as needed. A missing file yields defaults; a corrupt file is backed
// up and reported as an error. When a migration or repair changed
// anything, the result is saved back immediately.
func Load(base string) (Settings, error) {
	path := settingsPath(base)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return defaultSettings(), nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("reading settings %s: %w", path, err)
	}

	var blob map[string]any
	if err := json.Unmarshal(data, &blob); err != nil {
		// Back up the corrupt file and abort.
		backupPath := path + ".corrupt"
		_ = os.Rename(path, backupPath)
		return Settings{}, fmt.Errorf("corrupt JSON in %s (backed up to %s): %w", path, backupPath, err)
	}

	blob, migrated := migrate.Apply(blob, migrations)

	normalized, err := json.Marshal(blob)
	if err != nil {
		return Settings{}, fmt.Errorf("re-encoding migrated settings: %w", err)
	}
	var s Settings
	if err := json.Unmarshal(normalized, &s); err != nil {
		return Settings{}, fmt.Errorf("settings %s have unusable shape: %w", path, err)
	}
	if s.Accounts == nil {
		s.Accounts = []Account{}
	}
	if s.Theme == "" {
		s.Theme = ThemeSystem
	}

	if s.repairActiveAccount() || migrated {
		if err := Save(base, s); err != nil {
			return Settings{}, err
		}
	}
	return s, nil
}

// Save atomically writes the settings file (temp file plus rename).
func Save(base string, s Settings) error {
	path := settingsPath(base)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating settings directory: %w", err)
	}

	s.SchemaVersion = SettingsSchemaVersion
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling settings: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("writing temp settings file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("renaming temp settings file: %w", err)
	}
	return nil
}

// repairActiveAccount enforces the active-account invariant and reports
// whether it changed anything.
func (s *Settings) repairActiveAccount() bool {
	if len(s.Accounts) == 0 {
		if s.ActiveAccountID != "" {
			s.ActiveAccountID = ""
			return true
		}
		return false
	}
	for _, a := range s.Accounts {
		if a.ID == s.ActiveAccountID {
			return false
		}
	}
	s.ActiveAccountID = s.Accounts[0].ID
	return true
}

// ActiveAccount returns the currently selected account.
func (s Settings) ActiveAccount() (Account, bool) {
	for _, a := range s.Accounts {
		if a.ID == s.ActiveAccountID {
			return a, true
		}
	}
	return Account{}, false
}

// AddAccount appends an account with a fresh ID and selects it if it is
// the first one. The new account is returned.
func (s *Settings) AddAccount(tenant, email, token string) Account {
	a := Account{
		ID:              uuid.NewString(),
		TenantSubdomain: tenant,
		Email:           email,
		APIToken:        token,
	}
	s.Accounts = append(s.Accounts, a)
	if len(s.Accounts) == 1 {
		s.ActiveAccountID = a.ID
	}
	return a
}

// RemoveAccount deletes an account by ID, email, or tenant subdomain
// and repairs the active selection. It reports whether anything was
// removed.
func (s *Settings) RemoveAccount(ref string) bool {
	for i, a := range s.Accounts {
		if a.ID == ref || a.Email == ref || a.TenantSubdomain == ref {
			s.Accounts = append(s.Accounts[:i], s.Accounts[i+1:]...)
			s.repairActiveAccount()
			return true
		}
	}
	return false
}

// SelectAccount makes the account referenced by ID, email, or tenant
// subdomain the active one.
func (s *Settings) SelectAccount(ref string) bool {
	for _, a := range s.Accounts {
		if a.ID == ref || a.Email == ref || a.TenantSubdomain == ref {
			s.ActiveAccountID = a.ID
			return true
		}
	}
	return false
}
