package config

import (
	"context"
	"encoding/json"

	"github.com/gitfolio/gitfolio/internal/logging"
)

// PreferencesKey is the store key holding user preferences. Preferences
// live in the persistent store (not the YAML config) because they are
// mutated by commands like `gitfolio theme set` rather than edited by hand.
const PreferencesKey = "preferences"

// Preferences are per-user display preferences, persisted as a flat JSON
// object under a single store key.
type Preferences struct {
	// Theme is "light", "dark", or "auto".
	Theme string `json:"theme"`

	// Animations enables interactive views; disabling it keeps all output
	// static.
	Animations bool `json:"animations"`
}

// DefaultPreferences returns the out-of-the-box preferences.
func DefaultPreferences() Preferences {
	return Preferences{
		Theme:      "auto",
		Animations: true,
	}
}

// PreferenceStore is the subset of the persistent store preferences need.
type PreferenceStore interface {
	Read(ctx context.Context, key string) ([]byte, bool)
	Write(ctx context.Context, key string, value []byte) bool
}

// LoadPreferences reads preferences from st. An absent or corrupt blob
// yields the defaults; preferences are a convenience, never a failure.
func LoadPreferences(ctx context.Context, st PreferenceStore) Preferences {
	prefs := DefaultPreferences()
	if st == nil {
		return prefs
	}

	data, ok := st.Read(ctx, PreferencesKey)
	if !ok {
		return prefs
	}
	if err := json.Unmarshal(data, &prefs); err != nil {
		logging.FromContext(ctx).Debug().
			Str("component", "config").
			Err(err).
			Msg("discarding corrupt preferences, using defaults")
		return DefaultPreferences()
	}
	return prefs
}

// SavePreferences persists prefs through st. Returns false when the write
// failed; the in-memory preferences still apply for this run.
func SavePreferences(ctx context.Context, st PreferenceStore, prefs Preferences) bool {
	if st == nil {
		return false
	}
	data, err := json.Marshal(prefs)
	if err != nil {
		logging.FromContext(ctx).Warn().
			Str("component", "config").
			Err(err).
			Msg("failed to serialize preferences")
		return false
	}
	return st.Write(ctx, PreferencesKey, data)
}
