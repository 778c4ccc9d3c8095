// Package presentation renders CLI output as JSON.
package presentation

import (
	"time"

	"github.com/mrreacto/reacto/internal/prefs"
	"github.com/mrreacto/reacto/internal/session"
)

// PreferenceDTO is one stored preference.
type PreferenceDTO struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EffectiveDTO is what the next session would start with.
type EffectiveDTO struct {
	Language           string `json:"language"`
	DurationSeconds    int    `json:"duration"`
	MinIntervalSeconds int    `json:"min_interval"`
	MaxIntervalSeconds int    `json:"max_interval"`
}

// PreferencesDTO is the output of `reacto prefs list`.
type PreferencesDTO struct {
	Stored    []PreferenceDTO `json:"stored"`
	Effective EffectiveDTO    `json:"effective"`
}

// FromEntries converts repository entries, keeping their order. Never nil.
func FromEntries(entries []prefs.Entry) []PreferenceDTO {
	out := make([]PreferenceDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, PreferenceDTO{Key: e.Key, Value: e.Value, UpdatedAt: e.UpdatedAt.UTC()})
	}
	return out
}

// FromParams builds the effective section.
func FromParams(lang string, p session.Params) EffectiveDTO {
	return EffectiveDTO{
		Language:           lang,
		DurationSeconds:    p.DurationSeconds,
		MinIntervalSeconds: p.MinIntervalSeconds,
		MaxIntervalSeconds: p.MaxIntervalSeconds,
	}
}
