package sqlite

import (
	"time"

	"github.com/mrreacto/reacto/internal/prefs"
)

// PreferenceModel is a row of the preferences table. UpdatedAt is Unix
// seconds.
type PreferenceModel struct {
	Key       string
	Value     string
	UpdatedAt int64
}

func (m PreferenceModel) toEntry() prefs.Entry {
	return prefs.Entry{
		Key:       m.Key,
		Value:     m.Value,
		UpdatedAt: time.Unix(m.UpdatedAt, 0),
	}
}
