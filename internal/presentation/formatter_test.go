package presentation

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mrreacto/reacto/internal/prefs"
	"github.com/mrreacto/reacto/internal/session"
)

func TestFormatPreferences(t *testing.T) {
	var buf bytes.Buffer
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	err := NewFormatter(&buf).FormatPreferences(PreferencesDTO{
		Stored:    FromEntries([]prefs.Entry{{Key: prefs.KeyLanguage, Value: "en", UpdatedAt: at}}),
		Effective: FromParams("en", session.Params{DurationSeconds: 90, MinIntervalSeconds: 1, MaxIntervalSeconds: 3}),
	})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	stored := decoded["stored"].([]any)
	require.Len(t, stored, 1)
	require.Equal(t, "ui.language", stored[0].(map[string]any)["key"])
	require.Equal(t, "2026-03-01T12:00:00Z", stored[0].(map[string]any)["updated_at"])

	effective := decoded["effective"].(map[string]any)
	require.Equal(t, "en", effective["language"])
	require.EqualValues(t, 90, effective["duration"])
	require.EqualValues(t, 3, effective["max_interval"])
}

func TestFromEntries_EmptyIsNotNull(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(&buf).FormatResult(FromEntries(nil)))
	require.Equal(t, "[]\n", buf.String())
}
