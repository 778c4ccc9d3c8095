package markdown

import (
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"

	"github.com/mrreacto/reacto/internal/i18n"
)

func TestRenderer_RendersHelpTables(t *testing.T) {
	r, err := New(60, "notty")
	require.NoError(t, err)
	require.Equal(t, 60, r.Width())

	cells := map[i18n.Language][]string{
		i18n.English: {"Move between fields", "Stop training", "Toggle this help"},
		i18n.Finnish: {"Siirry kenttien välillä", "Aloita harjoitus"},
	}
	for _, lang := range i18n.Supported() {
		out, err := r.Render(i18n.Default().Translator(lang).Help())
		require.NoError(t, err, lang)

		plain := ansi.Strip(out)
		require.Contains(t, plain, "ctrl+c", lang)
		for _, cell := range cells[lang] {
			require.Contains(t, plain, cell, lang)
		}
	}
}

func TestRenderer_TrimsTrailingNewlines(t *testing.T) {
	r, err := New(40, "notty")
	require.NoError(t, err)

	out, err := r.Render("# Title\n\nbody\n")
	require.NoError(t, err)
	require.NotEqual(t, '\n', out[len(out)-1])
}
