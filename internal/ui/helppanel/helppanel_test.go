package helppanel

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"

	"github.com/mrreacto/reacto/internal/i18n"
)

func TestPanel_RendersPerLanguage(t *testing.T) {
	p := New("notty")
	bg := strings.Repeat("\n", 39)

	en := ansi.Strip(p.Overlay(i18n.Default().Translator(i18n.English), bg, 100, 40))
	require.Contains(t, en, "Stop training")

	fi := ansi.Strip(p.Overlay(i18n.Default().Translator(i18n.Finnish), bg, 100, 40))
	require.Contains(t, fi, "Lopeta ohjelma")
	require.Equal(t, i18n.Finnish, p.lang)
}

func TestPanel_CachesRender(t *testing.T) {
	p := New("notty")
	tr := i18n.Default().Translator(i18n.English)

	p.Overlay(tr, "", 80, 30)
	p.body = "cached"

	out := p.Overlay(tr, "", 80, 30)
	require.Contains(t, out, "cached")

	out = p.Overlay(tr, "", 60, 30)
	require.NotContains(t, out, "cached", "width change re-renders")
}
