package trainingview

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"github.com/mrreacto/reacto/internal/i18n"
	"github.com/mrreacto/reacto/internal/session"
)

func init() {
	zone.NewGlobal()
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func render(m Model) string {
	return zone.Scan(m.View())
}

func TestView_ShowsCountdown(t *testing.T) {
	m := New(i18n.Default().Translator(i18n.English)).
		SetSize(40, 20).
		SetSnapshot(session.Snapshot{Remaining: 75, Active: true})

	plain := ansi.Strip(render(m))
	require.Contains(t, plain, "Training in Progress")
	require.Contains(t, plain, "Time Remaining: 01:15")
	require.Contains(t, plain, "Stop Training")
}

func TestView_Finnish(t *testing.T) {
	m := New(i18n.Default().Translator(i18n.Finnish)).SetSnapshot(session.Snapshot{Remaining: 1})

	plain := ansi.Strip(render(m))
	require.Contains(t, plain, "Harjoitus Käynnissä")
	require.Contains(t, plain, "Aikaa Jäljellä: 00:01")
	require.Contains(t, plain, "Lopeta Harjoitus")
}

func TestView_NarrowWidthKeepsLabelsOnOneLine(t *testing.T) {
	for _, width := range []int{0, 5, 20} {
		m := New(i18n.Default().Translator(i18n.Finnish)).
			SetSize(width, 20).
			SetSnapshot(session.Snapshot{Remaining: 3599})

		lines := strings.Split(ansi.Strip(render(m)), "\n")
		require.Contains(t, lines[2], "Aikaa Jäljellä: 59:59", "width %d", width)
		require.Equal(t, lipgloss.Width(lines[2]), lipgloss.Width(lines[4]), "band spans the content width")
	}
}

func TestView_BandOnlyColoredDuringPulse(t *testing.T) {
	m := New(i18n.Default().Translator(i18n.English)).SetSize(40, 20)

	idle := render(m.SetSnapshot(session.Snapshot{Remaining: 10}))
	pulse := render(m.SetSnapshot(session.Snapshot{Remaining: 10, PulseActive: true}))

	require.NotEqual(t, idle, pulse)
	require.Equal(t, strings.Count(ansi.Strip(idle), "\n"), strings.Count(ansi.Strip(pulse), "\n"), "layout is stable across pulses")
	require.Contains(t, pulse, "48;2;", "pulse band sets a background color")
}

func TestUpdate_StopKeys(t *testing.T) {
	m := New(i18n.Default().Translator(i18n.English))

	for _, k := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("s")},
		{Type: tea.KeyEsc},
	} {
		_, cmd := m.Update(k)
		require.NotNil(t, cmd, k.String())
		require.Equal(t, StopMsg{}, cmd())
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	require.Nil(t, cmd)
}
