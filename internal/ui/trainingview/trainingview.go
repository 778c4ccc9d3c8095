// Package trainingview renders an active session: the countdown, the flash
// band shown while a cue pulse is active, and the stop button.
package trainingview

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/mrreacto/reacto/internal/i18n"
	"github.com/mrreacto/reacto/internal/keys"
	"github.com/mrreacto/reacto/internal/session"
	"github.com/mrreacto/reacto/internal/ui/styles"
)

const (
	zoneStop   = "trainingview-stop"
	bandHeight = 3
	minWidth   = 20
)

// StopMsg asks the owner to stop the session.
type StopMsg struct{}

// Model mirrors the latest session snapshot.
type Model struct {
	tr     *i18n.Translator
	snap   session.Snapshot
	width  int
	height int
}

// New creates a training view.
func New(tr *i18n.Translator) Model {
	return Model{tr: tr}
}

// SetTranslator switches the display language.
func (m Model) SetTranslator(tr *i18n.Translator) Model {
	m.tr = tr
	return m
}

// SetSize sets the band width.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	return m
}

// SetSnapshot replaces the displayed state.
func (m Model) SetSnapshot(s session.Snapshot) Model {
	m.snap = s
	return m
}

// Snapshot returns the displayed state.
func (m Model) Snapshot() session.Snapshot {
	return m.snap
}

// Update turns the stop key or a click on the stop button into StopMsg.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	stop := func() tea.Msg { return StopMsg{} }

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, keys.Training.Stop) {
			return m, stop
		}
	case tea.MouseMsg:
		if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		if z := zone.Get(zoneStop); z != nil && z.InBounds(msg) {
			return m, stop
		}
	}
	return m, nil
}

// View renders the training screen.
func (m Model) View() string {
	title := styles.TitleStyle.Render(m.tr.T(i18n.KeyTrainingTitle))
	remaining := lipgloss.JoinHorizontal(lipgloss.Top,
		styles.LabelStyle.Render(m.tr.T(i18n.KeyRemaining)+" "),
		styles.CountdownStyle.Render(session.FormatRemaining(m.snap.Remaining)),
	)
	button := zone.Mark(zoneStop, styles.DangerButtonFocusedStyle.Render(m.tr.T(i18n.KeyStop)))

	// Never narrower than the widest line, so no label wraps.
	width := max(m.width, minWidth, lipgloss.Width(title), lipgloss.Width(remaining), lipgloss.Width(button))

	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	return strings.Join([]string{
		center.Render(title),
		"",
		center.Render(remaining),
		"",
		m.band(width),
		"",
		center.Render(button),
	}, "\n")
}

// band is a full-width block, filled only while the pulse is active, so the
// layout does not jump between cues.
func (m Model) band(width int) string {
	style := styles.IdleBandStyle
	if m.snap.PulseActive {
		style = styles.PulseBandStyle
	}
	row := style.Render(strings.Repeat(" ", width))
	rows := make([]string, bandHeight)
	for i := range rows {
		rows[i] = row
	}
	return strings.Join(rows, "\n")
}
