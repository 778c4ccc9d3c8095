// Package logoverlay shows recent debug log entries on top of the TUI.
package logoverlay

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/mrreacto/reacto/internal/log"
	"github.com/mrreacto/reacto/internal/ui/overlay"
	"github.com/mrreacto/reacto/internal/ui/styles"
)

const (
	maxEntries = 500
	boxMaxW    = 160
	boxMinW    = 40
	viewMaxH   = 25
	viewMinH   = 5
)

// Model buffers log lines and renders them in a scrollable box.
type Model struct {
	visible  bool
	entries  []string
	width    int
	height   int
	viewport viewport.Model
}

// New creates a hidden overlay.
func New() Model {
	return Model{viewport: viewport.New(0, 0)}
}

// Visible reports whether the overlay is showing.
func (m Model) Visible() bool {
	return m.visible
}

// Toggle shows or hides the overlay.
func (m Model) Toggle() Model {
	m.visible = !m.visible
	if m.visible {
		m.refresh()
	}
	return m
}

// Len returns the number of buffered entries.
func (m Model) Len() int {
	return len(m.entries)
}

// SetSize sizes the box relative to the terminal.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	m.refresh()
	return m
}

// Append buffers one entry, dropping the oldest beyond maxEntries.
func (m Model) Append(entry string) Model {
	m.entries = append(m.entries, strings.TrimRight(entry, "\n"))
	if len(m.entries) > maxEntries {
		m.entries = append([]string(nil), m.entries[len(m.entries)-maxEntries:]...)
	}
	if m.visible {
		m.refresh()
	}
	return m
}

// Update scrolls the viewport while visible.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.visible {
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) boxWidth() int {
	return min(max(m.width-4, boxMinW), boxMaxW)
}

func (m *Model) refresh() {
	w := m.boxWidth() - 4
	h := min(max(m.height-6, viewMinH), viewMaxH)
	m.viewport.Width = w
	m.viewport.Height = h

	lines := make([]string, len(m.entries))
	for i, e := range m.entries {
		lines[i] = ansi.Truncate(e, w, "…")
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))
	m.viewport.GotoBottom()
}

// Overlay draws the box centered over bg.
func (m Model) Overlay(bg string) string {
	if !m.visible {
		return bg
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.OverlayBorderColor).
		Padding(0, 1).
		Width(m.boxWidth() - 2).
		Render(styles.TitleStyle.Render("Log") + "\n" + m.viewport.View())

	return overlay.Place(overlay.Config{Width: m.width, Height: m.height}, box, bg)
}

// Listen starts following the default logger. Returns nil when logging is
// disabled.
func Listen(l *log.LogListener) tea.Cmd {
	if l == nil {
		return nil
	}
	return l.Listen()
}
