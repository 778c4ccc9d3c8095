package toaster

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestToaster_ShowHide(t *testing.T) {
	m := New()
	require.False(t, m.Visible())
	require.Empty(t, m.View())

	m = m.Show("Harjoitus päättyi", StyleSuccess)
	require.True(t, m.Visible())
	require.Contains(t, m.View(), "Harjoitus päättyi")
	require.Contains(t, m.View(), "✓")

	m = m.Hide()
	require.False(t, m.Visible())
	require.Empty(t, m.View())
}

func TestToaster_StylesUseIcons(t *testing.T) {
	require.Contains(t, New().Show("x", StyleError).View(), "✗")
	require.Contains(t, New().Show("x", StyleInfo).View(), "i x")
	require.Contains(t, New().Show("x", StyleWarn).View(), "! x")
}

func TestToaster_ShowReplacesExisting(t *testing.T) {
	m := New().Show("First", StyleSuccess).Show("Second", StyleError)

	require.Contains(t, m.View(), "Second")
	require.NotContains(t, m.View(), "First")
	require.Equal(t, "Second", m.Message())
}

func TestToaster_StaleDismissIgnored(t *testing.T) {
	m := New().Show("First", StyleInfo)
	stale := m.ScheduleDismiss(time.Millisecond)().(DismissMsg)

	m = m.Show("Second", StyleInfo)
	m = m.Dismiss(stale)
	require.True(t, m.Visible())

	current := m.ScheduleDismiss(time.Millisecond)().(DismissMsg)
	m = m.Dismiss(current)
	require.False(t, m.Visible())
}

func TestToaster_Overlay(t *testing.T) {
	bg := strings.TrimSuffix(strings.Repeat(strings.Repeat(".", 40)+"\n", 10), "\n")

	require.Equal(t, bg, New().Overlay(bg, 40, 10))

	out := New().Show("Saved", StyleSuccess).Overlay(bg, 40, 10)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 10)
	require.Contains(t, lines[7], "Saved")
	require.Equal(t, strings.Repeat(".", 40), lines[9])
}
