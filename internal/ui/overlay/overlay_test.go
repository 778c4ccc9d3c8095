package overlay

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/require"
)

const bg5x5 = "AAAAA\nAAAAA\nAAAAA\nAAAAA\nAAAAA"

func TestPlace_Center(t *testing.T) {
	got := Place(Config{Width: 5, Height: 5}, "X", bg5x5)

	lines := strings.Split(got, "\n")
	require.Len(t, lines, 5)
	require.Equal(t, "AAXAA", lines[2])
	require.Equal(t, "AAAAA", lines[0])
}

func TestPlace_TopWithPadding(t *testing.T) {
	got := Place(Config{Width: 5, Height: 5, Position: Top, PadY: 1}, "XXX", bg5x5)

	lines := strings.Split(got, "\n")
	require.Equal(t, "AAAAA", lines[0])
	require.Equal(t, "AXXXA", lines[1])
}

func TestPlace_Bottom(t *testing.T) {
	got := Place(Config{Width: 5, Height: 5, Position: Bottom, PadY: 1}, "X", bg5x5)

	lines := strings.Split(got, "\n")
	require.Equal(t, "AAXAA", lines[3])
	require.Equal(t, "AAAAA", lines[4])
}

func TestPlace_PadsShortBackground(t *testing.T) {
	got := Place(Config{Width: 4, Height: 3}, "XX", "")

	lines := strings.Split(got, "\n")
	require.Len(t, lines, 3)
	require.Equal(t, " XX ", lines[1])
}

func TestPlace_OversizedForegroundClampsToOrigin(t *testing.T) {
	got := Place(Config{Width: 3, Height: 2}, "XXXXX\nXXXXX\nXXXXX", "AAA\nAAA")

	lines := strings.Split(got, "\n")
	require.Len(t, lines, 2)
	require.Equal(t, "XXXXX", lines[0])
}

func TestPlace_PreservesStyledBackground(t *testing.T) {
	styled := lipgloss.NewStyle().Bold(true).Render("AAAAA")
	got := Place(Config{Width: 5, Height: 1}, "X", styled)

	require.Equal(t, 5, lipgloss.Width(got))
	require.Contains(t, got, "X")
}
