package logoverlay

import (
	"fmt"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
)

func TestOverlay_HiddenByDefault(t *testing.T) {
	m := New().SetSize(80, 30).Append("entry")

	require.False(t, m.Visible())
	require.Equal(t, "bg", m.Overlay("bg"))
}

func TestOverlay_ShowsLatestEntries(t *testing.T) {
	m := New().SetSize(80, 30)
	for i := 0; i < 100; i++ {
		m = m.Append(fmt.Sprintf("line %03d\n", i))
	}
	m = m.Toggle()

	out := ansi.Strip(m.Overlay(strings.Repeat("\n", 29)))
	require.Contains(t, out, "line 099")
	require.NotContains(t, out, "line 000")
}

func TestOverlay_CapsBuffer(t *testing.T) {
	m := New()
	for i := 0; i < maxEntries+10; i++ {
		m = m.Append("x")
	}
	require.Equal(t, maxEntries, m.Len())
}

func TestListen_NilWhenLoggingDisabled(t *testing.T) {
	require.Nil(t, Listen(nil))
}
