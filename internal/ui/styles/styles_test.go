package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/require"
)

func resetTheme(t *testing.T) {
	t.Helper()
	pulse, accent, errColor, muted := PulseColor, AccentColor, StatusErrorColor, TextMutedColor
	focusBg, focusBorder, toastErr := ButtonPrimaryFocusBgColor, FormInputFocusedBorderColor, ToastBorderErrorColor
	inputBorder, overlayBorder := FormInputBorderColor, OverlayBorderColor
	rebuilders := styleRebuilders
	t.Cleanup(func() {
		PulseColor, AccentColor, StatusErrorColor, TextMutedColor = pulse, accent, errColor, muted
		ButtonPrimaryFocusBgColor, FormInputFocusedBorderColor, ToastBorderErrorColor = focusBg, focusBorder, toastErr
		FormInputBorderColor, OverlayBorderColor = inputBorder, overlayBorder
		styleRebuilders = rebuilders
		rebuildStyles()
	})
}

func TestApplyTheme_EmptyKeepsDefaults(t *testing.T) {
	resetTheme(t)
	before := PulseColor

	require.NoError(t, ApplyTheme(ThemeConfig{}))
	require.Equal(t, before, PulseColor)
}

func TestApplyTheme_Overrides(t *testing.T) {
	resetTheme(t)

	err := ApplyTheme(ThemeConfig{Pulse: "#00FF00", Accent: "#123", Error: "#ABCDEF", Muted: "#444444"})
	require.NoError(t, err)

	require.Equal(t, lipgloss.AdaptiveColor{Light: "#00FF00", Dark: "#00FF00"}, PulseColor)
	require.Equal(t, "#123", AccentColor.Dark)
	require.Equal(t, "#123", FormInputFocusedBorderColor.Dark)
	require.Equal(t, "#ABCDEF", ToastBorderErrorColor.Dark)
	require.Equal(t, "#444444", OverlayBorderColor.Dark)
	require.Equal(t, lipgloss.Color("#00FF00"), lipgloss.Color(PulseBandStyle.GetBackground().(lipgloss.AdaptiveColor).Dark))
}

func TestApplyTheme_InvalidColorChangesNothing(t *testing.T) {
	resetTheme(t)
	before := PulseColor

	err := ApplyTheme(ThemeConfig{Pulse: "#00FF00", Muted: "grey"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid hex color for muted")
	require.Equal(t, before, PulseColor)
}

func TestApplyTheme_RunsRebuilders(t *testing.T) {
	resetTheme(t)
	calls := 0
	RegisterStyleRebuilder(func() { calls++ })

	require.NoError(t, ApplyTheme(ThemeConfig{Accent: "#FFFFFF"}))
	require.Equal(t, 1, calls)
}

func TestTruncateString(t *testing.T) {
	require.Equal(t, "", TruncateString("hello", 0))
	require.Equal(t, "hello", TruncateString("hello", 5))
	require.Equal(t, "..", TruncateString("hello", 2))
	require.Equal(t, "he...", TruncateString("hello world", 5))
}
