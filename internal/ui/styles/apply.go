package styles

import (
	"fmt"
	"regexp"

	"github.com/charmbracelet/lipgloss"
)

// styleRebuilders holds callbacks to rebuild styles in other packages.
var styleRebuilders []func()

// RegisterStyleRebuilder adds a callback that will be called after ApplyTheme
// updates colors. Use this to rebuild styles in packages that depend on styles.
func RegisterStyleRebuilder(fn func()) {
	styleRebuilders = append(styleRebuilders, fn)
}

// ThemeConfig mirrors config.ThemeConfig to avoid circular imports.
type ThemeConfig struct {
	Pulse  string
	Accent string
	Error  string
	Muted  string
}

var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ApplyTheme overrides the palette with configured hex colors and rebuilds
// every derived style. Empty values keep the current color. On error no
// color is changed.
func ApplyTheme(cfg ThemeConfig) error {
	overrides := []struct {
		name  string
		value string
		apply func(lipgloss.AdaptiveColor)
	}{
		{"pulse", cfg.Pulse, func(c lipgloss.AdaptiveColor) { PulseColor = c }},
		{"accent", cfg.Accent, func(c lipgloss.AdaptiveColor) {
			AccentColor = c
			ButtonPrimaryFocusBgColor = c
			FormInputFocusedBorderColor = c
		}},
		{"error", cfg.Error, func(c lipgloss.AdaptiveColor) {
			StatusErrorColor = c
			ToastBorderErrorColor = c
		}},
		{"muted", cfg.Muted, func(c lipgloss.AdaptiveColor) {
			TextMutedColor = c
			FormInputBorderColor = c
			OverlayBorderColor = c
		}},
	}

	for _, o := range overrides {
		if o.value != "" && !hexColorPattern.MatchString(o.value) {
			return fmt.Errorf("invalid hex color for %s: %s", o.name, o.value)
		}
	}
	for _, o := range overrides {
		if o.value != "" {
			o.apply(lipgloss.AdaptiveColor{Light: o.value, Dark: o.value})
		}
	}

	rebuildStyles()
	return nil
}

func rebuildStyles() {
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(TextPrimaryColor)
	LabelStyle = lipgloss.NewStyle().Foreground(TextPrimaryColor)
	HintStyle = lipgloss.NewStyle().Foreground(TextMutedColor)
	ErrorStyle = lipgloss.NewStyle().Foreground(StatusErrorColor)

	InputStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(FormInputBorderColor).
		Padding(0, 1)
	InputFocusedStyle = InputStyle.BorderForeground(FormInputFocusedBorderColor)

	baseButton := lipgloss.NewStyle().Padding(0, 2).Bold(true).Foreground(ButtonTextColor)
	PrimaryButtonStyle = baseButton.Background(ButtonPrimaryBgColor)
	PrimaryButtonFocusedStyle = baseButton.
		Background(ButtonPrimaryFocusBgColor).
		Underline(true).
		UnderlineSpaces(true)
	DangerButtonStyle = baseButton.Background(ButtonDangerBgColor)
	DangerButtonFocusedStyle = baseButton.
		Background(ButtonDangerFocusBgColor).
		Underline(true).
		UnderlineSpaces(true)

	LanguageStyle = lipgloss.NewStyle().Foreground(TextMutedColor).Padding(0, 1)
	LanguageActiveStyle = lipgloss.NewStyle().Foreground(AccentColor).Bold(true).Underline(true).Padding(0, 1)

	CountdownStyle = lipgloss.NewStyle().Bold(true).Foreground(TextPrimaryColor)
	PulseBandStyle = lipgloss.NewStyle().Background(PulseColor)
	IdleBandStyle = lipgloss.NewStyle()

	for _, fn := range styleRebuilders {
		fn()
	}
}
