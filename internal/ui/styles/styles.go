// Package styles contains Lip Gloss style definitions.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Text hierarchy
	TextPrimaryColor = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#CCCCCC"}
	TextMutedColor   = lipgloss.AdaptiveColor{Light: "#8C8C8C", Dark: "#696969"} // Hints, help text, footers

	// Status
	StatusErrorColor = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}

	// Accent marks focus and the active language.
	AccentColor = lipgloss.AdaptiveColor{Light: "#3498DB", Dark: "#54A0FF"}

	// PulseColor fills the flash band while a cue pulse is active.
	PulseColor = lipgloss.AdaptiveColor{Light: "#E74C3C", Dark: "#FF5F5F"}

	// Buttons
	ButtonTextColor           = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#FFFFFF"}
	ButtonPrimaryBgColor      = lipgloss.AdaptiveColor{Light: "#1A5276", Dark: "#1A5276"}
	ButtonPrimaryFocusBgColor = lipgloss.AdaptiveColor{Light: "#3498DB", Dark: "#3498DB"}
	ButtonDangerBgColor       = lipgloss.AdaptiveColor{Light: "#922B21", Dark: "#922B21"}
	ButtonDangerFocusBgColor  = lipgloss.AdaptiveColor{Light: "#E74C3C", Dark: "#E74C3C"}

	// Form inputs
	FormInputBorderColor        = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#8C8C8C"}
	FormInputFocusedBorderColor = lipgloss.AdaptiveColor{Light: "#3498DB", Dark: "#FFFFFF"}

	// Overlays and toasts
	OverlayBorderColor      = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#8C8C8C"}
	ToastBorderSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	ToastBorderErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}
	ToastBorderInfoColor    = lipgloss.AdaptiveColor{Light: "#54A0FF", Dark: "#54A0FF"}
	ToastBorderWarnColor    = lipgloss.AdaptiveColor{Light: "#FECA57", Dark: "#FECA57"}
)

// Styles derived from the colors above. Rebuilt by ApplyTheme.
var (
	TitleStyle lipgloss.Style
	LabelStyle lipgloss.Style
	HintStyle  lipgloss.Style
	ErrorStyle lipgloss.Style

	InputStyle        lipgloss.Style
	InputFocusedStyle lipgloss.Style

	PrimaryButtonStyle        lipgloss.Style
	PrimaryButtonFocusedStyle lipgloss.Style
	DangerButtonStyle         lipgloss.Style
	DangerButtonFocusedStyle  lipgloss.Style

	LanguageStyle       lipgloss.Style
	LanguageActiveStyle lipgloss.Style

	CountdownStyle lipgloss.Style
	PulseBandStyle lipgloss.Style
	IdleBandStyle  lipgloss.Style
)

func init() {
	rebuildStyles()
}
