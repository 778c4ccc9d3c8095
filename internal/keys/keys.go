// Package keys contains keybinding definitions.
package keys

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/mrreacto/reacto/internal/i18n"
)

// ConfigKeyMap holds the bindings of the configuration form.
type ConfigKeyMap struct {
	NextField key.Binding
	PrevField key.Binding
	LangPrev  key.Binding
	LangNext  key.Binding
	Submit    key.Binding
	Help      key.Binding
	Quit      key.Binding
}

// TrainingKeyMap holds the bindings of the training view.
type TrainingKeyMap struct {
	Stop key.Binding
	Help key.Binding
	Quit key.Binding
}

// Config is the configuration form keymap. Replace it with Localize when the
// language changes.
var Config = ConfigKeyMap{
	NextField: key.NewBinding(
		key.WithKeys("tab", "down"),
		key.WithHelp("tab/↓", "next field"),
	),
	PrevField: key.NewBinding(
		key.WithKeys("shift+tab", "up"),
		key.WithHelp("shift+tab/↑", "previous field"),
	),
	LangPrev: key.NewBinding(
		key.WithKeys("left"),
		key.WithHelp("←", "language"),
	),
	LangNext: key.NewBinding(
		key.WithKeys("right"),
		key.WithHelp("→", "language"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "start"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
}

// Training is the training view keymap.
var Training = TrainingKeyMap{
	Stop: key.NewBinding(
		key.WithKeys("s", "esc"),
		key.WithHelp("s/esc", "stop"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
}

// Localize rewrites the help descriptions of both keymaps in the
// translator's language. Keys are unchanged.
func Localize(t *i18n.Translator) {
	relabel := func(b *key.Binding, msgKey string) {
		b.SetHelp(b.Help().Key, t.T(msgKey))
	}

	relabel(&Config.NextField, i18n.KeyKeysNextField)
	relabel(&Config.PrevField, i18n.KeyKeysPrevField)
	relabel(&Config.LangPrev, i18n.KeyKeysLanguage)
	relabel(&Config.LangNext, i18n.KeyKeysLanguage)
	relabel(&Config.Submit, i18n.KeyKeysStart)
	relabel(&Config.Help, i18n.KeyKeysHelp)
	relabel(&Config.Quit, i18n.KeyKeysQuit)

	relabel(&Training.Stop, i18n.KeyKeysStop)
	relabel(&Training.Help, i18n.KeyKeysHelp)
	relabel(&Training.Quit, i18n.KeyKeysQuit)
}

// ShortHelp returns keybindings for the short help view.
func (k ConfigKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextField, k.LangNext, k.Submit, k.Help, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k ConfigKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextField, k.PrevField},
		{k.LangPrev, k.LangNext},
		{k.Submit, k.Help, k.Quit},
	}
}

// ShortHelp returns keybindings for the short help view.
func (k TrainingKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Stop, k.Help, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k TrainingKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Stop, k.Help, k.Quit}}
}
