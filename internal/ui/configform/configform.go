// Package configform is the session configuration screen: three numeric
// fields, a language selector and the start button.
//
// A field is validated when it loses focus and every field is validated on
// submit. Whenever the three values form a valid configuration the form
// emits ParamsChangedMsg so the caller can persist them; invalid
// combinations are never emitted.
package configform

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/reflow/wordwrap"

	"github.com/mrreacto/reacto/internal/i18n"
	"github.com/mrreacto/reacto/internal/keys"
	"github.com/mrreacto/reacto/internal/session"
	"github.com/mrreacto/reacto/internal/ui/styles"
)

// Field identifies a focusable element, in tab order.
type Field int

const (
	FieldDuration Field = iota
	FieldMinInterval
	FieldMaxInterval
	FieldLanguage
	FieldStart
	fieldCount
)

const numericFields = 3

const (
	zoneStart       = "configform-start"
	zoneInputPrefix = "configform-input-"
	zoneLangPrefix  = "configform-lang-"
)

// Limits bound the session duration accepted by the form, in seconds.
type Limits struct {
	MinDuration int
	MaxDuration int
}

// DefaultLimits are 30 seconds to 60 minutes.
func DefaultLimits() Limits {
	return Limits{MinDuration: 30, MaxDuration: 3600}
}

// ParamsChangedMsg carries a valid configuration that differs from the last
// one emitted.
type ParamsChangedMsg struct {
	Params session.Params
}

// LanguageChangedMsg is sent when the user picks another language.
type LanguageChangedMsg struct {
	Language i18n.Language
}

// SubmitMsg is sent when a valid form is submitted.
type SubmitMsg struct {
	Params session.Params
}

// fieldError keeps the message key so errors re-render on a language switch.
type fieldError struct {
	key  string
	args []any
}

// Model is the configuration form state.
type Model struct {
	tr      *i18n.Translator
	limits  Limits
	inputs  [numericFields]textinput.Model
	errs    [numericFields]*fieldError
	focus   Field
	width   int
	emitted session.Params
}

// New creates a form prefilled with params, focused on the duration field.
func New(tr *i18n.Translator, params session.Params, limits Limits) Model {
	m := Model{tr: tr, limits: limits, emitted: params}
	values := [numericFields]int{params.DurationSeconds, params.MinIntervalSeconds, params.MaxIntervalSeconds}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 5
		ti.Width = 8
		ti.Cursor.SetMode(cursor.CursorStatic)
		ti.SetValue(strconv.Itoa(values[i]))
		m.inputs[i] = ti
	}
	m.inputs[FieldDuration].Focus()
	return m
}

// Init returns nil; the cursor is static.
func (m Model) Init() tea.Cmd {
	return nil
}

// SetTranslator switches the display language.
func (m Model) SetTranslator(tr *i18n.Translator) Model {
	m.tr = tr
	return m
}

// SetSize sets the width used to wrap error messages.
func (m Model) SetSize(width, _ int) Model {
	m.width = width
	return m
}

// Focused returns the focused element.
func (m Model) Focused() Field {
	return m.focus
}

// Error returns the rendered validation message of a numeric field.
func (m Model) Error(f Field) string {
	if f < 0 || int(f) >= numericFields || m.errs[f] == nil {
		return ""
	}
	return m.tr.T(m.errs[f].key, m.errs[f].args...)
}

// Value returns the raw text of a numeric field.
func (m Model) Value(f Field) string {
	if f < 0 || int(f) >= numericFields {
		return ""
	}
	return m.inputs[f].Value()
}

// Params parses and validates every field without touching error state.
func (m Model) Params() (session.Params, bool) {
	for f := Field(0); f < numericFields; f++ {
		if m.check(f) != nil {
			return session.Params{}, false
		}
	}
	p, _ := m.parsed()
	return p, true
}

// Update handles key and mouse input.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Config.Submit):
			return m.submit()
		case key.Matches(msg, keys.Config.NextField):
			return m.moveFocus(m.focus + 1)
		case key.Matches(msg, keys.Config.PrevField):
			return m.moveFocus(m.focus - 1)
		}

		if m.focus == FieldLanguage {
			switch {
			case key.Matches(msg, keys.Config.LangNext):
				return m.setLanguage(m.tr.Language().Next())
			case key.Matches(msg, keys.Config.LangPrev):
				return m.setLanguage(m.tr.Language().Prev())
			}
			return m, nil
		}

		if int(m.focus) < numericFields {
			var cmd tea.Cmd
			m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
			changed := m.emitIfValid()
			return m, tea.Batch(cmd, changed)
		}
		return m, nil

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		return m.handleClick(msg)
	}

	if int(m.focus) < numericFields {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleClick(msg tea.MouseMsg) (Model, tea.Cmd) {
	if z := zone.Get(zoneStart); z != nil && z.InBounds(msg) {
		m, _ = m.moveFocus(FieldStart)
		return m.submit()
	}
	for _, lang := range i18n.Supported() {
		if z := zone.Get(zoneLangPrefix + string(lang)); z != nil && z.InBounds(msg) {
			focused, cmd := m.moveFocus(FieldLanguage)
			switched, langCmd := focused.setLanguage(lang)
			return switched, tea.Batch(cmd, langCmd)
		}
	}
	for f := Field(0); f < numericFields; f++ {
		if z := zone.Get(zoneInputPrefix + strconv.Itoa(int(f))); z != nil && z.InBounds(msg) {
			return m.moveFocus(f)
		}
	}
	return m, nil
}

// moveFocus blurs the current element, validating it, and focuses next.
// Focus wraps around.
func (m Model) moveFocus(next Field) (Model, tea.Cmd) {
	next = (next%fieldCount + fieldCount) % fieldCount
	if next == m.focus {
		return m, nil
	}

	if int(m.focus) < numericFields {
		m.inputs[m.focus].Blur()
		m.errs[m.focus] = m.check(m.focus)
		// A new minimum can fix or break the maximum.
		if m.focus == FieldMinInterval && m.errs[FieldMaxInterval] != nil {
			m.errs[FieldMaxInterval] = m.check(FieldMaxInterval)
		}
	}

	m.focus = next
	var cmd tea.Cmd
	if int(next) < numericFields {
		cmd = m.inputs[next].Focus()
	}
	return m, cmd
}

func (m Model) submit() (Model, tea.Cmd) {
	for f := Field(0); f < numericFields; f++ {
		m.errs[f] = m.check(f)
	}
	params, ok := m.Params()
	if !ok {
		return m, nil
	}
	submitted := func() tea.Msg { return SubmitMsg{Params: params} }
	if changed := m.emitIfValid(); changed != nil {
		return m, tea.Sequence(changed, submitted)
	}
	return m, submitted
}

func (m Model) setLanguage(lang i18n.Language) (Model, tea.Cmd) {
	if lang == m.tr.Language() {
		return m, nil
	}
	m.tr = i18n.Default().Translator(lang)
	return m, func() tea.Msg { return LanguageChangedMsg{Language: lang} }
}

// emitIfValid returns a command announcing the current values when they are
// valid and differ from the last announcement. The caller must keep the
// returned model so the comparison sees the update.
func (m *Model) emitIfValid() tea.Cmd {
	params, ok := m.Params()
	if !ok || params == m.emitted {
		return nil
	}
	m.emitted = params
	return func() tea.Msg { return ParamsChangedMsg{Params: params} }
}

func (m Model) parsed() (session.Params, [numericFields]bool) {
	var vals [numericFields]int
	var ok [numericFields]bool
	for i := range m.inputs {
		v, err := strconv.Atoi(strings.TrimSpace(m.inputs[i].Value()))
		vals[i], ok[i] = v, err == nil
	}
	return session.Params{
		DurationSeconds:    vals[FieldDuration],
		MinIntervalSeconds: vals[FieldMinInterval],
		MaxIntervalSeconds: vals[FieldMaxInterval],
	}, ok
}

// check validates one numeric field against the current values.
func (m Model) check(f Field) *fieldError {
	p, ok := m.parsed()
	if !ok[f] {
		return &fieldError{key: i18n.KeyNotANumber}
	}

	switch f {
	case FieldDuration:
		if p.DurationSeconds < m.limits.MinDuration {
			return &fieldError{key: i18n.KeyDurationMin, args: []any{m.limits.MinDuration}}
		}
		if p.DurationSeconds > m.limits.MaxDuration {
			return &fieldError{key: i18n.KeyDurationMax, args: []any{m.limits.MaxDuration / 60}}
		}
	case FieldMinInterval:
		if p.MinIntervalSeconds <= 0 {
			return &fieldError{key: i18n.KeyMinPositive}
		}
	case FieldMaxInterval:
		if p.MaxIntervalSeconds <= 0 || (ok[FieldMinInterval] && p.MaxIntervalSeconds <= p.MinIntervalSeconds) {
			return &fieldError{key: i18n.KeyMaxGreater}
		}
	}
	return nil
}

// View renders the form.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render(m.tr.T(i18n.KeyConfigTitle)))
	b.WriteString("\n\n")

	labels := [numericFields]string{i18n.KeyDuration, i18n.KeyMinInterval, i18n.KeyMaxInterval}
	for f := Field(0); f < numericFields; f++ {
		b.WriteString(styles.LabelStyle.Render(m.tr.T(labels[f])))
		b.WriteString("\n")

		box := styles.InputStyle
		if m.focus == f {
			box = styles.InputFocusedStyle
		}
		b.WriteString(zone.Mark(zoneInputPrefix+strconv.Itoa(int(f)), box.Render(m.inputs[f].View())))
		b.WriteString("\n")

		if f == FieldDuration {
			hint := m.tr.T(i18n.KeyDurationHelp, m.limits.MinDuration, m.limits.MaxDuration/60, m.limits.MaxDuration)
			b.WriteString(styles.HintStyle.Render(m.wrap(hint)))
			b.WriteString("\n")
		}
		if msg := m.Error(f); msg != "" {
			b.WriteString(styles.ErrorStyle.Render(m.wrap(msg)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(m.languageView())
	b.WriteString("\n\n")

	button := styles.PrimaryButtonStyle
	if m.focus == FieldStart {
		button = styles.PrimaryButtonFocusedStyle
	}
	b.WriteString(zone.Mark(zoneStart, button.Render(m.tr.T(i18n.KeyStart))))

	return b.String()
}

func (m Model) languageView() string {
	label := styles.LabelStyle.Render(m.tr.T(i18n.KeyLanguage) + ":")
	if m.focus == FieldLanguage {
		label = lipgloss.NewStyle().Foreground(styles.AccentColor).Render(m.tr.T(i18n.KeyLanguage) + ":")
	}

	parts := []string{label}
	for _, lang := range i18n.Supported() {
		style := styles.LanguageStyle
		if lang == m.tr.Language() {
			style = styles.LanguageActiveStyle
		}
		name := m.tr.T(i18n.LanguageNameKey(lang))
		parts = append(parts, zone.Mark(zoneLangPrefix+string(lang), style.Render(name)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Model) wrap(s string) string {
	if m.width <= 0 {
		return s
	}
	return wordwrap.String(s, m.width)
}
