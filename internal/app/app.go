// Package app contains the root application model.
package app

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/mrreacto/reacto/internal/config"
	"github.com/mrreacto/reacto/internal/i18n"
	"github.com/mrreacto/reacto/internal/keys"
	"github.com/mrreacto/reacto/internal/log"
	"github.com/mrreacto/reacto/internal/prefs"
	"github.com/mrreacto/reacto/internal/pubsub"
	"github.com/mrreacto/reacto/internal/session"
	"github.com/mrreacto/reacto/internal/sound"
	"github.com/mrreacto/reacto/internal/ui/configform"
	"github.com/mrreacto/reacto/internal/ui/helppanel"
	"github.com/mrreacto/reacto/internal/ui/logoverlay"
	"github.com/mrreacto/reacto/internal/ui/styles"
	"github.com/mrreacto/reacto/internal/ui/toaster"
	"github.com/mrreacto/reacto/internal/ui/trainingview"
	"github.com/mrreacto/reacto/internal/watcher"
)

const toastDuration = 3 * time.Second

type screen int

const (
	screenConfig screen = iota
	screenTraining
)

// ConfigLoader re-reads the configuration file.
type ConfigLoader func() (config.Config, error)

// Services are the dependencies of the root model.
type Services struct {
	Session    *session.Session
	Prefs      *prefs.Service
	Config     config.Config
	ConfigPath string

	// LoadConfig is called when the watched config file changes. Nil
	// disables watching.
	LoadConfig ConfigLoader

	// LookPath resolves audio players on reload. Defaults to exec.LookPath.
	LookPath sound.LookPathFunc

	// HelpStyle is the glamour style of the help panel; empty follows the
	// terminal background.
	HelpStyle string

	Debug bool
}

// Model is the root application state.
type Model struct {
	svc    Services
	tr     *i18n.Translator
	screen screen

	form     configform.Model
	training trainingview.Model
	toaster  toaster.Model
	help     help.Model
	panel    *helppanel.Panel
	showHelp bool

	width  int
	height int

	ctx    context.Context
	cancel context.CancelFunc
	events *pubsub.ContinuousListener[session.Event]

	watcher *watcher.Watcher
	watchCh <-chan struct{}

	logOverlay  logoverlay.Model
	logListener *log.LogListener
}

// New creates the root model. Stored preferences override config defaults.
func New(svc Services) Model {
	ctx, cancel := context.WithCancel(context.Background())

	lang := svc.Prefs.Language(ctx)
	params := svc.Prefs.Params(ctx)
	tr := i18n.Default().Translator(lang)
	keys.Localize(tr)

	m := Model{
		svc:        svc,
		tr:         tr,
		form:       configform.New(tr, params, limits(svc.Config)),
		training:   trainingview.New(tr),
		toaster:    toaster.New(),
		help:       help.New(),
		panel:      helppanel.New(svc.HelpStyle),
		ctx:        ctx,
		cancel:     cancel,
		events:     pubsub.NewContinuousListener(ctx, svc.Session.Broker()),
		logOverlay: logoverlay.New(),
	}

	if svc.Debug {
		m.logListener = log.NewListener(ctx)
	}

	if svc.LoadConfig != nil && svc.ConfigPath != "" {
		w, err := watcher.New(watcher.DefaultConfig(svc.ConfigPath))
		if err == nil {
			ch, err := w.Start()
			if err == nil {
				m.watcher, m.watchCh = w, ch
			} else {
				log.Warn(log.CatWatcher, "Config watch disabled", "error", err.Error())
				_ = w.Stop()
			}
		}
	}

	log.Info(log.CatUI, "App initialized", "language", lang, "params", params)
	return m
}

func limits(cfg config.Config) configform.Limits {
	l := configform.Limits{MinDuration: cfg.Session.MinDuration, MaxDuration: cfg.Session.MaxDuration}
	if l.MinDuration <= 0 || l.MaxDuration < l.MinDuration {
		return configform.DefaultLimits()
	}
	return l
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.SetWindowTitle(m.tr.WindowTitle()),
		m.form.Init(),
		m.events.Listen(),
		logoverlay.Listen(m.logListener),
	}
	if m.watcher != nil {
		cmds = append(cmds, m.watcher.WaitCmd(m.watchCh))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.form = m.form.SetSize(msg.Width, msg.Height)
		m.training = m.training.SetSize(msg.Width, msg.Height)
		m.logOverlay = m.logOverlay.SetSize(msg.Width, msg.Height)
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Config.Quit):
			return m.quit()
		case m.svc.Debug && msg.String() == "ctrl+x":
			m.logOverlay = m.logOverlay.Toggle()
			return m, nil
		case m.logOverlay.Visible():
			var cmd tea.Cmd
			m.logOverlay, cmd = m.logOverlay.Update(msg)
			return m, cmd
		case key.Matches(msg, keys.Config.Help):
			m.showHelp = !m.showHelp
			return m, nil
		case m.showHelp && msg.Type == tea.KeyEsc:
			m.showHelp = false
			return m, nil
		}

	case pubsub.Event[session.Event]:
		return m.handleSessionEvent(msg)

	case configform.SubmitMsg:
		return m.startSession(msg.Params)

	case configform.ParamsChangedMsg:
		if err := m.svc.Prefs.SaveParams(m.ctx, msg.Params); err != nil {
			log.ErrorErr(log.CatPrefs, "Saving params failed", err)
			return m.toast(m.tr.T(i18n.KeyToastPrefsFailed), toaster.StyleError)
		}
		return m, nil

	case configform.LanguageChangedMsg:
		cmd := m.setLanguage(msg.Language)
		if err := m.svc.Prefs.SaveLanguage(m.ctx, msg.Language); err != nil {
			log.ErrorErr(log.CatPrefs, "Saving language failed", err)
			next, toastCmd := m.toast(m.tr.T(i18n.KeyToastPrefsFailed), toaster.StyleError)
			return next, tea.Batch(cmd, toastCmd)
		}
		return m, cmd

	case trainingview.StopMsg:
		m.svc.Session.Stop()
		return m, nil

	case watcher.ChangedMsg:
		return m.reloadConfig()

	case toaster.DismissMsg:
		m.toaster = m.toaster.Dismiss(msg)
		return m, nil

	case log.LogEvent:
		m.logOverlay = m.logOverlay.Append(msg.Payload)
		return m, logoverlay.Listen(m.logListener)
	}

	var cmd tea.Cmd
	switch m.screen {
	case screenTraining:
		m.training, cmd = m.training.Update(msg)
	default:
		m.form, cmd = m.form.Update(msg)
	}
	return m, cmd
}

func (m Model) startSession(params session.Params) (tea.Model, tea.Cmd) {
	if err := m.svc.Session.Start(params, nil); err != nil {
		log.ErrorErr(log.CatSession, "Start rejected", err)
		if errors.Is(err, session.ErrAlreadyActive) {
			m.screen = screenTraining
			return m, nil
		}
		return m.toast(err.Error(), toaster.StyleError)
	}
	m.screen = screenTraining
	m.showHelp = false
	m.training = m.training.SetSnapshot(m.svc.Session.Snapshot())
	return m, nil
}

func (m Model) handleSessionEvent(ev pubsub.Event[session.Event]) (tea.Model, tea.Cmd) {
	listen := m.events.Listen()

	// Events from an earlier session can still be queued after a restart.
	snap := m.svc.Session.Snapshot()
	if ev.Payload.SessionID != snap.ID {
		return m, listen
	}

	switch ev.Type {
	case session.EventStopped:
		m.screen = screenConfig
		m.training = m.training.SetSnapshot(snap)
		text := m.tr.T(i18n.KeyToastComplete)
		style := toaster.StyleSuccess
		if ev.Payload.Reason == session.ReasonUser {
			text = m.tr.T(i18n.KeyToastStopped, session.FormatRemaining(ev.Payload.Remaining))
			style = toaster.StyleInfo
		}
		next, cmd := m.toast(text, style)
		return next, tea.Batch(cmd, listen)

	case session.EventPlaybackFailed:
		m.training = m.training.SetSnapshot(snap)
		next, cmd := m.toast(m.tr.T(i18n.KeyToastPlaybackFailed, ev.Payload.Err), toaster.StyleWarn)
		return next, tea.Batch(cmd, listen)
	}

	m.training = m.training.SetSnapshot(snap)
	return m, listen
}

func (m *Model) setLanguage(lang i18n.Language) tea.Cmd {
	m.tr = i18n.Default().Translator(lang)
	keys.Localize(m.tr)
	m.form = m.form.SetTranslator(m.tr)
	m.training = m.training.SetTranslator(m.tr)
	log.Info(log.CatI18n, "Language changed", "language", lang)
	return tea.SetWindowTitle(m.tr.WindowTitle())
}

// reloadConfig applies theme and audio settings from the changed file.
func (m Model) reloadConfig() (tea.Model, tea.Cmd) {
	wait := m.watcher.WaitCmd(m.watchCh)

	cfg, err := m.svc.LoadConfig()
	if err == nil {
		err = config.Validate(cfg)
	}
	if err == nil {
		err = styles.ApplyTheme(cfg.StyleTheme())
	}
	if err != nil {
		log.ErrorErr(log.CatConfig, "Config reload failed", err, "path", m.svc.ConfigPath)
		next, cmd := m.toast(err.Error(), toaster.StyleError)
		return next, tea.Batch(cmd, wait)
	}

	if cfg.Audio != m.svc.Config.Audio {
		m.svc.Session.SetCuePlayer(sound.New(cfg.SoundConfig(), m.svc.LookPath))
	}
	m.svc.Config = cfg
	log.Info(log.CatConfig, "Config reloaded", "path", m.svc.ConfigPath)

	next, cmd := m.toast(m.tr.T(i18n.KeyToastConfigReloaded), toaster.StyleInfo)
	return next, tea.Batch(cmd, wait)
}

func (m Model) toast(text string, style toaster.Style) (Model, tea.Cmd) {
	m.toaster = m.toaster.Show(text, style)
	return m, m.toaster.ScheduleDismiss(toastDuration)
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	log.Info(log.CatUI, "Quit requested", "active", m.svc.Session.Active())
	m.svc.Session.Stop()
	return m, tea.Quit
}

// View implements tea.Model.
func (m Model) View() string {
	header := lipgloss.JoinVertical(lipgloss.Center,
		styles.TitleStyle.Render(m.tr.T(i18n.KeyAppName)),
		styles.HintStyle.Render(m.tr.T(i18n.KeyAppTagline)),
	)

	var body, footer string
	switch m.screen {
	case screenTraining:
		body = m.training.View()
		footer = m.help.View(keys.Training)
	default:
		body = m.form.View()
		footer = m.help.View(keys.Config)
	}
	if !m.svc.Config.UI.ShowHelpHints {
		footer = ""
	}

	content := lipgloss.JoinVertical(lipgloss.Center, header, "", body, "", footer)
	view := content
	if m.width > 0 && m.height > 0 {
		view = lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}

	if m.showHelp {
		view = m.panel.Overlay(m.tr, view, m.width, m.height)
	}
	if m.toaster.Visible() {
		view = m.toaster.Overlay(view, m.width, m.height)
	}
	if m.svc.Debug && m.logOverlay.Visible() {
		view = m.logOverlay.Overlay(view)
	}

	return zone.Scan(view)
}

// Close stops the session, the watcher and every subscription.
func (m *Model) Close() error {
	m.svc.Session.Stop()
	m.cancel()
	if m.watcher != nil {
		return m.watcher.Stop()
	}
	return nil
}
