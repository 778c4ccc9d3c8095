// Package helppanel renders the markdown help sheet as a centered overlay.
package helppanel

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/mrreacto/reacto/internal/i18n"
	"github.com/mrreacto/reacto/internal/log"
	"github.com/mrreacto/reacto/internal/ui/markdown"
	"github.com/mrreacto/reacto/internal/ui/overlay"
	"github.com/mrreacto/reacto/internal/ui/styles"
)

const maxWidth = 72

// Panel caches the rendered sheet per language and width; glamour
// rendering is too slow to repeat on every frame.
type Panel struct {
	style string
	lang  i18n.Language
	width int
	body  string
}

// New creates a panel. style is passed to markdown.New.
func New(style string) *Panel {
	return &Panel{style: style}
}

// Overlay draws the help sheet over bg.
func (p *Panel) Overlay(tr *i18n.Translator, bg string, width, height int) string {
	w := min(max(width-6, 20), maxWidth)
	if p.body == "" || p.lang != tr.Language() || p.width != w {
		p.render(tr, w)
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.AccentColor).
		Padding(0, 1).
		Render(p.body)
	return overlay.Place(overlay.Config{Width: width, Height: height}, box, bg)
}

func (p *Panel) render(tr *i18n.Translator, width int) {
	p.lang, p.width = tr.Language(), width

	r, err := markdown.New(width, p.style)
	if err == nil {
		p.body, err = r.Render(tr.Help())
	}
	if err != nil {
		log.ErrorErr(log.CatUI, "Rendering help failed", err, "language", tr.Language())
		p.body = tr.Help()
	}
}
