package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/vinyl/internal/tasks"
)

// Amber labels on a dark sleeve.
var styles = NewPalette("#E4A853", "#04B575", "#FF5F5F", "#FFA500", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
	box   lipgloss.Style
	badge lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title: NewBold(t).MarginBottom(1),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(h),
		box:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(h)).Padding(0, 1),
		badge: lipgloss.NewStyle().Foreground(lipgloss.Color("#1A1A1A")).Background(lipgloss.Color(t)).Padding(0, 1),
	}
}

// phase picks the style for a sync phase label.
func (p *Palette) phase(ph tasks.Phase) lipgloss.Style {
	switch ph {
	case tasks.Done:
		return p.ok
	case tasks.Failed:
		return p.err
	case tasks.Cleared:
		return p.warn
	default:
		return p.help
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
