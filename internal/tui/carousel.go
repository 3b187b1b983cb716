// Package tui contains the interactive terminal views built on bubbletea.
package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gitfolio/gitfolio/internal/present"
)

// carouselKeyMap defines the carousel key bindings.
type carouselKeyMap struct {
	Next key.Binding
	Prev key.Binding
	Open key.Binding
	Quit key.Binding
}

func defaultCarouselKeys() carouselKeyMap {
	return carouselKeyMap{
		Next: key.NewBinding(
			key.WithKeys("right", "l", "n"),
			key.WithHelp("→/l", "next"),
		),
		Prev: key.NewBinding(
			key.WithKeys("left", "h", "p"),
			key.WithHelp("←/h", "previous"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "show url"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// CarouselModel is the featured-repository carousel. Navigation is clamped
// at both ends: advancing past the last card or backing up before the first
// is a no-op, never a wraparound or an error.
type CarouselModel struct {
	presenter *present.Presenter
	renderer  *present.Renderer
	keys      carouselKeyMap
	showURL   bool
}

// NewCarousel builds a carousel over the presenter's featured set.
func NewCarousel(presenter *present.Presenter, renderer *present.Renderer) *CarouselModel {
	return &CarouselModel{
		presenter: presenter,
		renderer:  renderer,
		keys:      defaultCarouselKeys(),
	}
}

// Init implements tea.Model.
func (m *CarouselModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *CarouselModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Next):
		m.presenter.Next()
		m.showURL = false
	case key.Matches(keyMsg, m.keys.Prev):
		m.presenter.Previous()
		m.showURL = false
	case key.Matches(keyMsg, m.keys.Open):
		m.showURL = !m.showURL
	}

	return m, nil
}

// View implements tea.Model.
func (m *CarouselModel) View() string {
	current, ok := m.presenter.Current()
	if !ok {
		return m.renderer.NoResultsPanel() + "\n"
	}

	featured := m.presenter.Featured()
	view := m.renderer.FeaturedCard(current, m.presenter.FeaturedIndex(), len(featured))
	if m.showURL {
		view += "\n" + current.HTMLURL
	}
	return view + "\n\n←/→ navigate · enter show url · q quit\n"
}
