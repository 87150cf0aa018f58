// Package tui hosts the interactive item view: it fetches the item list once
// when mounted and renders a loading, error or list view from its state.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/items/internal/model"
)

const (
	loadingText = "Loading..."
	headingText = "Item List"

	defaultWidth  = 80
	defaultHeight = 24
	// border(2) + heading and gap(2) + gap and help(2)
	chromeHeight = 6
	chromeWidth  = 4
)

// Fetcher loads the item collection. *client.Client satisfies it.
type Fetcher interface {
	FetchItems(ctx context.Context) ([]model.Item, error)
}

// FetcherFunc adapts a plain function to Fetcher.
type FetcherFunc func(ctx context.Context) ([]model.Item, error)

func (f FetcherFunc) FetchItems(ctx context.Context) ([]model.Item, error) { return f(ctx) }

// lifetime is shared by every copy of a Model; Bubble Tea passes models by value.
type lifetime struct {
	ctx     context.Context
	cancel  context.CancelFunc
	mounted atomic.Bool
}

// itemsLoadedMsg carries the outcome of the one fetch back to Update.
type itemsLoadedMsg struct {
	life  *lifetime
	items []model.Item
	err   error
}

// Model is the ItemDisplay component.
type Model struct {
	fetcher Fetcher
	life    *lifetime

	items   []model.Item
	loading bool
	err     error

	viewport viewport.Model
	help     help.Model
	keys     keyMap
	styles   Styles
}

type Option func(*Model)

func WithStyles(s Styles) Option { return func(m *Model) { m.styles = s } }

// WithContext ties the component lifetime to a parent context.
func WithContext(ctx context.Context) Option {
	return func(m *Model) {
		m.life.cancel()
		c, cancel := context.WithCancel(ctx)
		m.life.ctx, m.life.cancel = c, cancel
	}
}

// New returns an unmounted ItemDisplay. Nothing is fetched until Init.
func New(f Fetcher, opts ...Option) Model {
	ctx, cancel := context.WithCancel(context.Background())
	m := Model{
		fetcher:  f,
		life:     &lifetime{ctx: ctx, cancel: cancel},
		items:    []model.Item{},
		loading:  true,
		viewport: viewport.New(defaultWidth-chromeWidth, defaultHeight-chromeHeight),
		help:     help.New(),
		keys:     defaultKeyMap(),
		styles:   NewStyles("classic"),
	}
	for _, o := range opts {
		o(&m)
	}
	return m
}

// Init is the mount hook. It returns the fetch command the first time it is
// called and nil afterwards, so a mount issues exactly one request.
func (m Model) Init() tea.Cmd {
	if !m.life.mounted.CompareAndSwap(false, true) {
		return nil
	}
	life, f := m.life, m.fetcher
	return func() tea.Msg {
		items, err := f.FetchItems(life.ctx)
		return itemsLoadedMsg{life: life, items: items, err: err}
	}
}

// Unmount ends the component lifetime. An in-flight fetch is cancelled and
// its result, if it still arrives, is dropped.
func (m Model) Unmount() { m.life.cancel() }

// Alive reports whether the component has not been unmounted.
func (m Model) Alive() bool { return m.life.ctx.Err() == nil }

func (m Model) Loading() bool { return m.loading }

func (m Model) Err() error { return m.err }

func (m Model) Items() []model.Item { return m.items }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case itemsLoadedMsg:
		return m.applyResult(msg), nil

	case tea.WindowSizeMsg:
		m.viewport.Width = max(msg.Width-chromeWidth, 1)
		m.viewport.Height = max(msg.Height-chromeHeight, 1)
		m.help.Width = m.viewport.Width
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.Unmount()
			return m, tea.Quit
		}
	}

	if m.loading || m.err != nil {
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) applyResult(msg itemsLoadedMsg) Model {
	// stale, unmounted, or already settled: loading never goes back to true
	// and a settled state is never overwritten
	if msg.life != m.life || !m.Alive() || !m.loading {
		return m
	}
	m.loading = false
	if msg.err != nil {
		m.err = msg.err
		return m
	}
	if msg.items != nil {
		m.items = msg.items
	}
	m.viewport.SetContent(m.rows())
	m.viewport.GotoTop()
	return m
}

// View is a pure function of the component state.
func (m Model) View() string {
	if m.loading {
		return loadingText
	}
	if m.err != nil {
		return m.styles.Error.Render("Error: " + m.err.Error())
	}

	summary := fmt.Sprintf("%d %s · %s Kcal", len(m.items), plural(len(m.items), "item", "items"), FormatKcal(model.TotalKcal(m.items)))
	header := m.styles.Title.Render(headingText) + "  " + m.styles.Muted.Render(summary)

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n\n")
	b.WriteString(m.styles.Help.Render(m.help.View(m.keys)))
	return m.styles.Border.Render(b.String())
}

// rows renders one line per item, in service order.
func (m Model) rows() string {
	lines := make([]string, 0, len(m.items))
	for i, it := range m.items {
		line := fmt.Sprintf("%s %s: %s Kcal",
			m.styles.Accent.Render(fmt.Sprintf("%3d.", i+1)),
			m.styles.Name.Render(it.Name),
			m.styles.Energy.Render(FormatKcal(it.EnergyKcal)),
		)
		if it.FoodType != "" {
			line += " " + m.styles.Muted.Render("("+it.FoodType+")")
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// FormatKcal prints energy without a trailing ".0" for whole numbers.
func FormatKcal(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
