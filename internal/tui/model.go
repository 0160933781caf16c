// Package tui is the terminal presentation shell over the catalog: a home
// feed with debounced search, filter chips and a featured carousel, a
// details screen and a profile screen with category/status filters.
//
// The model is driven by the bubbletea event loop. Timer callbacks never
// touch model state; they post messages onto an events channel that the loop
// drains.
package tui

import (
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"estates/internal/catalog"
	"estates/internal/debounce"
	"estates/internal/format"
	"estates/internal/models"
	"estates/internal/query"
)

type screen int

const (
	screenHome screen = iota
	screenDetails
	screenProfile
)

// searchSettledMsg carries the input value once typing went quiet.
type searchSettledMsg struct {
	text string
}

// carouselTickMsg advances the featured carousel.
type carouselTickMsg struct{}

// Options configures the shell.
type Options struct {
	Engine           *query.Engine
	Formatter        *format.Formatter
	DebounceDelay    time.Duration
	CarouselInterval time.Duration
}

// Model is the bubbletea model for the catalog browser.
type Model struct {
	catalog   *catalog.Catalog
	engine    *query.Engine
	formatter *format.Formatter
	opts      Options

	input    textinput.Model
	home     query.State
	profile  query.State
	featured []models.Project

	screen     screen
	backTo     screen
	selected   models.ProjectID
	homeCursor int
	profCursor int
	carousel   int

	events    chan tea.Msg
	done      chan struct{}
	closeOnce sync.Once
	search    *debounce.Debouncer[string]
	ticker    *debounce.Ticker

	width  int
	height int
}

// New builds the shell. Timers start in Init and stop in Close.
func New(c *catalog.Catalog, opts Options) *Model {
	if opts.Engine == nil {
		opts.Engine = query.NewEngine()
	}
	if opts.Formatter == nil {
		opts.Formatter, _ = format.NewFormatter(format.DefaultLocale)
	}

	ti := textinput.New()
	ti.Placeholder = "Search projects..."
	ti.Prompt = "⌕ "
	ti.CharLimit = 120
	ti.Focus()

	m := &Model{
		catalog:   c,
		engine:    opts.Engine,
		formatter: opts.Formatter,
		opts:      opts,
		input:     ti,
		featured:  c.Featured(),
		events:    make(chan tea.Msg, 8),
		done:      make(chan struct{}),
	}
	m.search = debounce.New(opts.DebounceDelay, func(text string) {
		m.post(searchSettledMsg{text: text})
	})
	return m
}

// Init starts the carousel timer and the event pump.
func (m *Model) Init() tea.Cmd {
	if len(m.featured) > 1 && m.ticker == nil {
		m.ticker = debounce.NewTicker(m.opts.CarouselInterval, func() {
			select {
			case m.events <- carouselTickMsg{}:
			default:
			}
		})
	}
	return tea.Batch(textinput.Blink, m.waitForEvent())
}

// Close stops every timer owned by the shell. It is safe to call twice.
func (m *Model) Close() {
	m.closeOnce.Do(func() {
		close(m.done)
		m.search.Stop()
		if m.ticker != nil {
			m.ticker.Stop()
		}
	})
}

func (m *Model) post(msg tea.Msg) {
	select {
	case m.events <- msg:
	case <-m.done:
	}
}

func (m *Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-m.events:
			return msg
		case <-m.done:
			return nil
		}
	}
}

// Update handles one bubbletea message.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case searchSettledMsg:
		if msg.text == m.input.Value() {
			m.home.Settle(msg.text)
			m.homeCursor = 0
		}
		return m, m.waitForEvent()

	case carouselTickMsg:
		if len(m.featured) > 0 {
			m.carousel = (m.carousel + 1) % len(m.featured)
		}
		return m, m.waitForEvent()

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.Close()
			return m, tea.Quit
		}
		switch m.screen {
		case screenDetails:
			return m.updateDetails(msg)
		case screenProfile:
			return m.updateProfile(msg)
		default:
			return m.updateHome(msg)
		}
	}

	if m.screen == screenHome {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) updateHome(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+r":
		m.resetHome()
		return m, nil
	case "ctrl+p":
		m.screen = screenProfile
		return m, nil
	case "esc":
		if m.input.Value() != "" {
			m.input.SetValue("")
			m.search.Cancel()
			m.home.Type("")
			m.home.Settle("")
			m.homeCursor = 0
		}
		return m, nil
	case "tab":
		m.cycleChip(1)
		return m, nil
	case "shift+tab":
		m.cycleChip(-1)
		return m, nil
	case "up":
		m.homeCursor = clampCursor(m.homeCursor-1, len(m.homeItems()))
		return m, nil
	case "down":
		m.homeCursor = clampCursor(m.homeCursor+1, len(m.homeItems()))
		return m, nil
	case "ctrl+f":
		if len(m.featured) > 0 {
			m.openDetails(m.featured[m.carousel].ID)
		}
		return m, nil
	case "enter":
		if m.search.Pending() {
			m.search.Cancel()
			m.home.Settle(m.input.Value())
			m.homeCursor = 0
		}
		items := m.homeItems()
		if len(items) > 0 {
			m.openDetails(items[clampCursor(m.homeCursor, len(items))].ID)
		}
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		m.home.Type(after)
		m.search.Trigger(after)
	}
	return m, cmd
}

func (m *Model) updateDetails(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "backspace", "q":
		m.screen = m.backTo
	}
	return m, nil
}

func (m *Model) updateProfile(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+p":
		m.screen = screenHome
	case "1":
		m.profile.Category.Clear()
	case "2":
		m.profile.Category.Toggle(models.CategoryLuxury)
	case "3":
		m.profile.Category.Toggle(models.CategoryAffordable)
	case "4":
		m.profile.Status.Clear()
	case "5":
		m.profile.Status.Toggle(models.StatusOngoing)
	case "6":
		m.profile.Status.Toggle(models.StatusCompleted)
	case "7":
		m.profile.Status.Toggle(models.StatusPlanning)
	case "r", "ctrl+r":
		m.profile.ResetAll()
	case "up":
		m.profCursor = clampCursor(m.profCursor-1, len(m.profileResult().Projects))
		return m, nil
	case "down":
		m.profCursor = clampCursor(m.profCursor+1, len(m.profileResult().Projects))
		return m, nil
	case "enter":
		projects := m.profileResult().Projects
		if len(projects) > 0 {
			m.openDetails(projects[clampCursor(m.profCursor, len(projects))].ID)
		}
		return m, nil
	default:
		return m, nil
	}
	m.profCursor = 0
	return m, nil
}

func (m *Model) openDetails(id models.ProjectID) {
	m.backTo = m.screen
	m.selected = id
	m.screen = screenDetails
}

// resetHome is the pull-to-refresh action: clear the search and every filter.
func (m *Model) resetHome() {
	m.search.Cancel()
	m.input.SetValue("")
	m.home.ResetAll()
	m.homeCursor = 0
	m.carousel = 0
}

func (m *Model) cycleChip(step int) {
	active := m.home.ActiveChip()
	idx := 0
	for i, c := range query.Chips {
		if c.Name == active.Name {
			idx = i
		}
	}
	idx = (idx + step + len(query.Chips)) % len(query.Chips)
	m.home.ApplyChip(query.Chips[idx])
	m.homeCursor = 0
}

// searching reports whether the home feed shows suggestions instead of sections.
func (m *Model) searching() bool {
	return strings.TrimSpace(m.home.DebouncedText) != ""
}

// homeItems lists the selectable projects of the home feed in display order.
func (m *Model) homeItems() []models.Project {
	if m.searching() {
		return m.engine.Suggest(m.catalog, m.home.Query())
	}
	var out []models.Project
	for _, cat := range m.homeGroups() {
		for _, st := range cat.Statuses {
			out = append(out, st.Projects...)
		}
	}
	return out
}

func (m *Model) homeGroups() query.Groups {
	return m.engine.Run(m.catalog, m.home.Query()).Groups
}

func (m *Model) profileResult() query.Result {
	return m.engine.Run(m.catalog, m.profile.Query())
}

func clampCursor(cursor, n int) int {
	if n == 0 || cursor < 0 {
		return 0
	}
	if cursor >= n {
		return n - 1
	}
	return cursor
}
