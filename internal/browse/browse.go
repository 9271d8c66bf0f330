// Package browse provides the interactive catalog browser.
package browse

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"albumdex/internal/catalog"
	"albumdex/internal/model"
	"albumdex/internal/render"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B"))

	tabStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("#6C757D"))

	activeTabStyle = tabStyle.
			Bold(true).
			Foreground(lipgloss.Color("#4ECDC4")).
			Underline(true)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F8B500"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))
)

// Tab selects the collection being browsed.
type Tab int

const (
	TabAlbums Tab = iota
	TabPlayers
	TabTeams
)

var tabNames = []string{"Albums", "Players", "Teams"}

func (t Tab) String() string { return tabNames[t] }

// filter is one categorical filter: "all" followed by the distinct values
// of the collection, cycled with its number key.
type filter struct {
	name    string
	options []string
	index   int
}

func (f *filter) value() string {
	if len(f.options) == 0 {
		return catalog.AllFilter
	}
	return f.options[f.index]
}

func (f *filter) next() { f.index = (f.index + 1) % max(len(f.options), 1) }
func (f *filter) reset() { f.index = 0 }

func newFilter[T any](name string, items []T, key func(T) string) filter {
	return filter{name: name, options: append([]string{catalog.AllFilter}, catalog.DistinctValues(items, key)...)}
}

// Source is the part of the catalog service the browser reads from.
type Source interface {
	ListAlbums(ctx context.Context, q catalog.AlbumQuery) ([]model.Album, error)
	ListPlayers(ctx context.Context, q catalog.PlayerQuery) ([]model.Player, error)
	ListTeams(ctx context.Context, q catalog.TeamQuery) ([]model.Team, error)
	PlayerAge(p model.Player) int
}

var _ Source = (*catalog.Service)(nil)

// loadedMsg carries the full collections once they are read.
type loadedMsg struct {
	albums  []model.Album
	players []model.Player
	teams   []model.Team
	err     error
}

// scope is the album allow-list set by jumping from a player or team.
type scope struct {
	label string
	ids   []string
}

// Model is the Bubble Tea model for the browser.
type Model struct {
	ctx    context.Context
	src    Source
	lister *catalog.Lister

	tab       Tab
	search    [3]textinput.Model
	searching bool
	filters   [3][]filter
	sortIndex int
	scope     *scope
	cursor    [3]int
	detail    bool

	albums  []model.Album
	players []model.Player
	teams   []model.Team
	loaded  bool
	err     error

	width  int
	height int
}

// New creates a browser reading from src. lister may be nil for the
// default collation.
func New(ctx context.Context, src Source, lister *catalog.Lister) Model {
	if lister == nil {
		lister = catalog.NewLister(catalog.DefaultLanguage)
	}
	m := Model{ctx: ctx, src: src, lister: lister}
	for i := range m.search {
		ti := textinput.New()
		ti.Placeholder = "search"
		ti.Prompt = "/ "
		ti.CharLimit = 100
		ti.Width = 40
		m.search[i] = ti
	}
	return m
}

// Init starts loading the catalog.
func (m Model) Init() tea.Cmd {
	return m.load
}

func (m Model) load() tea.Msg {
	var msg loadedMsg
	if msg.albums, msg.err = m.src.ListAlbums(m.ctx, catalog.AlbumQuery{}); msg.err != nil {
		return msg
	}
	if msg.players, msg.err = m.src.ListPlayers(m.ctx, catalog.PlayerQuery{}); msg.err != nil {
		return msg
	}
	msg.teams, msg.err = m.src.ListTeams(m.ctx, catalog.TeamQuery{})
	return msg
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.albums, m.players, m.teams = msg.albums, msg.players, msg.teams
		m.filters[TabAlbums] = []filter{
			newFilter("type", m.albums, func(a model.Album) string { return string(a.Type) }),
			newFilter("country", m.albums, func(a model.Album) string { return a.Country }),
			newFilter("publisher", m.albums, func(a model.Album) string { return a.Publisher }),
		}
		m.filters[TabPlayers] = []filter{
			newFilter("team", m.players, func(p model.Player) string { return p.CurrentTeam }),
			newFilter("position", m.players, func(p model.Player) string { return string(p.Position) }),
			newFilter("nationality", m.players, func(p model.Player) string { return p.Nationality }),
		}
		m.filters[TabTeams] = []filter{
			newFilter("country", m.teams, func(t model.Team) string { return t.Country }),
		}
		m.loaded = true
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.searching = false
		m.search[m.tab].Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.search[m.tab], cmd = m.search[m.tab].Update(msg)
	m.cursor[m.tab] = 0
	return m, cmd
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.detail {
		switch msg.String() {
		case "esc", "enter", "backspace":
			m.detail = false
		case "q":
			return m, tea.Quit
		case "a":
			m = m.jumpToAlbums()
		}
		return m, nil
	}

	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "tab", "right", "l":
		m.tab = (m.tab + 1) % 3
	case "shift+tab", "left", "h":
		m.tab = (m.tab + 2) % 3
	case "up", "k":
		if m.cursor[m.tab] > 0 {
			m.cursor[m.tab]--
		}
	case "down", "j":
		if m.cursor[m.tab] < m.visibleCount()-1 {
			m.cursor[m.tab]++
		}
	case "enter":
		if m.visibleCount() > 0 {
			m.detail = true
		}
	case "/":
		m.searching = true
		return m, m.search[m.tab].Focus()
	case "1", "2", "3":
		i := int(msg.String()[0] - '1')
		if i < len(m.filters[m.tab]) {
			m.filters[m.tab][i].next()
			m.cursor[m.tab] = 0
		}
	case "s":
		if m.tab == TabAlbums {
			m.sortIndex = (m.sortIndex + 1) % len(catalog.AlbumSorts)
		}
	case "a":
		m = m.jumpToAlbums()
	case "c":
		m.search[m.tab].SetValue("")
		for i := range m.filters[m.tab] {
			m.filters[m.tab][i].reset()
		}
		if m.tab == TabAlbums {
			m.scope = nil
		}
		m.cursor[m.tab] = 0
	}
	return m, nil
}

// jumpToAlbums switches to the album tab restricted to the selected player
// or team's albums.
func (m Model) jumpToAlbums() Model {
	var sc *scope
	switch m.tab {
	case TabPlayers:
		if p, ok := m.selectedPlayer(); ok {
			sc = &scope{label: p.Name, ids: nonNil(p.AlbumIDs)}
		}
	case TabTeams:
		if t, ok := m.selectedTeam(); ok {
			sc = &scope{label: t.Name, ids: nonNil(t.AlbumIDs)}
		}
	}
	if sc == nil {
		return m
	}
	m.scope = sc
	m.tab = TabAlbums
	m.detail = false
	m.cursor[TabAlbums] = 0
	return m
}

// nonNil keeps an empty allow-list meaning "nothing" rather than "no limit".
func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}

func (m Model) filterValue(tab Tab, i int) string {
	if i >= len(m.filters[tab]) {
		return catalog.AllFilter
	}
	return m.filters[tab][i].value()
}

// AlbumQuery returns the album list state.
func (m Model) AlbumQuery() catalog.AlbumQuery {
	q := catalog.AlbumQuery{
		Search:    m.search[TabAlbums].Value(),
		Type:      m.filterValue(TabAlbums, 0),
		Country:   m.filterValue(TabAlbums, 1),
		Publisher: m.filterValue(TabAlbums, 2),
		Sort:      catalog.AlbumSorts[m.sortIndex],
	}
	if m.scope != nil {
		q.IDs = m.scope.ids
	}
	return q
}

// PlayerQuery returns the player list state.
func (m Model) PlayerQuery() catalog.PlayerQuery {
	return catalog.PlayerQuery{
		Search:      m.search[TabPlayers].Value(),
		Team:        m.filterValue(TabPlayers, 0),
		Position:    m.filterValue(TabPlayers, 1),
		Nationality: m.filterValue(TabPlayers, 2),
	}
}

// TeamQuery returns the team list state.
func (m Model) TeamQuery() catalog.TeamQuery {
	return catalog.TeamQuery{
		Search:  m.search[TabTeams].Value(),
		Country: m.filterValue(TabTeams, 0),
	}
}

// VisibleAlbums returns the albums matching the current album state.
func (m Model) VisibleAlbums() []model.Album { return m.lister.Albums(m.albums, m.AlbumQuery()) }

// VisiblePlayers returns the players matching the current player state.
func (m Model) VisiblePlayers() []model.Player { return m.lister.Players(m.players, m.PlayerQuery()) }

// VisibleTeams returns the teams matching the current team state.
func (m Model) VisibleTeams() []model.Team { return m.lister.Teams(m.teams, m.TeamQuery()) }

func (m Model) visibleCount() int {
	switch m.tab {
	case TabPlayers:
		return len(m.VisiblePlayers())
	case TabTeams:
		return len(m.VisibleTeams())
	default:
		return len(m.VisibleAlbums())
	}
}

func (m Model) selectedPlayer() (model.Player, bool) {
	ps := m.VisiblePlayers()
	if c := m.cursor[TabPlayers]; c < len(ps) {
		return ps[c], true
	}
	return model.Player{}, false
}

func (m Model) selectedTeam() (model.Team, bool) {
	ts := m.VisibleTeams()
	if c := m.cursor[TabTeams]; c < len(ts) {
		return ts[c], true
	}
	return model.Team{}, false
}

// ActiveFilters counts the constraints on the current tab.
func (m Model) ActiveFilters() int {
	values := make([]string, 0, len(m.filters[m.tab]))
	for i := range m.filters[m.tab] {
		values = append(values, m.filters[m.tab][i].value())
	}
	return catalog.ActiveFilterCount(m.search[m.tab].Value(), values...)
}

// Tab returns the collection being browsed.
func (m Model) Tab() Tab { return m.tab }

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("albumdex"))
	b.WriteString("  ")
	for i, name := range tabNames {
		style := tabStyle
		if Tab(i) == m.tab {
			style = activeTabStyle
		}
		b.WriteString(style.Render(name))
	}
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	case !m.loaded:
		b.WriteString(dimStyle.Render("Loading catalog..."))
		b.WriteString("\n")
	case m.detail:
		b.WriteString(m.viewDetail())
	default:
		b.WriteString(m.viewList())
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.helpText()))
	return b.String()
}

func (m Model) viewList() string {
	var b strings.Builder

	b.WriteString(m.search[m.tab].View())
	b.WriteString("\n")
	var parts []string
	for i, f := range m.filters[m.tab] {
		parts = append(parts, fmt.Sprintf("%d:%s=%s", i+1, f.name, f.value()))
	}
	if m.tab == TabAlbums {
		parts = append(parts, "s:sort="+string(catalog.AlbumSorts[m.sortIndex]))
		if m.scope != nil {
			parts = append(parts, "albums of "+m.scope.label)
		}
	}
	b.WriteString(infoStyle.Render(strings.Join(parts, "  ")))
	if n := m.ActiveFilters(); n > 0 {
		b.WriteString(infoStyle.Render(fmt.Sprintf("  (%d active)", n)))
	}
	b.WriteString("\n\n")

	var lines []string
	var total int
	switch m.tab {
	case TabAlbums:
		total = len(m.albums)
		for _, a := range m.VisibleAlbums() {
			lines = append(lines, fmt.Sprintf("%d  %s  (%s)", a.Year, a.Title, a.Publisher))
		}
	case TabPlayers:
		total = len(m.players)
		for _, p := range m.VisiblePlayers() {
			lines = append(lines, fmt.Sprintf("%s  %s  %d", p.Name, p.Position, p.TotalSkills))
		}
	case TabTeams:
		total = len(m.teams)
		for _, t := range m.VisibleTeams() {
			lines = append(lines, fmt.Sprintf("%s  %s  %d", t.Name, t.Country, t.FoundationYear))
		}
	}

	if len(lines) == 0 {
		b.WriteString(dimStyle.Render("No matches."))
		b.WriteString("\n")
	}
	for i, line := range lines {
		if i == m.cursor[m.tab] {
			b.WriteString(selectedStyle.Render("› " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(render.Count(len(lines), total, strings.ToLower(strings.TrimSuffix(m.tab.String(), "s"))))
	b.WriteString("\n")
	return b.String()
}

func (m Model) viewDetail() string {
	switch m.tab {
	case TabPlayers:
		if p, ok := m.selectedPlayer(); ok {
			return render.PlayerDetail(p, m.src.PlayerAge(p)) + "\n"
		}
	case TabTeams:
		if t, ok := m.selectedTeam(); ok {
			return render.TeamDetail(t) + "\n"
		}
	default:
		as := m.VisibleAlbums()
		if c := m.cursor[TabAlbums]; c < len(as) {
			return render.AlbumDetail(as[c]) + "\n"
		}
	}
	return ""
}

func (m Model) helpText() string {
	switch {
	case m.searching:
		return "type to search • enter/esc: done"
	case m.detail && m.tab != TabAlbums:
		return "a: albums • esc: back • q: quit"
	case m.detail:
		return "esc: back • q: quit"
	case m.tab == TabAlbums:
		return "tab: switch • /: search • 1-3: filters • s: sort • c: clear • enter: details • q: quit"
	case m.tab == TabPlayers:
		return "tab: switch • /: search • 1-3: filters • a: albums • c: clear • enter: details • q: quit"
	default:
		return "tab: switch • /: search • 1: country • a: albums • c: clear • enter: details • q: quit"
	}
}

// Run starts the browser.
func Run(ctx context.Context, src Source, lister *catalog.Lister) error {
	p := tea.NewProgram(New(ctx, src, lister), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
