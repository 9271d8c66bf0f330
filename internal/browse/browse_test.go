package browse_test

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"albumdex/internal/browse"
	"albumdex/internal/catalog"
	"albumdex/internal/model"
	"albumdex/internal/testutil"
)

func newLoadedModel(t *testing.T) browse.Model {
	t.Helper()
	f := testutil.NewServiceFixture(t, model.RoleNone, nil)
	m := browse.New(context.Background(), f.Service, nil)
	return send(t, m, m.Init()())
}

func send(t *testing.T, m browse.Model, msgs ...tea.Msg) browse.Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(browse.Model)
	}
	return m
}

func keys(s string) []tea.Msg {
	var msgs []tea.Msg
	for _, r := range s {
		msgs = append(msgs, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return msgs
}

var (
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
)

func albumIDs(albums []model.Album) []string {
	ids := make([]string, len(albums))
	for i, a := range albums {
		ids[i] = a.ID
	}
	return ids
}

func TestModel_LoadsWithDefaultSort(t *testing.T) {
	m := newLoadedModel(t)

	want := []string{"4", "2", "6", "3", "1", "5"}
	if diff := cmp.Diff(want, albumIDs(m.VisibleAlbums())); diff != "" {
		t.Errorf("VisibleAlbums() mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(m.View(), "Premier League 2007") {
		t.Error("View() does not list the newest album")
	}
}

func TestModel_Search(t *testing.T) {
	m := newLoadedModel(t)

	m = send(t, m, keys("/panini")...)
	m = send(t, m, keyEnter)

	for _, a := range m.VisibleAlbums() {
		if a.Publisher != "Panini" {
			t.Errorf("search kept %q by %s", a.Title, a.Publisher)
		}
	}
	if got := len(m.VisibleAlbums()); got != 3 {
		t.Errorf("VisibleAlbums() after search = %d, want 3", got)
	}
	if got := m.ActiveFilters(); got != 1 {
		t.Errorf("ActiveFilters() = %d, want 1", got)
	}

	// q while searching is text, not quit.
	m = send(t, m, keys("/")...)
	next, cmd := m.Update(keys("q")[0])
	m = next.(browse.Model)
	if cmd != nil {
		if _, ok := cmd().(tea.QuitMsg); ok {
			t.Error("q quit while searching")
		}
	}
	m = send(t, m, keyEsc)
	if got := m.AlbumQuery().Search; got != "paniniq" {
		t.Errorf("Search = %q, want paniniq", got)
	}
}

func TestModel_FiltersAndClear(t *testing.T) {
	m := newLoadedModel(t)

	// Second filter is country; first non-"all" option is the first
	// country in sorted order.
	m = send(t, m, keys("2")...)
	q := m.AlbumQuery()
	if q.Country == catalog.AllFilter {
		t.Fatal("country filter did not advance")
	}
	for _, a := range m.VisibleAlbums() {
		if a.Country != q.Country {
			t.Errorf("album %s country %q, want %q", a.ID, a.Country, q.Country)
		}
	}

	m = send(t, m, keys("c")...)
	if got := len(m.VisibleAlbums()); got != 6 {
		t.Errorf("VisibleAlbums() after clear = %d, want 6", got)
	}
	if got := m.ActiveFilters(); got != 0 {
		t.Errorf("ActiveFilters() after clear = %d, want 0", got)
	}
}

func TestModel_SortCycle(t *testing.T) {
	m := newLoadedModel(t)

	m = send(t, m, keys("s")...)
	if got := m.AlbumQuery().Sort; got != catalog.SortYearAsc {
		t.Fatalf("Sort = %q, want %q", got, catalog.SortYearAsc)
	}
	want := []string{"5", "1", "3", "6", "2", "4"}
	if diff := cmp.Diff(want, albumIDs(m.VisibleAlbums())); diff != "" {
		t.Errorf("VisibleAlbums() mismatch (-want +got):\n%s", diff)
	}

	m = send(t, m, keys("sss")...)
	if got := m.AlbumQuery().Sort; got != catalog.SortYearDesc {
		t.Errorf("Sort after full cycle = %q, want %q", got, catalog.SortYearDesc)
	}
}

func TestModel_Tabs(t *testing.T) {
	m := newLoadedModel(t)

	m = send(t, m, keyTab)
	if m.Tab() != browse.TabPlayers {
		t.Fatalf("Tab() = %v, want Players", m.Tab())
	}
	m = send(t, m, keyTab, keyTab)
	if m.Tab() != browse.TabAlbums {
		t.Errorf("Tab() = %v, want Albums after wrapping", m.Tab())
	}
	m = send(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.Tab() != browse.TabTeams {
		t.Errorf("Tab() = %v, want Teams", m.Tab())
	}
}

func TestModel_PlayerAlbums(t *testing.T) {
	m := newLoadedModel(t)
	m = send(t, m, keyTab)

	players := m.VisiblePlayers()
	if len(players) == 0 {
		t.Fatal("no players loaded")
	}
	p := players[0]

	m = send(t, m, keyEnter)
	if !strings.Contains(m.View(), p.Name) {
		t.Errorf("detail view missing %q", p.Name)
	}

	m = send(t, m, keys("a")...)
	if m.Tab() != browse.TabAlbums {
		t.Fatalf("Tab() = %v, want Albums", m.Tab())
	}
	got := m.VisibleAlbums()
	if len(got) != len(p.AlbumIDs) {
		t.Errorf("scoped albums = %v, want ids %v", albumIDs(got), p.AlbumIDs)
	}
	for _, a := range got {
		found := false
		for _, id := range p.AlbumIDs {
			if id == a.ID {
				found = true
			}
		}
		if !found {
			t.Errorf("album %s not in %s's albums", a.ID, p.Name)
		}
	}

	m = send(t, m, keys("c")...)
	if len(m.VisibleAlbums()) != 6 {
		t.Error("clear did not drop the player scope")
	}
}

func TestModel_CursorBounds(t *testing.T) {
	m := newLoadedModel(t)
	m = send(t, m, keyTab, keyTab)

	for range 10 {
		m = send(t, m, keyDown)
	}
	m = send(t, m, keyEnter)
	teams := m.VisibleTeams()
	last := teams[len(teams)-1]
	if !strings.Contains(m.View(), last.StadiumName) {
		t.Errorf("detail after scrolling past the end does not show the last team %q", last.Name)
	}
}

func TestModel_Quit(t *testing.T) {
	m := newLoadedModel(t)

	_, cmd := m.Update(keys("q")[0])
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}
