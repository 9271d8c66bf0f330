package catalog_test

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/text/language"

	"albumdex/internal/catalog"
	"albumdex/internal/fixtures"
	"albumdex/internal/model"
)

func albumIDs(albums []model.Album) []string {
	ids := make([]string, len(albums))
	for i, a := range albums {
		ids[i] = a.ID
	}
	return ids
}

func TestFilterAlbums(t *testing.T) {
	t.Parallel()
	albums := fixtures.MustCatalog().Albums

	tests := []struct {
		name string
		q    catalog.AlbumQuery
		want []string
	}{
		{name: "default sort is newest first", q: catalog.AlbumQuery{}, want: []string{"4", "2", "6", "3", "1", "5"}},
		{name: "type all matches everything", q: catalog.AlbumQuery{Type: catalog.AllFilter, Sort: catalog.SortYearAsc}, want: []string{"5", "1", "3", "6", "2", "4"}},
		{name: "type league", q: catalog.AlbumQuery{Type: "League"}, want: []string{"4", "5"}},
		{name: "search publisher case-insensitively", q: catalog.AlbumQuery{Search: "PANINI"}, want: []string{"3", "1", "5"}},
		{name: "search year", q: catalog.AlbumQuery{Search: "2001"}, want: []string{"6"}},
		{name: "search partial year", q: catalog.AlbumQuery{Search: "200"}, want: []string{"4", "2", "6", "3"}},
		{name: "country and publisher", q: catalog.AlbumQuery{Country: "Italy", Publisher: "Panini"}, want: []string{"5"}},
		{name: "no match", q: catalog.AlbumQuery{Search: "bundesliga"}, want: []string{}},
		{name: "title ascending", q: catalog.AlbumQuery{Sort: catalog.SortTitleAsc}, want: []string{"2", "6", "3", "4", "5", "1"}},
		{name: "title descending", q: catalog.AlbumQuery{Sort: catalog.SortTitleDesc}, want: []string{"1", "5", "4", "3", "6", "2"}},
		{name: "allow-list", q: catalog.AlbumQuery{IDs: []string{"1", "5", "missing"}}, want: []string{"1", "5"}},
		{name: "empty allow-list matches nothing", q: catalog.AlbumQuery{IDs: []string{}}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := albumIDs(catalog.FilterAlbums(albums, tt.q))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("FilterAlbums() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFilterAlbums_Properties(t *testing.T) {
	t.Parallel()
	albums := fixtures.MustCatalog().Albums
	before := slices.Clone(albums)

	t.Run("result is a subset of the input", func(t *testing.T) {
		for _, q := range []catalog.AlbumQuery{{Search: "a"}, {Type: "Club"}, {Publisher: "Merlin"}} {
			for _, a := range catalog.FilterAlbums(albums, q) {
				if !slices.ContainsFunc(albums, func(b model.Album) bool { return cmp.Equal(a, b) }) {
					t.Errorf("FilterAlbums(%+v) returned %q not in input", q, a.ID)
				}
			}
		}
	})

	t.Run("ascending reverses descending when years are distinct", func(t *testing.T) {
		desc := albumIDs(catalog.FilterAlbums(albums, catalog.AlbumQuery{Sort: catalog.SortYearDesc}))
		asc := albumIDs(catalog.FilterAlbums(albums, catalog.AlbumQuery{Sort: catalog.SortYearAsc}))
		slices.Reverse(asc)
		if diff := cmp.Diff(desc, asc); diff != "" {
			t.Errorf("reversed year-asc differs from year-desc (-desc +asc):\n%s", diff)
		}
	})

	t.Run("input is not modified", func(t *testing.T) {
		catalog.FilterAlbums(albums, catalog.AlbumQuery{Sort: catalog.SortTitleAsc})
		if diff := cmp.Diff(before, albums); diff != "" {
			t.Errorf("input mutated (-before +after):\n%s", diff)
		}
	})
}

func TestLister_Collation(t *testing.T) {
	t.Parallel()
	albums := []model.Album{
		{ID: "z", Title: "Zaragoza", Year: 2000},
		{ID: "n", Title: "Ñandú", Year: 2000},
		{ID: "o", Title: "Osasuna", Year: 2000},
		{ID: "a", Title: "Álava", Year: 2000},
	}

	got := albumIDs(catalog.NewLister(language.Spanish).Albums(albums, catalog.AlbumQuery{Sort: catalog.SortTitleAsc}))
	if diff := cmp.Diff([]string{"a", "n", "o", "z"}, got); diff != "" {
		t.Errorf("Spanish title order mismatch (-want +got):\n%s", diff)
	}
}

func TestParseAlbumSort(t *testing.T) {
	t.Parallel()

	got, err := catalog.ParseAlbumSort("")
	if err != nil || got != catalog.SortYearDesc {
		t.Errorf("ParseAlbumSort(\"\") = %q, %v; want year-desc", got, err)
	}
	for _, s := range catalog.AlbumSorts {
		if got, err := catalog.ParseAlbumSort(string(s)); err != nil || got != s {
			t.Errorf("ParseAlbumSort(%q) = %q, %v", s, got, err)
		}
	}
	if _, err := catalog.ParseAlbumSort("newest"); err == nil {
		t.Error("ParseAlbumSort(newest) expected error")
	}
}

func TestFilterPlayers(t *testing.T) {
	t.Parallel()
	players := fixtures.MustCatalog().Players

	tests := []struct {
		name string
		q    catalog.PlayerQuery
		want []string
	}{
		{name: "no filters keeps collection order", q: catalog.PlayerQuery{}, want: []string{"1", "2", "GK1"}},
		{name: "name search", q: catalog.PlayerQuery{Search: "messi"}, want: []string{"2"}},
		{name: "position", q: catalog.PlayerQuery{Position: "Goalkeeper"}, want: []string{"GK1"}},
		{name: "position all", q: catalog.PlayerQuery{Position: catalog.AllFilter}, want: []string{"1", "2", "GK1"}},
		{name: "nationality", q: catalog.PlayerQuery{Nationality: "French"}, want: []string{"1"}},
		{name: "team", q: catalog.PlayerQuery{Team: "Inter Miami"}, want: []string{"2"}},
		{name: "conflicting filters", q: catalog.PlayerQuery{Team: "Parma", Nationality: "French"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, p := range catalog.FilterPlayers(players, tt.q) {
				got = append(got, p.ID)
			}
			if got == nil {
				got = []string{}
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("FilterPlayers() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFilterTeams(t *testing.T) {
	t.Parallel()
	teams := fixtures.MustCatalog().Teams

	var got []string
	for _, tm := range catalog.FilterTeams(teams, catalog.TeamQuery{Country: "Spain"}) {
		got = append(got, tm.ID)
	}
	if diff := cmp.Diff([]string{"t1", "t2"}, got); diff != "" {
		t.Errorf("FilterTeams(Spain) mismatch (-want +got):\n%s", diff)
	}

	if n := len(catalog.FilterTeams(teams, catalog.TeamQuery{Search: "JUVENTUS"})); n != 1 {
		t.Errorf("FilterTeams(JUVENTUS) = %d teams, want 1", n)
	}
}

func TestDistinctValues(t *testing.T) {
	t.Parallel()
	albums := fixtures.MustCatalog().Albums

	got := catalog.DistinctValues(albums, func(a model.Album) string { return a.Publisher })
	if diff := cmp.Diff([]string{"Merlin", "Navarrete", "Panini", "Topps"}, got); diff != "" {
		t.Errorf("DistinctValues() mismatch (-want +got):\n%s", diff)
	}

	countries := catalog.DistinctValues(albums, func(a model.Album) string { return a.Country })
	if slices.Contains(countries, "") {
		t.Errorf("DistinctValues() included an empty value: %v", countries)
	}
}

func TestActiveFilterCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		search  string
		filters []string
		want    int
	}{
		{"", []string{"all", "all", "all"}, 0},
		{"x", []string{"all", "", "all"}, 1},
		{"", []string{"Club", "all", "Panini"}, 2},
		{"x", []string{"Club", "Italy", "Panini"}, 4},
	}
	for _, tt := range tests {
		if got := catalog.ActiveFilterCount(tt.search, tt.filters...); got != tt.want {
			t.Errorf("ActiveFilterCount(%q, %v) = %d, want %d", tt.search, tt.filters, got, tt.want)
		}
	}
}
