package catalog

import (
	"cmp"
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"albumdex/internal/model"
)

// AllFilter is the sentinel for "no constraint" on a categorical filter.
// An empty filter value means the same thing.
const AllFilter = "all"

// AlbumSort is the closed set of album orderings.
type AlbumSort string

const (
	SortYearDesc  AlbumSort = "year-desc"
	SortYearAsc   AlbumSort = "year-asc"
	SortTitleAsc  AlbumSort = "title-asc"
	SortTitleDesc AlbumSort = "title-desc"
)

// AlbumSorts lists every valid sort key. The first one is the default.
var AlbumSorts = []AlbumSort{SortYearDesc, SortYearAsc, SortTitleAsc, SortTitleDesc}

// ParseAlbumSort validates a sort key. The empty string selects year-desc.
func ParseAlbumSort(s string) (AlbumSort, error) {
	if s == "" {
		return SortYearDesc, nil
	}
	for _, v := range AlbumSorts {
		if AlbumSort(s) == v {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown sort %q (want one of %s)", s, joinSorts())
}

func joinSorts() string {
	names := make([]string, len(AlbumSorts))
	for i, s := range AlbumSorts {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// AlbumQuery is the album list state: free-text search, categorical filters,
// sort key and an optional id allow-list.
type AlbumQuery struct {
	Search    string
	Type      string
	Country   string
	Publisher string
	Sort      AlbumSort
	// IDs restricts the result to these album ids when non-nil, e.g. when
	// showing the albums a player or team appears in.
	IDs []string
}

// PlayerQuery is the player list state.
type PlayerQuery struct {
	Search      string
	Team        string
	Position    string
	Nationality string
	IDs         []string
}

// TeamQuery is the team list state.
type TeamQuery struct {
	Search  string
	Country string
	IDs     []string
}

// DefaultLanguage drives title collation when none is configured.
var DefaultLanguage = language.Spanish

// Lister applies list queries. Title ordering uses locale-aware collation
// for the configured language.
type Lister struct {
	tag language.Tag
}

// NewLister creates a Lister collating titles for tag.
func NewLister(tag language.Tag) *Lister {
	return &Lister{tag: tag}
}

var defaultLister = NewLister(DefaultLanguage)

// FilterAlbums applies q with the default collation.
func FilterAlbums(albums []model.Album, q AlbumQuery) []model.Album {
	return defaultLister.Albums(albums, q)
}

// FilterPlayers applies q.
func FilterPlayers(players []model.Player, q PlayerQuery) []model.Player {
	return defaultLister.Players(players, q)
}

// FilterTeams applies q.
func FilterTeams(teams []model.Team, q TeamQuery) []model.Team {
	return defaultLister.Teams(teams, q)
}

// Albums returns the albums matching q, ordered by q.Sort.
// The input slice is never modified. An unknown sort key keeps input order.
func (l *Lister) Albums(albums []model.Album, q AlbumQuery) []model.Album {
	term := strings.ToLower(q.Search)
	allow := idSet(q.IDs)

	out := make([]model.Album, 0, len(albums))
	for _, a := range albums {
		if allow != nil && !allow[a.ID] {
			continue
		}
		if !matchesFilter(q.Type, string(a.Type)) ||
			!matchesFilter(q.Country, a.Country) ||
			!matchesFilter(q.Publisher, a.Publisher) {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(a.Title), term) &&
			!strings.Contains(strings.ToLower(a.Publisher), term) &&
			!strings.Contains(strconv.Itoa(a.Year), term) {
			continue
		}
		out = append(out, a)
	}

	sort := q.Sort
	if sort == "" {
		sort = SortYearDesc
	}
	switch sort {
	case SortYearDesc:
		slices.SortStableFunc(out, func(a, b model.Album) int { return cmp.Compare(b.Year, a.Year) })
	case SortYearAsc:
		slices.SortStableFunc(out, func(a, b model.Album) int { return cmp.Compare(a.Year, b.Year) })
	case SortTitleAsc:
		c := collate.New(l.tag)
		slices.SortStableFunc(out, func(a, b model.Album) int { return c.CompareString(a.Title, b.Title) })
	case SortTitleDesc:
		c := collate.New(l.tag)
		slices.SortStableFunc(out, func(a, b model.Album) int { return c.CompareString(b.Title, a.Title) })
	}
	return out
}

// Players returns the players matching q in collection order.
func (l *Lister) Players(players []model.Player, q PlayerQuery) []model.Player {
	term := strings.ToLower(q.Search)
	allow := idSet(q.IDs)

	out := make([]model.Player, 0, len(players))
	for _, p := range players {
		if allow != nil && !allow[p.ID] {
			continue
		}
		if !matchesFilter(q.Team, p.CurrentTeam) ||
			!matchesFilter(q.Position, string(p.Position)) ||
			!matchesFilter(q.Nationality, p.Nationality) {
			continue
		}
		if term != "" && !strings.Contains(strings.ToLower(p.Name), term) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Teams returns the teams matching q in collection order.
func (l *Lister) Teams(teams []model.Team, q TeamQuery) []model.Team {
	term := strings.ToLower(q.Search)
	allow := idSet(q.IDs)

	out := make([]model.Team, 0, len(teams))
	for _, t := range teams {
		if allow != nil && !allow[t.ID] {
			continue
		}
		if !matchesFilter(q.Country, t.Country) {
			continue
		}
		if term != "" && !strings.Contains(strings.ToLower(t.Name), term) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// matchesFilter is an exact match unless the filter is empty or "all".
func matchesFilter(filter, value string) bool {
	if filter == "" || filter == AllFilter {
		return true
	}
	return filter == value
}

// idSet returns nil for a nil allow-list so callers can tell "no
// constraint" from "allow nothing".
func idSet(ids []string) map[string]bool {
	if ids == nil {
		return nil
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// DistinctValues returns the sorted unique non-empty values of key over
// items, for populating filter pickers.
func DistinctValues[T any](items []T, key func(T) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, it := range items {
		v := key(it)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// ActiveFilterCount counts the filters that constrain a list: every
// categorical filter not set to "all", plus one for a non-empty search.
func ActiveFilterCount(search string, filters ...string) int {
	n := 0
	if search != "" {
		n++
	}
	for _, f := range filters {
		if f != "" && f != AllFilter {
			n++
		}
	}
	return n
}
