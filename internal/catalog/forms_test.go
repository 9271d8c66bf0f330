package catalog_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"albumdex/internal/catalog"
	"albumdex/internal/fixtures"
	"albumdex/internal/model"
)

func TestParseTeamsHistoryInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []model.TeamHistoryEntry
	}{
		{name: "blank", input: "   ", want: nil},
		{
			name:  "two segments",
			input: "Team A (2001-2005), Team B (2006)",
			want: []model.TeamHistoryEntry{
				{TeamName: "Team A", YearsPlayed: "2001-2005"},
				{TeamName: "Team B", YearsPlayed: "2006"},
			},
		},
		{
			name:  "segment without years",
			input: "Team C",
			want:  []model.TeamHistoryEntry{{TeamName: "Team C", YearsPlayed: catalog.YearsUnknown}},
		},
		{
			name:  "empty segments skipped",
			input: "A (1), , B (2),",
			want: []model.TeamHistoryEntry{
				{TeamName: "A", YearsPlayed: "1"},
				{TeamName: "B", YearsPlayed: "2"},
			},
		},
		{
			name:  "open-ended years",
			input: "Inter Miami (2023-Present)",
			want:  []model.TeamHistoryEntry{{TeamName: "Inter Miami", YearsPlayed: "2023-Present"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := catalog.ParseTeamsHistoryInput(tt.input)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseTeamsHistoryInput(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestTeamsHistory_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, p := range fixtures.MustCatalog().Players {
		text := catalog.FormatTeamsHistoryForInput(p.TeamsHistory)
		got := catalog.ParseTeamsHistoryInput(text)
		if diff := cmp.Diff(p.TeamsHistory, got); diff != "" {
			t.Errorf("round trip for %s mismatch (-want +got):\n%s", p.Name, diff)
		}
	}
}

func TestParseTitlesInput(t *testing.T) {
	t.Parallel()

	if got := catalog.ParseTitlesInput(""); got != nil {
		t.Errorf("ParseTitlesInput(\"\") = %#v, want nil", got)
	}
	got := catalog.ParseTitlesInput(" 35 La Liga ,14 UEFA Champions League,, ")
	if diff := cmp.Diff([]string{"35 La Liga", "14 UEFA Champions League"}, got); diff != "" {
		t.Errorf("ParseTitlesInput() mismatch (-want +got):\n%s", diff)
	}

	titles := []string{"a", "b c"}
	if diff := cmp.Diff(titles, catalog.ParseTitlesInput(catalog.FormatTitlesForInput(titles))); diff != "" {
		t.Errorf("titles round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestParseAlbumIDsInput(t *testing.T) {
	t.Parallel()

	got := catalog.ParseAlbumIDsInput("1, 3,5")
	if diff := cmp.Diff([]string{"1", "3", "5"}, got); diff != "" {
		t.Errorf("ParseAlbumIDsInput() mismatch (-want +got):\n%s", diff)
	}
	if got := catalog.ParseAlbumIDsInput(" "); got != nil {
		t.Errorf("ParseAlbumIDsInput(blank) = %#v, want nil", got)
	}
}

func validationField(err error) string {
	var ve *catalog.ValidationError
	if errors.As(err, &ve) {
		return ve.Field
	}
	return ""
}

func TestAlbumForm_Validate(t *testing.T) {
	t.Parallel()

	valid := catalog.AlbumForm{Title: "Mundial 82", Year: 1982, Publisher: "Panini", Type: model.AlbumTypeNationalTeam}
	tests := []struct {
		name      string
		mutate    func(*catalog.AlbumForm)
		wantField string
	}{
		{name: "valid", mutate: func(*catalog.AlbumForm) {}},
		{name: "untyped is valid", mutate: func(f *catalog.AlbumForm) { f.Type = "" }},
		{name: "missing title", mutate: func(f *catalog.AlbumForm) { f.Title = "  " }, wantField: "title"},
		{name: "year too early", mutate: func(f *catalog.AlbumForm) { f.Year = 1899 }, wantField: "year"},
		{name: "year too late", mutate: func(f *catalog.AlbumForm) { f.Year = 2101 }, wantField: "year"},
		{name: "missing publisher", mutate: func(f *catalog.AlbumForm) { f.Publisher = "" }, wantField: "publisher"},
		{name: "unknown type", mutate: func(f *catalog.AlbumForm) { f.Type = "Cup" }, wantField: "type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := valid
			tt.mutate(&f)
			err := f.Validate()
			if got := validationField(err); got != tt.wantField {
				t.Errorf("Validate() error = %v, want field %q", err, tt.wantField)
			}
		})
	}
}

func TestAlbumForm_Apply(t *testing.T) {
	t.Parallel()

	prev := fixtures.MustCatalog().Albums[0]
	prev.ScanChecksum = "abc"
	form := catalog.AlbumFormFrom(prev)
	form.Title = "  Renamed  "

	got := form.Apply(prev.ID, &prev)
	want := prev
	want.Title = "Renamed"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Apply() mismatch (-want +got):\n%s", diff)
	}
}

func TestPlayerForm_Validate(t *testing.T) {
	t.Parallel()

	valid := catalog.PlayerFormFrom(fixtures.MustCatalog().Players[0])
	tests := []struct {
		name      string
		mutate    func(*catalog.PlayerForm)
		wantField string
	}{
		{name: "valid", mutate: func(*catalog.PlayerForm) {}},
		{name: "missing name", mutate: func(f *catalog.PlayerForm) { f.Name = "" }, wantField: "name"},
		{name: "bad position", mutate: func(f *catalog.PlayerForm) { f.Position = "Winger" }, wantField: "position"},
		{name: "bad date", mutate: func(f *catalog.PlayerForm) { f.DateOfBirth = "23/06/1972" }, wantField: "dateOfBirth"},
		{name: "missing nationality", mutate: func(f *catalog.PlayerForm) { f.Nationality = "" }, wantField: "nationality"},
		{name: "negative goals", mutate: func(f *catalog.PlayerForm) { f.Goals = model.IntPtr(-1) }, wantField: "goals"},
		{name: "rating too high", mutate: func(f *catalog.PlayerForm) { f.Rating = model.IntPtr(100) }, wantField: "rating"},
		{name: "skill out of range", mutate: func(f *catalog.PlayerForm) { f.Skills.Pace = model.IntPtr(0) }, wantField: "skills.pace"},
		{
			name:   "irrelevant skill group is ignored",
			mutate: func(f *catalog.PlayerForm) { f.Skills.Diving = model.IntPtr(500) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := valid
			tt.mutate(&f)
			err := f.Validate()
			if got := validationField(err); got != tt.wantField {
				t.Errorf("Validate() error = %v, want field %q", err, tt.wantField)
			}
		})
	}
}

func TestPlayerForm_Apply(t *testing.T) {
	t.Parallel()

	t.Run("edit round trip preserves the player", func(t *testing.T) {
		for _, p := range fixtures.MustCatalog().Players {
			got := catalog.PlayerFormFrom(p).Apply(p.ID)
			if diff := cmp.Diff(p, got); diff != "" {
				t.Errorf("Apply(PlayerFormFrom(%s)) mismatch (-want +got):\n%s", p.Name, diff)
			}
		}
	})

	t.Run("switching to goalkeeper drops field skills", func(t *testing.T) {
		form := catalog.PlayerFormFrom(fixtures.MustCatalog().Players[0])
		form.Position = model.PositionGoalkeeper
		form.Skills.Diving = model.IntPtr(80)

		got := form.Apply("x")
		if got.Skills.Pace != nil {
			t.Errorf("Skills.Pace = %d, want nil", *got.Skills.Pace)
		}
		if got.TotalSkills != 80 {
			t.Errorf("TotalSkills = %d, want 80", got.TotalSkills)
		}
	})
}

func TestTeamForm(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	team := fixtures.MustCatalog().Teams[0]

	t.Run("edit round trip preserves the team", func(t *testing.T) {
		form := catalog.TeamFormFrom(team)
		if err := form.Validate(now); err != nil {
			t.Fatalf("Validate() error = %v", err)
		}
		if diff := cmp.Diff(team, form.Apply(team.ID)); diff != "" {
			t.Errorf("Apply() mismatch (-want +got):\n%s", diff)
		}
	})

	tests := []struct {
		name      string
		year      int
		wantField string
	}{
		{name: "1800 is allowed", year: 1800},
		{name: "current year is allowed", year: 2024},
		{name: "before 1800", year: 1799, wantField: "foundationYear"},
		{name: "future", year: 2025, wantField: "foundationYear"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := catalog.TeamFormFrom(team)
			form.FoundationYear = tt.year
			if got := validationField(form.Validate(now)); got != tt.wantField {
				t.Errorf("Validate() field = %q, want %q", got, tt.wantField)
			}
		})
	}
}
