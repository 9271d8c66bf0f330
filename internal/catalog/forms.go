package catalog

import (
	"regexp"
	"strings"
	"time"

	"albumdex/internal/model"
)

// YearsUnknown is recorded for a team history segment without a
// parenthesized years group.
const YearsUnknown = "N/A"

var historySegment = regexp.MustCompile(`^(.*)\s*\(([^)]*)\)$`)

// ParseTeamsHistoryInput parses "Team A (2001-2005), Team B (2006)".
// A segment that does not end in a parenthesized group is kept whole as the
// team name with YearsUnknown as the years. Blank input returns nil.
func ParseTeamsHistoryInput(text string) []model.TeamHistoryEntry {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var out []model.TeamHistoryEntry
	for _, seg := range strings.Split(text, ",") {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		m := historySegment.FindStringSubmatch(seg)
		if m == nil {
			out = append(out, model.TeamHistoryEntry{TeamName: seg, YearsPlayed: YearsUnknown})
			continue
		}
		out = append(out, model.TeamHistoryEntry{
			TeamName:    strings.TrimSpace(m[1]),
			YearsPlayed: strings.TrimSpace(m[2]),
		})
	}
	return out
}

// FormatTeamsHistoryForInput renders a history list back into its text form.
func FormatTeamsHistoryForInput(history []model.TeamHistoryEntry) string {
	parts := make([]string, len(history))
	for i, h := range history {
		parts[i] = h.TeamName + " (" + h.YearsPlayed + ")"
	}
	return strings.Join(parts, ", ")
}

// ParseTitlesInput splits a comma separated title list. Blank input returns nil.
func ParseTitlesInput(text string) []string {
	return splitList(text)
}

// FormatTitlesForInput joins titles with ", ".
func FormatTitlesForInput(titles []string) string {
	return strings.Join(titles, ", ")
}

// ParseAlbumIDsInput splits a comma separated id list. Blank input returns nil.
func ParseAlbumIDsInput(text string) []string {
	return splitList(text)
}

func splitList(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var out []string
	for _, s := range strings.Split(text, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// AlbumForm holds the editable album fields. Empty optional strings mean
// "not set".
type AlbumForm struct {
	Title       string
	Year        int
	Publisher   string
	CoverImage  string
	Description string
	Country     string
	Type        model.AlbumType
	DriveLink   string
}

// AlbumFormFrom pre-fills a form for editing a.
func AlbumFormFrom(a model.Album) AlbumForm {
	return AlbumForm{
		Title:       a.Title,
		Year:        a.Year,
		Publisher:   a.Publisher,
		CoverImage:  a.CoverImage,
		Description: a.Description,
		Country:     a.Country,
		Type:        a.Type,
		DriveLink:   a.DriveLink,
	}
}

// Validate checks required fields and ranges.
func (f AlbumForm) Validate() error {
	if strings.TrimSpace(f.Title) == "" {
		return invalid("title", "is required")
	}
	if f.Year < 1900 || f.Year > 2100 {
		return invalid("year", "must be between 1900 and 2100, got %d", f.Year)
	}
	if strings.TrimSpace(f.Publisher) == "" {
		return invalid("publisher", "is required")
	}
	if !f.Type.Valid() {
		return invalid("type", "unknown album type %q", f.Type)
	}
	return nil
}

// Apply builds the album with the given id. Fields not on the form, such as
// the scan checksum, are taken from prev when it is non-nil.
func (f AlbumForm) Apply(id string, prev *model.Album) model.Album {
	a := model.Album{
		ID:          id,
		Title:       strings.TrimSpace(f.Title),
		Year:        f.Year,
		Publisher:   strings.TrimSpace(f.Publisher),
		CoverImage:  f.CoverImage,
		Description: f.Description,
		Country:     f.Country,
		Type:        f.Type,
		DriveLink:   f.DriveLink,
	}
	if prev != nil {
		a.ScanChecksum = prev.ScanChecksum
	}
	return a
}

// PlayerForm holds the editable player fields. History and album ids are
// entered as text and parsed on Apply.
type PlayerForm struct {
	Name              string
	CurrentTeam       string
	Position          model.Position
	DateOfBirth       string
	Nationality       string
	PhotoURL          string
	Appearances       *int
	Goals             *int
	AlbumIDsInput     string
	TeamsHistoryInput string
	Height            *int
	Weight            *int
	Rating            *int
	Skills            model.Skills
}

// PlayerFormFrom pre-fills a form for editing p.
func PlayerFormFrom(p model.Player) PlayerForm {
	return PlayerForm{
		Name:              p.Name,
		CurrentTeam:       p.CurrentTeam,
		Position:          p.Position,
		DateOfBirth:       p.DateOfBirth,
		Nationality:       p.Nationality,
		PhotoURL:          p.PhotoURL,
		Appearances:       p.Appearances,
		Goals:             p.Goals,
		AlbumIDsInput:     strings.Join(p.AlbumIDs, ", "),
		TeamsHistoryInput: FormatTeamsHistoryForInput(p.TeamsHistory),
		Height:            p.Height,
		Weight:            p.Weight,
		Rating:            p.Rating,
		Skills:            p.Skills,
	}
}

// Validate checks required fields, the birth date format and numeric ranges.
func (f PlayerForm) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return invalid("name", "is required")
	}
	if !f.Position.Valid() {
		return invalid("position", "unknown position %q", f.Position)
	}
	if _, err := time.Parse(time.DateOnly, f.DateOfBirth); err != nil {
		return invalid("dateOfBirth", "must be YYYY-MM-DD, got %q", f.DateOfBirth)
	}
	if strings.TrimSpace(f.Nationality) == "" {
		return invalid("nationality", "is required")
	}
	for _, n := range []struct {
		field string
		v     *int
	}{{"appearances", f.Appearances}, {"goals", f.Goals}, {"height", f.Height}, {"weight", f.Weight}} {
		if n.v != nil && *n.v < 0 {
			return invalid(n.field, "must not be negative")
		}
	}
	if err := ValidateRating(f.Rating); err != nil {
		return err
	}
	return ValidateSkills(f.Position, f.Skills)
}

// Apply builds the player with the given id. Only the skill group that
// matches the position is kept, and the total is recomputed.
func (f PlayerForm) Apply(id string) model.Player {
	skills := relevantSkills(f.Position, f.Skills)
	return model.Player{
		ID:           id,
		Name:         strings.TrimSpace(f.Name),
		CurrentTeam:  strings.TrimSpace(f.CurrentTeam),
		Position:     f.Position,
		DateOfBirth:  f.DateOfBirth,
		Nationality:  strings.TrimSpace(f.Nationality),
		PhotoURL:     f.PhotoURL,
		Appearances:  f.Appearances,
		Goals:        f.Goals,
		AlbumIDs:     ParseAlbumIDsInput(f.AlbumIDsInput),
		TeamsHistory: ParseTeamsHistoryInput(f.TeamsHistoryInput),
		Height:       f.Height,
		Weight:       f.Weight,
		Rating:       f.Rating,
		Skills:       skills,
		TotalSkills:  CalculateTotalSkills(f.Position, skills),
	}
}

// TeamForm holds the editable team fields.
type TeamForm struct {
	Name            string
	Country         string
	FoundationYear  int
	StadiumName     string
	StadiumCapacity *int
	LogoURL         string
	TitlesInput     string
	AlbumIDsInput   string
}

// TeamFormFrom pre-fills a form for editing t.
func TeamFormFrom(t model.Team) TeamForm {
	return TeamForm{
		Name:            t.Name,
		Country:         t.Country,
		FoundationYear:  t.FoundationYear,
		StadiumName:     t.StadiumName,
		StadiumCapacity: t.StadiumCapacity,
		LogoURL:         t.LogoURL,
		TitlesInput:     FormatTitlesForInput(t.Titles),
		AlbumIDsInput:   strings.Join(t.AlbumIDs, ", "),
	}
}

// Validate checks required fields. The foundation year must lie between
// 1800 and the current year.
func (f TeamForm) Validate(now time.Time) error {
	if strings.TrimSpace(f.Name) == "" {
		return invalid("name", "is required")
	}
	if strings.TrimSpace(f.Country) == "" {
		return invalid("country", "is required")
	}
	if f.FoundationYear < 1800 || f.FoundationYear > now.Year() {
		return invalid("foundationYear", "must be between 1800 and %d, got %d", now.Year(), f.FoundationYear)
	}
	if strings.TrimSpace(f.StadiumName) == "" {
		return invalid("stadiumName", "is required")
	}
	if f.StadiumCapacity != nil && *f.StadiumCapacity < 0 {
		return invalid("stadiumCapacity", "must not be negative")
	}
	return nil
}

// Apply builds the team with the given id.
func (f TeamForm) Apply(id string) model.Team {
	return model.Team{
		ID:              id,
		Name:            strings.TrimSpace(f.Name),
		Country:         strings.TrimSpace(f.Country),
		FoundationYear:  f.FoundationYear,
		StadiumName:     strings.TrimSpace(f.StadiumName),
		StadiumCapacity: f.StadiumCapacity,
		LogoURL:         f.LogoURL,
		Titles:          ParseTitlesInput(f.TitlesInput),
		AlbumIDs:        ParseAlbumIDsInput(f.AlbumIDsInput),
	}
}
