// Package render formats catalog records for the terminal.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"albumdex/internal/catalog"
	"albumdex/internal/model"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#4ECDC4")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC")).
			Width(16)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(0, 1)

	barStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#95E1A3"))
)

// missing is shown for optional fields that are not set.
const missing = "-"

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(dimStyle).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

// AlbumTable renders albums one per row.
func AlbumTable(albums []model.Album) string {
	t := newTable("ID", "TITLE", "YEAR", "PUBLISHER", "COUNTRY", "TYPE", "SCAN")
	for _, a := range albums {
		scan := ""
		if a.ScanChecksum != "" {
			scan = "yes"
		}
		t.Row(a.ID, a.Title, strconv.Itoa(a.Year), a.Publisher, orMissing(a.Country), orMissing(string(a.Type)), scan)
	}
	return t.String()
}

// PlayerTable renders players one per row.
func PlayerTable(players []model.Player) string {
	t := newTable("ID", "NAME", "TEAM", "POSITION", "NATIONALITY", "RATING", "TOTAL")
	for _, p := range players {
		t.Row(p.ID, p.Name, orMissing(p.CurrentTeam), string(p.Position), p.Nationality, intOrMissing(p.Rating), strconv.Itoa(p.TotalSkills))
	}
	return t.String()
}

// TeamTable renders teams one per row.
func TeamTable(teams []model.Team) string {
	t := newTable("ID", "NAME", "COUNTRY", "FOUNDED", "STADIUM", "CAPACITY", "TITLES")
	for _, tm := range teams {
		t.Row(tm.ID, tm.Name, tm.Country, strconv.Itoa(tm.FoundationYear), tm.StadiumName, intOrMissing(tm.StadiumCapacity), strconv.Itoa(len(tm.Titles)))
	}
	return t.String()
}

// Count is the one-line summary shown under a list.
func Count(shown, total int, noun string) string {
	if shown == total {
		return dimStyle.Render(fmt.Sprintf("%d %s", total, plural(total, noun)))
	}
	return dimStyle.Render(fmt.Sprintf("%d of %d %s", shown, total, plural(total, noun)))
}

func plural(n int, noun string) string {
	if n == 1 {
		return noun
	}
	return noun + "s"
}

type field struct {
	label string
	value string
}

func card(title string, fields []field, sections ...string) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	for _, f := range fields {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render(f.label))
		b.WriteString(f.value)
	}
	for _, s := range sections {
		b.WriteString("\n\n")
		b.WriteString(s)
	}
	return boxStyle.Render(b.String())
}

// AlbumDetail renders a single album.
func AlbumDetail(a model.Album) string {
	fields := []field{
		{"ID", a.ID},
		{"Year", strconv.Itoa(a.Year)},
		{"Publisher", a.Publisher},
		{"Country", orMissing(a.Country)},
		{"Type", orMissing(string(a.Type))},
		{"Cover", orMissing(a.CoverImage)},
		{"Preview", orMissing(a.DriveLink)},
		{"Scan", orMissing(a.ScanChecksum)},
	}
	var sections []string
	if a.Description != "" {
		sections = append(sections, a.Description)
	}
	return card(a.Title, fields, sections...)
}

// PlayerDetail renders a single player with their skill breakdown. age is
// omitted when negative.
func PlayerDetail(p model.Player, age int) string {
	dob := p.DateOfBirth
	if age >= 0 {
		dob = fmt.Sprintf("%s (%d years)", p.DateOfBirth, age)
	}
	fields := []field{
		{"ID", p.ID},
		{"Position", string(p.Position)},
		{"Team", orMissing(p.CurrentTeam)},
		{"Born", dob},
		{"Nationality", p.Nationality},
		{"Appearances", intOrMissing(p.Appearances)},
		{"Goals", intOrMissing(p.Goals)},
		{"Height", unitOrMissing(p.Height, "cm")},
		{"Weight", unitOrMissing(p.Weight, "kg")},
		{"Rating", intOrMissing(p.Rating)},
		{"Albums", orMissing(strings.Join(p.AlbumIDs, ", "))},
	}
	sections := []string{Skills(p)}
	if len(p.TeamsHistory) > 0 {
		var b strings.Builder
		b.WriteString(labelStyle.Render("Career"))
		for _, h := range p.TeamsHistory {
			fmt.Fprintf(&b, "\n  %s (%s)", h.TeamName, h.YearsPlayed)
		}
		sections = append(sections, b.String())
	}
	return card(p.Name, fields, sections...)
}

// Skills renders the skill group that applies to the player's position as
// labelled bars, followed by the total.
func Skills(p model.Player) string {
	group := p.Skills.FieldSkills()
	if p.Position == model.PositionGoalkeeper {
		group = p.Skills.GoalkeeperSkills()
	}
	var b strings.Builder
	for _, s := range group {
		b.WriteString(labelStyle.Render(s.Name))
		if s.Value == nil {
			b.WriteString(missing)
		} else {
			fmt.Fprintf(&b, "%-3d %s", *s.Value, barStyle.Render(bar(*s.Value)))
		}
		b.WriteString("\n")
	}
	b.WriteString(labelStyle.Render("total"))
	b.WriteString(strconv.Itoa(catalog.CalculateTotalSkills(p.Position, p.Skills)))
	return b.String()
}

// bar draws v (1-99) as a bar of up to 20 cells.
func bar(v int) string {
	n := v / 5
	if n < 0 {
		n = 0
	}
	if n > 20 {
		n = 20
	}
	return strings.Repeat("█", n)
}

// TeamDetail renders a single team.
func TeamDetail(t model.Team) string {
	fields := []field{
		{"ID", t.ID},
		{"Country", t.Country},
		{"Founded", strconv.Itoa(t.FoundationYear)},
		{"Stadium", t.StadiumName},
		{"Capacity", intOrMissing(t.StadiumCapacity)},
		{"Logo", orMissing(t.LogoURL)},
		{"Albums", orMissing(strings.Join(t.AlbumIDs, ", "))},
	}
	var sections []string
	if len(t.Titles) > 0 {
		var b strings.Builder
		b.WriteString(labelStyle.Render("Titles"))
		for _, title := range t.Titles {
			fmt.Fprintf(&b, "\n  %s", title)
		}
		sections = append(sections, b.String())
	}
	return card(t.Name, fields, sections...)
}

// Users renders a username list, marking the logged-in user.
func Users(names []string, current string) string {
	t := newTable("USERNAME", "")
	for _, n := range names {
		marker := ""
		if n == current {
			marker = "you"
		}
		t.Row(n, marker)
	}
	return t.String()
}

func orMissing(s string) string {
	if s == "" {
		return missing
	}
	return s
}

func intOrMissing(p *int) string {
	if p == nil {
		return missing
	}
	return strconv.Itoa(*p)
}

func unitOrMissing(p *int, unit string) string {
	if p == nil {
		return missing
	}
	return strconv.Itoa(*p) + " " + unit
}
