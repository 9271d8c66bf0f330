package main

import (
	"fmt"
	"sort"
	"strings"

	"albumdex/internal/catalog"
	"albumdex/internal/model"

	"github.com/spf13/pflag"
)

// Form flags are copied onto a form only when set, so `edit` changes just
// the fields named on the command line.

func addAlbumFlags(fs *pflag.FlagSet) {
	fs.String("title", "", "Album title")
	fs.Int("year", 0, "Release year")
	fs.String("publisher", "", "Publisher, e.g. Panini")
	fs.String("cover", "", "Cover image URL")
	fs.String("description", "", "Description")
	fs.String("country", "", "Country")
	fs.String("type", "", "Album type: National-Team, Club or League")
	fs.String("drive-link", "", "Embeddable preview URL")
}

func applyAlbumFlags(fs *pflag.FlagSet, f *catalog.AlbumForm) {
	setString(fs, "title", &f.Title)
	setInt(fs, "year", &f.Year)
	setString(fs, "publisher", &f.Publisher)
	setString(fs, "cover", &f.CoverImage)
	setString(fs, "description", &f.Description)
	setString(fs, "country", &f.Country)
	if fs.Changed("type") {
		v, _ := fs.GetString("type")
		f.Type = model.AlbumType(v)
	}
	setString(fs, "drive-link", &f.DriveLink)
}

func addPlayerFlags(fs *pflag.FlagSet) {
	fs.String("name", "", "Player name")
	fs.String("team", "", "Current team")
	fs.String("position", "", "Goalkeeper, Defender, Midfielder or Forward")
	fs.String("dob", "", "Date of birth, YYYY-MM-DD")
	fs.String("nationality", "", "Nationality")
	fs.String("photo", "", "Photo URL")
	fs.Int("appearances", 0, "Appearances")
	fs.Int("goals", 0, "Goals")
	fs.String("albums", "", "Comma-separated album ids")
	fs.String("history", "", `Career, e.g. "Real Madrid (1996-2001), Juventus (2001-2006)"`)
	fs.Int("height", 0, "Height in cm")
	fs.Int("weight", 0, "Weight in kg")
	fs.Int("rating", 0, "Overall rating, 1-99")
	fs.StringToInt("skill", nil, "Skill ratings, e.g. pace=90,shooting=85")
}

func applyPlayerFlags(fs *pflag.FlagSet, f *catalog.PlayerForm) error {
	setString(fs, "name", &f.Name)
	setString(fs, "team", &f.CurrentTeam)
	if fs.Changed("position") {
		v, _ := fs.GetString("position")
		f.Position = model.Position(v)
	}
	setString(fs, "dob", &f.DateOfBirth)
	setString(fs, "nationality", &f.Nationality)
	setString(fs, "photo", &f.PhotoURL)
	setIntPtr(fs, "appearances", &f.Appearances)
	setIntPtr(fs, "goals", &f.Goals)
	setString(fs, "albums", &f.AlbumIDsInput)
	setString(fs, "history", &f.TeamsHistoryInput)
	setIntPtr(fs, "height", &f.Height)
	setIntPtr(fs, "weight", &f.Weight)
	setIntPtr(fs, "rating", &f.Rating)
	if fs.Changed("skill") {
		skills, _ := fs.GetStringToInt("skill")
		return setSkills(&f.Skills, skills)
	}
	return nil
}

// setSkills writes each named rating into s. Names match the JSON keys.
func setSkills(s *model.Skills, values map[string]int) error {
	targets := map[string]**int{}
	for _, name := range skillNames(s) {
		targets[name.name] = name.ptr
	}
	for name, v := range values {
		ptr, ok := targets[strings.ToLower(name)]
		if !ok {
			return fmt.Errorf("unknown skill %q (want one of %s)", name, strings.Join(sortedKeys(targets), ", "))
		}
		*ptr = &v
	}
	return nil
}

type skillTarget struct {
	name string
	ptr  **int
}

func skillNames(s *model.Skills) []skillTarget {
	return []skillTarget{
		{"pace", &s.Pace},
		{"shooting", &s.Shooting},
		{"passing", &s.Passing},
		{"dribbling", &s.Dribbling},
		{"defending", &s.Defending},
		{"physicality", &s.Physicality},
		{"diving", &s.Diving},
		{"handling", &s.Handling},
		{"kicking", &s.Kicking},
		{"reflexes", &s.Reflexes},
		{"speed_gk", &s.SpeedGK},
		{"positioning_gk", &s.PositioningGK},
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func addTeamFlags(fs *pflag.FlagSet) {
	fs.String("name", "", "Team name")
	fs.String("country", "", "Country")
	fs.Int("founded", 0, "Foundation year")
	fs.String("stadium", "", "Stadium name")
	fs.Int("capacity", 0, "Stadium capacity")
	fs.String("logo", "", "Logo URL")
	fs.String("titles", "", "Comma-separated titles")
	fs.String("albums", "", "Comma-separated album ids")
}

func applyTeamFlags(fs *pflag.FlagSet, f *catalog.TeamForm) {
	setString(fs, "name", &f.Name)
	setString(fs, "country", &f.Country)
	setInt(fs, "founded", &f.FoundationYear)
	setString(fs, "stadium", &f.StadiumName)
	setIntPtr(fs, "capacity", &f.StadiumCapacity)
	setString(fs, "logo", &f.LogoURL)
	setString(fs, "titles", &f.TitlesInput)
	setString(fs, "albums", &f.AlbumIDsInput)
}

func setString(fs *pflag.FlagSet, name string, dst *string) {
	if fs.Changed(name) {
		*dst, _ = fs.GetString(name)
	}
}

func setInt(fs *pflag.FlagSet, name string, dst *int) {
	if fs.Changed(name) {
		*dst, _ = fs.GetInt(name)
	}
}

// setIntPtr sets an optional number. A negative value clears it.
func setIntPtr(fs *pflag.FlagSet, name string, dst **int) {
	if !fs.Changed(name) {
		return
	}
	v, _ := fs.GetInt(name)
	if v < 0 {
		*dst = nil
		return
	}
	*dst = &v
}
