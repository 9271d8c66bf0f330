package catalog

import (
	"time"

	"albumdex/internal/model"
)

const (
	minRating = 1
	maxRating = 99
)

// CalculateTotalSkills sums the six attributes that apply to position.
// Goalkeepers use the goalkeeper group, every other position uses the field
// group. Absent attributes count as zero.
func CalculateTotalSkills(position model.Position, skills model.Skills) int {
	total := 0
	for _, s := range skillGroup(position, skills) {
		if s.Value != nil {
			total += *s.Value
		}
	}
	return total
}

func skillGroup(position model.Position, skills model.Skills) []model.SkillValue {
	if position == model.PositionGoalkeeper {
		return skills.GoalkeeperSkills()
	}
	return skills.FieldSkills()
}

// relevantSkills drops the group that does not apply to position.
func relevantSkills(position model.Position, s model.Skills) model.Skills {
	if position == model.PositionGoalkeeper {
		return model.Skills{
			Diving:        s.Diving,
			Handling:      s.Handling,
			Kicking:       s.Kicking,
			Reflexes:      s.Reflexes,
			SpeedGK:       s.SpeedGK,
			PositioningGK: s.PositioningGK,
		}
	}
	return model.Skills{
		Pace:        s.Pace,
		Shooting:    s.Shooting,
		Passing:     s.Passing,
		Dribbling:   s.Dribbling,
		Defending:   s.Defending,
		Physicality: s.Physicality,
	}
}

// ValidateSkills rejects any attribute of the applicable group outside 1-99.
func ValidateSkills(position model.Position, skills model.Skills) error {
	for _, s := range skillGroup(position, skills) {
		if s.Value != nil && (*s.Value < minRating || *s.Value > maxRating) {
			return invalid("skills."+s.Name, "must be between %d and %d, got %d", minRating, maxRating, *s.Value)
		}
	}
	return nil
}

// ValidateRating rejects an overall rating outside 1-99. Nil is allowed.
func ValidateRating(rating *int) error {
	if rating != nil && (*rating < minRating || *rating > maxRating) {
		return invalid("rating", "must be between %d and %d, got %d", minRating, maxRating, *rating)
	}
	return nil
}

// PlayerAge returns the player's age in whole years at now, or -1 when the
// birth date cannot be parsed.
func PlayerAge(p model.Player, now time.Time) int {
	dob, err := time.Parse(time.DateOnly, p.DateOfBirth)
	if err != nil {
		return -1
	}
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return age
}
