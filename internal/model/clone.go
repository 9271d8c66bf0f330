package model

import "slices"

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Clone returns a copy of s that shares no pointers with it.
func (s Skills) Clone() Skills {
	return Skills{
		Pace:          cloneInt(s.Pace),
		Shooting:      cloneInt(s.Shooting),
		Passing:       cloneInt(s.Passing),
		Dribbling:     cloneInt(s.Dribbling),
		Defending:     cloneInt(s.Defending),
		Physicality:   cloneInt(s.Physicality),
		Diving:        cloneInt(s.Diving),
		Handling:      cloneInt(s.Handling),
		Kicking:       cloneInt(s.Kicking),
		Reflexes:      cloneInt(s.Reflexes),
		SpeedGK:       cloneInt(s.SpeedGK),
		PositioningGK: cloneInt(s.PositioningGK),
	}
}

// Clone returns a deep copy of p. Nil slices stay nil.
func (p Player) Clone() Player {
	c := p
	c.Appearances = cloneInt(p.Appearances)
	c.Goals = cloneInt(p.Goals)
	c.Height = cloneInt(p.Height)
	c.Weight = cloneInt(p.Weight)
	c.Rating = cloneInt(p.Rating)
	c.AlbumIDs = slices.Clone(p.AlbumIDs)
	c.TeamsHistory = slices.Clone(p.TeamsHistory)
	c.Skills = p.Skills.Clone()
	return c
}

// Clone returns a deep copy of t. Nil slices stay nil.
func (t Team) Clone() Team {
	c := t
	c.StadiumCapacity = cloneInt(t.StadiumCapacity)
	c.Titles = slices.Clone(t.Titles)
	c.AlbumIDs = slices.Clone(t.AlbumIDs)
	return c
}
