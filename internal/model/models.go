package model

// AlbumType classifies what an album collects.
type AlbumType string

const (
	AlbumTypeNone         AlbumType = ""
	AlbumTypeNationalTeam AlbumType = "National-Team"
	AlbumTypeClub         AlbumType = "Club"
	AlbumTypeLeague       AlbumType = "League"
)

// AlbumTypes lists the valid non-empty album types in display order.
var AlbumTypes = []AlbumType{AlbumTypeNationalTeam, AlbumTypeClub, AlbumTypeLeague}

// Valid reports whether t is one of AlbumTypes or the empty type.
func (t AlbumType) Valid() bool {
	if t == AlbumTypeNone {
		return true
	}
	for _, v := range AlbumTypes {
		if t == v {
			return true
		}
	}
	return false
}

// Position is a player's field position.
type Position string

const (
	PositionGoalkeeper Position = "Goalkeeper"
	PositionDefender   Position = "Defender"
	PositionMidfielder Position = "Midfielder"
	PositionForward    Position = "Forward"
)

// Positions lists every valid position.
var Positions = []Position{PositionGoalkeeper, PositionDefender, PositionMidfielder, PositionForward}

// Valid reports whether p is one of Positions.
func (p Position) Valid() bool {
	for _, v := range Positions {
		if p == v {
			return true
		}
	}
	return false
}

// Album is a sticker album catalog entry.
type Album struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Year         int       `json:"year"`
	Publisher    string    `json:"publisher"`
	CoverImage   string    `json:"coverImage"`
	Description  string    `json:"description,omitempty"`
	Country      string    `json:"country,omitempty"`
	Type         AlbumType `json:"type,omitempty"`
	DriveLink    string    `json:"driveLink,omitempty"`    // embeddable preview URL
	ScanChecksum string    `json:"scanChecksum,omitempty"` // SHA-256 of the uploaded PDF scan in the vault
}

// TeamHistoryEntry is one club in a player's career, in the order the user typed it.
type TeamHistoryEntry struct {
	TeamName    string `json:"teamName"`
	YearsPlayed string `json:"yearsPlayed"`
}

// Skills holds position-dependent ratings. Only one of the two groups is
// meaningful for a given player: the goalkeeper group when the player is a
// Goalkeeper, the field group otherwise.
type Skills struct {
	// Field players
	Pace        *int `json:"pace,omitempty"`
	Shooting    *int `json:"shooting,omitempty"`
	Passing     *int `json:"passing,omitempty"`
	Dribbling   *int `json:"dribbling,omitempty"`
	Defending   *int `json:"defending,omitempty"`
	Physicality *int `json:"physicality,omitempty"`

	// Goalkeepers
	Diving        *int `json:"diving,omitempty"`
	Handling      *int `json:"handling,omitempty"`
	Kicking       *int `json:"kicking,omitempty"`
	Reflexes      *int `json:"reflexes,omitempty"`
	SpeedGK       *int `json:"speed_gk,omitempty"`
	PositioningGK *int `json:"positioning_gk,omitempty"`
}

// SkillValue names a single attribute and its (possibly absent) value.
type SkillValue struct {
	Name  string
	Value *int
}

// FieldSkills returns the six field-player attributes in display order.
func (s Skills) FieldSkills() []SkillValue {
	return []SkillValue{
		{"pace", s.Pace},
		{"shooting", s.Shooting},
		{"passing", s.Passing},
		{"dribbling", s.Dribbling},
		{"defending", s.Defending},
		{"physicality", s.Physicality},
	}
}

// GoalkeeperSkills returns the six goalkeeper attributes in display order.
func (s Skills) GoalkeeperSkills() []SkillValue {
	return []SkillValue{
		{"diving", s.Diving},
		{"handling", s.Handling},
		{"kicking", s.Kicking},
		{"reflexes", s.Reflexes},
		{"speed_gk", s.SpeedGK},
		{"positioning_gk", s.PositioningGK},
	}
}

// Player is a catalog player. AlbumIDs are plain references with no
// existence check against the album collection.
type Player struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	CurrentTeam  string             `json:"currentTeam,omitempty"`
	Position     Position           `json:"position"`
	DateOfBirth  string             `json:"dateOfBirth"` // YYYY-MM-DD
	Nationality  string             `json:"nationality"`
	PhotoURL     string             `json:"photoUrl"`
	Appearances  *int               `json:"appearances,omitempty"`
	Goals        *int               `json:"goals,omitempty"`
	AlbumIDs     []string           `json:"albumIds,omitempty"`
	TeamsHistory []TeamHistoryEntry `json:"teamsHistory,omitempty"`
	Height       *int               `json:"height,omitempty"`
	Weight       *int               `json:"weight,omitempty"`
	Rating       *int               `json:"rating,omitempty"`
	Skills       Skills             `json:"skills"`
	TotalSkills  int                `json:"totalSkills"` // derived, recomputed on every write
}

// Team is a catalog club or national side.
type Team struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Country         string   `json:"country"`
	FoundationYear  int      `json:"foundationYear"`
	StadiumName     string   `json:"stadiumName"`
	StadiumCapacity *int     `json:"stadiumCapacity,omitempty"`
	LogoURL         string   `json:"logoUrl"`
	Titles          []string `json:"titles,omitempty"`
	AlbumIDs        []string `json:"albumIds,omitempty"`
}

// Catalog is the complete set of records, in the fixture/snapshot layout.
type Catalog struct {
	Albums  []Album  `json:"albums"`
	Players []Player `json:"players"`
	Teams   []Team   `json:"teams"`
}

// Role gates write operations in the role-aware variant.
type Role string

const (
	RoleNone       Role = "" // static credential file: no roles
	RoleUser       Role = "user"
	RoleEditor     Role = "editor"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// Credential is a username/password pair. Password is plaintext when read from
// the static credential file and at the moment a user is added; stores that
// hash passwords never hand the hash back through this type.
type Credential struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     Role   `json:"role,omitempty"`
}

// Identity is the minimal logged-in user record.
type Identity struct {
	Username string `json:"username"`
	Role     Role   `json:"role,omitempty"`
}

// IntPtr returns a pointer to v. Convenient for optional fields in fixtures and tests.
func IntPtr(v int) *int { return &v }

// Permission names a capability checked before an operation runs.
type Permission string

const (
	PermUsersRead     Permission = "users:read"
	PermUsersManage   Permission = "users:manage"
	PermUsersDelete   Permission = "users:delete"
	PermContentManage Permission = "content:manage"
	PermContentCreate Permission = "content:create"
	PermContentEdit   Permission = "content:edit"
	PermContentDelete Permission = "content:delete"
	PermContentView   Permission = "content:view"
	PermSettingsView  Permission = "settings:view"
)
