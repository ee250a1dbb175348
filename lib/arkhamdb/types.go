package arkhamdb

import "time"

type Faction string

const (
	FactionMythos   Faction = "mythos"
	FactionRogue    Faction = "rogue"
	FactionSeeker   Faction = "seeker"
	FactionMystic   Faction = "mystic"
	FactionSurvivor Faction = "survivor"
	FactionGuardian Faction = "guardian"
	FactionNeutral  Faction = "neutral"
)

type Skill string

const (
	SkillIntellect Skill = "intellect"
	SkillAgility   Skill = "agility"
	SkillWillpower Skill = "willpower"
	SkillCombat    Skill = "combat"
	SkillWild      Skill = "wild"
)

// Skills lists every skill in canonical order. A normalized card's
// skill map always has exactly these keys.
var Skills = []Skill{SkillIntellect, SkillAgility, SkillWillpower, SkillCombat, SkillWild}

// Card is the canonical form of an upstream card record. Optional
// integer fields use pointers since 0 is a meaningful value; optional
// strings are empty when absent.
type Card struct {
	Code        string
	Name        string
	Subname     string
	PackName    string
	TypeName    string
	SubtypeName string
	Factions    []Faction
	Exceptional bool
	Myriad      bool
	Cost        *int
	Text        string
	Skills      map[Skill]int
	Xp          *int
	DeckLimit   *int
	Traits      []string
	IsUnique    bool
	Permanent   bool
	OctgnID     string
	URL         string
	ImageSrc    string

	// upstream restriction payload carried through untouched
	Restrictions map[string]any
}

// Decklist is the canonical form of an upstream deck record. Slots and
// SideSlots are transient: they exist to materialize deck/card rows
// against already-known cards and are never persisted on the deck.
type Decklist struct {
	ID               int
	Name             string
	CreationDate     time.Time
	UpdateDate       time.Time
	Description      string
	UserID           int
	InvestigatorCode string
	InvestigatorName string
	Tags             []string

	Slots     map[string]int
	SideSlots map[string]int
}

// DeckMetadata holds the engagement counters and author identity
// scraped from a deck's HTML page.
type DeckMetadata struct {
	Likes     int
	Favorites int
	Comments  int

	AuthorID   int
	AuthorName string
}
