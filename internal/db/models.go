package db

import "database/sql"

// Card is a stored card row. Collection fields (factions, traits,
// skills, restrictions) are held as JSON text.
type Card struct {
	CardID       string
	Name         string
	Subname      sql.NullString
	PackName     string
	TypeName     string
	SubtypeName  sql.NullString
	Factions     string
	Exceptional  bool
	Myriad       bool
	Cost         sql.NullInt64
	Text         sql.NullString
	Skills       string
	Xp           sql.NullInt64
	DeckLimit    sql.NullInt64
	Traits       string
	IsUnique     bool
	Permanent    bool
	OctgnID      sql.NullString
	URL          string
	ImageSrc     sql.NullString
	Restrictions string
}

// Deck is a stored deck row. Dates are calendar dates in
// timezone.DateLayout form. Engagement counters and the player count
// classification stay NULL until derived.
type Deck struct {
	DeckID           int64
	DeckName         string
	CreationDate     string
	UpdateDate       string
	Description      string
	UserID           int64
	InvestigatorCode string
	InvestigatorName string
	Likes            sql.NullInt64
	Favorites        sql.NullInt64
	Comments         sql.NullInt64
	Tags             string
	PlayerCount      sql.NullString
}

// DeckCard is one (deck, card) entry with its copy count.
type DeckCard struct {
	DeckID   int64
	CardID   string
	Quantity int64
}
