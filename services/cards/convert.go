package cards

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"miskatonic-backend/internal/db"
	"miskatonic-backend/lib/arkhamdb"
)

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	out := int(v.Int64)
	return &out
}

// cardToRow serializes collection fields as JSON text. Slice order is
// preserved so stored cards round-trip byte for byte.
func cardToRow(card arkhamdb.Card) (db.CreateCardParams, error) {
	factions := make([]string, len(card.Factions))
	for i, f := range card.Factions {
		factions[i] = string(f)
	}
	factionsJSON, err := json.Marshal(factions)
	if err != nil {
		return db.CreateCardParams{}, err
	}

	traits := make([]string, len(card.Traits))
	copy(traits, card.Traits)
	traitsJSON, err := json.Marshal(traits)
	if err != nil {
		return db.CreateCardParams{}, err
	}

	skillsJSON, err := json.Marshal(card.Skills)
	if err != nil {
		return db.CreateCardParams{}, err
	}
	restrictionsJSON, err := json.Marshal(card.Restrictions)
	if err != nil {
		return db.CreateCardParams{}, err
	}

	return db.CreateCardParams{
		CardID:       card.Code,
		Name:         card.Name,
		Subname:      nullString(card.Subname),
		PackName:     card.PackName,
		TypeName:     card.TypeName,
		SubtypeName:  nullString(card.SubtypeName),
		Factions:     string(factionsJSON),
		Exceptional:  card.Exceptional,
		Myriad:       card.Myriad,
		Cost:         nullInt(card.Cost),
		Text:         nullString(card.Text),
		Skills:       string(skillsJSON),
		Xp:           nullInt(card.Xp),
		DeckLimit:    nullInt(card.DeckLimit),
		Traits:       string(traitsJSON),
		IsUnique:     card.IsUnique,
		Permanent:    card.Permanent,
		OctgnID:      nullString(card.OctgnID),
		URL:          card.URL,
		ImageSrc:     nullString(card.ImageSrc),
		Restrictions: string(restrictionsJSON),
	}, nil
}

func rowToCard(row db.Card) (arkhamdb.Card, error) {
	var factionNames []string
	if err := json.Unmarshal([]byte(row.Factions), &factionNames); err != nil {
		return arkhamdb.Card{}, fmt.Errorf("card %s: decode factions: %w", row.CardID, err)
	}
	factions := make([]arkhamdb.Faction, len(factionNames))
	for i, f := range factionNames {
		factions[i] = arkhamdb.Faction(f)
	}

	var traits []string
	if err := json.Unmarshal([]byte(row.Traits), &traits); err != nil {
		return arkhamdb.Card{}, fmt.Errorf("card %s: decode traits: %w", row.CardID, err)
	}
	var skills map[arkhamdb.Skill]int
	if err := json.Unmarshal([]byte(row.Skills), &skills); err != nil {
		return arkhamdb.Card{}, fmt.Errorf("card %s: decode skills: %w", row.CardID, err)
	}
	var restrictions map[string]any
	if err := json.Unmarshal([]byte(row.Restrictions), &restrictions); err != nil {
		return arkhamdb.Card{}, fmt.Errorf("card %s: decode restrictions: %w", row.CardID, err)
	}

	return arkhamdb.Card{
		Code:         row.CardID,
		Name:         row.Name,
		Subname:      row.Subname.String,
		PackName:     row.PackName,
		TypeName:     row.TypeName,
		SubtypeName:  row.SubtypeName.String,
		Factions:     factions,
		Exceptional:  row.Exceptional,
		Myriad:       row.Myriad,
		Cost:         intPtr(row.Cost),
		Text:         row.Text.String,
		Skills:       skills,
		Xp:           intPtr(row.Xp),
		DeckLimit:    intPtr(row.DeckLimit),
		Traits:       traits,
		IsUnique:     row.IsUnique,
		Permanent:    row.Permanent,
		OctgnID:      row.OctgnID.String,
		URL:          row.URL,
		ImageSrc:     row.ImageSrc.String,
		Restrictions: restrictions,
	}, nil
}
