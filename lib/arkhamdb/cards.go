package arkhamdb

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// rawCard mirrors the upstream wire format for a card record. The
// struct tags are the only place wire field names appear; canonical
// entities never carry them.
type rawCard struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Subname     string `json:"subname"`
	PackName    string `json:"pack_name"`
	TypeName    string `json:"type_name"`
	TypeCode    string `json:"type_code"`
	SubtypeName string `json:"subtype_name"`
	SubtypeCode string `json:"subtype_code"`

	FactionCode  string `json:"faction_code"`
	Faction1Code string `json:"faction1_code"`
	Faction2Code string `json:"faction2_code"`
	Faction3Code string `json:"faction3_code"`

	SkillIntellect *int `json:"skill_intellect"`
	SkillAgility   *int `json:"skill_agility"`
	SkillWillpower *int `json:"skill_willpower"`
	SkillCombat    *int `json:"skill_combat"`
	SkillWild      *int `json:"skill_wild"`

	Exceptional bool            `json:"exceptional"`
	Myriad      bool            `json:"myriad"`
	Cost        *int            `json:"cost"`
	Text        string          `json:"text"`
	Xp          *int            `json:"xp"`
	DeckLimit   *int            `json:"deck_limit"`
	Traits      json.RawMessage `json:"traits"`
	IsUnique    bool            `json:"is_unique"`
	Permanent   bool            `json:"permanent"`
	OctgnID     string          `json:"octgn_id"`
	URL         string          `json:"url"`
	ImageSrc    string          `json:"imagesrc"`

	Restrictions map[string]any `json:"restrictions"`
}

var playerCardTypeCodes = []string{"asset", "event", "skill"}
var playerCardSubtypeCodes = []string{"basicweakness", "weakness"}

// isPlayerCard reports whether a raw record belongs in the player card
// catalog. Only the bulk fetch path applies this filter.
func (r rawCard) isPlayerCard() bool {
	return slices.Contains(playerCardTypeCodes, r.TypeCode) ||
		slices.Contains(playerCardSubtypeCodes, r.SubtypeCode)
}

// phase 1: permissive derivation of the skill map from the five fixed
// wire fields, missing ones defaulting to 0.
func (r rawCard) deriveSkills() (map[Skill]int, error) {
	points := map[Skill]*int{
		SkillIntellect: r.SkillIntellect,
		SkillAgility:   r.SkillAgility,
		SkillWillpower: r.SkillWillpower,
		SkillCombat:    r.SkillCombat,
		SkillWild:      r.SkillWild,
	}
	skills := make(map[Skill]int, len(Skills))
	for _, s := range Skills {
		p := points[s]
		if p == nil {
			skills[s] = 0
			continue
		}
		if *p < 0 {
			return nil, &ValidationError{
				Reason: fmt.Sprintf("negative skill_%s value %d on card %q", s, *p, r.Code),
			}
		}
		skills[s] = *p
	}
	return skills, nil
}

// phase 1: the trait field must be a string; it is split on
// whitespace, each token lowercased with its trailing period stripped.
func (r rawCard) deriveTraits() ([]string, error) {
	if len(r.Traits) == 0 || string(r.Traits) == "null" {
		return []string{}, nil
	}
	var blob string
	if err := json.Unmarshal(r.Traits, &blob); err != nil {
		return nil, &ValidationError{
			Reason: fmt.Sprintf("traits field %s on card %q is not a string", r.Traits, r.Code),
		}
	}
	var traits []string
	for _, token := range strings.Fields(blob) {
		traits = append(traits, strings.ToLower(strings.TrimSuffix(token, ".")))
	}
	if traits == nil {
		traits = []string{}
	}
	return traits, nil
}

// phase 1: factions come from up to four distinct wire fields. A
// mythos code among them means an encounter card reached the player
// card path, which is a hard rejection.
func (r rawCard) deriveFactions() ([]Faction, error) {
	var factions []Faction
	for _, code := range []string{r.FactionCode, r.Faction1Code, r.Faction2Code, r.Faction3Code} {
		if code == "" {
			continue
		}
		if Faction(code) == FactionMythos {
			return nil, &ValidationError{
				Reason: fmt.Sprintf("unexpected encounter card received: %q", r.Code),
			}
		}
		factions = append(factions, Faction(code))
	}
	return factions, nil
}

// NormalizeCard converts one raw upstream card payload into a
// canonical Card. The parse runs in two phases: a permissive
// derivation of the skill map, trait list and faction set from the
// ad-hoc wire fields, then a strict construction of the entity from
// the fully-derived field set.
func NormalizeCard(payload []byte) (Card, error) {
	var raw rawCard
	if err := json.Unmarshal(payload, &raw); err != nil {
		return Card{}, &ValidationError{
			Reason: fmt.Sprintf("malformed card payload: %s", err.Error()),
		}
	}
	return normalizeCard(raw)
}

func normalizeCard(raw rawCard) (Card, error) {
	skills, err := raw.deriveSkills()
	if err != nil {
		return Card{}, err
	}
	traits, err := raw.deriveTraits()
	if err != nil {
		return Card{}, err
	}
	factions, err := raw.deriveFactions()
	if err != nil {
		return Card{}, err
	}

	for _, field := range []struct{ name, value string }{
		{"code", raw.Code},
		{"name", raw.Name},
		{"pack_name", raw.PackName},
		{"type_name", raw.TypeName},
		{"url", raw.URL},
	} {
		if field.value == "" {
			return Card{}, &ValidationError{
				Reason: fmt.Sprintf("card record missing required field %q", field.name),
			}
		}
	}

	restrictions := raw.Restrictions
	if restrictions == nil {
		restrictions = map[string]any{}
	}

	return Card{
		Code:         raw.Code,
		Name:         raw.Name,
		Subname:      raw.Subname,
		PackName:     raw.PackName,
		TypeName:     raw.TypeName,
		SubtypeName:  raw.SubtypeName,
		Factions:     factions,
		Exceptional:  raw.Exceptional,
		Myriad:       raw.Myriad,
		Cost:         raw.Cost,
		Text:         raw.Text,
		Skills:       skills,
		Xp:           raw.Xp,
		DeckLimit:    raw.DeckLimit,
		Traits:       traits,
		IsUnique:     raw.IsUnique,
		Permanent:    raw.Permanent,
		OctgnID:      raw.OctgnID,
		URL:          raw.URL,
		ImageSrc:     raw.ImageSrc,
		Restrictions: restrictions,
	}, nil
}
