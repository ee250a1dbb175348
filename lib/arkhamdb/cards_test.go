package arkhamdb

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCard(t *testing.T) {
	payload := []byte(`{
		"code": "01020",
		"name": "Machete",
		"pack_name": "Core Set",
		"type_name": "Asset",
		"type_code": "asset",
		"faction_code": "guardian",
		"skill_combat": 1,
		"exceptional": false,
		"myriad": false,
		"cost": 3,
		"text": "You get +1 combat while attacking.",
		"traits": "Item. Weapon. Melee.",
		"is_unique": false,
		"permanent": false,
		"url": "https://arkhamdb.com/card/01020"
	}`)

	card, err := NormalizeCard(payload)
	if err != nil {
		t.Fatal(err)
	}

	cost := 3
	expected := Card{
		Code:        "01020",
		Name:        "Machete",
		PackName:    "Core Set",
		TypeName:    "Asset",
		Factions:    []Faction{FactionGuardian},
		Cost:        &cost,
		Text:        "You get +1 combat while attacking.",
		Skills: map[Skill]int{
			SkillIntellect: 0,
			SkillAgility:   0,
			SkillWillpower: 0,
			SkillCombat:    1,
			SkillWild:      0,
		},
		Traits:       []string{"item", "weapon", "melee"},
		URL:          "https://arkhamdb.com/card/01020",
		Restrictions: map[string]any{},
	}
	if diff := cmp.Diff(expected, card); diff != "" {
		t.Fatalf("normalized card mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeCardSkillKeys(t *testing.T) {
	// the skills map must carry exactly the five fixed keys no matter
	// which wire fields are present
	payloads := [][]byte{
		[]byte(`{"code": "x", "name": "n", "pack_name": "p", "type_name": "t", "url": "u"}`),
		[]byte(`{"code": "x", "name": "n", "pack_name": "p", "type_name": "t", "url": "u",
			"skill_willpower": 2, "skill_wild": 1}`),
	}
	for _, payload := range payloads {
		card, err := NormalizeCard(payload)
		if err != nil {
			t.Fatal(err)
		}
		require.Len(t, card.Skills, len(Skills))
		for _, s := range Skills {
			points, ok := card.Skills[s]
			require.True(t, ok, "missing skill %q", s)
			require.GreaterOrEqual(t, points, 0)
		}
	}
}

func TestNormalizeCardRejectsMythos(t *testing.T) {
	payloads := [][]byte{
		[]byte(`{"code": "x", "name": "n", "pack_name": "p", "type_name": "t", "url": "u",
			"faction_code": "mythos"}`),
		[]byte(`{"code": "x", "name": "n", "pack_name": "p", "type_name": "t", "url": "u",
			"faction_code": "guardian", "faction2_code": "mythos"}`),
	}
	for _, payload := range payloads {
		_, err := NormalizeCard(payload)
		var validation *ValidationError
		require.True(t, errors.As(err, &validation), "expected ValidationError, got %v", err)
	}
}

func TestNormalizeCardRejectsNonStringTraits(t *testing.T) {
	payload := []byte(`{"code": "x", "name": "n", "pack_name": "p", "type_name": "t", "url": "u",
		"traits": ["item", "weapon"]}`)
	_, err := NormalizeCard(payload)
	var validation *ValidationError
	require.True(t, errors.As(err, &validation), "expected ValidationError, got %v", err)
}

func TestNormalizeCardRejectsNegativeSkill(t *testing.T) {
	payload := []byte(`{"code": "x", "name": "n", "pack_name": "p", "type_name": "t", "url": "u",
		"skill_combat": -1}`)
	_, err := NormalizeCard(payload)
	var validation *ValidationError
	require.True(t, errors.As(err, &validation), "expected ValidationError, got %v", err)
}

func TestIsPlayerCard(t *testing.T) {
	testCases := []struct {
		raw      rawCard
		expected bool
	}{
		{raw: rawCard{TypeCode: "asset"}, expected: true},
		{raw: rawCard{TypeCode: "event"}, expected: true},
		{raw: rawCard{TypeCode: "skill"}, expected: true},
		{raw: rawCard{TypeCode: "treachery", SubtypeCode: "weakness"}, expected: true},
		{raw: rawCard{TypeCode: "treachery", SubtypeCode: "basicweakness"}, expected: true},
		{raw: rawCard{TypeCode: "enemy"}, expected: false},
		{raw: rawCard{TypeCode: "scenario"}, expected: false},
		{raw: rawCard{TypeCode: "investigator"}, expected: false},
	}
	for _, test := range testCases {
		require.Equal(t, test.expected, test.raw.isPlayerCard(), "type=%s subtype=%s", test.raw.TypeCode, test.raw.SubtypeCode)
	}
}
