package decks

import (
	"strings"

	"miskatonic-backend/lib/fuzzy"
)

type PlayerCount string

const (
	PlayerCountSolo        PlayerCount = "SOLO"
	PlayerCountTwoPlayer   PlayerCount = "TWO-PLAYER"
	PlayerCountFourPlayer  PlayerCount = "FOUR-PLAYER"
	PlayerCountMultiplayer PlayerCount = "MULTIPLAYER"
	PlayerCountUnknown     PlayerCount = "UNKNOWN"
)

// scores must be strictly greater than this to count as evidence
const playerCountThreshold = 60

type keywordBucket struct {
	players  int
	keywords []string
}

// bucket order matters: ties resolve to the first bucket scored
var playerCountKeywords = []keywordBucket{
	{players: 1, keywords: []string{
		"solo",
		"single",
		"single-player",
		"alone",
		"one player",
		"1 player",
		"1-player",
		"one-player",
		"single player",
	}},
	{players: 2, keywords: []string{
		"two-handed",
		"two handed",
		"2 handed",
		"2-handed",
		"duo",
		"pair",
		"2 players",
		"two players",
		"2-player",
		"two-player",
		"partner",
	}},
	{players: 4, keywords: []string{
		"four players",
		"4 players",
		"4 player",
		"four player",
		"4-player",
		"four-player",
		"group",
		"team",
		"quad",
	}},
}

// Classifier guesses the intended player count of a deck from its
// title, description and tags.
type Classifier struct {
	score fuzzy.Score
}

func NewClassifier(score fuzzy.Score) Classifier {
	if score == nil {
		score = fuzzy.PartialRatio
	}
	return Classifier{score: score}
}

func playersToCount(players int) PlayerCount {
	switch players {
	case 1:
		return PlayerCountSolo
	case 2:
		return PlayerCountTwoPlayer
	case 4:
		return PlayerCountFourPlayer
	}
	return PlayerCountUnknown
}

func hasTag(tags []string, want string) bool {
	for _, tag := range tags {
		if strings.EqualFold(tag, want) {
			return true
		}
	}
	return false
}

// Classify applies tag evidence first: a "solo" tag is authoritative,
// and a "multiplayer" tag rules the solo bucket out. Otherwise every
// keyword is fuzzily scored against the title, then against the
// description, keeping the single best bucket across both passes.
func (c Classifier) Classify(title string, description string, tags []string) PlayerCount {
	if hasTag(tags, "solo") {
		return PlayerCountSolo
	}
	buckets := playerCountKeywords
	if hasTag(tags, "multiplayer") {
		restricted := make([]keywordBucket, 0, len(buckets))
		for _, bucket := range buckets {
			if bucket.players > 1 {
				restricted = append(restricted, bucket)
			}
		}
		buckets = restricted
	}

	highest := 0
	best := PlayerCountUnknown

	scanBuckets := func(text string) {
		text = strings.ToLower(text)
		for _, bucket := range buckets {
			for _, keyword := range bucket.keywords {
				score := c.score(keyword, text)
				if score > highest {
					highest = score
					best = playersToCount(bucket.players)
				}
			}
		}
	}

	scanBuckets(title)
	if highest > playerCountThreshold {
		return best
	}

	scanBuckets(description)
	if highest > playerCountThreshold {
		return best
	}
	return PlayerCountUnknown
}
