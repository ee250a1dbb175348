package decks

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifyTitleKeyword(t *testing.T) {
	classifier := NewClassifier(nil)

	require.Equal(t, PlayerCountTwoPlayer, classifier.Classify("The Duo Run", "", nil))
	require.Equal(t, PlayerCountSolo, classifier.Classify("True Solo Agnes", "", nil))
	require.Equal(t, PlayerCountFourPlayer, classifier.Classify("4-player support build", "", nil))
}

func TestClassifySoloTagShortCircuits(t *testing.T) {
	classifier := NewClassifier(nil)

	got := classifier.Classify("Random Deck Title", "", []string{"Solo"})
	require.Equal(t, PlayerCountSolo, got)

	// tag evidence wins even against strong contrary text
	got = classifier.Classify("4 players only", "four players", []string{"solo"})
	require.Equal(t, PlayerCountSolo, got)
}

func TestClassifyMultiplayerTagRulesOutSolo(t *testing.T) {
	classifier := NewClassifier(nil)

	got := classifier.Classify("True Solo Agnes", "", []string{"multiplayer"})
	require.NotEqual(t, PlayerCountSolo, got)

	got = classifier.Classify("two players campaign", "", []string{"multiplayer"})
	require.Equal(t, PlayerCountTwoPlayer, got)
}

func TestClassifyUnknown(t *testing.T) {
	classifier := NewClassifier(nil)

	require.Equal(t, PlayerCountUnknown, classifier.Classify("Untitled", "", nil))
	require.Equal(t, PlayerCountUnknown, classifier.Classify("", "", nil))
}

func TestClassifyFallsBackToDescription(t *testing.T) {
	classifier := NewClassifier(nil)

	got := classifier.Classify("Untitled", "built for two-handed play", nil)
	require.Equal(t, PlayerCountTwoPlayer, got)
}

func TestClassifyPluggableScorer(t *testing.T) {
	calls := 0
	classifier := NewClassifier(func(needle, haystack string) int {
		calls++
		if needle == "quad" && haystack == "weird title" {
			return 100
		}
		return 0
	})

	got := classifier.Classify("Weird Title", "", nil)
	require.Equal(t, PlayerCountFourPlayer, got)
	require.NotZero(t, calls)
}
