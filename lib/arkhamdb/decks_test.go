package arkhamdb

import (
	"errors"
	"testing"
	"time"

	"miskatonic-backend/lib/timezone"

	"github.com/stretchr/testify/require"
)

func TestNormalizeDecklist(t *testing.T) {
	payload := []byte(`{
		"id": 101,
		"name": "Roland Goes Alone",
		"date_creation": "2019-04-02T18:22:05+00:00",
		"date_update": "2019-04-03T09:01:44+00:00",
		"description_md": "A deck for true solo play.",
		"user_id": 77,
		"investigator_code": "01001",
		"investigator_name": "Roland Banks",
		"slots": {"01020": 2, "01025": 1},
		"sideSlots": [],
		"tags": "solo, beginner"
	}`)

	deck, err := NormalizeDecklist(payload)
	if err != nil {
		t.Fatal(err)
	}

	require.Equal(t, 101, deck.ID)
	require.Equal(t, "Roland Goes Alone", deck.Name)
	require.Equal(t, time.Date(2019, 4, 2, 0, 0, 0, 0, timezone.Location), deck.CreationDate)
	require.Equal(t, time.Date(2019, 4, 3, 0, 0, 0, 0, timezone.Location), deck.UpdateDate)
	require.Equal(t, 77, deck.UserID)
	require.Equal(t, "Roland Banks", deck.InvestigatorName)
	require.Equal(t, []string{"solo", "beginner"}, deck.Tags)
	require.Equal(t, map[string]int{"01020": 2, "01025": 1}, deck.Slots)
	require.Empty(t, deck.SideSlots)
}

func TestNormalizeDecklistEmptyTags(t *testing.T) {
	payload := []byte(`{
		"id": 5,
		"date_creation": "2018-01-01T00:00:00+00:00",
		"date_update": "2018-01-01T00:00:00+00:00",
		"user_id": 1,
		"investigator_code": "01001",
		"investigator_name": "Roland Banks",
		"slots": {},
		"tags": ""
	}`)
	deck, err := NormalizeDecklist(payload)
	if err != nil {
		t.Fatal(err)
	}
	require.Empty(t, deck.Tags)
	require.Equal(t, "", deck.Name)
}

func TestNormalizeDecklistRejectsNonPositiveQuantity(t *testing.T) {
	payload := []byte(`{
		"id": 6,
		"date_creation": "2018-01-01T00:00:00+00:00",
		"date_update": "2018-01-01T00:00:00+00:00",
		"user_id": 1,
		"investigator_code": "01001",
		"investigator_name": "Roland Banks",
		"slots": {"01020": 0}
	}`)
	_, err := NormalizeDecklist(payload)
	var validation *ValidationError
	require.True(t, errors.As(err, &validation), "expected ValidationError, got %v", err)
}

func TestNormalizeDecklistRejectsBadDates(t *testing.T) {
	payload := []byte(`{
		"id": 7,
		"date_creation": "yesterday",
		"date_update": "2018-01-01T00:00:00+00:00",
		"user_id": 1,
		"investigator_code": "01001",
		"investigator_name": "Roland Banks"
	}`)
	_, err := NormalizeDecklist(payload)
	var validation *ValidationError
	require.True(t, errors.As(err, &validation), "expected ValidationError, got %v", err)
}

func TestTruncateDateWithoutOffset(t *testing.T) {
	date, err := truncateDate("2017-06-12T23:59:59")
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, time.Date(2017, 6, 12, 0, 0, 0, 0, timezone.Location), date)
}
