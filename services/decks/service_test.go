package decks

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"miskatonic-backend/internal/db"
	"miskatonic-backend/lib/arkhamdb"
	"miskatonic-backend/lib/testutil"
	"miskatonic-backend/lib/timezone"

	"github.com/stretchr/testify/require"
)

const deckPage = `<html><body>
<span class="social-icons">
	<a id="social-icon-like" href="#"><span class="num">12</span></a>
	<a id="social-icon-favorite" href="#"><span class="num">3</span></a>
	<a id="social-icon-comments" href="#"><span class="num">7</span></a>
</span>
<a class="username" href="/user/profile/42/norman">norman</a>
</body></html>`

func deckJSON(id int, date string, slots string) string {
	return fmt.Sprintf(`{
		"id": %d,
		"name": "True Solo Agnes",
		"date_creation": "%sT10:00:00+00:00",
		"date_update": "%sT10:00:00+00:00",
		"description_md": "a deck",
		"user_id": 42,
		"investigator_code": "01004",
		"investigator_name": "Agnes Baker",
		"slots": %s,
		"tags": "solo, theme"
	}`, id, date, date, slots)
}

func setupService(t *testing.T, handler http.Handler) (Service, func()) {
	result, cleanupDb := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "decks",
		DbSchema: db.Schema,
	})

	server := httptest.NewServer(handler)
	client, err := arkhamdb.NewClient(arkhamdb.ClientOptions{
		BaseURL:           server.URL,
		RequestsPerSecond: 1000,
	})
	require.NoError(t, err)

	return NewService(result.DB, client), func() {
		server.Close()
		cleanupDb()
	}
}

func seedCard(t *testing.T, qry *db.Queries, code string, xp sql.NullInt64) {
	t.Helper()
	_, err := qry.CreateCard(context.Background(), db.CreateCardParams{
		CardID:       code,
		Name:         "Card " + code,
		PackName:     "Core Set",
		TypeName:     "Asset",
		Factions:     `["neutral"]`,
		Skills:       `{}`,
		Xp:           xp,
		Traits:       `[]`,
		URL:          "https://arkhamdb.com/card/" + code,
		Restrictions: `{}`,
	})
	require.NoError(t, err)
}

func seedDeck(t *testing.T, qry *db.Queries, deckID int64, creationDate string, investigator string) {
	t.Helper()
	_, err := qry.CreateDeck(context.Background(), db.CreateDeckParams{
		DeckID:           deckID,
		DeckName:         fmt.Sprintf("Deck %d", deckID),
		CreationDate:     creationDate,
		UpdateDate:       creationDate,
		UserID:           1,
		InvestigatorCode: "01004",
		InvestigatorName: investigator,
	})
	require.NoError(t, err)
}

func xpValue(v int64) sql.NullInt64 {
	return sql.NullInt64{Int64: v, Valid: true}
}

func TestFetchLatestDecklists(t *testing.T) {
	syncDay := timezone.Today().AddDate(0, 0, -1).Format(timezone.DateLayout)
	seededDay := timezone.Today().AddDate(0, 0, -2).Format(timezone.DateLayout)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == fmt.Sprintf("/api/public/decklists/by_date/%s.json", syncDay):
			w.Write([]byte("[" + deckJSON(101, syncDay, `{"01020": 2, "99999": 1}`) + "]"))
		case strings.HasPrefix(r.URL.Path, "/api/public/decklists/by_date/"):
			w.WriteHeader(http.StatusInternalServerError)
		case r.URL.Path == "/decklist/view/101":
			w.Write([]byte(deckPage))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	service, cleanup := setupService(t, handler)
	defer cleanup()
	ctx := context.Background()

	seedCard(t, service.qry, "01020", xpValue(0))
	// known history ends two days ago, so the walk covers one day
	seedDeck(t, service.qry, 1, seededDay, "Roland Banks")

	result, err := service.FetchLatestDecklists(ctx)
	require.NoError(t, err)
	require.Equal(t, SyncResult{Days: 1, Decks: 1}, result)

	deck, err := service.qry.GetDeck(ctx, 101)
	require.NoError(t, err)
	require.Equal(t, "True Solo Agnes", deck.DeckName)
	require.Equal(t, syncDay, deck.CreationDate)
	require.Equal(t, `["solo","theme"]`, deck.Tags)
	// "solo" tag is authoritative
	require.Equal(t, string(PlayerCountSolo), deck.PlayerCount.String)
	require.Equal(t, int64(12), deck.Likes.Int64)
	require.Equal(t, int64(3), deck.Favorites.Int64)
	require.Equal(t, int64(7), deck.Comments.Int64)

	// the unknown card 99999 is skipped, the known one is kept
	stats, err := service.qry.ListDeckCardStats(ctx, 101)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	require.Equal(t, "01020", stats[0].CardID)
	require.Equal(t, int64(2), stats[0].Quantity)

	// nothing new upstream: the walk starts at today and does nothing
	result, err = service.FetchLatestDecklists(ctx)
	require.NoError(t, err)
	require.Equal(t, SyncResult{}, result)

	stats, err = service.qry.ListDeckCardStats(ctx, 101)
	require.NoError(t, err)
	require.Len(t, stats, 1)
}

func TestFetchDecklistMetadataFailureLeavesCountersNull(t *testing.T) {
	day := "2019-03-04"
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/public/decklist/202.json":
			w.Write([]byte(deckJSON(202, day, `{"01020": 1}`)))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	service, cleanup := setupService(t, handler)
	defer cleanup()
	ctx := context.Background()

	seedCard(t, service.qry, "01020", xpValue(0))

	err := service.FetchDecklist(ctx, 202)
	require.NoError(t, err)

	deck, err := service.qry.GetDeck(ctx, 202)
	require.NoError(t, err)
	require.False(t, deck.Likes.Valid)
	require.False(t, deck.Favorites.Valid)
	require.False(t, deck.Comments.Valid)
	require.True(t, deck.PlayerCount.Valid)
}

func TestFetchDecklistNotFound(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	service, cleanup := setupService(t, handler)
	defer cleanup()

	err := service.FetchDecklist(context.Background(), 999)
	require.Error(t, err)

	var retrieval *arkhamdb.RetrievalError
	require.ErrorAs(t, err, &retrieval)
}

func TestDecklistBreakdown(t *testing.T) {
	service, cleanup := setupService(t, http.NotFoundHandler())
	defer cleanup()
	ctx := context.Background()
	qry := service.qry

	seedCard(t, qry, "01020", xpValue(0))
	seedCard(t, qry, "01021", xpValue(2))
	seedCard(t, qry, "01022", sql.NullInt64{})

	seedDeck(t, qry, 1, "2019-01-01", "Agnes Baker")
	seedDeck(t, qry, 2, "2019-01-02", "Agnes Baker")
	seedDeck(t, qry, 3, "2019-01-03", "Roland Banks")
	seedDeck(t, qry, 4, "2019-01-04", "Agnes Baker")

	entries := []db.UpsertDeckCardParams{
		{DeckID: 1, CardID: "01020", Quantity: 2},
		{DeckID: 1, CardID: "01021", Quantity: 2},
		{DeckID: 2, CardID: "01021", Quantity: 1},
		{DeckID: 2, CardID: "01022", Quantity: 1},
		{DeckID: 3, CardID: "01021", Quantity: 2},
	}
	for _, entry := range entries {
		require.NoError(t, qry.UpsertDeckCard(ctx, entry))
	}

	out, err := service.DecklistBreakdown(ctx, BreakdownRequest{
		CardIDs: []string{"01020", "01021"},
		Limit:   10,
	})
	require.NoError(t, err)

	// deck 2 has an entry without an xp cost and deck 4 has no
	// entries at all; both are excluded
	require.Len(t, out, 2)
	require.Equal(t, DeckBreakdown{
		InvestigatorName: "Agnes Baker",
		CardPresence:     map[string]bool{"01020": true, "01021": true},
		DeckXp:           4,
	}, out[1])
	require.Equal(t, DeckBreakdown{
		InvestigatorName: "Roland Banks",
		CardPresence:     map[string]bool{"01020": false, "01021": true},
		DeckXp:           4,
	}, out[3])
}

func TestDecklistBreakdownInvestigatorFilterAndPaging(t *testing.T) {
	service, cleanup := setupService(t, http.NotFoundHandler())
	defer cleanup()
	ctx := context.Background()
	qry := service.qry

	seedCard(t, qry, "01021", xpValue(1))
	for id := int64(1); id <= 5; id++ {
		investigator := "Agnes Baker"
		if id%2 == 0 {
			investigator = "Roland Banks"
		}
		seedDeck(t, qry, id, "2019-01-01", investigator)
		require.NoError(t, qry.UpsertDeckCard(ctx, db.UpsertDeckCardParams{
			DeckID: id, CardID: "01021", Quantity: 1,
		}))
	}

	// Agnes decks are 1, 3, 5; skip the first
	out, err := service.DecklistBreakdown(ctx, BreakdownRequest{
		InvestigatorName: "Agnes Baker",
		CardIDs:          []string{"01021"},
		Offset:           1,
		Limit:            10,
	})
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Contains(t, out, int64(3))
	require.Contains(t, out, int64(5))

	out, err = service.DecklistBreakdown(ctx, BreakdownRequest{
		InvestigatorName: "Agnes Baker",
		CardIDs:          []string{"01021"},
		Limit:            1,
	})
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Contains(t, out, int64(1))
}
