package decks

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"miskatonic-backend/internal/db"
	"miskatonic-backend/lib/arkhamdb"
	"miskatonic-backend/lib/timezone"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/decks")

// earliest date with published decklists upstream
const firstDecklistDate = "2016-01-01"

type Service struct {
	db         *sql.DB
	qry        *db.Queries
	arkham     *arkhamdb.Client
	classifier Classifier
}

func NewService(database *sql.DB, client *arkhamdb.Client) Service {
	return Service{
		db:         database,
		qry:        db.New(database),
		arkham:     client,
		classifier: NewClassifier(nil),
	}
}

func nullCount(v int, ok bool) sql.NullInt64 {
	if !ok {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(v), Valid: true}
}

// saveDecklist persists one normalized decklist: the deck row is
// created if absent, entries are upserted for every slotted card
// already present in the card pool, and the derived fields (tags,
// player count, engagement counters) are refreshed. A metadata scrape
// failure leaves the counters NULL instead of failing the deck.
func (s Service) saveDecklist(ctx context.Context, decklist arkhamdb.Decklist) error {
	ctx, span := tracer.Start(ctx, "saveDecklist")
	defer span.End()

	span.SetAttributes(attribute.Int("deck_id", decklist.ID))

	_, err := s.qry.CreateDeck(ctx, db.CreateDeckParams{
		DeckID:           int64(decklist.ID),
		DeckName:         decklist.Name,
		CreationDate:     decklist.CreationDate.Format(timezone.DateLayout),
		UpdateDate:       decklist.UpdateDate.Format(timezone.DateLayout),
		Description:      decklist.Description,
		UserID:           int64(decklist.UserID),
		InvestigatorCode: decklist.InvestigatorCode,
		InvestigatorName: decklist.InvestigatorName,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("deck %d: %w", decklist.ID, err)
	}

	slotCodes := make([]string, 0, len(decklist.Slots))
	for code := range decklist.Slots {
		slotCodes = append(slotCodes, code)
	}
	sort.Strings(slotCodes)
	for _, code := range slotCodes {
		_, err := s.qry.GetCard(ctx, code)
		if errors.Is(err, sql.ErrNoRows) {
			// signature cards and weaknesses are not in the pool
			slog.DebugContext(ctx, "skipping unknown card", "deck", decklist.ID, "card", code)
			continue
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return fmt.Errorf("deck %d: %w", decklist.ID, err)
		}
		err = s.qry.UpsertDeckCard(ctx, db.UpsertDeckCardParams{
			DeckID:   int64(decklist.ID),
			CardID:   code,
			Quantity: int64(decklist.Slots[code]),
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return fmt.Errorf("deck %d: %w", decklist.ID, err)
		}
	}

	playerCount := s.classifier.Classify(decklist.Name, decklist.Description, decklist.Tags)

	tags := decklist.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("deck %d: %w", decklist.ID, err)
	}

	var likes, favorites, comments sql.NullInt64
	metadata, err := s.arkham.DecklistMetadata(ctx, decklist.ID)
	if err != nil {
		span.RecordError(err)
		slog.WarnContext(ctx, "failed to scrape deck metadata", "deck", decklist.ID, "err", err)
	} else {
		likes = nullCount(metadata.Likes, true)
		favorites = nullCount(metadata.Favorites, true)
		comments = nullCount(metadata.Comments, true)
	}

	err = s.qry.UpdateDeckDerived(ctx, db.UpdateDeckDerivedParams{
		Likes:       likes,
		Favorites:   favorites,
		Comments:    comments,
		Tags:        string(tagsJSON),
		PlayerCount: sql.NullString{String: string(playerCount), Valid: true},
		DeckID:      int64(decklist.ID),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("deck %d: %w", decklist.ID, err)
	}
	return nil
}

// FetchDecklist fetches a single published decklist by id and persists
// it. Unlike the daily sync, a missing deck is a hard error.
func (s Service) FetchDecklist(ctx context.Context, deckID int) error {
	ctx, span := tracer.Start(ctx, "FetchDecklist")
	defer span.End()

	span.SetAttributes(attribute.Int("deck_id", deckID))

	decklist, err := s.arkham.Decklist(ctx, deckID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return s.saveDecklist(ctx, decklist)
}

type SyncResult struct {
	Days  int
	Decks int
}

// nextSyncDate derives the first day to sync: the day after the newest
// stored deck, or the fixed historical start when the store is empty.
func (s Service) nextSyncDate(ctx context.Context) (time.Time, error) {
	latest, err := s.qry.LatestDeckCreationDate(ctx)
	if err != nil {
		return time.Time{}, err
	}
	if !latest.Valid {
		return time.ParseInLocation(timezone.DateLayout, firstDecklistDate, timezone.Location)
	}
	day, err := time.ParseInLocation(timezone.DateLayout, latest.String, timezone.Location)
	if err != nil {
		return time.Time{}, fmt.Errorf("stored creation date %q: %w", latest.String, err)
	}
	return day.AddDate(0, 0, 1), nil
}

// FetchLatestDecklists walks one day at a time from the day after the
// newest stored deck up to (but not including) today, persisting every
// decklist published on each day. A deck that fails to persist is
// logged and skipped; its error is joined into the returned error
// without stopping the walk.
func (s Service) FetchLatestDecklists(ctx context.Context) (SyncResult, error) {
	ctx, span := tracer.Start(ctx, "FetchLatestDecklists")
	defer span.End()

	day, err := s.nextSyncDate(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return SyncResult{}, err
	}

	var result SyncResult
	var errs []error
	today := timezone.Today()
	for day.Before(today) {
		decklists, err := s.arkham.DecklistsByDate(ctx, day)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			errs = append(errs, err)
			return result, errors.Join(errs...)
		}
		for _, decklist := range decklists {
			if err := s.saveDecklist(ctx, decklist); err != nil {
				slog.ErrorContext(ctx, "failed to save decklist",
					"deck", decklist.ID, "date", day.Format(timezone.DateLayout), "err", err)
				errs = append(errs, err)
				continue
			}
			result.Decks++
		}
		result.Days++
		day = day.AddDate(0, 0, 1)
	}

	err = errors.Join(errs...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.SetAttributes(
		attribute.Int("days", result.Days),
		attribute.Int("decks", result.Decks),
	)
	return result, err
}

type BreakdownRequest struct {
	// empty means no investigator filter
	InvestigatorName string
	CardIDs          []string
	Offset           int
	Limit            int
}

type DeckBreakdown struct {
	InvestigatorName string
	CardPresence     map[string]bool
	DeckXp           int64
}

// DecklistBreakdown reports, for a page of stored decks, which of the
// requested cards each deck plays and the deck's total spent
// experience. Decks whose experience cannot be computed (no entries,
// or an entry whose card has no experience cost) are excluded with a
// warning.
func (s Service) DecklistBreakdown(ctx context.Context, req BreakdownRequest) (map[int64]DeckBreakdown, error) {
	ctx, span := tracer.Start(ctx, "DecklistBreakdown")
	defer span.End()

	span.SetAttributes(
		attribute.String("investigator", req.InvestigatorName),
		attribute.Int("offset", req.Offset),
		attribute.Int("limit", req.Limit),
	)

	deckRows, err := s.qry.ListDecks(ctx, db.ListDecksParams{
		InvestigatorName: req.InvestigatorName,
		Offset:           int64(req.Offset),
		Limit:            int64(req.Limit),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	output := make(map[int64]DeckBreakdown, len(deckRows))
	for _, deck := range deckRows {
		stats, err := s.qry.ListDeckCardStats(ctx, deck.DeckID)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}

		var deckXp int64
		computable := len(stats) > 0
		present := make(map[string]bool, len(stats))
		for _, entry := range stats {
			present[entry.CardID] = true
			if !entry.Xp.Valid {
				computable = false
				continue
			}
			deckXp += entry.Quantity * entry.Xp.Int64
		}
		if !computable {
			slog.WarnContext(ctx, "deck has no computable xp", "deck", deck.DeckID)
			continue
		}

		presence := make(map[string]bool, len(req.CardIDs))
		for _, cardID := range req.CardIDs {
			presence[cardID] = present[cardID]
		}
		output[deck.DeckID] = DeckBreakdown{
			InvestigatorName: deck.InvestigatorName,
			CardPresence:     presence,
			DeckXp:           deckXp,
		}
	}
	return output, nil
}
