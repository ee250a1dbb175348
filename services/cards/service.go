package cards

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"miskatonic-backend/internal/db"
	"miskatonic-backend/lib/arkhamdb"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/cards")

type Service struct {
	db     *sql.DB
	qry    *db.Queries
	arkham *arkhamdb.Client
}

func NewService(database *sql.DB, client *arkhamdb.Client) Service {
	return Service{
		db:     database,
		qry:    db.New(database),
		arkham: client,
	}
}

// CardInfo returns the stored card with the given code, fetching and
// persisting it from upstream on first access.
func (s Service) CardInfo(ctx context.Context, code string) (arkhamdb.Card, error) {
	ctx, span := tracer.Start(ctx, "CardInfo")
	defer span.End()

	span.SetAttributes(attribute.String("code", code))

	row, err := s.qry.GetCard(ctx, code)
	if err == nil {
		return rowToCard(row)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return arkhamdb.Card{}, err
	}

	card, err := s.arkham.Card(ctx, code)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return arkhamdb.Card{}, err
	}
	params, err := cardToRow(card)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return arkhamdb.Card{}, err
	}
	_, err = s.qry.CreateCard(ctx, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return arkhamdb.Card{}, err
	}
	return card, nil
}

type FetchCardsResult struct {
	Fetched int
	Created int
}

// FetchCards pulls the full player card pool from upstream and stores
// every card not already present. Cards that fail normalization are
// reported through the returned error but never block the rest of the
// batch.
func (s Service) FetchCards(ctx context.Context) (FetchCardsResult, error) {
	ctx, span := tracer.Start(ctx, "FetchCards")
	defer span.End()

	cardsList, fetchErr := s.arkham.AllCards(ctx)
	if fetchErr != nil && len(cardsList) == 0 {
		span.RecordError(fetchErr)
		span.SetStatus(codes.Error, fetchErr.Error())
		return FetchCardsResult{}, fetchErr
	}

	result := FetchCardsResult{Fetched: len(cardsList)}
	var errs []error
	if fetchErr != nil {
		errs = append(errs, fetchErr)
	}
	for _, card := range cardsList {
		params, err := cardToRow(card)
		if err != nil {
			slog.ErrorContext(ctx, "serialize card", "code", card.Code, "err", err)
			errs = append(errs, err)
			continue
		}
		created, err := s.qry.CreateCard(ctx, params)
		if err != nil {
			slog.ErrorContext(ctx, "store card", "code", card.Code, "err", err)
			errs = append(errs, err)
			continue
		}
		result.Created += int(created)
	}

	err := errors.Join(errs...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.SetAttributes(
		attribute.Int("fetched", result.Fetched),
		attribute.Int("created", result.Created),
	)
	return result, err
}
