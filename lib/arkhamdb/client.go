package arkhamdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"time"

	"miskatonic-backend/lib/telemetry"
	"miskatonic-backend/lib/timezone"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"
)

var tracer = otel.Tracer("lib/arkhamdb")

const DefaultBaseURL = "https://arkhamdb.com"

// Client talks to the upstream card data service: the public JSON api
// plus the deck/user HTML pages that have no api equivalent.
type Client struct {
	api     *resty.Client
	web     *resty.Client
	limiter *rate.Limiter

	metadata *metadataCache
}

type ClientOptions struct {
	BaseURL string
	// per-call timeout; defaults to 30s
	Timeout time.Duration
	// upstream requests per second during bulk operations;
	// defaults to 4
	RequestsPerSecond float64
	// metadata cache capacity, 0 = unbounded
	MetadataCacheSize int
}

func NewClient(opts ClientOptions) (*Client, error) {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout == 0 {
		opts.Timeout = time.Second * 30
	}
	if opts.RequestsPerSecond == 0 {
		opts.RequestsPerSecond = 4
	}

	api := resty.New()
	api.SetBaseURL(opts.BaseURL)
	api.SetTimeout(opts.Timeout)
	telemetry.InstrumentResty(api, "arkhamdb/api")

	web := resty.New()
	web.SetBaseURL(opts.BaseURL)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	web.SetCookieJar(jar)
	web.SetTimeout(opts.Timeout)
	web.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(web.GetClient().Transport)
	telemetry.InstrumentResty(web, "arkhamdb/web")

	return &Client{
		api:      api,
		web:      web,
		limiter:  rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1),
		metadata: newMetadataCache(opts.MetadataCacheSize),
	}, nil
}

func (c *Client) get(ctx context.Context, client *resty.Client, endpoint string) (*resty.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	res, err := client.R().
		SetContext(ctx).
		Get(endpoint)
	if err != nil {
		return nil, &RetrievalError{Endpoint: endpoint, Err: err}
	}
	return res, nil
}

// Card fetches and normalizes a single card record by its upstream
// code. No player card filtering is applied on this path.
func (c *Client) Card(ctx context.Context, code string) (Card, error) {
	ctx, span := tracer.Start(ctx, "Card")
	defer span.End()

	endpoint := fmt.Sprintf("/api/public/card/%s", code)
	res, err := c.get(ctx, c.api, endpoint)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch card")
		return Card{}, err
	}
	if res.StatusCode() != http.StatusOK {
		err := &RetrievalError{Endpoint: endpoint, StatusCode: res.StatusCode()}
		span.RecordError(err)
		span.SetStatus(codes.Error, "unexpected status code")
		return Card{}, err
	}

	card, err := NormalizeCard(res.Body())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to normalize card")
		return Card{}, err
	}
	return card, nil
}

// AllCards fetches the full player card catalog. Records marked as
// non-player cards by their type or subtype are skipped; a record that
// passes the filter but fails validation aborts only that record. Any
// such per-record failures are joined into the returned error
// alongside the successfully normalized cards.
func (c *Client) AllCards(ctx context.Context) ([]Card, error) {
	ctx, span := tracer.Start(ctx, "AllCards")
	defer span.End()

	endpoint := "/api/public/cards"
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	res, err := c.api.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"_format":   "json",
			"encounter": "0",
		}).
		Get(endpoint)
	if err != nil {
		retrieval := &RetrievalError{Endpoint: endpoint, Err: err}
		span.RecordError(retrieval)
		span.SetStatus(codes.Error, "failed to fetch card catalog")
		return nil, retrieval
	}
	if res.StatusCode() != http.StatusOK {
		retrieval := &RetrievalError{Endpoint: endpoint, StatusCode: res.StatusCode()}
		span.RecordError(retrieval)
		span.SetStatus(codes.Error, "unexpected status code")
		return nil, retrieval
	}

	var rawCards []rawCard
	if err := json.Unmarshal(res.Body(), &rawCards); err != nil {
		validation := &ValidationError{
			Reason: fmt.Sprintf("malformed card catalog: %s", err.Error()),
		}
		span.RecordError(validation)
		span.SetStatus(codes.Error, "failed to parse card catalog")
		return nil, validation
	}

	var cards []Card
	var errList []error
	for _, raw := range rawCards {
		if !raw.isPlayerCard() {
			slog.DebugContext(ctx, "skipping non-player card", "name", raw.Name, "type", raw.TypeCode)
			continue
		}
		card, err := normalizeCard(raw)
		if err != nil {
			// this record already passed the player card filter, so a
			// validation failure here is unexpected
			slog.ErrorContext(ctx, "failed to normalize player card", "code", raw.Code, "err", err)
			errList = append(errList, err)
			continue
		}
		cards = append(cards, card)
	}

	slog.InfoContext(ctx, "retrieved card catalog", "cards", len(cards), "failed", len(errList))
	return cards, errors.Join(errList...)
}

// DecklistsByDate fetches every deck created on the given date. The
// upstream signals a day with zero decks via HTTP 500, which is an
// empty batch, not an error. A malformed individual record is logged
// and skipped so it cannot poison the rest of the day.
func (c *Client) DecklistsByDate(ctx context.Context, date time.Time) ([]Decklist, error) {
	ctx, span := tracer.Start(ctx, "DecklistsByDate")
	defer span.End()

	endpoint := fmt.Sprintf("/api/public/decklists/by_date/%s.json", date.Format(timezone.DateLayout))
	res, err := c.get(ctx, c.api, endpoint)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch decklists")
		return nil, err
	}
	if res.StatusCode() == http.StatusInternalServerError {
		span.SetStatus(codes.Ok, "no decks for this date")
		return nil, nil
	}
	if res.StatusCode() != http.StatusOK {
		retrieval := &RetrievalError{Endpoint: endpoint, StatusCode: res.StatusCode()}
		span.RecordError(retrieval)
		span.SetStatus(codes.Error, "unexpected status code")
		return nil, retrieval
	}

	var rawLists []rawDecklist
	if err := json.Unmarshal(res.Body(), &rawLists); err != nil {
		validation := &ValidationError{
			Reason: fmt.Sprintf("malformed decklist batch for %s: %s", date.Format(timezone.DateLayout), err.Error()),
		}
		span.RecordError(validation)
		span.SetStatus(codes.Error, "failed to parse decklist batch")
		return nil, validation
	}

	var decks []Decklist
	for _, raw := range rawLists {
		deck, err := normalizeDecklist(raw)
		if err != nil {
			slog.WarnContext(ctx, "skipping malformed decklist", "deck_id", raw.ID, "err", err)
			continue
		}
		decks = append(decks, deck)
	}
	return decks, nil
}

// Decklist fetches a single deck record by id. Unlike the by-date
// path, HTTP 500 here means the deck does not exist, a hard error.
func (c *Client) Decklist(ctx context.Context, deckID int) (Decklist, error) {
	ctx, span := tracer.Start(ctx, "Decklist")
	defer span.End()

	endpoint := fmt.Sprintf("/api/public/decklist/%d.json", deckID)
	res, err := c.get(ctx, c.api, endpoint)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch decklist")
		return Decklist{}, err
	}
	if res.StatusCode() != http.StatusOK {
		retrieval := &RetrievalError{Endpoint: endpoint, StatusCode: res.StatusCode()}
		span.RecordError(retrieval)
		span.SetStatus(codes.Error, "decklist not found")
		return Decklist{}, retrieval
	}

	deck, err := NormalizeDecklist(res.Body())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to normalize decklist")
		return Decklist{}, err
	}
	return deck, nil
}

// UserProfile fetches a user's HTML profile page. Nothing downstream
// consumes it yet but the endpoint must remain fetchable.
func (c *Client) UserProfile(ctx context.Context, userID int, username string) error {
	ctx, span := tracer.Start(ctx, "UserProfile")
	defer span.End()

	endpoint := fmt.Sprintf("/user/profile/%d/%s", userID, username)
	res, err := c.get(ctx, c.web, endpoint)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch user profile")
		return err
	}
	if res.StatusCode() != http.StatusOK {
		retrieval := &RetrievalError{Endpoint: endpoint, StatusCode: res.StatusCode()}
		span.RecordError(retrieval)
		span.SetStatus(codes.Error, "unexpected status code")
		return retrieval
	}
	if len(res.Body()) == 0 {
		retrieval := &RetrievalError{
			Endpoint: endpoint,
			Err:      errors.New("profile page is empty"),
		}
		span.RecordError(retrieval)
		span.SetStatus(codes.Error, "empty profile page")
		return retrieval
	}
	return nil
}
