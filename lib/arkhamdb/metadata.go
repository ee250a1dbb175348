package arkhamdb

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"

	"miskatonic-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var authorLinkRegex = regexp.MustCompile(`^/user/profile/([0-9]+)/(.+)$`)

// DecklistMetadata scrapes the engagement counters and author identity
// from a deck's HTML page. Results are memoized per deck id for the
// process lifetime; use InvalidateMetadata to force a refetch.
func (c *Client) DecklistMetadata(ctx context.Context, deckID int) (DeckMetadata, error) {
	ctx, span := tracer.Start(ctx, "DecklistMetadata")
	defer span.End()
	span.SetAttributes(attribute.Int("deck_id", deckID))

	if meta, ok := c.metadata.get(deckID); ok {
		span.SetStatus(codes.Ok, "CACHE HIT")
		return meta, nil
	}

	endpoint := fmt.Sprintf("/decklist/view/%d", deckID)
	res, err := c.get(ctx, c.web, endpoint)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch deck page")
		return DeckMetadata{}, err
	}
	if res.StatusCode() != http.StatusOK {
		retrieval := &RetrievalError{Endpoint: endpoint, StatusCode: res.StatusCode()}
		span.RecordError(retrieval)
		span.SetStatus(codes.Error, "unexpected status code")
		return DeckMetadata{}, retrieval
	}
	if len(res.Body()) == 0 {
		retrieval := &RetrievalError{Endpoint: endpoint, Err: errors.New("deck page is empty")}
		span.RecordError(retrieval)
		span.SetStatus(codes.Error, "empty deck page")
		return DeckMetadata{}, retrieval
	}

	meta, err := parseDeckPage(ctx, res.Body())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to scrape deck page")
		return DeckMetadata{}, err
	}

	c.metadata.put(deckID, meta)
	return meta, nil
}

// InvalidateMetadata drops the memoized metadata for one deck.
func (c *Client) InvalidateMetadata(deckID int) {
	c.metadata.Invalidate(deckID)
}

// MetadataCacheLen reports how many deck pages are currently memoized.
func (c *Client) MetadataCacheLen() int {
	return c.metadata.Len()
}

func parseDeckPage(ctx context.Context, body []byte) (DeckMetadata, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(body))
	if err != nil {
		return DeckMetadata{}, &ScrapeStructureError{Landmark: "parseable html"}
	}

	socialIcons := doc.Find("span.social-icons").First()
	if socialIcons.Length() == 0 {
		return DeckMetadata{}, &ScrapeStructureError{Landmark: "span.social-icons"}
	}

	meta := DeckMetadata{
		Likes:     engagementCount(ctx, socialIcons, "a#social-icon-like"),
		Favorites: engagementCount(ctx, socialIcons, "a#social-icon-favorite"),
		Comments:  engagementCount(ctx, socialIcons, "a#social-icon-comments"),
	}

	authorLink := doc.Find("a.username").First()
	href, exists := authorLink.Attr("href")
	if !exists {
		return DeckMetadata{}, &ScrapeStructureError{Landmark: "a.username"}
	}
	groups := authorLinkRegex.FindStringSubmatch(href)
	if groups == nil {
		// author identity is structurally required when the link exists
		return DeckMetadata{}, &ScrapeStructureError{
			Landmark: fmt.Sprintf("author profile link (got %q)", href),
		}
	}
	meta.AuthorID, err = strconv.Atoi(groups[1])
	if err != nil {
		return DeckMetadata{}, &ScrapeStructureError{
			Landmark: fmt.Sprintf("numeric author id (got %q)", groups[1]),
		}
	}
	meta.AuthorName = groups[2]

	return meta, nil
}

// engagementCount reads one social icon's counter. An absent icon or
// counter is a 0, not an error; only the top-level container is a
// structural requirement.
func engagementCount(ctx context.Context, container *goquery.Selection, selector string) int {
	icon := container.Find(selector).First()
	if icon.Length() == 0 {
		return 0
	}
	num := icon.Find("span.num").First()
	if num.Length() == 0 {
		slog.ErrorContext(ctx, "engagement counter not found", "selector", selector)
		return 0
	}
	value, err := strconv.Atoi(htmlutil.TrimText(num.Nodes[0]))
	if err != nil {
		slog.WarnContext(ctx, "non-numeric engagement counter", "selector", selector, "err", err)
		return 0
	}
	return value
}
