package arkhamdb

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"miskatonic-backend/lib/timezone"
)

// rawDecklist mirrors the upstream wire format for a deck record.
// Exile/version/taboo/xp metadata is accepted on the wire but never
// leaves this file.
type rawDecklist struct {
	ID               int             `json:"id"`
	Name             string          `json:"name"`
	DateCreation     string          `json:"date_creation"`
	DateUpdate       string          `json:"date_update"`
	Description      string          `json:"description_md"`
	UserID           int             `json:"user_id"`
	InvestigatorCode string          `json:"investigator_code"`
	InvestigatorName string          `json:"investigator_name"`
	Slots            json.RawMessage `json:"slots"`
	SideSlots        json.RawMessage `json:"sideSlots"`
	Tags             string          `json:"tags"`
}

// truncate an upstream timestamp down to its calendar date.
func truncateDate(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		// some records carry a bare timestamp without an offset
		t, err = time.ParseInLocation("2006-01-02T15:04:05", value, timezone.Location)
		if err != nil {
			return time.Time{}, err
		}
	}
	return timezone.Truncate(t.In(timezone.Location)), nil
}

// slot maps serialize as JSON objects, except the upstream emits an
// empty array when a deck has none.
func decodeSlots(raw json.RawMessage, deckID int) (map[string]int, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" || strings.HasPrefix(trimmed, "[") {
		return map[string]int{}, nil
	}
	var slots map[string]int
	if err := json.Unmarshal(raw, &slots); err != nil {
		return nil, &ValidationError{
			Reason: fmt.Sprintf("malformed slot map on deck %d: %s", deckID, err.Error()),
		}
	}
	for code, quantity := range slots {
		if quantity <= 0 {
			return nil, &ValidationError{
				Reason: fmt.Sprintf("non-positive quantity %d for card %q on deck %d", quantity, code, deckID),
			}
		}
	}
	return slots, nil
}

// NormalizeDecklist converts one raw upstream deck payload into a
// canonical Decklist, truncating the two timestamp fields to calendar
// dates and splitting the delimiter-joined tag field.
func NormalizeDecklist(payload []byte) (Decklist, error) {
	var raw rawDecklist
	if err := json.Unmarshal(payload, &raw); err != nil {
		return Decklist{}, &ValidationError{
			Reason: fmt.Sprintf("malformed deck payload: %s", err.Error()),
		}
	}
	return normalizeDecklist(raw)
}

func normalizeDecklist(raw rawDecklist) (Decklist, error) {
	if raw.ID == 0 {
		return Decklist{}, &ValidationError{Reason: "deck record missing id"}
	}

	created, err := truncateDate(raw.DateCreation)
	if err != nil {
		return Decklist{}, &ValidationError{
			Reason: fmt.Sprintf("bad date_creation %q on deck %d", raw.DateCreation, raw.ID),
		}
	}
	updated, err := truncateDate(raw.DateUpdate)
	if err != nil {
		return Decklist{}, &ValidationError{
			Reason: fmt.Sprintf("bad date_update %q on deck %d", raw.DateUpdate, raw.ID),
		}
	}

	slots, err := decodeSlots(raw.Slots, raw.ID)
	if err != nil {
		return Decklist{}, err
	}
	sideSlots, err := decodeSlots(raw.SideSlots, raw.ID)
	if err != nil {
		return Decklist{}, err
	}

	tags := []string{}
	if raw.Tags != "" {
		tags = strings.Split(raw.Tags, ", ")
	}

	return Decklist{
		ID:               raw.ID,
		Name:             raw.Name,
		CreationDate:     created,
		UpdateDate:       updated,
		Description:      raw.Description,
		UserID:           raw.UserID,
		InvestigatorCode: raw.InvestigatorCode,
		InvestigatorName: raw.InvestigatorName,
		Tags:             tags,
		Slots:            slots,
		SideSlots:        sideSlots,
	}, nil
}
