package db

import (
	"context"
	"database/sql"
)

const getCard = `
SELECT card_id, name, subname, pack_name, type_name, subtype_name,
    factions, exceptional, myriad, cost, text, skills, xp, deck_limit,
    traits, is_unique, permanent, octgn_id, url, imagesrc, restrictions
FROM cards
WHERE card_id = ?
`

func (q *Queries) GetCard(ctx context.Context, cardID string) (Card, error) {
	row := q.db.QueryRowContext(ctx, getCard, cardID)
	var c Card
	err := row.Scan(
		&c.CardID,
		&c.Name,
		&c.Subname,
		&c.PackName,
		&c.TypeName,
		&c.SubtypeName,
		&c.Factions,
		&c.Exceptional,
		&c.Myriad,
		&c.Cost,
		&c.Text,
		&c.Skills,
		&c.Xp,
		&c.DeckLimit,
		&c.Traits,
		&c.IsUnique,
		&c.Permanent,
		&c.OctgnID,
		&c.URL,
		&c.ImageSrc,
		&c.Restrictions,
	)
	return c, err
}

const createCard = `
INSERT INTO cards (
    card_id, name, subname, pack_name, type_name, subtype_name,
    factions, exceptional, myriad, cost, text, skills, xp, deck_limit,
    traits, is_unique, permanent, octgn_id, url, imagesrc, restrictions
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (card_id) DO NOTHING
`

type CreateCardParams struct {
	CardID       string
	Name         string
	Subname      sql.NullString
	PackName     string
	TypeName     string
	SubtypeName  sql.NullString
	Factions     string
	Exceptional  bool
	Myriad       bool
	Cost         sql.NullInt64
	Text         sql.NullString
	Skills       string
	Xp           sql.NullInt64
	DeckLimit    sql.NullInt64
	Traits       string
	IsUnique     bool
	Permanent    bool
	OctgnID      sql.NullString
	URL          string
	ImageSrc     sql.NullString
	Restrictions string
}

func (q *Queries) CreateCard(ctx context.Context, arg CreateCardParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, createCard,
		arg.CardID,
		arg.Name,
		arg.Subname,
		arg.PackName,
		arg.TypeName,
		arg.SubtypeName,
		arg.Factions,
		arg.Exceptional,
		arg.Myriad,
		arg.Cost,
		arg.Text,
		arg.Skills,
		arg.Xp,
		arg.DeckLimit,
		arg.Traits,
		arg.IsUnique,
		arg.Permanent,
		arg.OctgnID,
		arg.URL,
		arg.ImageSrc,
		arg.Restrictions,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const getDeck = `
SELECT deck_id, deck_name, creation_date, update_date, description,
    user_id, investigator_code, investigator_name, likes, favorites,
    comments, tags, player_count
FROM decks
WHERE deck_id = ?
`

func (q *Queries) GetDeck(ctx context.Context, deckID int64) (Deck, error) {
	row := q.db.QueryRowContext(ctx, getDeck, deckID)
	var d Deck
	err := row.Scan(
		&d.DeckID,
		&d.DeckName,
		&d.CreationDate,
		&d.UpdateDate,
		&d.Description,
		&d.UserID,
		&d.InvestigatorCode,
		&d.InvestigatorName,
		&d.Likes,
		&d.Favorites,
		&d.Comments,
		&d.Tags,
		&d.PlayerCount,
	)
	return d, err
}

const createDeck = `
INSERT INTO decks (
    deck_id, deck_name, creation_date, update_date, description,
    user_id, investigator_code, investigator_name
) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (deck_id) DO NOTHING
`

type CreateDeckParams struct {
	DeckID           int64
	DeckName         string
	CreationDate     string
	UpdateDate       string
	Description      string
	UserID           int64
	InvestigatorCode string
	InvestigatorName string
}

func (q *Queries) CreateDeck(ctx context.Context, arg CreateDeckParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, createDeck,
		arg.DeckID,
		arg.DeckName,
		arg.CreationDate,
		arg.UpdateDate,
		arg.Description,
		arg.UserID,
		arg.InvestigatorCode,
		arg.InvestigatorName,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const updateDeckDerived = `
UPDATE decks
SET likes = ?,
    favorites = ?,
    comments = ?,
    tags = ?,
    player_count = ?
WHERE deck_id = ?
`

type UpdateDeckDerivedParams struct {
	Likes       sql.NullInt64
	Favorites   sql.NullInt64
	Comments    sql.NullInt64
	Tags        string
	PlayerCount sql.NullString
	DeckID      int64
}

func (q *Queries) UpdateDeckDerived(ctx context.Context, arg UpdateDeckDerivedParams) error {
	_, err := q.db.ExecContext(ctx, updateDeckDerived,
		arg.Likes,
		arg.Favorites,
		arg.Comments,
		arg.Tags,
		arg.PlayerCount,
		arg.DeckID,
	)
	return err
}

const upsertDeckCard = `
INSERT INTO deck_cards (deck_id, card_id, quantity)
VALUES (?, ?, ?)
ON CONFLICT (deck_id, card_id) DO UPDATE SET quantity = excluded.quantity
`

type UpsertDeckCardParams struct {
	DeckID   int64
	CardID   string
	Quantity int64
}

func (q *Queries) UpsertDeckCard(ctx context.Context, arg UpsertDeckCardParams) error {
	_, err := q.db.ExecContext(ctx, upsertDeckCard, arg.DeckID, arg.CardID, arg.Quantity)
	return err
}

const latestDeckCreationDate = `
SELECT MAX(creation_date) FROM decks
`

func (q *Queries) LatestDeckCreationDate(ctx context.Context) (sql.NullString, error) {
	row := q.db.QueryRowContext(ctx, latestDeckCreationDate)
	var latest sql.NullString
	err := row.Scan(&latest)
	return latest, err
}

const listDecks = `
SELECT deck_id, deck_name, creation_date, update_date, description,
    user_id, investigator_code, investigator_name, likes, favorites,
    comments, tags, player_count
FROM decks
WHERE (?1 = '' OR investigator_name = ?1)
ORDER BY deck_id
LIMIT ?3 OFFSET ?2
`

type ListDecksParams struct {
	InvestigatorName string
	Offset           int64
	Limit            int64
}

func (q *Queries) ListDecks(ctx context.Context, arg ListDecksParams) ([]Deck, error) {
	rows, err := q.db.QueryContext(ctx, listDecks, arg.InvestigatorName, arg.Offset, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Deck
	for rows.Next() {
		var d Deck
		if err := rows.Scan(
			&d.DeckID,
			&d.DeckName,
			&d.CreationDate,
			&d.UpdateDate,
			&d.Description,
			&d.UserID,
			&d.InvestigatorCode,
			&d.InvestigatorName,
			&d.Likes,
			&d.Favorites,
			&d.Comments,
			&d.Tags,
			&d.PlayerCount,
		); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listDeckCardStats = `
SELECT dc.card_id, dc.quantity, c.xp
FROM deck_cards dc
JOIN cards c ON c.card_id = dc.card_id
WHERE dc.deck_id = ?
ORDER BY dc.card_id
`

type ListDeckCardStatsRow struct {
	CardID   string
	Quantity int64
	Xp       sql.NullInt64
}

func (q *Queries) ListDeckCardStats(ctx context.Context, deckID int64) ([]ListDeckCardStatsRow, error) {
	rows, err := q.db.QueryContext(ctx, listDeckCardStats, deckID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListDeckCardStatsRow
	for rows.Next() {
		var r ListDeckCardStatsRow
		if err := rows.Scan(&r.CardID, &r.Quantity, &r.Xp); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countDecks = `
SELECT COUNT(*) FROM decks
WHERE (?1 = '' OR investigator_name = ?1)
`

func (q *Queries) CountDecks(ctx context.Context, investigatorName string) (int64, error) {
	row := q.db.QueryRowContext(ctx, countDecks, investigatorName)
	var count int64
	err := row.Scan(&count)
	return count, err
}
