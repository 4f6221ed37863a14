package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Schema creates the table PostgresStore reads and writes.
const Schema = `
CREATE TABLE IF NOT EXISTS cards (
	id            TEXT PRIMARY KEY,
	kind          TEXT NOT NULL,
	name          TEXT NOT NULL,
	base_creature TEXT NOT NULL DEFAULT '',
	color         TEXT NOT NULL DEFAULT '',
	strength      INTEGER NOT NULL DEFAULT 0,
	cost          INTEGER NOT NULL DEFAULT 0,
	shape         TEXT NOT NULL DEFAULT '',
	ability       TEXT NOT NULL DEFAULT '',
	effect        TEXT NOT NULL DEFAULT '',
	description   TEXT NOT NULL DEFAULT '',
	rarity        TEXT NOT NULL DEFAULT 'common',
	position      INTEGER NOT NULL DEFAULT 0
)`

const selectCardsSQL = `
SELECT id, kind, name, base_creature, color, strength, cost, shape, ability, effect, description, rarity
FROM cards
ORDER BY position, id`

const upsertCardSQL = `
INSERT INTO cards (id, kind, name, base_creature, color, strength, cost, shape, ability, effect, description, rarity, position)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
ON CONFLICT (id) DO UPDATE SET
	kind = EXCLUDED.kind,
	name = EXCLUDED.name,
	base_creature = EXCLUDED.base_creature,
	color = EXCLUDED.color,
	strength = EXCLUDED.strength,
	cost = EXCLUDED.cost,
	shape = EXCLUDED.shape,
	ability = EXCLUDED.ability,
	effect = EXCLUDED.effect,
	description = EXCLUDED.description,
	rarity = EXCLUDED.rarity,
	position = EXCLUDED.position`

// Record is the flat row form of a Card.
type Record struct {
	ID           string `db:"id"`
	Kind         string `db:"kind"`
	Name         string `db:"name"`
	BaseCreature string `db:"base_creature"`
	Color        string `db:"color"`
	Strength     int    `db:"strength"`
	Cost         int    `db:"cost"`
	Shape        string `db:"shape"`
	Ability      string `db:"ability"`
	Effect       string `db:"effect"`
	Description  string `db:"description"`
	Rarity       string `db:"rarity"`
}

// RecordFor flattens a card into its row form.
func RecordFor(card Card) Record {
	r := Record{
		ID:     card.CardID(),
		Kind:   string(card.Kind()),
		Name:   card.CardName(),
		Rarity: string(card.CardRarity()),
	}
	switch v := card.(type) {
	case *Creature:
		r.BaseCreature = v.BaseCreature
		r.Color = v.Color
		r.Strength = v.Strength
		r.Cost = v.Cost
		r.Shape = string(v.Shape)
		r.Ability = string(v.Ability)
	case *Shape:
		r.Shape = string(v.Shape)
	case *Item:
		r.Effect = string(v.Effect)
		r.Description = v.Description
	}
	return r
}

// Card rebuilds the catalog variant described by the record.
func (r Record) Card() (Card, error) {
	var card Card
	switch Kind(r.Kind) {
	case KindCreature:
		card = &Creature{
			ID:           r.ID,
			Name:         r.Name,
			BaseCreature: r.BaseCreature,
			Color:        r.Color,
			Strength:     r.Strength,
			Cost:         r.Cost,
			Shape:        ShapeKind(r.Shape),
			Ability:      Ability(r.Ability),
			Rarity:       Rarity(r.Rarity),
		}
	case KindShape:
		card = &Shape{ID: r.ID, Name: r.Name, Shape: ShapeKind(r.Shape), Rarity: Rarity(r.Rarity)}
	case KindItem:
		card = &Item{ID: r.ID, Name: r.Name, Effect: ItemEffect(r.Effect), Description: r.Description, Rarity: Rarity(r.Rarity)}
	default:
		return nil, fmt.Errorf("card %s: unknown kind %q", r.ID, r.Kind)
	}
	if err := Validate(card); err != nil {
		return nil, err
	}
	return card, nil
}

// PostgresStore loads and saves the card catalog in PostgreSQL.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgresStore connects to the database at url and verifies the
// connection.
func NewPostgresStore(ctx context.Context, url string, logger *zap.Logger) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect to catalog database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping catalog database: %w", err)
	}
	return &PostgresStore{pool: pool, logger: logger}, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// EnsureSchema creates the cards table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("create cards table: %w", err)
	}
	return nil
}

// Load reads every card row and builds a catalog from them.
func (s *PostgresStore) Load(ctx context.Context) (*Catalog, error) {
	rows, err := s.pool.Query(ctx, selectCardsSQL)
	if err != nil {
		return nil, fmt.Errorf("query cards: %w", err)
	}
	records, err := pgx.CollectRows(rows, pgx.RowToStructByName[Record])
	if err != nil {
		return nil, fmt.Errorf("scan cards: %w", err)
	}

	cards := make([]Card, 0, len(records))
	for _, r := range records {
		card, err := r.Card()
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}

	cat, err := New(cards...)
	if err != nil {
		return nil, err
	}
	if s.logger != nil {
		s.logger.Info("loaded card catalog from database", zap.Int("cards", cat.Len()))
	}
	return cat, nil
}

// Save upserts every card of cat in a single transaction and returns the
// number of rows written.
func (s *PostgresStore) Save(ctx context.Context, cat *Catalog) (int, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for i, card := range cat.All() {
		r := RecordFor(card)
		batch.Queue(upsertCardSQL,
			r.ID, r.Kind, r.Name, r.BaseCreature, r.Color, r.Strength, r.Cost,
			r.Shape, r.Ability, r.Effect, r.Description, r.Rarity, i,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return 0, fmt.Errorf("upsert cards: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit cards: %w", err)
	}
	return batch.Len(), nil
}
