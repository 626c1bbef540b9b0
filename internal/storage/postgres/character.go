package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/duskvale/rpg/internal/game/character"
)

// ErrCharacterNotFound is returned when a character lookup yields no results.
var ErrCharacterNotFound = errors.New("character not found")

// ErrCharacterExists is returned when creating a character whose ID is
// already stored.
var ErrCharacterExists = errors.New("character already exists")

// ItemRow is one persisted inventory entry. Equipped rows carry
// Quantity == 1 and an EquipOrder >= 0; held rows have EquipOrder == -1.
type ItemRow struct {
	ItemID     string
	Quantity   int
	EquipOrder int
}

// CharacterRepository persists characters and their inventories.
type CharacterRepository struct {
	db *pgxpool.Pool
}

// NewCharacterRepository creates a CharacterRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewCharacterRepository(db *pgxpool.Pool) *CharacterRepository {
	return &CharacterRepository{db: db}
}

// Create inserts a new character.
//
// Precondition: c must be non-nil with a non-empty ID.
// Postcondition: Returns nil on success, ErrCharacterExists on duplicate ID.
func (r *CharacterRepository) Create(ctx context.Context, c *character.Character) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO characters
			(id, name, class, level, xp, max_hp, hp, attack, defense, currency)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		c.ID, c.Name, c.Class, c.Level, c.XP, c.MaxHP, c.HP, c.Attack, c.Defense, c.Currency,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrCharacterExists
		}
		return fmt.Errorf("inserting character: %w", err)
	}
	return nil
}

// Get retrieves a character by ID.
//
// Precondition: id must be non-empty.
// Postcondition: Returns the Character or ErrCharacterNotFound.
func (r *CharacterRepository) Get(ctx context.Context, id string) (*character.Character, error) {
	var c character.Character
	err := r.db.QueryRow(ctx, `
		SELECT id, name, class, level, xp, max_hp, hp, attack, defense, currency
		FROM characters WHERE id = $1`,
		id,
	).Scan(
		&c.ID, &c.Name, &c.Class, &c.Level, &c.XP,
		&c.MaxHP, &c.HP, &c.Attack, &c.Defense, &c.Currency,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCharacterNotFound
		}
		return nil, fmt.Errorf("querying character: %w", err)
	}
	return &c, nil
}

// List returns all stored characters ordered by creation time.
//
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *CharacterRepository) List(ctx context.Context) ([]*character.Character, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, class, level, xp, max_hp, hp, attack, defense, currency
		FROM characters ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing characters: %w", err)
	}
	defer rows.Close()

	chars := make([]*character.Character, 0)
	for rows.Next() {
		var c character.Character
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Class, &c.Level, &c.XP,
			&c.MaxHP, &c.HP, &c.Attack, &c.Defense, &c.Currency,
		); err != nil {
			return nil, fmt.Errorf("scanning character row: %w", err)
		}
		chars = append(chars, &c)
	}
	return chars, rows.Err()
}

// Save updates a character's stored stats.
//
// Precondition: c must be non-nil with a non-empty ID.
// Postcondition: Returns nil on success, ErrCharacterNotFound if no row updated.
func (r *CharacterRepository) Save(ctx context.Context, c *character.Character) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE characters
		SET name = $2, class = $3, level = $4, xp = $5,
		    max_hp = $6, hp = $7, attack = $8, defense = $9, currency = $10,
		    updated_at = NOW()
		WHERE id = $1`,
		c.ID, c.Name, c.Class, c.Level, c.XP, c.MaxHP, c.HP, c.Attack, c.Defense, c.Currency,
	)
	if err != nil {
		return fmt.Errorf("saving character: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCharacterNotFound
	}
	return nil
}

// Delete removes a character and, via cascade, its inventory rows.
//
// Postcondition: Returns nil on success, ErrCharacterNotFound if no row deleted.
func (r *CharacterRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM characters WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting character: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCharacterNotFound
	}
	return nil
}

// SaveItems replaces the character's stored inventory with the given rows,
// in a single transaction.
//
// Precondition: the character row must exist; every row must have
// Quantity > 0.
// Postcondition: On success the stored inventory matches rows exactly; on
// error the previous inventory is untouched.
func (r *CharacterRepository) SaveItems(ctx context.Context, characterID string, rows []ItemRow) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning inventory transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM character_items WHERE character_id = $1`, characterID); err != nil {
		return fmt.Errorf("clearing inventory: %w", err)
	}
	for _, row := range rows {
		if _, err := tx.Exec(ctx, `
			INSERT INTO character_items (character_id, item_id, quantity, equip_order)
			VALUES ($1,$2,$3,$4)`,
			characterID, row.ItemID, row.Quantity, row.EquipOrder,
		); err != nil {
			return fmt.Errorf("inserting inventory row %q: %w", row.ItemID, err)
		}
	}
	return tx.Commit(ctx)
}

// LoadItems returns the character's stored inventory rows, equipped rows
// first in equip order, then held rows by item ID.
func (r *CharacterRepository) LoadItems(ctx context.Context, characterID string) ([]ItemRow, error) {
	rows, err := r.db.Query(ctx, `
		SELECT item_id, quantity, equip_order
		FROM character_items
		WHERE character_id = $1
		ORDER BY (equip_order = -1), equip_order, item_id`,
		characterID,
	)
	if err != nil {
		return nil, fmt.Errorf("loading inventory: %w", err)
	}
	defer rows.Close()

	items := make([]ItemRow, 0)
	for rows.Next() {
		var row ItemRow
		if err := rows.Scan(&row.ItemID, &row.Quantity, &row.EquipOrder); err != nil {
			return nil, fmt.Errorf("scanning inventory row: %w", err)
		}
		items = append(items, row)
	}
	return items, rows.Err()
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	// pgx wraps PostgreSQL errors; check for SQLSTATE 23505 (unique_violation)
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23505"
	}
	return false
}
