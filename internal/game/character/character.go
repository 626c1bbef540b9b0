// Package character defines the character domain entity and pure stat
// mutation logic. Inventory, combat, and leveling operate on Characters
// but live in their own packages.
package character

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrNegativeAmount is returned when a damage, heal, or currency operation
// receives a negative amount.
var ErrNegativeAmount = errors.New("amount must be non-negative")

// ErrInsufficientFunds is returned when a wallet debit exceeds the balance.
var ErrInsufficientFunds = errors.New("insufficient funds")

// Character represents a game character's in-session state.
//
// Attack and Defense are mutated only by the inventory service
// (equip/unequip); HP only by TakeDamage/Heal; Level and XP only by the
// leveling service. Direct field writes outside those paths break the
// package invariants.
//
// Invariant: 0 <= HP <= MaxHP; Attack >= 0 and Defense >= 0 while no
// cursed equipment is worn; Level >= 1; XP >= 0; Currency >= 0.
type Character struct {
	// ID is the stable unique identifier used by services that keep
	// per-character state (leveling, bank, quest log).
	ID string
	// Name is the display name. Not guaranteed unique.
	Name string

	MaxHP   int
	HP      int
	Attack  int
	Defense int

	Level int
	XP    int

	// Currency is the wallet balance in coins.
	Currency int

	// Class is the character class ID, empty for classless characters.
	Class string
}

// New creates a Character with a generated ID and HP initialised to maxHP.
//
// Precondition: maxHP > 0; attack >= 0; defense >= 0.
// Postcondition: Returns a valid Character at level 1 with 0 XP and an
// empty wallet, or a non-nil error before any instance exists.
func New(name string, maxHP, attack, defense int) (*Character, error) {
	if name == "" {
		return nil, errors.New("character: name must not be empty")
	}
	if maxHP <= 0 {
		return nil, fmt.Errorf("character: max_hp must be positive, got %d", maxHP)
	}
	if attack < 0 {
		return nil, fmt.Errorf("character: attack must be non-negative, got %d", attack)
	}
	if defense < 0 {
		return nil, fmt.Errorf("character: defense must be non-negative, got %d", defense)
	}
	return &Character{
		ID:      uuid.New().String(),
		Name:    name,
		MaxHP:   maxHP,
		HP:      maxHP,
		Attack:  attack,
		Defense: defense,
		Level:   1,
	}, nil
}

// NewClassed creates a Character with the given class's modifiers applied:
// MaxHP is scaled by the class HP multiplier and the class attack/defense
// bonuses are added to the base stats.
//
// Precondition: class must be non-nil and valid; base stats as for New.
// Postcondition: Returns a valid Character with class modifiers applied,
// or a non-nil error.
func NewClassed(name string, maxHP, attack, defense int, class *Class) (*Character, error) {
	if class == nil {
		return nil, errors.New("character: class must not be nil")
	}
	if err := class.Validate(); err != nil {
		return nil, err
	}
	scaledHP := int(float64(maxHP) * class.HPMultiplier)
	if scaledHP < 1 {
		scaledHP = 1
	}
	c, err := New(name, scaledHP, attack+class.AttackBonus, defense+class.DefenseBonus)
	if err != nil {
		return nil, err
	}
	c.Class = class.ID
	return c, nil
}

// IsAlive reports whether the character has HP remaining.
func (c *Character) IsAlive() bool {
	return c.HP > 0
}

// TakeDamage reduces HP by amount, clamped at 0.
//
// Precondition: amount >= 0.
// Postcondition: 0 <= HP <= MaxHP; no other field changes.
func (c *Character) TakeDamage(amount int) error {
	if amount < 0 {
		return fmt.Errorf("character: damage: %w", ErrNegativeAmount)
	}
	c.HP -= amount
	if c.HP < 0 {
		c.HP = 0
	}
	return nil
}

// Heal restores HP by amount, clamped at MaxHP.
//
// Precondition: amount >= 0.
// Postcondition: 0 <= HP <= MaxHP; no other field changes.
func (c *Character) Heal(amount int) error {
	if amount < 0 {
		return fmt.Errorf("character: heal: %w", ErrNegativeAmount)
	}
	c.HP += amount
	if c.HP > c.MaxHP {
		c.HP = c.MaxHP
	}
	return nil
}

// AddCurrency credits the wallet.
//
// Precondition: amount >= 0.
func (c *Character) AddCurrency(amount int) error {
	if amount < 0 {
		return fmt.Errorf("character: add currency: %w", ErrNegativeAmount)
	}
	c.Currency += amount
	return nil
}

// SpendCurrency debits the wallet. The balance never goes negative: a debit
// larger than the balance fails without mutation.
//
// Precondition: amount >= 0.
// Postcondition: on success Currency decreases by exactly amount; on
// ErrInsufficientFunds the wallet is unchanged.
func (c *Character) SpendCurrency(amount int) error {
	if amount < 0 {
		return fmt.Errorf("character: spend currency: %w", ErrNegativeAmount)
	}
	if c.Currency < amount {
		return fmt.Errorf("character: spend %d with balance %d: %w", amount, c.Currency, ErrInsufficientFunds)
	}
	c.Currency -= amount
	return nil
}
