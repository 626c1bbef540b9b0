// Package inventory manages a character's held and equipped items.
//
// Equipping applies an item's stat deltas to the character exactly once;
// unequipping subtracts the same deltas. For any sequence of paired
// equip/unequip calls the character's attack and defense return to their
// starting values exactly (integer arithmetic, no drift).
package inventory

import (
	"errors"
	"fmt"
	"sort"

	"github.com/duskvale/rpg/internal/game/character"
	"github.com/duskvale/rpg/internal/game/item"
)

// ErrUnknownItem is returned when an item ID is not in the registry.
var ErrUnknownItem = errors.New("unknown item")

// ErrNotEquippable is returned when equipping a non-equipment item.
var ErrNotEquippable = errors.New("item is not equipment")

// ErrNotConsumable is returned when using a non-consumable item.
var ErrNotConsumable = errors.New("item is not consumable")

// ErrAlreadyEquipped is returned when equipping an item that is already
// equipped. The call mutates nothing; rejecting repeats is what keeps the
// equip/unequip symmetry invariant safe under double calls.
var ErrAlreadyEquipped = errors.New("item already equipped")

// ErrNotEquipped is returned when unequipping an item that is not equipped.
var ErrNotEquipped = errors.New("item not equipped")

// ErrOutOfStock is returned when the held quantity of an item is zero.
var ErrOutOfStock = errors.New("item out of stock")

// EffectRunner computes a consumable's effect amount from character state.
// Using a local interface avoids a dependency on the scripting package.
type EffectRunner interface {
	Effect(name string, hp, maxHP, amount int) int
}

// HeldItem pairs an item definition with the quantity held.
type HeldItem struct {
	Def      *item.Def
	Quantity int
}

// Inventory tracks one character's held quantities and equipped items.
//
// Invariant: every ID in the equipped list is registered equipment and
// appears at most once; held quantities are never negative.
type Inventory struct {
	reg     *item.Registry
	effects EffectRunner

	held     map[string]int
	equipped []string // equip order, for UI display
}

// New creates an empty Inventory backed by the given registry. effects may
// be nil; consumables then apply their plain effect amount.
//
// Precondition: reg must be non-nil.
// Postcondition: Returns an Inventory with no held or equipped items.
func New(reg *item.Registry, effects EffectRunner) *Inventory {
	if reg == nil {
		panic("inventory: New: registry must not be nil")
	}
	return &Inventory{
		reg:     reg,
		effects: effects,
		held:    make(map[string]int),
	}
}

// Add places quantity units of the given item into the inventory.
//
// Precondition: quantity > 0; itemID must be registered.
// Postcondition: Quantity(itemID) increases by quantity, or nothing changes
// on error.
func (inv *Inventory) Add(itemID string, quantity int) error {
	if _, ok := inv.reg.Item(itemID); !ok {
		return fmt.Errorf("inventory: add %q: %w", itemID, ErrUnknownItem)
	}
	if quantity <= 0 {
		return fmt.Errorf("inventory: add %q: quantity must be > 0, got %d", itemID, quantity)
	}
	inv.held[itemID] += quantity
	return nil
}

// Remove takes quantity units of the given item out of the inventory.
// Equipped items are not held and cannot be removed without unequipping.
//
// Precondition: quantity > 0.
// Postcondition: Quantity(itemID) decreases by quantity, or nothing changes
// on error.
func (inv *Inventory) Remove(itemID string, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("inventory: remove %q: quantity must be > 0, got %d", itemID, quantity)
	}
	if inv.held[itemID] < quantity {
		return fmt.Errorf("inventory: remove %d of %q with %d held: %w", quantity, itemID, inv.held[itemID], ErrOutOfStock)
	}
	inv.held[itemID] -= quantity
	if inv.held[itemID] == 0 {
		delete(inv.held, itemID)
	}
	return nil
}

// Quantity returns the held (not equipped) count for itemID.
func (inv *Inventory) Quantity(itemID string) int {
	return inv.held[itemID]
}

// Held returns all held items with quantities, sorted by item ID.
//
// Postcondition: the returned slice is a snapshot; mutating it does not
// affect the inventory.
func (inv *Inventory) Held() []HeldItem {
	ids := make([]string, 0, len(inv.held))
	for id := range inv.held {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]HeldItem, 0, len(ids))
	for _, id := range ids {
		def, ok := inv.reg.Item(id)
		if !ok {
			continue
		}
		out = append(out, HeldItem{Def: def, Quantity: inv.held[id]})
	}
	return out
}

// Equip moves one held unit of itemID to the equipped set and applies its
// attack/defense deltas to c. Deltas may be negative (cursed gear).
//
// Precondition: c must be non-nil.
// Postcondition: on success the deltas are applied exactly once and the
// item appears in Equipped(); on any error nothing is mutated.
func (inv *Inventory) Equip(c *character.Character, itemID string) error {
	if c == nil {
		return errors.New("inventory: equip: character must not be nil")
	}
	def, ok := inv.reg.Item(itemID)
	if !ok {
		return fmt.Errorf("inventory: equip %q: %w", itemID, ErrUnknownItem)
	}
	if !def.IsEquipment() {
		return fmt.Errorf("inventory: equip %q: %w", itemID, ErrNotEquippable)
	}
	if inv.isEquipped(itemID) {
		return fmt.Errorf("inventory: equip %q: %w", itemID, ErrAlreadyEquipped)
	}
	if inv.held[itemID] == 0 {
		return fmt.Errorf("inventory: equip %q: %w", itemID, ErrOutOfStock)
	}

	inv.held[itemID]--
	if inv.held[itemID] == 0 {
		delete(inv.held, itemID)
	}
	inv.equipped = append(inv.equipped, itemID)
	c.Attack += def.Attack
	c.Defense += def.Defense
	return nil
}

// Unequip reverses Equip: it subtracts the item's deltas from c and returns
// one unit to the held inventory.
//
// Precondition: c must be non-nil.
// Postcondition: on success c's attack and defense equal their values
// before the matching Equip call; on any error nothing is mutated.
func (inv *Inventory) Unequip(c *character.Character, itemID string) error {
	if c == nil {
		return errors.New("inventory: unequip: character must not be nil")
	}
	def, ok := inv.reg.Item(itemID)
	if !ok {
		return fmt.Errorf("inventory: unequip %q: %w", itemID, ErrUnknownItem)
	}
	if !inv.isEquipped(itemID) {
		return fmt.Errorf("inventory: unequip %q: %w", itemID, ErrNotEquipped)
	}

	for i, id := range inv.equipped {
		if id == itemID {
			inv.equipped = append(inv.equipped[:i], inv.equipped[i+1:]...)
			break
		}
	}
	inv.held[itemID]++
	c.Attack -= def.Attack
	c.Defense -= def.Defense
	return nil
}

// Use consumes one held unit of a consumable, healing c by the item's
// effect amount. When the item names an effect script and an EffectRunner
// is configured, the script computes the amount from (hp, max_hp,
// effect_amount).
//
// Precondition: c must be non-nil.
// Postcondition: on success the held quantity decreases by one and c's HP
// changes per the effect; on any error nothing is mutated.
func (inv *Inventory) Use(c *character.Character, itemID string) error {
	if c == nil {
		return errors.New("inventory: use: character must not be nil")
	}
	def, ok := inv.reg.Item(itemID)
	if !ok {
		return fmt.Errorf("inventory: use %q: %w", itemID, ErrUnknownItem)
	}
	if !def.IsConsumable() {
		return fmt.Errorf("inventory: use %q: %w", itemID, ErrNotConsumable)
	}
	if inv.held[itemID] == 0 {
		return fmt.Errorf("inventory: use %q: %w", itemID, ErrOutOfStock)
	}

	amount := def.EffectAmount
	if def.EffectScript != "" && inv.effects != nil {
		amount = inv.effects.Effect(def.EffectScript, c.HP, c.MaxHP, def.EffectAmount)
	}
	if err := c.Heal(amount); err != nil {
		return fmt.Errorf("inventory: use %q: %w", itemID, err)
	}

	inv.held[itemID]--
	if inv.held[itemID] == 0 {
		delete(inv.held, itemID)
	}
	return nil
}

// Equipped returns the equipped item definitions in equip order.
//
// Postcondition: the returned slice is a snapshot.
func (inv *Inventory) Equipped() []*item.Def {
	out := make([]*item.Def, 0, len(inv.equipped))
	for _, id := range inv.equipped {
		if def, ok := inv.reg.Item(id); ok {
			out = append(out, def)
		}
	}
	return out
}

// IsEquipped reports whether itemID is currently equipped.
func (inv *Inventory) IsEquipped(itemID string) bool {
	return inv.isEquipped(itemID)
}

func (inv *Inventory) isEquipped(itemID string) bool {
	for _, id := range inv.equipped {
		if id == itemID {
			return true
		}
	}
	return false
}
