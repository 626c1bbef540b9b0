// Package shop sells items to characters for currency.
package shop

import (
	"errors"
	"fmt"
	"sort"

	"github.com/duskvale/rpg/internal/game/character"
	"github.com/duskvale/rpg/internal/game/inventory"
	"github.com/duskvale/rpg/internal/game/item"
)

// ErrNotInStock is returned when a sale names an item the shop does not carry.
var ErrNotInStock = errors.New("item not in stock")

// Listing pairs an item definition with its price and remaining stock.
type Listing struct {
	Def      *item.Def
	Price    int
	Quantity int
}

// Shop holds priced stock and sells to characters.
//
// Invariant: prices are non-negative; stock quantities are positive (a
// sold-out listing is removed).
type Shop struct {
	name  string
	stock map[string]*Listing
}

// New creates an empty Shop with the given display name.
//
// Precondition: name must be non-empty.
func New(name string) (*Shop, error) {
	if name == "" {
		return nil, errors.New("shop: name must not be empty")
	}
	return &Shop{name: name, stock: make(map[string]*Listing)}, nil
}

// Name returns the shop's display name.
func (s *Shop) Name() string {
	return s.name
}

// AddStock lists quantity units of def for sale at the given price,
// merging with any existing listing. An existing listing's price is
// updated to the new price.
//
// Precondition: def must be non-nil and valid; price >= 0; quantity > 0.
func (s *Shop) AddStock(def *item.Def, price, quantity int) error {
	if def == nil {
		return errors.New("shop: AddStock: def must not be nil")
	}
	if err := def.Validate(); err != nil {
		return err
	}
	if price < 0 {
		return fmt.Errorf("shop: AddStock %q: price must be >= 0, got %d", def.ID, price)
	}
	if quantity <= 0 {
		return fmt.Errorf("shop: AddStock %q: quantity must be > 0, got %d", def.ID, quantity)
	}
	if l, ok := s.stock[def.ID]; ok {
		l.Quantity += quantity
		l.Price = price
		return nil
	}
	s.stock[def.ID] = &Listing{Def: def, Price: price, Quantity: quantity}
	return nil
}

// List returns all listings sorted by item ID.
//
// Postcondition: the returned slice is a snapshot; listings are copies.
func (s *Shop) List() []Listing {
	ids := make([]string, 0, len(s.stock))
	for id := range s.stock {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]Listing, 0, len(ids))
	for _, id := range ids {
		out = append(out, *s.stock[id])
	}
	return out
}

// Sell transfers one unit of itemID to the buyer: the price is debited
// from the buyer's wallet and the item is added to buyerInv. The sale is
// all-or-nothing: on any failure neither wallet, shop stock, nor inventory
// changes.
//
// Precondition: buyer and buyerInv must be non-nil.
// Postcondition: on success stock decreases by one, the buyer's wallet
// decreases by the listing price, and buyerInv gains one unit.
func (s *Shop) Sell(itemID string, buyer *character.Character, buyerInv *inventory.Inventory) error {
	if buyer == nil || buyerInv == nil {
		return errors.New("shop: Sell: buyer and inventory must be non-nil")
	}
	listing, ok := s.stock[itemID]
	if !ok {
		return fmt.Errorf("shop: sell %q: %w", itemID, ErrNotInStock)
	}

	if err := buyer.SpendCurrency(listing.Price); err != nil {
		return fmt.Errorf("shop: sell %q: %w", itemID, err)
	}
	if err := buyerInv.Add(itemID, 1); err != nil {
		// Refund; Add only fails for unregistered IDs, which means the
		// shop and the buyer's registry disagree about this item.
		_ = buyer.AddCurrency(listing.Price)
		return fmt.Errorf("shop: sell %q: %w", itemID, err)
	}

	listing.Quantity--
	if listing.Quantity == 0 {
		delete(s.stock, itemID)
	}
	return nil
}
