// Package bank stores character currency in per-character accounts.
//
// Accounts are keyed by the character's stable ID, never by display name:
// names are not unique and do not survive serialization boundaries.
package bank

import (
	"errors"
	"fmt"

	"github.com/duskvale/rpg/internal/game/character"
)

// ErrInsufficientBalance is returned when a withdrawal exceeds the account
// balance.
var ErrInsufficientBalance = errors.New("insufficient account balance")

// Bank manages per-character account balances.
//
// Invariant: every balance is non-negative; deposits and withdrawals
// conserve the sum of wallet and balance.
type Bank struct {
	name     string
	accounts map[string]int
}

// New creates a Bank with the given display name.
//
// Precondition: name must be non-empty.
func New(name string) (*Bank, error) {
	if name == "" {
		return nil, errors.New("bank: name must not be empty")
	}
	return &Bank{name: name, accounts: make(map[string]int)}, nil
}

// Name returns the bank's display name.
func (b *Bank) Name() string {
	return b.name
}

// Deposit moves amount from the character's wallet into their account,
// creating the account on first use. All-or-nothing: a wallet debit
// failure leaves the account untouched.
//
// Precondition: c must be non-nil; amount >= 0.
// Postcondition: wallet + balance is unchanged by the transfer.
func (b *Bank) Deposit(c *character.Character, amount int) error {
	if c == nil {
		return errors.New("bank: deposit: character must not be nil")
	}
	if err := c.SpendCurrency(amount); err != nil {
		return fmt.Errorf("bank: deposit: %w", err)
	}
	b.accounts[c.ID] += amount
	return nil
}

// Withdraw moves amount from the character's account into their wallet.
//
// Precondition: c must be non-nil; amount >= 0.
// Postcondition: on success wallet + balance is unchanged; on
// ErrInsufficientBalance nothing changes.
func (b *Bank) Withdraw(c *character.Character, amount int) error {
	if c == nil {
		return errors.New("bank: withdraw: character must not be nil")
	}
	if amount < 0 {
		return fmt.Errorf("bank: withdraw: %w", character.ErrNegativeAmount)
	}
	if b.accounts[c.ID] < amount {
		return fmt.Errorf("bank: withdraw %d with balance %d: %w", amount, b.accounts[c.ID], ErrInsufficientBalance)
	}
	b.accounts[c.ID] -= amount
	// AddCurrency only fails for negative amounts, excluded above.
	if err := c.AddCurrency(amount); err != nil {
		b.accounts[c.ID] += amount
		return fmt.Errorf("bank: withdraw: %w", err)
	}
	return nil
}

// Balance returns the character's account balance, 0 if no account exists.
//
// Precondition: c must be non-nil.
func (b *Bank) Balance(c *character.Character) int {
	if c == nil {
		return 0
	}
	return b.accounts[c.ID]
}
