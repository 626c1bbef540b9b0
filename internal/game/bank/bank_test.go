package bank_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/duskvale/rpg/internal/game/bank"
	"github.com/duskvale/rpg/internal/game/character"
)

// rapid.TB is satisfied by both *testing.T and *rapid.T.
func setup(t rapid.TB) (*bank.Bank, *character.Character) {
	t.Helper()
	b, err := bank.New("Duskvale Vault")
	require.NoError(t, err)
	c, err := character.New("Hero", 50, 0, 0)
	require.NoError(t, err)
	return b, c
}

func TestNew_EmptyNameRejected(t *testing.T) {
	_, err := bank.New("")
	assert.Error(t, err)
}

func TestDepositAndBalance(t *testing.T) {
	b, c := setup(t)
	require.NoError(t, c.AddCurrency(100))

	require.NoError(t, b.Deposit(c, 60))
	assert.Equal(t, 40, c.Currency)
	assert.Equal(t, 60, b.Balance(c))
}

func TestDeposit_InsufficientWallet(t *testing.T) {
	b, c := setup(t)
	require.NoError(t, c.AddCurrency(30))

	err := b.Deposit(c, 50)
	assert.ErrorIs(t, err, character.ErrInsufficientFunds)
	assert.Equal(t, 30, c.Currency)
	assert.Equal(t, 0, b.Balance(c))
}

func TestWithdraw(t *testing.T) {
	b, c := setup(t)
	require.NoError(t, c.AddCurrency(100))
	require.NoError(t, b.Deposit(c, 100))

	require.NoError(t, b.Withdraw(c, 70))
	assert.Equal(t, 70, c.Currency)
	assert.Equal(t, 30, b.Balance(c))
}

func TestWithdraw_InsufficientBalance(t *testing.T) {
	b, c := setup(t)
	require.NoError(t, c.AddCurrency(50))
	require.NoError(t, b.Deposit(c, 20))

	err := b.Withdraw(c, 40)
	assert.ErrorIs(t, err, bank.ErrInsufficientBalance)
	assert.Equal(t, 30, c.Currency)
	assert.Equal(t, 20, b.Balance(c))
}

func TestWithdraw_NegativeRejected(t *testing.T) {
	b, c := setup(t)
	err := b.Withdraw(c, -5)
	assert.ErrorIs(t, err, character.ErrNegativeAmount)
}

func TestBalance_NoAccount(t *testing.T) {
	b, c := setup(t)
	assert.Equal(t, 0, b.Balance(c))
	assert.Equal(t, 0, b.Balance(nil))
}

func TestAccountsKeyedByID_NotName(t *testing.T) {
	b, _ := setup(t)
	first, err := character.New("Hero", 50, 0, 0)
	require.NoError(t, err)
	second, err := character.New("Hero", 50, 0, 0)
	require.NoError(t, err)

	require.NoError(t, first.AddCurrency(100))
	require.NoError(t, b.Deposit(first, 100))

	assert.Equal(t, 100, b.Balance(first))
	assert.Equal(t, 0, b.Balance(second), "same name must not share an account")
}

// Property-based tests

func TestPropertyTransfersConserveCurrency(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		b, c := setup(t)
		start := rapid.IntRange(0, 10_000).Draw(t, "start")
		require.NoError(t, c.AddCurrency(start))

		ops := rapid.SliceOfN(rapid.IntRange(0, 5_000), 1, 40).Draw(t, "ops")
		for i, amount := range ops {
			if i%2 == 0 {
				_ = b.Deposit(c, amount)
			} else {
				_ = b.Withdraw(c, amount)
			}
			if c.Currency < 0 || b.Balance(c) < 0 {
				t.Fatalf("negative holdings: wallet=%d balance=%d", c.Currency, b.Balance(c))
			}
			if c.Currency+b.Balance(c) != start {
				t.Fatalf("currency not conserved: wallet=%d balance=%d start=%d",
					c.Currency, b.Balance(c), start)
			}
		}
	})
}
