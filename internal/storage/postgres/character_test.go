package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duskvale/rpg/internal/game/character"
	"github.com/duskvale/rpg/internal/storage/postgres"
	"github.com/duskvale/rpg/internal/testutil"
)

func setupRepo(t *testing.T) *postgres.CharacterRepository {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	return postgres.NewCharacterRepository(testutil.NewPool(t))
}

func makeHero(t *testing.T) *character.Character {
	t.Helper()
	c, err := character.New("Hero", 100, 5, 3)
	require.NoError(t, err)
	require.NoError(t, c.AddCurrency(100))
	return c
}

func TestCharacterRepository_CreateAndGet(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	c := makeHero(t)
	require.NoError(t, repo.Create(ctx, c))

	got, err := repo.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)
	assert.Equal(t, "Hero", got.Name)
	assert.Equal(t, 100, got.MaxHP)
	assert.Equal(t, 100, got.HP)
	assert.Equal(t, 5, got.Attack)
	assert.Equal(t, 3, got.Defense)
	assert.Equal(t, 1, got.Level)
	assert.Equal(t, 100, got.Currency)
}

func TestCharacterRepository_CreateDuplicate(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	c := makeHero(t)
	require.NoError(t, repo.Create(ctx, c))
	err := repo.Create(ctx, c)
	assert.ErrorIs(t, err, postgres.ErrCharacterExists)
}

func TestCharacterRepository_GetMissing(t *testing.T) {
	repo := setupRepo(t)
	_, err := repo.Get(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, postgres.ErrCharacterNotFound)
}

func TestCharacterRepository_SaveRoundTrip(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	c := makeHero(t)
	require.NoError(t, repo.Create(ctx, c))

	require.NoError(t, c.TakeDamage(40))
	require.NoError(t, c.SpendCurrency(30))
	c.Level = 3
	c.XP = 12
	require.NoError(t, repo.Save(ctx, c))

	got, err := repo.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 60, got.HP)
	assert.Equal(t, 70, got.Currency)
	assert.Equal(t, 3, got.Level)
	assert.Equal(t, 12, got.XP)
}

func TestCharacterRepository_SaveMissing(t *testing.T) {
	repo := setupRepo(t)
	c := makeHero(t)
	err := repo.Save(context.Background(), c)
	assert.ErrorIs(t, err, postgres.ErrCharacterNotFound)
}

func TestCharacterRepository_Delete(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	c := makeHero(t)
	require.NoError(t, repo.Create(ctx, c))
	require.NoError(t, repo.Delete(ctx, c.ID))

	_, err := repo.Get(ctx, c.ID)
	assert.ErrorIs(t, err, postgres.ErrCharacterNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, c.ID), postgres.ErrCharacterNotFound)
}

func TestCharacterRepository_List(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	first := makeHero(t)
	second := makeHero(t)
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	chars, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, chars, 2)
	assert.Equal(t, first.ID, chars[0].ID, "ordered by creation time")
}

func TestCharacterRepository_ItemsRoundTrip(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	c := makeHero(t)
	require.NoError(t, repo.Create(ctx, c))

	rows := []postgres.ItemRow{
		{ItemID: "iron_sword", Quantity: 1, EquipOrder: 0},
		{ItemID: "leather_armor", Quantity: 1, EquipOrder: 1},
		{ItemID: "potion", Quantity: 3, EquipOrder: -1},
	}
	require.NoError(t, repo.SaveItems(ctx, c.ID, rows))

	got, err := repo.LoadItems(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, got, 3)
	// Equipped rows first, in equip order, then held rows.
	assert.Equal(t, "iron_sword", got[0].ItemID)
	assert.Equal(t, "leather_armor", got[1].ItemID)
	assert.Equal(t, "potion", got[2].ItemID)
	assert.Equal(t, 3, got[2].Quantity)
}

func TestCharacterRepository_SaveItemsReplaces(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	c := makeHero(t)
	require.NoError(t, repo.Create(ctx, c))

	require.NoError(t, repo.SaveItems(ctx, c.ID, []postgres.ItemRow{
		{ItemID: "potion", Quantity: 3, EquipOrder: -1},
	}))
	require.NoError(t, repo.SaveItems(ctx, c.ID, []postgres.ItemRow{
		{ItemID: "potion", Quantity: 1, EquipOrder: -1},
		{ItemID: "iron_sword", Quantity: 1, EquipOrder: 0},
	}))

	got, err := repo.LoadItems(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "iron_sword", got[0].ItemID)
	assert.Equal(t, 1, got[1].Quantity)
}

func TestCharacterRepository_DeleteCascadesItems(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	c := makeHero(t)
	require.NoError(t, repo.Create(ctx, c))
	require.NoError(t, repo.SaveItems(ctx, c.ID, []postgres.ItemRow{
		{ItemID: "potion", Quantity: 2, EquipOrder: -1},
	}))
	require.NoError(t, repo.Delete(ctx, c.ID))

	got, err := repo.LoadItems(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, got)
}
