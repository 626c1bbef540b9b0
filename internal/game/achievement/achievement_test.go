package achievement_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duskvale/rpg/internal/game/achievement"
	"github.com/duskvale/rpg/internal/game/character"
)

func newHero(t *testing.T) *character.Character {
	t.Helper()
	c, err := character.New("Hero", 100, 5, 3)
	require.NoError(t, err)
	return c
}

func TestRecordPurchase_FirstTimeOnly(t *testing.T) {
	svc := achievement.NewService()
	c := newHero(t)

	assert.True(t, svc.RecordPurchase(c), "first purchase earns the badge")
	assert.False(t, svc.RecordPurchase(c), "second purchase does not")
	assert.True(t, svc.Has(c, achievement.FirstPurchaseID))
}

func TestRecordQuestCompletion_FirstTimeOnly(t *testing.T) {
	svc := achievement.NewService()
	c := newHero(t)

	assert.True(t, svc.RecordQuestCompletion(c))
	assert.False(t, svc.RecordQuestCompletion(c))
	assert.True(t, svc.Has(c, achievement.QuestNoviceID))
}

func TestEarned_Sorted(t *testing.T) {
	svc := achievement.NewService()
	c := newHero(t)

	svc.RecordQuestCompletion(c)
	svc.RecordPurchase(c)

	assert.Equal(t, []string{achievement.FirstPurchaseID, achievement.QuestNoviceID}, svc.Earned(c))
}

func TestEarnedKeyedByID_NotName(t *testing.T) {
	svc := achievement.NewService()
	first := newHero(t)
	second := newHero(t)

	svc.RecordPurchase(first)
	assert.True(t, svc.Has(first, achievement.FirstPurchaseID))
	assert.False(t, svc.Has(second, achievement.FirstPurchaseID),
		"same name must not share achievements")
}

func TestNilCharacter(t *testing.T) {
	svc := achievement.NewService()
	assert.False(t, svc.RecordPurchase(nil))
	assert.False(t, svc.Has(nil, achievement.FirstPurchaseID))
	assert.Nil(t, svc.Earned(nil))
}
