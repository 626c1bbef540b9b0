package inventory_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/duskvale/rpg/internal/game/character"
	"github.com/duskvale/rpg/internal/game/inventory"
	"github.com/duskvale/rpg/internal/game/item"
	"pgregory.net/rapid"
)

func equipDef(id string, attack, defense int) *item.Def {
	return &item.Def{ID: id, Name: id, Kind: item.KindEquipment, Attack: attack, Defense: defense}
}

func consumableDef(id string, effect int) *item.Def {
	return &item.Def{ID: id, Name: id, Kind: item.KindConsumable, EffectAmount: effect}
}

// rapid.TB is satisfied by both *testing.T and *rapid.T, so the helpers
// serve example and property tests alike.
func makeRegistry(t rapid.TB, defs ...*item.Def) *item.Registry {
	t.Helper()
	reg := item.NewRegistry()
	for _, d := range defs {
		if err := reg.Register(d); err != nil {
			t.Fatalf("registering %q: %v", d.ID, err)
		}
	}
	return reg
}

func makeCharacter(t rapid.TB, maxHP, attack, defense int) *character.Character {
	t.Helper()
	c, err := character.New("Hero", maxHP, attack, defense)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestAddRemoveQuantity(t *testing.T) {
	reg := makeRegistry(t, consumableDef("potion", 20))
	inv := inventory.New(reg, nil)

	if err := inv.Add("potion", 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := inv.Quantity("potion"); got != 3 {
		t.Errorf("got Quantity=%d, want 3", got)
	}
	if err := inv.Remove("potion", 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := inv.Quantity("potion"); got != 1 {
		t.Errorf("got Quantity=%d, want 1", got)
	}
	if err := inv.Remove("potion", 5); !errors.Is(err, inventory.ErrOutOfStock) {
		t.Errorf("got %v, want ErrOutOfStock", err)
	}
	if err := inv.Add("unknown", 1); !errors.Is(err, inventory.ErrUnknownItem) {
		t.Errorf("got %v, want ErrUnknownItem", err)
	}
	if err := inv.Add("potion", 0); err == nil {
		t.Error("zero quantity add should fail")
	}
}

func TestEquip_AppliesDeltasOnce(t *testing.T) {
	reg := makeRegistry(t, equipDef("sword", 3, 0))
	inv := inventory.New(reg, nil)
	c := makeCharacter(t, 20, 5, 2)

	if err := inv.Add("sword", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := inv.Equip(c, "sword"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Attack != 8 {
		t.Errorf("got Attack=%d, want 8", c.Attack)
	}
	if !inv.IsEquipped("sword") {
		t.Error("sword should be equipped")
	}
	if got := inv.Quantity("sword"); got != 0 {
		t.Errorf("equipped item still held: Quantity=%d", got)
	}
}

func TestEquip_DoubleEquipRejectedWithoutMutation(t *testing.T) {
	reg := makeRegistry(t, equipDef("sword", 3, 1))
	inv := inventory.New(reg, nil)
	c := makeCharacter(t, 20, 5, 2)

	if err := inv.Add("sword", 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := inv.Equip(c, "sword"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := inv.Equip(c, "sword")
	if !errors.Is(err, inventory.ErrAlreadyEquipped) {
		t.Fatalf("got %v, want ErrAlreadyEquipped", err)
	}
	if c.Attack != 8 || c.Defense != 3 {
		t.Errorf("stats changed more than once: attack=%d defense=%d", c.Attack, c.Defense)
	}
	if got := inv.Quantity("sword"); got != 1 {
		t.Errorf("held quantity mutated on rejected equip: %d", got)
	}
}

func TestUnequip_RestoresStats(t *testing.T) {
	reg := makeRegistry(t, equipDef("sword", 3, 0), equipDef("shield", 0, 4))
	inv := inventory.New(reg, nil)
	c := makeCharacter(t, 20, 5, 2)

	for _, id := range []string{"sword", "shield"} {
		if err := inv.Add(id, 1); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := inv.Equip(c, id); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	// Unequip in the opposite order to equip.
	if err := inv.Unequip(c, "sword"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := inv.Unequip(c, "shield"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Attack != 5 || c.Defense != 2 {
		t.Errorf("stats not restored: attack=%d defense=%d", c.Attack, c.Defense)
	}
	if got := inv.Quantity("sword"); got != 1 {
		t.Errorf("sword not returned to held: %d", got)
	}
}

func TestUnequip_NotEquippedRejected(t *testing.T) {
	reg := makeRegistry(t, equipDef("sword", 3, 0))
	inv := inventory.New(reg, nil)
	c := makeCharacter(t, 20, 5, 2)

	err := inv.Unequip(c, "sword")
	if !errors.Is(err, inventory.ErrNotEquipped) {
		t.Fatalf("got %v, want ErrNotEquipped", err)
	}
	if c.Attack != 5 {
		t.Errorf("stats mutated on rejected unequip: %d", c.Attack)
	}
}

func TestEquip_CursedItemSymmetry(t *testing.T) {
	reg := makeRegistry(t, equipDef("cursed_ring", -3, -2))
	inv := inventory.New(reg, nil)
	c := makeCharacter(t, 20, 5, 2)

	if err := inv.Add("cursed_ring", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := inv.Equip(c, "cursed_ring"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Attack != 2 || c.Defense != 0 {
		t.Errorf("cursed deltas not applied: attack=%d defense=%d", c.Attack, c.Defense)
	}
	if err := inv.Unequip(c, "cursed_ring"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Attack != 5 || c.Defense != 2 {
		t.Errorf("stats not restored: attack=%d defense=%d", c.Attack, c.Defense)
	}
}

func TestEquip_Rejections(t *testing.T) {
	reg := makeRegistry(t, equipDef("sword", 3, 0), consumableDef("potion", 20))
	inv := inventory.New(reg, nil)
	c := makeCharacter(t, 20, 5, 2)

	if err := inv.Equip(c, "missing"); !errors.Is(err, inventory.ErrUnknownItem) {
		t.Errorf("got %v, want ErrUnknownItem", err)
	}
	if err := inv.Equip(c, "potion"); !errors.Is(err, inventory.ErrNotEquippable) {
		t.Errorf("got %v, want ErrNotEquippable", err)
	}
	if err := inv.Equip(c, "sword"); !errors.Is(err, inventory.ErrOutOfStock) {
		t.Errorf("got %v, want ErrOutOfStock", err)
	}
	if err := inv.Equip(nil, "sword"); err == nil {
		t.Error("nil character should fail")
	}
}

func TestUse_HealsAndDecrements(t *testing.T) {
	reg := makeRegistry(t, consumableDef("potion", 15))
	inv := inventory.New(reg, nil)
	c := makeCharacter(t, 50, 0, 0)

	if err := c.TakeDamage(20); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := inv.Add("potion", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := inv.Use(c, "potion"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.HP != 45 {
		t.Errorf("got HP=%d, want 45", c.HP)
	}
	if err := inv.Use(c, "potion"); !errors.Is(err, inventory.ErrOutOfStock) {
		t.Errorf("got %v, want ErrOutOfStock", err)
	}
}

func TestUse_NotConsumableRejected(t *testing.T) {
	reg := makeRegistry(t, equipDef("sword", 3, 0))
	inv := inventory.New(reg, nil)
	c := makeCharacter(t, 50, 0, 0)

	if err := inv.Add("sword", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := inv.Use(c, "sword"); !errors.Is(err, inventory.ErrNotConsumable) {
		t.Errorf("got %v, want ErrNotConsumable", err)
	}
	if got := inv.Quantity("sword"); got != 1 {
		t.Errorf("quantity mutated on rejected use: %d", got)
	}
}

// scriptedEffects doubles the base amount, standing in for a Lua engine.
type scriptedEffects struct {
	calls int
}

func (s *scriptedEffects) Effect(name string, hp, maxHP, amount int) int {
	s.calls++
	return amount * 2
}

func TestUse_EffectScriptOverridesAmount(t *testing.T) {
	def := consumableDef("elixir", 10)
	def.EffectScript = "double_heal"
	reg := makeRegistry(t, def)
	effects := &scriptedEffects{}
	inv := inventory.New(reg, effects)
	c := makeCharacter(t, 100, 0, 0)

	if err := c.TakeDamage(50); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := inv.Add("elixir", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := inv.Use(c, "elixir"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.HP != 70 {
		t.Errorf("got HP=%d, want 70 (scripted 20-point heal)", c.HP)
	}
	if effects.calls != 1 {
		t.Errorf("effect runner called %d times, want 1", effects.calls)
	}
}

func TestEquipped_PreservesEquipOrder(t *testing.T) {
	reg := makeRegistry(t, equipDef("a", 1, 0), equipDef("b", 0, 1), equipDef("c", 1, 1))
	inv := inventory.New(reg, nil)
	c := makeCharacter(t, 20, 0, 0)

	for _, id := range []string{"b", "c", "a"} {
		if err := inv.Add(id, 1); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := inv.Equip(c, id); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	got := inv.Equipped()
	want := []string{"b", "c", "a"}
	if len(got) != len(want) {
		t.Fatalf("got %d equipped, want %d", len(got), len(want))
	}
	for i, def := range got {
		if def.ID != want[i] {
			t.Errorf("equipped[%d] = %q, want %q", i, def.ID, want[i])
		}
	}
}

// Property-based tests

func TestPropertyEquipUnequipSymmetry(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 8).Draw(t, "items")
		reg := item.NewRegistry()
		ids := make([]string, n)
		for i := 0; i < n; i++ {
			ids[i] = fmt.Sprintf("item_%d", i)
			def := equipDef(ids[i],
				rapid.IntRange(-20, 20).Draw(t, fmt.Sprintf("attack_%d", i)),
				rapid.IntRange(-20, 20).Draw(t, fmt.Sprintf("defense_%d", i)),
			)
			if err := reg.Register(def); err != nil {
				t.Fatalf("registering: %v", err)
			}
		}

		c, err := character.New("Prop", 10,
			rapid.IntRange(0, 100).Draw(t, "attack"),
			rapid.IntRange(0, 100).Draw(t, "defense"),
		)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		startAttack, startDefense := c.Attack, c.Defense

		inv := inventory.New(reg, nil)
		for _, id := range ids {
			if err := inv.Add(id, 1); err != nil {
				t.Fatalf("add: %v", err)
			}
			if err := inv.Equip(c, id); err != nil {
				t.Fatalf("equip: %v", err)
			}
		}
		// Unequip in a permuted order.
		perm := rapid.Permutation(ids).Draw(t, "order")
		for _, id := range perm {
			if err := inv.Unequip(c, id); err != nil {
				t.Fatalf("unequip: %v", err)
			}
		}

		if c.Attack != startAttack || c.Defense != startDefense {
			t.Fatalf("stats drifted: attack %d->%d, defense %d->%d",
				startAttack, c.Attack, startDefense, c.Defense)
		}
	})
}

func TestPropertyRejectedCallsNeverMutate(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		reg := makeRegistry(t, equipDef("sword", 5, 5))
		inv := inventory.New(reg, nil)
		c := makeCharacter(t, 20, 10, 10)
		if err := inv.Add("sword", 1); err != nil {
			t.Fatalf("add: %v", err)
		}
		if err := inv.Equip(c, "sword"); err != nil {
			t.Fatalf("equip: %v", err)
		}

		attempts := rapid.IntRange(1, 20).Draw(t, "attempts")
		for i := 0; i < attempts; i++ {
			_ = inv.Equip(c, "sword") // always ErrAlreadyEquipped
		}
		if c.Attack != 15 || c.Defense != 15 {
			t.Fatalf("repeated rejected equips mutated stats: attack=%d defense=%d", c.Attack, c.Defense)
		}
	})
}
