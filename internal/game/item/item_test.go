package item

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefValidate_Equipment(t *testing.T) {
	d := &Def{ID: "sword", Name: "Iron Sword", Kind: KindEquipment, Attack: 5}
	if err := d.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.IsEquipment() || d.IsConsumable() {
		t.Error("kind predicates wrong for equipment")
	}
}

func TestDefValidate_CursedEquipmentAllowed(t *testing.T) {
	d := &Def{ID: "cursed_ring", Name: "Cursed Ring", Kind: KindEquipment, Attack: -3, Defense: -2}
	if err := d.Validate(); err != nil {
		t.Fatalf("negative equip deltas must be valid: %v", err)
	}
}

func TestDefValidate_Rejections(t *testing.T) {
	cases := []struct {
		name string
		def  Def
	}{
		{"empty id", Def{Name: "X", Kind: KindEquipment}},
		{"empty name", Def{ID: "x", Kind: KindEquipment}},
		{"bad kind", Def{ID: "x", Name: "X", Kind: "weapon"}},
		{"negative effect", Def{ID: "x", Name: "X", Kind: KindConsumable, EffectAmount: -5}},
		{"script on equipment", Def{ID: "x", Name: "X", Kind: KindEquipment, EffectScript: "regen.lua"}},
		{"negative price", Def{ID: "x", Name: "X", Kind: KindConsumable, Price: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.def.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadItems(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	write("sword.yaml", `
id: iron_sword
name: Iron Sword
description: A reliable blade.
kind: equipment
attack: 5
price: 100
`)
	write("potion.yml", `
id: health_potion
name: Health Potion
kind: consumable
effect_amount: 20
price: 50
`)
	write("README.md", "not an item")

	items, err := LoadItems(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
}

func TestLoadItems_InvalidItem(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("id: bad\nname: Bad\nkind: junk\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadItems(dir); err == nil {
		t.Error("expected error for invalid kind")
	}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	sword := &Def{ID: "sword", Name: "Sword", Kind: KindEquipment, Attack: 5}
	if err := reg.Register(sword); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := reg.Register(sword); err == nil {
		t.Error("duplicate registration should fail")
	}
	if err := reg.Register(nil); err == nil {
		t.Error("nil registration should fail")
	}
	if err := reg.Register(&Def{ID: "bad", Name: "Bad", Kind: "junk"}); err == nil {
		t.Error("invalid def registration should fail")
	}

	got, ok := reg.Item("sword")
	if !ok || got != sword {
		t.Errorf("Item(sword) = (%v, %v)", got, ok)
	}
	if _, ok := reg.Item("missing"); ok {
		t.Error("unregistered ID reported found")
	}
	if len(reg.All()) != 1 {
		t.Errorf("got %d items, want 1", len(reg.All()))
	}
}

func TestDisplayName(t *testing.T) {
	d := &Def{ID: "sword", Name: "Iron Sword", Kind: KindEquipment}
	if got := d.DisplayName(); got != "Iron Sword (equipment)" {
		t.Errorf("got %q", got)
	}
}
