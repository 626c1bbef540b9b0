// Package item defines static item definitions and their YAML loader.
// Definitions are immutable once loaded; per-character held quantities and
// equipped state live in the inventory package.
package item

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind constants for Def.Kind.
const (
	// KindEquipment items apply stat deltas while equipped.
	KindEquipment = "equipment"
	// KindConsumable items apply a one-shot effect and are used up.
	KindConsumable = "consumable"
)

// validKinds is the set of valid Def kinds.
var validKinds = map[string]bool{
	KindEquipment:  true,
	KindConsumable: true,
}

// Def defines the static properties of an item loaded from YAML.
//
// Equipment deltas may be negative: cursed gear lowers a stat while worn.
// Nothing in the equip/unequip path may assume non-negativity.
type Def struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Kind        string `yaml:"kind"`
	// Attack and Defense are the equip deltas for equipment items.
	Attack  int `yaml:"attack"`
	Defense int `yaml:"defense"`
	// EffectAmount is the HP restored by a consumable.
	EffectAmount int `yaml:"effect_amount"`
	// EffectScript names a Lua effect script; empty uses EffectAmount directly.
	EffectScript string `yaml:"effect_script"`
	// Price is the default shop price in coins.
	Price int `yaml:"price"`
}

// IsEquipment reports whether the item can be equipped.
func (d *Def) IsEquipment() bool {
	return d.Kind == KindEquipment
}

// IsConsumable reports whether the item can be used up.
func (d *Def) IsConsumable() bool {
	return d.Kind == KindConsumable
}

// Validate checks that the Def satisfies its invariants.
//
// Precondition: d is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (d *Def) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	if !validKinds[d.Kind] {
		errs = append(errs, fmt.Errorf("Kind must be one of equipment, consumable; got %q", d.Kind))
	}
	if d.Kind == KindConsumable && d.EffectAmount < 0 {
		errs = append(errs, errors.New("EffectAmount must be >= 0"))
	}
	if d.Kind == KindEquipment && d.EffectScript != "" {
		errs = append(errs, errors.New("EffectScript is only valid for consumables"))
	}
	if d.Price < 0 {
		errs = append(errs, errors.New("Price must be >= 0"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("item validation failed: %v", errs)
	}
	return nil
}

// LoadItems reads all *.yaml and *.yml files from dir, parses each as a
// Def, validates it, and returns the collected slice.
//
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid Defs or the first encountered error.
func LoadItems(dir string) ([]*Def, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("LoadItems: cannot read directory %q: %w", dir, err)
	}

	var items []*Def
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("LoadItems: cannot read file %q: %w", path, err)
		}
		var d Def
		if err := yaml.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("LoadItems: cannot parse file %q: %w", path, err)
		}
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("LoadItems: invalid item in %q: %w", path, err)
		}
		items = append(items, &d)
	}
	return items, nil
}

// DisplayName returns the item name with its kind suffix for UI listings,
// e.g. "Iron Sword (equipment)".
func (d *Def) DisplayName() string {
	return fmt.Sprintf("%s (%s)", d.Name, strings.ToLower(d.Kind))
}
