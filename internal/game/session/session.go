// Package session assembles the per-playthrough game state: the player
// character plus the services that track their inventory, progression,
// quests, achievements, and banked currency.
package session

import (
	"errors"
	"fmt"

	"github.com/duskvale/rpg/internal/config"
	"github.com/duskvale/rpg/internal/game/achievement"
	"github.com/duskvale/rpg/internal/game/bank"
	"github.com/duskvale/rpg/internal/game/character"
	"github.com/duskvale/rpg/internal/game/inventory"
	"github.com/duskvale/rpg/internal/game/item"
	"github.com/duskvale/rpg/internal/game/leveling"
	"github.com/duskvale/rpg/internal/game/quest"
	"github.com/duskvale/rpg/internal/game/skills"
)

// StartingLocation is where every new game begins.
const StartingLocation = "village"

// ErrUnknownClass is returned when NewGame names a class the registry
// does not contain.
var ErrUnknownClass = errors.New("unknown class")

// GameState is one playthrough's mutable state.
type GameState struct {
	Player       *character.Character
	Inventory    *inventory.Inventory
	Leveling     *leveling.Service
	Skills       *skills.Service
	Quests       *quest.Log
	Achievements *achievement.Service
	Bank         *bank.Bank

	// Location is the player's current place in the world.
	Location string
	// Turns counts actions taken this playthrough.
	Turns int
	// EnemiesDefeated counts combat victories.
	EnemiesDefeated int
}

// Registries bundles the content registries a new game draws from.
type Registries struct {
	Items   *item.Registry
	Classes *character.ClassRegistry
}

// NewGame creates a fresh GameState for a named player of the given class.
// classID may be empty for a classless character. Starting stats, wallet,
// and the XP curve come from cfg.
//
// Precondition: name must be non-empty; regs.Items must be non-nil;
// cfg must satisfy config validation.
// Postcondition: the player starts at full HP, level 1, in
// StartingLocation, with cfg.StartingCurrency in their wallet.
func NewGame(name, classID string, cfg config.GameConfig, regs Registries, effects inventory.EffectRunner) (*GameState, error) {
	var player *character.Character
	var err error
	if classID == "" {
		player, err = character.New(name, cfg.StartingMaxHP, cfg.StartingAttack, cfg.StartingDefense)
	} else {
		if regs.Classes == nil {
			return nil, fmt.Errorf("session: NewGame: class %q: %w", classID, ErrUnknownClass)
		}
		class, ok := regs.Classes.Class(classID)
		if !ok {
			return nil, fmt.Errorf("session: NewGame: class %q: %w", classID, ErrUnknownClass)
		}
		player, err = character.NewClassed(name, cfg.StartingMaxHP, cfg.StartingAttack, cfg.StartingDefense, class)
	}
	if err != nil {
		return nil, fmt.Errorf("session: NewGame: %w", err)
	}
	if err := player.AddCurrency(cfg.StartingCurrency); err != nil {
		return nil, fmt.Errorf("session: NewGame: %w", err)
	}

	curve, err := leveling.NewLinearCurve(cfg.XPBase, cfg.XPPerLevel)
	if err != nil {
		return nil, fmt.Errorf("session: NewGame: %w", err)
	}
	vault, err := bank.New("Duskvale Vault")
	if err != nil {
		return nil, fmt.Errorf("session: NewGame: %w", err)
	}

	return &GameState{
		Player:       player,
		Inventory:    inventory.New(regs.Items, effects),
		Leveling:     leveling.NewService(curve),
		Skills:       skills.NewService(regs.Classes, skills.DefaultClassReduction),
		Quests:       quest.NewLog(),
		Achievements: achievement.NewService(),
		Bank:         vault,
		Location:     StartingLocation,
	}, nil
}

// RecordVictory notes a won fight and awards xp to the player, returning
// the player's level afterward.
//
// Precondition: xp >= 0.
func (g *GameState) RecordVictory(xp int) (int, error) {
	if err := g.Leveling.AwardXP(g.Player, xp); err != nil {
		return g.Player.Level, fmt.Errorf("session: RecordVictory: %w", err)
	}
	g.EnemiesDefeated++
	return g.Player.Level, nil
}

// AdvanceTurn increments the turn counter.
func (g *GameState) AdvanceTurn() {
	g.Turns++
}

// MoveTo updates the player's location.
//
// Precondition: location must be non-empty.
func (g *GameState) MoveTo(location string) error {
	if location == "" {
		return errors.New("session: MoveTo: location must not be empty")
	}
	g.Location = location
	return nil
}
