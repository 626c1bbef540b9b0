// Package combat resolves single attack exchanges between characters.
//
// Resolution is deterministic unless a randomness source and a positive
// crit chance are both supplied; with a fixed source the full outcome is
// reproducible, which is what makes the resolver testable.
package combat

import (
	"errors"
	"fmt"

	"github.com/duskvale/rpg/internal/game/character"
)

// CritMultiplier is the damage multiplier applied on a critical hit.
const CritMultiplier = 2

// ErrInvalidCritChance is returned when critChance is outside [0, 1].
var ErrInvalidCritChance = errors.New("crit chance must be in [0, 1]")

// Source is the randomness capability used for crit rolls. Using a local
// interface keeps the resolver decoupled from any concrete RNG package.
type Source interface {
	Float64() float64
}

// Result holds the outcome of a single resolved attack.
type Result struct {
	// AttackerID and DefenderID identify the participants.
	AttackerID string
	DefenderID string
	// BaseDamage is max(0, attacker.Attack - defender.Defense).
	BaseDamage int
	// Damage is the damage actually applied (doubled on a crit).
	Damage int
	// Critical reports whether the crit roll succeeded.
	Critical bool
	// DefenderHP is the defender's HP after the attack.
	DefenderHP int
	// DefenderAlive reports whether the defender survived.
	DefenderAlive bool
}

// String returns a human-readable audit line, e.g.
//
//	"3f2a... -> 9c41... for 14 (crit), 0 HP left"
func (r Result) String() string {
	suffix := ""
	if r.Critical {
		suffix = " (crit)"
	}
	return fmt.Sprintf("%s -> %s for %d%s, %d HP left",
		r.AttackerID, r.DefenderID, r.Damage, suffix, r.DefenderHP)
}

// ResolveAttack resolves exactly one attack from attacker onto defender.
//
// Base damage is attacker.Attack - defender.Defense, floored at 0: defense
// can fully negate an attack but never reflects it. When src is non-nil
// and critChance > 0, one value is drawn from src; a roll below critChance
// doubles the damage. When crits are disabled the source is never invoked,
// so a call-counting test double observes zero draws.
//
// Self-attack is permitted; the domain allows self-damage.
//
// Precondition: attacker and defender must be non-nil; critChance in [0, 1].
// Postcondition: defender's HP decreases by Result.Damage, clamped at 0;
// no other state changes. On error neither character is mutated.
func ResolveAttack(attacker, defender *character.Character, src Source, critChance float64) (Result, error) {
	if attacker == nil || defender == nil {
		return Result{}, errors.New("combat: attacker and defender must be non-nil")
	}
	if critChance < 0 || critChance > 1 {
		return Result{}, fmt.Errorf("combat: %w, got %v", ErrInvalidCritChance, critChance)
	}

	base := attacker.Attack - defender.Defense
	if base < 0 {
		base = 0
	}

	damage := base
	crit := false
	if src != nil && critChance > 0 {
		if src.Float64() < critChance {
			damage = base * CritMultiplier
			crit = true
		}
	}

	if err := defender.TakeDamage(damage); err != nil {
		return Result{}, fmt.Errorf("combat: applying damage: %w", err)
	}

	return Result{
		AttackerID:    attacker.ID,
		DefenderID:    defender.ID,
		BaseDamage:    base,
		Damage:        damage,
		Critical:      crit,
		DefenderHP:    defender.HP,
		DefenderAlive: defender.IsAlive(),
	}, nil
}
