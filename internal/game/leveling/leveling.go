// Package leveling converts XP awards into level-ups with carry-over.
package leveling

import (
	"errors"
	"fmt"

	"github.com/duskvale/rpg/internal/game/character"
)

// ErrNegativeXP is returned when an XP award is negative.
var ErrNegativeXP = errors.New("xp amount must be non-negative")

// Curve is a deterministic, pure XP threshold function. Threshold(level)
// must be positive and non-decreasing in level.
type Curve interface {
	// Threshold returns the XP required to advance from level to level+1.
	//
	// Precondition: level >= 1.
	Threshold(level int) int
}

// LinearCurve grows the threshold by a fixed step per level:
// Threshold(level) = Base + PerLevel*(level-1).
//
// Invariant: Base >= 1 and PerLevel >= 0, so thresholds are positive and
// non-decreasing.
type LinearCurve struct {
	// Base is the XP required to advance from level 1 to level 2.
	Base int
	// PerLevel is the additional XP required per level beyond the first.
	// Zero gives a flat curve.
	PerLevel int
}

// NewLinearCurve creates a LinearCurve after validating its invariants.
//
// Precondition: base >= 1; perLevel >= 0.
// Postcondition: Returns a valid curve or a non-nil error.
func NewLinearCurve(base, perLevel int) (LinearCurve, error) {
	if base < 1 {
		return LinearCurve{}, fmt.Errorf("leveling: curve base must be >= 1, got %d", base)
	}
	if perLevel < 0 {
		return LinearCurve{}, fmt.Errorf("leveling: curve per-level step must be >= 0, got %d", perLevel)
	}
	return LinearCurve{Base: base, PerLevel: perLevel}, nil
}

// Threshold returns the XP required to advance from level to level+1.
//
// Precondition: level >= 1.
// Postcondition: Returns a positive value, non-decreasing in level.
func (c LinearCurve) Threshold(level int) int {
	if level < 1 {
		panic(fmt.Sprintf("leveling: Threshold called with level %d < 1", level))
	}
	return c.Base + c.PerLevel*(level-1)
}

// Service applies XP awards to characters using a Curve.
type Service struct {
	curve Curve
}

// NewService creates a leveling Service.
//
// Precondition: curve must be non-nil.
func NewService(curve Curve) *Service {
	if curve == nil {
		panic("leveling: NewService: curve must not be nil")
	}
	return &Service{curve: curve}
}

// AwardXP adds amount to the character's XP and applies every level-up the
// new total affords. Leftover XP beyond a threshold carries into progress
// toward the next level rather than being discarded, so one large award can
// raise multiple levels.
//
// Precondition: c must be non-nil; amount >= 0.
// Postcondition: c.XP < Threshold(c.Level); on error nothing is mutated.
func (s *Service) AwardXP(c *character.Character, amount int) error {
	if c == nil {
		return errors.New("leveling: award: character must not be nil")
	}
	if amount < 0 {
		return fmt.Errorf("leveling: award %d: %w", amount, ErrNegativeXP)
	}

	c.XP += amount
	for c.XP >= s.curve.Threshold(c.Level) {
		c.XP -= s.curve.Threshold(c.Level)
		c.Level++
	}
	return nil
}

// NextThreshold returns the XP required for the character's next level-up.
//
// Precondition: c must be non-nil with Level >= 1.
func (s *Service) NextThreshold(c *character.Character) int {
	return s.curve.Threshold(c.Level)
}

// ProgressRatio returns the fraction in [0, 1) of progress toward the next
// level.
//
// Precondition: c must be non-nil with Level >= 1.
func (s *Service) ProgressRatio(c *character.Character) float64 {
	return float64(c.XP) / float64(s.curve.Threshold(c.Level))
}
