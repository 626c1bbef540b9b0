// Package rng provides the injectable randomness capability used by the
// combat system. Production code wraps crypto/rand; tests supply fixed or
// scripted sources for reproducible outcomes.
package rng

// Source is the randomness provider for combat rolls.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Float64 returns a pseudo-random value in [0, 1).
	Float64() float64
}
