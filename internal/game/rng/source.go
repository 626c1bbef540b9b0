package rng

import (
	"crypto/rand"
	"encoding/binary"
)

// float64Bits is the number of mantissa bits used when reducing random
// bytes to a float in [0, 1). 53 bits is the full float64 precision.
const float64Bits = 53

// cryptoSource implements Source using crypto/rand.
//
// Invariant: All values produced are uniformly distributed in [0, 1).
type cryptoSource struct{}

// NewCryptoSource returns a Source backed by crypto/rand.
//
// Postcondition: Every value returned by Float64 is in [0, 1).
func NewCryptoSource() Source {
	return &cryptoSource{}
}

// Float64 returns a cryptographically secure random float64 in [0, 1).
//
// Panics with "rng: crypto/rand failure: <err>" if crypto/rand fails.
func (c *cryptoSource) Float64() float64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		panic("rng: crypto/rand failure: " + err.Error())
	}
	// Keep the top 53 bits so the quotient is exactly representable.
	bits := binary.BigEndian.Uint64(buf[:]) >> (64 - float64Bits)
	return float64(bits) / (1 << float64Bits)
}
