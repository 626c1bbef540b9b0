package rng

import "testing"

func TestCryptoSource_Range(t *testing.T) {
	src := NewCryptoSource()
	for i := 0; i < 10_000; i++ {
		v := src.Float64()
		if v < 0 || v >= 1 {
			t.Fatalf("Float64 returned %v, want [0, 1)", v)
		}
	}
}

func TestCryptoSource_NotConstant(t *testing.T) {
	src := NewCryptoSource()
	first := src.Float64()
	for i := 0; i < 100; i++ {
		if src.Float64() != first {
			return
		}
	}
	t.Fatal("100 consecutive draws returned the same value")
}
