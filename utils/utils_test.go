package utils

import (
	"math"
	"strconv"
	"testing"
)

// TestItoaAgainstStrconv checks the stack-buffer formatter against the
// standard library across signs, zero and the extremes.
func TestItoaAgainstStrconv(t *testing.T) {
	cases := []int{0, 1, -1, 9, 10, -10, 999, 1 << 20, -(1 << 20), math.MaxInt, math.MinInt}
	for _, v := range cases {
		if got, want := Itoa(v), strconv.Itoa(v); got != want {
			t.Fatalf("Itoa(%d) = %q, want %q", v, got, want)
		}
	}
}

// TestB2s round-trips byte content and handles the empty slice.
func TestB2s(t *testing.T) {
	if B2s(nil) != "" {
		t.Fatal("B2s(nil) should be empty")
	}
	b := []byte("fiber")
	if B2s(b) != "fiber" {
		t.Fatalf("B2s = %q", B2s(b))
	}
}
