package utils

import (
	crand "crypto/rand"
	"fmt"
	"math"
	"math/big"
	"math/rand"
)

// RandomFloat returns a random float64 in [0.0, 1.0)
func RandomFloat() float64 {
	return rand.Float64() //nolint:gosec // Game logic randomness, not security critical
}

// SecureRandomInt returns a random integer between min and max (inclusive) using crypto/rand
func SecureRandomInt(min, max int) (int, error) {
	if min > max {
		return 0, fmt.Errorf("min cannot be greater than max")
	}
	diff := big.NewInt(int64(max - min + 1))
	n, err := crand.Int(crand.Reader, diff)
	if err != nil {
		return 0, err
	}
	return int(n.Int64()) + min, nil
}

// RoundToInt rounds to the nearest integer, halves away from zero.
// For the non-negative amounts used by the game this matches "round half up".
func RoundToInt(value float64) int {
	return int(math.Round(value))
}

// ClampMin returns value, or min when value is below it
func ClampMin(value, min int) int {
	if value < min {
		return min
	}
	return value
}
