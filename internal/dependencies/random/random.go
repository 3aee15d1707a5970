package random

import (
	"crypto/rand"
	"math/big"
)

// Random provides random number generation that can be mocked for testing
type Random interface {
	// Float64 returns a random float in [0, 1)
	Float64() float64
}

// floatResolution is the grain for Float64: 2^53 distinct values, matching
// the precision of a float64 mantissa.
const floatResolution = 1 << 53

// CryptoRandom implements Random using crypto/rand
type CryptoRandom struct{}

// New creates a new CryptoRandom
func New() *CryptoRandom {
	return &CryptoRandom{}
}

// Float64 returns a cryptographically random float in [0, 1)
func (r *CryptoRandom) Float64() float64 {
	result, err := rand.Int(rand.Reader, big.NewInt(floatResolution))
	if err != nil {
		return 0
	}
	return float64(result.Int64()) / floatResolution
}
