package random

import (
	"crypto/rand"
	"math/big"
)

const (
	// IDAlphabet is lowercase alphanumerics without the easily confused 0, 1, l and o
	IDAlphabet = "abcdefghijkmnpqrstuvwxyz23456789"

	// GameIDLength gives 32^10 possible game ids
	GameIDLength = 10
)

// Random produces the random parts of identifiers and can be swapped out in tests
type Random interface {
	// String returns length characters drawn uniformly from alphabet
	String(length int, alphabet string) string
}

// CryptoRandom draws from crypto/rand
type CryptoRandom struct{}

// New creates a new CryptoRandom
func New() *CryptoRandom {
	return &CryptoRandom{}
}

// String returns length characters drawn uniformly from alphabet
func (CryptoRandom) String(length int, alphabet string) string {
	if length <= 0 || alphabet == "" {
		return ""
	}
	size := big.NewInt(int64(len(alphabet)))
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, size)
		if err != nil {
			// crypto/rand does not fail on supported platforms
			panic(err)
		}
		out[i] = alphabet[n.Int64()]
	}
	return string(out)
}
