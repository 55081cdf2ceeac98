package keyfile

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"

	"github.com/solatis/enigma/internal/cipher"
	"github.com/solatis/enigma/internal/types"
)

// NewRand returns a ChaCha8 generator seeded from crypto/rand.
func NewRand() *rand.Rand {
	var seed [32]byte
	if _, err := crand.Read(seed[:]); err != nil {
		// crypto/rand does not fail on supported platforms
		panic(err)
	}
	return rand.New(rand.NewChaCha8(seed))
}

// NewSeededRand returns a deterministic generator for reproducible keys.
func NewSeededRand(seed uint64) *rand.Rand {
	var s [32]byte
	binary.LittleEndian.PutUint64(s[:], seed)
	return rand.New(rand.NewChaCha8(s))
}

// GenerateWiring shuffles the alphabet until no symbol stays on its own position.
// Roughly 1/e of shuffles qualify, so few retries are needed.
func GenerateWiring(a *cipher.Alphabet, rng *rand.Rand) (*cipher.Wiring, error) {
	if a.Len() < 2 {
		return nil, fmt.Errorf("%w: no fixed-point-free wiring over %d symbol", types.ErrInvalidAlphabet, a.Len())
	}
	symbols := []rune(a.String())
	for {
		rng.Shuffle(len(symbols), func(i, j int) {
			symbols[i], symbols[j] = symbols[j], symbols[i]
		})
		if !hasFixedPoint(a, symbols) {
			return cipher.ParseWiring(a, string(symbols))
		}
	}
}

func hasFixedPoint(a *cipher.Alphabet, symbols []rune) bool {
	for i, r := range symbols {
		if a.SymbolAt(i) == r {
			return true
		}
	}
	return false
}

// GenerateKey returns three independently generated wirings.
func GenerateKey(a *cipher.Alphabet, rng *rand.Rand) (*cipher.Key, error) {
	var wirings [3]string
	for i := range wirings {
		w, err := GenerateWiring(a, rng)
		if err != nil {
			return nil, err
		}
		wirings[i] = w.String()
	}
	return cipher.ParseKey(a, wirings[0], wirings[1], wirings[2])
}
