// internal/cipher/wiring.go
package cipher

import (
	"fmt"
	"unicode/utf8"

	"github.com/solatis/enigma/internal/types"
)

/*
 * Rotor wiring and the rotor-wiring triple ("key").
 *
 * A wiring is a string of alphabet symbols read as a permutation: position i
 * is wired to the symbol wiring[i]. It is validated on load, never assumed:
 *   - exactly one symbol per alphabet position
 *   - every symbol in the alphabet, none repeated (bijection)
 *   - no fixed point: wiring[i] != alphabet[i] for every i
 *
 * Forward and inverse tables are precomputed so rotors never scan strings.
 * A Wiring is immutable after parsing and may be shared by any number of
 * machines; only rotor positions are per-machine state.
 */

// Wiring is a validated fixed-point-free permutation of an alphabet.
type Wiring struct {
	alphabet *Alphabet
	symbols  string
	forward  []int // forward[i] = index of wiring[i]
	inverse  []int // inverse[forward[i]] = i
}

// ParseWiring validates s as a rotor wiring over alphabet a.
// Returns ErrInvalidWiring describing the first violation found.
func ParseWiring(a *Alphabet, s string) (*Wiring, error) {
	n := a.Len()
	if got := utf8.RuneCountInString(s); got != n {
		return nil, fmt.Errorf("%w: length %d, want %d", types.ErrInvalidWiring, got, n)
	}

	forward, err := a.positions(s, types.ErrInvalidWiring)
	if err != nil {
		return nil, err
	}

	inverse := make([]int, n)
	seen := make([]bool, n)
	for i, out := range forward {
		if seen[out] {
			return nil, fmt.Errorf("%w: symbol %q wired twice", types.ErrInvalidWiring, a.SymbolAt(out))
		}
		if out == i {
			return nil, fmt.Errorf("%w: fixed point at %q", types.ErrInvalidWiring, a.SymbolAt(i))
		}
		seen[out] = true
		inverse[out] = i
	}

	return &Wiring{
		alphabet: a,
		symbols:  s,
		forward:  forward,
		inverse:  inverse,
	}, nil
}

// String returns the wiring symbols.
func (w *Wiring) String() string {
	return w.symbols
}

// Alphabet returns the alphabet the wiring permutes.
func (w *Wiring) Alphabet() *Alphabet {
	return w.alphabet
}

// Key is the rotor-wiring triple persisted as the daily key.
// Rotor1 is the rightmost (fastest) rotor, Rotor3 the leftmost (slowest).
type Key struct {
	Rotor1 *Wiring
	Rotor2 *Wiring
	Rotor3 *Wiring
}

// ParseKey validates three wiring strings over alphabet a.
// The error names which rotor failed.
func ParseKey(a *Alphabet, rotor1, rotor2, rotor3 string) (*Key, error) {
	var wirings [3]*Wiring
	for i, s := range []string{rotor1, rotor2, rotor3} {
		w, err := ParseWiring(a, s)
		if err != nil {
			return nil, fmt.Errorf("rotor%d: %w", i+1, err)
		}
		wirings[i] = w
	}
	return &Key{Rotor1: wirings[0], Rotor2: wirings[1], Rotor3: wirings[2]}, nil
}

// Strings returns the three wirings in rotor order.
func (k *Key) Strings() (rotor1, rotor2, rotor3 string) {
	return k.Rotor1.String(), k.Rotor2.String(), k.Rotor3.String()
}

// Alphabet returns the alphabet shared by all three wirings.
func (k *Key) Alphabet() *Alphabet {
	return k.Rotor1.alphabet
}
