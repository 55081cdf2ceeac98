// internal/cipher/plugboard.go
package cipher

import (
	"fmt"

	"github.com/solatis/enigma/internal/types"
)

// Plugboard is an involutive partial permutation applied before and after the rotors.
// The mapping is identity-initialized and only ever extended by swapped pairs,
// so mapping[mapping[x]] == x holds after every insertion.
type Plugboard struct {
	alphabet *Alphabet
	mapping  []int
}

// NewPlugboard returns the identity plugboard over a.
func NewPlugboard(a *Alphabet) *Plugboard {
	mapping := make([]int, a.Len())
	for i := range mapping {
		mapping[i] = i
	}
	return &Plugboard{alphabet: a, mapping: mapping}
}

// PlugboardFromPairs builds a plugboard from two-symbol pairs such as "ab" or "X ".
// Returns ErrInvalidPlugboardPair if a pair is not exactly two distinct symbols,
// uses a symbol outside the alphabet, or touches a symbol that is already plugged.
func PlugboardFromPairs(a *Alphabet, pairs []string) (*Plugboard, error) {
	p := NewPlugboard(a)
	for _, pair := range pairs {
		if err := p.connect(pair); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Plugboard) connect(pair string) error {
	runes := []rune(pair)
	if len(runes) != 2 {
		return fmt.Errorf("%w: %q must be exactly two symbols", types.ErrInvalidPlugboardPair, pair)
	}

	x, okX := p.alphabet.IndexOf(runes[0])
	y, okY := p.alphabet.IndexOf(runes[1])
	if !okX || !okY {
		return fmt.Errorf("%w: %q uses a symbol outside the alphabet", types.ErrInvalidPlugboardPair, pair)
	}
	if x == y {
		return fmt.Errorf("%w: %q connects a symbol to itself", types.ErrInvalidPlugboardPair, pair)
	}
	if p.mapping[x] != x || p.mapping[y] != y {
		return fmt.Errorf("%w: duplicate mapping for %q", types.ErrInvalidPlugboardPair, pair)
	}

	p.mapping[x] = y
	p.mapping[y] = x
	return nil
}

// Swap returns the symbol r is plugged to, or r unchanged if unplugged or
// outside the alphabet.
func (p *Plugboard) Swap(r rune) rune {
	i, ok := p.alphabet.IndexOf(r)
	if !ok {
		return r
	}
	return p.alphabet.SymbolAt(p.mapping[i])
}

// swapIndex is Swap over positions.
func (p *Plugboard) swapIndex(pos int) int {
	return p.mapping[pos]
}

// Pairs returns the configured pairs in alphabet order of their first symbol.
func (p *Plugboard) Pairs() []string {
	var pairs []string
	for i, j := range p.mapping {
		if i < j {
			pairs = append(pairs, string([]rune{p.alphabet.SymbolAt(i), p.alphabet.SymbolAt(j)}))
		}
	}
	return pairs
}

// Alphabet returns the alphabet the plugboard permutes.
func (p *Plugboard) Alphabet() *Alphabet {
	return p.alphabet
}
