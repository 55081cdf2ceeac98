// Package cipher implements the rotor machine: alphabet, plugboard, rotors,
// reflector and the stepping machine that composes them.
package cipher

import (
	"fmt"
	"unicode/utf8"

	"github.com/solatis/enigma/internal/types"
)

// DefaultSymbols is the 53-symbol alphabet every machine in this module uses.
const DefaultSymbols = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ "

// Default is the shared immutable alphabet built from DefaultSymbols.
var Default = MustAlphabet(DefaultSymbols)

// Alphabet is an immutable ordered symbol set. Every permutation in this package
// is a bijection over alphabet positions, never over raw symbols.
type Alphabet struct {
	symbols []rune
	index   map[rune]int
}

// NewAlphabet builds an alphabet from distinct symbols.
// Returns ErrInvalidAlphabet for an empty string, invalid UTF-8 or repeated symbols.
func NewAlphabet(symbols string) (*Alphabet, error) {
	if symbols == "" || !utf8.ValidString(symbols) {
		return nil, fmt.Errorf("%w: need at least one valid symbol", types.ErrInvalidAlphabet)
	}

	a := &Alphabet{index: make(map[rune]int)}
	for _, r := range symbols {
		if _, dup := a.index[r]; dup {
			return nil, fmt.Errorf("%w: repeated symbol %q", types.ErrInvalidAlphabet, r)
		}
		a.index[r] = len(a.symbols)
		a.symbols = append(a.symbols, r)
	}
	return a, nil
}

// MustAlphabet is NewAlphabet that panics on error. For package-level constants only.
func MustAlphabet(symbols string) *Alphabet {
	a, err := NewAlphabet(symbols)
	if err != nil {
		panic(err)
	}
	return a
}

// Len returns the number of symbols.
func (a *Alphabet) Len() int {
	return len(a.symbols)
}

// IndexOf returns the position of r, or false if r is not in the alphabet.
func (a *Alphabet) IndexOf(r rune) (int, bool) {
	i, ok := a.index[r]
	return i, ok
}

// Contains reports whether r is in the alphabet.
func (a *Alphabet) Contains(r rune) bool {
	_, ok := a.index[r]
	return ok
}

// SymbolAt returns the symbol at pos, taken modulo the alphabet length.
func (a *Alphabet) SymbolAt(pos int) rune {
	return a.symbols[a.mod(pos)]
}

// String returns the symbols in order.
func (a *Alphabet) String() string {
	return string(a.symbols)
}

// positions maps every symbol of s to its index.
// The error names the first offending symbol and wraps sentinel.
func (a *Alphabet) positions(s string, sentinel error) ([]int, error) {
	out := make([]int, 0, len(s))
	for _, r := range s {
		i, ok := a.index[r]
		if !ok {
			return nil, fmt.Errorf("%w: symbol %q not in alphabet", sentinel, r)
		}
		out = append(out, i)
	}
	return out, nil
}

// mod reduces any integer into [0, Len).
func (a *Alphabet) mod(pos int) int {
	n := len(a.symbols)
	pos %= n
	if pos < 0 {
		pos += n
	}
	return pos
}
