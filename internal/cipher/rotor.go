// internal/cipher/rotor.go
package cipher

import (
	"fmt"

	"github.com/solatis/enigma/internal/types"
)

// Rotor is a wiring mounted at a rotational offset with a fixed notch.
// Position changes every character; the wiring and notch never do.
type Rotor struct {
	wiring   *Wiring
	position int
	notch    int
}

// NewRotor mounts w at position 0 with the given notch, taken modulo the alphabet length.
func NewRotor(w *Wiring, notch int) *Rotor {
	return &Rotor{
		wiring: w,
		notch:  w.alphabet.mod(notch),
	}
}

// SetPosition turns the rotor so that sym shows in the window.
// Returns ErrInvalidRotorPosition if sym is not in the alphabet.
func (r *Rotor) SetPosition(sym rune) error {
	pos, ok := r.wiring.alphabet.IndexOf(sym)
	if !ok {
		return fmt.Errorf("%w: %q", types.ErrInvalidRotorPosition, sym)
	}
	r.position = pos
	return nil
}

// Position returns the current rotational offset.
func (r *Rotor) Position() int {
	return r.position
}

// Notch returns the offset at which this rotor carries into its neighbour.
func (r *Rotor) Notch() int {
	return r.notch
}

// AtNotch reports whether the rotor currently sits on its notch.
func (r *Rotor) AtNotch() bool {
	return r.position == r.notch
}

// Step advances the rotor by one position.
func (r *Rotor) Step() {
	r.position = (r.position + 1) % r.wiring.alphabet.Len()
}

// EncodeForward passes a signal entering from the right through the rotor.
func (r *Rotor) EncodeForward(in int) int {
	a := r.wiring.alphabet
	return a.mod(r.wiring.forward[a.mod(in+r.position)] - r.position)
}

// EncodeBackward passes a signal returning from the reflector through the rotor.
// For a fixed position it is the inverse of EncodeForward.
func (r *Rotor) EncodeBackward(in int) int {
	a := r.wiring.alphabet
	return a.mod(r.wiring.inverse[a.mod(in+r.position)] - r.position)
}
