// internal/cipher/machine.go
package cipher

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/solatis/enigma/internal/types"
)

/*
 * Machine: stepping controller and signal path.
 *
 * Per character, in order:
 *   1. Step the rotors (pre-tick notch checks, see step)
 *   2. Plugboard -> rotor1 -> rotor2 -> rotor3 forward
 *   3. Reflector
 *   4. rotor3 -> rotor2 -> rotor1 backward -> plugboard
 *
 * Because the plugboard and reflector are involutions and each rotor's backward
 * pass inverts its forward pass, every per-character mapping is its own
 * inverse. Encoding a ciphertext on a machine in the same start state returns
 * the plaintext.
 *
 * Rotor positions carry over between calls. There is no reset: a Machine
 * represents one message session and must not be shared between goroutines.
 * Independent messages each get their own Machine built from the same Key and
 * Plugboard, which are read-only.
 */

// Notch positions of the three rotors. Fixed for every machine.
const (
	Rotor1Notch = 16
	Rotor2Notch = 4
	Rotor3Notch = 21
)

// Machine is a three-rotor cipher machine. Not safe for concurrent use.
type Machine struct {
	alphabet  *Alphabet
	plugboard *Plugboard
	rotor1    *Rotor // rightmost, fastest
	rotor2    *Rotor
	rotor3    *Rotor // leftmost, slowest
	reflector *Reflector
}

// NewMachine mounts the key's rotors at positions (one symbol per rotor, rotor1
// first) behind plugboard. A nil plugboard means no plugs.
//
// Returns ErrInvalidMessage if positions is not exactly three symbols and
// ErrInvalidRotorPosition if one of them is outside the alphabet.
func NewMachine(key *Key, plugboard *Plugboard, positions string) (*Machine, error) {
	if key == nil {
		return nil, fmt.Errorf("%w: no rotor key", types.ErrInvalidWiring)
	}
	a := key.Alphabet()
	if plugboard == nil {
		plugboard = NewPlugboard(a)
	} else if plugboard.alphabet != a {
		return nil, fmt.Errorf("%w: plugboard and rotors use different alphabets", types.ErrInvalidPlugboardPair)
	}

	if n := utf8.RuneCountInString(positions); n != types.PositionCount {
		return nil, fmt.Errorf("%w: positions must be %d characters, got %d", types.ErrInvalidMessage, types.PositionCount, n)
	}

	m := &Machine{
		alphabet:  a,
		plugboard: plugboard,
		rotor1:    NewRotor(key.Rotor1, Rotor1Notch),
		rotor2:    NewRotor(key.Rotor2, Rotor2Notch),
		rotor3:    NewRotor(key.Rotor3, Rotor3Notch),
		reflector: NewReflector(a),
	}

	rotors := []*Rotor{m.rotor1, m.rotor2, m.rotor3}
	i := 0
	for _, sym := range positions {
		if err := rotors[i].SetPosition(sym); err != nil {
			return nil, err
		}
		i++
	}

	return m, nil
}

// Positions returns the symbols currently showing, rotor1 first.
// Feeding the result back into NewMachine resumes from the current state.
func (m *Machine) Positions() string {
	return string([]rune{
		m.alphabet.SymbolAt(m.rotor1.Position()),
		m.alphabet.SymbolAt(m.rotor2.Position()),
		m.alphabet.SymbolAt(m.rotor3.Position()),
	})
}

// step advances the rotors for one character.
// Both notch checks read pre-tick positions. If the middle and right rotors
// are on their notches in the same tick, rotor2 steps twice.
func (m *Machine) step() {
	middleAtNotch := m.rotor2.AtNotch()
	rightAtNotch := m.rotor1.AtNotch()

	if middleAtNotch {
		m.rotor2.Step()
		m.rotor3.Step()
	}
	if rightAtNotch {
		m.rotor2.Step()
	}
	m.rotor1.Step()
}

// EncodeChar steps the rotors and encodes one symbol.
// Returns ErrInvalidMessage, without stepping, if c is outside the alphabet.
func (m *Machine) EncodeChar(c rune) (rune, error) {
	if !m.alphabet.Contains(c) {
		return 0, fmt.Errorf("%w: invalid character %q", types.ErrInvalidMessage, c)
	}

	m.step()

	signal, _ := m.alphabet.IndexOf(c)
	signal = m.plugboard.swapIndex(signal)

	signal = m.rotor1.EncodeForward(signal)
	signal = m.rotor2.EncodeForward(signal)
	signal = m.rotor3.EncodeForward(signal)

	signal = m.reflector.Reflect(signal)

	signal = m.rotor3.EncodeBackward(signal)
	signal = m.rotor2.EncodeBackward(signal)
	signal = m.rotor1.EncodeBackward(signal)

	signal = m.plugboard.swapIndex(signal)
	return m.alphabet.SymbolAt(signal), nil
}

// EncodeMessage encodes msg symbol by symbol.
// Returns ErrInvalidMessage for an empty message or on the first invalid symbol.
// Rotor movement from symbols encoded before the failure is not rolled back.
func (m *Machine) EncodeMessage(msg string) (string, error) {
	if msg == "" {
		return "", fmt.Errorf("%w: empty message", types.ErrInvalidMessage)
	}

	var out strings.Builder
	out.Grow(len(msg))
	for _, c := range msg {
		enc, err := m.EncodeChar(c)
		if err != nil {
			return "", err
		}
		out.WriteRune(enc)
	}
	return out.String(), nil
}
