// internal/cipher/reflector.go
package cipher

/*
 * Reflector construction.
 *
 * Pairs positions greedily left to right: each unpaired position i is wired to
 * the first unpaired j > i, giving (0,1), (2,3), ... for any alphabet.
 *
 * Odd alphabets: an involution over an odd number of points always has at
 * least one fixed point, so "involutive" and "fixed-point free" cannot both
 * hold for all 53 positions. The greedy pass leaves exactly the last position
 * unpaired and it is wired to itself. Involution is kept because it is what
 * makes the machine reciprocal; the cost is that a symbol whose signal reaches
 * the reflector on that contact encodes to itself for that one tick.
 *
 * The table is fixed after construction; Reflect is a single slice lookup.
 */

// Reflector is a fixed involutive permutation applied once per character.
type Reflector struct {
	alphabet *Alphabet
	wiring   []int
}

// NewReflector builds the reflector for alphabet a.
func NewReflector(a *Alphabet) *Reflector {
	n := a.Len()
	wiring := make([]int, n)
	paired := make([]bool, n)

	for i := 0; i < n; i++ {
		if paired[i] {
			continue
		}
		j := i + 1
		for j < n && paired[j] {
			j++
		}
		if j == n {
			// only reachable for the last position of an odd alphabet
			wiring[i] = i
			paired[i] = true
			continue
		}
		wiring[i], wiring[j] = j, i
		paired[i], paired[j] = true, true
	}

	return &Reflector{alphabet: a, wiring: wiring}
}

// Reflect returns the position pos is wired to.
func (r *Reflector) Reflect(pos int) int {
	return r.wiring[pos]
}

// String returns the reflector wiring as symbols, position i wired to String()[i].
func (r *Reflector) String() string {
	out := make([]rune, len(r.wiring))
	for i, j := range r.wiring {
		out[i] = r.alphabet.SymbolAt(j)
	}
	return string(out)
}
