// Package types provides identifiers, sentinel errors and limits shared across
// the cipher, keybook and service packages.
//
// Zero-dependency design: types.go and errors.go use only the standard library.
// ID utilities in ids.go import uuid but are isolated from the cipher core.
package types

// KeyID represents a UUIDv7 keybook identifier.
// String alias enables type safety while keeping plain string storage.
type KeyID string

// String returns the canonical UUID text.
func (id KeyID) String() string {
	return string(id)
}

// Resource limits enforced at the service and keybook boundary.
const (
	// MaxLabelLength bounds keybook labels.
	// 128 chars accommodates date-based labels with a network or station suffix.
	MaxLabelLength = 128

	// DefaultMaxMessageLength caps a single encode request.
	// Encoding is O(1) per symbol; the cap bounds request memory, not CPU.
	DefaultMaxMessageLength = 64 * 1024

	// PositionCount is the number of rotors and therefore start position symbols.
	PositionCount = 3
)
