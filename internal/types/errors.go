package types

import "errors"

// Sentinel errors for cipher operations.
var (
	// ErrInvalidRotorPosition indicates a start position symbol outside the alphabet.
	ErrInvalidRotorPosition = errors.New("invalid rotor position")

	// ErrInvalidMessage indicates an empty message, a wrong-length position string,
	// or a message symbol outside the alphabet.
	ErrInvalidMessage = errors.New("invalid message")

	// ErrInvalidPlugboardPair indicates a malformed, out-of-alphabet or conflicting pair.
	ErrInvalidPlugboardPair = errors.New("invalid plugboard pair")

	// ErrInvalidWiring indicates a rotor wiring that is not a fixed-point-free permutation.
	ErrInvalidWiring = errors.New("invalid rotor wiring")

	// ErrInvalidAlphabet indicates an empty alphabet or one with repeated symbols.
	ErrInvalidAlphabet = errors.New("invalid alphabet")

	// ErrKeyFile indicates the rotor key or plugboard file could not be read or written.
	ErrKeyFile = errors.New("file error")

	// ErrSerialization indicates a key or plugboard file that does not decode.
	ErrSerialization = errors.New("serialization error")

	// ErrKeyNotFound indicates no keybook entry matches the requested id or label.
	ErrKeyNotFound = errors.New("key not found")

	// ErrDuplicateLabel indicates a keybook label that is already taken.
	ErrDuplicateLabel = errors.New("key label already exists")

	// ErrInvalidLabel indicates an empty or oversized keybook label.
	ErrInvalidLabel = errors.New("invalid key label")
)
