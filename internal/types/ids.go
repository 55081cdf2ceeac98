package types

import (
	"time"

	"github.com/google/uuid"
)

// NewKeyID generates a UUIDv7 keybook identifier.
// Time-ordered IDs list keys in issue order without a separate sort column.
// Panics on clock regression (uuid.Must); acceptable for ID generation.
func NewKeyID() KeyID {
	return KeyID(uuid.Must(uuid.NewV7()).String())
}

// ParseKeyID validates and converts a string to KeyID.
// Rejects malformed UUIDs to prevent invalid IDs from entering the keybook.
func ParseKeyID(s string) (KeyID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return "", err
	}
	return KeyID(u.String()), nil
}

// KeyIDTime extracts the timestamp embedded in a UUIDv7 ID.
// Returns zero time for invalid UUIDs; caller should check IsZero().
func KeyIDTime(id KeyID) time.Time {
	u, err := uuid.Parse(string(id))
	if err != nil {
		return time.Time{}
	}
	sec, nsec := u.Time().UnixTime()
	return time.Unix(sec, nsec)
}
