package auth

import "errors"

// Authentication errors. All map to UNAUTHENTICATED; none confirms whether an
// operator name is known.
var (
	ErrMissingToken       = errors.New("operator token required in x-api-key metadata")
	ErrInvalidTokenFormat = errors.New("invalid operator token format")
	ErrInvalidToken       = errors.New("invalid operator token")
	ErrInvalidOperator    = errors.New("invalid operator name")
)
