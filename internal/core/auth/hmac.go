package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	tokenPrefix       = "ek-v1-"
	macHexLength      = 2 * sha256.Size
	maxOperatorLength = 64
)

// ParseToken splits a token into operator name and hex MAC.
// Format: ek-v1-<operator>-<64 hex chars>. Operator names may contain hyphens;
// the MAC is always the last segment.
func ParseToken(token string) (operator, mac string, err error) {
	rest, ok := strings.CutPrefix(token, tokenPrefix)
	if !ok {
		return "", "", ErrInvalidTokenFormat
	}

	i := strings.LastIndexByte(rest, '-')
	if i < 0 {
		return "", "", ErrInvalidTokenFormat
	}
	operator, mac = rest[:i], rest[i+1:]

	if err := ValidateOperator(operator); err != nil {
		return "", "", ErrInvalidTokenFormat
	}
	if len(mac) != macHexLength {
		return "", "", ErrInvalidTokenFormat
	}
	for _, c := range mac {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
			return "", "", ErrInvalidTokenFormat
		}
	}

	return operator, mac, nil
}

// ValidateOperator accepts 1-64 characters of [a-zA-Z0-9._-].
func ValidateOperator(name string) error {
	if name == "" || len(name) > maxOperatorLength {
		return fmt.Errorf("%w: must be 1-%d characters", ErrInvalidOperator, maxOperatorLength)
	}
	for _, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '.' || c == '_' || c == '-':
		default:
			return fmt.Errorf("%w: unexpected %q", ErrInvalidOperator, c)
		}
	}
	return nil
}

// ComputeHMAC computes the HMAC-SHA256 of the operator name under secret.
func ComputeHMAC(secret []byte, operator string) []byte {
	h := hmac.New(sha256.New, secret)
	h.Write([]byte(operator))
	return h.Sum(nil)
}

// IssueToken returns the token that authenticates operator under secret.
func IssueToken(secret []byte, operator string) (string, error) {
	if err := ValidateOperator(operator); err != nil {
		return "", err
	}
	return tokenPrefix + operator + "-" + hex.EncodeToString(ComputeHMAC(secret, operator)), nil
}
