package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"
)

// AuthSecretEnv holds the base64 operator-token secret. It is read from the
// environment only; config files never carry secrets.
const AuthSecretEnv = "ENIGMA_AUTH_SECRET"

// minAuthSecretBytes matches the HMAC-SHA256 block output size.
const minAuthSecretBytes = 32

// AuthSecret returns the decoded operator-token secret, or nil when unset.
func AuthSecret() ([]byte, error) {
	val := strings.TrimSpace(os.Getenv(AuthSecretEnv))
	if val == "" {
		return nil, nil
	}
	return ParseAuthSecret(val)
}

// ParseAuthSecret decodes a base64 secret and enforces the minimum length.
func ParseAuthSecret(val string) ([]byte, error) {
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(val))
	if err != nil {
		return nil, fmt.Errorf("%s: invalid base64: %w", AuthSecretEnv, err)
	}
	if len(decoded) < minAuthSecretBytes {
		return nil, fmt.Errorf("%s: secret must be at least %d bytes, got %d", AuthSecretEnv, minAuthSecretBytes, len(decoded))
	}
	return decoded, nil
}
