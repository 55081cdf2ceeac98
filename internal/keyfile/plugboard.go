package keyfile

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/solatis/enigma/internal/cipher"
	"github.com/solatis/enigma/internal/types"
)

// DefaultPlugboardFile is where the plugboard configuration is read from by default.
const DefaultPlugboardFile = "./plugboard.toml"

// PlugboardConfig is the on-disk plugboard configuration.
type PlugboardConfig struct {
	Pairs []string `toml:"pairs"`
}

const plugboardTemplate = `
# Enigma Plugboard Configuration
# Each pair swaps two characters bidirectionally
# Use two-character strings like "ab", "CD", "X ", etc.

pairs = [
    # "ab",  # a <-> b
    # "CD",  # C <-> D
    # "X ",  # X <-> space
]
`

// ParsePlugboard decodes TOML plugboard configuration and builds the plugboard.
func ParsePlugboard(data []byte, a *cipher.Alphabet) (*cipher.Plugboard, error) {
	var cfg PlugboardConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrSerialization, err)
	}
	return cipher.PlugboardFromPairs(a, cfg.Pairs)
}

// LoadPlugboard reads the plugboard file at path.
// A missing file yields the identity plugboard; an empty path does too.
func LoadPlugboard(path string, a *cipher.Alphabet) (*cipher.Plugboard, error) {
	if path == "" {
		return cipher.NewPlugboard(a), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cipher.NewPlugboard(a), nil
		}
		return nil, fmt.Errorf("%w: %v", types.ErrKeyFile, err)
	}
	return ParsePlugboard(data, a)
}

// WritePlugboardTemplate writes a commented configuration with no pairs.
func WritePlugboardTemplate(path string) error {
	if err := os.WriteFile(path, []byte(plugboardTemplate), 0644); err != nil {
		return fmt.Errorf("%w: %v", types.ErrKeyFile, err)
	}
	return nil
}

// SavePlugboard writes the pairs configured on p to path.
func SavePlugboard(path string, p *cipher.Plugboard) error {
	data, err := toml.Marshal(PlugboardConfig{Pairs: p.Pairs()})
	if err != nil {
		return fmt.Errorf("%w: %v", types.ErrSerialization, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("%w: %v", types.ErrKeyFile, err)
	}
	return nil
}
