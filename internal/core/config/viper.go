package config

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/solatis/enigma/internal/types"
	"github.com/spf13/viper"
)

// LoadConfig loads configuration from file using viper.
// CLI flags > environment > config file > defaults precedence.
// Flags are applied by the caller on the returned Config.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults matching DefaultConfig
	d := DefaultConfig()
	v.SetDefault("machine.rotor_file", d.Machine.RotorFile)
	v.SetDefault("machine.plugboard_file", d.Machine.PlugboardFile)
	v.SetDefault("machine.positions", d.Machine.Positions)
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.max_connections", d.Server.MaxConnections)
	v.SetDefault("server.request_timeout", d.Server.RequestTimeout.String())
	v.SetDefault("server.max_message_length", d.Server.MaxMessageLength)

	// Bind environment variables with ENIGMA_ prefix
	v.SetEnvPrefix("ENIGMA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Wirings are key material; they live in the rotor file or keybook only.
	if err := validateNoKeyMaterial(v); err != nil {
		return nil, err
	}

	cfg := &Config{
		Machine: MachineConfig{
			RotorFile:     v.GetString("machine.rotor_file"),
			PlugboardFile: v.GetString("machine.plugboard_file"),
			Positions:     v.GetString("machine.positions"),
		},
		Server: ServerConfig{
			Host:             v.GetString("server.host"),
			Port:             v.GetInt("server.port"),
			MaxConnections:   v.GetInt("server.max_connections"),
			RequestTimeout:   v.GetDuration("server.request_timeout"),
			MaxMessageLength: v.GetInt("server.max_message_length"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks port range, positive limits and the start position length.
// Run again after flag overrides.
func (c *Config) Validate() error {
	if n := utf8.RuneCountInString(c.Machine.Positions); n != types.PositionCount {
		return fmt.Errorf("positions must be %d characters, got %q", types.PositionCount, c.Machine.Positions)
	}
	if c.Machine.RotorFile == "" {
		return fmt.Errorf("rotor_file must not be empty")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.MaxConnections <= 0 {
		return fmt.Errorf("max_connections must be positive, got %d", c.Server.MaxConnections)
	}
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %v", c.Server.RequestTimeout)
	}
	if c.Server.MaxMessageLength <= 0 {
		return fmt.Errorf("max_message_length must be positive, got %d", c.Server.MaxMessageLength)
	}
	return nil
}

// validateNoKeyMaterial rejects rotor wirings placed directly in config files.
func validateNoKeyMaterial(v *viper.Viper) error {
	for _, k := range []string{"rotor1", "rotor2", "rotor3", "machine.rotor1", "machine.rotor2", "machine.rotor3"} {
		if v.IsSet(k) {
			return fmt.Errorf("rotor wirings not allowed in config files (use machine.rotor_file or the keybook)")
		}
	}
	return nil
}
