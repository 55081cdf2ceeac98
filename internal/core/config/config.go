// Package config provides configuration management for the enigma CLI and cipher service.
package config

import (
	"time"

	"github.com/solatis/enigma/internal/keyfile"
	"github.com/solatis/enigma/internal/types"
)

// MachineConfig holds the key material locations and start positions.
type MachineConfig struct {
	RotorFile     string
	PlugboardFile string
	Positions     string
}

// ServerConfig holds configuration for the gRPC cipher service.
type ServerConfig struct {
	Host             string
	Port             int
	MaxConnections   int
	RequestTimeout   time.Duration
	MaxMessageLength int
}

// Config is the full configuration tree.
type Config struct {
	Machine MachineConfig
	Server  ServerConfig
}

// DefaultConfig returns configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Machine: MachineConfig{
			RotorFile:     keyfile.DefaultRotorFile,
			PlugboardFile: keyfile.DefaultPlugboardFile,
			Positions:     "aaa",
		},
		Server: ServerConfig{
			Host:             "0.0.0.0",
			Port:             50051,
			MaxConnections:   1000,
			RequestTimeout:   30 * time.Second,
			MaxMessageLength: types.DefaultMaxMessageLength,
		},
	}
}
