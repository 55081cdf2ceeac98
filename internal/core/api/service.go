// Package api provides the gRPC cipher service.
package api

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/solatis/enigma/internal/cipher"
	"github.com/solatis/enigma/internal/core/config"
	"github.com/solatis/enigma/internal/core/keybook"
)

// KeyResolver finds archived rotor keys by id or label. *keybook.Keybook satisfies it.
type KeyResolver interface {
	Lookup(ctx context.Context, ref string) (*keybook.Entry, error)
}

// CipherService implements CipherServer.
// The default key and plugboard are immutable and shared by every request;
// each request gets its own Machine.
type CipherService struct {
	key       *cipher.Key
	plugboard *cipher.Plugboard
	keys      KeyResolver
	cfg       *config.Config
	logger    *log.Logger
}

// NewCipherService creates the service. key may be nil when keys is set, in
// which case every request must name a keybook entry.
func NewCipherService(key *cipher.Key, plugboard *cipher.Plugboard, keys KeyResolver, cfg *config.Config, logger *log.Logger) (*CipherService, error) {
	if key == nil && keys == nil {
		return nil, fmt.Errorf("a default key or a keybook is required")
	}
	if plugboard == nil {
		return nil, fmt.Errorf("plugboard cannot be nil")
	}
	if cfg == nil {
		return nil, fmt.Errorf("cfg cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	return &CipherService{
		key:       key,
		plugboard: plugboard,
		keys:      keys,
		cfg:       cfg,
		logger:    logger,
	}, nil
}
