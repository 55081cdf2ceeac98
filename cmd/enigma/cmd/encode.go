package cmd

import (
	"context"
	"fmt"

	"github.com/solatis/enigma/internal/cipher"
	"github.com/solatis/enigma/internal/core/config"
	"github.com/solatis/enigma/internal/keyfile"
	"github.com/spf13/cobra"
)

type encodeOptions struct {
	root              *rootOptions
	generate          bool
	generatePlugboard bool
	keyRef            string
}

func (e *encodeOptions) bindFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.BoolVarP(&e.generate, "generate", "g", false, "generate a new rotor key file")
	f.BoolVarP(&e.generatePlugboard, "generate-plugboard", "p", false, "write a plugboard template file")
	f.StringVarP(&e.keyRef, "key", "k", "", "use a keybook entry (id or label) instead of the rotor file")
}

// run generates key material when asked, then encodes the message if one was given.
func (e *encodeOptions) run(cmd *cobra.Command, args []string) error {
	cfg, err := e.root.loadConfig(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if e.generate {
		key, err := keyfile.GenerateKey(cipher.Default, keyfile.NewRand())
		if err != nil {
			return err
		}
		if err := keyfile.SaveKey(cfg.Machine.RotorFile, key); err != nil {
			return err
		}
		fmt.Fprintf(out, "Rotor configuration saved to: %s\n", cfg.Machine.RotorFile)
	}

	if e.generatePlugboard {
		if err := keyfile.WritePlugboardTemplate(cfg.Machine.PlugboardFile); err != nil {
			return err
		}
		fmt.Fprintf(out, "Plugboard configuration generated at: %s\n", cfg.Machine.PlugboardFile)
	}

	if len(args) == 0 {
		if e.generate || e.generatePlugboard {
			return nil
		}
		return fmt.Errorf("message required (or use --generate / --generate-plugboard)")
	}

	key, err := e.loadKey(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	plugboard, err := keyfile.LoadPlugboard(cfg.Machine.PlugboardFile, cipher.Default)
	if err != nil {
		return err
	}

	m, err := cipher.NewMachine(key, plugboard, cfg.Machine.Positions)
	if err != nil {
		return err
	}
	ciphertext, err := m.EncodeMessage(args[0])
	if err != nil {
		return err
	}

	e.root.logger.Debug("encoded message",
		"start", cfg.Machine.Positions,
		"end", m.Positions(),
		"length", len([]rune(args[0])),
		"pairs", len(plugboard.Pairs()),
	)
	fmt.Fprintln(out, ciphertext)
	return nil
}

func (e *encodeOptions) loadKey(ctx context.Context, cfg *config.Config) (*cipher.Key, error) {
	if e.keyRef == "" {
		return keyfile.LoadKey(cfg.Machine.RotorFile, cipher.Default)
	}

	kb, closeDB, err := e.root.openKeybook()
	if err != nil {
		return nil, err
	}
	defer closeDB()

	entry, err := kb.Lookup(ctx, e.keyRef)
	if err != nil {
		return nil, err
	}
	e.root.logger.Debug("using keybook entry", "key_id", entry.ID, "label", entry.Label)
	return entry.Key, nil
}
