// Package cmd implements the enigma command line.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/solatis/enigma/internal/cipher"
	"github.com/solatis/enigma/internal/core/config"
	"github.com/solatis/enigma/internal/core/db"
	"github.com/solatis/enigma/internal/core/keybook"
	"github.com/solatis/enigma/internal/core/logging"
	"github.com/spf13/cobra"
)

const Version = "0.1.0"

// dbURLEnv is read when --db-url is not given.
const dbURLEnv = "ENIGMA_DB_URL"

// rootOptions holds flag values shared by every subcommand.
type rootOptions struct {
	configFile    string
	dbURL         string
	logLevel      string
	logFormat     string
	rotorFile     string
	plugboardFile string
	positions     string

	logger *log.Logger
}

// NewRootCmd builds the command tree. Each call returns independent flag state.
func NewRootCmd() *cobra.Command {
	o := &rootOptions{}
	e := &encodeOptions{root: o}

	rootCmd := &cobra.Command{
		Use:   "enigma [flags] MESSAGE",
		Short: "Three-rotor cipher machine",
		Long: `enigma encodes messages with a three-rotor machine over a 53-symbol alphabet
(a-z, A-Z and space). Encoding is reciprocal: running the ciphertext through a
machine with the same key, plugboard and start positions restores the message.`,
		Version:       Version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New(cmd.ErrOrStderr(), o.logLevel, o.logFormat)
			if err != nil {
				return err
			}
			o.logger = logger
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.run(cmd, args)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&o.configFile, "config", "", "config file path")
	pf.StringVar(&o.dbURL, "db-url", "", "keybook database URL (sqlite://path or postgres://...); defaults to $"+dbURLEnv)
	pf.StringVar(&o.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.StringVar(&o.logFormat, "log-format", logging.FormatText, "log format (text, json, logfmt)")
	pf.StringVarP(&o.rotorFile, "rotor-file", "r", config.DefaultConfig().Machine.RotorFile, "rotor key file")
	pf.StringVarP(&o.plugboardFile, "plugboard-file", "b", config.DefaultConfig().Machine.PlugboardFile, "plugboard TOML file")
	pf.StringVarP(&o.positions, "start-positions", "s", config.DefaultConfig().Machine.Positions, "rotor start positions (3 symbols)")

	e.bindFlags(rootCmd)

	rootCmd.AddCommand(
		newMigrateCmd(o),
		newKeysCmd(o),
		newServeCmd(o),
		newTokenCmd(o),
	)
	return rootCmd
}

func Execute() error {
	return NewRootCmd().Execute()
}

// loadConfig reads configuration and applies flags the user set explicitly.
func (o *rootOptions) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(o.configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("rotor-file") {
		cfg.Machine.RotorFile = o.rotorFile
	}
	if flags.Changed("plugboard-file") {
		cfg.Machine.PlugboardFile = o.plugboardFile
	}
	if flags.Changed("start-positions") {
		cfg.Machine.Positions = o.positions
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (o *rootOptions) databaseURL() (string, error) {
	if o.dbURL != "" {
		return o.dbURL, nil
	}
	if u := strings.TrimSpace(os.Getenv(dbURLEnv)); u != "" {
		return u, nil
	}
	return "", fmt.Errorf("--db-url required (or set %s)", dbURLEnv)
}

// openKeybook opens the database and refuses to continue on a stale schema.
// The returned close func releases the connection.
func (o *rootOptions) openKeybook() (*keybook.Keybook, func() error, error) {
	dbURL, err := o.databaseURL()
	if err != nil {
		return nil, nil, err
	}
	database, err := db.Open(dbURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	statuses, err := db.MigrateStatus(database)
	if err != nil {
		database.Close()
		return nil, nil, fmt.Errorf("failed to check migrations: %w", err)
	}
	for _, s := range statuses {
		if !s.Applied {
			database.Close()
			return nil, nil, fmt.Errorf("migration %s not applied - run 'enigma migrate' first", s.ID)
		}
	}

	queries, err := db.LoadQueries(database)
	if err != nil {
		database.Close()
		return nil, nil, fmt.Errorf("failed to load queries: %w", err)
	}
	return keybook.New(queries, cipher.Default), database.Close, nil
}
