package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/solatis/enigma/internal/cipher"
	"github.com/solatis/enigma/internal/core/api"
	"github.com/solatis/enigma/internal/core/auth"
	"github.com/solatis/enigma/internal/core/config"
	"github.com/solatis/enigma/internal/core/server"
	"github.com/solatis/enigma/internal/keyfile"
	"github.com/solatis/enigma/internal/types"
	"github.com/spf13/cobra"
)

// gracePeriod bounds shutdown after SIGINT or SIGTERM.
const gracePeriod = 30 * time.Second

func newServeCmd(o *rootOptions) *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the gRPC cipher service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, o)
		},
	}
	serveCmd.Flags().String("host", "0.0.0.0", "gRPC server host")
	serveCmd.Flags().Int("port", 50051, "gRPC server port")
	return serveCmd
}

func runServe(cmd *cobra.Command, o *rootOptions) error {
	cfg, err := o.loadConfig(cmd)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("host") {
		host, _ := cmd.Flags().GetString("host")
		cfg.Server.Host = host
	}
	if cmd.Flags().Changed("port") {
		port, _ := cmd.Flags().GetInt("port")
		cfg.Server.Port = port
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	var keys api.KeyResolver
	if _, err := o.databaseURL(); err == nil {
		kb, closeDB, err := o.openKeybook()
		if err != nil {
			return err
		}
		defer closeDB()
		keys = kb
	}

	// Without a rotor file the service still runs when a keybook can supply keys.
	key, err := keyfile.LoadKey(cfg.Machine.RotorFile, cipher.Default)
	if err != nil {
		if keys == nil || !errors.Is(err, types.ErrKeyFile) {
			return err
		}
		o.logger.Warn("no default rotor key; requests must name a keybook entry", "err", err)
		key = nil
	}

	plugboard, err := keyfile.LoadPlugboard(cfg.Machine.PlugboardFile, cipher.Default)
	if err != nil {
		return err
	}

	service, err := api.NewCipherService(key, plugboard, keys, cfg, o.logger)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	secret, err := config.AuthSecret()
	if err != nil {
		return err
	}
	var authenticator *auth.Authenticator
	if secret != nil {
		authenticator = auth.NewAuthenticator(secret)
	} else {
		o.logger.Warn("operator authentication disabled", "hint", "set "+config.AuthSecretEnv)
	}

	grpcServer, err := server.NewGRPCServer(&cfg.Server, service, authenticator, o.logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	o.logger.Info("starting enigma cipher service",
		"version", Version,
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"pairs", len(plugboard.Pairs()),
		"keybook", keys != nil,
		"auth", authenticator != nil,
	)

	errChan := make(chan error, 1)
	go func() {
		errChan <- grpcServer.Start(ctx)
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		o.logger.Info("shutting down gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), gracePeriod)
		defer cancel()
		return grpcServer.Shutdown(shutdownCtx)
	}
}
