// Package server provides gRPC server lifecycle management.
package server

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/charmbracelet/log"
	"github.com/solatis/enigma/internal/core/api"
	"github.com/solatis/enigma/internal/core/auth"
	"github.com/solatis/enigma/internal/core/config"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

// shutdownTimeout bounds GracefulStop before in-flight calls are cut off.
const shutdownTimeout = 30 * time.Second

// bytesPerSymbol is the widest UTF-8 encoding of an alphabet symbol.
const bytesPerSymbol = 4

// GRPCServer manages gRPC server lifecycle.
type GRPCServer struct {
	server   *grpc.Server
	health   *health.Server
	listener net.Listener
	config   *config.ServerConfig
	logger   *log.Logger
}

// NewGRPCServer creates the gRPC server with logging and timeout interceptors,
// registers the cipher service and the standard health service.
// A nil authenticator leaves the service open.
func NewGRPCServer(cfg *config.ServerConfig, service api.CipherServer, authenticator *auth.Authenticator, logger *log.Logger) (*GRPCServer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("cfg cannot be nil")
	}
	if service == nil {
		return nil, fmt.Errorf("service cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	interceptors := []grpc.UnaryServerInterceptor{LoggingInterceptor(logger)}
	if authenticator != nil {
		interceptors = append(interceptors, authenticator.UnaryInterceptor())
	}
	interceptors = append(interceptors, TimeoutInterceptor(cfg.RequestTimeout))

	opts := []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(interceptors...),
		grpc.MaxConcurrentStreams(uint32(cfg.MaxConnections)),
		// Message plus field names and framing.
		grpc.MaxRecvMsgSize(cfg.MaxMessageLength*bytesPerSymbol + 4096),
	}

	server := grpc.NewServer(opts...)
	api.RegisterCipherServer(server, service)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(server, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(api.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	return &GRPCServer{
		server: server,
		health: healthServer,
		config: cfg,
		logger: logger,
	}, nil
}

// Start binds the configured address and serves until Shutdown is called.
func (s *GRPCServer) Start(ctx context.Context) error {
	addr := net.JoinHostPort(s.config.Host, fmt.Sprint(s.config.Port))
	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to bind %s: %w", addr, err)
	}
	return s.Serve(listener)
}

// Serve accepts connections on lis until Shutdown is called.
func (s *GRPCServer) Serve(lis net.Listener) error {
	s.listener = lis
	s.logger.Info("cipher service listening", "addr", lis.Addr().String())
	return s.server.Serve(lis)
}

// Shutdown marks the server NOT_SERVING and stops it gracefully, forcing a
// stop after ctx ends or shutdownTimeout elapses.
func (s *GRPCServer) Shutdown(ctx context.Context) error {
	s.health.Shutdown()

	stopped := make(chan struct{})
	go func() {
		s.server.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
		return nil
	case <-ctx.Done():
		s.server.Stop()
		return fmt.Errorf("shutdown cancelled by context: %w", ctx.Err())
	case <-time.After(shutdownTimeout):
		s.server.Stop()
		return fmt.Errorf("graceful shutdown timeout, forced stop")
	}
}
