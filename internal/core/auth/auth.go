// Package auth provides optional operator-token authentication for the cipher service.
//
// Tokens are stateless: the server holds one HMAC secret and recomputes the MAC
// of the operator name carried in the token. Rotating the secret revokes every
// token.
package auth

import (
	"context"
	"crypto/hmac"
	"encoding/hex"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// MetadataKey carries the operator token on each call.
const MetadataKey = "x-api-key"

// healthPrefix exempts the standard health service so probes need no token.
const healthPrefix = "/grpc.health.v1.Health/"

// contextKey is a typed key for context values to avoid collisions.
type contextKey string

const operatorKey = contextKey("operator")

// Authenticator validates operator tokens.
type Authenticator struct {
	secret []byte
}

// NewAuthenticator creates an authenticator for tokens issued under secret.
func NewAuthenticator(secret []byte) *Authenticator {
	return &Authenticator{secret: secret}
}

// Authenticate validates token and returns the operator name on success.
func (a *Authenticator) Authenticate(token string) (string, error) {
	operator, macHex, err := ParseToken(token)
	if err != nil {
		return "", err
	}
	mac, err := hex.DecodeString(macHex)
	if err != nil {
		return "", ErrInvalidTokenFormat
	}
	// Constant-time comparison prevents timing attacks.
	if !hmac.Equal(mac, ComputeHMAC(a.secret, operator)) {
		return "", ErrInvalidToken
	}
	return operator, nil
}

// UnaryInterceptor returns a gRPC interceptor that authenticates requests.
func (a *Authenticator) UnaryInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if strings.HasPrefix(info.FullMethod, healthPrefix) {
			return handler(ctx, req)
		}

		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "missing metadata")
		}
		tokens := md.Get(MetadataKey)
		if len(tokens) == 0 {
			return nil, status.Error(codes.Unauthenticated, ErrMissingToken.Error())
		}

		operator, err := a.Authenticate(tokens[0])
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, err.Error())
		}

		ctx = context.WithValue(ctx, operatorKey, operator)
		return handler(ctx, req)
	}
}

// OperatorFromContext returns the authenticated operator, or "" when the
// server runs without authentication.
func OperatorFromContext(ctx context.Context) string {
	if operator, ok := ctx.Value(operatorKey).(string); ok {
		return operator
	}
	return ""
}

// WithToken attaches token to an outgoing client context.
func WithToken(ctx context.Context, token string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, MetadataKey, token)
}
