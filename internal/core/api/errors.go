package api

import (
	"context"
	"errors"

	"github.com/solatis/enigma/internal/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps domain errors to gRPC status codes.
// Validation errors map to INVALID_ARGUMENT.
// Keybook misses map to NOT_FOUND.
// Context timeouts map to DEADLINE_EXCEEDED.
// Anything else is a storage failure and maps to UNAVAILABLE.
func toStatus(err error) error {
	if _, ok := status.FromError(err); ok {
		return err
	}

	var code codes.Code
	switch {
	case errors.Is(err, types.ErrInvalidMessage),
		errors.Is(err, types.ErrInvalidRotorPosition),
		errors.Is(err, types.ErrInvalidPlugboardPair),
		errors.Is(err, types.ErrInvalidWiring),
		errors.Is(err, types.ErrInvalidAlphabet),
		errors.Is(err, types.ErrInvalidLabel):
		code = codes.InvalidArgument
	case errors.Is(err, types.ErrKeyNotFound):
		code = codes.NotFound
	case errors.Is(err, types.ErrDuplicateLabel):
		code = codes.AlreadyExists
	case errors.Is(err, context.DeadlineExceeded):
		code = codes.DeadlineExceeded
	case errors.Is(err, context.Canceled):
		code = codes.Canceled
	default:
		code = codes.Unavailable
	}
	return status.Error(code, err.Error())
}
