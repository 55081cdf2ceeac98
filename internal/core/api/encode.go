package api

import (
	"context"
	"unicode/utf8"

	"github.com/solatis/enigma/internal/cipher"
	"github.com/solatis/enigma/internal/core/auth"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// Encode runs the request message through a machine built for this call only.
// Encoding is reciprocal, so the same call decodes.
func (s *CipherService) Encode(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := decodeEncodeRequest(in)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	if n := utf8.RuneCountInString(req.Message); n > s.cfg.Server.MaxMessageLength {
		return nil, status.Errorf(codes.InvalidArgument,
			"message length %d exceeds limit %d", n, s.cfg.Server.MaxMessageLength)
	}

	key, keyID, err := s.resolveKey(ctx, req.Key)
	if err != nil {
		return nil, toStatus(err)
	}

	plugboard := s.plugboard
	if req.Pairs != nil {
		plugboard, err = cipher.PlugboardFromPairs(key.Alphabet(), req.Pairs)
		if err != nil {
			return nil, toStatus(err)
		}
	}

	positions := req.Positions
	if positions == "" {
		positions = s.cfg.Machine.Positions
	}

	if err := ctx.Err(); err != nil {
		return nil, toStatus(err)
	}

	m, err := cipher.NewMachine(key, plugboard, positions)
	if err != nil {
		return nil, toStatus(err)
	}
	ciphertext, err := m.EncodeMessage(req.Message)
	if err != nil {
		return nil, toStatus(err)
	}

	s.logger.Debug("encoded message",
		"start", positions,
		"end", m.Positions(),
		"length", utf8.RuneCountInString(req.Message),
		"key_id", keyID,
		"operator", auth.OperatorFromContext(ctx),
	)

	resp := &EncodeResponse{
		Ciphertext:   ciphertext,
		EndPositions: m.Positions(),
		KeyID:        keyID,
	}
	out, err := resp.Struct()
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

// resolveKey returns the server key, or the keybook entry named by ref.
func (s *CipherService) resolveKey(ctx context.Context, ref string) (*cipher.Key, string, error) {
	if ref == "" {
		if s.key == nil {
			return nil, "", status.Error(codes.FailedPrecondition, "no default key configured; name a keybook entry")
		}
		return s.key, "", nil
	}
	if s.keys == nil {
		return nil, "", status.Error(codes.FailedPrecondition, "keybook not configured")
	}
	entry, err := s.keys.Lookup(ctx, ref)
	if err != nil {
		return nil, "", err
	}
	return entry.Key, entry.ID.String(), nil
}
