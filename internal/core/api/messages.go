package api

import (
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"
)

// EncodeRequest asks the service to run a message through a fresh machine.
//
// Wire fields: message (string, required), positions (string), key (string,
// keybook id or label), pairs (list of strings). Omitted optional fields fall
// back to the server defaults; an explicit empty pairs list means no plugboard.
type EncodeRequest struct {
	Message   string
	Positions string
	Key       string
	Pairs     []string
}

// EncodeResponse carries the ciphertext and the rotor windows after the last symbol.
// KeyID is set when the key came from the keybook.
type EncodeResponse struct {
	Ciphertext   string
	EndPositions string
	KeyID        string
}

// Struct converts the request to its wire form.
func (r *EncodeRequest) Struct() (*structpb.Struct, error) {
	fields := map[string]any{"message": r.Message}
	if r.Positions != "" {
		fields["positions"] = r.Positions
	}
	if r.Key != "" {
		fields["key"] = r.Key
	}
	if r.Pairs != nil {
		pairs := make([]any, len(r.Pairs))
		for i, p := range r.Pairs {
			pairs[i] = p
		}
		fields["pairs"] = pairs
	}
	return structpb.NewStruct(fields)
}

// Struct converts the response to its wire form.
func (r *EncodeResponse) Struct() (*structpb.Struct, error) {
	fields := map[string]any{
		"ciphertext":    r.Ciphertext,
		"end_positions": r.EndPositions,
	}
	if r.KeyID != "" {
		fields["key_id"] = r.KeyID
	}
	return structpb.NewStruct(fields)
}

func decodeEncodeRequest(s *structpb.Struct) (*EncodeRequest, error) {
	req := &EncodeRequest{}
	var err error

	msg, ok, err := stringField(s, "message")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("message is required")
	}
	req.Message = msg

	if req.Positions, _, err = stringField(s, "positions"); err != nil {
		return nil, err
	}
	if req.Key, _, err = stringField(s, "key"); err != nil {
		return nil, err
	}

	if v, ok := s.GetFields()["pairs"]; ok {
		list, isList := v.GetKind().(*structpb.Value_ListValue)
		if !isList {
			return nil, fmt.Errorf("pairs must be a list of strings")
		}
		req.Pairs = make([]string, 0, len(list.ListValue.GetValues()))
		for i, item := range list.ListValue.GetValues() {
			str, isString := item.GetKind().(*structpb.Value_StringValue)
			if !isString {
				return nil, fmt.Errorf("pairs[%d] must be a string", i)
			}
			req.Pairs = append(req.Pairs, str.StringValue)
		}
	}

	return req, nil
}

func decodeEncodeResponse(s *structpb.Struct) (*EncodeResponse, error) {
	resp := &EncodeResponse{}
	var err error
	if resp.Ciphertext, _, err = stringField(s, "ciphertext"); err != nil {
		return nil, err
	}
	if resp.EndPositions, _, err = stringField(s, "end_positions"); err != nil {
		return nil, err
	}
	if resp.KeyID, _, err = stringField(s, "key_id"); err != nil {
		return nil, err
	}
	return resp, nil
}

// stringField returns the named string field and whether it was present.
func stringField(s *structpb.Struct, name string) (string, bool, error) {
	v, ok := s.GetFields()[name]
	if !ok {
		return "", false, nil
	}
	str, isString := v.GetKind().(*structpb.Value_StringValue)
	if !isString {
		return "", true, fmt.Errorf("%s must be a string", name)
	}
	return str.StringValue, true, nil
}
