package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Service and method names on the wire.
const (
	ServiceName  = "enigma.v1.CipherService"
	EncodeMethod = "/" + ServiceName + "/Encode"
)

// CipherServer is the server API for the cipher service.
// Messages travel as google.protobuf.Struct; see EncodeRequest and EncodeResponse
// for the field layout.
type CipherServer interface {
	Encode(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// CipherServiceDesc describes the cipher service for grpc.Server registration.
var CipherServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CipherServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Encode",
			Handler:    encodeHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "enigma/v1/cipher.proto",
}

// RegisterCipherServer registers srv with the gRPC service registrar.
func RegisterCipherServer(s grpc.ServiceRegistrar, srv CipherServer) {
	s.RegisterService(&CipherServiceDesc, srv)
}

func encodeHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CipherServer).Encode(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: EncodeMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CipherServer).Encode(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// CipherClient calls the cipher service over a client connection.
type CipherClient struct {
	cc grpc.ClientConnInterface
}

// NewCipherClient returns a client bound to cc.
func NewCipherClient(cc grpc.ClientConnInterface) *CipherClient {
	return &CipherClient{cc: cc}
}

// Encode sends req and decodes the typed response.
func (c *CipherClient) Encode(ctx context.Context, req *EncodeRequest, opts ...grpc.CallOption) (*EncodeResponse, error) {
	in, err := req.Struct()
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, EncodeMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return decodeEncodeResponse(out)
}
