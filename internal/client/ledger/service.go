package ledger

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "mark3t.ledger.v1.Contract"

const (
	queryFullMethod       = "/" + ServiceName + "/Query"
	sendFullMethod        = "/" + ServiceName + "/Send"
	readStorageFullMethod = "/" + ServiceName + "/ReadStorage"
	pingFullMethod        = "/" + ServiceName + "/Ping"
)

// ContractServer is the server side of the contract gateway.
type ContractServer interface {
	Query(context.Context, *QueryRequest) (*QueryResponse, error)
	Send(context.Context, *SendRequest) (*SendResponse, error)
	ReadStorage(context.Context, *StorageRequest) (*StorageResponse, error)
	Ping(context.Context, *PingRequest) (*PingResponse, error)
}

// RegisterContractServer registers srv on s.
func RegisterContractServer(s grpc.ServiceRegistrar, srv ContractServer) {
	s.RegisterService(&contractServiceDesc, srv)
}

func unaryHandler[Req, Resp any](fullMethod string, call func(ContractServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ContractServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(ContractServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var contractServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ContractServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Query", Handler: unaryHandler(queryFullMethod, ContractServer.Query)},
		{MethodName: "Send", Handler: unaryHandler(sendFullMethod, ContractServer.Send)},
		{MethodName: "ReadStorage", Handler: unaryHandler(readStorageFullMethod, ContractServer.ReadStorage)},
		{MethodName: "Ping", Handler: unaryHandler(pingFullMethod, ContractServer.Ping)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "mark3t/ledger/v1/contract",
}

// contractClient is the typed stub over a connection, shaped like a
// generated gRPC client so tests can swap it.
type contractClient interface {
	Query(ctx context.Context, in *QueryRequest, opts ...grpc.CallOption) (*QueryResponse, error)
	Send(ctx context.Context, in *SendRequest, opts ...grpc.CallOption) (*SendResponse, error)
	ReadStorage(ctx context.Context, in *StorageRequest, opts ...grpc.CallOption) (*StorageResponse, error)
	Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error)
}

type grpcContractClient struct {
	cc grpc.ClientConnInterface
}

func newContractClient(cc grpc.ClientConnInterface) contractClient {
	return &grpcContractClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(codecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *grpcContractClient) Query(ctx context.Context, in *QueryRequest, opts ...grpc.CallOption) (*QueryResponse, error) {
	return invoke[QueryResponse](ctx, c.cc, queryFullMethod, in, opts)
}

func (c *grpcContractClient) Send(ctx context.Context, in *SendRequest, opts ...grpc.CallOption) (*SendResponse, error) {
	return invoke[SendResponse](ctx, c.cc, sendFullMethod, in, opts)
}

func (c *grpcContractClient) ReadStorage(ctx context.Context, in *StorageRequest, opts ...grpc.CallOption) (*StorageResponse, error) {
	return invoke[StorageResponse](ctx, c.cc, readStorageFullMethod, in, opts)
}

func (c *grpcContractClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, pingFullMethod, in, opts)
}
