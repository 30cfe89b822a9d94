package rebalanceserver

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	// ServiceName is the fully qualified gRPC service name
	ServiceName = "spreadstarts.rebalance.v1.RebalanceService"
	// RebalanceMethod is the full method path of the only RPC
	RebalanceMethod = "/" + ServiceName + "/Rebalance"
)

// RebalanceServiceServer is the server API for RebalanceService. Requests and
// responses are free-form Structs so clients need no generated stubs.
type RebalanceServiceServer interface {
	Rebalance(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterRebalanceServiceServer registers srv with s
func RegisterRebalanceServiceServer(s grpc.ServiceRegistrar, srv RebalanceServiceServer) {
	s.RegisterService(&RebalanceService_ServiceDesc, srv)
}

func rebalanceHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RebalanceServiceServer).Rebalance(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: RebalanceMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RebalanceServiceServer).Rebalance(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// RebalanceService_ServiceDesc is the grpc.ServiceDesc for RebalanceService
var RebalanceService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*RebalanceServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Rebalance",
			Handler:    rebalanceHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "spreadstarts/rebalance/v1/rebalance.proto",
}

// Client calls RebalanceService
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) Rebalance(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, RebalanceMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
