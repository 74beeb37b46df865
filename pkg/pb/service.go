// Package pb defines the backlight.v1.BacklightService gRPC contract.
//
// Requests and responses are protobuf well-known types; structured payloads
// travel as google.protobuf.Struct and are converted with the helpers in
// messages.go.
package pb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "backlight.v1.BacklightService"

const (
	BacklightService_Classify_FullMethodName             = "/" + ServiceName + "/Classify"
	BacklightService_GetCurrentBrightness_FullMethodName = "/" + ServiceName + "/GetCurrentBrightness"
	BacklightService_RecordLevel_FullMethodName          = "/" + ServiceName + "/RecordLevel"
	BacklightService_GetHistory_FullMethodName           = "/" + ServiceName + "/GetHistory"
)

// BacklightServiceServer is the server API for BacklightService
type BacklightServiceServer interface {
	// Classify maps an audio level to a brightness percentage without storing it
	Classify(context.Context, *wrapperspb.DoubleValue) (*wrapperspb.Int32Value, error)
	// GetCurrentBrightness returns the most recent reading
	GetCurrentBrightness(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	// RecordLevel classifies and stores an audio level
	RecordLevel(context.Context, *wrapperspb.DoubleValue) (*structpb.Struct, error)
	// GetHistory returns readings in [start_time, end_time) with statistics
	GetHistory(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// UnimplementedBacklightServiceServer can be embedded for forward compatibility
type UnimplementedBacklightServiceServer struct{}

func (UnimplementedBacklightServiceServer) Classify(context.Context, *wrapperspb.DoubleValue) (*wrapperspb.Int32Value, error) {
	return nil, status.Error(codes.Unimplemented, "method Classify not implemented")
}

func (UnimplementedBacklightServiceServer) GetCurrentBrightness(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetCurrentBrightness not implemented")
}

func (UnimplementedBacklightServiceServer) RecordLevel(context.Context, *wrapperspb.DoubleValue) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method RecordLevel not implemented")
}

func (UnimplementedBacklightServiceServer) GetHistory(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetHistory not implemented")
}

// RegisterBacklightServiceServer registers srv with s
func RegisterBacklightServiceServer(s grpc.ServiceRegistrar, srv BacklightServiceServer) {
	s.RegisterService(&BacklightService_ServiceDesc, srv)
}

// BacklightService_ServiceDesc is the grpc.ServiceDesc for BacklightService
var BacklightService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BacklightServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Classify",
			Handler: unaryHandler(BacklightService_Classify_FullMethodName,
				func() *wrapperspb.DoubleValue { return new(wrapperspb.DoubleValue) },
				BacklightServiceServer.Classify),
		},
		{
			MethodName: "GetCurrentBrightness",
			Handler: unaryHandler(BacklightService_GetCurrentBrightness_FullMethodName,
				func() *emptypb.Empty { return new(emptypb.Empty) },
				BacklightServiceServer.GetCurrentBrightness),
		},
		{
			MethodName: "RecordLevel",
			Handler: unaryHandler(BacklightService_RecordLevel_FullMethodName,
				func() *wrapperspb.DoubleValue { return new(wrapperspb.DoubleValue) },
				BacklightServiceServer.RecordLevel),
		},
		{
			MethodName: "GetHistory",
			Handler: unaryHandler(BacklightService_GetHistory_FullMethodName,
				func() *structpb.Struct { return new(structpb.Struct) },
				BacklightServiceServer.GetHistory),
		},
	},
	Streams: []grpc.StreamDesc{},
}

func unaryHandler[Req, Resp any](
	fullMethod string,
	newReq func() Req,
	call func(BacklightServiceServer, context.Context, Req) (Resp, error),
) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := newReq()
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(BacklightServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(BacklightServiceServer), ctx, req.(Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// BacklightServiceClient is the client API for BacklightService
type BacklightServiceClient interface {
	Classify(ctx context.Context, in *wrapperspb.DoubleValue, opts ...grpc.CallOption) (*wrapperspb.Int32Value, error)
	GetCurrentBrightness(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	RecordLevel(ctx context.Context, in *wrapperspb.DoubleValue, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetHistory(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type backlightServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewBacklightServiceClient wraps a client connection
func NewBacklightServiceClient(cc grpc.ClientConnInterface) BacklightServiceClient {
	return &backlightServiceClient{cc}
}

func (c *backlightServiceClient) Classify(ctx context.Context, in *wrapperspb.DoubleValue, opts ...grpc.CallOption) (*wrapperspb.Int32Value, error) {
	out := new(wrapperspb.Int32Value)
	if err := c.cc.Invoke(ctx, BacklightService_Classify_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *backlightServiceClient) GetCurrentBrightness(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, BacklightService_GetCurrentBrightness_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *backlightServiceClient) RecordLevel(ctx context.Context, in *wrapperspb.DoubleValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, BacklightService_RecordLevel_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *backlightServiceClient) GetHistory(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, BacklightService_GetHistory_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
