package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// This file is hand-authored in the shape protoc-gen-go-grpc would emit for
// a single bidirectional-streaming RPC. The "proto" codec generated code
// would assume is swapped for the JSON codec registered in codec.go;
// everything else — the ServiceDesc shape, the Unimplemented*Server
// embed-by-value guard, the generic stream wrappers — follows the
// generated pattern exactly.

const (
	PluginService_ServiceName                = "maowbot.rpc.PluginService"
	PluginService_Session_FullMethodName      = "/" + PluginService_ServiceName + "/Session"
)

// PluginServiceClient is the client API for PluginService.
type PluginServiceClient interface {
	Session(ctx context.Context, opts ...grpc.CallOption) (grpc.BidiStreamingClient[Envelope, Envelope], error)
}

type pluginServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewPluginServiceClient returns a client bound to cc using the JSON codec.
func NewPluginServiceClient(cc grpc.ClientConnInterface) PluginServiceClient {
	return &pluginServiceClient{cc: cc}
}

func (c *pluginServiceClient) Session(ctx context.Context, opts ...grpc.CallOption) (grpc.BidiStreamingClient[Envelope, Envelope], error) {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(jsonCodecName)}, opts...)
	stream, err := c.cc.NewStream(ctx, &PluginService_ServiceDesc.Streams[0], PluginService_Session_FullMethodName, opts...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[Envelope, Envelope]{ClientStream: stream}
	return x, nil
}

// PluginServiceSessionClient is the stream handle returned by Session.
type PluginServiceSessionClient = grpc.BidiStreamingClient[Envelope, Envelope]

// PluginServiceSessionServer is the stream handle passed to Session on the
// server side.
type PluginServiceSessionServer = grpc.BidiStreamingServer[Envelope, Envelope]

// PluginServiceServer is the server API for PluginService.
type PluginServiceServer interface {
	Session(PluginServiceSessionServer) error
	mustEmbedUnimplementedPluginServiceServer()
}

// UnimplementedPluginServiceServer must be embedded to have forward
// compatible implementations.
type UnimplementedPluginServiceServer struct{}

func (UnimplementedPluginServiceServer) Session(PluginServiceSessionServer) error {
	return status.Errorf(codes.Unimplemented, "method Session not implemented")
}
func (UnimplementedPluginServiceServer) mustEmbedUnimplementedPluginServiceServer() {}

// UnsafePluginServiceServer may be embedded to opt out of forward
// compatibility for this service. Use of this interface is not recommended.
type UnsafePluginServiceServer interface {
	mustEmbedUnimplementedPluginServiceServer()
}

// RegisterPluginServiceServer registers srv on s using the JSON codec.
func RegisterPluginServiceServer(s grpc.ServiceRegistrar, srv PluginServiceServer) {
	s.RegisterService(&PluginService_ServiceDesc, srv)
}

func _PluginService_Session_Handler(srv any, stream grpc.ServerStream) error {
	return srv.(PluginServiceServer).Session(&grpc.GenericServerStream[Envelope, Envelope]{ServerStream: stream})
}

// PluginService_ServiceDesc is the grpc.ServiceDesc for PluginService.
var PluginService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: PluginService_ServiceName,
	HandlerType: (*PluginServiceServer)(nil),
	Methods:     []grpc.MethodDesc{},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Session",
			Handler:       _PluginService_Session_Handler,
			ServerStreams: true,
			ClientStreams: true,
		},
	},
	Metadata: "maowbot/plugin_session.proto",
}

var _ = testEmbeddedByValue

// testEmbeddedByValue is never called; it exists so the compiler checks
// that a struct embedding UnimplementedPluginServiceServer by value
// satisfies PluginServiceServer — the embed-by-value convention
// protoc-gen-go-grpc's generated code relies on.
func testEmbeddedByValue() { // nolint:unused
	var _ PluginServiceServer = struct {
		UnimplementedPluginServiceServer
	}{}
}
