package rpc

import (
	"context"

	"google.golang.org/grpc"
)

// This file follows the standard protoc-gen-go-grpc unary-RPC shape,
// generalized to the control-plane facade's full set of named operations
// over the pipeline engine, credential manager and platform manager. As in
// plugin_grpc.go, the "proto" codec is swapped for the JSON codec in
// codec.go.

const ControlService_ServiceName = "maowbot.rpc.ControlService"

// ControlServiceClient is the client API for ControlService.
type ControlServiceClient interface {
	ListCredentials(ctx context.Context, in *ListCredentialsRequest, opts ...grpc.CallOption) (*ListCredentialsResponse, error)
	RefreshCredential(ctx context.Context, in *RefreshCredentialRequest, opts ...grpc.CallOption) (*RefreshCredentialResponse, error)
	RevokeCredential(ctx context.Context, in *RevokeCredentialRequest, opts ...grpc.CallOption) (*RevokeCredentialResponse, error)

	ListPipelines(ctx context.Context, in *ListPipelinesRequest, opts ...grpc.CallOption) (*ListPipelinesResponse, error)
	GetPipeline(ctx context.Context, in *GetPipelineRequest, opts ...grpc.CallOption) (*GetPipelineResponse, error)
	UpsertPipeline(ctx context.Context, in *UpsertPipelineRequest, opts ...grpc.CallOption) (*UpsertPipelineResponse, error)
	DeletePipeline(ctx context.Context, in *DeletePipelineRequest, opts ...grpc.CallOption) (*DeletePipelineResponse, error)
	AddFilter(ctx context.Context, in *AddFilterRequest, opts ...grpc.CallOption) (*AddFilterResponse, error)
	AddAction(ctx context.Context, in *AddActionRequest, opts ...grpc.CallOption) (*AddActionResponse, error)
	ListExecutionHistory(ctx context.Context, in *ListExecutionHistoryRequest, opts ...grpc.CallOption) (*ListExecutionHistoryResponse, error)

	ListAccounts(ctx context.Context, in *ListAccountsRequest, opts ...grpc.CallOption) (*ListAccountsResponse, error)
	StartAccount(ctx context.Context, in *StartAccountRequest, opts ...grpc.CallOption) (*StartAccountResponse, error)
	StopAccount(ctx context.Context, in *StopAccountRequest, opts ...grpc.CallOption) (*StopAccountResponse, error)
}

type controlServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewControlServiceClient returns a client bound to cc using the JSON codec.
func NewControlServiceClient(cc grpc.ClientConnInterface) ControlServiceClient {
	return &controlServiceClient{cc: cc}
}

func (c *controlServiceClient) invoke(ctx context.Context, method string, in, out any, opts ...grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(jsonCodecName)}, opts...)
	return c.cc.Invoke(ctx, method, in, out, opts...)
}

func (c *controlServiceClient) ListCredentials(ctx context.Context, in *ListCredentialsRequest, opts ...grpc.CallOption) (*ListCredentialsResponse, error) {
	out := new(ListCredentialsResponse)
	if err := c.invoke(ctx, "/"+ControlService_ServiceName+"/ListCredentials", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *controlServiceClient) RefreshCredential(ctx context.Context, in *RefreshCredentialRequest, opts ...grpc.CallOption) (*RefreshCredentialResponse, error) {
	out := new(RefreshCredentialResponse)
	if err := c.invoke(ctx, "/"+ControlService_ServiceName+"/RefreshCredential", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *controlServiceClient) RevokeCredential(ctx context.Context, in *RevokeCredentialRequest, opts ...grpc.CallOption) (*RevokeCredentialResponse, error) {
	out := new(RevokeCredentialResponse)
	if err := c.invoke(ctx, "/"+ControlService_ServiceName+"/RevokeCredential", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *controlServiceClient) ListPipelines(ctx context.Context, in *ListPipelinesRequest, opts ...grpc.CallOption) (*ListPipelinesResponse, error) {
	out := new(ListPipelinesResponse)
	if err := c.invoke(ctx, "/"+ControlService_ServiceName+"/ListPipelines", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *controlServiceClient) GetPipeline(ctx context.Context, in *GetPipelineRequest, opts ...grpc.CallOption) (*GetPipelineResponse, error) {
	out := new(GetPipelineResponse)
	if err := c.invoke(ctx, "/"+ControlService_ServiceName+"/GetPipeline", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *controlServiceClient) UpsertPipeline(ctx context.Context, in *UpsertPipelineRequest, opts ...grpc.CallOption) (*UpsertPipelineResponse, error) {
	out := new(UpsertPipelineResponse)
	if err := c.invoke(ctx, "/"+ControlService_ServiceName+"/UpsertPipeline", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *controlServiceClient) DeletePipeline(ctx context.Context, in *DeletePipelineRequest, opts ...grpc.CallOption) (*DeletePipelineResponse, error) {
	out := new(DeletePipelineResponse)
	if err := c.invoke(ctx, "/"+ControlService_ServiceName+"/DeletePipeline", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *controlServiceClient) AddFilter(ctx context.Context, in *AddFilterRequest, opts ...grpc.CallOption) (*AddFilterResponse, error) {
	out := new(AddFilterResponse)
	if err := c.invoke(ctx, "/"+ControlService_ServiceName+"/AddFilter", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *controlServiceClient) AddAction(ctx context.Context, in *AddActionRequest, opts ...grpc.CallOption) (*AddActionResponse, error) {
	out := new(AddActionResponse)
	if err := c.invoke(ctx, "/"+ControlService_ServiceName+"/AddAction", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *controlServiceClient) ListExecutionHistory(ctx context.Context, in *ListExecutionHistoryRequest, opts ...grpc.CallOption) (*ListExecutionHistoryResponse, error) {
	out := new(ListExecutionHistoryResponse)
	if err := c.invoke(ctx, "/"+ControlService_ServiceName+"/ListExecutionHistory", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *controlServiceClient) ListAccounts(ctx context.Context, in *ListAccountsRequest, opts ...grpc.CallOption) (*ListAccountsResponse, error) {
	out := new(ListAccountsResponse)
	if err := c.invoke(ctx, "/"+ControlService_ServiceName+"/ListAccounts", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *controlServiceClient) StartAccount(ctx context.Context, in *StartAccountRequest, opts ...grpc.CallOption) (*StartAccountResponse, error) {
	out := new(StartAccountResponse)
	if err := c.invoke(ctx, "/"+ControlService_ServiceName+"/StartAccount", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *controlServiceClient) StopAccount(ctx context.Context, in *StopAccountRequest, opts ...grpc.CallOption) (*StopAccountResponse, error) {
	out := new(StopAccountResponse)
	if err := c.invoke(ctx, "/"+ControlService_ServiceName+"/StopAccount", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// ControlServiceServer is the server API for ControlService.
type ControlServiceServer interface {
	ListCredentials(context.Context, *ListCredentialsRequest) (*ListCredentialsResponse, error)
	RefreshCredential(context.Context, *RefreshCredentialRequest) (*RefreshCredentialResponse, error)
	RevokeCredential(context.Context, *RevokeCredentialRequest) (*RevokeCredentialResponse, error)

	ListPipelines(context.Context, *ListPipelinesRequest) (*ListPipelinesResponse, error)
	GetPipeline(context.Context, *GetPipelineRequest) (*GetPipelineResponse, error)
	UpsertPipeline(context.Context, *UpsertPipelineRequest) (*UpsertPipelineResponse, error)
	DeletePipeline(context.Context, *DeletePipelineRequest) (*DeletePipelineResponse, error)
	AddFilter(context.Context, *AddFilterRequest) (*AddFilterResponse, error)
	AddAction(context.Context, *AddActionRequest) (*AddActionResponse, error)
	ListExecutionHistory(context.Context, *ListExecutionHistoryRequest) (*ListExecutionHistoryResponse, error)

	ListAccounts(context.Context, *ListAccountsRequest) (*ListAccountsResponse, error)
	StartAccount(context.Context, *StartAccountRequest) (*StartAccountResponse, error)
	StopAccount(context.Context, *StopAccountRequest) (*StopAccountResponse, error)

	mustEmbedUnimplementedControlServiceServer()
}

// UnimplementedControlServiceServer must be embedded to have forward
// compatible implementations.
type UnimplementedControlServiceServer struct{}

func (UnimplementedControlServiceServer) ListCredentials(context.Context, *ListCredentialsRequest) (*ListCredentialsResponse, error) {
	return nil, errUnimplemented("ListCredentials")
}
func (UnimplementedControlServiceServer) RefreshCredential(context.Context, *RefreshCredentialRequest) (*RefreshCredentialResponse, error) {
	return nil, errUnimplemented("RefreshCredential")
}
func (UnimplementedControlServiceServer) RevokeCredential(context.Context, *RevokeCredentialRequest) (*RevokeCredentialResponse, error) {
	return nil, errUnimplemented("RevokeCredential")
}
func (UnimplementedControlServiceServer) ListPipelines(context.Context, *ListPipelinesRequest) (*ListPipelinesResponse, error) {
	return nil, errUnimplemented("ListPipelines")
}
func (UnimplementedControlServiceServer) GetPipeline(context.Context, *GetPipelineRequest) (*GetPipelineResponse, error) {
	return nil, errUnimplemented("GetPipeline")
}
func (UnimplementedControlServiceServer) UpsertPipeline(context.Context, *UpsertPipelineRequest) (*UpsertPipelineResponse, error) {
	return nil, errUnimplemented("UpsertPipeline")
}
func (UnimplementedControlServiceServer) DeletePipeline(context.Context, *DeletePipelineRequest) (*DeletePipelineResponse, error) {
	return nil, errUnimplemented("DeletePipeline")
}
func (UnimplementedControlServiceServer) AddFilter(context.Context, *AddFilterRequest) (*AddFilterResponse, error) {
	return nil, errUnimplemented("AddFilter")
}
func (UnimplementedControlServiceServer) AddAction(context.Context, *AddActionRequest) (*AddActionResponse, error) {
	return nil, errUnimplemented("AddAction")
}
func (UnimplementedControlServiceServer) ListExecutionHistory(context.Context, *ListExecutionHistoryRequest) (*ListExecutionHistoryResponse, error) {
	return nil, errUnimplemented("ListExecutionHistory")
}
func (UnimplementedControlServiceServer) ListAccounts(context.Context, *ListAccountsRequest) (*ListAccountsResponse, error) {
	return nil, errUnimplemented("ListAccounts")
}
func (UnimplementedControlServiceServer) StartAccount(context.Context, *StartAccountRequest) (*StartAccountResponse, error) {
	return nil, errUnimplemented("StartAccount")
}
func (UnimplementedControlServiceServer) StopAccount(context.Context, *StopAccountRequest) (*StopAccountResponse, error) {
	return nil, errUnimplemented("StopAccount")
}
func (UnimplementedControlServiceServer) mustEmbedUnimplementedControlServiceServer() {}

// UnsafeControlServiceServer may be embedded to opt out of forward
// compatibility for this service.
type UnsafeControlServiceServer interface {
	mustEmbedUnimplementedControlServiceServer()
}

// RegisterControlServiceServer registers srv on s.
func RegisterControlServiceServer(s grpc.ServiceRegistrar, srv ControlServiceServer) {
	s.RegisterService(&ControlService_ServiceDesc, srv)
}

func _ControlService_ListCredentials_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ListCredentialsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ControlServiceServer).ListCredentials(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ControlService_ServiceName + "/ListCredentials"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ControlServiceServer).ListCredentials(ctx, req.(*ListCredentialsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ControlService_RefreshCredential_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(RefreshCredentialRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ControlServiceServer).RefreshCredential(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ControlService_ServiceName + "/RefreshCredential"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ControlServiceServer).RefreshCredential(ctx, req.(*RefreshCredentialRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ControlService_RevokeCredential_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(RevokeCredentialRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ControlServiceServer).RevokeCredential(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ControlService_ServiceName + "/RevokeCredential"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ControlServiceServer).RevokeCredential(ctx, req.(*RevokeCredentialRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ControlService_ListPipelines_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ListPipelinesRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ControlServiceServer).ListPipelines(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ControlService_ServiceName + "/ListPipelines"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ControlServiceServer).ListPipelines(ctx, req.(*ListPipelinesRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ControlService_GetPipeline_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetPipelineRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ControlServiceServer).GetPipeline(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ControlService_ServiceName + "/GetPipeline"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ControlServiceServer).GetPipeline(ctx, req.(*GetPipelineRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ControlService_UpsertPipeline_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(UpsertPipelineRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ControlServiceServer).UpsertPipeline(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ControlService_ServiceName + "/UpsertPipeline"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ControlServiceServer).UpsertPipeline(ctx, req.(*UpsertPipelineRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ControlService_DeletePipeline_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(DeletePipelineRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ControlServiceServer).DeletePipeline(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ControlService_ServiceName + "/DeletePipeline"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ControlServiceServer).DeletePipeline(ctx, req.(*DeletePipelineRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ControlService_AddFilter_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(AddFilterRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ControlServiceServer).AddFilter(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ControlService_ServiceName + "/AddFilter"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ControlServiceServer).AddFilter(ctx, req.(*AddFilterRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ControlService_AddAction_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(AddActionRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ControlServiceServer).AddAction(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ControlService_ServiceName + "/AddAction"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ControlServiceServer).AddAction(ctx, req.(*AddActionRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ControlService_ListExecutionHistory_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ListExecutionHistoryRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ControlServiceServer).ListExecutionHistory(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ControlService_ServiceName + "/ListExecutionHistory"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ControlServiceServer).ListExecutionHistory(ctx, req.(*ListExecutionHistoryRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ControlService_ListAccounts_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ListAccountsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ControlServiceServer).ListAccounts(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ControlService_ServiceName + "/ListAccounts"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ControlServiceServer).ListAccounts(ctx, req.(*ListAccountsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ControlService_StartAccount_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(StartAccountRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ControlServiceServer).StartAccount(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ControlService_ServiceName + "/StartAccount"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ControlServiceServer).StartAccount(ctx, req.(*StartAccountRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ControlService_StopAccount_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(StopAccountRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ControlServiceServer).StopAccount(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ControlService_ServiceName + "/StopAccount"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ControlServiceServer).StopAccount(ctx, req.(*StopAccountRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// ControlService_ServiceDesc is the grpc.ServiceDesc for ControlService.
var ControlService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ControlService_ServiceName,
	HandlerType: (*ControlServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListCredentials", Handler: _ControlService_ListCredentials_Handler},
		{MethodName: "RefreshCredential", Handler: _ControlService_RefreshCredential_Handler},
		{MethodName: "RevokeCredential", Handler: _ControlService_RevokeCredential_Handler},
		{MethodName: "ListPipelines", Handler: _ControlService_ListPipelines_Handler},
		{MethodName: "GetPipeline", Handler: _ControlService_GetPipeline_Handler},
		{MethodName: "UpsertPipeline", Handler: _ControlService_UpsertPipeline_Handler},
		{MethodName: "DeletePipeline", Handler: _ControlService_DeletePipeline_Handler},
		{MethodName: "AddFilter", Handler: _ControlService_AddFilter_Handler},
		{MethodName: "AddAction", Handler: _ControlService_AddAction_Handler},
		{MethodName: "ListExecutionHistory", Handler: _ControlService_ListExecutionHistory_Handler},
		{MethodName: "ListAccounts", Handler: _ControlService_ListAccounts_Handler},
		{MethodName: "StartAccount", Handler: _ControlService_StartAccount_Handler},
		{MethodName: "StopAccount", Handler: _ControlService_StopAccount_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "maowbot/control_service.proto",
}
