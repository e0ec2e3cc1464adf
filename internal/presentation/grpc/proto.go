package grpc

// proto.go holds the hand-maintained service descriptor for risk.v1.RiskService.
// Messages travel with the JSON codec registered in json_codec.go.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	serviceName = "risk.v1.RiskService"

	EvaluateRiskMethod    = "/" + serviceName + "/EvaluateRisk"
	ClassifyProfileMethod = "/" + serviceName + "/ClassifyProfile"
	ListRiskTiersMethod   = "/" + serviceName + "/ListRiskTiers"
)

// RiskServiceServer is the server API for RiskService.
type RiskServiceServer interface {
	EvaluateRisk(context.Context, *EvaluateRiskRequest) (*EvaluateRiskResponse, error)
	ClassifyProfile(context.Context, *ClassifyProfileRequest) (*ClassifyProfileResponse, error)
	ListRiskTiers(context.Context, *ListRiskTiersRequest) (*ListRiskTiersResponse, error)
	mustEmbedUnimplementedRiskServiceServer()
}

// UnimplementedRiskServiceServer provides forward-compatible default implementations.
type UnimplementedRiskServiceServer struct{}

func (UnimplementedRiskServiceServer) EvaluateRisk(context.Context, *EvaluateRiskRequest) (*EvaluateRiskResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method EvaluateRisk not implemented")
}
func (UnimplementedRiskServiceServer) ClassifyProfile(context.Context, *ClassifyProfileRequest) (*ClassifyProfileResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ClassifyProfile not implemented")
}
func (UnimplementedRiskServiceServer) ListRiskTiers(context.Context, *ListRiskTiersRequest) (*ListRiskTiersResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListRiskTiers not implemented")
}
func (UnimplementedRiskServiceServer) mustEmbedUnimplementedRiskServiceServer() {}

// RegisterRiskServiceServer registers the RiskServiceServer with the gRPC server.
func RegisterRiskServiceServer(s grpclib.ServiceRegistrar, srv RiskServiceServer) {
	s.RegisterService(&_RiskService_serviceDesc, srv)
}

var _RiskService_serviceDesc = grpclib.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*RiskServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "EvaluateRisk", Handler: _RiskService_EvaluateRisk_Handler},
		{MethodName: "ClassifyProfile", Handler: _RiskService_ClassifyProfile_Handler},
		{MethodName: "ListRiskTiers", Handler: _RiskService_ListRiskTiers_Handler},
	},
	Streams:  []grpclib.StreamDesc{},
	Metadata: "risk/v1/risk.proto",
}

func _RiskService_EvaluateRisk_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(EvaluateRiskRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RiskServiceServer).EvaluateRisk(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: EvaluateRiskMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RiskServiceServer).EvaluateRisk(ctx, req.(*EvaluateRiskRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func _RiskService_ClassifyProfile_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(ClassifyProfileRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RiskServiceServer).ClassifyProfile(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: ClassifyProfileMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RiskServiceServer).ClassifyProfile(ctx, req.(*ClassifyProfileRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func _RiskService_ListRiskTiers_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(ListRiskTiersRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RiskServiceServer).ListRiskTiers(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: ListRiskTiersMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RiskServiceServer).ListRiskTiers(ctx, req.(*ListRiskTiersRequest))
	}
	return interceptor(ctx, req, info, handler)
}

// RiskServiceClient is the client API for RiskService.
type RiskServiceClient interface {
	EvaluateRisk(ctx context.Context, in *EvaluateRiskRequest, opts ...grpclib.CallOption) (*EvaluateRiskResponse, error)
	ClassifyProfile(ctx context.Context, in *ClassifyProfileRequest, opts ...grpclib.CallOption) (*ClassifyProfileResponse, error)
	ListRiskTiers(ctx context.Context, in *ListRiskTiersRequest, opts ...grpclib.CallOption) (*ListRiskTiersResponse, error)
}

type riskServiceClient struct {
	cc grpclib.ClientConnInterface
}

// NewRiskServiceClient returns a client that sends every call with the JSON codec.
func NewRiskServiceClient(cc grpclib.ClientConnInterface) RiskServiceClient {
	return &riskServiceClient{cc: cc}
}

func (c *riskServiceClient) EvaluateRisk(ctx context.Context, in *EvaluateRiskRequest, opts ...grpclib.CallOption) (*EvaluateRiskResponse, error) {
	out := new(EvaluateRiskResponse)
	if err := c.cc.Invoke(ctx, EvaluateRiskMethod, in, out, withJSON(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *riskServiceClient) ClassifyProfile(ctx context.Context, in *ClassifyProfileRequest, opts ...grpclib.CallOption) (*ClassifyProfileResponse, error) {
	out := new(ClassifyProfileResponse)
	if err := c.cc.Invoke(ctx, ClassifyProfileMethod, in, out, withJSON(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *riskServiceClient) ListRiskTiers(ctx context.Context, in *ListRiskTiersRequest, opts ...grpclib.CallOption) (*ListRiskTiersResponse, error) {
	out := new(ListRiskTiersResponse)
	if err := c.cc.Invoke(ctx, ListRiskTiersMethod, in, out, withJSON(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func withJSON(opts []grpclib.CallOption) []grpclib.CallOption {
	return append([]grpclib.CallOption{grpclib.CallContentSubtype(codecName)}, opts...)
}
