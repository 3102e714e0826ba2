// Package rpc defines the citycare.v1.ReportService gRPC contract: request
// and response messages, the service descriptor used by the server, and a
// typed client stub. Messages travel as JSON through Codec.
package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "citycare.v1.ReportService"

// Method names, usable with FullMethod.
const (
	MethodRegister      = "Register"
	MethodLogin         = "Login"
	MethodRefreshToken  = "RefreshToken"
	MethodLogout        = "Logout"
	MethodCreateReport  = "CreateReport"
	MethodListReports   = "ListReports"
	MethodUpdateReport  = "UpdateReport"
	MethodDeleteReport  = "DeleteReport"
	MethodUpvoteReport  = "UpvoteReport"
	MethodListUpvoted   = "ListUpvoted"
	MethodListUsers     = "ListUsers"
	MethodSetUserRole   = "SetUserRole"
	MethodListAuditLogs = "ListAuditLogs"
)

// FullMethod returns the "/service/method" path of method.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// ReportServiceServer is implemented by the server's gRPC handlers.
type ReportServiceServer interface {
	Register(context.Context, *RegisterRequest) (*RegisterResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	RefreshToken(context.Context, *RefreshTokenRequest) (*RefreshTokenResponse, error)
	Logout(context.Context, *LogoutRequest) (*LogoutResponse, error)
	CreateReport(context.Context, *CreateReportRequest) (*CreateReportResponse, error)
	ListReports(context.Context, *ListReportsRequest) (*ListReportsResponse, error)
	UpdateReport(context.Context, *UpdateReportRequest) (*UpdateReportResponse, error)
	DeleteReport(context.Context, *DeleteReportRequest) (*DeleteReportResponse, error)
	UpvoteReport(context.Context, *UpvoteReportRequest) (*UpvoteReportResponse, error)
	ListUpvoted(context.Context, *ListUpvotedRequest) (*ListUpvotedResponse, error)
	ListUsers(context.Context, *ListUsersRequest) (*ListUsersResponse, error)
	SetUserRole(context.Context, *SetUserRoleRequest) (*SetUserRoleResponse, error)
	ListAuditLogs(context.Context, *ListAuditLogsRequest) (*ListAuditLogsResponse, error)
}

// RegisterReportServiceServer registers srv on s.
func RegisterReportServiceServer(s grpc.ServiceRegistrar, srv ReportServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// ServiceDesc describes ReportService for grpc.Server.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ReportServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodRegister, ReportServiceServer.Register),
		unary(MethodLogin, ReportServiceServer.Login),
		unary(MethodRefreshToken, ReportServiceServer.RefreshToken),
		unary(MethodLogout, ReportServiceServer.Logout),
		unary(MethodCreateReport, ReportServiceServer.CreateReport),
		unary(MethodListReports, ReportServiceServer.ListReports),
		unary(MethodUpdateReport, ReportServiceServer.UpdateReport),
		unary(MethodDeleteReport, ReportServiceServer.DeleteReport),
		unary(MethodUpvoteReport, ReportServiceServer.UpvoteReport),
		unary(MethodListUpvoted, ReportServiceServer.ListUpvoted),
		unary(MethodListUsers, ReportServiceServer.ListUsers),
		unary(MethodSetUserRole, ReportServiceServer.SetUserRole),
		unary(MethodListAuditLogs, ReportServiceServer.ListAuditLogs),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "citycare/v1/report_service",
}

// unary adapts a typed server method to grpc.MethodDesc, running the
// configured interceptor chain the same way generated code does.
func unary[Req, Resp any](name string, call func(ReportServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			s := srv.(ReportServiceServer)
			if interceptor == nil {
				return call(s, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(s, ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// UnimplementedReportServiceServer answers every method with
// codes.Unimplemented; embed it to implement a subset.
type UnimplementedReportServiceServer struct{}

func (UnimplementedReportServiceServer) Register(context.Context, *RegisterRequest) (*RegisterResponse, error) {
	return nil, unimplemented(MethodRegister)
}
func (UnimplementedReportServiceServer) Login(context.Context, *LoginRequest) (*LoginResponse, error) {
	return nil, unimplemented(MethodLogin)
}
func (UnimplementedReportServiceServer) RefreshToken(context.Context, *RefreshTokenRequest) (*RefreshTokenResponse, error) {
	return nil, unimplemented(MethodRefreshToken)
}
func (UnimplementedReportServiceServer) Logout(context.Context, *LogoutRequest) (*LogoutResponse, error) {
	return nil, unimplemented(MethodLogout)
}
func (UnimplementedReportServiceServer) CreateReport(context.Context, *CreateReportRequest) (*CreateReportResponse, error) {
	return nil, unimplemented(MethodCreateReport)
}
func (UnimplementedReportServiceServer) ListReports(context.Context, *ListReportsRequest) (*ListReportsResponse, error) {
	return nil, unimplemented(MethodListReports)
}
func (UnimplementedReportServiceServer) UpdateReport(context.Context, *UpdateReportRequest) (*UpdateReportResponse, error) {
	return nil, unimplemented(MethodUpdateReport)
}
func (UnimplementedReportServiceServer) DeleteReport(context.Context, *DeleteReportRequest) (*DeleteReportResponse, error) {
	return nil, unimplemented(MethodDeleteReport)
}
func (UnimplementedReportServiceServer) UpvoteReport(context.Context, *UpvoteReportRequest) (*UpvoteReportResponse, error) {
	return nil, unimplemented(MethodUpvoteReport)
}
func (UnimplementedReportServiceServer) ListUpvoted(context.Context, *ListUpvotedRequest) (*ListUpvotedResponse, error) {
	return nil, unimplemented(MethodListUpvoted)
}
func (UnimplementedReportServiceServer) ListUsers(context.Context, *ListUsersRequest) (*ListUsersResponse, error) {
	return nil, unimplemented(MethodListUsers)
}
func (UnimplementedReportServiceServer) SetUserRole(context.Context, *SetUserRoleRequest) (*SetUserRoleResponse, error) {
	return nil, unimplemented(MethodSetUserRole)
}
func (UnimplementedReportServiceServer) ListAuditLogs(context.Context, *ListAuditLogsRequest) (*ListAuditLogsResponse, error) {
	return nil, unimplemented(MethodListAuditLogs)
}

func unimplemented(method string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", method)
}
