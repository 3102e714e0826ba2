package rpc

import (
	"context"

	"google.golang.org/grpc"
)

// ReportServiceClient is a typed stub over a gRPC connection.
type ReportServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewReportServiceClient(cc grpc.ClientConnInterface) *ReportServiceClient {
	return &ReportServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ReportServiceClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error) {
	return invoke[RegisterResponse](ctx, c.cc, MethodRegister, in, opts)
}

func (c *ReportServiceClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, MethodLogin, in, opts)
}

func (c *ReportServiceClient) RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*RefreshTokenResponse, error) {
	return invoke[RefreshTokenResponse](ctx, c.cc, MethodRefreshToken, in, opts)
}

func (c *ReportServiceClient) Logout(ctx context.Context, in *LogoutRequest, opts ...grpc.CallOption) (*LogoutResponse, error) {
	return invoke[LogoutResponse](ctx, c.cc, MethodLogout, in, opts)
}

func (c *ReportServiceClient) CreateReport(ctx context.Context, in *CreateReportRequest, opts ...grpc.CallOption) (*CreateReportResponse, error) {
	return invoke[CreateReportResponse](ctx, c.cc, MethodCreateReport, in, opts)
}

func (c *ReportServiceClient) ListReports(ctx context.Context, in *ListReportsRequest, opts ...grpc.CallOption) (*ListReportsResponse, error) {
	return invoke[ListReportsResponse](ctx, c.cc, MethodListReports, in, opts)
}

func (c *ReportServiceClient) UpdateReport(ctx context.Context, in *UpdateReportRequest, opts ...grpc.CallOption) (*UpdateReportResponse, error) {
	return invoke[UpdateReportResponse](ctx, c.cc, MethodUpdateReport, in, opts)
}

func (c *ReportServiceClient) DeleteReport(ctx context.Context, in *DeleteReportRequest, opts ...grpc.CallOption) (*DeleteReportResponse, error) {
	return invoke[DeleteReportResponse](ctx, c.cc, MethodDeleteReport, in, opts)
}

func (c *ReportServiceClient) UpvoteReport(ctx context.Context, in *UpvoteReportRequest, opts ...grpc.CallOption) (*UpvoteReportResponse, error) {
	return invoke[UpvoteReportResponse](ctx, c.cc, MethodUpvoteReport, in, opts)
}

func (c *ReportServiceClient) ListUpvoted(ctx context.Context, in *ListUpvotedRequest, opts ...grpc.CallOption) (*ListUpvotedResponse, error) {
	return invoke[ListUpvotedResponse](ctx, c.cc, MethodListUpvoted, in, opts)
}

func (c *ReportServiceClient) ListUsers(ctx context.Context, in *ListUsersRequest, opts ...grpc.CallOption) (*ListUsersResponse, error) {
	return invoke[ListUsersResponse](ctx, c.cc, MethodListUsers, in, opts)
}

func (c *ReportServiceClient) SetUserRole(ctx context.Context, in *SetUserRoleRequest, opts ...grpc.CallOption) (*SetUserRoleResponse, error) {
	return invoke[SetUserRoleResponse](ctx, c.cc, MethodSetUserRole, in, opts)
}

func (c *ReportServiceClient) ListAuditLogs(ctx context.Context, in *ListAuditLogsRequest, opts ...grpc.CallOption) (*ListAuditLogsResponse, error) {
	return invoke[ListAuditLogsResponse](ctx, c.cc, MethodListAuditLogs, in, opts)
}
