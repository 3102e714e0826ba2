package client

import (
	"context"
	"sync"

	"github.com/citycare/citycare/internal/client/models"
	"github.com/citycare/citycare/internal/common"
	"github.com/citycare/citycare/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type GRPCClient struct {
	endpointURL string
	dialOptions []grpc.DialOption
	conn        *grpc.ClientConn
	client      *rpc.ReportServiceClient
	health      healthpb.HealthClient

	mu           sync.RWMutex
	accessToken  string
	refreshToken string
	onRefresh    func(access, refresh string)
}

type Option func(*GRPCClient)

// WithTokenRefreshHandler registers fn to be called after the interceptor
// rotated the token pair, so the new pair can be persisted.
func WithTokenRefreshHandler(fn func(access, refresh string)) Option {
	return func(c *GRPCClient) { c.onRefresh = fn }
}

// WithDialOptions appends raw dial options (custom dialers in tests).
func WithDialOptions(opts ...grpc.DialOption) Option {
	return func(c *GRPCClient) { c.dialOptions = append(c.dialOptions, opts...) }
}

func NewGRPCClient(endpointURL string, opts ...Option) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	for _, o := range opts {
		o(c)
	}
	if err := c.InitGRPCClient(); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {
	opts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(rpc.CodecName)),
	}, s.dialOptions...)

	conn, err := grpc.NewClient(s.endpointURL, opts...)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = rpc.NewReportServiceClient(conn)
	s.health = healthpb.NewHealthClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) Tokens() (string, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken, s.refreshToken
}

func (s *GRPCClient) setTokens(access, refresh string) {
	s.mu.Lock()
	s.accessToken = access
	s.refreshToken = refresh
	s.mu.Unlock()
}

func (s *GRPCClient) Resume(session *models.Session) {
	if session == nil {
		s.setTokens("", "")
		return
	}
	s.setTokens(session.AccessToken, session.RefreshToken)
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	if token != "" {
		md.Set(common.AccessTokenHeaderName, token)
	}
	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	access, refresh := s.Tokens()

	err := invoker(withAccessToken(ctx, access), method, req, reply, cc, opts...)
	if err == nil || method == rpc.FullMethod(rpc.MethodRefreshToken) {
		return err
	}

	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.Unauthenticated || st.Message() != common.ErrTokenExpired.Error() {
		return err
	}
	if refresh == "" {
		return err
	}

	resp, rerr := s.client.RefreshToken(ctx, &rpc.RefreshTokenRequest{RefreshToken: refresh})
	if rerr != nil {
		return err
	}

	s.setTokens(resp.AccessToken, resp.RefreshToken)
	if s.onRefresh != nil {
		s.onRefresh(resp.AccessToken, resp.RefreshToken)
	}

	return invoker(withAccessToken(ctx, resp.AccessToken), method, req, reply, cc, opts...)
}

// Ping asks the server's health service whether the report service serves.
func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.health.Check(ctx, &healthpb.HealthCheckRequest{Service: rpc.ServiceName})
	if err != nil {
		return s.mapError("ping", err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return &RemoteError{Op: "ping", Err: ErrUnavailable}
	}
	return nil
}

func (s *GRPCClient) Register(ctx context.Context, email, password, displayName string) (string, error) {
	resp, err := s.client.Register(ctx, &rpc.RegisterRequest{Email: email, Password: password, DisplayName: displayName})
	if err != nil {
		return "", s.mapError("register", err)
	}
	return resp.UserID, nil
}

func (s *GRPCClient) Login(ctx context.Context, email, password string) (*models.Session, error) {
	resp, err := s.client.Login(ctx, &rpc.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, s.mapError("login", err)
	}

	s.setTokens(resp.AccessToken, resp.RefreshToken)

	session := &models.Session{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}
	if resp.User != nil {
		session.User = userFromWire(resp.User)
	}
	return session, nil
}

func (s *GRPCClient) Logout(ctx context.Context) error {
	_, refresh := s.Tokens()
	defer s.setTokens("", "")

	if refresh == "" {
		return nil
	}
	if _, err := s.client.Logout(ctx, &rpc.LogoutRequest{RefreshToken: refresh}); err != nil {
		return s.mapError("logout", err)
	}
	return nil
}

func (s *GRPCClient) Create(ctx context.Context, draft models.ReportDraft) (*models.ServerReport, error) {
	req := &rpc.CreateReportRequest{
		ClientRef:   draft.ClientRef,
		Title:       draft.Title,
		Category:    string(draft.Category),
		Description: draft.Description,
		Priority:    string(draft.Priority),
		Lat:         draft.Coordinates.Lat,
		Lng:         draft.Coordinates.Lng,
		ImageURL:    draft.ImageURL,
		CapturedAt:  draft.CapturedAt,
	}

	resp, err := s.client.CreateReport(ctx, req)
	if err != nil {
		return nil, s.mapError("create", err)
	}
	r := reportFromWire(resp.Report)
	return &r, nil
}

func (s *GRPCClient) List(ctx context.Context, filter models.ReportFilter) ([]models.ServerReport, error) {
	req := &rpc.ListReportsRequest{
		Status:   string(filter.Status),
		Category: string(filter.Category),
		UserID:   filter.UserID,
		Limit:    int32(filter.Limit),
	}

	resp, err := s.client.ListReports(ctx, req)
	if err != nil {
		return nil, s.mapError("list", err)
	}

	reports := make([]models.ServerReport, 0, len(resp.Reports))
	for _, r := range resp.Reports {
		reports = append(reports, reportFromWire(r))
	}
	return reports, nil
}

func (s *GRPCClient) Update(ctx context.Context, id string, update models.ReportUpdate) (*models.ServerReport, error) {
	req := &rpc.UpdateReportRequest{
		ID:            id,
		Title:         update.Title,
		Description:   update.Description,
		EstimatedCost: update.EstimatedCost,
	}
	if update.Status != nil {
		v := string(*update.Status)
		req.Status = &v
	}
	if update.Priority != nil {
		v := string(*update.Priority)
		req.Priority = &v
	}
	if update.Category != nil {
		v := string(*update.Category)
		req.Category = &v
	}

	resp, err := s.client.UpdateReport(ctx, req)
	if err != nil {
		return nil, s.mapError("update", err)
	}
	r := reportFromWire(resp.Report)
	return &r, nil
}

func (s *GRPCClient) Delete(ctx context.Context, id string) error {
	if _, err := s.client.DeleteReport(ctx, &rpc.DeleteReportRequest{ID: id}); err != nil {
		return s.mapError("delete", err)
	}
	return nil
}

func (s *GRPCClient) Upvote(ctx context.Context, id string) (int64, error) {
	resp, err := s.client.UpvoteReport(ctx, &rpc.UpvoteReportRequest{ID: id})
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return 0, &RemoteError{Op: "upvote", Err: ErrAlreadyUpvoted}
		}
		return 0, s.mapError("upvote", err)
	}
	return resp.Upvotes, nil
}

func (s *GRPCClient) Upvoted(ctx context.Context) ([]string, error) {
	resp, err := s.client.ListUpvoted(ctx, &rpc.ListUpvotedRequest{})
	if err != nil {
		return nil, s.mapError("upvoted", err)
	}
	return resp.ReportIDs, nil
}

func (s *GRPCClient) ListUsers(ctx context.Context) ([]models.User, error) {
	resp, err := s.client.ListUsers(ctx, &rpc.ListUsersRequest{})
	if err != nil {
		return nil, s.mapError("list users", err)
	}
	users := make([]models.User, 0, len(resp.Users))
	for _, u := range resp.Users {
		users = append(users, userFromWire(u))
	}
	return users, nil
}

func (s *GRPCClient) SetUserRole(ctx context.Context, userID string, role common.Role) error {
	if _, err := s.client.SetUserRole(ctx, &rpc.SetUserRoleRequest{UserID: userID, Role: string(role)}); err != nil {
		return s.mapError("set role", err)
	}
	return nil
}

func (s *GRPCClient) ListAuditLogs(ctx context.Context, limit int) ([]models.AuditLog, error) {
	resp, err := s.client.ListAuditLogs(ctx, &rpc.ListAuditLogsRequest{Limit: int32(limit)})
	if err != nil {
		return nil, s.mapError("audit logs", err)
	}
	logs := make([]models.AuditLog, 0, len(resp.Logs))
	for _, l := range resp.Logs {
		logs = append(logs, models.AuditLog{
			ID:          l.ID,
			CreatedAt:   l.CreatedAt,
			Action:      common.AuditAction(l.Action),
			Actor:       l.Actor,
			TargetID:    l.TargetID,
			TargetTitle: l.TargetTitle,
			Details:     l.Details,
			Category:    common.AuditCategory(l.Category),
		})
	}
	return logs, nil
}

func (s *GRPCClient) mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated:
		return &RemoteError{Op: op, Err: ErrUnauthorized}
	case codes.PermissionDenied:
		return &RemoteError{Op: op, Err: ErrForbidden}
	case codes.Unavailable, codes.DeadlineExceeded, codes.Canceled:
		return &RemoteError{Op: op, Err: ErrUnavailable}
	case codes.NotFound:
		return &RemoteError{Op: op, Err: ErrNotFound}
	case codes.InvalidArgument:
		return &RemoteError{Op: op, Err: ErrInvalidArgument}
	default:
		return &RemoteError{Op: op, Err: err}
	}
}

func reportFromWire(r *rpc.Report) models.ServerReport {
	if r == nil {
		return models.ServerReport{}
	}
	return models.ServerReport{
		ID:            r.ID,
		ClientRef:     r.ClientRef,
		UserID:        r.UserID,
		Title:         r.Title,
		Category:      common.Category(r.Category),
		Description:   r.Description,
		Priority:      common.Priority(r.Priority),
		Coordinates:   models.Coordinates{Lat: r.Lat, Lng: r.Lng},
		ImageURL:      r.ImageURL,
		Status:        common.Status(r.Status),
		Upvotes:       r.Upvotes,
		EstimatedCost: r.EstimatedCost,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func userFromWire(u *rpc.User) models.User {
	return models.User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        common.Role(u.Role),
		CreatedAt:   u.CreatedAt,
	}
}
