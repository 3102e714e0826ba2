package grpc

import (
	"context"
	"errors"
	"fmt"

	"github.com/citycare/citycare/internal/common"
	"github.com/citycare/citycare/internal/rpc"
	"github.com/citycare/citycare/internal/server/models"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps service errors onto gRPC status codes. Unknown errors are
// reported as Internal without detail.
func toStatus(err error) error {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, common.ErrAlreadyUpvoted):
		return status.Error(codes.AlreadyExists, common.ErrAlreadyUpvoted.Error())
	case errors.Is(err, common.ErrorAlreadyExists):
		return status.Error(codes.AlreadyExists, common.ErrorAlreadyExists.Error())
	case errors.Is(err, common.ErrRefreshTokenExpired):
		return status.Error(codes.Unauthenticated, common.ErrRefreshTokenExpired.Error())
	case errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, "unauthorized")
	case errors.Is(err, common.ErrorForbidden):
		return status.Error(codes.PermissionDenied, "forbidden")
	}
	return status.Error(codes.Internal, "internal error")
}

func (s *GRPCServer) claims(ctx context.Context) (string, error) {
	c, ok := ClaimsFromContext(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "missing token")
	}
	return c.UserID, nil
}

func toRPCUser(u *models.User) *rpc.User {
	return &rpc.User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        string(u.Role),
		CreatedAt:   u.CreatedAt,
	}
}

func toRPCReport(r *models.Report) *rpc.Report {
	return &rpc.Report{
		ID:            r.ID,
		ClientRef:     r.ClientRef,
		UserID:        r.UserID,
		Title:         r.Title,
		Category:      string(r.Category),
		Description:   r.Description,
		Priority:      string(r.Priority),
		Lat:           r.Lat,
		Lng:           r.Lng,
		ImageURL:      r.ImageURL,
		Status:        string(r.Status),
		Upvotes:       r.Upvotes,
		EstimatedCost: r.EstimatedCost,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func (s *GRPCServer) Register(ctx context.Context, req *rpc.RegisterRequest) (*rpc.RegisterResponse, error) {
	u, err := s.users.Register(ctx, req.Email, req.Password, req.DisplayName)
	if err != nil {
		return nil, toStatus(err)
	}
	s.logger.Info(ctx, "Registered", "user_id", u.ID, "role", u.Role)
	return &rpc.RegisterResponse{UserID: u.ID}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *rpc.LoginRequest) (*rpc.LoginResponse, error) {
	u, tokens, err := s.users.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, toStatus(err)
	}
	return &rpc.LoginResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		User:         toRPCUser(u),
	}, nil
}

func (s *GRPCServer) RefreshToken(ctx context.Context, req *rpc.RefreshTokenRequest) (*rpc.RefreshTokenResponse, error) {
	tokens, err := s.users.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, toStatus(err)
	}
	return &rpc.RefreshTokenResponse{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}, nil
}

func (s *GRPCServer) Logout(ctx context.Context, req *rpc.LogoutRequest) (*rpc.LogoutResponse, error) {
	if err := s.users.Logout(ctx, req.RefreshToken); err != nil {
		return nil, toStatus(err)
	}
	return &rpc.LogoutResponse{}, nil
}

func (s *GRPCServer) CreateReport(ctx context.Context, req *rpc.CreateReportRequest) (*rpc.CreateReportResponse, error) {
	userID, err := s.claims(ctx)
	if err != nil {
		return nil, err
	}
	category, err := common.ParseCategory(req.Category)
	if err != nil {
		return nil, toStatus(err)
	}
	priority := common.PriorityMedium
	if req.Priority != "" {
		if priority, err = common.ParsePriority(req.Priority); err != nil {
			return nil, toStatus(err)
		}
	}

	r, err := s.reports.Create(ctx, userID, &models.Report{
		ClientRef:   req.ClientRef,
		Title:       req.Title,
		Category:    category,
		Description: req.Description,
		Priority:    priority,
		Lat:         req.Lat,
		Lng:         req.Lng,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		return nil, toStatus(err)
	}
	return &rpc.CreateReportResponse{Report: toRPCReport(r)}, nil
}

func (s *GRPCServer) ListReports(ctx context.Context, req *rpc.ListReportsRequest) (*rpc.ListReportsResponse, error) {
	filter := models.ReportFilter{UserID: req.UserID, Limit: int(req.Limit)}
	var err error
	if req.Status != "" {
		if filter.Status, err = common.ParseStatus(req.Status); err != nil {
			return nil, toStatus(err)
		}
	}
	if req.Category != "" {
		if filter.Category, err = common.ParseCategory(req.Category); err != nil {
			return nil, toStatus(err)
		}
	}

	reports, err := s.reports.List(ctx, filter)
	if err != nil {
		return nil, toStatus(err)
	}
	out := make([]*rpc.Report, 0, len(reports))
	for _, r := range reports {
		out = append(out, toRPCReport(r))
	}
	return &rpc.ListReportsResponse{Reports: out}, nil
}

func parseUpdate(req *rpc.UpdateReportRequest) (models.ReportUpdate, error) {
	u := models.ReportUpdate{
		Title:         req.Title,
		Description:   req.Description,
		EstimatedCost: req.EstimatedCost,
	}
	if req.Status != nil {
		v, err := common.ParseStatus(*req.Status)
		if err != nil {
			return u, err
		}
		u.Status = &v
	}
	if req.Priority != nil {
		v, err := common.ParsePriority(*req.Priority)
		if err != nil {
			return u, err
		}
		u.Priority = &v
	}
	if req.Category != nil {
		v, err := common.ParseCategory(*req.Category)
		if err != nil {
			return u, err
		}
		u.Category = &v
	}
	return u, nil
}

func (s *GRPCServer) UpdateReport(ctx context.Context, req *rpc.UpdateReportRequest) (*rpc.UpdateReportResponse, error) {
	actor, err := s.claims(ctx)
	if err != nil {
		return nil, err
	}
	u, err := parseUpdate(req)
	if err != nil {
		return nil, toStatus(err)
	}
	r, err := s.reports.Update(ctx, actor, req.ID, u)
	if err != nil {
		return nil, toStatus(err)
	}
	return &rpc.UpdateReportResponse{Report: toRPCReport(r)}, nil
}

func (s *GRPCServer) DeleteReport(ctx context.Context, req *rpc.DeleteReportRequest) (*rpc.DeleteReportResponse, error) {
	actor, err := s.claims(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.reports.Delete(ctx, actor, req.ID); err != nil {
		return nil, toStatus(err)
	}
	return &rpc.DeleteReportResponse{}, nil
}

func (s *GRPCServer) UpvoteReport(ctx context.Context, req *rpc.UpvoteReportRequest) (*rpc.UpvoteReportResponse, error) {
	userID, err := s.claims(ctx)
	if err != nil {
		return nil, err
	}
	n, err := s.reports.Upvote(ctx, userID, req.ID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &rpc.UpvoteReportResponse{Upvotes: n}, nil
}

func (s *GRPCServer) ListUpvoted(ctx context.Context, _ *rpc.ListUpvotedRequest) (*rpc.ListUpvotedResponse, error) {
	userID, err := s.claims(ctx)
	if err != nil {
		return nil, err
	}
	ids, err := s.reports.Upvoted(ctx, userID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &rpc.ListUpvotedResponse{ReportIDs: ids}, nil
}

func (s *GRPCServer) ListUsers(ctx context.Context, _ *rpc.ListUsersRequest) (*rpc.ListUsersResponse, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	out := make([]*rpc.User, 0, len(users))
	for _, u := range users {
		out = append(out, toRPCUser(u))
	}
	return &rpc.ListUsersResponse{Users: out}, nil
}

func (s *GRPCServer) SetUserRole(ctx context.Context, req *rpc.SetUserRoleRequest) (*rpc.SetUserRoleResponse, error) {
	actor, err := s.claims(ctx)
	if err != nil {
		return nil, err
	}
	if actor == req.UserID && req.Role != string(common.RoleAdmin) {
		return nil, toStatus(fmt.Errorf("%w: cannot demote yourself", common.ErrorValidation))
	}
	if err := s.users.SetRole(ctx, actor, req.UserID, common.Role(req.Role)); err != nil {
		return nil, toStatus(err)
	}
	return &rpc.SetUserRoleResponse{}, nil
}

func (s *GRPCServer) ListAuditLogs(ctx context.Context, req *rpc.ListAuditLogsRequest) (*rpc.ListAuditLogsResponse, error) {
	logs, err := s.audit.List(ctx, int(req.Limit))
	if err != nil {
		return nil, toStatus(err)
	}
	out := make([]*rpc.AuditLog, 0, len(logs))
	for _, l := range logs {
		out = append(out, &rpc.AuditLog{
			ID:          l.ID,
			CreatedAt:   l.CreatedAt,
			Action:      string(l.Action),
			Actor:       l.Actor,
			TargetID:    l.TargetID,
			TargetTitle: l.TargetTitle,
			Details:     l.Details,
			Category:    string(l.Category),
		})
	}
	return &rpc.ListAuditLogsResponse{Logs: out}, nil
}
