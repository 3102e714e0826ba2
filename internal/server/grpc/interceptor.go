package grpc

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/citycare/citycare/internal/common"
	"github.com/citycare/citycare/internal/rpc"
	"github.com/citycare/citycare/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const claimsKey ctxKey = "claims"

// publicMethods need no access token. ListReports takes one when present so
// the caller can be identified, but anonymous reads are allowed.
var publicMethods = map[string]bool{
	rpc.FullMethod(rpc.MethodRegister):     true,
	rpc.FullMethod(rpc.MethodLogin):        true,
	rpc.FullMethod(rpc.MethodRefreshToken): true,
	rpc.FullMethod(rpc.MethodLogout):       true,
	rpc.FullMethod(rpc.MethodListReports):  true,
}

var adminMethods = map[string]bool{
	rpc.FullMethod(rpc.MethodUpdateReport):  true,
	rpc.FullMethod(rpc.MethodDeleteReport):  true,
	rpc.FullMethod(rpc.MethodListUsers):     true,
	rpc.FullMethod(rpc.MethodSetUserRole):   true,
	rpc.FullMethod(rpc.MethodListAuditLogs): true,
}

// ClaimsFromContext returns the verified token claims stored by the
// interceptor.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*auth.Claims)
	return c, ok
}

func accessToken(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(common.AccessTokenHeaderName); len(values) > 0 {
			return values[0]
		}
	}
	return ""
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if !strings.HasPrefix(info.FullMethod, "/"+rpc.ServiceName+"/") {
		return handler(ctx, req)
	}

	public := publicMethods[info.FullMethod]
	token := accessToken(ctx)
	if token == "" {
		if public {
			return handler(ctx, req)
		}
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			// the client refreshes on exactly this message
			return nil, status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
		}
		if public {
			return handler(ctx, req)
		}
		return nil, status.Error(codes.Unauthenticated, common.ErrInvalidToken.Error())
	}

	if adminMethods[info.FullMethod] && !claims.IsAdmin() {
		return nil, status.Error(codes.PermissionDenied, "admin role required")
	}

	return handler(context.WithValue(ctx, claimsKey, claims), req)
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	code := status.Code(err)
	args := []any{"method", info.FullMethod, "code", code.String(), "duration", time.Since(start)}
	if code == codes.Internal || code == codes.Unknown {
		s.logger.Error(ctx, "rpc failed", append(args, "error", err)...)
	} else {
		s.logger.Info(ctx, "rpc", args...)
	}
	return resp, err
}
