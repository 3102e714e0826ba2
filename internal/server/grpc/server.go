package grpc

import (
	"context"
	"net"

	"github.com/citycare/citycare/internal/common"
	"github.com/citycare/citycare/internal/logging"
	"github.com/citycare/citycare/internal/rpc"
	"github.com/citycare/citycare/internal/server/models"
	"github.com/citycare/citycare/internal/server/services"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// UserService is the account logic the handlers call.
type UserService interface {
	Register(ctx context.Context, email, password, displayName string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, *services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	ListUsers(ctx context.Context) ([]*models.User, error)
	SetRole(ctx context.Context, actorID, userID string, role common.Role) error
}

// ReportService is the report logic the handlers call.
type ReportService interface {
	Create(ctx context.Context, userID string, r *models.Report) (*models.Report, error)
	List(ctx context.Context, filter models.ReportFilter) ([]*models.Report, error)
	Update(ctx context.Context, actorID, id string, u models.ReportUpdate) (*models.Report, error)
	Delete(ctx context.Context, actorID, id string) error
	Upvote(ctx context.Context, userID, id string) (int64, error)
	Upvoted(ctx context.Context, userID string) ([]string, error)
}

type AuditService interface {
	List(ctx context.Context, limit int) ([]*models.AuditLog, error)
}

type GRPCServer struct {
	rpc.UnimplementedReportServiceServer
	address   string
	users     UserService
	reports   ReportService
	audit     AuditService
	logger    logging.Logger
	jwtSecret []byte
	health    *health.Server
}

func NewGRPCServer(a string, l logging.Logger, us UserService, rs ReportService, as AuditService, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		users:     us,
		reports:   rs,
		audit:     as,
		jwtSecret: []byte(secretKey),
		health:    health.NewServer(),
	}
}

// newServer builds the grpc.Server with interceptors, the report service
// and the health service registered.
func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	rpc.RegisterReportServiceServer(srv, s)
	healthpb.RegisterHealthServer(srv, s.health)
	s.health.SetServingStatus(rpc.ServiceName, healthpb.HealthCheckResponse_SERVING)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.serve(ctx, listen)
}

func (s *GRPCServer) serve(ctx context.Context, listen net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
