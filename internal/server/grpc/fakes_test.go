package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/citycare/citycare/internal/common"
	"github.com/citycare/citycare/internal/logging"
	"github.com/citycare/citycare/internal/rpc"
	"github.com/citycare/citycare/internal/server/auth"
	"github.com/citycare/citycare/internal/server/models"
	"github.com/citycare/citycare/internal/server/services"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/test/bufconn"
)

const testSecret = "secret"

type fakeUsers struct {
	registerErr error
	loginErr    error
	refreshErr  error
	loggedOut   []string
	roleCalls   [][3]string
}

func (f *fakeUsers) Register(_ context.Context, email, _, _ string) (*models.User, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return &models.User{ID: "u1", Email: email, Role: common.RoleUser}, nil
}

func (f *fakeUsers) Login(_ context.Context, email, _ string) (*models.User, *services.TokenPair, error) {
	if f.loginErr != nil {
		return nil, nil, f.loginErr
	}
	return &models.User{ID: "u1", Email: email, DisplayName: "Ann", Role: common.RoleUser},
		&services.TokenPair{AccessToken: "a", RefreshToken: "r"}, nil
}

func (f *fakeUsers) RefreshToken(context.Context, string) (*services.TokenPair, error) {
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	return &services.TokenPair{AccessToken: "a2", RefreshToken: "r2"}, nil
}

func (f *fakeUsers) Logout(_ context.Context, token string) error {
	f.loggedOut = append(f.loggedOut, token)
	return nil
}

func (f *fakeUsers) ListUsers(context.Context) ([]*models.User, error) {
	return []*models.User{{ID: "u1", Email: "ann@city.test", Role: common.RoleUser}}, nil
}

func (f *fakeUsers) SetRole(_ context.Context, actorID, userID string, role common.Role) error {
	f.roleCalls = append(f.roleCalls, [3]string{actorID, userID, string(role)})
	return nil
}

type fakeReports struct {
	created   *models.Report
	createdBy string
	filter    models.ReportFilter
	update    models.ReportUpdate
	deleted   string
	upvoteErr error
	err       error
}

func (f *fakeReports) Create(_ context.Context, userID string, r *models.Report) (*models.Report, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created, f.createdBy = r, userID
	c := *r
	c.ID = "r1"
	c.UserID = userID
	c.Status = common.StatusPending
	c.EstimatedCost = r.Category.EstimatedCost()
	return &c, nil
}

func (f *fakeReports) List(_ context.Context, filter models.ReportFilter) ([]*models.Report, error) {
	f.filter = filter
	return []*models.Report{{ID: "r1", Title: "Leak", Status: common.StatusPending}}, nil
}

func (f *fakeReports) Update(_ context.Context, _ string, id string, u models.ReportUpdate) (*models.Report, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.update = u
	r := &models.Report{ID: id, Title: "Leak", Status: common.StatusPending}
	if u.Status != nil {
		r.Status = *u.Status
	}
	if u.Title != nil {
		r.Title = *u.Title
	}
	return r, nil
}

func (f *fakeReports) Delete(_ context.Context, _ string, id string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = id
	return nil
}

func (f *fakeReports) Upvote(context.Context, string, string) (int64, error) {
	if f.upvoteErr != nil {
		return 0, f.upvoteErr
	}
	return 3, nil
}

func (f *fakeReports) Upvoted(context.Context, string) ([]string, error) {
	return []string{"r1"}, nil
}

type fakeAudit struct{ limit int }

func (f *fakeAudit) List(_ context.Context, limit int) ([]*models.AuditLog, error) {
	f.limit = limit
	return []*models.AuditLog{{ID: "a1", Action: common.AuditDeleted, Category: common.AuditAdminAction}}, nil
}

type harness struct {
	server  *GRPCServer
	users   *fakeUsers
	reports *fakeReports
	audit   *fakeAudit
	conn    *grpc.ClientConn
	client  *rpc.ReportServiceClient
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{users: &fakeUsers{}, reports: &fakeReports{}, audit: &fakeAudit{}}
	h.server = NewGRPCServer("bufnet", logging.Discard(), h.users, h.reports, h.audit, testSecret)

	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = h.server.serve(ctx, lis)
	}()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(rpc.CodecName)),
	)
	require.NoError(t, err)
	h.conn = conn
	h.client = rpc.NewReportServiceClient(conn)

	t.Cleanup(func() {
		_ = conn.Close()
		cancel()
		<-done
	})
	return h
}

func token(t *testing.T, userID string, role common.Role, validity time.Duration) string {
	t.Helper()
	tok, err := auth.GenerateToken(userID, role, []byte(testSecret), validity)
	require.NoError(t, err)
	return tok
}

func withToken(tok string) context.Context {
	return metadata.AppendToOutgoingContext(context.Background(), common.AccessTokenHeaderName, tok)
}

func citizenCtx(t *testing.T) context.Context {
	return withToken(token(t, "u1", common.RoleUser, time.Hour))
}

func adminCtx(t *testing.T) context.Context {
	return withToken(token(t, "a1", common.RoleAdmin, time.Hour))
}
