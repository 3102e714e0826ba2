package cli

import (
	"bufio"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/citycare/citycare/internal/client/models"
	"github.com/citycare/citycare/internal/client/services"
	"github.com/citycare/citycare/internal/common"
	"github.com/citycare/citycare/internal/logging"
)

// stubInputs feeds answers to getSimpleText in order and returns password
// from getPassword.
func stubInputs(t *testing.T, password []byte, answers ...string) {
	t.Helper()
	origST, origGP, origML := getSimpleText, getPassword, getMultiline
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if len(answers) == 0 {
			return "", io.EOF
		}
		a := answers[0]
		answers = answers[1:]
		return a, nil
	}
	getPassword = func(_ io.Writer) ([]byte, error) { return append([]byte(nil), password...), nil }
	getMultiline = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) { return "multi\nline", nil }
	t.Cleanup(func() {
		getSimpleText, getPassword, getMultiline = origST, origGP, origML
	})
}

type fakeAuth struct {
	regArgs   [3]string
	regErr    error
	loginUser *models.User
	loginErr  error
	loginArgs [2]string
	logoutErr error
	loggedOut bool
	restored  *models.User
}

func (f *fakeAuth) Register(_ context.Context, email, password, name string) error {
	f.regArgs = [3]string{email, password, name}
	return f.regErr
}
func (f *fakeAuth) Login(_ context.Context, email, password string) (*models.User, error) {
	f.loginArgs = [2]string{email, password}
	return f.loginUser, f.loginErr
}
func (f *fakeAuth) Logout(context.Context) error {
	f.loggedOut = true
	return f.logoutErr
}
func (f *fakeAuth) Restore(context.Context) (*models.User, error) {
	if f.restored == nil {
		return nil, io.EOF
	}
	return f.restored, nil
}
func (f *fakeAuth) CurrentUser() *models.User                      { return f.loginUser }
func (f *fakeAuth) TokensRefreshed(context.Context, string, string) {}
func (f *fakeAuth) Ping(context.Context) error                     { return nil }
func (f *fakeAuth) Close(context.Context) error                    { return nil }

type fakeReports struct {
	reports    []models.ServerReport
	refreshes  int
	refreshErr error

	submitted  []models.ReportDraft
	submitRes  services.SubmitResult
	submitErr  error
	upvoteRes  services.UpvoteResult
	upvoteErr  error
	updates    map[string]models.ReportUpdate
	updateErr  error
	deleted    []string
	pending    []models.QueuedReport
	synced     int
	syncRet    []models.ServerReport
	statusReqs []string
	statusErr  error
}

func (f *fakeReports) Refresh(context.Context) error {
	f.refreshes++
	return f.refreshErr
}
func (f *fakeReports) Reports() []models.ServerReport { return f.reports }
func (f *fakeReports) Get(id string) (models.ServerReport, bool) {
	for _, r := range f.reports {
		if r.ID == id {
			return r, true
		}
	}
	return models.ServerReport{}, false
}
func (f *fakeReports) Merge(reports ...models.ServerReport) {
	f.reports = append(f.reports, reports...)
}
func (f *fakeReports) TotalResolved() int {
	n := 0
	for _, r := range f.reports {
		if r.Status == common.StatusResolved {
			n++
		}
	}
	return n
}
func (f *fakeReports) Submit(_ context.Context, d models.ReportDraft) (services.SubmitResult, error) {
	f.submitted = append(f.submitted, d)
	return f.submitRes, f.submitErr
}
func (f *fakeReports) Upvote(context.Context, string) (services.UpvoteResult, error) {
	return f.upvoteRes, f.upvoteErr
}
func (f *fakeReports) Update(_ context.Context, id string, u models.ReportUpdate) (*models.ServerReport, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	if f.updates == nil {
		f.updates = map[string]models.ReportUpdate{}
	}
	f.updates[id] = u
	r := models.ServerReport{ID: id}
	if u.Title != nil {
		r.Title = *u.Title
	}
	if u.Priority != nil {
		r.Priority = *u.Priority
	}
	if u.Category != nil {
		r.Category = *u.Category
		r.EstimatedCost = u.Category.EstimatedCost()
	}
	if u.EstimatedCost != nil {
		r.EstimatedCost = *u.EstimatedCost
	}
	return &r, nil
}
func (f *fakeReports) Delete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}
func (f *fakeReports) Pending(context.Context) ([]models.QueuedReport, error) { return f.pending, nil }
func (f *fakeReports) Sync(context.Context) ([]models.ServerReport, error) {
	f.synced++
	return f.syncRet, nil
}
func (f *fakeReports) RequestStatusChange(_ context.Context, id string, st common.Status) error {
	f.statusReqs = append(f.statusReqs, id+"="+string(st))
	return f.statusErr
}
func (f *fakeReports) ServeStatusChanges(ctx context.Context) { <-ctx.Done() }

type fakeAdmin struct {
	users    []models.User
	roleArgs [2]string
	limit    int
}

func (f *fakeAdmin) Users(context.Context) ([]models.User, error) { return f.users, nil }
func (f *fakeAdmin) SetRole(_ context.Context, id string, role common.Role) error {
	f.roleArgs = [2]string{id, string(role)}
	return nil
}
func (f *fakeAdmin) AuditLog(_ context.Context, limit int) ([]models.AuditLog, error) {
	f.limit = limit
	return []models.AuditLog{{Action: common.AuditStatusChange, Actor: "admin@city.test", TargetTitle: "Leak", Category: common.AuditAdminAction}}, nil
}

type fakeConn struct {
	offline bool
	sets    []bool
}

func (c *fakeConn) Offline() bool { return c.offline }
func (c *fakeConn) SetOffline(_ context.Context, offline bool) {
	c.offline = offline
	c.sets = append(c.sets, offline)
}

type testApp struct {
	*App
	auth    *fakeAuth
	reports *fakeReports
	admin   *fakeAdmin
	conn    *fakeConn
	out     *[]string
}

func newTestApp(t *testing.T, user *models.User) *testApp {
	t.Helper()
	ta := &testApp{
		auth:    &fakeAuth{},
		reports: &fakeReports{},
		admin:   &fakeAdmin{},
		conn:    &fakeConn{},
		out:     captureOutput(t),
	}
	ta.App = &App{
		logger:        logging.Discard(),
		authService:   ta.auth,
		reportService: ta.reports,
		adminService:  ta.admin,
		conn:          ta.conn,
		user:          user,
		reader:        bufio.NewReader(strings.NewReader("")),
	}
	return ta
}

func (ta *testApp) output() string {
	return strings.Join(*ta.out, "\n")
}

func citizen() *models.User {
	return &models.User{ID: "u1", Email: "ann@city.test", Role: common.RoleUser}
}

func admin() *models.User {
	return &models.User{ID: "a1", Email: "admin@city.test", Role: common.RoleAdmin}
}
