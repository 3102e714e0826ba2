package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/citycare/citycare/internal/common"
	"github.com/citycare/citycare/internal/dbx"
	"github.com/citycare/citycare/internal/logging"
	"github.com/citycare/citycare/internal/server/config"
	"github.com/citycare/citycare/internal/server/models"
	auditrepo "github.com/citycare/citycare/internal/server/repositories/audit"
	refreshtokensrepo "github.com/citycare/citycare/internal/server/repositories/refreshtokens"
	reportsrepo "github.com/citycare/citycare/internal/server/repositories/reports"
	usersrepo "github.com/citycare/citycare/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:                    "k",
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: 2 * time.Hour,
		AdminEmails:                  []string{"admin@city.test"},
	}
}

type fakeUsersRepo struct {
	byID      map[string]*models.User
	createErr error
	getErr    error
	roles     map[string]common.Role
}

func newFakeUsersRepo(users ...*models.User) *fakeUsersRepo {
	f := &fakeUsersRepo{byID: map[string]*models.User{}, roles: map[string]common.Role{}}
	for _, u := range users {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	c := *u
	c.ID = "u" + string(rune('0'+len(f.byID)+1))
	c.CreatedAt = time.Now()
	f.byID[c.ID] = &c
	return &c, nil
}

func (f *fakeUsersRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) List(context.Context) ([]*models.User, error) {
	var out []*models.User
	for _, u := range f.byID {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeUsersRepo) SetRole(_ context.Context, id string, role common.Role) error {
	u, ok := f.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	f.roles[id] = role
	u.Role = role
	return nil
}

type fakeRefreshRepo struct {
	tokens    map[string]*models.RefreshToken
	createErr error
	deleted   []string
	purgedAt  time.Time
}

func newFakeRefreshRepo() *fakeRefreshRepo {
	return &fakeRefreshRepo{tokens: map[string]*models.RefreshToken{}}
}

func (f *fakeRefreshRepo) Create(_ context.Context, userID, token string, expiresAt time.Time) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.tokens[token] = &models.RefreshToken{UserID: userID, Token: token, Expires: expiresAt}
	return nil
}

func (f *fakeRefreshRepo) Find(_ context.Context, token string) (*models.RefreshToken, error) {
	if t, ok := f.tokens[token]; ok {
		return t, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeRefreshRepo) Delete(_ context.Context, token string) error {
	f.deleted = append(f.deleted, token)
	delete(f.tokens, token)
	return nil
}

func (f *fakeRefreshRepo) DeleteExpired(_ context.Context, at time.Time) (int64, error) {
	f.purgedAt = at
	var n int64
	for k, t := range f.tokens {
		if t.Expires.Before(at) {
			delete(f.tokens, k)
			n++
		}
	}
	return n, nil
}

type fakeReportsRepo struct {
	byID     map[string]*models.Report
	votes    map[string]map[string]bool
	created  []*models.Report
	listArgs models.ReportFilter
	err      error
}

func newFakeReportsRepo(reports ...*models.Report) *fakeReportsRepo {
	f := &fakeReportsRepo{byID: map[string]*models.Report{}, votes: map[string]map[string]bool{}}
	for _, r := range reports {
		f.byID[r.ID] = r
	}
	return f
}

func (f *fakeReportsRepo) Create(_ context.Context, r *models.Report) (*models.Report, bool, error) {
	if f.err != nil {
		return nil, false, f.err
	}
	c := *r
	c.ID = "r" + string(rune('0'+len(f.byID)+1))
	f.byID[c.ID] = &c
	f.created = append(f.created, &c)
	return &c, true, nil
}

func (f *fakeReportsRepo) Get(_ context.Context, id string) (*models.Report, error) {
	if r, ok := f.byID[id]; ok {
		c := *r
		return &c, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeReportsRepo) GetByClientRef(_ context.Context, userID, ref string) (*models.Report, error) {
	for _, r := range f.byID {
		if r.UserID == userID && r.ClientRef == ref {
			return r, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeReportsRepo) List(_ context.Context, filter models.ReportFilter) ([]*models.Report, error) {
	f.listArgs = filter
	if f.err != nil {
		return nil, f.err
	}
	out := []*models.Report{}
	for _, r := range f.byID {
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeReportsRepo) Update(_ context.Context, id string, u models.ReportUpdate) (*models.Report, error) {
	r, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if u.Title != nil {
		r.Title = *u.Title
	}
	if u.Description != nil {
		r.Description = *u.Description
	}
	if u.Status != nil {
		r.Status = *u.Status
	}
	if u.Priority != nil {
		r.Priority = *u.Priority
	}
	if u.Category != nil {
		r.Category = *u.Category
	}
	if u.EstimatedCost != nil {
		r.EstimatedCost = *u.EstimatedCost
	}
	c := *r
	return &c, nil
}

func (f *fakeReportsRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeReportsRepo) AddUpvote(_ context.Context, reportID, userID string) error {
	if f.votes[reportID] == nil {
		f.votes[reportID] = map[string]bool{}
	}
	if f.votes[reportID][userID] {
		return common.ErrAlreadyUpvoted
	}
	f.votes[reportID][userID] = true
	return nil
}

func (f *fakeReportsRepo) IncrementUpvotes(_ context.Context, reportID string) (int64, error) {
	r, ok := f.byID[reportID]
	if !ok {
		return 0, common.ErrorNotFound
	}
	r.Upvotes++
	return r.Upvotes, nil
}

func (f *fakeReportsRepo) UpvotedBy(_ context.Context, userID string) ([]string, error) {
	var ids []string
	for id, voters := range f.votes {
		if voters[userID] {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

type fakeAuditRepo struct {
	mu        sync.Mutex
	entries   []*models.AuditLog
	insertErr error
	trimmed   []int
	listLimit int
}

func (f *fakeAuditRepo) Insert(_ context.Context, e *models.AuditLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	f.entries = append(f.entries, e)
	return nil
}

func (f *fakeAuditRepo) List(_ context.Context, limit int) ([]*models.AuditLog, error) {
	f.listLimit = limit
	return f.entries, nil
}

func (f *fakeAuditRepo) Trim(_ context.Context, keep int) (int64, error) {
	f.trimmed = append(f.trimmed, keep)
	return 0, nil
}

func (f *fakeAuditRepo) actions() []common.AuditAction {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []common.AuditAction
	for _, e := range f.entries {
		out = append(out, e.Action)
	}
	return out
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	r *fakeRefreshRepo
	p *fakeReportsRepo
	a *fakeAuditRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		u: newFakeUsersRepo(),
		r: newFakeRefreshRepo(),
		p: newFakeReportsRepo(),
		a: &fakeAuditRepo{},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error        { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) usersrepo.Repository                 { return m.u }
func (m *fakeRepoManager) RefreshTokens(dbx.DBTX) refreshtokensrepo.Repository { return m.r }
func (m *fakeRepoManager) Reports(dbx.DBTX) reportsrepo.Repository             { return m.p }
func (m *fakeRepoManager) Audit(dbx.DBTX) auditrepo.Repository                 { return m.a }

type fakeImages struct {
	url string
	err error
	got string
}

func (f *fakeImages) Resolve(_ context.Context, ref string) (string, error) {
	f.got = ref
	if f.err != nil {
		return "", f.err
	}
	if f.url != "" {
		return f.url, nil
	}
	return ref, nil
}

func newServices(t *testing.T) (*UserService, *ReportService, *fakeRepoManager, sqlmock.Sqlmock, *fakeImages) {
	t.Helper()
	db, mock := newSQLMockDB(t)
	rm := newFakeRepoManager()
	img := &fakeImages{}
	log := logging.Discard()
	audit := NewAuditService(db, rm, log)
	return NewUserService(db, rm, audit, testConfig(), log), NewReportService(db, rm, img, audit, log), rm, mock, img
}
