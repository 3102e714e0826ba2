package services

import (
	"context"
	"sync"

	"github.com/citycare/citycare/internal/client/client"
	"github.com/citycare/citycare/internal/client/models"
	"github.com/citycare/citycare/internal/common"
)

type fakeClient struct {
	mu sync.Mutex

	CloseErr    error
	PingErr     error
	RegisterErr error

	LoginSession *models.Session
	LoginErr     error
	LogoutErr    error
	Resumed      []*models.Session

	CreateErr  error
	Created    []models.ReportDraft
	ListRet    []models.ServerReport
	ListErr    error
	UpdateErr  error
	Updates    map[string]models.ReportUpdate
	DeleteErr  error
	Deleted    []string
	UpvoteRet  int64
	UpvoteErr  error
	UpvoteIDs  []string
	UpvotedRet []string
	UpvotedErr error

	LastRegister [3]string
	AuditLimit   int
	RoleChange   [2]string
}

func (f *fakeClient) Close() error { return f.CloseErr }
func (f *fakeClient) Ping(ctx context.Context) error { return f.PingErr }

func (f *fakeClient) Register(ctx context.Context, email, password, displayName string) (string, error) {
	f.LastRegister = [3]string{email, password, displayName}
	if f.RegisterErr != nil {
		return "", f.RegisterErr
	}
	return "user-1", nil
}

func (f *fakeClient) Login(ctx context.Context, email, password string) (*models.Session, error) {
	return f.LoginSession, f.LoginErr
}

func (f *fakeClient) Logout(ctx context.Context) error { return f.LogoutErr }

func (f *fakeClient) Resume(session *models.Session) {
	f.mu.Lock()
	f.Resumed = append(f.Resumed, session)
	f.mu.Unlock()
}

func (f *fakeClient) Tokens() (string, string) { return "", "" }

func (f *fakeClient) Create(ctx context.Context, draft models.ReportDraft) (*models.ServerReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.CreateErr != nil {
		return nil, f.CreateErr
	}
	f.Created = append(f.Created, draft)
	return &models.ServerReport{
		ID:        "srv-" + draft.ClientRef,
		ClientRef: draft.ClientRef,
		Title:     draft.Title,
		Category:  draft.Category,
		Priority:  draft.Priority,
		Status:    common.StatusPending,
		CreatedAt: draft.CapturedAt,
	}, nil
}

func (f *fakeClient) List(ctx context.Context, filter models.ReportFilter) ([]models.ServerReport, error) {
	return f.ListRet, f.ListErr
}

func (f *fakeClient) Update(ctx context.Context, id string, update models.ReportUpdate) (*models.ServerReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.UpdateErr != nil {
		return nil, f.UpdateErr
	}
	if f.Updates == nil {
		f.Updates = map[string]models.ReportUpdate{}
	}
	f.Updates[id] = update

	r := models.ServerReport{ID: id, Status: common.StatusPending}
	for _, existing := range f.ListRet {
		if existing.ID == id {
			r = existing
		}
	}
	if update.Title != nil {
		r.Title = *update.Title
	}
	if update.Description != nil {
		r.Description = *update.Description
	}
	if update.Status != nil {
		r.Status = *update.Status
	}
	if update.Priority != nil {
		r.Priority = *update.Priority
	}
	if update.EstimatedCost != nil {
		r.EstimatedCost = *update.EstimatedCost
	}
	return &r, nil
}

func (f *fakeClient) Delete(ctx context.Context, id string) error {
	f.Deleted = append(f.Deleted, id)
	return f.DeleteErr
}

func (f *fakeClient) Upvote(ctx context.Context, id string) (int64, error) {
	f.UpvoteIDs = append(f.UpvoteIDs, id)
	return f.UpvoteRet, f.UpvoteErr
}

func (f *fakeClient) Upvoted(ctx context.Context) ([]string, error) {
	return f.UpvotedRet, f.UpvotedErr
}

func (f *fakeClient) ListUsers(ctx context.Context) ([]models.User, error) { return nil, nil }

func (f *fakeClient) SetUserRole(ctx context.Context, userID string, role common.Role) error {
	f.RoleChange = [2]string{userID, string(role)}
	return nil
}

func (f *fakeClient) ListAuditLogs(ctx context.Context, limit int) ([]models.AuditLog, error) {
	f.AuditLimit = limit
	return nil, nil
}

var _ client.Client = (*fakeClient)(nil)

type fakeQueue struct {
	items    []models.QueuedReport
	err      error
	drainRet []models.ServerReport
	drainErr error
	drained  int
}

func (q *fakeQueue) Enqueue(ctx context.Context, draft models.ReportDraft) (models.QueuedReport, error) {
	if q.err != nil {
		return models.QueuedReport{}, q.err
	}
	item := models.QueuedReport{ID: "local-1", Title: draft.Title, Category: draft.Category, Priority: draft.Priority}
	q.items = append(q.items, item)
	return item, nil
}

func (q *fakeQueue) Pending(ctx context.Context) ([]models.QueuedReport, error) {
	return append([]models.QueuedReport(nil), q.items...), q.err
}

func (q *fakeQueue) Drain(ctx context.Context) ([]models.ServerReport, error) {
	q.drained++
	return q.drainRet, q.drainErr
}

type fakeConn struct{ offline bool }

func (c *fakeConn) Offline() bool { return c.offline }
