package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/citycare/citycare/internal/client/client"
	"github.com/citycare/citycare/internal/client/models"
	"github.com/citycare/citycare/internal/common"
	"github.com/citycare/citycare/internal/logging"
	"github.com/google/uuid"
)

// Queue is the offline queue as the report service uses it.
// *offline.Manager implements it.
type Queue interface {
	Enqueue(ctx context.Context, draft models.ReportDraft) (models.QueuedReport, error)
	Pending(ctx context.Context) ([]models.QueuedReport, error)
	Drain(ctx context.Context) ([]models.ServerReport, error)
}

// Connectivity reports the current mode. *offline.Controller implements it.
type Connectivity interface {
	Offline() bool
}

// SubmitResult tells where a submitted draft ended up: on the server or in
// the offline queue.
type SubmitResult struct {
	Report *models.ServerReport
	Queued *models.QueuedReport
}

// UpvoteResult carries the new counter, or AlreadyUpvoted when the user had
// voted on the report before. AlreadyUpvoted is not an error.
type UpvoteResult struct {
	Upvotes        int64
	AlreadyUpvoted bool
}

// StatusChangeRequested is emitted by presentation code that wants a report
// moved to another status. Only ServeStatusChanges performs the mutation;
// the outcome is sent on Reply.
type StatusChangeRequested struct {
	ReportID string
	Status   common.Status
	Reply    chan<- error
}

// ReportService keeps the in-memory report collection in step with the
// server and routes submissions through the offline queue when needed.
type ReportService interface {
	Refresh(ctx context.Context) error
	Reports() []models.ServerReport
	Get(id string) (models.ServerReport, bool)
	Merge(reports ...models.ServerReport)
	TotalResolved() int

	Submit(ctx context.Context, draft models.ReportDraft) (SubmitResult, error)
	Upvote(ctx context.Context, id string) (UpvoteResult, error)
	Update(ctx context.Context, id string, update models.ReportUpdate) (*models.ServerReport, error)
	Delete(ctx context.Context, id string) error

	Pending(ctx context.Context) ([]models.QueuedReport, error)
	Sync(ctx context.Context) ([]models.ServerReport, error)

	RequestStatusChange(ctx context.Context, id string, status common.Status) error
	ServeStatusChanges(ctx context.Context)
}

type reportService struct {
	client client.Client
	queue  Queue
	conn   Connectivity
	logger logging.Logger
	now    func() time.Time

	mu      sync.RWMutex
	reports []models.ServerReport
	upvoted map[string]struct{}

	events chan StatusChangeRequested
}

func NewReportService(c client.Client, queue Queue, conn Connectivity, logger logging.Logger) ReportService {
	return &reportService{
		client:  c,
		queue:   queue,
		conn:    conn,
		logger:  logger.With("module", "reports"),
		now:     time.Now,
		upvoted: map[string]struct{}{},
		events:  make(chan StatusChangeRequested),
	}
}

// Refresh replaces the collection with the server's list and reloads the
// ids the signed-in user already upvoted.
func (s *reportService) Refresh(ctx context.Context) error {
	if s.conn.Offline() {
		return fmt.Errorf("refresh: %w", client.ErrUnavailable)
	}

	reports, err := s.client.List(ctx, models.ReportFilter{})
	if err != nil {
		return err
	}

	upvoted, err := s.client.Upvoted(ctx)
	if err != nil && !errors.Is(err, client.ErrUnauthorized) {
		return err
	}

	s.mu.Lock()
	s.reports = nil
	s.upvoted = make(map[string]struct{}, len(upvoted))
	for _, id := range upvoted {
		s.upvoted[id] = struct{}{}
	}
	s.mu.Unlock()

	s.Merge(reports...)
	return nil
}

// Reports returns a copy of the collection, newest first.
func (s *reportService) Reports() []models.ServerReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.reports)
}

func (s *reportService) Get(id string) (models.ServerReport, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := slices.IndexFunc(s.reports, func(r models.ServerReport) bool { return r.ID == id })
	if i < 0 {
		return models.ServerReport{}, false
	}
	return s.reports[i], true
}

// Merge inserts reports into the collection, replacing any with the same ID.
func (s *reportService) Merge(reports ...models.ServerReport) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range reports {
		i := slices.IndexFunc(s.reports, func(x models.ServerReport) bool { return x.ID == r.ID })
		if i >= 0 {
			s.reports[i] = r
			continue
		}
		s.reports = append(s.reports, r)
	}

	slices.SortStableFunc(s.reports, func(a, b models.ServerReport) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}

func (s *reportService) TotalResolved() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, r := range s.reports {
		if r.Status == common.StatusResolved {
			n++
		}
	}
	return n
}

// Submit validates draft and creates it on the server, or queues it when the
// client is offline or the server turns out to be unreachable.
func (s *reportService) Submit(ctx context.Context, draft models.ReportDraft) (SubmitResult, error) {
	if err := draft.Validate(); err != nil {
		return SubmitResult{}, err
	}

	if s.conn.Offline() {
		return s.enqueue(ctx, draft)
	}

	draft.ClientRef = uuid.NewString()
	if draft.CapturedAt.IsZero() {
		draft.CapturedAt = s.now().UTC()
	}

	r, err := s.client.Create(ctx, draft)
	if errors.Is(err, client.ErrUnavailable) {
		s.logger.Warn(ctx, "server unreachable, queueing report", "title", draft.Title)
		return s.enqueue(ctx, draft)
	}
	if err != nil {
		return SubmitResult{}, err
	}

	s.Merge(*r)
	return SubmitResult{Report: r}, nil
}

func (s *reportService) enqueue(ctx context.Context, draft models.ReportDraft) (SubmitResult, error) {
	q, err := s.queue.Enqueue(ctx, draft)
	if err != nil {
		return SubmitResult{}, err
	}
	return SubmitResult{Queued: &q}, nil
}

func (s *reportService) Upvote(ctx context.Context, id string) (UpvoteResult, error) {
	s.mu.RLock()
	_, voted := s.upvoted[id]
	s.mu.RUnlock()
	if voted {
		return UpvoteResult{AlreadyUpvoted: true}, nil
	}

	n, err := s.client.Upvote(ctx, id)
	if errors.Is(err, client.ErrAlreadyUpvoted) {
		s.markUpvoted(id, -1)
		return UpvoteResult{AlreadyUpvoted: true}, nil
	}
	if err != nil {
		return UpvoteResult{}, err
	}

	s.markUpvoted(id, n)
	return UpvoteResult{Upvotes: n}, nil
}

func (s *reportService) markUpvoted(id string, upvotes int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upvoted[id] = struct{}{}
	if upvotes < 0 {
		return
	}
	for i := range s.reports {
		if s.reports[i].ID == id {
			s.reports[i].Upvotes = upvotes
		}
	}
}

func (s *reportService) Update(ctx context.Context, id string, update models.ReportUpdate) (*models.ServerReport, error) {
	if update.Empty() {
		return nil, fmt.Errorf("%w: nothing to update", common.ErrorValidation)
	}

	r, err := s.client.Update(ctx, id, update)
	if err != nil {
		return nil, err
	}
	s.Merge(*r)
	return r, nil
}

func (s *reportService) Delete(ctx context.Context, id string) error {
	if err := s.client.Delete(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	s.reports = slices.DeleteFunc(s.reports, func(r models.ServerReport) bool { return r.ID == id })
	s.mu.Unlock()
	return nil
}

func (s *reportService) Pending(ctx context.Context) ([]models.QueuedReport, error) {
	return s.queue.Pending(ctx)
}

// Sync drains the offline queue now and merges whatever was created.
func (s *reportService) Sync(ctx context.Context) ([]models.ServerReport, error) {
	created, err := s.queue.Drain(ctx)
	s.Merge(created...)
	return created, err
}

// RequestStatusChange emits a StatusChangeRequested event and waits for
// ServeStatusChanges to apply it.
func (s *reportService) RequestStatusChange(ctx context.Context, id string, status common.Status) error {
	if !status.Valid() {
		return fmt.Errorf("%w: unknown status %q", common.ErrorValidation, status)
	}

	reply := make(chan error, 1)
	select {
	case s.events <- StatusChangeRequested{ReportID: id, Status: status, Reply: reply}:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ServeStatusChanges applies status change events until ctx is done.
func (s *reportService) ServeStatusChanges(ctx context.Context) {
	for {
		select {
		case ev := <-s.events:
			st := ev.Status
			_, err := s.Update(ctx, ev.ReportID, models.ReportUpdate{Status: &st})
			if err != nil {
				s.logger.Warn(ctx, "status change failed", "id", ev.ReportID, "status", st, "error", err)
			}
			if ev.Reply != nil {
				ev.Reply <- err
			}
		case <-ctx.Done():
			return
		}
	}
}
