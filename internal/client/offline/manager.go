package offline

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/citycare/citycare/internal/client/client"
	"github.com/citycare/citycare/internal/client/models"
	"github.com/citycare/citycare/internal/logging"
	"github.com/google/uuid"
)

const DefaultCallTimeout = 10 * time.Second

// Repository is the part of the report server the queue flushes into.
// Errors are expected to be *client.RemoteError; anything else is wrapped
// into one.
type Repository interface {
	Create(ctx context.Context, draft models.ReportDraft) (*models.ServerReport, error)
}

type State int32

const (
	StateIdle State = iota
	StateDraining
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDraining:
		return "draining"
	default:
		return "unknown"
	}
}

type Option func(*Manager)

// WithCallTimeout bounds every create call of a drain.
func WithCallTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.callTimeout = d
		}
	}
}

func WithNotifier(n Notifier) Option {
	return func(m *Manager) { m.notifier = n }
}

func WithSyncedHandler(fn SyncedHandler) Option {
	return func(m *Manager) { m.onSynced = fn }
}

func withClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func withIDGenerator(fn func() string) Option {
	return func(m *Manager) { m.newID = fn }
}

// Manager stages reports while offline and flushes them when connectivity
// returns. At most one drain runs at a time.
type Manager struct {
	store  *QueueStore
	conn   *Controller
	repo   Repository
	logger logging.Logger

	notifier    Notifier
	onSynced    SyncedHandler
	callTimeout time.Duration
	now         func() time.Time
	newID       func() string

	// base carries values of the constructor context into background drains
	// without its cancellation.
	base context.Context

	draining  atomic.Bool
	requested atomic.Bool
	wg        sync.WaitGroup

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewManager wires the manager to conn: going online starts a background
// drain, going offline cancels the one in flight.
func NewManager(ctx context.Context, store *QueueStore, conn *Controller, repo Repository, logger logging.Logger, opts ...Option) *Manager {
	m := &Manager{
		store:       store,
		conn:        conn,
		repo:        repo,
		logger:      logger.With("module", "offline.manager"),
		callTimeout: DefaultCallTimeout,
		now:         time.Now,
		newID:       uuid.NewString,
		base:        context.WithoutCancel(ctx),
	}
	for _, o := range opts {
		o(m)
	}

	conn.Subscribe(m.onConnectivity)
	return m
}

func (m *Manager) onConnectivity(ctx context.Context, offline bool) {
	if offline {
		m.Cancel()
		return
	}
	m.requestDrain()
}

// Cancel stops the drain in flight, if any. Entries not yet confirmed stay
// queued.
func (m *Manager) Cancel() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel != nil {
		m.cancel()
	}
}

// requestDrain schedules a background drain. Requests arriving while a drain
// runs collapse into a single follow-up drain started when it finishes.
func (m *Manager) requestDrain() {
	m.requested.Store(true)
	m.kick()
}

func (m *Manager) kick() {
	if m.draining.Load() {
		return
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		for m.requested.Swap(false) {
			created, err := m.Drain(m.base)
			if err != nil {
				m.logger.Error(m.base, "background drain failed", "error", err)
			}
			if len(created) > 0 && m.onSynced != nil {
				m.onSynced(m.base, created)
			}
		}
	}()
}

// Enqueue stores draft as a new QueuedReport. A draft that already carries a
// ClientRef (a create that may have reached the server) keeps it as the
// queue ID so a replay is deduplicated; otherwise a fresh ID is minted.
// CreatedAt is the draft's capture time, or now. It never touches the
// network.
func (m *Manager) Enqueue(ctx context.Context, draft models.ReportDraft) (models.QueuedReport, error) {
	id := draft.ClientRef
	if id == "" {
		id = m.newID()
	}
	created := draft.CapturedAt
	if created.IsZero() {
		created = m.now()
	}

	q := models.QueuedReport{
		ID:          id,
		Title:       draft.Title,
		Category:    draft.Category,
		Description: draft.Description,
		Priority:    draft.Priority,
		Coordinates: draft.Coordinates,
		ImageURL:    draft.ImageURL,
		CreatedAt:   created.UTC(),
	}

	if err := m.store.Append(ctx, q); err != nil {
		return models.QueuedReport{}, err
	}

	m.logger.Info(ctx, "report queued", "id", q.ID, "title", q.Title)
	return q, nil
}

// Pending returns a snapshot of the queue; mutating it does not affect the
// stored queue.
func (m *Manager) Pending(ctx context.Context) ([]models.QueuedReport, error) {
	return m.store.Load(ctx)
}

func (m *Manager) State() State {
	if m.draining.Load() {
		return StateDraining
	}
	return StateIdle
}

// Wait blocks until background drains started so far have finished.
func (m *Manager) Wait() {
	m.wg.Wait()
}

// Drain flushes one snapshot of the queue to the repository, in enqueue
// order and one call at a time. It is a no-op returning an empty slice when
// offline or when another drain is running. Entries whose create failed stay
// queued; accepted entries are removed together once the batch is done.
// Losing connectivity stops the batch, and a result that arrives after that
// is discarded.
func (m *Manager) Drain(ctx context.Context) ([]models.ServerReport, error) {
	created := []models.ServerReport{}

	if m.conn.Offline() {
		return created, nil
	}
	if !m.draining.CompareAndSwap(false, true) {
		return created, nil
	}
	defer m.finish()

	ctx, cancel := context.WithCancel(ctx)
	m.mu.Lock()
	m.cancel = cancel
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		m.cancel = nil
		m.mu.Unlock()
		cancel()
	}()

	// connectivity may have dropped before cancel was registered
	if m.conn.Offline() {
		return created, nil
	}

	batch, err := m.store.Load(ctx)
	if err != nil {
		return created, err
	}
	if len(batch) == 0 {
		return created, nil
	}

	m.logger.Info(ctx, "draining offline queue", "pending", len(batch))

	synced := make([]string, 0, len(batch))
	failed := 0
	for i, q := range batch {
		if m.interrupted(ctx) {
			m.logger.Info(ctx, "drain interrupted", "remaining", len(batch)-i)
			break
		}

		r, err := m.create(ctx, q)
		if m.interrupted(ctx) {
			m.logger.Info(ctx, "drain interrupted, discarding in-flight result", "id", q.ID, "remaining", len(batch)-i)
			break
		}
		if err != nil {
			failed++
			m.logger.Warn(ctx, "queued report not synced, keeping it", "id", q.ID, "error", err)
			continue
		}

		created = append(created, *r)
		synced = append(synced, q.ID)
	}

	var removeErr error
	if len(synced) > 0 {
		if removeErr = m.store.Remove(context.WithoutCancel(ctx), synced...); removeErr != nil {
			m.logger.Error(ctx, "failed to remove synced reports from queue", "error", removeErr, "synced", len(synced))
		}
	}

	m.logger.Info(ctx, "drain finished", "synced", len(created), "failed", failed, "pending", len(batch)-len(created))

	if len(created) > 0 && m.notifier != nil {
		m.notifier.Notify(ctx, Notification{Count: len(created)})
	}

	return created, removeErr
}

func (m *Manager) finish() {
	m.draining.Store(false)
	if m.requested.Load() && !m.conn.Offline() {
		m.kick()
	}
}

func (m *Manager) interrupted(ctx context.Context) bool {
	return ctx.Err() != nil || m.conn.Offline()
}

func (m *Manager) create(ctx context.Context, q models.QueuedReport) (*models.ServerReport, error) {
	callCtx, cancel := context.WithTimeout(ctx, m.callTimeout)
	defer cancel()

	r, err := m.repo.Create(callCtx, q.Draft())
	if err == nil && r == nil {
		err = errors.New("empty response")
	}
	if err != nil {
		var re *client.RemoteError
		if !errors.As(err, &re) {
			err = &client.RemoteError{Op: "create", Err: err}
		}
		return nil, err
	}
	return r, nil
}
