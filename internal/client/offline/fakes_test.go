package offline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/citycare/citycare/internal/client/client"
	"github.com/citycare/citycare/internal/client/models"
	"github.com/citycare/citycare/internal/common"
)

type memKV struct {
	mu        sync.Mutex
	data      map[string][]byte
	getErr    error
	setErr    error
	removeErr error
}

func newMemKV() *memKV {
	return &memKV{data: map[string][]byte{}}
}

func (m *memKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (m *memKV) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *memKV) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.removeErr != nil {
		return m.removeErr
	}
	delete(m.data, key)
	return nil
}

func (m *memKV) raw(key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return string(m.data[key])
}

func (m *memKV) fail(get, set, remove error) {
	m.mu.Lock()
	m.getErr, m.setErr, m.removeErr = get, set, remove
	m.mu.Unlock()
}

// fakeRepo is an idempotent report server keyed by ClientRef.
type fakeRepo struct {
	mu       sync.Mutex
	byRef    map[string]models.ServerReport
	calls    []string
	seq      int
	inflight atomic.Int32
	maxSeen  atomic.Int32

	// hook runs before a create is applied; a non-nil error rejects it.
	hook func(ctx context.Context, draft models.ReportDraft) error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byRef: map[string]models.ServerReport{}}
}

func (f *fakeRepo) Create(ctx context.Context, draft models.ReportDraft) (*models.ServerReport, error) {
	n := f.inflight.Add(1)
	defer f.inflight.Add(-1)
	for {
		m := f.maxSeen.Load()
		if n <= m || f.maxSeen.CompareAndSwap(m, n) {
			break
		}
	}

	f.mu.Lock()
	f.calls = append(f.calls, draft.ClientRef)
	hook := f.hook
	f.mu.Unlock()

	if hook != nil {
		if err := hook(ctx, draft); err != nil {
			return nil, err
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.byRef[draft.ClientRef]; ok {
		return &r, nil
	}
	f.seq++
	r := models.ServerReport{
		ID:          fmt.Sprintf("srv-%d", f.seq),
		ClientRef:   draft.ClientRef,
		Title:       draft.Title,
		Category:    draft.Category,
		Priority:    draft.Priority,
		Coordinates: draft.Coordinates,
		Status:      common.StatusPending,
		CreatedAt:   draft.CapturedAt,
	}
	f.byRef[draft.ClientRef] = r
	return &r, nil
}

func (f *fakeRepo) setHook(h func(ctx context.Context, draft models.ReportDraft) error) {
	f.mu.Lock()
	f.hook = h
	f.mu.Unlock()
}

func (f *fakeRepo) stored() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byRef)
}

func (f *fakeRepo) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

var errUnreachable = &client.RemoteError{Op: "create", Err: client.ErrUnavailable}

type notifications struct {
	mu   sync.Mutex
	got  []Notification
	sync [][]models.ServerReport
}

func (n *notifications) Notify(_ context.Context, v Notification) {
	n.mu.Lock()
	n.got = append(n.got, v)
	n.mu.Unlock()
}

func (n *notifications) synced(_ context.Context, created []models.ServerReport) {
	n.mu.Lock()
	n.sync = append(n.sync, created)
	n.mu.Unlock()
}

func (n *notifications) all() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notification(nil), n.got...)
}

func (n *notifications) syncedReports() []models.ServerReport {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []models.ServerReport
	for _, batch := range n.sync {
		out = append(out, batch...)
	}
	return out
}

func draft(title string) models.ReportDraft {
	return models.ReportDraft{
		Title:       title,
		Category:    common.CategoryPothole,
		Description: title + " description",
		Priority:    common.PriorityMedium,
		Coordinates: models.Coordinates{Lat: 56.95, Lng: 24.1},
	}
}

func sequentialIDs() func() string {
	var n atomic.Int64
	return func() string { return fmt.Sprintf("q-%d", n.Add(1)) }
}

func fixedClock() func() time.Time {
	t0 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	return func() time.Time { return t0 }
}

// blockUntilDone makes create wait for cancellation, like a server that
// never answers.
func blockUntilDone(ctx context.Context, _ models.ReportDraft) error {
	<-ctx.Done()
	return errors.Join(client.ErrUnavailable, ctx.Err())
}
