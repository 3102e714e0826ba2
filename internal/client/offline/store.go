package offline

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/citycare/citycare/internal/client/models"
	"github.com/citycare/citycare/internal/logging"
)

// Keys of the persisted state.
const (
	KeyOfflineMode = "offline_mode"
	KeyQueue       = "offline_queue"
)

// KV is the durable storage boundary. Get returns a nil value for a missing
// key. kv.SQLiteRepository implements it.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

// QueueStore persists the offline queue as a JSON array whose order is the
// enqueue order.
type QueueStore struct {
	kv     KV
	logger logging.Logger
	mu     sync.Mutex
}

func NewQueueStore(kv KV, logger logging.Logger) *QueueStore {
	return &QueueStore{kv: kv, logger: logger.With("module", "offline.queue")}
}

// Load returns the queued reports in enqueue order. A queue that cannot be
// decoded is logged and treated as empty; only an unreadable store is an
// error.
func (s *QueueStore) Load(ctx context.Context) ([]models.QueuedReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *QueueStore) load(ctx context.Context) ([]models.QueuedReport, error) {
	raw, err := s.kv.Get(ctx, KeyQueue)
	if err != nil {
		return nil, &StorageError{Op: "load", Err: err}
	}
	if len(raw) == 0 {
		return []models.QueuedReport{}, nil
	}

	var items []models.QueuedReport
	if err := json.Unmarshal(raw, &items); err != nil {
		s.logger.Warn(ctx, "offline queue is corrupted, treating it as empty", "error", err, "bytes", len(raw))
		return []models.QueuedReport{}, nil
	}
	if items == nil {
		items = []models.QueuedReport{}
	}
	return items, nil
}

func (s *QueueStore) save(ctx context.Context, op string, items []models.QueuedReport) error {
	if len(items) == 0 {
		if err := s.kv.Remove(ctx, KeyQueue); err != nil {
			return &StorageError{Op: op, Err: err}
		}
		return nil
	}

	raw, err := json.Marshal(items)
	if err != nil {
		return &StorageError{Op: op, Err: err}
	}
	if err := s.kv.Set(ctx, KeyQueue, raw); err != nil {
		return &StorageError{Op: op, Err: err}
	}
	return nil
}

// Append adds q to the end of the queue.
func (s *QueueStore) Append(ctx context.Context, q models.QueuedReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load(ctx)
	if err != nil {
		return err
	}
	return s.save(ctx, "append", append(items, q))
}

// Clear drops the whole queue.
func (s *QueueStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Remove(ctx, KeyQueue); err != nil {
		return &StorageError{Op: "clear", Err: err}
	}
	return nil
}

// Remove drops the entries with the given ids and keeps everything else,
// including entries appended after the caller's snapshot was taken.
func (s *QueueStore) Remove(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load(ctx)
	if err != nil {
		return err
	}

	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	kept := items[:0]
	for _, q := range items {
		if _, ok := drop[q.ID]; !ok {
			kept = append(kept, q)
		}
	}
	return s.save(ctx, "remove", kept)
}
