package offline

import (
	"context"
	"strconv"
	"sync"

	"github.com/citycare/citycare/internal/logging"
)

// Listener is called after a connectivity transition with the new state.
type Listener func(ctx context.Context, offline bool)

// Controller is the single source of truth for "am I offline". The flag is
// persisted so a restart resumes in the same mode.
type Controller struct {
	kv     KV
	logger logging.Logger

	mu        sync.RWMutex
	offline   bool
	listeners []Listener
}

// NewController restores the persisted flag. A missing or unreadable flag
// starts the client online.
func NewController(ctx context.Context, kv KV, logger logging.Logger) *Controller {
	c := &Controller{kv: kv, logger: logger.With("module", "offline.connectivity")}

	raw, err := kv.Get(ctx, KeyOfflineMode)
	if err != nil {
		c.logger.Warn(ctx, "cannot read connectivity flag, starting online", "error", err)
		return c
	}
	if len(raw) == 0 {
		return c
	}

	v, err := strconv.ParseBool(string(raw))
	if err != nil {
		c.logger.Warn(ctx, "invalid connectivity flag, starting online", "value", string(raw))
		return c
	}
	c.offline = v
	return c
}

func (c *Controller) Offline() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.offline
}

// Subscribe registers fn for every subsequent transition.
func (c *Controller) Subscribe(fn Listener) {
	c.mu.Lock()
	c.listeners = append(c.listeners, fn)
	c.mu.Unlock()
}

// SetOffline persists the flag before returning and notifies listeners when
// the value actually changes. A persistence failure is logged; the in-memory
// state changes regardless.
func (c *Controller) SetOffline(ctx context.Context, offline bool) {
	c.mu.Lock()
	changed := c.offline != offline
	c.offline = offline
	if err := c.kv.Set(ctx, KeyOfflineMode, []byte(strconv.FormatBool(offline))); err != nil {
		c.logger.Error(ctx, "failed to persist connectivity flag", "offline", offline, "error", err)
	}
	listeners := append([]Listener(nil), c.listeners...)
	c.mu.Unlock()

	if !changed {
		return
	}

	c.logger.Info(ctx, "connectivity changed", "offline", offline)
	for _, fn := range listeners {
		fn(ctx, offline)
	}
}
