package offline

import (
	"context"
	"time"

	"github.com/citycare/citycare/internal/logging"
)

// Prober checks whether the report server is reachable.
type Prober interface {
	Ping(ctx context.Context) error
}

const probeTimeout = 3 * time.Second

// Watch probes p every interval and flips c accordingly until ctx is done.
// Manual toggling keeps working alongside it; the next probe wins.
func Watch(ctx context.Context, c *Controller, p Prober, interval time.Duration, logger logging.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			probe(ctx, c, p, logger)
		case <-ctx.Done():
			return
		}
	}
}

func probe(ctx context.Context, c *Controller, p Prober, logger logging.Logger) {
	pctx, cancel := context.WithTimeout(ctx, probeTimeout)
	err := p.Ping(pctx)
	cancel()

	switch {
	case err != nil && !c.Offline():
		logger.Warn(ctx, "server unreachable, switching to offline mode", "error", err)
		c.SetOffline(ctx, true)
	case err == nil && c.Offline():
		c.SetOffline(ctx, false)
	}
}
