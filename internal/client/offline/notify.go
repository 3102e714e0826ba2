package offline

import (
	"context"

	"github.com/citycare/citycare/internal/client/models"
)

// Notification summarizes one drain that uploaded at least one report.
type Notification struct {
	Count int `json:"count"`
}

// Notifier is the UI notification boundary.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

type NotifierFunc func(ctx context.Context, n Notification)

func (f NotifierFunc) Notify(ctx context.Context, n Notification) { f(ctx, n) }

// SyncedHandler receives the reports created by a drain that ran in the
// background, so the caller can merge them into its collection.
type SyncedHandler func(ctx context.Context, created []models.ServerReport)
