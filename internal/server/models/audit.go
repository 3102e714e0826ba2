package models

import (
	"time"

	"github.com/citycare/citycare/internal/common"
)

type AuditLog struct {
	ID          string
	CreatedAt   time.Time
	Action      common.AuditAction
	Actor       string
	TargetID    string
	TargetTitle string
	Details     string
	Category    common.AuditCategory
}
