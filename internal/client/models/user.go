package models

import (
	"time"

	"github.com/citycare/citycare/internal/common"
)

type User struct {
	ID          string
	Email       string
	DisplayName string
	Role        common.Role
	CreatedAt   time.Time
}

func (u User) IsAdmin() bool { return u.Role == common.RoleAdmin }

// Session is the signed-in state persisted locally between runs.
type Session struct {
	User         User   `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

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
