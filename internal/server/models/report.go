package models

import (
	"time"

	"github.com/citycare/citycare/internal/common"
)

// Report is a stored citizen report. ClientRef is the submitting client's
// idempotency key and is unique per user.
type Report struct {
	ID            string
	UserID        string
	ClientRef     string
	Title         string
	Category      common.Category
	Description   string
	Priority      common.Priority
	Lat           float64
	Lng           float64
	ImageURL      string
	Status        common.Status
	Upvotes       int64
	EstimatedCost float64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ReportFilter narrows List; zero values match everything.
type ReportFilter struct {
	Status   common.Status
	Category common.Category
	UserID   string
	Limit    int
}

// ReportUpdate is a partial administrative edit; nil fields stay as they are.
type ReportUpdate struct {
	Title         *string
	Description   *string
	Status        *common.Status
	Priority      *common.Priority
	Category      *common.Category
	EstimatedCost *float64
}

func (u ReportUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.Status == nil &&
		u.Priority == nil && u.Category == nil && u.EstimatedCost == nil
}
