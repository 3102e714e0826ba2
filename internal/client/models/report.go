// Package models holds the client-side domain types: drafts captured by the
// user, reports waiting in the offline queue, and reports as the server
// knows them.
package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/citycare/citycare/internal/common"
)

// Coordinates is a WGS84 position.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (c Coordinates) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

func (c Coordinates) String() string {
	return fmt.Sprintf("%.5f, %.5f", c.Lat, c.Lng)
}

// ReportDraft is what the user fills in before a report exists anywhere.
// ClientRef is the idempotency key the server deduplicates creates on.
type ReportDraft struct {
	ClientRef   string
	Title       string
	Category    common.Category
	Description string
	Priority    common.Priority
	Coordinates Coordinates
	ImageURL    string
	CapturedAt  time.Time
}

// Validate checks the draft before it is submitted or queued.
func (d ReportDraft) Validate() error {
	title := strings.TrimSpace(d.Title)
	switch {
	case title == "":
		return fmt.Errorf("%w: title is required", common.ErrorValidation)
	case utf8.RuneCountInString(title) > common.MaxTitleLength:
		return fmt.Errorf("%w: title longer than %d characters", common.ErrorValidation, common.MaxTitleLength)
	case !d.Category.Valid():
		return fmt.Errorf("%w: unknown category %q", common.ErrorValidation, d.Category)
	case !d.Priority.Valid():
		return fmt.Errorf("%w: unknown priority %q", common.ErrorValidation, d.Priority)
	case !d.Coordinates.Valid():
		return fmt.Errorf("%w: coordinates out of range (%s)", common.ErrorValidation, d.Coordinates)
	}
	return nil
}

// QueuedReport is a report captured while offline. It is never modified once
// stored: it is either flushed to the server or stays queued as is.
type QueuedReport struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Category    common.Category `json:"category"`
	Description string          `json:"description"`
	Priority    common.Priority `json:"priority"`
	Coordinates Coordinates     `json:"coordinates"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Draft rebuilds the create request for q. The local ID doubles as the
// idempotency key so a replayed drain cannot duplicate the report.
func (q QueuedReport) Draft() ReportDraft {
	return ReportDraft{
		ClientRef:   q.ID,
		Title:       q.Title,
		Category:    q.Category,
		Description: q.Description,
		Priority:    q.Priority,
		Coordinates: q.Coordinates,
		ImageURL:    q.ImageURL,
		CapturedAt:  q.CreatedAt,
	}
}

// ServerReport is the canonical report accepted by the server.
type ServerReport struct {
	ID            string
	ClientRef     string
	UserID        string
	Title         string
	Category      common.Category
	Description   string
	Priority      common.Priority
	Coordinates   Coordinates
	ImageURL      string
	Status        common.Status
	Upvotes       int64
	EstimatedCost float64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ReportUpdate is an administrator's partial edit; nil fields are untouched.
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

// ReportFilter narrows List; zero values match everything.
type ReportFilter struct {
	Status   common.Status
	Category common.Category
	UserID   string
	Limit    int
}
