// Package reports stores citizen reports and their upvotes in PostgreSQL.
package reports

import (
	"context"

	"github.com/citycare/citycare/internal/server/models"
)

type Repository interface {
	// Create inserts report unless the same user already stored one with
	// the same ClientRef, in which case the stored report is returned and
	// created is false.
	Create(ctx context.Context, report *models.Report) (stored *models.Report, created bool, err error)

	// Get returns common.ErrorNotFound for an unknown id.
	Get(ctx context.Context, id string) (*models.Report, error)
	GetByClientRef(ctx context.Context, userID, clientRef string) (*models.Report, error)

	// List returns matching reports, newest first.
	List(ctx context.Context, filter models.ReportFilter) ([]*models.Report, error)

	Update(ctx context.Context, id string, update models.ReportUpdate) (*models.Report, error)
	Delete(ctx context.Context, id string) error

	// AddUpvote records userID's vote on reportID. A second vote yields
	// common.ErrAlreadyUpvoted.
	AddUpvote(ctx context.Context, reportID, userID string) error
	// IncrementUpvotes bumps the counter and returns the new value.
	IncrementUpvotes(ctx context.Context, reportID string) (int64, error)
	// UpvotedBy lists the ids of reports userID voted on.
	UpvotedBy(ctx context.Context, userID string) ([]string, error)
}
