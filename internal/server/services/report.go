package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/citycare/citycare/internal/common"
	"github.com/citycare/citycare/internal/dbx"
	"github.com/citycare/citycare/internal/logging"
	"github.com/citycare/citycare/internal/server/models"
	"github.com/citycare/citycare/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// MaxListLimit caps a single ListReports page.
const MaxListLimit = 500

// ImageResolver turns a submitted image reference into the URL stored on
// the report.
type ImageResolver interface {
	Resolve(ctx context.Context, ref string) (string, error)
}

// ReportService implements report submission, triage and upvoting.
type ReportService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	images      ImageResolver
	audit       *AuditService
	logger      logging.Logger
}

func NewReportService(db *sql.DB, m repomanager.RepositoryManager, images ImageResolver, audit *AuditService, logger logging.Logger) *ReportService {
	return &ReportService{
		db:          db,
		repomanager: m,
		images:      images,
		audit:       audit,
		logger:      logger.With("module", "reports"),
	}
}

// checkID rejects ids that cannot name a stored report before they reach
// the database.
func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: report %q", common.ErrorNotFound, id)
	}
	return nil
}

func validateReport(r *models.Report) error {
	r.Title = strings.TrimSpace(r.Title)
	switch {
	case r.Title == "":
		return fmt.Errorf("%w: title is required", common.ErrorValidation)
	case utf8.RuneCountInString(r.Title) > common.MaxTitleLength:
		return fmt.Errorf("%w: title longer than %d characters", common.ErrorValidation, common.MaxTitleLength)
	case !r.Category.Valid():
		return fmt.Errorf("%w: unknown category %q", common.ErrorValidation, r.Category)
	case !r.Priority.Valid():
		return fmt.Errorf("%w: unknown priority %q", common.ErrorValidation, r.Priority)
	case r.Lat < -90 || r.Lat > 90 || r.Lng < -180 || r.Lng > 180:
		return fmt.Errorf("%w: coordinates out of range (%f, %f)", common.ErrorValidation, r.Lat, r.Lng)
	}
	return nil
}

// Create stores r for userID. A replay with a ClientRef the user already
// used returns the stored report unchanged and is not audited again.
func (s *ReportService) Create(ctx context.Context, userID string, r *models.Report) (*models.Report, error) {
	if err := validateReport(r); err != nil {
		return nil, err
	}

	repo := s.repomanager.Reports(s.db)
	if r.ClientRef != "" {
		existing, err := repo.GetByClientRef(ctx, userID, r.ClientRef)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorInternal
		}
	}

	url, err := s.images.Resolve(ctx, r.ImageURL)
	if err != nil {
		if errors.Is(err, common.ErrorValidation) {
			return nil, err
		}
		s.logger.Error(ctx, "image upload failed", "error", err)
		return nil, common.ErrorInternal
	}

	r.UserID = userID
	r.ImageURL = url
	r.Status = common.StatusPending
	r.EstimatedCost = r.Category.EstimatedCost()

	stored, created, err := repo.Create(ctx, r)
	if err != nil {
		s.logger.Error(ctx, "report insert failed", "error", err)
		return nil, common.ErrorInternal
	}
	if created {
		s.audit.Record(ctx, &models.AuditLog{
			Action:      common.AuditReported,
			Actor:       s.actor(ctx, userID),
			TargetID:    stored.ID,
			TargetTitle: stored.Title,
			Details:     string(stored.Category),
			Category:    common.AuditUserSubmission,
		})
	}
	return stored, nil
}

func (s *ReportService) List(ctx context.Context, filter models.ReportFilter) ([]*models.Report, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", common.ErrorValidation, filter.Status)
	}
	if filter.Category != "" && !filter.Category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", common.ErrorValidation, filter.Category)
	}
	if filter.Limit <= 0 || filter.Limit > MaxListLimit {
		filter.Limit = MaxListLimit
	}
	reports, err := s.repomanager.Reports(s.db).List(ctx, filter)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return reports, nil
}

// Update applies an administrative edit. A status change is audited as
// STATUS_CHANGE, anything else as EDITED_REPORT. Moving a report to another
// category without an explicit cost resets the cost to the new category's
// estimate.
func (s *ReportService) Update(ctx context.Context, actorID, id string, u models.ReportUpdate) (*models.Report, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	if u.Empty() {
		return nil, fmt.Errorf("%w: nothing to update", common.ErrorValidation)
	}
	if u.Title != nil {
		title := strings.TrimSpace(*u.Title)
		u.Title = &title
	}
	switch {
	case u.Title != nil && *u.Title == "":
		return nil, fmt.Errorf("%w: title is required", common.ErrorValidation)
	case u.Title != nil && utf8.RuneCountInString(*u.Title) > common.MaxTitleLength:
		return nil, fmt.Errorf("%w: title longer than %d characters", common.ErrorValidation, common.MaxTitleLength)
	case u.Status != nil && !u.Status.Valid():
		return nil, fmt.Errorf("%w: unknown status %q", common.ErrorValidation, *u.Status)
	case u.Priority != nil && !u.Priority.Valid():
		return nil, fmt.Errorf("%w: unknown priority %q", common.ErrorValidation, *u.Priority)
	case u.Category != nil && !u.Category.Valid():
		return nil, fmt.Errorf("%w: unknown category %q", common.ErrorValidation, *u.Category)
	case u.EstimatedCost != nil && *u.EstimatedCost < 0:
		return nil, fmt.Errorf("%w: estimated cost must not be negative", common.ErrorValidation)
	}

	repo := s.repomanager.Reports(s.db)
	before, err := repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Category != nil && *u.Category != before.Category && u.EstimatedCost == nil {
		cost := u.Category.EstimatedCost()
		u.EstimatedCost = &cost
	}
	after, err := repo.Update(ctx, id, u)
	if err != nil {
		return nil, err
	}

	entry := &models.AuditLog{
		Action:      common.AuditEditedReport,
		Actor:       s.actor(ctx, actorID),
		TargetID:    after.ID,
		TargetTitle: after.Title,
		Details:     editDetails(before, after),
		Category:    common.AuditAdminAction,
	}
	if u.Status != nil && before.Status != after.Status {
		entry.Action = common.AuditStatusChange
		entry.Details = fmt.Sprintf("%s -> %s", before.Status, after.Status)
	}
	s.audit.Record(ctx, entry)
	return after, nil
}

func editDetails(before, after *models.Report) string {
	var parts []string
	if before.Title != after.Title {
		parts = append(parts, fmt.Sprintf("title %q -> %q", before.Title, after.Title))
	}
	if before.Description != after.Description {
		parts = append(parts, "description edited")
	}
	if before.Priority != after.Priority {
		parts = append(parts, fmt.Sprintf("priority %s -> %s", before.Priority, after.Priority))
	}
	if before.Category != after.Category {
		parts = append(parts, fmt.Sprintf("category %s -> %s", before.Category, after.Category))
	}
	if before.EstimatedCost != after.EstimatedCost {
		parts = append(parts, fmt.Sprintf("cost %.2f -> %.2f", before.EstimatedCost, after.EstimatedCost))
	}
	return strings.Join(parts, "; ")
}

func (s *ReportService) Delete(ctx context.Context, actorID, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	repo := s.repomanager.Reports(s.db)
	r, err := repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := repo.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, &models.AuditLog{
		Action:      common.AuditDeleted,
		Actor:       s.actor(ctx, actorID),
		TargetID:    r.ID,
		TargetTitle: r.Title,
		Category:    common.AuditAdminAction,
	})
	return nil
}

// Upvote records userID's vote and returns the new count. Voting twice
// yields common.ErrAlreadyUpvoted and leaves the count untouched.
func (s *ReportService) Upvote(ctx context.Context, userID, id string) (int64, error) {
	if err := checkID(id); err != nil {
		return 0, err
	}
	return dbx.InTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) (int64, error) {
		repo := s.repomanager.Reports(tx)
		if _, err := repo.Get(ctx, id); err != nil {
			return 0, err
		}
		if err := repo.AddUpvote(ctx, id, userID); err != nil {
			return 0, err
		}
		return repo.IncrementUpvotes(ctx, id)
	})
}

// Upvoted lists the ids of reports userID has voted on.
func (s *ReportService) Upvoted(ctx context.Context, userID string) ([]string, error) {
	ids, err := s.repomanager.Reports(s.db).UpvotedBy(ctx, userID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return ids, nil
}

// actor names userID in audit entries by email, falling back to the id.
func (s *ReportService) actor(ctx context.Context, userID string) string {
	u, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return userID
	}
	return u.Email
}
