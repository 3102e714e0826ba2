package reports

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/citycare/citycare/internal/common"
	"github.com/citycare/citycare/internal/dbx"
	"github.com/citycare/citycare/internal/server/models"
)

const upvoteConstraint = "report_upvotes_report_user_key"

const reportColumns = `id, user_id, COALESCE(client_ref, ''), title, category, description, priority,
		lat, lng, image_url, status, upvotes, estimated_cost, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (*models.Report, error) {
	r := &models.Report{}
	var category, priority, status string
	err := row.Scan(&r.ID, &r.UserID, &r.ClientRef, &r.Title, &category, &r.Description, &priority,
		&r.Lat, &r.Lng, &r.ImageURL, &status, &r.Upvotes, &r.EstimatedCost, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	r.Category = common.Category(category)
	r.Priority = common.Priority(priority)
	r.Status = common.Status(status)
	return r, nil
}

func (r *PostgresRepository) one(ctx context.Context, query string, args ...any) (*models.Report, error) {
	report, err := scanReport(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return report, nil
}

func (r *PostgresRepository) Create(ctx context.Context, report *models.Report) (*models.Report, bool, error) {
	query := `
		INSERT INTO reports (user_id, client_ref, title, category, description, priority,
			lat, lng, image_url, status, estimated_cost)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT ON CONSTRAINT reports_user_client_ref_key DO NOTHING
		RETURNING id, upvotes, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		report.UserID, report.ClientRef, report.Title, string(report.Category), report.Description,
		string(report.Priority), report.Lat, report.Lng, report.ImageURL, string(report.Status),
		report.EstimatedCost,
	).Scan(&report.ID, &report.Upvotes, &report.CreatedAt, &report.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) && report.ClientRef != "" {
		stored, err := r.GetByClientRef(ctx, report.UserID, report.ClientRef)
		if err != nil {
			return nil, false, err
		}
		return stored, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("db error: %w", err)
	}
	return report, true, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Report, error) {
	return r.one(ctx, `SELECT `+reportColumns+` FROM reports WHERE id = $1`, id)
}

func (r *PostgresRepository) GetByClientRef(ctx context.Context, userID, clientRef string) (*models.Report, error) {
	return r.one(ctx, `SELECT `+reportColumns+` FROM reports WHERE user_id = $1 AND client_ref = $2`, userID, clientRef)
}

func (r *PostgresRepository) List(ctx context.Context, filter models.ReportFilter) ([]*models.Report, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, cond+" = $"+strconv.Itoa(len(args)))
	}
	if filter.Status != "" {
		add("status", string(filter.Status))
	}
	if filter.Category != "" {
		add("category", string(filter.Category))
	}
	if filter.UserID != "" {
		add("user_id", filter.UserID)
	}

	query := `SELECT ` + reportColumns + ` FROM reports`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Report{}
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func nullable[T ~string](p *T) any {
	if p == nil {
		return nil
	}
	return string(*p)
}

func (r *PostgresRepository) Update(ctx context.Context, id string, u models.ReportUpdate) (*models.Report, error) {
	var cost any
	if u.EstimatedCost != nil {
		cost = *u.EstimatedCost
	}
	query := `
		UPDATE reports SET
			status = COALESCE($2, status),
			priority = COALESCE($3, priority),
			category = COALESCE($4, category),
			estimated_cost = COALESCE($5, estimated_cost),
			title = COALESCE($6, title),
			description = COALESCE($7, description),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + reportColumns
	return r.one(ctx, query, id, nullable(u.Status), nullable(u.Priority), nullable(u.Category), cost,
		nullable(u.Title), nullable(u.Description))
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reports WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) AddUpvote(ctx context.Context, reportID, userID string) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO report_upvotes (report_id, user_id) VALUES ($1, $2)`, reportID, userID)
	if err != nil {
		if dbx.IsUniqueViolation(err, upvoteConstraint) {
			return common.ErrAlreadyUpvoted
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) IncrementUpvotes(ctx context.Context, reportID string) (int64, error) {
	var upvotes int64
	err := r.db.QueryRowContext(ctx,
		`UPDATE reports SET upvotes = upvotes + 1 WHERE id = $1 RETURNING upvotes`, reportID).Scan(&upvotes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, common.ErrorNotFound
		}
		return 0, fmt.Errorf("db error: %w", err)
	}
	return upvotes, nil
}

func (r *PostgresRepository) UpvotedBy(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT report_id FROM report_upvotes WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return ids, nil
}
