package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/salvex/salvex-api/internal/models"
	apperrors "github.com/salvex/salvex-api/pkg/errors"
	"github.com/salvex/salvex-api/pkg/metrics"
	"go.uber.org/zap"
)

const inquiryColumns = `
	id::text, name, email, business_name, location, current_website,
	google_reviews, submitted_at, status, created_at`

// InsertProjectInquiry stores one inquiry in a single statement
func (c *Client) InsertProjectInquiry(ctx context.Context, in *models.ProjectInquiry) error {
	start := time.Now()
	operation := "insertProjectInquiry"

	query := `
		INSERT INTO project_inquiries
			(id, name, email, business_name, location, current_website,
			 google_reviews, submitted_at, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := c.pool.Exec(ctx, query,
		in.ID,
		in.Name,
		in.Email,
		in.BusinessName,
		in.Location,
		nilIfEmpty(in.CurrentWebsite),
		nilIfEmpty(in.GoogleReviews),
		in.SubmittedAt,
		string(in.Status),
		in.CreatedAt,
	)

	duration := metrics.MeasureDuration(start)
	if err != nil {
		recordMetrics(ctx, operation, "error", duration, zap.Error(err))
		return fmt.Errorf("failed to insert project inquiry: %w", err)
	}

	recordMetrics(ctx, operation, "success", duration, zap.String("inquiry_id", in.ID))
	return nil
}

// ListProjectInquiries returns all inquiries, newest first
func (c *Client) ListProjectInquiries(ctx context.Context) ([]models.ProjectInquiry, error) {
	return c.queryInquiries(ctx, "listProjectInquiries", `
		SELECT`+inquiryColumns+`
		FROM project_inquiries
		ORDER BY created_at DESC, seq DESC
	`)
}

// ListProjectInquiriesByStatus returns inquiries with status, oldest first
func (c *Client) ListProjectInquiriesByStatus(ctx context.Context, status models.InquiryStatus) ([]models.ProjectInquiry, error) {
	return c.queryInquiries(ctx, "listProjectInquiriesByStatus", `
		SELECT`+inquiryColumns+`
		FROM project_inquiries
		WHERE status = $1
		ORDER BY created_at ASC, seq ASC
	`, string(status))
}

// ListProjectInquiriesSince returns inquiries created at or after since, newest first
func (c *Client) ListProjectInquiriesSince(ctx context.Context, since time.Time) ([]models.ProjectInquiry, error) {
	return c.queryInquiries(ctx, "listProjectInquiriesSince", `
		SELECT`+inquiryColumns+`
		FROM project_inquiries
		WHERE created_at >= $1
		ORDER BY created_at DESC, seq DESC
	`, since)
}

// GetLatestProjectInquiryByEmail returns the newest inquiry for a normalized email
func (c *Client) GetLatestProjectInquiryByEmail(ctx context.Context, email string) (*models.ProjectInquiry, error) {
	return c.queryInquiry(ctx, "getLatestProjectInquiryByEmail", `
		SELECT`+inquiryColumns+`
		FROM project_inquiries
		WHERE email = $1
		ORDER BY created_at DESC, seq DESC
		LIMIT 1
	`, email)
}

// GetProjectInquiryByID returns one inquiry
func (c *Client) GetProjectInquiryByID(ctx context.Context, id string) (*models.ProjectInquiry, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.NotFoundError("inquiry")
	}
	return c.queryInquiry(ctx, "getProjectInquiryByID", `
		SELECT`+inquiryColumns+`
		FROM project_inquiries
		WHERE id = $1
	`, id)
}

// UpdateProjectInquiryStatus replaces the status column only
func (c *Client) UpdateProjectInquiryStatus(ctx context.Context, id string, status models.InquiryStatus) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.NotFoundError("inquiry")
	}

	start := time.Now()
	operation := "updateProjectInquiryStatus"

	tag, err := c.pool.Exec(ctx,
		`UPDATE project_inquiries SET status = $2 WHERE id = $1`,
		id, string(status))

	duration := metrics.MeasureDuration(start)
	if err != nil {
		recordMetrics(ctx, operation, "error", duration, zap.Error(err))
		return fmt.Errorf("failed to update project inquiry status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		recordMetrics(ctx, operation, "not_found", duration)
		return apperrors.NotFoundError("inquiry")
	}

	recordMetrics(ctx, operation, "success", duration,
		zap.String("inquiry_id", id),
		zap.String("status", string(status)))
	return nil
}

func (c *Client) queryInquiries(ctx context.Context, operation, query string, args ...any) ([]models.ProjectInquiry, error) {
	start := time.Now()

	rows, err := c.pool.Query(ctx, query, args...)
	if err != nil {
		recordMetrics(ctx, operation, "error", metrics.MeasureDuration(start), zap.Error(err))
		return nil, fmt.Errorf("failed to query project inquiries: %w", err)
	}

	inquiries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.ProjectInquiry, error) {
		return scanInquiry(row)
	})
	duration := metrics.MeasureDuration(start)
	if err != nil {
		recordMetrics(ctx, operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to scan project inquiries: %w", err)
	}
	if inquiries == nil {
		inquiries = []models.ProjectInquiry{}
	}

	recordMetrics(ctx, operation, "success", duration, zap.Int("count", len(inquiries)))
	return inquiries, nil
}

func (c *Client) queryInquiry(ctx context.Context, operation, query string, args ...any) (*models.ProjectInquiry, error) {
	start := time.Now()

	inquiry, err := scanInquiry(c.pool.QueryRow(ctx, query, args...))
	duration := metrics.MeasureDuration(start)

	if errors.Is(err, pgx.ErrNoRows) {
		recordMetrics(ctx, operation, "not_found", duration)
		return nil, apperrors.NotFoundError("inquiry")
	}
	if err != nil {
		recordMetrics(ctx, operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to fetch project inquiry: %w", err)
	}

	recordMetrics(ctx, operation, "success", duration)
	return &inquiry, nil
}

// scanInquiry reads the columns listed in inquiryColumns
func scanInquiry(row pgx.Row) (models.ProjectInquiry, error) {
	var (
		in     models.ProjectInquiry
		status string
	)

	err := row.Scan(
		&in.ID,
		&in.Name,
		&in.Email,
		&in.BusinessName,
		&in.Location,
		&in.CurrentWebsite,
		&in.GoogleReviews,
		&in.SubmittedAt,
		&status,
		&in.CreatedAt,
	)
	if err != nil {
		return models.ProjectInquiry{}, err
	}

	in.Status = models.InquiryStatus(status)
	in.CreatedAt = in.CreatedAt.UTC()
	return in, nil
}
