package repository

import (
	"context"
	"time"

	"github.com/salvex/salvex-api/internal/database/postgres"
	"github.com/salvex/salvex-api/internal/models"
)

// PostgresInquiryDataSource implements InquiryDataSource using PostgreSQL
type PostgresInquiryDataSource struct {
	client *postgres.Client
}

// NewPostgresInquiryDataSource creates a new PostgreSQL inquiry data source
func NewPostgresInquiryDataSource(client *postgres.Client) *PostgresInquiryDataSource {
	return &PostgresInquiryDataSource{
		client: client,
	}
}

// Insert stores one inquiry row
func (ds *PostgresInquiryDataSource) Insert(ctx context.Context, inquiry *models.ProjectInquiry) error {
	return ds.client.InsertProjectInquiry(ctx, inquiry)
}

// ListAll fetches every inquiry, newest first
func (ds *PostgresInquiryDataSource) ListAll(ctx context.Context) ([]models.ProjectInquiry, error) {
	return ds.client.ListProjectInquiries(ctx)
}

// ListByStatus fetches inquiries in one status, oldest first
func (ds *PostgresInquiryDataSource) ListByStatus(ctx context.Context, status models.InquiryStatus) ([]models.ProjectInquiry, error) {
	return ds.client.ListProjectInquiriesByStatus(ctx, status)
}

// GetLatestByEmail fetches the newest inquiry for email
func (ds *PostgresInquiryDataSource) GetLatestByEmail(ctx context.Context, email string) (*models.ProjectInquiry, error) {
	return ds.client.GetLatestProjectInquiryByEmail(ctx, email)
}

// GetByID fetches one inquiry
func (ds *PostgresInquiryDataSource) GetByID(ctx context.Context, id string) (*models.ProjectInquiry, error) {
	return ds.client.GetProjectInquiryByID(ctx, id)
}

// ListCreatedSince fetches inquiries created at or after since
func (ds *PostgresInquiryDataSource) ListCreatedSince(ctx context.Context, since time.Time) ([]models.ProjectInquiry, error) {
	return ds.client.ListProjectInquiriesSince(ctx, since)
}

// UpdateStatus changes the status of one inquiry
func (ds *PostgresInquiryDataSource) UpdateStatus(ctx context.Context, id string, status models.InquiryStatus) error {
	return ds.client.UpdateProjectInquiryStatus(ctx, id, status)
}

// Ping checks the database connection
func (ds *PostgresInquiryDataSource) Ping(ctx context.Context) error {
	return ds.client.Ping(ctx)
}

var _ InquiryDataSource = (*PostgresInquiryDataSource)(nil)
