package repository

import (
	"context"
	"time"

	"github.com/salvex/salvex-api/internal/models"
)

// InquiryDataSource is a storage backend for inquiry records.
// Backends persist exactly what they are given; id, status and createdAt
// are assigned by InquiryRepository.
type InquiryDataSource interface {
	// Insert stores a fully populated record atomically
	Insert(ctx context.Context, inquiry *models.ProjectInquiry) error

	// ListAll returns every record, newest createdAt first
	ListAll(ctx context.Context) ([]models.ProjectInquiry, error)

	// ListByStatus returns records with the status, oldest first
	ListByStatus(ctx context.Context, status models.InquiryStatus) ([]models.ProjectInquiry, error)

	// GetLatestByEmail returns the newest record for a normalized email
	GetLatestByEmail(ctx context.Context, email string) (*models.ProjectInquiry, error)

	// GetByID returns one record
	GetByID(ctx context.Context, id string) (*models.ProjectInquiry, error)

	// ListCreatedSince returns records created at or after since, newest first
	ListCreatedSince(ctx context.Context, since time.Time) ([]models.ProjectInquiry, error)

	// UpdateStatus replaces the status of one record
	UpdateStatus(ctx context.Context, id string, status models.InquiryStatus) error

	// Ping checks the backend is reachable
	Ping(ctx context.Context) error
}

// InquiryStore is the persistence contract the service layer depends on
type InquiryStore interface {
	Create(ctx context.Context, in *models.NormalizedInquiry) (string, error)
	ListAll(ctx context.Context, credential string) ([]models.ProjectInquiry, error)
	ListByStatus(ctx context.Context, status models.InquiryStatus) ([]models.ProjectInquiry, error)
	GetByEmail(ctx context.Context, email string) (*models.ProjectInquiry, error)
	GetByID(ctx context.Context, id string) (*models.ProjectInquiry, error)
	ListRecent(ctx context.Context, since time.Time) ([]models.ProjectInquiry, error)
	UpdateStatus(ctx context.Context, id string, status models.InquiryStatus) error
	Ping(ctx context.Context) error
}
