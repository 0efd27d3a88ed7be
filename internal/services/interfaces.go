package services

import (
	"context"

	"github.com/salvex/salvex-api/internal/models"
)

// InquiryServiceInterface defines the interface for project inquiry operations
type InquiryServiceInterface interface {
	Submit(ctx context.Context, raw models.RawInquiry) (*models.SubmitInquiryResponse, error)
	ListAll(ctx context.Context) ([]models.ProjectInquiry, error)
	ListByStatus(ctx context.Context, status models.InquiryStatus) ([]models.ProjectInquiry, error)
	GetByEmail(ctx context.Context, email string) (*models.ProjectInquiry, error)
	GetByID(ctx context.Context, id string) (*models.ProjectInquiry, error)
	ListRecent(ctx context.Context, days int) ([]models.ProjectInquiry, error)
	UpdateStatus(ctx context.Context, id string, status models.InquiryStatus) (*models.ProjectInquiry, error)
}

// ExportServiceInterface defines the interface for inquiry snapshot export
type ExportServiceInterface interface {
	Export(ctx context.Context) (*models.ExportInquiriesResponse, error)
}

// Ensure implementations satisfy interfaces
var (
	_ InquiryServiceInterface = (*InquiryService)(nil)
	_ ExportServiceInterface  = (*ExportService)(nil)
)
