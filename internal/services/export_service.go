package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/salvex/salvex-api/internal/models"
	apperrors "github.com/salvex/salvex-api/pkg/errors"
	"github.com/salvex/salvex-api/pkg/logger"
	"github.com/salvex/salvex-api/pkg/retry"
	"go.uber.org/zap"
)

const (
	exportKeyPrefix = "project-inquiries/"
	exportKeyLayout = "20060102T150405Z"
)

// SnapshotUploader stores a serialized snapshot under a key
type SnapshotUploader interface {
	PutJSON(ctx context.Context, key string, body []byte) error
}

// InquiryLister is the part of InquiryService the export reads from
type InquiryLister interface {
	ListAll(ctx context.Context) ([]models.ProjectInquiry, error)
}

// ExportService writes JSON snapshots of every inquiry to object storage
type ExportService struct {
	lister      InquiryLister
	uploader    SnapshotUploader
	retryConfig retry.Config
	now         func() time.Time
}

// NewExportService creates an export service. A nil uploader leaves export
// disabled; Export then returns ErrMisconfigured.
func NewExportService(lister InquiryLister, uploader SnapshotUploader, now func() time.Time) *ExportService {
	if now == nil {
		now = time.Now
	}
	return &ExportService{
		lister:      lister,
		uploader:    uploader,
		retryConfig: retry.StorageConfig(),
		now:         now,
	}
}

// ExportKey returns the object key for a snapshot taken at t
func ExportKey(t time.Time) string {
	return exportKeyPrefix + t.UTC().Format(exportKeyLayout) + ".json"
}

// Export uploads the current full listing and reports the key written
func (s *ExportService) Export(ctx context.Context) (*models.ExportInquiriesResponse, error) {
	if s.uploader == nil {
		return nil, apperrors.MisconfiguredError("EXPORT_STORAGE_BUCKET_NAME")
	}

	inquiries, err := s.lister.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(inquiries)
	if err != nil {
		return nil, apperrors.InternalError("failed to encode snapshot", err)
	}

	key := ExportKey(s.now())
	err = retry.Do(ctx, s.retryConfig, "exportInquiries", func() error {
		return s.uploader.PutJSON(ctx, key, body)
	})
	if err != nil {
		logger.Error("Failed to export project inquiries", zap.Error(err), zap.String("key", key))
		return nil, apperrors.InternalError(fmt.Sprintf("failed to upload %s", key), err)
	}

	logger.Info("Project inquiries exported",
		zap.String("key", key),
		zap.Int("count", len(inquiries)))

	return &models.ExportInquiriesResponse{Key: key, Count: len(inquiries)}, nil
}
