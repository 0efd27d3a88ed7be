package services

import (
	"context"
	"time"

	"github.com/salvex/salvex-api/config"
	"github.com/salvex/salvex-api/internal/cache"
	"github.com/salvex/salvex-api/internal/intake"
	"github.com/salvex/salvex-api/internal/models"
	"github.com/salvex/salvex-api/internal/repository"
	apperrors "github.com/salvex/salvex-api/pkg/errors"
	"github.com/salvex/salvex-api/pkg/httpclient"
	"github.com/salvex/salvex-api/pkg/logger"
	"github.com/salvex/salvex-api/pkg/metrics"
	"github.com/salvex/salvex-api/pkg/retry"
	"github.com/salvex/salvex-api/pkg/trigger"
	"go.uber.org/zap"
)

const (
	// InquiryCreatedEvent is the trigger event type sent after a submit
	InquiryCreatedEvent = "project_inquiry.created"

	DefaultRecentDays = 30
	MaxRecentDays     = 365
)

// InquiryService runs submissions through the validator into the store and
// serves the admin views over it.
type InquiryService struct {
	store         repository.InquiryStore
	validator     *intake.Validator
	listCache     *cache.InquiryListCache
	storageSecret string
	triggerURL    string
	httpClient    httpclient.Client
	retryConfig   retry.Config
	now           func() time.Time
}

// InquiryServiceOption customizes an InquiryService
type InquiryServiceOption func(*InquiryService)

// WithServiceClock overrides the clock used for "recent" windows and events
func WithServiceClock(now func() time.Time) InquiryServiceOption {
	return func(s *InquiryService) { s.now = now }
}

// WithTriggerRetry overrides the retry policy for the created trigger
func WithTriggerRetry(cfg retry.Config) InquiryServiceOption {
	return func(s *InquiryService) { s.retryConfig = cfg }
}

// NewInquiryService creates a new inquiry service instance
func NewInquiryService(
	store repository.InquiryStore,
	validator *intake.Validator,
	listCache *cache.InquiryListCache,
	cfg *config.Config,
	httpClient httpclient.Client,
	opts ...InquiryServiceOption,
) *InquiryService {
	s := &InquiryService{
		store:         store,
		validator:     validator,
		listCache:     listCache,
		storageSecret: cfg.Auth.StorageAdminToken,
		triggerURL:    cfg.EventTriggers.InquiryCreatedTriggerURL,
		httpClient:    httpClient,
		retryConfig:   retry.WebhookConfig(),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit validates raw and stores it. Validation failures come back as
// *intake.MissingFieldError or intake.ErrInvalidEmail; anything the store
// reports is logged and returned as ErrInternal.
func (s *InquiryService) Submit(ctx context.Context, raw models.RawInquiry) (*models.SubmitInquiryResponse, error) {
	normalized, err := s.validator.Normalize(raw)
	if err != nil {
		metrics.InquirySubmissions.WithLabelValues("invalid").Inc()
		logger.Warn("Project inquiry rejected", zap.Error(err))
		return nil, err
	}

	id, err := s.store.Create(ctx, normalized)
	if err != nil {
		metrics.InquirySubmissions.WithLabelValues("error").Inc()
		logger.Error("Failed to save project inquiry",
			zap.Error(err),
			zap.String("email", normalized.Email))
		return nil, apperrors.InternalError("failed to save inquiry", err)
	}

	s.listCache.Invalidate()
	metrics.InquirySubmissions.WithLabelValues("success").Inc()
	logger.Info("Project inquiry saved", zap.String("inquiry_id", id))

	// Fire and forget
	trigger.CallAsync(s.triggerURL, trigger.Event{
		Type:       InquiryCreatedEvent,
		RecordID:   id,
		OccurredAt: s.now().UTC(),
	}, s.httpClient, s.retryConfig)

	return &models.SubmitInquiryResponse{Success: true, ID: id}, nil
}

// ListAll returns every inquiry newest first using the storage credential.
// An unset credential is ErrMisconfigured; a store failure is ErrInternal.
func (s *InquiryService) ListAll(ctx context.Context) ([]models.ProjectInquiry, error) {
	if s.storageSecret == "" {
		metrics.InquiryListings.WithLabelValues("misconfigured").Inc()
		logger.Error("Storage admin token is not configured")
		return nil, apperrors.MisconfiguredError("STORAGE_ADMIN_TOKEN")
	}

	if cached, ok := s.listCache.GetAll(); ok {
		metrics.InquiryListings.WithLabelValues("success").Inc()
		return cached, nil
	}

	gen := s.listCache.Generation()
	inquiries, err := s.store.ListAll(ctx, s.storageSecret)
	if err != nil {
		metrics.InquiryListings.WithLabelValues("error").Inc()
		logger.Error("Failed to list project inquiries", zap.Error(err))
		return nil, apperrors.InternalError("failed to fetch inquiries", err)
	}

	s.listCache.SetAll(gen, inquiries)
	metrics.InquiryListings.WithLabelValues("success").Inc()
	return inquiries, nil
}

// ListByStatus returns inquiries in one status, oldest first
func (s *InquiryService) ListByStatus(ctx context.Context, status models.InquiryStatus) ([]models.ProjectInquiry, error) {
	if !status.IsValid() {
		return nil, apperrors.InvalidInputError("status", "unknown status "+string(status))
	}

	if cached, ok := s.listCache.GetByStatus(status); ok {
		return cached, nil
	}

	gen := s.listCache.Generation()
	inquiries, err := s.store.ListByStatus(ctx, status)
	if err != nil {
		logger.Error("Failed to list project inquiries by status",
			zap.Error(err),
			zap.String("status", string(status)))
		return nil, apperrors.InternalError("failed to fetch inquiries", err)
	}

	s.listCache.SetByStatus(gen, status, inquiries)
	return inquiries, nil
}

// GetByEmail returns the newest inquiry for email
func (s *InquiryService) GetByEmail(ctx context.Context, email string) (*models.ProjectInquiry, error) {
	inquiry, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return nil, classifyStoreError(err, "failed to fetch inquiry")
	}
	return inquiry, nil
}

// GetByID returns one inquiry
func (s *InquiryService) GetByID(ctx context.Context, id string) (*models.ProjectInquiry, error) {
	inquiry, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, classifyStoreError(err, "failed to fetch inquiry")
	}
	return inquiry, nil
}

// ListRecent returns inquiries created in the last days days, newest first.
// days must be within 1..MaxRecentDays.
func (s *InquiryService) ListRecent(ctx context.Context, days int) ([]models.ProjectInquiry, error) {
	if days < 1 || days > MaxRecentDays {
		return nil, apperrors.InvalidInputError("days", "must be between 1 and 365")
	}

	since := s.now().UTC().AddDate(0, 0, -days)
	inquiries, err := s.store.ListRecent(ctx, since)
	if err != nil {
		logger.Error("Failed to list recent project inquiries", zap.Error(err), zap.Int("days", days))
		return nil, apperrors.InternalError("failed to fetch inquiries", err)
	}
	return inquiries, nil
}

// UpdateStatus sets the status and returns the updated record
func (s *InquiryService) UpdateStatus(ctx context.Context, id string, status models.InquiryStatus) (*models.ProjectInquiry, error) {
	if !status.IsValid() {
		return nil, apperrors.InvalidInputError("status", "unknown status "+string(status))
	}

	if err := s.store.UpdateStatus(ctx, id, status); err != nil {
		metrics.InquiryStatusUpdates.WithLabelValues("error").Inc()
		return nil, classifyStoreError(err, "failed to update inquiry status")
	}
	s.listCache.Invalidate()

	metrics.InquiryStatusUpdates.WithLabelValues(string(status)).Inc()
	logger.Info("Project inquiry status updated",
		zap.String("inquiry_id", id),
		zap.String("status", string(status)))

	inquiry, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, classifyStoreError(err, "failed to fetch inquiry")
	}
	return inquiry, nil
}

// classifyStoreError passes not-found and invalid-input through and hides
// everything else behind ErrInternal.
func classifyStoreError(err error, msg string) error {
	if apperrors.Is(err, apperrors.ErrNotFound) || apperrors.Is(err, apperrors.ErrInvalidInput) {
		return err
	}
	logger.Error("Inquiry store operation failed", zap.Error(err), zap.String("operation", msg))
	return apperrors.InternalError(msg, err)
}
