package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/salvex/salvex-api/internal/models"
	"github.com/salvex/salvex-api/pkg/auth"
	apperrors "github.com/salvex/salvex-api/pkg/errors"
)

// InquiryRepository is the inquiry store. It owns identifier generation,
// the initial status and createdAt, and gates the full listing behind its
// own credential, independent of whatever the HTTP layer checks.
type InquiryRepository struct {
	source     InquiryDataSource
	authorizer auth.Authorizer
	now        func() time.Time
	newID      func() string
}

// Option customizes an InquiryRepository
type Option func(*InquiryRepository)

// WithClock overrides the createdAt clock
func WithClock(now func() time.Time) Option {
	return func(r *InquiryRepository) { r.now = now }
}

// WithIDGenerator overrides identifier generation
func WithIDGenerator(newID func() string) Option {
	return func(r *InquiryRepository) { r.newID = newID }
}

// NewInquiryRepository creates the store over a backend
func NewInquiryRepository(source InquiryDataSource, authorizer auth.Authorizer, opts ...Option) *InquiryRepository {
	r := &InquiryRepository{
		source:     source,
		authorizer: authorizer,
		now:        time.Now,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create inserts a new inquiry with status new and returns its id
func (r *InquiryRepository) Create(ctx context.Context, in *models.NormalizedInquiry) (string, error) {
	inquiry := &models.ProjectInquiry{
		ID:             r.newID(),
		Name:           in.Name,
		Email:          in.Email,
		BusinessName:   in.BusinessName,
		Location:       in.Location,
		CurrentWebsite: in.CurrentWebsite,
		GoogleReviews:  in.GoogleReviews,
		SubmittedAt:    in.SubmittedAt,
		CreatedAt:      r.now().UTC().Truncate(time.Microsecond),
		Status:         models.InquiryStatusNew,
	}

	if err := r.source.Insert(ctx, inquiry); err != nil {
		return "", fmt.Errorf("failed to insert inquiry: %w", err)
	}

	return inquiry.ID, nil
}

// ListAll returns every inquiry newest first, or ErrUnauthorized
func (r *InquiryRepository) ListAll(ctx context.Context, credential string) ([]models.ProjectInquiry, error) {
	if r.authorizer == nil || !r.authorizer.Authorize(credential) {
		return nil, apperrors.ErrUnauthorized
	}
	return r.source.ListAll(ctx)
}

// ListByStatus returns inquiries in the given status
func (r *InquiryRepository) ListByStatus(ctx context.Context, status models.InquiryStatus) ([]models.ProjectInquiry, error) {
	if !status.IsValid() {
		return nil, apperrors.InvalidInputError("status", "unknown status "+string(status))
	}
	return r.source.ListByStatus(ctx, status)
}

// GetByEmail returns the most recently created inquiry for email
func (r *InquiryRepository) GetByEmail(ctx context.Context, email string) (*models.ProjectInquiry, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, apperrors.NotFoundError("inquiry")
	}
	return r.source.GetLatestByEmail(ctx, email)
}

// GetByID returns one inquiry
func (r *InquiryRepository) GetByID(ctx context.Context, id string) (*models.ProjectInquiry, error) {
	return r.source.GetByID(ctx, id)
}

// ListRecent returns inquiries created at or after since, newest first
func (r *InquiryRepository) ListRecent(ctx context.Context, since time.Time) ([]models.ProjectInquiry, error) {
	return r.source.ListCreatedSince(ctx, since.UTC())
}

// UpdateStatus sets the status of an existing inquiry
func (r *InquiryRepository) UpdateStatus(ctx context.Context, id string, status models.InquiryStatus) error {
	if !status.IsValid() {
		return apperrors.InvalidInputError("status", "unknown status "+string(status))
	}
	return r.source.UpdateStatus(ctx, id, status)
}

// Ping checks the backend
func (r *InquiryRepository) Ping(ctx context.Context) error {
	return r.source.Ping(ctx)
}

var _ InquiryStore = (*InquiryRepository)(nil)
