package services_test

import (
	"context"
	"time"

	"github.com/salvex/salvex-api/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockInquiryStore is a mock implementation of repository.InquiryStore
type MockInquiryStore struct {
	mock.Mock
}

func (m *MockInquiryStore) Create(ctx context.Context, in *models.NormalizedInquiry) (string, error) {
	args := m.Called(ctx, in)
	return args.String(0), args.Error(1)
}

func (m *MockInquiryStore) ListAll(ctx context.Context, credential string) ([]models.ProjectInquiry, error) {
	args := m.Called(ctx, credential)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ProjectInquiry), args.Error(1)
}

func (m *MockInquiryStore) ListByStatus(ctx context.Context, status models.InquiryStatus) ([]models.ProjectInquiry, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ProjectInquiry), args.Error(1)
}

func (m *MockInquiryStore) GetByEmail(ctx context.Context, email string) (*models.ProjectInquiry, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProjectInquiry), args.Error(1)
}

func (m *MockInquiryStore) GetByID(ctx context.Context, id string) (*models.ProjectInquiry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProjectInquiry), args.Error(1)
}

func (m *MockInquiryStore) ListRecent(ctx context.Context, since time.Time) ([]models.ProjectInquiry, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ProjectInquiry), args.Error(1)
}

func (m *MockInquiryStore) UpdateStatus(ctx context.Context, id string, status models.InquiryStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockInquiryStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockSnapshotUploader is a mock implementation of services.SnapshotUploader
type MockSnapshotUploader struct {
	mock.Mock
}

func (m *MockSnapshotUploader) PutJSON(ctx context.Context, key string, body []byte) error {
	args := m.Called(ctx, key, body)
	return args.Error(0)
}

// MockInquiryLister is a mock implementation of services.InquiryLister
type MockInquiryLister struct {
	mock.Mock
}

func (m *MockInquiryLister) ListAll(ctx context.Context) ([]models.ProjectInquiry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ProjectInquiry), args.Error(1)
}
