package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/salvex/salvex-api/internal/models"
	apperrors "github.com/salvex/salvex-api/pkg/errors"
)

// MemoryInquiryDataSource keeps inquiries in process memory.
// Used for offline mode and tests. Records live in insertion order;
// the maps index into that slice.
type MemoryInquiryDataSource struct {
	mu       sync.RWMutex
	records  []models.ProjectInquiry
	byID     map[string]int
	byEmail  map[string][]int
	byStatus map[models.InquiryStatus][]int
}

// NewMemoryInquiryDataSource creates an empty in-memory backend
func NewMemoryInquiryDataSource() *MemoryInquiryDataSource {
	return &MemoryInquiryDataSource{
		byID:     make(map[string]int),
		byEmail:  make(map[string][]int),
		byStatus: make(map[models.InquiryStatus][]int),
	}
}

// Insert appends the record and updates every index under one lock
func (m *MemoryInquiryDataSource) Insert(_ context.Context, inquiry *models.ProjectInquiry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byID[inquiry.ID]; exists {
		return fmt.Errorf("duplicate inquiry id %s", inquiry.ID)
	}

	idx := len(m.records)
	m.records = append(m.records, inquiry.Clone())
	m.byID[inquiry.ID] = idx
	m.byEmail[inquiry.Email] = append(m.byEmail[inquiry.Email], idx)
	m.byStatus[inquiry.Status] = append(m.byStatus[inquiry.Status], idx)

	return nil
}

// ListAll returns all records, newest createdAt first
func (m *MemoryInquiryDataSource) ListAll(_ context.Context) ([]models.ProjectInquiry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.newestFirst(func(models.ProjectInquiry) bool { return true }), nil
}

// ListByStatus returns records with status in createdAt order
func (m *MemoryInquiryDataSource) ListByStatus(_ context.Context, status models.InquiryStatus) ([]models.ProjectInquiry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	indexes := m.byStatus[status]
	result := make([]models.ProjectInquiry, 0, len(indexes))
	for _, idx := range indexes {
		result = append(result, m.records[idx].Clone())
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// GetLatestByEmail returns the newest record for email
func (m *MemoryInquiryDataSource) GetLatestByEmail(_ context.Context, email string) (*models.ProjectInquiry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var latest *models.ProjectInquiry
	for _, idx := range m.byEmail[email] {
		rec := m.records[idx]
		// later insertions win ties
		if latest == nil || !rec.CreatedAt.Before(latest.CreatedAt) {
			c := rec.Clone()
			latest = &c
		}
	}
	if latest == nil {
		return nil, apperrors.NotFoundError("inquiry")
	}
	return latest, nil
}

// GetByID returns one record
func (m *MemoryInquiryDataSource) GetByID(_ context.Context, id string) (*models.ProjectInquiry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	idx, ok := m.byID[id]
	if !ok {
		return nil, apperrors.NotFoundError("inquiry")
	}
	c := m.records[idx].Clone()
	return &c, nil
}

// ListCreatedSince returns records created at or after since, newest first
func (m *MemoryInquiryDataSource) ListCreatedSince(_ context.Context, since time.Time) ([]models.ProjectInquiry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.newestFirst(func(rec models.ProjectInquiry) bool {
		return !rec.CreatedAt.Before(since)
	}), nil
}

// UpdateStatus moves a record between status indexes
func (m *MemoryInquiryDataSource) UpdateStatus(_ context.Context, id string, status models.InquiryStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx, ok := m.byID[id]
	if !ok {
		return apperrors.NotFoundError("inquiry")
	}

	previous := m.records[idx].Status
	if previous == status {
		return nil
	}

	m.byStatus[previous] = removeIndex(m.byStatus[previous], idx)
	m.byStatus[status] = insertIndex(m.byStatus[status], idx)
	m.records[idx].Status = status

	return nil
}

// Ping always succeeds
func (m *MemoryInquiryDataSource) Ping(_ context.Context) error {
	return nil
}

// Len returns the number of stored records
func (m *MemoryInquiryDataSource) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

// newestFirst walks records from the latest insertion backwards so that a
// stable sort on createdAt keeps later insertions ahead on ties.
// Caller must hold the read lock.
func (m *MemoryInquiryDataSource) newestFirst(keep func(models.ProjectInquiry) bool) []models.ProjectInquiry {
	result := make([]models.ProjectInquiry, 0, len(m.records))
	for i := len(m.records) - 1; i >= 0; i-- {
		if keep(m.records[i]) {
			result = append(result, m.records[i].Clone())
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

// removeIndex deletes idx from a sorted index list
func removeIndex(indexes []int, idx int) []int {
	pos := sort.SearchInts(indexes, idx)
	if pos < len(indexes) && indexes[pos] == idx {
		return append(indexes[:pos], indexes[pos+1:]...)
	}
	return indexes
}

// insertIndex adds idx to a sorted index list, keeping insertion order
func insertIndex(indexes []int, idx int) []int {
	pos := sort.SearchInts(indexes, idx)
	indexes = append(indexes, 0)
	copy(indexes[pos+1:], indexes[pos:])
	indexes[pos] = idx
	return indexes
}

var _ InquiryDataSource = (*MemoryInquiryDataSource)(nil)
