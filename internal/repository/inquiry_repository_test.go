package repository_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/salvex/salvex-api/internal/models"
	"github.com/salvex/salvex-api/internal/repository"
	"github.com/salvex/salvex-api/pkg/auth"
	apperrors "github.com/salvex/salvex-api/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const storeSecret = "store-secret"

type stepClock struct {
	mu   sync.Mutex
	next time.Time
	step time.Duration
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.next
	c.next = c.next.Add(c.step)
	return t
}

func newStore(t *testing.T, opts ...repository.Option) *repository.InquiryRepository {
	t.Helper()
	return repository.NewInquiryRepository(
		repository.NewMemoryInquiryDataSource(),
		auth.NewSecretAuthorizer(storeSecret),
		opts...,
	)
}

func normalized(email string) *models.NormalizedInquiry {
	website := "https://example.com"
	return &models.NormalizedInquiry{
		Name:           "Ana",
		Email:          email,
		BusinessName:   "Ana's Bakery",
		Location:       "Lisbon",
		CurrentWebsite: &website,
		SubmittedAt:    "2026-03-14T09:26:53.589Z",
	}
}

func TestInquiryRepository_Create(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	id1, err := store.Create(ctx, normalized("ana@example.com"))
	require.NoError(t, err)
	id2, err := store.Create(ctx, normalized("ana@example.com"))
	require.NoError(t, err)

	assert.NotEmpty(t, id1)
	assert.NotEqual(t, id1, id2)

	got, err := store.GetByID(ctx, id1)
	require.NoError(t, err)
	assert.Equal(t, models.InquiryStatusNew, got.Status)
	assert.Equal(t, "Ana", got.Name)
	assert.Equal(t, "ana@example.com", got.Email)
	assert.Equal(t, "Ana's Bakery", got.BusinessName)
	assert.Equal(t, "Lisbon", got.Location)
	require.NotNil(t, got.CurrentWebsite)
	assert.Equal(t, "https://example.com", *got.CurrentWebsite)
	assert.Nil(t, got.GoogleReviews)
	assert.Equal(t, "2026-03-14T09:26:53.589Z", got.SubmittedAt)
	assert.False(t, got.CreatedAt.IsZero())
	assert.Equal(t, time.UTC, got.CreatedAt.Location())

	all, err := store.ListAll(ctx, storeSecret)
	require.NoError(t, err)
	require.Len(t, all, 2)

	listed := map[string]models.ProjectInquiry{}
	for _, rec := range all {
		listed[rec.ID] = rec
	}
	require.Contains(t, listed, id1)
	require.Contains(t, listed, id2)

	website := "https://example.com"
	assert.Equal(t, models.ProjectInquiry{
		ID:             id1,
		Name:           "Ana",
		Email:          "ana@example.com",
		BusinessName:   "Ana's Bakery",
		Location:       "Lisbon",
		CurrentWebsite: &website,
		SubmittedAt:    "2026-03-14T09:26:53.589Z",
		CreatedAt:      got.CreatedAt,
		Status:         models.InquiryStatusNew,
	}, listed[id1])
	assert.Equal(t, *got, listed[id1])
}

func TestInquiryRepository_CreateUsesInjectedClockAndIDs(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 26, 53, 589123456, time.UTC)
	store := newStore(t,
		repository.WithClock(func() time.Time { return at }),
		repository.WithIDGenerator(func() string { return "fixed-id" }),
	)

	id, err := store.Create(context.Background(), normalized("ana@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", id)

	got, err := store.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, at.Truncate(time.Microsecond), got.CreatedAt)
}

func TestInquiryRepository_ListAllAuthorization(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	_, err := store.Create(ctx, normalized("ana@example.com"))
	require.NoError(t, err)

	tests := []struct {
		name       string
		credential string
	}{
		{name: "wrong credential", credential: "nope"},
		{name: "missing credential", credential: ""},
		{name: "secret prefix", credential: storeSecret[:5]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.ListAll(ctx, tt.credential)
			assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
			assert.Nil(t, got)
		})
	}

	t.Run("correct credential", func(t *testing.T) {
		got, err := store.ListAll(ctx, storeSecret)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})
}

func TestInquiryRepository_ListAllFailsWithoutConfiguredSecret(t *testing.T) {
	ctx := context.Background()
	store := repository.NewInquiryRepository(
		repository.NewMemoryInquiryDataSource(),
		auth.NewSecretAuthorizer(""),
	)
	_, err := store.Create(ctx, normalized("ana@example.com"))
	require.NoError(t, err)

	_, err = store.ListAll(ctx, "")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, err = store.ListAll(ctx, "anything")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	nilAuth := repository.NewInquiryRepository(repository.NewMemoryInquiryDataSource(), nil)
	_, err = nilAuth.ListAll(ctx, "anything")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestInquiryRepository_ListAllNewestFirst(t *testing.T) {
	ctx := context.Background()
	clock := &stepClock{next: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), step: time.Second}
	store := newStore(t, repository.WithClock(clock.Now))

	var ids []string
	for i := 0; i < 3; i++ {
		id, err := store.Create(ctx, normalized(fmt.Sprintf("user%d@example.com", i)))
		require.NoError(t, err)
		ids = append(ids, id)
	}

	got, err := store.ListAll(ctx, storeSecret)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, ids[2], got[0].ID)
	assert.Equal(t, ids[1], got[1].ID)
	assert.Equal(t, ids[0], got[2].ID)
}

func TestInquiryRepository_ListAllEmpty(t *testing.T) {
	got, err := newStore(t).ListAll(context.Background(), storeSecret)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestInquiryRepository_ListAllTiesPreferLaterInsert(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store := newStore(t, repository.WithClock(func() time.Time { return at }))

	first, err := store.Create(ctx, normalized("a@example.com"))
	require.NoError(t, err)
	second, err := store.Create(ctx, normalized("b@example.com"))
	require.NoError(t, err)

	got, err := store.ListAll(ctx, storeSecret)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, second, got[0].ID)
	assert.Equal(t, first, got[1].ID)
}

func TestInquiryRepository_ListByStatus(t *testing.T) {
	ctx := context.Background()
	clock := &stepClock{next: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), step: time.Minute}
	store := newStore(t, repository.WithClock(clock.Now))

	a, err := store.Create(ctx, normalized("a@example.com"))
	require.NoError(t, err)
	b, err := store.Create(ctx, normalized("b@example.com"))
	require.NoError(t, err)
	c, err := store.Create(ctx, normalized("c@example.com"))
	require.NoError(t, err)

	require.NoError(t, store.UpdateStatus(ctx, b, models.InquiryStatusContacted))

	fresh, err := store.ListByStatus(ctx, models.InquiryStatusNew)
	require.NoError(t, err)
	require.Len(t, fresh, 2)
	assert.Equal(t, a, fresh[0].ID)
	assert.Equal(t, c, fresh[1].ID)

	contacted, err := store.ListByStatus(ctx, models.InquiryStatusContacted)
	require.NoError(t, err)
	require.Len(t, contacted, 1)
	assert.Equal(t, b, contacted[0].ID)

	declined, err := store.ListByStatus(ctx, models.InquiryStatusDeclined)
	require.NoError(t, err)
	assert.Empty(t, declined)

	_, err = store.ListByStatus(ctx, models.InquiryStatus("archived"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestInquiryRepository_GetByEmail(t *testing.T) {
	ctx := context.Background()
	clock := &stepClock{next: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), step: time.Second}
	store := newStore(t, repository.WithClock(clock.Now))

	_, err := store.Create(ctx, normalized("ana@example.com"))
	require.NoError(t, err)
	latest, err := store.Create(ctx, normalized("ana@example.com"))
	require.NoError(t, err)

	got, err := store.GetByEmail(ctx, "  ANA@Example.com ")
	require.NoError(t, err)
	assert.Equal(t, latest, got.ID)

	_, err = store.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = store.GetByEmail(ctx, "   ")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestInquiryRepository_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	id, err := store.Create(ctx, normalized("ana@example.com"))
	require.NoError(t, err)

	err = store.UpdateStatus(ctx, "missing-id", models.InquiryStatusReviewed)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	err = store.UpdateStatus(ctx, id, models.InquiryStatus("bogus"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	require.NoError(t, store.UpdateStatus(ctx, id, models.InquiryStatusConverted))

	got, err := store.GetByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.InquiryStatusConverted, got.Status)

	// any status can follow any other
	require.NoError(t, store.UpdateStatus(ctx, id, models.InquiryStatusNew))
	got, err = store.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.InquiryStatusNew, got.Status)
}

func TestInquiryRepository_ListRecent(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := &stepClock{next: base, step: 24 * time.Hour}
	store := newStore(t, repository.WithClock(clock.Now))

	for i := 0; i < 5; i++ {
		_, err := store.Create(ctx, normalized(fmt.Sprintf("user%d@example.com", i)))
		require.NoError(t, err)
	}

	got, err := store.ListRecent(ctx, base.Add(3*24*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "user4@example.com", got[0].Email)
	assert.Equal(t, "user3@example.com", got[1].Email)
}

func TestInquiryRepository_ReturnedRecordsAreCopies(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	id, err := store.Create(ctx, normalized("ana@example.com"))
	require.NoError(t, err)

	got, err := store.GetByID(ctx, id)
	require.NoError(t, err)
	*got.CurrentWebsite = "https://changed.example"
	got.Status = models.InquiryStatusDeclined

	again, err := store.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", *again.CurrentWebsite)
	assert.Equal(t, models.InquiryStatusNew, again.Status)
}

func TestInquiryRepository_ConcurrentCreates(t *testing.T) {
	ctx := context.Background()
	source := repository.NewMemoryInquiryDataSource()
	store := repository.NewInquiryRepository(source, auth.NewSecretAuthorizer(storeSecret))

	const n = 50
	var wg sync.WaitGroup
	ids := make(chan string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := store.Create(ctx, normalized(fmt.Sprintf("user%d@example.com", i)))
			assert.NoError(t, err)
			ids <- id
		}(i)
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
	assert.Equal(t, n, source.Len())

	all, err := store.ListAll(ctx, storeSecret)
	require.NoError(t, err)
	assert.Len(t, all, n)
}

func TestInquiryRepository_DuplicateIDRejected(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, repository.WithIDGenerator(func() string { return "same" }))

	_, err := store.Create(ctx, normalized("a@example.com"))
	require.NoError(t, err)
	_, err = store.Create(ctx, normalized("b@example.com"))
	assert.Error(t, err)

	all, err := store.ListAll(ctx, storeSecret)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
