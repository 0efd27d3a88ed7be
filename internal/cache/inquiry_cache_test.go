package cache_test

import (
	"testing"
	"time"

	"github.com/salvex/salvex-api/internal/cache"
	"github.com/salvex/salvex-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleInquiries() []models.ProjectInquiry {
	return []models.ProjectInquiry{
		{ID: "b", Email: "b@example.com", Status: models.InquiryStatusNew, CreatedAt: time.Unix(2, 0)},
		{ID: "a", Email: "a@example.com", Status: models.InquiryStatusReviewed, CreatedAt: time.Unix(1, 0)},
	}
}

func TestInquiryListCache_AllRoundTrip(t *testing.T) {
	c := cache.NewInquiryListCache(60)
	require.True(t, c.Enabled())

	_, ok := c.GetAll()
	assert.False(t, ok)

	c.SetAll(c.Generation(), sampleInquiries())

	got, ok := c.GetAll()
	require.True(t, ok)
	assert.Equal(t, sampleInquiries(), got)
}

func TestInquiryListCache_ByStatusIsKeyedPerStatus(t *testing.T) {
	c := cache.NewInquiryListCache(60)

	c.SetByStatus(c.Generation(), models.InquiryStatusNew, sampleInquiries()[:1])

	got, ok := c.GetByStatus(models.InquiryStatusNew)
	require.True(t, ok)
	assert.Len(t, got, 1)

	_, ok = c.GetByStatus(models.InquiryStatusDeclined)
	assert.False(t, ok)
}

func TestInquiryListCache_Invalidate(t *testing.T) {
	c := cache.NewInquiryListCache(60)
	c.SetAll(c.Generation(), sampleInquiries())
	c.SetByStatus(c.Generation(), models.InquiryStatusNew, sampleInquiries())

	c.Invalidate()

	_, ok := c.GetAll()
	assert.False(t, ok)
	_, ok = c.GetByStatus(models.InquiryStatusNew)
	assert.False(t, ok)
}

func TestInquiryListCache_ReturnsCopies(t *testing.T) {
	c := cache.NewInquiryListCache(60)
	c.SetAll(c.Generation(), sampleInquiries())

	got, ok := c.GetAll()
	require.True(t, ok)
	got[0].ID = "mutated"

	again, ok := c.GetAll()
	require.True(t, ok)
	assert.Equal(t, "b", again[0].ID)
}

func TestInquiryListCache_DeepCopiesOptionalFields(t *testing.T) {
	c := cache.NewInquiryListCache(60)
	website := "https://bakery.example"
	records := sampleInquiries()
	records[0].CurrentWebsite = &website

	c.SetAll(c.Generation(), records)
	website = "changed after set"

	got, ok := c.GetAll()
	require.True(t, ok)
	require.NotNil(t, got[0].CurrentWebsite)
	assert.Equal(t, "https://bakery.example", *got[0].CurrentWebsite)

	*got[0].CurrentWebsite = "changed by reader"

	again, ok := c.GetAll()
	require.True(t, ok)
	assert.Equal(t, "https://bakery.example", *again[0].CurrentWebsite)
}

func TestInquiryListCache_DropsSnapshotReadBeforeInvalidate(t *testing.T) {
	c := cache.NewInquiryListCache(60)

	gen := c.Generation()
	c.Invalidate()
	c.SetAll(gen, sampleInquiries())
	c.SetByStatus(gen, models.InquiryStatusNew, sampleInquiries())

	_, ok := c.GetAll()
	assert.False(t, ok)
	_, ok = c.GetByStatus(models.InquiryStatusNew)
	assert.False(t, ok)

	c.SetAll(c.Generation(), sampleInquiries())
	_, ok = c.GetAll()
	assert.True(t, ok)
}

func TestInquiryListCache_ZeroTTLDisables(t *testing.T) {
	c := cache.NewInquiryListCache(0)
	assert.False(t, c.Enabled())

	c.SetAll(c.Generation(), sampleInquiries())
	_, ok := c.GetAll()
	assert.False(t, ok)

	assert.NotPanics(t, c.Invalidate)
}

func TestInquiryListCache_NilIsDisabled(t *testing.T) {
	var c *cache.InquiryListCache
	assert.False(t, c.Enabled())

	_, ok := c.GetAll()
	assert.False(t, ok)
	assert.NotPanics(t, func() { c.SetAll(c.Generation(), sampleInquiries()) })
	assert.NotPanics(t, c.Invalidate)
}
