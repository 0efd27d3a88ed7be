package trigger_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/salvex/salvex-api/pkg/circuitbreaker"
	"github.com/salvex/salvex-api/pkg/httpclient"
	"github.com/salvex/salvex-api/pkg/retry"
	"github.com/salvex/salvex-api/pkg/trigger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry() retry.Config {
	cfg := retry.WebhookConfig()
	cfg.InitialDelay = time.Millisecond
	cfg.MaxDelay = time.Millisecond
	cfg.Jitter = false
	return cfg
}

func testEvent() trigger.Event {
	return trigger.Event{
		Type:       "project_inquiry.created",
		RecordID:   "abc",
		OccurredAt: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
	}
}

func TestPost_DeliversJSON(t *testing.T) {
	var received trigger.Event
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "salvex-api", r.Header.Get("User-Agent"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	err := trigger.Post(context.Background(), server.URL, testEvent(), httpclient.NewStandardClient(), fastRetry())
	require.NoError(t, err)
	assert.Equal(t, testEvent(), received)
}

func TestPost_RetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	err := trigger.Post(context.Background(), server.URL, testEvent(), httpclient.NewStandardClient(), fastRetry())
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestPost_DoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	err := trigger.Post(context.Background(), server.URL, testEvent(), httpclient.NewStandardClient(), fastRetry())
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestCallAsync_EmptyURLIsNoop(t *testing.T) {
	done := trigger.CallAsync("", testEvent(), httpclient.NewStandardClient(), fastRetry())
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected immediate completion")
	}
}

func TestCallAsync_Delivers(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	done := trigger.CallAsync(server.URL, testEvent(), httpclient.NewStandardClient(), fastRetry())
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("trigger did not finish")
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestPost_OpenBreakerSkipsCall(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	err := trigger.Post(context.Background(), server.URL, testEvent(), httpclient.NewStandardClient(), fastRetry())
	require.Error(t, err)
	tripped := atomic.LoadInt32(&calls)
	assert.Equal(t, int32(3), tripped)

	err = trigger.Post(context.Background(), server.URL, testEvent(), httpclient.NewStandardClient(), fastRetry())
	require.Error(t, err)
	assert.True(t, circuitbreaker.IsRejected(err))
	assert.Equal(t, tripped, atomic.LoadInt32(&calls))
}
