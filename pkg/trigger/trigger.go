// Package trigger notifies external automations about domain events.
package trigger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/salvex/salvex-api/pkg/circuitbreaker"
	"github.com/salvex/salvex-api/pkg/httpclient"
	"github.com/salvex/salvex-api/pkg/logger"
	"github.com/salvex/salvex-api/pkg/metrics"
	"github.com/salvex/salvex-api/pkg/retry"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const callTimeout = 30 * time.Second

// trigger host -> *gobreaker.CircuitBreaker
var breakers sync.Map

func breakerFor(triggerURL string) *gobreaker.CircuitBreaker {
	key := triggerURL
	if u, err := url.Parse(triggerURL); err == nil && u.Host != "" {
		key = u.Host
	}
	if cb, ok := breakers.Load(key); ok {
		return cb.(*gobreaker.CircuitBreaker)
	}
	cb, _ := breakers.LoadOrStore(key, circuitbreaker.NewCircuitBreaker(circuitbreaker.DefaultConfig("trigger:"+key)))
	return cb.(*gobreaker.CircuitBreaker)
}

// Event is the JSON body posted to a trigger URL
type Event struct {
	Type       string    `json:"type"`
	RecordID   string    `json:"recordId"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Post delivers one event, retrying transient failures. 4xx responses are
// not retried. Each trigger host has its own circuit breaker; while it is
// open Post fails without calling out.
func Post(ctx context.Context, triggerURL string, event Event, httpClient httpclient.Client, cfg retry.Config) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode trigger event: %w", err)
	}

	cb := breakerFor(triggerURL)
	err = retry.Do(ctx, cfg, "trigger:"+event.Type, func() error {
		attemptErr := circuitbreaker.Do(cb, func() error {
			return deliver(ctx, triggerURL, body, httpClient)
		})
		if circuitbreaker.IsRejected(attemptErr) {
			return retry.Permanent(attemptErr)
		}
		return attemptErr
	})

	if err != nil {
		metrics.TriggerCalls.WithLabelValues(event.Type, "error").Inc()
		return err
	}

	metrics.TriggerCalls.WithLabelValues(event.Type, "success").Inc()
	return nil
}

func deliver(ctx context.Context, triggerURL string, body []byte, httpClient httpclient.Client) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, triggerURL, bytes.NewReader(body))
	if err != nil {
		return retry.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return retry.Permanent(fmt.Errorf("trigger returned status %d", resp.StatusCode))
	default:
		return fmt.Errorf("trigger returned status %d", resp.StatusCode)
	}
}

// CallAsync posts event in the background. Failures are logged and never
// reach the caller. An empty URL is a no-op. The returned channel is closed
// when delivery finishes.
func CallAsync(triggerURL string, event Event, httpClient httpclient.Client, cfg retry.Config) <-chan struct{} {
	done := make(chan struct{})
	if triggerURL == "" {
		close(done)
		return done
	}

	go func() {
		defer close(done)

		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()

		logger.Info("Calling trigger URL",
			zap.String("url", triggerURL),
			zap.String("event", event.Type),
			zap.String("record_id", event.RecordID))

		if err := Post(ctx, triggerURL, event, httpClient, cfg); err != nil {
			logger.Error("Failed to call trigger URL",
				zap.Error(err),
				zap.String("url", triggerURL),
				zap.String("event", event.Type),
				zap.String("record_id", event.RecordID))
			return
		}

		logger.Info("Trigger URL called successfully",
			zap.String("url", triggerURL),
			zap.String("event", event.Type),
			zap.String("record_id", event.RecordID))
	}()

	return done
}
