package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/salvex/salvex-api/internal/handlers"
	"github.com/salvex/salvex-api/internal/repository"
	"github.com/salvex/salvex-api/pkg/auth"
	"github.com/stretchr/testify/assert"
)

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(context.Context) error { return p.err }

func TestHealthHandler_Healthcheck(t *testing.T) {
	tests := []struct {
		name       string
		store      handlers.Pinger
		wantStatus int
		wantBody   string
	}{
		{
			name:       "memory store",
			store:      repository.NewInquiryRepository(repository.NewMemoryInquiryDataSource(), auth.NewSecretAuthorizer("s")),
			wantStatus: http.StatusOK,
			wantBody:   `{"status":"ok"}`,
		},
		{
			name:       "store unreachable",
			store:      stubPinger{err: errors.New("connection refused")},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   `{"status":"unavailable","reason":"inquiry store unreachable"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/healthcheck", handlers.NewHealthHandler(tt.store).Healthcheck)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthcheck", http.NoBody))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
			assert.Contains(t, w.Header().Get("Cache-Control"), "no-store")
		})
	}
}
