package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/salvex/salvex-api/pkg/auth"
	"github.com/salvex/salvex-api/pkg/logger"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)

	if err := logger.Initialize(logger.Config{Level: "debug", Environment: "development"}); err != nil {
		panic(err)
	}
}

func adminRouter(secret string, handlerCalled *bool) *gin.Engine {
	router := gin.New()
	router.Use(AdminTokenMiddleware(auth.NewSecretAuthorizer(secret)))
	router.GET("/test", func(c *gin.Context) {
		*handlerCalled = true
		c.Status(http.StatusOK)
	})
	return router
}

func TestAdminTokenMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		secret     string
		headers    map[string]string
		wantStatus int
	}{
		{
			name:       "bearer token",
			secret:     "s3cret",
			headers:    map[string]string{"Authorization": "Bearer s3cret"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "bare authorization",
			secret:     "s3cret",
			headers:    map[string]string{"Authorization": "s3cret"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "x-admin-token fallback",
			secret:     "s3cret",
			headers:    map[string]string{"x-admin-token": "s3cret"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "authorization takes precedence",
			secret:     "s3cret",
			headers:    map[string]string{"Authorization": "Bearer wrong", "x-admin-token": "s3cret"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "blank authorization skips fallback",
			secret:     "s3cret",
			headers:    map[string]string{"Authorization": "", "x-admin-token": "s3cret"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong token",
			secret:     "s3cret",
			headers:    map[string]string{"Authorization": "Bearer nope"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "missing token",
			secret:     "s3cret",
			headers:    map[string]string{},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "unconfigured secret rejects empty token",
			secret:     "",
			headers:    map[string]string{},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "unconfigured secret rejects any token",
			secret:     "",
			headers:    map[string]string{"Authorization": "Bearer anything"},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled := false
			router := adminRouter(tt.secret, &handlerCalled)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantStatus == http.StatusOK, handlerCalled)
			if tt.wantStatus == http.StatusUnauthorized {
				assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())
			}
		})
	}
}

func TestAdminTokenMiddleware_NilAuthorizer(t *testing.T) {
	router := gin.New()
	router.Use(AdminTokenMiddleware(nil))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("Authorization", "Bearer x")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
