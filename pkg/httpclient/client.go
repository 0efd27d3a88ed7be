package httpclient

import (
	"io"
	"net/http"
	"time"
)

const (
	defaultTimeout = 10 * time.Second
	userAgent      = "salvex-api"
)

// Client is the outbound HTTP surface; tests substitute their own
type Client interface {
	Post(url, contentType string, body io.Reader) (*http.Response, error)
	Get(url string) (*http.Response, error)
	Do(req *http.Request) (*http.Response, error)
}

// StandardHTTPClient wraps http.Client and stamps a User-Agent
type StandardHTTPClient struct {
	client *http.Client
}

// NewStandardClient creates a client with the default timeout
func NewStandardClient() Client {
	return NewClientWithTimeout(defaultTimeout)
}

// NewClientWithTimeout creates a client; a non-positive timeout uses the default
func NewClientWithTimeout(timeout time.Duration) Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &StandardHTTPClient{
		client: &http.Client{Timeout: timeout},
	}
}

// Post makes a POST request
func (c *StandardHTTPClient) Post(url, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	return c.Do(req)
}

// Get makes a GET request
func (c *StandardHTTPClient) Get(url string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return c.Do(req)
}

// Do executes an HTTP request
func (c *StandardHTTPClient) Do(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", userAgent)
	}
	return c.client.Do(req)
}
