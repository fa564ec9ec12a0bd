package idp

import (
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/spec-kit/identity-gateway/internal/config"
)

// UpstreamError carries a non-success provider response. Status and body
// are kept for diagnostics; callers pass the status through and log the
// body without interpreting provider-specific codes.
type UpstreamError struct {
	Endpoint string
	Status   int
	Body     string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("provider %s returned %d: %s", e.Endpoint, e.Status, e.Body)
}

// Client wraps outbound calls to the identity provider. All calls are
// bounded by the configured HTTP timeout; there is no retry, a failed call
// surfaces immediately.
type Client struct {
	cfg    config.ProviderConfig
	http   *http.Client
	logger *zap.Logger
}

// NewClient constructs a provider client.
func NewClient(cfg config.ProviderConfig, logger *zap.Logger) *Client {
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.HTTPTimeout()},
		logger: logger,
	}
}

// upstreamError drains the response body into a typed failure and logs it.
func (c *Client) upstreamError(endpoint string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 16*1024))
	err := &UpstreamError{Endpoint: endpoint, Status: resp.StatusCode, Body: string(body)}
	if c.logger != nil {
		c.logger.Error("provider call failed",
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode),
			zap.String("body", err.Body))
	}
	return err
}
