package idp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spec-kit/identity-gateway/internal/domain"
)

const mePath = "/v2.0/Me"

// Me proxies the provider's current-user resource with the session's
// bearer token. A 204 response returns a nil payload, distinct from a
// parsed (possibly empty) JSON object. The proxy never touches session
// state; after a successful delete the caller destroys the session.
func (c *Client) Me(ctx context.Context, method, bearerToken string, body []byte) (json.RawMessage, error) {
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.TenantURL+mePath, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/scim+json")
	req.Header.Set("Authorization", "Bearer "+bearerToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("user resource %s: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.upstreamError(mePath, resp)
	}

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	var payload json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode user resource: %w", err)
	}
	return payload, nil
}

// FetchMe reads the current-user resource into the typed record used to
// derive session claims at login.
func (c *Client) FetchMe(ctx context.Context, bearerToken string) (*domain.UserResource, error) {
	payload, err := c.Me(ctx, http.MethodGet, bearerToken, nil)
	if err != nil {
		return nil, err
	}
	var user domain.UserResource
	if err := json.Unmarshal(payload, &user); err != nil {
		return nil, fmt.Errorf("decode user record: %w", err)
	}
	return &user, nil
}
