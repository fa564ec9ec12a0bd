package idp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/spec-kit/identity-gateway/internal/domain"
)

// Missing deployment configuration discovered at request time. Handlers map
// these to a 500-class response instead of crashing the process.
var (
	ErrServiceClientNotConfigured = errors.New("client-credentials OAuth client not configured")
	ErrLoginClientNotConfigured   = errors.New("authorization-code OAuth client not configured")
)

type tokenResponse struct {
	AccessToken      string `json:"access_token"`
	ExpiresIn        int    `json:"expires_in"`
	ErrorDescription string `json:"error_description"`
}

// ExchangeCode swaps an authorization code for a user access token.
func (c *Client) ExchangeCode(ctx context.Context, code string) (string, error) {
	if !c.cfg.HasLoginClient() {
		return "", ErrLoginClientNotConfigured
	}

	form := url.Values{
		"grant_type":    {"authorization_code"},
		"client_id":     {c.cfg.LoginClientID},
		"client_secret": {c.cfg.LoginClientSecret},
		"code":          {code},
		"redirect_uri":  {c.cfg.RedirectURI},
		"scope":         {"openid"},
	}

	token, err := c.postTokenEndpoint(ctx, form)
	if err != nil {
		return "", err
	}
	return token.AccessToken, nil
}

// ClientCredentials performs a machine token exchange. The credential is
// not tied to any user and is valid for the provider-reported expiry.
func (c *Client) ClientCredentials(ctx context.Context) (*domain.ServiceCredential, error) {
	if !c.cfg.HasServiceClient() {
		return nil, ErrServiceClientNotConfigured
	}

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"scope":         {c.cfg.Scope},
		"client_id":     {c.cfg.ClientID},
		"client_secret": {c.cfg.ClientSecret},
	}

	token, err := c.postTokenEndpoint(ctx, form)
	if err != nil {
		return nil, err
	}

	expiresIn := token.ExpiresIn
	if expiresIn <= 0 {
		expiresIn = c.cfg.CredentialTTLFallback
	}
	return &domain.ServiceCredential{AccessToken: token.AccessToken, ExpiresIn: expiresIn}, nil
}

func (c *Client) postTokenEndpoint(ctx context.Context, form url.Values) (*tokenResponse, error) {
	endpoint := c.cfg.TenantURL + "/oauth2/token"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.upstreamError("/oauth2/token", resp)
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	if token.AccessToken == "" {
		return nil, errors.New("access token not received from provider")
	}
	return &token, nil
}

// AuthorizeURL builds the browser redirect for starting a login.
func (c *Client) AuthorizeURL() (string, error) {
	if !c.cfg.HasLoginClient() {
		return "", ErrLoginClientNotConfigured
	}
	q := url.Values{
		"client_id":     {c.cfg.LoginClientID},
		"response_type": {"code"},
		"redirect_uri":  {c.cfg.RedirectURI},
		"scope":         {c.cfg.Scope},
	}
	return c.cfg.TenantURL + "/oauth2/authorize?" + q.Encode(), nil
}

// LogoutURL returns the provider logout endpoint the browser should visit
// after the local session is destroyed.
func (c *Client) LogoutURL() string {
	u := c.cfg.TenantURL + "/idaas/mtfim/sps/idaas/logout"
	if c.cfg.LogoutThemeID != "" {
		u += "?themeId=" + url.QueryEscape(c.cfg.LogoutThemeID)
	}
	return u
}

// ChangePasswordURL returns the provider's hosted change-password flow.
func (c *Client) ChangePasswordURL() string {
	return c.cfg.TenantURL + "/authsvc/mtfim/sps/authsvc?PolicyId=urn:ibm:security:authentication:asf:changepassword&login_hint="
}
