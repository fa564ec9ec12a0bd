package idp_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/identity-gateway/internal/config"
	"github.com/spec-kit/identity-gateway/internal/idp"
)

func providerConfig(tenantURL string) config.ProviderConfig {
	return config.ProviderConfig{
		TenantURL:             tenantURL,
		ClientID:              "svc-client",
		ClientSecret:          "svc-secret",
		Scope:                 "otp",
		LoginClientID:         "login-client",
		LoginClientSecret:     "login-secret",
		RedirectURI:           "https://app.example.com/",
		HTTPTimeoutSeconds:    5,
		CredentialTTLFallback: 3600,
	}
}

func newClient(t *testing.T, handler http.Handler) (*idp.Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return idp.NewClient(providerConfig(server.URL), zap.NewNop()), server
}

func TestClientCredentials(t *testing.T) {
	t.Run("success with provider expiry", func(t *testing.T) {
		client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/oauth2/token", r.URL.Path)
			require.NoError(t, r.ParseForm())
			require.Equal(t, "client_credentials", r.FormValue("grant_type"))
			require.Equal(t, "svc-client", r.FormValue("client_id"))
			require.Equal(t, "otp", r.FormValue("scope"))
			_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "machine-token", "expires_in": 7200})
		}))

		credential, err := client.ClientCredentials(context.Background())
		require.NoError(t, err)
		require.Equal(t, "machine-token", credential.AccessToken)
		require.Equal(t, 7200, credential.ExpiresIn)
	})

	t.Run("fallback expiry when provider omits it", func(t *testing.T) {
		client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "machine-token"})
		}))

		credential, err := client.ClientCredentials(context.Background())
		require.NoError(t, err)
		require.Equal(t, 3600, credential.ExpiresIn)
	})

	t.Run("upstream failure carries status and body", func(t *testing.T) {
		client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":"access_denied"}`))
		}))

		_, err := client.ClientCredentials(context.Background())
		var upstream *idp.UpstreamError
		require.ErrorAs(t, err, &upstream)
		require.Equal(t, http.StatusForbidden, upstream.Status)
		require.Contains(t, upstream.Body, "access_denied")
	})

	t.Run("missing configuration", func(t *testing.T) {
		cfg := providerConfig("https://tenant.example.com")
		cfg.ClientSecret = ""
		client := idp.NewClient(cfg, zap.NewNop())

		_, err := client.ClientCredentials(context.Background())
		require.ErrorIs(t, err, idp.ErrServiceClientNotConfigured)
	})
}

func TestExchangeCode(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			require.Equal(t, "authorization_code", r.FormValue("grant_type"))
			require.Equal(t, "login-client", r.FormValue("client_id"))
			require.Equal(t, "abc123", r.FormValue("code"))
			require.Equal(t, "https://app.example.com/", r.FormValue("redirect_uri"))
			_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "user-token", "expires_in": 3600})
		}))

		token, err := client.ExchangeCode(context.Background(), "abc123")
		require.NoError(t, err)
		require.Equal(t, "user-token", token)
	})

	t.Run("missing login client", func(t *testing.T) {
		cfg := providerConfig("https://tenant.example.com")
		cfg.LoginClientID = ""
		client := idp.NewClient(cfg, zap.NewNop())

		_, err := client.ExchangeCode(context.Background(), "abc123")
		require.ErrorIs(t, err, idp.ErrLoginClientNotConfigured)
	})

	t.Run("empty token response", func(t *testing.T) {
		client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{})
		}))

		_, err := client.ExchangeCode(context.Background(), "abc123")
		require.Error(t, err)
	})
}

func TestMeProxy(t *testing.T) {
	t.Run("get returns raw payload", func(t *testing.T) {
		client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/v2.0/Me", r.URL.Path)
			require.Equal(t, http.MethodGet, r.Method)
			require.Equal(t, "Bearer user-token", r.Header.Get("Authorization"))
			require.Equal(t, "application/scim+json", r.Header.Get("Content-Type"))
			_, _ = w.Write([]byte(`{"userName":"ada@example.com"}`))
		}))

		payload, err := client.Me(context.Background(), http.MethodGet, "user-token", nil)
		require.NoError(t, err)
		require.JSONEq(t, `{"userName":"ada@example.com"}`, string(payload))
	})

	t.Run("delete returns nil on 204", func(t *testing.T) {
		client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodDelete, r.Method)
			w.WriteHeader(http.StatusNoContent)
		}))

		payload, err := client.Me(context.Background(), http.MethodDelete, "user-token", nil)
		require.NoError(t, err)
		require.Nil(t, payload)
	})

	t.Run("upstream failure surfaces status", func(t *testing.T) {
		client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte("no such user"))
		}))

		_, err := client.Me(context.Background(), http.MethodGet, "user-token", nil)
		var upstream *idp.UpstreamError
		require.ErrorAs(t, err, &upstream)
		require.Equal(t, http.StatusNotFound, upstream.Status)
		require.Equal(t, "no such user", upstream.Body)
	})
}

func TestFetchMe(t *testing.T) {
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"userName": "ada@example.com",
			"name": {"formatted": "Ada Lovelace"},
			"urn:ietf:params:scim:schemas:extension:ibm:2.0:User": {
				"customAttributes": [{"name": "role", "values": ["admin"]}]
			}
		}`))
	}))

	user, err := client.FetchMe(context.Background(), "user-token")
	require.NoError(t, err)

	identity := user.Identity("user-token")
	require.Equal(t, "Ada Lovelace", identity.Name)
	require.Equal(t, "ada@example.com", identity.Email)
	require.Equal(t, "admin", identity.Role)
	require.Equal(t, "user-token", identity.AccessToken)
}

func TestOTPEndpoints(t *testing.T) {
	t.Run("request email otp", func(t *testing.T) {
		client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/v2.0/factors/emailotp/transient/verifications", r.URL.Path)
			require.Equal(t, "Bearer machine-token", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`{"id":"otp-1","correlation":"1234"}`))
		}))

		data, err := client.RequestOTP(context.Background(), "machine-token", idp.OTPFactorEmail,
			[]byte(`{"emailAddress":"ada@example.com","correlation":1234}`))
		require.NoError(t, err)
		require.JSONEq(t, `{"id":"otp-1","correlation":"1234"}`, string(data))
	})

	t.Run("verify sms otp", func(t *testing.T) {
		client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/v2.0/factors/smsotp/transient/verifications/otp-2", r.URL.Path)
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, "987654", body["otp"])
			w.WriteHeader(http.StatusNoContent)
		}))

		err := client.VerifyOTP(context.Background(), "machine-token", idp.OTPFactorSMS, "otp-2", "987654")
		require.NoError(t, err)
	})

	t.Run("verify failure is upstream error", func(t *testing.T) {
		client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte("invalid otp"))
		}))

		err := client.VerifyOTP(context.Background(), "machine-token", idp.OTPFactorEmail, "otp-3", "000000")
		var upstream *idp.UpstreamError
		require.ErrorAs(t, err, &upstream)
		require.Equal(t, http.StatusBadRequest, upstream.Status)
	})
}

func TestProviderURLs(t *testing.T) {
	cfg := providerConfig("https://tenant.example.com")
	cfg.LogoutThemeID = "theme-1"
	client := idp.NewClient(cfg, zap.NewNop())

	authorizeURL, err := client.AuthorizeURL()
	require.NoError(t, err)
	require.Contains(t, authorizeURL, "https://tenant.example.com/oauth2/authorize?")
	require.Contains(t, authorizeURL, "client_id=login-client")
	require.Contains(t, authorizeURL, "response_type=code")

	require.Equal(t, "https://tenant.example.com/idaas/mtfim/sps/idaas/logout?themeId=theme-1", client.LogoutURL())
	require.Contains(t, client.ChangePasswordURL(), "changepassword")
}
