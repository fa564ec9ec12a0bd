package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/identity-gateway/internal/config"
)

func validConfig() *config.Config {
	return &config.Config{
		Session:  config.SessionConfig{Secret: "secret", TTLDays: 7, CookieName: "user_session"},
		Provider: config.ProviderConfig{TenantURL: "https://tenant.example.com"},
	}
}

func TestValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		require.NoError(t, validConfig().Validate())
	})

	t.Run("missing secret is fatal", func(t *testing.T) {
		cfg := validConfig()
		cfg.Session.Secret = ""
		require.Error(t, cfg.Validate())
	})

	t.Run("missing tenant url is fatal", func(t *testing.T) {
		cfg := validConfig()
		cfg.Provider.TenantURL = ""
		require.Error(t, cfg.Validate())
	})

	t.Run("non-positive ttl is fatal", func(t *testing.T) {
		cfg := validConfig()
		cfg.Session.TTLDays = 0
		require.Error(t, cfg.Validate())
	})
}

func TestSessionTTL(t *testing.T) {
	cfg := config.SessionConfig{TTLDays: 7}
	require.Equal(t, 7*24*time.Hour, cfg.TTL())
}

func TestProviderClientPresence(t *testing.T) {
	provider := config.ProviderConfig{
		TenantURL:    "https://tenant.example.com",
		ClientID:     "id",
		ClientSecret: "secret",
		Scope:        "otp",
	}
	require.True(t, provider.HasServiceClient())
	require.False(t, provider.HasLoginClient())

	provider.LoginClientID = "login"
	provider.LoginClientSecret = "login-secret"
	provider.RedirectURI = "https://app.example.com/"
	require.True(t, provider.HasLoginClient())

	provider.ClientSecret = ""
	require.False(t, provider.HasServiceClient())
}
