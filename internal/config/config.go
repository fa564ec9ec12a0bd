package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the gateway.
type Config struct {
	App      AppConfig
	Session  SessionConfig
	Provider ProviderConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// SessionConfig defines session token parameters.
type SessionConfig struct {
	Secret     string
	TTLDays    int
	CookieName string
}

// ProviderConfig holds identity provider connection values.
//
// Two OAuth clients talk to the same tenant: a machine client
// (ClientID/ClientSecret/Scope) for client-credentials exchanges, and a
// login client (LoginClientID/LoginClientSecret) for the
// authorization-code flow.
type ProviderConfig struct {
	TenantURL             string
	ClientID              string
	ClientSecret          string
	Scope                 string
	LoginClientID         string
	LoginClientSecret     string
	RedirectURI           string
	LogoutThemeID         string
	HTTPTimeoutSeconds    int
	CredentialTTLFallback int
	OTPRequestsPerMinute  int
}

// PostgresConfig holds DB connection values for the audit trail.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "identity-gateway"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Session: SessionConfig{
			Secret:     os.Getenv("SESSION_SECRET"),
			TTLDays:    getEnvAsInt("SESSION_TTL_DAYS", 7),
			CookieName: getEnv("SESSION_COOKIE_NAME", "user_session"),
		},
		Provider: ProviderConfig{
			TenantURL:             os.Getenv("TENANT_URL"),
			ClientID:              os.Getenv("OAUTH_CLIENT_ID"),
			ClientSecret:          os.Getenv("OAUTH_CLIENT_SECRET"),
			Scope:                 getEnv("OAUTH_SCOPE", "openid"),
			LoginClientID:         os.Getenv("OAUTH_LOGIN_CLIENT_ID"),
			LoginClientSecret:     os.Getenv("OAUTH_LOGIN_CLIENT_SECRET"),
			RedirectURI:           os.Getenv("OAUTH_REDIRECT_URI"),
			LogoutThemeID:         os.Getenv("PROVIDER_LOGOUT_THEME_ID"),
			HTTPTimeoutSeconds:    getEnvAsInt("PROVIDER_HTTP_TIMEOUT_SECONDS", 15),
			CredentialTTLFallback: getEnvAsInt("PROVIDER_CREDENTIAL_TTL_SECONDS", 3600),
			OTPRequestsPerMinute:  getEnvAsInt("OTP_REQUESTS_PER_MINUTE", 10),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate enforces startup invariants. The signing secret and tenant URL
// must be present before the process accepts traffic; missing OAuth client
// values are tolerated here and reported per-request by the flows that need
// them.
func (c *Config) Validate() error {
	if c.Session.Secret == "" {
		return fmt.Errorf("SESSION_SECRET is not set")
	}
	if c.Session.TTLDays <= 0 {
		return fmt.Errorf("SESSION_TTL_DAYS must be positive")
	}
	if c.Provider.TenantURL == "" {
		return fmt.Errorf("TENANT_URL is not set")
	}
	return nil
}

// IsProduction reports whether the app runs in production mode.
func (a AppConfig) IsProduction() bool {
	return a.Env == "production"
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// TTL returns the session lifetime.
func (s SessionConfig) TTL() time.Duration {
	return time.Duration(s.TTLDays) * 24 * time.Hour
}

// HTTPTimeout bounds outbound provider calls.
func (p ProviderConfig) HTTPTimeout() time.Duration {
	return time.Duration(p.HTTPTimeoutSeconds) * time.Second
}

// HasServiceClient reports whether client-credentials settings are present.
func (p ProviderConfig) HasServiceClient() bool {
	return p.TenantURL != "" && p.ClientID != "" && p.ClientSecret != "" && p.Scope != ""
}

// HasLoginClient reports whether authorization-code settings are present.
func (p ProviderConfig) HasLoginClient() bool {
	return p.TenantURL != "" && p.LoginClientID != "" && p.LoginClientSecret != "" && p.RedirectURI != ""
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
