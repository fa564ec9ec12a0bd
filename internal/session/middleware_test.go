package session_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/identity-gateway/internal/observability"
	"github.com/spec-kit/identity-gateway/internal/session"
)

func newGateApp(t *testing.T) (*fiber.App, *session.TokenManager) {
	t.Helper()

	tm := session.NewTokenManager(testSecret, time.Hour)
	rc, err := session.NewRouteClassifier(session.DefaultProtectedPrefixes, session.DefaultPublicRoutes)
	require.NoError(t, err)

	gate := session.NewGate(tm, rc, "user_session", zap.NewNop(), observability.NewMetrics())

	app := fiber.New()
	app.Use(gate.Handle)
	for _, path := range []string{"/", "/login", "/signup", "/dashboard", "/profile", "/api/me"} {
		app.Get(path, func(c *fiber.Ctx) error {
			return c.SendString("handler ran")
		})
	}
	return app, tm
}

func gateRequest(t *testing.T, app *fiber.App, path, cookie string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "user_session", Value: cookie})
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestGateNoCookieProtectedPage(t *testing.T) {
	app, _ := newGateApp(t)

	resp := gateRequest(t, app, "/dashboard", "")
	require.Equal(t, http.StatusTemporaryRedirect, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get("Location"))
}

func TestGateNoCookieProtectedAPI(t *testing.T) {
	app, _ := newGateApp(t)

	resp := gateRequest(t, app, "/api/me", "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.JSONEq(t, `{"message":"Unauthorized"}`, string(body))
}

func TestGateValidSessionPublicRoute(t *testing.T) {
	app, tm := newGateApp(t)
	token, _, err := tm.Issue(testIdentity())
	require.NoError(t, err)

	resp := gateRequest(t, app, "/login", token)
	require.Equal(t, http.StatusTemporaryRedirect, resp.StatusCode)
	require.Equal(t, "/dashboard", resp.Header.Get("Location"))
}

func TestGateValidSessionProtectedRoute(t *testing.T) {
	app, tm := newGateApp(t)
	token, _, err := tm.Issue(testIdentity())
	require.NoError(t, err)

	resp := gateRequest(t, app, "/dashboard", token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, "handler ran", string(body))
}

func TestGateExpiredSessionProtectedPage(t *testing.T) {
	app, _ := newGateApp(t)
	expired := signWithExpiry(t, testSecret, testIdentity(), time.Now().Add(-1*time.Second))

	resp := gateRequest(t, app, "/profile", expired)
	require.Equal(t, http.StatusTemporaryRedirect, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get("Location"))
}

func TestGateForgedCookieSameOutcomeAsExpired(t *testing.T) {
	app, _ := newGateApp(t)

	forged := signWithExpiry(t, "attacker-secret", testIdentity(), time.Now().Add(time.Hour))
	resp := gateRequest(t, app, "/profile", forged)
	require.Equal(t, http.StatusTemporaryRedirect, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get("Location"))
}

func TestGateUnclassifiedPassesThrough(t *testing.T) {
	app, _ := newGateApp(t)
	app.Get("/random/unknown", func(c *fiber.Ctx) error {
		return c.SendString("handler ran")
	})

	resp := gateRequest(t, app, "/random/unknown", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
