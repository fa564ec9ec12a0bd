package session

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/identity-gateway/internal/observability"
)

// Landing pages the gate redirects to.
const (
	PublicLanding        = "/"
	AuthenticatedLanding = "/dashboard"
)

// Gate authorizes every inbound request before any handler runs. It only
// inspects the session cookie locally; it never calls upstream services,
// so request admission does not depend on provider availability.
type Gate struct {
	tokens     *TokenManager
	routes     *RouteClassifier
	cookieName string
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// NewGate constructs the request gate.
func NewGate(tokens *TokenManager, routes *RouteClassifier, cookieName string, logger *zap.Logger, metrics *observability.Metrics) *Gate {
	if cookieName == "" {
		cookieName = "user_session"
	}
	return &Gate{tokens: tokens, routes: routes, cookieName: cookieName, logger: logger, metrics: metrics}
}

// Handle applies the admission table:
//
//	valid session + public route     -> redirect to the authenticated landing
//	no session + protected API path  -> 401 JSON
//	no session + protected page      -> redirect to the public landing
//	anything else                    -> pass through
func (g *Gate) Handle(c *fiber.Ctx) error {
	path := c.Path()
	class := g.routes.Classify(path)

	valid := g.verify(c.Cookies(g.cookieName))

	if valid && class == RoutePublic {
		return c.Redirect(AuthenticatedLanding, http.StatusTemporaryRedirect)
	}

	if !valid && class == RouteProtected {
		if strings.HasPrefix(path, "/api/") {
			g.metrics.RecordGateDenial(path, "unauthorized")
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"message": "Unauthorized"})
		}
		g.metrics.RecordGateDenial(path, "redirect")
		return c.Redirect(PublicLanding, http.StatusTemporaryRedirect)
	}

	return c.Next()
}

// verify collapses absent, forged, and expired cookies into one outcome.
func (g *Gate) verify(raw string) bool {
	if raw == "" {
		return false
	}
	if _, err := g.tokens.Verify(raw); err != nil {
		if g.logger != nil {
			g.logger.Debug("request gate rejected session", zap.Error(err))
		}
		return false
	}
	return true
}
