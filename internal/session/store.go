package session

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/identity-gateway/internal/domain"
)

// ErrNoSession signals that no valid session exists on the request. The
// HTTP layer translates it into a redirect (pages) or a 401 (API routes);
// it is a control-transfer value, not a fault.
var ErrNoSession = errors.New("no valid session")

// Cookies the store owns. Destroy clears all of them so logout leaves no
// authentication artifact behind.
const (
	ServiceCredentialCookie = "access_token"
	idTokenCookie           = "id_token"
	refreshTokenCookie      = "refresh_token"
)

// Store persists the session token in a browser cookie. The cookie is the
// only state; the server re-verifies it on every read.
type Store struct {
	tokens     *TokenManager
	cookieName string
	secure     bool
	logger     *zap.Logger
}

// NewStore builds a cookie-backed session store.
func NewStore(tokens *TokenManager, cookieName string, secure bool, logger *zap.Logger) *Store {
	if cookieName == "" {
		cookieName = "user_session"
	}
	return &Store{tokens: tokens, cookieName: cookieName, secure: secure, logger: logger}
}

// CookieName returns the session cookie name.
func (s *Store) CookieName() string {
	return s.cookieName
}

// Create issues a token for the identity and sets the session cookie. The
// cookie expiry matches the token expiry exactly.
func (s *Store) Create(c *fiber.Ctx, identity domain.Identity) error {
	token, expiresAt, err := s.tokens.Issue(identity)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     s.cookieName,
		Value:    token,
		Expires:  expiresAt,
		HTTPOnly: true,
		Secure:   s.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
	return nil
}

// Read returns the identity from the session cookie, or false when the
// cookie is absent, forged, or expired. The cause is logged but never
// surfaced to callers.
func (s *Store) Read(c *fiber.Ctx) (domain.Identity, bool) {
	raw := c.Cookies(s.cookieName)
	if raw == "" {
		return domain.Identity{}, false
	}

	claims, err := s.tokens.Verify(raw)
	if err != nil {
		if s.logger != nil {
			s.logger.Debug("session verification failed", zap.Error(err))
		}
		return domain.Identity{}, false
	}
	return claims.Identity(), true
}

// Refresh re-issues the session with identical claims and a new token id
// and expiry. No-op when no valid session exists.
func (s *Store) Refresh(c *fiber.Ctx) error {
	identity, ok := s.Read(c)
	if !ok {
		return nil
	}
	return s.Create(c, identity)
}

// Destroy clears the session cookie and every auxiliary auth cookie.
func (s *Store) Destroy(c *fiber.Ctx) {
	for _, name := range []string{s.cookieName, ServiceCredentialCookie, idTokenCookie, refreshTokenCookie} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Expires:  time.Now().Add(-time.Hour),
			HTTPOnly: true,
			Secure:   s.secure,
			SameSite: fiber.CookieSameSiteLaxMode,
			Path:     "/",
		})
	}
}

// Require returns the current identity or ErrNoSession.
func (s *Store) Require(c *fiber.Ctx) (domain.Identity, error) {
	identity, ok := s.Read(c)
	if !ok {
		return domain.Identity{}, ErrNoSession
	}
	return identity, nil
}
