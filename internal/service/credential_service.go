package service

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/identity-gateway/internal/domain"
	"github.com/spec-kit/identity-gateway/internal/idp"
	"github.com/spec-kit/identity-gateway/internal/session"
)

// CredentialService brokers machine tokens for pre-authentication flows.
// The credential is cached only in a short-lived cookie; when absent, a new
// client-credentials exchange is performed. There is no refresh logic.
type CredentialService struct {
	provider *idp.Client
	secure   bool
	logger   *zap.Logger
}

// NewCredentialService builds the service.
func NewCredentialService(provider *idp.Client, secure bool, logger *zap.Logger) *CredentialService {
	return &CredentialService{provider: provider, secure: secure, logger: logger}
}

// Obtain returns a service credential, reusing the cookie-cached token when
// present and otherwise exchanging client credentials and caching the
// result with TTL equal to the provider-reported expiry.
func (s *CredentialService) Obtain(c *fiber.Ctx) (string, error) {
	if cached := c.Cookies(session.ServiceCredentialCookie); cached != "" {
		return cached, nil
	}

	credential, err := s.provider.ClientCredentials(c.UserContext())
	if err != nil {
		return "", err
	}

	s.setCookie(c, credential)
	return credential.AccessToken, nil
}

func (s *CredentialService) setCookie(c *fiber.Ctx, credential *domain.ServiceCredential) {
	c.Cookie(&fiber.Cookie{
		Name:     session.ServiceCredentialCookie,
		Value:    credential.AccessToken,
		MaxAge:   credential.ExpiresIn,
		Expires:  time.Now().Add(time.Duration(credential.ExpiresIn) * time.Second),
		HTTPOnly: true,
		Secure:   s.secure,
		Path:     "/",
	})
}
