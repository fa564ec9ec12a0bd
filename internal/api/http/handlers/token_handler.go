package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/identity-gateway/internal/service"
)

// TokenHandler exposes the service-credential endpoint used by
// pre-authentication flows.
type TokenHandler struct {
	credentials *service.CredentialService
}

// NewTokenHandler constructs handler.
func NewTokenHandler(credentials *service.CredentialService) *TokenHandler {
	return &TokenHandler{credentials: credentials}
}

// Issue handles POST /api/get-access-token: returns a cached credential or
// performs a client-credentials exchange, caching the result in a cookie.
func (h *TokenHandler) Issue(c *fiber.Ctx) error {
	token, err := h.credentials.Obtain(c)
	if err != nil {
		return mapProviderError(err)
	}
	return c.JSON(fiber.Map{"success": true, "access_token": token})
}
