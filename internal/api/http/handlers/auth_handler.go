package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/spec-kit/identity-gateway/internal/api/dto"
	"github.com/spec-kit/identity-gateway/internal/events"
	"github.com/spec-kit/identity-gateway/internal/idp"
	"github.com/spec-kit/identity-gateway/internal/service"
	"github.com/spec-kit/identity-gateway/internal/session"
)

// AuthHandler exposes the login, logout, and session lifecycle endpoints.
type AuthHandler struct {
	login      *service.LoginService
	store      *session.Store
	provider   *idp.Client
	dispatcher events.Dispatcher
}

// NewAuthHandler constructs handler.
func NewAuthHandler(login *service.LoginService, store *session.Store, provider *idp.Client, dispatcher events.Dispatcher) *AuthHandler {
	return &AuthHandler{login: login, store: store, provider: provider, dispatcher: dispatcher}
}

// Login handles POST /api/login: exchanges the authorization code and
// creates the session cookie.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Code == "" {
		return fiber.NewError(http.StatusBadRequest, "authorization code is missing")
	}

	identity, err := h.login.Authenticate(c.UserContext(), req.Code)
	if err != nil {
		return mapProviderError(err)
	}

	if err := h.store.Create(c, identity); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

// Logout handles POST /api/logout: destroys the session and returns the
// provider logout URL for the browser to visit.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	identity, ok := h.store.Read(c)
	h.store.Destroy(c)

	if ok {
		h.publish(c, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventLogout,
			Email:     identity.Email,
			Timestamp: time.Now(),
		})
	}
	return c.JSON(fiber.Map{"url": h.provider.LogoutURL()})
}

// Refresh handles POST /api/refresh-session: re-issues the session with a
// new token id and expiry. No-op without a valid session.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	identity, ok := h.store.Read(c)
	if !ok {
		return c.JSON(fiber.Map{"success": false})
	}

	if err := h.store.Create(c, identity); err != nil {
		return err
	}
	h.publish(c, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventSessionRefreshed,
		Email:     identity.Email,
		Timestamp: time.Now(),
	})
	return c.JSON(fiber.Map{"success": true})
}

// RedirectURL handles GET /api/get-redirect-url.
func (h *AuthHandler) RedirectURL(c *fiber.Ctx) error {
	url, err := h.provider.AuthorizeURL()
	if err != nil {
		return mapProviderError(err)
	}
	return c.JSON(fiber.Map{"redirectUrl": url})
}

// ChangePasswordURL handles GET /api/change-password, returning the
// provider's hosted change-password flow for the authenticated user.
func (h *AuthHandler) ChangePasswordURL(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"url": h.provider.ChangePasswordURL()})
}

func (h *AuthHandler) publish(c *fiber.Ctx, event events.Event) {
	if h.dispatcher == nil {
		return
	}
	_ = h.dispatcher.Publish(c.UserContext(), event)
}
