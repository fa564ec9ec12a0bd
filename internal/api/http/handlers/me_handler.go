package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/spec-kit/identity-gateway/internal/events"
	"github.com/spec-kit/identity-gateway/internal/idp"
	"github.com/spec-kit/identity-gateway/internal/session"
	apperrors "github.com/spec-kit/identity-gateway/pkg/util"
)

// MeHandler proxies the provider's current-user resource with the
// session's bearer token.
type MeHandler struct {
	store      *session.Store
	provider   *idp.Client
	dispatcher events.Dispatcher
}

// NewMeHandler constructs handler.
func NewMeHandler(store *session.Store, provider *idp.Client, dispatcher events.Dispatcher) *MeHandler {
	return &MeHandler{store: store, provider: provider, dispatcher: dispatcher}
}

// Get handles GET /api/me.
func (h *MeHandler) Get(c *fiber.Ctx) error {
	identity, err := h.store.Require(c)
	if err != nil {
		return apperrors.NewUnauthorized("Unauthorized")
	}

	data, err := h.provider.Me(c.UserContext(), http.MethodGet, identity.AccessToken, nil)
	if err != nil {
		return mapProviderError(err)
	}
	return sendJSON(c, data)
}

// Put handles PUT /api/me, replacing the user resource.
func (h *MeHandler) Put(c *fiber.Ctx) error {
	identity, err := h.store.Require(c)
	if err != nil {
		return apperrors.NewUnauthorized("Unauthorized")
	}

	data, err := h.provider.Me(c.UserContext(), http.MethodPut, identity.AccessToken, c.Body())
	if err != nil {
		return mapProviderError(err)
	}
	return sendJSON(c, data)
}

// Delete handles DELETE /api/me. The proxy never touches session state, so
// the session is destroyed here after the upstream delete succeeds.
func (h *MeHandler) Delete(c *fiber.Ctx) error {
	identity, err := h.store.Require(c)
	if err != nil {
		return apperrors.NewUnauthorized("Unauthorized")
	}

	if _, err := h.provider.Me(c.UserContext(), http.MethodDelete, identity.AccessToken, nil); err != nil {
		return mapProviderError(err)
	}

	h.store.Destroy(c)
	if h.dispatcher != nil {
		_ = h.dispatcher.Publish(c.UserContext(), events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventAccountDeleted,
			Email:     identity.Email,
			Timestamp: time.Now(),
		})
	}
	return c.JSON(fiber.Map{"message": "Account deleted successfully"})
}

// sendJSON writes a raw upstream payload, distinguishing "nothing to
// parse" (204 upstream) from a parsed empty object.
func sendJSON(c *fiber.Ctx, data []byte) error {
	if data == nil {
		return c.SendStatus(http.StatusNoContent)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(data)
}
