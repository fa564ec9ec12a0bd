package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/spec-kit/identity-gateway/internal/api/dto"
	"github.com/spec-kit/identity-gateway/internal/events"
	"github.com/spec-kit/identity-gateway/internal/idp"
	"github.com/spec-kit/identity-gateway/internal/service"
)

// OTPHandler drives transient OTP issuance and verification through the
// provider's factor endpoints using the service credential. These flows
// run before any user session exists.
type OTPHandler struct {
	credentials *service.CredentialService
	provider    *idp.Client
	dispatcher  events.Dispatcher
}

// NewOTPHandler constructs handler.
func NewOTPHandler(credentials *service.CredentialService, provider *idp.Client, dispatcher events.Dispatcher) *OTPHandler {
	return &OTPHandler{credentials: credentials, provider: provider, dispatcher: dispatcher}
}

// RequestEmail handles POST /api/otp-request.
func (h *OTPHandler) RequestEmail(c *fiber.Ctx) error {
	var req dto.OTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.EmailAddress == "" {
		return fiber.NewError(http.StatusBadRequest, "emailAddress required")
	}
	return h.request(c, idp.OTPFactorEmail, req.EmailAddress, c.Body())
}

// RequestSMS handles POST /api/sms-otp-request.
func (h *OTPHandler) RequestSMS(c *fiber.Ctx) error {
	var req dto.SMSOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.PhoneNumber == "" {
		return fiber.NewError(http.StatusBadRequest, "phoneNumber required")
	}
	return h.request(c, idp.OTPFactorSMS, "", c.Body())
}

// VerifyEmail handles POST /api/verify-otp.
func (h *OTPHandler) VerifyEmail(c *fiber.Ctx) error {
	return h.verify(c, idp.OTPFactorEmail)
}

// VerifySMS handles POST /api/sms-verify-otp.
func (h *OTPHandler) VerifySMS(c *fiber.Ctx) error {
	return h.verify(c, idp.OTPFactorSMS)
}

func (h *OTPHandler) request(c *fiber.Ctx, factor idp.OTPFactor, email string, payload []byte) error {
	token, err := h.credentials.Obtain(c)
	if err != nil {
		return mapProviderError(err)
	}

	data, err := h.provider.RequestOTP(c.UserContext(), token, factor, payload)
	if err != nil {
		return mapProviderError(err)
	}

	h.publish(c, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventOTPRequested,
		Email:     email,
		Timestamp: time.Now(),
		Detail:    map[string]any{"factor": string(factor)},
	})

	var body json.RawMessage = data
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}

func (h *OTPHandler) verify(c *fiber.Ctx, factor idp.OTPFactor) error {
	var req dto.VerifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Otp == "" || req.OtpID == "" {
		return fiber.NewError(http.StatusBadRequest, "otp and otpId required")
	}

	token, err := h.credentials.Obtain(c)
	if err != nil {
		return mapProviderError(err)
	}

	if err := h.provider.VerifyOTP(c.UserContext(), token, factor, req.OtpID, req.Otp); err != nil {
		return mapProviderError(err)
	}

	h.publish(c, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventOTPVerified,
		Timestamp: time.Now(),
		Detail:    map[string]any{"factor": string(factor)},
	})
	return c.SendStatus(http.StatusNoContent)
}

func (h *OTPHandler) publish(c *fiber.Ctx, event events.Event) {
	if h.dispatcher == nil {
		return
	}
	_ = h.dispatcher.Publish(c.UserContext(), event)
}
