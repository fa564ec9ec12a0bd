package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/identity-gateway/internal/api/http/handlers"
	"github.com/spec-kit/identity-gateway/internal/ratelimit"
	"github.com/spec-kit/identity-gateway/internal/session"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health               *handlers.HealthHandler
	Auth                 *handlers.AuthHandler
	Me                   *handlers.MeHandler
	Token                *handlers.TokenHandler
	OTP                  *handlers.OTPHandler
	Gate                 *session.Gate
	Limiter              *ratelimit.Limiter
	OTPRequestsPerMinute int
}

// RegisterRoutes wires HTTP routes. The request gate runs ahead of every
// route so admission decisions always precede handler logic.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Use(cfg.Gate.Handle)

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")
	api.Post("/login", cfg.Auth.Login)
	api.Post("/logout", cfg.Auth.Logout)
	api.Post("/refresh-session", cfg.Auth.Refresh)
	api.Get("/get-redirect-url", cfg.Auth.RedirectURL)
	api.Get("/change-password", cfg.Auth.ChangePasswordURL)

	api.Post("/get-access-token", cfg.Token.Issue)

	otpLimit := cfg.Limiter.PerMinute("otp", cfg.OTPRequestsPerMinute)
	api.Post("/otp-request", otpLimit, cfg.OTP.RequestEmail)
	api.Post("/verify-otp", otpLimit, cfg.OTP.VerifyEmail)
	api.Post("/sms-otp-request", otpLimit, cfg.OTP.RequestSMS)
	api.Post("/sms-verify-otp", otpLimit, cfg.OTP.VerifySMS)

	api.Get("/me", cfg.Me.Get)
	api.Put("/me", cfg.Me.Put)
	api.Delete("/me", cfg.Me.Delete)
}
