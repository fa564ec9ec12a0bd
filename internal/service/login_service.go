package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/identity-gateway/internal/domain"
	"github.com/spec-kit/identity-gateway/internal/events"
	"github.com/spec-kit/identity-gateway/internal/idp"
)

// LoginService performs the code-exchange login flow against the identity
// provider and derives the session claims.
type LoginService struct {
	provider   *idp.Client
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewLoginService builds the service.
func NewLoginService(provider *idp.Client, dispatcher events.Dispatcher, logger *zap.Logger) *LoginService {
	return &LoginService{provider: provider, dispatcher: dispatcher, logger: logger}
}

// Authenticate exchanges the authorization code for a user access token,
// loads the user record, and returns the identity the session should carry.
// Session creation is the caller's responsibility.
func (s *LoginService) Authenticate(ctx context.Context, code string) (domain.Identity, error) {
	accessToken, err := s.provider.ExchangeCode(ctx, code)
	if err != nil {
		s.publishFailure(ctx, "token_exchange", err)
		return domain.Identity{}, err
	}

	user, err := s.provider.FetchMe(ctx, accessToken)
	if err != nil {
		s.publishFailure(ctx, "fetch_profile", err)
		return domain.Identity{}, err
	}

	identity := user.Identity(accessToken)

	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventLoginSucceeded,
		Email:     identity.Email,
		Timestamp: time.Now(),
		Detail:    map[string]any{"role": identity.Role},
	})
	return identity, nil
}

func (s *LoginService) publishFailure(ctx context.Context, stage string, err error) {
	detail := map[string]any{"stage": stage}
	var upstream *idp.UpstreamError
	if errors.As(err, &upstream) {
		detail["status"] = upstream.Status
	}
	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventLoginFailed,
		Timestamp: time.Now(),
		Detail:    detail,
	})
}

func (s *LoginService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}
