package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/identity-gateway/internal/domain"
	"github.com/spec-kit/identity-gateway/internal/events"
	"github.com/spec-kit/identity-gateway/internal/repository"
)

// AuditService persists authentication-boundary events. Without a
// repository (no Postgres configured) events are still logged.
type AuditService struct {
	dispatcher events.Dispatcher
	repo       repository.AuditRepository
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, repo repository.AuditRepository, logger *zap.Logger) *AuditService {
	return &AuditService{dispatcher: dispatcher, repo: repo, logger: logger}
}

// RegisterHandlers subscribes to every auth event type.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	for _, eventType := range []events.EventType{
		events.EventLoginSucceeded,
		events.EventLoginFailed,
		events.EventSessionRefreshed,
		events.EventLogout,
		events.EventAccountDeleted,
		events.EventOTPRequested,
		events.EventOTPVerified,
	} {
		a.dispatcher.Subscribe(eventType, a.record)
	}
}

func (a *AuditService) record(ctx context.Context, event events.Event) error {
	a.logger.Info("auth event",
		zap.String("type", string(event.Type)),
		zap.String("email", event.Email),
		zap.Any("detail", event.Detail))

	if a.repo == nil {
		return nil
	}

	audit := &domain.AuditEvent{
		EventType: string(event.Type),
		Email:     event.Email,
		Detail:    event.Detail,
	}
	if err := a.repo.Create(ctx, audit); err != nil {
		// Audit persistence must never fail the request path.
		a.logger.Error("failed to persist auth event", zap.Error(err))
	}
	return nil
}
