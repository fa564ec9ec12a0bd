package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/identity-gateway/internal/domain"
	"github.com/spec-kit/identity-gateway/internal/events"
	"github.com/spec-kit/identity-gateway/internal/service"
)

type memoryAuditRepo struct {
	created []domain.AuditEvent
}

func (m *memoryAuditRepo) Create(_ context.Context, event *domain.AuditEvent) error {
	event.ID = "evt"
	event.CreatedAt = time.Now()
	m.created = append(m.created, *event)
	return nil
}

func (m *memoryAuditRepo) ListByEmail(_ context.Context, email string, _ int) ([]domain.AuditEvent, error) {
	var out []domain.AuditEvent
	for _, event := range m.created {
		if event.Email == email {
			out = append(out, event)
		}
	}
	return out, nil
}

func TestAuditServicePersistsEvents(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	repo := &memoryAuditRepo{}
	audit := service.NewAuditService(dispatcher, repo, zap.NewNop())
	audit.RegisterHandlers()

	err := dispatcher.Publish(context.Background(), events.Event{
		ID:        "evt-1",
		Type:      events.EventLoginSucceeded,
		Email:     "ada@example.com",
		Timestamp: time.Now(),
		Detail:    map[string]any{"role": "admin"},
	})
	require.NoError(t, err)

	require.Len(t, repo.created, 1)
	require.Equal(t, "login_succeeded", repo.created[0].EventType)
	require.Equal(t, "ada@example.com", repo.created[0].Email)
	require.Equal(t, "admin", repo.created[0].Detail["role"])
}

func TestAuditServiceWithoutRepositoryOnlyLogs(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	audit := service.NewAuditService(dispatcher, nil, zap.NewNop())
	audit.RegisterHandlers()

	require.NoError(t, dispatcher.Publish(context.Background(), events.Event{
		Type:      events.EventLogout,
		Email:     "ada@example.com",
		Timestamp: time.Now(),
	}))
}
