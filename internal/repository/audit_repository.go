package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/identity-gateway/internal/domain"
)

// AuditRepository manages auth event persistence.
type AuditRepository interface {
	Create(ctx context.Context, event *domain.AuditEvent) error
	ListByEmail(ctx context.Context, email string, limit int) ([]domain.AuditEvent, error)
}

type auditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository constructs repository.
func NewAuditRepository(pool *pgxpool.Pool) AuditRepository {
	return &auditRepository{pool: pool}
}

func (r *auditRepository) Create(ctx context.Context, event *domain.AuditEvent) error {
	detail := event.Detail
	if detail == nil {
		detail = map[string]any{}
	}
	detailJSON, err := json.Marshal(detail)
	if err != nil {
		return err
	}

	const query = `
        INSERT INTO auth_events (event_type, email, detail)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		event.EventType,
		event.Email,
		detailJSON,
	).Scan(&event.ID, &event.CreatedAt)
}

func (r *auditRepository) ListByEmail(ctx context.Context, email string, limit int) ([]domain.AuditEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `
        SELECT id, event_type, email, detail, created_at
        FROM auth_events WHERE email=$1
        ORDER BY created_at DESC LIMIT $2`
	rows, err := r.pool.Query(ctx, query, email, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.AuditEvent
	for rows.Next() {
		var event domain.AuditEvent
		var detailJSON []byte
		if err := rows.Scan(&event.ID, &event.EventType, &event.Email, &detailJSON, &event.CreatedAt); err != nil {
			return nil, err
		}
		if len(detailJSON) > 0 {
			if err := json.Unmarshal(detailJSON, &event.Detail); err != nil {
				return nil, err
			}
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
