package domain

import "time"

// AuditEvent records an authentication-boundary action for the audit trail.
type AuditEvent struct {
	ID        string
	EventType string
	Email     string
	Detail    map[string]any
	CreatedAt time.Time
}
