package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventLoginSucceeded   EventType = "login_succeeded"
	EventLoginFailed      EventType = "login_failed"
	EventSessionRefreshed EventType = "session_refreshed"
	EventLogout           EventType = "logout"
	EventAccountDeleted   EventType = "account_deleted"
	EventOTPRequested     EventType = "otp_requested"
	EventOTPVerified      EventType = "otp_verified"
)

// Event represents an authentication-boundary event emitted by handlers
// and services. Email may be empty for pre-authentication flows.
type Event struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Email     string         `json:"email,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Detail    map[string]any `json:"detail,omitempty"`
}
