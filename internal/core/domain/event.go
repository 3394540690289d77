package domain

import "time"

type SessionEventType string

const (
	EventScreenChanged  SessionEventType = "screen_changed"
	EventOrderSubmitted SessionEventType = "order_submitted"
	EventOrderRejected  SessionEventType = "order_rejected"
	EventStaleResponse  SessionEventType = "stale_response_discarded"
)

type SessionEvent struct {
	SessionID  string           `json:"session_id"`
	CustomerID string           `json:"customer_id,omitempty"`
	Type       SessionEventType `json:"type"`
	Screen     ScreenName       `json:"screen"`
	OrderID    string           `json:"order_id,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}
