package kafka

import "time"

// Events published BY the gate terminal

type CheckinCompletedEvent struct {
	TicketID       string    `json:"ticket_id"`
	GateID         string    `json:"gate_id"`
	ZoneID         string    `json:"zone_id"`
	Type           string    `json:"type"` // visitor, subscriber
	SubscriptionID string    `json:"subscription_id,omitempty"`
	CheckinAt      time.Time `json:"checkin_at"`
	Timestamp      time.Time `json:"timestamp"`
}

type CheckoutCompletedEvent struct {
	TicketID      string    `json:"ticket_id"`
	GateID        string    `json:"gate_id,omitempty"`
	DurationHours float64   `json:"duration_hours"`
	Amount        float64   `json:"amount"`
	Converted     bool      `json:"converted_to_visitor"`
	CheckoutAt    time.Time `json:"checkout_at"`
	Timestamp     time.Time `json:"timestamp"`
}

type RealtimeFailedEvent struct {
	GateID    string    `json:"gate_id"`
	Attempts  int       `json:"attempts"`
	Timestamp time.Time `json:"timestamp"`
}
