package models

import "time"

type UserType string

const (
	UserTypeVisitor    UserType = "visitor"
	UserTypeSubscriber UserType = "subscriber"
)

func (u UserType) Valid() bool {
	return u == UserTypeVisitor || u == UserTypeSubscriber
}

type Ticket struct {
	ID             string    `json:"id"`
	Type           UserType  `json:"type"`
	ZoneID         string    `json:"zoneId"`
	GateID         string    `json:"gateId"`
	SubscriptionID string    `json:"subscriptionId,omitempty"`
	CheckinAt      time.Time `json:"checkinAt"`
}

type CheckinRequest struct {
	GateID         string   `json:"gateId"`
	ZoneID         string   `json:"zoneId"`
	Type           UserType `json:"type"`
	SubscriptionID string   `json:"subscriptionId,omitempty"`
}

type CheckinResult struct {
	Ticket       Ticket        `json:"ticket"`
	Zone         Zone          `json:"zone"`
	Gate         Gate          `json:"gate"`
	Subscription *Subscription `json:"subscription,omitempty"`
}

type CheckoutRequest struct {
	TicketID              string `json:"ticketId"`
	ForceConvertToVisitor bool   `json:"forceConvertToVisitor"`
}

type BreakdownSegment struct {
	From     time.Time `json:"from"`
	To       time.Time `json:"to"`
	Hours    float64   `json:"hours"`
	RateMode string    `json:"rateMode"`
	Rate     float64   `json:"rate"`
	Amount   float64   `json:"amount"`
}

type CheckoutResult struct {
	TicketID      string             `json:"ticketId"`
	CheckinAt     time.Time          `json:"checkinAt"`
	CheckoutAt    time.Time          `json:"checkoutAt"`
	DurationHours float64            `json:"durationHours"`
	Amount        float64            `json:"amount"`
	Breakdown     []BreakdownSegment `json:"breakdown"`
	ZoneState     *Zone              `json:"zoneState,omitempty"`
}
