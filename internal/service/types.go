package service

import "github.com/vogiaan1904/ticketbottle-parkgate/internal/models"

type Phase string

const (
	PhaseComposing  Phase = "composing"
	PhaseSubmitting Phase = "submitting"
	PhaseSucceeded  Phase = "succeeded"
	PhaseFailed     Phase = "failed"
)

type SubscriptionStatus string

const (
	SubscriptionNotLookedUp SubscriptionStatus = "not_looked_up"
	SubscriptionPending     SubscriptionStatus = "pending"
	SubscriptionVerified    SubscriptionStatus = "verified"
	SubscriptionInvalid     SubscriptionStatus = "invalid"
)

type CheckinState struct {
	Phase             Phase
	SubscriptionID    string
	Subscription      SubscriptionStatus
	SubscriptionError string
	LastResult        *models.CheckinResult
	LastError         string
}
