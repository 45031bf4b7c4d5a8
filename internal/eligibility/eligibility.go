// Package eligibility decides whether a zone may be selected and whether a
// check-in may proceed. Every function is pure and total.
package eligibility

import "github.com/vogiaan1904/ticketbottle-parkgate/internal/models"

// Reason explains a negative decision so the console can show inline
// guidance instead of an error.
type Reason string

const (
	ReasonOK                   Reason = ""
	ReasonNoZone               Reason = "no zone selected"
	ReasonZoneClosed           Reason = "zone is closed"
	ReasonNoCapacity           Reason = "no free slots for this customer type"
	ReasonNoSubscription       Reason = "subscription not verified"
	ReasonSubscriptionInactive Reason = "subscription is inactive"
	ReasonCategoryMismatch     Reason = "subscription category does not match zone"
	ReasonUnknownUserType      Reason = "unknown customer type"
)

type Decision struct {
	Allowed bool
	Reason  Reason
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(r Reason) Decision {
	return Decision{Reason: r}
}

func IsZoneAvailable(zone *models.Zone, userType models.UserType) bool {
	return zoneDecision(zone, userType).Allowed
}

func CanSelectZone(zone *models.Zone, userType models.UserType) bool {
	return IsZoneAvailable(zone, userType)
}

func CanCheckIn(selected *models.Zone, userType models.UserType, sub *models.Subscription) bool {
	return Evaluate(selected, userType, sub).Allowed
}

// Evaluate is CanCheckIn with the first failing rule attached.
func Evaluate(selected *models.Zone, userType models.UserType, sub *models.Subscription) Decision {
	if selected == nil {
		return deny(ReasonNoZone)
	}

	switch userType {
	case models.UserTypeVisitor:
		return zoneDecision(selected, userType)
	case models.UserTypeSubscriber:
		if sub == nil {
			return deny(ReasonNoSubscription)
		}
		if !sub.Active {
			return deny(ReasonSubscriptionInactive)
		}
		if sub.Category != selected.CategoryID {
			return deny(ReasonCategoryMismatch)
		}
		return zoneDecision(selected, userType)
	default:
		return deny(ReasonUnknownUserType)
	}
}

// SelectDecision is CanSelectZone with a reason.
func SelectDecision(zone *models.Zone, userType models.UserType) Decision {
	return zoneDecision(zone, userType)
}

func zoneDecision(zone *models.Zone, userType models.UserType) Decision {
	if zone == nil {
		return deny(ReasonNoZone)
	}
	if !userType.Valid() {
		return deny(ReasonUnknownUserType)
	}
	if !zone.Open {
		return deny(ReasonZoneClosed)
	}
	if zone.Available(userType) <= 0 {
		return deny(ReasonNoCapacity)
	}
	return allow()
}
