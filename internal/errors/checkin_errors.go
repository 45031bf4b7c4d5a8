package errors

import "errors"

var (
	ErrNoGateSelected      = errors.New("no gate selected")
	ErrZoneNotFound        = errors.New("zone not found")
	ErrZoneNotSelectable   = errors.New("zone is not selectable")
	ErrCheckinNotAllowed   = errors.New("check-in is not allowed")
	ErrSubmitInProgress    = errors.New("check-in already in progress")
	ErrStaleSubscription   = errors.New("subscription lookup superseded")
	ErrSubscriptionMissing = errors.New("subscription id is required")
	ErrTicketMissing       = errors.New("ticket id is required")

	ErrSubscriberTabRequired = errors.New("subscriber tab is not selected")
)
