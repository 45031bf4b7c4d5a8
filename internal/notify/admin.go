package notify

const (
	ActionZoneOpened           = "zone-opened"
	ActionZoneClosed           = "zone-closed"
	ActionCategoryRatesChanged = "category-rates-changed"
	ActionRushHourAdded        = "rush-hour-added"
	ActionVacationAdded        = "vacation-added"
	ActionUserUpdated          = "user-updated"
)

const genericAdminMessage = "Configuration updated by an administrator"

var adminMessages = map[string]string{
	ActionZoneOpened:           "A zone was opened by an administrator",
	ActionZoneClosed:           "A zone was closed by an administrator",
	ActionCategoryRatesChanged: "Category rates were changed",
	ActionRushHourAdded:        "A rush hour period was added",
	ActionVacationAdded:        "A vacation period was added",
	ActionUserUpdated:          "A user account was updated",
}

// AdminNotice maps an admin-update action to the notice shown at the gate.
func AdminNotice(action string, payload map[string]any) Notice {
	msg, ok := adminMessages[action]
	if !ok {
		msg = genericAdminMessage
	}

	n := Notice{Level: LevelInfo, Title: msg}
	if zoneID, ok := payload["zoneId"].(string); ok && zoneID != "" {
		n.Message = "zone " + zoneID
	}
	return n
}

func RealtimeFailedNotice() Notice {
	return Notice{
		Level:   LevelError,
		Title:   "Realtime updates unavailable",
		Message: "reconnection failed, restart the terminal to resume live availability",
	}
}
