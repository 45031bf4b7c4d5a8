package kafka

const (
	TopicCheckinCompleted  = "parking.checkin.completed"
	TopicCheckoutCompleted = "parking.checkout.completed"
	TopicRealtimeFailed    = "parking.realtime.failed"
)
