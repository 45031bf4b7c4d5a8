package realtime

import "context"

// Handler receives decoded events and connection status changes. Calls are
// made from the channel's loop goroutine in arrival order and must not call
// Connect or Disconnect.
type Handler interface {
	OnZoneUpdate(ctx context.Context, ev ZoneUpdate)
	OnAdminUpdate(ctx context.Context, ev AdminUpdate)
	OnStatus(ctx context.Context, st Status)
}

// dispatch routes ev to h. It returns false for events h has no method for.
func dispatch(ctx context.Context, h Handler, ev Event) bool {
	switch e := ev.(type) {
	case ZoneUpdate:
		h.OnZoneUpdate(ctx, e)
	case AdminUpdate:
		h.OnAdminUpdate(ctx, e)
	default:
		return false
	}
	return true
}
