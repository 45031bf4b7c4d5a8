package realtime

import (
	"encoding/json"
	"fmt"

	"github.com/vogiaan1904/ticketbottle-parkgate/internal/models"
)

const (
	FrameSubscribe   = "subscribe"
	FrameUnsubscribe = "unsubscribe"
	FrameZoneUpdate  = "zone-update"
	FrameAdminUpdate = "admin-update"
)

type frame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type gatePayload struct {
	GateID string `json:"gateId"`
}

type outboundFrame struct {
	Type    string      `json:"type"`
	Payload gatePayload `json:"payload"`
}

// Event is one decoded inbound frame: ZoneUpdate, AdminUpdate or Unknown.
type Event interface {
	eventType() string
}

type ZoneUpdate struct {
	Zone models.Zone
}

type AdminUpdate struct {
	Action  string
	Payload map[string]any
}

type Unknown struct {
	Type string
}

func (ZoneUpdate) eventType() string  { return FrameZoneUpdate }
func (AdminUpdate) eventType() string { return FrameAdminUpdate }
func (u Unknown) eventType() string   { return u.Type }

// Decode parses a raw frame. Only malformed input returns an error;
// well-formed frames of an unrecognized type decode to Unknown.
func Decode(data []byte) (Event, error) {
	var f frame
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}

	switch f.Type {
	case FrameZoneUpdate:
		var z models.Zone
		if err := json.Unmarshal(f.Payload, &z); err != nil {
			return nil, fmt.Errorf("%w: zone payload: %v", ErrMalformedFrame, err)
		}
		if err := z.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
		}
		return ZoneUpdate{Zone: z}, nil
	case FrameAdminUpdate:
		payload := map[string]any{}
		if len(f.Payload) > 0 {
			if err := json.Unmarshal(f.Payload, &payload); err != nil {
				return nil, fmt.Errorf("%w: admin payload: %v", ErrMalformedFrame, err)
			}
		}
		action, _ := payload["action"].(string)
		return AdminUpdate{Action: action, Payload: payload}, nil
	default:
		return Unknown{Type: f.Type}, nil
	}
}

func subscribeFrame(gateID string) outboundFrame {
	return outboundFrame{Type: FrameSubscribe, Payload: gatePayload{GateID: gateID}}
}

func unsubscribeFrame(gateID string) outboundFrame {
	return outboundFrame{Type: FrameUnsubscribe, Payload: gatePayload{GateID: gateID}}
}
