package store

import "github.com/vogiaan1904/ticketbottle-parkgate/internal/models"

type ConnectionStatus struct {
	Connected         bool
	ReconnectAttempts int
	// Failed is set once reconnection attempts are exhausted.
	Failed bool
}

// State is an immutable copy of the cache returned by Snapshot.
type State struct {
	Gates                []models.Gate
	Zones                []models.Zone
	CurrentGateID        string
	SelectedTab          models.UserType
	SelectedZoneID       string
	VerifiedSubscription *models.Subscription
	Connection           ConnectionStatus
}

func initialState() State {
	return State{SelectedTab: models.UserTypeVisitor}
}

// SelectedZone resolves the selection against the current zone list, so
// eligibility is always evaluated on the latest pushed record.
func (s State) SelectedZone() *models.Zone {
	if s.SelectedZoneID == "" {
		return nil
	}
	z, ok := s.Zone(s.SelectedZoneID)
	if !ok {
		return nil
	}
	return &z
}

func (s State) Zone(id string) (models.Zone, bool) {
	for _, z := range s.Zones {
		if z.ID == id {
			return z, true
		}
	}
	return models.Zone{}, false
}

func (s State) CurrentGate() *models.Gate {
	for i := range s.Gates {
		if s.Gates[i].ID == s.CurrentGateID {
			g := s.Gates[i]
			return &g
		}
	}
	return nil
}

func (s State) clone() State {
	c := s
	c.Gates = append([]models.Gate(nil), s.Gates...)
	c.Zones = append([]models.Zone(nil), s.Zones...)
	return c
}
