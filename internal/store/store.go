// Package store is the terminal's cache of gates, zones, selection and
// connection state. It is the only writer of that state.
package store

import (
	"context"
	"sync"

	"github.com/vogiaan1904/ticketbottle-parkgate/internal/models"
	"github.com/vogiaan1904/ticketbottle-parkgate/internal/notify"
	"github.com/vogiaan1904/ticketbottle-parkgate/internal/realtime"
	"github.com/vogiaan1904/ticketbottle-parkgate/pkg/logger"
)

// Listener is called after every mutation, outside the store lock.
type Listener func(prev, next State)

type Store interface {
	realtime.Handler

	SetGates(gates []models.Gate)
	SetZones(zones []models.Zone)
	// SetCurrentGate clears zones, selection and verified subscription
	// when the gate changes.
	SetCurrentGate(gateID string)
	SetConnectionStatus(st ConnectionStatus)
	// UpdateZone replaces the zone with the same id. Unknown ids are
	// ignored and false is returned.
	UpdateZone(zone models.Zone) bool
	// SetSelectedTab always clears the selected zone and the verified
	// subscription.
	SetSelectedTab(tab models.UserType)
	SetSelectedZone(zoneID string)
	// SetVerifiedSubscription is ignored unless the subscriber tab is
	// selected. nil clears it.
	SetVerifiedSubscription(sub *models.Subscription) bool
	Reset()

	Snapshot() State
	AdjacentGates(gateID string) (prev, next string)
	Watch(fn Listener) (cancel func())
}

type store struct {
	n notify.Notifier
	l logger.Logger

	mu    sync.RWMutex
	state State

	lmu       sync.Mutex
	listeners map[int]Listener
	nextID    int
}

func New(n notify.Notifier, l logger.Logger) Store {
	return &store{
		n:         n,
		l:         l,
		state:     initialState(),
		listeners: map[int]Listener{},
	}
}

// mutate applies fn under the write lock and notifies listeners if fn
// reports a change.
func (s *store) mutate(fn func(st *State) bool) bool {
	s.mu.Lock()
	prev := s.state.clone()
	changed := fn(&s.state)
	next := s.state.clone()
	s.mu.Unlock()

	if changed {
		s.emit(prev, next)
	}
	return changed
}

func (s *store) emit(prev, next State) {
	s.lmu.Lock()
	ls := make([]Listener, 0, len(s.listeners))
	for id := 0; id < s.nextID; id++ {
		if fn, ok := s.listeners[id]; ok {
			ls = append(ls, fn)
		}
	}
	s.lmu.Unlock()

	for _, fn := range ls {
		fn(prev, next)
	}
}

func (s *store) Watch(fn Listener) func() {
	s.lmu.Lock()
	defer s.lmu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = fn

	return func() {
		s.lmu.Lock()
		defer s.lmu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *store) SetGates(gates []models.Gate) {
	s.mutate(func(st *State) bool {
		st.Gates = append([]models.Gate(nil), gates...)
		return true
	})
}

func (s *store) SetZones(zones []models.Zone) {
	s.mutate(func(st *State) bool {
		st.Zones = append([]models.Zone(nil), zones...)
		return true
	})
}

func (s *store) SetCurrentGate(gateID string) {
	s.mutate(func(st *State) bool {
		if st.CurrentGateID == gateID {
			return false
		}
		st.CurrentGateID = gateID
		st.Zones = nil
		st.SelectedZoneID = ""
		st.VerifiedSubscription = nil
		return true
	})
}

func (s *store) SetConnectionStatus(cs ConnectionStatus) {
	s.mutate(func(st *State) bool {
		if st.Connection == cs {
			return false
		}
		st.Connection = cs
		return true
	})
}

func (s *store) UpdateZone(zone models.Zone) bool {
	return s.mutate(func(st *State) bool {
		for i := range st.Zones {
			if st.Zones[i].ID == zone.ID {
				st.Zones[i] = zone
				return true
			}
		}
		return false
	})
}

func (s *store) SetSelectedTab(tab models.UserType) {
	s.mutate(func(st *State) bool {
		st.SelectedTab = tab
		st.SelectedZoneID = ""
		st.VerifiedSubscription = nil
		return true
	})
}

func (s *store) SetSelectedZone(zoneID string) {
	s.mutate(func(st *State) bool {
		if st.SelectedZoneID == zoneID {
			return false
		}
		st.SelectedZoneID = zoneID
		return true
	})
}

func (s *store) SetVerifiedSubscription(sub *models.Subscription) bool {
	return s.mutate(func(st *State) bool {
		if sub != nil && st.SelectedTab != models.UserTypeSubscriber {
			return false
		}
		if st.VerifiedSubscription == sub {
			return false
		}
		st.VerifiedSubscription = sub
		return true
	})
}

func (s *store) Reset() {
	s.mutate(func(st *State) bool {
		*st = initialState()
		return true
	})
}

func (s *store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

func (s *store) AdjacentGates(gateID string) (string, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i, g := range s.state.Gates {
		if g.ID != gateID {
			continue
		}
		var prev, next string
		if i > 0 {
			prev = s.state.Gates[i-1].ID
		}
		if i < len(s.state.Gates)-1 {
			next = s.state.Gates[i+1].ID
		}
		return prev, next
	}
	return "", ""
}

func (s *store) OnZoneUpdate(ctx context.Context, ev realtime.ZoneUpdate) {
	if !s.UpdateZone(ev.Zone) {
		s.l.Debugf(ctx, "store.store.OnZoneUpdate: zone %s not in current list, ignored", ev.Zone.ID)
	}
}

func (s *store) OnAdminUpdate(ctx context.Context, ev realtime.AdminUpdate) {
	s.n.Notify(ctx, notify.AdminNotice(ev.Action, ev.Payload))
}

func (s *store) OnStatus(ctx context.Context, rs realtime.Status) {
	failed := rs.State == realtime.StateFailed

	var wasFailed bool
	s.mutate(func(st *State) bool {
		wasFailed = st.Connection.Failed
		next := ConnectionStatus{
			Connected:         rs.Connected(),
			ReconnectAttempts: rs.ReconnectAttempts,
			Failed:            failed,
		}
		if st.Connection == next {
			return false
		}
		st.Connection = next
		return true
	})

	if failed && !wasFailed {
		s.n.Notify(ctx, notify.RealtimeFailedNotice())
	}
}
