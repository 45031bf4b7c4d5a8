package repository

import (
	"context"
	"sync"
	"time"

	"github.com/vogiaan1904/ticketbottle-parkgate/internal/models"
	"github.com/vogiaan1904/ticketbottle-parkgate/pkg/clock"
)

type entry struct {
	value     any
	expiresAt time.Time
}

type memoryQueryCache struct {
	ttl   time.Duration
	clock clock.Clock

	mu      sync.Mutex
	entries map[string]entry
}

// NewMemoryQueryCache is the in-process cache used when Redis is disabled.
func NewMemoryQueryCache(ttl time.Duration, c clock.Clock) QueryCache {
	return &memoryQueryCache{
		ttl:     ttl,
		clock:   c,
		entries: map[string]entry{},
	}
}

func (m *memoryQueryCache) lookup(key string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	if !m.clock.Now().Before(e.expiresAt) {
		delete(m.entries, key)
		return nil, false
	}
	return e.value, true
}

func (m *memoryQueryCache) store(key string, v any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = entry{value: v, expiresAt: m.clock.Now().Add(m.ttl)}
}

func (m *memoryQueryCache) GetGates(context.Context) ([]models.Gate, bool, error) {
	v, ok := m.lookup(gatesKey())
	if !ok {
		return nil, false, nil
	}
	return append([]models.Gate(nil), v.([]models.Gate)...), true, nil
}

func (m *memoryQueryCache) SetGates(_ context.Context, gates []models.Gate) error {
	m.store(gatesKey(), append([]models.Gate(nil), gates...))
	return nil
}

func (m *memoryQueryCache) GetZones(_ context.Context, gateID string) ([]models.Zone, bool, error) {
	v, ok := m.lookup(zonesKey(gateID))
	if !ok {
		return nil, false, nil
	}
	return append([]models.Zone(nil), v.([]models.Zone)...), true, nil
}

func (m *memoryQueryCache) SetZones(_ context.Context, gateID string, zones []models.Zone) error {
	m.store(zonesKey(gateID), append([]models.Zone(nil), zones...))
	return nil
}

func (m *memoryQueryCache) InvalidateZones(_ context.Context, gateID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, zonesKey(gateID))
	return nil
}
