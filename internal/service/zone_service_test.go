package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vogiaan1904/ticketbottle-parkgate/internal/models"
	"github.com/vogiaan1904/ticketbottle-parkgate/internal/notify"
	repository "github.com/vogiaan1904/ticketbottle-parkgate/internal/repository/redis"
	"github.com/vogiaan1904/ticketbottle-parkgate/internal/store"
	"github.com/vogiaan1904/ticketbottle-parkgate/pkg/clock"
	"github.com/vogiaan1904/ticketbottle-parkgate/pkg/logger"
)

func newZoneFixture() (*fakeAPI, store.Store, ZoneService, *clock.FakeClock) {
	l := logger.InitializeTestZapLogger()
	fc := clock.Fake(time.Unix(0, 0))
	api := newFakeAPI()
	api.gates = []models.Gate{{ID: "gate_1", ZoneIDs: []string{"Z1"}}, {ID: "gate_2"}}
	api.zones["gate_1"] = []models.Zone{{ID: "Z1", Open: true, AvailableForVisitors: 5}}
	api.zones["gate_2"] = []models.Zone{{ID: "Z9", Open: true}}

	st := store.New(&notify.Recorder{}, l)
	svc := NewZoneService(api, repository.NewMemoryQueryCache(5*time.Minute, fc), st, l)
	return api, st, svc, fc
}

func TestZoneService_LoadZonesUsesStaleWindow(t *testing.T) {
	api, _, svc, fc := newZoneFixture()
	ctx := context.Background()

	zones, err := svc.LoadZones(ctx, "gate_1")
	require.NoError(t, err)
	assert.Len(t, zones, 1)

	_, err = svc.LoadZones(ctx, "gate_1")
	require.NoError(t, err)
	assert.Equal(t, 1, api.ZoneCalls("gate_1"))

	fc.Advance(5 * time.Minute)
	_, err = svc.LoadZones(ctx, "gate_1")
	require.NoError(t, err)
	assert.Equal(t, 2, api.ZoneCalls("gate_1"))
}

func TestZoneService_RefreshZonesBypassesCache(t *testing.T) {
	api, st, svc, _ := newZoneFixture()
	ctx := context.Background()
	st.SetCurrentGate("gate_1")

	_, err := svc.LoadZones(ctx, "gate_1")
	require.NoError(t, err)

	api.mu.Lock()
	api.zones["gate_1"] = []models.Zone{{ID: "Z1", Open: true, AvailableForVisitors: 4}}
	api.mu.Unlock()

	zones, err := svc.RefreshZones(ctx, "gate_1")
	require.NoError(t, err)
	assert.Equal(t, 4, zones[0].AvailableForVisitors)
	assert.Equal(t, 2, api.ZoneCalls("gate_1"))

	z, ok := st.Snapshot().Zone("Z1")
	require.True(t, ok)
	assert.Equal(t, 4, z.AvailableForVisitors)

	cached, err := svc.LoadZones(ctx, "gate_1")
	require.NoError(t, err)
	assert.Equal(t, 4, cached[0].AvailableForVisitors)
	assert.Equal(t, 2, api.ZoneCalls("gate_1"))
}

func TestZoneService_RefreshDropsResultForOtherGate(t *testing.T) {
	_, st, svc, _ := newZoneFixture()
	st.SetCurrentGate("gate_2")
	st.SetZones([]models.Zone{{ID: "Z9"}})

	_, err := svc.RefreshZones(context.Background(), "gate_1")
	require.NoError(t, err)

	zones := st.Snapshot().Zones
	require.Len(t, zones, 1)
	assert.Equal(t, "Z9", zones[0].ID)
}

func TestZoneService_Bootstrap(t *testing.T) {
	api, st, svc, _ := newZoneFixture()
	ctx := context.Background()

	require.NoError(t, svc.Bootstrap(ctx, "gate_1"))

	assert.Len(t, st.Snapshot().Gates, 2)
	assert.Equal(t, 1, api.ZoneCalls("gate_1"))

	_, err := svc.LoadGates(ctx)
	require.NoError(t, err)
	_, err = svc.LoadZones(ctx, "gate_1")
	require.NoError(t, err)
	assert.Equal(t, 1, api.gateCalls)
	assert.Equal(t, 1, api.ZoneCalls("gate_1"))
}

func TestZoneService_BootstrapAppliesZonesOfCurrentGate(t *testing.T) {
	api, st, svc, _ := newZoneFixture()
	ctx := context.Background()

	require.NoError(t, svc.Bootstrap(ctx, "gate_2"))
	assert.Empty(t, st.Snapshot().Zones)

	st.SetCurrentGate("gate_1")
	require.NoError(t, svc.Bootstrap(ctx, "gate_1"))

	zones := st.Snapshot().Zones
	require.Len(t, zones, 1)
	assert.Equal(t, "Z1", zones[0].ID)
	assert.Equal(t, 1, api.ZoneCalls("gate_1"))
}

func TestZoneService_BootstrapWithoutGate(t *testing.T) {
	api, st, svc, _ := newZoneFixture()

	require.NoError(t, svc.Bootstrap(context.Background(), ""))

	assert.Len(t, st.Snapshot().Gates, 2)
	assert.Zero(t, api.ZoneCalls("gate_1"))
	assert.Zero(t, api.ZoneCalls("gate_2"))
}
