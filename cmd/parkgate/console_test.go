package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vogiaan1904/ticketbottle-parkgate/internal/eligibility"
	"github.com/vogiaan1904/ticketbottle-parkgate/internal/models"
	"github.com/vogiaan1904/ticketbottle-parkgate/internal/notify"
	"github.com/vogiaan1904/ticketbottle-parkgate/internal/service"
	"github.com/vogiaan1904/ticketbottle-parkgate/internal/store"
	pkgLog "github.com/vogiaan1904/ticketbottle-parkgate/pkg/logger"
)

type fakeController struct {
	st         store.Store
	current    string
	entered    []string
	reconnects int
}

func (f *fakeController) Enter(_ context.Context, gateID string) error {
	f.current = gateID
	f.entered = append(f.entered, gateID)
	f.st.SetCurrentGate(gateID)
	return nil
}
func (f *fakeController) Leave(context.Context)     { f.current = "" }
func (f *fakeController) Reconnect(context.Context) { f.reconnects++ }
func (f *fakeController) CurrentGate() string       { return f.current }
func (f *fakeController) Close()                    {}

type fakeZones struct {
	refreshed []string
}

func (f *fakeZones) LoadGates(context.Context) ([]models.Gate, error) { return nil, nil }
func (f *fakeZones) LoadZones(context.Context, string) ([]models.Zone, error) {
	return nil, nil
}
func (f *fakeZones) RefreshZones(_ context.Context, gateID string) ([]models.Zone, error) {
	f.refreshed = append(f.refreshed, gateID)
	return nil, nil
}
func (f *fakeZones) Bootstrap(context.Context, string) error { return nil }

type fakeCheckin struct {
	st       store.Store
	tabs     []models.UserType
	selected []string
	submits  int
}

func (f *fakeCheckin) SelectTab(_ context.Context, tab models.UserType) {
	f.tabs = append(f.tabs, tab)
	f.st.SetSelectedTab(tab)
}
func (f *fakeCheckin) VerifySubscription(_ context.Context, id string) (*models.Subscription, error) {
	return &models.Subscription{ID: id, UserName: "Ann", Category: "c1", Active: true}, nil
}
func (f *fakeCheckin) SelectZone(_ context.Context, zoneID string) eligibility.Decision {
	f.selected = append(f.selected, zoneID)
	snap := f.st.Snapshot()
	var zone *models.Zone
	if z, ok := snap.Zone(zoneID); ok {
		zone = &z
	}
	d := eligibility.SelectDecision(zone, snap.SelectedTab)
	if d.Allowed {
		f.st.SetSelectedZone(zoneID)
	}
	return d
}
func (f *fakeCheckin) Evaluate() eligibility.Decision {
	snap := f.st.Snapshot()
	return eligibility.Evaluate(snap.SelectedZone(), snap.SelectedTab, snap.VerifiedSubscription)
}
func (f *fakeCheckin) Submit(context.Context) (*models.CheckinResult, error) {
	f.submits++
	return &models.CheckinResult{Ticket: models.Ticket{ID: "t-1"}, Zone: models.Zone{ID: "z1"}}, nil
}
func (f *fakeCheckin) State() service.CheckinState {
	return service.CheckinState{Phase: service.PhaseComposing, Subscription: service.SubscriptionNotLookedUp}
}
func (f *fakeCheckin) Close() {}

func newTestConsole(t *testing.T) (*console, *bytes.Buffer, *fakeController, *fakeCheckin) {
	t.Helper()
	st := store.New(&notify.Recorder{}, pkgLog.InitializeTestZapLogger())
	st.SetGates([]models.Gate{{ID: "g1", Name: "North"}, {ID: "g2", Name: "South"}})

	ctrl := &fakeController{st: st}
	require.NoError(t, ctrl.Enter(context.Background(), "g1"))
	st.SetZones([]models.Zone{
		{ID: "z1", Name: "A", TotalSlots: 10, Free: 4, AvailableForVisitors: 2, AvailableForSubscribers: 2, Open: true},
		{ID: "z2", Name: "B", TotalSlots: 5, Free: 0, Open: true},
		{ID: "z3", Name: "C", TotalSlots: 5, Free: 5, AvailableForVisitors: 5, Open: false},
	})

	ck := &fakeCheckin{st: st}
	out := &bytes.Buffer{}
	return &console{st: st, gates: ctrl, zones: &fakeZones{}, checkin: ck, out: out}, out, ctrl, ck
}

func TestConsole_SelectAndCheckin(t *testing.T) {
	c, out, _, ck := newTestConsole(t)
	ctx := context.Background()

	require.NoError(t, c.exec(ctx, "select z1"))
	assert.Contains(t, out.String(), "selected zone z1")
	assert.Contains(t, out.String(), "check-in:     ready")

	require.NoError(t, c.exec(ctx, "checkin"))
	assert.Equal(t, 1, ck.submits)
	assert.Contains(t, out.String(), "ticket t-1 issued for zone z1")
}

func TestConsole_SelectRejected(t *testing.T) {
	c, out, _, _ := newTestConsole(t)

	require.NoError(t, c.exec(context.Background(), "select z2"))
	assert.Contains(t, out.String(), "zone z2 cannot be selected")
	assert.Empty(t, c.st.Snapshot().SelectedZoneID)
}

func TestConsole_Tab(t *testing.T) {
	c, _, _, ck := newTestConsole(t)
	ctx := context.Background()

	require.Error(t, c.exec(ctx, "tab"))
	require.Error(t, c.exec(ctx, "tab staff"))
	require.Error(t, c.exec(ctx, "sub s-1"))

	require.NoError(t, c.exec(ctx, "tab Subscriber"))
	assert.Equal(t, []models.UserType{models.UserTypeSubscriber}, ck.tabs)
	require.NoError(t, c.exec(ctx, "sub s-1"))
}

func TestConsole_Navigation(t *testing.T) {
	c, _, ctrl, _ := newTestConsole(t)
	ctx := context.Background()

	require.NoError(t, c.exec(ctx, "next"))
	assert.Equal(t, "g2", ctrl.current)

	require.Error(t, c.exec(ctx, "next"))

	require.NoError(t, c.exec(ctx, "prev"))
	require.NoError(t, c.exec(ctx, "goto g2"))
	assert.Equal(t, []string{"g1", "g2", "g1", "g2"}, ctrl.entered)

	require.NoError(t, c.exec(ctx, "reconnect"))
	assert.Equal(t, 1, ctrl.reconnects)
}

func TestConsole_Refresh(t *testing.T) {
	c, _, _, _ := newTestConsole(t)
	zones := c.zones.(*fakeZones)

	require.NoError(t, c.exec(context.Background(), "refresh"))
	assert.Equal(t, []string{"g1"}, zones.refreshed)
}

func TestConsole_UnknownAndQuit(t *testing.T) {
	c, _, _, _ := newTestConsole(t)
	ctx := context.Background()

	require.NoError(t, c.exec(ctx, "   "))
	require.Error(t, c.exec(ctx, "dance"))
	require.ErrorIs(t, c.exec(ctx, "quit"), errQuit)
}

func TestConsole_Run(t *testing.T) {
	c, out, _, ck := newTestConsole(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := strings.NewReader("select z1\nbogus\ncheckin\nquit\nchecking\n")
	require.NoError(t, c.run(ctx, in, nil))

	assert.Equal(t, 1, ck.submits)
	assert.Contains(t, out.String(), `error: unknown command "bogus"`)
}

func TestRenderZones(t *testing.T) {
	c, out, _, _ := newTestConsole(t)
	out.Reset()

	renderZones(out, c.st.Snapshot())
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[1], "available")
	assert.Contains(t, lines[2], "full")
	assert.Contains(t, lines[3], "closed")

	out.Reset()
	renderZones(out, store.State{})
	assert.Equal(t, "no zones\n", out.String())
}

func TestConnectionLabel(t *testing.T) {
	assert.Equal(t, "connected", connectionLabel(store.ConnectionStatus{Connected: true}))
	assert.Equal(t, "failed, type reconnect", connectionLabel(store.ConnectionStatus{Failed: true, ReconnectAttempts: 5}))
	assert.Equal(t, "reconnecting (attempt 2)", connectionLabel(store.ConnectionStatus{ReconnectAttempts: 2}))
	assert.Equal(t, "disconnected", connectionLabel(store.ConnectionStatus{}))
}
