package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vogiaan1904/ticketbottle-parkgate/pkg/clock"
	"github.com/vogiaan1904/ticketbottle-parkgate/pkg/logger"
)

const testInterval = 3 * time.Second

func newTestChannel(d Dialer, r *recorder, opts ...Option) Channel {
	cfg := Config{
		URL:                  "ws://parkgate.test/ws",
		ReconnectInterval:    testInterval,
		MaxReconnectAttempts: 5,
	}
	return New(cfg, d, r, logger.InitializeTestZapLogger(), opts...)
}

func waitFor(t *testing.T, r *recorder, want State) {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case s := <-r.states:
			if s == want {
				return
			}
		case <-timeout:
			t.Fatalf("timed out waiting for state %s", want)
		}
	}
}

func TestChannel_ReconnectBound(t *testing.T) {
	fc := clock.Fake(time.Unix(0, 0))
	d := &fakeDialer{}
	r := newRecorder()
	ch := newTestChannel(d, r, WithClock(fc))

	ch.Connect(context.Background())
	defer ch.Disconnect()

	for i := 0; i < 5; i++ {
		fc.WaitForTimers(1)
		fc.Advance(testInterval)
	}
	waitFor(t, r, StateFailed)

	assert.Equal(t, 6, d.Dials())
	assert.Equal(t, 6, r.count(StateErrored))
	assert.Equal(t, 1, r.count(StateFailed))

	fc.Advance(time.Minute)
	assert.Zero(t, fc.PendingTimers())
	assert.Equal(t, 6, d.Dials())
	assert.Equal(t, StateFailed, ch.Status().State)
	assert.Equal(t, 5, ch.Status().ReconnectAttempts)
}

func TestChannel_AttemptsResetOnOpen(t *testing.T) {
	fc := clock.Fake(time.Unix(0, 0))
	conn := newFakeConn()
	d := &fakeDialer{}
	r := newRecorder()
	ch := newTestChannel(d, r, WithClock(fc))

	ch.Connect(context.Background())
	defer ch.Disconnect()

	fc.WaitForTimers(1)
	assert.Equal(t, 1, ch.Status().ReconnectAttempts)

	d.mu.Lock()
	d.conns = append(d.conns, conn)
	d.mu.Unlock()
	fc.Advance(testInterval)
	waitFor(t, r, StateOpen)
	assert.Zero(t, ch.Status().ReconnectAttempts)

	close(conn.frames)
	waitFor(t, r, StateClosed)
	waitFor(t, r, StateReconnecting)
	assert.Equal(t, 1, ch.Status().ReconnectAttempts)
}

func TestChannel_DisconnectCancelsPendingReconnect(t *testing.T) {
	fc := clock.Fake(time.Unix(0, 0))
	d := &fakeDialer{}
	r := newRecorder()
	ch := newTestChannel(d, r, WithClock(fc))

	ch.Connect(context.Background())
	fc.WaitForTimers(1)

	ch.Disconnect()
	fc.Advance(time.Minute)

	assert.Equal(t, 1, d.Dials())
	assert.Equal(t, StateDisconnected, ch.Status().State)
	assert.Zero(t, r.count(StateFailed))
	assert.False(t, ch.Subscribe(context.Background(), "gate_1"))
}

func TestChannel_DisconnectClosesOpenConnection(t *testing.T) {
	conn := newFakeConn()
	d := &fakeDialer{conns: []*fakeConn{conn}}
	r := newRecorder()
	ch := newTestChannel(d, r)

	ch.Connect(context.Background())
	waitFor(t, r, StateOpen)

	ch.Disconnect()

	select {
	case <-conn.closed:
	default:
		t.Fatal("connection was not closed")
	}
	assert.Equal(t, 1, d.Dials())
	assert.Zero(t, r.count(StateReconnecting))
	assert.Equal(t, StateDisconnected, ch.Status().State)
}

func TestChannel_DispatchesFramesAndDropsBadOnes(t *testing.T) {
	conn := newFakeConn()
	d := &fakeDialer{conns: []*fakeConn{conn}}
	r := newRecorder()
	ch := newTestChannel(d, r)

	ch.Connect(context.Background())
	defer ch.Disconnect()
	waitFor(t, r, StateOpen)

	conn.frames <- []byte(`{"type":"zone-update","payload":{"id":"zone_a","availableForVisitors":3,"open":true}}`)
	conn.frames <- []byte(`{not json`)
	conn.frames <- []byte(`{"type":"gate-renamed","payload":{"id":"gate_1"}}`)
	conn.frames <- []byte(`{"type":"zone-update","payload":{"open":true}}`)
	conn.frames <- []byte(`{"type":"admin-update","payload":{"action":"zone-closed"}}`)
	conn.frames <- []byte(`{"type":"zone-update","payload":{"id":"zone_a","availableForVisitors":2,"open":true}}`)

	require.Eventually(t, func() bool {
		return len(r.Zones()) == 2
	}, 2*time.Second, 10*time.Millisecond)

	zones := r.Zones()
	assert.Equal(t, 3, zones[0].Zone.AvailableForVisitors)
	assert.Equal(t, 2, zones[1].Zone.AvailableForVisitors)
	require.Len(t, r.Admins(), 1)
	assert.Equal(t, "zone-closed", r.Admins()[0].Action)
	assert.Equal(t, StateOpen, ch.Status().State)
	assert.Equal(t, 1, d.Dials())
}

func TestChannel_SubscribeOnlyWhenOpen(t *testing.T) {
	conn := newFakeConn()
	d := &fakeDialer{conns: []*fakeConn{conn}}
	r := newRecorder()
	ch := newTestChannel(d, r)
	ctx := context.Background()

	assert.False(t, ch.Subscribe(ctx, "gate_1"))

	ch.Connect(ctx)
	defer ch.Disconnect()
	waitFor(t, r, StateOpen)

	assert.True(t, ch.Subscribe(ctx, "gate_1"))
	assert.True(t, ch.Unsubscribe(ctx, "gate_1"))
	assert.Equal(t, []outboundFrame{subscribeFrame("gate_1"), unsubscribeFrame("gate_1")}, conn.Written())
}

func TestChannel_ConnectSupersedesPriorLoop(t *testing.T) {
	first, second := newFakeConn(), newFakeConn()
	d := &fakeDialer{conns: []*fakeConn{first, second}}
	r := newRecorder()
	ch := newTestChannel(d, r)
	ctx := context.Background()

	ch.Connect(ctx)
	waitFor(t, r, StateOpen)

	ch.Connect(ctx)
	defer ch.Disconnect()
	waitFor(t, r, StateOpen)

	select {
	case <-first.closed:
	default:
		t.Fatal("superseded connection was not closed")
	}
	assert.Equal(t, 2, d.Dials())
	assert.Zero(t, r.count(StateErrored))

	assert.True(t, ch.Subscribe(ctx, "gate_2"))
	assert.Empty(t, first.Written())
	assert.Len(t, second.Written(), 1)
}

func TestChannel_SendsBearerToken(t *testing.T) {
	conn := newFakeConn()
	d := &fakeDialer{conns: []*fakeConn{conn}}
	r := newRecorder()
	ch := newTestChannel(d, r, WithTokenSource(staticToken("abc")))

	ch.Connect(context.Background())
	defer ch.Disconnect()
	waitFor(t, r, StateOpen)

	d.mu.Lock()
	defer d.mu.Unlock()
	require.Len(t, d.headers, 1)
	assert.Equal(t, "Bearer abc", d.headers[0].Get("Authorization"))
}
