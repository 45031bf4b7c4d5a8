// Package gatesession binds the gate shown on the terminal to the push
// channel subscription.
package gatesession

import (
	"context"
	"sync"

	"github.com/vogiaan1904/ticketbottle-parkgate/internal/delivery/kafka"
	"github.com/vogiaan1904/ticketbottle-parkgate/internal/delivery/kafka/producer"
	"github.com/vogiaan1904/ticketbottle-parkgate/internal/models"
	"github.com/vogiaan1904/ticketbottle-parkgate/internal/realtime"
	"github.com/vogiaan1904/ticketbottle-parkgate/internal/store"
	"github.com/vogiaan1904/ticketbottle-parkgate/pkg/logger"
)

type ZoneLoader interface {
	LoadZones(ctx context.Context, gateID string) ([]models.Zone, error)
	RefreshZones(ctx context.Context, gateID string) ([]models.Zone, error)
}

type Controller interface {
	// Enter makes gateID the current gate. Entering the current gate again
	// is a no-op.
	Enter(ctx context.Context, gateID string) error
	// Leave unsubscribes the last subscribed gate.
	Leave(ctx context.Context)
	// Reconnect restarts the channel after reconnection failed.
	Reconnect(ctx context.Context)
	CurrentGate() string
	Close()
}

type controller struct {
	ch    realtime.Channel
	st    store.Store
	zones ZoneLoader
	prod  producer.Producer
	l     logger.Logger

	// enterMu serializes navigation.
	enterMu sync.Mutex

	mu         sync.Mutex
	current    string
	subscribed string
	// visited holds gates entered before; their cached zones missed the
	// pushes sent while another gate was current.
	visited map[string]bool
	baseCtx context.Context

	unwatch func()
}

func New(ctx context.Context, ch realtime.Channel, st store.Store, zones ZoneLoader, prod producer.Producer, l logger.Logger) Controller {
	c := &controller{
		ch:      ch,
		st:      st,
		zones:   zones,
		prod:    prod,
		l:       l,
		visited: map[string]bool{},
		baseCtx: ctx,
	}
	c.unwatch = st.Watch(c.onStoreChange)
	return c
}

func (c *controller) Enter(ctx context.Context, gateID string) error {
	c.enterMu.Lock()
	defer c.enterMu.Unlock()

	c.mu.Lock()
	if c.current == gateID {
		c.mu.Unlock()
		return nil
	}
	prev := c.subscribed
	c.current = gateID
	c.subscribed = gateID
	revisit := c.visited[gateID]
	c.visited[gateID] = true
	c.mu.Unlock()

	ctx = c.l.WithFields(ctx, "gate_id", gateID)

	// 1. Open the channel if it was never opened
	if c.ch.Status().State == realtime.StateIdle {
		c.ch.Connect(c.baseCtx)
	}

	// 2. Move the subscription
	if prev != "" {
		c.ch.Unsubscribe(ctx, prev)
	}
	c.ch.Subscribe(ctx, gateID)

	// 3. Update the cache and load the gate's zones
	c.st.SetCurrentGate(gateID)

	load := c.zones.LoadZones
	if revisit {
		load = c.zones.RefreshZones
	}
	zones, err := load(ctx, gateID)
	if err != nil {
		c.l.Errorf(ctx, "gatesession.controller.Enter: %v", err)
		return err
	}
	c.st.SetZones(zones)
	return nil
}

func (c *controller) Leave(ctx context.Context) {
	c.enterMu.Lock()
	defer c.enterMu.Unlock()

	c.mu.Lock()
	last := c.subscribed
	c.subscribed = ""
	c.current = ""
	c.mu.Unlock()

	if last != "" {
		c.ch.Unsubscribe(ctx, last)
	}
}

func (c *controller) Reconnect(ctx context.Context) {
	c.l.Infof(ctx, "gatesession.controller.Reconnect: restarting realtime channel")
	c.ch.Connect(c.baseCtx)
}

func (c *controller) CurrentGate() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *controller) Close() {
	c.unwatch()
	c.Leave(context.Background())
	c.ch.Disconnect()
}

// onStoreChange resubscribes after every successful open and reports
// reconnection failure.
func (c *controller) onStoreChange(prev, next store.State) {
	ctx := c.baseCtx

	if !prev.Connection.Connected && next.Connection.Connected {
		c.mu.Lock()
		gateID := c.current
		c.mu.Unlock()
		if gateID != "" {
			c.ch.Subscribe(ctx, gateID)
		}
	}

	if !prev.Connection.Failed && next.Connection.Failed {
		c.mu.Lock()
		gateID := c.current
		c.mu.Unlock()
		if err := c.prod.PublishRealtimeFailed(ctx, kafka.RealtimeFailedEvent{
			GateID:   gateID,
			Attempts: next.Connection.ReconnectAttempts,
		}); err != nil {
			c.l.Warnf(ctx, "gatesession.controller.onStoreChange: %v", err)
		}
	}
}
