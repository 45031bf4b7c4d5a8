package realtime

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vogiaan1904/ticketbottle-parkgate/pkg/clock"
	"github.com/vogiaan1904/ticketbottle-parkgate/pkg/logger"
)

// Channel is the single push connection to the backend.
type Channel interface {
	// Connect starts the connection loop in the background. A running
	// loop is stopped first.
	Connect(ctx context.Context)
	// Disconnect closes the connection and cancels any pending reconnect.
	// No automatic reconnection happens afterwards.
	Disconnect()
	// Subscribe and Unsubscribe are dropped when the channel is not open.
	Subscribe(ctx context.Context, gateID string) bool
	Unsubscribe(ctx context.Context, gateID string) bool
	Status() Status
}

type Config struct {
	URL                  string
	ReconnectInterval    time.Duration
	MaxReconnectAttempts int
}

// TokenSource supplies the bearer token sent on the handshake.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

type Option func(*channel)

func WithClock(c clock.Clock) Option {
	return func(ch *channel) {
		ch.clock = c
	}
}

func WithTokenSource(ts TokenSource) Option {
	return func(ch *channel) {
		ch.tokens = ts
	}
}

type channel struct {
	cfg     Config
	dialer  Dialer
	handler Handler
	clock   clock.Clock
	tokens  TokenSource
	l       logger.Logger

	// lifeMu serializes Connect and Disconnect.
	lifeMu sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.RWMutex
	state    State
	attempts int
	conn     Conn

	writeMu sync.Mutex
}

func New(cfg Config, dialer Dialer, handler Handler, l logger.Logger, opts ...Option) Channel {
	ch := &channel{
		cfg:     cfg,
		dialer:  dialer,
		handler: handler,
		clock:   clock.Real(),
		l:       l,
		state:   StateIdle,
	}
	for _, opt := range opts {
		opt(ch)
	}
	return ch
}

func (c *channel) Connect(ctx context.Context) {
	c.lifeMu.Lock()
	defer c.lifeMu.Unlock()

	c.stopLocked()

	loopCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.wg.Add(1)
	go c.run(loopCtx)
}

func (c *channel) Disconnect() {
	c.lifeMu.Lock()
	defer c.lifeMu.Unlock()

	c.stopLocked()
	if c.Status().State != StateDisconnected {
		c.setStatus(context.Background(), StateDisconnected, 0)
	}
}

// stopLocked cancels the running loop, closes its connection and waits for
// it to exit.
func (c *channel) stopLocked() {
	if c.cancel == nil {
		return
	}
	c.cancel()
	c.cancel = nil

	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()
	if conn != nil {
		conn.Close()
	}

	c.wg.Wait()
}

func (c *channel) Subscribe(ctx context.Context, gateID string) bool {
	return c.write(ctx, subscribeFrame(gateID))
}

func (c *channel) Unsubscribe(ctx context.Context, gateID string) bool {
	return c.write(ctx, unsubscribeFrame(gateID))
}

func (c *channel) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Status{State: c.state, ReconnectAttempts: c.attempts}
}

func (c *channel) write(ctx context.Context, f outboundFrame) bool {
	c.mu.RLock()
	conn, state := c.conn, c.state
	c.mu.RUnlock()

	if state != StateOpen || conn == nil {
		c.l.Debugf(ctx, "realtime.channel.write: dropped %s for gate %s, channel is %s", f.Type, f.Payload.GateID, state)
		return false
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := conn.WriteJSON(f); err != nil {
		c.l.Warnf(ctx, "realtime.channel.write: %s for gate %s: %v", f.Type, f.Payload.GateID, err)
		return false
	}
	return true
}

func (c *channel) run(ctx context.Context) {
	defer c.wg.Done()

	attempts := 0
	for {
		c.setStatus(ctx, StateConnecting, attempts)

		conn, err := c.dialer.Dial(ctx, c.cfg.URL, c.header(ctx))
		if ctx.Err() != nil {
			if conn != nil {
				conn.Close()
			}
			return
		}

		next := StateErrored
		if err != nil {
			c.l.Warnf(ctx, "realtime.channel.run: dial %s: %v", c.cfg.URL, err)
		} else {
			attempts = 0
			err = c.session(ctx, conn)
			if ctx.Err() != nil {
				return
			}
			if isNormalClose(err) {
				next = StateClosed
			}
			c.l.Warnf(ctx, "realtime.channel.run: connection lost: %v", err)
		}
		c.setStatus(ctx, next, attempts)

		if attempts >= c.cfg.MaxReconnectAttempts {
			c.l.Errorf(ctx, "realtime.channel.run: reconnection failed after %d attempts", attempts)
			c.setStatus(ctx, StateFailed, attempts)
			return
		}

		attempts++
		c.setStatus(ctx, StateReconnecting, attempts)

		select {
		case <-ctx.Done():
			return
		case <-c.clock.After(c.cfg.ReconnectInterval):
		}
	}
}

// session reads frames from conn until it fails.
func (c *channel) session(ctx context.Context, conn Conn) error {
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	stop := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-stop:
		}
	}()

	defer func() {
		close(stop)
		c.mu.Lock()
		c.conn = nil
		c.mu.Unlock()
		conn.Close()
	}()

	c.setStatus(ctx, StateOpen, 0)
	c.l.Infof(ctx, "realtime.channel.session: connected to %s", c.cfg.URL)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		c.handleFrame(ctx, data)
	}
}

func (c *channel) handleFrame(ctx context.Context, data []byte) {
	ev, err := Decode(data)
	if err != nil {
		c.l.Warnf(ctx, "realtime.channel.handleFrame: %v", err)
		return
	}
	if !dispatch(ctx, c.handler, ev) {
		c.l.Debugw(ctx, "realtime.channel.handleFrame: ignoring frame", "type", ev.eventType())
	}
}

func (c *channel) setStatus(ctx context.Context, s State, attempts int) {
	c.mu.Lock()
	c.state = s
	c.attempts = attempts
	c.mu.Unlock()

	c.handler.OnStatus(ctx, Status{State: s, ReconnectAttempts: attempts})
}

func (c *channel) header(ctx context.Context) http.Header {
	if c.tokens == nil {
		return nil
	}
	token, err := c.tokens.Token(ctx)
	if err != nil {
		c.l.Warnf(ctx, "realtime.channel.header: %v", err)
		return nil
	}
	if token == "" {
		return nil
	}
	h := http.Header{}
	h.Set("Authorization", "Bearer "+token)
	return h
}

func isNormalClose(err error) bool {
	var ce *websocket.CloseError
	if errors.As(err, &ce) {
		return ce.Code == websocket.CloseNormalClosure || ce.Code == websocket.CloseGoingAway
	}
	return false
}
