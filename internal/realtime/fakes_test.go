package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

type fakeConn struct {
	frames chan []byte
	closed chan struct{}
	once   sync.Once

	mu      sync.Mutex
	written []outboundFrame
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		frames: make(chan []byte, 16),
		closed: make(chan struct{}),
	}
}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	select {
	case data, ok := <-c.frames:
		if !ok {
			return 0, nil, &websocket.CloseError{Code: websocket.CloseNormalClosure}
		}
		return websocket.TextMessage, data, nil
	case <-c.closed:
		return 0, nil, errors.New("use of closed connection")
	}
}

func (c *fakeConn) WriteJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var f outboundFrame
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.written = append(c.written, f)
	return nil
}

func (c *fakeConn) Close() error {
	c.once.Do(func() { close(c.closed) })
	return nil
}

func (c *fakeConn) Written() []outboundFrame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]outboundFrame(nil), c.written...)
}

// fakeDialer hands out conns in order, failing once they run out.
type fakeDialer struct {
	mu      sync.Mutex
	conns   []*fakeConn
	dials   int
	headers []http.Header
}

func (d *fakeDialer) Dial(_ context.Context, _ string, header http.Header) (Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.dials++
	d.headers = append(d.headers, header)
	if len(d.conns) == 0 {
		return nil, errors.New("connection refused")
	}
	conn := d.conns[0]
	d.conns = d.conns[1:]
	return conn, nil
}

func (d *fakeDialer) Dials() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dials
}

type recorder struct {
	mu       sync.Mutex
	zones    []ZoneUpdate
	admins   []AdminUpdate
	statuses []Status

	states chan State
}

func newRecorder() *recorder {
	return &recorder{states: make(chan State, 256)}
}

func (r *recorder) OnZoneUpdate(_ context.Context, ev ZoneUpdate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.zones = append(r.zones, ev)
}

func (r *recorder) OnAdminUpdate(_ context.Context, ev AdminUpdate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.admins = append(r.admins, ev)
}

func (r *recorder) OnStatus(_ context.Context, st Status) {
	r.mu.Lock()
	r.statuses = append(r.statuses, st)
	r.mu.Unlock()
	r.states <- st.State
}

func (r *recorder) Zones() []ZoneUpdate {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ZoneUpdate(nil), r.zones...)
}

func (r *recorder) Admins() []AdminUpdate {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]AdminUpdate(nil), r.admins...)
}

func (r *recorder) count(s State) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, st := range r.statuses {
		if st.State == s {
			n++
		}
	}
	return n
}

type staticToken string

func (s staticToken) Token(context.Context) (string, error) {
	return string(s), nil
}
