package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/vogiaan1904/ticketbottle-parkgate/internal/models"
)

var (
	addr          = flag.String("addr", ":3000", "Listen address")
	numGates      = flag.Int("gates", 3, "Number of gates")
	zonesPerGate  = flag.Int("zones", 4, "Number of zones per gate")
	slotsPerZone  = flag.Int("slots", 40, "Slots per zone")
	pushInterval  = flag.Duration("push-interval", 2*time.Second, "Interval between zone updates")
	adminInterval = flag.Duration("admin-interval", 30*time.Second, "Interval between admin updates (0 disables)")
	malformedRate = flag.Float64("malformed-rate", 0.05, "Probability of pushing a malformed frame instead of an update")
	dropAfter     = flag.Duration("drop-after", 0, "Close every connection after this long (0 disables)")
)

type wireFrame struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

type inboundFrame struct {
	Type    string `json:"type"`
	Payload struct {
		GateID string `json:"gateId"`
	} `json:"payload"`
}

type lot struct {
	mu    sync.Mutex
	gates []models.Gate
	zones map[string]*models.Zone
}

type client struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
	gates   map[string]bool
	mu      sync.Mutex
}

func (c *client) send(v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(v)
}

func (c *client) sendRaw(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *client) subscribed(gateIDs []string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range gateIDs {
		if c.gates[id] {
			return true
		}
	}
	return false
}

type hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
}

func (h *hub) add(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

func (h *hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
}

func (h *hub) snapshot() []*client {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		out = append(out, c)
	}
	return out
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func main() {
	flag.Parse()

	if *numGates <= 0 || *zonesPerGate <= 0 || *slotsPerZone <= 0 {
		fmt.Println("Error: --gates, --zones and --slots must be positive")
		flag.Usage()
		os.Exit(1)
	}

	l := newLot(*numGates, *zonesPerGate, *slotsPerZone)
	h := &hub{clients: map[*client]struct{}{}}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWS(h, w, r)
	})
	mux.HandleFunc("/api/v1/master/gates", func(w http.ResponseWriter, r *http.Request) {
		l.mu.Lock()
		defer l.mu.Unlock()
		writeJSON(w, http.StatusOK, l.gates)
	})
	mux.HandleFunc("/api/v1/master/zones", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, l.zonesOf(r.URL.Query().Get("gateId")))
	})
	mux.HandleFunc("/api/v1/tickets/checkin", func(w http.ResponseWriter, r *http.Request) {
		serveCheckin(l, h, w, r)
	})

	srv := &http.Server{Addr: *addr, Handler: mux}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go pushZones(ctx, l, h)
	if *adminInterval > 0 {
		go pushAdmin(ctx, l, h)
	}

	go func() {
		fmt.Printf("✅ Simulator listening on %s (%d gates, %d zones each)\n", *addr, *numGates, *zonesPerGate)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("Server error: %v\n", err)
			cancel()
		}
	}()

	<-ctx.Done()
	fmt.Println("\n🛑 Shutting down simulator...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
}

func newLot(gates, zonesPerGate, slots int) *lot {
	l := &lot{zones: map[string]*models.Zone{}}
	categories := []string{"standard", "premium", "ev"}

	for g := 1; g <= gates; g++ {
		gate := models.Gate{
			ID:       fmt.Sprintf("gate-%d", g),
			Name:     fmt.Sprintf("Gate %d", g),
			Location: fmt.Sprintf("Level %d", g),
		}
		for z := 1; z <= zonesPerGate; z++ {
			id := fmt.Sprintf("zone-%d-%d", g, z)
			occupied := rand.Intn(slots)
			reserved := slots / 4
			free := slots - occupied
			l.zones[id] = &models.Zone{
				ID:                      id,
				Name:                    fmt.Sprintf("Zone %d%c", g, 'A'+z-1),
				CategoryID:              categories[(z-1)%len(categories)],
				GateIDs:                 []string{gate.ID},
				TotalSlots:              slots,
				Occupied:                occupied,
				Free:                    free,
				Reserved:                reserved,
				AvailableForVisitors:    max(free-reserved, 0),
				AvailableForSubscribers: min(free, reserved),
				RateNormal:              2.5,
				RateSpecial:             4,
				Open:                    true,
			}
			gate.ZoneIDs = append(gate.ZoneIDs, id)
		}
		l.gates = append(l.gates, gate)
	}
	return l
}

func (l *lot) zonesOf(gateID string) []models.Zone {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := []models.Zone{}
	for _, g := range l.gates {
		if g.ID != gateID {
			continue
		}
		for _, id := range g.ZoneIDs {
			out = append(out, *l.zones[id])
		}
	}
	return out
}

// drift moves one random zone by one car in or out and returns its copy.
func (l *lot) drift() models.Zone {
	l.mu.Lock()
	defer l.mu.Unlock()

	ids := make([]string, 0, len(l.zones))
	for id := range l.zones {
		ids = append(ids, id)
	}
	z := l.zones[ids[rand.Intn(len(ids))]]

	if rand.Intn(2) == 0 && z.Free > 0 {
		z.Occupied++
	} else if z.Occupied > 0 {
		z.Occupied--
	}
	recount(z)
	return *z
}

func recount(z *models.Zone) {
	z.Free = z.TotalSlots - z.Occupied
	z.AvailableForVisitors = max(z.Free-z.Reserved, 0)
	z.AvailableForSubscribers = min(z.Free, z.Reserved)
}

func serveWS(h *hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		fmt.Printf("Upgrade failed: %v\n", err)
		return
	}

	c := &client{conn: conn, gates: map[string]bool{}}
	h.add(c)
	fmt.Printf("🔌 Client connected from %s (auth: %t)\n", r.RemoteAddr, r.Header.Get("Authorization") != "")

	if *dropAfter > 0 {
		time.AfterFunc(*dropAfter, func() {
			fmt.Printf("✂️  Dropping client %s\n", r.RemoteAddr)
			conn.Close()
		})
	}

	defer func() {
		h.remove(c)
		conn.Close()
		fmt.Printf("👋 Client %s disconnected\n", r.RemoteAddr)
	}()

	for {
		var f inboundFrame
		if err := conn.ReadJSON(&f); err != nil {
			return
		}

		c.mu.Lock()
		switch f.Type {
		case "subscribe":
			c.gates[f.Payload.GateID] = true
			fmt.Printf("📥 %s subscribed to %s\n", r.RemoteAddr, f.Payload.GateID)
		case "unsubscribe":
			delete(c.gates, f.Payload.GateID)
			fmt.Printf("📤 %s unsubscribed from %s\n", r.RemoteAddr, f.Payload.GateID)
		default:
			fmt.Printf("❓ Unknown frame %q from %s\n", f.Type, r.RemoteAddr)
		}
		c.mu.Unlock()
	}
}

func serveCheckin(l *lot, h *hub, w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"message": "method not allowed"})
		return
	}

	var req models.CheckinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid request body"})
		return
	}

	l.mu.Lock()
	z, ok := l.zones[req.ZoneID]
	if !ok {
		l.mu.Unlock()
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Zone not found"})
		return
	}
	if !z.Open || z.Available(req.Type) <= 0 {
		l.mu.Unlock()
		writeJSON(w, http.StatusConflict, map[string]string{"message": "Zone is full"})
		return
	}
	z.Occupied++
	recount(z)
	zone := *z
	l.mu.Unlock()

	ticket := models.Ticket{
		ID:             uuid.New().String(),
		Type:           req.Type,
		ZoneID:         req.ZoneID,
		GateID:         req.GateID,
		SubscriptionID: req.SubscriptionID,
		CheckinAt:      time.Now(),
	}
	writeJSON(w, http.StatusCreated, models.CheckinResult{Ticket: ticket, Zone: zone})
	fmt.Printf("🎫 Ticket %s issued in %s\n", ticket.ID, zone.ID)

	broadcast(h, zone.GateIDs, wireFrame{Type: "zone-update", Payload: zone})
}

func pushZones(ctx context.Context, l *lot, h *hub) {
	ticker := time.NewTicker(*pushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if rand.Float64() < *malformedRate {
			for _, c := range h.snapshot() {
				_ = c.sendRaw([]byte(`{"type":"zone-update","payload":`))
			}
			fmt.Println("💥 Pushed malformed frame")
			continue
		}

		zone := l.drift()
		broadcast(h, zone.GateIDs, wireFrame{Type: "zone-update", Payload: zone})
	}
}

func pushAdmin(ctx context.Context, l *lot, h *hub) {
	ticker := time.NewTicker(*adminInterval)
	defer ticker.Stop()

	actions := []string{"zone-opened", "zone-closed", "category-rates-changed", "rush-hour-added", "vacation-added", "maintenance-window"}
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		action := actions[rand.Intn(len(actions))]
		payload := map[string]any{"action": action}
		if strings.HasPrefix(action, "zone-") {
			zone := l.drift()
			payload["zoneId"] = zone.ID
		}
		for _, c := range h.snapshot() {
			_ = c.send(wireFrame{Type: "admin-update", Payload: payload})
		}
		fmt.Printf("🛠️  Pushed admin update %s\n", action)
	}
}

func broadcast(h *hub, gateIDs []string, f wireFrame) {
	for _, c := range h.snapshot() {
		if !c.subscribed(gateIDs) {
			continue
		}
		if err := c.send(f); err != nil {
			fmt.Printf("Push failed: %v\n", err)
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
