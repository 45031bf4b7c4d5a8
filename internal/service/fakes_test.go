package service

import (
	"context"
	"net/http"
	"sync"

	"github.com/vogiaan1904/ticketbottle-parkgate/internal/delivery/kafka"
	"github.com/vogiaan1904/ticketbottle-parkgate/internal/delivery/kafka/producer"
	"github.com/vogiaan1904/ticketbottle-parkgate/internal/models"
	pkgErrors "github.com/vogiaan1904/ticketbottle-parkgate/pkg/errors"
)

type fakeAPI struct {
	mu sync.Mutex

	gates         []models.Gate
	zones         map[string][]models.Zone
	subscriptions map[string]*models.Subscription
	// blocks holds lookups and check-ins until the channel is closed.
	blocks map[string]chan struct{}

	checkinResult *models.CheckinResult
	checkinErr    error
	checkoutErr   error

	gateCalls     int
	zoneCalls     map[string]int
	subCalls      map[string]int
	checkins      []models.CheckinRequest
	checkouts     []models.CheckoutRequest
	zoneOpenCalls []string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		zones:         map[string][]models.Zone{},
		subscriptions: map[string]*models.Subscription{},
		blocks:        map[string]chan struct{}{},
		zoneCalls:     map[string]int{},
		subCalls:      map[string]int{},
	}
}

func (f *fakeAPI) block(key string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.blocks[key] = ch
	return ch
}

func (f *fakeAPI) wait(key string) {
	f.mu.Lock()
	ch, ok := f.blocks[key]
	f.mu.Unlock()
	if ok {
		<-ch
	}
}

func (f *fakeAPI) SubCalls(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.subCalls[id]
}

func (f *fakeAPI) ZoneCalls(gateID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.zoneCalls[gateID]
}

func (f *fakeAPI) Checkins() []models.CheckinRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.CheckinRequest(nil), f.checkins...)
}

func (f *fakeAPI) ListGates(context.Context) ([]models.Gate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gateCalls++
	return f.gates, nil
}

func (f *fakeAPI) ListZones(_ context.Context, gateID string) ([]models.Zone, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.zoneCalls[gateID]++
	return append([]models.Zone(nil), f.zones[gateID]...), nil
}

func (f *fakeAPI) GetSubscription(_ context.Context, id string) (*models.Subscription, error) {
	f.mu.Lock()
	f.subCalls[id]++
	f.mu.Unlock()

	f.wait("sub:" + id)

	f.mu.Lock()
	defer f.mu.Unlock()
	sub, ok := f.subscriptions[id]
	if !ok {
		return nil, pkgErrors.NewHTTPError(http.StatusNotFound, "Subscription "+id+" not found")
	}
	return sub, nil
}

func (f *fakeAPI) Checkin(_ context.Context, req models.CheckinRequest) (*models.CheckinResult, error) {
	f.mu.Lock()
	f.checkins = append(f.checkins, req)
	f.mu.Unlock()

	f.wait("checkin")

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.checkinErr != nil {
		return nil, f.checkinErr
	}
	if f.checkinResult != nil {
		return f.checkinResult, nil
	}
	return &models.CheckinResult{
		Ticket: models.Ticket{ID: "t_1", Type: req.Type, ZoneID: req.ZoneID, GateID: req.GateID},
		Zone:   models.Zone{ID: req.ZoneID},
		Gate:   models.Gate{ID: req.GateID},
	}, nil
}

func (f *fakeAPI) Checkout(_ context.Context, req models.CheckoutRequest) (*models.CheckoutResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checkouts = append(f.checkouts, req)
	if f.checkoutErr != nil {
		return nil, f.checkoutErr
	}
	return &models.CheckoutResult{DurationHours: 2.25, Amount: 12.5}, nil
}

func (f *fakeAPI) SetZoneOpen(_ context.Context, zoneID string, open bool) (*models.Zone, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.zoneOpenCalls = append(f.zoneOpenCalls, zoneID)
	return &models.Zone{ID: zoneID, Open: open}, nil
}

func (f *fakeAPI) UpdateCategory(_ context.Context, id string, c models.Category) (*models.Category, error) {
	c.ID = id
	return &c, nil
}

func (f *fakeAPI) CreateRushHour(_ context.Context, r models.RushHour) (*models.RushHour, error) {
	return &r, nil
}

func (f *fakeAPI) CreateVacation(_ context.Context, v models.Vacation) (*models.Vacation, error) {
	return &v, nil
}

func (f *fakeAPI) ListUsers(context.Context) ([]models.User, error) {
	return nil, nil
}

func (f *fakeAPI) CreateUser(_ context.Context, u models.User) (*models.User, error) {
	return &u, nil
}

func (f *fakeAPI) UpdateUser(_ context.Context, id string, u models.User) (*models.User, error) {
	u.ID = id
	return &u, nil
}

func (f *fakeAPI) DeleteUser(context.Context, string) error {
	return pkgErrors.NewHTTPError(http.StatusForbidden, "Cannot delete the last admin")
}

type recordingProducer struct {
	producer.Producer

	mu        sync.Mutex
	checkins  []kafka.CheckinCompletedEvent
	checkouts []kafka.CheckoutCompletedEvent
}

func newRecordingProducer() *recordingProducer {
	return &recordingProducer{Producer: producer.NewNopProducer()}
}

func (p *recordingProducer) PublishCheckinCompleted(_ context.Context, ev kafka.CheckinCompletedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.checkins = append(p.checkins, ev)
	return nil
}

func (p *recordingProducer) PublishCheckoutCompleted(_ context.Context, ev kafka.CheckoutCompletedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.checkouts = append(p.checkouts, ev)
	return nil
}
