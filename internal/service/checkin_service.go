package service

import (
	"context"
	"strings"
	"sync"

	"github.com/vogiaan1904/ticketbottle-parkgate/internal/api"
	"github.com/vogiaan1904/ticketbottle-parkgate/internal/delivery/kafka"
	"github.com/vogiaan1904/ticketbottle-parkgate/internal/delivery/kafka/producer"
	"github.com/vogiaan1904/ticketbottle-parkgate/internal/eligibility"
	internalErrors "github.com/vogiaan1904/ticketbottle-parkgate/internal/errors"
	"github.com/vogiaan1904/ticketbottle-parkgate/internal/models"
	"github.com/vogiaan1904/ticketbottle-parkgate/internal/notify"
	"github.com/vogiaan1904/ticketbottle-parkgate/internal/store"
	pkgErrors "github.com/vogiaan1904/ticketbottle-parkgate/pkg/errors"
	pkgLog "github.com/vogiaan1904/ticketbottle-parkgate/pkg/logger"
)

type ZoneRefresher interface {
	RefreshZones(ctx context.Context, gateID string) ([]models.Zone, error)
}

type CheckinService interface {
	SelectTab(ctx context.Context, tab models.UserType)
	// VerifySubscription looks up id and, unless a newer lookup or a
	// context change happened meanwhile, stores it as the verified
	// subscription. A superseded lookup returns ErrStaleSubscription.
	VerifySubscription(ctx context.Context, id string) (*models.Subscription, error)
	// SelectZone selects zoneID if it is selectable for the current tab.
	// A denied selection leaves the state unchanged.
	SelectZone(ctx context.Context, zoneID string) eligibility.Decision
	Evaluate() eligibility.Decision
	Submit(ctx context.Context) (*models.CheckinResult, error)
	State() CheckinState
	Close()
}

type checkinService struct {
	api   api.Client
	st    store.Store
	zones ZoneRefresher
	prod  producer.Producer
	n     notify.Notifier
	l     pkgLog.Logger

	// applyMu makes "check lookup is current, then write the store"
	// atomic with respect to starting a new lookup.
	applyMu sync.Mutex

	mu      sync.Mutex
	state   CheckinState
	lookup  uint64
	unwatch func()
}

func NewCheckinService(
	cli api.Client,
	st store.Store,
	zones ZoneRefresher,
	prod producer.Producer,
	n notify.Notifier,
	l pkgLog.Logger,
) CheckinService {
	s := &checkinService{
		api:   cli,
		st:    st,
		zones: zones,
		prod:  prod,
		n:     n,
		l:     l,
		state: CheckinState{
			Phase:        PhaseComposing,
			Subscription: SubscriptionNotLookedUp,
		},
	}
	s.unwatch = st.Watch(s.onStoreChange)
	return s
}

func (s *checkinService) Close() {
	s.unwatch()
}

// onStoreChange drops any in-flight lookup when the gate changes.
func (s *checkinService) onStoreChange(prev, next store.State) {
	if prev.CurrentGateID == next.CurrentGateID {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetCompositionLocked()
}

func (s *checkinService) resetCompositionLocked() {
	s.lookup++
	s.state.SubscriptionID = ""
	s.state.Subscription = SubscriptionNotLookedUp
	s.state.SubscriptionError = ""
	if s.state.Phase != PhaseSubmitting {
		s.state.Phase = PhaseComposing
	}
}

func (s *checkinService) SelectTab(ctx context.Context, tab models.UserType) {
	s.applyMu.Lock()
	defer s.applyMu.Unlock()

	s.mu.Lock()
	s.resetCompositionLocked()
	s.mu.Unlock()

	s.st.SetSelectedTab(tab)
}

func (s *checkinService) VerifySubscription(ctx context.Context, id string) (*models.Subscription, error) {
	id = strings.TrimSpace(id)

	s.applyMu.Lock()
	s.mu.Lock()
	s.lookup++
	seq := s.lookup
	if s.state.Phase != PhaseSubmitting {
		s.state.Phase = PhaseComposing
	}
	s.state.SubscriptionID = id
	s.state.SubscriptionError = ""
	s.state.Subscription = SubscriptionPending
	if id == "" {
		s.state.Subscription = SubscriptionNotLookedUp
	}
	s.mu.Unlock()
	s.st.SetVerifiedSubscription(nil)
	s.applyMu.Unlock()

	if id == "" {
		return nil, internalErrors.ErrSubscriptionMissing
	}

	sub, err := s.api.GetSubscription(ctx, id)

	s.applyMu.Lock()
	defer s.applyMu.Unlock()

	s.mu.Lock()
	if s.lookup != seq {
		s.mu.Unlock()
		s.l.Debugf(ctx, "service.checkinService.VerifySubscription: lookup for %s superseded", id)
		return nil, internalErrors.ErrStaleSubscription
	}
	if err != nil {
		s.state.Subscription = SubscriptionInvalid
		s.state.SubscriptionError = pkgErrors.Message(err)
		s.mu.Unlock()
		s.l.Warnf(ctx, "service.checkinService.VerifySubscription: %v", err)
		return nil, err
	}
	s.mu.Unlock()

	// The store only keeps a subscription while the subscriber tab is
	// selected; the lookup status follows what it kept.
	applied := s.st.SetVerifiedSubscription(sub)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !applied {
		s.state.Subscription = SubscriptionNotLookedUp
		s.l.Debugf(ctx, "service.checkinService.VerifySubscription: %s not applied, tab is %s", id, s.st.Snapshot().SelectedTab)
		return nil, internalErrors.ErrSubscriberTabRequired
	}
	s.state.Subscription = SubscriptionVerified
	return sub, nil
}

func (s *checkinService) SelectZone(ctx context.Context, zoneID string) eligibility.Decision {
	snap := s.st.Snapshot()

	var zone *models.Zone
	if z, ok := snap.Zone(zoneID); ok {
		zone = &z
	}

	d := eligibility.SelectDecision(zone, snap.SelectedTab)
	if !d.Allowed {
		s.l.Debugf(ctx, "service.checkinService.SelectZone: %s rejected: %s", zoneID, d.Reason)
		return d
	}

	s.mu.Lock()
	if s.state.Phase != PhaseSubmitting {
		s.state.Phase = PhaseComposing
	}
	s.mu.Unlock()

	s.st.SetSelectedZone(zoneID)
	return d
}

func (s *checkinService) Evaluate() eligibility.Decision {
	snap := s.st.Snapshot()
	return eligibility.Evaluate(snap.SelectedZone(), snap.SelectedTab, snap.VerifiedSubscription)
}

func (s *checkinService) Submit(ctx context.Context) (*models.CheckinResult, error) {
	s.mu.Lock()
	if s.state.Phase == PhaseSubmitting {
		s.mu.Unlock()
		return nil, internalErrors.ErrSubmitInProgress
	}

	snap := s.st.Snapshot()
	if snap.CurrentGateID == "" {
		s.mu.Unlock()
		return nil, internalErrors.ErrNoGateSelected
	}

	zone := snap.SelectedZone()
	d := eligibility.Evaluate(zone, snap.SelectedTab, snap.VerifiedSubscription)
	if !d.Allowed {
		s.mu.Unlock()
		return nil, &NotAllowedError{Reason: d.Reason}
	}

	req := models.CheckinRequest{
		GateID: snap.CurrentGateID,
		ZoneID: zone.ID,
		Type:   snap.SelectedTab,
	}
	if snap.SelectedTab == models.UserTypeSubscriber {
		req.SubscriptionID = snap.VerifiedSubscription.ID
	}

	s.state.Phase = PhaseSubmitting
	s.state.LastError = ""
	s.mu.Unlock()

	res, err := s.api.Checkin(ctx, req)
	if err != nil {
		msg := pkgErrors.Message(err)
		s.mu.Lock()
		s.state.Phase = PhaseFailed
		s.state.LastError = msg
		s.mu.Unlock()

		s.l.Warnf(ctx, "service.checkinService.Submit: %v", err)
		s.n.Notify(ctx, notify.Notice{Level: notify.LevelError, Title: "Check-in failed", Message: msg})
		return nil, err
	}

	// Clear the composition for the next customer before publishing the
	// result, then refetch: counts are never adjusted locally.
	s.applyMu.Lock()
	s.mu.Lock()
	s.resetCompositionLocked()
	s.mu.Unlock()
	s.st.SetSelectedZone("")
	s.st.SetVerifiedSubscription(nil)
	s.applyMu.Unlock()

	s.mu.Lock()
	s.state.Phase = PhaseSucceeded
	s.state.LastResult = res
	s.mu.Unlock()

	if _, err := s.zones.RefreshZones(ctx, req.GateID); err != nil {
		s.l.Warnf(ctx, "service.checkinService.Submit: refresh zones: %v", err)
	}

	if err := s.prod.PublishCheckinCompleted(ctx, kafka.CheckinCompletedEvent{
		TicketID:       res.Ticket.ID,
		GateID:         req.GateID,
		ZoneID:         req.ZoneID,
		Type:           string(req.Type),
		SubscriptionID: req.SubscriptionID,
		CheckinAt:      res.Ticket.CheckinAt,
	}); err != nil {
		s.l.Errorf(ctx, "service.checkinService.Submit: %v", err)
	}

	s.n.Notify(ctx, notify.Notice{
		Level:   notify.LevelSuccess,
		Title:   "Checked in",
		Message: "ticket " + res.Ticket.ID + " zone " + res.Zone.ID,
	})
	return res, nil
}

func (s *checkinService) State() CheckinState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
