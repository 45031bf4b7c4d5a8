package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/vogiaan1904/ticketbottle-parkgate/internal/api"
	"github.com/vogiaan1904/ticketbottle-parkgate/internal/delivery/kafka"
	"github.com/vogiaan1904/ticketbottle-parkgate/internal/delivery/kafka/producer"
	internalErrors "github.com/vogiaan1904/ticketbottle-parkgate/internal/errors"
	"github.com/vogiaan1904/ticketbottle-parkgate/internal/models"
	"github.com/vogiaan1904/ticketbottle-parkgate/internal/notify"
	pkgErrors "github.com/vogiaan1904/ticketbottle-parkgate/pkg/errors"
	pkgLog "github.com/vogiaan1904/ticketbottle-parkgate/pkg/logger"
	"github.com/vogiaan1904/ticketbottle-parkgate/pkg/util"
)

type CheckoutService interface {
	Checkout(ctx context.Context, ticketID string, forceConvertToVisitor bool) (*models.CheckoutResult, error)
}

type checkoutService struct {
	api       api.Client
	prod      producer.Producer
	n         notify.Notifier
	l         pkgLog.Logger
	stationID string
}

func NewCheckoutService(cli api.Client, prod producer.Producer, n notify.Notifier, l pkgLog.Logger, stationID string) CheckoutService {
	return &checkoutService{
		api:       cli,
		prod:      prod,
		n:         n,
		l:         l,
		stationID: stationID,
	}
}

func (s *checkoutService) Checkout(ctx context.Context, ticketID string, forceConvertToVisitor bool) (*models.CheckoutResult, error) {
	ticketID = strings.TrimSpace(ticketID)
	if ticketID == "" {
		return nil, internalErrors.ErrTicketMissing
	}

	res, err := s.api.Checkout(ctx, models.CheckoutRequest{
		TicketID:              ticketID,
		ForceConvertToVisitor: forceConvertToVisitor,
	})
	if err != nil {
		s.l.Warnf(ctx, "service.checkoutService.Checkout: %v", err)
		s.n.Notify(ctx, notify.Notice{Level: notify.LevelError, Title: "Checkout failed", Message: pkgErrors.Message(err)})
		return nil, err
	}
	if res.TicketID == "" {
		res.TicketID = ticketID
	}

	if err := s.prod.PublishCheckoutCompleted(ctx, kafka.CheckoutCompletedEvent{
		TicketID:      res.TicketID,
		GateID:        s.stationID,
		DurationHours: res.DurationHours,
		Amount:        res.Amount,
		Converted:     forceConvertToVisitor,
		CheckoutAt:    res.CheckoutAt,
	}); err != nil {
		s.l.Errorf(ctx, "service.checkoutService.Checkout: %v", err)
	}

	s.n.Notify(ctx, notify.Notice{
		Level:   notify.LevelSuccess,
		Title:   "Checked out",
		Message: fmt.Sprintf("ticket %s, %s, %s", res.TicketID, util.FormatHours(res.DurationHours), util.FormatAmount(res.Amount)),
	})
	return res, nil
}
