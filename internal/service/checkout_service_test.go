package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	internalErrors "github.com/vogiaan1904/ticketbottle-parkgate/internal/errors"
	"github.com/vogiaan1904/ticketbottle-parkgate/internal/models"
	"github.com/vogiaan1904/ticketbottle-parkgate/internal/notify"
	pkgErrors "github.com/vogiaan1904/ticketbottle-parkgate/pkg/errors"
	"github.com/vogiaan1904/ticketbottle-parkgate/pkg/logger"
)

func TestCheckoutService_Checkout(t *testing.T) {
	api := newFakeAPI()
	prod := newRecordingProducer()
	rec := &notify.Recorder{}
	svc := NewCheckoutService(api, prod, rec, logger.InitializeTestZapLogger(), "checkpoint_1")

	res, err := svc.Checkout(context.Background(), " t_42 ", true)
	require.NoError(t, err)
	assert.Equal(t, "t_42", res.TicketID)

	assert.Equal(t, []models.CheckoutRequest{{TicketID: "t_42", ForceConvertToVisitor: true}}, api.checkouts)
	require.Len(t, prod.checkouts, 1)
	assert.Equal(t, "checkpoint_1", prod.checkouts[0].GateID)
	assert.True(t, prod.checkouts[0].Converted)
	assert.Equal(t, "ticket t_42, 2h 15m, $12.50", rec.Notices()[0].Message)
}

func TestCheckoutService_Errors(t *testing.T) {
	api := newFakeAPI()
	api.checkoutErr = pkgErrors.NewHTTPError(http.StatusNotFound, "Ticket t_9 not found")
	rec := &notify.Recorder{}
	svc := NewCheckoutService(api, newRecordingProducer(), rec, logger.InitializeTestZapLogger(), "checkpoint_1")

	_, err := svc.Checkout(context.Background(), "  ", false)
	assert.ErrorIs(t, err, internalErrors.ErrTicketMissing)
	assert.Empty(t, api.checkouts)

	_, err = svc.Checkout(context.Background(), "t_9", false)
	require.Error(t, err)
	assert.Equal(t, "Ticket t_9 not found", err.Error())
	assert.Equal(t, notify.LevelError, rec.Notices()[0].Level)
}

func TestAdminService(t *testing.T) {
	api := newFakeAPI()
	svc := NewAdminService(api, logger.InitializeTestZapLogger())
	ctx := context.Background()

	z, err := svc.SetZoneOpen(ctx, "Z1", false)
	require.NoError(t, err)
	assert.False(t, z.Open)
	assert.Equal(t, []string{"Z1"}, api.zoneOpenCalls)

	cat, err := svc.UpdateCategory(ctx, "cat_1", models.Category{RateNormal: 2, RateSpecial: 3})
	require.NoError(t, err)
	assert.Equal(t, "cat_1", cat.ID)

	err = svc.DeleteUser(ctx, "u_admin")
	assert.Equal(t, "Cannot delete the last admin", pkgErrors.Message(err))
}
