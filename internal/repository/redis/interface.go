package repository

import (
	"context"

	"github.com/vogiaan1904/ticketbottle-parkgate/internal/models"
)

// QueryCache holds master-data responses for the stale window. A miss is
// reported with ok == false and a nil error.
type QueryCache interface {
	GetGates(ctx context.Context) (gates []models.Gate, ok bool, err error)
	SetGates(ctx context.Context, gates []models.Gate) error

	GetZones(ctx context.Context, gateID string) (zones []models.Zone, ok bool, err error)
	SetZones(ctx context.Context, gateID string, zones []models.Zone) error
	InvalidateZones(ctx context.Context, gateID string) error
}
