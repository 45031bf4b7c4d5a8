package service

import (
	"context"

	"github.com/vogiaan1904/ticketbottle-parkgate/internal/api"
	"github.com/vogiaan1904/ticketbottle-parkgate/internal/models"
	repository "github.com/vogiaan1904/ticketbottle-parkgate/internal/repository/redis"
	"github.com/vogiaan1904/ticketbottle-parkgate/internal/store"
	pkgLog "github.com/vogiaan1904/ticketbottle-parkgate/pkg/logger"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

type ZoneService interface {
	// LoadGates returns the gate list and writes it to the store.
	LoadGates(ctx context.Context) ([]models.Gate, error)
	// LoadZones returns the gate's zones, from the query cache while fresh.
	LoadZones(ctx context.Context, gateID string) ([]models.Zone, error)
	// RefreshZones bypasses the query cache and applies the result to the
	// store if gateID is still the current gate. Concurrent calls for the
	// same gate share one request.
	RefreshZones(ctx context.Context, gateID string) ([]models.Zone, error)
	// Bootstrap loads gates and the zones of gateID concurrently. The zones
	// are written to the store when gateID is the current gate and are
	// otherwise left in the query cache for the next LoadZones.
	Bootstrap(ctx context.Context, gateID string) error
}

type zoneService struct {
	api   api.Client
	cache repository.QueryCache
	st    store.Store
	l     pkgLog.Logger

	sf singleflight.Group
}

func NewZoneService(cli api.Client, cache repository.QueryCache, st store.Store, l pkgLog.Logger) ZoneService {
	return &zoneService{
		api:   cli,
		cache: cache,
		st:    st,
		l:     l,
	}
}

func (s *zoneService) LoadGates(ctx context.Context) ([]models.Gate, error) {
	gates, ok, err := s.cache.GetGates(ctx)
	if err != nil {
		s.l.Warnf(ctx, "service.zoneService.LoadGates: cache: %v", err)
	}
	if !ok {
		gates, err = s.api.ListGates(ctx)
		if err != nil {
			s.l.Errorf(ctx, "service.zoneService.LoadGates: %v", err)
			return nil, err
		}
		if err := s.cache.SetGates(ctx, gates); err != nil {
			s.l.Warnf(ctx, "service.zoneService.LoadGates: cache: %v", err)
		}
	}

	s.st.SetGates(gates)
	return gates, nil
}

func (s *zoneService) LoadZones(ctx context.Context, gateID string) ([]models.Zone, error) {
	zones, ok, err := s.cache.GetZones(ctx, gateID)
	if err != nil {
		s.l.Warnf(ctx, "service.zoneService.LoadZones: cache: %v", err)
	}
	if ok {
		return zones, nil
	}
	return s.fetchZones(ctx, gateID)
}

func (s *zoneService) RefreshZones(ctx context.Context, gateID string) ([]models.Zone, error) {
	v, err, _ := s.sf.Do("zones:"+gateID, func() (any, error) {
		if err := s.cache.InvalidateZones(ctx, gateID); err != nil {
			s.l.Warnf(ctx, "service.zoneService.RefreshZones: cache: %v", err)
		}
		return s.fetchZones(ctx, gateID)
	})
	if err != nil {
		return nil, err
	}

	zones := v.([]models.Zone)
	if s.st.Snapshot().CurrentGateID == gateID {
		s.st.SetZones(zones)
	} else {
		s.l.Debugf(ctx, "service.zoneService.RefreshZones: gate %s no longer current, result dropped", gateID)
	}
	return zones, nil
}

func (s *zoneService) Bootstrap(ctx context.Context, gateID string) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		_, err := s.LoadGates(gctx)
		return err
	})
	if gateID != "" {
		g.Go(func() error {
			zones, err := s.LoadZones(gctx, gateID)
			if err != nil {
				return err
			}
			if s.st.Snapshot().CurrentGateID == gateID {
				s.st.SetZones(zones)
			}
			return nil
		})
	}

	return g.Wait()
}

func (s *zoneService) fetchZones(ctx context.Context, gateID string) ([]models.Zone, error) {
	zones, err := s.api.ListZones(ctx, gateID)
	if err != nil {
		s.l.Errorf(ctx, "service.zoneService.fetchZones: %v", err)
		return nil, err
	}
	if err := s.cache.SetZones(ctx, gateID, zones); err != nil {
		s.l.Warnf(ctx, "service.zoneService.fetchZones: cache: %v", err)
	}
	return zones, nil
}
