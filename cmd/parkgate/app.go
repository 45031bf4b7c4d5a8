package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sync"

	"github.com/vogiaan1904/ticketbottle-parkgate/config"
	"github.com/vogiaan1904/ticketbottle-parkgate/internal/api"
	"github.com/vogiaan1904/ticketbottle-parkgate/internal/auth"
	grpcDelivery "github.com/vogiaan1904/ticketbottle-parkgate/internal/delivery/grpc"
	"github.com/vogiaan1904/ticketbottle-parkgate/internal/delivery/kafka/producer"
	"github.com/vogiaan1904/ticketbottle-parkgate/internal/gatesession"
	"github.com/vogiaan1904/ticketbottle-parkgate/internal/infra/redis"
	"github.com/vogiaan1904/ticketbottle-parkgate/internal/notify"
	"github.com/vogiaan1904/ticketbottle-parkgate/internal/realtime"
	"github.com/vogiaan1904/ticketbottle-parkgate/internal/service"
	"github.com/vogiaan1904/ticketbottle-parkgate/internal/store"
	"github.com/vogiaan1904/ticketbottle-parkgate/pkg/clock"
	pkgGrpc "github.com/vogiaan1904/ticketbottle-parkgate/pkg/grpc"
	pkgKafka "github.com/vogiaan1904/ticketbottle-parkgate/pkg/kafka"
	pkgLog "github.com/vogiaan1904/ticketbottle-parkgate/pkg/logger"
)

// app owns every long-lived component of one terminal process.
type app struct {
	cfg *config.Config
	l   pkgLog.Logger
	n   notify.Notifier

	session auth.Store
	tokens  auth.TokenProvider

	st       store.Store
	ch       realtime.Channel
	cli      api.Client
	prod     producer.Producer
	zones    service.ZoneService
	checkin  service.CheckinService
	checkout service.CheckoutService
	admin    service.AdminService
	gates    gatesession.Controller

	loggedOut  chan struct{}
	logoutOnce sync.Once
	closers    []func()
}

// newApp wires the components. The health server is started only for
// long-running commands.
func newApp(ctx context.Context, cfg *config.Config, l pkgLog.Logger, serveHealth bool) (*app, error) {
	a := &app{
		cfg:       cfg,
		l:         l,
		n:         notify.Multi(notify.NewLogNotifier(l), notify.NewWriterNotifier(os.Stdout)),
		loggedOut: make(chan struct{}),
	}

	// Credentials
	a.session = auth.NewFileStore(cfg.Session.TokenFile, clock.Real())
	a.tokens = a.session
	if cfg.Session.Token != "" {
		a.tokens = auth.NewStaticProvider(cfg.Session.Token, clock.Real())
	}

	// Zone cache
	a.st = store.New(a.n, l)

	// REST client
	a.cli = api.New(cfg.API.BaseURL, a.tokens, l,
		api.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}),
		api.WithRetry(cfg.API.Retry),
		api.WithOnUnauthorized(a.forceLogout),
	)

	// Query cache
	cache, closeCache, err := redis.NewQueryCache(ctx, cfg, l)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, closeCache)

	// Activity producer
	a.prod = producer.NewNopProducer()
	if cfg.Kafka.Enabled {
		syncProd, err := pkgKafka.NewProducer(pkgKafka.ProducerConfig{
			Brokers:      cfg.Kafka.Brokers,
			RetryMax:     cfg.Kafka.ProducerRetryMax,
			RequiredAcks: cfg.Kafka.ProducerRequiredAcks,
			ClientID:     "parkgate",
		})
		if err != nil {
			a.close()
			return nil, fmt.Errorf("failed to initialize kafka producer: %w", err)
		}
		a.prod = producer.NewProducer(syncProd, l)
	}
	a.closers = append(a.closers, func() {
		if err := a.prod.Close(); err != nil {
			l.Warnf(context.Background(), "parkgate.app.close: kafka producer: %v", err)
		}
	})

	// Push channel
	a.ch = realtime.New(realtime.Config{
		URL:                  cfg.Realtime.URL,
		ReconnectInterval:    cfg.Realtime.ReconnectInterval,
		MaxReconnectAttempts: cfg.Realtime.MaxReconnectAttempts,
	}, realtime.NewDialer(cfg.Realtime.HandshakeTimeout), a.st, l, realtime.WithTokenSource(a.tokens))

	// Services
	a.zones = service.NewZoneService(a.cli, cache, a.st, l)
	a.checkin = service.NewCheckinService(a.cli, a.st, a.zones, a.prod, a.n, l)
	a.checkout = service.NewCheckoutService(a.cli, a.prod, a.n, l, cfg.Station)
	a.admin = service.NewAdminService(a.cli, l)
	a.gates = gatesession.New(ctx, a.ch, a.st, a.zones, a.prod, l)
	a.closers = append(a.closers, a.checkin.Close, a.gates.Close)

	// Health
	if serveHealth && cfg.Health.Enabled {
		srv, hs, lnr, err := pkgGrpc.NewHealthServer(cfg.Health.GRpcPort)
		if err != nil {
			a.close()
			return nil, err
		}
		reporter := grpcDelivery.NewHealthReporter(hs, a.st, l)
		go func() {
			if err := srv.Serve(lnr); err != nil {
				l.Errorf(ctx, "parkgate.app: gRPC health server: %v", err)
			}
		}()
		a.closers = append(a.closers, func() {
			reporter.Close()
			srv.GracefulStop()
		})
	}

	return a, nil
}

// forceLogout drops the persisted session and every cached value after
// the backend rejected the credentials.
func (a *app) forceLogout(ctx context.Context) {
	a.logoutOnce.Do(func() {
		if err := a.session.Clear(); err != nil {
			a.l.Warnf(ctx, "parkgate.app.forceLogout: %v", err)
		}
		a.st.Reset()
		a.n.Notify(ctx, notify.Notice{
			Level:   notify.LevelError,
			Title:   "Session expired",
			Message: "log in again with parkgate login",
		})
		close(a.loggedOut)
	})
}

// close releases resources in reverse order of creation.
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
