package grpc

import (
	"context"

	"github.com/vogiaan1904/ticketbottle-parkgate/internal/store"
	"github.com/vogiaan1904/ticketbottle-parkgate/pkg/logger"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const ServiceRealtime = "parkgate.realtime"

// HealthReporter mirrors the push channel state into the gRPC health
// service: SERVING while open, NOT_SERVING otherwise.
type HealthReporter interface {
	Close()
}

type healthReporter struct {
	hs      *health.Server
	l       logger.Logger
	unwatch func()
}

func NewHealthReporter(hs *health.Server, st store.Store, l logger.Logger) HealthReporter {
	r := &healthReporter{hs: hs, l: l}
	r.apply(st.Snapshot().Connection)
	r.unwatch = st.Watch(func(prev, next store.State) {
		if prev.Connection != next.Connection {
			r.apply(next.Connection)
		}
	})
	return r
}

func (r *healthReporter) apply(cs store.ConnectionStatus) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if cs.Connected {
		status = healthpb.HealthCheckResponse_SERVING
	}
	if cs.Failed {
		r.l.Warnf(context.Background(), "delivery.grpc.healthReporter.apply: realtime reconnection failed after %d attempts", cs.ReconnectAttempts)
	}
	r.hs.SetServingStatus(ServiceRealtime, status)
}

func (r *healthReporter) Close() {
	r.unwatch()
	r.hs.Shutdown()
}
