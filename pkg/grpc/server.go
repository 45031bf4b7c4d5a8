package grpc

import (
	"fmt"
	"log"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// NewHealthServer returns a gRPC server with the standard health service
// registered, listening on port.
func NewHealthServer(port int) (*grpc.Server, *health.Server, net.Listener, error) {
	lnr, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to listen on port %d: %w", port, err)
	}

	srv := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)

	log.Printf("gRpc health server bound to %s\n", lnr.Addr())

	return srv, hs, lnr, nil
}
