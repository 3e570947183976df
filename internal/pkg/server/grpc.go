package server

import (
	"net"

	"github.com/kiosk404/herald/pkg/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// GRPCAPIServer wraps a grpc.Server with its listen address and health service.
type GRPCAPIServer struct {
	*grpc.Server
	address string
	health  *health.Server
}

// NewGRPCAPIServer registers the standard health service on srv.
func NewGRPCAPIServer(srv *grpc.Server, address string) *GRPCAPIServer {
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)

	return &GRPCAPIServer{Server: srv, address: address, health: hs}
}

// SetServing flips the health status reported for service ("" is the whole server).
func (s *GRPCAPIServer) SetServing(service string, serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(service, status)
}

func (s *GRPCAPIServer) Run() {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		logger.Error("[GRPC] failed to listen on %s: %v", s.address, err)
		return
	}

	go func() {
		if err := s.Serve(listen); err != nil {
			logger.Error("[GRPC] failed to start grpc server: %v", err)
		}
	}()

	logger.Info("[GRPC] start grpc server at %s", s.address)
}

func (s *GRPCAPIServer) Stop() {
	s.health.Shutdown()
	s.GracefulStop()
	logger.Info("[GRPC] grpc server on %s stopped", s.address)
}
