package server

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// RoomService is the health service name reported for the simulation.
const RoomService = "nobiko.Room"

// NewHealthServer builds a gRPC server exposing grpc.health.v1.Health for
// load balancers. Both the overall and the room service start SERVING.
func NewHealthServer() (*grpc.Server, *health.Server) {
	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(RoomService, healthpb.HealthCheckResponse_SERVING)

	gs := grpc.NewServer()
	healthpb.RegisterHealthServer(gs, hs)
	return gs, hs
}
