package rpcserver

import (
	log "github.com/golang/glog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// RegisterHealth attaches the standard gRPC health service to srv and
// marks it serving. Callers that watch a reload.Watcher can instead
// flip the status with the returned *health.Server whenever a reload
// fails repeatedly, but this repo always reports SERVING: an Authz
// that fails to reload keeps serving the previously published tree
// (see internal/reload), so the process itself is never unhealthy
// because of a bad rules edit.
func RegisterHealth(srv *grpc.Server) *health.Server {
	h := health.NewServer()
	h.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, h)
	log.V(2).Info("rpcserver: registered grpc health service")
	return h
}
