package grpc_control

import (
	"fmt"
	"net"

	"index-dashboard/src/logger"
	"index-dashboard/src/models"
	"index-dashboard/src/session"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the health service name reported alongside the server-wide
// ("") status.
const ServiceName = "dashboard.Dashboard"

// -----------------------------------------------------------------------------

// ControlService exposes the standard gRPC health protocol. The dashboard is
// SERVING while the current session holds the reference table and
// NOT_SERVING before the first load and after every reset.
type ControlService struct {
	Addr   string
	Health *health.Server
	Logger *logger.Logger

	server *grpc.Server
}

// NewControlService creates the service and follows sess load/reset events.
func NewControlService(cfg *models.MConfig, sess *session.Session, log *logger.Logger) *ControlService {
	s := &ControlService{
		Addr:   fmt.Sprintf("%s:%d", cfg.GrpcHost, cfg.GrpcPort),
		Health: health.NewServer(),
		Logger: log,
		server: grpc.NewServer(),
	}
	healthpb.RegisterHealthServer(s.server, s.Health)

	s.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
	if sess.Loaded() {
		s.setStatus(healthpb.HealthCheckResponse_SERVING)
	}
	sess.OnLoad(func(string) { s.setStatus(healthpb.HealthCheckResponse_SERVING) })
	sess.OnReset(func(string) { s.setStatus(healthpb.HealthCheckResponse_NOT_SERVING) })
	return s
}

// -----------------------------------------------------------------------------

func (s *ControlService) setStatus(st healthpb.HealthCheckResponse_ServingStatus) {
	s.Health.SetServingStatus("", st)
	s.Health.SetServingStatus(ServiceName, st)
	s.Logger.Debug("Health status %s", st)
}

// -----------------------------------------------------------------------------

// Start listens on Addr and serves until Stop.
func (s *ControlService) Start() error {
	lis, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen for gRPC on %s: %w", s.Addr, err)
	}
	return s.Serve(lis)
}

// Serve serves on an existing listener.
func (s *ControlService) Serve(lis net.Listener) error {
	s.Logger.Info("Starting gRPC health service on %s", lis.Addr())
	return s.server.Serve(lis)
}

// -----------------------------------------------------------------------------

func (s *ControlService) Stop() {
	s.Health.Shutdown()
	s.server.GracefulStop()
}
