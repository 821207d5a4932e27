package health_service_api

import (
	"context"
	"sort"
	"time"

	"github.com/Domenick1991/airport/internal/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// CheckFunc reports whether a dependency is reachable.
type CheckFunc func(ctx context.Context) error

// Server implements grpc.health.v1.Health on top of periodic dependency checks.
// Each dependency is reported under its own service name; the empty service
// name is SERVING only when all of them are.
type Server struct {
	health   *health.Server
	checks   map[string]CheckFunc
	interval time.Duration
	timeout  time.Duration
}

func NewServer(interval time.Duration, checks map[string]CheckFunc) *Server {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Server{
		health:   health.NewServer(),
		checks:   checks,
		interval: interval,
		timeout:  2 * time.Second,
	}
}

func (s *Server) Register(grpcSrv *grpc.Server) {
	healthpb.RegisterHealthServer(grpcSrv, s.health)
}

// Health exposes the underlying health server for in-process clients.
func (s *Server) Health() healthpb.HealthServer {
	return s.health
}

// CheckOnce runs every check and updates the reported statuses.
func (s *Server) CheckOnce(ctx context.Context) {
	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	overall := healthpb.HealthCheckResponse_SERVING
	for _, name := range names {
		checkCtx, cancel := context.WithTimeout(ctx, s.timeout)
		err := s.checks[name](checkCtx)
		cancel()

		status := healthpb.HealthCheckResponse_SERVING
		if err != nil {
			status = healthpb.HealthCheckResponse_NOT_SERVING
			overall = healthpb.HealthCheckResponse_NOT_SERVING
			logger.WithContext(ctx).Warn("health check failed", "dependency", name, "error", err)
		}
		s.health.SetServingStatus(name, status)
	}
	s.health.SetServingStatus("", overall)
}

// Run checks dependencies every interval until ctx is done, then marks
// everything NOT_SERVING.
func (s *Server) Run(ctx context.Context) {
	s.CheckOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.health.Shutdown()
			return
		case <-ticker.C:
			s.CheckOnce(ctx)
		}
	}
}
