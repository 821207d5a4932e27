package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/Domenick1991/airport/api"
	"github.com/Domenick1991/airport/config"
	healthapi "github.com/Domenick1991/airport/internal/api/health_service_api"
	"github.com/Domenick1991/airport/internal/logger"
	"github.com/Domenick1991/airport/internal/middleware"
	"github.com/Domenick1991/airport/internal/service/catalog"
	"github.com/Domenick1991/airport/internal/service/flights"
	"github.com/Domenick1991/airport/internal/service/orders"
	"github.com/gin-gonic/gin"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const swaggerSpec = "/swagger/airport.swagger.json"

type Services struct {
	Catalog catalog.CatalogUseCase
	Flights flights.FlightUseCase
	Orders  orders.OrderUseCase
}

type Servers struct {
	grpcServer *grpc.Server
	httpServer *http.Server
	healthConn *grpc.ClientConn
}

// Run starts the gRPC health server and the HTTP server (REST API, /healthz
// gateway, metrics and swagger) and blocks until ctx is canceled or a server
// fails.
func Run(ctx context.Context, cfg *config.Config, services Services, health *healthapi.Server) error {
	s, err := newServers(cfg, services, health)
	if err != nil {
		return err
	}
	defer s.healthConn.Close()

	errCh := make(chan error, 2)

	lis, err := net.Listen("tcp", cfg.GRPC.Address)
	if err != nil {
		return fmt.Errorf("listen gRPC %s: %w", cfg.GRPC.Address, err)
	}
	go func() { errCh <- s.grpcServer.Serve(lis) }()

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	go health.Run(ctx)

	logger.Get().Info("servers started", "http", cfg.HTTP.Address, "grpc", cfg.GRPC.Address)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.grpcServer.GracefulStop()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		logger.Get().Info("servers stopped")
		return nil
	}
}

func newServers(cfg *config.Config, services Services, health *healthapi.Server) (*Servers, error) {
	grpcSrv := grpc.NewServer()
	health.Register(grpcSrv)

	conn, err := grpc.NewClient(cfg.GRPC.Address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial health gateway: %w", err)
	}
	gateway := runtime.NewServeMux(runtime.WithHealthzEndpoint(healthpb.NewHealthClient(conn)))

	router := NewRouter(cfg, services)
	router.GET("/healthz", gin.WrapH(gateway))

	httpSrv := &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &Servers{
		grpcServer: grpcSrv,
		httpServer: httpSrv,
		healthConn: conn,
	}, nil
}

// NewRouter builds the gin engine serving the REST API under /api.
func NewRouter(cfg *config.Config, services Services) *gin.Engine {
	if cfg.HTTP.GinMode != "" {
		gin.SetMode(cfg.HTTP.GinMode)
	}

	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Recovery(),
		middleware.Metrics(),
	)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if cfg.HTTP.SwaggerDir != "" {
		router.Static("/swagger", cfg.HTTP.SwaggerDir)
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL(swaggerSpec))))
	}

	apiGroup := router.Group("/api")
	if cfg.RateLimit.RequestsPerSecond > 0 {
		apiGroup.Use(middleware.RateLimit(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))
	}

	api.NewCatalogHandler(services.Catalog).Register(apiGroup)
	api.NewFlightHandler(services.Flights).Register(apiGroup.Group("/flights"))
	api.NewOrderHandler(services.Orders).Register(apiGroup.Group("/orders"))

	return router
}
