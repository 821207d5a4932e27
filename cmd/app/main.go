package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/airport/config"
	healthapi "github.com/Domenick1991/airport/internal/api/health_service_api"
	"github.com/Domenick1991/airport/internal/bootstrap"
	"github.com/Domenick1991/airport/internal/cache"
	"github.com/Domenick1991/airport/internal/kafka"
	"github.com/Domenick1991/airport/internal/logger"
	"github.com/Domenick1991/airport/internal/repository"
	"github.com/Domenick1991/airport/internal/service/catalog"
	"github.com/Domenick1991/airport/internal/service/flights"
	"github.com/Domenick1991/airport/internal/service/orders"
	"github.com/Domenick1991/airport/internal/validation"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logger.Fatal("load config", "error", err)
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		logger.Fatal("connect postgres", "error", err)
	}
	defer pool.Close()

	if cfg.Database.RunMigrations {
		if err := repository.RunMigrations(ctx, pool); err != nil {
			logger.Fatal("run migrations", "error", err)
		}
	}

	redisCache := cache.NewRedisCache(cfg.Redis, cfg.Cache.FlightsTTL())
	defer redisCache.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	repos := repository.NewRepositories(pool)

	rules := validation.ScheduleRules{
		MinTurnaround: time.Duration(cfg.Scheduling.MinTurnaroundMinutes) * time.Minute,
		MaxIdleGap:    time.Duration(cfg.Scheduling.MaxIdleGapMinutes) * time.Minute,
	}

	services := bootstrap.Services{
		Catalog: catalog.NewCatalogService(repos),
		Flights: flights.NewFlightService(
			repos.Flights,
			repos.Routes,
			repos.Airplanes,
			redisCache,
			producer,
			cfg.Kafka.EventsTopic,
			flights.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
			flights.WithScheduleRules(rules),
		),
		Orders: orders.NewOrderService(
			repos.Orders,
			redisCache,
			producer,
			cfg.Kafka.EventsTopic,
			orders.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		),
	}

	health := healthapi.NewServer(
		time.Duration(cfg.GRPC.HealthCheckSeconds)*time.Second,
		map[string]healthapi.CheckFunc{
			"postgres": pool.Ping,
			"redis":    redisCache.Ping,
			"kafka":    producer.CheckConnection,
		},
	)

	if err := bootstrap.Run(ctx, cfg, services, health); err != nil {
		logger.Fatal("server error", "error", err)
	}
}
