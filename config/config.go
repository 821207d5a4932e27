package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	GRPC       GRPCConfig       `yaml:"grpc"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Kafka      KafkaConfig      `yaml:"kafka"`
	Cache      CacheConfig      `yaml:"cache"`
	Scheduling SchedulingConfig `yaml:"scheduling"`
	Log        LogConfig        `yaml:"log"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
}

type HTTPConfig struct {
	Address    string `yaml:"address"`
	SwaggerDir string `yaml:"swagger_dir"`
	GinMode    string `yaml:"gin_mode"`
}

type GRPCConfig struct {
	Address            string `yaml:"address"`
	HealthCheckSeconds int    `yaml:"health_check_seconds"`
}

type DatabaseConfig struct {
	Host          string `yaml:"host"`
	Port          int    `yaml:"port"`
	User          string `yaml:"user"`
	Password      string `yaml:"password"`
	Name          string `yaml:"name"`
	SSLMode       string `yaml:"ssl_mode"`
	RunMigrations bool   `yaml:"run_migrations"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	EventsTopic        string   `yaml:"events_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

type CacheConfig struct {
	FlightsTTLSeconds int `yaml:"flights_ttl_seconds"`
}

func (c CacheConfig) FlightsTTL() time.Duration {
	return time.Duration(c.FlightsTTLSeconds) * time.Second
}

type SchedulingConfig struct {
	MinTurnaroundMinutes int `yaml:"min_turnaround_minutes"`
	MaxIdleGapMinutes    int `yaml:"max_idle_gap_minutes"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// LoadConfig reads the YAML file at path. Values of the form ${VAR} are
// expanded from the environment, which is first populated from .env when
// that file exists.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// Default returns the configuration used for keys missing from the file.
func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{Address: ":8080", GinMode: "release"},
		GRPC: GRPCConfig{Address: ":9090", HealthCheckSeconds: 10},
		Database: DatabaseConfig{
			Host:          "localhost",
			Port:          5432,
			SSLMode:       "disable",
			RunMigrations: true,
		},
		Redis: RedisConfig{Addr: "localhost:6379"},
		Kafka: KafkaConfig{
			EventsTopic:        "airport.events",
			NotificationsTopic: "airport.notifications",
			GroupID:            "airport-worker",
		},
		Cache:      CacheConfig{FlightsTTLSeconds: 60},
		Scheduling: SchedulingConfig{MinTurnaroundMinutes: 180, MaxIdleGapMinutes: 24 * 60},
		Log:        LogConfig{Level: "info", Format: "json"},
		RateLimit:  RateLimitConfig{RequestsPerSecond: 100, Burst: 200},
	}
}
