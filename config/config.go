package config

import (
	"path/filepath"
	"time"
)

const (
	BackendFilesystem = "fs"
	BackendPostgres   = "postgres"
	BackendRedis      = "redis"

	// DefaultKeyFileName is the key file looked up in the cache directory when
	// CACHE_KEY_FILE is not set.
	DefaultKeyFileName = "secret.key"
)

type Config struct {
	Server    ServerConfig    `json:"server"`
	Cache     CacheConfig     `json:"cache"`
	Fetch     FetchConfig     `json:"fetch"`
	Database  DatabaseConfig  `json:"database"`
	Redis     RedisConfig     `json:"redis"`
	Logging   LoggingConfig   `json:"logging"`
	Telemetry TelemetryConfig `json:"telemetry"`
}

type ServerConfig struct {
	Port            int           `json:"port" env:"SERVER_PORT" default:"9000"`
	ReadTimeout     time.Duration `json:"read_timeout" env:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `json:"write_timeout" env:"SERVER_WRITE_TIMEOUT" default:"30s"`
	IdleTimeout     time.Duration `json:"idle_timeout" env:"SERVER_IDLE_TIMEOUT" default:"120s"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" default:"10s"`
}

type CacheConfig struct {
	Backend      string        `json:"backend" env:"CACHE_BACKEND" default:"fs"`
	Dir          string        `json:"dir" env:"CACHE_DIR" default:"./cache"`
	KeyFile      string        `json:"-" env:"CACHE_KEY_FILE"`
	MaxAge       time.Duration `json:"max_age" env:"CACHE_MAX_AGE" default:"168h"`
	MaxFiles     int           `json:"max_files" env:"CACHE_MAX_FILES" default:"1024"`
	MaxTotalSize int64         `json:"max_total_size" env:"CACHE_MAX_TOTAL_SIZE" default:"268435456"`
	MaxImageSize int64         `json:"max_image_size" env:"CACHE_MAX_IMAGE_SIZE" default:"512000"`

	// Background sweep in addition to the per-request one. Zero disables it.
	SweepInterval      time.Duration `json:"sweep_interval" env:"CACHE_SWEEP_INTERVAL" default:"10m"`
	MaintenanceTimeout time.Duration `json:"maintenance_timeout" env:"CACHE_MAINTENANCE_TIMEOUT" default:"30s"`
}

type FetchConfig struct {
	Timeout              time.Duration `json:"timeout" env:"FETCH_TIMEOUT" default:"10s"`
	MaxRedirects         int           `json:"max_redirects" env:"FETCH_MAX_REDIRECTS" default:"5"`
	UserAgent            string        `json:"user_agent" env:"FETCH_USER_AGENT" default:"expurgate/1.0 (+https://github.com/robmiller/expurgate)"`
	HostInterval         time.Duration `json:"host_interval" env:"FETCH_HOST_INTERVAL" default:"250ms"`
	AllowPrivateNetworks bool          `json:"allow_private_networks" env:"FETCH_ALLOW_PRIVATE_NETWORKS" default:"false"`
}

type DatabaseConfig struct {
	URL               string        `json:"-" env:"DATABASE_URL"`
	MaxConnections    int           `json:"max_connections" env:"DB_MAX_CONNECTIONS" default:"10"`
	ConnectionTimeout time.Duration `json:"connection_timeout" env:"DB_CONNECTION_TIMEOUT" default:"10s"`
}

type RedisConfig struct {
	URL       string `json:"-" env:"REDIS_URL" default:"redis://localhost:6379/0"`
	KeyPrefix string `json:"key_prefix" env:"REDIS_KEY_PREFIX" default:"imagecache:"`
}

type LoggingConfig struct {
	Level  string `json:"level" env:"LOG_LEVEL" default:"info"`
	Format string `json:"format" env:"LOG_FORMAT" default:"json"`
}

type TelemetryConfig struct {
	Enabled      bool   `json:"enabled" env:"OTEL_ENABLED" default:"false"`
	ServiceName  string `json:"service_name" env:"OTEL_SERVICE_NAME" default:"expurgate"`
	OTLPEndpoint string `json:"otlp_endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT" default:"http://localhost:4318"`
}

// KeyFilePath returns the configured key file or the default one inside the cache directory.
func (c CacheConfig) KeyFilePath() string {
	if c.KeyFile != "" {
		return c.KeyFile
	}
	return filepath.Join(c.Dir, DefaultKeyFileName)
}

// NewConfig loads and validates configuration from the environment.
func NewConfig() (*Config, error) {
	config := &Config{}

	if err := loadFromEnvironment(config); err != nil {
		return nil, err
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}
