package config

import (
	"fmt"
	"strings"
)

// validateConfig validates the loaded configuration values
func validateConfig(config *Config) error {
	if err := validateServerConfig(&config.Server); err != nil {
		return fmt.Errorf("server config validation failed: %w", err)
	}

	if err := validateCacheConfig(&config.Cache); err != nil {
		return fmt.Errorf("cache config validation failed: %w", err)
	}

	if err := validateFetchConfig(&config.Fetch); err != nil {
		return fmt.Errorf("fetch config validation failed: %w", err)
	}

	switch config.Cache.Backend {
	case BackendPostgres:
		if err := validateDatabaseConfig(&config.Database); err != nil {
			return fmt.Errorf("database config validation failed: %w", err)
		}
	case BackendRedis:
		if err := validateRedisConfig(&config.Redis); err != nil {
			return fmt.Errorf("redis config validation failed: %w", err)
		}
	}

	if err := validateLoggingConfig(&config.Logging); err != nil {
		return fmt.Errorf("logging config validation failed: %w", err)
	}

	return nil
}

func validateServerConfig(config *ServerConfig) error {
	if config.Port < 1 || config.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", config.Port)
	}

	if config.ReadTimeout <= 0 {
		return fmt.Errorf("timeout values must be positive, got ReadTimeout: %v", config.ReadTimeout)
	}

	if config.WriteTimeout <= 0 {
		return fmt.Errorf("timeout values must be positive, got WriteTimeout: %v", config.WriteTimeout)
	}

	if config.IdleTimeout <= 0 {
		return fmt.Errorf("timeout values must be positive, got IdleTimeout: %v", config.IdleTimeout)
	}

	return nil
}

func validateCacheConfig(config *CacheConfig) error {
	switch config.Backend {
	case BackendFilesystem, BackendPostgres, BackendRedis:
	default:
		return fmt.Errorf("backend must be one of fs, postgres, redis, got %q", config.Backend)
	}

	if config.Backend == BackendFilesystem && strings.TrimSpace(config.Dir) == "" {
		return fmt.Errorf("cache dir is required for the fs backend")
	}

	if config.MaxAge <= 0 {
		return fmt.Errorf("max age must be positive, got %v", config.MaxAge)
	}

	if config.MaxFiles < 1 {
		return fmt.Errorf("max files must be at least 1, got %d", config.MaxFiles)
	}

	if config.MaxTotalSize < 1 {
		return fmt.Errorf("max total size must be at least 1 byte, got %d", config.MaxTotalSize)
	}

	if config.MaxImageSize < 1 {
		return fmt.Errorf("max image size must be at least 1 byte, got %d", config.MaxImageSize)
	}

	if config.MaxImageSize > config.MaxTotalSize {
		return fmt.Errorf("max image size (%d) cannot exceed max total size (%d)", config.MaxImageSize, config.MaxTotalSize)
	}

	if config.SweepInterval < 0 {
		return fmt.Errorf("sweep interval cannot be negative, got %v", config.SweepInterval)
	}

	if config.MaintenanceTimeout <= 0 {
		return fmt.Errorf("maintenance timeout must be positive, got %v", config.MaintenanceTimeout)
	}

	return nil
}

func validateFetchConfig(config *FetchConfig) error {
	if config.Timeout <= 0 {
		return fmt.Errorf("fetch timeout must be positive, got %v", config.Timeout)
	}

	if config.MaxRedirects < 0 || config.MaxRedirects > 20 {
		return fmt.Errorf("max redirects must be between 0 and 20, got %d", config.MaxRedirects)
	}

	if config.HostInterval < 0 {
		return fmt.Errorf("host interval cannot be negative, got %v", config.HostInterval)
	}

	return nil
}

func validateDatabaseConfig(config *DatabaseConfig) error {
	if config.URL == "" {
		return fmt.Errorf("DATABASE_URL is required for the postgres backend")
	}

	if config.MaxConnections < 1 {
		return fmt.Errorf("max connections must be at least 1, got %d", config.MaxConnections)
	}

	if config.ConnectionTimeout <= 0 {
		return fmt.Errorf("connection timeout must be positive, got %v", config.ConnectionTimeout)
	}

	return nil
}

func validateRedisConfig(config *RedisConfig) error {
	if config.URL == "" {
		return fmt.Errorf("REDIS_URL is required for the redis backend")
	}

	if config.KeyPrefix == "" {
		return fmt.Errorf("key prefix cannot be empty")
	}

	return nil
}

func validateLoggingConfig(config *LoggingConfig) error {
	validLevels := []string{"debug", "info", "warn", "error"}
	levelValid := false
	for _, level := range validLevels {
		if strings.ToLower(config.Level) == level {
			levelValid = true
			break
		}
	}
	if !levelValid {
		return fmt.Errorf("invalid log level: %s, must be one of: %v", config.Level, validLevels)
	}

	validFormats := []string{"json", "text"}
	formatValid := false
	for _, format := range validFormats {
		if strings.ToLower(config.Format) == format {
			formatValid = true
			break
		}
	}
	if !formatValid {
		return fmt.Errorf("invalid log format: %s, must be one of: %v", config.Format, validFormats)
	}

	return nil
}
