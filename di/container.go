package di

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/robmiller/expurgate/config"
	"github.com/robmiller/expurgate/domain"
	"github.com/robmiller/expurgate/driver/fs_store_driver"
	"github.com/robmiller/expurgate/driver/key_file_driver"
	"github.com/robmiller/expurgate/driver/pg_store_driver"
	"github.com/robmiller/expurgate/driver/redis_store_driver"
	"github.com/robmiller/expurgate/gateway/cache_store_gateway"
	"github.com/robmiller/expurgate/gateway/image_fetch_gateway"
	"github.com/robmiller/expurgate/port/blob_storage_port"
	"github.com/robmiller/expurgate/port/key_port"
	"github.com/robmiller/expurgate/usecase/eviction_usecase"
	"github.com/robmiller/expurgate/usecase/image_cache_usecase"
	"github.com/robmiller/expurgate/usecase/image_fetch_usecase"
	"github.com/robmiller/expurgate/utils/checksum"
	"github.com/robmiller/expurgate/utils/rate_limiter"
	"github.com/robmiller/expurgate/utils/security"
)

type ApplicationComponents struct {
	Authenticator     *checksum.Authenticator
	CacheStore        *cache_store_gateway.CacheStoreGateway
	HostRateLimiter   *rate_limiter.HostRateLimiter
	ImageFetchUsecase *image_fetch_usecase.ImageFetchUsecase
	EvictionUsecase   *eviction_usecase.EvictionUsecase
	ImageCacheUsecase *image_cache_usecase.ImageCacheUsecase

	closers []func() error
}

// NewKeyProvider returns the key provider configured for cfg.
func NewKeyProvider(cfg *config.Config) *key_file_driver.KeyFileDriver {
	return key_file_driver.NewKeyFileDriver(cfg.Cache.KeyFilePath())
}

// LoadKey reads the shared secret. Callers must treat an error as fatal.
func LoadKey(ctx context.Context, provider key_port.KeyProviderPort) ([]byte, error) {
	return provider.GetKey(ctx)
}

// NewApplicationComponents wires every component for the configured backend.
// The returned components own their connections; call Close when done.
func NewApplicationComponents(ctx context.Context, cfg *config.Config, key []byte) (*ApplicationComponents, error) {
	authenticator, err := checksum.NewAuthenticator(key)
	if err != nil {
		return nil, err
	}

	storage, closers, err := newBlobStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	cacheStore := cache_store_gateway.NewCacheStoreGateway(storage)

	hostRateLimiter := rate_limiter.NewHostRateLimiter(cfg.Fetch.HostInterval)
	imageFetchGateway := image_fetch_gateway.NewImageFetchGateway(
		security.NewSSRFValidator(cfg.Fetch.AllowPrivateNetworks),
		hostRateLimiter,
		cfg.Fetch.Timeout,
		cfg.Fetch.MaxRedirects,
	)

	imageFetchUsecase := image_fetch_usecase.NewImageFetchUsecase(
		imageFetchGateway,
		cacheStore,
		authenticator,
		&domain.ImageFetchOptions{
			MaxSize:      cfg.Cache.MaxImageSize,
			Timeout:      cfg.Fetch.Timeout,
			MaxRedirects: cfg.Fetch.MaxRedirects,
			UserAgent:    cfg.Fetch.UserAgent,
		},
	)

	evictionUsecase := eviction_usecase.NewEvictionUsecase(
		cacheStore,
		cacheStore,
		domain.CacheLimits{MaxFiles: cfg.Cache.MaxFiles, MaxTotalSize: cfg.Cache.MaxTotalSize},
		cfg.Cache.MaxAge,
	)

	imageCacheUsecase := image_cache_usecase.NewImageCacheUsecase(
		authenticator,
		cacheStore,
		imageFetchUsecase,
		evictionUsecase,
		cfg.Cache.MaintenanceTimeout,
	)

	return &ApplicationComponents{
		Authenticator:     authenticator,
		CacheStore:        cacheStore,
		HostRateLimiter:   hostRateLimiter,
		ImageFetchUsecase: imageFetchUsecase,
		EvictionUsecase:   evictionUsecase,
		ImageCacheUsecase: imageCacheUsecase,
		closers:           closers,
	}, nil
}

// Close releases backend connections.
func (c *ApplicationComponents) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

func newBlobStorage(ctx context.Context, cfg *config.Config) (blob_storage_port.BlobStoragePort, []func() error, error) {
	switch cfg.Cache.Backend {
	case config.BackendFilesystem:
		driver, err := fs_store_driver.NewOSStoreDriver(cfg.Cache.Dir)
		if err != nil {
			return nil, nil, fmt.Errorf("open cache directory: %w", err)
		}
		slog.InfoContext(ctx, "using filesystem cache backend", "dir", cfg.Cache.Dir)
		return driver, nil, nil

	case config.BackendPostgres:
		pool, err := pg_store_driver.OpenPool(ctx, cfg.Database.URL, cfg.Database.MaxConnections, cfg.Database.ConnectionTimeout)
		if err != nil {
			return nil, nil, err
		}
		driver := pg_store_driver.NewPGStoreDriver(pool)
		if err := driver.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		slog.InfoContext(ctx, "using postgres cache backend", "max_connections", cfg.Database.MaxConnections)
		return driver, []func() error{func() error { pool.Close(); return nil }}, nil

	case config.BackendRedis:
		driver, err := redis_store_driver.NewRedisStoreDriverWithURL(cfg.Redis.URL, cfg.Redis.KeyPrefix)
		if err != nil {
			return nil, nil, fmt.Errorf("parse redis url: %w", err)
		}
		if err := driver.Ping(ctx); err != nil {
			_ = driver.Close()
			return nil, nil, fmt.Errorf("ping redis: %w", err)
		}
		slog.InfoContext(ctx, "using redis cache backend", "key_prefix", cfg.Redis.KeyPrefix)
		return driver, []func() error{driver.Close}, nil

	default:
		return nil, nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}
