package image_cache_usecase

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/robmiller/expurgate/domain"
	"github.com/robmiller/expurgate/port/cache_store_port"
	"github.com/robmiller/expurgate/port/checksum_port"
	"github.com/robmiller/expurgate/usecase/eviction_usecase"
	"github.com/robmiller/expurgate/usecase/image_fetch_usecase"
	apperrors "github.com/robmiller/expurgate/utils/errors"
	"github.com/robmiller/expurgate/utils/logger"
	"github.com/robmiller/expurgate/utils/metrics"
)

// ImageCacheUsecase ties authentication, the cache store, fetching and
// maintenance together for a single image request.
type ImageCacheUsecase struct {
	checksum           checksum_port.ChecksumPort
	store              cache_store_port.CacheStorePort
	fetcher            *image_fetch_usecase.ImageFetchUsecase
	eviction           *eviction_usecase.EvictionUsecase
	maintenanceTimeout time.Duration
	group              singleflight.Group
	now                func() time.Time
	log                *logger.ContextLogger
}

func NewImageCacheUsecase(
	checksum checksum_port.ChecksumPort,
	store cache_store_port.CacheStorePort,
	fetcher *image_fetch_usecase.ImageFetchUsecase,
	eviction *eviction_usecase.EvictionUsecase,
	maintenanceTimeout time.Duration,
) *ImageCacheUsecase {
	return &ImageCacheUsecase{
		checksum:           checksum,
		store:              store,
		fetcher:            fetcher,
		eviction:           eviction,
		maintenanceTimeout: maintenanceTimeout,
		now:                time.Now,
		log:                logger.NewContextLogger(slog.Default()),
	}
}

// Serve authenticates the request and returns the image for imageURL.
// An unauthenticated request never reaches the store or the network.
func (u *ImageCacheUsecase) Serve(ctx context.Context, imageURL, checksum string) (*domain.CachedImage, error) {
	start := time.Now()

	image, err := u.serve(ctx, imageURL, checksum)
	switch {
	case err != nil:
		metrics.RecordRequest("rejected", apperrors.Reason(err), time.Since(start))
	case image.Fetched:
		metrics.RecordRequest("fetched", "none", time.Since(start))
	default:
		metrics.RecordRequest("hit", "none", time.Since(start))
	}
	return image, err
}

func (u *ImageCacheUsecase) serve(ctx context.Context, imageURL, checksum string) (*domain.CachedImage, error) {
	if imageURL == "" || checksum == "" {
		return nil, apperrors.NewInvalidInputError("url and checksum are required", "usecase", "ImageCacheUsecase", "Serve", map[string]interface{}{
			"has_url":      imageURL != "",
			"has_checksum": checksum != "",
		})
	}

	if !u.checksum.Validate(imageURL, checksum) {
		return nil, apperrors.NewChecksumMismatchError("usecase", "ImageCacheUsecase", "Serve", map[string]interface{}{
			"url": imageURL,
		})
	}

	return u.GetImage(ctx, imageURL)
}

// GetImage returns the cached image for imageURL, fetching and storing it on a miss.
// Concurrent misses for the same URL share one fetch.
func (u *ImageCacheUsecase) GetImage(ctx context.Context, imageURL string) (*domain.CachedImage, error) {
	checksum := u.checksum.Derive(imageURL)
	ctx = logger.WithChecksum(ctx, checksum)

	entry, err := u.store.Read(ctx, checksum)
	if err == nil {
		return toCachedImage(entry, false), nil
	}
	u.logReadFailure(ctx, err)

	// The shared fetch outlives any single caller; FETCH_TIMEOUT bounds it.
	flightCtx := context.WithoutCancel(ctx)
	leader := false
	v, err, _ := u.group.Do(checksum, func() (interface{}, error) {
		leader = true
		if _, err := u.fetcher.Fetch(flightCtx, imageURL); err != nil {
			return nil, err
		}
		// Serve what the store holds so a hit and a miss return identical bytes.
		return u.store.Read(flightCtx, checksum)
	})
	if err != nil {
		return nil, err
	}

	return toCachedImage(v.(*domain.CacheEntry), leader), nil
}

// AfterResponse runs cache maintenance once the response has been sent:
// one-in-one-out eviction when the request stored a new entry, then the
// expiry sweep. It runs even when the request failed and never reports errors.
func (u *ImageCacheUsecase) AfterResponse(ctx context.Context, image *domain.CachedImage) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), u.maintenanceTimeout)
	defer cancel()
	ctx = logger.WithOperation(ctx, "after_response")

	if image != nil && image.Fetched {
		if _, err := u.eviction.EnforceCapacity(ctx); err != nil {
			metrics.RecordError("enforce_capacity", apperrors.Reason(err))
			u.log.WithContext(ctx).WarnContext(ctx, "capacity enforcement failed", "error", err)
		}
	}

	if _, err := u.eviction.Sweep(ctx, u.now()); err != nil {
		metrics.RecordError("sweep", apperrors.Reason(err))
		u.log.WithContext(ctx).WarnContext(ctx, "expiry sweep failed", "error", err)
	}
}

func (u *ImageCacheUsecase) logReadFailure(ctx context.Context, err error) {
	switch {
	case apperrors.IsCacheEntryCorrupt(err):
		u.log.WithContext(ctx).WarnContext(ctx, "cache entry unreadable, refetching", "error", err)
	case apperrors.IsCacheMiss(err):
		u.log.WithContext(ctx).DebugContext(ctx, "cache miss")
	default:
		metrics.RecordError("cache_read", apperrors.Reason(err))
		u.log.WithContext(ctx).ErrorContext(ctx, "cache read failed, treating as miss", "error", err)
	}
}

func toCachedImage(entry *domain.CacheEntry, fetched bool) *domain.CachedImage {
	return &domain.CachedImage{
		Checksum: entry.Checksum,
		MimeType: entry.MimeType,
		Data:     entry.ImageData,
		Fetched:  fetched,
	}
}
