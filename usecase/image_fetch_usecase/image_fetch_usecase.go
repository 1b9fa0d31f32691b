package image_fetch_usecase

import (
	"context"
	"time"

	"github.com/robmiller/expurgate/domain"
	"github.com/robmiller/expurgate/port/cache_store_port"
	"github.com/robmiller/expurgate/port/checksum_port"
	"github.com/robmiller/expurgate/port/image_fetch_port"
	apperrors "github.com/robmiller/expurgate/utils/errors"
	"github.com/robmiller/expurgate/utils/metrics"
)

// ImageFetchUsecase retrieves a remote image, decides whether it may be cached
// and stores it under the URL's checksum.
type ImageFetchUsecase struct {
	imageFetchPort image_fetch_port.ImageFetchPort
	store          cache_store_port.CacheStorePort
	checksum       checksum_port.ChecksumPort
	options        *domain.ImageFetchOptions
}

// NewImageFetchUsecase creates a new ImageFetchUsecase. options.MaxSize is the
// largest payload that will be accepted.
func NewImageFetchUsecase(
	imageFetchPort image_fetch_port.ImageFetchPort,
	store cache_store_port.CacheStorePort,
	checksum checksum_port.ChecksumPort,
	options *domain.ImageFetchOptions,
) *ImageFetchUsecase {
	if options == nil {
		options = domain.NewImageFetchOptions()
	}
	return &ImageFetchUsecase{
		imageFetchPort: imageFetchPort,
		store:          store,
		checksum:       checksum,
		options:        options,
	}
}

// Fetch downloads imageURL, validates the payload and writes it to the cache.
// Nothing is written unless every check passes.
func (u *ImageFetchUsecase) Fetch(ctx context.Context, imageURL string) (*domain.CacheEntry, error) {
	parsedURL, err := domain.ValidateImageURL(imageURL)
	if err != nil {
		return nil, apperrors.NewInvalidInputError(err.Error(), "usecase", "ImageFetchUsecase", "Fetch", map[string]interface{}{
			"url": imageURL,
		})
	}

	start := time.Now()
	result, err := u.imageFetchPort.FetchImage(ctx, parsedURL, u.options)
	if err != nil {
		metrics.RecordFetch(apperrors.Reason(err), time.Since(start), 0)
		return nil, err
	}

	if err := u.validate(imageURL, result); err != nil {
		metrics.RecordFetch(apperrors.Reason(err), time.Since(start), result.Size)
		return nil, err
	}
	metrics.RecordFetch("ok", time.Since(start), result.Size)

	entry := &domain.CacheEntry{
		Checksum:  u.checksum.Derive(imageURL),
		MimeType:  domain.NormalizeMediaType(result.ContentType),
		ImageData: result.Data,
	}

	if err := u.store.Write(ctx, entry); err != nil {
		return nil, apperrors.NewStorageUnavailableError("failed to write cache entry", "usecase", "ImageFetchUsecase", "Fetch", err, map[string]interface{}{
			"url":      imageURL,
			"checksum": entry.Checksum,
		})
	}

	return entry, nil
}

// validate applies the payload checks in a fixed order: size, then type, then content.
func (u *ImageFetchUsecase) validate(imageURL string, result *domain.ImageFetchResult) error {
	errCtx := map[string]interface{}{
		"url":          imageURL,
		"content_type": result.ContentType,
		"size":         result.Size,
	}

	if result.Size > u.options.MaxSize || int64(len(result.Data)) > u.options.MaxSize {
		errCtx["max_size"] = u.options.MaxSize
		return apperrors.NewImageTooLargeError("usecase", "ImageFetchUsecase", "validate", errCtx)
	}
	if !domain.IsValidImageContentType(result.ContentType) {
		return apperrors.NewInvalidImageTypeError("usecase", "ImageFetchUsecase", "validate", errCtx)
	}
	if len(result.Data) == 0 {
		return apperrors.NewInvalidImageContentError("usecase", "ImageFetchUsecase", "validate", errCtx)
	}
	return nil
}
