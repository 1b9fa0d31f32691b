package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors. These are base errors that can be used with errors.Is() and errors.As()
var (
	// Startup
	ErrSecretKeyUnavailable = errors.New("secret key unavailable")

	// Request authentication
	ErrInvalidInput     = errors.New("invalid input")
	ErrChecksumMismatch = errors.New("checksum mismatch")

	// Cache reads; callers treat both as a miss
	ErrCacheEntryNotFound = errors.New("cache entry not found")
	ErrCacheEntryCorrupt  = errors.New("cache entry corrupt")

	// Fetch validation
	ErrImageTooLarge       = errors.New("image too large")
	ErrInvalidImageType    = errors.New("invalid image type")
	ErrInvalidImageContent = errors.New("invalid image content")

	ErrExternalServiceUnavailable = errors.New("external service unavailable")
	ErrOperationTimeout           = errors.New("operation timeout")
	ErrRateLimitExceeded          = errors.New("rate limit exceeded")
	ErrStorageUnavailable         = errors.New("storage unavailable")
)

// IsSecretKeyUnavailable checks if the secret key could not be loaded
func IsSecretKeyUnavailable(err error) bool {
	return errors.Is(err, ErrSecretKeyUnavailable)
}

// IsAuthenticationError checks if a request failed before any cache or network work
func IsAuthenticationError(err error) bool {
	return errors.Is(err, ErrChecksumMismatch) || errors.Is(err, ErrInvalidInput)
}

// IsCacheMiss reports whether a cache read error means the entry must be (re)fetched
func IsCacheMiss(err error) bool {
	return errors.Is(err, ErrCacheEntryNotFound) || errors.Is(err, ErrCacheEntryCorrupt)
}

// IsCacheEntryCorrupt checks if a stored record failed to decode
func IsCacheEntryCorrupt(err error) bool {
	return errors.Is(err, ErrCacheEntryCorrupt)
}

// IsFetchValidationError checks if a fetched payload was rejected
func IsFetchValidationError(err error) bool {
	return errors.Is(err, ErrImageTooLarge) ||
		errors.Is(err, ErrInvalidImageType) ||
		errors.Is(err, ErrInvalidImageContent)
}

// IsTimeoutError checks if an error represents a timeout condition
func IsTimeoutError(err error) bool {
	return errors.Is(err, ErrOperationTimeout)
}

// Reason returns a short label for metrics and logs.
func Reason(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrChecksumMismatch):
		return "checksum_mismatch"
	case errors.Is(err, ErrImageTooLarge):
		return "too_large"
	case errors.Is(err, ErrInvalidImageType):
		return "invalid_type"
	case errors.Is(err, ErrInvalidImageContent):
		return "invalid_content"
	case errors.Is(err, ErrOperationTimeout):
		return "timeout"
	case errors.Is(err, ErrRateLimitExceeded):
		return "rate_limited"
	case errors.Is(err, ErrExternalServiceUnavailable):
		return "upstream"
	case errors.Is(err, ErrCacheEntryCorrupt):
		return "corrupt"
	case errors.Is(err, ErrCacheEntryNotFound):
		return "not_found"
	case errors.Is(err, ErrStorageUnavailable):
		return "storage"
	default:
		return "unknown"
	}
}

func wrapSentinel(sentinel, cause error) error {
	if cause != nil {
		return fmt.Errorf("%w: %w", sentinel, cause)
	}
	return fmt.Errorf("%w", sentinel)
}

// NewSecretKeyUnavailableError creates an AppContextError that wraps ErrSecretKeyUnavailable
func NewSecretKeyUnavailableError(layer, component, operation string, cause error, context map[string]interface{}) *AppContextError {
	return NewAppContextError(
		"SECRET_KEY_UNAVAILABLE",
		"secret key unavailable",
		layer,
		component,
		operation,
		wrapSentinel(ErrSecretKeyUnavailable, cause),
		context,
	)
}

// NewChecksumMismatchError creates an AppContextError that wraps ErrChecksumMismatch
func NewChecksumMismatchError(layer, component, operation string, context map[string]interface{}) *AppContextError {
	return NewAppContextError(
		"CHECKSUM_MISMATCH",
		"checksum does not authorize url",
		layer,
		component,
		operation,
		wrapSentinel(ErrChecksumMismatch, nil),
		context,
	)
}

// NewInvalidInputError creates an AppContextError that wraps ErrInvalidInput
func NewInvalidInputError(message, layer, component, operation string, context map[string]interface{}) *AppContextError {
	return NewAppContextError(
		"VALIDATION_ERROR",
		message,
		layer,
		component,
		operation,
		wrapSentinel(ErrInvalidInput, nil),
		context,
	)
}

// NewCacheEntryNotFoundError creates an AppContextError that wraps ErrCacheEntryNotFound
func NewCacheEntryNotFoundError(layer, component, operation string, context map[string]interface{}) *AppContextError {
	return NewAppContextError(
		"CACHE_ENTRY_NOT_FOUND",
		"cache entry not found",
		layer,
		component,
		operation,
		wrapSentinel(ErrCacheEntryNotFound, nil),
		context,
	)
}

// NewCacheEntryCorruptError creates an AppContextError that wraps ErrCacheEntryCorrupt
func NewCacheEntryCorruptError(layer, component, operation string, cause error, context map[string]interface{}) *AppContextError {
	return NewAppContextError(
		"CACHE_ENTRY_CORRUPT",
		"cache entry corrupt",
		layer,
		component,
		operation,
		wrapSentinel(ErrCacheEntryCorrupt, cause),
		context,
	)
}

// NewImageTooLargeError creates an AppContextError that wraps ErrImageTooLarge
func NewImageTooLargeError(layer, component, operation string, context map[string]interface{}) *AppContextError {
	return NewAppContextError(
		"IMAGE_TOO_LARGE",
		"image exceeds maximum size",
		layer,
		component,
		operation,
		wrapSentinel(ErrImageTooLarge, nil),
		context,
	)
}

// NewInvalidImageTypeError creates an AppContextError that wraps ErrInvalidImageType
func NewInvalidImageTypeError(layer, component, operation string, context map[string]interface{}) *AppContextError {
	return NewAppContextError(
		"INVALID_IMAGE_TYPE",
		"content type is not an image",
		layer,
		component,
		operation,
		wrapSentinel(ErrInvalidImageType, nil),
		context,
	)
}

// NewInvalidImageContentError creates an AppContextError that wraps ErrInvalidImageContent
func NewInvalidImageContentError(layer, component, operation string, context map[string]interface{}) *AppContextError {
	return NewAppContextError(
		"INVALID_IMAGE_CONTENT",
		"image body is empty",
		layer,
		component,
		operation,
		wrapSentinel(ErrInvalidImageContent, nil),
		context,
	)
}

// NewExternalServiceUnavailableError creates an AppContextError that wraps ErrExternalServiceUnavailable
func NewExternalServiceUnavailableError(message, layer, component, operation string, cause error, context map[string]interface{}) *AppContextError {
	if context == nil {
		context = make(map[string]interface{})
	}
	context["error_type"] = "external_api"
	return NewAppContextError(
		"EXTERNAL_API_ERROR",
		message,
		layer,
		component,
		operation,
		wrapSentinel(ErrExternalServiceUnavailable, cause),
		context,
	)
}

// NewOperationTimeoutError creates an AppContextError that wraps ErrOperationTimeout
func NewOperationTimeoutError(message, layer, component, operation string, cause error, context map[string]interface{}) *AppContextError {
	if context == nil {
		context = make(map[string]interface{})
	}
	context["error_type"] = "timeout"
	return NewAppContextError(
		"TIMEOUT_ERROR",
		message,
		layer,
		component,
		operation,
		wrapSentinel(ErrOperationTimeout, cause),
		context,
	)
}

// NewRateLimitExceededError creates an AppContextError that wraps ErrRateLimitExceeded
func NewRateLimitExceededError(layer, component, operation string, cause error, context map[string]interface{}) *AppContextError {
	return NewAppContextError(
		"RATE_LIMIT_ERROR",
		"rate limit exceeded",
		layer,
		component,
		operation,
		wrapSentinel(ErrRateLimitExceeded, cause),
		context,
	)
}

// NewStorageUnavailableError creates an AppContextError that wraps ErrStorageUnavailable
func NewStorageUnavailableError(message, layer, component, operation string, cause error, context map[string]interface{}) *AppContextError {
	return NewStorageContextError(message, layer, component, operation, wrapSentinel(ErrStorageUnavailable, cause), context)
}
