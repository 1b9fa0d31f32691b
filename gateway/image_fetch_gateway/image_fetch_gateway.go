package image_fetch_gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/robmiller/expurgate/domain"
	apperrors "github.com/robmiller/expurgate/utils/errors"
	"github.com/robmiller/expurgate/utils/rate_limiter"
	"github.com/robmiller/expurgate/utils/security"
)

// ImageFetchGateway implements the ImageFetchPort interface.
// It only transports bytes; deciding whether they are an acceptable image is
// left to the caller.
type ImageFetchGateway struct {
	httpClient    *http.Client
	ssrfValidator *security.SSRFValidator
	limiter       *rate_limiter.HostRateLimiter
}

// NewImageFetchGateway creates a gateway whose connections are checked by validator.
// limiter may be nil.
func NewImageFetchGateway(validator *security.SSRFValidator, limiter *rate_limiter.HostRateLimiter, timeout time.Duration, maxRedirects int) *ImageFetchGateway {
	return &ImageFetchGateway{
		httpClient:    validator.NewHTTPClient(timeout, maxRedirects),
		ssrfValidator: validator,
		limiter:       limiter,
	}
}

// FetchImage downloads imageURL. Bodies larger than options.MaxSize are not
// read past MaxSize+1 bytes; Size then reports more than MaxSize.
func (g *ImageFetchGateway) FetchImage(ctx context.Context, imageURL *url.URL, options *domain.ImageFetchOptions) (*domain.ImageFetchResult, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if options == nil {
		options = domain.NewImageFetchOptions()
	}

	if err := g.ssrfValidator.ValidateURL(imageURL); err != nil {
		return nil, apperrors.NewInvalidInputError(
			fmt.Sprintf("URL validation failed: %v", err),
			"gateway",
			"ImageFetchGateway",
			"validate_url",
			map[string]interface{}{
				"url": imageURL.String(),
			},
		)
	}

	if g.limiter != nil {
		if err := g.limiter.WaitForURL(ctx, imageURL); err != nil {
			return nil, apperrors.NewRateLimitExceededError("gateway", "ImageFetchGateway", "wait_for_host", err, map[string]interface{}{
				"host": imageURL.Host,
			})
		}
	}

	if options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, options.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL.String(), nil)
	if err != nil {
		return nil, apperrors.NewExternalAPIContextError(
			"failed to create HTTP request",
			"gateway",
			"ImageFetchGateway",
			"create_request",
			err,
			map[string]interface{}{
				"url": imageURL.String(),
			},
		)
	}

	if options.UserAgent != "" {
		req.Header.Set("User-Agent", options.UserAgent)
	}
	req.Header.Set("Accept", "image/*")

	// Shallow copy so the redirect budget can follow the request options while
	// connections stay pooled on the shared transport.
	client := *g.httpClient
	client.CheckRedirect = g.ssrfValidator.RedirectPolicy(options.MaxRedirects)

	resp, err := client.Do(req)
	if err != nil {
		return nil, g.classifyTransportError(imageURL, options, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			slog.DebugContext(ctx, "failed to close response body", "error", closeErr)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperrors.NewExternalServiceUnavailableError(
			fmt.Sprintf("HTTP request failed with status %d", resp.StatusCode),
			"gateway",
			"ImageFetchGateway",
			"http_response",
			fmt.Errorf("status code: %d", resp.StatusCode),
			map[string]interface{}{
				"url":         imageURL.String(),
				"status_code": resp.StatusCode,
			},
		)
	}

	result := &domain.ImageFetchResult{
		URL:         imageURL.String(),
		ContentType: resp.Header.Get("Content-Type"),
		FetchedAt:   time.Now(),
	}

	// A declared length over the limit is enough to refuse without reading.
	if options.MaxSize > 0 && resp.ContentLength > options.MaxSize {
		result.Size = resp.ContentLength
		return result, nil
	}

	body := io.Reader(resp.Body)
	if options.MaxSize > 0 {
		body = io.LimitReader(resp.Body, options.MaxSize+1)
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, g.classifyTransportError(imageURL, options, err)
	}

	result.Data = data
	result.Size = int64(len(data))
	return result, nil
}

func (g *ImageFetchGateway) classifyTransportError(imageURL *url.URL, options *domain.ImageFetchOptions, err error) error {
	errCtx := map[string]interface{}{
		"url": imageURL.String(),
	}

	var validationErr *security.ValidationError
	if errors.As(err, &validationErr) {
		errCtx["block_type"] = validationErr.Type
		return apperrors.NewInvalidInputError("connection blocked by SSRF policy", "gateway", "ImageFetchGateway", "http_request", errCtx)
	}

	if isTimeout(err) {
		errCtx["timeout"] = options.Timeout.String()
		return apperrors.NewOperationTimeoutError("request timeout", "gateway", "ImageFetchGateway", "http_request", err, errCtx)
	}

	if errors.Is(err, security.ErrTooManyRedirects) {
		errCtx["max_redirects"] = options.MaxRedirects
	}

	return apperrors.NewExternalServiceUnavailableError("HTTP request failed", "gateway", "ImageFetchGateway", "http_request", err, errCtx)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
