package image_fetch_port

//go:generate go run go.uber.org/mock/mockgen -source=image_fetch_port.go -destination=../../mocks/mock_image_fetch_port.go -package=mocks

import (
	"context"
	"net/url"

	"github.com/robmiller/expurgate/domain"
)

// ImageFetchPort defines the interface for external image fetching operations
type ImageFetchPort interface {
	// FetchImage retrieves the raw payload. It does not judge the content.
	FetchImage(ctx context.Context, imageURL *url.URL, options *domain.ImageFetchOptions) (*domain.ImageFetchResult, error)
}
